package easel

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a visual effect baked into a node's offscreen cache.
type Filter interface {
	// Apply renders src into dst with the effect applied. src and dst
	// have the same dimensions.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels the effect needs around the
	// cached region on every side (blur radius etc). Zero for effects
	// that stay within the source bounds.
	Padding() int
}

// Color channel remapping runs through a Kage shader. Ebitengine stores
// premultiplied alpha; the shader un-premultiplies before applying the
// multipliers and offsets.
const colorFilterShaderSrc = `//kage:unit pixels
package main

var Mult vec4
var Offset vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	c = c*Mult + Offset
	c = clamp(c, 0, 1)
	return vec4(c.rgb*c.a, c.a)
}
`

// lazy shader compile (no sync.Once, single rendering goroutine)
var colorFilterShader *ebiten.Shader

func ensureColorFilterShader() *ebiten.Shader {
	if colorFilterShader == nil {
		s, err := ebiten.NewShader([]byte(colorFilterShaderSrc))
		if err != nil {
			panic("easel: failed to compile color filter shader: " + err.Error())
		}
		colorFilterShader = s
	}
	return colorFilterShader
}

// ColorFilter multiplies and offsets each color channel. Multipliers of
// 1 and offsets of 0 pass the channel through unchanged; offsets are in
// [-1, 1] of channel range.
type ColorFilter struct {
	RedMultiplier   float64
	GreenMultiplier float64
	BlueMultiplier  float64
	AlphaMultiplier float64
	RedOffset       float64
	GreenOffset     float64
	BlueOffset      float64
	AlphaOffset     float64

	uniforms  map[string]any
	multF32   [4]float32
	offsetF32 [4]float32
	shaderOp  ebiten.DrawRectShaderOptions
}

// NewColorFilter creates a pass-through color filter.
func NewColorFilter() *ColorFilter {
	f := &ColorFilter{
		RedMultiplier:   1,
		GreenMultiplier: 1,
		BlueMultiplier:  1,
		AlphaMultiplier: 1,
		uniforms:        make(map[string]any, 2),
	}
	// Persistent slice headers into the float32 buffers keep Apply
	// allocation-free.
	f.uniforms["Mult"] = f.multF32[:]
	f.uniforms["Offset"] = f.offsetF32[:]
	return f
}

// Apply remaps src's channels into dst.
func (f *ColorFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureColorFilterShader()
	f.multF32[0] = float32(f.RedMultiplier)
	f.multF32[1] = float32(f.GreenMultiplier)
	f.multF32[2] = float32(f.BlueMultiplier)
	f.multF32[3] = float32(f.AlphaMultiplier)
	f.offsetF32[0] = float32(f.RedOffset)
	f.offsetF32[1] = float32(f.GreenOffset)
	f.offsetF32[2] = float32(f.BlueOffset)
	f.offsetF32[3] = float32(f.AlphaOffset)

	b := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), shader, &f.shaderOp)
}

// Padding returns 0; channel remapping stays within the source bounds.
func (f *ColorFilter) Padding() int { return 0 }

// BoxBlurFilter softens the image by iterative half-resolution
// downscale/upscale passes; bilinear filtering during each draw does
// the averaging, so no shader is needed. The effective radius is the
// larger of BlurX and BlurY; Quality repeats the whole chain for a
// smoother falloff.
type BoxBlurFilter struct {
	BlurX   float64
	BlurY   float64
	Quality int

	temps []*ebiten.Image
	imgOp ebiten.DrawImageOptions
}

// NewBoxBlurFilter creates a blur filter. Quality below 1 is treated
// as 1.
func NewBoxBlurFilter(blurX, blurY float64, quality int) *BoxBlurFilter {
	return &BoxBlurFilter{BlurX: blurX, BlurY: blurY, Quality: quality}
}

func (f *BoxBlurFilter) radius() int {
	return int(math.Ceil(math.Max(f.BlurX, f.BlurY)))
}

// Padding returns the blur radius times quality, the reach of the
// largest smear.
func (f *BoxBlurFilter) Padding() int {
	q := f.Quality
	if q < 1 {
		q = 1
	}
	return f.radius() * q
}

// Apply renders the blur from src into dst.
func (f *BoxBlurFilter) Apply(src, dst *ebiten.Image) {
	radius := f.radius()
	if radius <= 0 {
		f.imgOp.GeoM.Reset()
		f.imgOp.Filter = ebiten.FilterNearest
		dst.DrawImage(src, &f.imgOp)
		return
	}

	passes := int(math.Ceil(math.Log2(float64(radius))))
	if passes < 1 {
		passes = 1
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	// Grow or shrink the temp chain to match the pass count.
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	quality := f.Quality
	if quality < 1 {
		quality = 1
	}

	op := &f.imgOp
	op.Filter = ebiten.FilterLinear

	current := src
	for q := 0; q < quality; q++ {
		// Downscale chain, halving each pass.
		dw, dh := w, h
		for i := 0; i < passes; i++ {
			dw = max(dw/2, 1)
			dh = max(dh/2, 1)
			t := f.temps[i]
			if t == nil || t.Bounds().Dx() != dw || t.Bounds().Dy() != dh {
				if t != nil {
					t.Deallocate()
				}
				t = ebiten.NewImage(dw, dh)
				f.temps[i] = t
			} else {
				t.Clear()
			}
			op.GeoM.Reset()
			op.GeoM.Scale(float64(dw)/float64(current.Bounds().Dx()), float64(dh)/float64(current.Bounds().Dy()))
			t.DrawImage(current, op)
			current = t
		}

		// Upscale back through the chain.
		for i := passes - 2; i >= 0; i-- {
			t := f.temps[i]
			t.Clear()
			op.GeoM.Reset()
			op.GeoM.Scale(float64(t.Bounds().Dx())/float64(current.Bounds().Dx()), float64(t.Bounds().Dy())/float64(current.Bounds().Dy()))
			t.DrawImage(current, op)
			current = t
		}
	}

	op.GeoM.Reset()
	op.GeoM.Scale(float64(dst.Bounds().Dx())/float64(current.Bounds().Dx()), float64(dst.Bounds().Dy())/float64(current.Bounds().Dy()))
	dst.DrawImage(current, op)
}
