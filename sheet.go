package easel

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// sequenceRange is a named window of frames. Next chains playback:
// empty means stop on End, a name (possibly the sequence's own) selects
// the sequence to continue with.
type sequenceRange struct {
	Start, End int
	Next       string
}

// SpriteSheet is a grid of equally sized frames packed left to right,
// top to bottom in a single image, plus optional named frame sequences.
type SpriteSheet struct {
	Image       *ebiten.Image
	FrameWidth  int
	FrameHeight int
	// TotalFrames bounds frame indices; the last grid row may be
	// partially used.
	TotalFrames int
	// Loop selects whether playback past the last frame wraps to 0
	// (when no named sequence directs it).
	Loop bool

	sequences map[string]sequenceRange
}

// NewSpriteSheet describes a frame grid over img. totalFrames of 0
// means every full grid cell. Panics on a non-positive frame size.
func NewSpriteSheet(img *ebiten.Image, frameWidth, frameHeight, totalFrames int, loop bool) *SpriteSheet {
	if frameWidth < 1 || frameHeight < 1 {
		panic("easel: NewSpriteSheet called with non-positive frame size")
	}
	s := &SpriteSheet{
		Image:       img,
		FrameWidth:  frameWidth,
		FrameHeight: frameHeight,
		TotalFrames: totalFrames,
		Loop:        loop,
	}
	if s.TotalFrames == 0 && img != nil {
		b := img.Bounds()
		s.TotalFrames = (b.Dx() / frameWidth) * (b.Dy() / frameHeight)
	}
	return s
}

// DefineSequence registers a named frame window. next chains into
// another sequence when playback passes end; empty stops there. Panics
// on an out-of-range or inverted window.
func (s *SpriteSheet) DefineSequence(name string, start, end int, next string) *SpriteSheet {
	if start < 0 || end >= s.TotalFrames || start > end {
		panic(fmt.Sprintf("easel: DefineSequence %q window [%d, %d] out of range (total %d)", name, start, end, s.TotalFrames))
	}
	if s.sequences == nil {
		s.sequences = make(map[string]sequenceRange)
	}
	s.sequences[name] = sequenceRange{Start: start, End: end, Next: next}
	return s
}

// sequence looks up a named window.
func (s *SpriteSheet) sequence(name string) (sequenceRange, bool) {
	r, ok := s.sequences[name]
	return r, ok
}

// FrameRect returns the source rectangle of a frame within the sheet
// image. Out-of-range indices clamp to the valid range.
func (s *SpriteSheet) FrameRect(index int) Rectangle {
	if index < 0 {
		index = 0
	}
	if s.TotalFrames > 0 && index >= s.TotalFrames {
		index = s.TotalFrames - 1
	}
	cols := 1
	if s.Image != nil {
		if c := s.Image.Bounds().Dx() / s.FrameWidth; c > 0 {
			cols = c
		}
	}
	return Rectangle{
		X:      float64((index % cols) * s.FrameWidth),
		Y:      float64((index / cols) * s.FrameHeight),
		Width:  float64(s.FrameWidth),
		Height: float64(s.FrameHeight),
	}
}

// --- JSON descriptor ---

type jsonSheetSequence struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Next  string `json:"next"`
}

type jsonSheet struct {
	FrameWidth  int                          `json:"frameWidth"`
	FrameHeight int                          `json:"frameHeight"`
	FrameCount  int                          `json:"frameCount"`
	Loop        bool                         `json:"loop"`
	Sequences   map[string]jsonSheetSequence `json:"sequences"`
}

// LoadSpriteSheet parses a JSON sheet descriptor and associates the
// given image:
//
//	{
//	  "frameWidth": 32, "frameHeight": 32, "frameCount": 12, "loop": true,
//	  "sequences": {
//	    "walk": {"start": 0, "end": 3, "next": "walk"},
//	    "jump": {"start": 4, "end": 7}
//	  }
//	}
//
// frameCount of 0 derives the count from the image grid. Sequence
// windows are validated against the frame count.
func LoadSpriteSheet(jsonData []byte, img *ebiten.Image) (*SpriteSheet, error) {
	var d jsonSheet
	if err := json.Unmarshal(jsonData, &d); err != nil {
		return nil, fmt.Errorf("easel: failed to parse sprite sheet JSON: %w", err)
	}
	if d.FrameWidth < 1 || d.FrameHeight < 1 {
		return nil, fmt.Errorf("easel: sprite sheet JSON has invalid frame size %dx%d", d.FrameWidth, d.FrameHeight)
	}

	s := NewSpriteSheet(img, d.FrameWidth, d.FrameHeight, d.FrameCount, d.Loop)
	for name, seq := range d.Sequences {
		if seq.Start < 0 || seq.End >= s.TotalFrames || seq.Start > seq.End {
			return nil, fmt.Errorf("easel: sprite sheet sequence %q window [%d, %d] out of range (total %d)",
				name, seq.Start, seq.End, s.TotalFrames)
		}
		if seq.Next != "" {
			if _, ok := d.Sequences[seq.Next]; !ok {
				return nil, fmt.Errorf("easel: sprite sheet sequence %q chains to unknown sequence %q", name, seq.Next)
			}
		}
		s.DefineSequence(name, seq.Start, seq.End, seq.Next)
	}
	return s, nil
}
