package easel

import "log"

// FrameSequence is the playback state of a sequence node: which sheet
// frame is showing, whether playback is paused, and the active named
// sequence window if any. It advances on stage ticks, throttled by
// AdvanceFrequency.
type FrameSequence struct {
	Sheet *SpriteSheet

	// Paused suspends automatic advancement; the current frame keeps
	// drawing.
	Paused bool

	// AdvanceFrequency advances one frame every N ticks (1 = every
	// tick). AdvanceOffset staggers which ticks advance, so several
	// sequences with the same frequency need not step in unison.
	AdvanceFrequency int
	AdvanceOffset    int

	// OnEnd, when non-nil, fires each time playback completes a named
	// sequence window (with its name) or runs past the last sheet frame
	// (with ""). It fires before any loop or chain is applied.
	OnEnd func(sequence string)

	frame      int
	tickCount  int
	inSequence bool
	seqName    string
	seqEnd     int
	seqNext    string
}

func newFrameSequence(sheet *SpriteSheet) *FrameSequence {
	return &FrameSequence{
		Sheet:            sheet,
		AdvanceFrequency: 1,
	}
}

// CurrentFrame returns the sheet frame index currently showing.
func (f *FrameSequence) CurrentFrame() int {
	return f.frame
}

// CurrentSequence returns the active named sequence, or "".
func (f *FrameSequence) CurrentSequence() string {
	if !f.inSequence {
		return ""
	}
	return f.seqName
}

// CurrentFrameRect returns the source rectangle of the showing frame.
// The frame is re-normalized first, so a sheet whose TotalFrames shrank
// under the current frame loops or clamps (with OnEnd) here rather than
// on the next advance.
func (f *FrameSequence) CurrentFrameRect() Rectangle {
	f.normalize()
	return f.Sheet.FrameRect(f.frame)
}

// tick runs once per stage tick. Frames advance only on ticks where
// (count + AdvanceOffset) is a multiple of AdvanceFrequency.
func (f *FrameSequence) tick() {
	count := f.tickCount
	f.tickCount++
	if f.Paused {
		return
	}
	freq := f.AdvanceFrequency
	if freq < 1 {
		freq = 1
	}
	if (count+f.AdvanceOffset)%freq == 0 {
		f.Advance()
	}
}

// Advance steps playback one frame, applying sequence chaining, sheet
// looping and end-of-playback clamping. Ignores Paused; callers wanting
// a manual single step can use it directly.
func (f *FrameSequence) Advance() {
	f.frame++
	f.normalize()
}

// normalize resolves an out-of-window frame after an advance or an
// explicit goto.
func (f *FrameSequence) normalize() {
	if f.inSequence {
		if f.frame <= f.seqEnd {
			return
		}
		if f.OnEnd != nil {
			f.OnEnd(f.seqName)
		}
		if f.seqNext == "" {
			f.frame = f.seqEnd
			f.Paused = true
			return
		}
		if !f.startSequence(f.seqNext, false) {
			// Chain target missing; hold the last frame.
			f.frame = f.seqEnd
			f.Paused = true
		}
		return
	}

	total := f.Sheet.TotalFrames
	if total < 1 || f.frame < total {
		return
	}
	if f.OnEnd != nil {
		f.OnEnd("")
	}
	if f.Sheet.Loop {
		f.frame = 0
	} else {
		f.frame = total - 1
		f.Paused = true
	}
}

func (f *FrameSequence) startSequence(name string, paused bool) bool {
	r, ok := f.Sheet.sequence(name)
	if !ok {
		if globalDebug {
			log.Printf("easel: unknown sequence %q", name)
		}
		return false
	}
	f.inSequence = true
	f.seqName = name
	f.seqEnd = r.End
	f.seqNext = r.Next
	f.frame = r.Start
	f.Paused = paused
	return true
}

func (f *FrameSequence) gotoFrame(frame int, paused bool) {
	f.inSequence = false
	f.seqName = ""
	total := f.Sheet.TotalFrames
	if frame < 0 {
		frame = 0
	}
	if total > 0 && frame >= total {
		frame = total - 1
	}
	f.frame = frame
	f.Paused = paused
}

// GotoAndPlay jumps to a raw sheet frame and resumes playback, leaving
// any named sequence. Out-of-range frames clamp.
func (f *FrameSequence) GotoAndPlay(frame int) {
	f.gotoFrame(frame, false)
}

// GotoAndStop jumps to a raw sheet frame and pauses there.
func (f *FrameSequence) GotoAndStop(frame int) {
	f.gotoFrame(frame, true)
}

// GotoAndPlaySequence starts the named sequence from its first frame.
// Returns false (leaving playback untouched) when the name is unknown.
func (f *FrameSequence) GotoAndPlaySequence(name string) bool {
	return f.startSequence(name, false)
}

// GotoAndStopSequence shows the named sequence's first frame, paused.
// Returns false when the name is unknown.
func (f *FrameSequence) GotoAndStopSequence(name string) bool {
	return f.startSequence(name, true)
}

// Play resumes automatic advancement.
func (f *FrameSequence) Play() {
	f.Paused = false
}

// Stop pauses on the current frame.
func (f *FrameSequence) Stop() {
	f.Paused = true
}
