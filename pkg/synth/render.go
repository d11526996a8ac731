package synth

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/zurustar/xmidi/pkg/midi"
)

const (
	bitDepth    = 16
	numChannels = 2
	pcmFormat   = 1
)

// Synth is a Processor that can render audio. *meltysynth.Synthesizer
// implements it.
type Synth interface {
	Processor
	Render(left []float32, right []float32)
}

// Renderer forwards messages to a Synth and writes its output as 16-bit
// stereo WAV, rendering a fixed step after every message.
type Renderer struct {
	bridge *Bridge
	synth  Synth
	enc    *wav.Encoder
	step   int
	left   []float32
	right  []float32
	buf    *audio.IntBuffer
	frames int
}

// NewRenderer writes WAV data to w. step is the audio rendered after each
// message.
func NewRenderer(w io.WriteSeeker, s Synth, step time.Duration) (*Renderer, error) {
	frames := framesFor(step)
	if frames <= 0 {
		return nil, fmt.Errorf("render step too short: %v", step)
	}
	return &Renderer{
		bridge: NewBridge(s),
		synth:  s,
		enc:    wav.NewEncoder(w, SampleRate, bitDepth, numChannels, pcmFormat),
		step:   frames,
		left:   make([]float32, frames),
		right:  make([]float32, frames),
		buf: &audio.IntBuffer{
			Data:           make([]int, frames*numChannels),
			Format:         &audio.Format{SampleRate: SampleRate, NumChannels: numChannels},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func framesFor(d time.Duration) int {
	return int(d * SampleRate / time.Second)
}

// HandleMessage forwards msg and renders one step.
func (r *Renderer) HandleMessage(msg midi.Message) error {
	if err := r.bridge.HandleMessage(msg); err != nil {
		return err
	}
	return r.render(r.step)
}

// Frames returns the number of stereo frames written so far.
func (r *Renderer) Frames() int {
	return r.frames
}

// Close renders tail of audio so releasing notes decay, then finalizes the
// WAV header. It does not close the underlying writer.
func (r *Renderer) Close(tail time.Duration) error {
	for n := framesFor(tail); n > 0; n -= r.step {
		if err := r.render(min(n, r.step)); err != nil {
			return err
		}
	}
	if err := r.enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

func (r *Renderer) render(frames int) error {
	left, right := r.left[:frames], r.right[:frames]
	r.synth.Render(left, right)

	data := r.buf.Data[:frames*numChannels]
	for i := range frames {
		data[2*i] = toPCM16(left[i])
		data[2*i+1] = toPCM16(right[i])
	}
	r.buf.Data = data
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("failed to write WAV: %w", err)
	}
	r.buf.Data = r.buf.Data[:cap(r.buf.Data)]
	r.frames += frames
	return nil
}

func toPCM16(v float32) int {
	s := math.Round(float64(v) * math.MaxInt16)
	return int(max(math.MinInt16, min(math.MaxInt16, s)))
}
