// Package synth forwards decoded MIDI messages to a software synthesizer.
//
// Only channel voice messages reach the synthesizer; system messages carry
// nothing it can act on. There is no timing: a Renderer advances a fixed
// step of audio after each message.
package synth

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/zurustar/xmidi/pkg/fileutil"
	"github.com/zurustar/xmidi/pkg/midi"
)

// SampleRate is the output sample rate in Hz.
const SampleRate = 44100

// ErrNoSoundFont is returned when no SoundFont path is configured.
var ErrNoSoundFont = errors.New("SoundFont file is required for synthesis")

// ErrSoundFontNotFound is returned when the SoundFont file cannot be found.
var ErrSoundFontNotFound = errors.New("SoundFont file not found")

// ReadSoundFontFS reads a SoundFont through fs, or from the OS file system
// when fs is nil.
func ReadSoundFontFS(fs fileutil.FileSystem, path string) ([]byte, error) {
	if path == "" {
		return nil, ErrNoSoundFont
	}
	if fs == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrSoundFontNotFound, path)
			}
			return nil, fmt.Errorf("failed to read SoundFont file: %w", err)
		}
		return data, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSoundFontNotFound, path)
	}
	return data, nil
}

// LoadSoundFont reads and parses a SoundFont.
func LoadSoundFont(fs fileutil.FileSystem, path string) (*meltysynth.SoundFont, error) {
	data, err := ReadSoundFontFS(fs, path)
	if err != nil {
		return nil, err
	}

	soundFont, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SoundFont: %w", err)
	}
	return soundFont, nil
}

// NewSynthesizer creates a synthesizer at SampleRate.
func NewSynthesizer(sf *meltysynth.SoundFont) (*meltysynth.Synthesizer, error) {
	settings := meltysynth.NewSynthesizerSettings(SampleRate)
	s, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}
	return s, nil
}

// Processor accepts raw channel messages. *meltysynth.Synthesizer
// implements it.
type Processor interface {
	ProcessMidiMessage(channel int32, command int32, data1 int32, data2 int32)
}

// Command is a channel voice message in the form Processor expects.
type Command struct {
	Channel int32
	Command int32 // status byte with the channel nibble cleared
	Data1   int32
	Data2   int32
}

// CommandOf converts msg, reporting false for system messages.
func CommandOf(msg midi.Message) (Command, bool) {
	if !msg.Type().IsChannelVoice() {
		return Command{}, false
	}
	c := Command{
		Channel: int32(msg.Channel()),
		Command: int32(msg.Status) & 0xF0,
	}
	switch b := msg.Body.(type) {
	case midi.NoteOff:
		c.Data1, c.Data2 = int32(b.Key), int32(b.Velocity)
	case midi.NoteOn:
		c.Data1, c.Data2 = int32(b.Key), int32(b.Velocity)
	case midi.PolyKeyPressure:
		c.Data1, c.Data2 = int32(b.Key), int32(b.Velocity)
	case midi.ControlChange:
		c.Data1, c.Data2 = int32(b.Controller), int32(b.Value)
	case midi.ProgramChange:
		c.Data1 = int32(b.Program)
	case midi.ChannelPressure:
		c.Data1 = int32(b.Pressure)
	case midi.PitchWheelChange:
		c.Data1, c.Data2 = int32(b.LSB()), int32(b.MSB())
	default:
		return Command{}, false
	}
	return c, true
}

// Bridge forwards channel voice messages to a Processor.
type Bridge struct {
	p         Processor
	forwarded int
}

// NewBridge returns a Bridge feeding p.
func NewBridge(p Processor) *Bridge {
	return &Bridge{p: p}
}

// HandleMessage forwards msg when it is a channel voice message.
func (b *Bridge) HandleMessage(msg midi.Message) error {
	c, ok := CommandOf(msg)
	if !ok {
		return nil
	}
	b.p.ProcessMidiMessage(c.Channel, c.Command, c.Data1, c.Data2)
	b.forwarded++
	return nil
}

// Forwarded returns the number of messages passed to the processor.
func (b *Bridge) Forwarded() int {
	return b.forwarded
}
