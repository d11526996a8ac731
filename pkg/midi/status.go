// Package midi decodes and encodes MIDI 1.0 wire messages.
//
// A message is a status byte followed by a body whose length depends on the
// message type. Channel-voice messages carry the channel in the low nibble of
// the status byte; system messages use it to select a sub-type.
package midi

import "fmt"

const (
	statusFlag  = 0x80
	typeMask    = 0xF0
	channelMask = 0x0F
	dataMask    = 0x7F

	// SysExTerminator ends a System Exclusive body (End of Exclusive).
	SysExTerminator = 0xF7
)

// MessageType is the high nibble of a status byte.
type MessageType uint8

const (
	TypeNoteOff          MessageType = 0x8
	TypeNoteOn           MessageType = 0x9
	TypePolyKeyPressure  MessageType = 0xA
	TypeControlChange    MessageType = 0xB
	TypeProgramChange    MessageType = 0xC
	TypeChannelPressure  MessageType = 0xD
	TypePitchWheelChange MessageType = 0xE
	TypeSystem           MessageType = 0xF
)

var typeNames = map[MessageType]string{
	TypeNoteOff:          "NoteOff",
	TypeNoteOn:           "NoteOn",
	TypePolyKeyPressure:  "PolyKeyPressure",
	TypeControlChange:    "ControlChange",
	TypeProgramChange:    "ProgramChange",
	TypeChannelPressure:  "ChannelPressure",
	TypePitchWheelChange: "PitchWheelChange",
	TypeSystem:           "System",
}

func (t MessageType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(0x%X)", uint8(t))
}

// IsChannelVoice reports whether t addresses one of the 16 channels.
func (t MessageType) IsChannelVoice() bool {
	return t >= TypeNoteOff && t <= TypePitchWheelChange
}

// SystemType is the low nibble of a 0xF_ status byte.
type SystemType uint8

const (
	SystemExclusive      SystemType = 0x0
	SystemTimeCode       SystemType = 0x1
	SystemSongPosition   SystemType = 0x2
	SystemSongSelect     SystemType = 0x3
	SystemTuneRequest    SystemType = 0x6
	SystemEndOfExclusive SystemType = 0x7
	SystemTimingClock    SystemType = 0x8
	SystemStart          SystemType = 0xA
	SystemContinue       SystemType = 0xB
	SystemStop           SystemType = 0xC
	SystemActiveSensing  SystemType = 0xE
	SystemReset          SystemType = 0xF
)

var systemNames = map[SystemType]string{
	SystemExclusive:      "sysex",
	SystemTimeCode:       "time code quarter frame",
	SystemSongPosition:   "song position",
	SystemSongSelect:     "song select",
	SystemTuneRequest:    "tune request",
	SystemEndOfExclusive: "end of exclusive",
	SystemTimingClock:    "timing clock",
	SystemStart:          "start",
	SystemContinue:       "continue",
	SystemStop:           "stop",
	SystemActiveSensing:  "active sensing",
	SystemReset:          "reset",
}

func (s SystemType) String() string {
	if name, ok := systemNames[s]; ok {
		return name
	}
	return "undefined"
}

// IsSingleByte reports whether a message with this sub-type consists of the
// status byte alone (tune request, end of exclusive and the real-time set).
func (s SystemType) IsSingleByte() bool {
	switch s {
	case SystemTuneRequest, SystemEndOfExclusive:
		return true
	}
	return s >= SystemTimingClock
}

// IsRealTime reports whether the sub-type is a real-time message, which may
// legally appear between the bytes of any other message.
func (s SystemType) IsRealTime() bool {
	return s >= SystemTimingClock
}

// Status is a status byte.
type Status byte

// MakeStatus builds a status byte from a type and a channel (or system
// sub-type) nibble.
func MakeStatus(t MessageType, channel uint8) Status {
	return Status(uint8(t)<<4 | channel&channelMask)
}

// Type returns the message type nibble.
func (s Status) Type() MessageType { return MessageType(s >> 4) }

// Channel returns the low nibble: 0-15 for channel-voice messages.
func (s Status) Channel() uint8 { return uint8(s) & channelMask }

// SystemType interprets the low nibble as a system sub-type.
func (s Status) SystemType() SystemType { return SystemType(uint8(s) & channelMask) }

// Valid reports whether the high bit is set.
func (s Status) Valid() bool { return s&statusFlag != 0 }

func (s Status) String() string {
	if s.Type() == TypeSystem {
		return fmt.Sprintf("0x%02X (%s)", uint8(s), s.SystemType())
	}
	return fmt.Sprintf("0x%02X (%s ch %d)", uint8(s), s.Type(), s.Channel())
}

// Classify splits b into its type nibble and channel/sub-type nibble.
// A byte with the high bit clear is a data byte and yields ErrInvalidStatusByte.
func Classify(b byte) (MessageType, uint8, error) {
	if b&statusFlag == 0 {
		return 0, 0, fmt.Errorf("%w: 0x%02X", ErrInvalidStatusByte, b)
	}
	return MessageType(b >> 4), b & channelMask, nil
}
