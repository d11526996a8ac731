package midi

import "fmt"

// Body is the decoded part of a message that follows the status byte.
// The set of implementations is closed.
type Body interface {
	Type() MessageType
	appendTo(dst []byte) []byte
}

// SystemBody is a Body carried by a 0xF_ status byte.
type SystemBody interface {
	Body
	SystemType() SystemType
}

// Message is one decoded MIDI message.
type Message struct {
	Status Status
	Body   Body
}

// Type returns the message type from the status byte.
func (m Message) Type() MessageType { return m.Status.Type() }

// Channel returns the channel nibble of the status byte.
func (m Message) Channel() uint8 { return m.Status.Channel() }

// AppendBytes appends the wire form of m to dst.
func (m Message) AppendBytes(dst []byte) []byte {
	dst = append(dst, byte(m.Status))
	if m.Body == nil {
		return dst
	}
	dst = m.Body.appendTo(dst)
	if _, ok := m.Body.(SysEx); ok {
		dst = append(dst, SysExTerminator)
	}
	return dst
}

// Bytes returns the wire form of m.
func (m Message) Bytes() []byte {
	return m.AppendBytes(make([]byte, 0, 3))
}

func (m Message) String() string {
	if m.Body == nil {
		return m.Status.String()
	}
	if m.Type().IsChannelVoice() {
		return fmt.Sprintf("%s ch=%d %v", m.Type(), m.Channel(), m.Body)
	}
	return fmt.Sprintf("%v", m.Body)
}

// NoteOff releases a key.
type NoteOff struct {
	Key      uint8
	Velocity uint8
}

func (NoteOff) Type() MessageType { return TypeNoteOff }

func (b NoteOff) appendTo(dst []byte) []byte { return append(dst, b.Key, b.Velocity) }

func (b NoteOff) String() string { return fmt.Sprintf("key=%d velocity=%d", b.Key, b.Velocity) }

// NoteOn presses a key. A velocity of zero is a note off by convention.
type NoteOn struct {
	Key      uint8
	Velocity uint8
}

func (NoteOn) Type() MessageType { return TypeNoteOn }

func (b NoteOn) appendTo(dst []byte) []byte { return append(dst, b.Key, b.Velocity) }

func (b NoteOn) String() string { return fmt.Sprintf("key=%d velocity=%d", b.Key, b.Velocity) }

// PolyKeyPressure is per-key aftertouch.
type PolyKeyPressure struct {
	Key      uint8
	Velocity uint8
}

func (PolyKeyPressure) Type() MessageType { return TypePolyKeyPressure }

func (b PolyKeyPressure) appendTo(dst []byte) []byte { return append(dst, b.Key, b.Velocity) }

func (b PolyKeyPressure) String() string {
	return fmt.Sprintf("key=%d velocity=%d", b.Key, b.Velocity)
}

// ControlChange sets one 7-bit controller value.
type ControlChange struct {
	Controller uint8
	Value      uint8
}

func (ControlChange) Type() MessageType { return TypeControlChange }

func (b ControlChange) appendTo(dst []byte) []byte { return append(dst, b.Controller, b.Value) }

func (b ControlChange) String() string {
	return fmt.Sprintf("controller=%d value=%d", b.Controller, b.Value)
}

// ProgramChange selects a program (instrument).
type ProgramChange struct {
	Program uint8
}

func (ProgramChange) Type() MessageType { return TypeProgramChange }

func (b ProgramChange) appendTo(dst []byte) []byte { return append(dst, b.Program) }

func (b ProgramChange) String() string { return fmt.Sprintf("program=%d", b.Program) }

// ChannelPressure is channel-wide aftertouch.
type ChannelPressure struct {
	Pressure uint8
}

func (ChannelPressure) Type() MessageType { return TypeChannelPressure }

func (b ChannelPressure) appendTo(dst []byte) []byte { return append(dst, b.Pressure) }

func (b ChannelPressure) String() string { return fmt.Sprintf("pressure=%d", b.Pressure) }

// PitchWheelChange holds a 14-bit wheel position; 0x2000 is centered.
type PitchWheelChange struct {
	Value uint16
}

// PitchWheelCenter is the resting position of the wheel.
const PitchWheelCenter = 0x2000

// NewPitchWheelChange assembles the wheel position from its wire bytes,
// least significant first. Only the low 7 bits of each byte are kept, so a
// data byte with the high bit set does not survive a re-encode.
func NewPitchWheelChange(lsb, msb uint8) PitchWheelChange {
	return PitchWheelChange{Value: join14(lsb, msb)}
}

func (PitchWheelChange) Type() MessageType { return TypePitchWheelChange }

// LSB returns the low 7 bits.
func (b PitchWheelChange) LSB() uint8 { return uint8(b.Value) & dataMask }

// MSB returns the high 7 bits.
func (b PitchWheelChange) MSB() uint8 { return uint8(b.Value>>7) & dataMask }

// Centered returns the position relative to PitchWheelCenter (-8192..8191).
func (b PitchWheelChange) Centered() int16 { return int16(b.Value&0x3FFF) - PitchWheelCenter }

func (b PitchWheelChange) appendTo(dst []byte) []byte { return append(dst, b.LSB(), b.MSB()) }

func (b PitchWheelChange) String() string { return fmt.Sprintf("value=%d", b.Value) }

// SongPositionPointer is the number of MIDI beats (sixteenth notes) since the
// start of the song.
type SongPositionPointer struct {
	Position uint16
}

// NewSongPositionPointer assembles the position from its wire bytes, least
// significant first. High bits are masked as in NewPitchWheelChange.
func NewSongPositionPointer(lsb, msb uint8) SongPositionPointer {
	return SongPositionPointer{Position: join14(lsb, msb)}
}

func (SongPositionPointer) Type() MessageType { return TypeSystem }

func (SongPositionPointer) SystemType() SystemType { return SystemSongPosition }

func (b SongPositionPointer) LSB() uint8 { return uint8(b.Position) & dataMask }

func (b SongPositionPointer) MSB() uint8 { return uint8(b.Position>>7) & dataMask }

func (b SongPositionPointer) appendTo(dst []byte) []byte { return append(dst, b.LSB(), b.MSB()) }

func (b SongPositionPointer) String() string { return fmt.Sprintf("song position=%d", b.Position) }

// SongSelect picks a song or sequence.
type SongSelect struct {
	Song uint8
}

func (SongSelect) Type() MessageType { return TypeSystem }

func (SongSelect) SystemType() SystemType { return SystemSongSelect }

func (b SongSelect) appendTo(dst []byte) []byte { return append(dst, b.Song) }

func (b SongSelect) String() string { return fmt.Sprintf("song select=%d", b.Song) }

// join14 keeps 7 bits per byte. Single-byte fields hold the raw byte instead.
func join14(lsb, msb uint8) uint16 {
	return uint16(lsb&dataMask) | uint16(msb&dataMask)<<7
}

// NewNoteOff builds a Note Off message.
func NewNoteOff(channel, key, velocity uint8) Message {
	return Message{Status: MakeStatus(TypeNoteOff, channel), Body: NoteOff{Key: key, Velocity: velocity}}
}

// NewNoteOn builds a Note On message.
func NewNoteOn(channel, key, velocity uint8) Message {
	return Message{Status: MakeStatus(TypeNoteOn, channel), Body: NoteOn{Key: key, Velocity: velocity}}
}

// NewPolyKeyPressure builds a Polyphonic Key Pressure message.
func NewPolyKeyPressure(channel, key, velocity uint8) Message {
	return Message{Status: MakeStatus(TypePolyKeyPressure, channel), Body: PolyKeyPressure{Key: key, Velocity: velocity}}
}

// NewControlChange builds a Control Change message.
func NewControlChange(channel, controller, value uint8) Message {
	return Message{Status: MakeStatus(TypeControlChange, channel), Body: ControlChange{Controller: controller, Value: value}}
}

// NewProgramChange builds a Program Change message.
func NewProgramChange(channel, program uint8) Message {
	return Message{Status: MakeStatus(TypeProgramChange, channel), Body: ProgramChange{Program: program}}
}

// NewChannelPressure builds a Channel Pressure message.
func NewChannelPressure(channel, pressure uint8) Message {
	return Message{Status: MakeStatus(TypeChannelPressure, channel), Body: ChannelPressure{Pressure: pressure}}
}

// NewPitchWheel builds a Pitch Wheel Change message from a 14-bit value.
func NewPitchWheel(channel uint8, value uint16) Message {
	return Message{Status: MakeStatus(TypePitchWheelChange, channel), Body: PitchWheelChange{Value: value & 0x3FFF}}
}

// NewSysExMessage builds a System Exclusive message.
func NewSysExMessage(id uint8, payload []byte) Message {
	return Message{Status: MakeStatus(TypeSystem, uint8(SystemExclusive)), Body: SysEx{ID: id, Payload: payload}}
}

// NewSongPosition builds a Song Position Pointer message.
func NewSongPosition(position uint16) Message {
	return Message{Status: MakeStatus(TypeSystem, uint8(SystemSongPosition)), Body: SongPositionPointer{Position: position & 0x3FFF}}
}

// NewSongSelectMessage builds a Song Select message.
func NewSongSelectMessage(song uint8) Message {
	return Message{Status: MakeStatus(TypeSystem, uint8(SystemSongSelect)), Body: SongSelect{Song: song}}
}
