package midi

import (
	"fmt"
	"io"
)

// dataLength is the number of data bytes that follow each channel-voice
// status byte.
var dataLength = map[MessageType]int{
	TypeNoteOff:          2,
	TypeNoteOn:           2,
	TypePolyKeyPressure:  2,
	TypeControlChange:    2,
	TypeProgramChange:    1,
	TypeChannelPressure:  1,
	TypePitchWheelChange: 2,
}

// readData fills buf with data bytes. Running out of input is
// ErrUnexpectedEndOfStream regardless of how many bytes were read. In strict
// mode a byte with the high bit set is unread before ErrInvalidDataByte.
func (d *Decoder) readData(status Status, buf []byte) error {
	for i := range buf {
		b, err := d.r.ReadByte()
		if err == io.EOF {
			return fmt.Errorf("reading %s body: got %d of %d bytes: %w", status, i, len(buf), ErrUnexpectedEndOfStream)
		}
		if err != nil {
			return err
		}
		if d.strict && b&statusFlag != 0 {
			if uerr := d.r.UnreadByte(); uerr != nil {
				return uerr
			}
			return fmt.Errorf("%w: 0x%02X in %s body", ErrInvalidDataByte, b, status)
		}
		buf[i] = b
	}
	return nil
}

// readBody decodes the body selected by status.
func (d *Decoder) readBody(status Status) (Body, error) {
	t := status.Type()
	if t == TypeSystem {
		return d.readSystemBody(status)
	}

	var buf [2]byte
	data := buf[:dataLength[t]]
	if err := d.readData(status, data); err != nil {
		return nil, err
	}

	switch t {
	case TypeNoteOff:
		return NoteOff{Key: data[0], Velocity: data[1]}, nil
	case TypeNoteOn:
		return NoteOn{Key: data[0], Velocity: data[1]}, nil
	case TypePolyKeyPressure:
		return PolyKeyPressure{Key: data[0], Velocity: data[1]}, nil
	case TypeControlChange:
		return ControlChange{Controller: data[0], Value: data[1]}, nil
	case TypeProgramChange:
		return ProgramChange{Program: data[0]}, nil
	case TypeChannelPressure:
		return ChannelPressure{Pressure: data[0]}, nil
	case TypePitchWheelChange:
		return NewPitchWheelChange(data[0], data[1]), nil
	}
	return nil, &NoMatchingCaseError{Byte: byte(status)}
}

func (d *Decoder) readSystemBody(status Status) (Body, error) {
	switch status.SystemType() {
	case SystemExclusive:
		span, err := readTerminated(d.r, d.maxSysEx)
		if err != nil {
			return nil, err
		}
		return DecodeSysEx(span)

	case SystemSongPosition:
		var data [2]byte
		if err := d.readData(status, data[:]); err != nil {
			return nil, err
		}
		return NewSongPositionPointer(data[0], data[1]), nil

	case SystemSongSelect:
		var data [1]byte
		if err := d.readData(status, data[:]); err != nil {
			return nil, err
		}
		return SongSelect{Song: data[0]}, nil
	}
	return nil, &NoMatchingCaseError{Byte: byte(status)}
}
