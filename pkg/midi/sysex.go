package midi

import (
	"fmt"
	"io"
)

// Universal System Exclusive ids.
const (
	UniversalNonRealTime = 0x7E
	UniversalRealTime    = 0x7F

	// extendedManufacturer prefixes a three byte manufacturer id.
	extendedManufacturer = 0x00
)

// SysEx is a System Exclusive message without its 0xF0 and 0xF7 framing.
type SysEx struct {
	ID      uint8
	Payload []byte
}

func (SysEx) Type() MessageType { return TypeSystem }

func (SysEx) SystemType() SystemType { return SystemExclusive }

func (s SysEx) appendTo(dst []byte) []byte {
	dst = append(dst, s.ID)
	return append(dst, s.Payload...)
}

// Encode returns the id followed by the payload. The terminator is not
// included.
func (s SysEx) Encode() []byte {
	return s.appendTo(make([]byte, 0, 1+len(s.Payload)))
}

// Manufacturer returns the manufacturer id: one byte, or three bytes when the
// id is the 0x00 extension prefix and the payload is long enough.
func (s SysEx) Manufacturer() []byte {
	if s.ID == extendedManufacturer && len(s.Payload) >= 2 {
		return []byte{s.ID, s.Payload[0], s.Payload[1]}
	}
	return []byte{s.ID}
}

// Universal reports whether the id is one of the two universal ids.
func (s SysEx) Universal() bool {
	return s.ID == UniversalNonRealTime || s.ID == UniversalRealTime
}

func (s SysEx) String() string {
	return fmt.Sprintf("sysex id=0x%02X payload=% X", s.ID, s.Payload)
}

// DecodeSysEx builds a SysEx from the bytes between 0xF0 and 0xF7. The
// first byte is the id. Later bytes with the high bit set are interleaved
// real-time messages and are dropped.
func DecodeSysEx(span []byte) (SysEx, error) {
	if len(span) == 0 {
		return SysEx{}, ErrEmptySysExMessage
	}
	msg := SysEx{ID: span[0], Payload: make([]byte, 0, len(span)-1)}
	for _, b := range span[1:] {
		if b&statusFlag != 0 {
			continue
		}
		msg.Payload = append(msg.Payload, b)
	}
	return msg, nil
}

// readTerminated reads bytes up to the SysEx terminator, which is consumed
// but not returned. limit <= 0 means unbounded. Past the limit the rest of
// the message is read and discarded so the stream stays aligned.
func readTerminated(r io.ByteReader, limit int) ([]byte, error) {
	var (
		span []byte
		n    int
	)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return nil, fmt.Errorf("reading sysex body after %d bytes: %w", n, ErrUnexpectedEndOfStream)
		}
		if err != nil {
			return nil, err
		}
		if b == SysExTerminator {
			if limit > 0 && n > limit {
				return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrSysExTooLong, n, limit)
			}
			return span, nil
		}
		n++
		if limit <= 0 || n <= limit {
			span = append(span, b)
		}
	}
}
