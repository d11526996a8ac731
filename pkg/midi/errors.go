package midi

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidStatusByte is returned when a data byte is read where a
	// status byte was expected.
	ErrInvalidStatusByte = errors.New("invalid status byte")

	// ErrNoMatchingCase matches every *NoMatchingCaseError.
	ErrNoMatchingCase = errors.New("no matching case")

	// ErrEmptySysExMessage is returned when a SysEx body has no id byte.
	ErrEmptySysExMessage = errors.New("empty sysex message")

	// ErrInvalidDataByte is returned by strict decoders for data bytes with
	// the high bit set.
	ErrInvalidDataByte = errors.New("invalid data byte")

	// ErrSysExTooLong is returned when a SysEx body exceeds the decoder limit.
	ErrSysExTooLong = errors.New("sysex message too long")

	// ErrEndOfStream is returned when input ends cleanly at a message
	// boundary. It is io.EOF so read loops can use the usual check.
	ErrEndOfStream = io.EOF

	// ErrUnexpectedEndOfStream is returned when input ends inside a message.
	ErrUnexpectedEndOfStream = io.ErrUnexpectedEOF
)

// NoMatchingCaseError reports a status byte without a body codec.
type NoMatchingCaseError struct {
	Byte byte
}

func (e *NoMatchingCaseError) Error() string {
	return fmt.Sprintf("no matching case for status byte 0x%02X (%s)", e.Byte, Status(e.Byte))
}

func (e *NoMatchingCaseError) Is(target error) bool {
	return target == ErrNoMatchingCase
}
