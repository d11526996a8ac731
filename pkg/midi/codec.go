package midi

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithStrictDataBytes makes the decoder reject data bytes with the high bit
// set (ErrInvalidDataByte). Without it such bytes are kept verbatim in 7-bit
// fields and masked away in 14-bit values. The offending byte is left unread, so the next
// Decode starts at it. SysEx bodies are unaffected since real-time bytes may
// appear inside them.
func WithStrictDataBytes() DecoderOption {
	return func(d *Decoder) {
		d.strict = true
	}
}

// WithMaxSysExLength bounds the number of bytes scanned for a SysEx
// terminator. Zero or less means unbounded.
func WithMaxSysExLength(n int) DecoderOption {
	return func(d *Decoder) {
		d.maxSysEx = n
	}
}

// Decoder reads messages from a byte stream. Every message must carry its
// own status byte. A Decoder is not safe for concurrent use.
type Decoder struct {
	r        io.ByteScanner
	strict   bool
	maxSysEx int
}

// NewDecoder returns a Decoder reading from r. If r is not an io.ByteScanner
// it is wrapped in a bufio.Reader, which may read ahead of the last decoded
// message.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	br, ok := r.(io.ByteScanner)
	if !ok {
		br = bufio.NewReader(r)
	}
	d := &Decoder{r: br}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads the next message. It returns ErrEndOfStream when the input
// ends before a status byte and ErrUnexpectedEndOfStream (wrapped) when it
// ends inside a message.
func (d *Decoder) Decode() (Message, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Message{}, err
	}
	if _, _, err := Classify(b); err != nil {
		return Message{}, err
	}
	status := Status(b)
	body, err := d.readBody(status)
	if err != nil {
		return Message{}, err
	}
	return Message{Status: status, Body: body}, nil
}

// Messages returns an iterator over the remaining messages. Iteration ends
// after the clean end of the stream or after the first error, which is
// yielded.
func (d *Decoder) Messages() iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		for {
			msg, err := d.Decode()
			if err == ErrEndOfStream {
				return
			}
			if !yield(msg, err) || err != nil {
				return
			}
		}
	}
}

// Unmarshal decodes exactly one message from data.
func Unmarshal(data []byte, opts ...DecoderOption) (Message, error) {
	r := &sliceReader{data: data}
	msg, err := NewDecoder(r, opts...).Decode()
	if err != nil {
		return Message{}, err
	}
	if r.pos != len(data) {
		return Message{}, fmt.Errorf("%d trailing bytes after %s", len(data)-r.pos, msg.Status)
	}
	return msg, nil
}

// Marshal returns the wire form of msg.
func Marshal(msg Message) []byte {
	return msg.Bytes()
}

// Encoder writes messages to a byte stream.
type Encoder struct {
	w   io.Writer
	buf []byte
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the status byte and body of msg. SysEx bodies are followed
// by the 0xF7 terminator.
func (e *Encoder) Encode(msg Message) error {
	e.buf = msg.AppendBytes(e.buf[:0])
	_, err := e.w.Write(e.buf)
	return err
}

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *sliceReader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *sliceReader) UnreadByte() error {
	if r.pos == 0 {
		return io.ErrNoProgress
	}
	r.pos--
	return nil
}
