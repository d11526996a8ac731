package monitor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// TextDecoder renders a SysEx payload as text.
type TextDecoder func(payload []byte) string

var charsets = map[string]encoding.Encoding{
	"shift_jis":   japanese.ShiftJIS,
	"euc-jp":      japanese.EUCJP,
	"iso-2022-jp": japanese.ISO2022JP,
}

// NewTextDecoder returns the decoder for a charset name. "ascii" keeps
// printable bytes and shows the rest as '.'. An empty name returns nil.
func NewTextDecoder(name string) (TextDecoder, error) {
	name = strings.ToLower(name)
	switch name {
	case "":
		return nil, nil
	case "ascii":
		return printableASCII, nil
	}

	enc, ok := charsets[name]
	if !ok {
		return nil, fmt.Errorf("unsupported charset: %s", name)
	}
	return func(payload []byte) string {
		reader := transform.NewReader(bytes.NewReader(payload), enc.NewDecoder())
		text, err := io.ReadAll(reader)
		if err != nil {
			// fall back to ASCII on decode errors
			return printableASCII(payload)
		}
		return string(text)
	}, nil
}

func printableASCII(payload []byte) string {
	var b strings.Builder
	b.Grow(len(payload))
	for _, c := range payload {
		if c >= 0x20 && c < 0x7F {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
