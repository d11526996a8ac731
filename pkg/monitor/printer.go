// Package monitor prints a decoded MIDI byte stream one message per line.
package monitor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zurustar/xmidi/pkg/controller"
	"github.com/zurustar/xmidi/pkg/gm"
	"github.com/zurustar/xmidi/pkg/midi"
)

const (
	labelWidth     = 24
	qualifierWidth = 12
)

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithDrumChannel sets the channel nibble whose notes are percussion.
func WithDrumChannel(ch uint8) PrinterOption {
	return func(p *Printer) { p.drumChannel = ch & 0x0F }
}

// WithTextDecoder shows SysEx payloads as text next to the hex dump.
func WithTextDecoder(d TextDecoder) PrinterOption {
	return func(p *Printer) { p.text = d }
}

// WithColor styles the label column.
func WithColor(enabled bool) PrinterOption {
	return func(p *Printer) { p.color = enabled }
}

// WithTracker shares a controller tracker with the caller.
func WithTracker(t *controller.Tracker) PrinterOption {
	return func(p *Printer) { p.tracker = t }
}

// Printer writes one line per message. Control changes are folded into a
// controller.Tracker so pairs and switches print their aggregated value.
type Printer struct {
	w           io.Writer
	drumChannel uint8
	text        TextDecoder
	color       bool
	tracker     *controller.Tracker
	styles      map[midi.MessageType]lipgloss.Style
	systemStyle lipgloss.Style
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{
		w:           w,
		drumChannel: gm.DrumChannel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracker == nil {
		p.tracker = controller.NewTracker()
	}
	if p.color {
		p.initStyles()
	}
	return p
}

func (p *Printer) initStyles() {
	r := lipgloss.NewRenderer(p.w)
	style := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	p.styles = map[midi.MessageType]lipgloss.Style{
		midi.TypeNoteOff:          style("#6c7a89"),
		midi.TypeNoteOn:           style("#2ecc71"),
		midi.TypePolyKeyPressure:  style("#e67e22"),
		midi.TypeControlChange:    style("#3498db"),
		midi.TypeProgramChange:    style("#9b59b6"),
		midi.TypeChannelPressure:  style("#e67e22"),
		midi.TypePitchWheelChange: style("#1abc9c"),
		midi.TypeSystem:           style("#f1c40f"),
	}
	p.systemStyle = style("#f1c40f")
}

// Tracker returns the controller state the printer aggregates into.
func (p *Printer) Tracker() *controller.Tracker {
	return p.tracker
}

// Print writes the line for msg.
func (p *Printer) Print(msg midi.Message) error {
	label, qualifier, detail := p.describe(msg)
	_, err := fmt.Fprintf(p.w, "%s: %s\n", p.header(msg.Type(), label, qualifier), detail)
	return err
}

// PrintSystem writes the line for a single-byte system message, which the
// decoder reports as an error rather than a Message.
func (p *Printer) PrintSystem(st midi.SystemType) error {
	name := st.String()
	if p.color {
		name = p.systemStyle.Render(name)
	}
	_, err := fmt.Fprintln(p.w, name)
	return err
}

// PrintUnknown writes the line for a byte the decoder could not dispatch.
func (p *Printer) PrintUnknown(b byte) error {
	_, err := fmt.Fprintf(p.w, "unknown input (no matching case): %d\n", b)
	return err
}

func (p *Printer) header(t midi.MessageType, label, qualifier string) string {
	h := fmt.Sprintf("%-*s%-*s", labelWidth, label, qualifierWidth, qualifier)
	if p.color {
		if s, ok := p.styles[t]; ok {
			return s.Render(h)
		}
	}
	return h
}

func channelQualifier(ch uint8) string {
	return fmt.Sprintf("(channel %2d)", ch+1)
}

func (p *Printer) describe(msg midi.Message) (label, qualifier, detail string) {
	ch := msg.Channel()
	qualifier = channelQualifier(ch)

	switch b := msg.Body.(type) {
	case midi.NoteOff:
		return "key off", qualifier, p.key(ch, b.Key, b.Velocity)
	case midi.NoteOn:
		label = "key on"
		if b.Velocity == 0 {
			label = "key off (velocity = 0)"
		}
		return label, qualifier, p.key(ch, b.Key, b.Velocity)
	case midi.PolyKeyPressure:
		return "polyphonic key pressure", qualifier, fmt.Sprintf("%s vel %d", gm.NoteName(b.Key), b.Velocity)
	case midi.ControlChange:
		return "control change", qualifier, p.control(msg)
	case midi.ProgramChange:
		return "program change", qualifier, gm.InstrumentName(b.Program)
	case midi.ChannelPressure:
		return "channel pressure", qualifier, fmt.Sprintf("vel %d", b.Pressure)
	case midi.PitchWheelChange:
		return "pitch wheel change", qualifier, fmt.Sprintf("val %d (%+d)", b.Value, b.Centered())
	case midi.SysEx:
		return "sysex message", fmt.Sprintf("(id      %02x)", b.ID), p.sysex(b)
	case midi.SongPositionPointer:
		return "song position", "", fmt.Sprintf("beats %d", b.Position)
	case midi.SongSelect:
		return "song select", "", fmt.Sprintf("selection %d", b.Song)
	default:
		return "undefined", "", msg.Status.String()
	}
}

func (p *Printer) key(ch, key, velocity uint8) string {
	if ch == p.drumChannel {
		if name, ok := gm.PercussionName(key); ok {
			return fmt.Sprintf("percussion %s vel %d", name, velocity)
		}
		return fmt.Sprintf("percussion %d vel %d", key, velocity)
	}
	return fmt.Sprintf("%s vel %d", gm.NoteName(key), velocity)
}

func (p *Printer) control(msg midi.Message) string {
	cc := msg.Body.(midi.ControlChange)
	n := controller.Number(cc.Controller)

	c, _ := p.tracker.Track(msg)

	switch {
	case c.Kind == controller.Switch:
		if c.On() {
			return fmt.Sprintf("%s on", n)
		}
		return fmt.Sprintf("%s off", n)
	case c.Kind == controller.PairMSB || c.Kind == controller.PairLSB:
		return fmt.Sprintf("%s val %d (14-bit %d)", n, cc.Value, c.Value())
	case n == controller.PortamentoControl:
		return fmt.Sprintf("%s key %s", n, gm.NoteName(cc.Value))
	default:
		return fmt.Sprintf("%s val %d", n, cc.Value)
	}
}

func (p *Printer) sysex(s midi.SysEx) string {
	var b strings.Builder
	for i, c := range s.Payload {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	if p.text != nil && len(s.Payload) > 0 {
		fmt.Fprintf(&b, " %q", p.text(s.Payload))
	}
	return b.String()
}
