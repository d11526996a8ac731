package controller

import "github.com/zurustar/xmidi/pkg/midi"

// NumChannels is the number of MIDI channels.
const NumChannels = 16

// ChannelObserver is notified with the channel of every tracked change.
type ChannelObserver func(channel uint8, c Change)

// Tracker keeps one State per channel and feeds it from decoded messages.
// Like State, it performs no locking.
type Tracker struct {
	channels  [NumChannels]State
	observers []ChannelObserver
}

// NewTracker returns a Tracker with all controllers at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Track applies msg if it is a Control Change and reports the change.
// Other messages are ignored.
func (t *Tracker) Track(msg midi.Message) (Change, bool) {
	cc, ok := msg.Body.(midi.ControlChange)
	if !ok || msg.Type() != midi.TypeControlChange {
		return Change{}, false
	}
	ch := msg.Channel()
	c := t.channels[ch].Apply(Number(cc.Controller), cc.Value)
	for _, o := range t.observers {
		o(ch, c)
	}
	return c, true
}

// Channel returns the state of channel ch (0-15).
func (t *Tracker) Channel(ch uint8) *State {
	return &t.channels[ch&(NumChannels-1)]
}

// Observe registers o for changes on any channel.
func (t *Tracker) Observe(o ChannelObserver) {
	t.observers = append(t.observers, o)
}

// Reset clears every channel.
func (t *Tracker) Reset() {
	for i := range t.channels {
		t.channels[i].Reset()
	}
}
