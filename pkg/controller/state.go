// Package controller folds Control Change messages into persistent
// controller state.
//
// Controllers 0-31 and 32-63 form 14-bit pairs (MSB and LSB), 64-69 and 122
// are on/off switches, and the rest are plain 7-bit values. A State holds one
// channel's 128 controllers; a Tracker holds all 16 channels.
package controller

// NumControllers is the size of the controller table.
const NumControllers = 128

const (
	pairLSBOffset = 32

	switchThreshold      = 64
	localControlOnValue  = 127
	firstSwitch          = 64
	lastSwitch           = 69
	lastPairMSB          = 31
	lastPairLSB          = 63
	lowByteMask   uint16 = 0x00FF
	highByteMask  uint16 = 0xFF00
)

// Kind is how a controller's value is merged into the table.
type Kind int

const (
	// Continuous controllers store the 7-bit value as-is.
	Continuous Kind = iota
	// PairMSB controllers (0-31) set the high byte of a 14-bit pair.
	PairMSB
	// PairLSB controllers (32-63) set the low byte of the pair at n-32.
	PairLSB
	// Switch controllers store 1 or 0.
	Switch
)

func (k Kind) String() string {
	switch k {
	case PairMSB:
		return "msb"
	case PairLSB:
		return "lsb"
	case Switch:
		return "switch"
	default:
		return "continuous"
	}
}

// KindOf returns the merge rule for controller n.
func KindOf(n Number) Kind {
	switch {
	case n <= lastPairMSB:
		return PairMSB
	case n <= lastPairLSB:
		return PairLSB
	case n >= firstSwitch && n <= lastSwitch, n == LocalControl:
		return Switch
	default:
		return Continuous
	}
}

// Change describes the table after an Apply.
type Change struct {
	Controller Number
	Kind       Kind
	// Raw is the slot content: for pairs the MSB is in the high byte and
	// the LSB in the low byte.
	Raw uint16
}

// Value returns the logical value: the 14-bit pair value for pairs, 0 or 1
// for switches, and the 7-bit value otherwise.
func (c Change) Value() uint16 {
	if c.Kind == PairMSB || c.Kind == PairLSB {
		return Merge14(c.Raw)
	}
	return c.Raw
}

// On reports whether a switch is on.
func (c Change) On() bool { return c.Raw != 0 }

// Merge14 converts a slot holding MSB<<8|LSB into the 14-bit value
// MSB<<7|LSB.
func Merge14(raw uint16) uint16 {
	return (raw>>8&0x7F)<<7 | raw&0x7F
}

// Observer is notified after every Apply.
type Observer func(Change)

// State is the controller table of one channel. It performs no locking;
// callers sharing a State across goroutines must serialize Apply and Get.
type State struct {
	slots     [NumControllers]uint16
	observers []Observer
}

// Get returns the slot for controller n. LSB controllers (32-63) read the
// slot of their MSB partner.
func (s *State) Get(n Number) uint16 {
	n &= NumControllers - 1
	if KindOf(n) == PairLSB {
		n -= pairLSBOffset
	}
	return s.slots[n]
}

// Apply merges a 7-bit value for controller n and notifies observers.
func (s *State) Apply(n Number, value uint8) Change {
	n &= NumControllers - 1
	kind := KindOf(n)
	slot := n

	switch kind {
	case PairMSB:
		s.slots[n] = s.slots[n]&lowByteMask | uint16(value)<<8
	case PairLSB:
		slot = n - pairLSBOffset
		s.slots[slot] = s.slots[slot]&highByteMask | uint16(value)
	case Switch:
		threshold := uint8(switchThreshold)
		if n == LocalControl {
			threshold = localControlOnValue
		}
		s.slots[n] = boolSlot(value >= threshold)
	default:
		s.slots[n] = uint16(value)
	}

	c := Change{Controller: n, Kind: kind, Raw: s.slots[slot]}
	for _, o := range s.observers {
		o(c)
	}
	return c
}

// Switch reports whether switch controller n is on.
func (s *State) Switch(n Number) bool {
	return s.Get(n) != 0
}

// Value14 returns the merged 14-bit value of the pair containing n.
func (s *State) Value14(n Number) uint16 {
	return Merge14(s.Get(n))
}

// Observe registers o to be called after every Apply.
func (s *State) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

// Reset clears every slot. Observers are kept.
func (s *State) Reset() {
	s.slots = [NumControllers]uint16{}
}

// Snapshot returns a copy of the table.
func (s *State) Snapshot() [NumControllers]uint16 {
	return s.slots
}

func boolSlot(on bool) uint16 {
	if on {
		return 1
	}
	return 0
}
