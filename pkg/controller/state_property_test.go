package controller

import (
	"testing"
	"testing/quick"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPairMergeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)

	properties.Property("MSB then LSB yields V1<<8|V2 in the MSB slot", prop.ForAll(
		func(pair, v1, v2 int) bool {
			var s State
			msb := Number(pair)
			s.Apply(msb, uint8(v1))
			s.Apply(msb+32, uint8(v2))
			want := uint16(v1)<<8 | uint16(v2)
			return s.Get(msb) == want && s.Get(msb+32) == want
		},
		gen.IntRange(0, 31),
		gen.IntRange(0, 127),
		gen.IntRange(0, 127),
	))

	properties.Property("order of MSB and LSB does not matter", prop.ForAll(
		func(pair, v1, v2 int) bool {
			var a, b State
			msb := Number(pair)
			a.Apply(msb, uint8(v1))
			a.Apply(msb+32, uint8(v2))
			b.Apply(msb+32, uint8(v2))
			b.Apply(msb, uint8(v1))
			return a.Snapshot() == b.Snapshot()
		},
		gen.IntRange(0, 31),
		gen.IntRange(0, 127),
		gen.IntRange(0, 127),
	))

	properties.Property("switches store the threshold decision", prop.ForAll(
		func(n, v int) bool {
			var s State
			c := s.Apply(Number(n), uint8(v))
			return c.On() == (v >= 64) && s.Switch(Number(n)) == (v >= 64)
		},
		gen.IntRange(64, 69),
		gen.IntRange(0, 127),
	))

	properties.Property("continuous controllers store the value as-is", prop.ForAll(
		func(n, v int) bool {
			if Number(n) == LocalControl {
				return true
			}
			var s State
			s.Apply(Number(n), uint8(v))
			return s.Get(Number(n)) == uint16(v)
		},
		gen.IntRange(70, 127),
		gen.IntRange(0, 127),
	))

	properties.TestingRun(t)
}

func TestApplyTouchesOneSlot(t *testing.T) {
	f := func(n, v uint8) bool {
		n &= NumControllers - 1
		v &= 0x7F

		var s State
		before := s.Snapshot()
		s.Apply(Number(n), v)
		after := s.Snapshot()

		slot := n
		if KindOf(Number(n)) == PairLSB {
			slot -= 32
		}
		for i := range after {
			if i != int(slot) && after[i] != before[i] {
				return false
			}
		}
		return true
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
