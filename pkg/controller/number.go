package controller

import "fmt"

// Number is a controller number (0-127).
type Number uint8

const (
	BankSelectMSB        Number = 0
	ModulationWheelMSB   Number = 1
	BreathControllerMSB  Number = 2
	FootControllerMSB    Number = 4
	PortamentoTimeMSB    Number = 5
	DataEntryMSB         Number = 6
	ChannelVolumeMSB     Number = 7
	BalanceMSB           Number = 8
	PanMSB               Number = 10
	ExpressionMSB        Number = 11
	EffectControl1MSB    Number = 12
	EffectControl2MSB    Number = 13
	BankSelectLSB        Number = 32
	ModulationWheelLSB   Number = 33
	DataEntryLSB         Number = 38
	ChannelVolumeLSB     Number = 39
	PanLSB               Number = 42
	ExpressionLSB        Number = 43
	DamperPedal          Number = 64
	Portamento           Number = 65
	Sostenuto            Number = 66
	SoftPedal            Number = 67
	Legato               Number = 68
	Hold2                Number = 69
	PortamentoControl    Number = 84
	Effects1Depth        Number = 91
	Effects2Depth        Number = 92
	Effects3Depth        Number = 93
	Effects4Depth        Number = 94
	Effects5Depth        Number = 95
	DataIncrement        Number = 96
	DataDecrement        Number = 97
	NRPNLSB              Number = 98
	NRPNMSB              Number = 99
	RPNLSB               Number = 100
	RPNMSB               Number = 101
	AllSoundOff          Number = 120
	ResetAllControllers  Number = 121
	LocalControl         Number = 122
	AllNotesOff          Number = 123
	OmniModeOff          Number = 124
	OmniModeOn           Number = 125
	MonoModeOn           Number = 126
	PolyModeOn           Number = 127
)

var names = [NumControllers]string{
	0:   "bank select msb",
	1:   "modulation wheel msb",
	2:   "breath controller msb",
	4:   "foot controller msb",
	5:   "portamento time msb",
	6:   "data entry msb",
	7:   "channel volume msb",
	8:   "balance msb",
	10:  "pan msb",
	11:  "expression msb",
	12:  "effect control 1 msb",
	13:  "effect control 2 msb",
	16:  "general purpose 1 msb",
	17:  "general purpose 2 msb",
	18:  "general purpose 3 msb",
	19:  "general purpose 4 msb",
	32:  "bank select lsb",
	33:  "modulation wheel lsb",
	34:  "breath controller lsb",
	36:  "foot controller lsb",
	37:  "portamento time lsb",
	38:  "data entry lsb",
	39:  "channel volume lsb",
	40:  "balance lsb",
	42:  "pan lsb",
	43:  "expression lsb",
	44:  "effect control 1 lsb",
	45:  "effect control 2 lsb",
	48:  "general purpose 1 lsb",
	49:  "general purpose 2 lsb",
	50:  "general purpose 3 lsb",
	51:  "general purpose 4 lsb",
	64:  "damper pedal (sustain)",
	65:  "portamento on/off",
	66:  "sostenuto on/off",
	67:  "soft pedal on/off",
	68:  "legato footswitch",
	69:  "hold 2",
	70:  "sound variation",
	71:  "timbre/harmonic intensity",
	72:  "release time",
	73:  "attack time",
	74:  "brightness",
	75:  "decay time",
	76:  "vibrato rate",
	77:  "vibrato depth",
	78:  "vibrato delay",
	79:  "sound controller 10",
	80:  "general purpose 5",
	81:  "general purpose 6",
	82:  "general purpose 7",
	83:  "general purpose 8",
	84:  "portamento control",
	88:  "high resolution velocity prefix",
	91:  "effects 1 depth (reverb)",
	92:  "effects 2 depth (tremolo)",
	93:  "effects 3 depth (chorus)",
	94:  "effects 4 depth (detune)",
	95:  "effects 5 depth (phaser)",
	96:  "data increment",
	97:  "data decrement",
	98:  "nrpn lsb",
	99:  "nrpn msb",
	100: "rpn lsb",
	101: "rpn msb",
	120: "all sound off",
	121: "reset all controllers",
	122: "local control on/off",
	123: "all notes off",
	124: "omni mode off",
	125: "omni mode on",
	126: "mono mode on",
	127: "poly mode on",
}

// String returns the standard name of the controller, or "undefined N".
func (n Number) String() string {
	if int(n) < NumControllers && names[n] != "" {
		return names[n]
	}
	return fmt.Sprintf("undefined %d", uint8(n))
}

// IsChannelMode reports whether n is a channel mode message (120-127).
func (n Number) IsChannelMode() bool {
	return n >= AllSoundOff && n < NumControllers
}
