package gm

import "testing"

func TestInstrumentName(t *testing.T) {
	tests := []struct {
		program uint8
		want    string
	}{
		{0, "Acoustic Grand Piano"},
		{5, "Electric Piano 2"},
		{40, "Violin"},
		{127, "Gunshot"},
		{128, "Acoustic Grand Piano"},
	}
	for _, tt := range tests {
		if got := InstrumentName(tt.program); got != tt.want {
			t.Errorf("InstrumentName(%d) = %q, want %q", tt.program, got, tt.want)
		}
	}
}

func TestInstrumentTableComplete(t *testing.T) {
	for i, name := range instruments {
		if name == "" {
			t.Errorf("program %d has no name", i)
		}
	}
}

func TestPercussionName(t *testing.T) {
	tests := []struct {
		key    uint8
		want   string
		wantOK bool
	}{
		{34, "", false},
		{35, "Acoustic Bass Drum", true},
		{38, "Acoustic Snare", true},
		{42, "Closed Hi Hat", true},
		{49, "Crash Cymbal 1", true},
		{81, "Open Triangle", true},
		{82, "", false},
	}
	for _, tt := range tests {
		got, ok := PercussionName(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("PercussionName(%d) = %q, %v, want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		key  uint8
		want string
	}{
		{0, "C-1"},
		{59, "B3"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
	}
	for _, tt := range tests {
		if got := NoteName(tt.key); got != tt.want {
			t.Errorf("NoteName(%d) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
