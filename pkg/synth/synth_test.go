package synth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/zurustar/xmidi/pkg/fileutil"
	"github.com/zurustar/xmidi/pkg/midi"
)

type fakeSynth struct {
	commands []Command
	level    float32
}

func (f *fakeSynth) ProcessMidiMessage(channel, command, data1, data2 int32) {
	f.commands = append(f.commands, Command{channel, command, data1, data2})
}

func (f *fakeSynth) Render(left, right []float32) {
	for i := range left {
		left[i] = f.level
		right[i] = -f.level
	}
}

func TestCommandOf(t *testing.T) {
	tests := []struct {
		name   string
		wire   gomidi.Message
		want   Command
		wantOK bool
	}{
		{"note on", gomidi.NoteOn(3, 60, 100), Command{3, 0x90, 60, 100}, true},
		{"note off", gomidi.NoteOff(0, 69), Command{0, 0x80, 69, 0}, true},
		{"poly pressure", gomidi.PolyAfterTouch(1, 60, 20), Command{1, 0xA0, 60, 20}, true},
		{"control change", gomidi.ControlChange(9, 7, 90), Command{9, 0xB0, 7, 90}, true},
		{"program change", gomidi.ProgramChange(2, 40), Command{2, 0xC0, 40, 0}, true},
		{"channel pressure", gomidi.AfterTouch(15, 64), Command{15, 0xD0, 64, 0}, true},
		{"pitch bend", gomidi.Pitchbend(0, 0), Command{0, 0xE0, 0x00, 0x40}, true},
		{"sysex", gomidi.SysEx([]byte{0x43, 0x10}), Command{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := midi.Unmarshal(tt.wire.Bytes())
			if err != nil {
				t.Fatalf("Unmarshal(% X) failed: %v", tt.wire.Bytes(), err)
			}
			got, ok := CommandOf(msg)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CommandOf = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBridgeForwardsChannelVoiceOnly(t *testing.T) {
	fake := &fakeSynth{}
	b := NewBridge(fake)

	msgs := []midi.Message{
		midi.NewProgramChange(0, 5),
		midi.NewSysExMessage(0x43, []byte{0x10}),
		midi.NewNoteOn(0, 60, 100),
		midi.NewSongSelectMessage(1),
		midi.NewNoteOff(0, 60, 0),
	}
	for _, m := range msgs {
		if err := b.HandleMessage(m); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
	}

	if b.Forwarded() != 3 || len(fake.commands) != 3 {
		t.Fatalf("forwarded %d (%d commands), want 3", b.Forwarded(), len(fake.commands))
	}
	if fake.commands[1] != (Command{0, 0x90, 60, 100}) {
		t.Errorf("second command = %+v", fake.commands[1])
	}
}

func TestReadSoundFontFS(t *testing.T) {
	t.Run("no path", func(t *testing.T) {
		if _, err := ReadSoundFontFS(nil, ""); !errors.Is(err, ErrNoSoundFont) {
			t.Errorf("error = %v, want ErrNoSoundFont", err)
		}
	})

	t.Run("missing file with nil fs", func(t *testing.T) {
		_, err := ReadSoundFontFS(nil, "/nonexistent/path/soundfont.sf2")
		if !errors.Is(err, ErrSoundFontNotFound) {
			t.Errorf("error = %v, want ErrSoundFontNotFound", err)
		}
	})

	t.Run("missing file with FileSystem", func(t *testing.T) {
		_, err := ReadSoundFontFS(fileutil.NewRealFS(t.TempDir()), "nonexistent.sf2")
		if !errors.Is(err, ErrSoundFontNotFound) {
			t.Errorf("error = %v, want ErrSoundFontNotFound", err)
		}
	})

	t.Run("reads through FileSystem", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "Test.SF2"), []byte("RIFF"), 0o644); err != nil {
			t.Fatal(err)
		}
		data, err := ReadSoundFontFS(fileutil.NewRealFS(dir), "test.sf2")
		if err != nil {
			t.Fatalf("ReadSoundFontFS failed: %v", err)
		}
		if string(data) != "RIFF" {
			t.Errorf("data = %q", data)
		}
	})
}

func TestLoadSoundFontRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.sf2"), []byte("not a soundfont"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSoundFont(fileutil.NewRealFS(dir), "bad.sf2"); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestSynthesizerWithSoundFont(t *testing.T) {
	sfPath := findTestSoundFont(t)
	if sfPath == "" {
		t.Skip("SoundFont file not found, skipping test")
	}

	sf, err := LoadSoundFont(nil, sfPath)
	if err != nil {
		t.Fatalf("LoadSoundFont failed: %v", err)
	}
	s, err := NewSynthesizer(sf)
	if err != nil {
		t.Fatalf("NewSynthesizer failed: %v", err)
	}

	b := NewBridge(s)
	b.HandleMessage(midi.NewNoteOn(0, 60, 100))

	left := make([]float32, 4096)
	right := make([]float32, 4096)
	s.Render(left, right)

	var peak float32
	for _, v := range left {
		peak = max(peak, v, -v)
	}
	if peak == 0 {
		t.Error("note on produced silence")
	}
}

func findTestSoundFont(t *testing.T) string {
	t.Helper()

	paths := []string{
		"../../GeneralUser-GS.sf2",
		"GeneralUser-GS.sf2",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
