package app

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/wav"

	"github.com/zurustar/xmidi/pkg/cli"
	"github.com/zurustar/xmidi/pkg/midi"
	"github.com/zurustar/xmidi/pkg/synth"
)

var voiceChange = []byte{
	0xB0, 0x00, 0x00, 0xB0, 0x20, 0x7A, 0xC0, 0x05,
	0xF0, 0x43, 0x10, 0x4C, 0x02, 0x01, 0x00, 0x03, 0x10, 0xF7,
	0xB0, 0x5B, 0x14,
	0xF0, 0x43, 0x10, 0x4C, 0x02, 0x01, 0x20, 0x41, 0x08, 0xF7,
	0xB0, 0x5D, 0x19,
}

func run(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := New(nil, bytes.NewReader(stdin), &stdout, &stderr).Run(args)
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestRun_Help(t *testing.T) {
	stdout, _, err := run(t, nil, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("help output missing usage:\n%s", stdout)
	}
}

func TestRun_File(t *testing.T) {
	path := writeInput(t, "test4.syx", voiceChange)

	stdout, stderr, err := run(t, nil, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 7 {
		t.Fatalf("printed %d lines, want 7:\n%s", len(lines), stdout)
	}
	if !strings.HasSuffix(lines[2], "Electric Piano 2") {
		t.Errorf("line 3 = %q", lines[2])
	}
	for _, want := range []string{"input stream closed", "Session finished", "messages=7", "ControlChange=4"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("log missing %q:\n%s", want, stderr)
		}
	}
}

func TestRun_CaseInsensitiveFile(t *testing.T) {
	path := writeInput(t, "DUMP.SYX", []byte{0x90, 0x3C, 0x40})

	stdout, _, err := run(t, nil, filepath.Join(filepath.Dir(path), "dump.syx"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "key on") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRun_Stdin(t *testing.T) {
	stdout, _, err := run(t, []byte{0xC9, 0x00}, "-", "--log-format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "program change          (channel 10): Acoustic Grand Piano") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRun_DecodeError(t *testing.T) {
	data := []byte{0x90, 0x3C, 0x40, 0x3C, 0x80, 0x3C, 0x00}

	_, _, err := run(t, data)
	if !errors.Is(err, midi.ErrInvalidStatusByte) {
		t.Errorf("error = %v, want ErrInvalidStatusByte", err)
	}

	stdout, _, err := run(t, data, "--resync")
	if err != nil {
		t.Fatalf("resync: unexpected error: %v", err)
	}
	if strings.Count(stdout, "\n") != 2 {
		t.Errorf("resync output = %q", stdout)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"invalid flag", []string{"--log-level", "trace"}, nil},
		{"missing input", []string{filepath.Join(t.TempDir(), "missing.syx")}, os.ErrNotExist},
		{"missing soundfont", []string{"--soundfont", filepath.Join(t.TempDir(), "none.sf2")}, synth.ErrSoundFontNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, nil, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

type silentSynth struct{}

func (silentSynth) ProcessMidiMessage(channel, command, data1, data2 int32) {}

func (silentSynth) Render(left, right []float32) {
	clear(left)
	clear(right)
}

func TestFinishRender_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create output: %v", err)
	}
	r, err := synth.NewRenderer(f, silentSynth{}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	app := &Application{
		config:     &cli.Config{RenderPath: path},
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		renderer:   r,
		renderFile: f,
	}
	if err := r.HandleMessage(midi.NewNoteOn(0, 60, 100)); err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	if err := app.finishRender(); err != nil {
		t.Fatalf("finishRender failed: %v", err)
	}
	// a deferred second call must not touch the closed file
	if err := app.finishRender(); err != nil {
		t.Errorf("second finishRender = %v, want nil", err)
	}
	if _, err := f.Write([]byte{0}); err == nil {
		t.Error("output file should be closed")
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer in.Close()
	if !wav.NewDecoder(in).IsValidFile() {
		t.Error("output is not a valid WAV file")
	}
}

func TestRun_MaxSysEx(t *testing.T) {
	data := []byte{0xF0, 0x43, 0x10, 0x4C, 0x02, 0xF7, 0xC0, 0x05}

	_, _, err := run(t, data, "--max-sysex", "2")
	if !errors.Is(err, midi.ErrSysExTooLong) {
		t.Errorf("error = %v, want ErrSysExTooLong", err)
	}

	stdout, stderr, err := run(t, data, "--max-sysex", "2", "--resync")
	if err != nil {
		t.Fatalf("resync: unexpected error: %v", err)
	}
	if strings.Contains(stdout, "sysex") || !strings.Contains(stdout, "Electric Piano 2") {
		t.Errorf("resync output = %q", stdout)
	}
	if !strings.Contains(stderr, "dropped system exclusive") {
		t.Errorf("log missing dropped sysex:\n%s", stderr)
	}
}
