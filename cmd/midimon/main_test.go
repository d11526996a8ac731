package main

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedSoundFontDir(t *testing.T) {
	if _, err := fs.Stat(embeddedSoundFonts, "soundfonts"); err != nil {
		t.Errorf("soundfonts directory not embedded: %v", err)
	}
}

// TestCLI builds and runs the binary end to end
func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go run in short mode")
	}

	input := filepath.Join(t.TempDir(), "in.syx")
	if err := os.WriteFile(input, []byte{0x90, 0x3C, 0x40, 0xF0, 0x43, 0x01, 0xF7}, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	tests := []struct {
		name       string
		args       []string
		wantExit   int
		wantOutput string
	}{
		{"help flag", []string{"--help"}, 0, "midimon - MIDI byte stream monitor"},
		{"decode file", []string{input}, 0, "sysex message           (id      43): 01"},
		{"missing file", []string{input + ".missing"}, 1, "Error: failed to open input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command("go", append([]string{"run", "."}, tt.args...)...)
			cmd.Dir = "."
			output, err := cmd.CombinedOutput()

			exit := 0
			if exitErr, ok := err.(*exec.ExitError); ok {
				exit = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("go run failed: %v", err)
			}
			if exit != tt.wantExit {
				t.Errorf("exit code = %d, want %d\n%s", exit, tt.wantExit, output)
			}
			if !strings.Contains(string(output), tt.wantOutput) {
				t.Errorf("output missing %q:\n%s", tt.wantOutput, output)
			}
		})
	}
}
