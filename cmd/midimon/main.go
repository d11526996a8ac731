package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/zurustar/xmidi/pkg/app"
)

// SoundFonts placed in soundfonts/ before building are embedded and found
// by name with --soundfont.
//
//go:embed soundfonts
var embeddedSoundFonts embed.FS

func main() {
	application := app.New(embeddedSoundFonts, os.Stdin, os.Stdout, os.Stderr)
	if err := application.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
