package app

import (
	"io/fs"
	"path"
	"path/filepath"

	"github.com/zurustar/xmidi/pkg/fileutil"
)

// SoundFontLocation represents the location of a SoundFont file.
type SoundFontLocation struct {
	// Path is the path to the SoundFont file, relative to FileSystem
	Path string
	// FileSystem is the FileSystem to use for loading (nil for external files)
	FileSystem fileutil.FileSystem
	// IsEmbedded indicates whether the SoundFont is embedded
	IsEmbedded bool
}

// DefaultSoundFontName is the SoundFont used when only --soundfont=default is given.
const DefaultSoundFontName = "GeneralUser-GS.sf2"

// embeddedSoundFontDir is the directory SoundFonts are embedded under.
const embeddedSoundFontDir = "soundfonts"

// findSoundFont searches for a SoundFont file in the following order:
// 1. Embedded soundfonts directory (by base name)
// 2. The given path, relative to the current directory
// 3. The directory of the input file
//
// Names are matched case-insensitively.
func findSoundFont(embedFS fs.FS, name, inputPath string) *SoundFontLocation {
	if name == "default" {
		name = DefaultSoundFontName
	}

	// 1. 埋め込みSoundFont
	if embedFS != nil {
		base := path.Base(filepath.ToSlash(name))
		if p, err := fileutil.FindFileCaseInsensitiveFS(embedFS, embeddedSoundFontDir, base); err == nil {
			return &SoundFontLocation{
				Path:       path.Base(p), // FileSystemのベースパスが"soundfonts"なので、ファイル名だけ
				FileSystem: fileutil.NewEmbedFS(embedFS, embeddedSoundFontDir),
				IsEmbedded: true,
			}
		}
	}

	// 2. 指定されたパス（カレントディレクトリ基準）
	if p, err := fileutil.FindFileCaseInsensitive(filepath.Dir(name), filepath.Base(name)); err == nil {
		return &SoundFontLocation{Path: p}
	}

	// 3. 入力ファイルと同じディレクトリ
	if inputPath != "" {
		if p, err := fileutil.FindFileCaseInsensitive(filepath.Dir(inputPath), filepath.Base(name)); err == nil {
			return &SoundFontLocation{Path: p}
		}
	}

	return nil
}
