// Package fileutil provides unified access to input files on the real file
// system and in embedded file systems.
package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem opens input files relative to a base path. Lookups fall back to
// a case-insensitive match so dumps recorded on case-insensitive systems
// (FIXTURE.SYX vs fixture.syx) resolve on any host.
type FileSystem interface {
	// Open opens the named file for sequential reading.
	Open(name string) (io.ReadCloser, error)
	// ReadFile reads the whole named file.
	ReadFile(name string) ([]byte, error)
	// BasePath returns the directory names are resolved against.
	BasePath() string
}

// RealFS reads from the operating system's file system.
type RealFS struct {
	basePath string
}

// NewRealFS returns a FileSystem rooted at basePath. An empty basePath
// resolves names against the working directory, and absolute names are used
// as-is.
func NewRealFS(basePath string) *RealFS {
	return &RealFS{basePath: basePath}
}

func (r *RealFS) Open(name string) (io.ReadCloser, error) {
	actualPath, err := r.find(name)
	if err != nil {
		return nil, err
	}
	return os.Open(actualPath)
}

func (r *RealFS) ReadFile(name string) ([]byte, error) {
	actualPath, err := r.find(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(actualPath)
}

func (r *RealFS) BasePath() string {
	return r.basePath
}

func (r *RealFS) find(name string) (string, error) {
	p := name
	if r.basePath != "" && !filepath.IsAbs(name) {
		p = filepath.Join(r.basePath, name)
	}
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return FindFileCaseInsensitive(filepath.Dir(p), filepath.Base(p))
}

// EmbedFS reads from an fs.FS such as an embed.FS.
type EmbedFS struct {
	fsys     fs.FS
	basePath string
}

// NewEmbedFS returns a FileSystem over fsys rooted at basePath.
func NewEmbedFS(fsys fs.FS, basePath string) *EmbedFS {
	return &EmbedFS{fsys: fsys, basePath: basePath}
}

func (e *EmbedFS) Open(name string) (io.ReadCloser, error) {
	actualPath, err := e.find(name)
	if err != nil {
		return nil, err
	}
	return e.fsys.Open(actualPath)
}

func (e *EmbedFS) ReadFile(name string) ([]byte, error) {
	actualPath, err := e.find(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(e.fsys, actualPath)
}

func (e *EmbedFS) BasePath() string {
	return e.basePath
}

func (e *EmbedFS) find(name string) (string, error) {
	// fs.FS paths are slash separated and unrooted
	clean := strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
	p := clean
	if e.basePath != "" {
		p = path.Join(e.basePath, clean)
	}
	if f, err := e.fsys.Open(p); err == nil {
		f.Close()
		return p, nil
	}
	return FindFileCaseInsensitiveFS(e.fsys, path.Dir(p), path.Base(p))
}
