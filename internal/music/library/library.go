// Package library resolves track names to audio files in a flat media
// directory. Nothing is cached: the directory is consulted on every call.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the only file extension recognized as a playable track.
const Ext = ".mp3"

// Track is a named audio file.
type Track struct {
	Name string
	Path string
}

// TrackNotFoundError is returned when no file exists for a track name.
type TrackNotFoundError struct {
	Name string
}

func (e *TrackNotFoundError) Error() string {
	return fmt.Sprintf("Song **%s** does not exist.", e.Name)
}

// Library is a media directory.
type Library struct {
	dir string
}

// New returns a library rooted at dir.
func New(dir string) *Library {
	return &Library{dir: dir}
}

// Resolve maps name to dir/<name>.mp3 and checks that the file exists.
// The name is not sanitized.
func (l *Library) Resolve(name string) (Track, error) {
	path := filepath.Join(l.dir, name+Ext)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Track{}, &TrackNotFoundError{Name: name}
		}
		return Track{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Track{}, &TrackNotFoundError{Name: name}
	}
	return Track{Name: name, Path: path}, nil
}

// List returns the names of all tracks, extension stripped, in
// lexicographic order of their file names.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read media dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	return names, nil
}
