package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "intro.mp3")
	lib := New(dir)

	tr, err := lib.Resolve("intro")
	if err != nil {
		t.Fatalf("resolve intro: %v", err)
	}
	if tr.Path != filepath.Join(dir, "intro.mp3") || tr.Name != "intro" {
		t.Fatalf("track = %+v", tr)
	}

	_, err = lib.Resolve("missing_track")
	var nf *TrackNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want TrackNotFoundError", err)
	}
	if got, want := err.Error(), "Song **missing_track** does not exist."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveNotCached(t *testing.T) {
	dir := t.TempDir()
	lib := New(dir)
	if _, err := lib.Resolve("late"); err == nil {
		t.Fatal("expected not found before the file exists")
	}
	touch(t, dir, "late.mp3")
	if _, err := lib.Resolve("late"); err != nil {
		t.Fatalf("file added later not found: %v", err)
	}
}

func TestResolveDirectoryIsNotATrack(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "album.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}
	var nf *TrackNotFoundError
	if _, err := New(dir).Resolve("album"); !errors.As(err, &nf) {
		t.Fatalf("err = %v, want TrackNotFoundError", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mp3")
	touch(t, dir, "a.mp3")
	touch(t, dir, "notes.txt")
	touch(t, dir, "c.MP3")

	names, err := New(dir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("names = %q, want [a b]", names)
	}
}

func TestListMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope")).List(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
