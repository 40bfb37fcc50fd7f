package tests

import (
	"archive/zip"
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"testing"

	"golang.org/x/exp/maps"
)

//go:embed all:testdata/fixtures
var fixturesFS embed.FS

// Must is a function that takes a value and an error and returns the value. If
// the error is not nil, Must panics with the error.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Entry is a single entry of a ZIP archive built by [ZipEntries].
type Entry struct {
	Name string
	Data []byte
	Mode fs.FileMode
}

// File returns an Entry for a regular file.
func File(name, content string) Entry {
	return Entry{Name: name, Data: []byte(content), Mode: 0o644}
}

// Dir returns an Entry for a directory. The name gets a trailing slash.
func Dir(name string) Entry {
	return Entry{Name: name + "/", Mode: fs.ModeDir | 0o755}
}

// Symlink returns an Entry for a symbolic link pointing at target.
func Symlink(name, target string) Entry {
	return Entry{Name: name, Data: []byte(target), Mode: fs.ModeSymlink | 0o777}
}

// Zip builds a ZIP archive from a map of file names to contents. Entries are
// written in sorted order.
func Zip(t testing.TB, files map[string]string) []byte {
	t.Helper()

	names := maps.Keys(files)
	sort.Strings(names)

	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = File(name, files[name])
	}

	return ZipEntries(t, entries...)
}

// ZipEntries builds a ZIP archive from the given entries, in the given order.
func ZipEntries(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		header := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		header.SetMode(e.Mode)

		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("create zip entry %q: %v", e.Name, err)
		}

		if _, err := w.Write(e.Data); err != nil {
			t.Fatalf("write zip entry %q: %v", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	return buf.Bytes()
}

// Fixture zips the fixture directory testdata/fixtures/<name>, hidden files
// included.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()

	root, err := fs.Sub(fixturesFS, "testdata/fixtures/"+name)
	if err != nil {
		t.Fatalf("fixture %q: %v", name, err)
	}

	var entries []Entry
	if err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		f, err := root.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		entries = append(entries, Entry{Name: path, Data: data, Mode: 0o644})

		return nil
	}); err != nil {
		t.Fatalf("walk fixture %q: %v", name, err)
	}

	if len(entries) == 0 {
		t.Fatalf("fixture %q is empty", name)
	}

	return ZipEntries(t, entries...)
}
