package archive_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/modernice/zipdoc/archive"
	"github.com/modernice/zipdoc/internal/tests"
	"github.com/spf13/afero"
)

func TestExtract(t *testing.T) {
	fs := afero.NewMemMapFs()

	a, err := archive.Extract(context.Background(), tests.Fixture(t, "scenario"), archive.WithFs(fs))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	defer a.Close()

	tests.ExpectFiles(t, []string{"a.py", "b/c.py"}, a.Files)

	if a.Empty() {
		t.Fatalf("Empty() should return false")
	}

	f, err := a.Read("b/c.py")
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	if f.Path != "b/c.py" || f.Content != "print(2)" {
		t.Fatalf("Read() returned %+v; want content %q", f, "print(2)")
	}
}

func TestExtract_nested(t *testing.T) {
	a, err := archive.Extract(context.Background(), tests.Fixture(t, "project"), archive.WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	defer a.Close()

	tests.ExpectFiles(t, []string{
		".env",
		".github/ci.yml",
		"README.md",
		"__MACOSX/src/._main.py",
		"src/main.py",
		"src/util/ops.py",
	}, a.Files)
}

func TestExtract_directoriesAreNotListed(t *testing.T) {
	data := tests.ZipEntries(t,
		tests.Dir("empty"),
		tests.Dir("src"),
		tests.File("src/main.go", "package main"),
	)

	a, err := archive.Extract(context.Background(), data, archive.WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	defer a.Close()

	tests.ExpectFiles(t, []string{"src/main.go"}, a.Files)
}

func TestExtract_empty(t *testing.T) {
	data := tests.ZipEntries(t, tests.Dir("nothing"))

	a, err := archive.Extract(context.Background(), data, archive.WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	defer a.Close()

	if !a.Empty() {
		t.Fatalf("Empty() should return true; files=%v", a.Files)
	}
}

func TestExtract_invalidArchive(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := archive.Extract(context.Background(), []byte("definitely not a zip"), archive.WithFs(fs), archive.TempDir("/tmp"))

	var archiveErr *archive.Error
	if !errors.As(err, &archiveErr) {
		t.Fatalf("Extract() should fail with %T; got %v", archiveErr, err)
	}

	expectNoScopes(t, fs, "/tmp")
}

func TestExtract_conflictingEntries(t *testing.T) {
	fs := afero.NewOsFs()
	dir := t.TempDir()

	data := tests.ZipEntries(t,
		tests.File("a", "x"),
		tests.File("a/b.py", "y"),
	)

	_, err := archive.Extract(context.Background(), data, archive.WithFs(fs), archive.TempDir(dir))

	var archiveErr *archive.Error
	if !errors.As(err, &archiveErr) {
		t.Fatalf("Extract() should fail with %T; got %v", archiveErr, err)
	}

	expectNoScopes(t, fs, dir)
}

func TestExtract_closeError(t *testing.T) {
	fs := closeErrorFs{Fs: afero.NewMemMapFs(), suffix: ".py"}

	_, err := archive.Extract(context.Background(), tests.Fixture(t, "scenario"), archive.WithFs(fs), archive.TempDir("/tmp"))
	if !errors.Is(err, errClose) {
		t.Fatalf("Extract() should fail with %q; got %v", errClose, err)
	}

	expectNoScopes(t, fs, "/tmp")
}

func TestExtract_pathTraversal(t *testing.T) {
	fs := afero.NewMemMapFs()

	data := tests.ZipEntries(t,
		tests.File("../evil.py", "import os"),
		tests.File("src/../../evil.py", "import os"),
		tests.File("/etc/passwd", "root"),
		tests.File(`C:\windows\evil.py`, "import os"),
		tests.File("src/../ok.py", "print('ok')"),
	)

	a, err := archive.Extract(context.Background(), data, archive.WithFs(fs), archive.TempDir("/work/tmp"))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	defer a.Close()

	tests.ExpectFiles(t, []string{"ok.py"}, a.Files)

	if len(a.Rejected) != 4 {
		t.Fatalf("Extract() should reject %d entries; rejected %v", 4, a.Rejected)
	}

	for _, outside := range []string{"/work/evil.py", "/work/tmp/evil.py", "/evil.py", "/etc/passwd"} {
		if ok, _ := afero.Exists(fs, outside); ok {
			t.Fatalf("%s should not have been written", outside)
		}
	}
}

func TestExtract_symlinksAreRejected(t *testing.T) {
	data := tests.ZipEntries(t,
		tests.Symlink("link", "/etc/passwd"),
		tests.File("main.py", "print(1)"),
	)

	a, err := archive.Extract(context.Background(), data, archive.WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	defer a.Close()

	tests.ExpectFiles(t, []string{"main.py"}, a.Files)

	if len(a.Rejected) != 1 || a.Rejected[0].Name != "link" {
		t.Fatalf("Extract() should reject the symlink; rejected %v", a.Rejected)
	}
}

func TestExtract_nonUTF8(t *testing.T) {
	data := tests.ZipEntries(t, tests.Entry{
		Name: "latin1.py",
		Data: []byte("caf\xe9 = 1\nprint(caf\xe9)\xff"),
		Mode: 0o644,
	})

	a, err := archive.Extract(context.Background(), data, archive.WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	defer a.Close()

	got, err := a.ReadText("latin1.py")
	if err != nil {
		t.Fatalf("ReadText() failed: %v", err)
	}

	if want := "caf = 1\nprint(caf)"; got != want {
		t.Fatalf("ReadText() returned %q; want %q", got, want)
	}
}

func TestArchive_Close(t *testing.T) {
	fs := afero.NewMemMapFs()

	a, err := archive.Extract(context.Background(), tests.Fixture(t, "scenario"), archive.WithFs(fs), archive.TempDir("/tmp"))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	if ok, _ := afero.DirExists(fs, a.Root); !ok {
		t.Fatalf("extraction root %s should exist before Close()", a.Root)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}

	expectNoScopes(t, fs, "/tmp")
}

func TestExtract_canceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := archive.Extract(ctx, tests.Fixture(t, "scenario"), archive.WithFs(fs), archive.TempDir("/tmp"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Extract() should fail with %v; got %v", context.Canceled, err)
	}

	expectNoScopes(t, fs, "/tmp")
}

func TestEntryPath(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "a.py", want: "a.py"},
		{name: "b/c.py", want: "b/c.py"},
		{name: "./b//c.py", want: "b/c.py"},
		{name: `b\c.py`, want: "b/c.py"},
		{name: "b/../c.py", want: "c.py"},
		{name: "../c.py", wantErr: true},
		{name: "b/../../c.py", wantErr: true},
		{name: "/c.py", wantErr: true},
		{name: "C:/c.py", wantErr: true},
		{name: ".", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := archive.EntryPath(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("EntryPath(%q) should fail; got %q", tt.name, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("EntryPath(%q) failed: %v", tt.name, err)
			}

			if got != tt.want {
				t.Fatalf("EntryPath(%q) returned %q; want %q", tt.name, got, tt.want)
			}
		})
	}
}

func expectNoScopes(t *testing.T, fs afero.Fs, dir string) {
	t.Helper()

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return
	}

	if len(infos) > 0 {
		t.Fatalf("temporary directory %s should be empty; found %d entries", dir, len(infos))
	}
}

var errClose = errors.New("flush failed")

type closeErrorFs struct {
	afero.Fs
	suffix string
}

func (fs closeErrorFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil || !strings.HasSuffix(name, fs.suffix) {
		return f, err
	}
	return closeErrorFile{f}, nil
}

type closeErrorFile struct {
	afero.File
}

func (f closeErrorFile) Close() error {
	f.File.Close()
	return errClose
}
