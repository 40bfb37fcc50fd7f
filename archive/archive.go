package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/exp/slog"
)

const (
	uploadName = "upload.zip"
	filesDir   = "files"
)

// ErrEmpty is returned when an archive was extracted successfully but contains
// no files that survived the configured filters.
var ErrEmpty = errors.New("no files found in archive")

// Error is returned when an upload cannot be read as a ZIP archive, or when one
// of its entries cannot be extracted.
type Error struct {
	Op  string
	Err error
}

func (err *Error) Error() string {
	return fmt.Sprintf("archive: %s: %v", err.Op, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Archive is an extracted ZIP upload. Files holds the paths of all extracted
// regular files relative to Root, slash-separated and in walk order. Call Close
// to remove the temporary directory that backs the Archive.
type Archive struct {
	Root     string
	Files    []string
	Rejected []Rejection

	fs     afero.Fs
	scope  string
	closed bool
	log    *slog.Logger
}

// Rejection is an archive entry that was not extracted.
type Rejection struct {
	Name   string
	Reason string
}

// ExtractedFile is the decoded text of a file in an [Archive].
type ExtractedFile struct {
	Path    string
	Content string
}

// Extract writes data into a fresh temporary directory, extracts every entry
// of the ZIP archive into it and enumerates the extracted files. Entries whose
// names would escape the extraction root, and entries that are not regular
// files, are rejected instead of written.
//
// The temporary directory is removed when Extract fails. On success the caller
// owns it and must call [Archive.Close].
func Extract(ctx context.Context, data []byte, opts ...Option) (_ *Archive, err error) {
	cfg, err := newExtraction(opts...)
	if err != nil {
		return nil, err
	}

	scope, err := afero.TempDir(cfg.fs, cfg.tempDir, cfg.prefix)
	if err != nil {
		return nil, fmt.Errorf("create temporary directory: %w", err)
	}

	a := &Archive{
		Root:  filepath.Join(scope, filesDir),
		fs:    cfg.fs,
		scope: scope,
		log:   cfg.log,
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.log.Debug("Extracting archive ...", "dir", scope, "size", len(data))

	if err := a.fs.MkdirAll(a.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create extraction root: %w", err)
	}

	upload := filepath.Join(scope, uploadName)
	if err := afero.WriteFile(a.fs, upload, data, 0o600); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	if err := a.extract(ctx, upload); err != nil {
		return nil, err
	}

	if err := a.enumerate(cfg); err != nil {
		return nil, fmt.Errorf("enumerate files: %w", err)
	}

	a.log.Info(fmt.Sprintf("Found %d file(s) in archive", len(a.Files)), "rejected", len(a.Rejected))

	return a, nil
}

func (a *Archive) extract(ctx context.Context, upload string) error {
	f, err := a.fs.Open(upload)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat upload: %w", err)
	}

	// Names are validated per entry by EntryPath, so insecure paths are not
	// fatal for the whole archive.
	zr, err := zip.NewReader(f, info.Size())
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return &Error{Op: "open", Err: err}
	}

	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		name, err := EntryPath(entry.Name)
		if err != nil {
			a.reject(entry.Name, err.Error())
			continue
		}

		if entry.FileInfo().IsDir() {
			if err := a.fs.MkdirAll(a.path(name), 0o755); err != nil {
				return &Error{Op: "extract " + entry.Name, Err: err}
			}
			continue
		}

		if !entry.Mode().IsRegular() {
			a.reject(entry.Name, "not a regular file")
			continue
		}

		if err := a.extractFile(entry, name); err != nil {
			return err
		}
	}

	return nil
}

func (a *Archive) extractFile(entry *zip.File, name string) (err error) {
	rc, err := entry.Open()
	if err != nil {
		return &Error{Op: "read " + entry.Name, Err: err}
	}
	defer rc.Close()

	// Entries can conflict with each other, e.g. a file "a" next to "a/b.py".
	target := a.path(name)
	if err := a.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &Error{Op: "extract " + entry.Name, Err: err}
	}

	out, err := a.fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return &Error{Op: "extract " + entry.Name, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()

	if _, err := io.Copy(out, rc); err != nil {
		return &Error{Op: "read " + entry.Name, Err: err}
	}

	a.log.Debug("Extracted file", "path", name)

	return nil
}

func (a *Archive) reject(name, reason string) {
	a.log.Warn("Skipping archive entry", "entry", name, "reason", reason)
	a.Rejected = append(a.Rejected, Rejection{Name: name, Reason: reason})
}

func (a *Archive) path(rel string) string {
	return filepath.Join(a.Root, filepath.FromSlash(rel))
}

// EntryPath validates the name of a ZIP entry and returns its cleaned,
// slash-separated form. Absolute names and names that resolve outside of the
// extraction root are rejected.
func EntryPath(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" {
		return "", errors.New("empty entry name")
	}

	if path.IsAbs(name) || hasVolume(name) {
		return "", errors.New("absolute entry path")
	}

	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.New("entry path escapes the archive root")
	}

	if clean == "." {
		return "", errors.New("empty entry name")
	}

	return clean, nil
}

func hasVolume(name string) bool {
	return len(name) >= 2 && name[1] == ':' && ((name[0] >= 'a' && name[0] <= 'z') || (name[0] >= 'A' && name[0] <= 'Z'))
}

// Empty reports whether the archive contains no files.
func (a *Archive) Empty() bool {
	return len(a.Files) == 0
}

// List returns a copy of Files.
func (a *Archive) List() []string {
	return append([]string(nil), a.Files...)
}

// Read reads the file at the given slash-separated path and decodes it as
// text. Bytes that are not valid UTF-8 are dropped.
func (a *Archive) Read(file string) (ExtractedFile, error) {
	b, err := afero.ReadFile(a.fs, a.path(file))
	if err != nil {
		return ExtractedFile{}, fmt.Errorf("read %s: %w", file, err)
	}
	return ExtractedFile{Path: file, Content: Text(b)}, nil
}

// ReadText is like Read but only returns the decoded content.
func (a *Archive) ReadText(file string) (string, error) {
	f, err := a.Read(file)
	return f.Content, err
}

// Close removes the temporary directory of the archive. Calling Close more
// than once is a no-op.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if err := a.fs.RemoveAll(a.scope); err != nil {
		return fmt.Errorf("remove %s: %w", a.scope, err)
	}
	a.log.Debug("Removed temporary directory", "dir", a.scope)

	return nil
}
