package archive

import (
	"io/fs"
	"strings"
)

// Skip decides which directories and files of an extracted archive are left
// out of the enumeration. The zero value skips nothing.
type Skip struct {
	// Hidden skips directories whose name starts with a dot.
	Hidden bool
	// Dotfiles skips files whose name starts with a dot.
	Dotfiles bool
	// ResourceForks skips the "__MACOSX" directory that the macOS archive
	// utility adds to ZIP files.
	ResourceForks bool

	Dir  func(Entry) bool
	File func(Entry) bool
}

// Entry is the directory or file that a Skip rule is asked about. Path is
// relative to the extraction root and slash-separated.
type Entry struct {
	fs.FileInfo
	Path string
}

// SkipNone returns a Skip that skips nothing. Every extracted file is
// enumerated.
func SkipNone() Skip {
	return Skip{}
}

// SkipDefault returns a Skip that leaves out hidden directories, dotfiles and
// macOS resource forks.
func SkipDefault() Skip {
	return Skip{
		Hidden:        true,
		Dotfiles:      true,
		ResourceForks: true,
	}
}

// ExcludeDir reports whether the directory e and everything below it should be
// skipped.
func (s Skip) ExcludeDir(e Entry) bool {
	if s.Hidden && strings.HasPrefix(e.Name(), ".") {
		return true
	}

	if s.ResourceForks && e.Name() == "__MACOSX" {
		return true
	}

	if s.Dir != nil {
		return s.Dir(e)
	}

	return false
}

// ExcludeFile reports whether the file e should be skipped.
func (s Skip) ExcludeFile(e Entry) bool {
	if s.Dotfiles && strings.HasPrefix(e.Name(), ".") {
		return true
	}

	if s.File != nil {
		return s.File(e)
	}

	return false
}
