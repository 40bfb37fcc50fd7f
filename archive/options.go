package archive

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modernice/zipdoc/internal"
	"github.com/modernice/zipdoc/internal/slice"
	"github.com/spf13/afero"
	"golang.org/x/exp/slog"
)

// DefaultPrefix is the name prefix of the temporary directories created by
// [Extract].
const DefaultPrefix = "zipdoc-"

// Option configures [Extract].
type Option func(*extraction)

type extraction struct {
	fs       afero.Fs
	tempDir  string
	prefix   string
	include  []string
	exclude  []string
	skip     Skip
	maxFiles int
	log      *slog.Logger
}

// WithFs extracts archives into the given filesystem instead of the operating
// system's.
func WithFs(fs afero.Fs) Option {
	return func(e *extraction) {
		e.fs = fs
	}
}

// TempDir sets the parent directory of the temporary extraction directory.
// The default is the operating system's temporary directory.
func TempDir(dir string) Option {
	return func(e *extraction) {
		e.tempDir = dir
	}
}

// Prefix sets the name prefix of the temporary extraction directory.
func Prefix(prefix string) Option {
	return func(e *extraction) {
		e.prefix = prefix
	}
}

// WithLogger returns an Option that sets the logger of the extraction.
func WithLogger(h slog.Handler) Option {
	return func(e *extraction) {
		e.log = slog.New(h)
	}
}

// Include restricts the enumerated files to those matching at least one of the
// given doublestar patterns (for example "**/*.go").
func Include(patterns ...string) Option {
	patterns = normalizePatterns(patterns)
	return func(e *extraction) {
		e.include = append(e.include, patterns...)
	}
}

// Exclude removes files matching any of the given doublestar patterns from the
// enumerated files.
func Exclude(patterns ...string) Option {
	patterns = normalizePatterns(patterns)
	return func(e *extraction) {
		e.exclude = append(e.exclude, patterns...)
	}
}

// WithSkip sets the skip rules applied while enumerating files.
func WithSkip(skip Skip) Option {
	return func(e *extraction) {
		e.skip = skip
	}
}

// MaxFiles limits the number of enumerated files. Zero means no limit.
func MaxFiles(n int) Option {
	return func(e *extraction) {
		e.maxFiles = n
	}
}

func newExtraction(opts ...Option) (extraction, error) {
	cfg := extraction{skip: SkipNone()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.fs == nil {
		cfg.fs = afero.NewOsFs()
	}

	if cfg.prefix == "" {
		cfg.prefix = DefaultPrefix
	}

	if cfg.log == nil {
		cfg.log = internal.NopLogger()
	}

	for _, pattern := range append(append([]string{}, cfg.include...), cfg.exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return cfg, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	return cfg, nil
}

func normalizePatterns(patterns []string) []string {
	patterns = slice.Map(patterns, strings.TrimSpace)
	return slice.NoZero(patterns)
}

func (cfg extraction) matches(path string) bool {
	if len(cfg.include) > 0 && !matchAny(cfg.include, path) {
		return false
	}
	return !matchAny(cfg.exclude, path)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		// patterns are validated by newExtraction
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
