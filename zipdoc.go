package zipdoc

import (
	"context"
	"fmt"

	"github.com/modernice/zipdoc/archive"
	"github.com/modernice/zipdoc/generate"
	"github.com/modernice/zipdoc/internal"
	"golang.org/x/exp/slog"
)

// Documenter documents uploaded ZIP archives. It extracts an upload into a
// temporary directory, generates documentation for every extracted file using
// a [generate.Service] and removes the temporary directory afterwards.
type Documenter struct {
	svc generate.Service
	log *slog.Logger
}

// Option is an option for a [Documenter].
type Option func(*Documenter)

// WithLogger returns an Option that sets the logger of the Documenter. The
// logger is passed on to the extraction and the generator.
func WithLogger(h slog.Handler) Option {
	return func(d *Documenter) {
		d.log = slog.New(h)
	}
}

// New returns a Documenter that uses svc to generate documentation.
func New(svc generate.Service, opts ...Option) *Documenter {
	d := &Documenter{svc: svc}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = internal.NopLogger()
	}
	return d
}

// DocumentOption is an option for [Documenter.Document].
type DocumentOption func(*documentation)

// ExtractWith returns a DocumentOption that passes opts to [archive.Extract].
func ExtractWith(opts ...archive.Option) DocumentOption {
	return func(d *documentation) {
		d.extractOpts = append(d.extractOpts, opts...)
	}
}

// GenerateWith returns a DocumentOption that passes opts to [generate.New].
func GenerateWith(opts ...generate.Option) DocumentOption {
	return func(d *documentation) {
		d.genOpts = append(d.genOpts, opts...)
	}
}

type documentation struct {
	extractOpts []archive.Option
	genOpts     []generate.Option
}

// Result is the outcome of [Documenter.Document]. Files are the extracted files
// in processing order and Rejected the archive entries that were not
// extracted.
type Result struct {
	*generate.Result

	Files    []string
	Rejected []archive.Rejection
}

// Document extracts upload and generates the combined documentation of its
// files.
//
// If the archive contains no files, Document returns a Result with an empty
// document together with [archive.ErrEmpty]. If ctx is canceled during
// generation, the partial Result is returned together with the context error.
// The temporary directory of the upload is removed before Document returns.
func (d *Documenter) Document(ctx context.Context, upload []byte, opts ...DocumentOption) (*Result, error) {
	var cfg documentation
	for _, opt := range opts {
		opt(&cfg)
	}

	extractOpts := append([]archive.Option{archive.WithLogger(d.log.Handler())}, cfg.extractOpts...)
	a, err := archive.Extract(ctx, upload, extractOpts...)
	if err != nil {
		return nil, fmt.Errorf("extract archive: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			d.log.Warn("Failed to remove temporary directory", "error", err)
		}
	}()

	res := &Result{
		Files:    a.List(),
		Rejected: a.Rejected,
	}

	if a.Empty() {
		res.Result = &generate.Result{Document: &generate.Document{}}
		return res, archive.ErrEmpty
	}

	genOpts := append([]generate.Option{generate.WithLogger(d.log.Handler())}, cfg.genOpts...)
	gen := generate.New(d.svc, genOpts...)

	res.Result, err = gen.Generate(ctx, a)
	if err != nil {
		return res, fmt.Errorf("generate: %w", err)
	}

	return res, nil
}
