package generate

import (
	"context"
	"fmt"
	"sync"

	"github.com/modernice/zipdoc/internal"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Service generates the documentation text for a single file. The Context
// carries the file and the full prompt to send to the model.
type Service interface {
	GenerateDoc(Context) (string, error)
}

// Context is the [context.Context] of a single generation. It provides the
// file being documented and the prompt built for it.
type Context interface {
	context.Context

	Input() Input
	Prompt() string
	File() string
}

// Input is a file to generate documentation for. Code is the decoded text of
// the file.
type Input struct {
	Path string
	Code string
}

// Source provides the files of an archive in processing order.
type Source interface {
	// List returns the paths of the files, in the order they are processed.
	List() []string

	// ReadText returns the decoded content of the file at path.
	ReadText(path string) (string, error)
}

// Generator runs a [Service] over every file of a [Source] and combines the
// results into a [Document]. A failing file is reported and skipped; it never
// stops the remaining files from being processed.
type Generator struct {
	svc      Service
	template string
	footer   string
	workers  int
	onNotice []func(Notice)
	log      *slog.Logger
}

// Option is an option for a [Generator].
type Option func(*Generator)

// WithLogger returns an Option that sets the logger of the Generator.
func WithLogger(h slog.Handler) Option {
	return func(g *Generator) {
		g.log = slog.New(h)
	}
}

// Template replaces [DefaultTemplate] as the instruction sent in front of every
// file.
func Template(tpl string) Option {
	return func(g *Generator) {
		g.template = tpl
	}
}

// Footer returns an Option that appends msg to every generated documentation.
func Footer(msg string) Option {
	return func(g *Generator) {
		g.footer = msg
	}
}

// Workers sets the number of files that are documented concurrently. The
// default is 1, which processes files strictly one after another. Results are
// combined in input order regardless of the number of workers.
func Workers(n int) Option {
	return func(g *Generator) {
		g.workers = n
	}
}

// OnNotice registers a function that is called with the success or failure
// notice of every processed file, in input order.
func OnNotice(fn func(Notice)) Option {
	return func(g *Generator) {
		g.onNotice = append(g.onNotice, fn)
	}
}

// New returns a Generator that uses svc to generate documentation.
func New(svc Service, opts ...Option) *Generator {
	g := &Generator{svc: svc, template: DefaultTemplate}
	for _, opt := range opts {
		opt(g)
	}
	if g.workers < 1 {
		g.workers = 1
	}
	if g.log == nil {
		g.log = internal.NopLogger()
	}
	return g
}

// Generate documents every file of src. The returned Result always contains
// the document and the report of the files that were processed. If ctx is
// canceled, no further files are started and Generate returns the partial
// Result together with the context error.
func (g *Generator) Generate(ctx context.Context, src Source) (*Result, error) {
	files := src.List()
	res := &Result{Document: &Document{}}

	g.log.Info(fmt.Sprintf("Generating documentation for %d file(s) using %d worker(s) ...", len(files), g.workers))

	var (
		mux     sync.Mutex
		next    int
		done    = make([]bool, len(files))
		outputs = make([]output, len(files))
	)

	// flush appends finished files to the result as long as no earlier file is
	// still being processed.
	flush := func() {
		for next < len(files) && done[next] {
			g.collect(res, files[next], outputs[next])
			next++
		}
	}

	var eg errgroup.Group
	eg.SetLimit(g.workers)

	for i, file := range files {
		if ctx.Err() != nil {
			break
		}

		i, file := i, file
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			text, err := g.generateFile(ctx, src, file)

			mux.Lock()
			defer mux.Unlock()
			outputs[i] = output{text: text, err: err}
			done[i] = true
			flush()

			return nil
		})
	}

	eg.Wait()

	if err := ctx.Err(); err != nil {
		g.log.Warn("Generation canceled", "processed", len(res.Report.Entries), "files", len(files))
		return res, err
	}

	g.log.Info(fmt.Sprintf("Generated documentation for %d of %d file(s)", len(res.Report.Succeeded()), len(files)))

	return res, nil
}

type output struct {
	text string
	err  error
}

func (g *Generator) collect(res *Result, file string, out output) {
	if out.err != nil {
		err := &CompletionError{Path: file, Err: out.err}
		res.Report.Entries = append(res.Report.Entries, Entry{Path: file, Err: err})
		g.log.Warn(fmt.Sprintf("Generation of %s failed. Skipping.", file), "error", out.err)
		g.notify(Notice{Kind: Error, Path: file, Message: err.Error()})
		return
	}

	res.Document.Append(file, out.text)
	res.Report.Entries = append(res.Report.Entries, Entry{Path: file})
	g.notify(Notice{Kind: Success, Path: file, Message: fmt.Sprintf("Documentation generated for %s!", file)})
}

func (g *Generator) notify(n Notice) {
	for _, fn := range g.onNotice {
		fn(n)
	}
}

func (g *Generator) generateFile(ctx context.Context, src Source, file string) (string, error) {
	code, err := src.ReadText(file)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	g.log.Info("Generating docs ...", "path", file)

	input := Input{Path: file, Code: code}
	doc, err := g.svc.GenerateDoc(newCtx(ctx, input, Prompt(g.template, code)))
	if err != nil {
		return "", err
	}

	if g.footer != "" {
		doc = fmt.Sprintf("%s\n\n%s", doc, g.footer)
	}

	return doc, nil
}
