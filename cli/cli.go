package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/modernice/zipdoc"
	"github.com/modernice/zipdoc/api"
	"github.com/modernice/zipdoc/archive"
	"github.com/modernice/zipdoc/generate"
	"github.com/modernice/zipdoc/services/openai"
	"github.com/spf13/afero"
)

// Version is reported by the web server's health endpoint.
var Version = "dev"

// CLI is the command-line interface of zipdoc.
type CLI struct {
	Globals

	Generate GenerateCmd `cmd:"" help:"Generate the combined documentation of a ZIP archive."`
	Serve    ServeCmd    `cmd:"" help:"Serve the upload form and the documentation API."`
}

// GenerateCmd documents a single archive and writes the combined document to
// a file.
type GenerateCmd struct {
	Archive string `arg:"" help:"ZIP archive to document."`
	Output  string `name:"output" short:"o" default:"${filename}" env:"ZIPDOC_OUTPUT" help:"File to write the combined documentation to."`
}

// Run documents the archive and writes the combined documentation to Output.
// Nothing is written if documentation could not be generated for any file.
func (cmd *GenerateCmd) Run(g *Globals, kctx *kong.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	h := g.logHandler()

	docs, err := g.documenter(h)
	if err != nil {
		return err
	}

	return cmd.generate(ctx, g, docs, kctx.Stdout)
}

func (cmd *GenerateCmd) generate(ctx context.Context, g *Globals, docs *zipdoc.Documenter, out io.Writer) error {
	fsys := g.filesystem()

	data, err := afero.ReadFile(fsys, cmd.Archive)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	genOpts, err := g.generateOptions()
	if err != nil {
		return err
	}
	genOpts = append(genOpts, generate.OnNotice(func(n generate.Notice) {
		printNotice(out, n)
	}))

	res, err := docs.Document(ctx, data, zipdoc.ExtractWith(g.extractOptions()...), zipdoc.GenerateWith(genOpts...))
	if res != nil {
		for _, r := range res.Rejected {
			printNotice(out, generate.Notice{Kind: generate.Warning, Path: r.Name, Message: fmt.Sprintf("Skipped %s: %s", r.Name, r.Reason)})
		}
	}
	if errors.Is(err, archive.ErrEmpty) {
		return fmt.Errorf("%s: %w", cmd.Archive, err)
	}
	if err != nil {
		return err
	}

	if res.Document.Empty() {
		printNotice(out, generate.Notice{Kind: generate.Warning, Message: "Documentation could not be generated for any file. Nothing written."})
		return nil
	}

	if err := res.Document.Save(fsys, cmd.Output); err != nil {
		return fmt.Errorf("save documentation: %w", err)
	}

	printNotice(out, generate.Notice{
		Kind:    generate.Info,
		Message: fmt.Sprintf("Wrote documentation of %d of %d file(s) to %s", len(res.Report.Succeeded()), len(res.Report.Entries), cmd.Output),
	})

	return nil
}

// ServeCmd serves the upload form.
type ServeCmd struct {
	Addr            string        `name:"addr" default:":8080" env:"ZIPDOC_ADDR" help:"Address to listen on."`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" default:"10s" env:"ZIPDOC_SHUTDOWN_TIMEOUT" help:"Time to wait for running requests on shutdown."`
}

// Run starts the web server and blocks until it is interrupted.
func (cmd *ServeCmd) Run(g *Globals) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	h := g.logHandler()

	docs, err := g.documenter(h)
	if err != nil {
		return err
	}

	genOpts, err := g.generateOptions()
	if err != nil {
		return err
	}

	srv := api.NewServer(
		docs,
		api.WithLogger(h),
		api.Version(Version),
		api.ExtractWith(g.extractOptions()...),
		api.GenerateWith(genOpts...),
	)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start(cmd.Addr)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancelShutdown()

	return srv.Shutdown(shutdownCtx)
}

func printNotice(w io.Writer, n generate.Notice) {
	fmt.Fprintf(w, "[%s] %s\n", n.Kind, n.Message)
}

// New parses the command-line arguments and returns the resulting
// *kong.Context.
func New() *kong.Context {
	var cfg CLI
	return kong.Parse(&cfg, options(&cfg)...)
}

func options(cfg *CLI) []kong.Option {
	return []kong.Option{
		kong.Name("zipdoc"),
		kong.Description("Generate combined Markdown documentation for the files of a ZIP archive."),
		kong.UsageOnError(),
		kong.Bind(&cfg.Globals),
		kong.Vars{
			"base_url": openai.DefaultBaseURL,
			"model":    openai.DefaultModel,
			"filename": generate.Filename,
		},
	}
}
