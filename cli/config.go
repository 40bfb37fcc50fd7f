package cli

import (
	"fmt"
	"os"

	"github.com/modernice/zipdoc"
	"github.com/modernice/zipdoc/archive"
	"github.com/modernice/zipdoc/generate"
	"github.com/modernice/zipdoc/services/openai"
	"github.com/spf13/afero"
	"golang.org/x/exp/slog"
)

// Globals are the flags shared by all commands.
type Globals struct {
	APIKey  string `name:"key" env:"GROQ_API_KEY" help:"Groq API key."`
	Secrets string `name:"secrets" env:"ZIPDOC_SECRETS" help:"TOML secrets file with the API key in [groq_api] api_key. Defaults to .streamlit/secrets.toml or secrets.toml."`

	BaseURL         string  `name:"base-url" default:"${base_url}" env:"ZIPDOC_BASE_URL" help:"OpenAI-compatible API endpoint."`
	Model           string  `default:"${model}" env:"ZIPDOC_MODEL" help:"Model to generate documentation with."`
	MaxTokens       int     `default:"0" env:"ZIPDOC_MAX_TOKENS" help:"Maximum number of tokens to generate per file (0 = endpoint default)."`
	MaxPromptTokens int     `default:"0" env:"ZIPDOC_MAX_PROMPT_TOKENS" help:"Fail files whose prompt exceeds this number of tokens (0 = no limit)."`
	Temperature     float32 `default:"0" env:"ZIPDOC_TEMPERATURE" help:"Sampling temperature (0 = endpoint default)."`
	Workers         int     `default:"1" env:"ZIPDOC_WORKERS" help:"Number of files to document concurrently."`

	Include    []string `name:"include" short:"i" env:"ZIPDOC_INCLUDE" help:"Glob pattern(s) of files to document."`
	Exclude    []string `name:"exclude" short:"e" env:"ZIPDOC_EXCLUDE" help:"Glob pattern(s) of files to skip."`
	SkipHidden bool     `name:"skip-hidden" env:"ZIPDOC_SKIP_HIDDEN" help:"Skip hidden files and directories and macOS resource forks."`
	MaxFiles   int      `name:"max-files" default:"0" env:"ZIPDOC_MAX_FILES" help:"Document at most this many files (0 = all)."`

	Prompt string `name:"prompt" env:"ZIPDOC_PROMPT" help:"File with a custom prompt template."`
	Footer string `name:"footer" env:"ZIPDOC_FOOTER" help:"Text appended to every generated documentation."`

	Verbose bool `name:"verbose" short:"v" env:"ZIPDOC_VERBOSE" help:"Enable verbose logging."`

	fs afero.Fs
}

func (g *Globals) filesystem() afero.Fs {
	if g.fs == nil {
		g.fs = afero.NewOsFs()
	}
	return g.fs
}

func (g *Globals) logHandler() slog.Handler {
	var level slog.Level
	if g.Verbose {
		level = slog.LevelDebug
	}
	return slog.HandlerOptions{Level: level}.NewTextHandler(os.Stderr)
}

func (g *Globals) service(h slog.Handler) (*openai.Service, error) {
	key, err := resolveAPIKey(g.filesystem(), g.APIKey, g.Secrets)
	if err != nil {
		return nil, err
	}

	return openai.New(
		key,
		openai.BaseURL(g.BaseURL),
		openai.Model(g.Model),
		openai.MaxTokens(g.MaxTokens),
		openai.MaxPromptTokens(g.MaxPromptTokens),
		openai.Temperature(g.Temperature),
		openai.WithLogger(h),
	), nil
}

func (g *Globals) documenter(h slog.Handler) (*zipdoc.Documenter, error) {
	svc, err := g.service(h)
	if err != nil {
		return nil, fmt.Errorf("create completion service: %w", err)
	}
	return zipdoc.New(svc, zipdoc.WithLogger(h)), nil
}

func (g *Globals) extractOptions() []archive.Option {
	opts := []archive.Option{
		archive.WithFs(g.filesystem()),
		archive.Include(g.Include...),
		archive.Exclude(g.Exclude...),
		archive.MaxFiles(g.MaxFiles),
	}
	if g.SkipHidden {
		opts = append(opts, archive.WithSkip(archive.SkipDefault()))
	}
	return opts
}

func (g *Globals) generateOptions() ([]generate.Option, error) {
	opts := []generate.Option{
		generate.Workers(g.Workers),
		generate.Footer(g.Footer),
	}

	if g.Prompt != "" {
		tpl, err := afero.ReadFile(g.filesystem(), g.Prompt)
		if err != nil {
			return nil, fmt.Errorf("read prompt template: %w", err)
		}
		opts = append(opts, generate.Template(string(tpl)))
	}

	return opts, nil
}
