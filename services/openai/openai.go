package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/modernice/zipdoc/generate"
	"github.com/modernice/zipdoc/internal"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/exp/slog"
)

const (
	// DefaultBaseURL is the OpenAI-compatible endpoint of Groq.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the model that documentation is generated with.
	DefaultModel = "llama-3.3-70b-versatile"
)

// ErrNoChoices is returned when the completion endpoint answers without any
// choices.
var ErrNoChoices = errors.New("openai: no choices returned")

var _ generate.Service = (*Service)(nil)

// Service generates documentation by sending the prompt of a file as a single
// user message to an OpenAI-compatible chat completion endpoint.
type Service struct {
	client          *openai.Client
	apiKey          string
	baseURL         string
	model           string
	maxTokens       int
	maxPromptTokens int
	temperature     float32
	log             *slog.Logger
}

// Option is an option for a [Service].
type Option func(*Service)

// WithLogger returns an Option that sets the logger of the Service.
func WithLogger(h slog.Handler) Option {
	return func(s *Service) {
		s.log = slog.New(h)
	}
}

// WithClient returns an Option that sets the client of the Service. BaseURL
// has no effect if a client is provided.
func WithClient(c *openai.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// BaseURL returns an Option that sets the endpoint that requests are sent to.
func BaseURL(url string) Option {
	return func(s *Service) {
		s.baseURL = url
	}
}

// Model returns an Option that sets the model to use.
func Model(model string) Option {
	return func(s *Service) {
		s.model = model
	}
}

// MaxTokens returns an Option that limits the length of the generated
// documentation. Zero leaves the limit to the endpoint.
func MaxTokens(n int) Option {
	return func(s *Service) {
		s.maxTokens = n
	}
}

// MaxPromptTokens returns an Option that rejects prompts with more than n
// tokens before any request is made. Zero disables the check.
func MaxPromptTokens(n int) Option {
	return func(s *Service) {
		s.maxPromptTokens = n
	}
}

// Temperature returns an Option that sets the sampling temperature.
func Temperature(t float32) Option {
	return func(s *Service) {
		s.temperature = t
	}
}

// PromptTooLarge is returned by [Service.GenerateDoc] when a prompt exceeds
// the configured [MaxPromptTokens].
type PromptTooLarge struct {
	File      string
	Tokens    int
	MaxTokens int
}

func (err *PromptTooLarge) Error() string {
	return fmt.Sprintf("prompt for %s has %d tokens, which exceeds the limit of %d tokens", err.File, err.Tokens, err.MaxTokens)
}

// New returns a Service that authenticates with apiKey.
func New(apiKey string, opts ...Option) *Service {
	svc := Service{apiKey: apiKey}
	for _, opt := range opts {
		opt(&svc)
	}

	if svc.baseURL == "" {
		svc.baseURL = DefaultBaseURL
	}

	if svc.model == "" {
		svc.model = DefaultModel
	}

	if svc.log == nil {
		svc.log = internal.NopLogger()
	}

	if svc.client == nil {
		cfg := openai.DefaultConfig(svc.apiKey)
		cfg.BaseURL = svc.baseURL
		svc.client = openai.NewClientWithConfig(cfg)
	}

	return &svc
}

// Model returns the model that is used to generate documentation.
func (svc *Service) Model() string {
	return svc.model
}

// GenerateDoc sends the prompt of ctx to the completion endpoint and returns
// the content of the first choice.
func (svc *Service) GenerateDoc(ctx generate.Context) (string, error) {
	file := ctx.File()

	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleUser,
		Content: ctx.Prompt(),
	}}

	if svc.maxPromptTokens > 0 {
		tokens, err := ChatTokens(svc.model, messages)
		if err != nil {
			return "", fmt.Errorf("count prompt tokens: %w", err)
		}

		if tokens > svc.maxPromptTokens {
			return "", &PromptTooLarge{File: file, Tokens: tokens, MaxTokens: svc.maxPromptTokens}
		}

		svc.log.Debug(fmt.Sprintf("[OpenAI] Prompt has %d tokens", tokens), "file", file)
	}

	svc.log.Debug("[OpenAI] Generating documentation ...", "file", file, "model", svc.model)

	answer, err := svc.createCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("create completion: %w", err)
	}

	svc.log.Debug("[OpenAI] Documentation generated", "file", file, "length", len(answer))

	return answer, nil
}

func (svc *Service) createCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := svc.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               svc.model,
		Messages:            messages,
		MaxCompletionTokens: svc.maxTokens,
		Temperature:         svc.temperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	svc.printUsage(resp.Usage)

	choice := resp.Choices[0]
	if choice.Message.Role != "" && choice.Message.Role != openai.ChatMessageRoleAssistant {
		return "", fmt.Errorf("openai: unexpected message role in answer: %q", choice.Message.Role)
	}

	return choice.Message.Content, nil
}

func (svc *Service) printUsage(usage openai.Usage) {
	svc.log.Debug("[OpenAI] Usage info", "prompt", usage.PromptTokens, "completion", usage.CompletionTokens, "total", usage.TotalTokens)
}
