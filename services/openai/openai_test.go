package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modernice/zipdoc/generate"
	"github.com/modernice/zipdoc/services/openai"
	goopenai "github.com/sashabaranov/go-openai"
)

func TestService_GenerateDoc(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer gsk_test" {
			t.Errorf("request should be authorized with the API key; got %q", auth)
		}

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		writeCompletion(w, "DocA")
	})

	svc := openai.New("gsk_test", openai.BaseURL(srv.URL), openai.MaxTokens(256))

	doc, err := svc.GenerateDoc(newCtx("a.py", "print(1)"))
	if err != nil {
		t.Fatalf("GenerateDoc() failed: %v", err)
	}

	if doc != "DocA" {
		t.Fatalf("GenerateDoc() returned %q; want %q", doc, "DocA")
	}

	if got.Model != openai.DefaultModel {
		t.Fatalf("request should use model %q; got %q", openai.DefaultModel, got.Model)
	}

	if got.MaxCompletionTokens != 256 {
		t.Fatalf("request should limit completion to %d tokens; got %d", 256, got.MaxCompletionTokens)
	}

	if len(got.Messages) != 1 {
		t.Fatalf("request should contain %d message; got %d", 1, len(got.Messages))
	}

	msg := got.Messages[0]
	if msg.Role != goopenai.ChatMessageRoleUser {
		t.Fatalf("message should have role %q; got %q", goopenai.ChatMessageRoleUser, msg.Role)
	}

	if want := "Document this.\n\nprint(1)"; msg.Content != want {
		t.Fatalf("message should contain the prompt %q; got %q", want, msg.Content)
	}
}

func TestModel(t *testing.T) {
	var model string
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req goopenai.ChatCompletionRequest
		json.NewDecoder(r.Body).Decode(&req)
		model = req.Model
		writeCompletion(w, "Doc")
	})

	svc := openai.New("gsk_test", openai.BaseURL(srv.URL), openai.Model("mixtral-8x7b-32768"))

	if _, err := svc.GenerateDoc(newCtx("a.py", "print(1)")); err != nil {
		t.Fatalf("GenerateDoc() failed: %v", err)
	}

	if model != "mixtral-8x7b-32768" || svc.Model() != model {
		t.Fatalf("request should use model %q; got %q", "mixtral-8x7b-32768", model)
	}
}

func TestService_GenerateDoc_apiError(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	svc := openai.New("wrong", openai.BaseURL(srv.URL))

	_, err := svc.GenerateDoc(newCtx("a.py", "print(1)"))

	var apiErr *goopenai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("GenerateDoc() should fail with %T; got %v", apiErr, err)
	}

	if apiErr.HTTPStatusCode != http.StatusUnauthorized {
		t.Fatalf("error should have status %d; got %d", http.StatusUnauthorized, apiErr.HTTPStatusCode)
	}

	if !strings.Contains(err.Error(), "Invalid API Key") {
		t.Fatalf("error should contain the message of the endpoint; got %q", err.Error())
	}
}

func TestService_GenerateDoc_noChoices(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`))
	})

	svc := openai.New("gsk_test", openai.BaseURL(srv.URL))

	if _, err := svc.GenerateDoc(newCtx("a.py", "print(1)")); !errors.Is(err, openai.ErrNoChoices) {
		t.Fatalf("GenerateDoc() should fail with %q; got %v", openai.ErrNoChoices, err)
	}
}

func TestMaxPromptTokens(t *testing.T) {
	var calls int
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeCompletion(w, "Doc")
	})

	svc := openai.New("gsk_test", openai.BaseURL(srv.URL), openai.MaxPromptTokens(20))

	_, err := svc.GenerateDoc(newCtx("big.py", strings.Repeat("print(1)\n", 50)))

	var tooLarge *openai.PromptTooLarge
	if !errors.As(err, &tooLarge) {
		t.Fatalf("GenerateDoc() should fail with %T; got %v", tooLarge, err)
	}

	if tooLarge.File != "big.py" || tooLarge.MaxTokens != 20 || tooLarge.Tokens <= 20 {
		t.Fatalf("unexpected error %+v", tooLarge)
	}

	if calls != 0 {
		t.Fatalf("no request should be sent for a prompt that is too large; %d were sent", calls)
	}

	if _, err := svc.GenerateDoc(newCtx("small.py", "")); err != nil {
		t.Fatalf("GenerateDoc() failed: %v", err)
	}

	if calls != 1 {
		t.Fatalf("%d request should be sent; %d were sent", 1, calls)
	}
}

func TestChatTokens(t *testing.T) {
	short, err := openai.ChatTokens(openai.DefaultModel, []goopenai.ChatCompletionMessage{{Content: "hello"}})
	if err != nil {
		t.Fatalf("ChatTokens() failed: %v", err)
	}

	long, err := openai.ChatTokens(openai.DefaultModel, []goopenai.ChatCompletionMessage{{Content: strings.Repeat("hello world ", 100)}})
	if err != nil {
		t.Fatalf("ChatTokens() failed: %v", err)
	}

	if short <= 0 || long <= short {
		t.Fatalf("ChatTokens() should grow with the content; got %d and %d", short, long)
	}
}

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{
		ID:     "chatcmpl-1",
		Object: "chat.completion",
		Choices: []goopenai.ChatCompletionChoice{{
			Message: goopenai.ChatCompletionMessage{
				Role:    goopenai.ChatMessageRoleAssistant,
				Content: content,
			},
			FinishReason: goopenai.FinishReasonStop,
		}},
		Usage: goopenai.Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12},
	})
}

type testCtx struct {
	context.Context

	input  generate.Input
	prompt string
}

func newCtx(file, code string) *testCtx {
	return &testCtx{
		Context: context.Background(),
		input:   generate.Input{Path: file, Code: code},
		prompt:  generate.Prompt("Document this.", code),
	}
}

func (ctx *testCtx) Input() generate.Input { return ctx.input }
func (ctx *testCtx) Prompt() string        { return ctx.prompt }
func (ctx *testCtx) File() string          { return ctx.input.Path }
