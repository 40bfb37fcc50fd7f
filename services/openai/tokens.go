package openai

import (
	"fmt"
	"sync"

	"github.com/modernice/zipdoc/internal"
	"github.com/sashabaranov/go-openai"
	"github.com/tiktoken-go/tokenizer"
)

var (
	codecsMux sync.Mutex
	codecs    = make(map[string]tokenizer.Codec)
)

// ChatTokens estimates the number of prompt tokens that messages occupy for
// the given model. Models without a known tokenizer are counted with
// cl100k_base.
func ChatTokens(model string, messages []openai.ChatCompletionMessage) (int, error) {
	codec, err := getCodec(model)
	if err != nil {
		return 0, err
	}

	const perMessage = 3

	tokens := 3 // every reply is primed with <|start|>assistant<|message|>
	for _, message := range messages {
		tokens += perMessage

		toks, _, err := codec.Encode(message.Content)
		if err != nil {
			return tokens, fmt.Errorf("encode message: %w", err)
		}
		tokens += len(toks)
	}

	return tokens, nil
}

func getCodec(model string) (tokenizer.Codec, error) {
	codecsMux.Lock()
	defer codecsMux.Unlock()

	codec, ok := codecs[model]
	if !ok {
		var err error
		if codec, err = internal.OpenAITokenizer(model); err != nil {
			return nil, err
		}
		codecs[model] = codec
	}

	return codec, nil
}
