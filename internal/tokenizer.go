package internal

import (
	"errors"

	"github.com/tiktoken-go/tokenizer"
)

// OpenAITokenizer returns the tokenizer codec for model. Models the tokenizer
// does not know (Llama, Mixtral, Gemma served through OpenAI-compatible APIs)
// fall back to cl100k_base, which is close enough for size estimates.
func OpenAITokenizer(model string) (tokenizer.Codec, error) {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if errors.Is(err, tokenizer.ErrModelNotSupported) {
		return tokenizer.Get(tokenizer.Cl100kBase)
	}
	return codec, err
}
