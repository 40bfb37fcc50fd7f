package generate

import "context"

var _ Context = (*genCtx)(nil)

type genCtx struct {
	context.Context

	input  Input
	prompt string
}

func newCtx(parent context.Context, input Input, prompt string) *genCtx {
	return &genCtx{
		Context: parent,
		input:   input,
		prompt:  prompt,
	}
}

// Input returns the file that documentation is generated for.
func (ctx *genCtx) Input() Input {
	return ctx.input
}

// Prompt returns the full prompt: the template followed by the file content.
func (ctx *genCtx) Prompt() string {
	return ctx.prompt
}

// File returns the path of the file that documentation is generated for.
func (ctx *genCtx) File() string {
	return ctx.input.Path
}
