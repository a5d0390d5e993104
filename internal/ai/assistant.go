package ai

import (
	"context"
)

// Generator is the text-generation collaborator. Responses are free text and
// may be empty or malformed; callers must degrade instead of failing.
type Generator interface {
	Generate(ctx context.Context, section, instruction, extra string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, section, instruction, extra string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, section, instruction, extra string) (string, error) {
	return f(ctx, section, instruction, extra)
}
