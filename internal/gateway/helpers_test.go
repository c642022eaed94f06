package gateway

import (
	"context"

	"github.com/abhisek/curioloop/internal/llm"
)

type purposeRecorder struct {
	inner llm.Provider
	seen  *[]string
}

func (p *purposeRecorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*p.seen = append(*p.seen, llm.PurposeFrom(ctx))
	return p.inner.Generate(ctx, req)
}

func (p *purposeRecorder) ModelID() string { return p.inner.ModelID() }
