// Package retrieval augments questions with context pulled from the
// provider's insurance documents. The index is a flat persisted vector
// store: documents are chunked, embedded once and searched by cosine
// similarity at query time.
package retrieval

import (
	"context"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/sambhav874/WingHeights/internal/config"
)

// Retriever is the retrieval collaborator: query in, context text out.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Disabled is used in direct-completion mode: every query yields no context.
type Disabled struct{}

func (Disabled) Retrieve(context.Context, string) (string, error) {
	return "", nil
}

// NewEmbedder builds an embedder backed by a locally served embedding model.
func NewEmbedder(cfg config.RetrievalConfig) (embeddings.Embedder, error) {
	client, err := ollama.New(ollama.WithModel(cfg.EmbeddingsModel))
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(client)
}
