package index

import (
	"context"

	"docchat/internal/domain/commonModels"
)

// Store holds at most one vector index per session. Rebuild replaces the
// session's index wholesale; nothing is versioned or persisted across
// backend restarts.
type Store interface {
	Rebuild(ctx context.Context, sessionId string, chunks []commonModels.DocChunk, vectors [][]float32) error
	Search(ctx context.Context, sessionId string, vector []float32, limit int) ([]string, error)
	Drop(ctx context.Context, sessionId string) error
}
