package chromemIndex

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"docchat/internal/config"
	"docchat/internal/domain/commonModels"
	"docchat/pkg/logger_i"
	"github.com/philippgille/chromem-go"
)

var logger *logger_i.Logger
var storeInstance *IndexStore
var once sync.Once

// IndexStore keeps session indexes in process memory, one chromem
// collection per session. This is the default backend.
type IndexStore struct {
	mu sync.Mutex
	db *chromem.DB
}

func GetChromemStore() *IndexStore {
	once.Do(func() {
		logger = logger_i.NewLogger("Chromem")
		storeInstance = &IndexStore{db: chromem.NewDB()}
		logger.Info("In-memory vector store created")
	})
	return storeInstance
}

func (s *IndexStore) Rebuild(ctx context.Context, sessionId string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)

	name := collectionName(sessionId)

	s.mu.Lock()
	defer s.mu.Unlock()

	//wholesale replacement of whatever index existed before
	if err := s.db.DeleteCollection(name); err != nil {
		loggr.Debug("No prior collection to delete", "error", err)
	}
	collection, err := s.db.CreateCollection(name, nil, nil)
	if err != nil {
		return fmt.Errorf("creating collection failed: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        chunk.ChunkId,
			Content:   chunk.Chunk,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"doc_name":    chunk.Doc.Name,
				"page_num":    strconv.Itoa(chunk.PageNum),
				"chunk_order": strconv.Itoa(chunk.ChunkPageOrder),
			},
		}
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents failed: %w", err)
	}
	loggr.Debug("Rebuilt session index", "chunks", len(docs))
	return nil
}

func (s *IndexStore) Search(ctx context.Context, sessionId string, vector []float32, limit int) ([]string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)

	s.mu.Lock()
	collection := s.db.GetCollection(collectionName(sessionId), nil)
	s.mu.Unlock()

	//absence of an index is legitimate, not an error
	if collection == nil {
		return nil, nil
	}
	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       limit,
	})
	if err != nil {
		loggr.Error("Error querying collection", "error", err)
		return nil, err
	}

	//rank order as returned, no re-ranking and no relevance cutoff
	matches := make([]string, 0, len(results))
	for _, hit := range results {
		matches = append(matches, hit.Content)
	}
	return matches, nil
}

func (s *IndexStore) Drop(ctx context.Context, sessionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.DeleteCollection(collectionName(sessionId))
}

func collectionName(sessionId string) string {
	return config.SessionCollectionStub + sessionId
}
