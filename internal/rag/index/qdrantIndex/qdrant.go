package qdrantIndex

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"docchat/internal/config"
	"docchat/internal/domain/commonModels"
	"docchat/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

// ClientHolder wraps the grpc client. Each session gets its own qdrant
// collection, created on rebuild and dropped with the session.
type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Rebuild(ctx context.Context, sessionId string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)

	name := collectionName(sessionId)
	if err := db.recreateCollection(ctx, name); err != nil {
		return fmt.Errorf("recreating collection failed: %w", err)
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			// Converts my UUID string to Qdrant's ID format
			Id: qdrant.NewID(chunk.ChunkId),

			// Converts []float32 to Qdrant's Vector format
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"content":     chunk.Chunk,
				"page_num":    chunk.PageNum,
				"doc_name":    chunk.Doc.Name,
				"chunk_order": chunk.ChunkPageOrder,
				"chunk_id":    chunk.ChunkId,
				"ingested_at": chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	loggr.Debug("Rebuilt session index", "chunks", len(qdrantPoints))
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, sessionId string, vector []float32, limit int) ([]string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)

	name := collectionName(sessionId)
	exists, err := db.QObj.CollectionExists(ctx, name)
	if err != nil {
		loggr.Error("Error checking collection: ", "error:", err)
		return nil, err
	}
	//absence of an index is legitimate, not an error
	if !exists {
		return nil, nil
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	var matches []string
	for _, hit := range result {
		matches = append(matches, hit.Payload["content"].GetStringValue())
	}

	loggr.Debug("Found matches", "count", len(matches))
	return matches, nil
}

func (db *ClientHolder) Drop(ctx context.Context, sessionId string) error {
	return db.QObj.DeleteCollection(ctx, collectionName(sessionId))
}

func (db *ClientHolder) recreateCollection(ctx context.Context, name string) error {
	exists, err := db.QObj.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		if err := db.QObj.DeleteCollection(ctx, name); err != nil {
			return err
		}
	}

	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func collectionName(sessionId string) string {
	return config.SessionCollectionStub + sessionId
}
