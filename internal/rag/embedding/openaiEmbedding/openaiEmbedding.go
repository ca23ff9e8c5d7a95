package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"docchat/internal/config"
	"docchat/internal/rag/embedding"
	"docchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension = int64(config.EmbeddingOutputDimensionality)

type client struct {
	api   openai.Client
	model string
}

// GetOpenAIEmbeddingClient returns the process-wide embedding client. It is
// constructed exactly once and never mutated afterwards, so it is safe to
// share across sessions and requests.
func GetOpenAIEmbeddingClient(ctx context.Context, baseURL string, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(baseURL, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func newOpenAIEmbedder(baseURL string, modelName string, apikey string) {
	if apikey == "" {
		logger.Error("Missing embedding API key")
		return
	}
	api := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithBaseURL(baseURL),
	)
	embeddingClient = &client{api: api, model: modelName}
	logger.Debug("OpenAI embedding model name: " + modelName)
	logger.Info("OpenAI embedding client created")
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(c.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(query)},
		Dimensions: openai.Int(dimension),
	})
	if err != nil {
		log.Error("Error getting embedding", "error", err.Error())
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return toFloat32(result.Data[0].Embedding), nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("Batch embedding call", "chunks", len(chunks))

	result, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(c.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Dimensions: openai.Int(dimension),
	})
	if err != nil {
		log.Error("Error getting batch embeddings", "error", err.Error())
		return nil, err
	}
	if len(result.Data) != len(chunks) {
		return nil, errors.New("embedding response size mismatch")
	}

	//the API is allowed to return entries out of order, Index restores it
	vectors := make([][]float32, len(chunks))
	for _, d := range result.Data {
		if d.Index < 0 || int(d.Index) >= len(vectors) {
			return nil, errors.New("embedding response index out of range")
		}
		vectors[d.Index] = toFloat32(d.Embedding)
	}
	return vectors, nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
