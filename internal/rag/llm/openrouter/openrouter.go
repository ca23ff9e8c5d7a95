package openrouter

import (
	"context"
	"errors"
	"sync"

	"docchat/internal/config"
	"docchat/internal/rag/llm"
	"docchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	api openai.Client
}

var logger *logger_i.Logger
var openRouterClient *llmClient
var once sync.Once

// GetOpenRouterClient returns the shared OpenRouter client. The client is
// keyless; the session's key is attached per request in Generate.
func GetOpenRouterClient(ctx context.Context) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openrouter")
		api := openai.NewClient(
			option.WithBaseURL(config.OpenRouterBaseURL),
			option.WithHeader("HTTP-Referer", "http://localhost"+config.ServerListenAddr),
			option.WithHeader("X-Title", "docchat"),
		)
		openRouterClient = &llmClient{api: api}
		logger.Info("OpenRouter client created")
	})

	if openRouterClient == nil {
		return nil
	}
	return openRouterClient
}

func (c *llmClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       req.Model,
		Temperature: openai.Float(req.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}, option.WithAPIKey(req.APIKey))
	if err != nil {
		log.Error("Error generating completion", "model", req.Model, "error", err.Error())
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", errors.New("completion response had no choices")
	}
	return result.Choices[0].Message.Content, nil
}
