package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 120 * time.Second //chat requests block on two network calls
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//chunking - fixed windows, no semantic boundary detection
	ChunkSize        = 1000
	ChunkOverlap     = 200
	SearchTopK       = 4
	ContextDelimiter = "\n\n---\n\n"

	//uploads
	MaxUploadSize      = 32 << 20 //32mb
	UploadDirName      = "temporary_data"
	PageExtractTimeout = 10 * time.Second

	//embeddings
	EmbeddingOutputDimensionality int32 = 1536
	OpenAIEmbeddingModel                = "text-embedding-3-small"
	OpenAIEmbeddingBaseURL              = "https://api.openai.com/v1"
	GoogleEmbeddingModel                = "gemini-embedding-001"

	//llm
	OpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	GeminiModelName    = "gemini-2.5-flash-lite-preview-09-2025"
	DefaultModel       = "openai/gpt-3.5-turbo"
	DefaultTemperature = 0.3

	SystemPrompt = `You are a helpful AI assistant. Answer the user's question based on the provided context.

RULES:
1. Use the DOCUMENT CONTENT first if it contains relevant information
2. Use WEB SEARCH RESULTS as supplementary or if the document doesn't cover the topic
3. Be specific and cite which source you're using (PDF or Web)
4. If neither source has the answer, say so clearly
5. Keep answers concise but comprehensive`

	//web search
	TavilyBaseURL     = "https://api.tavily.com"
	TavilyMaxResults  = 3
	WebSearchTimeout  = 30 * time.Second
	SynthesisTimeout  = 90 * time.Second
	ProcessingTimeout = 5 * time.Minute
	AnswerStepTimeout = 30 * time.Second

	//vectorDB (qdrant backend)
	QdrantHost            = ""
	QdrantGrpcPort        = 6334
	QdrantUseTLS          = false
	QdrantPoolSize        = 1
	SessionCollectionStub = "session-"

	//http client pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisSessionStore    = 0
	RedisTranscriptStore = 1

	//redis timeouts
	RedisSessionStoreTTL    = 24 * time.Hour
	RedisTranscriptStoreTTL = 24 * time.Hour
)

// SupportedModels is the fixed list a session config may select from.
// These are OpenRouter model identifiers.
var SupportedModels = []string{
	"openai/gpt-4o",
	"openai/gpt-4-turbo",
	"openai/gpt-3.5-turbo",
	"anthropic/claude-3.5-sonnet",
	"meta-llama/llama-3.1-70b-instruct",
}

func IsSupportedModel(model string) bool {
	for _, m := range SupportedModels {
		if m == model {
			return true
		}
	}
	return false
}

// Credentials come from the environment by default and can be replaced
// per session through the config endpoint.
func DefaultLLMKey() string    { return os.Getenv("OPENROUTER_API_KEY") }
func DefaultSearchKey() string { return os.Getenv("TAVILY_API_KEY") }
func EmbeddingAPIKey() string  { return os.Getenv("EMBEDDING_API_KEY") }
func GoogleAPIKey() string     { return os.Getenv("GEMINI_API_KEY") }

// VectorBackend selects the index implementation: "memory" (in-process,
// default) or "qdrant".
func VectorBackend() string {
	if v := os.Getenv("VECTOR_BACKEND"); v != "" {
		return v
	}
	return "memory"
}

// EmbeddingProvider selects "openai" (default, OpenAI-compatible endpoint)
// or "google".
func EmbeddingProvider() string {
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		return v
	}
	return "openai"
}

// LLMProvider selects "openrouter" (default) or "gemini".
func LLMProvider() string {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		return v
	}
	return "openrouter"
}
