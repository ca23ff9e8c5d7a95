// @title           docchat API
// @version         1.0
// @description     Session based document question answering over an uploaded PDF plus live web search
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"docchat/internal/config"
	"docchat/internal/data/store"
	"docchat/internal/domain/chatModel"
	"docchat/internal/handlers"
	"docchat/internal/rag"
	"docchat/internal/rag/embedding"
	"docchat/internal/rag/embedding/googleEmbedding"
	"docchat/internal/rag/embedding/openaiEmbedding"
	"docchat/internal/rag/index"
	"docchat/internal/rag/index/chromemIndex"
	"docchat/internal/rag/index/qdrantIndex"
	"docchat/internal/rag/llm"
	"docchat/internal/rag/llm/gemini"
	"docchat/internal/rag/llm/openrouter"
	"docchat/internal/rag/websearch"
	"docchat/internal/server"
	"docchat/internal/session"
	"docchat/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//session + transcript stores, redis first with in-memory fallback
	var sessionStore chatModel.SessionStore
	var transcriptStore chatModel.TranscriptStore
	if rs := store.GetRedisSessionStore(serviceContext); rs != nil {
		sessionStore = rs
	}
	if rt := store.GetRedisTranscriptStore(serviceContext); rt != nil {
		transcriptStore = rt
	}
	if sessionStore == nil || transcriptStore == nil {
		logger.Error("Redis stores are offline")
		sessionStore = store.InitInMemorySessionStore()
		transcriptStore = store.InitInMemoryTranscriptStore()
	}
	sessionService := session.InitSessionService(session.ServiceConfig{
		SessionStore:    sessionStore,
		TranscriptStore: transcriptStore,
	})

	var indexStore index.Store
	switch config.VectorBackend() {
	case "qdrant":
		q := qdrantIndex.GetQdrantClient(serviceContext)
		if q == nil {
			logger.Error("Qdrant failed to initialize. Shutting down.")
			return
		}
		indexStore = q
	default:
		indexStore = chromemIndex.GetChromemStore()
	}

	var embeddingService embedding.Embedder
	switch config.EmbeddingProvider() {
	case "google":
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	default:
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(serviceContext, config.OpenAIEmbeddingBaseURL, config.OpenAIEmbeddingModel, config.EmbeddingAPIKey())
	}

	var llmProvider llm.Provider
	switch config.LLMProvider() {
	case "gemini":
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())
	default:
		llmProvider = openrouter.GetOpenRouterClient(serviceContext)
	}

	webSearch := websearch.NewTavilyClient(config.TavilyBaseURL)

	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(indexStore, llmProvider, embeddingService, webSearch)

	handlers.InitHandlers(sessionService, ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
