package rag

import (
	"context"
	"strings"
	"time"

	"docchat/internal/config"
	"docchat/internal/domain/chatModel"
	"docchat/internal/metrics"
	"docchat/internal/rag/llm"
	"docchat/pkg/logger_i"
)

func (s *service) executeEmbedBatchStep(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.BatchEmbedding(ctx, texts)
}

// dropStaleIndex keeps a failed ingest from leaving the previous document
// searchable while the session reports no document.
func (s *service) dropStaleIndex(ctx context.Context, log *logger_i.Logger, sessionId string) {
	if err := s.index.Drop(ctx, sessionId); err != nil {
		log.Debug("No session index to drop", "error", err)
	}
}

// executeDocumentSearchStep returns the joined top matches from the
// session's index, or "" when the session has no indexed document. Search
// errors degrade to "" too; the question can still be answered from the web.
func (s *service) executeDocumentSearchStep(ctx context.Context, log *logger_i.Logger, ses chatModel.Session, question string) string {
	if !ses.DocumentReady() {
		return ""
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	stepCtx, cancel := context.WithTimeout(ctx, config.AnswerStepTimeout)
	defer cancel()

	vector, err := s.embedder.GetEmbedding(stepCtx, question)
	if err != nil {
		log.Error("Embedding the question failed", "error", err)
		return ""
	}

	matches, err := s.index.Search(stepCtx, ses.Id, vector, config.SearchTopK)
	if err != nil {
		log.Error("Index search failed", "error", err)
		return ""
	}
	if len(matches) == 0 {
		return ""
	}
	return strings.Join(matches, config.ContextDelimiter)
}

// executeWebSearchStep always runs, whether or not a document is indexed.
// On failure it returns "" so the failed search never reaches the prompt.
func (s *service) executeWebSearchStep(ctx context.Context, log *logger_i.Logger, ses chatModel.Session, question string) string {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("web_search", time.Since(start)) }()

	stepCtx, cancel := context.WithTimeout(ctx, config.WebSearchTimeout)
	defer cancel()

	results, err := s.web.Search(stepCtx, ses.Config.SearchKey, question)
	if err != nil {
		log.Error("Web search failed", "error", err)
		return ""
	}
	return results
}

func (s *service) executeSynthesisStep(ctx context.Context, log *logger_i.Logger, cfg chatModel.SessionConfig, question string, docContext string, webContext string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	stepCtx, cancel := context.WithTimeout(ctx, config.SynthesisTimeout)
	defer cancel()

	log.Debug("Synthesis call", "model", cfg.Model, "hasDocContext", docContext != "", "hasWebContext", webContext != "")

	return s.llmProvider.Generate(stepCtx, llm.Request{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		APIKey:      cfg.LLMKey,
		System:      config.SystemPrompt,
		User:        buildUserPrompt(question, docContext, webContext),
	})
}
