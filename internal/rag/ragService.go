package rag

import (
	"context"
	"os"
	"strings"
	"time"

	"docchat/internal/adapter/utils"
	"docchat/internal/config"
	"docchat/internal/domain/chatModel"
	"docchat/internal/domain/commonModels"
	"docchat/internal/metrics"
	"docchat/internal/rag/embedding"
	"docchat/internal/rag/faults"
	"docchat/internal/rag/index"
	"docchat/internal/rag/ingest"
	"docchat/internal/rag/llm"
	"docchat/internal/rag/websearch"
	"docchat/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract.
  - Handlers only see behavior, never the clients behind it.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the index, embedder, llm and web search clients.
  - Lowercase so external packages cannot reach the dependencies
    directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.

4. Dependency Injection (NewService):
  - Lets tests swap real clients for mocks without touching handlers.
*/

// Answer is the synthesized reply plus the sources that contributed to it.
type Answer struct {
	Text    string
	Sources []string
}

type Service interface {
	IndexDocument(ctx context.Context, ses chatModel.Session, docName string, docPath string) (chatModel.Session, error)
	Answer(ctx context.Context, ses chatModel.Session, question string) (Answer, error)
}

type service struct {
	index       index.Store
	llmProvider llm.Provider
	embedder    embedding.Embedder
	web         websearch.Client
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(idx index.Store, llm llm.Provider, em embedding.Embedder, web websearch.Client) Service {
	return &service{
		index:       idx,
		llmProvider: llm,
		embedder:    em,
		web:         web,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

// IndexDocument replaces the session's index with the uploaded file's
// chunks. The uploaded file is deleted whatever the outcome; the caller
// owns rolling back the session state on error.
func (s *service) IndexDocument(ctx context.Context, ses chatModel.Session, docName string, docPath string) (chatModel.Session, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", ses.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()
	defer func() {
		if err := os.Remove(docPath); err != nil {
			inMethodLogger.Error("Error removing uploaded file", "error", err)
		}
	}()

	processContext, cancel := context.WithTimeout(ctx, config.ProcessingTimeout)
	defer cancel()

	inMethodLogger.Debug("Processing document", "filename", docName, "path", docPath)

	pages, docType, err := ingest.ExtractPages(docPath)
	if err != nil {
		s.dropStaleIndex(processContext, inMethodLogger, ses.Id)
		return ses, faults.New(faults.UnreadableDocument, "IndexDocument", err)
	}
	if totalText(pages) == "" {
		s.dropStaleIndex(processContext, inMethodLogger, ses.Id)
		return ses, faults.New(faults.EmptyDocument, "IndexDocument", nil)
	}

	doc := commonModels.Document{
		Id:                  utils.GetNewUUID(),
		Name:                docName,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}

	chunks := ingest.PrepareChunks(pages, doc)
	inMethodLogger.Debug("Processing document", "Number of chunks: ", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Chunk
	}

	vectors, err := s.executeEmbedBatchStep(processContext, texts)
	if err != nil {
		s.dropStaleIndex(processContext, inMethodLogger, ses.Id)
		return ses, faults.New(faults.IndexBuildFailure, "IndexDocument", err)
	}

	if err := s.index.Rebuild(processContext, ses.Id, chunks, vectors); err != nil {
		s.dropStaleIndex(processContext, inMethodLogger, ses.Id)
		return ses, faults.New(faults.IndexBuildFailure, "IndexDocument", err)
	}

	ses.State = chatModel.StateReady
	ses.DocumentName = docName
	ses.ChunkCount = len(chunks)
	metrics.IncrementDocumentsIngested()

	inMethodLogger.Info("Document indexed", "chunks", len(chunks))
	return ses, nil
}

// Answer runs the full pipeline for one question: search the session's
// index if it has one, always run a web search, then synthesize. A failed
// or empty web search contributes nothing to the context or the sources.
func (s *service) Answer(ctx context.Context, ses chatModel.Session, question string) (Answer, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", ses.Id)

	//credentials are read fresh from the session on every question
	if !ses.Config.HasCredentials() {
		return Answer{}, faults.New(faults.MissingCredential, "Answer", nil)
	}

	start := time.Now()
	outcome := "error"
	defer func() { metrics.CaptureAnswerMetrics(outcome, time.Since(start)) }()

	docContext := s.executeDocumentSearchStep(ctx, inMethodLogger, ses, question)
	webContext := s.executeWebSearchStep(ctx, inMethodLogger, ses, question)

	text, err := s.executeSynthesisStep(ctx, inMethodLogger, ses.Config, question, docContext, webContext)
	if err != nil {
		return Answer{}, faults.New(faults.SynthesisFailure, "Answer", err)
	}

	sources := usedSources(docContext, webContext)
	metrics.IncrementQuestions(sourceLabel(sources))

	outcome = "ok"
	return Answer{
		Text:    text + sourceSuffix(sources),
		Sources: sources,
	}, nil
}

func totalText(pages []ingest.RawPage) string {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(strings.TrimSpace(p.Content))
	}
	return sb.String()
}
