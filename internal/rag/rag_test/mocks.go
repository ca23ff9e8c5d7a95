package rag_test

import (
	"context"

	"docchat/internal/domain/commonModels"
	"docchat/internal/rag/llm"
)

// MockIndex implements index.Store
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnRebuild func(ctx context.Context, sessionId string, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnSearch  func(ctx context.Context, sessionId string, vector []float32, limit int) ([]string, error)
	OnDrop    func(ctx context.Context, sessionId string) error

	SearchCalls  int
	RebuildCalls int
	DropCalls    int
}

func (m *MockIndex) Rebuild(ctx context.Context, sessionId string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	m.RebuildCalls++
	if m.OnRebuild != nil {
		return m.OnRebuild(ctx, sessionId, chunks, vectors)
	}
	return nil
}

func (m *MockIndex) Search(ctx context.Context, sessionId string, vector []float32, limit int) ([]string, error) {
	m.SearchCalls++
	if m.OnSearch != nil {
		return m.OnSearch(ctx, sessionId, vector, limit)
	}
	return []string{"default context"}, nil
}

func (m *MockIndex) Drop(ctx context.Context, sessionId string) error {
	m.DropCalls++
	if m.OnDrop != nil {
		return m.OnDrop(ctx, sessionId)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)

	EmbedCalls int
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	m.EmbedCalls++
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	m.EmbedCalls++
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(chunks)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, req llm.Request) (string, error)

	GenerateCalls int
	LastRequest   llm.Request
}

func (m *MockLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	m.GenerateCalls++
	m.LastRequest = req
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, req)
	}
	return "mocked llm response", nil
}

// MockWebSearch implements websearch.Client
type MockWebSearch struct {
	OnSearch func(ctx context.Context, apiKey string, query string) (string, error)

	SearchCalls int
}

func (m *MockWebSearch) Search(ctx context.Context, apiKey string, query string) (string, error) {
	m.SearchCalls++
	if m.OnSearch != nil {
		return m.OnSearch(ctx, apiKey, query)
	}
	return "Title: mock\nURL: https://example.com\nContent: mock web result\n\n", nil
}
