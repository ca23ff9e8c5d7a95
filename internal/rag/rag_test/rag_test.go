package rag_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"docchat/internal/config"
	"docchat/internal/domain/chatModel"
	"docchat/internal/rag"
	"docchat/internal/rag/faults"
	"docchat/internal/rag/llm"
)

func testSession(state chatModel.SessionState) chatModel.Session {
	return chatModel.Session{
		Id:    "test-session",
		State: state,
		Config: chatModel.SessionConfig{
			Model:       config.DefaultModel,
			Temperature: config.DefaultTemperature,
			LLMKey:      "llm-key",
			SearchKey:   "search-key",
		},
	}
}

func TestAnswer_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		state           chatModel.SessionState
		setupMocks      func(e *MockEmbedder, idx *MockIndex, l *MockLLM, w *MockWebSearch)
		expectedSources []string
		expectedSuffix  string
		expectedKind    faults.Kind
	}{
		{
			name:  "Success_Full_Flow",
			state: chatModel.StateReady,
			setupMocks: func(e *MockEmbedder, idx *MockIndex, l *MockLLM, w *MockWebSearch) {
				l.OnGenerate = func(ctx context.Context, req llm.Request) (string, error) {
					return "final answer", nil
				}
			},
			expectedSources: []string{"PDF", "Web"},
			expectedSuffix:  "\n\n*Source: PDF & Web*",
		},
		{
			name:  "No_Document_Uses_Web_Only",
			state: chatModel.StateEmpty,
			setupMocks: func(e *MockEmbedder, idx *MockIndex, l *MockLLM, w *MockWebSearch) {
			},
			expectedSources: []string{"Web"},
			expectedSuffix:  "\n\n*Source: Web*",
		},
		{
			name:  "Web_Failure_Falls_Back_To_Document",
			state: chatModel.StateReady,
			setupMocks: func(e *MockEmbedder, idx *MockIndex, l *MockLLM, w *MockWebSearch) {
				w.OnSearch = func(ctx context.Context, apiKey string, query string) (string, error) {
					return "", errors.New("search provider down")
				}
			},
			expectedSources: []string{"PDF"},
			expectedSuffix:  "\n\n*Source: PDF*",
		},
		{
			name:  "No_Context_At_All_Labels_AI",
			state: chatModel.StateEmpty,
			setupMocks: func(e *MockEmbedder, idx *MockIndex, l *MockLLM, w *MockWebSearch) {
				w.OnSearch = func(ctx context.Context, apiKey string, query string) (string, error) {
					return "", nil
				}
			},
			expectedSources: nil,
			expectedSuffix:  "\n\n*Source: AI*",
		},
		{
			name:  "Failure_LLM_Generation",
			state: chatModel.StateReady,
			setupMocks: func(e *MockEmbedder, idx *MockIndex, l *MockLLM, w *MockWebSearch) {
				l.OnGenerate = func(ctx context.Context, req llm.Request) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedKind: faults.SynthesisFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mIdx := &MockIndex{}
			mLLM := &MockLLM{}
			mWeb := &MockWebSearch{}

			tt.setupMocks(mEmbed, mIdx, mLLM, mWeb)

			s := rag.NewService(mIdx, mLLM, mEmbed, mWeb)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			result, err := s.Answer(ctx, testSession(tt.state), "test question")

			if tt.expectedKind != "" {
				if err == nil {
					t.Fatalf("expected error of kind %s, got nil", tt.expectedKind)
				}
				if got := faults.KindOf(err); got != tt.expectedKind {
					t.Errorf("Kind got %s, want %s", got, tt.expectedKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Answer failed: %v", err)
			}

			if !strings.HasSuffix(result.Text, tt.expectedSuffix) {
				t.Errorf("Answer %q missing suffix %q", result.Text, tt.expectedSuffix)
			}
			if len(result.Sources) != len(tt.expectedSources) {
				t.Fatalf("Sources got %v, want %v", result.Sources, tt.expectedSources)
			}
			for i := range tt.expectedSources {
				if result.Sources[i] != tt.expectedSources[i] {
					t.Errorf("Sources got %v, want %v", result.Sources, tt.expectedSources)
				}
			}
		})
	}
}

func TestAnswer_MissingCredentials(t *testing.T) {
	mEmbed := &MockEmbedder{}
	mIdx := &MockIndex{}
	mLLM := &MockLLM{}
	mWeb := &MockWebSearch{}

	s := rag.NewService(mIdx, mLLM, mEmbed, mWeb)

	ses := testSession(chatModel.StateReady)
	ses.Config.LLMKey = ""

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	_, err := s.Answer(ctx, ses, "test question")

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := faults.KindOf(err); got != faults.MissingCredential {
		t.Errorf("Kind got %s, want %s", got, faults.MissingCredential)
	}

	//the pipeline must not have started
	if mEmbed.EmbedCalls != 0 || mIdx.SearchCalls != 0 || mWeb.SearchCalls != 0 || mLLM.GenerateCalls != 0 {
		t.Errorf("external calls happened without credentials: embed=%d index=%d web=%d llm=%d",
			mEmbed.EmbedCalls, mIdx.SearchCalls, mWeb.SearchCalls, mLLM.GenerateCalls)
	}
}

func TestAnswer_WebFailureExcludedFromPrompt(t *testing.T) {
	mEmbed := &MockEmbedder{}
	mIdx := &MockIndex{}
	mLLM := &MockLLM{}
	mWeb := &MockWebSearch{
		OnSearch: func(ctx context.Context, apiKey string, query string) (string, error) {
			return "", errors.New("timeout")
		},
	}

	s := rag.NewService(mIdx, mLLM, mEmbed, mWeb)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	_, err := s.Answer(ctx, testSession(chatModel.StateReady), "test question")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if strings.Contains(mLLM.LastRequest.User, "WEB SEARCH RESULTS") {
		t.Errorf("prompt contains web section after a failed search:\n%s", mLLM.LastRequest.User)
	}
	if !strings.Contains(mLLM.LastRequest.User, "DOCUMENT CONTENT") {
		t.Errorf("prompt missing document section:\n%s", mLLM.LastRequest.User)
	}
}

func TestIndexDocument_Scenarios(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	writeTempDoc := func(t *testing.T, content string) string {
		t.Helper()
		f, err := os.CreateTemp(t.TempDir(), "upload-*.txt")
		if err != nil {
			t.Fatalf("creating temp file: %v", err)
		}
		if _, err := f.WriteString(content); err != nil {
			t.Fatalf("writing temp file: %v", err)
		}
		f.Close()
		return f.Name()
	}

	t.Run("Ingestion_Success", func(t *testing.T) {
		mEmbed := &MockEmbedder{}
		mIdx := &MockIndex{}
		s := rag.NewService(mIdx, &MockLLM{}, mEmbed, &MockWebSearch{})

		path := writeTempDoc(t, "test content for ingestion")
		updated, err := s.IndexDocument(ctx, testSession(chatModel.StateProcessing), "notes.txt", path)
		if err != nil {
			t.Fatalf("IndexDocument failed: %v", err)
		}

		if updated.State != chatModel.StateReady {
			t.Errorf("State got %s, want %s", updated.State, chatModel.StateReady)
		}
		if updated.DocumentName != "notes.txt" {
			t.Errorf("DocumentName got %s, want notes.txt", updated.DocumentName)
		}
		if updated.ChunkCount == 0 {
			t.Error("ChunkCount is zero after a successful ingest")
		}
		if mIdx.RebuildCalls != 1 {
			t.Errorf("Rebuild called %d times, want 1", mIdx.RebuildCalls)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("uploaded file was not removed after ingestion")
		}
	})

	t.Run("Empty_Document", func(t *testing.T) {
		mIdx := &MockIndex{}
		s := rag.NewService(mIdx, &MockLLM{}, &MockEmbedder{}, &MockWebSearch{})

		path := writeTempDoc(t, "   \n\n  ")
		_, err := s.IndexDocument(ctx, testSession(chatModel.StateProcessing), "blank.txt", path)

		if got := faults.KindOf(err); got != faults.EmptyDocument {
			t.Errorf("Kind got %s, want %s", got, faults.EmptyDocument)
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Error("uploaded file was not removed after a failed ingestion")
		}
		//any prior index must be gone once the ingest fails
		if mIdx.DropCalls != 1 {
			t.Errorf("Drop called %d times, want 1", mIdx.DropCalls)
		}
	})

	t.Run("Failure_Index_Build", func(t *testing.T) {
		idx := &MockIndex{}
		mEmbed := &MockEmbedder{
			OnBatchEmbedding: func(ctx context.Context, chunks []string) ([][]float32, error) {
				return nil, errors.New("api limit")
			},
		}
		s := rag.NewService(idx, &MockLLM{}, mEmbed, &MockWebSearch{})

		path := writeTempDoc(t, "test content for ingestion")
		_, err := s.IndexDocument(ctx, testSession(chatModel.StateProcessing), "notes.txt", path)

		if got := faults.KindOf(err); got != faults.IndexBuildFailure {
			t.Errorf("Kind got %s, want %s", got, faults.IndexBuildFailure)
		}
		if idx.DropCalls != 1 {
			t.Errorf("Drop called %d times, want 1", idx.DropCalls)
		}
	})

	t.Run("Reprocess_Is_Deterministic", func(t *testing.T) {
		s := rag.NewService(&MockIndex{}, &MockLLM{}, &MockEmbedder{}, &MockWebSearch{})

		content := strings.Repeat("deterministic chunking input. ", 200)
		first, err := s.IndexDocument(ctx, testSession(chatModel.StateProcessing), "doc.txt", writeTempDoc(t, content))
		if err != nil {
			t.Fatalf("first ingest failed: %v", err)
		}
		second, err := s.IndexDocument(ctx, first, "doc.txt", writeTempDoc(t, content))
		if err != nil {
			t.Fatalf("second ingest failed: %v", err)
		}

		if first.ChunkCount != second.ChunkCount {
			t.Errorf("chunk counts differ across identical ingests: %d vs %d", first.ChunkCount, second.ChunkCount)
		}
	})
}
