package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"docchat/internal/api"
	"docchat/internal/data/store"
	"docchat/internal/domain/chatModel"
	"docchat/internal/handlers"
	"docchat/internal/rag"
	"docchat/internal/rag/faults"
	"docchat/internal/session"
	"github.com/go-chi/chi/v5"
)

// mockRag implements rag.Service
type mockRag struct {
	OnAnswer func(ctx context.Context, ses chatModel.Session, question string) (rag.Answer, error)
	OnIndex  func(ctx context.Context, ses chatModel.Session, docName string, docPath string) (chatModel.Session, error)
}

func (m *mockRag) IndexDocument(ctx context.Context, ses chatModel.Session, docName string, docPath string) (chatModel.Session, error) {
	os.Remove(docPath) //the real service always removes the upload
	if m.OnIndex != nil {
		return m.OnIndex(ctx, ses, docName, docPath)
	}
	ses.State = chatModel.StateReady
	ses.DocumentName = docName
	ses.ChunkCount = 3
	return ses, nil
}

func (m *mockRag) Answer(ctx context.Context, ses chatModel.Session, question string) (rag.Answer, error) {
	if m.OnAnswer != nil {
		return m.OnAnswer(ctx, ses, question)
	}
	return rag.Answer{Text: "an answer\n\n*Source: Web*", Sources: []string{"Web"}}, nil
}

var ragMock = &mockRag{}
var sessionService *session.Service
var router *chi.Mux

func setup() {
	if router != nil {
		return
	}
	sessionService = session.InitSessionService(session.ServiceConfig{
		SessionStore:    store.InitInMemorySessionStore(),
		TranscriptStore: store.InitInMemoryTranscriptStore(),
	})
	handlers.InitHandlers(sessionService, ragMock)

	router = chi.NewRouter()
	router.Post("/session", handlers.CreateSessionHandler)
	router.Get("/session/{id}", handlers.SessionStatusHandler)
	router.Post("/session/{id}/document", handlers.UploadDocumentHandler)
	router.Post("/session/{id}/chat", handlers.ChatHandler)
	router.Get("/session/{id}/history", handlers.GetHistoryHandler)
	router.Delete("/session/{id}/history", handlers.ClearHistoryHandler)
}

func createSession(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session got %d, want 201", rec.Code)
	}
	var resp api.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding session response: %v", err)
	}
	if resp.Id == "" {
		t.Fatal("session response has no id")
	}
	return resp.Id
}

func postChat(t *testing.T, id string, question string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(api.ChatRequest{Question: question})
	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getHistory(t *testing.T, id string) api.HistoryResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+id+"/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get history got %d, want 200", rec.Code)
	}
	var resp api.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	return resp
}

func TestSessionLifecycle(t *testing.T) {
	setup()

	id := createSession(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session got %d, want 404", rec.Code)
	}
}

func TestChat_AppendsTurns(t *testing.T) {
	setup()
	ragMock.OnAnswer = nil

	id := createSession(t)

	rec := postChat(t, id, "what is this about?")
	if rec.Code != http.StatusOK {
		t.Fatalf("chat got %d, want 200", rec.Code)
	}

	var resp api.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding chat response: %v", err)
	}
	if resp.Answer == "" || len(resp.Sources) == 0 {
		t.Errorf("unexpected chat response: %+v", resp)
	}

	history := getHistory(t, id)
	if len(history.Turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(history.Turns))
	}
	if history.Turns[0].Role != "user" || history.Turns[1].Role != "assistant" {
		t.Errorf("unexpected turn roles: %+v", history.Turns)
	}
}

func TestChat_MissingCredentialLeavesTranscriptUntouched(t *testing.T) {
	setup()
	ragMock.OnAnswer = func(ctx context.Context, ses chatModel.Session, question string) (rag.Answer, error) {
		return rag.Answer{}, faults.New(faults.MissingCredential, "Answer", nil)
	}
	defer func() { ragMock.OnAnswer = nil }()

	id := createSession(t)

	rec := postChat(t, id, "a question")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("chat got %d, want 400", rec.Code)
	}

	history := getHistory(t, id)
	if len(history.Turns) != 0 {
		t.Errorf("transcript has %d turns, want 0", len(history.Turns))
	}
}

func TestChat_PipelineFailureBecomesErrorTurn(t *testing.T) {
	setup()
	ragMock.OnAnswer = func(ctx context.Context, ses chatModel.Session, question string) (rag.Answer, error) {
		return rag.Answer{}, faults.New(faults.SynthesisFailure, "Answer", nil)
	}
	defer func() { ragMock.OnAnswer = nil }()

	id := createSession(t)

	rec := postChat(t, id, "a question")
	if rec.Code != http.StatusOK {
		t.Fatalf("chat got %d, want 200", rec.Code)
	}

	history := getHistory(t, id)
	if len(history.Turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(history.Turns))
	}
	if history.Turns[1].Content != "Error: SYNTHESIS_FAILURE" {
		t.Errorf("assistant turn got %q", history.Turns[1].Content)
	}
}

func postDocument(t *testing.T, id string, filename string, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("document", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func uploadDirEmpty(t *testing.T) bool {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working directory: %v", err)
	}
	dir := filepath.Join(wd, "temporary_data")
	t.Cleanup(func() { os.RemoveAll(dir) })
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		t.Fatalf("reading upload directory: %v", err)
	}
	return len(entries) == 0
}

func TestUploadDocument(t *testing.T) {
	setup()

	t.Run("Success_Leaves_No_Temp_Files", func(t *testing.T) {
		ragMock.OnIndex = nil
		id := createSession(t)

		rec := postDocument(t, id, "notes.txt", "some document text")
		if rec.Code != http.StatusOK {
			t.Fatalf("upload got %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var resp api.UploadResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding upload response: %v", err)
		}
		if resp.ChunkCount == 0 || resp.DocumentName != "notes.txt" {
			t.Errorf("unexpected upload response: %+v", resp)
		}
		if !uploadDirEmpty(t) {
			t.Error("temp files left behind after a successful upload")
		}
	})

	t.Run("Failure_Reverts_Session_And_Cleans_Up", func(t *testing.T) {
		ragMock.OnIndex = func(ctx context.Context, ses chatModel.Session, docName string, docPath string) (chatModel.Session, error) {
			return ses, faults.New(faults.EmptyDocument, "IndexDocument", nil)
		}
		defer func() { ragMock.OnIndex = nil }()

		id := createSession(t)

		rec := postDocument(t, id, "blank.txt", "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("upload got %d, want 422", rec.Code)
		}

		ses, found := sessionService.SessionStore.GetSession(context.Background(), id)
		if !found {
			t.Fatal("session missing after failed upload")
		}
		if ses.State != chatModel.StateEmpty || ses.ChunkCount != 0 || ses.DocumentName != "" {
			t.Errorf("session not reverted: %+v", ses)
		}
		if !uploadDirEmpty(t) {
			t.Error("temp files left behind after a failed upload")
		}
	})
}

func TestClearHistory(t *testing.T) {
	setup()
	ragMock.OnAnswer = nil

	id := createSession(t)
	postChat(t, id, "first question")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/session/"+id+"/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clear history got %d, want 200", rec.Code)
	}

	history := getHistory(t, id)
	if len(history.Turns) != 0 {
		t.Errorf("transcript has %d turns after clear, want 0", len(history.Turns))
	}
}
