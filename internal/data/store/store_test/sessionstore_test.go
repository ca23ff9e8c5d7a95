package store_test

import (
	"context"
	"testing"

	"docchat/internal/config"
	"docchat/internal/data/redisStore"
	"docchat/internal/data/store"
	"docchat/internal/domain/chatModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionStore(t *testing.T) (*store.RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestSessionStore(redisStore.NewTestStore(client)), mr
}

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	sessionStore, mr := newSessionStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	sessionID := "session_abc_123"

	testSession := chatModel.Session{
		Id:    sessionID,
		State: chatModel.StateReady,
		Config: chatModel.SessionConfig{
			Model:       config.DefaultModel,
			Temperature: 0.7,
			LLMKey:      "secret-key",
		},
		DocumentName: "handbook.pdf",
		ChunkCount:   12,
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		err := sessionStore.SaveSession(ctx, testSession)
		if err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		retrieved, found := sessionStore.GetSession(ctx, sessionID)
		if !found {
			t.Fatal("Session was saved but not found in Redis")
		}

		if retrieved.Config.Model != testSession.Config.Model {
			t.Errorf("Data mismatch! Got %s, want %s", retrieved.Config.Model, testSession.Config.Model)
		}
		if retrieved.Config.LLMKey != "secret-key" {
			t.Error("API key did not survive the roundtrip")
		}
		if retrieved.ChunkCount != 12 || retrieved.DocumentName != "handbook.pdf" {
			t.Errorf("Document state mismatch: %+v", retrieved)
		}
	})

	t.Run("Get Non-Existent Session", func(t *testing.T) {
		_, found := sessionStore.GetSession(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		sessionStore.DeleteSession(ctx, sessionID)

		if mr.Exists(sessionID) {
			t.Error("Session still exists in Redis after DeleteSession call")
		}
	})
}

func TestRedisSessionStore_UpdateOverwrites(t *testing.T) {
	sessionStore, _ := newSessionStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	ses := chatModel.Session{Id: "s1", State: chatModel.StateEmpty}
	if err := sessionStore.SaveSession(ctx, ses); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	ses.State = chatModel.StateReady
	ses.ChunkCount = 5
	if err := sessionStore.SaveSession(ctx, ses); err != nil {
		t.Fatalf("second SaveSession failed: %v", err)
	}

	got, found := sessionStore.GetSession(ctx, "s1")
	if !found {
		t.Fatal("session not found after update")
	}
	if got.State != chatModel.StateReady || got.ChunkCount != 5 {
		t.Errorf("update not persisted: %+v", got)
	}
}
