package chatModel

import (
	"context"
	"time"
)

type ChatRole string
type SessionState string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"

	//session document lifecycle: Empty -> Processing -> Ready,
	//Ready -> Processing again on reprocess
	StateEmpty      SessionState = "Empty"
	StateProcessing SessionState = "Processing"
	StateReady      SessionState = "Ready"
)

// Session is the explicit per-session state bag. Everything a request needs
// is read from here, nothing lives in ambient globals.
type Session struct {
	Id           string        `json:"id"`
	State        SessionState  `json:"state"`
	DocumentName string        `json:"document_name,omitempty"`
	ChunkCount   int           `json:"chunk_count"`
	CreatedTime  time.Time     `json:"created_time"`
	Config       SessionConfig `json:"config"`
}

// SessionConfig is mutable at any time and read fresh on every question.
type SessionConfig struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	LLMKey      string  `json:"llm_key,omitempty"`
	SearchKey   string  `json:"search_key,omitempty"`
}

func (s Session) DocumentReady() bool {
	return s.State == StateReady
}

func (c SessionConfig) HasCredentials() bool {
	return c.LLMKey != "" && c.SearchKey != ""
}

// ChatTurn is one transcript entry. Turns are append-only and are never
// edited or removed individually; only a full reset clears them.
type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type SessionStore interface {
	GetSession(ctx context.Context, sessionId string) (Session, bool)
	SaveSession(ctx context.Context, session Session) error
	DeleteSession(ctx context.Context, sessionId string)
}

type TranscriptStore interface {
	AppendTurn(ctx context.Context, sessionId string, turn ChatTurn) error
	GetTranscript(ctx context.Context, sessionId string) ([]ChatTurn, error)
	ClearTranscript(ctx context.Context, sessionId string) error
}
