package api

import "time"

type SessionResponse struct {
	Id           string         `json:"id" example:"a2f1c9e4-7f2b-4c43-9a6e-0d5f1b2c3d4e"`
	State        string         `json:"state" example:"Ready"`
	DocumentName string         `json:"document_name,omitempty" example:"handbook.pdf"`
	ChunkCount   int            `json:"chunk_count" example:"12"`
	LLMKeySet    bool           `json:"llm_key_set"`
	SearchKeySet bool           `json:"search_key_set"`
	Config       SessionConfig  `json:"config"`
	CreatedTime  time.Time      `json:"created_time"`
	Error        *OutgoingError `json:"error,omitempty"`
}

type SessionConfig struct {
	Model       string  `json:"model" example:"openai/gpt-3.5-turbo"`
	Temperature float64 `json:"temperature" example:"0.3"`
}

type OutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Kind    string `json:"kind,omitempty" example:"MISSING_CREDENTIAL"`
	Message string `json:"message" example:"Session not found"`
}

type UploadResponse struct {
	SessionId    string `json:"session_id"`
	DocumentName string `json:"document_name"`
	ChunkCount   int    `json:"chunk_count"`
}

type ChatResponse struct {
	SessionId string   `json:"session_id"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources,omitempty"`
}

type ChatTurn struct {
	Role    string `json:"role" example:"assistant"`
	Content string `json:"content"`
}

type HistoryResponse struct {
	SessionId string     `json:"session_id"`
	Turns     []ChatTurn `json:"turns"`
}

// requests---------------------

type ChatRequest struct {
	Question string `json:"question" validate:"required"`
}

// ConfigRequest carries a partial update; nil fields keep the current value.
type ConfigRequest struct {
	Model       *string  `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	LLMKey      *string  `json:"llm_key,omitempty"`
	SearchKey   *string  `json:"search_key,omitempty"`
}
