package llm

import "context"

// Request carries everything a single completion needs. The API key rides
// along per call because each session can override the server default.
type Request struct {
	Model       string
	Temperature float64
	APIKey      string
	System      string
	User        string
}

type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
