package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"docchat/internal/config"
	"docchat/internal/customHttpClient"
	"docchat/pkg/logger_i"
)

var logger *logger_i.Logger
var loggerOnce sync.Once

// Client performs one web search per question. The API key rides along per
// call because each session can override the server default.
type Client interface {
	Search(ctx context.Context, apiKey string, query string) (string, error)
}

type TavilyClient struct {
	httpClient *http.Client
	baseURL    string
	maxResults int
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func NewTavilyClient(baseURL string) *TavilyClient {
	loggerOnce.Do(func() {
		logger = logger_i.NewLogger("Tavily")
	})
	return &TavilyClient{
		httpClient: customHttpClient.NewPooledClient(config.WebSearchTimeout),
		baseURL:    baseURL,
		maxResults: config.TavilyMaxResults,
	}
}

func (c *TavilyClient) Search(ctx context.Context, apiKey string, query string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	payload, err := json.Marshal(searchRequest{
		APIKey:     apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Error calling Tavily", "error", err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Error("Tavily returned error status", "status", resp.StatusCode)
		return "", fmt.Errorf("web search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Error("Error decoding Tavily response", "error", err.Error())
		return "", err
	}

	//no results is a valid outcome, distinct from a failed call
	if len(parsed.Results) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, r := range parsed.Results {
		fmt.Fprintf(&sb, "Title: %s\nURL: %s\nContent: %s\n\n", r.Title, r.URL, r.Content)
	}
	log.Debug("Web search returned results", "count", len(parsed.Results))
	return sb.String(), nil
}
