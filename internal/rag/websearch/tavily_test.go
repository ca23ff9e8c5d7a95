package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTavilySearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Formats_Result_Blocks", func(t *testing.T) {
		var gotBody searchRequest
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("path got %s, want /search", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decoding request: %v", err)
			}
			json.NewEncoder(w).Encode(searchResponse{Results: []searchResult{
				{Title: "First", URL: "https://a.example", Content: "alpha"},
				{Title: "Second", URL: "https://b.example", Content: "beta"},
			}})
		}))
		defer ts.Close()

		c := NewTavilyClient(ts.URL)
		out, err := c.Search(ctx, "test-key", "what is go?")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}

		if gotBody.APIKey != "test-key" || gotBody.Query != "what is go?" {
			t.Errorf("request body got %+v", gotBody)
		}
		if gotBody.MaxResults == 0 {
			t.Error("max_results missing from request")
		}

		for _, want := range []string{"Title: First", "URL: https://a.example", "Content: alpha", "Title: Second"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Empty_Results_Is_Not_An_Error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(searchResponse{})
		}))
		defer ts.Close()

		out, err := NewTavilyClient(ts.URL).Search(ctx, "k", "q")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if out != "" {
			t.Errorf("got %q, want empty string", out)
		}
	})

	t.Run("Error_Status_Fails", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer ts.Close()

		if _, err := NewTavilyClient(ts.URL).Search(ctx, "bad-key", "q"); err == nil {
			t.Error("expected error for 401 response")
		}
	})

	t.Run("Malformed_Body_Fails", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer ts.Close()

		if _, err := NewTavilyClient(ts.URL).Search(ctx, "k", "q"); err == nil {
			t.Error("expected error for malformed response")
		}
	})
}
