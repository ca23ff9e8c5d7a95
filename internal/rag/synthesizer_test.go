package rag

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt(t *testing.T) {
	tests := []struct {
		name        string
		docContext  string
		webContext  string
		mustContain []string
		mustOmit    []string
	}{
		{
			name:        "Both_Sections",
			docContext:  "doc text",
			webContext:  "web text",
			mustContain: []string{documentHeader, webHeader, "doc text", "web text"},
		},
		{
			name:        "Document_Only",
			docContext:  "doc text",
			mustContain: []string{documentHeader, "doc text"},
			mustOmit:    []string{webHeader},
		},
		{
			name:        "Web_Only",
			webContext:  "web text",
			mustContain: []string{webHeader, "web text"},
			mustOmit:    []string{documentHeader},
		},
		{
			name:        "No_Context",
			mustContain: []string{"No context available."},
			mustOmit:    []string{documentHeader, webHeader},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := buildUserPrompt("what is this?", tt.docContext, tt.webContext)

			if !strings.HasPrefix(prompt, "Context:\n") {
				t.Errorf("prompt does not start with the context block:\n%s", prompt)
			}
			if !strings.HasSuffix(prompt, "Question: what is this?") {
				t.Errorf("prompt does not end with the question:\n%s", prompt)
			}
			for _, want := range tt.mustContain {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt missing %q:\n%s", want, prompt)
				}
			}
			for _, bad := range tt.mustOmit {
				if strings.Contains(prompt, bad) {
					t.Errorf("prompt should not contain %q:\n%s", bad, prompt)
				}
			}
		})
	}
}

func TestSourceLabels(t *testing.T) {
	tests := []struct {
		name       string
		docContext string
		webContext string
		label      string
	}{
		{"Both", "d", "w", "PDF & Web"},
		{"Document_Only", "d", "", "PDF"},
		{"Web_Only", "", "w", "Web"},
		{"Neither", "", "", "AI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := usedSources(tt.docContext, tt.webContext)
			if got := sourceLabel(sources); got != tt.label {
				t.Errorf("label got %q, want %q", got, tt.label)
			}
			wantSuffix := "\n\n*Source: " + tt.label + "*"
			if got := sourceSuffix(sources); got != wantSuffix {
				t.Errorf("suffix got %q, want %q", got, wantSuffix)
			}
		})
	}
}
