package rag

import (
	"fmt"
	"strings"
)

const (
	documentHeader = "=== DOCUMENT CONTENT ==="
	webHeader      = "=== WEB SEARCH RESULTS ==="
)

// buildUserPrompt assembles the context block the model sees. Sections are
// included only when they carry content; with neither, the model is told
// explicitly that no context exists.
func buildUserPrompt(question string, docContext string, webContext string) string {
	var sections []string
	if docContext != "" {
		sections = append(sections, documentHeader+"\n"+docContext)
	}
	if webContext != "" {
		sections = append(sections, webHeader+"\n"+webContext)
	}

	contextText := "No context available."
	if len(sections) > 0 {
		contextText = strings.Join(sections, "\n\n")
	}

	return fmt.Sprintf("Context:\n%s\n\n---\n\nQuestion: %s", contextText, question)
}

// usedSources reports which context sections actually fed the prompt, in
// fixed PDF-then-Web order.
func usedSources(docContext string, webContext string) []string {
	var sources []string
	if docContext != "" {
		sources = append(sources, "PDF")
	}
	if webContext != "" {
		sources = append(sources, "Web")
	}
	return sources
}

func sourceLabel(sources []string) string {
	if len(sources) == 0 {
		return "AI"
	}
	return strings.Join(sources, " & ")
}

func sourceSuffix(sources []string) string {
	return fmt.Sprintf("\n\n*Source: %s*", sourceLabel(sources))
}
