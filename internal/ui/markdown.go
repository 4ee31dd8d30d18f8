package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"intelliagent-terminal/internal/logging"
)

// createMarkdownRenderer creates a markdown renderer with fallback handling
func createMarkdownRenderer(width int) *glamour.TermRenderer {
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with auto style: %v, trying fallback", err)

	renderer, err = glamour.NewTermRenderer(
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer: %v, answers will be plain text", err)
	return nil
}

// safeRenderMarkdown renders content, falling back to the raw text on any failure
func safeRenderMarkdown(renderer *glamour.TermRenderer, content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Panic in markdown rendering: %v", r)
			out = content
		}
	}()

	if renderer == nil || content == "" {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		logging.Error("Markdown rendering error: %v, falling back to plain text", err)
		return content
	}

	return strings.Trim(rendered, "\n")
}
