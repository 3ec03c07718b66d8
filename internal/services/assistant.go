package services

import (
	"context"
	"fmt"
	"strings"
)

const assistantPreamble = "You are a helpful blog assistant for a MERN Stack technical blog. " +
	"Use the following list of articles to guide users:"

const assistantGuidance = "If asked about technical topics related to MERN, React, Node.js, " +
	"answer directly using your knowledge, but suggest reading our relevant articles if applicable. " +
	"Keep answers concise and helpful."

// AssistantContext is the prompt material handed to a chat model. Sending it
// anywhere is the caller's business.
type AssistantContext struct {
	Articles     string `json:"articles"`
	SystemPrompt string `json:"systemPrompt"`
}

// AssistantContext lists every post, newest first, one line each.
func (s *PostService) AssistantContext(ctx context.Context) (AssistantContext, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return AssistantContext{}, err
	}
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, fmt.Sprintf("Title: %s (Slug: %s) - Description: %s", p.Title, p.Slug, p.MetaDescription))
	}
	articles := strings.Join(lines, "\n")
	return AssistantContext{
		Articles:     articles,
		SystemPrompt: assistantPreamble + "\n\n" + articles + "\n\n" + assistantGuidance,
	}, nil
}
