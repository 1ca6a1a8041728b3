package chat

import (
	"fmt"

	"counsel/internal/founders"
)

// ContextualQuery builds the free-text query sent to the query agent for a
// user message, carrying the founder persona, the original consultation,
// and a note about uploaded documents.
func ContextualQuery(userMessage, founderID, originalConsultation string, fileCount int) string {
	f := founders.Get(founderID)

	query := fmt.Sprintf("As %s, please provide advice on: %q", f.Name, userMessage)
	if originalConsultation != "" {
		query += fmt.Sprintf("\n\nContext from the original consultation: %q", originalConsultation)
	}
	if fileCount > 0 {
		query += fmt.Sprintf("\n\nNote: The user has uploaded %d document(s) that contain relevant business information. Please reference any relevant data from these documents in your response.", fileCount)
	}
	query += fmt.Sprintf("\n\nPlease respond in the style and perspective of %s, focusing on %s.", f.Name, f.Focus)
	return query
}

// FrameResponse wraps the query agent's raw answer in founder-styled
// framing and closing text.
func FrameResponse(response, founderID, userMessage string) string {
	f := founders.Get(founderID)

	if len(userMessage) > 50 {
		userMessage = userMessage[:50]
	}
	framing := fmt.Sprintf("As %s, I'd like to share my perspective on your question about \"%s...\":\n\n", f.Name, userMessage)
	closing := fmt.Sprintf("\n\nThis approach reflects my experience with %s. What specific aspect would you like to explore further?", f.Experience)
	return framing + response + closing
}
