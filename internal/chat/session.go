// Package chat models a synchronous text consultation with a simulated
// advisor: an append-only message log seeded with a greeting, a remote
// advice call per user message, and a fixed fallback reply when the remote
// side is unreachable.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"counsel/internal/founders"
)

// FallbackMessage is appended in place of an assistant reply whenever the
// advice call fails. The session never surfaces a raw error.
const FallbackMessage = "I apologize, but I'm having trouble connecting right now. Could you please try rephrasing your question?"

// Message is a single entry in the session log.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AdviceRequest is the payload sent to the advice collaborator for each
// user message. Field names match the /api/chat wire contract.
type AdviceRequest struct {
	Messages             []Message `json:"messages"`
	Founder              string    `json:"founder"`
	SessionID            string    `json:"sessionId"`
	OriginalConsultation string    `json:"originalConsultation"`
	FileCount            int       `json:"fileCount"`
}

// Responder produces an assistant reply for the accumulated conversation.
type Responder interface {
	Advise(ctx context.Context, req AdviceRequest) (string, error)
}

// Session is one in-memory text consultation.
type Session struct {
	ID           string
	FounderID    string
	Consultation string
	FileCount    int

	responder Responder
	now       func() time.Time
	messages  []Message
}

// NewSession starts a session and seeds it with the advisor's greeting.
func NewSession(founderID, consultation string, fileCount int, responder Responder) *Session {
	s := &Session{
		ID:           fmt.Sprintf("session_%s", uuid.New().String()),
		FounderID:    founderID,
		Consultation: consultation,
		FileCount:    fileCount,
		responder:    responder,
		now:          time.Now,
	}
	s.append("assistant", greeting(founderID, consultation, fileCount))
	return s
}

func greeting(founderID, consultation string, fileCount int) string {
	preview := consultation
	suffix := ""
	if len(consultation) > 150 {
		preview = consultation[:150]
		suffix = "..."
	}
	filesClause := ""
	if fileCount > 0 {
		filesClause = fmt.Sprintf("I also see you've shared %d supporting documents. ", fileCount)
	}
	return fmt.Sprintf(
		"Hello! I'm %s. I've reviewed your business challenge: \"%s%s\". %sLet's dive into this strategically. What specific aspect would you like to explore first?",
		founders.Name(founderID), preview, suffix, filesClause,
	)
}

func (s *Session) append(role, content string) Message {
	m := Message{
		ID:        fmt.Sprintf("msg_%s", uuid.New().String()),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, m)
	return m
}

// Send appends the user's message immediately, then requests an assistant
// reply. Any failure is absorbed into the fixed fallback message so the
// conversation flow stays unbroken.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, fmt.Errorf("empty message")
	}

	s.append("user", text)

	reply, err := s.responder.Advise(ctx, AdviceRequest{
		Messages:             s.Messages(),
		Founder:              s.FounderID,
		SessionID:            s.ID,
		OriginalConsultation: s.Consultation,
		FileCount:            s.FileCount,
	})
	if err != nil {
		slog.Warn("chat: advice call failed, using fallback",
			"session_id", s.ID,
			"founder", s.FounderID,
			"error", err,
		)
		return s.append("assistant", FallbackMessage), nil
	}

	return s.append("assistant", reply), nil
}

// Messages returns a copy of the session log.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// End flattens the message log to transcript text: "speaker: content"
// blocks separated by blank lines. User messages are attributed to "You",
// assistant messages to the founder's display name.
func (s *Session) End() string {
	name := founders.Name(s.FounderID)
	parts := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		speaker := name
		if m.Role == "user" {
			speaker = "You"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", speaker, m.Content))
	}
	return strings.Join(parts, "\n\n")
}
