package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubResponder returns a canned reply or error for every Advise call.
type stubResponder struct {
	reply string
	err   error
	last  AdviceRequest
	calls int
}

func (r *stubResponder) Advise(_ context.Context, req AdviceRequest) (string, error) {
	r.calls++
	r.last = req
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

func TestNewSession_Greeting(t *testing.T) {
	s := NewSession("elon-musk", "Our churn rate is rising", 0, &stubResponder{})

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected a single greeting message, got %d", len(msgs))
	}
	want := `Hello! I'm Elon Musk. I've reviewed your business challenge: "Our churn rate is rising". Let's dive into this strategically. What specific aspect would you like to explore first?`
	if msgs[0].Content != want {
		t.Errorf("greeting mismatch:\ngot:  %s\nwant: %s", msgs[0].Content, want)
	}
	if msgs[0].Role != "assistant" {
		t.Errorf("greeting must be an assistant message, got %s", msgs[0].Role)
	}
}

func TestNewSession_GreetingWithFiles(t *testing.T) {
	s := NewSession("bill-gates", "Scaling problems", 3, &stubResponder{})

	got := s.Messages()[0].Content
	if !strings.Contains(got, "I also see you've shared 3 supporting documents. ") {
		t.Errorf("greeting should mention the shared documents:\n%s", got)
	}
}

func TestNewSession_GreetingTruncatesLongConsultation(t *testing.T) {
	long := strings.Repeat("x", 200)
	s := NewSession("elon-musk", long, 0, &stubResponder{})

	got := s.Messages()[0].Content
	wantPreview := `"` + strings.Repeat("x", 150) + `..."`
	if !strings.Contains(got, wantPreview) {
		t.Errorf("expected 150-char preview with ellipsis:\n%s", got)
	}
}

func TestNewSession_UnknownFounderUsesPlaceholder(t *testing.T) {
	s := NewSession("nobody", "Help", 0, &stubResponder{})
	if !strings.HasPrefix(s.Messages()[0].Content, "Hello! I'm Founder.") {
		t.Errorf("unknown founder should greet with the placeholder name:\n%s", s.Messages()[0].Content)
	}
}

func TestSend_AppendsUserThenReply(t *testing.T) {
	r := &stubResponder{reply: "Focus on retention."}
	s := NewSession("elon-musk", "Churn", 2, r)

	m, err := s.Send(context.Background(), "How do we fix churn?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.Role != "assistant" || m.Content != "Focus on retention." {
		t.Errorf("unexpected reply message: %+v", m)
	}

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected greeting + user + reply, got %d messages", len(msgs))
	}
	if msgs[1].Role != "user" || msgs[1].Content != "How do we fix churn?" {
		t.Errorf("user message not appended: %+v", msgs[1])
	}

	if r.last.Founder != "elon-musk" || r.last.SessionID != s.ID {
		t.Errorf("advice request identity wrong: %+v", r.last)
	}
	if r.last.OriginalConsultation != "Churn" || r.last.FileCount != 2 {
		t.Errorf("advice request context wrong: %+v", r.last)
	}
	// The user message must already be in the request payload.
	if len(r.last.Messages) != 2 || r.last.Messages[1].Content != "How do we fix churn?" {
		t.Errorf("request should carry the optimistic user message: %+v", r.last.Messages)
	}
}

func TestSend_FallbackOnResponderFailure(t *testing.T) {
	r := &stubResponder{err: errors.New("backend down")}
	s := NewSession("elon-musk", "Churn", 0, r)

	m, err := s.Send(context.Background(), "Hello?")
	if err != nil {
		t.Fatalf("responder failure must not surface an error: %v", err)
	}
	if m.Content != FallbackMessage {
		t.Errorf("expected fallback message, got %q", m.Content)
	}

	msgs := s.Messages()
	if len(msgs) != 3 || msgs[1].Content != "Hello?" {
		t.Errorf("user message must survive the failure: %+v", msgs)
	}
}

func TestSend_RejectsBlankMessage(t *testing.T) {
	r := &stubResponder{}
	s := NewSession("elon-musk", "Churn", 0, r)

	if _, err := s.Send(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for a blank message")
	}
	if r.calls != 0 {
		t.Errorf("responder must not be called for a blank message")
	}
	if len(s.Messages()) != 1 {
		t.Errorf("blank message must not be appended")
	}
}

func TestEnd_FlattensConversation(t *testing.T) {
	r := &stubResponder{reply: "Iterate faster."}
	s := NewSession("elon-musk", "Churn", 0, r)
	if _, err := s.Send(context.Background(), "What should we do?"); err != nil {
		t.Fatal(err)
	}

	got := s.End()
	parts := strings.Split(got, "\n\n")
	if len(parts) != 3 {
		t.Fatalf("expected 3 blocks, got %d:\n%s", len(parts), got)
	}
	if !strings.HasPrefix(parts[0], "Elon Musk: Hello!") {
		t.Errorf("greeting block wrong: %s", parts[0])
	}
	if parts[1] != "You: What should we do?" {
		t.Errorf("user block wrong: %s", parts[1])
	}
	if parts[2] != "Elon Musk: Iterate faster." {
		t.Errorf("reply block wrong: %s", parts[2])
	}
}

func TestMessages_ReturnsCopy(t *testing.T) {
	s := NewSession("elon-musk", "Churn", 0, &stubResponder{})
	msgs := s.Messages()
	msgs[0].Content = "mutated"
	if s.Messages()[0].Content == "mutated" {
		t.Errorf("caller mutation leaked into the session log")
	}
}
