// Package wizard drives the consultation intake flow: problem statement,
// advisor choice, contact number, submission. It is a strict three-step
// machine; no transition skips a step forward.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"counsel/internal/files"
)

// Step is the wizard's current state.
type Step string

const (
	StepInput           Step = "input"
	StepRecommendations Step = "recommendations"
	StepPhone           Step = "phone"
)

// minPhoneLength is the only phone validation applied: a syntactically
// plausible number is at least this long.
const minPhoneLength = 10

// SubmitRequest carries a completed draft to the consultation collaborator.
type SubmitRequest struct {
	Founder      string
	Consultation string
	PhoneNumber  string
	Files        files.Buckets
}

// FileCounts reports how many files the collaborator processed.
type FileCounts struct {
	Total  int `json:"total"`
	PDFs   int `json:"pdfs"`
	Images int `json:"images"`
}

// SubmitResult is the collaborator's acknowledgement.
type SubmitResult struct {
	ConsultationID string     `json:"consultation_id"`
	WeaviateStored bool       `json:"weaviate_stored"`
	NormalizedText string     `json:"normalized_text"`
	FilesProcessed FileCounts `json:"files_processed"`
}

// Submitter processes a consultation submission.
type Submitter interface {
	SubmitConsultation(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// Session is one wizard run. All draft state lives here until submission.
type Session struct {
	submitter Submitter

	mu       sync.Mutex
	step     Step
	problem  string
	founder  string
	phone    string
	uploads  []files.Upload
	inFlight bool
}

// NewSession starts a wizard at the input step.
func NewSession(submitter Submitter) *Session {
	return &Session{submitter: submitter, step: StepInput}
}

// Step returns the current wizard state.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Problem returns the draft problem statement.
func (s *Session) Problem() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.problem
}

// Founder returns the selected founder id, empty until one is chosen.
func (s *Session) Founder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.founder
}

// Phone returns the draft phone number.
func (s *Session) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

// Files returns a copy of the draft uploads in selection order.
func (s *Session) Files() []files.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]files.Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

// SetProblem updates the draft problem statement.
func (s *Session) SetProblem(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problem = text
}

// SetPhone updates the draft phone number.
func (s *Session) SetPhone(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phone = phone
}

// AddFile admits an upload to the draft, subject to the accept policy.
func (s *Session) AddFile(u files.Upload) error {
	if err := files.Accept(u); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, u)
	return nil
}

// RemoveFile drops the upload at index from the draft.
func (s *Session) RemoveFile(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.uploads) {
		return fmt.Errorf("no file at index %d", index)
	}
	s.uploads = append(s.uploads[:index], s.uploads[index+1:]...)
	return nil
}

// SubmitProblem advances input -> recommendations. Requires a non-blank
// problem statement.
func (s *Session) SubmitProblem() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepInput {
		return fmt.Errorf("cannot submit problem from step %s", s.step)
	}
	if strings.TrimSpace(s.problem) == "" {
		return fmt.Errorf("problem statement is required")
	}
	s.step = StepRecommendations
	return nil
}

// SelectFounder records the advisor choice and advances to the phone step
// in one move. Only valid from the recommendations step.
func (s *Session) SelectFounder(founderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepRecommendations {
		return fmt.Errorf("cannot select a founder from step %s", s.step)
	}
	if founderID == "" {
		return fmt.Errorf("founder id is required")
	}
	s.founder = founderID
	s.step = StepPhone
	return nil
}

// Back returns from the phone step to recommendations. No other backward
// transition exists.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPhone {
		return fmt.Errorf("cannot go back from step %s", s.step)
	}
	s.step = StepRecommendations
	return nil
}

// CanSubmit reports whether the terminal submission is allowed: non-blank
// problem, a selected founder, and a plausible phone number.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSubmitLocked()
}

func (s *Session) canSubmitLocked() bool {
	return strings.TrimSpace(s.problem) != "" &&
		s.founder != "" &&
		len(s.phone) >= minPhoneLength
}

// Submit sends the draft to the collaborator. On success every field is
// reset and the wizard returns to the input step; on failure the draft is
// left intact for retry and the error is returned verbatim. A submission
// already in flight rejects the duplicate.
func (s *Session) Submit(ctx context.Context) (*SubmitResult, error) {
	s.mu.Lock()
	if s.step != StepPhone {
		s.mu.Unlock()
		return nil, fmt.Errorf("cannot submit from step %s", s.step)
	}
	if !s.canSubmitLocked() {
		s.mu.Unlock()
		return nil, fmt.Errorf("consultation, founder, and phone number are required")
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, fmt.Errorf("submission already in progress")
	}
	s.inFlight = true
	req := SubmitRequest{
		Founder:      s.founder,
		Consultation: s.problem,
		PhoneNumber:  s.phone,
		Files:        files.Classify(s.uploads),
	}
	s.mu.Unlock()

	result, err := s.submitter.SubmitConsultation(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return nil, err
	}
	s.resetLocked()
	return result, nil
}

// Reset clears every draft field and returns to the input step.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.step = StepInput
	s.problem = ""
	s.founder = ""
	s.phone = ""
	s.uploads = nil
}
