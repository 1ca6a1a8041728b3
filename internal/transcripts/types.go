package transcripts

import (
	"context"
	"errors"
	"time"
)

// Kind distinguishes voice consultations from text chats.
type Kind string

const (
	KindVoice Kind = "voice"
	KindText  Kind = "text"
)

// Transcript is the durable record of one completed consultation. JSON field
// names match the records the web client wrote, so persisted collections and
// exported files stay compatible. Exactly one of Duration (voice) or
// MessageCount (text) is set.
type Transcript struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"type"`
	Founder      string    `json:"founder"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Summary      string    `json:"summary"`
	Duration     int       `json:"duration,omitempty"`
	MessageCount int       `json:"messageCount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Tags         []string  `json:"tags"`
	IsStarred    bool      `json:"isStarred"`
	IsArchived   bool      `json:"isArchived"`
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Kind    Kind
	Founder string
	Query   string
}

// Patch carries partial field updates for Update. Nil fields are untouched.
type Patch struct {
	Title      *string
	Summary    *string
	Tags       *[]string
	IsStarred  *bool
	IsArchived *bool
}

// ErrNotFound is returned by Storage.Read when no collection has been
// persisted yet. A decode failure of existing data is a distinct error and
// must not be collapsed into this.
var ErrNotFound = errors.New("transcripts: collection not found")

// Storage is the persistence port for the transcript collection. The whole
// collection is read and written atomically on every mutation.
type Storage interface {
	Read(ctx context.Context) ([]Transcript, error)
	Write(ctx context.Context, collection []Transcript) error
}

// StoredEvent is the payload published to counsel.transcript.stored when a
// transcript is created.
type StoredEvent struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"type"`
	Founder      string `json:"founder"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count,omitempty"`
	Duration     int    `json:"duration,omitempty"`
}
