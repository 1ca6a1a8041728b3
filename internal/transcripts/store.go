package transcripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// PublishFunc is the callback signature for publishing store events to NATS.
type PublishFunc func(subject string, data []byte) error

// StoredSubject is the subject transcript-created events are published on.
const StoredSubject = "counsel.transcript.stored"

// Store is the durable consultation record collection. Every mutation is a
// read-modify-write of the whole collection through the Storage port.
type Store struct {
	mu      sync.Mutex
	storage Storage
	publish PublishFunc
	now     func() time.Time
}

// NewStore creates a Store over the given storage adapter. publish may be
// nil, in which case no events are emitted.
func NewStore(storage Storage, publish PublishFunc) *Store {
	return &Store{
		storage: storage,
		publish: publish,
		now:     time.Now,
	}
}

// Init seeds the collection with the demo records if nothing has been
// persisted yet. Called once by the hosting application before serving.
// A decode failure of existing data is returned as-is: corrupt data must
// not be silently replaced with seeds.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.storage.Read(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("read collection: %w", err)
	}

	seeds := s.seedRecords()
	if err := s.storage.Write(ctx, seeds); err != nil {
		return fmt.Errorf("write seed collection: %w", err)
	}
	slog.Info("transcripts: seeded demo collection", "count", len(seeds))
	return nil
}

// seedRecords returns the two demo transcripts shown on first load.
func (s *Store) seedRecords() []Transcript {
	now := s.now()
	return []Transcript{
		{
			ID:        "transcript_1",
			Kind:      KindVoice,
			Founder:   "bill-gates",
			Title:     "Scaling SaaS Platform Strategy",
			Content:   "Full transcript of 15-minute consultation about scaling challenges...",
			Summary:   "Discussed platform scaling strategies, focusing on infrastructure, team building, and market expansion approaches based on Microsoft's early growth phases.",
			Duration:  15 * 60,
			CreatedAt: now.Add(-2 * 24 * time.Hour),
			Tags:      []string{"scaling", "saas", "infrastructure"},
			IsStarred: true,
		},
		{
			ID:           "transcript_2",
			Kind:         KindText,
			Founder:      "elon-musk",
			Title:        "First Principles Product Development",
			Content:      "Text conversation about applying first principles thinking to product development...",
			Summary:      "Explored first principles methodology for product innovation, manufacturing optimization, and breakthrough thinking approaches.",
			MessageCount: 24,
			CreatedAt:    now.Add(-5 * 24 * time.Hour),
			Tags:         []string{"first-principles", "product", "innovation"},
		},
	}
}

// load reads the current collection, treating an uninitialized store as
// empty. Decode failures propagate.
func (s *Store) load(ctx context.Context) ([]Transcript, error) {
	collection, err := s.storage.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	return collection, nil
}

// List returns all non-archived transcripts matching the filter, in the
// insertion order of the underlying collection.
func (s *Store) List(ctx context.Context, f Filter) ([]Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []Transcript
	for _, t := range collection {
		if t.IsArchived {
			continue
		}
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if f.Founder != "" && t.Founder != f.Founder {
			continue
		}
		if f.Query != "" && !matchesQuery(t, f.Query) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func matchesQuery(t Transcript, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Summary), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Get returns a single transcript by id.
func (s *Store) Get(ctx context.Context, id string) (Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return Transcript{}, err
	}
	for _, t := range collection {
		if t.ID == id {
			return t, nil
		}
	}
	return Transcript{}, fmt.Errorf("transcript %s not found", id)
}

// Create appends a transcript and persists the full collection. A stored
// event is published when a publisher is wired; publish failures are logged,
// not propagated.
func (s *Store) Create(ctx context.Context, t Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}
	collection = append(collection, t)
	if err := s.storage.Write(ctx, collection); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}

	slog.Info("transcripts: created",
		"id", t.ID,
		"type", t.Kind,
		"founder", t.Founder,
	)

	if s.publish != nil {
		payload, _ := json.Marshal(StoredEvent{
			ID:           t.ID,
			Kind:         t.Kind,
			Founder:      t.Founder,
			Title:        t.Title,
			MessageCount: t.MessageCount,
			Duration:     t.Duration,
		})
		if err := s.publish(StoredSubject, payload); err != nil {
			slog.Warn("transcripts: failed to publish stored event", "id", t.ID, "error", err)
		}
	}
	return nil
}

// Update merges patch fields into the matching record and persists the full
// collection. A missing id is a no-op, not an error.
func (s *Store) Update(ctx context.Context, id string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range collection {
		if collection[i].ID != id {
			continue
		}
		found = true
		if p.Title != nil {
			collection[i].Title = *p.Title
		}
		if p.Summary != nil {
			collection[i].Summary = *p.Summary
		}
		if p.Tags != nil {
			collection[i].Tags = *p.Tags
		}
		if p.IsStarred != nil {
			collection[i].IsStarred = *p.IsStarred
		}
		if p.IsArchived != nil {
			collection[i].IsArchived = *p.IsArchived
		}
		break
	}
	if !found {
		return nil
	}

	if err := s.storage.Write(ctx, collection); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

// Remove deletes the record if present and persists the full collection.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := collection[:0]
	for _, t := range collection {
		if t.ID != id {
			kept = append(kept, t)
		}
	}

	if err := s.storage.Write(ctx, kept); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

// Count returns the number of non-archived transcripts (for health checks).
func (s *Store) Count(ctx context.Context) int {
	ts, err := s.List(ctx, Filter{})
	if err != nil {
		return 0
	}
	return len(ts)
}
