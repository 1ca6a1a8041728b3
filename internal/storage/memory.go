package storage

import (
	"context"
	"sync"

	"counsel/internal/transcripts"
)

// Memory is an in-memory Storage implementation for tests.
type Memory struct {
	mu         sync.Mutex
	collection []transcripts.Transcript
	exists     bool

	ReadErr  error
	WriteErr error

	ReadCalls  int
	WriteCalls int
}

// NewMemory creates an empty, uninitialized in-memory store: the first Read
// reports transcripts.ErrNotFound until something is written.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read(_ context.Context) ([]transcripts.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if !m.exists {
		return nil, transcripts.ErrNotFound
	}
	out := make([]transcripts.Transcript, len(m.collection))
	copy(out, m.collection)
	return out, nil
}

func (m *Memory) Write(_ context.Context, collection []transcripts.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.collection = make([]transcripts.Transcript, len(collection))
	copy(m.collection, collection)
	m.exists = true
	return nil
}
