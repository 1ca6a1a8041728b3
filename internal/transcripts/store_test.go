package transcripts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// stubStorage is a minimal in-process Storage for store tests.
type stubStorage struct {
	collection []Transcript
	exists     bool
	readErr    error
	writeErr   error
	writes     int
}

func (s *stubStorage) Read(_ context.Context) ([]Transcript, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if !s.exists {
		return nil, ErrNotFound
	}
	out := make([]Transcript, len(s.collection))
	copy(out, s.collection)
	return out, nil
}

func (s *stubStorage) Write(_ context.Context, collection []Transcript) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.collection = make([]Transcript, len(collection))
	copy(s.collection, collection)
	s.exists = true
	return nil
}

func newTestStore(st Storage, publish PublishFunc) *Store {
	s := NewStore(st, publish)
	s.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestInit_SeedsEmptyStore(t *testing.T) {
	st := &stubStorage{}
	s := newTestStore(st, nil)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(st.collection) != 2 {
		t.Fatalf("expected 2 seed records, got %d", len(st.collection))
	}
	if st.collection[0].ID != "transcript_1" || st.collection[1].ID != "transcript_2" {
		t.Errorf("unexpected seed ids: %s, %s", st.collection[0].ID, st.collection[1].ID)
	}
	if st.collection[0].Founder != "bill-gates" || !st.collection[0].IsStarred {
		t.Errorf("first seed should be a starred bill-gates transcript")
	}
	if st.collection[0].Duration != 900 {
		t.Errorf("expected 900s duration, got %d", st.collection[0].Duration)
	}
	if st.collection[1].MessageCount != 24 {
		t.Errorf("expected 24 messages, got %d", st.collection[1].MessageCount)
	}

	wantFirst := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
	if !st.collection[0].CreatedAt.Equal(wantFirst) {
		t.Errorf("expected first seed at %v, got %v", wantFirst, st.collection[0].CreatedAt)
	}
}

func TestInit_DoesNotReseedExisting(t *testing.T) {
	st := &stubStorage{exists: true, collection: []Transcript{{ID: "mine"}}}
	s := newTestStore(st, nil)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if st.writes != 0 {
		t.Errorf("expected no writes on an initialized store, got %d", st.writes)
	}
	if len(st.collection) != 1 || st.collection[0].ID != "mine" {
		t.Errorf("existing collection was modified: %+v", st.collection)
	}
}

func TestInit_CorruptDataPropagates(t *testing.T) {
	decodeErr := errors.New("decode transcripts.json: unexpected end of JSON input")
	st := &stubStorage{readErr: decodeErr}
	s := newTestStore(st, nil)

	err := s.Init(context.Background())
	if !errors.Is(err, decodeErr) {
		t.Fatalf("expected decode error to propagate, got %v", err)
	}
	if st.writes != 0 {
		t.Errorf("corrupt data must not be overwritten with seeds")
	}
}

func TestList_Filters(t *testing.T) {
	st := &stubStorage{exists: true, collection: []Transcript{
		{ID: "a", Kind: KindVoice, Founder: "bill-gates", Title: "Scaling the platform", Tags: []string{"scaling"}},
		{ID: "b", Kind: KindText, Founder: "elon-musk", Title: "Product iteration", Summary: "Rapid prototyping"},
		{ID: "c", Kind: KindText, Founder: "bill-gates", Title: "Hiring plan", IsArchived: true},
	}}
	s := newTestStore(st, nil)
	ctx := context.Background()

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected archived record excluded, got %d results", len(all))
	}
	if all[0].ID != "a" || all[1].ID != "b" {
		t.Errorf("expected insertion order a,b; got %s,%s", all[0].ID, all[1].ID)
	}

	voice, _ := s.List(ctx, Filter{Kind: KindVoice})
	if len(voice) != 1 || voice[0].ID != "a" {
		t.Errorf("kind filter failed: %+v", voice)
	}

	gates, _ := s.List(ctx, Filter{Founder: "bill-gates"})
	if len(gates) != 1 || gates[0].ID != "a" {
		t.Errorf("founder filter should exclude archived records: %+v", gates)
	}

	byTitle, _ := s.List(ctx, Filter{Query: "PRODUCT"})
	if len(byTitle) != 1 || byTitle[0].ID != "b" {
		t.Errorf("query should match title case-insensitively: %+v", byTitle)
	}

	bySummary, _ := s.List(ctx, Filter{Query: "prototyping"})
	if len(bySummary) != 1 || bySummary[0].ID != "b" {
		t.Errorf("query should match summary: %+v", bySummary)
	}

	byTag, _ := s.List(ctx, Filter{Query: "scal"})
	if len(byTag) != 1 || byTag[0].ID != "a" {
		t.Errorf("query should match tags by substring: %+v", byTag)
	}

	none, _ := s.List(ctx, Filter{Query: "kubernetes"})
	if len(none) != 0 {
		t.Errorf("expected no matches, got %+v", none)
	}
}

func TestCreate_PersistsAndPublishes(t *testing.T) {
	st := &stubStorage{exists: true}
	var gotSubject string
	var gotPayload []byte
	s := newTestStore(st, func(subject string, data []byte) error {
		gotSubject = subject
		gotPayload = data
		return nil
	})

	rec := Transcript{ID: "t1", Kind: KindText, Founder: "elon-musk", Title: "Churn", MessageCount: 4}
	if err := s.Create(context.Background(), rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(st.collection) != 1 || st.collection[0].ID != "t1" {
		t.Fatalf("record not persisted: %+v", st.collection)
	}

	if gotSubject != StoredSubject {
		t.Errorf("expected subject %s, got %s", StoredSubject, gotSubject)
	}
	var ev StoredEvent
	if err := json.Unmarshal(gotPayload, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.ID != "t1" || ev.Kind != KindText || ev.MessageCount != 4 {
		t.Errorf("unexpected event payload: %+v", ev)
	}
}

func TestCreate_PublishFailureIsNotFatal(t *testing.T) {
	st := &stubStorage{exists: true}
	s := newTestStore(st, func(string, []byte) error {
		return errors.New("nats down")
	})

	if err := s.Create(context.Background(), Transcript{ID: "t1"}); err != nil {
		t.Fatalf("publish failure must not fail the create: %v", err)
	}
	if len(st.collection) != 1 {
		t.Errorf("record should still be persisted")
	}
}

func TestUpdate_MergesPatchFields(t *testing.T) {
	st := &stubStorage{exists: true, collection: []Transcript{
		{ID: "t1", Title: "Old", Summary: "Old summary", Tags: []string{"old"}},
	}}
	s := newTestStore(st, nil)
	ctx := context.Background()

	title := "New"
	starred := true
	if err := s.Update(ctx, "t1", Patch{Title: &title, IsStarred: &starred}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := st.collection[0]
	if got.Title != "New" || !got.IsStarred {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if got.Summary != "Old summary" || len(got.Tags) != 1 {
		t.Errorf("unset patch fields must be untouched: %+v", got)
	}
}

func TestUpdate_EmptyPatchIsIdempotent(t *testing.T) {
	st := &stubStorage{exists: true, collection: []Transcript{
		{ID: "t1", Title: "Keep", IsStarred: true},
	}}
	s := newTestStore(st, nil)

	if err := s.Update(context.Background(), "t1", Patch{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if st.collection[0].Title != "Keep" || !st.collection[0].IsStarred {
		t.Errorf("empty patch must not change the record: %+v", st.collection[0])
	}
}

func TestUpdate_MissingIDIsNoOp(t *testing.T) {
	st := &stubStorage{exists: true, collection: []Transcript{{ID: "t1"}}}
	s := newTestStore(st, nil)

	title := "x"
	if err := s.Update(context.Background(), "nope", Patch{Title: &title}); err != nil {
		t.Fatalf("missing id must not be an error: %v", err)
	}
	if st.writes != 0 {
		t.Errorf("missing id must not trigger a write")
	}
}

func TestRemove_ThenList(t *testing.T) {
	st := &stubStorage{exists: true, collection: []Transcript{{ID: "t1"}, {ID: "t2"}}}
	s := newTestStore(st, nil)
	ctx := context.Background()

	if err := s.Remove(ctx, "t1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	rest, _ := s.List(ctx, Filter{})
	if len(rest) != 1 || rest[0].ID != "t2" {
		t.Errorf("expected only t2 to remain: %+v", rest)
	}

	if _, err := s.Get(ctx, "t1"); err == nil {
		t.Errorf("expected get after remove to fail")
	}
}

func TestCount(t *testing.T) {
	st := &stubStorage{exists: true, collection: []Transcript{
		{ID: "t1"},
		{ID: "t2", IsArchived: true},
	}}
	s := newTestStore(st, nil)

	if got := s.Count(context.Background()); got != 1 {
		t.Errorf("count should exclude archived records, got %d", got)
	}
}
