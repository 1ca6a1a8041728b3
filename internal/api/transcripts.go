package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"counsel/internal/transcripts"
)

func (s *Server) handleListTranscripts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.store.List(r.Context(), transcripts.Filter{
		Kind:    transcripts.Kind(q.Get("type")),
		Founder: q.Get("founder"),
		Query:   q.Get("q"),
	})
	if err != nil {
		slog.Error("list transcripts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if list == nil {
		list = []transcripts.Transcript{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleCreateTranscript records a completed consultation. Title, summary,
// and tags are derived from the problem statement and conversation text.
func (s *Server) handleCreateTranscript(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind         transcripts.Kind `json:"type"`
		Founder      string           `json:"founder"`
		SessionID    string           `json:"sessionId"`
		Consultation string           `json:"consultation"`
		Content      string           `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Content == "" || req.Founder == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "founder and content are required"})
		return
	}

	id := req.SessionID
	if id == "" {
		id = uuid.New().String()
	}

	var t transcripts.Transcript
	switch req.Kind {
	case transcripts.KindVoice:
		t = transcripts.FromVoiceCall(id, req.Founder, req.Consultation, req.Content, s.now(), s.rng)
	case transcripts.KindText, "":
		t = transcripts.FromChatSession(id, req.Founder, req.Consultation, req.Content, s.now())
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown transcript type %q", req.Kind)})
		return
	}

	if err := s.store.Create(r.Context(), t); err != nil {
		slog.Error("create transcript failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transcriptID")

	var patch struct {
		Title      *string   `json:"title"`
		Summary    *string   `json:"summary"`
		Tags       *[]string `json:"tags"`
		IsStarred  *bool     `json:"isStarred"`
		IsArchived *bool     `json:"isArchived"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := s.store.Update(r.Context(), id, transcripts.Patch{
		Title:      patch.Title,
		Summary:    patch.Summary,
		Tags:       patch.Tags,
		IsStarred:  patch.IsStarred,
		IsArchived: patch.IsArchived,
	})
	if err != nil {
		slog.Error("update transcript failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transcriptID")
	if err := s.store.Remove(r.Context(), id); err != nil {
		slog.Error("delete transcript failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExportTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transcriptID")

	t, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "transcript not found"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", transcripts.ExportFilename(t)))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, transcripts.Export(t))
}
