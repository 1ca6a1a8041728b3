package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"counsel/internal/backend"
	"counsel/internal/chat"
	"counsel/internal/files"
	"counsel/internal/founders"
	"counsel/internal/transcripts"
	"counsel/internal/wizard"
)

// Collaborator is the slice of the external backend the API depends on.
// The concrete implementation is *backend.Client.
type Collaborator interface {
	QueryAgent(ctx context.Context, query string) (string, error)
	ProcessForm(ctx context.Context, prompt string, pdfs, images []files.Upload) (*backend.ProcessFormResult, error)
	RequestCall(ctx context.Context, prompt, phoneNumber string) (*backend.CallResult, error)
	Health(ctx context.Context) error
}

type Server struct {
	store    *transcripts.Store
	backend  Collaborator
	fallback *chat.Generator
	wizard   *wizard.Session
	router   chi.Router
	port     int

	now func() time.Time
	rng *rand.Rand
}

func NewServer(store *transcripts.Store, collab Collaborator, fallback *chat.Generator, port int) *Server {
	srv := &Server{
		store:    store,
		backend:  collab,
		fallback: fallback,
		port:     port,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	srv.wizard = wizard.NewSession(srv)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", srv.handleChat)
		r.Get("/founders", srv.handleListFounders)

		r.Route("/consultation", func(r chi.Router) {
			r.Post("/request", srv.handleConsultationRequest)
			r.Post("/call", srv.handleConsultationCall)
		})

		r.Route("/transcripts", func(r chi.Router) {
			r.Get("/", srv.handleListTranscripts)
			r.Post("/", srv.handleCreateTranscript)
			r.Patch("/{transcriptID}", srv.handleUpdateTranscript)
			r.Delete("/{transcriptID}", srv.handleDeleteTranscript)
			r.Get("/{transcriptID}/export", srv.handleExportTranscript)
		})

		r.Route("/wizard", func(r chi.Router) {
			r.Get("/", srv.handleWizardState)
			r.Post("/problem", srv.handleWizardProblem)
			r.Post("/files", srv.handleWizardAddFiles)
			r.Delete("/files/{index}", srv.handleWizardRemoveFile)
			r.Post("/founder", srv.handleWizardFounder)
			r.Post("/back", srv.handleWizardBack)
			r.Post("/submit", srv.handleWizardSubmit)
		})
	})

	srv.router = r
	return srv
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("starting HTTP API", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"service":     "counsel",
		"transcripts": s.store.Count(r.Context()),
	})
}

func (s *Server) handleListFounders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("recommended") == "true" {
		writeJSON(w, http.StatusOK, founders.Recommended())
		return
	}
	writeJSON(w, http.StatusOK, founders.All())
}

// handleChat serves the original internal chat route: builds a contextual
// query, asks the query agent, and frames the answer as the founder. Any
// upstream failure falls back to the local generator, so this route never
// returns an error status for a well-formed request.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	lastMessage := ""
	if len(req.Messages) > 0 {
		lastMessage = req.Messages[len(req.Messages)-1].Content
	}

	query := chat.ContextualQuery(lastMessage, req.Founder, req.OriginalConsultation, req.FileCount)
	answer, err := s.backend.QueryAgent(r.Context(), query)
	if err != nil {
		slog.Warn("chat: query agent unavailable, generating fallback",
			"session_id", req.SessionID,
			"founder", req.Founder,
			"error", err,
		)
		writeJSON(w, http.StatusOK, map[string]string{
			"response": s.fallback.Generate(req.Messages, req.Founder, req.FileCount),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"response": chat.FrameResponse(answer, req.Founder, lastMessage),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
