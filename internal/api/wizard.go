package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"counsel/internal/files"
	"counsel/internal/wizard"
)

// wizardFileView is the draft file summary returned by the state endpoint.
type wizardFileView struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func (s *Server) wizardState() map[string]any {
	uploads := s.wizard.Files()
	views := make([]wizardFileView, len(uploads))
	for i, u := range uploads {
		views[i] = wizardFileView{Name: u.Name, Type: u.MediaType, Size: u.Size}
	}
	return map[string]any{
		"step":         s.wizard.Step(),
		"consultation": s.wizard.Problem(),
		"founder":      s.wizard.Founder(),
		"phoneNumber":  s.wizard.Phone(),
		"files":        views,
		"canSubmit":    s.wizard.CanSubmit(),
	}
}

func (s *Server) handleWizardState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wizardState())
}

func (s *Server) handleWizardProblem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Consultation string `json:"consultation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.wizard.SetProblem(req.Consultation)
	if err := s.wizard.SubmitProblem(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.wizardState())
}

func (s *Server) handleWizardAddFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxConsultationForm); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	for _, headers := range r.MultipartForm.File {
		for _, hdr := range headers {
			f, err := hdr.Open()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("open upload %s: %s", hdr.Filename, err)})
				return
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("read upload %s: %s", hdr.Filename, err)})
				return
			}
			err = s.wizard.AddFile(files.Upload{
				Name:      hdr.Filename,
				MediaType: hdr.Header.Get("Content-Type"),
				Size:      hdr.Size,
				Content:   content,
			})
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, s.wizardState())
}

func (s *Server) handleWizardRemoveFile(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be a number"})
		return
	}
	if err := s.wizard.RemoveFile(index); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.wizardState())
}

func (s *Server) handleWizardFounder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Founder string `json:"founder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.wizard.SelectFounder(req.Founder); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.wizardState())
}

func (s *Server) handleWizardBack(w http.ResponseWriter, r *http.Request) {
	if err := s.wizard.Back(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.wizardState())
}

// handleWizardSubmit performs the terminal wizard action. A validation
// failure is a 400; a collaborator failure is surfaced verbatim with the
// draft preserved for retry.
func (s *Server) handleWizardSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if r.Body != nil {
		// Body is optional; the phone number may have been set earlier.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.PhoneNumber != "" {
		s.wizard.SetPhone(req.PhoneNumber)
	}

	if s.wizard.Step() != wizard.StepPhone {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": fmt.Sprintf("cannot submit from step %s", s.wizard.Step()),
		})
		return
	}
	if !s.wizard.CanSubmit() {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "consultation, founder, and phone number are required",
		})
		return
	}

	result, err := s.wizard.Submit(r.Context())
	if err != nil {
		slog.Error("wizard submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"consultation_id": result.ConsultationID,
		"weaviate_stored": result.WeaviateStored,
		"files_processed": result.FilesProcessed,
	})
}
