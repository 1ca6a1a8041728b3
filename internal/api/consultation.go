package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"counsel/internal/files"
	"counsel/internal/founders"
	"counsel/internal/wizard"
)

// maxConsultationForm caps the in-memory size of a consultation submission.
const maxConsultationForm = 32 << 20

// SubmitConsultation forwards a completed draft to the backend's
// process-form endpoint. It also serves as the wizard's Submitter.
func (s *Server) SubmitConsultation(ctx context.Context, req wizard.SubmitRequest) (*wizard.SubmitResult, error) {
	prompt := consultationPrompt(req.Founder, req.Consultation, req.PhoneNumber, s.now())

	slog.Info("consultation: submitting",
		"founder", req.Founder,
		"pdfs", len(req.Files.PDFs),
		"images", len(req.Files.Images),
	)

	result, err := s.backend.ProcessForm(ctx, prompt, req.Files.PDFs, req.Files.Images)
	if err != nil {
		return nil, err
	}

	consultationID := result.Data.SessionID
	if consultationID == "" {
		consultationID = "generated-id"
	}

	return &wizard.SubmitResult{
		ConsultationID: consultationID,
		WeaviateStored: result.WeaviateStored,
		NormalizedText: result.Data.NormalizedText,
		FilesProcessed: wizard.FileCounts{
			Total:  req.Files.Total(),
			PDFs:   len(req.Files.PDFs),
			Images: len(req.Files.Images),
		},
	}, nil
}

// consultationPrompt builds the ingestion prompt carrying the founder
// persona context alongside the raw challenge.
func consultationPrompt(founderID, consultation, phoneNumber string, at time.Time) string {
	f := founders.Get(founderID)
	return fmt.Sprintf(`Consultation Request for %s:

Business Challenge: %s

Founder Context: %s
Focus Areas: %s

Phone Number: %s
Timestamp: %s

Please analyze this consultation request and the uploaded documents to provide comprehensive insights and recommendations.`,
		f.Name, consultation, f.Description, f.Focus, phoneNumber, at.UTC().Format(time.RFC3339))
}

// handleConsultationRequest accepts the multipart consultation form, sorts
// the attached files into buckets, and forwards everything upstream. On
// failure the upstream message is surfaced intact so the caller can retry.
func (s *Server) handleConsultationRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxConsultationForm); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "invalid multipart form",
		})
		return
	}

	uploads, err := collectUploads(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	result, err := s.SubmitConsultation(r.Context(), wizard.SubmitRequest{
		Founder:      r.FormValue("founder"),
		Consultation: r.FormValue("consultation"),
		PhoneNumber:  r.FormValue("phoneNumber"),
		Files:        files.Classify(uploads),
	})
	if err != nil {
		slog.Error("consultation request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": fmt.Sprintf("Failed to process consultation: %s", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         "Consultation processed and stored successfully",
		"consultation_id": result.ConsultationID,
		"weaviate_stored": result.WeaviateStored,
		"normalized_text": result.NormalizedText,
		"files_processed": result.FilesProcessed,
	})
}

// handleConsultationCall triggers the outbound phone call workflow for an
// already-described consultation.
func (s *Server) handleConsultationCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Consultation string `json:"consultation"`
		PhoneNumber  string `json:"phone_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Consultation == "" || len(req.PhoneNumber) < 10 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "consultation and a valid phone_number are required"})
		return
	}

	result, err := s.backend.RequestCall(r.Context(), req.Consultation, req.PhoneNumber)
	if err != nil {
		slog.Error("call request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": fmt.Sprintf("Failed to request call: %s", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"focused_query": result.FocusedQuery,
		"data_count":    result.DataCount,
		"phone_number":  result.PhoneNumber,
	})
}

// collectUploads reads every file part of the parsed form, whatever field
// name it arrived under.
func collectUploads(r *http.Request) ([]files.Upload, error) {
	var uploads []files.Upload
	for _, headers := range r.MultipartForm.File {
		for _, hdr := range headers {
			f, err := hdr.Open()
			if err != nil {
				return nil, fmt.Errorf("open upload %s: %w", hdr.Filename, err)
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read upload %s: %w", hdr.Filename, err)
			}
			uploads = append(uploads, files.Upload{
				Name:      hdr.Filename,
				MediaType: hdr.Header.Get("Content-Type"),
				Size:      hdr.Size,
				Content:   content,
			})
		}
	}
	return uploads, nil
}
