// Package backend is the HTTP client for the external consultation backend:
// vector-search queries, consultation ingestion, and the outbound-call
// trigger all live there; this client only speaks its wire contract.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"counsel/internal/files"
)

type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the backend at baseURL. The timeout stands in
// for the browser's own request ceiling; there is no per-call cancellation
// beyond the passed context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ProcessFormResult mirrors the process-form response body.
type ProcessFormResult struct {
	Data struct {
		SessionID      string `json:"session_id"`
		NormalizedText string `json:"normalized_text"`
	} `json:"data"`
	WeaviateStored bool `json:"weaviate_stored"`
}

// CallResult mirrors the query-generator response body.
type CallResult struct {
	FocusedQuery string `json:"focused_query"`
	DataCount    int    `json:"data_count"`
	PhoneNumber  string `json:"phone_number"`
}

// QueryAgent retrieves advisory text for a free-text query.
func (c *Client) QueryAgent(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf("%s/weaviate/query-agent?query=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var body struct {
		Response string `json:"response"`
	}
	if err := c.do(req, &body); err != nil {
		return "", fmt.Errorf("query agent: %w", err)
	}
	return body.Response, nil
}

// ProcessForm ingests a consultation prompt and its categorized documents.
func (c *Client) ProcessForm(ctx context.Context, prompt string, pdfs, images []files.Upload) (*ProcessFormResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("write prompt field: %w", err)
	}
	for _, u := range pdfs {
		if err := writeFilePart(w, "pdfs", u); err != nil {
			return nil, err
		}
	}
	for _, u := range images {
		if err := writeFilePart(w, "images", u); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/weaviate/process-form", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result ProcessFormResult
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("process form: %w", err)
	}
	return &result, nil
}

// RequestCall triggers the outbound phone call workflow.
func (c *Client) RequestCall(ctx context.Context, prompt, phoneNumber string) (*CallResult, error) {
	payload, err := json.Marshal(map[string]string{
		"prompt":       prompt,
		"phone_number": phoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/weaviate/weaviate-query-generator", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result CallResult
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("request call: %w", err)
	}
	return &result, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func writeFilePart(w *multipart.Writer, field string, u files.Upload) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, u.Name))
	h.Set("Content-Type", u.MediaType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := part.Write(u.Content); err != nil {
		return fmt.Errorf("write %s part: %w", field, err)
	}
	return nil
}
