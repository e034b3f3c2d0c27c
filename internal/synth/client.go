package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrSubmit reports a non-success response from the service.
var ErrSubmit = errors.New("submit dataset failed")

// SubmitResult is the service response to an upload.
type SubmitResult struct {
	ID        string `json:"id"`
	Digest    string `json:"digest"`
	Duplicate bool   `json:"duplicate"`
	Users     struct {
		Total      int `json:"total"`
		Excluded   int `json:"excluded"`
		SingleTest int `json:"single_test"`
		MultiTest  int `json:"multi_test"`
	} `json:"users"`
}

// Client uploads datasets to a running service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Submit posts data as the multipart file filename to POST /reports.
func (c *Client) Submit(ctx context.Context, filename string, data []byte) (SubmitResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return SubmitResult{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return SubmitResult{}, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports", &body)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("post dataset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return SubmitResult{}, fmt.Errorf("%w: status %d: %s", ErrSubmit, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	var out SubmitResult
	if err := json.Unmarshal(payload, &out); err != nil {
		return SubmitResult{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
