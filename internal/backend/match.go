package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
)

const (
	MatchPath = "/api/match"

	jdField      = "jd"
	resumesField = "resumes"
	octetStream  = "application/octet-stream"
)

// File is an uploaded document.
type File struct {
	Name    string
	Content []byte
}

// ReadFile loads a file from disk for upload.
func ReadFile(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return File{}, errors.New("file path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %q: %w", path, err)
	}

	return File{Name: filepath.Base(path), Content: data}, nil
}

func (f File) contentType() string {
	if t := mime.TypeByExtension(filepath.Ext(f.Name)); t != "" {
		return t
	}
	return octetStream
}

// MatchResponse is the ranked candidate list of a match request.
type MatchResponse struct {
	Candidates []*candidate.Candidate
	// ExcelURL is the report reference exactly as returned, often root-relative.
	ExcelURL string
	Message  string
}

type matchPayload struct {
	Results  []map[string]any `json:"results"`
	ExcelURL *string          `json:"excelUrl"`
	Message  string           `json:"message"`
}

// Match uploads the job description and the resumes and returns the ranking.
// Red flags are normalized here, so consumers never see the raw shapes.
func (c *Client) Match(ctx context.Context, jd File, resumes []File) (*MatchResponse, error) {
	const op = "match"

	req := c.newRequest(ctx).
		SetMultipartField(jdField, jd.Name, jd.contentType(), bytes.NewReader(jd.Content))

	for _, r := range resumes {
		req.SetMultipartField(resumesField, r.Name, r.contentType(), bytes.NewReader(r.Content))
	}

	resp, err := c.execute(op, req, http.MethodPost, MatchPath)
	if err != nil {
		return nil, err
	}

	var payload matchPayload
	if err := decodeJSON(op, resp, &payload); err != nil {
		return nil, err
	}

	candidates, err := candidate.DecodeAll(payload.Results)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := &MatchResponse{
		Candidates: candidates,
		Message:    payload.Message,
	}
	if payload.ExcelURL != nil {
		out.ExcelURL = strings.TrimSpace(*payload.ExcelURL)
	}

	c.logger.Info("match finished",
		zap.Int("resumes", len(resumes)),
		zap.Int("candidates", len(candidates)),
		zap.Bool("report", out.ExcelURL != ""),
	)

	return out, nil
}
