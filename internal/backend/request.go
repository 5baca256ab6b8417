package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/logger"
)

const (
	contentType    = "application/json"
	maxLoggedBody  = 512
	detailMessages = "detail.#.msg"
)

// TransportError means no response was received from the backend.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: no response from backend: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a backend response carrying an error, either as a non-2xx
// status or as an error field in a 2xx body.
type StatusError struct {
	Op     string
	Code   int
	Status string
	// Detail is the "detail" (or "error") field of the body.
	Detail string
	// Message is the "message" field of the body.
	Message string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: bad status: %d: %s", e.Op, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: bad status: %d", e.Op, e.Code)
}

// AsStatusError unwraps err into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsTransport reports whether err means that no response was received.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func (c *Client) execute(op string, req *resty.Request, method, path string) (*resty.Response, error) {
	log := logger.WithFields(c.logger, logger.RequestFields(op, req.Header.Get(requestIDHeader))...)

	log.Debug("make request",
		zap.String("method", method),
		zap.String("url", c.APIURL+path),
	)

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	log.Debug("got response from backend",
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", resp.Time()),
	)

	if resp.IsError() {
		log.Debug("backend error body",
			zap.String("body", logger.TruncateForLog(resp.String(), maxLoggedBody)),
		)
		return resp, newStatusError(op, resp)
	}

	return resp, nil
}

func newStatusError(op string, resp *resty.Response) *StatusError {
	body := resp.Body()

	return &StatusError{
		Op:      op,
		Code:    resp.StatusCode(),
		Status:  resp.Status(),
		Detail:  extractDetail(body),
		Message: strings.TrimSpace(gjson.GetBytes(body, "message").String()),
	}
}

// extractDetail reads "detail" as a string, or joins the messages of a
// validation error list. Falls back to an "error" field.
func extractDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.IsArray():
		msgs := make([]string, 0)
		for _, msg := range gjson.GetBytes(body, detailMessages).Array() {
			if s := strings.TrimSpace(msg.String()); s != "" {
				msgs = append(msgs, s)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
		return detail.Raw
	case detail.Exists():
		return strings.TrimSpace(detail.String())
	}

	return strings.TrimSpace(gjson.GetBytes(body, "error").String())
}

func decodeJSON(op string, resp *resty.Response, target any) error {
	if err := json.Unmarshal(resp.Body(), target); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}
