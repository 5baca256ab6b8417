package backend

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	SchedulePath = "/api/schedule-interview"

	// ISOTimeLayout matches what browsers produce for Date.toISOString.
	ISOTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ScheduleForm is the multipart body of a scheduling request.
type ScheduleForm struct {
	CandidateName     string
	CandidateEmail    string
	InterviewerEmails []string
	StartTime         time.Time
	DurationMinutes   int
}

// ScheduleResponse carries the links of the created calendar event.
type ScheduleResponse struct {
	Status    string `json:"status"`
	MeetLink  string `json:"meet_link"`
	EventLink string `json:"event_link"`
	Error     string `json:"error"`
}

func (f ScheduleForm) fields() map[string]string {
	return map[string]string{
		"candidate_name":     f.CandidateName,
		"candidate_email":    f.CandidateEmail,
		"interviewer_emails": strings.Join(f.InterviewerEmails, ","),
		"start_time":         f.StartTime.UTC().Format(ISOTimeLayout),
		"duration_minutes":   strconv.Itoa(f.DurationMinutes),
	}
}

// ScheduleInterview creates a calendar event on the backend. An error field in
// a successful response is returned as a StatusError.
func (c *Client) ScheduleInterview(ctx context.Context, form ScheduleForm) (*ScheduleResponse, error) {
	const op = "schedule interview"

	req := c.newRequest(ctx).SetMultipartFormData(form.fields())

	resp, err := c.execute(op, req, http.MethodPost, SchedulePath)
	if err != nil {
		return nil, err
	}

	var out ScheduleResponse
	if err := decodeJSON(op, resp, &out); err != nil {
		return nil, err
	}

	if msg := strings.TrimSpace(out.Error); msg != "" {
		return nil, &StatusError{
			Op:     op,
			Code:   resp.StatusCode(),
			Status: resp.Status(),
			Detail: msg,
		}
	}

	c.logger.Info("interview scheduled",
		zap.String("candidate", form.CandidateName),
		zap.Time("start_time", form.StartTime),
		zap.Int("duration_minutes", form.DurationMinutes),
	)

	return &out, nil
}
