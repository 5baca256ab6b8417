package backend

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const UpcomingInterviewsPath = "/api/upcoming-interviews"

// naive timestamps are stored in UTC by the backend.
var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Interview is a scheduled interview briefing.
type Interview struct {
	ID                 string   `json:"id"`
	MongoID            string   `json:"_id,omitempty"`
	CandidateName      string   `json:"candidate_name"`
	CandidateEmail     string   `json:"candidate_email"`
	StartTime          string   `json:"start_time"`
	DurationMinutes    int      `json:"duration_minutes"`
	InterviewerEmails  []string `json:"interviewer_emails"`
	GoogleMeetLink     string   `json:"google_meet_link,omitempty"`
	GoogleCalendarLink string   `json:"google_calendar_link,omitempty"`
}

// Start parses StartTime. Timestamps without a zone are read as UTC.
func (i *Interview) Start() (time.Time, bool) {
	raw := strings.TrimSpace(i.StartTime)
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UpcomingInterviews lists interviews that have not started yet.
func (c *Client) UpcomingInterviews(ctx context.Context) ([]*Interview, error) {
	const op = "upcoming interviews"

	resp, err := c.execute(op, c.newRequest(ctx), http.MethodGet, UpcomingInterviewsPath)
	if err != nil {
		return nil, err
	}

	var interviews []*Interview
	if err := decodeJSON(op, resp, &interviews); err != nil {
		return nil, err
	}

	for _, i := range interviews {
		if i.ID == "" {
			i.ID = i.MongoID
		}
		if i.InterviewerEmails == nil {
			i.InterviewerEmails = []string{}
		}
	}

	if interviews == nil {
		interviews = []*Interview{}
	}

	return interviews, nil
}
