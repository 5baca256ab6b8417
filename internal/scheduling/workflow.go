package scheduling

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
	"github.com/Prthmsh0210/hire-nerd/internal/logger"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	// DisplayLayout is used for the scheduled time shown to the user.
	DisplayLayout = "Mon, 02 Jan 2006 15:04 MST"

	msgMissingFields = "Please fill in all fields: date, time, candidate email, interviewer emails, and duration."
	msgPastTime      = "Please choose a future date and time for the interview."
	msgBadDuration   = "Please choose a duration of 20, 30, 45 or 60 minutes."
	msgBadDateTime   = "Please enter the date as YYYY-MM-DD and the time as HH:MM."

	msgFailedPrefix = "Failed to schedule interview. "
	msgAuthLink     = "Authentication required. Please authorize your Google Account: "
	msgAuthNoLink   = msgFailedPrefix + "Authentication required. Please authorize your Google Account (check backend logs for URL)."
	msgCheckLogs    = msgFailedPrefix + "Please check backend logs or console for details."
)

// Durations lists the allowed interview lengths in minutes.
var Durations = []int{20, 30, 45, 60}

// DefaultDuration is preselected when nothing else is configured.
const DefaultDuration = 30

// Status classifies a scheduling attempt that reached the network.
type Status int

const (
	Success Status = iota + 1
	NeedsAuthorization
	Failed
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case NeedsAuthorization:
		return "needs_authorization"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request is a proposed interview slot as entered by the user.
type Request struct {
	CandidateName     string
	CandidateEmail    string
	InterviewerEmails []string
	// Date is YYYY-MM-DD and Time is HH:MM, both in Location.
	Date            string
	Time            string
	DurationMinutes int
	// Location defaults to time.Local.
	Location *time.Location
}

// Result is the classified outcome of a scheduling attempt.
type Result struct {
	Status        Status
	MeetLink      string
	CalendarLink  string
	ScheduledTime time.Time
	// Display is the scheduled time formatted for the user.
	Display string
	// Failure is set unless Status is Success.
	Failure *failure.Failure
}

func (r *Result) Success() bool {
	return r != nil && r.Status == Success
}

// Scheduler creates calendar events on the backend.
type Scheduler interface {
	ScheduleInterview(ctx context.Context, form backend.ScheduleForm) (*backend.ScheduleResponse, error)
}

// Workflow validates and submits interview slots. Scheduling does not change
// the stored candidate: the event lives in the external calendar only.
type Workflow struct {
	scheduler Scheduler
	logger    *zap.Logger
	now       func() time.Time
}

func New(scheduler Scheduler, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}

	return &Workflow{scheduler: scheduler, logger: log, now: time.Now}
}

// WithClock replaces the clock used for the future-time check.
func (w *Workflow) WithClock(now func() time.Time) *Workflow {
	if now != nil {
		w.now = now
	}
	return w
}

// ParseEmails splits a comma-joined list, dropping blanks.
func ParseEmails(s string) []string {
	emails := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			emails = append(emails, part)
		}
	}
	return emails
}

// ValidDuration reports whether minutes is one of Durations.
func ValidDuration(minutes int) bool {
	for _, d := range Durations {
		if d == minutes {
			return true
		}
	}
	return false
}

// StartTime validates req and computes the interview start. All checks run
// before any request is sent; the first violation is returned.
func (w *Workflow) StartTime(req Request) (time.Time, error) {
	if strings.TrimSpace(req.Date) == "" ||
		strings.TrimSpace(req.Time) == "" ||
		strings.TrimSpace(req.CandidateEmail) == "" ||
		len(req.InterviewerEmails) == 0 ||
		req.DurationMinutes == 0 {
		return time.Time{}, failure.NewValidation(msgMissingFields)
	}

	if !ValidDuration(req.DurationMinutes) {
		return time.Time{}, failure.NewValidation(msgBadDuration)
	}

	loc := req.Location
	if loc == nil {
		loc = time.Local
	}

	start, err := time.ParseInLocation(dateLayout+" "+timeLayout,
		strings.TrimSpace(req.Date)+" "+strings.TrimSpace(req.Time), loc)
	if err != nil {
		return time.Time{}, failure.NewValidation(msgBadDateTime)
	}

	if !start.After(w.now()) {
		return time.Time{}, failure.NewValidation(msgPastTime)
	}

	return start, nil
}

// Schedule validates req and submits it. Validation failures are returned as
// errors and nothing is sent. Every outcome of the request itself, including
// transport errors, is returned as a classified Result.
func (w *Workflow) Schedule(ctx context.Context, req Request) (*Result, error) {
	start, err := w.StartTime(req)
	if err != nil {
		return nil, err
	}

	log := logger.WithCandidate(w.logger, req.CandidateName, "")

	form := backend.ScheduleForm{
		CandidateName:     req.CandidateName,
		CandidateEmail:    strings.TrimSpace(req.CandidateEmail),
		InterviewerEmails: req.InterviewerEmails,
		StartTime:         start,
		DurationMinutes:   req.DurationMinutes,
	}

	resp, err := w.scheduler.ScheduleInterview(ctx, form)
	if err != nil {
		res := classify(err)
		log.Warn("scheduling failed",
			zap.Stringer("status", res.Status),
			zap.String("auth_url", res.Failure.AuthURL),
			zap.Error(err),
		)
		return res, nil
	}

	if resp.MeetLink == "" && resp.EventLink == "" {
		log.Warn("backend returned no meet or calendar link")
	}

	log.Info("interview scheduled", zap.Time("start_time", start), zap.String("meet_link", resp.MeetLink))

	return &Result{
		Status:        Success,
		MeetLink:      resp.MeetLink,
		CalendarLink:  resp.EventLink,
		ScheduledTime: start,
		Display:       start.Format(DisplayLayout),
	}, nil
}

func classify(err error) *Result {
	se, ok := backend.AsStatusError(err)
	if !ok {
		kind := failure.Server
		if backend.IsTransport(err) {
			kind = failure.Transport
		}
		return &Result{
			Status:  Failed,
			Failure: &failure.Failure{Kind: kind, Message: msgCheckLogs, Err: err},
		}
	}

	f := &failure.Failure{Status: se.Code, Detail: se.Detail, Err: err}

	if se.Code == http.StatusUnauthorized {
		f.Kind = failure.AuthorizationRequired
		f.AuthURL = failure.ExtractURL(se.Detail)
		if f.AuthURL != "" {
			f.Message = msgAuthLink + f.AuthURL
		} else {
			f.Message = msgAuthNoLink
		}
		return &Result{Status: NeedsAuthorization, Failure: f}
	}

	f.Kind = failure.Server
	if se.Detail != "" {
		f.Message = msgFailedPrefix + se.Detail
	} else {
		f.Message = msgCheckLogs
	}

	return &Result{Status: Failed, Failure: f}
}

// Summary is a one-line description of a result.
func Summary(name string, res *Result) string {
	if res.Success() {
		return fmt.Sprintf("Interview scheduled successfully for %s! Meet link: %s", name, res.MeetLink)
	}
	if res == nil || res.Failure == nil {
		return msgCheckLogs
	}
	return res.Failure.Message
}
