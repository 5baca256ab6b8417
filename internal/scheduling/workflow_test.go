package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
)

type stubScheduler struct {
	resp  *backend.ScheduleResponse
	err   error
	calls int
	form  backend.ScheduleForm
}

func (s *stubScheduler) ScheduleInterview(_ context.Context, form backend.ScheduleForm) (*backend.ScheduleResponse, error) {
	s.calls++
	s.form = form
	return s.resp, s.err
}

var now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func validRequest() Request {
	return Request{
		CandidateName:     "Asha",
		CandidateEmail:    "asha@example.com",
		InterviewerEmails: []string{"lead@example.com", "hr@example.com"},
		Date:              "2026-03-11",
		Time:              "10:30",
		DurationMinutes:   45,
		Location:          time.UTC,
	}
}

func TestStartTimeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *Request)
		message string
	}{
		{name: "missing date", mutate: func(r *Request) { r.Date = "" }, message: msgMissingFields},
		{name: "missing time", mutate: func(r *Request) { r.Time = " " }, message: msgMissingFields},
		{name: "missing email", mutate: func(r *Request) { r.CandidateEmail = "" }, message: msgMissingFields},
		{name: "no interviewers", mutate: func(r *Request) { r.InterviewerEmails = nil }, message: msgMissingFields},
		{name: "no duration", mutate: func(r *Request) { r.DurationMinutes = 0 }, message: msgMissingFields},
		{name: "odd duration", mutate: func(r *Request) { r.DurationMinutes = 25 }, message: msgBadDuration},
		{name: "bad date", mutate: func(r *Request) { r.Date = "11/03/2026" }, message: msgBadDateTime},
		{name: "exactly now", mutate: func(r *Request) { r.Date, r.Time = "2026-03-10", "09:00" }, message: msgPastTime},
		{name: "in the past", mutate: func(r *Request) { r.Date = "2026-03-01" }, message: msgPastTime},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubScheduler{}
			w := New(stub, zap.NewNop()).WithClock(clock)

			req := validRequest()
			tt.mutate(&req)

			res, err := w.Schedule(context.Background(), req)
			if res != nil {
				t.Fatalf("expected no result, got %+v", res)
			}
			if !failure.IsKind(err, failure.Validation) {
				t.Fatalf("expected validation failure, got %v", err)
			}
			if err.Error() != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, err.Error())
			}
			if stub.calls != 0 {
				t.Fatalf("expected no request to be sent")
			}
		})
	}
}

func TestScheduleSuccess(t *testing.T) {
	t.Parallel()

	stub := &stubScheduler{resp: &backend.ScheduleResponse{
		MeetLink:  "https://meet.google.com/abc",
		EventLink: "https://calendar.google.com/event?eid=1",
	}}
	w := New(stub, nil).WithClock(clock)

	res, err := w.Schedule(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Success() {
		t.Fatalf("expected success, got %s", res.Status)
	}
	if res.MeetLink != "https://meet.google.com/abc" || res.CalendarLink != "https://calendar.google.com/event?eid=1" {
		t.Fatalf("unexpected links: %+v", res)
	}

	want := time.Date(2026, time.March, 11, 10, 30, 0, 0, time.UTC)
	if !res.ScheduledTime.Equal(want) {
		t.Fatalf("expected %s, got %s", want, res.ScheduledTime)
	}
	if !stub.form.StartTime.Equal(want) || stub.form.DurationMinutes != 45 {
		t.Fatalf("unexpected form: %+v", stub.form)
	}

	summary := Summary("Asha", res)
	if summary != "Interview scheduled successfully for Asha! Meet link: https://meet.google.com/abc" {
		t.Fatalf("unexpected summary: %q", summary)
	}
}

func TestScheduleFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  Status
		kind    failure.Kind
		authURL string
		message string
	}{
		{
			name:    "unauthorized with link",
			err:     &backend.StatusError{Code: 401, Detail: "Authorize at http://auth.x/start?state=1"},
			status:  NeedsAuthorization,
			kind:    failure.AuthorizationRequired,
			authURL: "http://auth.x/start?state=1",
			message: msgAuthLink + "http://auth.x/start?state=1",
		},
		{
			name:    "unauthorized without link",
			err:     &backend.StatusError{Code: 401, Detail: "token expired"},
			status:  NeedsAuthorization,
			kind:    failure.AuthorizationRequired,
			message: msgAuthNoLink,
		},
		{
			name:    "server detail",
			err:     &backend.StatusError{Code: 500, Detail: "calendar quota exceeded"},
			status:  Failed,
			kind:    failure.Server,
			message: msgFailedPrefix + "calendar quota exceeded",
		},
		{
			name:    "bare status",
			err:     &backend.StatusError{Code: 502},
			status:  Failed,
			kind:    failure.Server,
			message: msgCheckLogs,
		},
		{
			name:    "transport",
			err:     &backend.TransportError{Op: "schedule interview", Err: errors.New("dial tcp: refused")},
			status:  Failed,
			kind:    failure.Transport,
			message: msgCheckLogs,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := New(&stubScheduler{err: tt.err}, zap.NewNop()).WithClock(clock)

			res, err := w.Schedule(context.Background(), validRequest())
			if err != nil {
				t.Fatalf("expected a classified result, got error %v", err)
			}
			if res.Status != tt.status {
				t.Fatalf("expected %s, got %s", tt.status, res.Status)
			}
			if res.Failure.Kind != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, res.Failure.Kind)
			}
			if res.Failure.AuthURL != tt.authURL {
				t.Fatalf("expected auth url %q, got %q", tt.authURL, res.Failure.AuthURL)
			}
			if Summary("Asha", res) != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, Summary("Asha", res))
			}
		})
	}
}

func TestParseEmails(t *testing.T) {
	t.Parallel()

	got := ParseEmails(" a@x.com, ,b@x.com,")
	if len(got) != 2 || got[0] != "a@x.com" || got[1] != "b@x.com" {
		t.Fatalf("unexpected emails: %v", got)
	}
	if len(ParseEmails("")) != 0 {
		t.Fatalf("expected no emails")
	}
}
