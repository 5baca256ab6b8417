package fetch

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
)

type stubLister struct {
	interviews []*backend.Interview
	err        error
}

func (s *stubLister) UpcomingInterviews(context.Context) ([]*backend.Interview, error) {
	return s.interviews, s.err
}

type stubAnalytics struct {
	payload *backend.Analytics
	err     error
}

func (s *stubAnalytics) Analytics(context.Context) (*backend.Analytics, error) {
	return s.payload, s.err
}

func TestUpcomingLoad(t *testing.T) {
	t.Parallel()

	u := NewUpcoming(&stubLister{interviews: []*backend.Interview{{ID: "1", CandidateName: "Asha"}}}, nil)

	if u.State().Phase != Loading {
		t.Fatalf("expected initial loading state, got %s", u.State().Phase)
	}

	st := u.Load(context.Background())
	if st.Phase != Data || len(st.Data) != 1 || st.Err != nil {
		t.Fatalf("unexpected state: %+v", st)
	}
	if u.State().Phase != Data {
		t.Fatalf("expected state to be kept")
	}
}

func TestUpcomingErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		kind    failure.Kind
		authURL string
		message string
	}{
		{
			name:    "unauthorized",
			err:     &backend.StatusError{Code: 401, Detail: "Please visit http://auth.x/authorize"},
			kind:    failure.AuthorizationRequired,
			authURL: "http://auth.x/authorize",
			message: msgUpcomingAuth,
		},
		{
			name:    "detail",
			err:     &backend.StatusError{Code: 500, Detail: "db down"},
			kind:    failure.Server,
			message: msgUpcomingFailed + " db down",
		},
		{
			name:    "bare status",
			err:     &backend.StatusError{Code: 500},
			kind:    failure.Server,
			message: msgUpcomingFailed,
		},
		{
			name:    "transport",
			err:     &backend.TransportError{Op: "upcoming interviews", Err: errors.New("refused")},
			kind:    failure.Transport,
			message: msgUpcomingFailed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := NewUpcoming(&stubLister{err: tt.err}, zap.NewNop()).Load(context.Background())

			if st.Phase != Error {
				t.Fatalf("expected error phase, got %s", st.Phase)
			}
			if st.Err.Kind != tt.kind || st.Err.Message != tt.message || st.Err.AuthURL != tt.authURL {
				t.Fatalf("unexpected failure: %+v", st.Err)
			}
			if st.Data == nil || len(st.Data) != 0 {
				t.Fatalf("expected an empty list, got %v", st.Data)
			}
		})
	}
}

func TestAnalyticsLoad(t *testing.T) {
	t.Parallel()

	payload := &backend.Analytics{NoShows: 7, PieData: []float64{1, 2, 3}}

	st := NewAnalytics(&stubAnalytics{payload: payload}, nil).Load(context.Background())

	if st.Phase != Data || st.Data.Degraded {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.Data.NoShows != 7 {
		t.Fatalf("expected backend payload, got %+v", st.Data.Analytics)
	}
	if st.Data.BarData == nil || st.Data.CQITrend.Labels == nil {
		t.Fatalf("expected normalized series")
	}
}

func TestAnalyticsFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "transport", err: &backend.TransportError{Op: "analytics", Err: errors.New("refused")}},
		{name: "server", err: &backend.StatusError{Code: 500}},
		{name: "schema", err: &backend.SchemaError{Problems: []string{"pieData: Invalid type"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)

			st := NewAnalytics(&stubAnalytics{err: tt.err}, zap.New(core)).Load(context.Background())

			if st.Phase != Data {
				t.Fatalf("expected data phase, got %s", st.Phase)
			}
			if !st.Data.Degraded || st.Data.Notice != msgAnalyticsFailed {
				t.Fatalf("expected degraded sample data, got %+v", st.Data)
			}
			if logs.Len() != 1 {
				t.Fatalf("expected one warning, got %d", logs.Len())
			}
		})
	}
}

func TestFallbackSeriesAreComplete(t *testing.T) {
	t.Parallel()

	f := Fallback()

	if len(f.PieData) == 0 || len(f.BarData) == 0 {
		t.Fatalf("expected pie and bar data")
	}
	for name, s := range map[string]backend.Series{
		"funnel":    f.FunnelStages,
		"cqi":       f.CQITrend,
		"red flags": f.RedFlagFrequency,
	} {
		if len(s.Labels) == 0 || len(s.Labels) != len(s.Data) {
			t.Fatalf("%s: expected matching non-empty labels and data, got %+v", name, s)
		}
	}
	if len(f.UpcomingInterviewsDetails) == 0 {
		t.Fatalf("expected interview details")
	}

	if Fallback() == f {
		t.Fatalf("expected a fresh copy per call")
	}
}
