package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"github.com/Prthmsh0210/hire-nerd/internal/fetch"
	"github.com/Prthmsh0210/hire-nerd/internal/interview"
	"github.com/Prthmsh0210/hire-nerd/internal/report"
	"github.com/Prthmsh0210/hire-nerd/internal/results"
	"github.com/Prthmsh0210/hire-nerd/internal/scheduling"
	"github.com/Prthmsh0210/hire-nerd/internal/submission"
	"github.com/Prthmsh0210/hire-nerd/internal/view"
)

// ErrNoReport is returned by ReportLink when the latest search produced no link.
var ErrNoReport = errors.New("Download link is not available or report is not ready yet.")

// Backend is everything the session needs from the HireNerd backend.
type Backend interface {
	submission.Matcher
	scheduling.Scheduler
	fetch.InterviewLister
	fetch.AnalyticsSource
	interview.Conversation
}

type Options struct {
	// Origin resolves root-relative report links.
	Origin string
	// ReportDir is where local XLSX exports are written.
	ReportDir string
	Now       func() time.Time
}

// Session is one recruiter session: a single result set shared by the
// submission controller and the view coordinator.
type Session struct {
	Results     *results.Store
	Views       *view.Coordinator
	Submissions *submission.Controller
	Scheduling  *scheduling.Workflow
	Upcoming    *fetch.Upcoming
	Analytics   *fetch.Analytics

	backend   Backend
	reportDir string
	now       func() time.Time
	logger    *zap.Logger
}

func New(b Backend, opts Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := results.New(logger.Named("results"))
	views := view.NewCoordinator(store, logger.Named("view"))

	return &Session{
		Results:     store,
		Views:       views,
		Submissions: submission.New(b, store, views, opts.Origin, logger.Named("submission")),
		Scheduling:  scheduling.New(b, logger.Named("scheduling")).WithClock(now),
		Upcoming:    fetch.NewUpcoming(b, logger.Named("upcoming")),
		Analytics:   fetch.NewAnalytics(b, logger.Named("analytics")),
		backend:     b,
		reportDir:   opts.ReportDir,
		now:         now,
		logger:      logger,
	}
}

// Search runs a match for req.
func (s *Session) Search(ctx context.Context, req submission.Request) (*submission.Outcome, error) {
	return s.Submissions.Submit(ctx, req)
}

// ReportLink returns the backend report link of the latest successful search.
func (s *Session) ReportLink() (string, error) {
	st := s.Submissions.State()
	if st.Phase != submission.Done || st.ReportURL == "" {
		return "", ErrNoReport
	}
	return st.ReportURL, nil
}

// ExportReport writes the current result set to a local workbook.
func (s *Session) ExportReport() (string, error) {
	path, err := report.Export(s.Results.Snapshot(), s.reportDir, s.now())
	if err != nil {
		return "", err
	}

	s.logger.Info("exported report", zap.String("path", path), zap.Int("candidates", s.Results.Len()))
	return path, nil
}

// StartInterview opens the AI interview for c. Completing it patches the
// result set and moves on to scheduling.
func (s *Session) StartInterview(c *candidate.Candidate) *interview.Session {
	s.Views.StartAIInterview(c)

	return interview.NewSession(c, s.backend, func(updated *candidate.Candidate) {
		s.Views.CompleteAIInterview(updated)
	}, s.logger.Named("interview"))
}

// ToggleUpcoming flips the upcoming interviews view and loads the list when
// it opens.
func (s *Session) ToggleUpcoming(ctx context.Context) (view.State, fetch.State[[]*backend.Interview]) {
	st := s.Views.ToggleUpcomingInterviews()
	if !st.Is(view.UpcomingInterviews) {
		return st, s.Upcoming.State()
	}

	return st, s.Upcoming.Load(ctx)
}

// Schedule submits req for the candidate the scheduler is open for. It fails
// when the scheduler is not open.
func (s *Session) Schedule(ctx context.Context, req scheduling.Request) (*scheduling.Result, error) {
	st := s.Views.State()
	if !st.Is(view.Scheduler) {
		return nil, errors.New("scheduler is not open")
	}

	if req.CandidateName == "" && st.Candidate != nil {
		req.CandidateName = st.Candidate.Name
	}
	if req.CandidateEmail == "" && st.Candidate != nil {
		req.CandidateEmail = st.Candidate.Email
	}

	return s.Scheduling.Schedule(ctx, req)
}

// Dashboard loads the analytics aggregates, falling back to sample data.
func (s *Session) Dashboard(ctx context.Context) *fetch.Dashboard {
	return s.Analytics.Load(ctx).Data
}
