package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
	"github.com/Prthmsh0210/hire-nerd/internal/results"
	"github.com/Prthmsh0210/hire-nerd/internal/view"
)

const origin = "http://localhost:8000"

type stubMatcher struct {
	mu    sync.Mutex
	calls int
	match func(call int) (*backend.MatchResponse, error)
}

func (s *stubMatcher) Match(_ context.Context, _ backend.File, _ []backend.File) (*backend.MatchResponse, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	return s.match(call)
}

func (s *stubMatcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func validRequest() Request {
	return Request{
		JobDescription: &backend.File{Name: "jd.pdf", Content: []byte("jd")},
		Resumes:        []backend.File{{Name: "r1.pdf", Content: []byte("r1")}},
		ConsentGiven:   true,
	}
}

func twoCandidates() *backend.MatchResponse {
	return &backend.MatchResponse{
		Candidates: []*candidate.Candidate{
			{ID: "a", Name: "Asha", JDFit: candidate.Float(91)},
			{ID: "b", Name: "Bilal", JDFit: candidate.Float(74)},
		},
		ExcelURL: "/static/r.xlsx",
	}
}

func TestSubmitSuccess(t *testing.T) {
	t.Parallel()

	store := results.New(zap.NewNop())
	matcher := &stubMatcher{match: func(int) (*backend.MatchResponse, error) { return twoCandidates(), nil }}
	c := New(matcher, store, view.NewCoordinator(store, nil), origin, zap.NewNop())

	out, err := c.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Candidates != 2 || out.Stale {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 stored candidates, got %d", store.Len())
	}

	st := c.State()
	if st.Phase != Done {
		t.Fatalf("expected done, got %s", st.Phase)
	}
	if st.ReportURL != "http://localhost:8000/static/r.xlsx" {
		t.Fatalf("unexpected report url: %q", st.ReportURL)
	}
	if st.Failure != nil {
		t.Fatalf("unexpected failure: %v", st.Failure)
	}
}

func TestSubmitResetsViewsBeforeLoading(t *testing.T) {
	t.Parallel()

	store := results.New(zap.NewNop())
	store.ReplaceAll([]*candidate.Candidate{{ID: "old"}})

	views := view.NewCoordinator(store, nil)
	views.ToggleDossiers()

	var c *Controller
	var phaseAtReset Phase
	var storedAtReset int
	views.OnTransition(func(event view.Event, _, _ view.State) {
		if event == view.EventNewSearchStarted {
			phaseAtReset = c.State().Phase
			storedAtReset = store.Len()
		}
	})

	var phaseAtMatch Phase
	var storedAtMatch int
	matcher := &stubMatcher{match: func(int) (*backend.MatchResponse, error) {
		phaseAtMatch = c.State().Phase
		storedAtMatch = store.Len()
		return twoCandidates(), nil
	}}

	c = New(matcher, store, views, origin, nil)

	if _, err := c.Submit(context.Background(), validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if phaseAtReset != Idle || storedAtReset != 1 {
		t.Fatalf("expected views to reset before loading, got phase %s with %d stored", phaseAtReset, storedAtReset)
	}
	if phaseAtMatch != Loading || storedAtMatch != 0 {
		t.Fatalf("expected loading with a cleared set during match, got %s with %d stored", phaseAtMatch, storedAtMatch)
	}
	if !views.State().Is(view.None) {
		t.Fatalf("expected no expanded view, got %s", views.State().Mode)
	}
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	jd := &backend.File{Name: "jd.pdf"}
	resumes := []backend.File{{Name: "r.pdf"}}

	tests := []struct {
		name    string
		req     Request
		message string
	}{
		{
			name:    "missing job description",
			req:     Request{Resumes: resumes, ConsentGiven: true},
			message: msgMissingFiles,
		},
		{
			name:    "missing resumes",
			req:     Request{JobDescription: jd, ConsentGiven: true},
			message: msgMissingFiles,
		},
		{
			name:    "missing consent",
			req:     Request{JobDescription: jd, Resumes: resumes},
			message: msgMissingConsent,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matcher := &stubMatcher{match: func(int) (*backend.MatchResponse, error) { return twoCandidates(), nil }}
			c := New(matcher, results.New(nil), nil, origin, nil)

			out, err := c.Submit(context.Background(), tt.req)
			if out != nil {
				t.Fatalf("expected no outcome, got %+v", out)
			}
			if !failure.IsKind(err, failure.Validation) {
				t.Fatalf("expected validation failure, got %v", err)
			}
			if err.Error() != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, err.Error())
			}
			if matcher.Calls() != 0 {
				t.Fatalf("expected no network call")
			}
			if c.State().Seq != 0 {
				t.Fatalf("expected no submission to start")
			}
		})
	}
}

func TestSubmitEmptyResult(t *testing.T) {
	t.Parallel()

	matcher := &stubMatcher{match: func(int) (*backend.MatchResponse, error) {
		return &backend.MatchResponse{Candidates: []*candidate.Candidate{}}, nil
	}}
	c := New(matcher, results.New(nil), nil, origin, nil)

	out, err := c.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Notice != msgNoMatches {
		t.Fatalf("unexpected notice: %q", out.Notice)
	}

	st := c.State()
	if st.Phase != Done || st.Failure == nil || st.Failure.Kind != failure.EmptyResult {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSubmitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		kind    failure.Kind
		message string
	}{
		{
			name:    "detail",
			err:     &backend.StatusError{Code: 500, Detail: "boom"},
			kind:    failure.Server,
			message: "Error from server (500): boom",
		},
		{
			name:    "message",
			err:     &backend.StatusError{Code: 422, Message: "bad file"},
			kind:    failure.Server,
			message: "Error from server (422): bad file",
		},
		{
			name:    "not found",
			err:     &backend.StatusError{Code: 404},
			kind:    failure.Server,
			message: msgNotFound,
		},
		{
			name:    "bare status",
			err:     &backend.StatusError{Code: 503},
			kind:    failure.Server,
			message: "Server error (503). Check backend logs.",
		},
		{
			name:    "no response",
			err:     &backend.TransportError{Op: "match", Err: errors.New("connection refused")},
			kind:    failure.Transport,
			message: msgNoResponse,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := results.New(nil)
			store.ReplaceAll([]*candidate.Candidate{{ID: "old"}})

			matcher := &stubMatcher{match: func(int) (*backend.MatchResponse, error) { return nil, tt.err }}
			c := New(matcher, store, nil, origin, nil)

			_, err := c.Submit(context.Background(), validRequest())

			var f *failure.Failure
			if !errors.As(err, &f) {
				t.Fatalf("expected failure, got %v", err)
			}
			if f.Kind != tt.kind || f.Message != tt.message {
				t.Fatalf("expected %s %q, got %s %q", tt.kind, tt.message, f.Kind, f.Message)
			}
			if c.State().Phase != Failed {
				t.Fatalf("expected failed, got %s", c.State().Phase)
			}
			if store.Len() != 0 {
				t.Fatalf("expected result set to be cleared, got %d", store.Len())
			}
		})
	}
}

func TestSubmitDiscardsStaleCompletion(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	matcher := &stubMatcher{match: func(call int) (*backend.MatchResponse, error) {
		if call == 1 {
			close(started)
			<-release
			return &backend.MatchResponse{Candidates: []*candidate.Candidate{{ID: "stale"}}}, nil
		}
		return twoCandidates(), nil
	}}

	store := results.New(nil)
	c := New(matcher, store, nil, origin, nil)

	type result struct {
		out *Outcome
		err error
	}
	first := make(chan result, 1)
	go func() {
		out, err := c.Submit(context.Background(), validRequest())
		first <- result{out, err}
	}()

	<-started

	second, err := c.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Stale {
		t.Fatalf("expected latest submission to apply")
	}

	close(release)
	got := <-first

	if got.err != nil {
		t.Fatalf("unexpected error: %v", got.err)
	}
	if !got.out.Stale {
		t.Fatalf("expected first submission to be stale")
	}
	if store.Len() != 2 || store.Find("id:stale") != nil {
		t.Fatalf("expected stale completion to be discarded")
	}
	if st := c.State(); st.Seq != second.Seq || st.Phase != Done {
		t.Fatalf("unexpected state: %+v", st)
	}
}

// heldViews blocks its first NewSearchStarted until hold is closed.
type heldViews struct {
	*view.Coordinator
	once    sync.Once
	entered chan struct{}
	hold    chan struct{}
}

func (h *heldViews) NewSearchStarted() {
	h.once.Do(func() {
		close(h.entered)
		<-h.hold
	})
	h.Coordinator.NewSearchStarted()
}

type jdMatcher struct {
	byJD map[string]func() (*backend.MatchResponse, error)
}

func (m *jdMatcher) Match(_ context.Context, jd backend.File, _ []backend.File) (*backend.MatchResponse, error) {
	return m.byJD[jd.Name]()
}

func requestFor(jd string) Request {
	req := validRequest()
	req.JobDescription = &backend.File{Name: jd, Content: []byte(jd)}
	return req
}

func TestSupersededSearchKeepsNewerView(t *testing.T) {
	t.Parallel()

	store := results.New(nil)
	views := &heldViews{
		Coordinator: view.NewCoordinator(store, nil),
		entered:     make(chan struct{}),
		hold:        make(chan struct{}),
	}

	releaseOlder := make(chan struct{})
	newerDispatched := make(chan struct{}, 1)
	matcher := &jdMatcher{byJD: map[string]func() (*backend.MatchResponse, error){
		"older.pdf": func() (*backend.MatchResponse, error) {
			<-releaseOlder
			return &backend.MatchResponse{Candidates: []*candidate.Candidate{{ID: "stale"}}}, nil
		},
		"newer.pdf": func() (*backend.MatchResponse, error) {
			newerDispatched <- struct{}{}
			return twoCandidates(), nil
		},
	}}

	c := New(matcher, store, views, origin, nil)

	type result struct {
		out *Outcome
		err error
	}
	older := make(chan result, 1)
	newer := make(chan result, 1)

	go func() {
		out, err := c.Submit(context.Background(), requestFor("older.pdf"))
		older <- result{out, err}
	}()
	<-views.entered

	go func() {
		out, err := c.Submit(context.Background(), requestFor("newer.pdf"))
		newer <- result{out, err}
	}()

	select {
	case <-newerDispatched:
		t.Fatalf("newer search dispatched while an older one was still resetting the views")
	case <-time.After(50 * time.Millisecond):
	}

	close(views.hold)

	gotNewer := <-newer
	if gotNewer.err != nil || gotNewer.out.Stale {
		t.Fatalf("expected newer search to apply, got %+v, %v", gotNewer.out, gotNewer.err)
	}

	views.ToggleDossiers()
	close(releaseOlder)

	gotOlder := <-older
	if gotOlder.err != nil || !gotOlder.out.Stale {
		t.Fatalf("expected older search to be stale, got %+v, %v", gotOlder.out, gotOlder.err)
	}

	if !views.State().Is(view.Dossiers) {
		t.Fatalf("expected dossiers to stay open, got %s", views.State().Mode)
	}
	if store.Len() != 2 || store.Find("id:stale") != nil {
		t.Fatalf("expected newer results to be kept")
	}
	if st := c.State(); st.Seq != gotNewer.out.Seq || st.Phase != Done {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSubmitSkipsDispatchWhenSuperseded(t *testing.T) {
	t.Parallel()

	store := results.New(nil)
	matcher := &stubMatcher{match: func(int) (*backend.MatchResponse, error) { return twoCandidates(), nil }}

	var c *Controller
	views := view.NewCoordinator(store, nil)
	views.OnTransition(func(event view.Event, _, _ view.State) {
		if event != view.EventNewSearchStarted {
			return
		}
		// A newer search takes its number while this one is still starting.
		c.mu.Lock()
		c.seq++
		c.mu.Unlock()
	})

	c = New(matcher, store, views, origin, nil)

	out, err := c.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Stale {
		t.Fatalf("expected the search to be stale")
	}
	if matcher.Calls() != 0 {
		t.Fatalf("expected no match request, got %d", matcher.Calls())
	}
}

func TestResolveReportURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		origin string
		raw    string
		expect string
	}{
		{origin: origin, raw: "/static/r.xlsx", expect: "http://localhost:8000/static/r.xlsx"},
		{origin: origin + "/", raw: "/static/r.xlsx", expect: "http://localhost:8000/static/r.xlsx"},
		{origin: origin, raw: "https://files.example.com/r.xlsx", expect: "https://files.example.com/r.xlsx"},
		{origin: origin, raw: "", expect: ""},
	}

	for _, tt := range tests {
		if got := ResolveReportURL(tt.origin, tt.raw); got != tt.expect {
			t.Fatalf("ResolveReportURL(%q, %q): expected %q, got %q", tt.origin, tt.raw, tt.expect, got)
		}
	}
}
