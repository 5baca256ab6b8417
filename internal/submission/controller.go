package submission

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
	"github.com/Prthmsh0210/hire-nerd/internal/logger"
)

const (
	msgMissingFiles   = "Please upload both a Job Description and at least one resume."
	msgMissingConsent = "Please agree to the terms by checking the consent box."
	msgNoMatches      = "No matching candidates found. Try adjusting your JD or resumes."
	msgNoResponse     = "No response from server. Is the backend running and proxy configured?"
	msgNotFound       = "API endpoint not found (404). Check the proxy and backend URL."
	msgGeneric        = "Something went wrong during matching. Please try again."
)

// Phase is the lifecycle stage of the latest submission.
type Phase int

const (
	Idle Phase = iota
	Loading
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request is what the user selected for a search.
type Request struct {
	JobDescription *backend.File
	Resumes        []backend.File
	ConsentGiven   bool
}

// Validate checks the request without touching the network.
func (r Request) Validate() error {
	if r.JobDescription == nil || len(r.Resumes) == 0 {
		return failure.NewValidation(msgMissingFiles)
	}
	if !r.ConsentGiven {
		return failure.NewValidation(msgMissingConsent)
	}
	return nil
}

// Matcher runs a match on the backend.
type Matcher interface {
	Match(ctx context.Context, jd backend.File, resumes []backend.File) (*backend.MatchResponse, error)
}

// ResultSet receives the ranking of a successful search.
type ResultSet interface {
	ReplaceAll(candidates []*candidate.Candidate)
}

// SearchNotifier is told that a new search starts, before loading begins.
type SearchNotifier interface {
	NewSearchStarted()
}

// State is the display state of the latest submission.
type State struct {
	Phase     Phase
	Seq       uint64
	ReportURL string
	// Notice is an informational message, e.g. for an empty result.
	Notice  string
	Failure *failure.Failure
}

// Outcome describes how one submission completed.
type Outcome struct {
	Seq uint64
	// Stale is set when a newer submission started before this one completed.
	// Stale outcomes are not applied.
	Stale      bool
	Candidates int
	ReportURL  string
	Notice     string
}

// Controller owns the match request lifecycle.
type Controller struct {
	// start orders sequence numbers with the view reset. It is separate from
	// mu so transition listeners may call State.
	start   sync.Mutex
	mu      sync.Mutex
	seq     uint64
	state   State
	matcher Matcher
	results ResultSet
	views   SearchNotifier
	origin  string
	logger  *zap.Logger
}

// New creates a controller. origin is the backend address used to resolve
// root-relative report links.
func New(matcher Matcher, results ResultSet, views SearchNotifier, origin string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}

	return &Controller{
		matcher: matcher,
		results: results,
		views:   views,
		origin:  origin,
		logger:  log,
	}
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Submit validates req, resets the views and runs the match. Validation and
// request failures are returned as *failure.Failure. A completion that was
// superseded by a newer Submit is discarded and reported as Stale.
func (c *Controller) Submit(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		var f *failure.Failure
		errors.As(err, &f)

		c.mu.Lock()
		c.state.Failure = f
		c.mu.Unlock()

		return nil, err
	}

	seq := c.begin()
	log := logger.WithFields(c.logger, zap.Uint64(logger.FieldSearch, seq))

	c.mu.Lock()
	current := c.seq
	c.mu.Unlock()

	if seq != current {
		log.Info("search superseded before dispatch", zap.Uint64("current", current))
		return &Outcome{Seq: seq, Stale: true}, nil
	}

	log.Info("starting the search", zap.String("jd", req.JobDescription.Name), zap.Int("resumes", len(req.Resumes)))

	resp, err := c.matcher.Match(ctx, *req.JobDescription, req.Resumes)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		log.Info("discarding stale search result", zap.Uint64("current", c.seq))
		return &Outcome{Seq: seq, Stale: true}, nil
	}

	if err != nil {
		f := classify(err)
		c.results.ReplaceAll(nil)
		c.state = State{Phase: Failed, Seq: seq, Failure: f}

		log.Warn("search failed", zap.Stringer("kind", f.Kind), zap.Error(err))
		return &Outcome{Seq: seq}, f
	}

	reportURL := ResolveReportURL(c.origin, resp.ExcelURL)
	c.results.ReplaceAll(resp.Candidates)

	out := &Outcome{Seq: seq, Candidates: len(resp.Candidates), ReportURL: reportURL}
	c.state = State{Phase: Done, Seq: seq, ReportURL: reportURL}

	if len(resp.Candidates) == 0 {
		c.state.Notice = msgNoMatches
		c.state.Failure = &failure.Failure{Kind: failure.EmptyResult, Message: msgNoMatches}
		out.Notice = msgNoMatches

		log.Info("no matching candidates", zap.String("backend_message", resp.Message))
		return out, nil
	}

	log.Info("search finished", zap.Int("candidates", out.Candidates), zap.String("report", reportURL))
	return out, nil
}

// begin takes the next sequence number, resets the views and enters Loading
// as one step, so no newer search can finish in between.
func (c *Controller) begin() uint64 {
	c.start.Lock()
	defer c.start.Unlock()

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	if c.views != nil {
		c.views.NewSearchStarted()
	}

	c.mu.Lock()
	c.state = State{Phase: Loading, Seq: seq}
	c.results.ReplaceAll(nil)
	c.mu.Unlock()

	return seq
}

// ResolveReportURL prefixes root-relative report links with origin. Absolute
// links are returned unchanged.
func ResolveReportURL(origin, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "/") {
		return strings.TrimRight(strings.TrimSpace(origin), "/") + raw
	}

	return raw
}

func classify(err error) *failure.Failure {
	if se, ok := backend.AsStatusError(err); ok {
		f := &failure.Failure{Kind: failure.Server, Status: se.Code, Detail: se.Detail, Err: err}

		switch {
		case se.Detail != "":
			f.Message = fmt.Sprintf("Error from server (%d): %s", se.Code, se.Detail)
		case se.Message != "":
			f.Detail = se.Message
			f.Message = fmt.Sprintf("Error from server (%d): %s", se.Code, se.Message)
		case se.Code == http.StatusNotFound:
			f.Message = msgNotFound
		default:
			f.Message = fmt.Sprintf("Server error (%d). Check backend logs.", se.Code)
		}

		return f
	}

	if backend.IsTransport(err) {
		return &failure.Failure{Kind: failure.Transport, Message: msgNoResponse, Err: err}
	}

	return &failure.Failure{Kind: failure.Server, Message: msgGeneric, Err: err}
}
