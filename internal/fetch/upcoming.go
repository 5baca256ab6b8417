package fetch

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
)

const (
	msgUpcomingFailed = "Failed to load upcoming interviews."
	msgUpcomingAuth   = msgUpcomingFailed + " Authentication required. Please authorize your Google Account via the backend /authorize endpoint."
)

// InterviewLister lists scheduled interviews.
type InterviewLister interface {
	UpcomingInterviews(ctx context.Context) ([]*backend.Interview, error)
}

// Upcoming loads the upcoming interview briefings. A failed load is terminal
// for that cycle; there is no substitute data.
type Upcoming struct {
	lister InterviewLister
	logger *zap.Logger
	cell   cell[[]*backend.Interview]
}

func NewUpcoming(lister InterviewLister, logger *zap.Logger) *Upcoming {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Upcoming{lister: lister, logger: logger}
}

// State returns the latest load state.
func (u *Upcoming) State() State[[]*backend.Interview] {
	return u.cell.get()
}

// Load fetches the list and returns the resulting state.
func (u *Upcoming) Load(ctx context.Context) State[[]*backend.Interview] {
	u.cell.set(State[[]*backend.Interview]{Phase: Loading})

	interviews, err := u.lister.UpcomingInterviews(ctx)
	if err != nil {
		f := classifyUpcoming(err)
		u.logger.Warn("loading upcoming interviews", zap.Stringer("kind", f.Kind), zap.Error(err))

		return u.cell.set(State[[]*backend.Interview]{
			Phase: Error,
			Err:   f,
			Data:  []*backend.Interview{},
		})
	}

	u.logger.Info("loaded upcoming interviews", zap.Int("count", len(interviews)))

	return u.cell.set(State[[]*backend.Interview]{Phase: Data, Data: interviews})
}

func classifyUpcoming(err error) *failure.Failure {
	se, ok := backend.AsStatusError(err)
	if !ok {
		kind := failure.Server
		if backend.IsTransport(err) {
			kind = failure.Transport
		}
		return &failure.Failure{Kind: kind, Message: msgUpcomingFailed, Err: err}
	}

	f := &failure.Failure{Kind: failure.Server, Status: se.Code, Detail: se.Detail, Err: err}

	switch {
	case se.Code == http.StatusUnauthorized:
		f.Kind = failure.AuthorizationRequired
		f.AuthURL = failure.ExtractURL(se.Detail)
		f.Message = msgUpcomingAuth
	case se.Detail != "":
		f.Message = msgUpcomingFailed + " " + se.Detail
	default:
		f.Message = msgUpcomingFailed
	}

	return f
}
