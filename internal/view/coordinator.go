package view

import (
	"sync"

	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"go.uber.org/zap"
)

// Mode is the expanded view currently shown. Exactly one is active.
type Mode int

const (
	None Mode = iota
	Dossiers
	AIInterview
	Scheduler
	UpcomingInterviews
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Dossiers:
		return "dossiers"
	case AIInterview:
		return "ai_interview"
	case Scheduler:
		return "scheduler"
	case UpcomingInterviews:
		return "upcoming_interviews"
	default:
		return "unknown"
	}
}

// Event names the input that caused a transition.
type Event string

const (
	EventToggleDossiers           Event = "toggle_dossiers"
	EventToggleUpcomingInterviews Event = "toggle_upcoming_interviews"
	EventStartAIInterview         Event = "start_ai_interview"
	EventSelectForScheduling      Event = "select_for_scheduling"
	EventScheduleGeneral          Event = "schedule_general"
	EventCompleteAIInterview      Event = "complete_ai_interview"
	EventCloseAIInterview         Event = "close_ai_interview"
	EventNewSearchStarted         Event = "new_search_started"
)

// GeneralCandidateName is the placeholder used for a general interview slot.
const GeneralCandidateName = "New Candidate"

// State is the active mode with its payload. Candidate is set only for
// AIInterview and Scheduler.
type State struct {
	Mode      Mode
	Candidate *candidate.Candidate
}

// Is reports whether the state is in mode m.
func (s State) Is(m Mode) bool {
	return s.Mode == m
}

// Patcher applies keyed updates to the result set.
type Patcher interface {
	PatchOne(c *candidate.Candidate) bool
}

// TransitionFunc observes every applied event.
type TransitionFunc func(event Event, from, to State)

// Coordinator selects the single expanded view of the session.
type Coordinator struct {
	mu        sync.Mutex
	state     State
	results   Patcher
	listeners []TransitionFunc
	logger    *zap.Logger
}

func NewCoordinator(results Patcher, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{results: results, logger: logger}
}

// OnTransition registers a listener. Listeners run after the state changed,
// outside the coordinator lock.
func (c *Coordinator) OnTransition(fn TransitionFunc) {
	if fn == nil {
		return
	}

	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Coordinator) ToggleDossiers() State {
	return c.apply(EventToggleDossiers, func(s State) State {
		if s.Is(Dossiers) {
			return State{Mode: None}
		}
		return State{Mode: Dossiers}
	})
}

func (c *Coordinator) ToggleUpcomingInterviews() State {
	return c.apply(EventToggleUpcomingInterviews, func(s State) State {
		if s.Is(UpcomingInterviews) {
			return State{Mode: None}
		}
		return State{Mode: UpcomingInterviews}
	})
}

func (c *Coordinator) StartAIInterview(cand *candidate.Candidate) State {
	return c.apply(EventStartAIInterview, func(State) State {
		return State{Mode: AIInterview, Candidate: cand.Clone()}
	})
}

func (c *Coordinator) SelectForScheduling(cand *candidate.Candidate) State {
	return c.apply(EventSelectForScheduling, func(State) State {
		return State{Mode: Scheduler, Candidate: cand.Clone()}
	})
}

// ScheduleGeneral opens the scheduler for a slot not tied to a matched candidate.
func (c *Coordinator) ScheduleGeneral() State {
	return c.apply(EventScheduleGeneral, func(State) State {
		return State{Mode: Scheduler, Candidate: &candidate.Candidate{Name: GeneralCandidateName}}
	})
}

// CompleteAIInterview patches the result set with the interview outcome and
// moves on to scheduling the interviewed candidate from any view. The
// candidate of an open interview is merged with the outcome so its contact
// details reach the scheduler.
func (c *Coordinator) CompleteAIInterview(updated *candidate.Candidate) State {
	if c.results != nil && updated != nil {
		if !c.results.PatchOne(updated) {
			c.logger.Warn("ai interview result does not match any candidate",
				zap.String("key", updated.Key()),
			)
		}
	}

	return c.apply(EventCompleteAIInterview, func(s State) State {
		var base *candidate.Candidate
		if s.Is(AIInterview) {
			base = s.Candidate
		}
		next := candidate.Merge(base, updated)
		if next == nil {
			return s
		}
		return State{Mode: Scheduler, Candidate: next}
	})
}

func (c *Coordinator) CloseAIInterview() State {
	return c.apply(EventCloseAIInterview, func(s State) State {
		if s.Is(AIInterview) {
			return State{Mode: None}
		}
		return s
	})
}

// NewSearchStarted resets to no expanded view.
func (c *Coordinator) NewSearchStarted() {
	c.apply(EventNewSearchStarted, func(State) State {
		return State{Mode: None}
	})
}

func (c *Coordinator) apply(event Event, next func(State) State) State {
	c.mu.Lock()
	from := c.state
	to := next(from)
	c.state = to
	listeners := append([]TransitionFunc(nil), c.listeners...)
	c.mu.Unlock()

	c.logger.Debug("view transition",
		zap.String("event", string(event)),
		zap.Stringer("from", from.Mode),
		zap.Stringer("to", to.Mode),
	)

	for _, fn := range listeners {
		fn(event, from, to)
	}

	return to
}
