package fetch

import (
	"sync"

	"github.com/Prthmsh0210/hire-nerd/internal/failure"
)

// Phase of a read-only load.
type Phase int

const (
	Loading Phase = iota
	Error
	Data
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Data:
		return "data"
	default:
		return "unknown"
	}
}

// State is the three-state result of a load.
type State[T any] struct {
	Phase Phase
	Err   *failure.Failure
	Data  T
}

// cell guards the latest state of a fetcher.
type cell[T any] struct {
	mu    sync.Mutex
	state State[T]
}

func (c *cell[T]) get() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *cell[T]) set(s State[T]) State[T] {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()

	return s
}
