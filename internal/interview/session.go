package interview

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"github.com/Prthmsh0210/hire-nerd/internal/logger"
)

const (
	OpeningQuestion = "Tell me about your experience with project management."
	ApologyMessage  = "I'm sorry, I encountered an issue. Let's try that again or please contact support."

	simulatedScore = 3.8
)

// ErrFinished is returned when answering after the interview completed.
var ErrFinished = errors.New("interview is already finished")

// Conversation is the backend side of the AI interview.
type Conversation interface {
	Converse(ctx context.Context, candidateID, text string) (*backend.ConverseReply, error)
}

// CompleteFunc receives the updated candidate when the interview ends.
type CompleteFunc func(updated *candidate.Candidate)

// Turn is one exchange of the conversation.
type Turn struct {
	Answer   string
	Question string
	// Failed is set when the backend could not answer and the apology was used.
	Failed bool
}

// Session runs one AI voice interview for one candidate.
type Session struct {
	mu        sync.Mutex
	candidate *candidate.Candidate
	conv      Conversation
	onDone    CompleteFunc
	logger    *zap.Logger

	question  string
	sentiment *candidate.Sentiment
	turns     []Turn
	finished  bool
}

func NewSession(c *candidate.Candidate, conv Conversation, onDone CompleteFunc, log *zap.Logger) *Session {
	return &Session{
		candidate: c.Clone(),
		conv:      conv,
		onDone:    onDone,
		logger:    logger.WithCandidate(log, c.DisplayName(), c.Key()),
		question:  OpeningQuestion,
	}
}

// Question is what the interviewer currently asks.
func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.question
}

func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Turn(nil), s.turns...)
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.finished
}

// Respond sends the candidate's answer and returns the next turn. When the
// backend reports completion the session finishes and the updated profile is
// handed to the completion callback.
func (s *Session) Respond(ctx context.Context, answer string) (Turn, error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return Turn{}, ErrFinished
	}
	s.mu.Unlock()

	reply, err := s.conv.Converse(ctx, s.candidate.ID, answer)
	if err != nil {
		s.logger.Warn("ai interview turn failed", zap.Error(err))

		turn := Turn{Answer: answer, Question: ApologyMessage, Failed: true}
		s.record(turn, nil)
		return turn, nil
	}

	turn := Turn{Answer: answer, Question: reply.NextQuestion}
	s.record(turn, reply.Sentiment)

	if reply.Complete {
		updated := reply.Candidate
		if updated == nil {
			updated = s.withSentiment(nil)
		} else if updated.ID == "" {
			updated.ID = s.candidate.ID
			updated.Position = s.candidate.Position
		}
		s.finish(updated)
	}

	return turn, nil
}

// SimulateEnd finishes the interview with a fixed neutral assessment.
func (s *Session) SimulateEnd() *candidate.Candidate {
	updated := s.withSentiment(&candidate.Sentiment{Overall: candidate.SentimentNeutral, Score: 0.2})
	updated.AIInterviewScore = candidate.Float(simulatedScore)

	s.finish(updated)
	return updated
}

func (s *Session) record(turn Turn, sentiment *candidate.Sentiment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
	if turn.Question != "" && !turn.Failed {
		s.question = turn.Question
	}
	if sentiment != nil {
		s.sentiment = sentiment
	}
}

func (s *Session) withSentiment(sentiment *candidate.Sentiment) *candidate.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.candidate.Clone()
	if sentiment == nil {
		sentiment = s.sentiment
	}
	if sentiment != nil {
		v := *sentiment
		updated.Sentiment = &v
	}
	return updated
}

func (s *Session) finish(updated *candidate.Candidate) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.mu.Unlock()

	s.logger.Info("ai interview complete", zap.Bool("scored", updated.HasAIInterview()))

	if s.onDone != nil {
		s.onDone(updated)
	}
}
