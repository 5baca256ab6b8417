package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
)

const conversePathFmt = "/api/ai-interview/%s/converse"

// ConverseReply is one turn of the AI interview conversation.
type ConverseReply struct {
	NextQuestion string
	Sentiment    *candidate.Sentiment
	Complete     bool
	// Candidate is the updated profile, set once the interview is complete.
	Candidate *candidate.Candidate
}

type conversePayload struct {
	NextQuestion string `json:"nextQuestion"`
	Sentiment    *struct {
		Type     string  `json:"type"`
		Compound float64 `json:"compound"`
	} `json:"sentiment"`
	IsComplete    bool           `json:"isComplete"`
	InterviewData map[string]any `json:"interviewData"`
}

// Converse sends the candidate's answer and returns the interviewer's reply.
func (c *Client) Converse(ctx context.Context, candidateID, text string) (*ConverseReply, error) {
	const op = "ai interview"

	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, fmt.Errorf("%s: candidate id is required", op)
	}

	req := c.newRequest(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(map[string]string{"text": text})

	resp, err := c.execute(op, req, http.MethodPost, fmt.Sprintf(conversePathFmt, url.PathEscape(candidateID)))
	if err != nil {
		return nil, err
	}

	var payload conversePayload
	if err := decodeJSON(op, resp, &payload); err != nil {
		return nil, err
	}

	reply := &ConverseReply{
		NextQuestion: strings.TrimSpace(payload.NextQuestion),
		Complete:     payload.IsComplete,
	}

	if payload.Sentiment != nil {
		reply.Sentiment = &candidate.Sentiment{
			Overall: payload.Sentiment.Type,
			Score:   payload.Sentiment.Compound,
		}
	}

	if payload.InterviewData != nil {
		updated, err := candidate.Decode(payload.InterviewData)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reply.Candidate = updated
	}

	return reply, nil
}
