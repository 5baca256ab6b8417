package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const AnalyticsPath = "/api/analytics"

const analyticsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "numbers": {"type": ["array", "null"], "items": {"type": "number"}},
    "series": {
      "type": ["object", "null"],
      "properties": {
        "labels": {"type": ["array", "null"], "items": {"type": "string"}},
        "data": {"$ref": "#/definitions/numbers"}
      }
    }
  },
  "properties": {
    "pieData": {"$ref": "#/definitions/numbers"},
    "barData": {"$ref": "#/definitions/numbers"},
    "noShows": {"type": ["number", "null"]},
    "upcomingInterviews": {"type": ["number", "null"]},
    "autoMatchedProfiles": {"type": ["number", "null"]},
    "upcomingInterviewsDetails": {"type": ["array", "null"], "items": {"type": "object"}},
    "funnelStages": {"$ref": "#/definitions/series"},
    "cqiTrend": {"$ref": "#/definitions/series"},
    "redFlagFrequency": {"$ref": "#/definitions/series"}
  }
}`

var analyticsSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(analyticsSchemaJSON))
})

// SchemaError means the analytics payload does not have the expected shape.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("analytics payload does not match schema: %s", strings.Join(e.Problems, "; "))
}

// Series is a labelled chart series.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type InterviewDetail struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Date string `json:"date"`
}

// Analytics is the aggregate dashboard payload.
type Analytics struct {
	PieData                   []float64         `json:"pieData"`
	BarData                   []float64         `json:"barData"`
	NoShows                   int               `json:"noShows"`
	UpcomingInterviews        int               `json:"upcomingInterviews"`
	AutoMatchedProfiles       int               `json:"autoMatchedProfiles"`
	UpcomingInterviewsDetails []InterviewDetail `json:"upcomingInterviewsDetails"`
	FunnelStages              Series            `json:"funnelStages"`
	CQITrend                  Series            `json:"cqiTrend"`
	RedFlagFrequency          Series            `json:"redFlagFrequency"`
}

// Normalize replaces missing series with empty ones so renderers never see nil.
func (a *Analytics) Normalize() {
	if a.PieData == nil {
		a.PieData = []float64{}
	}
	if a.BarData == nil {
		a.BarData = []float64{}
	}
	if a.UpcomingInterviewsDetails == nil {
		a.UpcomingInterviewsDetails = []InterviewDetail{}
	}
	for _, s := range []*Series{&a.FunnelStages, &a.CQITrend, &a.RedFlagFrequency} {
		if s.Labels == nil {
			s.Labels = []string{}
		}
		if s.Data == nil {
			s.Data = []float64{}
		}
	}
}

// Analytics loads the dashboard aggregates. The body is validated against a
// schema before decoding.
func (c *Client) Analytics(ctx context.Context) (*Analytics, error) {
	const op = "analytics"

	resp, err := c.execute(op, c.newRequest(ctx), http.MethodGet, AnalyticsPath)
	if err != nil {
		return nil, err
	}

	if err := validateAnalytics(resp.Body()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out Analytics
	if err := decodeJSON(op, resp, &out); err != nil {
		return nil, err
	}
	out.Normalize()

	return &out, nil
}

func validateAnalytics(body []byte) error {
	schema, err := analyticsSchema()
	if err != nil {
		return fmt.Errorf("loading analytics schema: %w", err)
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}

	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Problems: problems}
}
