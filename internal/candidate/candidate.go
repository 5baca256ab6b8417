package candidate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	keyByID       = "id:"
	keyByPosition = "pos:"
)

// Overall sentiment labels reported by the backend.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Candidate is one row of a match result.
type Candidate struct {
	ID                string     `mapstructure:"id" json:"id,omitempty"`
	Name              string     `mapstructure:"name" json:"name,omitempty"`
	Role              string     `mapstructure:"role" json:"role,omitempty"`
	Email             string     `mapstructure:"email" json:"email,omitempty"`
	Phone             string     `mapstructure:"phone" json:"phone,omitempty"`
	ProfilePicture    string     `mapstructure:"profilePicture" json:"profilePicture,omitempty"`
	OriginalFilename  string     `mapstructure:"original_filename" json:"original_filename,omitempty"`
	JDFit             *float64   `mapstructure:"jdFit" json:"jdFit,omitempty"`
	InterviewScore    *float64   `mapstructure:"interviewScore" json:"interviewScore,omitempty"`
	AIInterviewScore  *float64   `mapstructure:"aiInterviewScore" json:"aiInterviewScore,omitempty"`
	Communication     *float64   `mapstructure:"communication" json:"communication,omitempty"`
	RedFlags          []RedFlag  `mapstructure:"redFlags" json:"redFlags,omitempty"`
	Sentiment         *Sentiment `mapstructure:"sentimentAnalysis" json:"sentimentAnalysis,omitempty"`
	ExperienceSummary string     `mapstructure:"experienceSummary" json:"experienceSummary,omitempty"`

	// Extra keeps backend fields the client does not interpret (match_db_id, ...).
	Extra map[string]any `mapstructure:",remain" json:"-"`

	// Position is the ingestion rank. It identifies the row when ID is empty.
	Position int `mapstructure:"-" json:"-"`
}

// RedFlag is the normalized form of a red flag entry. The backend sends either
// plain strings or {description} records.
type RedFlag struct {
	Description string `mapstructure:"description" json:"description"`
}

type Sentiment struct {
	Overall string  `mapstructure:"overall" json:"overall"`
	Score   float64 `mapstructure:"score" json:"score"`
}

// Float returns a pointer to v. Handy for optional scores.
func Float(v float64) *float64 {
	return &v
}

// Key returns the identity used for keyed patches.
// Rows without an id fall back to their ingestion position, which is a weaker
// identity: a patch can land on the wrong row if the set was reordered.
func (c *Candidate) Key() string {
	if c == nil {
		return ""
	}

	if id := strings.TrimSpace(c.ID); id != "" {
		return keyByID + id
	}

	return keyByPosition + strconv.Itoa(c.Position)
}

// HasAIInterview reports whether the AI interview stage is complete.
func (c *Candidate) HasAIInterview() bool {
	return c != nil && c.AIInterviewScore != nil
}

// DisplayName returns the candidate name or a placeholder.
func (c *Candidate) DisplayName() string {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return "Unknown Candidate"
	}
	return c.Name
}

// RedFlagDescriptions returns red flags as plain strings.
func (c *Candidate) RedFlagDescriptions() []string {
	flags := make([]string, 0, len(c.RedFlags))
	for _, flag := range c.RedFlags {
		flags = append(flags, flag.Description)
	}
	return flags
}

// Clone returns a shallow copy with its own slices and maps.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}

	out := *c
	if c.RedFlags != nil {
		out.RedFlags = append([]RedFlag(nil), c.RedFlags...)
	}
	if c.Sentiment != nil {
		s := *c.Sentiment
		out.Sentiment = &s
	}
	if c.Extra != nil {
		out.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}

	return &out
}

// Merge returns the shallow merge of old and updated. Every field present in
// updated overrides the one in old; the position of old is kept. Empty
// strings and nil values count as absent, so an update cannot clear a field
// that old already holds.
func Merge(old, updated *Candidate) *Candidate {
	if old == nil {
		return updated.Clone()
	}

	merged := old.Clone()
	if updated == nil {
		return merged
	}

	mergeString(&merged.ID, updated.ID)
	mergeString(&merged.Name, updated.Name)
	mergeString(&merged.Role, updated.Role)
	mergeString(&merged.Email, updated.Email)
	mergeString(&merged.Phone, updated.Phone)
	mergeString(&merged.ProfilePicture, updated.ProfilePicture)
	mergeString(&merged.OriginalFilename, updated.OriginalFilename)
	mergeString(&merged.ExperienceSummary, updated.ExperienceSummary)

	mergeFloat(&merged.JDFit, updated.JDFit)
	mergeFloat(&merged.InterviewScore, updated.InterviewScore)
	mergeFloat(&merged.AIInterviewScore, updated.AIInterviewScore)
	mergeFloat(&merged.Communication, updated.Communication)

	if updated.RedFlags != nil {
		merged.RedFlags = append([]RedFlag(nil), updated.RedFlags...)
	}
	if updated.Sentiment != nil {
		s := *updated.Sentiment
		merged.Sentiment = &s
	}

	for k, v := range updated.Extra {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any)
		}
		merged.Extra[k] = v
	}

	return merged
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Decode converts a raw candidate object from the match response.
func Decode(raw map[string]any) (*Candidate, error) {
	var c Candidate

	cfg := &mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
		DecodeHook:       redFlagHook,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	if len(c.Extra) == 0 {
		c.Extra = nil
	}

	return &c, nil
}

// DecodeAll decodes candidates keeping the response order as ranking order.
func DecodeAll(raw []map[string]any) ([]*Candidate, error) {
	candidates := make([]*Candidate, 0, len(raw))
	for idx, item := range raw {
		c, err := Decode(item)
		if err != nil {
			return nil, fmt.Errorf("candidate #%d: %w", idx, err)
		}
		c.Position = idx
		candidates = append(candidates, c)
	}

	return candidates, nil
}

var redFlagType = reflect.TypeOf(RedFlag{})

// redFlagHook turns plain red flag strings into RedFlag records.
func redFlagHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != redFlagType {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Map, reflect.Struct:
		return data, nil
	case reflect.String:
		return RedFlag{Description: strings.TrimSpace(data.(string))}, nil
	default:
		return RedFlag{Description: fmt.Sprintf("%v", data)}, nil
	}
}

// FitClass buckets a JD fit percentage the way the result table colours it.
func FitClass(score float64) string {
	switch {
	case score >= 80:
		return "green"
	case score >= 60:
		return "yellow"
	default:
		return "red"
	}
}
