package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/zhouzirui/bizspark/backend/internal/model/idea"
)

const (
	responseTypeIdea = "idea"
	responseTypeChat = "chat"
)

// ErrMalformedResponse marks model output that does not fit the envelope.
var ErrMalformedResponse = errors.New("malformed model response")

// Reply is the decoded model envelope: either ChatReply or IdeaReply.
type Reply interface {
	isReply()
}

// ChatReply carries a conversational answer. Text may be empty.
type ChatReply struct {
	Text string
}

// IdeaReply carries a fully validated idea.
type IdeaReply struct {
	Idea idea.StartupIdea
}

func (ChatReply) isReply() {}
func (IdeaReply) isReply() {}

type envelope struct {
	ResponseType string       `json:"response_type"`
	Content      string       `json:"content"`
	Idea         *ideaPayload `json:"idea"`
}

type ideaPayload struct {
	IdeaName            string        `json:"ideaName"`
	Description         string        `json:"description"`
	Audience            string        `json:"audience"`
	Monetization        string        `json:"monetization"`
	IdeaScore           json.Number   `json:"ideaScore"`
	FeasibilityAnalysis string        `json:"feasibilityAnalysis"`
	SuggestedMentors    []idea.Mentor `json:"suggestedMentors"`
}

// ParseReply decodes model output into a Reply. Any deviation from the
// envelope, including a partial idea or an unusable score, is reported as
// ErrMalformedResponse.
func ParseReply(content string) (Reply, error) {
	body, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch strings.ToLower(strings.TrimSpace(env.ResponseType)) {
	case responseTypeIdea:
		if env.Idea == nil {
			return nil, fmt.Errorf("%w: idea response without idea payload", ErrMalformedResponse)
		}
		parsed, err := env.Idea.toIdea()
		if err != nil {
			return nil, err
		}
		return IdeaReply{Idea: parsed}, nil
	case responseTypeChat:
		return ChatReply{Text: strings.TrimSpace(env.Content)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown response_type %q", ErrMalformedResponse, env.ResponseType)
	}
}

func (p *ideaPayload) toIdea() (idea.StartupIdea, error) {
	score, err := parseScore(p.IdeaScore)
	if err != nil {
		return idea.StartupIdea{}, err
	}

	parsed := idea.StartupIdea{
		Name:                 strings.TrimSpace(p.IdeaName),
		Description:          strings.TrimSpace(p.Description),
		TargetAudience:       strings.TrimSpace(p.Audience),
		MonetizationStrategy: strings.TrimSpace(p.Monetization),
		ViabilityScore:       score,
		FeasibilityNotes:     strings.TrimSpace(p.FeasibilityAnalysis),
		SuggestedMentors:     append([]idea.Mentor(nil), p.SuggestedMentors...),
	}
	if err := parsed.Validate(); err != nil {
		return idea.StartupIdea{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if n := len(parsed.SuggestedMentors); n < 2 || n > 3 {
		log.Printf("[ai] idea %q suggests %d mentors, expected 2-3", parsed.Name, n)
	}
	return parsed, nil
}

// parseScore accepts integers and integral floats within [0,100].
func parseScore(n json.Number) (int, error) {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		return 0, fmt.Errorf("%w: ideaScore is required", ErrMalformedResponse)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: ideaScore %q is not a number", ErrMalformedResponse, raw)
	}
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("%w: ideaScore %s is not an integer", ErrMalformedResponse, raw)
	}
	if value < idea.MinScore || value > idea.MaxScore {
		return 0, fmt.Errorf("%w: ideaScore %s outside [%d,%d]", ErrMalformedResponse, raw, idea.MinScore, idea.MaxScore)
	}
	return int(value), nil
}

// extractJSONObject strips prose or code fences around the first JSON object.
func extractJSONObject(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: missing json object", ErrMalformedResponse)
	}
	return trimmed[start : end+1], nil
}
