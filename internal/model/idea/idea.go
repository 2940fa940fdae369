package idea

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinScore = 0
	MaxScore = 100
)

var ErrInvalidIdea = errors.New("invalid startup idea")

// Mentor is a hypothetical mentor or investor matched to an idea.
type Mentor struct {
	Name      string `json:"name"`
	Expertise string `json:"expertise"`
}

// StartupIdea describes a generated business concept and its evaluation.
// Wire names follow the frontend contract.
type StartupIdea struct {
	Name                 string   `json:"ideaName"`
	Description          string   `json:"description"`
	TargetAudience       string   `json:"audience"`
	MonetizationStrategy string   `json:"monetization"`
	ViabilityScore       int      `json:"ideaScore"`
	FeasibilityNotes     string   `json:"feasibilityAnalysis"`
	SuggestedMentors     []Mentor `json:"suggestedMentors"`
}

// Validate reports the first missing or out-of-range field.
func (i StartupIdea) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"ideaName", i.Name},
		{"description", i.Description},
		{"audience", i.TargetAudience},
		{"monetization", i.MonetizationStrategy},
		{"feasibilityAnalysis", i.FeasibilityNotes},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidIdea, r.field)
		}
	}

	if i.ViabilityScore < MinScore || i.ViabilityScore > MaxScore {
		return fmt.Errorf("%w: ideaScore %d outside [%d,%d]", ErrInvalidIdea, i.ViabilityScore, MinScore, MaxScore)
	}

	if len(i.SuggestedMentors) == 0 {
		return fmt.Errorf("%w: suggestedMentors is required", ErrInvalidIdea)
	}
	for idx, m := range i.SuggestedMentors {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Expertise) == "" {
			return fmt.Errorf("%w: mentor %d requires name and expertise", ErrInvalidIdea, idx)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot reach the owner's mentor slice.
func (i StartupIdea) Clone() StartupIdea {
	out := i
	out.SuggestedMentors = append([]Mentor(nil), i.SuggestedMentors...)
	return out
}
