package idea

import (
	"fmt"
	"strings"
)

// ScoreBand buckets a viability score the way the idea card colors it.
func ScoreBand(score int) string {
	switch {
	case score > 75:
		return "strong"
	case score > 50:
		return "promising"
	default:
		return "risky"
	}
}

// Card renders an idea as a plain-text card for terminal output.
func Card(i StartupIdea) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", i.Name)
	fmt.Fprintf(&b, "%s\n\n", i.Description)
	fmt.Fprintf(&b, "Idea Score: %d/100 (%s)\n", i.ViabilityScore, ScoreBand(i.ViabilityScore))
	fmt.Fprintf(&b, "Target Audience: %s\n", i.TargetAudience)
	fmt.Fprintf(&b, "Monetization: %s\n", i.MonetizationStrategy)
	fmt.Fprintf(&b, "Feasibility: %s\n", i.FeasibilityNotes)
	if len(i.SuggestedMentors) > 0 {
		b.WriteString("Suggested Mentors:\n")
		for _, m := range i.SuggestedMentors {
			fmt.Fprintf(&b, "  - %s (%s)\n", m.Name, m.Expertise)
		}
	}
	return b.String()
}
