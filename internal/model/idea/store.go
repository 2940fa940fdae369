package idea

import "strings"

// Store exposes the sample ideas shown on the investor dashboard.
type Store interface {
	List() []StartupIdea
	FindByName(name string) (StartupIdea, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []StartupIdea
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied ideas.
func NewMemoryStore(items []StartupIdea) *MemoryStore {
	copied := make([]StartupIdea, 0, len(items))
	for _, item := range items {
		copied = append(copied, item.Clone())
	}
	return &MemoryStore{items: copied}
}

// List returns the sample ideas in display order.
func (s *MemoryStore) List() []StartupIdea {
	out := make([]StartupIdea, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Clone())
	}
	return out
}

// FindByName looks up an idea by name, ignoring case.
func (s *MemoryStore) FindByName(name string) (StartupIdea, bool) {
	for _, item := range s.items {
		if strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			return item.Clone(), true
		}
	}
	return StartupIdea{}, false
}

// Seed provides the sample ideas investors browse.
func Seed() []StartupIdea {
	return []StartupIdea{
		{
			Name:                 "ConnectU",
			Description:          "A hyper-local social platform for university students to find study groups, campus events, and peer-to-peer skill sharing.",
			TargetAudience:       "University and College Students",
			MonetizationStrategy: "Freemium model with premium features for event organizers and campus businesses.",
			ViabilityScore:       88,
			FeasibilityNotes:     "High user adoption potential due to a clear need. Key challenges include reaching critical mass on each campus and managing content moderation.",
			SuggestedMentors: []Mentor{
				{Name: "Priya Sharma", Expertise: "Community Building & EdTech Growth"},
				{Name: "Raj Singh", Expertise: "Angel Investor in SaaS"},
			},
		},
		{
			Name:                 "EcoPack",
			Description:          "A subscription service providing households with zero-waste, reusable packaging for groceries and everyday essentials.",
			TargetAudience:       "Eco-conscious consumers and families.",
			MonetizationStrategy: "Monthly subscription fee based on household size.",
			ViabilityScore:       92,
			FeasibilityNotes:     "Strong market trend towards sustainability. Logistics and sanitization at scale are the primary operational hurdles to overcome.",
			SuggestedMentors: []Mentor{
				{Name: "Anjali Mehta", Expertise: "Supply Chain & Logistics"},
				{Name: "Vikram Desai", Expertise: "Impact Investor, CleanTech"},
			},
		},
	}
}
