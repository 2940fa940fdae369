package gemini

import "google.golang.org/genai"

// IdeaEnvelopeSchema mirrors the idea/chat envelope the exchange parses.
func IdeaEnvelopeSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	idea := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"ideaName":     str("A creative and catchy name for the startup."),
			"description":  str("A brief, one-to-two sentence compelling description of the business concept."),
			"audience":     str("The specific target customer or user base for this idea."),
			"monetization": str("The primary strategy for generating revenue (e.g., subscription, freemium, B2B sales)."),
			"ideaScore": {
				Type:        genai.TypeInteger,
				Description: "A score from 0-100 representing the idea's potential, feasibility, and market fit.",
			},
			"feasibilityAnalysis": str("A short paragraph analyzing the potential challenges and viability of this startup idea."),
			"suggestedMentors": {
				Type:        genai.TypeArray,
				Description: "A list of 2-3 hypothetical mentor or investor profiles that would be a good fit for this startup.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":      str("Full name of the suggested mentor/investor."),
						"expertise": str("A brief description of their relevant skills or investment focus."),
					},
					Required: []string{"name", "expertise"},
				},
			},
		},
		Required: []string{"ideaName", "description", "audience", "monetization", "ideaScore", "feasibilityAnalysis", "suggestedMentors"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"response_type": str("Either 'idea' or 'chat'."),
			"content":       str("The chat message if response_type is 'chat'."),
			"idea":          idea,
		},
		Required: []string{"response_type"},
	}
}
