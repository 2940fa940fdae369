package opportunity

// Kind classifies an opportunity on the board.
type Kind string

const (
	KindWorkshop Kind = "WORKSHOP"
	KindEvent    Kind = "EVENT"
	KindBootcamp Kind = "BOOTCAMP"
)

// Opportunity is a workshop, event or bootcamp listed for founders.
type Opportunity struct {
	Type        Kind   `json:"type"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Paid        bool   `json:"paid"`
}

var board = []Opportunity{
	{Type: KindWorkshop, Title: "Startup Pitch Deck Masterclass", Date: "Oct 28, 2024", Description: "Learn how to craft a compelling pitch deck that will wow investors. Led by an industry veteran.", Paid: true},
	{Type: KindEvent, Title: "Innovator's Meetup Delhi", Date: "Nov 12, 2024", Description: "Network with fellow student entrepreneurs, mentors, and investors in your city.", Paid: false},
	{Type: KindBootcamp, Title: "AI for Startups Bootcamp", Date: "Nov 18-22, 2024", Description: "A 5-day intensive paid bootcamp on leveraging AI to build and scale your business.", Paid: true},
	{Type: KindEvent, Title: "Global Entrepreneurship Week Kickoff", Date: "Nov 14, 2024", Description: "Join us for the kickoff event of the largest celebration of innovators and job creators.", Paid: false},
}

// List returns the opportunity board in display order.
func List() []Opportunity {
	return append([]Opportunity(nil), board...)
}
