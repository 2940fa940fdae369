package user

// Role distinguishes the two kinds of accounts.
type Role string

const (
	RoleStudent  Role = "student"
	RoleInvestor Role = "investor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInvestor
}

// Profile holds the self-description collected during profile setup.
// Interests, Skills and Certifications are student fields; FocusAreas and
// Company belong to investors.
type Profile struct {
	Name           string `json:"name"`
	Interests      string `json:"interests,omitempty"`
	Skills         string `json:"skills,omitempty"`
	Certifications string `json:"certifications,omitempty"`
	FocusAreas     string `json:"focusAreas,omitempty"`
	Company        string `json:"company,omitempty"`
}

// User is the locally persisted identity record.
type User struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Role            Role    `json:"role"`
	Profile         Profile `json:"profile"`
	ProfileComplete bool    `json:"profileComplete"`
}
