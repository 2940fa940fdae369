package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	model "github.com/zhouzirui/bizspark/backend/internal/model/user"
	"github.com/zhouzirui/bizspark/backend/internal/storage/kv"
)

const (
	userKey      = "bizspark_user"
	lastEmailKey = "bizspark_last_email"
)

// Landing views a client switches to after loading the identity.
const (
	ViewWelcome           = "welcome"
	ViewProfileSetup      = "profileSetup"
	ViewStudentDashboard  = "studentDashboard"
	ViewInvestorDashboard = "investorDashboard"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidRole        = errors.New("role must be student or investor")
	ErrNotSignedIn        = errors.New("no user signed in")
)

// Service keeps the signed-in user in a key-value store.
type Service struct {
	store kv.Store
	now   func() time.Time
}

// NewService wraps the supplied store.
func NewService(store kv.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SignIn performs mock authentication and persists a fresh, incomplete user.
func (s *Service) SignIn(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, ErrMissingCredentials
	}
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return model.User{}, ErrInvalidRole
	}

	u := model.User{
		ID:      fmt.Sprintf("user_%d", s.now().UnixMilli()),
		Email:   email,
		Role:    role,
		Profile: model.Profile{Name: ""},
	}
	if err := s.save(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Current loads the signed-in user. A record that cannot be decoded is
// removed and reported as ErrNotSignedIn.
func (s *Service) Current(ctx context.Context) (model.User, error) {
	raw, err := s.store.Get(ctx, userKey)
	if errors.Is(err, kv.ErrNotFound) {
		return model.User{}, ErrNotSignedIn
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load user: %w", err)
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Printf("[user] failed to parse stored user, clearing it: %v", err)
		if rmErr := s.store.Remove(ctx, userKey); rmErr != nil {
			log.Printf("[user] failed to clear corrupt user: %v", rmErr)
		}
		return model.User{}, ErrNotSignedIn
	}
	return u, nil
}

// CompleteProfile stores the profile and marks the user complete.
func (s *Service) CompleteProfile(ctx context.Context, profile model.Profile) (model.User, error) {
	u, err := s.Current(ctx)
	if err != nil {
		return model.User{}, err
	}
	u.Profile = profile
	u.ProfileComplete = true
	if err := s.save(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Logout remembers the email for the next sign-in and drops the user.
func (s *Service) Logout(ctx context.Context) error {
	u, err := s.Current(ctx)
	if err != nil && !errors.Is(err, ErrNotSignedIn) {
		return err
	}
	if u.Email != "" {
		if err := s.store.Set(ctx, lastEmailKey, u.Email); err != nil {
			return fmt.Errorf("remember email: %w", err)
		}
	}
	if err := s.store.Remove(ctx, userKey); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

// LastEmail returns the email of the last user who logged out, if any.
func (s *Service) LastEmail(ctx context.Context) (string, error) {
	email, err := s.store.Get(ctx, lastEmailKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load last email: %w", err)
	}
	return email, nil
}

func (s *Service) save(ctx context.Context, u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, userKey, string(data)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Landing picks the view for a loaded identity; nil means signed out.
func Landing(u *model.User) string {
	switch {
	case u == nil:
		return ViewWelcome
	case !u.ProfileComplete:
		return ViewProfileSetup
	case u.Role == model.RoleStudent:
		return ViewStudentDashboard
	default:
		return ViewInvestorDashboard
	}
}

// Greeting is the assistant's opening line for a student's chat.
func Greeting(name string) string {
	return fmt.Sprintf("Hi %s! I'm your BizSpark AI. Tell me about your passions, skills, or any problems you'd like to solve.", strings.TrimSpace(name))
}
