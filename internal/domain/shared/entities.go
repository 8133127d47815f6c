package shared

import (
	"time"

	"github.com/google/uuid"
)

// Account roles. Only admins may manage the collection type catalog.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a collector account. Accounts are provisioned by the
// identity provider on first sign-in; the local row carries the profile and
// the rating aggregate maintained by feedback.
type User struct {
	ID          uuid.UUID         `json:"id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Role        string            `json:"role"`
	Location    string            `json:"location"`
	Socials     map[string]string `json:"socials"`
	RatingAvg   float64           `json:"rating_avg"`
	RatingCount int               `json:"rating_count"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// DisplayName returns the user's name parts joined for presentation.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// AuthUser is the identity embedded in a verified session.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// Session is a verified bearer credential as reported by the identity
// provider.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        AuthUser  `json:"user"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
