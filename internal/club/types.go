package club

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/clubhouse/internal/session"
)

// store handles all database operations for clubs and members.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Club is a tenant. Every other row belongs to exactly one club.
type Club struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	MonthlyDuesCents int64     `json:"monthly_dues_cents"`
	Currency         string    `json:"currency"`
	CreatedAt        time.Time `json:"created_at"`
}

// Member is a person registered with a club.
type Member struct {
	ID       string       `json:"id"`
	ClubID   string       `json:"club_id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Phone    string       `json:"phone,omitempty"`
	Role     session.Role `json:"role"`
	Active   bool         `json:"active"`
	JoinedAt time.Time    `json:"joined_at"`
}

// NewClub is the input for CreateClub.
type NewClub struct {
	Name             string    `json:"name"`
	MonthlyDuesCents int64     `json:"monthly_dues_cents"`
	Currency         string    `json:"currency"`
	Founder          NewMember `json:"founder"`
}

// NewMember is the input for RegisterMember.
type NewMember struct {
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Phone string       `json:"phone"`
	Role  session.Role `json:"role"`
}

// MemberSuggestion is a member whose name resembles a search term.
type MemberSuggestion struct {
	Member     Member   `json:"member"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}
