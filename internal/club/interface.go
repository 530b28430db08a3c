package club

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/session"
)

// ClubStore defines the interface for interacting with clubs and their members.
// Every method taking a session only sees rows of sess.ClubID.
type ClubStore interface {
	// CreateClub creates a club together with its founding admin.
	CreateClub(ctx context.Context, in NewClub) (*Club, *Member, error)
	GetClub(ctx context.Context, sess session.Session) (*Club, error)
	// ListClubs returns every club. Used by background jobs only.
	ListClubs(ctx context.Context) ([]Club, error)

	RegisterMember(ctx context.Context, sess session.Session, in NewMember) (*Member, error)
	GetMember(ctx context.Context, sess session.Session, memberID string) (*Member, error)
	ListMembers(ctx context.Context, sess session.Session, activeOnly bool) ([]Member, error)
	// SearchMembers ranks members by name similarity to query.
	SearchMembers(ctx context.Context, sess session.Session, query string) ([]MemberSuggestion, error)
	SetMemberActive(ctx context.Context, sess session.Session, memberID string, active bool) error
	SetMemberRole(ctx context.Context, sess session.Session, memberID string, role session.Role) error

	// ResolveSession builds the session for userID acting inside clubID.
	ResolveSession(ctx context.Context, userID, clubID string) (session.Session, error)
}
