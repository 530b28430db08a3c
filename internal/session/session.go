// Package session carries the acting user through every domain operation.
package session

import "context"

// Role is a member's role inside a club.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	// RoleSystem is used by scheduled jobs and event consumers.
	RoleSystem Role = "system"
)

// Valid reports whether r can be stored on a member row.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Session identifies who is acting and on behalf of which club.
type Session struct {
	UserID string
	ClubID string
	Role   Role
}

// System returns a session for background work inside clubID.
func System(clubID string) Session {
	return Session{UserID: "system", ClubID: clubID, Role: RoleSystem}
}

// IsAdmin reports whether the session may perform administrative mutations.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin || s.Role == RoleSystem
}

// CanActFor reports whether the session may act on behalf of memberID.
func (s Session) CanActFor(memberID string) bool {
	return s.IsAdmin() || s.UserID == memberID
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying s.
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithContext.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
