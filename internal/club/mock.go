package club

import (
	"context"
	"sync"

	"github.com/mauv0809/clubhouse/internal/session"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateClubFunc      func(ctx context.Context, in NewClub) (*Club, *Member, error)
	GetClubFunc         func(ctx context.Context, sess session.Session) (*Club, error)
	ListClubsFunc       func(ctx context.Context) ([]Club, error)
	RegisterMemberFunc  func(ctx context.Context, sess session.Session, in NewMember) (*Member, error)
	GetMemberFunc       func(ctx context.Context, sess session.Session, memberID string) (*Member, error)
	ListMembersFunc     func(ctx context.Context, sess session.Session, activeOnly bool) ([]Member, error)
	SearchMembersFunc   func(ctx context.Context, sess session.Session, query string) ([]MemberSuggestion, error)
	SetMemberActiveFunc func(ctx context.Context, sess session.Session, memberID string, active bool) error
	SetMemberRoleFunc   func(ctx context.Context, sess session.Session, memberID string, role session.Role) error
	ResolveSessionFunc  func(ctx context.Context, userID, clubID string) (session.Session, error)

	// Call records
	CreateClubCalls     []NewClub
	RegisterMemberCalls []NewMember
	SetMemberRoleCalls  []struct {
		MemberID string
		Role     session.Role
	}
	ResolveSessionCalls []struct {
		UserID string
		ClubID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateClubCalls = nil
	m.RegisterMemberCalls = nil
	m.SetMemberRoleCalls = nil
	m.ResolveSessionCalls = nil
}

func (m *MockStore) CreateClub(ctx context.Context, in NewClub) (*Club, *Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateClubCalls = append(m.CreateClubCalls, in)
	if m.CreateClubFunc != nil {
		return m.CreateClubFunc(ctx, in)
	}
	return &Club{ID: "club-1", Name: in.Name}, &Member{ID: "member-1", ClubID: "club-1", Name: in.Founder.Name, Role: session.RoleAdmin, Active: true}, nil
}

func (m *MockStore) GetClub(ctx context.Context, sess session.Session) (*Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetClubFunc != nil {
		return m.GetClubFunc(ctx, sess)
	}
	return &Club{ID: sess.ClubID}, nil
}

func (m *MockStore) ListClubs(ctx context.Context) ([]Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListClubsFunc != nil {
		return m.ListClubsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) RegisterMember(ctx context.Context, sess session.Session, in NewMember) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterMemberCalls = append(m.RegisterMemberCalls, in)
	if m.RegisterMemberFunc != nil {
		return m.RegisterMemberFunc(ctx, sess, in)
	}
	return &Member{ID: "member-new", ClubID: sess.ClubID, Name: in.Name, Email: in.Email, Role: in.Role, Active: true}, nil
}

func (m *MockStore) GetMember(ctx context.Context, sess session.Session, memberID string) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(ctx, sess, memberID)
	}
	return nil, nil
}

func (m *MockStore) ListMembers(ctx context.Context, sess session.Session, activeOnly bool) ([]Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, sess, activeOnly)
	}
	return nil, nil
}

func (m *MockStore) SearchMembers(ctx context.Context, sess session.Session, query string) ([]MemberSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SearchMembersFunc != nil {
		return m.SearchMembersFunc(ctx, sess, query)
	}
	return nil, nil
}

func (m *MockStore) SetMemberActive(ctx context.Context, sess session.Session, memberID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetMemberActiveFunc != nil {
		return m.SetMemberActiveFunc(ctx, sess, memberID, active)
	}
	return nil
}

func (m *MockStore) SetMemberRole(ctx context.Context, sess session.Session, memberID string, role session.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetMemberRoleCalls = append(m.SetMemberRoleCalls, struct {
		MemberID string
		Role     session.Role
	}{memberID, role})
	if m.SetMemberRoleFunc != nil {
		return m.SetMemberRoleFunc(ctx, sess, memberID, role)
	}
	return nil
}

func (m *MockStore) ResolveSession(ctx context.Context, userID, clubID string) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveSessionCalls = append(m.ResolveSessionCalls, struct {
		UserID string
		ClubID string
	}{userID, clubID})
	if m.ResolveSessionFunc != nil {
		return m.ResolveSessionFunc(ctx, userID, clubID)
	}
	return session.Session{UserID: userID, ClubID: clubID, Role: session.RoleAdmin}, nil
}
