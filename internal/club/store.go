package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/session"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *store) CreateClub(ctx context.Context, in NewClub) (*Club, *Member, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, nil, apperr.Invalid("club name is required")
	}
	if in.MonthlyDuesCents < 0 {
		return nil, nil, apperr.Invalid("monthly dues cannot be negative")
	}
	if in.Currency == "" {
		in.Currency = "EUR"
	}
	in.Founder.Role = session.RoleAdmin
	if err := validateMember(&in.Founder); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := &Club{
		ID:               uuid.New().String(),
		Name:             in.Name,
		MonthlyDuesCents: in.MonthlyDuesCents,
		Currency:         strings.ToUpper(in.Currency),
		CreatedAt:        now,
	}
	m := &Member{
		ID:       uuid.New().String(),
		ClubID:   c.ID,
		Name:     in.Founder.Name,
		Email:    in.Founder.Email,
		Phone:    in.Founder.Phone,
		Role:     session.RoleAdmin,
		Active:   true,
		JoinedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, apperr.Transient("begin create club", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO clubs (id, name, monthly_dues_cents, currency, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.MonthlyDuesCents, c.Currency, now.Unix(),
	); err != nil {
		return nil, nil, apperr.Transient("insert club", err)
	}
	if err := insertMember(ctx, tx, m); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, apperr.Transient("commit create club", err)
	}

	log.Info("Created club", "club_id", c.ID, "name", c.Name, "founder", m.ID)
	return c, m, nil
}

func (s *store) GetClub(ctx context.Context, sess session.Session) (*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, monthly_dues_cents, currency, created_at FROM clubs WHERE id = ?`, sess.ClubID)
	c, err := scanClub(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("club %s: %w", sess.ClubID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Transient("get club", err)
	}
	return c, nil
}

func (s *store) ListClubs(ctx context.Context) ([]Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, monthly_dues_cents, currency, created_at FROM clubs ORDER BY name, id`)
	if err != nil {
		return nil, apperr.Transient("list clubs", err)
	}
	defer rows.Close()

	var clubs []Club
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, apperr.Transient("scan club", err)
		}
		clubs = append(clubs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list clubs", err)
	}
	return clubs, nil
}

func (s *store) RegisterMember(ctx context.Context, sess session.Session, in NewMember) (*Member, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("register member: %w", apperr.ErrForbidden)
	}
	if in.Role == "" {
		in.Role = session.RoleMember
	}
	if err := validateMember(&in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var taken int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members WHERE club_id = ? AND email = ?`, sess.ClubID, in.Email).Scan(&taken)
	if err != nil {
		return nil, apperr.Transient("check member email", err)
	}
	if taken > 0 {
		return nil, apperr.Invalid("a member with email %s is already registered", in.Email)
	}

	existing, err := s.listMembersLocked(ctx, sess.ClubID, false)
	if err != nil {
		return nil, err
	}
	if similar := rankSimilar(in.Name, existing); len(similar) > 0 && similar[0].Confidence > 0.8 {
		log.Warn("Registering member with a name close to an existing member",
			"name", in.Name, "existing", similar[0].Member.Name, "confidence", similar[0].Confidence)
	}

	m := &Member{
		ID:       uuid.New().String(),
		ClubID:   sess.ClubID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Role:     in.Role,
		Active:   true,
		JoinedAt: s.now(),
	}
	if err := insertMember(ctx, s.db, m); err != nil {
		return nil, err
	}
	log.Info("Registered member", "club_id", m.ClubID, "member_id", m.ID, "role", m.Role)
	return m, nil
}

func (s *store) GetMember(ctx context.Context, sess session.Session, memberID string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMemberLocked(ctx, sess.ClubID, memberID)
}

func (s *store) ListMembers(ctx context.Context, sess session.Session, activeOnly bool) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listMembersLocked(ctx, sess.ClubID, activeOnly)
}

func (s *store) SearchMembers(ctx context.Context, sess session.Session, query string) ([]MemberSuggestion, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.Invalid("a search term is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	members, err := s.listMembersLocked(ctx, sess.ClubID, false)
	if err != nil {
		return nil, err
	}
	return rankSimilar(query, members), nil
}

func (s *store) SetMemberActive(ctx context.Context, sess session.Session, memberID string, active bool) error {
	if !sess.IsAdmin() {
		return fmt.Errorf("set member active: %w", apperr.ErrForbidden)
	}
	return s.updateMember(ctx, sess.ClubID, memberID, "active", active)
}

func (s *store) SetMemberRole(ctx context.Context, sess session.Session, memberID string, role session.Role) error {
	if !sess.IsAdmin() {
		return fmt.Errorf("set member role: %w", apperr.ErrForbidden)
	}
	if !role.Valid() {
		return apperr.Invalid("unknown role %q", role)
	}
	return s.updateMember(ctx, sess.ClubID, memberID, "role", string(role))
}

func (s *store) ResolveSession(ctx context.Context, userID, clubID string) (session.Session, error) {
	if userID == "" || clubID == "" {
		return session.Session{}, fmt.Errorf("missing user or club: %w", apperr.ErrForbidden)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.getMemberLocked(ctx, clubID, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return session.Session{}, fmt.Errorf("user %s is not a member of club %s: %w", userID, clubID, apperr.ErrForbidden)
	}
	if err != nil {
		return session.Session{}, err
	}
	if !m.Active {
		return session.Session{}, fmt.Errorf("member %s is inactive: %w", userID, apperr.ErrForbidden)
	}
	return session.Session{UserID: m.ID, ClubID: m.ClubID, Role: m.Role}, nil
}

func (s *store) updateMember(ctx context.Context, clubID, memberID, column string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE members SET "+column+" = ? WHERE id = ? AND club_id = ?", value, memberID, clubID)
	if err != nil {
		return apperr.Transient("update member "+column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Transient("update member "+column, err)
	}
	if n == 0 {
		return fmt.Errorf("member %s: %w", memberID, apperr.ErrNotFound)
	}
	log.Info("Updated member", "member_id", memberID, column, value)
	return nil
}

func (s *store) getMemberLocked(ctx context.Context, clubID, memberID string) (*Member, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, club_id, name, email, phone, role, active, joined_at
		FROM members WHERE id = ? AND club_id = ?`, memberID, clubID)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s: %w", memberID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Transient("get member", err)
	}
	return m, nil
}

func (s *store) listMembersLocked(ctx context.Context, clubID string, activeOnly bool) ([]Member, error) {
	query := `
		SELECT id, club_id, name, email, phone, role, active, joined_at
		FROM members WHERE club_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, apperr.Transient("list members", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, apperr.Transient("scan member", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list members", err)
	}
	return members, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMember(ctx context.Context, db execer, m *Member) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO members (id, club_id, name, email, phone, role, active, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ClubID, m.Name, m.Email, m.Phone, string(m.Role), m.Active, m.JoinedAt.Unix(),
	)
	if err != nil {
		return apperr.Transient("insert member", err)
	}
	return nil
}

func scanClub(scanner interface{ Scan(...any) error }) (*Club, error) {
	var c Club
	var createdAt int64
	if err := scanner.Scan(&c.ID, &c.Name, &c.MonthlyDuesCents, &c.Currency, &createdAt); err != nil {
		return nil, err
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &c, nil
}

func scanMember(scanner interface{ Scan(...any) error }) (*Member, error) {
	var m Member
	var role string
	var joinedAt int64
	if err := scanner.Scan(&m.ID, &m.ClubID, &m.Name, &m.Email, &m.Phone, &role, &m.Active, &joinedAt); err != nil {
		return nil, err
	}
	m.Role = session.Role(role)
	m.JoinedAt = time.Unix(joinedAt, 0).UTC()
	return &m, nil
}

func validateMember(in *NewMember) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return apperr.Invalid("member name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperr.Invalid("%q is not a valid email address", in.Email)
	}
	if !in.Role.Valid() {
		return apperr.Invalid("unknown role %q", in.Role)
	}
	return nil
}

// sortSuggestions orders by confidence, then name for stable output.
func sortSuggestions(s []MemberSuggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Confidence != s[j].Confidence {
			return s[i].Confidence > s[j].Confidence
		}
		return s[i].Member.Name < s[j].Member.Name
	})
}
