package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/session"
)

// New creates a new SQL-backed Ledger.
func New(db *sql.DB) Ledger {
	return &store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	execer
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) CreateAccount(ctx context.Context, sess session.Session, in NewAccount) (*Account, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("create account: %w", apperr.ErrForbidden)
	}
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, apperr.Invalid("account code and name are required")
	}
	if !in.Kind.Valid() {
		return nil, apperr.Invalid("unknown account kind %q", in.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var taken int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE club_id = ? AND code = ?`, sess.ClubID, in.Code).Scan(&taken); err != nil {
		return nil, apperr.Transient("check account code", err)
	}
	if taken > 0 {
		return nil, apperr.Invalid("account code %s is already in use", in.Code)
	}

	a := &Account{
		ID:        uuid.New().String(),
		ClubID:    sess.ClubID,
		Code:      in.Code,
		Name:      in.Name,
		Kind:      in.Kind,
		CreatedAt: s.now(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, club_id, code, name, kind, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.ClubID, a.Code, a.Name, string(a.Kind), a.CreatedAt.Unix()); err != nil {
		return nil, apperr.Transient("insert account", err)
	}
	log.Info("Created account", "club_id", a.ClubID, "code", a.Code, "kind", a.Kind)
	return a, nil
}

func (s *store) ListAccounts(ctx context.Context, sess session.Session) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listAccounts(ctx, s.db, sess.ClubID)
}

func (s *store) EnsureDefaultAccounts(ctx context.Context, sess session.Session) ([]Account, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("create default accounts: %w", apperr.ErrForbidden)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ensureDefaults(ctx, s.db, sess.ClubID, s.now()); err != nil {
		return nil, err
	}
	return listAccounts(ctx, s.db, sess.ClubID)
}

func (s *store) RecordTransaction(ctx context.Context, sess session.Session, in NewTransaction) (*Transaction, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("record transaction: %w", apperr.ErrForbidden)
	}
	if in.AmountCents <= 0 {
		return nil, apperr.Invalid("amount must be positive, got %d cents", in.AmountCents)
	}
	if !in.Direction.Valid() {
		return nil, apperr.Invalid("direction must be %q or %q", DirectionIn, DirectionOut)
	}
	now := s.now()
	if in.OccurredOn == "" {
		in.OccurredOn = now.Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, in.OccurredOn); err != nil {
		return nil, apperr.Invalid("occurred_on must be a YYYY-MM-DD date, got %q", in.OccurredOn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	err := s.db.QueryRowContext(ctx,
		`SELECT code FROM accounts WHERE id = ? AND club_id = ?`, in.AccountID, sess.ClubID).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", in.AccountID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Transient("get account", err)
	}
	if in.MemberID != "" {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM members WHERE id = ? AND club_id = ?`, in.MemberID, sess.ClubID).Scan(&n); err != nil {
			return nil, apperr.Transient("check member", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("member %s: %w", in.MemberID, apperr.ErrNotFound)
		}
	}

	t := &Transaction{
		ID:          uuid.New().String(),
		ClubID:      sess.ClubID,
		AccountID:   in.AccountID,
		AccountCode: code,
		MemberID:    in.MemberID,
		AmountCents: in.AmountCents,
		Direction:   in.Direction,
		Description: strings.TrimSpace(in.Description),
		OccurredOn:  in.OccurredOn,
		CreatedAt:   now,
	}
	if err := insertTransaction(ctx, s.db, t); err != nil {
		return nil, err
	}
	log.Info("Recorded transaction", "club_id", t.ClubID, "account", code, "direction", t.Direction, "amount_cents", t.AmountCents)
	return t, nil
}

func (s *store) ListTransactions(ctx context.Context, sess session.Session, period string) ([]Transaction, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.club_id, t.account_id, a.code, COALESCE(t.member_id, ''), t.amount_cents,
			t.direction, t.description, t.occurred_on, t.created_at
		FROM transactions t JOIN accounts a ON a.id = t.account_id
		WHERE t.club_id = ? AND t.occurred_on LIKE ?
		ORDER BY t.occurred_on, t.created_at, t.id`, sess.ClubID, period+"%")
	if err != nil {
		return nil, apperr.Transient("list transactions", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var direction string
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.ClubID, &t.AccountID, &t.AccountCode, &t.MemberID, &t.AmountCents,
			&direction, &t.Description, &t.OccurredOn, &createdAt); err != nil {
			return nil, apperr.Transient("scan transaction", err)
		}
		t.Direction = Direction(direction)
		t.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list transactions", err)
	}
	return out, nil
}

func (s *store) AccountBalances(ctx context.Context, sess session.Session, period string) ([]Balance, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.code, a.name, a.kind,
			COALESCE(SUM(CASE WHEN t.direction = 'in' THEN t.amount_cents END), 0),
			COALESCE(SUM(CASE WHEN t.direction = 'out' THEN t.amount_cents END), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id AND t.occurred_on LIKE ?
		WHERE a.club_id = ?
		GROUP BY a.id, a.code, a.name, a.kind
		ORDER BY a.code`, period+"%", sess.ClubID)
	if err != nil {
		return nil, apperr.Transient("account balances", err)
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		var kind string
		if err := rows.Scan(&b.AccountID, &b.Code, &b.Name, &kind, &b.InCents, &b.OutCents); err != nil {
			return nil, apperr.Transient("scan balance", err)
		}
		b.Kind = AccountKind(kind)
		b.BalanceCents = b.InCents - b.OutCents
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("account balances", err)
	}
	return out, nil
}

func (s *store) MonthlySummary(ctx context.Context, sess session.Session, year int) ([]MonthSummary, error) {
	if year < 1 || year > 9999 {
		return nil, apperr.Invalid("year %d is out of range", year)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(occurred_on, 1, 7),
			SUM(CASE WHEN direction = 'in' THEN amount_cents ELSE 0 END),
			SUM(CASE WHEN direction = 'out' THEN amount_cents ELSE 0 END)
		FROM transactions
		WHERE club_id = ? AND occurred_on LIKE ?
		GROUP BY 1`, sess.ClubID, fmt.Sprintf("%04d-%%", year))
	if err != nil {
		return nil, apperr.Transient("monthly summary", err)
	}
	defer rows.Close()

	byMonth := make(map[string]MonthSummary)
	for rows.Next() {
		var m MonthSummary
		if err := rows.Scan(&m.Month, &m.IncomeCents, &m.ExpenseCents); err != nil {
			return nil, apperr.Transient("scan monthly summary", err)
		}
		byMonth[m.Month] = m
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("monthly summary", err)
	}

	out := make([]MonthSummary, 12)
	for i := range out {
		month := fmt.Sprintf("%04d-%02d", year, i+1)
		m := byMonth[month]
		m.Month = month
		m.NetCents = m.IncomeCents - m.ExpenseCents
		out[i] = m
	}
	return out, nil
}

func (s *store) GenerateMonthlyDues(ctx context.Context, sess session.Session, period string) (int, error) {
	if !sess.IsAdmin() {
		return 0, fmt.Errorf("generate dues: %w", apperr.ErrForbidden)
	}
	if _, err := time.Parse(periodLayout, period); err != nil {
		return 0, apperr.Invalid("dues period must be YYYY-MM, got %q", period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperr.Transient("begin generate dues", err)
	}
	defer tx.Rollback()

	var fee int64
	err = tx.QueryRowContext(ctx, `SELECT monthly_dues_cents FROM clubs WHERE id = ?`, sess.ClubID).Scan(&fee)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("club %s: %w", sess.ClubID, apperr.ErrNotFound)
	}
	if err != nil {
		return 0, apperr.Transient("get club fee", err)
	}
	if fee == 0 {
		log.Info("Club has no monthly fee, skipping dues", "club_id", sess.ClubID, "period", period)
		return 0, nil
	}

	memberIDs, err := activeMemberIDs(ctx, tx, sess.ClubID)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, id := range memberIDs {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO dues (id, club_id, member_id, period, amount_cents)
			VALUES (?, ?, ?, ?, ?)`, uuid.New().String(), sess.ClubID, id, period, fee)
		if err != nil {
			return 0, apperr.Transient("insert due", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, apperr.Transient("insert due", err)
		}
		created += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, apperr.Transient("commit generate dues", err)
	}
	log.Info("Generated monthly dues", "club_id", sess.ClubID, "period", period, "created", created, "members", len(memberIDs))
	return created, nil
}

func (s *store) PayDue(ctx context.Context, sess session.Session, dueID string) (*Due, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("pay due: %w", apperr.ErrForbidden)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Transient("begin pay due", err)
	}
	defer tx.Rollback()

	d, err := getDue(ctx, tx, sess.ClubID, dueID)
	if err != nil {
		return nil, err
	}
	if d.Paid() {
		return nil, apperr.Invalid("due %s for %s was already paid", d.ID, d.Period)
	}

	now := s.now()
	if err := ensureDefaults(ctx, tx, sess.ClubID, now); err != nil {
		return nil, err
	}
	var accountID string
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE club_id = ? AND code = ?`, sess.ClubID, CodeDuesIncome).Scan(&accountID); err != nil {
		return nil, apperr.Transient("get dues income account", err)
	}

	t := &Transaction{
		ID:          uuid.New().String(),
		ClubID:      sess.ClubID,
		AccountID:   accountID,
		AccountCode: CodeDuesIncome,
		MemberID:    d.MemberID,
		AmountCents: d.AmountCents,
		Direction:   DirectionIn,
		Description: fmt.Sprintf("Dues %s %s", d.Period, d.MemberName),
		OccurredOn:  now.Format(dateLayout),
		CreatedAt:   now,
	}
	if err := insertTransaction(ctx, tx, t); err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE dues SET paid_at = ?, transaction_id = ? WHERE id = ? AND paid_at IS NULL`, now.Unix(), t.ID, d.ID)
	if err != nil {
		return nil, apperr.Transient("mark due paid", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, apperr.Invalid("due %s was already paid", d.ID)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Transient("commit pay due", err)
	}

	paidAt := time.Unix(now.Unix(), 0).UTC()
	d.PaidAt = &paidAt
	d.TransactionID = t.ID
	log.Info("Paid due", "club_id", sess.ClubID, "due_id", d.ID, "member_id", d.MemberID, "period", d.Period)
	return d, nil
}

func (s *store) ListDues(ctx context.Context, sess session.Session, period string, unpaidOnly bool) ([]Due, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT` + dueColumns + dueFrom + ` WHERE d.club_id = ? AND d.period LIKE ?`
	if unpaidOnly {
		query += ` AND d.paid_at IS NULL`
	}
	query += ` ORDER BY d.period, m.name, d.id`

	rows, err := s.db.QueryContext(ctx, query, sess.ClubID, period+"%")
	if err != nil {
		return nil, apperr.Transient("list dues", err)
	}
	defer rows.Close()

	var out []Due
	for rows.Next() {
		d, err := scanDue(rows)
		if err != nil {
			return nil, apperr.Transient("scan due", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list dues", err)
	}
	return out, nil
}

const dueColumns = `
	d.id, d.club_id, d.member_id, m.name, d.period, d.amount_cents, d.paid_at, COALESCE(d.transaction_id, '')`

const dueFrom = `
	FROM dues d JOIN members m ON m.id = d.member_id`

func getDue(ctx context.Context, q querier, clubID, dueID string) (*Due, error) {
	row := q.QueryRowContext(ctx, `SELECT`+dueColumns+dueFrom+` WHERE d.id = ? AND d.club_id = ?`, dueID, clubID)
	d, err := scanDue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("due %s: %w", dueID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Transient("get due", err)
	}
	return d, nil
}

func scanDue(scanner interface{ Scan(...any) error }) (*Due, error) {
	var d Due
	var paidAt sql.NullInt64
	if err := scanner.Scan(&d.ID, &d.ClubID, &d.MemberID, &d.MemberName, &d.Period, &d.AmountCents, &paidAt, &d.TransactionID); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := time.Unix(paidAt.Int64, 0).UTC()
		d.PaidAt = &t
	}
	return &d, nil
}

func activeMemberIDs(ctx context.Context, q querier, clubID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM members WHERE club_id = ? AND active = 1 ORDER BY name, id`, clubID)
	if err != nil {
		return nil, apperr.Transient("list active members", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Transient("scan member", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list active members", err)
	}
	return ids, nil
}

func ensureDefaults(ctx context.Context, db execer, clubID string, now time.Time) error {
	for _, a := range defaultAccounts {
		if _, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO accounts (id, club_id, code, name, kind, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), clubID, a.Code, a.Name, string(a.Kind), now.Unix()); err != nil {
			return apperr.Transient("insert default account "+a.Code, err)
		}
	}
	return nil
}

func listAccounts(ctx context.Context, q querier, clubID string) ([]Account, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, club_id, code, name, kind, created_at FROM accounts WHERE club_id = ? ORDER BY code`, clubID)
	if err != nil {
		return nil, apperr.Transient("list accounts", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		var kind string
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.ClubID, &a.Code, &a.Name, &kind, &createdAt); err != nil {
			return nil, apperr.Transient("scan account", err)
		}
		a.Kind = AccountKind(kind)
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list accounts", err)
	}
	return out, nil
}

func insertTransaction(ctx context.Context, db execer, t *Transaction) error {
	var member any
	if t.MemberID != "" {
		member = t.MemberID
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (id, club_id, account_id, member_id, amount_cents, direction, description, occurred_on, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ClubID, t.AccountID, member, t.AmountCents, string(t.Direction), t.Description, t.OccurredOn, t.CreatedAt.Unix(),
	)
	if err != nil {
		return apperr.Transient("insert transaction", err)
	}
	return nil
}

// validatePeriod accepts "", YYYY or YYYY-MM.
func validatePeriod(period string) error {
	switch len(period) {
	case 0:
		return nil
	case 4:
		if _, err := time.Parse("2006", period); err == nil {
			return nil
		}
	case 7:
		if _, err := time.Parse(periodLayout, period); err == nil {
			return nil
		}
	}
	return apperr.Invalid("period must be YYYY or YYYY-MM, got %q", period)
}
