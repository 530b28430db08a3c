package finance

import (
	"context"
	"fmt"
	"sync"

	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/session"
)

// MockLedger is a mock implementation of the Ledger interface for testing.
type MockLedger struct {
	mu sync.Mutex

	// Spies for method calls
	CreateAccountFunc         func(ctx context.Context, sess session.Session, in NewAccount) (*Account, error)
	ListAccountsFunc          func(ctx context.Context, sess session.Session) ([]Account, error)
	EnsureDefaultAccountsFunc func(ctx context.Context, sess session.Session) ([]Account, error)
	RecordTransactionFunc     func(ctx context.Context, sess session.Session, in NewTransaction) (*Transaction, error)
	ListTransactionsFunc      func(ctx context.Context, sess session.Session, period string) ([]Transaction, error)
	AccountBalancesFunc       func(ctx context.Context, sess session.Session, period string) ([]Balance, error)
	MonthlySummaryFunc        func(ctx context.Context, sess session.Session, year int) ([]MonthSummary, error)
	GenerateMonthlyDuesFunc   func(ctx context.Context, sess session.Session, period string) (int, error)
	PayDueFunc                func(ctx context.Context, sess session.Session, dueID string) (*Due, error)
	ListDuesFunc              func(ctx context.Context, sess session.Session, period string, unpaidOnly bool) ([]Due, error)

	// Call records
	GenerateMonthlyDuesCalls []DuesCall
	PayDueCalls              []string
}

// DuesCall holds the arguments for a call to GenerateMonthlyDues.
type DuesCall struct {
	ClubID string
	Period string
}

var _ Ledger = (*MockLedger)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockLedger {
	return &MockLedger{}
}

// Reset clears all call records.
func (m *MockLedger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateMonthlyDuesCalls = nil
	m.PayDueCalls = nil
}

func (m *MockLedger) CreateAccount(ctx context.Context, sess session.Session, in NewAccount) (*Account, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, sess, in)
	}
	return &Account{ClubID: sess.ClubID, Code: in.Code, Name: in.Name, Kind: in.Kind}, nil
}

func (m *MockLedger) ListAccounts(ctx context.Context, sess session.Session) ([]Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, sess)
	}
	return nil, nil
}

func (m *MockLedger) EnsureDefaultAccounts(ctx context.Context, sess session.Session) ([]Account, error) {
	if m.EnsureDefaultAccountsFunc != nil {
		return m.EnsureDefaultAccountsFunc(ctx, sess)
	}
	return nil, nil
}

func (m *MockLedger) RecordTransaction(ctx context.Context, sess session.Session, in NewTransaction) (*Transaction, error) {
	if m.RecordTransactionFunc != nil {
		return m.RecordTransactionFunc(ctx, sess, in)
	}
	return &Transaction{ClubID: sess.ClubID, AccountID: in.AccountID, AmountCents: in.AmountCents, Direction: in.Direction}, nil
}

func (m *MockLedger) ListTransactions(ctx context.Context, sess session.Session, period string) ([]Transaction, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, sess, period)
	}
	return nil, nil
}

func (m *MockLedger) AccountBalances(ctx context.Context, sess session.Session, period string) ([]Balance, error) {
	if m.AccountBalancesFunc != nil {
		return m.AccountBalancesFunc(ctx, sess, period)
	}
	return nil, nil
}

func (m *MockLedger) MonthlySummary(ctx context.Context, sess session.Session, year int) ([]MonthSummary, error) {
	if m.MonthlySummaryFunc != nil {
		return m.MonthlySummaryFunc(ctx, sess, year)
	}
	return nil, nil
}

func (m *MockLedger) GenerateMonthlyDues(ctx context.Context, sess session.Session, period string) (int, error) {
	m.mu.Lock()
	m.GenerateMonthlyDuesCalls = append(m.GenerateMonthlyDuesCalls, DuesCall{ClubID: sess.ClubID, Period: period})
	m.mu.Unlock()
	if m.GenerateMonthlyDuesFunc != nil {
		return m.GenerateMonthlyDuesFunc(ctx, sess, period)
	}
	return 0, nil
}

func (m *MockLedger) PayDue(ctx context.Context, sess session.Session, dueID string) (*Due, error) {
	m.mu.Lock()
	m.PayDueCalls = append(m.PayDueCalls, dueID)
	m.mu.Unlock()
	if m.PayDueFunc != nil {
		return m.PayDueFunc(ctx, sess, dueID)
	}
	return nil, fmt.Errorf("due %s: %w", dueID, apperr.ErrNotFound)
}

func (m *MockLedger) ListDues(ctx context.Context, sess session.Session, period string, unpaidOnly bool) ([]Due, error) {
	if m.ListDuesFunc != nil {
		return m.ListDuesFunc(ctx, sess, period, unpaidOnly)
	}
	return nil, nil
}
