package finance

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/session"
)

// Ledger stores the chart of accounts, transactions and dues of a club.
// Mutations require an admin or system session. A period filter is empty
// (everything), a year (YYYY) or a month (YYYY-MM).
type Ledger interface {
	CreateAccount(ctx context.Context, sess session.Session, in NewAccount) (*Account, error)
	ListAccounts(ctx context.Context, sess session.Session) ([]Account, error)
	// EnsureDefaultAccounts creates the cash, dues income and field rental
	// accounts when missing and returns the full chart.
	EnsureDefaultAccounts(ctx context.Context, sess session.Session) ([]Account, error)

	RecordTransaction(ctx context.Context, sess session.Session, in NewTransaction) (*Transaction, error)
	ListTransactions(ctx context.Context, sess session.Session, period string) ([]Transaction, error)
	AccountBalances(ctx context.Context, sess session.Session, period string) ([]Balance, error)
	// MonthlySummary returns twelve rows, one per month of year.
	MonthlySummary(ctx context.Context, sess session.Session, year int) ([]MonthSummary, error)

	// GenerateMonthlyDues creates a due for every active member at the club's
	// monthly fee and returns how many were new. Running it twice is harmless.
	GenerateMonthlyDues(ctx context.Context, sess session.Session, period string) (int, error)
	// PayDue books the payment on the dues income account and marks the due paid.
	PayDue(ctx context.Context, sess session.Session, dueID string) (*Due, error)
	ListDues(ctx context.Context, sess session.Session, period string, unpaidOnly bool) ([]Due, error)
}
