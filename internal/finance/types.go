package finance

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the club ledger.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// AccountKind classifies an account in the chart of accounts.
type AccountKind string

const (
	KindAsset     AccountKind = "asset"
	KindLiability AccountKind = "liability"
	KindEquity    AccountKind = "equity"
	KindIncome    AccountKind = "income"
	KindExpense   AccountKind = "expense"
)

func (k AccountKind) Valid() bool {
	switch k {
	case KindAsset, KindLiability, KindEquity, KindIncome, KindExpense:
		return true
	}
	return false
}

// Direction tells whether money entered or left the club.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Codes of the accounts every club starts with.
const (
	CodeCash        = "1000"
	CodeDuesIncome  = "4000"
	CodeFieldRental = "5000"
)

var defaultAccounts = []NewAccount{
	{Code: CodeCash, Name: "Cash", Kind: KindAsset},
	{Code: CodeDuesIncome, Name: "Dues income", Kind: KindIncome},
	{Code: CodeFieldRental, Name: "Field rental", Kind: KindExpense},
}

const (
	dateLayout   = "2006-01-02"
	periodLayout = "2006-01"
)

type Account struct {
	ID        string      `json:"id"`
	ClubID    string      `json:"club_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Kind      AccountKind `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`
}

type NewAccount struct {
	Code string      `json:"code"`
	Name string      `json:"name"`
	Kind AccountKind `json:"kind"`
}

// Transaction is a single movement of money on one account. Amounts are
// positive cents; Direction carries the sign.
type Transaction struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	AccountID   string    `json:"account_id"`
	AccountCode string    `json:"account_code"`
	MemberID    string    `json:"member_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description"`
	OccurredOn  string    `json:"occurred_on"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTransaction is the input for RecordTransaction. OccurredOn is a
// YYYY-MM-DD date and defaults to today.
type NewTransaction struct {
	AccountID   string    `json:"account_id"`
	MemberID    string    `json:"member_id"`
	AmountCents int64     `json:"amount_cents"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description"`
	OccurredOn  string    `json:"occurred_on"`
}

// Balance is the net movement of one account over a period.
type Balance struct {
	AccountID    string      `json:"account_id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Kind         AccountKind `json:"kind"`
	InCents      int64       `json:"in_cents"`
	OutCents     int64       `json:"out_cents"`
	BalanceCents int64       `json:"balance_cents"`
}

type MonthSummary struct {
	Month        string `json:"month"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	NetCents     int64  `json:"net_cents"`
}

// Due is the monthly fee a member owes for one period (YYYY-MM).
type Due struct {
	ID            string     `json:"id"`
	ClubID        string     `json:"club_id"`
	MemberID      string     `json:"member_id"`
	MemberName    string     `json:"member_name"`
	Period        string     `json:"period"`
	AmountCents   int64      `json:"amount_cents"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
}

func (d Due) Paid() bool { return d.PaidAt != nil }
