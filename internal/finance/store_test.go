package finance_test

import (
	"context"
	"testing"

	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/database"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ledger finance.Ledger
	clubs  club.ClubStore
	admin  session.Session
	member *club.Member
}

func setupTestDB(t *testing.T, feeCents int64) *fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clubs := club.New(db)
	c, founder, err := clubs.CreateClub(context.Background(), club.NewClub{
		Name:             "Sunday League",
		MonthlyDuesCents: feeCents,
		Founder:          club.NewMember{Name: "Treasurer", Email: "treasurer@example.com"},
	})
	require.NoError(t, err)
	admin := session.Session{UserID: founder.ID, ClubID: c.ID, Role: session.RoleAdmin}

	member, err := clubs.RegisterMember(context.Background(), admin, club.NewMember{Name: "Player", Email: "player@example.com"})
	require.NoError(t, err)
	return &fixture{ledger: finance.New(db), clubs: clubs, admin: admin, member: member}
}

func (f *fixture) accounts(t *testing.T) map[string]string {
	t.Helper()
	accounts, err := f.ledger.EnsureDefaultAccounts(context.Background(), f.admin)
	require.NoError(t, err)
	byCode := make(map[string]string)
	for _, a := range accounts {
		byCode[a.Code] = a.ID
	}
	return byCode
}

func TestEnsureDefaultAccountsIsIdempotent(t *testing.T) {
	f := setupTestDB(t, 0)
	ctx := context.Background()

	first, err := f.ledger.EnsureDefaultAccounts(ctx, f.admin)
	require.NoError(t, err)
	second, err := f.ledger.EnsureDefaultAccounts(ctx, f.admin)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, finance.CodeCash, first[0].Code)
	assert.Equal(t, finance.KindAsset, first[0].Kind)
	assert.Equal(t, finance.CodeDuesIncome, first[1].Code)
	assert.Equal(t, finance.KindIncome, first[1].Kind)
	assert.Equal(t, finance.CodeFieldRental, first[2].Code)
	assert.Equal(t, finance.KindExpense, first[2].Kind)
}

func TestCreateAccount(t *testing.T) {
	f := setupTestDB(t, 0)
	ctx := context.Background()
	f.accounts(t)

	a, err := f.ledger.CreateAccount(ctx, f.admin, finance.NewAccount{Code: "5100", Name: "Balls and bibs", Kind: finance.KindExpense})
	require.NoError(t, err)
	assert.Equal(t, f.admin.ClubID, a.ClubID)

	_, err = f.ledger.CreateAccount(ctx, f.admin, finance.NewAccount{Code: "5100", Name: "Again", Kind: finance.KindExpense})
	assert.ErrorIs(t, err, apperr.ErrValidation, "codes are unique per club")

	_, err = f.ledger.CreateAccount(ctx, f.admin, finance.NewAccount{Code: "6000", Name: "Misc", Kind: "other"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	member := session.Session{UserID: f.member.ID, ClubID: f.admin.ClubID, Role: session.RoleMember}
	_, err = f.ledger.CreateAccount(ctx, member, finance.NewAccount{Code: "6000", Name: "Misc", Kind: finance.KindExpense})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	accounts, err := f.ledger.ListAccounts(ctx, member)
	require.NoError(t, err)
	assert.Len(t, accounts, 4)
}

func TestRecordTransactionValidation(t *testing.T) {
	f := setupTestDB(t, 0)
	ctx := context.Background()
	cash := f.accounts(t)[finance.CodeCash]

	tests := []struct {
		name string
		in   finance.NewTransaction
		want error
	}{
		{"zero amount", finance.NewTransaction{AccountID: cash, AmountCents: 0, Direction: finance.DirectionIn}, apperr.ErrValidation},
		{"bad direction", finance.NewTransaction{AccountID: cash, AmountCents: 100, Direction: "sideways"}, apperr.ErrValidation},
		{"bad date", finance.NewTransaction{AccountID: cash, AmountCents: 100, Direction: finance.DirectionIn, OccurredOn: "10/01/2026"}, apperr.ErrValidation},
		{"unknown account", finance.NewTransaction{AccountID: "nope", AmountCents: 100, Direction: finance.DirectionIn}, apperr.ErrNotFound},
		{"unknown member", finance.NewTransaction{AccountID: cash, MemberID: "nope", AmountCents: 100, Direction: finance.DirectionIn}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.RecordTransaction(ctx, f.admin, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	txs, err := f.ledger.ListTransactions(ctx, f.admin, "")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestBalancesAndSummary(t *testing.T) {
	f := setupTestDB(t, 0)
	ctx := context.Background()
	accounts := f.accounts(t)

	record := func(code string, dir finance.Direction, cents int64, on string) {
		t.Helper()
		_, err := f.ledger.RecordTransaction(ctx, f.admin, finance.NewTransaction{
			AccountID: accounts[code], AmountCents: cents, Direction: dir, OccurredOn: on, MemberID: f.member.ID,
		})
		require.NoError(t, err)
	}
	record(finance.CodeCash, finance.DirectionIn, 10000, "2026-01-10")
	record(finance.CodeFieldRental, finance.DirectionOut, 4000, "2026-01-20")
	record(finance.CodeCash, finance.DirectionIn, 500, "2026-02-01")

	january, err := f.ledger.ListTransactions(ctx, f.admin, "2026-01")
	require.NoError(t, err)
	require.Len(t, january, 2)
	assert.Equal(t, "2026-01-10", january[0].OccurredOn)
	assert.Equal(t, finance.CodeCash, january[0].AccountCode)
	assert.Equal(t, f.member.ID, january[0].MemberID)

	balances, err := f.ledger.AccountBalances(ctx, f.admin, "2026-01")
	require.NoError(t, err)
	require.Len(t, balances, 3)
	assert.Equal(t, int64(10000), balances[0].BalanceCents)
	assert.Equal(t, int64(0), balances[1].BalanceCents, "accounts without movement are listed")
	assert.Equal(t, int64(4000), balances[2].OutCents)
	assert.Equal(t, int64(-4000), balances[2].BalanceCents)

	year, err := f.ledger.AccountBalances(ctx, f.admin, "2026")
	require.NoError(t, err)
	assert.Equal(t, int64(10500), year[0].BalanceCents)

	summary, err := f.ledger.MonthlySummary(ctx, f.admin, 2026)
	require.NoError(t, err)
	require.Len(t, summary, 12)
	assert.Equal(t, finance.MonthSummary{Month: "2026-01", IncomeCents: 10000, ExpenseCents: 4000, NetCents: 6000}, summary[0])
	assert.Equal(t, finance.MonthSummary{Month: "2026-02", IncomeCents: 500, NetCents: 500}, summary[1])
	assert.Equal(t, finance.MonthSummary{Month: "2026-12"}, summary[11])

	for _, period := range []string{"2026-13", "Jan", "2026-1"} {
		_, err := f.ledger.ListTransactions(ctx, f.admin, period)
		assert.ErrorIs(t, err, apperr.ErrValidation, period)
	}
}

func TestMonthlyDues(t *testing.T) {
	f := setupTestDB(t, 2500)
	ctx := context.Background()

	inactive, err := f.clubs.RegisterMember(ctx, f.admin, club.NewMember{Name: "Retired", Email: "retired@example.com"})
	require.NoError(t, err)
	require.NoError(t, f.clubs.SetMemberActive(ctx, f.admin, inactive.ID, false))

	n, err := f.ledger.GenerateMonthlyDues(ctx, f.admin, "2026-10")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one due per active member")

	n, err = f.ledger.GenerateMonthlyDues(ctx, f.admin, "2026-10")
	require.NoError(t, err)
	assert.Zero(t, n, "generation is idempotent")

	dues, err := f.ledger.ListDues(ctx, f.admin, "2026-10", true)
	require.NoError(t, err)
	require.Len(t, dues, 2)
	assert.Equal(t, "Player", dues[0].MemberName)
	assert.Equal(t, int64(2500), dues[0].AmountCents)
	assert.False(t, dues[0].Paid())

	paid, err := f.ledger.PayDue(ctx, f.admin, dues[0].ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid())
	assert.NotEmpty(t, paid.TransactionID)

	_, err = f.ledger.PayDue(ctx, f.admin, dues[0].ID)
	assert.ErrorIs(t, err, apperr.ErrValidation, "a due is paid once")

	unpaid, err := f.ledger.ListDues(ctx, f.admin, "2026-10", true)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "Treasurer", unpaid[0].MemberName)

	txs, err := f.ledger.ListTransactions(ctx, f.admin, "")
	require.NoError(t, err)
	require.Len(t, txs, 1, "the second payment attempt left no transaction behind")
	assert.Equal(t, paid.TransactionID, txs[0].ID)
	assert.Equal(t, finance.CodeDuesIncome, txs[0].AccountCode)
	assert.Equal(t, finance.DirectionIn, txs[0].Direction)
	assert.Equal(t, int64(2500), txs[0].AmountCents)
	assert.Equal(t, f.member.ID, txs[0].MemberID)
}

func TestMonthlyDuesEdgeCases(t *testing.T) {
	f := setupTestDB(t, 0)
	ctx := context.Background()

	n, err := f.ledger.GenerateMonthlyDues(ctx, f.admin, "2026-10")
	require.NoError(t, err)
	assert.Zero(t, n, "clubs without a fee owe nothing")

	_, err = f.ledger.GenerateMonthlyDues(ctx, f.admin, "2026")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	member := session.Session{UserID: f.member.ID, ClubID: f.admin.ClubID, Role: session.RoleMember}
	_, err = f.ledger.GenerateMonthlyDues(ctx, member, "2026-10")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.ledger.PayDue(ctx, f.admin, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDuesAreScopedToClub(t *testing.T) {
	f := setupTestDB(t, 1000)
	ctx := context.Background()
	_, err := f.ledger.GenerateMonthlyDues(ctx, f.admin, "2026-10")
	require.NoError(t, err)
	dues, err := f.ledger.ListDues(ctx, f.admin, "", false)
	require.NoError(t, err)
	require.NotEmpty(t, dues)

	other, founder, err := f.clubs.CreateClub(ctx, club.NewClub{Name: "Rivals", Founder: club.NewMember{Name: "R", Email: "r@example.com"}})
	require.NoError(t, err)
	rival := session.Session{UserID: founder.ID, ClubID: other.ID, Role: session.RoleAdmin}

	_, err = f.ledger.PayDue(ctx, rival, dues[0].ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	theirs, err := f.ledger.ListDues(ctx, rival, "", false)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
