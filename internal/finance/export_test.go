package finance_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportLedger(t *testing.T) {
	paidAt := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	ledger := finance.NewMock()
	ledger.ListTransactionsFunc = func(ctx context.Context, sess session.Session, period string) ([]finance.Transaction, error) {
		assert.Equal(t, "2026-10", period)
		return []finance.Transaction{
			{OccurredOn: "2026-10-03", AccountCode: "4000", Direction: finance.DirectionIn, AmountCents: 2500, Description: "Dues 2026-10 Player"},
			{OccurredOn: "2026-10-05", AccountCode: "5000", Direction: finance.DirectionOut, AmountCents: 9000, Description: "Pitch"},
		}, nil
	}
	ledger.AccountBalancesFunc = func(ctx context.Context, sess session.Session, period string) ([]finance.Balance, error) {
		return []finance.Balance{{Code: "4000", Name: "Dues income", Kind: finance.KindIncome, InCents: 2500, BalanceCents: 2500}}, nil
	}
	ledger.ListDuesFunc = func(ctx context.Context, sess session.Session, period string, unpaidOnly bool) ([]finance.Due, error) {
		assert.False(t, unpaidOnly)
		return []finance.Due{
			{Period: "2026-10", MemberName: "Player", AmountCents: 2500, PaidAt: &paidAt},
			{Period: "2026-10", MemberName: "Treasurer", AmountCents: 2500},
		}, nil
	}

	data, err := finance.ExportLedger(context.Background(), ledger, session.System("c1"), "2026-10")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{finance.SheetTransactions, finance.SheetBalances, finance.SheetDues}, f.GetSheetList())

	rows, err := f.GetRows(finance.SheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2026-10-05", "5000", "out", "9000", "", "Pitch"}, rows[2])

	rows, err = f.GetRows(finance.SheetBalances)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2500", rows[1][5])

	rows, err = f.GetRows(finance.SheetDues)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2026-10", "Player", "2500", "2026-10-03"}, rows[1])
	assert.Equal(t, []string{"2026-10", "Treasurer", "2500"}, rows[2], "trailing empty cells are dropped")
}

func TestExportLedgerPropagatesErrors(t *testing.T) {
	ledger := finance.NewMock()
	ledger.AccountBalancesFunc = func(ctx context.Context, sess session.Session, period string) ([]finance.Balance, error) {
		return nil, apperr.Transient("account balances", errors.New("disk full"))
	}

	_, err := finance.ExportLedger(context.Background(), ledger, session.System("c1"), "")
	assert.ErrorIs(t, err, apperr.ErrTransientIO)
}
