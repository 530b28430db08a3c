package finance

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/session"
	"github.com/xuri/excelize/v2"
)

const (
	SheetTransactions = "Transactions"
	SheetBalances     = "Balances"
	SheetDues         = "Dues"
)

// ExportLedger renders the transactions, account balances and dues of a period
// as an xlsx workbook. Amounts are written in cents.
func ExportLedger(ctx context.Context, l Ledger, sess session.Session, period string) ([]byte, error) {
	txs, err := l.ListTransactions(ctx, sess, period)
	if err != nil {
		return nil, err
	}
	balances, err := l.AccountBalances(ctx, sess, period)
	if err != nil {
		return nil, err
	}
	dues, err := l.ListDues(ctx, sess, period, false)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetTransactions); err != nil {
		return nil, fmt.Errorf("failed to name transactions sheet: %w", err)
	}
	for _, name := range []string{SheetBalances, SheetDues} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	rows := [][]any{{"Date", "Account", "Direction", "Amount (cents)", "Member", "Description"}}
	for _, t := range txs {
		rows = append(rows, []any{t.OccurredOn, t.AccountCode, string(t.Direction), t.AmountCents, t.MemberID, t.Description})
	}
	if err := writeRows(f, SheetTransactions, rows); err != nil {
		return nil, err
	}

	rows = [][]any{{"Code", "Account", "Kind", "In (cents)", "Out (cents)", "Balance (cents)"}}
	for _, b := range balances {
		rows = append(rows, []any{b.Code, b.Name, string(b.Kind), b.InCents, b.OutCents, b.BalanceCents})
	}
	if err := writeRows(f, SheetBalances, rows); err != nil {
		return nil, err
	}

	rows = [][]any{{"Period", "Member", "Amount (cents)", "Paid at"}}
	for _, d := range dues {
		paid := ""
		if d.PaidAt != nil {
			paid = d.PaidAt.Format(dateLayout)
		}
		rows = append(rows, []any{d.Period, d.MemberName, d.AmountCents, paid})
	}
	if err := writeRows(f, SheetDues, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	log.Debug("Exported ledger", "club_id", sess.ClubID, "period", period,
		"transactions", len(txs), "accounts", len(balances), "dues", len(dues))
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, sheet, err)
		}
	}
	return nil
}
