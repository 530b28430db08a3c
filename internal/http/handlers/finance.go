package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/inngest"
	"github.com/mauv0809/clubhouse/internal/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ListAccountsHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		accounts, err := ledger.ListAccounts(r.Context(), sess)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(accounts))
	}
}

func CreateAccountHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var in finance.NewAccount
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, r, m, err)
			return
		}
		account, err := ledger.CreateAccount(r.Context(), sess, in)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusCreated, account)
	}
}

func ListTransactionsHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		txs, err := ledger.ListTransactions(r.Context(), sess, r.URL.Query().Get("period"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(txs))
	}
}

func RecordTransactionHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var in finance.NewTransaction
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, r, m, err)
			return
		}
		tx, err := ledger.RecordTransaction(r.Context(), sess, in)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func BalancesHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		balances, err := ledger.AccountBalances(r.Context(), sess, r.URL.Query().Get("period"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(balances))
	}
}

// SummaryHandler returns the monthly income and expense of ?year, defaulting
// to the current year.
func SummaryHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		year := time.Now().Year()
		if v := r.URL.Query().Get("year"); v != "" {
			year, err = strconv.Atoi(v)
			if err != nil {
				WriteError(w, r, m, apperr.Invalid("year must be a number, got %q", v))
				return
			}
		}
		summary, err := ledger.MonthlySummary(r.Context(), sess, year)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

type generateDuesRequest struct {
	Period string `json:"period"`
}

type generateDuesResponse struct {
	Period  string `json:"period"`
	Created int    `json:"created"`
}

// GenerateDuesHandler creates the dues of a period for the caller's club.
// With ?async=true the run is handed to the background job instead, which
// covers the current month of every club.
func GenerateDuesHandler(ledger finance.Ledger, jobs inngest.InngestClient, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		if r.URL.Query().Get("async") == "true" {
			if !sess.IsAdmin() {
				WriteError(w, r, m, fmt.Errorf("queue dues run: %w", apperr.ErrForbidden))
				return
			}
			if IsDryRunFromContext(r) {
				log.Info("[Dry Run] Would have queued dues run", "club_id", sess.ClubID)
				w.WriteHeader(http.StatusAccepted)
				return
			}
			if err := jobs.SendEvent(r.Context(), inngest.EventGenerateDues, map[string]any{"requested_by": sess.UserID}); err != nil {
				WriteError(w, r, m, apperr.Transient("queue dues run", err))
				return
			}
			w.WriteHeader(http.StatusAccepted)
			return
		}

		var req generateDuesRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, m, err)
			return
		}
		if req.Period == "" {
			req.Period = time.Now().UTC().Format("2006-01")
		}
		n, err := ledger.GenerateMonthlyDues(r.Context(), sess, req.Period)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		m.IncDuesGenerated(n)
		writeJSON(w, http.StatusOK, generateDuesResponse{Period: req.Period, Created: n})
	}
}

// ListDuesHandler lists the dues of ?period. ?unpaid=true hides settled ones.
func ListDuesHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		q := r.URL.Query()
		dues, err := ledger.ListDues(r.Context(), sess, q.Get("period"), q.Get("unpaid") == "true")
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(dues))
	}
}

func PayDueHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		due, err := ledger.PayDue(r.Context(), sess, r.PathValue("id"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, due)
	}
}

// ExportHandler streams the ledger of ?period as an xlsx workbook.
func ExportHandler(ledger finance.Ledger, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		period := r.URL.Query().Get("period")
		data, err := finance.ExportLedger(r.Context(), ledger, sess, period)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		name := "ledger.xlsx"
		if period != "" {
			name = "ledger-" + period + ".xlsx"
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Error("Failed to write export", "error", err)
		}
	}
}
