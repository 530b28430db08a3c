package inngest

import (
	"time"

	"github.com/inngest/inngestgo"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/metrics"
)

// EventGenerateDues asks for the current month's dues to be generated now.
const EventGenerateDues = "club/dues.generate"

// duesCron runs at 06:00 on the first day of every month.
const duesCron = "0 6 1 * *"

type client struct {
	inngestClient inngestgo.Client
	dues          *DuesJob
}

// DuesJob generates monthly dues for every club.
type DuesJob struct {
	clubs   club.ClubStore
	ledger  finance.Ledger
	metrics metrics.Metrics
	now     func() time.Time
}
