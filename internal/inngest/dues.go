package inngest

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/session"
)

func NewDuesJob(clubs club.ClubStore, ledger finance.Ledger, m metrics.Metrics) *DuesJob {
	return &DuesJob{
		clubs:   clubs,
		ledger:  ledger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Period returns the month dues are generated for.
func (j *DuesJob) Period() string {
	return j.now().Format("2006-01")
}

func (j *DuesJob) ListClubs(ctx context.Context) ([]club.Club, error) {
	clubs, err := j.clubs.ListClubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs for dues: %w", err)
	}
	return clubs, nil
}

// Generate creates the dues of one club and returns how many were new.
func (j *DuesJob) Generate(ctx context.Context, clubID, period string) (int, error) {
	n, err := j.ledger.GenerateMonthlyDues(ctx, session.System(clubID), period)
	if err != nil {
		return 0, fmt.Errorf("generate dues for club %s: %w", clubID, err)
	}
	j.metrics.IncDuesGenerated(n)
	log.Info("Generated dues", "club_id", clubID, "period", period, "created", n)
	return n, nil
}
