package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/database"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/mauv0809/clubhouse/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	numMembers int
	numMatches int
	numMonths  int
	seed       uint64
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Fill the database with a fake club, its members, matches and ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().IntVar(&numMembers, "members", 16, "Number of members to register")
	rootCmd.Flags().IntVar(&numMatches, "matches", 12, "Number of weekly matches to play")
	rootCmd.Flags().IntVar(&numMonths, "months", 3, "Number of months of dues to generate")
	rootCmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "Random seed")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

type seeder struct {
	faker   *gofakeit.Faker
	rng     *rand.Rand
	clubs   club.ClubStore
	ledger  finance.Ledger
	matches *match.Service
	clock   time.Time
	admin   session.Session
}

func run(ctx context.Context) error {
	log.Info("Starting database seeder...", "seed", seed)
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer teardown()
	log.Info("Successfully connected to the database.")

	s := &seeder{
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewPCG(seed, seed>>1)),
		clubs:  club.New(db),
		ledger: finance.New(db),
	}
	// Matches are played in the past, so the service runs on the seeder's clock.
	s.clock = time.Now().UTC().AddDate(0, 0, -7*numMatches)
	s.matches = match.NewService(match.NewStore(db), metrics.NewService(prometheus.NewRegistry()), pubsub.New(""),
		match.WithClock(func() time.Time { return s.clock }),
		match.WithShuffler(s.rng),
	)

	startTime := time.Now()
	if err := s.seedClub(ctx); err != nil {
		return err
	}
	if err := s.seedMatches(ctx); err != nil {
		return err
	}
	if err := s.seedLedger(ctx); err != nil {
		return err
	}
	log.Info("Seeding finished", "club_id", s.admin.ClubID, "admin_id", s.admin.UserID, "duration", time.Since(startTime))
	return nil
}

func (s *seeder) seedClub(ctx context.Context) error {
	c, founder, err := s.clubs.CreateClub(ctx, club.NewClub{
		Name:             s.faker.City() + " FC",
		MonthlyDuesCents: int64(s.faker.Number(10, 30)) * 1000,
		Currency:         "DKK",
		Founder:          club.NewMember{Name: s.faker.Name(), Email: s.faker.Email()},
	})
	if err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	s.admin = session.Session{UserID: founder.ID, ClubID: c.ID, Role: session.RoleAdmin}
	log.Info("Created club", "club_id", c.ID, "name", c.Name)

	for i := 0; i < numMembers; i++ {
		in := club.NewMember{Name: s.faker.Name(), Email: s.faker.Email(), Phone: s.faker.Phone()}
		if _, err := s.clubs.RegisterMember(ctx, s.admin, in); err != nil {
			log.Warn("Skipping member", "name", in.Name, "error", err)
		}
	}
	log.Info("Registered members", "count", numMembers)
	return nil
}

// seedMatches plays one match a week: invite, confirm, draw teams, record
// events and blow the whistle. Every fifth match is rained off.
func (s *seeder) seedMatches(ctx context.Context) error {
	for i := 0; i < numMatches; i++ {
		m, participants, err := s.matches.ScheduleMatch(ctx, s.admin, match.ScheduleInput{
			When:  s.clock.Add(2 * time.Hour).Format(time.RFC3339),
			Venue: s.faker.Street(),
		})
		if err != nil {
			return fmt.Errorf("failed to schedule match: %w", err)
		}

		if i%5 == 4 {
			if _, err := s.matches.Cancel(ctx, s.admin, m.ID, "rain"); err != nil {
				return fmt.Errorf("failed to cancel match %s: %w", m.ID, err)
			}
			s.clock = s.clock.AddDate(0, 0, 7)
			continue
		}

		for _, p := range participants {
			attending := s.rng.Float64() < 0.7
			if _, err := s.matches.Confirm(ctx, s.admin, m.ID, p.PersonID, attending); err != nil {
				return fmt.Errorf("failed to confirm %s: %w", p.PersonID, err)
			}
		}
		board, err := s.matches.RandomizeTeams(ctx, s.admin, m.ID)
		if err != nil {
			return fmt.Errorf("failed to randomize match %s: %w", m.ID, err)
		}
		if len(board.TeamA()) == 0 || len(board.TeamB()) == 0 {
			log.Warn("Not enough players turned up", "match_id", m.ID)
			s.clock = s.clock.AddDate(0, 0, 7)
			continue
		}

		s.clock = s.clock.Add(2 * time.Hour)
		players := board.Participants()
		for e := s.rng.IntN(12); e > 0; e-- {
			s.clock = s.clock.Add(time.Duration(s.rng.IntN(7)+1) * time.Minute)
			in := match.RecordInput{MatchID: m.ID, ParticipantID: players[s.rng.IntN(len(players))].ID, Kind: s.randomKind()}
			if in.Kind == match.KindGoal && s.rng.IntN(2) == 0 {
				in.AssistParticipantID = players[s.rng.IntN(len(players))].ID
			}
			if _, err := s.matches.RecordStatistic(ctx, s.admin, in); err != nil {
				log.Warn("Skipping statistic", "match_id", m.ID, "kind", in.Kind, "error", err)
			}
		}
		t, err := s.matches.Complete(ctx, s.admin, m.ID)
		if err != nil {
			return fmt.Errorf("failed to complete match %s: %w", m.ID, err)
		}
		log.Info("Played match", "match_id", m.ID, "state", t.To)
		s.clock = s.clock.AddDate(0, 0, 7).Add(-2 * time.Hour)
	}
	return nil
}

func (s *seeder) randomKind() match.Kind {
	switch n := s.rng.IntN(10); {
	case n < 5:
		return match.KindGoal
	case n < 8:
		return match.KindSave
	case n < 9:
		return match.KindAssist
	default:
		return match.KindOwnGoal
	}
}

// seedLedger generates dues for the last months, pays most of them and books
// the weekly field rental.
func (s *seeder) seedLedger(ctx context.Context) error {
	accounts, err := s.ledger.EnsureDefaultAccounts(ctx, s.admin)
	if err != nil {
		return fmt.Errorf("failed to create default accounts: %w", err)
	}
	var rentalID string
	for _, a := range accounts {
		if a.Code == finance.CodeFieldRental {
			rentalID = a.ID
		}
	}

	now := time.Now().UTC()
	for i := numMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		period := month.Format("2006-01")
		created, err := s.ledger.GenerateMonthlyDues(ctx, s.admin, period)
		if err != nil {
			return fmt.Errorf("failed to generate dues for %s: %w", period, err)
		}
		dues, err := s.ledger.ListDues(ctx, s.admin, period, true)
		if err != nil {
			return fmt.Errorf("failed to list dues for %s: %w", period, err)
		}
		paid := 0
		for _, d := range dues {
			if s.rng.Float64() < 0.8 {
				if _, err := s.ledger.PayDue(ctx, s.admin, d.ID); err != nil {
					return fmt.Errorf("failed to pay due %s: %w", d.ID, err)
				}
				paid++
			}
		}
		for week := 0; week < 4; week++ {
			day := time.Date(month.Year(), month.Month(), 1+7*week, 0, 0, 0, 0, time.UTC)
			if day.After(now) {
				break
			}
			_, err := s.ledger.RecordTransaction(ctx, s.admin, finance.NewTransaction{
				AccountID:   rentalID,
				AmountCents: int64(s.faker.Number(400, 800)) * 100,
				Direction:   finance.DirectionOut,
				Description: "Pitch rental",
				OccurredOn:  day.Format("2006-01-02"),
			})
			if err != nil {
				return fmt.Errorf("failed to book field rental: %w", err)
			}
		}
		log.Info("Seeded ledger month", "period", period, "dues", created, "paid", paid)
	}
	return nil
}
