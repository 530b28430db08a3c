package http

import (
	"net/http"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/http/handlers"
	"github.com/mauv0809/clubhouse/internal/inngest"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/processor"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/rs/cors"
)

func NewServer(db handlers.Pinger, store club.ClubStore, matches *match.Service, ledger finance.Ledger, metricsSvc metrics.Metrics, metricsHandler http.Handler, activity metrics.ActivityStore, cfg config.Config, processor *processor.Processor, pubsub pubsub.PubSubClient, inngestClient inngest.InngestClient) *Server {
	server := &Server{
		DB:             db,
		Store:          store,
		Matches:        matches,
		Ledger:         ledger,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Activity:       activity,
		Cfg:            cfg,
		Processor:      processor,
		InngestClient:  inngestClient,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}
	if cfg.HTTP.RateLimitRPS > 0 {
		server.limiter = newIPRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateBurst)
	}

	server.routes()
	server.handler = server.Router
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		server.handler = cors.New(cors.Options{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", HeaderUserID, HeaderClubID},
			ExposedHeaders: []string{"Content-Disposition"},
		}).Handler(server.Router)
	}
	return server
}

func (s *Server) routes() {
	// Infrastructure endpoints run without a session.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(s.DB), paramsMiddleware))
	s.Router.Handle("POST /pubsub/match-events", Chain(handlers.MatchEventsHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("/api/inngest", s.InngestClient.Serve())

	public := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, rateLimitMiddleware(s.limiter))
	}
	member := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, rateLimitMiddleware(s.limiter), sessionMiddleware(s.Store, s.Metrics))
	}

	s.Router.Handle("POST /clubs", public(handlers.CreateClubHandler(s.Store, s.Metrics)))
	s.Router.Handle("GET /members", member(handlers.ListMembersHandler(s.Store, s.Metrics)))
	s.Router.Handle("POST /members", member(handlers.RegisterMemberHandler(s.Store, s.Metrics)))
	s.Router.Handle("PATCH /members/{id}", member(handlers.UpdateMemberHandler(s.Store, s.Metrics)))
	s.Router.Handle("GET /activity", member(handlers.ActivityHandler(s.Activity, s.Metrics)))

	s.Router.Handle("GET /matches", member(handlers.ListMatchesHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches", member(handlers.ScheduleMatchHandler(s.Matches, s.Metrics)))
	s.Router.Handle("GET /matches/{id}", member(handlers.GetMatchHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches/{id}/confirm", member(handlers.ConfirmHandler(s.Matches, s.Metrics)))
	s.Router.Handle("GET /matches/{id}/board", member(handlers.BoardHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches/{id}/board/assign", member(handlers.AssignHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches/{id}/board/randomize", member(handlers.RandomizeHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches/{id}/start", member(handlers.StartHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches/{id}/complete", member(handlers.CompleteHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches/{id}/cancel", member(handlers.CancelHandler(s.Matches, s.Metrics)))
	s.Router.Handle("POST /matches/{id}/statistics", member(handlers.RecordStatisticHandler(s.Matches, s.Metrics)))
	s.Router.Handle("GET /matches/{id}/scoreboard", member(handlers.ScoreboardHandler(s.Matches, s.Metrics)))
	s.Router.Handle("DELETE /statistics/{id}", member(handlers.DeleteStatisticHandler(s.Matches, s.Metrics)))
	s.Router.Handle("GET /leaderboard", member(handlers.LeaderboardHandler(s.Matches, s.Metrics)))

	s.Router.Handle("GET /finance/accounts", member(handlers.ListAccountsHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("POST /finance/accounts", member(handlers.CreateAccountHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("GET /finance/transactions", member(handlers.ListTransactionsHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("POST /finance/transactions", member(handlers.RecordTransactionHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("GET /finance/balances", member(handlers.BalancesHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("GET /finance/summary", member(handlers.SummaryHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("POST /finance/dues/generate", member(handlers.GenerateDuesHandler(s.Ledger, s.InngestClient, s.Metrics)))
	s.Router.Handle("GET /finance/dues", member(handlers.ListDuesHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("POST /finance/dues/{id}/pay", member(handlers.PayDueHandler(s.Ledger, s.Metrics)))
	s.Router.Handle("GET /finance/export", member(handlers.ExportHandler(s.Ledger, s.Metrics)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
