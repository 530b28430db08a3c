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
)

type Server struct {
	DB             handlers.Pinger
	Store          club.ClubStore
	Matches        *match.Service
	Ledger         finance.Ledger
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Activity       metrics.ActivityStore
	Cfg            config.Config
	Processor      *processor.Processor
	InngestClient  inngest.InngestClient
	Router         *http.ServeMux

	pubsub  pubsub.PubSubClient
	limiter *ipRateLimiter
	handler http.Handler
}
