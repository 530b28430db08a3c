package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/database"
	"github.com/mauv0809/clubhouse/internal/finance"
	"github.com/mauv0809/clubhouse/internal/http/handlers"
	"github.com/mauv0809/clubhouse/internal/inngest"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/mauv0809/clubhouse/internal/processor"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testEnv struct {
	server   *Server
	metrics  *metrics.Mock
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
	inngest  *inngest.MockClient
}

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	env := &testEnv{
		metrics:  metrics.NewMock(),
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock(),
		inngest:  inngest.NewMock(),
	}
	clubStore := club.New(db)
	matches := match.NewService(match.NewStore(db), env.metrics, env.pubsub)
	activity := metrics.New(db)
	proc := processor.New(matches, env.notifier, env.metrics, activity)

	reg := prometheus.NewRegistry()
	metricsHandler := metrics.NewMetricsHandler(reg)

	env.server = NewServer(db, clubStore, matches, finance.New(db), env.metrics, metricsHandler, activity, cfg, proc, env.pubsub, env.inngest)
	return env
}

type caller struct {
	UserID string
	ClubID string
}

func (e *testEnv) do(t *testing.T, method, path string, body any, as *caller) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set(HeaderUserID, as.UserID)
		req.Header.Set(HeaderClubID, as.ClubID)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type createdClub struct {
	Club    club.Club   `json:"club"`
	Founder club.Member `json:"founder"`
}

// createClub registers a club and returns its founding admin as a caller.
func (e *testEnv) createClub(t *testing.T, fee int64) (*caller, createdClub) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/clubs", club.NewClub{
		Name:             "Sunday League",
		MonthlyDuesCents: fee,
		Founder:          club.NewMember{Name: "Ada Admin", Email: "ada@example.com"},
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[createdClub](t, rr)
	return &caller{UserID: created.Founder.ID, ClubID: created.Club.ID}, created
}

func (e *testEnv) register(t *testing.T, admin *caller, name string) *caller {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/members", club.NewMember{Name: name, Email: name + "@example.com"}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	m := decode[club.Member](t, rr)
	return &caller{UserID: m.ID, ClubID: m.ClubID}
}

type matchBody struct {
	Match        match.Match         `json:"match"`
	Participants []match.Participant `json:"participants"`
}

type boardBody struct {
	TeamA      []match.Participant `json:"team_a"`
	TeamB      []match.Participant `json:"team_b"`
	Unassigned []match.Participant `json:"unassigned"`
}

func participantOf(t *testing.T, ps []match.Participant, personID string) match.Participant {
	t.Helper()
	for _, p := range ps {
		if p.PersonID == personID {
			return p
		}
	}
	t.Fatalf("no participant for %s", personID)
	return match.Participant{}
}

func (e *testEnv) schedule(t *testing.T, admin *caller) matchBody {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/matches", match.ScheduleInput{
		When:  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		Venue: "Fælledparken",
	}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[matchBody](t, rr)
}

func TestHealthCheckHandler(t *testing.T) {
	env := setupTestServer(t, config.Config{})

	rr := env.do(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestRequestsWithoutSessionAreForbidden(t *testing.T) {
	env := setupTestServer(t, config.Config{})

	rr := env.do(t, http.MethodGet, "/matches", nil, nil)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	body := decode[handlers.ErrorResponse](t, rr)
	assert.Equal(t, "forbidden", body.Kind)
	assert.Equal(t, "you are not allowed to do that", body.Error)
	assert.Equal(t, 1, env.metrics.DomainErrors("forbidden"))
}

func TestMembersHandlers(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, _ := env.createClub(t, 0)
	ole := env.register(t, admin, "Ole Olsen")
	env.register(t, admin, "Mette Hansen")

	t.Run("lists every member", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/members", nil, ole)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]club.Member](t, rr), 3)
	})

	t.Run("search ranks similar names", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/members?search=ole", nil, ole)
		require.Equal(t, http.StatusOK, rr.Code)
		suggestions := decode[[]club.MemberSuggestion](t, rr)
		require.NotEmpty(t, suggestions)
		assert.Equal(t, "Ole Olsen", suggestions[0].Member.Name)
	})

	t.Run("members cannot deactivate others", func(t *testing.T) {
		rr := env.do(t, http.MethodPatch, "/members/"+admin.UserID, map[string]any{"active": false}, ole)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("deactivated members lose access", func(t *testing.T) {
		rr := env.do(t, http.MethodPatch, "/members/"+ole.UserID, map[string]any{"active": false}, admin)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.False(t, decode[club.Member](t, rr).Active)

		rr = env.do(t, http.MethodGet, "/members", nil, ole)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		rr := env.do(t, http.MethodPatch, "/members/"+admin.UserID, map[string]any{}, admin)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMatchLifecycleOverHTTP(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, _ := env.createClub(t, 0)
	p1 := env.register(t, admin, "p1")
	p2 := env.register(t, admin, "p2")

	m := env.schedule(t, admin)
	require.Len(t, m.Participants, 3)
	base := "/matches/" + m.Match.ID

	for _, p := range []*caller{p1, p2} {
		rr := env.do(t, http.MethodPost, base+"/confirm", map[string]any{"attending": true}, p)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	rr := env.do(t, http.MethodGet, base+"/board", nil, p1)
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[boardBody](t, rr)
	assert.Empty(t, board.TeamA)
	assert.Len(t, board.Unassigned, 2)

	rr = env.do(t, http.MethodPost, base+"/start", nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "unbalanced_teams", decode[handlers.ErrorResponse](t, rr).Kind)

	part1 := participantOf(t, m.Participants, p1.UserID)
	part2 := participantOf(t, m.Participants, p2.UserID)
	rr = env.do(t, http.MethodPost, base+"/board/assign", map[string]any{"participant_id": part1.ID, "team": "A"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = env.do(t, http.MethodPost, base+"/board/assign", map[string]any{"participant_id": part2.ID, "team": "B"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	board = decode[boardBody](t, rr)
	assert.Len(t, board.TeamA, 1)
	assert.Len(t, board.TeamB, 1)
	assert.Empty(t, board.Unassigned)

	// The first goal starts the match.
	rr = env.do(t, http.MethodPost, base+"/statistics", map[string]any{"participant_id": part1.ID, "kind": "goal"}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	res := decode[match.RecordResult](t, rr)
	assert.True(t, res.AutoStarted)
	assert.Equal(t, match.Score{A: 1, B: 0}, res.Score)

	rr = env.do(t, http.MethodPost, base+"/board/assign", map[string]any{"participant_id": part1.ID, "team": "B"}, admin)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodGet, base+"/scoreboard", nil, p2)
	require.Equal(t, http.StatusOK, rr.Code)
	sb := decode[match.Scoreboard](t, rr)
	assert.Equal(t, match.StateStarted, sb.Match.State)
	assert.Len(t, sb.Events, 1)

	rr = env.do(t, http.MethodPost, base+"/complete", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, match.StateCompleted, decode[match.Transition](t, rr).To)

	rr = env.do(t, http.MethodPost, base+"/statistics", map[string]any{"participant_id": part2.ID, "kind": "goal"}, admin)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "locked_match", decode[handlers.ErrorResponse](t, rr).Kind)

	rr = env.do(t, http.MethodGet, "/leaderboard", nil, p1)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[[]match.PlayerStats](t, rr)
	require.NotEmpty(t, stats)
	assert.Equal(t, p1.UserID, stats[0].PersonID)
	assert.Equal(t, 1, stats[0].Wins)

	assert.Equal(t, []pubsub.EventType{pubsub.EventMatchStarted, pubsub.EventStatisticRecorded, pubsub.EventMatchCompleted}, env.pubsub.Topics())
}

func TestMatchErrorsOverHTTP(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, _ := env.createClub(t, 0)
	m := env.schedule(t, admin)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		kind   string
	}{
		{"unknown match", http.MethodGet, "/matches/nope", nil, http.StatusNotFound, "not_found"},
		{"cancel without reason", http.MethodPost, "/matches/" + m.Match.ID + "/cancel", map[string]any{"reason": " "}, http.StatusBadRequest, "validation"},
		{"unknown state filter", http.MethodGet, "/matches?state=PAUSED", nil, http.StatusBadRequest, "validation"},
		{"bad statistic kind", http.MethodPost, "/matches/" + m.Match.ID + "/statistics", map[string]any{"participant_id": m.Participants[0].ID, "kind": "penalty"}, http.StatusBadRequest, "validation"},
		{"unknown field", http.MethodPost, "/matches", map[string]any{"venue": "x", "colour": "red"}, http.StatusBadRequest, "validation"},
		{"unknown statistic", http.MethodDelete, "/statistics/nope", nil, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, tt.method, tt.path, tt.body, admin)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.kind, decode[handlers.ErrorResponse](t, rr).Kind)
		})
	}
}

func TestScoreboardListsAreNeverNull(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, _ := env.createClub(t, 0)
	m := env.schedule(t, admin)

	rr := env.do(t, http.MethodGet, "/matches/"+m.Match.ID+"/scoreboard", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decode[map[string]any](t, rr)
	for _, key := range []string{"team_a", "team_b", "unassigned", "events"} {
		assert.Equal(t, []any{}, body[key], key)
	}
}

func TestCancelResetsParticipants(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, _ := env.createClub(t, 0)
	m := env.schedule(t, admin)
	base := "/matches/" + m.Match.ID

	rr := env.do(t, http.MethodPost, base+"/confirm", map[string]any{"attending": true}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodPost, base+"/cancel", map[string]any{"reason": "rain"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, base, nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[matchBody](t, rr)
	assert.Equal(t, match.StateCancelled, got.Match.State)
	assert.Equal(t, "rain", got.Match.CancellationReason)
	for _, p := range got.Participants {
		assert.Nil(t, p.Confirmed)
		assert.Equal(t, match.TeamNone, p.Team)
	}
}

func TestFinanceHandlers(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, _ := env.createClub(t, 2500)
	member := env.register(t, admin, "Kasper")

	rr := env.do(t, http.MethodPost, "/finance/accounts", finance.NewAccount{Code: "4100", Name: "Sponsorship", Kind: finance.KindIncome}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	account := decode[finance.Account](t, rr)

	rr = env.do(t, http.MethodPost, "/finance/accounts", finance.NewAccount{Code: "4200", Name: "Bar", Kind: finance.KindIncome}, member)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/finance/transactions", finance.NewTransaction{
		AccountID:   account.ID,
		AmountCents: 10000,
		Direction:   finance.DirectionIn,
		Description: "Shirt sponsor",
		OccurredOn:  "2026-01-10",
	}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/finance/transactions", finance.NewTransaction{AccountID: account.ID, AmountCents: -5, Direction: finance.DirectionIn}, admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/finance/transactions?period=2026-01", nil, member)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]finance.Transaction](t, rr), 1)

	rr = env.do(t, http.MethodGet, "/finance/summary?year=2026", nil, member)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[[]finance.MonthSummary](t, rr)
	require.Len(t, summary, 12)
	assert.Equal(t, int64(10000), summary[0].IncomeCents)

	rr = env.do(t, http.MethodGet, "/finance/summary?year=last", nil, member)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/finance/dues/generate", map[string]any{"period": "2026-02"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, float64(2), decode[map[string]any](t, rr)["created"])
	assert.Equal(t, 2, env.metrics.DuesGenerated())

	rr = env.do(t, http.MethodGet, "/finance/dues?period=2026-02&unpaid=true", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	dues := decode[[]finance.Due](t, rr)
	require.Len(t, dues, 2)

	rr = env.do(t, http.MethodPost, "/finance/dues/"+dues[0].ID+"/pay", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decode[finance.Due](t, rr).Paid())

	rr = env.do(t, http.MethodPost, "/finance/dues/"+dues[0].ID+"/pay", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/finance/export?period=2026", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "attachment; filename=\"ledger-2026.xlsx\"", rr.Header().Get("Content-Disposition"))
	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{finance.SheetTransactions, finance.SheetBalances, finance.SheetDues}, f.GetSheetList())
}

func TestGenerateDuesAsync(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, _ := env.createClub(t, 2500)
	member := env.register(t, admin, "Kasper")

	rr := env.do(t, http.MethodPost, "/finance/dues/generate?async=true", nil, member)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/finance/dues/generate?async=true&dry_run=true", nil, admin)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Empty(t, env.inngest.SendEventCalls)

	rr = env.do(t, http.MethodPost, "/finance/dues/generate?async=true", nil, admin)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, env.inngest.SendEventCalls, 1)
	assert.Equal(t, inngest.EventGenerateDues, env.inngest.SendEventCalls[0].Name)
}

func pushBody(t *testing.T, evt match.LifecycleEvent) any {
	t.Helper()
	data, err := pubsub.Encode(evt)
	require.NoError(t, err)
	var envelope pubsub.PushEnvelope
	envelope.Message.Data = data
	envelope.Message.ID = "msg-1"
	envelope.Subscription = "projects/test/subscriptions/match-events"
	return envelope
}

func TestMatchEventsHandler(t *testing.T) {
	env := setupTestServer(t, config.Config{})
	admin, created := env.createClub(t, 0)
	m := env.schedule(t, admin)

	rr := env.do(t, http.MethodPost, "/matches/"+m.Match.ID+"/cancel", map[string]any{"reason": "pitch closed"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	t.Run("cancellation is announced and counted", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/pubsub/match-events", pushBody(t, match.LifecycleEvent{
			Type:    string(pubsub.EventMatchCancelled),
			ClubID:  created.Club.ID,
			MatchID: m.Match.ID,
			Reason:  "pitch closed",
		}), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.Len(t, env.notifier.SendMatchCancelledCalls, 1)
		assert.Equal(t, "pitch closed", env.notifier.SendMatchCancelledCalls[0].CancellationReason)

		rr = env.do(t, http.MethodGet, "/activity", nil, admin)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, decode[map[string]int](t, rr)[processor.ActivityMatchesCancelled])
	})

	t.Run("dry run skips the counters", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/pubsub/match-events?dry_run=true", pushBody(t, match.LifecycleEvent{
			Type:    string(pubsub.EventMatchCancelled),
			ClubID:  created.Club.ID,
			MatchID: m.Match.ID,
		}), nil)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = env.do(t, http.MethodGet, "/activity", nil, admin)
		assert.Equal(t, 1, decode[map[string]int](t, rr)[processor.ActivityMatchesCancelled])
	})

	t.Run("events without a club are acknowledged and dropped", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/pubsub/match-events", pushBody(t, match.LifecycleEvent{
			Type:    string(pubsub.EventMatchCancelled),
			MatchID: m.Match.ID,
		}), nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("undecodable payloads are acknowledged", func(t *testing.T) {
		var envelope pubsub.PushEnvelope
		envelope.Message.Data = []byte{0xc1}
		rr := env.do(t, http.MethodPost, "/pubsub/match-events", envelope, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("malformed envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pubsub/match-events", bytes.NewBufferString("{"))
		rr := httptest.NewRecorder()
		env.server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRateLimit(t *testing.T) {
	env := setupTestServer(t, config.Config{HTTP: config.HTTPConfig{RateLimitRPS: 0.001, RateBurst: 1}})
	admin, _ := env.createClub(t, 0)

	rr := env.do(t, http.MethodGet, "/matches", nil, admin)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "club creation used the only token")

	// Infrastructure endpoints are not limited.
	rr = env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestIPRateLimiterBuckets(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"), "buckets are per IP")

	now = now.Add(time.Second)
	assert.True(t, l.allow("10.0.0.1"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestServer(t, config.Config{HTTP: config.HTTPConfig{AllowedOrigins: []string{"https://club.example.com"}}})

	req := httptest.NewRequest(http.MethodOptions, "/matches", nil)
	req.Header.Set("Origin", "https://club.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", HeaderUserID)
	rr := httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)

	assert.Equal(t, "https://club.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/matches", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
