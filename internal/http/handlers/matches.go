package handlers

import (
	"net/http"

	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/metrics"
)

type matchResponse struct {
	Match        *match.Match        `json:"match"`
	Participants []match.Participant `json:"participants"`
}

type boardResponse struct {
	Match      match.Match         `json:"match"`
	TeamA      []match.Participant `json:"team_a"`
	TeamB      []match.Participant `json:"team_b"`
	Unassigned []match.Participant `json:"unassigned"`
}

func newBoardResponse(b *match.Board) boardResponse {
	return boardResponse{
		Match:      b.Match(),
		TeamA:      orEmpty(b.TeamA()),
		TeamB:      orEmpty(b.TeamB()),
		Unassigned: orEmpty(b.Unassigned()),
	}
}

// ScheduleMatchHandler creates a match and invites every active member.
func ScheduleMatchHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var in match.ScheduleInput
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, r, m, err)
			return
		}
		created, participants, err := svc.ScheduleMatch(r.Context(), sess, in)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusCreated, matchResponse{Match: created, Participants: orEmpty(participants)})
	}
}

func ListMatchesHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		matches, err := svc.ListMatches(r.Context(), sess, match.State(r.URL.Query().Get("state")))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(matches))
	}
}

func GetMatchHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		id := r.PathValue("id")
		found, err := svc.GetMatch(r.Context(), sess, id)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		participants, err := svc.ListParticipants(r.Context(), sess, id)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, matchResponse{Match: found, Participants: orEmpty(participants)})
	}
}

type confirmRequest struct {
	// PersonID defaults to the caller.
	PersonID  string `json:"person_id"`
	Attending bool   `json:"attending"`
}

func ConfirmHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var req confirmRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, m, err)
			return
		}
		if req.PersonID == "" {
			req.PersonID = sess.UserID
		}
		p, err := svc.Confirm(r.Context(), sess, r.PathValue("id"), req.PersonID, req.Attending)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func BoardHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		b, err := svc.LoadBoard(r.Context(), sess, r.PathValue("id"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, newBoardResponse(b))
	}
}

type assignRequest struct {
	ParticipantID string     `json:"participant_id"`
	Team          match.Team `json:"team"`
}

// AssignHandler moves one participant and saves the whole board.
func AssignHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var req assignRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, m, err)
			return
		}
		b, err := svc.AssignTeam(r.Context(), sess, r.PathValue("id"), req.ParticipantID, req.Team)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, newBoardResponse(b))
	}
}

func RandomizeHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		b, err := svc.RandomizeTeams(r.Context(), sess, r.PathValue("id"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, newBoardResponse(b))
	}
}

func StartHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		t, err := svc.Start(r.Context(), sess, r.PathValue("id"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func CompleteHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		t, err := svc.Complete(r.Context(), sess, r.PathValue("id"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func CancelHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var req cancelRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, m, err)
			return
		}
		t, err := svc.Cancel(r.Context(), sess, r.PathValue("id"), req.Reason)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

type recordRequest struct {
	ParticipantID       string     `json:"participant_id"`
	Kind                match.Kind `json:"kind"`
	AssistParticipantID string     `json:"assist_participant_id"`
}

// RecordStatisticHandler appends an event. A scheduled match is started first.
// When the event was stored but the score could not be read back, the error
// body carries the stored result.
func RecordStatisticHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var req recordRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, m, err)
			return
		}
		res, err := svc.RecordStatistic(r.Context(), sess, match.RecordInput{
			MatchID:             r.PathValue("id"),
			ParticipantID:       req.ParticipantID,
			Kind:                req.Kind,
			AssistParticipantID: req.AssistParticipantID,
		})
		if err != nil && res.Event.ID != "" {
			writeError(w, r, m, err, res)
			return
		}
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

type deleteStatisticResponse struct {
	Score match.Score `json:"score"`
}

func DeleteStatisticHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		score, err := svc.DeleteStatistic(r.Context(), sess, r.PathValue("id"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteStatisticResponse{Score: score})
	}
}

func ScoreboardHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		sb, err := svc.Scoreboard(r.Context(), sess, r.PathValue("id"))
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, sb)
	}
}

// LeaderboardHandler serves the player statistics of all completed matches.
func LeaderboardHandler(svc *match.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		stats, err := svc.Leaderboard(r.Context(), sess)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(stats))
	}
}
