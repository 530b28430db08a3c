package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/session"
)

type createClubResponse struct {
	Club    *club.Club   `json:"club"`
	Founder *club.Member `json:"founder"`
}

// CreateClubHandler registers a new club and its founding admin. It runs
// without a session since the club does not exist yet.
func CreateClubHandler(store club.ClubStore, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewClub
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, r, m, err)
			return
		}
		c, founder, err := store.CreateClub(r.Context(), in)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		log.Info("Club created", "club_id", c.ID, "founder_id", founder.ID)
		writeJSON(w, http.StatusCreated, createClubResponse{Club: c, Founder: founder})
	}
}

// ListMembersHandler lists the club's members. With ?search= it returns
// ranked suggestions instead; ?active=true hides inactive members.
func ListMembersHandler(store club.ClubStore, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		if q := r.URL.Query().Get("search"); q != "" {
			suggestions, err := store.SearchMembers(r.Context(), sess, q)
			if err != nil {
				WriteError(w, r, m, err)
				return
			}
			writeJSON(w, http.StatusOK, orEmpty(suggestions))
			return
		}
		members, err := store.ListMembers(r.Context(), sess, r.URL.Query().Get("active") == "true")
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(members))
	}
}

func RegisterMemberHandler(store club.ClubStore, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var in club.NewMember
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, r, m, err)
			return
		}
		member, err := store.RegisterMember(r.Context(), sess, in)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusCreated, member)
	}
}

type updateMemberRequest struct {
	Active *bool         `json:"active"`
	Role   *session.Role `json:"role"`
}

// UpdateMemberHandler toggles a member's active flag and/or role.
func UpdateMemberHandler(store club.ClubStore, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		var req updateMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, m, err)
			return
		}
		if req.Active == nil && req.Role == nil {
			WriteError(w, r, m, apperr.Invalid("nothing to update"))
			return
		}
		id := r.PathValue("id")
		if req.Active != nil {
			if err := store.SetMemberActive(r.Context(), sess, id, *req.Active); err != nil {
				WriteError(w, r, m, err)
				return
			}
		}
		if req.Role != nil {
			if err := store.SetMemberRole(r.Context(), sess, id, *req.Role); err != nil {
				WriteError(w, r, m, err)
				return
			}
		}
		member, err := store.GetMember(r.Context(), sess, id)
		if err != nil {
			WriteError(w, r, m, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	}
}

// orEmpty keeps empty lists from encoding as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
