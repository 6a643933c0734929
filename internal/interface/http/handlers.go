package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kudos-hub/kudos-engine/internal/application/command"
	"github.com/kudos-hub/kudos-engine/internal/application/query"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

type api struct {
	handlers Handlers
	log      *logger.Logger
}

// health reports liveness for the load balancer.
func (a *api) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getFeed serves GET /api/kudos.
func (a *api) getFeed(w http.ResponseWriter, r *http.Request) {
	q := query.GetFeedQuery{
		ViewerID:   userFrom(r),
		Category:   shared.Category(r.URL.Query().Get("category")),
		Search:     r.URL.Query().Get("search"),
		Pagination: paginationFrom(r),
	}

	res, err := a.handlers.GetFeed.Handle(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// getStats serves GET /api/kudos/stats.
func (a *api) getStats(w http.ResponseWriter, r *http.Request) {
	res, err := a.handlers.GetStats.Handle(r.Context(), query.GetStatsQuery{UserID: userFrom(r)})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// getLeaderboard serves GET /api/kudos/leaderboard.
func (a *api) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := query.GetLeaderboardQuery{}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		q.Limit = limit
	}

	res, err := a.handlers.GetLeaderboard.Handle(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type submitKudosRequest struct {
	To       string `json:"to"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// submitKudos serves POST /api/kudos.
func (a *api) submitKudos(w http.ResponseWriter, r *http.Request) {
	var req submitKudosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cmd := command.SubmitKudosCommand{
		SenderID:    userFrom(r),
		RecipientID: shared.UserID(req.To),
		Category:    shared.Category(req.Category),
		Message:     req.Message,
	}

	res, err := a.handlers.SubmitKudos.Handle(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// toggleLike serves POST /api/kudos/{id}/like.
func (a *api) toggleLike(w http.ResponseWriter, r *http.Request) {
	cmd := command.ToggleLikeCommand{
		KudosID: shared.KudosID(r.PathValue("id")),
		UserID:  userFrom(r),
	}

	res, err := a.handlers.ToggleLike.Handle(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func paginationFrom(r *http.Request) shared.Pagination {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return shared.NewPagination(page, size)
}
