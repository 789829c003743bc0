package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
	"github.com/Grant-Perry/BigWarRoom-sub012/settings"
	"github.com/Grant-Perry/BigWarRoom-sub012/store"
)

// errorResponse is the JSON body for every failure. Kind lets the UI tell a
// lookup failure apart from data the user chose to hide.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

const (
	kindBadRequest       = "bad_request"
	kindNotFound         = "not_found"
	kindEliminatedHidden = "eliminated_hidden"
	kindInternal         = "internal"
)

// renderError maps the store's error taxonomy onto HTTP statuses. The
// not-found family and the deliberate-exclusion case both answer 404, but
// with distinct kinds.
func renderError(w http.ResponseWriter, render *render.Render, err error) {
	switch {
	case errors.Is(err, store.ErrEliminatedHidden):
		render.JSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: kindEliminatedHidden})
	case errors.Is(err, provider.ErrLeagueNotFound),
		errors.Is(err, provider.ErrMatchupNotFound),
		errors.Is(err, provider.ErrTeamNotIdentified):
		render.JSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: kindNotFound})
	default:
		render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: kindInternal})
	}
}

func badRequest(w http.ResponseWriter, render *render.Render, msg string) {
	render.JSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: kindBadRequest})
}

// parseLeagueKey builds the cache key named by the URL. The season is the
// server's; clients only address leagues by platform, ID, and week.
func parseLeagueKey(r *http.Request, season int) (model.LeagueKey, error) {
	platform, err := model.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		return model.LeagueKey{}, err
	}
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		return model.LeagueKey{}, fmt.Errorf("error parsing week: %w", err)
	}
	return model.LeagueKey{
		LeagueID: chi.URLParam(r, "leagueID"),
		Platform: platform,
		Season:   season,
		Week:     week,
	}, nil
}

func parseSnapshotID(r *http.Request) (model.SnapshotID, error) {
	platform, err := model.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		return model.SnapshotID{}, err
	}
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		return model.SnapshotID{}, fmt.Errorf("error parsing week: %w", err)
	}
	return model.SnapshotID{
		LeagueID:  chi.URLParam(r, "leagueID"),
		MatchupID: chi.URLParam(r, "matchupID"),
		Platform:  platform,
		Week:      week,
	}, nil
}

func rootHandler(render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"service": "matchup-cache"})
	}
}

func leaguesHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, st.Leagues())
	}
}

func leagueHandler(st store.Store, season int, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := parseLeagueKey(r, season)
		if err != nil {
			badRequest(w, render, err.Error())
			return
		}
		snap, ok := st.LeagueState(key)
		if !ok {
			render.JSON(w, http.StatusNotFound, errorResponse{
				Error: fmt.Sprintf("league %s is not cached", key),
				Kind:  kindNotFound,
			})
			return
		}
		render.JSON(w, http.StatusOK, snap)
	}
}

func leagueMatchupsHandler(st store.Store, season int, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := parseLeagueKey(r, season)
		if err != nil {
			badRequest(w, render, err.Error())
			return
		}
		render.JSON(w, http.StatusOK, st.CachedMatchups(key))
	}
}

// warmRequest is the body of POST /leagues/warm.
type warmRequest struct {
	Leagues []model.LeagueRef `json:"leagues"`
	Week    int               `json:"week"`
}

func warmHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req warmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, render, fmt.Sprintf("error parsing warm request: %v", err))
			return
		}
		if len(req.Leagues) == 0 {
			badRequest(w, render, "warm request needs at least one league")
			return
		}
		if req.Week < 1 {
			badRequest(w, render, fmt.Sprintf("invalid week: %d", req.Week))
			return
		}

		st.WarmLeagues(req.Leagues, req.Week)
		render.JSON(w, http.StatusAccepted, map[string]int{"warmed": len(req.Leagues)})
	}
}

func cachedMatchupHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseSnapshotID(r)
		if err != nil {
			badRequest(w, render, err.Error())
			return
		}
		snap, ok := st.CachedMatchup(id)
		if !ok {
			render.JSON(w, http.StatusNotFound, errorResponse{
				Error: fmt.Sprintf("matchup %s is not cached", id),
				Kind:  kindNotFound,
			})
			return
		}
		render.JSON(w, http.StatusOK, snap)
	}
}

func hydrateMatchupHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseSnapshotID(r)
		if err != nil {
			badRequest(w, render, err.Error())
			return
		}
		snap, err := st.HydrateMatchup(r.Context(), id)
		if err != nil {
			renderError(w, render, err)
			return
		}
		render.JSON(w, http.StatusOK, snap)
	}
}

func refreshHandler(st store.Store, season int, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force := r.URL.Query().Get("force") == "true"

		var key *model.LeagueKey
		if leagueID := r.URL.Query().Get("league"); leagueID != "" {
			platform, err := model.ParsePlatform(r.URL.Query().Get("platform"))
			if err != nil {
				badRequest(w, render, err.Error())
				return
			}
			week, err := strconv.Atoi(r.URL.Query().Get("week"))
			if err != nil {
				badRequest(w, render, fmt.Sprintf("error parsing week: %v", err))
				return
			}
			key = &model.LeagueKey{LeagueID: leagueID, Platform: platform, Season: season, Week: week}
		}

		if err := st.Refresh(r.Context(), key, force); err != nil {
			renderError(w, render, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string][]string{"changed_players": st.ChangedPlayers()})
	}
}

func allPlayersHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, st.AllPlayers())
	}
}

func changedPlayersHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string][]string{"changed_players": st.ChangedPlayers()})
	}
}

func clearCachesHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st.ClearCaches()
		render.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

func cleanupStaleLeaguesHandler(st store.Store, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.CleanupStaleLeagues(r.Context()); err != nil {
			renderError(w, render, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"status": "done"})
	}
}

type showEliminatedResponse struct {
	ShowEliminatedLeagues bool `json:"show_eliminated_leagues"`
}

func getShowEliminatedHandler(prefs *settings.Prefs, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, showEliminatedResponse{ShowEliminatedLeagues: prefs.ShowEliminatedLeagues()})
	}
}

func setShowEliminatedHandler(prefs *settings.Prefs, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req showEliminatedResponse
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, render, fmt.Sprintf("error parsing settings request: %v", err))
			return
		}
		prefs.SetShowEliminatedLeagues(req.ShowEliminatedLeagues)
		render.JSON(w, http.StatusOK, showEliminatedResponse{ShowEliminatedLeagues: prefs.ShowEliminatedLeagues()})
	}
}
