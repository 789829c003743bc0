package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
)

// ErrEliminatedHidden reports that the user's team is out of its bracket and
// eliminated leagues are hidden by preference. It is a deliberate exclusion,
// not a lookup failure, and callers must not fold it into their not-found
// handling.
var ErrEliminatedHidden = errors.New("team eliminated and hidden by preference")

// fetchTask is the joinable handle for one in-flight fetch. Every caller
// waiting on the same snapshot ID awaits the same task and observes the same
// completion value.
type fetchTask struct {
	done chan struct{}
	snap *model.MatchupSnapshot
	err  error
}

func (t *fetchTask) await(ctx context.Context) (*model.MatchupSnapshot, error) {
	select {
	case <-t.done:
		return t.snap, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *store) HydrateMatchup(ctx context.Context, id model.SnapshotID) (*model.MatchupSnapshot, error) {
	snap, task := s.lookupOrBegin(id, false)
	if snap != nil {
		return snap, nil
	}
	return task.await(ctx)
}

// lookupOrBegin returns a fresh cached snapshot when one exists, otherwise
// the task to await: the in-flight one if present, or a newly started fetch.
// At most one task exists per ID.
func (s *store) lookupOrBegin(id model.SnapshotID, bypassFreshness bool) (*model.MatchupSnapshot, *fetchTask) {
	key := s.keyFor(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	lc := s.ensureCacheLocked(key, model.LeagueRef{LeagueID: id.LeagueID, Platform: id.Platform})

	if !bypassFreshness {
		if snap, ok := lc.matchups[id]; ok && s.freshLocked(lc, snap) {
			return snap, nil
		}
	}

	if task, ok := lc.pending[id]; ok {
		return nil, task
	}

	task := &fetchTask{done: make(chan struct{})}
	lc.pending[id] = task
	go s.runFetch(key, id, task)
	return nil, task
}

// runFetch performs one upstream fetch and lands the result. It runs on a
// detached context: callers that give up are released by await, but the
// fetch itself finishes so the result can serve the next reader.
func (s *store) runFetch(key model.LeagueKey, id model.SnapshotID, task *fetchTask) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	snap, err := s.fetchSnapshot(ctx, key, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	lc := s.caches[key]
	if lc != nil {
		delete(lc.pending, id)
	}

	switch {
	case err == nil && lc != nil:
		lc.matchups[id] = snap
		lc.state = model.Loaded()
		lc.lastRefreshed = s.clock.Now()
		s.emitLocked(key)
	case errors.Is(err, provider.ErrLeagueNotFound):
		// The league is gone upstream. Evict rather than leave a
		// permanently failing entry behind.
		s.logger.WithField("league", key.String()).Warn("league removed upstream, evicting cache entry")
		s.dropLeagueLocked(key)
	case err != nil && !errors.Is(err, ErrEliminatedHidden) && lc != nil && len(lc.matchups) == 0:
		lc.state = model.Errored(err.Error())
		s.emitLocked(key)
	}

	task.snap, task.err = snap, err
	close(task.done)
}

// fetchSnapshot is the hydrate pipeline: resolve the league, identify the
// user's team, pull the week's data, and shape it into a snapshot. Failed
// fetches cache nothing; retry is caller-driven.
func (s *store) fetchSnapshot(ctx context.Context, key model.LeagueKey, id model.SnapshotID) (*model.MatchupSnapshot, error) {
	league, err := s.leagues.ResolveLeague(ctx, id.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("resolving league %s: %w", id.LeagueID, err)
	}

	summary := s.resolveSummary(key, *league)

	prov, err := s.providers.MatchupProvider(*league, key.Season, key.Week)
	if err != nil {
		return nil, fmt.Errorf("building provider for %s: %w", key, err)
	}

	myTeamID, err := prov.IdentifyMyTeamID(ctx)
	if err != nil {
		return nil, fmt.Errorf("identifying my team in %s: %w", key, err)
	}

	now := s.clock.Now()

	if summary.IsChopped() {
		roster, err := prov.FetchMyRoster(ctx, myTeamID)
		if err != nil {
			return nil, fmt.Errorf("fetching chopped roster for %s: %w", key, err)
		}
		return s.builder.BuildChopped(roster, myTeamID, id, summary, now)
	}

	raws, err := prov.FetchMatchups(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching matchups for %s: %w", key, err)
	}

	var mine *provider.RawMatchup
	if len(raws) > 0 {
		mine, err = prov.FindMyMatchup(ctx, myTeamID)
		if err != nil {
			return nil, fmt.Errorf("finding my matchup in %s: %w", key, err)
		}
	}
	if mine == nil {
		return s.missingMatchupOutcome(ctx, prov, *league, myTeamID, id, summary, now)
	}

	return s.builder.Build(mine, myTeamID, id, summary, now)
}

// missingMatchupOutcome decides what an absent matchup means: on playoff
// weeks a team missing from the bracket is eliminated, which yields either a
// placeholder snapshot or a deliberate-exclusion error depending on the
// user's preference. Anything else is a plain not-found.
func (s *store) missingMatchupOutcome(ctx context.Context, prov provider.MatchupProvider, league provider.League,
	myTeamID string, id model.SnapshotID, summary model.LeagueSummary, now time.Time) (*model.MatchupSnapshot, error) {

	playoff, err := s.playoffs.IsPlayoffWeek(ctx, league, id.Week)
	if err != nil {
		return nil, fmt.Errorf("checking playoff week for %s: %w", id, err)
	}

	if playoff {
		alive, err := s.playoffs.InWinnersBracket(ctx, league, id.Week, myTeamID)
		if err != nil {
			return nil, fmt.Errorf("checking winners bracket for %s: %w", id, err)
		}
		if !alive {
			if !s.prefs.ShowEliminatedLeagues() {
				return nil, fmt.Errorf("team %s in league %s: %w", myTeamID, id.LeagueID, ErrEliminatedHidden)
			}
			roster, err := prov.FetchMyRoster(ctx, myTeamID)
			if err != nil {
				// The placeholder is still useful without a roster.
				s.logger.WithError(err).WithField("matchup", id.String()).
					Debug("building eliminated placeholder without roster")
				roster = &provider.RawTeam{TeamID: myTeamID}
			}
			return s.builder.BuildEliminated(roster, id, summary, now)
		}
	}

	return nil, fmt.Errorf("team %s in league %s week %d: %w", myTeamID, id.LeagueID, id.Week, provider.ErrMatchupNotFound)
}
