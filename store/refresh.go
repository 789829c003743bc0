package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

func (s *store) Refresh(ctx context.Context, key *model.LeagueKey, force bool) error {
	s.mu.Lock()
	// Each refresh cycle reports its own changes.
	s.changed = make(map[string]struct{})

	var keys []model.LeagueKey
	if key != nil {
		if _, ok := s.caches[*key]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("league %s is not cached", key)
		}
		keys = []model.LeagueKey{*key}
	} else {
		for k := range s.caches {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	}
	s.mu.Unlock()

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.refreshLeague(ctx, k, force)
	}
	return nil
}

// refreshLeague refetches every cached matchup in one league and records
// which players moved. Individual fetch failures keep the stale snapshot and
// are logged; the league still lands in the loaded state.
func (s *store) refreshLeague(ctx context.Context, key model.LeagueKey, force bool) {
	s.mu.Lock()
	lc, ok := s.caches[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	if !force && s.leagueFreshLocked(lc) {
		s.mu.Unlock()
		return
	}

	ids := make([]model.SnapshotID, 0, len(lc.matchups))
	prev := make(map[model.SnapshotID]*model.MatchupSnapshot, len(lc.matchups))
	for id, snap := range lc.matchups {
		ids = append(ids, id)
		prev[id] = snap
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].MatchupID < ids[j].MatchupID })

	lc.state = model.Loading()
	s.emitLocked(key)
	s.mu.Unlock()

	for _, id := range ids {
		if ctx.Err() != nil {
			// Stop starting new fetches; whatever landed already stays.
			break
		}

		snap, task := s.lookupOrBegin(id, true)
		if snap == nil {
			fetched, err := task.await(ctx)
			if err != nil {
				s.logger.WithError(err).WithField("matchup", id.String()).
					Warn("refresh fetch failed, keeping cached snapshot")
				continue
			}
			snap = fetched
		}
		s.recordChanges(prev[id], snap)
	}

	s.mu.Lock()
	// The league may have been evicted while fetches were running.
	if lc, ok := s.caches[key]; ok {
		lc.state = model.Loaded()
		lc.lastRefreshed = s.clock.Now()
		s.emitLocked(key)
	}
	s.mu.Unlock()
}

func (s *store) RunPeriodicRefresh(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	ticker := time.NewTicker(frequency)
	defer ticker.Stop()
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*frequency)
			if err := s.Refresh(ctx, nil, false); err != nil {
				s.logger.WithError(err).Warn("periodic refresh failed")
			}
			cancel()
		}
	}
}

func (s *store) recordChanges(old, new *model.MatchupSnapshot) {
	ids := DetectChangedPlayers(old, new)
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	for _, id := range ids {
		s.changed[id] = struct{}{}
	}
	s.mu.Unlock()
}

func (s *store) ChangedPlayers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.changed))
	for id := range s.changed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
