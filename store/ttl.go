package store

import (
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

// ttlLocked returns the freshness window for a league. Any live starter in
// any cached matchup puts the whole league on the short window. This is
// recomputed on every check rather than cached, because live status flips as
// games kick off and end.
func (s *store) ttlLocked(lc *leagueCache) time.Duration {
	for _, m := range lc.matchups {
		if m.HasLiveStarter() {
			return s.liveTTL
		}
	}
	return s.idleTTL
}

// freshLocked reports whether a single snapshot is inside its league's TTL.
func (s *store) freshLocked(lc *leagueCache, snap *model.MatchupSnapshot) bool {
	return s.clock.Since(snap.LastUpdated) < s.ttlLocked(lc)
}

// leagueFreshLocked reports whether the league as a whole was refreshed
// inside its TTL. A league that has never completed a fetch is never fresh.
func (s *store) leagueFreshLocked(lc *leagueCache) bool {
	if lc.lastRefreshed.IsZero() {
		return false
	}
	return s.clock.Since(lc.lastRefreshed) < s.ttlLocked(lc)
}
