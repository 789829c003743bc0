package store

import (
	"math"
	"sort"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

// scoreEpsilon is the smallest score movement reported as a change.
// Platforms jitter by hundredths of a point when recalculating stats.
const scoreEpsilon = 0.01

// DetectChangedPlayers diffs two snapshots of the same matchup and returns
// the IDs of players whose score moved by more than epsilon, or whose game
// or injury status flipped. Players present on only one side of the diff are
// not reported. The result is sorted.
func DetectChangedPlayers(old, new *model.MatchupSnapshot) []string {
	if old == nil || new == nil {
		return nil
	}

	prev := make(map[string]*model.PlayerSnapshot)
	for _, team := range []*model.TeamSnapshot{&old.HomeTeam, &old.AwayTeam} {
		for i := range team.Roster {
			p := &team.Roster[i]
			if id := p.Identity.ID(); id != "" {
				prev[id] = p
			}
		}
	}

	var changed []string
	for _, team := range []*model.TeamSnapshot{&new.HomeTeam, &new.AwayTeam} {
		for i := range team.Roster {
			p := &team.Roster[i]
			id := p.Identity.ID()
			if id == "" {
				continue
			}
			before, ok := prev[id]
			if !ok {
				continue
			}
			if playerChanged(before, p) {
				changed = append(changed, id)
			}
		}
	}

	sort.Strings(changed)
	return changed
}

func playerChanged(old, new *model.PlayerSnapshot) bool {
	if math.Abs(new.Metrics.Score-old.Metrics.Score) > scoreEpsilon {
		return true
	}
	if new.Metrics.GameStatus != old.Metrics.GameStatus {
		return true
	}
	return new.Context.InjuryStatus != old.Context.InjuryStatus
}
