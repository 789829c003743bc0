package store

import (
	"fmt"
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
)

// Builder shapes raw provider data into immutable matchup snapshots. Its
// methods are pure: same inputs, same snapshot.
type Builder struct {
	// PlayoffFallbackWeek is the playoff heuristic used when the league's
	// settings are unresolved or carry no bracket. Zero disables it.
	PlayoffFallbackWeek int
}

// Build produces the four team views from the two raw sides: home and away
// keep the platform's schedule orientation, mine and opponent are the same
// values relabeled around myTeamID. Win probability stays relative to each
// view's own side.
func (b Builder) Build(raw *provider.RawMatchup, myTeamID string, id model.SnapshotID,
	league model.LeagueSummary, now time.Time) (*model.MatchupSnapshot, error) {

	var side model.TeamSide
	switch myTeamID {
	case raw.Home.TeamID:
		side = model.SideHome
	case raw.Away.TeamID:
		side = model.SideAway
	default:
		return nil, fmt.Errorf("team %s is on neither side of matchup %s: %w",
			myTeamID, raw.MatchupID, provider.ErrTeamNotIdentified)
	}

	home := buildTeam(raw.Home, raw.Away, raw.HomeWinProbability)
	away := buildTeam(raw.Away, raw.Home, 1-raw.HomeWinProbability)

	mine, opponent := home, away
	if side == model.SideAway {
		mine, opponent = away, home
	}

	return &model.MatchupSnapshot{
		ID: id,
		Meta: model.MatchupMeta{
			Status:       raw.Status,
			StartTime:    raw.StartTime,
			IsPlayoff:    b.isPlayoffWeek(league, id.Week),
			IsChopped:    league.IsChopped(),
			IsEliminated: eliminatedFlag(raw, league),
		},
		MyTeam:       mine,
		OpponentTeam: opponent,
		HomeTeam:     home,
		AwayTeam:     away,
		MyTeamSide:   side,
		League:       league.Clone(),
		LastUpdated:  now,
	}, nil
}

// BuildChopped shapes a week in an elimination-format league, where the
// user's starters score against the whole field instead of one opponent. The
// field is synthesized as the away side so the snapshot keeps the usual
// two-team shape.
func (b Builder) BuildChopped(roster *provider.RawTeam, myTeamID string, id model.SnapshotID,
	league model.LeagueSummary, now time.Time) (*model.MatchupSnapshot, error) {

	raw := provider.RawMatchup{
		MatchupID:          id.MatchupID,
		Status:             "chopped",
		Home:               *roster,
		Away:               provider.RawTeam{TeamID: "field", OwnerName: "The Field"},
		HomeWinProbability: 0.5,
	}
	return b.Build(&raw, myTeamID, id, league, now)
}

// BuildEliminated synthesizes the placeholder shown when the user's team is
// out of the winners bracket but eliminated leagues are still visible.
func (b Builder) BuildEliminated(roster *provider.RawTeam, id model.SnapshotID,
	league model.LeagueSummary, now time.Time) (*model.MatchupSnapshot, error) {

	raw := provider.RawMatchup{
		MatchupID: id.MatchupID,
		Status:    "eliminated",
		Home:      *roster,
		Away:      provider.RawTeam{TeamID: "eliminated", OwnerName: model.EliminatedOpponentName},
	}
	return b.Build(&raw, roster.TeamID, id, league, now)
}

func (b Builder) isPlayoffWeek(league model.LeagueSummary, week int) bool {
	if start, ok := league.PlayoffWeekStart(); ok {
		return week >= start
	}
	return b.PlayoffFallbackWeek > 0 && week >= b.PlayoffFallbackWeek
}

// eliminatedFlag spots elimination two ways: a synthesized placeholder
// opponent, or a chopped-league week where both sides are empty and
// scoreless.
func eliminatedFlag(raw *provider.RawMatchup, league model.LeagueSummary) bool {
	if raw.Home.OwnerName == model.EliminatedOpponentName || raw.Away.OwnerName == model.EliminatedOpponentName {
		return true
	}
	if !league.IsChopped() {
		return false
	}
	return len(raw.Home.Players) == 0 && len(raw.Away.Players) == 0 &&
		raw.Home.Score == 0 && raw.Away.Score == 0
}

func buildTeam(own, other provider.RawTeam, winProbability float64) model.TeamSnapshot {
	roster := make([]model.PlayerSnapshot, 0, len(own.Players))
	for _, p := range own.Players {
		roster = append(roster, buildPlayer(p))
	}

	return model.TeamSnapshot{
		Info: model.TeamInfo{
			TeamID:    own.TeamID,
			OwnerName: own.OwnerName,
			Record:    own.Record,
			AvatarURL: own.AvatarURL,
		},
		Score: model.TeamScore{
			Actual:         own.Score,
			Projected:      own.Projected,
			WinProbability: winProbability,
			Margin:         own.Score - other.Score,
		},
		Roster: roster,
	}
}

func buildPlayer(p provider.RawPlayer) model.PlayerSnapshot {
	return model.PlayerSnapshot{
		Identity: model.PlayerIdentity{
			SleeperID: p.SleeperID,
			ESPNID:    p.ESPNID,
			Name:      p.Name,
		},
		Metrics: model.PlayerMetrics{
			Score:        p.Score,
			Projected:    p.Projected,
			Delta:        p.Score - p.Projected,
			LastActivity: p.LastActivity,
			GameStatus:   p.GameStatus,
		},
		Context: model.PlayerContext{
			Position:     model.ParsePosition(p.Position),
			LineupSlot:   p.LineupSlot,
			IsStarter:    p.IsStarter,
			Team:         model.ParseTeam(p.NFLTeam),
			InjuryStatus: p.InjuryStatus,
			Jersey:       p.Jersey,
			Kickoff:      p.Kickoff,
		},
	}
}
