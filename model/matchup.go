package model

import (
	"fmt"
	"time"
)

// TeamSide names a side of the platform's true matchup orientation.
type TeamSide string

const (
	SideHome TeamSide = "home"
	SideAway TeamSide = "away"
)

func (s TeamSide) Opposite() TeamSide {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// SnapshotID identifies one matchup snapshot within a league week.
type SnapshotID struct {
	LeagueID  string   `json:"league_id"`
	MatchupID string   `json:"matchup_id"`
	Platform  Platform `json:"platform"`
	Week      int      `json:"week"`
}

func (id SnapshotID) String() string {
	return fmt.Sprintf("%s/%s/w%d/m%s", id.Platform, id.LeagueID, id.Week, id.MatchupID)
}

type MatchupMeta struct {
	Status       string     `json:"status"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	IsPlayoff    bool       `json:"is_playoff"`
	IsChopped    bool       `json:"is_chopped"`
	IsEliminated bool       `json:"is_eliminated"`
}

type TeamInfo struct {
	TeamID    string `json:"team_id"`
	OwnerName string `json:"owner_name"`
	Record    string `json:"record,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type TeamScore struct {
	Actual    float64 `json:"actual"`
	Projected float64 `json:"projected"`
	// WinProbability is this side's chance of winning, between 0 and 1. The
	// two sides of a matchup always sum to 1.
	WinProbability float64 `json:"win_probability"`
	// Margin is this side's actual score minus the other side's.
	Margin float64 `json:"margin"`
}

type TeamSnapshot struct {
	Info   TeamInfo         `json:"info"`
	Score  TeamScore        `json:"score"`
	Roster []PlayerSnapshot `json:"roster"`
}

// EliminatedOpponentName is the owner name carried by the synthesized
// opponent on placeholder snapshots for teams knocked out of their bracket.
const EliminatedOpponentName = "Eliminated"

// MatchupSnapshot is one fully-hydrated matchup. MyTeam and OpponentTeam are
// the perspective labeling of HomeTeam and AwayTeam, never a third copy of
// the data. A snapshot is immutable once built; refreshes replace it whole.
type MatchupSnapshot struct {
	ID           SnapshotID    `json:"id"`
	Meta         MatchupMeta   `json:"meta"`
	MyTeam       TeamSnapshot  `json:"my_team"`
	OpponentTeam TeamSnapshot  `json:"opponent_team"`
	HomeTeam     TeamSnapshot  `json:"home_team"`
	AwayTeam     TeamSnapshot  `json:"away_team"`
	MyTeamSide   TeamSide      `json:"my_team_side"`
	League       LeagueSummary `json:"league"`
	LastUpdated  time.Time     `json:"last_updated"`
}

// HasLiveStarter reports whether any starter on either side is in a game
// that is currently being played.
func (m *MatchupSnapshot) HasLiveStarter() bool {
	for _, t := range []*TeamSnapshot{&m.HomeTeam, &m.AwayTeam} {
		for i := range t.Roster {
			p := &t.Roster[i]
			if p.Context.IsStarter && p.Metrics.GameStatus.IsLive() {
				return true
			}
		}
	}
	return false
}
