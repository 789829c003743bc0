package provider

import (
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

// RawPlayer is one rostered player as assembled by a platform provider:
// platform scoring joined with directory identity and schedule state.
// Position and NFLTeam stay as feed strings; the snapshot builder parses
// them into model types.
type RawPlayer struct {
	SleeperID    string
	ESPNID       string
	Name         string
	Position     string
	NFLTeam      string
	LineupSlot   string
	IsStarter    bool
	Score        float64
	Projected    float64
	GameStatus   model.GameStatus
	InjuryStatus string
	Jersey       int
	Kickoff      time.Time
	LastActivity time.Time
}

// RawTeam is one side of a raw matchup.
type RawTeam struct {
	TeamID    string
	OwnerName string
	Record    string
	AvatarURL string
	Score     float64
	Projected float64
	Players   []RawPlayer
}

// RawMatchup is a platform matchup in true home/away orientation, before
// the builder relabels it from the user's perspective.
type RawMatchup struct {
	MatchupID string
	Status    string
	StartTime *time.Time
	Home      RawTeam
	Away      RawTeam
	// HomeWinProbability is the home side's chance of winning, 0 to 1.
	HomeWinProbability float64
}

// HasTeam reports whether either side of the matchup is the given team.
func (m *RawMatchup) HasTeam(teamID string) bool {
	return m.Home.TeamID == teamID || m.Away.TeamID == teamID
}
