package model

import (
	"strings"
	"time"
)

// GameStatus is where a player's real-world NFL game stands this week.
type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusLive      GameStatus = "live"
	GameStatusFinal     GameStatus = "final"
	// GameStatusBye marks a player whose team does not play this week.
	GameStatusBye GameStatus = "bye"
)

func (g GameStatus) IsLive() bool {
	return g == GameStatusLive
}

// PlayerIdentity carries the cross-platform IDs for one player. SleeperID is
// the canonical key when present; ESPNID covers players surfaced only by the
// scoreboard feed.
type PlayerIdentity struct {
	SleeperID string `json:"sleeper_id,omitempty"`
	ESPNID    string `json:"espn_id,omitempty"`
	Name      string `json:"name"`
}

// ID returns the canonical identifier used for change tracking.
func (p PlayerIdentity) ID() string {
	if p.SleeperID != "" {
		return p.SleeperID
	}
	return p.ESPNID
}

// PlayerMetrics is the scoring state of a player within one matchup week.
// Delta is actual minus projected.
type PlayerMetrics struct {
	Score        float64    `json:"score"`
	Projected    float64    `json:"projected"`
	Delta        float64    `json:"delta"`
	LastActivity time.Time  `json:"last_activity,omitempty"`
	GameStatus   GameStatus `json:"game_status"`
}

// PlayerContext is everything about a player that frames the metrics: where
// they line up, who they play for, and whether their game has kicked off.
type PlayerContext struct {
	Position     Position  `json:"position"`
	LineupSlot   string    `json:"lineup_slot,omitempty"`
	IsStarter    bool      `json:"is_starter"`
	Team         *NFLTeam  `json:"team,omitempty"`
	InjuryStatus string    `json:"injury_status,omitempty"`
	Jersey       int       `json:"jersey,omitempty"`
	Kickoff      time.Time `json:"kickoff,omitempty"`
}

// PlayerSnapshot is one rostered player inside a matchup snapshot.
type PlayerSnapshot struct {
	Identity PlayerIdentity `json:"identity"`
	Metrics  PlayerMetrics  `json:"metrics"`
	Context  PlayerContext  `json:"context"`
}

// Player is one entry in the NFL player directory, keyed by Sleeper ID. The
// directory feeds names, positions, and injury designations into snapshots
// because matchup payloads carry bare player IDs.
type Player struct {
	ID           string
	ESPNID       string
	FirstName    string
	LastName     string
	Position     Position
	Team         *NFLTeam
	Jersey       int
	InjuryStatus string
	Active       bool
	Updated      time.Time
}

func (p *Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Take a full name, like "Deebo Samuel Sr." and return "Deebo Samuel".
func TrimNameSuffix(fullName string) string {
	suffixList := []string{
		"Jr.",
		"Sr.",
		"II",
		"III",
		"IV",
	}

	for _, s := range suffixList {
		fullName = strings.TrimSuffix(fullName, s)
	}

	return strings.TrimSpace(fullName)
}
