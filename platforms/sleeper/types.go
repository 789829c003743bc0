package sleeper

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire types for the Sleeper API. Fields not consumed anywhere are omitted;
// Sleeper payloads carry far more than the matchup views need.

type user struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type leagueSettings struct {
	PlayoffWeekStart int `json:"playoff_week_start"`
	PlayoffTeams     int `json:"playoff_teams"`
}

type league struct {
	LeagueID        string            `json:"league_id"`
	Name            string            `json:"name"`
	Season          string            `json:"season"`
	Status          string            `json:"status"`
	TotalRosters    int               `json:"total_rosters"`
	RosterPositions []string          `json:"roster_positions"`
	Settings        leagueSettings    `json:"settings"`
	Metadata        map[string]string `json:"metadata"`
	Avatar          string            `json:"avatar"`
}

// chopped reports whether the league runs an elimination format. Sleeper has
// no first-class field for it, so detection is the metadata flag or a name
// convention.
func (l *league) chopped() bool {
	if v, ok := l.Metadata["chopped"]; ok && strings.EqualFold(v, "true") {
		return true
	}
	name := strings.ToLower(l.Name)
	return strings.Contains(name, "chopped") || strings.Contains(name, "guillotine")
}

type rosterSettings struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

type roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	CoOwners []string       `json:"co_owners"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Settings rosterSettings `json:"settings"`
}

// record renders the win-loss line shown under an owner's name.
func (r *roster) record() string {
	if r.Settings.Ties > 0 {
		return fmt.Sprintf("%d-%d-%d", r.Settings.Wins, r.Settings.Losses, r.Settings.Ties)
	}
	return fmt.Sprintf("%d-%d", r.Settings.Wins, r.Settings.Losses)
}

type leagueUser struct {
	UserID      string            `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Avatar      string            `json:"avatar"`
	Metadata    map[string]string `json:"metadata"`
}

// teamName prefers the owner's custom team name over their display name.
func (u *leagueUser) teamName() string {
	if name, ok := u.Metadata["team_name"]; ok && name != "" {
		return name
	}
	return u.DisplayName
}

// matchupRow is one roster's half of a matchup. Two rows share a matchup_id.
type matchupRow struct {
	RosterID       int                `json:"roster_id"`
	MatchupID      int                `json:"matchup_id"`
	Points         float64            `json:"points"`
	Players        []string           `json:"players"`
	Starters       []string           `json:"starters"`
	StartersPoints []float64          `json:"starters_points"`
	PlayersPoints  map[string]float64 `json:"players_points"`
}

// bracketSlot is one participant in a winners-bracket match. Sleeper encodes
// a decided slot as a bare roster ID and an undecided one as an object
// referencing the match it comes from.
type bracketSlot struct {
	RosterID int
	Decided  bool
}

func (s *bracketSlot) UnmarshalJSON(b []byte) error {
	var id int
	if err := json.Unmarshal(b, &id); err == nil {
		s.RosterID = id
		s.Decided = true
		return nil
	}
	*s = bracketSlot{}
	return nil
}

type bracketMatch struct {
	Round   int         `json:"r"`
	MatchID int         `json:"m"`
	Team1   bracketSlot `json:"t1"`
	Team2   bracketSlot `json:"t2"`
	Winner  *int        `json:"w"`
	Loser   *int        `json:"l"`
}

// has reports whether the given roster holds a decided slot in this match.
func (m *bracketMatch) has(rosterID int) bool {
	return (m.Team1.Decided && m.Team1.RosterID == rosterID) ||
		(m.Team2.Decided && m.Team2.RosterID == rosterID)
}

type nflState struct {
	Week        int    `json:"week"`
	DisplayWeek int    `json:"display_week"`
	SeasonType  string `json:"season_type"`
	Season      string `json:"season"`
}

// projectionRow is one player's weekly projection from the stats host.
type projectionRow struct {
	PlayerID string             `json:"player_id"`
	Stats    map[string]float64 `json:"stats"`
}
