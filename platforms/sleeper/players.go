package sleeper

import (
	"fmt"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

// sleeperPlayer is one entry in the /v1/players/nfl payload. Sleeper returns
// espn_id as a number, so it is converted to a string on the way out.
type sleeperPlayer struct {
	ID           string `json:"player_id"`
	ESPNID       int    `json:"espn_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	JerseyNumber int    `json:"number"`
	InjuryStatus string `json:"injury_status"`
	Active       bool   `json:"active"`
}

func (p *sleeperPlayer) toPlayer() *model.Player {
	return &model.Player{
		ID:           p.ID,
		ESPNID:       formatESPNID(p.ESPNID),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Position:     model.ParsePosition(p.Position),
		Team:         model.ParseTeam(p.Team),
		Jersey:       p.JerseyNumber,
		InjuryStatus: p.InjuryStatus,
		Active:       p.Active,
	}
}

func formatESPNID(id int) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("%d", id)
}
