package model

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies which fantasy platform a league lives on.
type Platform string

const (
	PlatformSleeper Platform = "sleeper"
	PlatformESPN    Platform = "espn"
)

func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sleeper":
		return PlatformSleeper, nil
	case "espn":
		return PlatformESPN, nil
	default:
		return "", fmt.Errorf("%s is not a supported platform", s)
	}
}

// LeagueKey identifies one cache partition: a league on a platform for a
// single season and week. It is comparable and used directly as a map key.
type LeagueKey struct {
	LeagueID string   `json:"league_id"`
	Platform Platform `json:"platform"`
	Season   int      `json:"season"`
	Week     int      `json:"week"`
}

func (k LeagueKey) String() string {
	return fmt.Sprintf("%s/%s/%d/w%d", k.Platform, k.LeagueID, k.Season, k.Week)
}

// LeagueRef is the locally-known identity of a league: enough to create a
// skeleton cache entry before the platform has been asked anything.
type LeagueRef struct {
	LeagueID string   `json:"league_id"`
	Name     string   `json:"name"`
	Platform Platform `json:"platform"`
}

// LeagueDetails holds the fields that can only be learned by resolving the
// league on its platform. Keeping them behind a separate type makes "not yet
// resolved" (no details) distinct from "resolved, league has no playoff
// bracket" (details with a zero start week).
type LeagueDetails struct {
	PlayoffWeekStart int  `json:"playoff_week_start"`
	IsChopped        bool `json:"is_chopped"`
}

// LeagueSummary is the per-key league metadata. A summary is created once
// for its key and then mutated in place as information arrives; it is never
// rebuilt. Details stays nil until the first successful league resolution.
type LeagueSummary struct {
	LeagueID      string         `json:"league_id"`
	Name          string         `json:"name"`
	Platform      Platform       `json:"platform"`
	Week          int            `json:"week"`
	TotalMatchups int            `json:"total_matchups"`
	Details       *LeagueDetails `json:"details,omitempty"`
}

// Resolve records the platform-resolved details. The first resolution wins;
// later calls are no-ops so a summary can never flip between answers.
func (s *LeagueSummary) Resolve(d LeagueDetails) {
	if s.Details == nil {
		s.Details = &d
	}
}

func (s *LeagueSummary) Resolved() bool {
	return s.Details != nil
}

func (s *LeagueSummary) IsChopped() bool {
	return s.Details != nil && s.Details.IsChopped
}

// PlayoffWeekStart returns the resolved playoff start week. ok is false when
// the summary is unresolved or the league has no playoff bracket configured.
func (s *LeagueSummary) PlayoffWeekStart() (int, bool) {
	if s.Details == nil || s.Details.PlayoffWeekStart <= 0 {
		return 0, false
	}
	return s.Details.PlayoffWeekStart, true
}

// Clone returns a copy that shares no pointers with the original, so a
// snapshot can carry the summary without seeing later mutations.
func (s LeagueSummary) Clone() LeagueSummary {
	c := s
	if s.Details != nil {
		d := *s.Details
		c.Details = &d
	}
	return c
}

// LoadPhase tracks where a league cache is in its load cycle.
type LoadPhase string

const (
	// LoadLoadingBasic is the initial skeleton state: the entry exists but
	// nothing has been fetched for it yet.
	LoadLoadingBasic LoadPhase = "loading_basic"
	LoadLoading      LoadPhase = "loading"
	LoadLoaded       LoadPhase = "loaded"
	LoadError        LoadPhase = "error"
)

type LoadState struct {
	Phase   LoadPhase `json:"phase"`
	Message string    `json:"message,omitempty"`
}

func LoadingBasic() LoadState { return LoadState{Phase: LoadLoadingBasic} }

func Loading() LoadState { return LoadState{Phase: LoadLoading} }

func Loaded() LoadState { return LoadState{Phase: LoadLoaded} }

func Errored(msg string) LoadState { return LoadState{Phase: LoadError, Message: msg} }

// LeagueSnapshot is the value pushed to observers of a league key: the
// summary, load state, and every cached matchup at the moment of emission.
type LeagueSnapshot struct {
	Key           LeagueKey         `json:"key"`
	Summary       LeagueSummary     `json:"summary"`
	State         LoadState         `json:"state"`
	Matchups      []MatchupSnapshot `json:"matchups"`
	LastRefreshed time.Time         `json:"last_refreshed"`
}
