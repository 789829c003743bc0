package model

import "testing"

func starter(status GameStatus) PlayerSnapshot {
	return PlayerSnapshot{
		Identity: PlayerIdentity{SleeperID: "p1", Name: "Some Player"},
		Metrics:  PlayerMetrics{GameStatus: status},
		Context:  PlayerContext{IsStarter: true},
	}
}

func bench(status GameStatus) PlayerSnapshot {
	p := starter(status)
	p.Context.IsStarter = false
	return p
}

func TestSnapshotIDString(t *testing.T) {
	id := SnapshotID{LeagueID: "L1", MatchupID: "3", Platform: PlatformSleeper, Week: 14}
	want := "sleeper/L1/w14/m3"
	if id.String() != want {
		t.Errorf("expected: '%s', got: '%s'", want, id.String())
	}
}

func TestTeamSideOpposite(t *testing.T) {
	if SideHome.Opposite() != SideAway {
		t.Error("home's opposite should be away")
	}
	if SideAway.Opposite() != SideHome {
		t.Error("away's opposite should be home")
	}
}

func TestHasLiveStarter(t *testing.T) {
	tests := map[string]struct {
		home []PlayerSnapshot
		away []PlayerSnapshot
		want bool
	}{
		"no players": {
			want: false,
		},
		"all scheduled": {
			home: []PlayerSnapshot{starter(GameStatusScheduled)},
			away: []PlayerSnapshot{starter(GameStatusScheduled)},
			want: false,
		},
		"live starter on home side": {
			home: []PlayerSnapshot{starter(GameStatusLive)},
			away: []PlayerSnapshot{starter(GameStatusFinal)},
			want: true,
		},
		"live starter on away side": {
			home: []PlayerSnapshot{starter(GameStatusFinal)},
			away: []PlayerSnapshot{starter(GameStatusScheduled), starter(GameStatusLive)},
			want: true,
		},
		"live player on the bench does not count": {
			home: []PlayerSnapshot{bench(GameStatusLive)},
			away: []PlayerSnapshot{starter(GameStatusFinal)},
			want: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m := &MatchupSnapshot{
				HomeTeam: TeamSnapshot{Roster: tc.home},
				AwayTeam: TeamSnapshot{Roster: tc.away},
			}
			if got := m.HasLiveStarter(); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
