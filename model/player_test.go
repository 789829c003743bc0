package model

import "testing"

func TestPlayerFullName(t *testing.T) {
	p := &Player{FirstName: "Josh", LastName: "Allen"}
	if p.FullName() != "Josh Allen" {
		t.Errorf("full name was not expected value: '%s'", p.FullName())
	}

	dst := &Player{FirstName: "", LastName: "49ers"}
	if dst.FullName() != "49ers" {
		t.Errorf("full name was not expected value: '%s'", dst.FullName())
	}
}

func TestTrimNameSuffix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Deebo Samuel Sr.", want: "Deebo Samuel"},
		{input: "Odell Beckham Jr.", want: "Odell Beckham"},
		{input: "Brian Robinson III", want: "Brian Robinson"},
		{input: "Justin Jefferson", want: "Justin Jefferson"},
	}

	for _, tc := range tests {
		got := TrimNameSuffix(tc.input)
		if tc.want != got {
			t.Errorf("input: '%s', expected: '%s', got: '%s'", tc.input, tc.want, got)
		}
	}
}

func TestPlayerIdentityID(t *testing.T) {
	tests := map[string]struct {
		identity PlayerIdentity
		want     string
	}{
		"sleeper id wins": {
			identity: PlayerIdentity{SleeperID: "4046", ESPNID: "3139477", Name: "Patrick Mahomes"},
			want:     "4046",
		},
		"espn fallback": {
			identity: PlayerIdentity{ESPNID: "3139477", Name: "Patrick Mahomes"},
			want:     "3139477",
		},
		"empty": {
			identity: PlayerIdentity{Name: "Unknown"},
			want:     "",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.identity.ID(); got != tc.want {
				t.Errorf("expected: '%s', got: '%s'", tc.want, got)
			}
		})
	}
}

func TestGameStatusIsLive(t *testing.T) {
	if !GameStatusLive.IsLive() {
		t.Error("live status should report live")
	}
	for _, g := range []GameStatus{GameStatusScheduled, GameStatusFinal, GameStatusBye} {
		if g.IsLive() {
			t.Errorf("%s should not report live", g)
		}
	}
}
