package store

import (
	"context"
	"testing"
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

func receiveUpdate(t *testing.T, ch <-chan model.LeagueSnapshot) model.LeagueSnapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("stream closed while waiting for an update")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an update")
	}
	return model.LeagueSnapshot{}
}

func assertNoUpdate(t *testing.T, ch <-chan model.LeagueSnapshot) {
	t.Helper()
	select {
	case snap := <-ch:
		t.Fatalf("expected no update, got %+v", snap)
	default:
	}
}

func TestObserveBeforeWarm(t *testing.T) {
	f := newFixture(t)
	key := leagueKey("L1", 5)

	sub := f.store.ObserveLeague(key)
	defer sub.Cancel()

	// Nothing cached yet, so there is no initial value.
	assertNoUpdate(t, sub.Updates())

	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "Late League", Platform: model.PlatformSleeper}}, 5)

	snap := receiveUpdate(t, sub.Updates())
	if snap.State.Phase != model.LoadLoadingBasic {
		t.Errorf("expected skeleton phase %s, got %s", model.LoadLoadingBasic, snap.State.Phase)
	}
	if snap.Summary.Name != "Late League" {
		t.Errorf("expected the warmed summary, got %+v", snap.Summary)
	}
	if len(snap.Matchups) != 0 {
		t.Errorf("expected no matchups in the skeleton, got %d", len(snap.Matchups))
	}
}

func TestObserveInitialValue(t *testing.T) {
	f := newFixture(t)
	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "Warm League", Platform: model.PlatformSleeper}}, 5)

	sub := f.store.ObserveLeague(leagueKey("L1", 5))
	defer sub.Cancel()

	snap := receiveUpdate(t, sub.Updates())
	if snap.State.Phase != model.LoadLoadingBasic {
		t.Errorf("expected initial phase %s, got %s", model.LoadLoadingBasic, snap.State.Phase)
	}
	if snap.Summary.Name != "Warm League" {
		t.Errorf("expected the cached summary, got %+v", snap.Summary)
	}
}

func TestObserveSeesHydration(t *testing.T) {
	f := newFixture(t)
	league := testLeague("L1", "Streamed League")
	m := rawPair("1", rawTeam("h1", 100), rawTeam("a1", 90))
	expectFetch(f, league, 5, "h1", m)

	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "Streamed League", Platform: model.PlatformSleeper}}, 5)

	sub := f.store.ObserveLeague(leagueKey("L1", 5))
	defer sub.Cancel()
	receiveUpdate(t, sub.Updates()) // initial skeleton

	id := snapID("L1", "1", 5)
	if _, err := f.store.HydrateMatchup(context.Background(), id); err != nil {
		t.Fatalf("error hydrating: %v", err)
	}

	snap := receiveUpdate(t, sub.Updates())
	if snap.State.Phase != model.LoadLoaded {
		t.Errorf("expected phase %s after hydration, got %s", model.LoadLoaded, snap.State.Phase)
	}
	if len(snap.Matchups) != 1 || snap.Matchups[0].ID != id {
		t.Errorf("expected the hydrated matchup in the update, got %+v", snap.Matchups)
	}
	if !snap.Summary.Resolved() {
		t.Error("expected the streamed summary to carry resolved details")
	}
}

func TestObserveSnapshotIsolation(t *testing.T) {
	f := newFixture(t)
	league := testLeague("L1", "Original")
	expectFetch(f, league, 5, "h1", rawPair("1", rawTeam("h1", 100), rawTeam("a1", 90)))

	if _, err := f.store.HydrateMatchup(context.Background(), snapID("L1", "1", 5)); err != nil {
		t.Fatalf("error hydrating: %v", err)
	}

	sub := f.store.ObserveLeague(leagueKey("L1", 5))
	defer sub.Cancel()

	// Streamed summaries share no pointers with the cache, so writing
	// through one must not corrupt later reads.
	snap := receiveUpdate(t, sub.Updates())
	if snap.Summary.Details == nil {
		t.Fatal("expected a resolved summary in the update")
	}
	snap.Summary.Details.PlayoffWeekStart = 99

	state, ok := f.store.LeagueState(leagueKey("L1", 5))
	if !ok {
		t.Fatal("league entry missing")
	}
	if start, _ := state.Summary.PlayoffWeekStart(); start != 15 {
		t.Errorf("mutating a streamed snapshot leaked into the cache: start week %d", start)
	}
}

func TestObserveCancel(t *testing.T) {
	f := newFixture(t)
	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "League", Platform: model.PlatformSleeper}}, 5)

	sub := f.store.ObserveLeague(leagueKey("L1", 5))
	receiveUpdate(t, sub.Updates())

	sub.Cancel()
	sub.Cancel() // cancelling twice is a no-op

	if _, ok := <-sub.Updates(); ok {
		t.Error("expected the stream to be closed after Cancel")
	}

	// Later emissions must not touch the cancelled subscription.
	key := leagueKey("L1", 5)
	if err := f.store.Refresh(context.Background(), &key, true); err != nil {
		t.Fatalf("error refreshing: %v", err)
	}
}

func TestObserveCancelAfterEviction(t *testing.T) {
	f := newFixture(t)
	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "League", Platform: model.PlatformSleeper}}, 5)

	sub := f.store.ObserveLeague(leagueKey("L1", 5))
	f.store.ClearCaches()

	drainUntilClosed(t, sub.Updates(), 2*time.Second)

	// Eviction already closed the channel; Cancel must not close it again.
	sub.Cancel()
}

func TestObserveIndependentSubscribers(t *testing.T) {
	f := newFixture(t)
	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "League", Platform: model.PlatformSleeper}}, 5)

	first := f.store.ObserveLeague(leagueKey("L1", 5))
	second := f.store.ObserveLeague(leagueKey("L1", 5))
	receiveUpdate(t, first.Updates())
	receiveUpdate(t, second.Updates())

	first.Cancel()

	key := leagueKey("L1", 5)
	if err := f.store.Refresh(context.Background(), &key, true); err != nil {
		t.Fatalf("error refreshing: %v", err)
	}

	// The surviving subscriber still gets the refresh emissions.
	snap := receiveUpdate(t, second.Updates())
	if snap.State.Phase != model.LoadLoading {
		t.Errorf("expected phase %s, got %s", model.LoadLoading, snap.State.Phase)
	}
	second.Cancel()
}

func TestObserveSlowConsumerDropsUpdates(t *testing.T) {
	f := newFixture(t)
	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "Chatty League", Platform: model.PlatformSleeper}}, 5)

	sub := f.store.ObserveLeague(leagueKey("L1", 5))

	// Each forced refresh of an empty league emits twice. The subscriber
	// never reads, so everything past the buffer is dropped instead of
	// blocking the store.
	key := leagueKey("L1", 5)
	for i := 0; i < 20; i++ {
		if err := f.store.Refresh(context.Background(), &key, true); err != nil {
			t.Fatalf("error refreshing: %v", err)
		}
	}

	sub.Cancel()

	got := 0
	for range sub.Updates() {
		got++
	}
	if got != subscriptionBuffer {
		t.Errorf("expected exactly %d buffered updates, got %d", subscriptionBuffer, got)
	}
}

func TestObserveDistinctWeeksAreDistinctStreams(t *testing.T) {
	f := newFixture(t)
	f.store.WarmLeagues([]model.LeagueRef{{LeagueID: "L1", Name: "League", Platform: model.PlatformSleeper}}, 5)

	w5 := f.store.ObserveLeague(leagueKey("L1", 5))
	defer w5.Cancel()
	w6 := f.store.ObserveLeague(leagueKey("L1", 6))
	defer w6.Cancel()

	receiveUpdate(t, w5.Updates())
	// Week 6 was never warmed, so its stream stays silent.
	assertNoUpdate(t, w6.Updates())

	key := leagueKey("L1", 5)
	if err := f.store.Refresh(context.Background(), &key, true); err != nil {
		t.Fatalf("error refreshing: %v", err)
	}
	receiveUpdate(t, w5.Updates())
	assertNoUpdate(t, w6.Updates())
}
