package game

import (
	"errors"
	"testing"
)

// startedRoom builds a room mid-game without going through the registry.
func startedRoom(t *testing.T, ids ...string) *Room {
	t.Helper()
	r := newRoom("r", 1)
	r.members = append(r.members, ids...)
	r.gameStarted = true
	r.hands = r.dealer.deal(r.members)
	r.currentTurn = ids[0]
	return r
}

// TestAdvanceTurnCycles ensures N advances with stable membership return
// the turn to its starting holder.
func TestAdvanceTurnCycles(t *testing.T) {
	r := startedRoom(t, "a", "b", "c", "d")

	want := []string{"b", "c", "d", "a"}
	for i, next := range want {
		if got := r.advanceTurn(); got != next {
			t.Fatalf("advance %d = %s, want %s", i+1, got, next)
		}
	}
	if r.currentTurn != "a" {
		t.Fatalf("after full cycle currentTurn = %s, want a", r.currentTurn)
	}
}

// TestAdvanceTurnAfterDeparture ensures the order snapshot is re-read from
// current membership.
func TestAdvanceTurnAfterDeparture(t *testing.T) {
	r := startedRoom(t, "a", "b", "c", "d")
	r.leave("b")
	r.currentTurn = "a"

	if got := r.advanceTurn(); got != "c" {
		t.Fatalf("advance skipped to %s, want c", got)
	}
}

func TestMakeCallRecordsAndAdvances(t *testing.T) {
	r := startedRoom(t, "a", "b", "c", "d")

	up, err := r.makeCall("a", 3, 4)
	if err != nil {
		t.Fatalf("makeCall returned error: %v", err)
	}
	if up == nil {
		t.Fatal("makeCall returned nil update")
	}
	if up.nextTurn != "b" {
		t.Fatalf("nextTurn = %s, want b", up.nextTurn)
	}
	if r.lastCall == nil || *r.lastCall != (declaredCall{playerID: "a", quantity: 3, value: 4}) {
		t.Fatalf("lastCall = %+v, want a declares 3x4", r.lastCall)
	}
}

func TestMakeCallRejectsOutOfTurn(t *testing.T) {
	r := startedRoom(t, "a", "b", "c", "d")

	up, err := r.makeCall("c", 3, 4)
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("makeCall error = %v, want %v", err, ErrNotYourTurn)
	}
	if up != nil {
		t.Fatalf("makeCall returned update %+v, want nil", up)
	}
	if r.currentTurn != "a" || r.lastCall != nil {
		t.Fatal("out-of-turn call mutated room state")
	}
}

// TestMakeCallDropsInvalidInput ensures malformed calls vanish without
// feedback or state change, even from the turn holder.
func TestMakeCallDropsInvalidInput(t *testing.T) {
	tcs := []struct {
		quantity int
		value    int
	}{
		{0, 3},
		{-1, 3},
		{3, 0},
		{3, 7},
		{3, -2},
	}

	for _, tc := range tcs {
		r := startedRoom(t, "a", "b", "c", "d")
		up, err := r.makeCall("a", tc.quantity, tc.value)
		if err != nil || up != nil {
			t.Fatalf("makeCall(%d, %d) = (%+v, %v), want silent drop", tc.quantity, tc.value, up, err)
		}
		if r.currentTurn != "a" || r.lastCall != nil {
			t.Fatalf("makeCall(%d, %d) mutated room state", tc.quantity, tc.value)
		}
	}
}

func TestMakeCallIgnoredBeforeStart(t *testing.T) {
	r := newRoom("r", 1)
	r.members = []string{"a", "b"}

	up, err := r.makeCall("a", 3, 4)
	if err != nil || up != nil {
		t.Fatalf("makeCall before start = (%+v, %v), want silent drop", up, err)
	}
}
