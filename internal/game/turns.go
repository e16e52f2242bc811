package game

import (
	"errors"
	"slices"
)

// ErrNotYourTurn rejects a declaration from anyone but the turn holder.
// Surfaced only to the caller, never broadcast.
var ErrNotYourTurn = errors.New("not your turn")

// advanceTurn moves currentTurn to the next member in join order. The
// order is re-read from current membership, so it can shift when players
// left since the previous advance. Caller holds r.mu.
func (r *Room) advanceTurn() string {
	idx := slices.Index(r.members, r.currentTurn)
	r.currentTurn = r.members[(idx+1)%len(r.members)]
	return r.currentTurn
}

// callUpdate reports an accepted declaration.
type callUpdate struct {
	members  []string
	nextTurn string
}

// makeCall records playerID's declaration and advances the turn. Malformed
// quantity or value is dropped without feedback; a caller out of turn gets
// ErrNotYourTurn. Both return a nil update with no state change.
func (r *Room) makeCall(playerID string, quantity, value int) (*callUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameStarted {
		return nil, nil
	}
	if quantity < 1 || value < 1 || value > dieFaces {
		return nil, nil
	}
	if playerID != r.currentTurn {
		return nil, ErrNotYourTurn
	}

	r.lastCall = &declaredCall{playerID: playerID, quantity: quantity, value: value}
	return &callUpdate{
		members:  slices.Clone(r.members),
		nextTurn: r.advanceTurn(),
	}, nil
}
