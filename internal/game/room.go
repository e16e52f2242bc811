package game

import (
	"errors"
	"slices"
	"sync"
)

// MaxPlayers is the fixed room capacity.
const MaxPlayers = 4

// ErrRoomFull rejects a join into a room at capacity. It is the only
// join failure surfaced to the caller.
var ErrRoomFull = errors.New("room is full")

// errRoomClosed marks a room evicted from the registry; a join racing the
// eviction retries against a fresh room.
var errRoomClosed = errors.New("room closed")

// Room owns one game session's state: ordered membership, hands, the
// current turn, and the outstanding call. All fields are guarded by mu;
// every action against a room serializes on it, keeping independent rooms
// fully parallel.
type Room struct {
	ID string

	mu          sync.Mutex
	members     []string // connection ids in join order
	hands       map[string][]int
	currentTurn string
	gameStarted bool
	lastCall    *declaredCall
	dealer      *dealer
	closed      bool
}

// declaredCall is the authoritative record of the outstanding declaration.
type declaredCall struct {
	playerID string
	quantity int
	value    int
}

func newRoom(id string, seed int64) *Room {
	return &Room{
		ID:     id,
		hands:  make(map[string][]int),
		dealer: newDealer(seed),
	}
}

// joinUpdate reports the membership change and, on the transition to a
// started game, the initial deal.
type joinUpdate struct {
	playerCount int
	members     []string
	started     bool // set only on the waiting -> started transition
	order       []string
	currentTurn string
	hands       map[string][]int
}

// join adds a member. The 4th member starts the game exactly once: hands
// are dealt and the turn goes to the first member in join order. The
// started flag never reverts while the room exists, so refilling a room
// that lost players mid-game does not redeal.
func (r *Room) join(playerID string) (joinUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return joinUpdate{}, errRoomClosed
	}
	if len(r.members) >= MaxPlayers {
		return joinUpdate{}, ErrRoomFull
	}

	r.members = append(r.members, playerID)
	up := joinUpdate{
		playerCount: len(r.members),
		members:     slices.Clone(r.members),
	}

	if len(r.members) == MaxPlayers && !r.gameStarted {
		r.gameStarted = true
		r.hands = r.dealer.deal(r.members)
		r.currentTurn = r.members[0]
		up.started = true
		up.order = slices.Clone(r.members)
		up.currentTurn = r.currentTurn
		up.hands = cloneHands(r.hands)
	}
	return up, nil
}

// leaveUpdate reports the membership change and a possible turn
// reassignment.
type leaveUpdate struct {
	playerCount int
	members     []string
	turnChanged bool
	currentTurn string
	empty       bool
}

// leave removes a member and its hand. A departing turn holder hands the
// turn to the first remaining member in join order. The departing
// declarer's outstanding call is voided so a later challenge can never
// blame a player who is gone.
func (r *Room) leave(playerID string) leaveUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.members, playerID)
	if idx < 0 {
		return leaveUpdate{playerCount: len(r.members), members: slices.Clone(r.members)}
	}
	r.members = slices.Delete(r.members, idx, idx+1)
	delete(r.hands, playerID)
	if r.lastCall != nil && r.lastCall.playerID == playerID {
		r.lastCall = nil
	}

	up := leaveUpdate{
		playerCount: len(r.members),
		members:     slices.Clone(r.members),
		empty:       len(r.members) == 0,
	}
	if r.currentTurn == playerID {
		r.currentTurn = ""
		if r.gameStarted && len(r.members) > 0 {
			r.currentTurn = r.members[0]
			up.turnChanged = true
			up.currentTurn = r.currentTurn
		}
	}
	return up
}

// closeIfEmpty flags an empty room as evicted so a racing join retries
// against a fresh room instead of mutating this one.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) > 0 {
		return false
	}
	r.closed = true
	return true
}

func cloneHands(hands map[string][]int) map[string][]int {
	out := make(map[string][]int, len(hands))
	for id, hand := range hands {
		out[id] = slices.Clone(hand)
	}
	return out
}
