package game

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/pacerDone/liarsdice/internal/models"
)

// DefaultRoomID is used when a join names no room.
const DefaultRoomID = "default"

// Player is a directory record for one connection.
type Player struct {
	Name   string
	RoomID string
}

// Registry owns the process-wide room table and player directory and
// routes actions to the right room. The registry mutex guards only the two
// tables; each room serializes its own mutation, so actions in different
// rooms run in parallel.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	players map[string]*Player
	seeds   *rand.Rand // seeds per-room dealers; guarded by mu
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return NewRegistryWithSeed(time.Now().UnixNano())
}

// NewRegistryWithSeed returns an empty registry whose room dealers derive
// from seed, making deals deterministic for tests.
func NewRegistryWithSeed(seed int64) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		players: make(map[string]*Player),
		seeds:   rand.New(rand.NewSource(seed)),
	}
}

// RoomInfo is a point-in-time room snapshot for the management API.
type RoomInfo struct {
	ID          string
	PlayerCount int
	GameStarted bool
}

// Info reports the live state of a room, if it exists.
func (g *Registry) Info(roomID string) (RoomInfo, bool) {
	g.mu.RLock()
	room := g.rooms[roomID]
	g.mu.RUnlock()
	if room == nil {
		return RoomInfo{}, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return RoomInfo{ID: room.ID, PlayerCount: len(room.members), GameStarted: room.gameStarted}, true
}

// JoinResult is everything the transport must deliver after a join.
type JoinResult struct {
	RoomID  string
	Members []string // broadcast targets
	Joined  models.PlayerJoined
	Start   *models.GameStart // set when this join started the game
	Hands   map[string][]int  // unicast per owner, set with Start
}

// Join registers the player in the directory and adds it to the room,
// creating the room on first use. An empty roomID targets the default
// room. Returns ErrRoomFull when the room is at capacity; a connection id
// that already joined is silently dropped.
func (g *Registry) Join(playerID, name, roomID string) (*JoinResult, error) {
	if roomID == "" {
		roomID = DefaultRoomID
	}

	g.mu.Lock()
	if _, known := g.players[playerID]; known {
		g.mu.Unlock()
		return nil, nil
	}
	g.mu.Unlock()

	for {
		g.mu.Lock()
		room, ok := g.rooms[roomID]
		if !ok {
			room = newRoom(roomID, g.seeds.Int63())
			g.rooms[roomID] = room
			log.Printf("Created room %s", roomID)
		}
		g.mu.Unlock()

		up, err := room.join(playerID)
		if errors.Is(err, errRoomClosed) {
			continue // room emptied and was evicted under us
		}
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		g.players[playerID] = &Player{Name: name, RoomID: roomID}
		res := &JoinResult{
			RoomID:  roomID,
			Members: up.members,
			Joined:  models.PlayerJoined{ID: playerID, Name: name, PlayerCount: up.playerCount},
		}
		if up.started {
			players := make([]models.PlayerInfo, len(up.order))
			for i, id := range up.order {
				players[i] = models.PlayerInfo{ID: id, Name: g.nameLocked(id)}
			}
			res.Start = &models.GameStart{Players: players, CurrentTurn: up.currentTurn}
			res.Hands = up.hands
		}
		g.mu.Unlock()
		return res, nil
	}
}

// LeaveResult is everything the transport must deliver after a departure.
type LeaveResult struct {
	RoomID     string
	Members    []string // remaining members, broadcast targets
	Left       models.PlayerLeft
	NextTurn   *models.NextTurn // set when the turn was reassigned
	RoomClosed bool
}

// Leave removes the player from its room and the directory. Unknown ids
// are an idempotent no-op returning nil. A room left with zero members is
// removed from the registry.
func (g *Registry) Leave(playerID string) *LeaveResult {
	g.mu.Lock()
	p, known := g.players[playerID]
	if !known {
		g.mu.Unlock()
		return nil
	}
	delete(g.players, playerID)
	room := g.rooms[p.RoomID]
	g.mu.Unlock()
	if room == nil {
		return nil
	}

	up := room.leave(playerID)
	res := &LeaveResult{
		RoomID:  p.RoomID,
		Members: up.members,
		Left:    models.PlayerLeft{Name: p.Name, PlayerCount: up.playerCount},
	}
	if up.turnChanged {
		res.NextTurn = &models.NextTurn{PlayerID: up.currentTurn}
	}
	if up.empty {
		g.mu.Lock()
		if g.rooms[p.RoomID] == room && room.closeIfEmpty() {
			delete(g.rooms, p.RoomID)
			res.RoomClosed = true
			log.Printf("Removed empty room %s", p.RoomID)
		}
		g.mu.Unlock()
	}
	return res
}

// CallResult is everything the transport must deliver after a declaration.
type CallResult struct {
	RoomID   string
	Members  []string
	Call     models.CallMade
	NextTurn models.NextTurn
}

// MakeCall routes a declaration to the caller's room. Unknown players and
// unstarted rooms drop the action silently; out-of-turn callers get
// ErrNotYourTurn; malformed quantity or value is dropped without feedback.
func (g *Registry) MakeCall(playerID string, quantity, value int) (*CallResult, error) {
	p, room := g.resolve(playerID)
	if room == nil {
		return nil, nil
	}
	up, err := room.makeCall(playerID, quantity, value)
	if err != nil || up == nil {
		return nil, err
	}
	return &CallResult{
		RoomID:   p.RoomID,
		Members:  up.members,
		Call:     models.CallMade{Player: p.Name, Quantity: quantity, Value: value},
		NextTurn: models.NextTurn{PlayerID: up.nextTurn},
	}, nil
}

// ChallengeResult is everything the transport must deliver after a
// resolved challenge.
type ChallengeResult struct {
	RoomID   string
	Members  []string
	Result   models.LiarCalled
	Hands    map[string][]int // fresh deal, unicast per owner
	NextTurn models.NextTurn
}

// CallLiar resolves a bluff challenge against the room's own record of
// the outstanding call. Unknown players, unstarted rooms, and challenges
// with no call outstanding are silent no-ops.
func (g *Registry) CallLiar(playerID string) *ChallengeResult {
	p, room := g.resolve(playerID)
	if room == nil {
		return nil
	}
	up := room.resolveChallenge(playerID)
	if up == nil {
		return nil
	}

	g.mu.RLock()
	reveal := make([]models.RevealedHand, 0, len(up.order))
	for _, id := range up.order {
		hand, held := up.revealed[id]
		if !held {
			continue
		}
		reveal = append(reveal, models.RevealedHand{Player: g.nameLocked(id), Hand: hand})
	}
	result := models.LiarCalled{
		Caller:       p.Name,
		WasLying:     up.wasLying,
		LosingPlayer: g.nameLocked(up.loserID),
		ActualCount:  up.actualCount,
		AllHands:     reveal,
	}
	g.mu.RUnlock()

	return &ChallengeResult{
		RoomID:   p.RoomID,
		Members:  up.order,
		Result:   result,
		Hands:    up.newHands,
		NextTurn: models.NextTurn{PlayerID: up.nextTurn},
	}
}

// resolve maps a connection id to its directory record and room. Either
// may be missing for stale ids; callers treat that as a silent no-op.
func (g *Registry) resolve(playerID string) (*Player, *Room) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, known := g.players[playerID]
	if !known {
		return nil, nil
	}
	return p, g.rooms[p.RoomID]
}

// nameLocked resolves a display name. Caller holds g.mu.
func (g *Registry) nameLocked(playerID string) string {
	if p, known := g.players[playerID]; known {
		return p.Name
	}
	return ""
}
