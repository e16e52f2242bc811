package models

import "encoding/json"

// EventType identifies a game event on the wire, in either direction.
type EventType string

const (
	// Client -> server
	EventJoinGame EventType = "joinGame"
	EventMakeCall EventType = "makeCall"
	EventCallLiar EventType = "callLiar"

	// Server -> client
	EventPlayerJoined EventType = "playerJoined"
	EventGameStart    EventType = "gameStart"
	EventDealtHand    EventType = "dealtHand"
	EventCallMade     EventType = "callMade"
	EventNextTurn     EventType = "nextTurn"
	EventLiarCalled   EventType = "liarCalled"
	EventPlayerLeft   EventType = "playerLeft"
	EventError        EventType = "error"
)

// Envelope wraps every WebSocket message in both directions.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinGameRequest asks to join a room. RoomID may be empty (the default
// room) or a shareable room code resolved by the handler.
type JoinGameRequest struct {
	PlayerName string `json:"playerName"`
	RoomID     string `json:"roomId,omitempty"`
}

// MakeCallRequest declares that at least Quantity dice across all hands
// show Value.
type MakeCallRequest struct {
	Quantity int `json:"quantity"`
	Value    int `json:"value"`
}

// LastCall is the client's view of the declaration being challenged. The
// server keeps its own record of the outstanding call and treats that as
// authoritative; this payload is accepted for wire compatibility.
type LastCall struct {
	Player   string `json:"player"`
	Quantity int    `json:"quantity"`
	Value    int    `json:"value"`
}

// CallLiarRequest challenges the outstanding declaration as a bluff.
type CallLiarRequest struct {
	LastCall LastCall `json:"lastCall"`
}

// PlayerJoined announces a new room member.
type PlayerJoined struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
}

// PlayerInfo pairs a connection id with a display name.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameStart announces that the room is full and play has begun.
type GameStart struct {
	Players     []PlayerInfo `json:"players"`
	CurrentTurn string       `json:"currentTurn"`
}

// DealtHand carries a player's private hand. Unicast only, never broadcast.
type DealtHand struct {
	Hand []int `json:"hand"`
}

// CallMade announces a declaration to the room.
type CallMade struct {
	Player   string `json:"player"`
	Quantity int    `json:"quantity"`
	Value    int    `json:"value"`
}

// NextTurn announces whose turn it is.
type NextTurn struct {
	PlayerID string `json:"playerId"`
}

// RevealedHand pairs a player's name with their full hand during a
// challenge reveal.
type RevealedHand struct {
	Player string `json:"player"`
	Hand   []int  `json:"hand"`
}

// LiarCalled announces the outcome of a challenge, revealing every hand.
type LiarCalled struct {
	Caller       string         `json:"caller"`
	WasLying     bool           `json:"wasLying"`
	LosingPlayer string         `json:"losingPlayer"`
	ActualCount  int            `json:"actualCount"`
	AllHands     []RevealedHand `json:"allHands"`
}

// PlayerLeft announces a departed room member.
type PlayerLeft struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
}

// ErrorMessage is unicast to the offending connection only.
type ErrorMessage struct {
	Message string `json:"message"`
}
