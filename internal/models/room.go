package models

import "time"

// RoomMetadata describes a room for the management API. Rooms created
// lazily by a join have no code or creator.
type RoomMetadata struct {
	ID          string    `json:"id"`
	Code        string    `json:"code,omitempty"` // Short, shareable join code (e.g. "ABC234")
	CreatorID   string    `json:"creatorId,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	MaxPlayers  int       `json:"maxPlayers"`
	PlayerCount int       `json:"playerCount"`
	GameStarted bool      `json:"gameStarted"`
}

// CreateRoomResponse is the response for creating a room.
type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}
