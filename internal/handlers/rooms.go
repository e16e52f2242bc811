package handlers

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pacerDone/liarsdice/internal/game"
	"github.com/pacerDone/liarsdice/internal/models"
	"github.com/pacerDone/liarsdice/internal/redis"
)

const (
	roomCodeLength = 6
	roomTTL        = 24 * time.Hour
	codeChars      = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // Removed ambiguous chars
)

// CreateRoom mints a room id plus a shareable join code and stores the
// metadata in redis. The live room itself is created lazily by the first
// join; this endpoint only reserves the code. Requires authentication.
func CreateRoom() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		roomID := uuid.New().String()
		roomCode := generateRoomCode()

		meta := models.RoomMetadata{
			ID:         roomID,
			Code:       roomCode,
			CreatorID:  userID.(string),
			CreatedAt:  time.Now(),
			MaxPlayers: game.MaxPlayers,
		}

		rc := redis.GetClient()
		ctx := c.Request.Context()

		metaData, err := json.Marshal(meta)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
			return
		}
		if err := rc.Set(ctx, "room:"+roomID, metaData, roomTTL).Err(); err != nil {
			log.Printf("Failed to store room in redis: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
			return
		}
		if err := rc.Set(ctx, "code:"+roomCode, roomID, roomTTL).Err(); err != nil {
			log.Printf("Failed to store room code in redis: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
			return
		}

		log.Printf("Room %s (code: %s) reserved by user %s", roomID, roomCode, userID)
		c.JSON(http.StatusCreated, models.CreateRoomResponse{
			RoomID: roomID,
			Code:   roomCode,
		})
	}
}

// GetRoom reports a room by code or id: stored metadata when reserved,
// live player count and started flag from the registry. Public.
func GetRoom(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := resolveRoomID(c.Param("roomId"))

		meta, hasMeta := loadRoomMetadata(c.Request.Context(), roomID)
		info, live := registry.Info(roomID)
		if !hasMeta && !live {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		if !hasMeta {
			meta = models.RoomMetadata{ID: roomID, MaxPlayers: game.MaxPlayers}
		}
		if live {
			meta.PlayerCount = info.PlayerCount
			meta.GameStarted = info.GameStarted
		}
		c.JSON(http.StatusOK, meta)
	}
}

// DeleteRoom drops a reserved room's metadata and code. Only the creator
// may delete, and never while the live room still has members.
func DeleteRoom(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		roomID := c.Param("roomId")
		ctx := c.Request.Context()

		meta, hasMeta := loadRoomMetadata(ctx, roomID)
		if !hasMeta {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		if meta.CreatorID != userID.(string) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the room creator can delete the room"})
			return
		}
		if info, live := registry.Info(roomID); live && info.PlayerCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Room is in use"})
			return
		}

		rc := redis.GetClient()
		rc.Del(ctx, "room:"+roomID)
		rc.Del(ctx, "code:"+meta.Code)
		rc.Del(ctx, "room:"+roomID+":peers")

		log.Printf("Room %s deleted by user %s", roomID, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
	}
}

func loadRoomMetadata(ctx context.Context, roomID string) (models.RoomMetadata, bool) {
	data, err := redis.GetClient().Get(ctx, "room:"+roomID).Result()
	if err != nil {
		return models.RoomMetadata{}, false
	}
	var meta models.RoomMetadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		log.Printf("Failed to parse metadata for room %s: %v", roomID, err)
		return models.RoomMetadata{}, false
	}
	return meta, true
}

// resolveRoomID maps a join code to its room id. Anything that is not a
// known code passes through unchanged, so raw room ids keep working.
func resolveRoomID(identifier string) string {
	if len(identifier) != roomCodeLength {
		return identifier
	}
	id, err := redis.GetClient().Get(context.Background(), "code:"+identifier).Result()
	if err != nil {
		return identifier
	}
	return id
}

// generateRoomCode returns a random shareable join code.
func generateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		code[i] = codeChars[n.Int64()]
	}
	return string(code)
}
