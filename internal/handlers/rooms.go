package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peervine/signaling/internal/relay"
)

// ListRooms returns occupancy for every active room (public)
func ListRooms(hub *relay.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Rooms())
	}
}

// GetRoom returns one room's occupancy (public)
func GetRoom(hub *relay.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")

		info, ok := hub.RoomInfo(roomID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}
