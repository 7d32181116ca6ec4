package relay

import (
	"errors"
	"log"
	"sync"

	"github.com/peervine/signaling/internal/metrics"
	"github.com/peervine/signaling/internal/models"
	"github.com/peervine/signaling/internal/registry"
)

// Hub owns the process-wide connection map and translates inbound client
// events into registry mutations and outbound events. All signaling state
// lives in the injected registry; the hub itself only routes.
type Hub struct {
	registry *registry.Registry

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a hub around the given registry.
func NewHub(reg *registry.Registry) *Hub {
	return &Hub{
		registry: reg,
		clients:  make(map[string]*Client),
	}
}

// Register adds the connection and sends it its server-assigned id. The id
// travels in-band because the client needs it to address later events.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	metrics.OpenConnections.Inc()
	c.send(&models.Event{Type: models.EventWelcome, ID: c.ID})
	log.Printf("Connection %s registered", c.ID)
}

// Unregister removes the connection and runs the same cleanup as an
// explicit leave: room membership, roster entry and media flags go, and
// the remaining connections are told the peer left.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	h.mu.Unlock()

	metrics.OpenConnections.Dec()
	h.drop(c.ID, c.ID)
	log.Printf("Connection %s disconnected", c.ID)
}

// HandleEvent processes one inbound event from a connection.
func (h *Hub) HandleEvent(c *Client, ev *models.Event) {
	metrics.EventsReceived.WithLabelValues(string(ev.Type)).Inc()

	if ev.Type == models.EventJoinRoom {
		h.handleJoin(c, ev.RoomID)
		return
	}

	// Everything else is only meaningful once the connection is in a room
	if _, ok := h.registry.Room(c.ID); !ok {
		log.Printf("Dropping %s from unjoined connection %s", ev.Type, c.ID)
		return
	}

	switch ev.Type {
	case models.EventSendSignal:
		// The joiner initiates toward an existing member; relay the
		// opaque handshake blob to exactly that member.
		h.unicast(&models.Event{
			Type:     models.EventPeerJoined,
			Signal:   ev.Signal,
			CallerID: ev.CallerID,
		}, ev.TargetID)

	case models.EventReturnSignal:
		h.unicast(&models.Event{
			Type:   models.EventSignalReturned,
			Signal: ev.Signal,
			ID:     c.ID,
		}, ev.CallerID)

	case models.EventSendMessage:
		// Chat is process-wide, not scoped to the sender's room
		h.broadcast(&models.Event{
			Type:     models.EventReceiveMessage,
			SenderID: ev.SenderID,
			Text:     ev.Text,
		})

	case models.EventSetName:
		senderID := ev.SenderID
		if senderID == "" {
			senderID = c.ID
		}
		h.registry.SetName(senderID, ev.Name)
		h.broadcast(&models.Event{
			Type:  models.EventNamesUpdated,
			Names: h.registry.Names(),
		})

	case models.EventCameraToggle:
		h.registry.SetCamera(c.ID, ev.CameraOff)
		h.broadcast(&models.Event{
			Type:   models.EventCameraState,
			States: h.registry.CameraStates(),
		})

	case models.EventMicToggle:
		h.registry.SetMic(c.ID, ev.MicMute)
		h.broadcast(&models.Event{
			Type:   models.EventMicState,
			States: h.registry.MicStates(),
		})

	case models.EventRecordingStatus:
		// The server holds no recording state; pass it straight through
		h.broadcast(&models.Event{
			Type:      models.EventRecordingStatus,
			Recording: ev.Recording,
		})

	case models.EventLeave, models.EventUserLeft:
		id := ev.ID
		if id == "" {
			id = c.ID
		}
		h.drop(id, c.ID)

	default:
		log.Printf("Unknown event type %q from connection %s", ev.Type, c.ID)
	}
}

func (h *Hub) handleJoin(c *Client, roomID string) {
	members, err := h.registry.Join(c.ID, roomID)
	if err != nil {
		if errors.Is(err, registry.ErrRoomFull) {
			metrics.JoinsRejected.Inc()
			log.Printf("Connection %s rejected from full room %s", c.ID, roomID)
			c.send(&models.Event{Type: models.EventRoomFull})
		}
		return
	}
	metrics.ActiveRooms.Set(float64(h.registry.RoomCount()))

	log.Printf("Connection %s joined room %s (%d existing members)", c.ID, roomID, len(members))

	// The joiner gets the roster and initiates toward each existing member
	c.send(&models.Event{Type: models.EventAllUsers, Users: members})

	// Full-state rebroadcast keeps late joiners and existing members in
	// sync without delta tracking
	h.broadcast(&models.Event{
		Type:   models.EventCameraState,
		States: h.registry.CameraStates(),
	})
	h.broadcast(&models.Event{
		Type:   models.EventMicState,
		States: h.registry.MicStates(),
	})
}

// drop removes the connection's room membership and roster entry, then
// tells every other connection it left. The user-left event is emitted at
// most once per membership, so leave followed by disconnect does not
// double-notify.
func (h *Hub) drop(connID, excludeID string) {
	_, left := h.registry.Leave(connID)
	h.registry.RemoveName(connID)
	if !left {
		return
	}
	metrics.ActiveRooms.Set(float64(h.registry.RoomCount()))
	h.broadcastExcept(&models.Event{Type: models.EventUserLeft, ID: connID}, excludeID)
}

// broadcast sends the event to every connected client process-wide.
func (h *Hub) broadcast(ev *models.Event) {
	h.broadcastExcept(ev, "")
}

func (h *Hub) broadcastExcept(ev *models.Event, excludeID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		if id != excludeID {
			client.send(ev)
		}
	}
}

// unicast delivers the event to a single connection. A missing target is a
// silent drop, not an error.
func (h *Hub) unicast(ev *models.Event, targetID string) {
	h.mu.RLock()
	client, ok := h.clients[targetID]
	h.mu.RUnlock()
	if !ok {
		log.Printf("Target connection %s not found, dropping %s", targetID, ev.Type)
		return
	}
	client.send(ev)
}

// Rooms returns occupancy for every active room.
func (h *Hub) Rooms() []models.RoomInfo {
	ids := h.registry.RoomIDs()
	rooms := make([]models.RoomInfo, 0, len(ids))
	for _, id := range ids {
		rooms = append(rooms, h.roomInfo(id))
	}
	return rooms
}

// RoomInfo returns occupancy for one room.
func (h *Hub) RoomInfo(roomID string) (models.RoomInfo, bool) {
	if len(h.registry.Members(roomID)) == 0 {
		return models.RoomInfo{}, false
	}
	return h.roomInfo(roomID), true
}

func (h *Hub) roomInfo(roomID string) models.RoomInfo {
	count := len(h.registry.Members(roomID))
	return models.RoomInfo{
		ID:          roomID,
		MemberCount: count,
		Capacity:    h.registry.Capacity(),
		Full:        count >= h.registry.Capacity(),
	}
}
