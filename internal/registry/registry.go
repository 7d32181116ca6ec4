package registry

import (
	"errors"
	"sync"

	"github.com/peervine/signaling/internal/models"
)

// ErrRoomFull is returned by Join when the target room is at capacity.
// It is the only domain error this package produces.
var ErrRoomFull = errors.New("room is full")

// Registry is the authoritative in-memory record of which connection is in
// which room, plus the display-name roster and per-connection media flags.
// A single mutex serializes all access so the capacity check and the
// following insertion are atomic.
type Registry struct {
	mu       sync.Mutex
	capacity int

	rooms    map[string][]string // room -> member ids in join order
	connRoom map[string]string   // connection id -> room

	names  []models.NameEntry // ordered display-name roster
	camera map[string]bool    // connection id -> camera off
	mic    map[string]bool    // connection id -> mic muted
}

// New creates an empty registry with the given room capacity.
func New(capacity int) *Registry {
	return &Registry{
		capacity: capacity,
		rooms:    make(map[string][]string),
		connRoom: make(map[string]string),
		camera:   make(map[string]bool),
		mic:      make(map[string]bool),
	}
}

// Capacity returns the configured maximum room size.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Join adds the connection to the room, creating the room on first join,
// and returns the members that were already present, in the order they
// joined. A full room returns ErrRoomFull without changing any state.
// A connection already in another room is moved: it leaves its previous
// room as part of the join, so it is never a member of two rooms at once.
func (r *Registry) Join(connID, roomID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Count existing members, not the joiner itself if it is re-joining
	var others []string
	for _, id := range r.rooms[roomID] {
		if id != connID {
			others = append(others, id)
		}
	}
	if len(others) >= r.capacity {
		return nil, ErrRoomFull
	}

	r.leaveLocked(connID)

	r.rooms[roomID] = append(r.rooms[roomID], connID)
	r.connRoom[connID] = roomID

	members := make([]string, len(others))
	copy(members, others)
	return members, nil
}

// Leave removes the connection from its room and reports which room it
// left. Calling it for a connection that is not in a room is a no-op.
// Stale camera/mic entries for the connection are dropped here as well,
// so departed peers do not linger in rebroadcast state maps.
func (r *Registry) Leave(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(connID)
}

func (r *Registry) leaveLocked(connID string) (string, bool) {
	roomID, ok := r.connRoom[connID]
	if !ok {
		return "", false
	}

	members := r.rooms[roomID]
	remaining := members[:0]
	for _, id := range members {
		if id != connID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		delete(r.rooms, roomID)
	} else {
		r.rooms[roomID] = remaining
	}

	delete(r.connRoom, connID)
	delete(r.camera, connID)
	delete(r.mic, connID)
	return roomID, true
}

// Room reports which room the connection is currently in.
func (r *Registry) Room(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.connRoom[connID]
	return roomID, ok
}

// Members returns the room's member ids in join order.
func (r *Registry) Members(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]string, len(r.rooms[roomID]))
	copy(members, r.rooms[roomID])
	return members
}

// RoomIDs returns the ids of all rooms that currently have members.
func (r *Registry) RoomIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	return ids
}

// RoomCount returns the number of rooms with at least one member.
func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// SetName records the display name for a connection. An existing entry is
// replaced in place, keeping the roster ordered by first appearance.
func (r *Registry) SetName(connID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.names {
		if r.names[i].PeerID == connID {
			r.names[i].Name = name
			return
		}
	}
	r.names = append(r.names, models.NameEntry{PeerID: connID, Name: name})
}

// RemoveName drops the roster entry for a connection.
func (r *Registry) RemoveName(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.names[:0]
	for _, entry := range r.names {
		if entry.PeerID != connID {
			kept = append(kept, entry)
		}
	}
	r.names = kept
}

// Names returns a copy of the roster in insertion order.
func (r *Registry) Names() []models.NameEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]models.NameEntry, len(r.names))
	copy(names, r.names)
	return names
}

// SetCamera records whether the connection's camera is off.
func (r *Registry) SetCamera(connID string, off bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera[connID] = off
}

// SetMic records whether the connection's mic is muted.
func (r *Registry) SetMic(connID string, muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mic[connID] = muted
}

// CameraStates returns a copy of the camera-off map.
func (r *Registry) CameraStates() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyStates(r.camera)
}

// MicStates returns a copy of the mic-muted map.
func (r *Registry) MicStates() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyStates(r.mic)
}

func copyStates(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for id, v := range src {
		out[id] = v
	}
	return out
}
