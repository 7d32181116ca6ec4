package models

import "encoding/json"

// EventType represents the type of a signaling event
type EventType string

// Inbound events (client -> server)
const (
	EventJoinRoom        EventType = "join-room"
	EventSendSignal      EventType = "send-signal"
	EventReturnSignal    EventType = "return-signal"
	EventLeave           EventType = "leave"
	EventSendMessage     EventType = "send-message"
	EventSetName         EventType = "set-name"
	EventCameraToggle    EventType = "camera-toggle"
	EventMicToggle       EventType = "mic-toggle"
	EventRecordingStatus EventType = "recording-status"
)

// Outbound events (server -> client)
const (
	EventWelcome        EventType = "welcome"
	EventRoomFull       EventType = "room-full"
	EventAllUsers       EventType = "all-users"
	EventPeerJoined     EventType = "peer-joined"
	EventSignalReturned EventType = "signal-returned"
	EventUserLeft       EventType = "user-left"
	EventReceiveMessage EventType = "receive-message"
	EventNamesUpdated   EventType = "names-updated"
	EventCameraState    EventType = "camera-state"
	EventMicState       EventType = "mic-state"
)

// Event is the JSON envelope for every message on the signaling channel.
// Only the fields relevant to a given Type are populated; the rest are
// omitted from the wire form.
type Event struct {
	Type EventType `json:"type"`

	// join-room
	RoomID string `json:"roomId,omitempty"`

	// send-signal addressing
	TargetID string `json:"targetId,omitempty"`
	CallerID string `json:"callerID,omitempty"`

	// Opaque SDP/ICE handshake data, never inspected by the server
	Signal json.RawMessage `json:"signal,omitempty"`

	// Generic single-connection identifier (welcome, signal-returned,
	// user-left, leave)
	ID string `json:"id,omitempty"`

	// Chat and name events
	SenderID string `json:"senderID,omitempty"`
	Text     string `json:"text,omitempty"`
	Name     string `json:"name,omitempty"`

	// Media-state toggles
	CameraOff bool `json:"cameraOff,omitempty"`
	MicMute   bool `json:"micMute,omitempty"`

	// recording-status pass-through
	Recording bool `json:"recording,omitempty"`

	// all-users roster
	Users []string `json:"users,omitempty"`

	// names-updated roster
	Names []NameEntry `json:"names,omitempty"`

	// camera-state / mic-state maps
	States map[string]bool `json:"states,omitempty"`
}

// NameEntry associates a connection with its display name
type NameEntry struct {
	PeerID string `json:"peerID"`
	Name   string `json:"name"`
}
