package models

// RoomInfo describes a room's current occupancy
type RoomInfo struct {
	ID          string `json:"roomId"`
	MemberCount int    `json:"memberCount"`
	Capacity    int    `json:"capacity"`
	Full        bool   `json:"full"`
}
