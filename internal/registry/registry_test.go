package registry

import (
	"fmt"
	"testing"
)

func TestJoinCreatesRoom(t *testing.T) {
	reg := New(5)

	members, err := reg.Join("conn-a", "lobby")
	if err != nil {
		t.Fatalf("Expected first join to succeed, got %v", err)
	}
	if len(members) != 0 {
		t.Errorf("Expected no existing members for a fresh room, got %v", members)
	}

	roomID, ok := reg.Room("conn-a")
	if !ok || roomID != "lobby" {
		t.Errorf("Expected conn-a to be in lobby, got %q (ok=%v)", roomID, ok)
	}
}

func TestJoinReturnsMembersInJoinOrder(t *testing.T) {
	reg := New(5)

	reg.Join("conn-a", "lobby")
	reg.Join("conn-b", "lobby")
	members, err := reg.Join("conn-c", "lobby")
	if err != nil {
		t.Fatalf("Expected join to succeed, got %v", err)
	}

	want := []string{"conn-a", "conn-b"}
	if len(members) != len(want) {
		t.Fatalf("Expected %d members, got %d", len(want), len(members))
	}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("Expected member %d to be %s, got %s", i, want[i], members[i])
		}
	}
}

func TestJoinRejectsFullRoom(t *testing.T) {
	reg := New(5)

	for i := 0; i < 5; i++ {
		if _, err := reg.Join(fmt.Sprintf("conn-%d", i), "lobby"); err != nil {
			t.Fatalf("Expected join %d to succeed, got %v", i, err)
		}
	}

	_, err := reg.Join("conn-overflow", "lobby")
	if err != ErrRoomFull {
		t.Fatalf("Expected ErrRoomFull for 6th join, got %v", err)
	}

	// A rejected join must not change membership
	members := reg.Members("lobby")
	if len(members) != 5 {
		t.Errorf("Expected 5 members after rejected join, got %d", len(members))
	}
	if _, ok := reg.Room("conn-overflow"); ok {
		t.Error("Expected rejected connection to have no room")
	}
}

func TestJoinMovesConnectionBetweenRooms(t *testing.T) {
	reg := New(5)

	reg.Join("conn-a", "lobby")
	if _, err := reg.Join("conn-a", "den"); err != nil {
		t.Fatalf("Expected join to second room to succeed, got %v", err)
	}

	roomID, ok := reg.Room("conn-a")
	if !ok || roomID != "den" {
		t.Errorf("Expected conn-a to be in den, got %q", roomID)
	}
	if members := reg.Members("lobby"); len(members) != 0 {
		t.Errorf("Expected lobby to be empty after move, got %v", members)
	}
}

func TestFailedJoinKeepsPreviousMembership(t *testing.T) {
	reg := New(1)

	reg.Join("conn-a", "lobby")
	reg.Join("conn-b", "den")

	if _, err := reg.Join("conn-a", "den"); err != ErrRoomFull {
		t.Fatalf("Expected ErrRoomFull, got %v", err)
	}

	roomID, ok := reg.Room("conn-a")
	if !ok || roomID != "lobby" {
		t.Errorf("Expected conn-a to remain in lobby after failed move, got %q", roomID)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	reg := New(5)

	reg.Join("conn-a", "lobby")

	roomID, ok := reg.Leave("conn-a")
	if !ok || roomID != "lobby" {
		t.Errorf("Expected first leave to report lobby, got %q (ok=%v)", roomID, ok)
	}

	if _, ok := reg.Leave("conn-a"); ok {
		t.Error("Expected second leave to be a no-op")
	}

	if _, ok := reg.Leave("conn-unknown"); ok {
		t.Error("Expected leave for unknown connection to be a no-op")
	}
}

func TestLeaveRemovesEmptyRoom(t *testing.T) {
	reg := New(5)

	reg.Join("conn-a", "lobby")
	reg.Join("conn-b", "lobby")
	reg.Leave("conn-a")

	if got := reg.RoomCount(); got != 1 {
		t.Errorf("Expected 1 room while a member remains, got %d", got)
	}

	reg.Leave("conn-b")
	if got := reg.RoomCount(); got != 0 {
		t.Errorf("Expected no rooms after last member left, got %d", got)
	}
	if ids := reg.RoomIDs(); len(ids) != 0 {
		t.Errorf("Expected no room ids, got %v", ids)
	}

	// The room name is reusable afterwards
	members, err := reg.Join("conn-c", "lobby")
	if err != nil {
		t.Fatalf("Expected rejoin of vacated room to succeed, got %v", err)
	}
	if len(members) != 0 {
		t.Errorf("Expected vacated room to be empty, got %v", members)
	}
}

func TestSetNameUpsertsByID(t *testing.T) {
	reg := New(5)

	reg.SetName("conn-a", "Ada")
	reg.SetName("conn-b", "Brendan")
	reg.SetName("conn-a", "Ada L")

	names := reg.Names()
	if len(names) != 2 {
		t.Fatalf("Expected 2 roster entries, got %d", len(names))
	}
	if names[0].PeerID != "conn-a" || names[0].Name != "Ada L" {
		t.Errorf("Expected conn-a renamed in place, got %+v", names[0])
	}
	if names[1].PeerID != "conn-b" || names[1].Name != "Brendan" {
		t.Errorf("Expected conn-b unchanged, got %+v", names[1])
	}
}

func TestRemoveName(t *testing.T) {
	reg := New(5)

	reg.SetName("conn-a", "Ada")
	reg.SetName("conn-b", "Brendan")
	reg.RemoveName("conn-a")

	names := reg.Names()
	if len(names) != 1 {
		t.Fatalf("Expected 1 roster entry after removal, got %d", len(names))
	}
	if names[0].PeerID != "conn-b" {
		t.Errorf("Expected conn-b to remain, got %+v", names[0])
	}

	// Removing an absent id is harmless
	reg.RemoveName("conn-a")
	if len(reg.Names()) != 1 {
		t.Error("Expected roster unchanged after removing absent id")
	}
}

func TestMediaStateMaps(t *testing.T) {
	reg := New(5)

	reg.SetCamera("conn-a", true)
	reg.SetMic("conn-a", true)
	reg.SetCamera("conn-b", false)

	camera := reg.CameraStates()
	if !camera["conn-a"] {
		t.Error("Expected conn-a camera to be off")
	}
	if camera["conn-b"] {
		t.Error("Expected conn-b camera to be on")
	}
	if !reg.MicStates()["conn-a"] {
		t.Error("Expected conn-a mic to be muted")
	}

	// Returned maps are copies
	camera["conn-a"] = false
	if !reg.CameraStates()["conn-a"] {
		t.Error("Expected registry state to be unaffected by caller mutation")
	}
}

func TestLeavePrunesMediaState(t *testing.T) {
	reg := New(5)

	reg.Join("conn-a", "lobby")
	reg.SetCamera("conn-a", true)
	reg.SetMic("conn-a", true)
	reg.Join("conn-b", "lobby")
	reg.SetCamera("conn-b", true)

	reg.Leave("conn-a")

	camera := reg.CameraStates()
	if _, ok := camera["conn-a"]; ok {
		t.Error("Expected camera entry pruned for departed connection")
	}
	if _, ok := reg.MicStates()["conn-a"]; ok {
		t.Error("Expected mic entry pruned for departed connection")
	}
	if !camera["conn-b"] {
		t.Error("Expected remaining connection's camera state preserved")
	}
}

func TestCapacityIsConfigurable(t *testing.T) {
	reg := New(2)

	if reg.Capacity() != 2 {
		t.Errorf("Expected capacity 2, got %d", reg.Capacity())
	}

	reg.Join("conn-a", "lobby")
	reg.Join("conn-b", "lobby")
	if _, err := reg.Join("conn-c", "lobby"); err != ErrRoomFull {
		t.Errorf("Expected ErrRoomFull at capacity 2, got %v", err)
	}
}
