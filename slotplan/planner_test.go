package slotplan

import (
	"testing"

	"wc3relay/w3gs"
)

func occupiedPlayer(team, color uint8, playerID int32, name string) PlatformSlot {
	return PlatformSlot{
		Status:   w3gs.SlotOccupied,
		Team:     team,
		Color:    color,
		Race:     w3gs.RaceHuman,
		PlayerID: playerID,
		PlayerName: name,
	}
}

func openSlot() PlatformSlot {
	return PlatformSlot{Status: w3gs.SlotOpen}
}

func closedSlot() PlatformSlot {
	return PlatformSlot{Status: w3gs.SlotClosed}
}

// buildFourPlayerInput builds the 24-seat input from spec's
// "no-observer case": 4 occupied player slots on teams {0,0,1,1} at
// indices 0-3, one closed slot at index 4, the rest open.
func buildFourPlayerInput() []PlatformSlot {
	slots := make([]PlatformSlot, w3gs.NumSlots)
	slots[0] = occupiedPlayer(0, 0, 1, "p1")
	slots[1] = occupiedPlayer(0, 1, 2, "p2")
	slots[2] = occupiedPlayer(1, 2, 3, "p3")
	slots[3] = occupiedPlayer(1, 3, 4, "p4")
	slots[4] = closedSlot()
	for i := 5; i < w3gs.NumSlots; i++ {
		slots[i] = openSlot()
	}
	return slots
}

func TestBuildPlayerSlotInfoNoObserverCase(t *testing.T) {
	slots := buildFourPlayerInput()

	plan, err := BuildPlayerSlotInfo(AsPlayer(3), 1234, slots)
	if err != nil {
		t.Fatalf("BuildPlayerSlotInfo: %v", err)
	}

	for i := 0; i < 4; i++ {
		out := plan.SlotInfo.Slots[i]
		if out.SlotStatus != w3gs.SlotOccupied {
			t.Errorf("slot %d: status = %v, want Occupied", i, out.SlotStatus)
		}
		if out.PlayerID != uint8(i+1) {
			t.Errorf("slot %d: player_id = %d, want %d", i, out.PlayerID, i+1)
		}
	}

	ob := plan.SlotInfo.Slots[23]
	if ob.SlotStatus != w3gs.SlotOccupied || ob.Team != 24 || ob.Race != w3gs.RaceRandom || ob.Color != 0 {
		t.Errorf("observer slot = %+v, want occupied team=24 race=Random color=0", ob)
	}
	if plan.StreamObSlot != 23 {
		t.Errorf("StreamObSlot = %d, want 23", plan.StreamObSlot)
	}

	if plan.SlotInfo.NumPlayers != 4 {
		t.Errorf("NumPlayers = %d, want 4", plan.SlotInfo.NumPlayers)
	}

	if plan.MySlotPlayerID != 3 {
		t.Errorf("MySlotPlayerID = %d, want 3", plan.MySlotPlayerID)
	}
}

func TestBuildPlayerSlotInfoObsAlreadyPresent(t *testing.T) {
	slots := buildFourPlayerInput()
	slots[10] = PlatformSlot{Status: w3gs.SlotOccupied, Team: 24, Race: w3gs.RaceHuman, PlayerID: 99, PlayerName: "realobs"}

	plan, err := BuildPlayerSlotInfo(AsPlayer(3), 1234, slots)
	if err != nil {
		t.Fatalf("BuildPlayerSlotInfo: %v", err)
	}

	if plan.StreamObSlot != -1 {
		t.Errorf("StreamObSlot = %d, want -1 (no synthetic slot added)", plan.StreamObSlot)
	}
	if plan.SlotInfo.Slots[23].SlotStatus != w3gs.SlotOpen {
		t.Errorf("slot 23 = %+v, want left Open", plan.SlotInfo.Slots[23])
	}
}

func TestBuildPlayerSlotInfoObsSlotClosed(t *testing.T) {
	slots := buildFourPlayerInput()
	slots[23] = closedSlot()

	plan, err := BuildPlayerSlotInfo(AsPlayer(3), 1234, slots)
	if err != nil {
		t.Fatalf("BuildPlayerSlotInfo: %v", err)
	}

	if plan.StreamObSlot != -1 {
		t.Errorf("StreamObSlot = %d, want -1", plan.StreamObSlot)
	}
	if plan.SlotInfo.Slots[23].SlotStatus != w3gs.SlotClosed {
		t.Errorf("slot 23 status = %v, want left Closed untouched", plan.SlotInfo.Slots[23].SlotStatus)
	}
}

func TestBuildPlayerSlotInfoObserverCaller24Occupied(t *testing.T) {
	slots := make([]PlatformSlot, w3gs.NumSlots)
	for i := range slots {
		slots[i] = occupiedPlayer(uint8(i%2), uint8(i), int32(i+1), "p")
	}

	_, err := BuildPlayerSlotInfo(StreamObserver, 1, slots)
	if err != ErrNoVacantSlotForObserver {
		t.Fatalf("got %v, want ErrNoVacantSlotForObserver", err)
	}
}

func TestBuildPlayerSlotInfoNoPlayerSlot(t *testing.T) {
	slots := make([]PlatformSlot, w3gs.NumSlots)
	for i := range slots {
		slots[i] = openSlot()
	}

	_, err := BuildPlayerSlotInfo(AsPlayer(1), 1, slots)
	if err != ErrNoPlayerSlot {
		t.Fatalf("got %v, want ErrNoPlayerSlot", err)
	}
}

func TestBuildPlayerSlotInfoSelfNotResolved(t *testing.T) {
	slots := buildFourPlayerInput()

	_, err := BuildPlayerSlotInfo(AsPlayer(999), 1, slots)
	if err != ErrSelfNotResolved {
		t.Fatalf("got %v, want ErrSelfNotResolved", err)
	}
}

func TestBuildPlayerSlotInfoStreamObserverResolvesOwnSeat(t *testing.T) {
	slots := buildFourPlayerInput()

	plan, err := BuildPlayerSlotInfo(StreamObserver, 1, slots)
	if err != nil {
		t.Fatalf("BuildPlayerSlotInfo: %v", err)
	}
	if plan.MySlotPlayerID != 24 {
		t.Errorf("MySlotPlayerID = %d, want 24 (index 23 + 1)", plan.MySlotPlayerID)
	}
}

func TestBuildPlayerSlotInfoComputerSeat(t *testing.T) {
	slots := buildFourPlayerInput()
	slots[5] = PlatformSlot{
		Status:       w3gs.SlotOccupied,
		Team:         1,
		Color:        5,
		Race:         w3gs.RaceOrc,
		IsComputer:   true,
		ComputerType: w3gs.ComputerInsane,
	}

	plan, err := BuildPlayerSlotInfo(AsPlayer(3), 1, slots)
	if err != nil {
		t.Fatalf("BuildPlayerSlotInfo: %v", err)
	}

	out := plan.SlotInfo.Slots[5]
	if !out.Computer || out.ComputerType != w3gs.ComputerInsane || out.PlayerID != 0 {
		t.Errorf("computer slot = %+v, want Computer=true ComputerType=Insane PlayerID=0", out)
	}
	for _, pi := range plan.PlayerInfos {
		if pi.SlotIndex == 5 {
			t.Errorf("computer seat at index 5 should not appear in PlayerInfos")
		}
	}
}
