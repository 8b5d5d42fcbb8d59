package bridge

import (
	"context"
	"io"
	"testing"

	"wc3relay/slotplan"
	"wc3relay/w3gs"
)

type nopRWC struct{}

func (nopRWC) Read([]byte) (int, error)  { return 0, io.EOF }
func (nopRWC) Write(p []byte) (int, error) { return len(p), nil }
func (nopRWC) Close() error               { return nil }

func twoPlayerPlan(t *testing.T) *slotplan.LanSlotInfo {
	t.Helper()
	slots := make([]slotplan.PlatformSlot, w3gs.NumSlots)
	slots[0] = slotplan.PlatformSlot{Status: w3gs.SlotOccupied, Race: w3gs.RaceHuman, PlayerID: 1, PlayerName: "a"}
	slots[1] = slotplan.PlatformSlot{Status: w3gs.SlotOccupied, Race: w3gs.RaceOrc, PlayerID: 2, PlayerName: "b"}
	for i := 2; i < w3gs.NumSlots; i++ {
		slots[i] = slotplan.PlatformSlot{Status: w3gs.SlotOpen}
	}
	plan, err := slotplan.BuildPlayerSlotInfo(slotplan.AsPlayer(1), 1, slots)
	if err != nil {
		t.Fatalf("BuildPlayerSlotInfo: %v", err)
	}
	return plan
}

func TestConnReqJoinTransition(t *testing.T) {
	plan := twoPlayerPlan(t)
	c := New(nopRWC{}, nopRWC{}, plan, DefaultConfig())

	if err := c.handleClientFrame(&w3gs.ReqJoin{PlayerName: "joiner"}); err != nil {
		t.Fatalf("handleClientFrame: %v", err)
	}
	if c.State() != StateJoining {
		t.Fatalf("state = %v, want Joining", c.State())
	}

	reply, err := c.toClient.Pop(context.Background(), 0)
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	slotJoin, ok := reply.(*w3gs.SlotInfoJoin)
	if !ok {
		t.Fatalf("got %T, want *SlotInfoJoin", reply)
	}
	if slotJoin.PlayerID != plan.MySlotPlayerID {
		t.Errorf("PlayerID = %d, want %d", slotJoin.PlayerID, plan.MySlotPlayerID)
	}
}

func TestConnFullLifecycle(t *testing.T) {
	plan := twoPlayerPlan(t)
	c := New(nopRWC{}, nopRWC{}, plan, DefaultConfig())

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	must(c.handleClientFrame(&w3gs.ReqJoin{}))
	if _, err := c.toClient.Pop(context.Background(), 0); err != nil {
		t.Fatalf("drain SlotInfoJoin: %v", err)
	}

	must(c.handleNodeFrame(&w3gs.PlayerInfo{PlayerID: 1}))
	if _, err := c.toClient.Pop(context.Background(), 0); err != nil {
		t.Fatalf("drain PlayerInfo: %v", err)
	}
	if c.State() != StateInLobby {
		t.Fatalf("state = %v, want InLobby", c.State())
	}

	must(c.handleNodeFrame(&w3gs.CountDownEnd{}))
	if _, err := c.toClient.Pop(context.Background(), 0); err != nil {
		t.Fatalf("drain CountDownEnd: %v", err)
	}
	if c.State() != StateLoading {
		t.Fatalf("state = %v, want Loading", c.State())
	}

	must(c.handleClientFrame(&w3gs.GameLoadedSelf{}))
	if c.State() != StateLoading {
		t.Fatalf("state = %v, want still Loading after one loader", c.State())
	}
	must(c.handleNodeFrame(&w3gs.GameLoadedSelf{}))
	if c.State() != StatePlaying {
		t.Fatalf("state = %v, want Playing", c.State())
	}
	if _, err := c.toClient.Pop(context.Background(), 0); err != nil {
		t.Fatalf("drain GameLoadedSelf: %v", err)
	}

	must(c.handleClientFrame(&w3gs.LeaveReq{Reason: w3gs.LeaveLobby}))
	if c.State() != StateLeaving {
		t.Fatalf("state = %v, want Leaving", c.State())
	}
	ack, err := c.toClient.Pop(context.Background(), 0)
	if err != nil {
		t.Fatalf("Pop LeaveAck: %v", err)
	}
	if _, ok := ack.(*w3gs.LeaveAck); !ok {
		t.Fatalf("got %T, want *LeaveAck", ack)
	}
}

func TestConnInvalidTransitionRejected(t *testing.T) {
	plan := twoPlayerPlan(t)
	c := New(nopRWC{}, nopRWC{}, plan, DefaultConfig())

	// CountDownEnd while still Advertising (never having gone through
	// Joining/InLobby) is not a legal edge.
	if err := c.handleNodeFrame(&w3gs.CountDownEnd{}); err != ErrInvalidTransition {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}
