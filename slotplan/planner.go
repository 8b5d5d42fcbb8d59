// Package slotplan computes a LAN SlotInfo from a platform game's seat
// list: it places the stream-observer slot and resolves which LAN
// player id the caller itself occupies.
package slotplan

import (
	"errors"

	"wc3relay/w3gs"
)

// Planner errors.
var (
	// ErrNoPlayerSlot is returned when the input has no occupied
	// seats at all.
	ErrNoPlayerSlot = errors.New("slotplan: no occupied seat in input")

	// ErrNoVacantSlotForObserver is returned when the caller is a
	// stream observer but the game already has 24 or more occupied
	// seats, leaving no room for the synthetic observer slot.
	ErrNoVacantSlotForObserver = errors.New("slotplan: no vacant slot for stream observer")

	// ErrSelfNotResolved is returned when the caller identifies a
	// specific platform player id that does not match any occupied
	// seat in the input.
	ErrSelfNotResolved = errors.New("slotplan: caller's seat could not be resolved")
)

// streamObserverSlotIndex is the fixed LAN slot index the synthetic
// stream-observer seat occupies, when one is added.
const streamObserverSlotIndex = 23

// observerTeam is the team value that marks a seat as an observer
// rather than a player.
const observerTeam = 24

// PlatformSlot is one seat in the platform's (not the LAN's) slot
// list: the input to BuildPlayerSlotInfo.
type PlatformSlot struct {
	Status       w3gs.SlotStatus
	Team         uint8
	Color        uint8
	Race         w3gs.RacePref
	Handicap     uint8
	IsComputer   bool
	ComputerType w3gs.ComputerType
	// PlayerID is the platform's player id for this seat. Zero means
	// the seat is not a human (IsComputer should be true).
	PlayerID int32
	// PlayerName is the occupant's display name; empty for computer
	// seats.
	PlayerName string
}

// SelfPlayer identifies whose seat BuildPlayerSlotInfo should resolve
// as "my_slot_player_id". Construct with AsPlayer or use
// StreamObserver directly.
type SelfPlayer struct {
	isObserver bool
	playerID   int32
}

// StreamObserver identifies the caller as the platform's synthetic
// stream-observer, rather than a specific seated player.
var StreamObserver = SelfPlayer{isObserver: true}

// AsPlayer identifies the caller as the seated platform player with
// the given id.
func AsPlayer(playerID int32) SelfPlayer {
	return SelfPlayer{playerID: playerID}
}

// SlotPlayerInfo names one occupied human seat in the resulting plan.
type SlotPlayerInfo struct {
	SlotPlayerID uint8
	SlotIndex    int
	PlayerID     int32
	Name         string
}

// LanSlotInfo is the planner's output.
type LanSlotInfo struct {
	MySlotPlayerID uint8
	SlotInfo       w3gs.SlotInfo
	MySlot         w3gs.Slot
	PlayerInfos    []SlotPlayerInfo
	// StreamObSlot is the index of the synthetic observer seat, or -1
	// if none was added.
	StreamObSlot int
}

// indexToPlayerID converts a zero-based slot index into the LAN
// protocol's 1-based player id.
func indexToPlayerID(index int) uint8 {
	return uint8(index + 1)
}

// BuildPlayerSlotInfo computes the 24-slot LAN layout for slots, seeds
// it with randomSeed, and resolves self's own seat within it.
func BuildPlayerSlotInfo(self SelfPlayer, randomSeed int32, slots []PlatformSlot) (*LanSlotInfo, error) {
	type occupied struct {
		index int
		slot  PlatformSlot
	}

	var playerSlots []occupied
	for i, s := range slots {
		if s.Status == w3gs.SlotOccupied {
			playerSlots = append(playerSlots, occupied{index: i, slot: s})
		}
	}
	if len(playerSlots) == 0 {
		return nil, ErrNoPlayerSlot
	}

	streamObSlot := -1
	if self.isObserver {
		if len(playerSlots) > 23 {
			return nil, ErrNoVacantSlotForObserver
		}
		streamObSlot = streamObserverSlotIndex
	} else {
		hasObsPlayer := false
		for _, s := range slots {
			if s.Status == w3gs.SlotOccupied && s.Team == observerTeam {
				hasObsPlayer = true
				break
			}
		}
		if !hasObsPlayer {
			streamObSlot = streamObserverSlotIndex
		}
	}

	numPlayers := 0
	for _, o := range playerSlots {
		if o.slot.Team != observerTeam {
			numPlayers++
		}
	}

	var slotInfo w3gs.SlotInfo
	slotInfo.RandomSeed = randomSeed
	slotInfo.NumPlayers = uint8(numPlayers)

	// Seats closed on the platform stay closed in the LAN layout.
	for i, s := range slots {
		if i < len(slotInfo.Slots) && s.Status == w3gs.SlotClosed {
			slotInfo.Slots[i].SlotStatus = w3gs.SlotClosed
		}
	}

	for _, o := range playerSlots {
		out := &slotInfo.Slots[o.index]
		out.SlotStatus = w3gs.SlotOccupied
		out.Race = o.slot.Race
		out.Color = o.slot.Color
		out.Team = o.slot.Team
		out.Handicap = o.slot.Handicap
		out.DownloadStatus = 100
		if o.slot.IsComputer {
			out.Computer = true
			out.ComputerType = o.slot.ComputerType
		} else {
			out.PlayerID = indexToPlayerID(o.index)
		}
	}

	if streamObSlot >= 0 {
		out := &slotInfo.Slots[streamObSlot]
		if out.SlotStatus != w3gs.SlotOpen {
			streamObSlot = -1
		} else {
			out.PlayerID = indexToPlayerID(streamObSlot)
			out.SlotStatus = w3gs.SlotOccupied
			out.Race = w3gs.RaceRandom
			out.Color = 0
			out.Team = observerTeam
		}
	}

	var playerInfos []SlotPlayerInfo
	for _, o := range playerSlots {
		if o.slot.IsComputer {
			continue
		}
		playerInfos = append(playerInfos, SlotPlayerInfo{
			SlotPlayerID: indexToPlayerID(o.index),
			SlotIndex:    o.index,
			PlayerID:     o.slot.PlayerID,
			Name:         o.slot.PlayerName,
		})
	}

	mySlotIndex := -1
	if self.isObserver {
		for i := len(slotInfo.Slots) - 1; i >= 0; i-- {
			if slotInfo.Slots[i].Team == observerTeam {
				mySlotIndex = i
				break
			}
		}
	} else {
		for _, o := range playerSlots {
			if !o.slot.IsComputer && o.slot.PlayerID == self.playerID {
				mySlotIndex = o.index
				break
			}
		}
	}
	if mySlotIndex < 0 {
		return nil, ErrSelfNotResolved
	}

	return &LanSlotInfo{
		MySlotPlayerID: indexToPlayerID(mySlotIndex),
		SlotInfo:       slotInfo,
		MySlot:         slotInfo.Slots[mySlotIndex],
		PlayerInfos:    playerInfos,
		StreamObSlot:   streamObSlot,
	}, nil
}
