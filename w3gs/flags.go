package w3gs

// RacePref is a bitflag set over the playable races plus the
// random/selectable meta-flags. Values are never normalized: an
// unrecognized combination of bits round-trips bit for bit.
type RacePref uint8

// Race bits, transcribed from the LAN protocol's race preference byte.
const (
	RaceHuman      RacePref = 0x01
	RaceOrc        RacePref = 0x02
	RaceNightElf   RacePref = 0x04
	RaceUndead     RacePref = 0x08
	RaceDemon      RacePref = 0x10
	RaceRandom     RacePref = 0x20
	RaceSelectable RacePref = 0x40
)

// SlotLayout is a bitflag set describing how a game's slots were laid
// out by the host (melee defaults vs. custom forces vs. a fixed
// ladder layout).
type SlotLayout uint32

// Slot layout bits.
const (
	LayoutMelee               SlotLayout = 0x00
	LayoutCustomForces        SlotLayout = 0x01
	LayoutFixedPlayerSettings SlotLayout = 0x02
	LayoutLadder              SlotLayout = 0xCC
)

// SlotStatus is a slot's occupancy state.
type SlotStatus uint8

// Slot status values. SlotStatus holds the raw byte, so an
// unrecognized value survives a decode→encode round trip unchanged.
const (
	SlotOpen SlotStatus = iota
	SlotClosed
	SlotOccupied
)

// ComputerType is the difficulty of a computer-controlled slot.
type ComputerType uint8

// Computer difficulty levels.
const (
	ComputerEasy ComputerType = iota
	ComputerNormal
	ComputerInsane
)

// RejectReason is the payload of a RejectJoin packet.
type RejectReason uint32

// Join rejection reasons.
const (
	RejectJoinInvalid  RejectReason = 0x07
	RejectJoinFull     RejectReason = 0x09
	RejectJoinStarted  RejectReason = 0x0A
	RejectJoinWrongKey RejectReason = 0x1B
)

// LeaveReason is the payload of a PlayerLeft/LeaveAck packet.
type LeaveReason uint32

// Leave reasons.
const (
	LeaveDisconnect       LeaveReason = 0x01
	LeaveLost             LeaveReason = 0x07
	LeaveLostBuildings    LeaveReason = 0x08
	LeaveWon              LeaveReason = 0x09
	LeaveDraw             LeaveReason = 0x0A
	LeaveObserver         LeaveReason = 0x0B
	LeaveInvalidSaveGame  LeaveReason = 0x0C
	LeaveLobby            LeaveReason = 0x0D
)

// GameFlags is a bitflag set describing a game's type and visibility,
// carried by GameInfo/CreateGame.
type GameFlags uint32

// Game flag bits.
const (
	GameFlagCustomGame   GameFlags = 0x000001
	GameFlagSinglePlayer GameFlags = 0x000005

	GameFlagLadder1v1 GameFlags = 0x000010
	GameFlagLadder2v2 GameFlags = 0x000020
	GameFlagLadder3v3 GameFlags = 0x000040
	GameFlagLadder4v4 GameFlags = 0x000080

	GameFlagSavedGame GameFlags = 0x000200
	GameFlagTypeMask  GameFlags = 0x0002F5

	GameFlagSignedMap   GameFlags = 0x000008
	GameFlagPrivateGame GameFlags = 0x000800

	GameFlagCreatorUser     GameFlags = 0x002000
	GameFlagCreatorBlizzard GameFlags = 0x004000
	GameFlagCreatorMask     GameFlags = 0x006000

	GameFlagMapTypeMelee    GameFlags = 0x008000
	GameFlagMapTypeScenario GameFlags = 0x010000
	GameFlagMapTypeMask     GameFlags = 0x018000

	GameFlagSizeSmall  GameFlags = 0x020000
	GameFlagSizeMedium GameFlags = 0x040000
	GameFlagSizeLarge  GameFlags = 0x080000
	GameFlagSizeMask   GameFlags = 0x0E0000

	GameFlagObsFull     GameFlags = 0x100000
	GameFlagObsOnDefeat GameFlags = 0x200000
	GameFlagObsNone     GameFlags = 0x400000
	GameFlagObsMask     GameFlags = 0x700000
)

// GameSettingFlags is a bitflag set describing game speed, terrain
// visibility, observer mode and misc toggles, carried inside
// GameSettings.
type GameSettingFlags uint32

// Game setting flag bits.
const (
	SettingSpeedSlow   GameSettingFlags = 0x00000000
	SettingSpeedNormal GameSettingFlags = 0x00000001
	SettingSpeedFast   GameSettingFlags = 0x00000002
	SettingSpeedMask   GameSettingFlags = 0x0000000F

	SettingTerrainHidden   GameSettingFlags = 0x00000100
	SettingTerrainExplored GameSettingFlags = 0x00000200
	SettingTerrainVisible  GameSettingFlags = 0x00000400
	SettingTerrainDefault  GameSettingFlags = 0x00000800
	SettingTerrainMask     GameSettingFlags = 0x00000F00

	SettingObsNone     GameSettingFlags = 0x00000000
	SettingObsEnabled  GameSettingFlags = 0x00001000
	SettingObsOnDefeat GameSettingFlags = 0x00002000
	SettingObsFull     GameSettingFlags = 0x00003000
	SettingObsReferees GameSettingFlags = 0x40000000
	SettingObsMask     GameSettingFlags = 0x40003000

	SettingTeamsTogether GameSettingFlags = 0x00004000
	SettingTeamsFixed    GameSettingFlags = 0x00060000

	SettingSharedControl GameSettingFlags = 0x01000000
	SettingRandomHero    GameSettingFlags = 0x02000000
	SettingRandomRace    GameSettingFlags = 0x04000000
)

// MessageType is the sub-type byte of a chat packet.
type MessageType uint8

// Chat message sub-types.
const (
	MessageChat           MessageType = 0x10
	MessageTeamChange     MessageType = 0x11
	MessageColorChange    MessageType = 0x12
	MessageRaceChange     MessageType = 0x13
	MessageHandicapChange MessageType = 0x14
	MessageChatExtra      MessageType = 0x20
)

// DWordString is a 4-byte ASCII product/version code (e.g. "W3XP").
type DWordString [4]byte

// NewDWordString builds a DWordString from a string, padding with
// trailing zero bytes if s is shorter than 4 characters and truncating
// if longer.
func NewDWordString(s string) DWordString {
	var d DWordString
	copy(d[:], s)
	return d
}

func (d DWordString) String() string {
	n := 0
	for n < len(d) && d[n] != 0 {
		n++
	}
	return string(d[:n])
}

// Product codes.
var (
	ProductDemo DWordString = NewDWordString("W3DM")
	ProductROC  DWordString = NewDWordString("WAR3")
	ProductTFT  DWordString = NewDWordString("W3XP")
)

// GameVersion identifies the client product and patch version a game
// (or a SearchGame probe) was created with.
type GameVersion struct {
	Product DWordString
	Version uint32
}
