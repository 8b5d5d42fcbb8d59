package w3gs

import (
	"net"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func roundTrip(t *testing.T, p Packet) Packet {
	t.Helper()
	encoded, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, n, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(encoded) {
		t.Fatalf("Decode consumed %d bytes, want %d", n, len(encoded))
	}
	return decoded
}

func TestPacketRoundTrip(t *testing.T) {
	sampleSlotInfo := SlotInfo{
		RandomSeed: -12345,
		Layout:     LayoutFixedPlayerSettings,
		NumPlayers: 2,
	}
	sampleSlotInfo.Slots[0] = Slot{PlayerID: 1, SlotStatus: SlotOccupied, Team: 0, Color: 0, Race: RaceHuman}
	sampleSlotInfo.Slots[23] = Slot{SlotStatus: SlotOccupied, Computer: false, Team: 24, Color: 23, Race: RaceRandom}

	addr := SockAddr{IP: net.IPv4(10, 0, 0, 5), Port: 6112}

	cases := []Packet{
		&PingFromHost{Payload: 0xDEADBEEF},
		&PongToHost{Payload: 42},
		&SlotInfoJoin{SlotInfo: sampleSlotInfo, PlayerID: 3, ExternalAddr: addr},
		&RejectJoin{Reason: RejectJoinFull},
		&PlayerInfo{PlayerID: 2, PlayerName: "player2", ExternalAddr: addr, InternalAddr: addr},
		&PlayerLeft{PlayerID: 4, Reason: LeaveLost},
		&PlayerLoaded{PlayerID: 1},
		&SlotInfoPacket{SlotInfo: sampleSlotInfo},
		&CountDownStart{},
		&CountDownEnd{},
		&IncomingAction{SendInterval: 50, Data: []byte{1, 2, 3, 4}},
		&IncomingAction2{Data: []byte{5, 6}},
		&Desync{Checksum: 0xCAFEF00D},
		&ChatFromHost{ToPlayerIDs: []uint8{1, 2, 3}, FromPlayerID: 1, Flags: MessageChat, Message: "gl hf"},
		&ChatToHost{ToPlayerIDs: []uint8{2}, FromPlayerID: 2, Flags: MessageChat, Message: "hi"},
		&ChatFromOthers{ToPlayerID: 1, FromPlayerID: 2, Message: "psst"},
		&StartLag{Players: []LagPlayer{{PlayerID: 1, LagTimeMs: 500}, {PlayerID: 2, LagTimeMs: 1500}}},
		&StopLag{PlayerID: 1},
		&GameOver{},
		&PlayerKicked{PlayerID: 5},
		&LeaveAck{},
		&ReqJoin{
			HostCounter: 1, EntryKey: 2, Unknown1: 0, ListenPort: 6112, PeerKey: 3,
			PlayerName: "joiner", Unknown2: 0, InternalAddr: addr,
		},
		&LeaveReq{Reason: LeaveLobby},
		&GameLoadedSelf{},
		&OutgoingAction{Checksum: 7, Data: []byte{9, 9, 9}},
		&OutgoingKeepAlive{Checksum: 11},
		&DropReq{},
		&SearchGame{GameVersion: GameVersion{Product: ProductTFT, Version: 30}, HostCounter: 1},
		&GameInfo{
			GameVersion:    GameVersion{Product: ProductTFT, Version: 30},
			HostCounter:    1,
			EntryKey:       2,
			GameName:       "relay game",
			GameSettings:   GameSettings{Flags: SettingSpeedFast, MapWidth: 128, MapHeight: 128, MapXoro: 0x1234, MapPath: "Maps\\test.w3x", HostName: "host"},
			SlotsTotal:     24,
			GameFlags:      GameFlagCustomGame,
			SlotsUsed:      2,
			SlotsAvailable: 22,
			UptimeSec:      10,
			GamePort:       6112,
		},
		&CreateGame{GameVersion: GameVersion{Product: ProductTFT, Version: 30}, HostCounter: 1},
		&RefreshGame{HostCounter: 1, SlotsUsed: 3, SlotsAvailable: 21},
		&DecreateGame{HostCounter: 1},
		&PingFromOthers{Payload: 1},
		&PongToOthers{Payload: 1},
		&ClientInfo{Data: []byte{1, 2, 3}},
		&PeerSet{Data: []byte{0xFF}},
		&MapCheck{MapSize: 100, MapInfo: 200, MapCRC32: 300, MapSHA1: [20]byte{1, 2, 3}},
		&StartDownload{},
		&MapSize{SizeFlags: 1, MapSize: 123456},
		&MapPart{ToPlayerID: 1, FromPlayerID: 2, Unknown: 0, Offset: 1024, CRC32: 99, Data: []byte{1, 2, 3, 4, 5}},
		&MapPartOK{ToPlayerID: 1, FromPlayerID: 2, Offset: 1024},
		&MapPartError{ToPlayerID: 1, FromPlayerID: 2},
		&IncomingAction2{},
		&ProtoBufPacket{SubType: ProtoBufPlayerProfile, Body: []byte{1, 2, 3}},
		&UnknownPacket{ID: 0x77, Payload: []byte{1, 2, 3}},
	}

	for _, want := range cases {
		t.Run(reflect.TypeOf(want).Elem().Name(), func(t *testing.T) {
			got := roundTrip(t, want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeBadSignature(t *testing.T) {
	b := []byte{0x00, byte(TypePingFromHost), 0x08, 0x00, 1, 2, 3, 4}
	if _, _, err := Decode(b); err != ErrBadSignature {
		t.Fatalf("got %v, want ErrBadSignature", err)
	}
}

func TestDecodeShortFrame(t *testing.T) {
	b := []byte{ProtocolSig, byte(TypePingFromHost), 0x09, 0x00, 1, 2, 3}
	if _, _, err := Decode(b); err != ErrShortFrame {
		t.Fatalf("got %v, want ErrShortFrame", err)
	}
}

func TestDecodeLengthUnderflow(t *testing.T) {
	b := []byte{ProtocolSig, byte(TypePingFromHost), 0x02, 0x00}
	if _, _, err := Decode(b); err != ErrLengthUnderflow {
		t.Fatalf("got %v, want ErrLengthUnderflow", err)
	}
}

// TestDecodeUnknownTypeRoundTrips ensures an id outside the registry
// never fails to decode and that its raw payload survives a
// decode-then-encode cycle unaltered, which is the forward-
// compatibility property relays depend on.
func TestDecodeUnknownTypeRoundTrips(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC}
	frame := []byte{ProtocolSig, 0x7F, byte(headerSize + len(payload)), 0x00}
	frame = append(frame, payload...)

	p, n, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(frame) {
		t.Fatalf("consumed %d, want %d", n, len(frame))
	}
	unk, ok := p.(*UnknownPacket)
	if !ok {
		t.Fatalf("got %T, want *UnknownPacket", p)
	}
	if unk.ID != 0x7F || !cmp.Equal(unk.Payload, payload) {
		t.Fatalf("got %#v", unk)
	}

	reencoded, err := Encode(unk)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if diff := cmp.Diff(frame, reencoded); diff != "" {
		t.Fatalf("re-encoded frame differs (-want +got):\n%s", diff)
	}
}

// TestDecodeNeverPanics feeds a grab-bag of truncated and malformed
// frames through Decode and requires either a clean error or a
// successful decode — never a panic.
func TestDecodeNeverPanics(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{ProtocolSig},
		{ProtocolSig, 0x01},
		{ProtocolSig, byte(TypeSlotInfoJoin), 0xFF, 0xFF},
		{ProtocolSig, byte(TypeGameInfo), 0x05, 0x00, 0x00},
		{ProtocolSig, byte(TypeMapCheck), 0x07, 0x00, 1, 2, 3},
	}
	for i, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("input %d panicked: %v", i, r)
				}
			}()
			_, _, _ = Decode(in)
		}()
	}
}
