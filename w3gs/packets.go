package w3gs

// Packet is a decoded W3GS frame body. Every concrete packet type,
// including UnknownPacket, implements it; there is no other way for a
// caller to observe a frame.
type Packet interface {
	// Type returns the wire type id this packet encodes as.
	Type() TypeID

	// encode appends the packet's payload (not the 4-byte header) to c.
	encode(c *Cursor)

	// decode consumes the packet's payload (not the 4-byte header)
	// from c.
	decode(c *Cursor) error
}

// PingFromHost keeps a client alive and carries a round-trip token.
// The bridge drops a PingFromHost arriving from the client and
// forwards one arriving from the node to the client unaltered.
type PingFromHost struct{ Payload uint32 }

func (p *PingFromHost) Type() TypeID        { return TypePingFromHost }
func (p *PingFromHost) encode(c *Cursor)    { c.WriteUint32(p.Payload) }
func (p *PingFromHost) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Payload = v
	return err
}

// PongToHost answers a PingFromHost.
type PongToHost struct{ Payload uint32 }

func (p *PongToHost) Type() TypeID     { return TypePongToHost }
func (p *PongToHost) encode(c *Cursor) { c.WriteUint32(p.Payload) }
func (p *PongToHost) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Payload = v
	return err
}

// SlotInfoJoin is the host's reply to ReqJoin: the slot plan plus the
// joining client's assigned LAN player id and external address.
type SlotInfoJoin struct {
	SlotInfo     SlotInfo
	PlayerID     uint8
	ExternalAddr SockAddr
}

func (p *SlotInfoJoin) Type() TypeID { return TypeSlotInfoJoin }
func (p *SlotInfoJoin) encode(c *Cursor) {
	p.SlotInfo.Encode(c)
	c.WriteUint8(p.PlayerID)
	p.ExternalAddr.Encode(c)
}
func (p *SlotInfoJoin) decode(c *Cursor) error {
	if err := p.SlotInfo.Decode(c); err != nil {
		return err
	}
	playerID, err := c.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID = playerID
	return p.ExternalAddr.Decode(c)
}

// RejectJoin tells the client its join attempt failed and why.
type RejectJoin struct{ Reason RejectReason }

func (p *RejectJoin) Type() TypeID     { return TypeRejectJoin }
func (p *RejectJoin) encode(c *Cursor) { c.WriteUint32(uint32(p.Reason)) }
func (p *RejectJoin) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Reason = RejectReason(v)
	return err
}

// PlayerInfo announces a peer's LAN player id, name, and addresses.
type PlayerInfo struct {
	PlayerID     uint8
	PlayerName   string
	ExternalAddr SockAddr
	InternalAddr SockAddr
}

func (p *PlayerInfo) Type() TypeID { return TypePlayerInfo }
func (p *PlayerInfo) encode(c *Cursor) {
	c.WriteUint8(p.PlayerID)
	c.WriteString(p.PlayerName)
	p.ExternalAddr.Encode(c)
	p.InternalAddr.Encode(c)
}
func (p *PlayerInfo) decode(c *Cursor) error {
	playerID, err := c.ReadUint8()
	if err != nil {
		return err
	}
	name, err := c.ReadString()
	if err != nil {
		return err
	}
	p.PlayerID = playerID
	p.PlayerName = name
	if err := p.ExternalAddr.Decode(c); err != nil {
		return err
	}
	return p.InternalAddr.Decode(c)
}

// PlayerLeft announces a peer's departure and why.
type PlayerLeft struct {
	PlayerID uint8
	Reason   LeaveReason
}

func (p *PlayerLeft) Type() TypeID { return TypePlayerLeft }
func (p *PlayerLeft) encode(c *Cursor) {
	c.WriteUint8(p.PlayerID)
	c.WriteUint32(uint32(p.Reason))
}
func (p *PlayerLeft) decode(c *Cursor) error {
	playerID, err := c.ReadUint8()
	if err != nil {
		return err
	}
	reason, err := c.ReadUint32()
	if err != nil {
		return err
	}
	p.PlayerID = playerID
	p.Reason = LeaveReason(reason)
	return nil
}

// PlayerLoaded announces that a single peer finished loading.
type PlayerLoaded struct{ PlayerID uint8 }

func (p *PlayerLoaded) Type() TypeID     { return TypePlayerLoaded }
func (p *PlayerLoaded) encode(c *Cursor) { c.WriteUint8(p.PlayerID) }
func (p *PlayerLoaded) decode(c *Cursor) error {
	v, err := c.ReadUint8()
	p.PlayerID = v
	return err
}

// SlotInfoPacket is an unsolicited slot-layout broadcast (as opposed
// to SlotInfoJoin, which is specifically the reply to a join request).
type SlotInfoPacket struct{ SlotInfo SlotInfo }

func (p *SlotInfoPacket) Type() TypeID        { return TypeSlotInfo }
func (p *SlotInfoPacket) encode(c *Cursor)    { p.SlotInfo.Encode(c) }
func (p *SlotInfoPacket) decode(c *Cursor) error {
	return p.SlotInfo.Decode(c)
}

// CountDownStart begins the pre-game countdown.
type CountDownStart struct{}

func (p *CountDownStart) Type() TypeID         { return TypeCountDownStart }
func (p *CountDownStart) encode(*Cursor)       {}
func (p *CountDownStart) decode(*Cursor) error { return nil }

// CountDownEnd signals the countdown has elapsed; the bridge uses this
// to move from InLobby into Loading (spec §4.3).
type CountDownEnd struct{}

func (p *CountDownEnd) Type() TypeID         { return TypeCountDownEnd }
func (p *CountDownEnd) encode(*Cursor)       {}
func (p *CountDownEnd) decode(*Cursor) error { return nil }

// IncomingAction carries the authoritative, ordered action tick the
// node sends to the client. The bridge forwards these unaltered and
// in order (spec §4.3).
type IncomingAction struct {
	SendInterval uint16
	Data         []byte
}

func (p *IncomingAction) Type() TypeID { return TypeIncomingAction }
func (p *IncomingAction) encode(c *Cursor) {
	c.WriteUint16(p.SendInterval)
	c.WriteBlob(p.Data)
}
func (p *IncomingAction) decode(c *Cursor) error {
	v, err := c.ReadUint16()
	if err != nil {
		return err
	}
	p.SendInterval = v
	p.Data = c.ReadRest()
	return nil
}

// IncomingAction2 is a continuation fragment of an IncomingAction that
// overflowed a single frame.
type IncomingAction2 struct{ Data []byte }

func (p *IncomingAction2) Type() TypeID     { return TypeIncomingAction2 }
func (p *IncomingAction2) encode(c *Cursor) { c.WriteBlob(p.Data) }
func (p *IncomingAction2) decode(c *Cursor) error {
	p.Data = c.ReadRest()
	return nil
}

// Desync reports a simulation checksum mismatch. The bridge forwards
// it upward and does not attempt recovery (spec §4.3).
type Desync struct{ Checksum uint32 }

func (p *Desync) Type() TypeID     { return TypeDesync }
func (p *Desync) encode(c *Cursor) { c.WriteUint32(p.Checksum) }
func (p *Desync) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Checksum = v
	return err
}

func encodePlayerIDList(c *Cursor, ids []uint8) {
	c.WriteUint8(uint8(len(ids)))
	for _, id := range ids {
		c.WriteUint8(id)
	}
}

func decodePlayerIDList(c *Cursor) ([]uint8, error) {
	n, err := c.ReadUint8()
	if err != nil {
		return nil, err
	}
	ids := make([]uint8, n)
	for i := range ids {
		v, err := c.ReadUint8()
		if err != nil {
			return nil, err
		}
		ids[i] = v
	}
	return ids, nil
}

// ChatFromHost carries a chat line fanned out to one or more peers.
type ChatFromHost struct {
	ToPlayerIDs  []uint8
	FromPlayerID uint8
	Flags        MessageType
	Message      string
}

func (p *ChatFromHost) Type() TypeID { return TypeChatFromHost }
func (p *ChatFromHost) encode(c *Cursor) {
	encodePlayerIDList(c, p.ToPlayerIDs)
	c.WriteUint8(p.FromPlayerID)
	c.WriteUint8(uint8(p.Flags))
	c.WriteString(p.Message)
}
func (p *ChatFromHost) decode(c *Cursor) error {
	ids, err := decodePlayerIDList(c)
	if err != nil {
		return err
	}
	from, err := c.ReadUint8()
	if err != nil {
		return err
	}
	flags, err := c.ReadUint8()
	if err != nil {
		return err
	}
	msg, err := c.ReadString()
	if err != nil {
		return err
	}
	p.ToPlayerIDs = ids
	p.FromPlayerID = from
	p.Flags = MessageType(flags)
	p.Message = msg
	return nil
}

// ChatToHost is a client's outbound chat line, addressed to the host.
type ChatToHost struct {
	ToPlayerIDs  []uint8
	FromPlayerID uint8
	Flags        MessageType
	Message      string
}

func (p *ChatToHost) Type() TypeID { return TypeChatToHost }
func (p *ChatToHost) encode(c *Cursor) {
	encodePlayerIDList(c, p.ToPlayerIDs)
	c.WriteUint8(p.FromPlayerID)
	c.WriteUint8(uint8(p.Flags))
	c.WriteString(p.Message)
}
func (p *ChatToHost) decode(c *Cursor) error {
	ids, err := decodePlayerIDList(c)
	if err != nil {
		return err
	}
	from, err := c.ReadUint8()
	if err != nil {
		return err
	}
	flags, err := c.ReadUint8()
	if err != nil {
		return err
	}
	msg, err := c.ReadString()
	if err != nil {
		return err
	}
	p.ToPlayerIDs = ids
	p.FromPlayerID = from
	p.Flags = MessageType(flags)
	p.Message = msg
	return nil
}

// ChatFromOthers is a peer-to-peer chat relay (as opposed to
// ChatFromHost, which the host fans out).
type ChatFromOthers struct {
	ToPlayerID   uint8
	FromPlayerID uint8
	Message      string
}

func (p *ChatFromOthers) Type() TypeID { return TypeChatFromOthers }
func (p *ChatFromOthers) encode(c *Cursor) {
	c.WriteUint8(p.ToPlayerID)
	c.WriteUint8(p.FromPlayerID)
	c.WriteString(p.Message)
}
func (p *ChatFromOthers) decode(c *Cursor) error {
	to, err := c.ReadUint8()
	if err != nil {
		return err
	}
	from, err := c.ReadUint8()
	if err != nil {
		return err
	}
	msg, err := c.ReadString()
	if err != nil {
		return err
	}
	p.ToPlayerID = to
	p.FromPlayerID = from
	p.Message = msg
	return nil
}

// LagPlayer names one player who is causing a StartLag stall, and for
// how long they have been lagging.
type LagPlayer struct {
	PlayerID  uint8
	LagTimeMs uint32
}

// StartLag announces that one or more players are stalling the game.
type StartLag struct{ Players []LagPlayer }

func (p *StartLag) Type() TypeID { return TypeStartLag }
func (p *StartLag) encode(c *Cursor) {
	c.WriteUint8(uint8(len(p.Players)))
	for _, lp := range p.Players {
		c.WriteUint8(lp.PlayerID)
		c.WriteUint32(lp.LagTimeMs)
	}
}
func (p *StartLag) decode(c *Cursor) error {
	n, err := c.ReadUint8()
	if err != nil {
		return err
	}
	players := make([]LagPlayer, n)
	for i := range players {
		id, err := c.ReadUint8()
		if err != nil {
			return err
		}
		ms, err := c.ReadUint32()
		if err != nil {
			return err
		}
		players[i] = LagPlayer{PlayerID: id, LagTimeMs: ms}
	}
	p.Players = players
	return nil
}

// StopLag announces that a single player has caught back up.
type StopLag struct{ PlayerID uint8 }

func (p *StopLag) Type() TypeID     { return TypeStopLag }
func (p *StopLag) encode(c *Cursor) { c.WriteUint8(p.PlayerID) }
func (p *StopLag) decode(c *Cursor) error {
	v, err := c.ReadUint8()
	p.PlayerID = v
	return err
}

// GameOver ends the match.
type GameOver struct{}

func (p *GameOver) Type() TypeID         { return TypeGameOver }
func (p *GameOver) encode(*Cursor)       {}
func (p *GameOver) decode(*Cursor) error { return nil }

// PlayerKicked announces a forcible removal.
type PlayerKicked struct{ PlayerID uint8 }

func (p *PlayerKicked) Type() TypeID     { return TypePlayerKicked }
func (p *PlayerKicked) encode(c *Cursor) { c.WriteUint8(p.PlayerID) }
func (p *PlayerKicked) decode(c *Cursor) error {
	v, err := c.ReadUint8()
	p.PlayerID = v
	return err
}

// LeaveAck confirms a LeaveReq.
type LeaveAck struct{}

func (p *LeaveAck) Type() TypeID         { return TypeLeaveAck }
func (p *LeaveAck) encode(*Cursor)       {}
func (p *LeaveAck) decode(*Cursor) error { return nil }

// ReqJoin is the client's request to join the advertised LAN game.
type ReqJoin struct {
	HostCounter  uint32
	EntryKey     uint32
	Unknown1     uint8
	ListenPort   uint16
	PeerKey      uint32
	PlayerName   string
	Unknown2     uint8
	InternalAddr SockAddr
}

func (p *ReqJoin) Type() TypeID { return TypeReqJoin }
func (p *ReqJoin) encode(c *Cursor) {
	c.WriteUint32(p.HostCounter)
	c.WriteUint32(p.EntryKey)
	c.WriteUint8(p.Unknown1)
	c.WriteUint16(p.ListenPort)
	c.WriteUint32(p.PeerKey)
	c.WriteString(p.PlayerName)
	c.WriteUint8(p.Unknown2)
	p.InternalAddr.Encode(c)
}
func (p *ReqJoin) decode(c *Cursor) error {
	hostCounter, err := c.ReadUint32()
	if err != nil {
		return err
	}
	entryKey, err := c.ReadUint32()
	if err != nil {
		return err
	}
	unk1, err := c.ReadUint8()
	if err != nil {
		return err
	}
	listenPort, err := c.ReadUint16()
	if err != nil {
		return err
	}
	peerKey, err := c.ReadUint32()
	if err != nil {
		return err
	}
	name, err := c.ReadString()
	if err != nil {
		return err
	}
	unk2, err := c.ReadUint8()
	if err != nil {
		return err
	}
	p.HostCounter = hostCounter
	p.EntryKey = entryKey
	p.Unknown1 = unk1
	p.ListenPort = listenPort
	p.PeerKey = peerKey
	p.PlayerName = name
	p.Unknown2 = unk2
	return p.InternalAddr.Decode(c)
}

// LeaveReq is the client's request to leave, or the node's terminate
// signal forwarded to the client (spec §4.3: Playing → Leaving).
type LeaveReq struct{ Reason LeaveReason }

func (p *LeaveReq) Type() TypeID     { return TypeLeaveReq }
func (p *LeaveReq) encode(c *Cursor) { c.WriteUint32(uint32(p.Reason)) }
func (p *LeaveReq) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Reason = LeaveReason(v)
	return err
}

// GameLoadedSelf announces that the sender has finished loading the
// map (spec §4.3: Loading → Playing once every member has sent this).
type GameLoadedSelf struct{}

func (p *GameLoadedSelf) Type() TypeID         { return TypeGameLoadedSelf }
func (p *GameLoadedSelf) encode(*Cursor)       {}
func (p *GameLoadedSelf) decode(*Cursor) error { return nil }

// OutgoingAction is a client's action tick submitted to the host for
// ordering. The bridge forwards these unaltered and in order.
type OutgoingAction struct {
	Checksum uint32
	Data     []byte
}

func (p *OutgoingAction) Type() TypeID { return TypeOutgoingAction }
func (p *OutgoingAction) encode(c *Cursor) {
	c.WriteUint32(p.Checksum)
	c.WriteBlob(p.Data)
}
func (p *OutgoingAction) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	if err != nil {
		return err
	}
	p.Checksum = v
	p.Data = c.ReadRest()
	return nil
}

// OutgoingKeepAlive is a no-op action tick sent when the client has
// nothing to report, to preserve tick cadence.
type OutgoingKeepAlive struct{ Checksum uint32 }

func (p *OutgoingKeepAlive) Type() TypeID     { return TypeOutgoingKeepAlive }
func (p *OutgoingKeepAlive) encode(c *Cursor) { c.WriteUint32(p.Checksum) }
func (p *OutgoingKeepAlive) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Checksum = v
	return err
}

// DropReq asks the host to force-drop a lagging player.
type DropReq struct{}

func (p *DropReq) Type() TypeID         { return TypeDropReq }
func (p *DropReq) encode(*Cursor)       {}
func (p *DropReq) decode(*Cursor) error { return nil }

// SearchGame is the LAN discovery broadcast a client sends looking for
// hosts (spec §4.3: answered by the LAN Bridge while Advertising).
type SearchGame struct {
	GameVersion GameVersion
	HostCounter uint32
}

func (p *SearchGame) Type() TypeID { return TypeSearchGame }
func (p *SearchGame) encode(c *Cursor) {
	p.GameVersion.encode(c)
	c.WriteUint32(p.HostCounter)
}
func (p *SearchGame) decode(c *Cursor) error {
	if err := p.GameVersion.decode(c); err != nil {
		return err
	}
	v, err := c.ReadUint32()
	p.HostCounter = v
	return err
}

// GameInfo advertises a hosted game on the LAN: the fields the LAN
// Bridge fills in when it impersonates a local host (spec §4.3).
type GameInfo struct {
	GameVersion     GameVersion
	HostCounter     uint32
	EntryKey        uint32
	GameName        string
	GameSettings    GameSettings
	SlotsTotal      uint32
	GameFlags       GameFlags
	SlotsUsed       uint32
	SlotsAvailable  uint32
	UptimeSec       uint32
	GamePort        uint16
}

func (p *GameInfo) Type() TypeID { return TypeGameInfo }
func (p *GameInfo) encode(c *Cursor) {
	p.GameVersion.encode(c)
	c.WriteUint32(p.HostCounter)
	c.WriteUint32(p.EntryKey)
	c.WriteString(p.GameName)
	p.GameSettings.encode(c)
	c.WriteUint32(p.SlotsTotal)
	c.WriteUint32(uint32(p.GameFlags))
	c.WriteUint32(p.SlotsUsed)
	c.WriteUint32(p.SlotsAvailable)
	c.WriteUint32(p.UptimeSec)
	c.WriteUint16(p.GamePort)
}
func (p *GameInfo) decode(c *Cursor) error {
	if err := p.GameVersion.decode(c); err != nil {
		return err
	}
	hostCounter, err := c.ReadUint32()
	if err != nil {
		return err
	}
	entryKey, err := c.ReadUint32()
	if err != nil {
		return err
	}
	name, err := c.ReadString()
	if err != nil {
		return err
	}
	if err := p.GameSettings.decode(c); err != nil {
		return err
	}
	slotsTotal, err := c.ReadUint32()
	if err != nil {
		return err
	}
	flags, err := c.ReadUint32()
	if err != nil {
		return err
	}
	slotsUsed, err := c.ReadUint32()
	if err != nil {
		return err
	}
	slotsAvailable, err := c.ReadUint32()
	if err != nil {
		return err
	}
	uptime, err := c.ReadUint32()
	if err != nil {
		return err
	}
	port, err := c.ReadUint16()
	if err != nil {
		return err
	}

	p.HostCounter = hostCounter
	p.EntryKey = entryKey
	p.GameName = name
	p.SlotsTotal = slotsTotal
	p.GameFlags = GameFlags(flags)
	p.SlotsUsed = slotsUsed
	p.SlotsAvailable = slotsAvailable
	p.UptimeSec = uptime
	p.GamePort = port
	return nil
}

// CreateGame announces that a new game has been created. The LAN
// broadcaster advertises with GameInfo and RefreshGame instead; no
// component in this module sends CreateGame.
type CreateGame struct {
	GameVersion GameVersion
	HostCounter uint32
}

func (p *CreateGame) Type() TypeID { return TypeCreateGame }
func (p *CreateGame) encode(c *Cursor) {
	p.GameVersion.encode(c)
	c.WriteUint32(p.HostCounter)
}
func (p *CreateGame) decode(c *Cursor) error {
	if err := p.GameVersion.decode(c); err != nil {
		return err
	}
	v, err := c.ReadUint32()
	p.HostCounter = v
	return err
}

// RefreshGame updates the advertised slot counts for an existing game.
type RefreshGame struct {
	HostCounter    uint32
	SlotsUsed      uint32
	SlotsAvailable uint32
}

func (p *RefreshGame) Type() TypeID { return TypeRefreshGame }
func (p *RefreshGame) encode(c *Cursor) {
	c.WriteUint32(p.HostCounter)
	c.WriteUint32(p.SlotsUsed)
	c.WriteUint32(p.SlotsAvailable)
}
func (p *RefreshGame) decode(c *Cursor) error {
	hostCounter, err := c.ReadUint32()
	if err != nil {
		return err
	}
	used, err := c.ReadUint32()
	if err != nil {
		return err
	}
	avail, err := c.ReadUint32()
	if err != nil {
		return err
	}
	p.HostCounter = hostCounter
	p.SlotsUsed = used
	p.SlotsAvailable = avail
	return nil
}

// DecreateGame withdraws a previously advertised game.
type DecreateGame struct{ HostCounter uint32 }

func (p *DecreateGame) Type() TypeID     { return TypeDecreateGame }
func (p *DecreateGame) encode(c *Cursor) { c.WriteUint32(p.HostCounter) }
func (p *DecreateGame) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.HostCounter = v
	return err
}

// PingFromOthers is a peer-to-peer ping, independent of PingFromHost.
type PingFromOthers struct{ Payload uint32 }

func (p *PingFromOthers) Type() TypeID     { return TypePingFromOthers }
func (p *PingFromOthers) encode(c *Cursor) { c.WriteUint32(p.Payload) }
func (p *PingFromOthers) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Payload = v
	return err
}

// PongToOthers answers a PingFromOthers.
type PongToOthers struct{ Payload uint32 }

func (p *PongToOthers) Type() TypeID     { return TypePongToOthers }
func (p *PongToOthers) encode(c *Cursor) { c.WriteUint32(p.Payload) }
func (p *PongToOthers) decode(c *Cursor) error {
	v, err := c.ReadUint32()
	p.Payload = v
	return err
}

// ClientInfo is an opaque per-client metadata blob; this layer never
// interprets it.
type ClientInfo struct{ Data []byte }

func (p *ClientInfo) Type() TypeID     { return TypeClientInfo }
func (p *ClientInfo) encode(c *Cursor) { c.WriteBlob(p.Data) }
func (p *ClientInfo) decode(c *Cursor) error {
	p.Data = c.ReadRest()
	return nil
}

// PeerSet is an opaque peer-connectivity bitmap; this layer never
// interprets it.
type PeerSet struct{ Data []byte }

func (p *PeerSet) Type() TypeID     { return TypePeerSet }
func (p *PeerSet) encode(c *Cursor) { c.WriteBlob(p.Data) }
func (p *PeerSet) decode(c *Cursor) error {
	p.Data = c.ReadRest()
	return nil
}

// mapSHA1Size is the byte length of a map's SHA-1 digest.
const mapSHA1Size = 20

// MapCheck announces the map the host expects clients to have.
type MapCheck struct {
	MapSize uint32
	MapInfo uint32
	MapCRC32 uint32
	MapSHA1  [mapSHA1Size]byte
}

func (p *MapCheck) Type() TypeID { return TypeMapCheck }
func (p *MapCheck) encode(c *Cursor) {
	c.WriteUint32(p.MapSize)
	c.WriteUint32(p.MapInfo)
	c.WriteUint32(p.MapCRC32)
	c.WriteBlob(p.MapSHA1[:])
}
func (p *MapCheck) decode(c *Cursor) error {
	size, err := c.ReadUint32()
	if err != nil {
		return err
	}
	info, err := c.ReadUint32()
	if err != nil {
		return err
	}
	crc, err := c.ReadUint32()
	if err != nil {
		return err
	}
	sha1, err := c.ReadBlob(mapSHA1Size)
	if err != nil {
		return err
	}
	p.MapSize = size
	p.MapInfo = info
	p.MapCRC32 = crc
	copy(p.MapSHA1[:], sha1)
	return nil
}

// StartDownload tells a client its map download may begin.
type StartDownload struct{}

func (p *StartDownload) Type() TypeID         { return TypeStartDownload }
func (p *StartDownload) encode(*Cursor)       {}
func (p *StartDownload) decode(*Cursor) error { return nil }

// MapSize announces the expected map file size.
type MapSize struct {
	SizeFlags uint8
	MapSize   uint32
}

func (p *MapSize) Type() TypeID { return TypeMapSize }
func (p *MapSize) encode(c *Cursor) {
	c.WriteUint8(p.SizeFlags)
	c.WriteUint32(p.MapSize)
}
func (p *MapSize) decode(c *Cursor) error {
	flags, err := c.ReadUint8()
	if err != nil {
		return err
	}
	size, err := c.ReadUint32()
	if err != nil {
		return err
	}
	p.SizeFlags = flags
	p.MapSize = size
	return nil
}

// MapPart carries one chunk of a map file transfer.
type MapPart struct {
	ToPlayerID   uint8
	FromPlayerID uint8
	Unknown      uint32
	Offset       uint32
	CRC32        uint32
	Data         []byte
}

func (p *MapPart) Type() TypeID { return TypeMapPart }
func (p *MapPart) encode(c *Cursor) {
	c.WriteUint8(p.ToPlayerID)
	c.WriteUint8(p.FromPlayerID)
	c.WriteUint32(p.Unknown)
	c.WriteUint32(p.Offset)
	c.WriteUint32(p.CRC32)
	c.WriteBlob(p.Data)
}
func (p *MapPart) decode(c *Cursor) error {
	to, err := c.ReadUint8()
	if err != nil {
		return err
	}
	from, err := c.ReadUint8()
	if err != nil {
		return err
	}
	unknown, err := c.ReadUint32()
	if err != nil {
		return err
	}
	offset, err := c.ReadUint32()
	if err != nil {
		return err
	}
	crc, err := c.ReadUint32()
	if err != nil {
		return err
	}
	p.ToPlayerID = to
	p.FromPlayerID = from
	p.Unknown = unknown
	p.Offset = offset
	p.CRC32 = crc
	p.Data = c.ReadRest()
	return nil
}

// MapPartOK acknowledges a received MapPart.
type MapPartOK struct {
	ToPlayerID   uint8
	FromPlayerID uint8
	Offset       uint32
}

func (p *MapPartOK) Type() TypeID { return TypeMapPartOK }
func (p *MapPartOK) encode(c *Cursor) {
	c.WriteUint8(p.ToPlayerID)
	c.WriteUint8(p.FromPlayerID)
	c.WriteUint32(p.Offset)
}
func (p *MapPartOK) decode(c *Cursor) error {
	to, err := c.ReadUint8()
	if err != nil {
		return err
	}
	from, err := c.ReadUint8()
	if err != nil {
		return err
	}
	offset, err := c.ReadUint32()
	if err != nil {
		return err
	}
	p.ToPlayerID = to
	p.FromPlayerID = from
	p.Offset = offset
	return nil
}

// MapPartError reports a failed MapPart transfer.
type MapPartError struct {
	ToPlayerID   uint8
	FromPlayerID uint8
}

func (p *MapPartError) Type() TypeID { return TypeMapPartError }
func (p *MapPartError) encode(c *Cursor) {
	c.WriteUint8(p.ToPlayerID)
	c.WriteUint8(p.FromPlayerID)
}
func (p *MapPartError) decode(c *Cursor) error {
	to, err := c.ReadUint8()
	if err != nil {
		return err
	}
	from, err := c.ReadUint8()
	if err != nil {
		return err
	}
	p.ToPlayerID = to
	p.FromPlayerID = from
	return nil
}

// ProtoBufPacket wraps a protocol-buffer-encoded body behind a
// sub-type byte (spec §4.1). The body is passed through opaquely;
// this layer never decodes it.
type ProtoBufPacket struct {
	SubType ProtoBufSubType
	Body    []byte
}

func (p *ProtoBufPacket) Type() TypeID { return TypeProtoBuf }
func (p *ProtoBufPacket) encode(c *Cursor) {
	c.WriteUint8(uint8(p.SubType))
	c.WriteBlob(p.Body)
}
func (p *ProtoBufPacket) decode(c *Cursor) error {
	sub, err := c.ReadUint8()
	if err != nil {
		return err
	}
	p.SubType = ProtoBufSubType(sub)
	p.Body = c.ReadRest()
	return nil
}

// UnknownPacket preserves an unrecognized type id and its raw payload
// untouched, so encoding it round-trips the original bytes exactly
// (spec §4.1: forward compatibility).
type UnknownPacket struct {
	ID      uint8
	Payload []byte
}

func (p *UnknownPacket) Type() TypeID     { return TypeID(p.ID) }
func (p *UnknownPacket) encode(c *Cursor) { c.WriteBlob(p.Payload) }
func (p *UnknownPacket) decode(c *Cursor) error {
	p.Payload = c.ReadRest()
	return nil
}
