package w3gs

// ProtocolSig is the magic first byte of every W3GS frame.
const ProtocolSig = 0xF7

// headerSize is the fixed 4-byte header: signature, type id, u16 length.
const headerSize = 4

// TypeID identifies the packet type carried by a frame. The registry is
// closed over the ids transcribed below; any id not listed decodes into
// an UnknownPacket carrying the raw payload, so forward-compatibility is
// a property of the type rather than of a dynamic dispatch trick.
type TypeID uint8

// Packet type ids, transcribed from the LAN protocol's closed type
// registry. Gaps in the numeric sequence are ids this subsystem never
// observes in practice (map-protocol negotiation minutiae) and are
// handled, like anything else unrecognized, by UnknownPacket.
const (
	TypePingFromHost    TypeID = 0x01
	TypeSlotInfoJoin    TypeID = 0x04
	TypeRejectJoin      TypeID = 0x05
	TypePlayerInfo      TypeID = 0x06
	TypePlayerLeft      TypeID = 0x07
	TypePlayerLoaded    TypeID = 0x08
	TypeSlotInfo        TypeID = 0x09
	TypeCountDownStart  TypeID = 0x0A
	TypeCountDownEnd    TypeID = 0x0B
	TypeIncomingAction  TypeID = 0x0C
	TypeDesync          TypeID = 0x0D
	TypeChatFromHost    TypeID = 0x0F
	TypeStartLag        TypeID = 0x10
	TypeStopLag         TypeID = 0x11
	TypeGameOver        TypeID = 0x14
	TypeLeaveAck        TypeID = 0x1B
	TypePlayerKicked    TypeID = 0x1C
	TypeReqJoin         TypeID = 0x1E
	TypeLeaveReq        TypeID = 0x21
	TypeGameLoadedSelf  TypeID = 0x23
	TypeOutgoingAction  TypeID = 0x26
	TypeOutgoingKeepAlive TypeID = 0x27
	TypeChatToHost      TypeID = 0x28
	TypeDropReq         TypeID = 0x29
	TypeSearchGame      TypeID = 0x2F
	TypeGameInfo        TypeID = 0x30
	TypeCreateGame      TypeID = 0x31
	TypeRefreshGame     TypeID = 0x32
	TypeDecreateGame    TypeID = 0x33
	TypeChatFromOthers  TypeID = 0x34
	TypePingFromOthers  TypeID = 0x35
	TypePongToOthers    TypeID = 0x36
	TypeClientInfo      TypeID = 0x37
	TypePeerSet         TypeID = 0x3B
	TypeMapCheck        TypeID = 0x3D
	TypeStartDownload   TypeID = 0x3F
	TypeMapSize         TypeID = 0x42
	TypeMapPart         TypeID = 0x43
	TypeMapPartOK       TypeID = 0x44
	TypeMapPartError    TypeID = 0x45
	TypePongToHost      TypeID = 0x46
	TypeIncomingAction2 TypeID = 0x48
	TypeProtoBuf        TypeID = 0x59
)

// ProtoBufSubType identifies the secondary sub-type byte carried inside
// a ProtoBuf (0x59) envelope.
type ProtoBufSubType uint8

// Known ProtoBuf sub-types. Unrecognized values are preserved as-is;
// the codec never rejects an unknown sub-type, since the body is
// opaque to this layer regardless.
const (
	ProtoBufUnknown2     ProtoBufSubType = 0x02
	ProtoBufPlayerProfile ProtoBufSubType = 0x03
	ProtoBufPlayerSkins  ProtoBufSubType = 0x04
	ProtoBufPlayerUnknown5 ProtoBufSubType = 0x05
)

// header is the decoded form of a frame's fixed-size prefix.
type header struct {
	Type   TypeID
	Length uint16
}

// decodeHeader validates and parses the 4-byte frame header at the
// front of b. It does not consume b; callers slice the payload out
// themselves using the returned length.
func decodeHeader(b []byte) (header, error) {
	if len(b) < headerSize {
		return header{}, ErrShortFrame
	}
	if b[0] != ProtocolSig {
		return header{}, ErrBadSignature
	}
	length := uint16(b[2]) | uint16(b[3])<<8
	if length < headerSize {
		return header{}, ErrLengthUnderflow
	}
	if int(length) > len(b) {
		return header{}, ErrShortFrame
	}
	return header{Type: TypeID(b[1]), Length: length}, nil
}

// encodeHeader writes the 4-byte header for a frame of the given type
// whose body is payloadLen bytes long.
func encodeHeader(c *Cursor, t TypeID, payloadLen int) {
	c.WriteUint8(ProtocolSig)
	c.WriteUint8(uint8(t))
	c.WriteUint16(uint16(headerSize + payloadLen))
}
