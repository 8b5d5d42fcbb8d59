package w3gs

// registry maps a wire type id to a constructor for the zero-value
// packet that type id decodes into. UnknownPacket is not registered
// here; it is the fallback for any id this map doesn't contain.
var registry = map[TypeID]func() Packet{
	TypePingFromHost:      func() Packet { return &PingFromHost{} },
	TypeSlotInfoJoin:      func() Packet { return &SlotInfoJoin{} },
	TypeRejectJoin:        func() Packet { return &RejectJoin{} },
	TypePlayerInfo:        func() Packet { return &PlayerInfo{} },
	TypePlayerLeft:        func() Packet { return &PlayerLeft{} },
	TypePlayerLoaded:      func() Packet { return &PlayerLoaded{} },
	TypeSlotInfo:          func() Packet { return &SlotInfoPacket{} },
	TypeCountDownStart:    func() Packet { return &CountDownStart{} },
	TypeCountDownEnd:      func() Packet { return &CountDownEnd{} },
	TypeIncomingAction:    func() Packet { return &IncomingAction{} },
	TypeDesync:            func() Packet { return &Desync{} },
	TypeChatFromHost:      func() Packet { return &ChatFromHost{} },
	TypeStartLag:          func() Packet { return &StartLag{} },
	TypeStopLag:           func() Packet { return &StopLag{} },
	TypeGameOver:          func() Packet { return &GameOver{} },
	TypeLeaveAck:          func() Packet { return &LeaveAck{} },
	TypePlayerKicked:      func() Packet { return &PlayerKicked{} },
	TypeReqJoin:           func() Packet { return &ReqJoin{} },
	TypeLeaveReq:          func() Packet { return &LeaveReq{} },
	TypeGameLoadedSelf:    func() Packet { return &GameLoadedSelf{} },
	TypeOutgoingAction:    func() Packet { return &OutgoingAction{} },
	TypeOutgoingKeepAlive: func() Packet { return &OutgoingKeepAlive{} },
	TypeChatToHost:        func() Packet { return &ChatToHost{} },
	TypeDropReq:           func() Packet { return &DropReq{} },
	TypeSearchGame:        func() Packet { return &SearchGame{} },
	TypeGameInfo:          func() Packet { return &GameInfo{} },
	TypeCreateGame:        func() Packet { return &CreateGame{} },
	TypeRefreshGame:       func() Packet { return &RefreshGame{} },
	TypeDecreateGame:      func() Packet { return &DecreateGame{} },
	TypeChatFromOthers:    func() Packet { return &ChatFromOthers{} },
	TypePingFromOthers:    func() Packet { return &PingFromOthers{} },
	TypePongToOthers:      func() Packet { return &PongToOthers{} },
	TypeClientInfo:        func() Packet { return &ClientInfo{} },
	TypePeerSet:           func() Packet { return &PeerSet{} },
	TypeMapCheck:          func() Packet { return &MapCheck{} },
	TypeStartDownload:     func() Packet { return &StartDownload{} },
	TypeMapSize:           func() Packet { return &MapSize{} },
	TypeMapPart:           func() Packet { return &MapPart{} },
	TypeMapPartOK:         func() Packet { return &MapPartOK{} },
	TypeMapPartError:      func() Packet { return &MapPartError{} },
	TypePongToHost:        func() Packet { return &PongToHost{} },
	TypeIncomingAction2:   func() Packet { return &IncomingAction2{} },
	TypeProtoBuf:          func() Packet { return &ProtoBufPacket{} },
}

// Encode serializes p into a complete wire frame: a 4-byte header
// followed by p's payload.
func Encode(p Packet) ([]byte, error) {
	body := &Cursor{}
	p.encode(body)

	framed := &Cursor{Bytes: make([]byte, 0, headerSize+body.Len())}
	encodeHeader(framed, p.Type(), body.Len())
	framed.WriteBlob(body.Bytes)
	return framed.Bytes, nil
}

// Decode parses the single frame at the front of b. It returns the
// decoded packet and the number of bytes that frame occupied, so a
// stream reader can slice b[n:] and continue. An id absent from the
// registry decodes into an UnknownPacket rather than failing, so a
// relay can forward frames it doesn't understand.
func Decode(b []byte) (Packet, int, error) {
	h, err := decodeHeader(b)
	if err != nil {
		return nil, 0, err
	}

	body := &Cursor{Bytes: b[headerSize:h.Length]}

	newPacket, known := registry[h.Type]
	if !known {
		p := &UnknownPacket{ID: uint8(h.Type)}
		if err := p.decode(body); err != nil {
			return nil, 0, err
		}
		return p, int(h.Length), nil
	}

	p := newPacket()
	if err := p.decode(body); err != nil {
		return nil, 0, err
	}
	return p, int(h.Length), nil
}
