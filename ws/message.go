// Package ws is the UI channel: the local desktop UI's websocket
// connection, fed a stream of OutgoingMessage values describing lobby
// and node-registry state as it changes.
package ws

import "time"

// OutgoingMessage is the tagged union of every message the UI channel
// sends. Exactly one field is meaningful per value, selected by Type.
type OutgoingMessage struct {
	Type string `json:"type"`

	PingUpdate    *PingUpdate    `json:"pingUpdate,omitempty"`
	Disconnect    *Disconnect    `json:"disconnect,omitempty"`
	SessionUpdate *SessionUpdate `json:"sessionUpdate,omitempty"`
}

// Message type discriminants.
const (
	TypePingUpdate    = "PingUpdate"
	TypeDisconnect    = "Disconnect"
	TypeSessionUpdate = "SessionUpdate"
)

// PingUpdate mirrors a node.PingUpdate for the UI: the node id and its
// current RTT in whole milliseconds, or nil if the node is currently
// unreachable.
type PingUpdate struct {
	NodeID int32  `json:"nodeId"`
	PingMs *int64 `json:"pingMs,omitempty"`
}

// DisconnectReason classifies why the lobby stream closed.
type DisconnectReason string

// Disconnect reasons. Unknown is what a transport-error close reports
// (spec §4.5): the lobby stream cannot distinguish a deliberate
// server-side close from a network failure.
const (
	DisconnectUnknown DisconnectReason = "Unknown"
)

// Disconnect notifies the UI that the lobby stream has closed.
type Disconnect struct {
	Reason  DisconnectReason `json:"reason"`
	Message string           `json:"message"`
}

// SessionUpdate notifies the UI of a new or changed game session,
// referencing the controller-assigned game id.
type SessionUpdate struct {
	GameID int32  `json:"gameId"`
	Status string `json:"status"`
}

// NewPingUpdate builds the UI PingUpdate message for a node.PingUpdate
// value.
func NewPingUpdate(nodeID int32, ping *time.Duration) OutgoingMessage {
	var pingMs *int64
	if ping != nil {
		ms := ping.Milliseconds()
		pingMs = &ms
	}
	return OutgoingMessage{
		Type:       TypePingUpdate,
		PingUpdate: &PingUpdate{NodeID: nodeID, PingMs: pingMs},
	}
}

// NewDisconnect builds the UI Disconnect message for an unexpected
// lobby stream close.
func NewDisconnect(reason DisconnectReason, message string) OutgoingMessage {
	return OutgoingMessage{
		Type:       TypeDisconnect,
		Disconnect: &Disconnect{Reason: reason, Message: message},
	}
}
