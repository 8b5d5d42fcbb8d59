package lobby

import "context"

// Stream is the client's single persistent control connection to the
// controller. The transport itself (spec §6: gRPC or equivalent) is
// an external collaborator; this package only needs the narrow
// send/close surface to drive the state machine in §4.5.
type Stream interface {
	// Send transmits one already-encoded lobby frame.
	Send(ctx context.Context, frame []byte) error
	// Close tears down the underlying transport.
	Close() error
}
