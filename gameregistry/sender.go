package gameregistry

// PlayerSender dispatches already-encoded lobby frames to one or more
// connected players. It is the registry's only way to reach a player;
// the real implementation forwards through each player's lobby.State
// (component C5), but the registry depends only on this narrow
// interface so it can be driven in tests without a network.
type PlayerSender interface {
	// Send delivers frames to a single player. A player with no live
	// lobby connection is not an error: the frame is simply dropped,
	// mirroring the original's best-effort player packet sender.
	Send(playerID int32, frames [][]byte)
	// Broadcast delivers frames to every listed player.
	Broadcast(playerIDs []int32, frames [][]byte)
}

// FrameEncoder builds the lobby frames the registry sends around
// lifecycle events. Wire encoding belongs to the lobby protocol layer,
// not here, so the registry only calls through this seam — grounded on
// the original's session-update/game-info frame pair sent on create,
// and its dissolve notification.
type FrameEncoder interface {
	SessionUpdateFrame(g *Game) []byte
	GameInfoFrame(g *Game) []byte
	DissolvedFrame(gameID int32) []byte
}
