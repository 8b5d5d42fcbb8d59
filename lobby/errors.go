package lobby

import "errors"

// ErrServerNotConnected is returned by Send when there is no live
// connection to the controller — either none was ever established,
// or the previous one was torn down by a transport error.
var ErrServerNotConnected = errors.New("lobby: server not connected")
