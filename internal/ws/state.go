package ws

import "sync/atomic"

// ConnState represents the connection state of a websocket.
type ConnState int32

// Connection lifecycle states.
const (
	// StateDisconnected indicates no connection.
	StateDisconnected ConnState = iota
	// StateConnecting indicates a dial in progress.
	StateConnecting
	// StateConnected indicates an active connection.
	StateConnected
	// StateReconnecting indicates an automatic reconnect in progress.
	StateReconnecting
	// StateClosed indicates the client was shut down for good.
	StateClosed
)

// String returns the string representation of the connection state.
func (s ConnState) String() string {
	return [...]string{"disconnected", "connecting", "connected", "reconnecting", "closed"}[s]
}

type connState struct {
	v atomic.Int32
}

func (s *connState) Load() ConnState { return ConnState(s.v.Load()) }

func (s *connState) Store(state ConnState) { s.v.Store(int32(state)) }

func (s *connState) CompareAndSwap(old, new ConnState) bool {
	return s.v.CompareAndSwap(int32(old), int32(new))
}
