package domain

import "time"

// ConnectionState represents the state of the node connection.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// ConnectionStatus contains detailed connection information.
type ConnectionStatus struct {
	State      ConnectionState
	ChainID    uint64
	LastBlock  uint64
	LastUpdate time.Time
}
