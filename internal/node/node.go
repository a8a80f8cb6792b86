// Package node maps domain commands and telemetry onto the fixed
// byte layouts the remote nodes speak. Each proxy owns one node role:
// the actuator node drives rods, pumps, and humidifier relays; the
// visualizer node animates the power-indicator LEDs.
package node

import "errors"

// Caller is the request/response surface a proxy needs. *link.Session
// satisfies it; tests substitute a stub.
type Caller interface {
	Call(cmd byte, payload []byte) ([]byte, error)
	Ping() error
}

// ErrShortResponse reports a structurally valid frame whose payload
// does not match the node's documented layout.
var ErrShortResponse = errors.New("node: response payload too short")
