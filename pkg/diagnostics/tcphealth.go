// Package diagnostics exposes per-session TCP health (round-trip time,
// retransmit counts) for the control surface, grounded on the pack's
// fd-extraction + TCP_INFO syscall pattern used to back its own
// connection exporters.
package diagnostics

import (
	"errors"
	"net"
)

// ErrUnsupported is returned when the connection isn't a *net.TCPConn,
// or the platform has no TCP_INFO support.
var ErrUnsupported = errors.New("diagnostics: TCP_INFO not available for this connection")

// TCPHealth is a snapshot of kernel-reported TCP connection state at
// one point in time.
type TCPHealth struct {
	State        string
	RTTMicros    uint32
	RTTVarMicros uint32
	Retransmits  uint32
}

// Probe reads the current TCP_INFO for conn, if the platform and
// connection type support it.
func Probe(conn net.Conn) (*TCPHealth, error) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return nil, ErrUnsupported
	}
	return probeTCPConn(tc)
}
