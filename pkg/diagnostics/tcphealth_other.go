//go:build !linux

package diagnostics

import "net"

func probeTCPConn(tc *net.TCPConn) (*TCPHealth, error) {
	return nil, ErrUnsupported
}
