//go:build linux

package diagnostics

import (
	"net"

	"github.com/higebu/netfd"
	"golang.org/x/sys/unix"
)

var tcpStateNames = map[uint8]string{
	unix.TCP_ESTABLISHED: "established",
	unix.TCP_SYN_SENT:    "syn-sent",
	unix.TCP_SYN_RECV:    "syn-recv",
	unix.TCP_FIN_WAIT1:   "fin-wait-1",
	unix.TCP_FIN_WAIT2:   "fin-wait-2",
	unix.TCP_TIME_WAIT:   "time-wait",
	unix.TCP_CLOSE:       "close",
	unix.TCP_CLOSE_WAIT:  "close-wait",
	unix.TCP_LAST_ACK:    "last-ack",
	unix.TCP_LISTEN:      "listen",
	unix.TCP_CLOSING:     "closing",
}

func probeTCPConn(tc *net.TCPConn) (*TCPHealth, error) {
	fd := netfd.GetFdFromConn(tc)
	info, err := unix.GetsockoptTCPInfo(fd, unix.IPPROTO_TCP, unix.TCP_INFO)
	if err != nil {
		return nil, err
	}
	state, ok := tcpStateNames[info.State]
	if !ok {
		state = "unknown"
	}
	return &TCPHealth{
		State:        state,
		RTTMicros:    info.Rtt,
		RTTVarMicros: info.Rttvar,
		Retransmits:  uint32(info.Retransmits),
	}, nil
}
