package diagnostics

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeUnsupportedForNonTCPConn(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	_, err := Probe(client)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestProbeOnRealTCPLoopback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()
	server := <-accepted
	defer server.Close()

	// Probe either succeeds (Linux) or reports ErrUnsupported
	// (everywhere else); it must not panic either way.
	_, err = Probe(client)
	if err != nil {
		assert.ErrorIs(t, err, ErrUnsupported)
	}
}
