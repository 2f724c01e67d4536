// Package server implements the TCP accept loop that turns incoming
// phone connections into sessions: one goroutine per connection, a
// tracked set for orderly shutdown, and TCP_NODELAY on every socket
// since SCCP is a small-frame, latency-sensitive protocol.
package server

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/config"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/registry"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/session"
)

// Server owns the listening socket and the set of live sessions
// spawned from it.
type Server struct {
	store    *config.Store
	registry *registry.Registry
	host     host.Host
	log      *logrus.Entry

	mu       sync.Mutex
	listener net.Listener
	sessions map[*session.Session]struct{}
	stopped  bool
}

// New builds a Server bound to the given configuration store,
// registry and host adapter, all shared across every session it
// spawns.
func New(store *config.Store, reg *registry.Registry, h host.Host, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		store:    store,
		registry: reg,
		host:     h,
		log:      log,
		sessions: make(map[*session.Session]struct{}),
	}
}

// ListenAndServe binds addr and accepts connections until Shutdown is
// called or the listener errors. It blocks, like the teacher's
// GatewayServer.ListenAndServe.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.WithField("addr", addr).Info("sccp server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return nil
			}
			return err
		}
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	snap := s.store.Get()
	authTimeout := time.Duration(snap.AuthTimeout) * time.Second

	sess := session.New(session.Deps{
		Conn:        conn,
		Store:       s.store,
		Registry:    s.registry,
		Host:        s.host,
		Log:         s.log,
		AuthTimeout: authTimeout,
	})

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		sess.Stop()
		return
	}
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
	}()

	sess.Run()
}

// Shutdown stops accepting new connections, closes every live session,
// and returns once they have all torn down. Sessions are signalled to
// stop before any is waited on, mirroring the teacher's
// stop-everyone-then-wait-everyone ordering so no session blocks
// behind another.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.stopped = true
	ln := s.listener
	live := make([]*session.Session, 0, len(s.sessions))
	for sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	for _, sess := range live {
		sess.Stop()
	}
	for {
		s.mu.Lock()
		remaining := len(s.sessions)
		s.mu.Unlock()
		if remaining == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// SessionCount reports the number of currently live sessions, for
// metrics and diagnostics.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ConnByDeviceName finds the live connection for a registered device
// name, for the control API's TCP health lookup. It scans the session
// set rather than keeping a second name-keyed map, since registration
// only completes after the set is already populated.
func (s *Server) ConnByDeviceName(name string) (net.Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		if sess.DeviceName() == name {
			return sess.Conn(), true
		}
	}
	return nil, false
}
