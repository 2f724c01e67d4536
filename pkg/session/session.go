// Package session implements one TCP connection's read loop, write
// serialization and timer scheduling, translated from the teacher's
// NodeProcessor goroutine lifecycle (context-cancel + WaitGroup,
// Start/Stop/Wait) into a single blocking-read-with-deadline loop,
// since a Session is I/O-bound rather than timer-bound.
package session

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	sccp "github.com/vincentpeyrouse/wazo-libsccp"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/config"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/device"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/message"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/registry"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/task"
)

// RegState mirrors the session-level registration lifecycle from the
// data model: {new, registering, connlost}.
type RegState int

const (
	StateNew RegState = iota
	StateRegistering
	StateConnLost
)

const (
	keepaliveTaskKey = "keepalive"
	authTimeoutKey   = "auth-timeout"
)

// Deps bundles everything a Session needs from the rest of the driver,
// gathered in one place the way the teacher bundles a node's services.
type Deps struct {
	Conn        net.Conn
	Store       *config.Store
	Registry    *registry.Registry
	Host        host.Host
	Log         *logrus.Entry
	AuthTimeout time.Duration
}

// Session owns one TCP connection end to end: framing, dispatch to a
// bound Device, and the timers that keep a dead phone from lingering.
type Session struct {
	ID xid.ID

	conn      net.Conn
	peerAddr  string
	startTime time.Time

	writeMu sync.Mutex

	runner *task.Runner[*Session]

	regState atomic.Int32
	device   *device.Device

	keepaliveMu  sync.Mutex
	keepaliveSec float64

	store    *config.Store
	registry *registry.Registry
	host     host.Host
	log      *logrus.Entry

	stopFlag atomic.Bool
}

// New wraps an accepted connection in a Session, ready for Run.
func New(deps Deps) *Session {
	s := &Session{
		ID:        xid.New(),
		conn:      deps.Conn,
		peerAddr:  deps.Conn.RemoteAddr().String(),
		startTime: time.Now(),
		runner:    task.NewRunner[*Session](),
		store:     deps.Store,
		registry:  deps.Registry,
		host:      deps.Host,
		log:       deps.Log,
	}
	s.regState.Store(int32(StateNew))
	s.keepaliveSec = 30
	authTimeout := deps.AuthTimeout
	if authTimeout == 0 {
		authTimeout = 5 * time.Second
	}
	s.runner.Add(task.Task[*Session]{
		Key:      authTimeoutKey,
		Callback: func(sess *Session) { sess.terminate(sccp.ErrAuthTimeout) },
	}, authTimeout.Seconds())
	return s
}

func (s *Session) logger() *logrus.Entry {
	if s.log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return s.log.WithField("session", s.ID.String()).WithField("peer", s.peerAddr)
}

// Transmit serializes one outbound message under the session's write
// lock, satisfying device.Transmitter.
func (s *Session) Transmit(m message.Encoder) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	f := message.ToFrame(m)
	if err := sccp.WriteFrame(s.conn, f); err != nil {
		s.logger().WithError(err).WithField("id", message.Name(m.ID())).Warn("write failed")
		return err
	}
	return nil
}

// Schedule and Cancel satisfy device.Scheduler on top of the task
// runner, adapting a no-argument callback to the runner's Callback[S]
// shape.
func (s *Session) Schedule(key string, delaySeconds float64, fn func()) {
	s.runner.Add(task.Task[*Session]{Key: key, Callback: func(*Session) { fn() }}, delaySeconds)
}

func (s *Session) Cancel(key string) { s.runner.Remove(key) }

// Stop requests cooperative shutdown; the read loop checks this
// between poll cycles and closing the socket wakes any blocked read.
func (s *Session) Stop() {
	s.stopFlag.Store(true)
	_ = s.conn.Close()
}

func (s *Session) stopped() bool { return s.stopFlag.Load() }

// Conn exposes the underlying connection for diagnostics probing.
func (s *Session) Conn() net.Conn { return s.conn }

// DeviceName reports the bound device's name, or "" before
// registration completes.
func (s *Session) DeviceName() string {
	if s.device == nil {
		return ""
	}
	return s.device.Name()
}

// Device exposes the bound device for control-surface lookups, or nil
// before registration completes.
func (s *Session) Device() *device.Device { return s.device }

func (s *Session) terminate(cause error) {
	s.logger().WithError(cause).Info("terminating session")
	s.Stop()
}

// Run drives the session until it terminates: reads frames, dispatches
// them, and runs due tasks, blocking on the socket no longer than
// min(next_ms(), 2*keepalive).
func (s *Session) Run() {
	defer s.cleanup()

	for !s.stopped() {
		s.runner.Run(s)
		if s.stopped() {
			return
		}

		waitMs := s.runner.NextMs()
		deadline := time.Now().Add(2 * time.Second)
		if waitMs >= 0 {
			deadline = time.Now().Add(time.Duration(waitMs) * time.Millisecond)
			if waitMs == 0 {
				continue
			}
		}
		_ = s.conn.SetReadDeadline(deadline)

		f, err := sccp.ReadFrame(s.conn)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if !errors.Is(err, io.EOF) && !s.stopped() {
				s.logger().WithError(err).Debug("read error, closing session")
			}
			return
		}

		if err := s.handleFrame(f); err != nil {
			s.logger().WithError(err).Debug("frame handling error, closing session")
			return
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (s *Session) handleFrame(f sccp.Frame) error {
	msg, err := message.Decode(f.ID, f.Body)
	if err != nil {
		return err
	}

	reg, ok := msg.(message.Register)
	if ok {
		return s.handleRegister(reg)
	}

	if RegState(s.regState.Load()) == StateNew {
		if _, isAlarm := msg.(message.Alarm); !isAlarm {
			return sccp.ErrOutOfOrder
		}
		return nil
	}

	// Registered: any frame, not just KEEP_ALIVE, postpones the
	// keepalive timeout, matching a phone that is otherwise busy
	// signalling aliveness through ordinary traffic.
	s.runner.Add(task.Task[*Session]{
		Key:      keepaliveTaskKey,
		Callback: func(sess *Session) { sess.terminate(sccp.ErrKeepaliveTimeout) },
	}, s.keepaliveSeconds()*2)

	if s.device == nil {
		return nil
	}
	return s.device.Dispatch(msg)
}

func (s *Session) keepaliveSeconds() float64 {
	s.keepaliveMu.Lock()
	defer s.keepaliveMu.Unlock()
	return s.keepaliveSec
}

func (s *Session) setKeepaliveSeconds(sec float64) {
	s.keepaliveMu.Lock()
	s.keepaliveSec = sec
	s.keepaliveMu.Unlock()
}

func (s *Session) handleRegister(reg message.Register) error {
	if !device.IsSupportedDeviceType(int(reg.Type)) {
		d := device.New(s, s, s.host, s.logger())
		if err := d.HandleRegister(reg, config.DeviceConfig{}); err != nil {
			return err
		}
		// Keep the session alive briefly so the phone can read the
		// rejection before the server closes it.
		s.Schedule("post-reject-close", 1.0, s.Stop)
		return nil
	}

	snap := s.store.Get()
	cfg, ok := snap.Device(reg.Name)
	if !ok {
		if err := s.Transmit(message.RegisterRej{Reason: "Access denied: " + reg.Name}); err != nil {
			return err
		}
		return sccp.ErrUnknownDevice
	}

	d := device.New(s, s, s.host, s.logger())
	d.BindName(reg.Name)
	if _, err := s.registry.Add(d); err != nil {
		_ = s.Transmit(message.RegisterRej{Reason: "Access denied: " + reg.Name})
		return err
	}

	if err := d.HandleRegister(reg, cfg); err != nil {
		s.registry.Remove(reg.Name)
		return err
	}

	s.device = d
	s.regState.Store(int32(StateRegistering))
	s.setKeepaliveSeconds(float64(cfg.Keepalive))
	s.runner.Remove(authTimeoutKey)
	s.runner.Add(task.Task[*Session]{
		Key:      keepaliveTaskKey,
		Callback: func(sess *Session) { sess.terminate(sccp.ErrKeepaliveTimeout) },
	}, float64(cfg.Keepalive)*2)
	return nil
}

func (s *Session) cleanup() {
	s.regState.Store(int32(StateConnLost))
	if s.device != nil {
		s.device.Disconnect()
		s.registry.Remove(s.device.Name())
	}
	_ = s.conn.Close()
}
