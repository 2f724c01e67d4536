// Package fake provides in-memory Host collaborators for tests, the
// same role the teacher's virtual CAN bus plays for its own test
// suite: a dependency-free stand-in behind the same interface a real
// backend implements.
package fake

import (
	"fmt"
	"net"
	"sync"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host"
)

// Channel is an in-memory host.Channel recording every call made on it.
type Channel struct {
	mu      sync.Mutex
	Answered bool
	Hungup  bool
	State   string
	Queued  []host.Frame
}

func (c *Channel) Answer() error { c.mu.Lock(); defer c.mu.Unlock(); c.Answered = true; return nil }
func (c *Channel) Hangup() error { c.mu.Lock(); defer c.mu.Unlock(); c.Hungup = true; return nil }

func (c *Channel) Queue(f host.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Queued = append(c.Queued, f)
	return nil
}

func (c *Channel) SetState(state string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State = state
	return nil
}

// RTP is an in-memory host.RTPInstance.
type RTP struct {
	mu      sync.Mutex
	local   *net.UDPAddr
	remote  *net.UDPAddr
	Destroyed bool
}

func (r *RTP) SetRemote(addr *net.UDPAddr) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remote = addr
	return nil
}

func (r *RTP) LocalAddr() *net.UDPAddr { return r.local }

func (r *RTP) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Destroyed = true
	return nil
}

// Host is a fully in-memory host.Host. Extension existence is
// configured directly by tests via the exported maps; hint state is
// driven through SetHintState.
type Host struct {
	mu sync.Mutex

	Extensions map[string]bool // "context/exten" -> exists
	MatchMores map[string]bool
	Started    []host.Channel

	hintSubs map[int]hintSub
	mwiSubs  map[int]mwiSub
	nextID   int

	hintState map[string]string
	mwiCounts map[string][2]int
}

type hintSub struct {
	context, exten string
	cb             host.HintCallback
}

type mwiSub struct {
	mailbox, context string
	cb               host.MWICallback
}

// New returns an empty fake host, ready to have Extensions/MatchMores
// populated by the calling test.
func New() *Host {
	return &Host{
		Extensions: make(map[string]bool),
		MatchMores: make(map[string]bool),
		hintSubs:   make(map[int]hintSub),
		mwiSubs:    make(map[int]mwiSub),
		hintState:  make(map[string]string),
		mwiCounts:  make(map[string][2]int),
	}
}

func key(context, exten string) string { return context + "/" + exten }

func (h *Host) ExtenExists(context, exten string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Extensions[key(context, exten)], nil
}

func (h *Host) MatchMore(context, exten string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.MatchMores[key(context, exten)], nil
}

func (h *Host) Start(ch host.Channel) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Started = append(h.Started, ch)
	return nil
}

func (h *Host) NewRTP(localBind *net.UDPAddr) (host.RTPInstance, error) {
	return &RTP{local: localBind}, nil
}

func (h *Host) Subscribe(context, exten string, cb host.HintCallback) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.hintSubs[id] = hintSub{context: context, exten: exten, cb: cb}
	return id, nil
}

func (h *Host) Unsubscribe(id int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.hintSubs[id]; !ok {
		return fmt.Errorf("fake: no such hint subscription %d", id)
	}
	delete(h.hintSubs, id)
	return nil
}

func (h *Host) Query(context, exten string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hintState[key(context, exten)], nil
}

// SetHintState drives a subscribed hint callback, simulating a BLF
// change arriving from the host.
func (h *Host) SetHintState(context, exten, state string) {
	h.mu.Lock()
	h.hintState[key(context, exten)] = state
	var cbs []host.HintCallback
	for _, s := range h.hintSubs {
		if s.context == context && s.exten == exten {
			cbs = append(cbs, s.cb)
		}
	}
	h.mu.Unlock()
	for _, cb := range cbs {
		cb(state)
	}
}

func (h *Host) SubscribeMWI(mailbox, context string, cb host.MWICallback) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.mwiSubs[id] = mwiSub{mailbox: mailbox, context: context, cb: cb}
	return id, nil
}

func (h *Host) UnsubscribeMWI(id int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.mwiSubs[id]; !ok {
		return fmt.Errorf("fake: no such mwi subscription %d", id)
	}
	delete(h.mwiSubs, id)
	return nil
}

func (h *Host) QueryMWI(mailbox string) (int, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.mwiCounts[mailbox]
	return c[0], c[1], nil
}
