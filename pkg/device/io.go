package device

import "github.com/vincentpeyrouse/wazo-libsccp/pkg/message"

// Transmitter is the one thing a Device needs from its owning
// session: a way to send a single outbound message. Session implements
// this; Device never sees a socket directly.
type Transmitter interface {
	Transmit(m message.Encoder) error
}

// Scheduler lets a Device run cooperative, cancellable delayed work
// (the dialplan-lookup poll) without blocking a thread on sleep. The
// owning session implements this on top of its task runner.
type Scheduler interface {
	Schedule(key string, delaySeconds float64, fn func())
	Cancel(key string)
}
