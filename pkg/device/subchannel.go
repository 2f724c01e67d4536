package device

import "github.com/vincentpeyrouse/wazo-libsccp/pkg/host"

// Subchannel is a single call leg on a Line. Line owns its
// Subchannels; the back-reference to Line is a non-owning identifier
// used only to reach the parent's transmit/lock helpers and must
// never be used after the Line has dropped this Subchannel.
type Subchannel struct {
	ID        uint32
	State     CallState
	Direction Direction
	OnHold    bool
	CallID    uint32
	Codec     uint32

	RTP     host.RTPInstance
	Channel host.Channel

	line *Line
}

// release tears down the host resources this subchannel holds. It is
// idempotent so it can safely run on every hangup exit path even if
// some resources were never allocated.
func (s *Subchannel) release() {
	if s.RTP != nil {
		_ = s.RTP.Destroy()
		s.RTP = nil
	}
	if s.Channel != nil {
		_ = s.Channel.Hangup()
		s.Channel = nil
	}
}
