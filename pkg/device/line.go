package device

import (
	"github.com/sirupsen/logrus"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/message"
)

const dialplanPollKey = "dialplan-lookup"
const dialplanPollInterval = 0.5 // seconds, per the 500ms polling cadence

// Line is the single directory number presented by a Device.
type Line struct {
	Instance uint32
	Name     string
	CIDName  string
	CIDNum   string
	Context  string
	Language string

	Forward       ForwardStatus
	ForwardTarget string

	Subchannels  []*Subchannel
	ActiveSub    *Subchannel
	State        CallState
	nextSubID    uint32
	pendingDigits string

	device *Device // non-owning
}

func newLine(d *Device) *Line {
	return &Line{Instance: 1, State: Onhook, device: d}
}

func (l *Line) logger() *logrus.Entry {
	return l.device.logger().WithField("line", l.Instance)
}

func (l *Line) tx(m message.Encoder) error {
	return l.device.tx.Transmit(m)
}

// newSubchannel allocates and appends a fresh call leg owned by this line.
func (l *Line) newSubchannel(dir Direction) *Subchannel {
	l.nextSubID++
	sc := &Subchannel{ID: l.nextSubID, Direction: dir, line: l, CallID: l.nextSubID}
	l.Subchannels = append(l.Subchannels, sc)
	return sc
}

// subchannelByCallID finds the subchannel a media-handshake ack refers
// back to, after un-mirroring its passThruPartyId.
func (l *Line) subchannelByCallID(callID uint32) *Subchannel {
	for _, sc := range l.Subchannels {
		if sc.CallID == callID {
			return sc
		}
	}
	return nil
}

func (l *Line) removeSubchannel(sc *Subchannel) {
	sc.release()
	for i, s := range l.Subchannels {
		if s == sc {
			l.Subchannels = append(l.Subchannels[:i], l.Subchannels[i+1:]...)
			break
		}
	}
	if l.ActiveSub == sc {
		l.ActiveSub = nil
	}
}

// OffHook handles a phone-initiated OFFHOOK: fresh dial tone from
// Onhook, or answer of an incoming ring.
func (l *Line) OffHook() error {
	switch l.State {
	case Onhook:
		return l.goOffhookDial()
	case RingIn:
		return l.answerIncoming()
	default:
		return nil
	}
}

func (l *Line) goOffhookDial() error {
	sc := l.newSubchannel(Outgoing)
	l.ActiveSub = sc
	l.State = Offhook
	sc.State = Offhook
	l.pendingDigits = ""

	if err := l.tx(message.SetLamp{StimulusType: message.StimulusLine, StimulusInstance: l.Instance, LampMode: message.LampOn}); err != nil {
		return err
	}
	if err := l.tx(message.CallState{State: uint32(Offhook), LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.tx(message.StartTone{Tone: message.ToneDial, LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.tx(message.SelectSoftKeys{LineInstance: l.Instance, CallID: sc.CallID, SoftKeySet: softKeySetForState(Offhook)}); err != nil {
		return err
	}
	l.device.sched.Schedule(dialplanPollKey, dialplanPollInterval, l.pollDialplan)
	return nil
}

func (l *Line) answerIncoming() error {
	sc := l.ActiveSub
	if sc == nil {
		return nil
	}
	prev := l.State
	l.State = Connected
	sc.State = Connected

	if err := l.tx(message.SetRinger{RingMode: message.RingOff}); err != nil {
		return err
	}
	if err := l.tx(message.CallState{State: uint32(Connected), LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.tx(message.StopTone{LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.openReceiveChannel(sc); err != nil {
		return err
	}
	if sc.Channel != nil {
		_ = sc.Channel.Answer()
	}
	_ = prev
	return nil
}

// OnHook handles a phone-initiated ONHOOK from any non-Onhook state:
// the state graph collapses every active call to the single hangup
// transition described in the spec (no separate CONNECTED-path pass).
func (l *Line) OnHook() error {
	if l.State == Onhook {
		return nil
	}
	l.device.sched.Cancel(dialplanPollKey)

	sc := l.ActiveSub
	var callID uint32
	if sc != nil {
		callID = sc.CallID
	}

	l.State = Onhook
	if err := l.tx(message.CallState{State: uint32(Onhook), LineInstance: l.Instance, CallID: callID}); err != nil {
		return err
	}
	if err := l.tx(message.SelectSoftKeys{LineInstance: l.Instance, CallID: callID, SoftKeySet: softKeySetForState(Onhook)}); err != nil {
		return err
	}
	if err := l.tx(message.CloseReceiveChannel{CallID: callID}); err != nil {
		return err
	}
	if err := l.tx(message.StopMediaTransmission{CallID: callID}); err != nil {
		return err
	}
	if sc != nil {
		l.removeSubchannel(sc)
	}
	return nil
}

// KeypadButton appends a dialed digit while dialing, or relays
// in-band DTMF once connected.
func (l *Line) KeypadButton(digit uint32) error {
	switch l.State {
	case Offhook, RingOut:
		if len(l.pendingDigits) == 0 {
			if err := l.tx(message.StopTone{LineInstance: l.Instance}); err != nil {
				return err
			}
		}
		l.pendingDigits += digitToChar(digit)
		return nil
	case Connected:
		if l.ActiveSub != nil && l.ActiveSub.Channel != nil {
			return l.ActiveSub.Channel.Queue(host.Frame{Kind: "dtmf", DTMF: byte(digitToChar(digit)[0])})
		}
		return nil
	default:
		return nil
	}
}

func digitToChar(digit uint32) string {
	switch {
	case digit <= 9:
		return string(rune('0' + digit))
	case digit == 14:
		return "*"
	case digit == 15:
		return "#"
	default:
		return ""
	}
}

// pollDialplan is the dialplan-lookup sub-FSM: re-enqueued on the
// session's task runner every 500ms while the line stays OFFHOOK.
func (l *Line) pollDialplan() {
	if l.State != Offhook {
		return
	}
	pbx := l.device.hostClient
	exists, err := pbx.ExtenExists(l.Context, l.pendingDigits)
	if err != nil {
		l.logger().WithError(err).Warn("dialplan lookup failed")
		return
	}
	if !exists {
		l.device.sched.Schedule(dialplanPollKey, dialplanPollInterval, l.pollDialplan)
		return
	}
	more, err := pbx.MatchMore(l.Context, l.pendingDigits)
	if err != nil {
		l.logger().WithError(err).Warn("dialplan matchmore failed")
		return
	}
	if more {
		l.device.sched.Schedule(dialplanPollKey, dialplanPollInterval, l.pollDialplan)
		return
	}
	if err := l.commitDial(); err != nil {
		l.logger().WithError(err).Warn("commit dial failed")
	}
}

func (l *Line) commitDial() error {
	sc := l.ActiveSub
	if sc == nil {
		return nil
	}
	l.State = RingOut
	sc.State = RingOut

	if err := l.tx(message.CallState{State: uint32(RingOut), LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.tx(message.StartTone{Tone: message.ToneAlert, LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.tx(message.CallInfo{
		CalledParty:  l.pendingDigits,
		LineInstance: l.Instance,
		CallID:       sc.CallID,
	}); err != nil {
		return err
	}
	rtp, err := l.device.hostClient.NewRTP(nil)
	if err != nil {
		return err
	}
	sc.RTP = rtp
	sc.Channel = nil // allocated by the host on pbx_start in a full integration
	return l.device.hostClient.Start(noopChannel{})
}

// IncomingCall is driven by a host event: another party is ringing
// this line.
func (l *Line) IncomingCall(otherActive bool) error {
	if l.State != Onhook {
		return nil
	}
	sc := l.newSubchannel(Incoming)
	l.ActiveSub = sc
	l.State = RingIn
	sc.State = RingIn

	if err := l.tx(message.CallState{State: uint32(RingIn), LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.tx(message.SelectSoftKeys{LineInstance: l.Instance, CallID: sc.CallID, SoftKeySet: softKeySetForState(RingIn)}); err != nil {
		return err
	}
	if err := l.tx(message.CallInfo{LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	if err := l.tx(message.SetLamp{StimulusType: message.StimulusLine, StimulusInstance: l.Instance, LampMode: message.LampBlink}); err != nil {
		return err
	}
	if !otherActive {
		if err := l.tx(message.SetRinger{RingMode: message.RingInside}); err != nil {
			return err
		}
	}
	return nil
}

// HostAnswer is driven by a host event: the far end picked up a
// phone-originated call.
func (l *Line) HostAnswer() error {
	if l.State != RingOut && l.State != Offhook {
		return nil
	}
	sc := l.ActiveSub
	if sc == nil {
		return nil
	}
	l.State = Connected
	sc.State = Connected
	if err := l.tx(message.StopTone{LineInstance: l.Instance, CallID: sc.CallID}); err != nil {
		return err
	}
	return l.openReceiveChannel(sc)
}

// HostBusyOrCongestion is driven by a host event signaling the called
// party is unavailable.
func (l *Line) HostBusyOrCongestion(congestion bool) error {
	state := Busy
	if congestion {
		state = Congestion
	}
	l.State = state
	if l.ActiveSub != nil {
		l.ActiveSub.State = state
	}
	if err := l.tx(message.SetRinger{RingMode: message.RingOff}); err != nil {
		return err
	}
	return l.tx(message.StartTone{Tone: message.ToneBusy, LineInstance: l.Instance})
}

func (l *Line) openReceiveChannel(sc *Subchannel) error {
	sc.Codec = l.device.PreferredCodec()
	if sc.RTP == nil {
		rtp, err := l.device.hostClient.NewRTP(nil)
		if err != nil {
			return err
		}
		sc.RTP = rtp
	}
	return l.tx(message.OpenReceiveChannel{
		CallID:                sc.CallID,
		PassThruPartyID:       sc.CallID ^ 0xFFFFFFFF,
		MillisecondPacketSize: 20,
		PayloadCapability:     sc.Codec,
	})
}

// noopChannel is a placeholder host.Channel used where a full host
// integration would supply one from channel_alloc; it exists so the
// commit-dial path has something to call pbx_start with in isolation.
type noopChannel struct{}

func (noopChannel) Answer() error            { return nil }
func (noopChannel) Hangup() error            { return nil }
func (noopChannel) Queue(host.Frame) error   { return nil }
func (noopChannel) SetState(string) error    { return nil }
