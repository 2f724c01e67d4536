package device

import "github.com/vincentpeyrouse/wazo-libsccp/pkg/message"

// Softkey event ids the phone reports in SOFTKEY_EVENT. Exact values
// are not claimed to match any firmware; see message/ids.go's doc
// comment for the same caveat applied to message ids.
const (
	SoftKeyRedial   uint32 = 1
	SoftKeyNewCall  uint32 = 2
	SoftKeyHold     uint32 = 3
	SoftKeyTransfer uint32 = 4
	SoftKeyCFwdAll  uint32 = 5
	SoftKeyEndCall  uint32 = 8
	SoftKeyResume   uint32 = 9
	SoftKeyAnswer   uint32 = 10
)

// softkey set ids, one per requested call state; SELECT_SOFT_KEYS and
// SOFTKEY_SET_RES both key off these.
const (
	softKeySetOnhook CallState = Onhook
)

// softKeySetForState maps a call state to the softkey set index the
// phone should display; the index is the state's numeric value. The
// line's transition handlers pass the state they are entering;
// HandleSoftKeySetReq passes the line's current state.
func softKeySetForState(s CallState) uint32 {
	return uint32(s)
}

// HandleSoftKeyEvent dispatches a SOFTKEY_EVENT by requested target
// state rather than by the line's current state alone: NEWCALL always
// drives toward Offhook and ENDCALL always drives toward Onhook,
// regardless of what state the line happened to be in when the key
// was pressed.
func (d *Device) HandleSoftKeyEvent(ev message.SoftKeyEvent) error {
	line := d.Line
	switch ev.EventID {
	case SoftKeyNewCall:
		if err := line.tx(message.SetSpeakerMode{Mode: message.SpeakerOn}); err != nil {
			return err
		}
		return line.OffHook()
	case SoftKeyEndCall:
		if err := line.tx(message.SetSpeakerMode{Mode: message.SpeakerOff}); err != nil {
			return err
		}
		if err := line.tx(message.SetRinger{RingMode: message.RingOff}); err != nil {
			return err
		}
		return line.OnHook()
	case SoftKeyAnswer:
		return line.OffHook()
	default:
		d.logger().WithField("event", ev.EventID).Debug("unhandled softkey event")
		return nil
	}
}

// softKeyTemplateRes builds the fixed softkey label/event table this
// driver supports, sent once per registration when the phone asks for
// it.
func softKeyTemplateRes() message.SoftKeyTemplateRes {
	return message.SoftKeyTemplateRes{Keys: []message.SoftKeyDescriptor{
		{Label: "Redial", Event: SoftKeyRedial},
		{Label: "NewCall", Event: SoftKeyNewCall},
		{Label: "Hold", Event: SoftKeyHold},
		{Label: "Transfer", Event: SoftKeyTransfer},
		{Label: "CFwdAll", Event: SoftKeyCFwdAll},
		{Label: "EndCall", Event: SoftKeyEndCall},
		{Label: "Resume", Event: SoftKeyResume},
		{Label: "Answer", Event: SoftKeyAnswer},
	}}
}

// HandleSoftKeySetReq replies with the softkey set matching the
// line's current call state.
func (d *Device) HandleSoftKeySetReq() error {
	return d.tx.Transmit(message.SoftKeySetRes{State: softKeySetForState(d.Line.State)})
}
