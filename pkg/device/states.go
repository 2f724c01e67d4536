// Package device implements the per-device registration and
// call-state machine: the phone-facing half of the driver that turns
// REGISTER/OFFHOOK/KEYPAD_BUTTON/softkey events and host callbacks
// into outbound SCCP messages.
package device

// RegState is a device's registration lifecycle. It only ever moves
// forward: new -> registering -> connlost.
type RegState int

const (
	StateNew RegState = iota
	StateRegistering
	StateConnLost
)

func (s RegState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRegistering:
		return "registering"
	case StateConnLost:
		return "connlost"
	default:
		return "unknown"
	}
}

// CallState is a line or subchannel's position in the call-state
// graph. The zero value is Onhook, the graph's initial state.
type CallState int

const (
	Onhook CallState = iota
	Offhook
	RingIn
	RingOut
	Connected
	Hold
	Busy
	Congestion
	Transfer
	Park
	Progress
	CallWait
	Invalid
)

var callStateNames = map[CallState]string{
	Onhook:     "ONHOOK",
	Offhook:    "OFFHOOK",
	RingIn:     "RINGIN",
	RingOut:    "RINGOUT",
	Connected:  "CONNECTED",
	Hold:       "HOLD",
	Busy:       "BUSY",
	Congestion: "CONGESTION",
	Transfer:   "TRANSFER",
	Park:       "PARK",
	Progress:   "PROGRESS",
	CallWait:   "CALLWAIT",
	Invalid:    "INVALID",
}

func (s CallState) String() string {
	if n, ok := callStateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// Direction is which party originated a Subchannel's call leg.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// ForwardStatus mirrors a Line's call-forward configuration state.
type ForwardStatus int

const (
	ForwardInactive ForwardStatus = iota
	ForwardInputting
	ForwardActive
)
