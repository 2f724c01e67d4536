package device

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	sccp "github.com/vincentpeyrouse/wazo-libsccp"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/config"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/message"
)

const keepaliveTaskKey = "keepalive"

// Device is one registered phone: its identity, negotiated protocol
// details, single Line, SpeedDials and registration state.
type Device struct {
	mu sync.Mutex

	name         string
	typ          int
	protoVersion uint8
	regState     RegState

	Line       *Line
	SpeedDials []*SpeedDial

	cfg    config.DeviceConfig
	codecs []uint32

	tx         Transmitter
	sched      Scheduler
	hostClient host.Host

	mwiSubID  int
	hasMWISub bool

	log *logrus.Entry
}

// New constructs a Device bound to the given session collaborators.
// It does not register itself anywhere; callers drive the handshake
// via HandleRegister.
func New(tx Transmitter, sched Scheduler, h host.Host, log *logrus.Entry) *Device {
	d := &Device{tx: tx, sched: sched, hostClient: h, regState: StateNew, log: log}
	d.Line = newLine(d)
	return d
}

// Name satisfies registry.Device.
func (d *Device) Name() string { return d.name }

// BindName sets the device's registered name before it is handed to
// the registry, so the registry key matches even before HandleRegister
// has run its own (idempotent) assignment of the same value.
func (d *Device) BindName(name string) {
	d.mu.Lock()
	d.name = name
	d.mu.Unlock()
}

// Type returns the declared device model.
func (d *Device) Type() int { return d.typ }

// RegistrationState reports the device's current lifecycle state.
func (d *Device) RegistrationState() RegState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regState
}

func (d *Device) logger() *logrus.Entry {
	if d.log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return d.log
}

// HandleRegister runs the registration handshake against a looked-up
// configuration. The caller (Session) is responsible for the registry
// add/reject decision; HandleRegister only validates the device type
// and, on success, finishes the handshake by sending the ack sequence.
func (d *Device) HandleRegister(reg message.Register, cfg config.DeviceConfig) error {
	d.mu.Lock()
	d.name = reg.Name
	d.typ = int(reg.Type)
	d.mu.Unlock()

	if !IsSupportedDeviceType(int(reg.Type)) {
		reason := fmt.Sprintf("Unsupported device type [%d]", reg.Type)
		return d.tx.Transmit(message.RegisterRej{Reason: reason})
	}

	d.applyConfig(cfg)

	emitted, pad1, pad2, pad3 := clampProtoVersion(reg.ProtoVersion)
	d.mu.Lock()
	d.protoVersion = emitted
	d.regState = StateRegistering
	d.mu.Unlock()

	if err := d.tx.Transmit(message.RegisterAck{
		KeepaliveInterval:  uint32(cfg.Keepalive),
		DateFormat:         cfg.DateFormat,
		SecondaryKeepalive: uint32(cfg.Keepalive),
		ProtoVersion:       emitted,
		Pad1:               pad1,
		Pad2:               pad2,
		Pad3:               pad3,
	}); err != nil {
		return err
	}
	if err := d.tx.Transmit(message.CapabilitiesReq{}); err != nil {
		return err
	}
	if err := d.tx.Transmit(message.ClearMessage{}); err != nil {
		return err
	}
	if err := d.tx.Transmit(message.SetLamp{
		StimulusType:     message.StimulusVoicemail,
		StimulusInstance: d.Line.Instance,
		LampMode:         message.LampOff,
	}); err != nil {
		return err
	}

	if d.hostClient != nil {
		id, err := d.hostClient.SubscribeMWI(cfg.Voicemail, cfg.Line.Context, d.onMWI)
		if err != nil {
			d.logger().WithError(err).Warn("mwi subscribe failed")
		} else {
			d.mwiSubID = id
			d.hasMWISub = true
		}
		for _, sd := range d.SpeedDials {
			sd.subscribeHint(d.hostClient, d.logger())
		}
	}

	return nil
}

// applyConfig populates Line/SpeedDials from a configuration snapshot
// entry. Called both on initial registration and on a live reload
// that does not require a reset.
func (d *Device) applyConfig(cfg config.DeviceConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.Line.Name = cfg.Line.Name
	d.Line.CIDName = cfg.Line.CIDName
	d.Line.CIDNum = cfg.Line.CIDNum
	d.Line.Context = cfg.Line.Context
	d.Line.Language = cfg.Line.Language

	speedDials := make([]*SpeedDial, 0, len(cfg.SpeedDials))
	for i, sd := range cfg.SpeedDials {
		speedDials = append(speedDials, &SpeedDial{
			Label:     sd.Label,
			Extension: sd.Extension,
			Index:     uint32(sd.Index),
			Instance:  uint32(2 + i), // line instances occupy slot 1
			wantBLF:   sd.BLF,
		})
	}
	d.SpeedDials = speedDials
}

func (d *Device) onMWI(newMsgs, oldMsgs int) {
	mode := message.LampOff
	if newMsgs > 0 {
		mode = message.LampOn
	}
	_ = d.tx.Transmit(message.SetLamp{
		StimulusType:     message.StimulusVoicemail,
		StimulusInstance: d.Line.Instance,
		LampMode:         mode,
	})
}

// PreferredCodec returns the first codec the phone advertised in its
// CAPABILITIES_RES, or 0 if none has been negotiated yet.
func (d *Device) PreferredCodec() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.codecs) == 0 {
		return 0
	}
	return d.codecs[0]
}

// TriggerReset sends a RESET with the given mode immediately, for the
// control API's on-demand device reset, independent of any config
// reload.
func (d *Device) TriggerReset(mode uint32) error {
	return d.tx.Transmit(message.Reset{Mode: mode})
}

// Reload compares cur against the device's current configuration per
// the §6.6 comparison set. If any compared field differs, it sends a
// soft RESET and returns true so the caller can close the session;
// otherwise it swaps the config in place and returns false.
func (d *Device) Reload(cur config.DeviceConfig) (resetSent bool, err error) {
	d.mu.Lock()
	old := d.cfg
	d.mu.Unlock()

	if config.DiffRequiresReset(old, cur) {
		if err := d.tx.Transmit(message.Reset{Mode: message.ResetSoft}); err != nil {
			return false, err
		}
		return true, nil
	}
	d.applyConfig(cur)
	return false, nil
}

// Disconnect marks the device connlost and releases host-side
// subscriptions and RTP resources. It never reverses: a device that
// reaches connlost is done.
func (d *Device) Disconnect() {
	d.mu.Lock()
	d.regState = StateConnLost
	mwiID := d.mwiSubID
	hasMWI := d.hasMWISub
	speedDials := d.SpeedDials
	line := d.Line
	d.mu.Unlock()

	if hasMWI && d.hostClient != nil {
		_ = d.hostClient.UnsubscribeMWI(mwiID)
	}
	for _, sd := range speedDials {
		sd.unsubscribeHint(d.hostClient)
	}
	for _, sc := range line.Subchannels {
		sc.release()
	}
}

// ButtonTemplate builds the BUTTON_TEMPLATE_RES payload: slot 0 is the
// single line, slots 1..N are speed-dials in index order, the rest
// padded BT_NONE.
func (d *Device) ButtonTemplate() message.ButtonTemplateRes {
	d.mu.Lock()
	defer d.mu.Unlock()
	buttons := make([]message.ButtonDefinition, 0, 1+len(d.SpeedDials))
	buttons = append(buttons, message.ButtonDefinition{Instance: uint8(d.Line.Instance), Type: message.ButtonLine})
	for _, sd := range d.SpeedDials {
		buttons = append(buttons, message.ButtonDefinition{Instance: uint8(sd.Instance), Type: message.ButtonSpeedDial})
	}
	return message.ButtonTemplateRes{
		Buttons:          buttons,
		ButtonCount:      uint32(len(buttons)),
		TotalButtonCount: uint32(len(buttons)),
	}
}

// Dispatch routes one decoded inbound message to the appropriate
// handler. Non-REGISTER/ALARM messages must not reach here before
// registration; the session enforces that ordering before calling in.
func (d *Device) Dispatch(m message.Message) error {
	switch v := m.(type) {
	case message.KeepAlive:
		return d.tx.Transmit(message.KeepAliveAck{})
	case message.OffHook:
		return d.Line.OffHook()
	case message.OnHook:
		return d.Line.OnHook()
	case message.KeypadButton:
		return d.Line.KeypadButton(v.Digit)
	case message.SoftKeyEvent:
		return d.HandleSoftKeyEvent(v)
	case message.SoftKeySetReq:
		return d.HandleSoftKeySetReq()
	case message.ButtonTemplateReq:
		return d.tx.Transmit(d.ButtonTemplate())
	case message.ConfigStatusReq:
		return d.handleConfigStatusReq()
	case message.SpeedDialStatReq:
		return d.handleSpeedDialStatReq(v)
	case message.RegisterAvailableLines:
		return nil // acknowledged as a no-op; single-line devices only
	case message.TimeDateReq:
		return d.tx.Transmit(dateTimeRes(time.Now()))
	case message.LineStatusReq:
		return d.handleLineStatusReq(v)
	case message.SoftKeyTemplateReq:
		return d.tx.Transmit(softKeyTemplateRes())
	case message.ForwardStatusReq:
		return d.handleForwardStatusReq(v)
	case message.FeatureStatusReq:
		return d.handleFeatureStatusReq(v)
	case message.CapabilitiesRes:
		return d.handleCapabilitiesRes(v)
	case message.OpenReceiveChannelAck:
		return d.handleOpenReceiveChannelAck(v)
	case message.StartMediaTransmissionAck:
		return d.handleStartMediaTransmissionAck(v)
	case message.Unregister:
		d.logger().Debug("unregister requested, tearing down session")
		return sccp.ErrUnregisterRequested
	case message.Alarm:
		d.logger().WithFields(logrus.Fields{
			"severity": v.Severity,
			"display":  v.Display,
		}).Warn("device alarm")
		return nil
	case message.Unknown:
		d.logger().WithField("id", v.RawID).Debug("unknown message id, ignoring")
		return nil
	default:
		return nil
	}
}

func dateTimeRes(t time.Time) message.DateTimeRes {
	return message.DateTimeRes{
		Year:        uint32(t.Year()),
		Month:       uint32(t.Month()),
		DayOfWeek:   uint32(t.Weekday()),
		Day:         uint32(t.Day()),
		Hour:        uint32(t.Hour()),
		Minute:      uint32(t.Minute()),
		Second:      uint32(t.Second()),
		Millisecond: uint32(t.Nanosecond() / 1e6),
	}
}

func activeFlag(active bool) uint32 {
	if active {
		return 1
	}
	return 0
}

func (d *Device) handleLineStatusReq(req message.LineStatusReq) error {
	d.mu.Lock()
	if req.LineInstance != d.Line.Instance {
		d.mu.Unlock()
		d.logger().WithField("instance", req.LineInstance).Debug("line status request for unknown instance")
		return nil
	}
	res := message.LineStatusRes{
		LineNumber:      d.Line.Name,
		LineDisplayName: d.Line.CIDName,
		Instance:        d.Line.Instance,
	}
	fwd := message.ForwardStatusRes{
		LineInstance:  d.Line.Instance,
		Active:        activeFlag(d.Line.Forward == ForwardActive),
		ForwardNumber: d.Line.ForwardTarget,
	}
	d.mu.Unlock()

	if err := d.tx.Transmit(res); err != nil {
		return err
	}
	return d.tx.Transmit(fwd)
}

func (d *Device) handleForwardStatusReq(req message.ForwardStatusReq) error {
	d.mu.Lock()
	res := message.ForwardStatusRes{
		LineInstance:  req.LineInstance,
		Active:        activeFlag(d.Line.Forward == ForwardActive),
		ForwardNumber: d.Line.ForwardTarget,
	}
	d.mu.Unlock()
	return d.tx.Transmit(res)
}

func (d *Device) handleFeatureStatusReq(req message.FeatureStatusReq) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sd := range d.SpeedDials {
		if sd.Instance == req.Instance {
			return d.tx.Transmit(message.FeatureStat{
				Instance:  sd.Instance,
				FeatureID: uint32(message.ButtonSpeedDial),
				Status:    sd.blfStatus(),
			})
		}
	}
	d.logger().WithField("instance", req.Instance).Debug("no speed-dial for feature status request")
	return nil
}

// handleCapabilitiesRes records the phone's negotiated codec list so
// later OPEN_RECEIVE_CHANNEL messages carry a real PayloadCapability
// instead of always advertising 0.
func (d *Device) handleCapabilitiesRes(res message.CapabilitiesRes) error {
	d.mu.Lock()
	d.codecs = res.Codecs
	d.mu.Unlock()
	return nil
}

// handleOpenReceiveChannelAck completes the media-negotiation
// handshake: the phone's ack carries the RTP endpoint it opened for
// receiving, keyed back to its subchannel via the passThruPartyId
// mirroring (passThruPartyId = callid XOR 0xFFFFFFFF). Binding that
// endpoint and replying with START_MEDIA_TRANSMISSION tells the phone
// where to send its own audio in turn.
func (d *Device) handleOpenReceiveChannelAck(ack message.OpenReceiveChannelAck) error {
	callID := ack.PassThruPartyID ^ 0xFFFFFFFF
	sc := d.Line.subchannelByCallID(callID)
	if sc == nil {
		d.logger().WithField("call_id", callID).Debug("open receive channel ack for unknown subchannel")
		return nil
	}
	if ack.Status != 0 {
		d.logger().WithField("status", ack.Status).Warn("phone rejected open receive channel")
		return nil
	}

	var localIP [4]byte
	var localPort uint32
	if sc.RTP != nil {
		remote := &net.UDPAddr{IP: net.IPv4(ack.IP[0], ack.IP[1], ack.IP[2], ack.IP[3]), Port: int(ack.Port)}
		if err := sc.RTP.SetRemote(remote); err != nil {
			return err
		}
		if local := sc.RTP.LocalAddr(); local != nil {
			if ip4 := local.IP.To4(); ip4 != nil {
				copy(localIP[:], ip4)
			}
			localPort = uint32(local.Port)
		}
	}

	return d.tx.Transmit(message.StartMediaTransmission{
		CallID:                sc.CallID,
		PassThruPartyID:       sc.CallID ^ 0xFFFFFFFF,
		RemoteIP:              localIP,
		RemotePort:            localPort,
		MillisecondPacketSize: 20,
		PayloadCapability:     sc.Codec,
	})
}

// handleStartMediaTransmissionAck logs the phone's confirmation (or
// rejection) of the START_MEDIA_TRANSMISSION this device sent; no
// further state change follows either way.
func (d *Device) handleStartMediaTransmissionAck(ack message.StartMediaTransmissionAck) error {
	callID := ack.PassThruPartyID ^ 0xFFFFFFFF
	sc := d.Line.subchannelByCallID(callID)
	if sc == nil {
		return nil
	}
	if ack.Status != 0 {
		d.logger().WithField("status", ack.Status).Warn("phone rejected start media transmission")
	}
	return nil
}

func (d *Device) handleConfigStatusReq() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tx.Transmit(message.ConfigStatusRes{
		DeviceName:       d.name,
		NumberLines:      1,
		NumberSpeedDials: uint32(len(d.SpeedDials)),
	})
}

func (d *Device) handleSpeedDialStatReq(req message.SpeedDialStatReq) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sd := range d.SpeedDials {
		if sd.Index == req.Index {
			return d.tx.Transmit(message.SpeedDialStatRes{
				Index:     sd.Index,
				Extension: sd.Extension,
				Label:     sd.Label,
			})
		}
	}
	return nil
}
