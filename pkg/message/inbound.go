package message

import "encoding/binary"

// Inbound messages: phone -> driver. Each type's Decode function
// validates payload length before touching any field, per the
// length-checked-before-access rule the schema layer enforces.

type KeepAlive struct{}

func (KeepAlive) ID() uint32 { return IDKeepAlive }

func decodeKeepAlive(body []byte) (Message, error) { return KeepAlive{}, nil }

// Register is the phone's registration request.
type Register struct {
	Name          string
	UserID        uint32
	StationID     uint32
	Type          uint32
	MaxStreams    uint32
	ActiveStreams uint32
	ProtoVersion  uint8
}

func (Register) ID() uint32 { return IDRegister }

func decodeRegister(body []byte) (Message, error) {
	const size = NameSize + 4*5 + 1
	if len(body) < size {
		return nil, decodeErr(IDRegister, size, len(body))
	}
	r := Register{Name: getString(body[0:NameSize])}
	off := NameSize
	r.UserID = binary.LittleEndian.Uint32(body[off:])
	off += 4
	r.StationID = binary.LittleEndian.Uint32(body[off:])
	off += 4
	r.Type = binary.LittleEndian.Uint32(body[off:])
	off += 4
	r.MaxStreams = binary.LittleEndian.Uint32(body[off:])
	off += 4
	r.ActiveStreams = binary.LittleEndian.Uint32(body[off:])
	off += 4
	r.ProtoVersion = body[off]
	return r, nil
}

type IPPort struct {
	Port uint32
}

func (IPPort) ID() uint32 { return IDIPPort }

func decodeIPPort(body []byte) (Message, error) {
	if len(body) < 4 {
		return nil, decodeErr(IDIPPort, 4, len(body))
	}
	return IPPort{Port: binary.LittleEndian.Uint32(body)}, nil
}

type KeypadButton struct {
	Digit       uint32
	LineInstance uint32
	CallID      uint32
}

func (KeypadButton) ID() uint32 { return IDKeypadButton }

func decodeKeypadButton(body []byte) (Message, error) {
	if len(body) < 12 {
		return nil, decodeErr(IDKeypadButton, 12, len(body))
	}
	return KeypadButton{
		Digit:        binary.LittleEndian.Uint32(body[0:]),
		LineInstance: binary.LittleEndian.Uint32(body[4:]),
		CallID:       binary.LittleEndian.Uint32(body[8:]),
	}, nil
}

type OffHook struct {
	LineInstance uint32
	CallID       uint32
}

func (OffHook) ID() uint32 { return IDOffHook }

func decodeOffHook(body []byte) (Message, error) {
	if len(body) < 8 {
		return OffHook{}, nil
	}
	return OffHook{
		LineInstance: binary.LittleEndian.Uint32(body[0:]),
		CallID:       binary.LittleEndian.Uint32(body[4:]),
	}, nil
}

type OnHook struct {
	LineInstance uint32
	CallID       uint32
}

func (OnHook) ID() uint32 { return IDOnHook }

func decodeOnHook(body []byte) (Message, error) {
	if len(body) < 8 {
		return OnHook{}, nil
	}
	return OnHook{
		LineInstance: binary.LittleEndian.Uint32(body[0:]),
		CallID:       binary.LittleEndian.Uint32(body[4:]),
	}, nil
}

type ForwardStatusReq struct {
	LineInstance uint32
}

func (ForwardStatusReq) ID() uint32 { return IDForwardStatusReq }

func decodeForwardStatusReq(body []byte) (Message, error) {
	if len(body) < 4 {
		return nil, decodeErr(IDForwardStatusReq, 4, len(body))
	}
	return ForwardStatusReq{LineInstance: binary.LittleEndian.Uint32(body)}, nil
}

// CapabilitiesRes carries the phone's negotiated codec list.
type CapabilitiesRes struct {
	Codecs []uint32
}

func (CapabilitiesRes) ID() uint32 { return IDCapabilitiesRes }

func decodeCapabilitiesRes(body []byte) (Message, error) {
	if len(body) < 4 {
		return nil, decodeErr(IDCapabilitiesRes, 4, len(body))
	}
	count := binary.LittleEndian.Uint32(body[0:])
	off := 4
	codecs := make([]uint32, 0, count)
	for i := uint32(0); i < count && off+4 <= len(body); i++ {
		codecs = append(codecs, binary.LittleEndian.Uint32(body[off:]))
		off += 4
	}
	return CapabilitiesRes{Codecs: codecs}, nil
}

type LineStatusReq struct {
	LineInstance uint32
}

func (LineStatusReq) ID() uint32 { return IDLineStatusReq }

func decodeLineStatusReq(body []byte) (Message, error) {
	if len(body) < 4 {
		return nil, decodeErr(IDLineStatusReq, 4, len(body))
	}
	return LineStatusReq{LineInstance: binary.LittleEndian.Uint32(body)}, nil
}

type ConfigStatusReq struct{}

func (ConfigStatusReq) ID() uint32 { return IDConfigStatusReq }

func decodeConfigStatusReq(body []byte) (Message, error) { return ConfigStatusReq{}, nil }

type TimeDateReq struct{}

func (TimeDateReq) ID() uint32 { return IDTimeDateReq }

func decodeTimeDateReq(body []byte) (Message, error) { return TimeDateReq{}, nil }

type ButtonTemplateReq struct{}

func (ButtonTemplateReq) ID() uint32 { return IDButtonTemplateReq }

func decodeButtonTemplateReq(body []byte) (Message, error) { return ButtonTemplateReq{}, nil }

type SoftKeyTemplateReq struct{}

func (SoftKeyTemplateReq) ID() uint32 { return IDSoftKeyTemplateReq }

func decodeSoftKeyTemplateReq(body []byte) (Message, error) { return SoftKeyTemplateReq{}, nil }

// Alarm is a device-reported fault. Once the device is registered,
// Device.Dispatch logs it at warning level and otherwise ignores it;
// before registration the session accepts and drops it without logging.
type Alarm struct {
	Severity uint32
	Display  string
	Param1   uint32
	Param2   uint32
}

func (Alarm) ID() uint32 { return IDAlarm }

func decodeAlarm(body []byte) (Message, error) {
	const dispSize = 80
	if len(body) < 4+dispSize+8 {
		return nil, decodeErr(IDAlarm, 4+dispSize+8, len(body))
	}
	a := Alarm{Severity: binary.LittleEndian.Uint32(body[0:])}
	a.Display = getString(body[4 : 4+dispSize])
	off := 4 + dispSize
	a.Param1 = binary.LittleEndian.Uint32(body[off:])
	a.Param2 = binary.LittleEndian.Uint32(body[off+4:])
	return a, nil
}

type SoftKeyEvent struct {
	EventID      uint32
	LineInstance uint32
	CallID       uint32
}

func (SoftKeyEvent) ID() uint32 { return IDSoftKeyEvent }

func decodeSoftKeyEvent(body []byte) (Message, error) {
	if len(body) < 12 {
		return nil, decodeErr(IDSoftKeyEvent, 12, len(body))
	}
	return SoftKeyEvent{
		EventID:      binary.LittleEndian.Uint32(body[0:]),
		LineInstance: binary.LittleEndian.Uint32(body[4:]),
		CallID:       binary.LittleEndian.Uint32(body[8:]),
	}, nil
}

// OpenReceiveChannelAck carries the phone's negotiated RTP endpoint.
type OpenReceiveChannelAck struct {
	Status          uint32
	IP              [4]byte
	Port            uint32
	PassThruPartyID uint32
}

func (OpenReceiveChannelAck) ID() uint32 { return IDOpenReceiveChannelAck }

func decodeOpenReceiveChannelAck(body []byte) (Message, error) {
	if len(body) < 16 {
		return nil, decodeErr(IDOpenReceiveChannelAck, 16, len(body))
	}
	var ack OpenReceiveChannelAck
	ack.Status = binary.LittleEndian.Uint32(body[0:])
	copy(ack.IP[:], body[4:8])
	ack.Port = binary.LittleEndian.Uint32(body[8:])
	ack.PassThruPartyID = binary.LittleEndian.Uint32(body[12:])
	return ack, nil
}

// SoftKeySetReq asks the driver to (re-)send the softkey set for the
// line's current call state. Its payload is not decoded.
type SoftKeySetReq struct{}

func (SoftKeySetReq) ID() uint32 { return IDSoftKeySetReq }

func decodeSoftKeySetReq(body []byte) (Message, error) { return SoftKeySetReq{}, nil }

// RegisterAvailableLines is acknowledged as a no-op; nothing in this
// driver models per-line availability beyond the single configured line.
type RegisterAvailableLines struct{}

func (RegisterAvailableLines) ID() uint32 { return IDRegisterAvailableLines }

func decodeRegisterAvailableLines(body []byte) (Message, error) {
	return RegisterAvailableLines{}, nil
}

type StartMediaTransmissionAck struct {
	PassThruPartyID uint32
	IP              [4]byte
	Port            uint32
	Status          uint32
}

func (StartMediaTransmissionAck) ID() uint32 { return IDStartMediaTransmissionAck }

func decodeStartMediaTransmissionAck(body []byte) (Message, error) {
	if len(body) < 16 {
		return nil, decodeErr(IDStartMediaTransmissionAck, 16, len(body))
	}
	var ack StartMediaTransmissionAck
	ack.PassThruPartyID = binary.LittleEndian.Uint32(body[0:])
	copy(ack.IP[:], body[4:8])
	ack.Port = binary.LittleEndian.Uint32(body[8:])
	ack.Status = binary.LittleEndian.Uint32(body[12:])
	return ack, nil
}

type SpeedDialStatReq struct {
	Index uint32
}

func (SpeedDialStatReq) ID() uint32 { return IDSpeedDialStatReq }

func decodeSpeedDialStatReq(body []byte) (Message, error) {
	if len(body) < 4 {
		return nil, decodeErr(IDSpeedDialStatReq, 4, len(body))
	}
	return SpeedDialStatReq{Index: binary.LittleEndian.Uint32(body)}, nil
}

type FeatureStatusReq struct {
	Instance uint32
}

func (FeatureStatusReq) ID() uint32 { return IDFeatureStatusReq }

func decodeFeatureStatusReq(body []byte) (Message, error) {
	if len(body) < 4 {
		return nil, decodeErr(IDFeatureStatusReq, 4, len(body))
	}
	return FeatureStatusReq{Instance: binary.LittleEndian.Uint32(body)}, nil
}

type Unregister struct{}

func (Unregister) ID() uint32 { return IDUnregister }

func decodeUnregister(body []byte) (Message, error) { return Unregister{}, nil }

type decoderFunc func([]byte) (Message, error)

var decoders = map[uint32]decoderFunc{
	IDKeepAlive:              decodeKeepAlive,
	IDRegister:               decodeRegister,
	IDIPPort:                 decodeIPPort,
	IDKeypadButton:           decodeKeypadButton,
	IDOffHook:                decodeOffHook,
	IDOnHook:                 decodeOnHook,
	IDForwardStatusReq:       decodeForwardStatusReq,
	IDCapabilitiesRes:        decodeCapabilitiesRes,
	IDLineStatusReq:          decodeLineStatusReq,
	IDConfigStatusReq:        decodeConfigStatusReq,
	IDTimeDateReq:            decodeTimeDateReq,
	IDButtonTemplateReq:      decodeButtonTemplateReq,
	IDSoftKeyTemplateReq:     decodeSoftKeyTemplateReq,
	IDAlarm:                  decodeAlarm,
	IDSoftKeyEvent:           decodeSoftKeyEvent,
	IDOpenReceiveChannelAck:  decodeOpenReceiveChannelAck,
	IDSoftKeySetReq:          decodeSoftKeySetReq,
	IDRegisterAvailableLines: decodeRegisterAvailableLines,
	IDStartMediaTransmissionAck: decodeStartMediaTransmissionAck,
	IDSpeedDialStatReq:       decodeSpeedDialStatReq,
	IDFeatureStatusReq:       decodeFeatureStatusReq,
	IDUnregister:             decodeUnregister,
}
