package message

import "encoding/binary"

// Outbound messages: driver -> phone. Each type implements Encode,
// producing the raw body handed to Frame.Encode by the session.

type KeepAliveAck struct{}

func (KeepAliveAck) ID() uint32    { return IDKeepAliveAck }
func (KeepAliveAck) Encode() []byte { return nil }

// RegisterAck acknowledges a successful registration. Pad1/Pad2/Pad3
// follow the device-compatibility table: different firmware families
// expect different filler bytes in the unused fields of this reply.
type RegisterAck struct {
	KeepaliveInterval uint32
	DateFormat        string
	SecondaryKeepalive uint32
	ProtoVersion      uint8
	Pad1              uint8
	Pad2              uint8
	Pad3              uint8
}

func (RegisterAck) ID() uint32 { return IDRegisterAck }

func (m RegisterAck) Encode() []byte {
	buf := make([]byte, 4+6+4+4)
	binary.LittleEndian.PutUint32(buf[0:], m.KeepaliveInterval)
	putString(buf[4:10], m.DateFormat)
	binary.LittleEndian.PutUint32(buf[10:], m.SecondaryKeepalive)
	buf[14] = m.ProtoVersion
	buf[15] = m.Pad1
	buf[16] = m.Pad2
	buf[17] = m.Pad3
	return buf
}

// RegisterRej carries the human-readable rejection reason shown on
// the phone's display, e.g. "Unsupported device type [N]".
type RegisterRej struct {
	Reason string
}

func (RegisterRej) ID() uint32 { return IDRegisterRej }

func (m RegisterRej) Encode() []byte {
	buf := make([]byte, 33)
	putString(buf, m.Reason)
	return buf
}

type CapabilitiesReq struct{}

func (CapabilitiesReq) ID() uint32    { return IDCapabilitiesReq }
func (CapabilitiesReq) Encode() []byte { return nil }

type ClearMessage struct{}

func (ClearMessage) ID() uint32    { return IDClearMessage }
func (ClearMessage) Encode() []byte { return nil }

// ButtonDefinition is one slot in a ButtonTemplateRes.
type ButtonDefinition struct {
	Instance uint8
	Type     uint8
}

const (
	ButtonLine    uint8 = 0x01
	ButtonSpeedDial uint8 = 0x02
	ButtonNone    uint8 = 0xFF
)

type ButtonTemplateRes struct {
	Buttons          []ButtonDefinition
	ButtonCount      uint32
	TotalButtonCount uint32
}

func (ButtonTemplateRes) ID() uint32 { return IDButtonTemplateRes }

func (m ButtonTemplateRes) Encode() []byte {
	buf := make([]byte, 4+4+MaxButtonDefinition*2)
	binary.LittleEndian.PutUint32(buf[0:], m.ButtonCount)
	binary.LittleEndian.PutUint32(buf[4:], m.TotalButtonCount)
	off := 8
	for i := 0; i < MaxButtonDefinition; i++ {
		if i < len(m.Buttons) {
			buf[off] = m.Buttons[i].Instance
			buf[off+1] = m.Buttons[i].Type
		} else {
			buf[off] = 0
			buf[off+1] = ButtonNone
		}
		off += 2
	}
	return buf
}

type LineStatusRes struct {
	LineNumber      string
	LineDisplayName string
	Instance        uint32
}

func (LineStatusRes) ID() uint32 { return IDLineStatusRes }

func (m LineStatusRes) Encode() []byte {
	buf := make([]byte, 24+NameSize+4)
	putString(buf[0:24], m.LineNumber)
	putString(buf[24:24+NameSize], m.LineDisplayName)
	binary.LittleEndian.PutUint32(buf[24+NameSize:], m.Instance)
	return buf
}

type ConfigStatusRes struct {
	DeviceName       string
	StationID        uint32
	UserID           uint32
	NumberLines      uint32
	NumberSpeedDials uint32
}

func (ConfigStatusRes) ID() uint32 { return IDConfigStatusRes }

func (m ConfigStatusRes) Encode() []byte {
	buf := make([]byte, NameSize+4*4)
	putString(buf[0:NameSize], m.DeviceName)
	off := NameSize
	binary.LittleEndian.PutUint32(buf[off:], m.StationID)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.UserID)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.NumberLines)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.NumberSpeedDials)
	return buf
}

type DateTimeRes struct {
	Year, Month, DayOfWeek, Day   uint32
	Hour, Minute, Second, Millisecond uint32
}

func (DateTimeRes) ID() uint32 { return IDDateTimeRes }

func (m DateTimeRes) Encode() []byte {
	buf := make([]byte, 4*8)
	vals := []uint32{m.Year, m.Month, m.DayOfWeek, m.Day, m.Hour, m.Minute, m.Second, m.Millisecond}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

// SoftKeyDescriptor names one softkey and the event id it fires.
type SoftKeyDescriptor struct {
	Label string
	Event uint32
}

type SoftKeyTemplateRes struct {
	Keys []SoftKeyDescriptor
}

func (SoftKeyTemplateRes) ID() uint32 { return IDSoftKeyTemplateRes }

func (m SoftKeyTemplateRes) Encode() []byte {
	buf := make([]byte, 4+len(m.Keys)*20)
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(m.Keys)))
	off := 4
	for _, k := range m.Keys {
		putString(buf[off:off+16], k.Label)
		binary.LittleEndian.PutUint32(buf[off+16:], k.Event)
		off += 20
	}
	return buf
}

// SoftKeySetRes enumerates, for a single requested call state, which
// softkey indices (into the template above) are active.
type SoftKeySetRes struct {
	State      uint32
	KeyIndices []uint8
}

func (SoftKeySetRes) ID() uint32 { return IDSoftKeySetRes }

func (m SoftKeySetRes) Encode() []byte {
	const maxKeysPerSet = 16
	buf := make([]byte, 4+maxKeysPerSet)
	binary.LittleEndian.PutUint32(buf[0:], m.State)
	for i := 0; i < maxKeysPerSet; i++ {
		if i < len(m.KeyIndices) {
			buf[4+i] = m.KeyIndices[i]
		} else {
			buf[4+i] = 0xFF
		}
	}
	return buf
}

type ForwardStatusRes struct {
	LineInstance  uint32
	Active        uint32
	ForwardNumber string
}

func (ForwardStatusRes) ID() uint32 { return IDForwardStatusRes }

func (m ForwardStatusRes) Encode() []byte {
	buf := make([]byte, 4+4+24)
	binary.LittleEndian.PutUint32(buf[0:], m.LineInstance)
	binary.LittleEndian.PutUint32(buf[4:], m.Active)
	putString(buf[8:], m.ForwardNumber)
	return buf
}

type SpeedDialStatRes struct {
	Index     uint32
	Extension string
	Label     string
}

func (SpeedDialStatRes) ID() uint32 { return IDSpeedDialStatRes }

func (m SpeedDialStatRes) Encode() []byte {
	buf := make([]byte, 4+24+NameSize)
	binary.LittleEndian.PutUint32(buf[0:], m.Index)
	putString(buf[4:28], m.Extension)
	putString(buf[28:], m.Label)
	return buf
}

// BLF status values reported in FeatureStat.Status.
const (
	BLFStatusUnknown uint32 = 0
	BLFStatusIdle    uint32 = 1
	BLFStatusInUse   uint32 = 2
)

type FeatureStat struct {
	Instance  uint32
	FeatureID uint32
	Status    uint32
}

func (FeatureStat) ID() uint32 { return IDFeatureStat }

func (m FeatureStat) Encode() []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:], m.Instance)
	binary.LittleEndian.PutUint32(buf[4:], m.FeatureID)
	binary.LittleEndian.PutUint32(buf[8:], m.Status)
	return buf
}

type OpenReceiveChannel struct {
	CallID                uint32
	PassThruPartyID       uint32
	MillisecondPacketSize uint32
	PayloadCapability     uint32
	EchoCancellation      uint32
}

func (OpenReceiveChannel) ID() uint32 { return IDOpenReceiveChannel }

func (m OpenReceiveChannel) Encode() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[0:], m.CallID)
	binary.LittleEndian.PutUint32(buf[4:], m.PassThruPartyID)
	binary.LittleEndian.PutUint32(buf[8:], m.MillisecondPacketSize)
	binary.LittleEndian.PutUint32(buf[12:], m.PayloadCapability)
	binary.LittleEndian.PutUint32(buf[16:], m.EchoCancellation)
	return buf
}

type CloseReceiveChannel struct {
	CallID          uint32
	PassThruPartyID uint32
}

func (CloseReceiveChannel) ID() uint32 { return IDCloseReceiveChannel }

func (m CloseReceiveChannel) Encode() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], m.CallID)
	binary.LittleEndian.PutUint32(buf[4:], m.PassThruPartyID)
	return buf
}

type StartMediaTransmission struct {
	CallID                uint32
	PassThruPartyID       uint32
	RemoteIP              [4]byte
	RemotePort            uint32
	MillisecondPacketSize uint32
	PayloadCapability     uint32
}

func (StartMediaTransmission) ID() uint32 { return IDStartMediaTransmission }

func (m StartMediaTransmission) Encode() []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint32(buf[0:], m.CallID)
	binary.LittleEndian.PutUint32(buf[4:], m.PassThruPartyID)
	copy(buf[8:12], m.RemoteIP[:])
	binary.LittleEndian.PutUint32(buf[12:], m.RemotePort)
	binary.LittleEndian.PutUint32(buf[16:], m.MillisecondPacketSize)
	binary.LittleEndian.PutUint32(buf[20:], m.PayloadCapability)
	return buf
}

type StopMediaTransmission struct {
	CallID          uint32
	PassThruPartyID uint32
}

func (StopMediaTransmission) ID() uint32 { return IDStopMediaTransmission }

func (m StopMediaTransmission) Encode() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], m.CallID)
	binary.LittleEndian.PutUint32(buf[4:], m.PassThruPartyID)
	return buf
}

type CallState struct {
	State        uint32
	LineInstance uint32
	CallID       uint32
}

func (CallState) ID() uint32 { return IDCallState }

func (m CallState) Encode() []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:], m.State)
	binary.LittleEndian.PutUint32(buf[4:], m.LineInstance)
	binary.LittleEndian.PutUint32(buf[8:], m.CallID)
	return buf
}

type CallInfo struct {
	CallingPartyName string
	CallingParty     string
	CalledPartyName  string
	CalledParty      string
	LineInstance     uint32
	CallID           uint32
	CallType         uint32
}

func (CallInfo) ID() uint32 { return IDCallInfo }

func (m CallInfo) Encode() []byte {
	buf := make([]byte, NameSize+24+NameSize+24+12)
	off := 0
	putString(buf[off:off+NameSize], m.CallingPartyName)
	off += NameSize
	putString(buf[off:off+24], m.CallingParty)
	off += 24
	putString(buf[off:off+NameSize], m.CalledPartyName)
	off += NameSize
	putString(buf[off:off+24], m.CalledParty)
	off += 24
	binary.LittleEndian.PutUint32(buf[off:], m.LineInstance)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.CallID)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.CallType)
	return buf
}

type DisplayMessage struct {
	Text string
}

func (DisplayMessage) ID() uint32 { return IDDisplayMessage }

func (m DisplayMessage) Encode() []byte {
	buf := make([]byte, 32)
	putString(buf, m.Text)
	return buf
}

// Lamp stimulus/mode constants, referenced by device logic when
// building SetLamp messages.
const (
	StimulusLine      uint32 = 1
	StimulusVoicemail uint32 = 2
	StimulusSpeedDial uint32 = 3

	LampOff    uint32 = 1
	LampOn     uint32 = 2
	LampBlink  uint32 = 4
)

type SetLamp struct {
	StimulusType     uint32
	StimulusInstance uint32
	LampMode         uint32
}

func (SetLamp) ID() uint32 { return IDSetLamp }

func (m SetLamp) Encode() []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:], m.StimulusType)
	binary.LittleEndian.PutUint32(buf[4:], m.StimulusInstance)
	binary.LittleEndian.PutUint32(buf[8:], m.LampMode)
	return buf
}

const (
	RingOff    uint32 = 1
	RingInside uint32 = 2
	RingOutside uint32 = 3
)

type SetRinger struct {
	RingMode uint32
}

func (SetRinger) ID() uint32 { return IDSetRinger }

func (m SetRinger) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, m.RingMode)
	return buf
}

const (
	SpeakerOn  uint32 = 1
	SpeakerOff uint32 = 2
)

type SetSpeakerMode struct {
	Mode uint32
}

func (SetSpeakerMode) ID() uint32 { return IDSetSpeakerMode }

func (m SetSpeakerMode) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, m.Mode)
	return buf
}

const (
	ToneDial  uint32 = 0x21
	ToneBusy  uint32 = 0x23
	ToneAlert uint32 = 0x24
	ToneNone  uint32 = 0x7F
)

type StartTone struct {
	Tone         uint32
	LineInstance uint32
	CallID       uint32
}

func (StartTone) ID() uint32 { return IDStartTone }

func (m StartTone) Encode() []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:], m.Tone)
	binary.LittleEndian.PutUint32(buf[4:], m.LineInstance)
	binary.LittleEndian.PutUint32(buf[8:], m.CallID)
	return buf
}

type StopTone struct {
	LineInstance uint32
	CallID       uint32
}

func (StopTone) ID() uint32 { return IDStopTone }

func (m StopTone) Encode() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], m.LineInstance)
	binary.LittleEndian.PutUint32(buf[4:], m.CallID)
	return buf
}

type SelectSoftKeys struct {
	LineInstance uint32
	CallID       uint32
	SoftKeySet   uint32
	ValidKeyMask uint32
}

func (SelectSoftKeys) ID() uint32 { return IDSelectSoftKeys }

func (m SelectSoftKeys) Encode() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], m.LineInstance)
	binary.LittleEndian.PutUint32(buf[4:], m.CallID)
	binary.LittleEndian.PutUint32(buf[8:], m.SoftKeySet)
	binary.LittleEndian.PutUint32(buf[12:], m.ValidKeyMask)
	return buf
}

type ActivateCallPlane struct {
	LineInstance uint32
}

func (ActivateCallPlane) ID() uint32 { return IDActivateCallPlane }

func (m ActivateCallPlane) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, m.LineInstance)
	return buf
}

const (
	ResetSoft uint32 = 1
	ResetHard uint32 = 2
)

type Reset struct {
	Mode uint32
}

func (Reset) ID() uint32 { return IDReset }

func (m Reset) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, m.Mode)
	return buf
}
