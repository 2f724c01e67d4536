package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoundTrip(t *testing.T) {
	body := make([]byte, NameSize+4*5+1)
	putString(body[0:NameSize], "SEP001122334455")
	body[NameSize+20] = 11 // ProtoVersion byte
	// Type field (3rd uint32) = 115
	body[NameSize+8] = 115

	msg, err := Decode(IDRegister, body)
	require.NoError(t, err)
	reg, ok := msg.(Register)
	require.True(t, ok)
	assert.Equal(t, "SEP001122334455", reg.Name)
	assert.Equal(t, uint32(115), reg.Type)
	assert.Equal(t, uint8(11), reg.ProtoVersion)
}

func TestDecodeUnknownMessageIsNotError(t *testing.T) {
	msg, err := Decode(0xDEADBEEF, []byte{1, 2, 3})
	require.NoError(t, err)
	unk, ok := msg.(Unknown)
	require.True(t, ok)
	assert.Equal(t, uint32(0xDEADBEEF), unk.RawID)
}

func TestDecodeShortPayloadErrors(t *testing.T) {
	_, err := Decode(IDRegister, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestOutboundToFrameCarriesID(t *testing.T) {
	cases := []Encoder{
		KeepAliveAck{},
		RegisterAck{KeepaliveInterval: 30, DateFormat: "D.M.Y", ProtoVersion: 11, Pad1: 0x20, Pad2: 0xF1, Pad3: 0xFF},
		RegisterRej{Reason: "Unsupported device type [999]"},
		CallState{State: 2, LineInstance: 1, CallID: 42},
		SetLamp{StimulusType: StimulusVoicemail, StimulusInstance: 1, LampMode: LampOff},
		StartMediaTransmission{CallID: 7, PassThruPartyID: 7 ^ 0xFFFFFFFF, RemotePort: 20000},
		Reset{Mode: ResetSoft},
	}
	for _, c := range cases {
		f := ToFrame(c)
		assert.Equal(t, c.ID(), f.ID)
	}
}

func TestButtonTemplateResPadsRemainingSlots(t *testing.T) {
	m := ButtonTemplateRes{
		Buttons:          []ButtonDefinition{{Instance: 1, Type: ButtonLine}},
		ButtonCount:      1,
		TotalButtonCount: 1,
	}
	buf := m.Encode()
	require.Len(t, buf, 4+4+MaxButtonDefinition*2)
	// second slot must be padded BT_NONE
	assert.Equal(t, ButtonNone, buf[8+2+1])
}

func TestCallInfoFieldOrder(t *testing.T) {
	m := CallInfo{
		CallingPartyName: "Alice",
		CallingParty:     "100",
		CalledPartyName:  "Bob",
		CalledParty:      "200",
		LineInstance:     1,
		CallID:           9,
		CallType:         1,
	}
	buf := m.Encode()
	assert.Equal(t, "Alice", getString(buf[0:NameSize]))
	assert.Equal(t, "100", getString(buf[NameSize:NameSize+24]))
}
