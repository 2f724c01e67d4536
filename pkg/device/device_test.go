package device

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sccp "github.com/vincentpeyrouse/wazo-libsccp"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/config"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host/fake"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/message"
)

type recordingTx struct {
	mu  sync.Mutex
	out []message.Encoder
}

func (r *recordingTx) Transmit(m message.Encoder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, m)
	return nil
}

func (r *recordingTx) ids() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint32, len(r.out))
	for i, m := range r.out {
		ids[i] = m.ID()
	}
	return ids
}

type inlineScheduler struct {
	scheduled map[string]func()
}

func newInlineScheduler() *inlineScheduler {
	return &inlineScheduler{scheduled: make(map[string]func())}
}

func (s *inlineScheduler) Schedule(key string, _ float64, fn func()) { s.scheduled[key] = fn }
func (s *inlineScheduler) Cancel(key string)                         { delete(s.scheduled, key) }

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func testConfig() config.DeviceConfig {
	return config.DeviceConfig{
		Name:       "SEP001122334455",
		Type:       115,
		DateFormat: "D.M.Y",
		Voicemail:  "100",
		Keepalive:  30,
		Line: config.LineConfig{
			Name:    "100",
			CIDName: "Alice",
			CIDNum:  "100",
			Context: "default",
		},
	}
}

func TestHandleRegisterSuccess(t *testing.T) {
	tx := &recordingTx{}
	h := fake.New()
	d := New(tx, newInlineScheduler(), h, testLogger())

	reg := message.Register{Name: "SEP001122334455", Type: 115, ProtoVersion: 11}
	require.NoError(t, d.HandleRegister(reg, testConfig()))

	assert.Equal(t, StateRegistering, d.RegistrationState())
	ids := tx.ids()
	require.GreaterOrEqual(t, len(ids), 4)
	assert.Equal(t, message.IDRegisterAck, ids[0])
	assert.Equal(t, message.IDCapabilitiesReq, ids[1])
	assert.Equal(t, message.IDClearMessage, ids[2])
	assert.Equal(t, message.IDSetLamp, ids[3])

	ack := tx.out[0].(message.RegisterAck)
	assert.Equal(t, uint8(11), ack.ProtoVersion)
	assert.Equal(t, byte(0x20), ack.Pad1)
	assert.Equal(t, byte(0xF1), ack.Pad2)
	assert.Equal(t, byte(0xFF), ack.Pad3)
}

func TestHandleRegisterUnsupportedType(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())

	reg := message.Register{Name: "SEPBAD", Type: 9999, ProtoVersion: 11}
	require.NoError(t, d.HandleRegister(reg, testConfig()))

	require.Len(t, tx.out, 1)
	rej, ok := tx.out[0].(message.RegisterRej)
	require.True(t, ok)
	assert.Equal(t, "Unsupported device type [9999]", rej.Reason)
	assert.Equal(t, StateNew, d.RegistrationState())
}

func TestOffHookThenDialCommitsToRingOut(t *testing.T) {
	tx := &recordingTx{}
	h := fake.New()
	sched := newInlineScheduler()
	d := New(tx, sched, h, testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))
	tx.out = nil

	require.NoError(t, d.Line.OffHook())
	assert.Equal(t, Offhook, d.Line.State)

	h.Extensions["default/100"] = true
	h.MatchMores["default/100"] = false

	for _, digit := range []uint32{1, 0, 0} {
		require.NoError(t, d.Line.KeypadButton(digit))
	}
	require.Contains(t, sched.scheduled, dialplanPollKey)
	sched.scheduled[dialplanPollKey]()

	assert.Equal(t, RingOut, d.Line.State)
	ids := tx.ids()
	assert.Contains(t, ids, message.IDCallState)
	assert.Contains(t, ids, message.IDCallInfo)
}

func TestOnHookFromAnyStateClosesChannel(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))
	require.NoError(t, d.Line.OffHook())
	tx.out = nil

	require.NoError(t, d.Line.OnHook())
	assert.Equal(t, Onhook, d.Line.State)
	assert.Empty(t, d.Line.Subchannels)
	ids := tx.ids()
	assert.Contains(t, ids, message.IDCloseReceiveChannel)
	assert.Contains(t, ids, message.IDStopMediaTransmission)
}

func TestReloadSendsSoftResetOnDateFormatChange(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))
	tx.out = nil

	changed := testConfig()
	changed.DateFormat = "M.D.Y"
	reset, err := d.Reload(changed)
	require.NoError(t, err)
	assert.True(t, reset)
	require.Len(t, tx.out, 1)
	r, ok := tx.out[0].(message.Reset)
	require.True(t, ok)
	assert.Equal(t, message.ResetSoft, r.Mode)
}

func TestReloadNoResetWhenFieldsUnchanged(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))
	tx.out = nil

	reset, err := d.Reload(testConfig())
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Empty(t, tx.out)
}

func TestButtonTemplatePadsToMax(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	cfg := testConfig()
	cfg.SpeedDials = []config.SpeedDialConfig{{Label: "Bob", Extension: "200", Index: 1}}
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, cfg))

	bt := d.ButtonTemplate()
	assert.Equal(t, uint32(2), bt.ButtonCount)
	buf := bt.Encode()
	assert.Equal(t, message.ButtonNone, buf[8+2*2+1])
}

func TestDispatchTimeDateReq(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Dispatch(message.TimeDateReq{}))
	assert.Contains(t, tx.ids(), message.IDDateTimeRes)
}

func TestDispatchLineStatusReqRepliesLineAndForwardStatus(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Dispatch(message.LineStatusReq{LineInstance: d.Line.Instance}))
	ids := tx.ids()
	assert.Contains(t, ids, message.IDLineStatusRes)
	assert.Contains(t, ids, message.IDForwardStatusRes)
}

func TestDispatchLineStatusReqUnknownInstanceIsIgnored(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Dispatch(message.LineStatusReq{LineInstance: d.Line.Instance + 1}))
	assert.Empty(t, tx.out)
}

func TestDispatchSoftKeyTemplateReq(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Dispatch(message.SoftKeyTemplateReq{}))
	assert.Contains(t, tx.ids(), message.IDSoftKeyTemplateRes)
}

func TestDispatchForwardStatusReq(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Dispatch(message.ForwardStatusReq{LineInstance: d.Line.Instance}))
	assert.Contains(t, tx.ids(), message.IDForwardStatusRes)
}

func TestDispatchFeatureStatusReqMatchesSpeedDialInstance(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	cfg := testConfig()
	cfg.SpeedDials = []config.SpeedDialConfig{{Label: "Bob", Extension: "200", Index: 1, BLF: true}}
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, cfg))

	sd := d.SpeedDials[0]
	sd.State = "INUSE"

	require.NoError(t, d.Dispatch(message.FeatureStatusReq{Instance: sd.Instance}))
	require.Contains(t, tx.ids(), message.IDFeatureStat)

	var stat message.FeatureStat
	for _, m := range tx.out {
		if fs, ok := m.(message.FeatureStat); ok {
			stat = fs
		}
	}
	assert.Equal(t, sd.Instance, stat.Instance)
	assert.Equal(t, message.BLFStatusInUse, stat.Status)
}

func TestDispatchFeatureStatusReqUnknownInstanceIsIgnored(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Dispatch(message.FeatureStatusReq{Instance: 99}))
	assert.Empty(t, tx.out)
}

func TestDispatchCapabilitiesResFeedsPreferredCodec(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	assert.Equal(t, uint32(0), d.PreferredCodec())
	require.NoError(t, d.Dispatch(message.CapabilitiesRes{Codecs: []uint32{4, 2}}))
	assert.Equal(t, uint32(4), d.PreferredCodec())
}

func TestOpenReceiveChannelAckBindsRTPAndStartsMediaTransmission(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))
	require.NoError(t, d.Dispatch(message.CapabilitiesRes{Codecs: []uint32{4}}))

	require.NoError(t, d.Line.OffHook())
	sc := d.Line.ActiveSub
	require.NotNil(t, sc)
	require.NoError(t, d.Line.openReceiveChannel(sc))
	require.NotNil(t, sc.RTP)
	assert.Equal(t, uint32(4), sc.Codec)

	tx.out = nil
	ack := message.OpenReceiveChannelAck{
		Status:          0,
		IP:              [4]byte{10, 0, 0, 1},
		Port:            20000,
		PassThruPartyID: sc.CallID ^ 0xFFFFFFFF,
	}
	require.NoError(t, d.Dispatch(ack))

	require.Len(t, tx.out, 1)
	smt, ok := tx.out[0].(message.StartMediaTransmission)
	require.True(t, ok)
	assert.Equal(t, sc.CallID, smt.CallID)
	assert.Equal(t, sc.CallID^0xFFFFFFFF, smt.PassThruPartyID)
	assert.Equal(t, uint32(4), smt.PayloadCapability)
}

func TestOpenReceiveChannelAckUnknownSubchannelIsIgnored(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Dispatch(message.OpenReceiveChannelAck{PassThruPartyID: 12345 ^ 0xFFFFFFFF}))
	assert.Empty(t, tx.out)
}

func TestOpenReceiveChannelAckRejectedStatusSendsNoReply(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Line.OffHook())
	sc := d.Line.ActiveSub
	require.NoError(t, d.Line.openReceiveChannel(sc))
	tx.out = nil

	require.NoError(t, d.Dispatch(message.OpenReceiveChannelAck{
		Status:          1,
		PassThruPartyID: sc.CallID ^ 0xFFFFFFFF,
	}))
	assert.Empty(t, tx.out)
}

func TestDispatchStartMediaTransmissionAckIsNoop(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	require.NoError(t, d.Line.OffHook())
	sc := d.Line.ActiveSub
	require.NoError(t, d.Line.openReceiveChannel(sc))
	tx.out = nil

	require.NoError(t, d.Dispatch(message.StartMediaTransmissionAck{
		PassThruPartyID: sc.CallID ^ 0xFFFFFFFF,
		Status:          0,
	}))
	assert.Empty(t, tx.out)
}

func TestDispatchUnregisterRequestsTeardown(t *testing.T) {
	tx := &recordingTx{}
	d := New(tx, newInlineScheduler(), fake.New(), testLogger())
	require.NoError(t, d.HandleRegister(message.Register{Name: "SEPA", Type: 115, ProtoVersion: 11}, testConfig()))

	err := d.Dispatch(message.Unregister{})
	assert.ErrorIs(t, err, sccp.ErrUnregisterRequested)
}
