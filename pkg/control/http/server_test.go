package http

import (
	"io"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/config"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/device"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host/fake"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/message"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/registry"
)

type discardTx struct{ last message.Encoder }

func (d *discardTx) Transmit(m message.Encoder) error { d.last = m; return nil }

type noopScheduler struct{}

func (noopScheduler) Schedule(string, float64, func()) {}
func (noopScheduler) Cancel(string)                    {}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func registeredDevice(t *testing.T, reg *registry.Registry, name string) *discardTx {
	t.Helper()
	tx := &discardTx{}
	d := device.New(tx, noopScheduler{}, fake.New(), testLog())
	d.BindName(name)
	_, err := reg.Add(d)
	require.NoError(t, err)
	require.NoError(t, d.HandleRegister(message.Register{Name: name, Type: 115, ProtoVersion: 11}, config.DeviceConfig{
		Name: name, Type: 115, Keepalive: 30, Line: config.LineConfig{Name: "100"},
	}))
	return tx
}

func TestHandleDevicesListsRegistered(t *testing.T) {
	reg := registry.New()
	registeredDevice(t, reg, "SEPAAA")

	s := New(reg, config.NewStore(&config.Snapshot{}), "", testLog())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/devices", nil)
	s.mux.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "SEPAAA")
}

func TestHandleDeviceResetSendsReset(t *testing.T) {
	reg := registry.New()
	tx := registeredDevice(t, reg, "SEPBBB")

	s := New(reg, config.NewStore(&config.Snapshot{}), "", testLog())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/devices/SEPBBB/reset?mode=hard", nil)
	s.mux.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	r, ok := tx.last.(message.Reset)
	require.True(t, ok)
	assert.Equal(t, message.ResetHard, r.Mode)
}

func TestHandleDeviceResetUnknownNameIs404(t *testing.T) {
	s := New(registry.New(), config.NewStore(&config.Snapshot{}), "", testLog())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/devices/SEPGHOST/reset", nil)
	s.mux.ServeHTTP(rec, req)
	assert.Equal(t, 404, rec.Code)
}

func TestHandleReloadWithNoConfigPathFails(t *testing.T) {
	s := New(registry.New(), config.NewStore(&config.Snapshot{}), "", testLog())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reload", nil)
	s.mux.ServeHTTP(rec, req)
	assert.Equal(t, 500, rec.Code)
}

func TestSetConnLookupNonTCPConnStillListsDevice(t *testing.T) {
	reg := registry.New()
	registeredDevice(t, reg, "SEPCCC")

	s := New(reg, config.NewStore(&config.Snapshot{}), "", testLog())
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	s.SetConnLookup(func(name string) (net.Conn, bool) {
		if name == "SEPCCC" {
			return client, true
		}
		return nil, false
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/devices", nil)
	s.mux.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	// net.Pipe is not a *net.TCPConn, so Probe reports ErrUnsupported
	// and Health stays omitted -- this just checks the lookup path
	// doesn't error the whole request.
	assert.Contains(t, string(body), "SEPCCC")
}
