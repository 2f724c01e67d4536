package device

import (
	"github.com/sirupsen/logrus"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/message"
)

// SpeedDial is one programmable button referencing another extension,
// optionally tracking that extension's busy-lamp state.
type SpeedDial struct {
	Label     string
	Extension string
	Index     uint32
	Instance  uint32

	wantBLF bool
	hintID  int
	hasHint bool
	State   string
}

// subscribeHint subscribes this speed-dial's BLF if configured to. A
// subscription failure is logged here as a warning and left dark: the
// dial stays usable, just without live BLF state.
func (sd *SpeedDial) subscribeHint(h host.Host, log *logrus.Entry) {
	if !sd.wantBLF || h == nil {
		return
	}
	id, err := h.Subscribe("", sd.Extension, func(state string) {
		sd.State = state
	})
	if err != nil {
		if log != nil {
			log.WithError(err).WithField("extension", sd.Extension).Warn("speed-dial hint subscription failed")
		}
		return
	}
	sd.hintID = id
	sd.hasHint = true
}

// blfStatus translates the speed-dial's last observed hint state into
// the wire BLF status, mirroring extstate_ast2sccp in the original
// implementation.
func (sd *SpeedDial) blfStatus() uint32 {
	if !sd.wantBLF {
		return message.BLFStatusUnknown
	}
	switch sd.State {
	case "INUSE", "BUSY", "ONHOLD":
		return message.BLFStatusInUse
	case "IDLE", "NOT_INUSE":
		return message.BLFStatusIdle
	default:
		return message.BLFStatusUnknown
	}
}

func (sd *SpeedDial) unsubscribeHint(h host.Host) {
	if !sd.hasHint || h == nil {
		return
	}
	_ = h.Unsubscribe(sd.hintID)
	sd.hasHint = false
}
