package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/device"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/diagnostics"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/message"
)

// ConnLookup resolves a registered device name to its live connection,
// for TCP health probing. Server.SetConnLookup wires this to the
// accept-loop's session set; it is nil (and diagnostics are omitted)
// until set.
type ConnLookup func(name string) (net.Conn, bool)

// SetConnLookup installs the connection lookup used by GET /devices to
// attach TCP health to each entry.
func (s *Server) SetConnLookup(lookup ConnLookup) { s.connLookup = lookup }

// DeviceSummary is one entry in the GET /devices response.
type DeviceSummary struct {
	Name     string                 `json:"name"`
	Type     int                    `json:"type"`
	RegState string                 `json:"reg_state"`
	Health   *diagnostics.TCPHealth `json:"health,omitempty"`
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	devices := s.registry.Snapshot()
	out := make([]DeviceSummary, 0, len(devices))
	for _, d := range devices {
		dd, ok := d.(*device.Device)
		if !ok {
			continue
		}
		summary := DeviceSummary{
			Name:     dd.Name(),
			Type:     dd.Type(),
			RegState: dd.RegistrationState().String(),
		}
		if s.connLookup != nil {
			if conn, ok := s.connLookup(dd.Name()); ok {
				if h, err := diagnostics.Probe(conn); err == nil {
					summary.Health = h
				}
			}
		}
		out = append(out, summary)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// handleDeviceReset handles POST /devices/{name}/reset?mode=soft|hard.
func (s *Server) handleDeviceReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/devices/")
	name, action, ok := strings.Cut(path, "/")
	if !ok || action != "reset" || name == "" {
		http.NotFound(w, r)
		return
	}

	d, ok := s.registry.Get(name)
	if !ok {
		http.Error(w, "device not found", http.StatusNotFound)
		return
	}
	dd, ok := d.(*device.Device)
	if !ok {
		http.Error(w, "device not found", http.StatusNotFound)
		return
	}

	mode := message.ResetSoft
	if r.URL.Query().Get("mode") == "hard" {
		mode = message.ResetHard
	}
	if err := dd.TriggerReset(mode); err != nil {
		s.log.WithError(err).WithField("device", name).Warn("reset failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleReload handles POST /reload.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.configPath == "" {
		http.Error(w, "no config path configured", http.StatusInternalServerError)
		return
	}
	snap, err := s.store.Reload(s.configPath)
	if err != nil {
		s.log.WithError(err).Warn("config reload failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"devices": len(snap.Devices)})
}
