// Package http implements a small control API over the driver's
// registry and config store, grounded on the teacher's CiA-309-5
// gateway server: a ServeMux owned by a small struct with a blocking
// ListenAndServe(addr string) error method.
package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/config"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/registry"
)

// Server exposes device inspection and control operations over plain
// JSON HTTP, for sccpctl and any other out-of-process tooling.
type Server struct {
	registry   *registry.Registry
	store      *config.Store
	configPath string
	log        *logrus.Entry
	mux        *http.ServeMux
	connLookup ConnLookup
}

// New builds a control Server. configPath is the INI file Reload
// re-reads on POST /reload.
func New(reg *registry.Registry, store *config.Store, configPath string, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{registry: reg, store: store, configPath: configPath, log: log.WithField("component", "control-http")}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/devices", s.handleDevices)
	s.mux.HandleFunc("/devices/", s.handleDeviceReset)
	s.mux.HandleFunc("/reload", s.handleReload)
	return s
}

// ListenAndServe blocks, serving the control API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("control api listening")
	return http.ListenAndServe(addr, s.mux)
}

// Mux exposes the underlying ServeMux so callers can register
// additional routes (e.g. promhttp's /metrics handler) alongside the
// control API's own.
func (s *Server) Mux() *http.ServeMux { return s.mux }
