package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/config"
	controlhttp "github.com/vincentpeyrouse/wazo-libsccp/pkg/control/http"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host/fake"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/metrics"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/registry"
	"github.com/vincentpeyrouse/wazo-libsccp/pkg/server"
)

var defaultListenAddr = ":2000"
var defaultControlAddr = ":8090"

func main() {
	log.SetLevel(log.InfoLevel)

	configPath := flag.String("c", "/etc/sccpd/sccp.ini", "path to the sccp.ini configuration file")
	listenAddr := flag.String("l", defaultListenAddr, "address to listen on for SCCP phone connections")
	controlAddr := flag.String("control", defaultControlAddr, "address to listen on for the control/metrics HTTP API")
	flag.Parse()

	snap, err := config.LoadINI(*configPath)
	if err != nil {
		fmt.Printf("could not load configuration %v : %v\n", *configPath, err)
		os.Exit(1)
	}
	store := config.NewStore(snap)

	reg := registry.New()

	// No host (Asterisk/Wazo PBX) integration ships with this driver;
	// the in-memory fake satisfies pkg/host.Host so registration, hint
	// and MWI subscriptions all work end to end against a local test
	// harness. Swapping in a real PBX adapter means implementing
	// host.Host against that system and passing it here instead.
	h := fake.New()

	srv := server.New(store, reg, h, log.NewEntry(log.StandardLogger()))

	collector := metrics.NewSessionCollector(srv.SessionCount, reg.Len)
	prometheus.MustRegister(collector)

	ctrl := controlhttp.New(reg, store, *configPath, log.NewEntry(log.StandardLogger()))
	ctrl.SetConnLookup(srv.ConnByDeviceName)

	controlMux := ctrl.Mux()
	controlMux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := srv.ListenAndServe(*listenAddr); err != nil {
			log.WithError(err).Fatal("sccp listener stopped")
		}
	}()

	go func() {
		if err := ctrl.ListenAndServe(*controlAddr); err != nil {
			log.WithError(err).Fatal("control api stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	srv.Shutdown()
}
