package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetrics holds the runtime counters exported on the status endpoint.
// A dedicated registry keeps the output to exactly what steamtv registers.
type serveMetrics struct {
	registry       *prometheus.Registry
	switches       *prometheus.CounterVec
	terminations   prometheus.Counter
	writeFailures  prometheus.Counter
	notifyFailures prometheus.Counter
}

func newServeMetrics() *serveMetrics {
	m := &serveMetrics{registry: prometheus.NewRegistry()}
	m.switches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "steamtv_input_switches_total",
		Help: "Input selections written to the auto-login config, by slug.",
	}, []string{"slug"})
	m.terminations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "steamtv_steam_terminations_total",
		Help: "Power-off transitions that triggered a Steam termination pass.",
	})
	m.writeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "steamtv_autologin_write_failures_total",
		Help: "Failed rewrites of the auto-login config.",
	})
	m.notifyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "steamtv_notify_failures_total",
		Help: "Desktop notifications that could not be delivered.",
	})
	m.registry.MustRegister(m.switches, m.terminations, m.writeFailures, m.notifyFailures)
	return m
}

// statusServer is the optional plain-HTTP listener next to the HAP server.
// It only reads snapshots and counters; nothing here feeds back into the
// accessory.
type statusServer struct {
	tv  *television
	srv *http.Server
}

func newStatusServer(addr string, tv *television, m *serveMetrics) *statusServer {
	s := &statusServer{tv: tv}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/statusz", s.handleStatus)
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *statusServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.tv.status())
}

// start runs the listener in the background. A status listener failure is
// logged and otherwise ignored; the accessory keeps serving.
func (s *statusServer) start() {
	log.Printf("status endpoint on %s", s.srv.Addr)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("status server: %v", err)
		}
	}()
}

func (s *statusServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.srv.Shutdown(ctx)
}
