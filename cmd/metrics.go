package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zjrosen/glance/internal/log"
)

// metricsServer serves /metrics for one registry in the background.
type metricsServer struct {
	srv  *http.Server
	addr net.Addr
	done chan error
}

// serveMetrics listens on addr and serves reg, plus the Go runtime and
// process collectors, until Stop.
func serveMetrics(addr string, reg *prometheus.Registry) (*metricsServer, error) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	s := &metricsServer{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr: ln.Addr(),
		done: make(chan error, 1),
	}
	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	log.Info(log.CatConfig, "metrics server started", "addr", s.addr.String())
	return s, nil
}

// Addr returns the bound listen address.
func (s *metricsServer) Addr() string {
	return s.addr.String()
}

// Stop shuts the server down, waiting up to five seconds for scrapes in flight.
func (s *metricsServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatConfig, "Error stopping metrics server", err)
	}
	if err := <-s.done; err != nil {
		log.ErrorErr(log.CatConfig, "metrics server failed", err)
	}
}
