// Package api serves decoded AXC container state over HTTP.
//
// The server is read-only: it decodes one container at startup and answers
// queries about it. Nothing here mutates the container or talks to a device.
package api

import (
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quayside/gantry/pkg/axc"
	"github.com/quayside/gantry/pkg/topology"
)

type Server struct {
	path    string
	file    *axc.File
	model   *topology.Model
	metrics *Metrics

	// modelErr remembers why the topology model could not be built, so
	// /v1/topology can report it instead of a bare 404.
	modelErr error
}

// NewServer builds a server around an already-parsed container. The topology
// model is derived eagerly; a container without topology sections still
// serves, but its /v1/topology route reports the decode failure.
func NewServer(path string, f *axc.File, m *Metrics) *Server {
	s := &Server{
		path:    path,
		file:    f,
		metrics: m,
	}
	model, err := topology.FromContainer(f)
	if err != nil {
		s.modelErr = err
	} else {
		s.model = model
	}

	kernels, banks, conns := 0, 0, 0
	if s.model != nil {
		kernels = len(s.model.Kernels)
		banks = len(s.model.Banks)
		conns = len(s.model.Connections)
	}
	m.SetContainerStats(len(f.Data), kernels, banks, conns)
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/container", s.instrument("container", s.handleContainer))
	e.GET("/v1/sections", s.instrument("sections", s.handleListSections))
	e.GET("/v1/sections/:type", s.instrument("section", s.handleGetSection))
	e.GET("/v1/topology", s.instrument("topology", s.handleTopology))
	e.GET("/v1/summary", s.instrument("summary", s.handleSummary))
}

// RegisterMetrics exposes the Prometheus text endpoint for g. It is a free
// function because the gatherer belongs to the caller, not the server.
func RegisterMetrics(e *echo.Echo, g prometheus.Gatherer) {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	e.GET("/metrics", func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

func (s *Server) instrument(name string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		err := next(c)
		s.metrics.RecordRequest(name, time.Since(start))
		return err
	}
}
