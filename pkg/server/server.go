// Package server exposes read-only JSON views of the task table and a
// Prometheus scrape endpoint.
package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/store"
)

// Server serves views computed from the store. Every request takes the same
// mutex, so handlers always see a consistent snapshot.
type Server struct {
	mu      sync.Mutex
	store   *store.Store
	today   func() model.Date
	logger  *slog.Logger
	metrics *Metrics
	router  *gin.Engine
}

// Today returns the current local date.
func Today() model.Date {
	return model.DateOf(time.Now())
}

// New builds the router. today supplies the date used when a request does
// not pass one.
func New(st *store.Store, reg *prometheus.Registry, today func() model.Date, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		store:   st,
		today:   today,
		logger:  logger,
		metrics: NewMetrics(reg),
		router:  router,
	}
	router.Use(s.observe)

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleTasks)
		api.GET("/graph", s.handleGraph)
		api.GET("/health", s.handleHealth)
		api.GET("/burndown", s.handleBurnDown)
		api.GET("/progress", s.handleProgress)
		api.GET("/resources", s.handleResources)
		api.GET("/budget", s.handleBudget)
		api.GET("/kanban", s.handleKanban)
		api.GET("/delayed", s.handleDelayed)
	}

	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	router.GET("/metrics", func(c *gin.Context) {
		s.refreshGauges()
		metricsHandler.ServeHTTP(c.Writer, c.Request)
	})
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run starts the web server
func (s *Server) Run(addr string) error {
	s.logger.Info("serving views", "addr", addr)
	return s.router.Run(addr)
}

// snapshot copies the rows under the request lock.
func (s *Server) snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	s.metrics.observe(route, c.Writer.Status(), time.Since(start))
	s.logger.Debug("request", "method", c.Request.Method, "path", c.Request.URL.Path,
		"status", c.Writer.Status(), "duration", time.Since(start))
}
