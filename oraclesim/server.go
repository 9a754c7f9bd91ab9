package oraclesim

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/oracle"
	"github.com/katalvlaran/aedificium/walk"
)

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Seed derives the per-session graph seeds.
	Seed int64

	// Graph, when set, is served to every session instead of random graphs.
	Graph *graph.Graph

	// Logger receives request records; the default discards them.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns seed 0, random graphs and a discarding logger.
func DefaultOptions() Options {
	return Options{Logger: slog.New(slog.DiscardHandler)}
}

// WithSeed sets the base seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithGraph serves g to every session.
func WithGraph(g *graph.Graph) Option {
	return func(o *Options) { o.Graph = g }
}

// WithLogger sets the request logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Server is the simulated oracle.
type Server struct {
	opts    Options
	metrics *metrics
	engine  *gin.Engine

	mu       sync.Mutex
	sessions map[string]*oracle.Local
}

// New builds a Server and its router.
func New(opts ...Option) *Server {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	s := &Server{
		opts:     o,
		metrics:  newMetrics(),
		sessions: make(map[string]*oracle.Local),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	r.POST("/select", s.handleSelect)
	r.POST("/explore", s.handleExplore)
	r.POST("/guess", s.handleGuess)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	s.engine = r

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Session returns the oracle of team id, or nil when it never selected.
func (s *Server) Session(id string) *oracle.Local {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions[id]
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.opts.Logger.Info("oraclesim: listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// session returns the oracle of team id, creating it on first use.
func (s *Server) session(id string) *oracle.Local {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.sessions[id]; ok {
		return l
	}
	var l *oracle.Local
	if s.opts.Graph != nil {
		l = oracle.NewLocalGraph(s.opts.Graph)
	} else {
		l = oracle.NewLocal(walk.DeriveSeed(s.opts.Seed, uint64(len(s.sessions))))
	}
	s.sessions[id] = l

	return l
}

func (s *Server) fail(c *gin.Context, route string, err error) {
	s.metrics.failures.WithLabelValues(route).Inc()
	c.JSON(http.StatusBadRequest, oracle.ErrorResponse{Error: err.Error()})
}

func (s *Server) handleSelect(c *gin.Context) {
	var req oracle.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "select", err)
		return
	}
	n, err := s.session(req.ID).Select(c.Request.Context(), req.ProblemName)
	if err != nil {
		s.fail(c, "select", err)
		return
	}
	s.metrics.selects.WithLabelValues(req.ProblemName).Inc()
	s.opts.Logger.Info("oraclesim: selected", "id", req.ID, "problem", req.ProblemName, "rooms", n)
	c.JSON(http.StatusOK, oracle.SelectResponse{ProblemName: req.ProblemName})
}

func (s *Server) handleExplore(c *gin.Context) {
	var req oracle.ExploreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "explore", err)
		return
	}
	plans := make([]walk.Plan, len(req.Plans))
	for i, raw := range req.Plans {
		p, err := walk.ParsePlan(raw)
		if err != nil {
			s.fail(c, "explore", err)
			return
		}
		plans[i] = p
	}

	l := s.session(req.ID)
	traces, err := l.Explore(c.Request.Context(), plans)
	if err != nil {
		s.fail(c, "explore", err)
		return
	}
	resp := oracle.ExploreResponse{Results: make([][]int, len(traces)), QueryCount: l.QueryCount()}
	for i, tr := range traces {
		row := make([]int, len(tr.Labels))
		for j, lb := range tr.Labels {
			row[j] = int(lb)
		}
		resp.Results[i] = row
		s.metrics.doors.Observe(float64(tr.Len()))
	}
	s.metrics.plans.Add(float64(len(plans)))
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGuess(c *gin.Context) {
	var req oracle.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "guess", err)
		return
	}
	l := s.session(req.ID)
	ok, err := l.Guess(c.Request.Context(), req.Map)
	if err != nil {
		s.fail(c, "guess", err)
		return
	}
	verdict := "incorrect"
	if ok {
		verdict = "correct"
	}
	s.metrics.guesses.WithLabelValues(verdict).Inc()
	s.opts.Logger.Info("oraclesim: guess", "id", req.ID, "verdict", verdict, "queryCount", l.QueryCount())
	c.JSON(http.StatusOK, oracle.GuessResponse{Correct: ok})
}

// logRequests records one line per request.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.opts.Logger.Debug("oraclesim: request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
