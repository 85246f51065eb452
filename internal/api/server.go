// Package api serves the evaluator, the safety snapshot and the serum
// simulator over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/physiosim/internal/interaction"
	"github.com/san-kum/physiosim/internal/metrics"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/serum"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/systemic"
)

const (
	MaxBatch        = 64
	batchWorkers    = 8
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	ref      *pkpd.Reference
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	router   *gin.Engine
}

func New(ref *pkpd.Reference, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		ref:      ref,
		logger:   logger,
		registry: reg,
		metrics:  NewMetrics(reg),
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.instrument())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.GET("/compounds", s.listCompounds)
	v1.GET("/goals", s.listGoals)
	v1.GET("/pairs/:id/surface", s.pairSurface)
	v1.POST("/evaluate", s.evaluate)
	v1.POST("/snapshot", s.snapshot)
	v1.POST("/serum", s.serum)
	v1.POST("/frontload", s.frontLoad)
	v1.POST("/batch", s.batch)
	return r
}

// instrument logs each request and records its count and latency.
func (s *Server) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		code := strconv.Itoa(c.Writer.Status())
		s.metrics.Requests.WithLabelValues(route, c.Request.Method, code).Inc()
		s.metrics.Latency.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed))
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func (s *Server) listCompounds(c *gin.Context) {
	ids := s.ref.CompoundIDs()
	out := make([]CompoundInfo, 0, len(ids))
	for _, id := range ids {
		cp, _ := s.ref.Compound(id)
		info := CompoundInfo{
			ID:       cp.ID,
			Name:     cp.Name,
			Class:    cp.Class,
			HardMax:  cp.HardMax(),
			Plateau:  cp.BenefitCurve.PlateauDose(),
			IsTablet: cp.IsTablet(),
		}
		for e := range cp.Esters {
			info.Esters = append(info.Esters, e)
		}
		sort.Strings(info.Esters)
		out = append(out, info)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listGoals(c *gin.Context) {
	out := make(map[string]pkpd.GoalPreset)
	for _, k := range s.ref.GoalKeys() {
		g, _ := s.ref.Goal(k)
		out[k] = g
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) checkGoal(goal string) error {
	if goal == "" {
		return nil
	}
	if _, ok := s.ref.Goal(goal); !ok {
		return fmt.Errorf("%w: %s", pkpd.ErrUnknownGoal, goal)
	}
	return nil
}

func (s *Server) runEvaluate(req EvaluateRequest) stack.Result {
	var res stack.Result
	if req.Protocol != nil {
		res = stack.EvaluateProtocol(s.ref, req.Stack, req.Profile, req.Goal, req.Sensitivities, req.blend(), *req.Protocol)
	} else {
		res = stack.Evaluate(s.ref, req.Stack, req.Profile, req.Goal, req.Sensitivities, req.blend())
	}
	s.metrics.NetScore.Observe(res.NetScore)
	return res
}

func (s *Server) evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.checkGoal(req.Goal); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, s.runEvaluate(req))
}

func (s *Server) snapshot(c *gin.Context) {
	var req SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	snap := systemic.CalculateCycleMetrics(s.ref, req.Stack, systemic.Options{Profile: req.Profile, Baseline: req.BaselineLabs})
	if snap.Load.IsCritical {
		s.metrics.Critical.Inc()
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) serum(c *gin.Context) {
	var req SerumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	days := req.Config.DurationDays
	if days == 0 {
		days = serum.DurationDays(s.ref, req.Stack)
	}
	sim := serum.New(s.ref)
	for _, m := range metrics.Standard(serum.SeriesTotal, metrics.SteadyWindowStart(days)) {
		sim.AddMetric(m)
	}
	res, err := sim.Run(c.Request.Context(), req.Stack, req.Config)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) frontLoad(c *gin.Context) {
	var req FrontLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cp, ok := s.ref.Compound(req.Compound)
	if !ok {
		badRequest(c, fmt.Errorf("%w: %s", pkpd.ErrUnknownCompound, req.Compound))
		return
	}
	fl, ok := serum.CalculateFrontLoad(cp, req.WeeklyMg, req.Frequency, req.Ester)
	if !ok {
		badRequest(c, fmt.Errorf("%w: weekly_mg must be positive", pkpd.ErrInvalidStack))
		return
	}
	c.JSON(http.StatusOK, fl)
}

func (s *Server) pairSurface(c *gin.Context) {
	pair, ok := s.ref.PairByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Errorf("%w: %s", pkpd.ErrUnknownPair, c.Param("id")).Error()})
		return
	}
	steps, err := strconv.Atoi(c.DefaultQuery("steps", "0"))
	if err != nil || steps < 0 || steps > 50 {
		badRequest(c, errors.New("steps must be an integer in [0,50]"))
		return
	}
	opts := interaction.DefaultOptions()
	c.JSON(http.StatusOK, gin.H{
		"pair":    pair.ID,
		"heatmap": interaction.Heatmap(s.ref, pair, interaction.ModeCombined, opts),
		"surface": interaction.Surface(s.ref, pair, steps, opts),
	})
}

// batch evaluates many regimens concurrently; results keep request order.
func (s *Server) batch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if len(req.Requests) == 0 || len(req.Requests) > MaxBatch {
		badRequest(c, fmt.Errorf("batch size must be in [1,%d], got %d", MaxBatch, len(req.Requests)))
		return
	}
	for i, r := range req.Requests {
		if err := s.checkGoal(r.Goal); err != nil {
			badRequest(c, fmt.Errorf("request %d: %w", i, err))
			return
		}
	}
	s.metrics.BatchSizes.Observe(float64(len(req.Requests)))

	results := make([]stack.Result, len(req.Requests))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(batchWorkers)
	for i, r := range req.Requests {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.runEvaluate(r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
