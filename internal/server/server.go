// Package server sets up the gateway HTTP server with all routes
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/abishek14/amlguard/internal/assessment"
	"github.com/abishek14/amlguard/internal/chain"
	"github.com/abishek14/amlguard/internal/config"
	"github.com/abishek14/amlguard/internal/idgen"
	"github.com/abishek14/amlguard/internal/logging"
	"github.com/abishek14/amlguard/internal/metrics"
	"github.com/abishek14/amlguard/internal/predictor"
	"github.com/abishek14/amlguard/internal/validation"
)

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg          *config.Config
	remote       *predictor.RemotePredictor
	fallback     *predictor.FallbackPredictor
	engine       *assessment.Engine
	store        assessment.Store
	chainClient  chain.Reader
	db           *sql.DB // nil if using in-memory
	router       *gin.Engine
	httpSrv      *http.Server
	logger       *slog.Logger
	startedAt    time.Time
	cancelRunCtx context.CancelFunc

	// Health state
	ready   atomic.Bool
	healthy atomic.Bool
}

// Option configures the server
type Option func(*Server)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithChain sets a custom chain reader (for testing)
func WithChain(c chain.Reader) Option {
	return func(s *Server) {
		s.chainClient = c
	}
}

// WithStore sets a custom assessment store (for testing)
func WithStore(st assessment.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		logger:    logging.New(cfg.LogLevel, "json"),
		startedAt: time.Now().UTC(),
	}

	// Apply options first (may set logger/store/chain)
	for _, opt := range opts {
		opt(s)
	}

	// Initialize storage (Postgres if DATABASE_URL set, otherwise in-memory)
	if s.store == nil {
		if cfg.DatabaseURL != "" {
			db, err := sql.Open("postgres", cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("failed to open database: %w", err)
			}

			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)

			if err := db.Ping(); err != nil {
				return nil, fmt.Errorf("failed to connect to database: %w", err)
			}

			s.db = db
			s.store = assessment.NewPostgresStore(db)
			s.logger.Info("using PostgreSQL storage", "url", maskDSN(cfg.DatabaseURL))
		} else {
			s.store = assessment.NewMemoryStore()
			s.logger.Info("using in-memory storage (data will not persist)")
		}
	}

	s.engine = assessment.NewEngine(s.store)
	s.remote = predictor.NewRemote(cfg.MLServiceURL, cfg.MLTimeout)
	s.fallback = predictor.NewFallback()
	s.logger.Info("prediction pipeline configured",
		"ml_service", cfg.MLServiceURL,
		"timeout", cfg.MLTimeout.String(),
	)

	// Chain client is optional: scoring works without it, block numbers and
	// the blockchain health check report N/A.
	if s.chainClient == nil && cfg.RPCURL != "" {
		client, err := chain.Dial(cfg.RPCURL, cfg.Network, 5*time.Second)
		if err != nil {
			s.logger.Warn("chain client unavailable, block lookups disabled", "error", err)
		} else {
			s.chainClient = client
			s.logger.Info("chain client connected", "network", cfg.Network)
		}
	}

	// Configure gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)

	return s, nil
}

// maskDSN hides password in connection string for logging
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) setupMiddleware() {
	// Recovery with logging
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}))

	// Request size limit (1MB)
	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))

	// Prometheus metrics
	s.router.Use(metrics.Middleware())

	// Request ID
	s.router.Use(s.requestIDMiddleware())

	// Logging
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = idgen.WithPrefix("req_")
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := logging.L(c.Request.Context())

		switch {
		case status >= 500:
			logger.Error("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		case status >= 400:
			logger.Warn("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		default:
			logger.Info("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}
	}
}

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	// Health & metrics endpoints
	s.router.GET("/health/live", s.livenessHandler)
	s.router.GET("/health/ready", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	api := s.router.Group("/api")
	api.POST("/predict", s.predictHandler)
	api.GET("/health", s.healthHandler)
	api.GET("/system/status", s.systemStatusHandler)
	api.GET("/assessments/recent", s.recentAssessmentsHandler)
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// healthHandler reports the full dependency matrix. The gateway itself stays
// healthy when dependencies are down: scoring degrades to the fallback model
// rather than failing.
func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)

	if s.remote.Healthy(ctx) {
		checks["ml_service"] = "healthy"
	} else {
		checks["ml_service"] = "unhealthy"
	}

	if s.chainClient != nil && s.chainClient.Healthy(ctx) {
		checks["blockchain"] = "healthy"
	} else {
		checks["blockchain"] = "unhealthy"
	}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			checks["database"] = "unhealthy"
		} else {
			checks["database"] = "healthy"
		}
	} else {
		checks["database"] = "in-memory"
	}

	status := "healthy"
	for _, v := range checks {
		if v == "unhealthy" {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"version":   "0.1.0",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) systemStatusHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blockNumber := "N/A"
	network := s.cfg.Network
	if s.chainClient != nil {
		if n, err := s.chainClient.BlockNumber(ctx); err == nil {
			blockNumber = fmt.Sprintf("%d", n)
		}
		network = s.chainClient.Network()
	}

	storage := "in-memory"
	if s.db != nil {
		storage = "postgres"
	}

	c.JSON(http.StatusOK, gin.H{
		"service":      "amlguard",
		"version":      "0.1.0",
		"env":          s.cfg.Env,
		"uptime_s":     int(time.Since(s.startedAt).Seconds()),
		"ml_service":   gin.H{"url": s.cfg.MLServiceURL, "reachable": s.remote.Healthy(ctx)},
		"blockchain":   gin.H{"network": network, "block_number": blockNumber},
		"storage":      storage,
		"eth_price":    s.cfg.ETHPriceUSD,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) recentAssessmentsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	recent, err := s.store.ListRecent(ctx, 50)
	if err != nil {
		logging.L(ctx).Error("failed to list assessments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list assessments",
		})
		return
	}

	items := make([]gin.H, 0, len(recent))
	for _, a := range recent {
		items = append(items, gin.H{
			"id":                 a.ID,
			"overall_risk_score": a.OverallRiskScore,
			"risk_level":         a.RiskLevel,
			"evaluated_at":       a.EvaluatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"assessments": items,
		"count":       len(items),
	})
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Run starts the HTTP server with graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRunCtx = cancel

	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", "port", s.cfg.Port)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	if s.db != nil {
		go metrics.StartDBStatsCollector(runCtx, s.db, 15*time.Second)
	}

	// Mark as ready after brief delay for startup
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.ready.Store(true)
		s.logger.Info("server ready")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	if s.cancelRunCtx != nil {
		s.cancelRunCtx()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	if s.chainClient != nil {
		s.chainClient.Close()
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("database close error", "error", err)
		} else {
			s.logger.Info("database connection closed")
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}
