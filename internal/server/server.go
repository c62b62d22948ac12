// Package server implements statusd, the HTTP service behind the
// network_status endpoint.
//
// Requests pass through request id, rate limit, logging and metrics
// middleware; network_status responses are additionally cached. The response
// envelope is encoded as json or protobuf according to the datatype query
// parameter.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/1pactus/netstat/internal/codec"
	"github.com/1pactus/netstat/internal/database"
	"github.com/1pactus/netstat/internal/logging"
	"github.com/1pactus/netstat/internal/models"
	middleware "github.com/1pactus/netstat/internal/server/middlewares"
)

// ServerConfig holds configuration options for the HTTP server
type ServerConfig struct {
	CacheSize      int           // Size of the LRU cache
	CacheTTL       time.Duration // Lifetime of a cached response
	RateLimit      float64       // Requests per second
	RateLimitBurst int           // Maximum burst size for rate limiting
}

// DefaultServerConfig returns a ServerConfig with sensible defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		CacheSize:      1000,
		CacheTTL:       time.Minute,
		RateLimit:      5.0, // 5 requests per second
		RateLimitBurst: 10,  // Burst of 10 requests
	}
}

// StatusService serves the network_status endpoint.
type StatusService struct {
	repository database.NetworkStatusRepository
	validator  *RequestValidator
	logger     *logrus.Logger
}

// NewStatusService creates a new service instance
func NewStatusService(repo database.NetworkStatusRepository, logger *logrus.Logger) *StatusService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StatusService{
		repository: repo,
		validator:  NewRequestValidator(),
		logger:     logger,
	}
}

type statusQuery struct {
	Days int32 `form:"days"`
}

// NetworkStatus answers GET /network_status.
//
// An unknown datatype is a 400 with a plain json error. Invalid days are a
// 400 carrying the invalid param code. Repository failures are reported in
// the envelope with a 200, so clients must check the code.
func (s *StatusService) NetworkStatus(c *gin.Context) {
	enc, err := s.validator.Datatype(c.Query("datatype"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var q statusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err)
		s.respond(c, enc, http.StatusBadRequest, envelope(models.CodeInvalidParams, nil))
		return
	}
	days, err := s.validator.Days(q.Days)
	if err != nil {
		_ = c.Error(err)
		s.respond(c, enc, http.StatusBadRequest, envelope(models.CodeInvalidParams, nil))
		return
	}

	lines, err := s.repository.LatestStatus(c.Request.Context(), days)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"request_id": middleware.RequestIDFrom(c.Request.Context()),
			"days":       days,
		}).WithError(err).Error("failed to load network status")
		_ = c.Error(err)
		middleware.NoStore(c)
		s.respond(c, enc, http.StatusOK, envelope(models.CodeInternalError, nil))
		return
	}

	s.respond(c, enc, http.StatusOK, envelope(models.CodeSuccess, lines))
}

func envelope(code int32, lines []models.DataPoint) *models.NetworkStatus {
	if lines == nil {
		lines = []models.DataPoint{}
	}
	return &models.NetworkStatus{
		Code:  code,
		Msg:   models.ErrorFromCode(code).Error(),
		Lines: lines,
	}
}

func (s *StatusService) respond(c *gin.Context, enc models.Encoding, httpStatus int, status *models.NetworkStatus) {
	body, err := codec.Encode(enc, status)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode response"})
		return
	}
	c.Data(httpStatus, codec.ContentType(enc), body)
}

// Server bundles the router with the state background jobs maintain.
type Server struct {
	Router *gin.Engine
	Cache  *middleware.Cache
	Health *HealthChecker
}

// SetupServer initializes and configures the HTTP router with all middleware.
// Metrics are registered with reg and exposed on /metrics.
func SetupServer(
	repo database.NetworkStatusRepository,
	config ServerConfig,
	logger *logrus.Logger,
	reg *prometheus.Registry,
) (*Server, error) {
	if repo == nil {
		return nil, errors.New("nil repository")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	// Initialize the cache
	cache, err := middleware.NewCache(config.CacheSize, config.CacheTTL)
	if err != nil {
		return nil, err
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	health := NewHealthChecker()
	health.AddProbe("database", repo.Ping)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(), // Add request ID first
		middleware.RateLimit(rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimitBurst)), // Rate limit early
		middleware.Logging(logger), // Log all requests (with request ID)
		metrics.Handler(),          // Collect metrics
	)

	service := NewStatusService(repo, logger)
	router.GET("/network_status", cache.Handler(), service.NetworkStatus) // Cache last to avoid caching errors
	router.GET("/healthz", health.Handler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	return &Server{Router: router, Cache: cache, Health: health}, nil
}
