package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type ServingStatus int

const (
	StatusUnknown ServingStatus = iota
	StatusServing
	StatusNotServing
)

func (s ServingStatus) String() string {
	switch s {
	case StatusServing:
		return "SERVING"
	case StatusNotServing:
		return "NOT_SERVING"
	default:
		return "UNKNOWN"
	}
}

var ErrUnknownService = errors.New("unknown service")

const healthCheckTimeout = 2 * time.Second

// HealthChecker tracks the serving status of each component. Components with
// a probe are re-checked on every health request.
type HealthChecker struct {
	mu     sync.RWMutex
	status map[string]ServingStatus
	probes map[string]func(context.Context) error
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		status: make(map[string]ServingStatus),
		probes: make(map[string]func(context.Context) error),
	}
}

// AddProbe registers a check for service; a nil error means serving.
func (h *HealthChecker) AddProbe(service string, probe func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[service] = probe
	if _, ok := h.status[service]; !ok {
		h.status[service] = StatusUnknown
	}
}

// SetServingStatus sets the serving status of a service
func (h *HealthChecker) SetServingStatus(service string, status ServingStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status[service] = status
}

func (h *HealthChecker) Check(service string) (ServingStatus, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if status, ok := h.status[service]; ok {
		return status, nil
	}
	return StatusUnknown, ErrUnknownService
}

// Probe runs every registered probe and records the outcome.
func (h *HealthChecker) Probe(ctx context.Context) {
	h.mu.RLock()
	probes := make(map[string]func(context.Context) error, len(h.probes))
	for name, p := range h.probes {
		probes[name] = p
	}
	h.mu.RUnlock()

	for name, probe := range probes {
		status := StatusServing
		if err := probe(ctx); err != nil {
			status = StatusNotServing
		}
		h.SetServingStatus(name, status)
	}
}

// Handler reports every component; 200 when all are serving, 503 otherwise.
func (h *HealthChecker) Handler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	h.Probe(ctx)

	h.mu.RLock()
	names := make([]string, 0, len(h.status))
	for name := range h.status {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := StatusServing
	components := make(gin.H, len(names))
	for _, name := range names {
		s := h.status[name]
		components[name] = s.String()
		if s != StatusServing {
			overall = StatusNotServing
		}
	}
	h.mu.RUnlock()

	code := http.StatusOK
	if overall != StatusServing {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": overall.String(), "components": components})
}
