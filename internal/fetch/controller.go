// Package fetch owns the lifecycle of network status requests.
//
// A Controller moves through Idle, Loading, Success and Error. Every Start
// (or Retry) enters Loading synchronously and issues exactly one fetch. When a
// newer Start supersedes a fetch that is still running, the older result is
// dropped on arrival so it can never overwrite fresher state.
package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/1pactus/netstat/internal/logging"
	"github.com/1pactus/netstat/internal/models"
)

// ErrorMessage is the display-safe text of every Error state. The cause is
// logged, not shown.
const ErrorMessage = "Failed to load network status. Please retry."

const defaultTimeout = 30 * time.Second

var errEmptyResponse = errors.New("fetcher returned no response")

// Fetcher performs a single network status request.
type Fetcher interface {
	Fetch(ctx context.Context, req models.TelemetryRequest) (*models.NetworkStatus, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req models.TelemetryRequest) (*models.NetworkStatus, error)

func (f FetcherFunc) Fetch(ctx context.Context, req models.TelemetryRequest) (*models.NetworkStatus, error) {
	return f(ctx, req)
}

type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the controller. Response is set only for Success and
// Message only for Error. Seq identifies the Start that produced the state.
type State struct {
	Status   Status
	Response *models.NetworkStatus
	Message  string
	Seq      uint64
}

type Option func(*Controller)

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each fetch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.parent = ctx }
}

type Controller struct {
	fetcher Fetcher
	logger  *logrus.Logger
	metrics *Metrics
	timeout time.Duration

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   State
	seq     uint64
	last    *models.TelemetryRequest
	pending []State

	// notifyMu serializes delivery to listeners. Lock order: notifyMu, then mu.
	notifyMu  sync.Mutex
	listeners []func(State)
}

func NewController(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		logger:  logging.Discard(),
		timeout: defaultTimeout,
		parent:  context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(c.parent)
	return c
}

// Subscribe registers fn to receive every applied state. Listeners run
// outside the state lock and may call State, but must not call Start or
// Retry.
func (c *Controller) Subscribe(fn func(State)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start enters Loading and issues one fetch for req. It returns the sequence
// token of the new fetch.
func (c *Controller) Start(req models.TelemetryRequest) uint64 {
	c.mu.Lock()
	seq := c.startLocked(req)
	c.mu.Unlock()

	c.notify()
	go c.run(seq, req)
	return seq
}

// Retry restarts the last request. It reports false, and does nothing, when
// Start was never called.
func (c *Controller) Retry() (uint64, bool) {
	c.mu.Lock()
	if c.last == nil {
		c.mu.Unlock()
		return 0, false
	}
	req := *c.last
	seq := c.startLocked(req)
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"seq":      seq,
		"days":     req.RangeDays,
		"datatype": req.Encoding.String(),
	}).Info("Retrying network status fetch")
	c.notify()
	go c.run(seq, req)
	return seq, true
}

// startLocked records req as the latest request and enters Loading. c.mu must
// be held.
func (c *Controller) startLocked(req models.TelemetryRequest) uint64 {
	c.seq++
	r := req
	c.last = &r
	c.state = State{Status: Loading, Seq: c.seq}
	c.pending = append(c.pending, c.state)
	c.wg.Add(1)
	return c.seq
}

// Wait blocks until every issued fetch has returned, superseded ones included.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels running fetches and waits for them.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) run(seq uint64, req models.TelemetryRequest) {
	defer c.wg.Done()

	requestID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{
		"seq":        seq,
		"request_id": requestID,
		"days":       req.RangeDays,
		"datatype":   req.Encoding.String(),
	})
	log.Debug("Fetching network status")

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.fetcher.Fetch(ctx, req)
	elapsed := time.Since(start)
	c.metrics.observe(err, elapsed)

	next := State{Status: Success, Response: resp, Seq: seq}
	if err == nil && resp == nil {
		err = errEmptyResponse
	}
	if err != nil {
		next = State{Status: Error, Message: ErrorMessage, Seq: seq}
	}

	c.mu.Lock()
	if latest := c.seq; seq != latest {
		c.mu.Unlock()
		c.metrics.stale()
		log.WithField("latest_seq", latest).Debug("Dropping superseded network status result")
		return
	}
	c.state = next
	c.pending = append(c.pending, next)
	c.mu.Unlock()
	c.notify()

	if err != nil {
		log.WithFields(logrus.Fields{
			"error":    err,
			"duration": elapsed,
		}).Error("Network status fetch failed")
		return
	}
	log.WithFields(logrus.Fields{
		"lines":    len(resp.Lines),
		"duration": elapsed,
	}).Info("Network status fetched")
}

// notify delivers queued states to listeners in the order they were applied.
func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	for {
		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		c.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, st := range batch {
			for _, fn := range c.listeners {
				fn(st)
			}
		}
	}
}
