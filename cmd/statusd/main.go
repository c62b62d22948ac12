package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/1pactus/netstat/internal/config"
	"github.com/1pactus/netstat/internal/database"
	"github.com/1pactus/netstat/internal/logging"
	"github.com/1pactus/netstat/internal/scheduler"
	"github.com/1pactus/netstat/internal/server"
)

// Command statusd serves daily network state over HTTP.
//
// Endpoints:
//   - GET /network_status?days=<n>&datatype=<json|pb>
//   - GET /healthz
//   - GET /metrics
//
// Usage:
//
//	statusd [flags]
//
// The flags are:
//
//	-config string
//	      path to config file (default "config.yaml")
//	-port int
//	      HTTP port, overrides server.port
//	-migrate
//	      create the state table before serving
func main() {
	// Parse command line flags
	flags := parseFlags()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	appConfig, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if flags.Port != 0 {
		appConfig.Server.Port = flags.Port
	}

	logger, err := logging.New(appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	repo, err := database.NewPostgresRepo(appConfig.Database.ConnString(), appConfig.Database.MaxConnections)
	if err != nil {
		logger.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	// Create a context that will be canceled on shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if flags.Migrate {
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatalf("Failed to migrate: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := server.SetupServer(repo, server.ServerConfig{
		CacheSize:      appConfig.Server.CacheSize,
		CacheTTL:       appConfig.Server.CacheTTL,
		RateLimit:      appConfig.Server.RateLimit,
		RateLimitBurst: appConfig.Server.RateLimitBurst,
	}, logger, registry)
	if err != nil {
		logger.Fatalf("Failed to setup server: %v", err)
	}

	jobs, err := scheduleJobs(ctx, srv, logger)
	if err != nil {
		logger.Fatalf("Failed to schedule jobs: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	httpServer := &http.Server{
		Addr:              appConfig.Server.Addr(),
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr": httpServer.Addr,
		}).Info("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		logger.Errorf("Service error: %v", err)
	case <-ctx.Done():
		logger.Info("Received shutdown signal, initiating shutdown")
	}

	// Perform graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

type Flags struct {
	ConfigPath string
	Port       int
	Migrate    bool
}

func parseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigPath, "config", "config.yaml", "Path to the config file")
	flag.IntVar(&f.Port, "port", 0, "The HTTP server port, overrides server.port")
	flag.BoolVar(&f.Migrate, "migrate", false, "Create the state table before serving")

	flag.Parse()

	return f
}

// scheduleJobs keeps health status fresh between requests and drops cached
// responses when a new UTC day starts.
func scheduleJobs(ctx context.Context, srv *server.Server, logger *logrus.Logger) (*scheduler.Scheduler, error) {
	jobs := scheduler.NewScheduler(ctx, logger)

	if err := jobs.Add("health-probe", "@every 30s", func(ctx context.Context) error {
		srv.Health.Probe(ctx)
		status, err := srv.Health.Check("database")
		if err != nil {
			return err
		}
		if status != server.StatusServing {
			return fmt.Errorf("database is %s", status)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := jobs.Add("cache-purge", "@daily", func(context.Context) error {
		srv.Cache.Purge()
		return nil
	}); err != nil {
		return nil, err
	}

	return jobs, nil
}
