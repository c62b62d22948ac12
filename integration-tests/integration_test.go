//go:build integration
// +build integration

package integration_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1pactus/netstat/internal/api"
	"github.com/1pactus/netstat/internal/database"
	"github.com/1pactus/netstat/internal/fetch"
	"github.com/1pactus/netstat/internal/models"
	"github.com/1pactus/netstat/internal/series"
	"github.com/1pactus/netstat/internal/server"
)

const day = 24 * 60 * 60

var logger = logrus.New()

func setupTestDB(t *testing.T) *database.PostgresRepo {
	// Get database connection details from environment variables
	dbHost := getEnvOrDefault("DB_HOST", "db")
	dbPort := getEnvOrDefault("DB_PORT", "5432")
	dbUser := getEnvOrDefault("DB_USER", "netstat")
	dbPass := getEnvOrDefault("DB_PASSWORD", "netstat")
	dbName := getEnvOrDefault("DB_NAME", "netstat")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName,
	)

	repo, err := database.NewPostgresRepo(connStr, 4)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	require.NoError(t, repo.Migrate(ctx))

	// Clean up any existing test data
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("TRUNCATE TABLE network_global_state")
	require.NoError(t, err)

	return repo
}

// Helper function to get environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func seedDays(t *testing.T, repo database.NetworkStatusRepository, n int) []models.DataPoint {
	start := uint32(1700006400)
	lines := make([]models.DataPoint, n)
	for i := range lines {
		lines[i] = models.DataPoint{
			TimeIndex:         start + uint32(i*day),
			Stake:             int64(i+1) * 1_000_000_000,
			Supply:            42_000_000_000_000_000,
			CirculatingSupply: 21_000_000_000_000_000,
			Txs:               int64(100 + i),
			Blocks:            8640,
			Fee:               int64(i) * 10_000_000,
			ActiveValidator:   int64(10 + i),
			ActiveAccount:     int64(500 + i),
		}
	}
	require.NoError(t, repo.UpsertStatus(context.Background(), lines))
	return lines
}

func TestRepositoryLatestStatus(t *testing.T) {
	repo := setupTestDB(t)
	lines := seedDays(t, repo, 40)
	ctx := context.Background()

	latest, err := repo.LatestStatus(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, lines[10:], latest)

	all, err := repo.LatestStatus(ctx, models.AllDays)
	require.NoError(t, err)
	assert.Equal(t, lines, all)

	// Upserts replace rows with the same time index.
	updated := lines[39]
	updated.Txs = 9999
	require.NoError(t, repo.UpsertStatus(ctx, []models.DataPoint{updated}))
	latest, err = repo.LatestStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.DataPoint{updated}, latest)
}

func TestEndToEnd(t *testing.T) {
	repo := setupTestDB(t)
	lines := seedDays(t, repo, 45)

	srv, err := server.SetupServer(repo, server.DefaultServerConfig(), logger, prometheus.NewRegistry())
	require.NoError(t, err)
	httpServer := httptest.NewServer(srv.Router)
	defer httpServer.Close()

	client := api.NewStatusClient(httpServer.URL, nil)

	for _, enc := range []models.Encoding{models.EncodingBinary, models.EncodingTextual} {
		t.Run(enc.String(), func(t *testing.T) {
			ctrl := fetch.NewController(client, fetch.WithLogger(logger), fetch.WithTimeout(10*time.Second))
			defer ctrl.Close()

			ctrl.Start(models.TelemetryRequest{Encoding: enc})
			ctrl.Wait()

			state := ctrl.State()
			require.Equal(t, fetch.Success, state.Status, state.Message)
			assert.Equal(t, lines[15:], state.Response.Lines)

			stake, err := series.Project(state.Response, series.MetricStake)
			require.NoError(t, err)
			require.Len(t, stake.Points, 30)
			assert.Equal(t, 16.0, stake.Points[0].Value)
			assert.Equal(t, series.Date(lines[44].TimeIndex), stake.Points[29].Date)
		})
	}

	resp, err := client.Fetch(context.Background(), models.TelemetryRequest{RangeDays: models.AllDays, Encoding: models.EncodingBinary})
	require.NoError(t, err)
	assert.Len(t, resp.Lines, 45)

	_, err = client.Fetch(context.Background(), models.TelemetryRequest{RangeDays: -5, Encoding: models.EncodingTextual})
	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 400, transportErr.StatusCode)
}
