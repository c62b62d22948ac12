package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsJobs(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := NewScheduler(context.Background(), logger)

	var ok, failed atomic.Int32
	require.NoError(t, s.Add("purge", "@every 1s", func(ctx context.Context) error {
		ok.Add(1)
		return nil
	}))
	require.NoError(t, s.Add("probe", "@every 1s", func(ctx context.Context) error {
		failed.Add(1)
		return errors.New("database down")
	}))

	s.Start()
	assert.Eventually(t, func() bool {
		return ok.Load() > 0 && failed.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)
	s.Stop()

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Data["job"] == "probe" {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestSchedulerInvalidSpec(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s := NewScheduler(context.Background(), logger)
	assert.Error(t, s.Add("bad", "every minute", func(context.Context) error { return nil }))
}

func TestSchedulerJobContext(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(ctx, logger)
	var seen error
	s.run("cancelled", func(ctx context.Context) error {
		seen = ctx.Err()
		return nil
	})
	assert.ErrorIs(t, seen, context.Canceled)
}
