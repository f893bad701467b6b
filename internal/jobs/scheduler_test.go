package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/client/internal/config"
	"marketplace/client/internal/models"
)

type fakeLoader struct {
	calls int
	err   error
}

func (f *fakeLoader) LoadAll(context.Context) ([]models.Product, error) {
	f.calls++
	return []models.Product{{ID: "a"}}, f.err
}

type fakeChecker struct {
	at      time.Time
	expired bool
}

func (f *fakeChecker) CheckExpiry(_ context.Context, now time.Time) (bool, error) {
	f.at = now
	return f.expired, nil
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(config.JobsConfig{ProductRefresh: "not a cron"}, &fakeLoader{}, nil, zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestStartSkipsEmptySchedules(t *testing.T) {
	s := NewScheduler(config.JobsConfig{}, &fakeLoader{}, &fakeChecker{}, zerolog.Nop())
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
	s.Stop()
}

func TestStartRegistersJobs(t *testing.T) {
	cfg := config.JobsConfig{ProductRefresh: "0 */5 * * * *", SessionCheck: "*/30 * * * * *"}
	s := NewScheduler(cfg, &fakeLoader{}, &fakeChecker{}, zerolog.Nop())
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}

func TestRefreshProductsLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	loader := &fakeLoader{err: errors.New("offline")}
	s := NewScheduler(config.JobsConfig{}, loader, nil, zerolog.New(&buf))

	s.RefreshProducts()
	assert.Equal(t, 1, loader.calls)
	assert.Contains(t, buf.String(), "product refresh failed")
}

func TestCheckSessionUsesClock(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	checker := &fakeChecker{expired: true}
	var buf bytes.Buffer
	s := NewScheduler(config.JobsConfig{}, nil, checker, zerolog.New(&buf))
	s.now = func() time.Time { return fixed }

	s.CheckSession()
	assert.Equal(t, fixed, checker.at)
	assert.Contains(t, buf.String(), "session expired")
}
