package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	err := s.AddJob("sweep", "0 0 2 * * *", func() {})
	require.NoError(t, err)
	assert.Contains(t, s.JobNames(), "sweep")
}

func TestScheduler_AddJob_DuplicateName(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("sweep", "@hourly", func() {}))
	err := s.AddJob("sweep", "@daily", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestScheduler_AddJob_InvalidExpression(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	err := s.AddJob("broken", "not a cron expression", func() {})
	require.Error(t, err)
	assert.Empty(t, s.JobNames())
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("sweep", "@hourly", func() {}))
	require.NoError(t, s.RemoveJob("sweep"))
	assert.Empty(t, s.JobNames())

	err := s.RemoveJob("sweep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
