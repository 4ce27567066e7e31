package library

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSweeperRejectsBadSchedule(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	_, err := NewSweeper(mgr, "every tuesday", zerolog.Nop())
	assert.Error(t, err)
}

func TestSweeperRunOnceLogsRunID(t *testing.T) {
	mgr, clock, f := newTestManager(t)
	ctx := context.Background()

	_, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)
	clock.advance(20)

	var buf bytes.Buffer
	s, err := NewSweeper(mgr, "@daily", zerolog.New(&buf))
	require.NoError(t, err)

	res, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Overdue)
	assert.Contains(t, buf.String(), `"run_id":"`)
	assert.Contains(t, buf.String(), `"overdue":1`)
}

func TestSweeperStartStop(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	s, err := NewSweeper(mgr, "@every 1h", zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
