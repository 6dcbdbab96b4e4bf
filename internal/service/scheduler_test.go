package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

func dailyDCAOrder(id string, occurrences uint64) ledger.DCAOrder {
	return ledger.DCAOrder{
		ID:             id,
		IsActive:       true,
		Frequency:      0,
		TotalFrequency: occurrences,
		AmountPerSwap:  big.NewInt(1000),
		BTCAddress:     "bc1qdest",
	}
}

// TestScheduler_ScheduleDCA verifies the bounded schedule carries the
// order's own interval metadata and an initial delay of one interval.
func TestScheduler_ScheduleDCA(t *testing.T) {
	reader := newFakeReader()
	reader.dcaOrders["42"] = dailyDCAOrder("42", 3)
	q := newFakeScheduler()
	s := NewScheduler(logan.New(), q, reader)

	jobID, err := s.ScheduleDCA(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "dca-42", jobID)

	job, ok := q.jobs[QueueDCA+"/42"]
	require.True(t, ok)
	assert.Equal(t, 24*time.Hour, job.interval)
	assert.Equal(t, 24*time.Hour, job.delay)
	require.NotNil(t, job.occurrences)
	assert.Equal(t, int64(3), *job.occurrences)
}

// TestScheduler_ScheduleDCA_Idempotent verifies a duplicate Created event
// does not produce a second schedule.
func TestScheduler_ScheduleDCA_Idempotent(t *testing.T) {
	reader := newFakeReader()
	reader.dcaOrders["42"] = dailyDCAOrder("42", 3)
	q := newFakeScheduler()
	s := NewScheduler(logan.New(), q, reader)

	_, err := s.ScheduleDCA(context.Background(), "42")
	require.NoError(t, err)
	_, err = s.ScheduleDCA(context.Background(), "42")
	require.NoError(t, err)

	assert.Len(t, q.jobs, 1)
}

func TestScheduler_ScheduleDCA_UnknownFrequency(t *testing.T) {
	reader := newFakeReader()
	ord := dailyDCAOrder("42", 3)
	ord.Frequency = 9
	reader.dcaOrders["42"] = ord
	s := NewScheduler(logan.New(), newFakeScheduler(), reader)

	_, err := s.ScheduleDCA(context.Background(), "42")
	assert.Error(t, err)
}

// TestScheduler_CancelDCA verifies the schedule is removed by its exact
// signature recovered from the authoritative order state.
func TestScheduler_CancelDCA(t *testing.T) {
	reader := newFakeReader()
	reader.dcaOrders["42"] = dailyDCAOrder("42", 3)
	q := newFakeScheduler()
	s := NewScheduler(logan.New(), q, reader)

	_, err := s.ScheduleDCA(context.Background(), "42")
	require.NoError(t, err)

	require.NoError(t, s.CancelDCA(context.Background(), "42"))
	assert.Empty(t, q.jobs)
}

// TestScheduler_CancelDCA_ReadFailure verifies a failed authoritative read
// degrades to a no-op instead of an error.
func TestScheduler_CancelDCA_ReadFailure(t *testing.T) {
	reader := newFakeReader()
	reader.readErr = errors.New("rpc timeout")
	q := newFakeScheduler()
	s := NewScheduler(logan.New(), q, reader)

	assert.NoError(t, s.CancelDCA(context.Background(), "42"))
}

func TestScheduler_ScheduleLimit(t *testing.T) {
	q := newFakeScheduler()
	s := NewScheduler(logan.New(), q, newFakeReader())

	jobID, err := s.ScheduleLimit(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "limit-7", jobID)

	job, ok := q.jobs[QueueLimit+"/7"]
	require.True(t, ok)
	assert.Equal(t, time.Minute, job.interval)
	assert.Nil(t, job.occurrences)
}

// TestScheduler_CancelLimit_Absent verifies cancelling a never-created
// schedule neither errors nor has observable effect.
func TestScheduler_CancelLimit_Absent(t *testing.T) {
	q := newFakeScheduler()
	s := NewScheduler(logan.New(), q, newFakeReader())

	assert.NoError(t, s.CancelLimit(context.Background(), "404"))
	assert.Empty(t, q.jobs)
}
