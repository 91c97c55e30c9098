package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestScheduler_RunsAndStops(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(zap.NewNop(), Job{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestScheduler_LogsFailuresAndPanics(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewScheduler(zap.New(core),
		Job{Name: "fails", Interval: 5 * time.Millisecond, Run: func(context.Context) error { return errors.New("boom") }},
		Job{Name: "panics", Interval: 5 * time.Millisecond, Run: func(context.Context) error { panic("oops") }},
	)
	s.Start()
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("job failed").Len() > 0 && logs.FilterMessage("job panicked").Len() > 0
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestNewScheduler_SkipsInvalidJobs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewScheduler(zap.New(core),
		Job{Name: "no-interval", Run: func(context.Context) error { return nil }},
		Job{Name: "no-run", Interval: time.Second},
	)
	assert.Empty(t, s.jobs)
	assert.Equal(t, 2, logs.Len())
}
