package refresher

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"invoice-prize-checker-go/internal/models"
)

type dummySource struct {
	calls atomic.Int64
	err   error
}

func (d *dummySource) Latest(_ context.Context, _ bool) ([]models.WinningNumbers, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return []models.WinningNumbers{{Period: "112年 09-10月"}}, nil
}

func TestStartAndStop(t *testing.T) {
	r := New(&dummySource{}, nil, 360)

	assert.False(t, r.IsRunning())
	assert.True(t, r.GetNextRun().IsZero())

	assert.NoError(t, r.Start())
	assert.True(t, r.IsRunning())
	assert.False(t, r.GetNextRun().IsZero())

	assert.NoError(t, r.Stop())
	assert.False(t, r.IsRunning())
}

func TestStartTwiceFails(t *testing.T) {
	r := New(&dummySource{}, nil, 360)

	assert.NoError(t, r.Start())
	defer r.Stop()

	err := r.Start()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestStopWhenNotRunning(t *testing.T) {
	r := New(&dummySource{}, nil, 360)
	assert.NoError(t, r.Stop())
}

func TestRunOnce(t *testing.T) {
	src := &dummySource{}
	r := New(src, nil, 360)

	// A refresh before Start is a no-op.
	r.RunOnce()
	assert.Equal(t, int64(0), src.calls.Load())

	assert.NoError(t, r.Start())
	defer r.Stop()

	r.RunOnce()
	assert.Equal(t, int64(1), src.calls.Load())
}

func TestIntervalDefaulted(t *testing.T) {
	r := New(&dummySource{}, nil, 0)
	assert.Equal(t, 360, r.interval)

	assert.NoError(t, r.Start())
	assert.NoError(t, r.Stop())
}

func TestSubHourInterval(t *testing.T) {
	r := New(&dummySource{}, nil, 30)

	assert.NoError(t, r.Start())
	assert.False(t, r.GetNextRun().IsZero())
	assert.NoError(t, r.Stop())
}
