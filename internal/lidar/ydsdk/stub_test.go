//go:build !ydlidar

package ydsdk

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/lidarview/internal/lidar"
)

var _ lidar.Driver = (*Driver)(nil)
var _ lidar.Runtime = (*Runtime)(nil)

func TestStubDriver(t *testing.T) {
	rt := NewRuntime()
	d := New(rt)
	ctx := context.Background()

	assert.False(t, Available)
	assert.ErrorIs(t, d.Configure(lidar.DefaultOptions()), ErrUnavailable)
	assert.ErrorIs(t, d.Initialize(ctx), ErrUnavailable)
	assert.ErrorIs(t, d.StartScanning(ctx), ErrUnavailable)
	_, err := d.FetchFrame(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, d.StopScanning())
	assert.NoError(t, d.Disconnect())

	assert.True(t, rt.OK())
	rt.Shutdown()
	assert.False(t, rt.OK())
}

func TestStubRuntime_ConcurrentShutdown(t *testing.T) {
	rt := NewRuntime()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rt.Shutdown()
	}()
	// Polls OK the way the acquire-render loop does while Shutdown runs.
	for rt.OK() {
		runtime.Gosched()
	}
	wg.Wait()

	assert.False(t, rt.OK())
}
