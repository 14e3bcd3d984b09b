package ydsdk

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"

	"github.com/banshee-data/lidarview/internal/lidar"
)

func fakeEnumerator(ports ...*enumerator.PortDetails) func() ([]*enumerator.PortDetails, error) {
	return func() ([]*enumerator.PortDetails, error) { return ports, nil }
}

func TestPortLister_ListPorts(t *testing.T) {
	l := PortLister{Enumerate: fakeEnumerator(
		&enumerator.PortDetails{Name: "/dev/ttyUSB1", IsUSB: true, VID: "1a86", PID: "7523"},
		&enumerator.PortDetails{Name: "/dev/ttyUSB0", IsUSB: true, VID: "10c4", PID: "ea60", SerialNumber: "0001"},
		&enumerator.PortDetails{Name: "/dev/ttyS0"},
	)}

	got, err := l.ListPorts(context.Background())
	require.NoError(t, err)

	want := []lidar.Port{
		{ID: "0001", Path: "/dev/ttyUSB0", Description: "/dev/ttyUSB0 (Silicon Labs CP210x 10C4:EA60)"},
		{ID: "/dev/ttyUSB1", Path: "/dev/ttyUSB1", Description: "/dev/ttyUSB1 (QinHeng CH340 1A86:7523)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListPorts() mismatch (-want +got):\n%s", diff)
	}

	l.All = true
	got, err = l.ListPorts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "/dev/ttyS0", got[0].Path)
}

func TestPortLister_Errors(t *testing.T) {
	l := PortLister{Enumerate: func() ([]*enumerator.PortDetails, error) {
		return nil, errors.New("udev unavailable")
	}}
	_, err := l.ListPorts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "udev unavailable")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.ListPorts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
