package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/lidarview/internal/display"
	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/mocks"
	"github.com/banshee-data/lidarview/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

type fixture struct {
	ctrl    *gomock.Controller
	driver  *mocks.MockDriver
	runtime *mocks.MockRuntime
	surface *mocks.MockSurface
	out     *bytes.Buffer
	opened  int
	sleeps  []time.Duration
	session *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:    ctrl,
		driver:  mocks.NewMockDriver(ctrl),
		runtime: mocks.NewMockRuntime(ctrl),
		surface: mocks.NewMockSurface(ctrl),
		out:     &bytes.Buffer{},
	}

	opts := lidar.DefaultOptions()
	opts.SerialPort = "/dev/ttyUSB0"
	f.session = NewSession(f.driver, f.runtime, opts, func(ctx context.Context, id uuid.UUID) (display.Surface, error) {
		f.opened++
		return f.surface, nil
	})
	f.session.Out = f.out
	f.session.Sleep = func(ctx context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return ctx.Err()
	}
	return f
}

// expectStartup expects a successful configure, initialize and scan start.
func (f *fixture) expectStartup() {
	gomock.InOrder(
		f.driver.EXPECT().Configure(f.session.Options).Return(nil),
		f.driver.EXPECT().Initialize(gomock.Any()).Return(nil),
		f.driver.EXPECT().StartScanning(gomock.Any()).Return(nil),
	)
}

// expectCleanup expects each release step exactly once.
func (f *fixture) expectCleanup() {
	gomock.InOrder(
		f.driver.EXPECT().StopScanning().Return(nil).Times(1),
		f.driver.EXPECT().Disconnect().Return(nil).Times(1),
	)
	f.surface.EXPECT().Close().Return(nil).Times(1)
}

func frameAt(rangeM float64) *lidar.Frame {
	return &lidar.Frame{Samples: []lidar.Sample{{Range: rangeM, Angle: 0}}}
}

func TestSession_ExitKey(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()
	f.expectCleanup()

	f.runtime.EXPECT().OK().Return(true).AnyTimes()
	f.driver.EXPECT().FetchFrame(gomock.Any()).Return(frameAt(2), nil).Times(3)
	f.surface.EXPECT().Show(gomock.Any()).Return(nil).Times(3)
	gomock.InOrder(
		f.surface.EXPECT().PollKey(DefaultKeyPoll).Return(display.Key(0), false),
		f.surface.EXPECT().PollKey(DefaultKeyPoll).Return(display.Key('a'), true),
		f.surface.EXPECT().PollKey(DefaultKeyPoll).Return(display.KeyEscape, true),
	)

	reason, err := f.session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExitKey, reason)
	assert.Equal(t, 3, f.session.Frames())
	assert.Equal(t, 1, f.opened)
	assert.Equal(t, StateDisconnected, f.session.State())

	assert.Equal(t,
		"Starting LiDAR visualization. Press ESC to exit.\n"+
			"Turning off LiDAR...\n"+
			"LiDAR disconnected. Program exited.\n",
		f.out.String())
}

func TestSession_RuntimeStopped(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()
	f.expectCleanup()

	gomock.InOrder(
		f.runtime.EXPECT().OK().Return(true),
		f.runtime.EXPECT().OK().Return(false),
	)
	f.driver.EXPECT().FetchFrame(gomock.Any()).Return(frameAt(1), nil)
	f.surface.EXPECT().Show(gomock.Any()).Return(nil)
	f.surface.EXPECT().PollKey(gomock.Any()).Return(display.Key(0), false)

	reason, err := f.session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExitRuntimeStopped, reason)
}

func TestSession_Interrupted(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()
	f.expectCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.runtime.EXPECT().OK().Return(true).AnyTimes()
	f.driver.EXPECT().FetchFrame(gomock.Any()).DoAndReturn(func(ctx context.Context) (*lidar.Frame, error) {
		cancel()
		return nil, ctx.Err()
	})

	reason, err := f.session.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExitInterrupted, reason)
	assert.Contains(t, f.out.String(), "Program interrupted by user\n")
	assert.Equal(t, StateDisconnected, f.session.State())
}

func TestSession_FatalFetch(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()
	f.expectCleanup()

	f.runtime.EXPECT().OK().Return(true).AnyTimes()
	f.driver.EXPECT().FetchFrame(gomock.Any()).Return(nil, fmt.Errorf("%w: cable pulled", lidar.ErrDeviceLost))

	reason, err := f.session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitFatal, reason)
	assert.True(t, errors.Is(err, lidar.ErrDeviceLost))
	assert.Contains(t, err.Error(), "failed to fetch scan frame")
}

func TestSession_PanicInLoop(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()
	f.expectCleanup()

	f.runtime.EXPECT().OK().Return(true).AnyTimes()
	f.driver.EXPECT().FetchFrame(gomock.Any()).Return(frameAt(1), nil)
	f.surface.EXPECT().Show(gomock.Any()).DoAndReturn(func(image.Image) error {
		panic("renderer exploded")
	})

	reason, err := f.session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitFatal, reason)
	assert.Contains(t, err.Error(), "renderer exploded")
	assert.Equal(t, StateDisconnected, f.session.State())
	assert.Contains(t, f.out.String(), "LiDAR disconnected. Program exited.")
}

func TestSession_RetriesWhenNoData(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()
	f.expectCleanup()

	f.runtime.EXPECT().OK().Return(true).AnyTimes()
	gomock.InOrder(
		f.driver.EXPECT().FetchFrame(gomock.Any()).Return(nil, lidar.ErrNoData),
		f.driver.EXPECT().FetchFrame(gomock.Any()).Return(nil, lidar.ErrNoData),
		f.driver.EXPECT().FetchFrame(gomock.Any()).Return(frameAt(1), nil),
	)
	f.surface.EXPECT().Show(gomock.Any()).Return(nil)
	f.surface.EXPECT().PollKey(gomock.Any()).Return(display.KeyEscape, true)

	reason, err := f.session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExitKey, reason)
	assert.Equal(t, []time.Duration{DefaultRetryDelay, DefaultRetryDelay}, f.sleeps)
}

func TestSession_MaxConsecutiveFailures(t *testing.T) {
	f := newFixture(t)
	f.session.MaxConsecutiveFailures = 3
	f.expectStartup()
	f.expectCleanup()

	f.runtime.EXPECT().OK().Return(true).AnyTimes()
	f.driver.EXPECT().FetchFrame(gomock.Any()).Return(nil, lidar.ErrNoData).Times(3)

	reason, err := f.session.Run(context.Background())
	assert.Equal(t, ExitFatal, reason)
	assert.ErrorIs(t, err, ErrTooManyFailures)
	assert.EqualError(t, err, "3 in a row: too many consecutive acquisition failures")
	assert.Len(t, f.sleeps, 2)
}

func TestSession_InitializeFailure(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.driver.EXPECT().Configure(gomock.Any()).Return(nil),
		f.driver.EXPECT().Initialize(gomock.Any()).Return(errors.New("Device Failed")),
		f.driver.EXPECT().Disconnect().Return(nil).Times(1),
	)

	reason, err := f.session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitFatal, reason)
	assert.Equal(t, "failed to initialize LiDAR: Device Failed", err.Error())
	assert.Zero(t, f.opened, "display must not be opened")
	assert.Empty(t, f.out.String())
	assert.Equal(t, StateDisconnected, f.session.State())
}

func TestSession_ConfigureFailure(t *testing.T) {
	f := newFixture(t)

	f.driver.EXPECT().Configure(gomock.Any()).Return(errors.New("bad option"))
	f.driver.EXPECT().Disconnect().Return(nil)

	reason, err := f.session.Run(context.Background())
	assert.Equal(t, ExitFatal, reason)
	assert.EqualError(t, err, "failed to configure LiDAR: bad option")
	assert.Zero(t, f.opened)
}

func TestSession_StartScanningFailure(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.driver.EXPECT().Configure(gomock.Any()).Return(nil),
		f.driver.EXPECT().Initialize(gomock.Any()).Return(nil),
		f.driver.EXPECT().StartScanning(gomock.Any()).Return(errors.New("motor stalled")),
		f.driver.EXPECT().Disconnect().Return(nil).Times(1),
	)

	reason, err := f.session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitFatal, reason)
	assert.Contains(t, err.Error(), "failed to start scanning: motor stalled")
	assert.Zero(t, f.opened)
	assert.Equal(t, StateDisconnected, f.session.State())
}

func TestSession_OpenDisplayFailure(t *testing.T) {
	f := newFixture(t)
	f.session.Open = func(context.Context, uuid.UUID) (display.Surface, error) {
		return nil, errors.New("address in use")
	}

	f.expectStartup()
	f.driver.EXPECT().StopScanning().Return(nil).Times(1)
	f.driver.EXPECT().Disconnect().Return(nil).Times(1)

	reason, err := f.session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitFatal, reason)
	assert.Contains(t, err.Error(), "failed to open display: address in use")
}

func TestSession_CleanupErrorsAreReported(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()

	f.runtime.EXPECT().OK().Return(false)
	f.driver.EXPECT().StopScanning().Return(errors.New("turnOff failed")).Times(1)
	f.driver.EXPECT().Disconnect().Return(nil).Times(1)
	f.surface.EXPECT().Close().Return(errors.New("listener gone")).Times(1)

	reason, err := f.session.Run(context.Background())
	assert.Equal(t, ExitRuntimeStopped, reason)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stop scanning: turnOff failed")
	assert.Contains(t, err.Error(), "failed to close display: listener gone")
}

func TestSession_SessionIDPassedToSurface(t *testing.T) {
	f := newFixture(t)
	var got uuid.UUID
	f.session.Open = func(ctx context.Context, id uuid.UUID) (display.Surface, error) {
		got = id
		return f.surface, nil
	}
	f.expectStartup()
	f.expectCleanup()
	f.runtime.EXPECT().OK().Return(false)

	_, err := f.session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.session.ID, got)
	assert.NotEqual(t, uuid.Nil, got)
}

func TestSession_ShowsRenderedFrame(t *testing.T) {
	f := newFixture(t)
	f.expectStartup()
	f.expectCleanup()

	var shown image.Image
	frame := &lidar.Frame{Samples: []lidar.Sample{{Range: 2, Angle: math.Pi / 4}}}
	f.runtime.EXPECT().OK().Return(true).AnyTimes()
	f.driver.EXPECT().FetchFrame(gomock.Any()).Return(frame, nil)
	f.surface.EXPECT().Show(gomock.Any()).DoAndReturn(func(img image.Image) error {
		shown = img
		return nil
	})
	f.surface.EXPECT().PollKey(gomock.Any()).Return(display.KeyEscape, true)

	_, err := f.session.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, shown)
	assert.Equal(t, image.Rect(0, 0, 800, 800), shown.Bounds())

	got := color.RGBAModel.Convert(shown.At(600, 200)).(color.RGBA)
	assert.Equal(t, color.RGBA{A: 0xff}, got, "background is black")
	// 2 m at 45 degrees lands on round(400 + 70.71), round(400 - 70.71).
	got = color.RGBAModel.Convert(shown.At(471, 329)).(color.RGBA)
	assert.Greater(t, got.G, uint8(0xc0))
	assert.Less(t, got.R, uint8(0x20))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "scanning", StateScanning.String())
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "exit-key", ExitKey.String())
	assert.Equal(t, "fatal", ExitFatal.String())
}
