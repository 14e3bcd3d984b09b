package display

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/lidarview/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

var _ Surface = (*Window)(nil)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		img.Set(x, 16, color.RGBA{G: 0xff, A: 0xff})
	}
	return img
}

func postKey(t *testing.T, h http.Handler, code string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"code": {code}}
	req := httptest.NewRequest(http.MethodPost, "/key", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWindow_Index(t *testing.T) {
	w := NewWindow("LiDAR Point Cloud", Config{Size: 640, Session: "abc-123"})

	rec := httptest.NewRecorder()
	w.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>LiDAR Point Cloud</title>")
	assert.Contains(t, body, "abc-123")
	assert.Contains(t, body, `src="/stream"`)
	assert.Contains(t, body, `width="640"`)

	rec = httptest.NewRecorder()
	w.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWindow_ShowPublishesFrame(t *testing.T) {
	w := NewWindow("test", Config{})
	defer w.Close()

	rec := httptest.NewRecorder()
	w.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.jpg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, w.Show(testImage()))
	require.NoError(t, w.Show(testImage()))
	assert.EqualValues(t, 2, w.Frames())

	rec = httptest.NewRecorder()
	w.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.jpg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	img, err := jpeg.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
}

func TestWindow_KeyEndpoint(t *testing.T) {
	w := NewWindow("test", Config{})
	defer w.Close()

	rec := postKey(t, w.Handler(), "27")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	k, ok := w.PollKey(10 * time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, KeyEscape, k)

	_, ok = w.PollKey(5 * time.Millisecond)
	assert.False(t, ok)

	assert.Equal(t, http.StatusBadRequest, postKey(t, w.Handler(), "esc").Code)
	assert.Equal(t, http.StatusBadRequest, postKey(t, w.Handler(), "-4").Code)

	rec = httptest.NewRecorder()
	w.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/key", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWindow_KeyBufferOverflowDrops(t *testing.T) {
	w := NewWindow("test", Config{})
	defer w.Close()

	for i := 0; i < keyBuffer+5; i++ {
		w.pushKey(Key('a'))
	}
	assert.EqualValues(t, 5, w.dropped.Load())

	n := 0
	for {
		if _, ok := w.PollKey(0); !ok {
			break
		}
		n++
	}
	assert.Equal(t, keyBuffer, n)
}

func TestWindow_PollKeyReturnsOnClose(t *testing.T) {
	w := NewWindow("test", Config{})

	go func() {
		time.Sleep(10 * time.Millisecond)
		w.Close()
	}()

	start := time.Now()
	_, ok := w.PollKey(5 * time.Second)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWindow_CloseIsIdempotent(t *testing.T) {
	w := NewWindow("test", Config{})
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.EqualError(t, w.Show(testImage()), `window "test" is closed`)
}

func TestOpen_ServesOverTCP(t *testing.T) {
	w, err := Open(context.Background(), "test", Config{Listen: "127.0.0.1:0"})
	require.NoError(t, err)
	defer w.Close()

	require.NotEmpty(t, w.URL())
	require.NoError(t, w.Show(testImage()))

	resp, err := http.Get(w.URL() + "frame.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, body)

	resp2, err := http.PostForm(w.URL()+"key", url.Values{"code": {"113"}})
	require.NoError(t, err)
	resp2.Body.Close()
	k, ok := w.PollKey(time.Second)
	assert.True(t, ok)
	assert.Equal(t, Key('q'), k)

	require.NoError(t, w.Close())
	_, err = http.Get(w.URL())
	assert.Error(t, err)
}

func TestOpen_ListenError(t *testing.T) {
	_, err := Open(context.Background(), "test", Config{Listen: "256.0.0.1:99999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestOpen_NonTerminalIsIgnored(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	w, err := Open(context.Background(), "test", Config{Listen: "127.0.0.1:0", Terminal: f})
	require.NoError(t, err)
	defer w.Close()
	assert.Nil(t, w.term)
}

func TestDebugRoutes(t *testing.T) {
	w := NewWindow("test", Config{Session: "s-1"})
	defer w.Close()
	require.NoError(t, w.Show(testImage()))

	req := httptest.NewRequest(http.MethodGet, "/debug/", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	rec := httptest.NewRecorder()
	w.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Frames shown")
	assert.Contains(t, rec.Body.String(), "s-1")
}
