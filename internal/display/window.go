package display

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"image"
	"image/jpeg"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/saljam/mjpeg"
	"go.uber.org/multierr"
	"tailscale.com/tsweb"

	"github.com/banshee-data/lidarview/internal/monitoring"
)

//go:embed templates/*
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Config controls how a Window is opened.
type Config struct {
	// Listen is the address of the viewer page. Defaults to DefaultListen.
	// Use port 0 to pick a free port.
	Listen string

	// Size is the display width and height of the frame on the page.
	Size int

	// Quality is the JPEG quality of streamed frames, 1 to 100.
	Quality int

	// Session identifies the viewer session on the page and debug routes.
	Session string

	// Terminal, when it is a TTY, is switched to raw mode and its key
	// presses are delivered through PollKey.
	Terminal *os.File

	// OnInterrupt is called when Ctrl-C is read from the raw terminal, which
	// no longer raises SIGINT.
	OnInterrupt func()
}

// Window is a Surface served over HTTP.
type Window struct {
	name    string
	cfg     Config
	stream  *mjpeg.Stream
	handler http.Handler
	srv     *http.Server
	ln      net.Listener
	term    *TerminalKeys

	keys chan Key
	done chan struct{}

	frames    atomic.Int64
	dropped   atomic.Int64
	lastMu    sync.RWMutex
	last      []byte
	lastShown time.Time

	closeOnce sync.Once
	closeErr  error
}

// NewWindow builds a Window without starting its server. Handler exposes
// its routes, which lets tests drive it with httptest.
func NewWindow(name string, cfg Config) *Window {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = DefaultQuality
	}

	w := &Window{
		name:   name,
		cfg:    cfg,
		stream: mjpeg.NewStream(),
		keys:   make(chan Key, keyBuffer),
		done:   make(chan struct{}),
	}
	w.handler = w.setupRoutes()
	return w
}

// Open creates a Window, starts serving it and attaches the terminal when
// one is configured.
func Open(ctx context.Context, name string, cfg Config) (*Window, error) {
	w := NewWindow(name, cfg)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", w.cfg.Listen)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", w.cfg.Listen)
	}
	w.ln = ln
	w.srv = &http.Server{Handler: w.handler}

	go func() {
		if err := w.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			monitoring.Logger.WithError(err).Error("Display server stopped")
		}
	}()

	if cfg.Terminal != nil {
		tk, err := StartTerminalKeys(cfg.Terminal, w.keys, cfg.OnInterrupt)
		switch {
		case errors.Is(err, ErrNotTerminal):
			monitoring.Logger.Debug("Terminal key input disabled: not a terminal")
		case err != nil:
			monitoring.Logger.WithError(err).Warn("Terminal key input disabled")
		default:
			w.term = tk
		}
	}

	monitoring.Logger.WithField("url", w.URL()).Infof("%s window open", name)
	return w, nil
}

// URL returns the address of the viewer page, or "" before Open.
func (w *Window) URL() string {
	if w.ln == nil {
		return ""
	}
	return "http://" + w.ln.Addr().String() + "/"
}

// Handler returns the HTTP routes of the window.
func (w *Window) Handler() http.Handler {
	return w.handler
}

func (w *Window) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", w.handleIndex)
	mux.Handle("/stream", w.stream)
	mux.HandleFunc("/frame.jpg", w.handleFrame)
	mux.HandleFunc("/key", w.handleKey)

	debug := tsweb.Debugger(mux)
	debug.KV("Window", w.name)
	debug.KV("Session", w.cfg.Session)
	debug.KVFunc("Frames shown", func() any { return w.frames.Load() })
	debug.KVFunc("Keys dropped", func() any { return w.dropped.Load() })
	debug.KVFunc("Last frame", func() any {
		w.lastMu.RLock()
		defer w.lastMu.RUnlock()
		if w.lastShown.IsZero() {
			return "never"
		}
		return w.lastShown.Format(time.RFC3339Nano)
	})
	debug.HandleFunc("frame", "Last rendered frame", w.handleFrame)
	return mux
}

func (w *Window) handleIndex(rw http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(rw, r)
		return
	}
	size := w.cfg.Size
	if size <= 0 {
		size = 800
	}

	buf := bytes.NewBuffer(nil)
	err := indexTemplate.Execute(buf, struct {
		Name    string
		Session string
		Size    int
	}{w.name, w.cfg.Session, size})
	if err != nil {
		http.Error(rw, "Failed to render template", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Write(buf.Bytes())
}

func (w *Window) handleFrame(rw http.ResponseWriter, r *http.Request) {
	w.lastMu.RLock()
	frame := w.last
	w.lastMu.RUnlock()

	if frame == nil {
		http.Error(rw, "No frame yet", http.StatusNotFound)
		return
	}
	rw.Header().Set("Content-Type", "image/jpeg")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Content-Length", strconv.Itoa(len(frame)))
	rw.Write(frame)
}

func (w *Window) handleKey(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	code, err := strconv.Atoi(r.FormValue("code"))
	if err != nil || code < 0 {
		http.Error(rw, "Invalid key code", http.StatusBadRequest)
		return
	}
	w.pushKey(Key(code))
	rw.WriteHeader(http.StatusNoContent)
}

// pushKey queues k without blocking; keys beyond the buffer are dropped.
func (w *Window) pushKey(k Key) {
	select {
	case w.keys <- k:
	default:
		w.dropped.Add(1)
	}
}

// Show encodes img as JPEG and publishes it to the stream.
func (w *Window) Show(img image.Image) error {
	select {
	case <-w.done:
		return errors.Errorf("window %q is closed", w.name)
	default:
	}

	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: w.cfg.Quality}); err != nil {
		return errors.Wrap(err, "failed to encode frame")
	}
	frame := buf.Bytes()

	w.lastMu.Lock()
	w.last = frame
	w.lastShown = time.Now()
	w.lastMu.Unlock()

	w.stream.UpdateJPEG(frame)
	w.frames.Add(1)
	return nil
}

// PollKey returns the next queued key, waiting at most timeout.
func (w *Window) PollKey(timeout time.Duration) (Key, bool) {
	select {
	case k := <-w.keys:
		return k, true
	default:
	}
	if timeout <= 0 {
		return 0, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k := <-w.keys:
		return k, true
	case <-timer.C:
		return 0, false
	case <-w.done:
		return 0, false
	}
}

// Frames returns the number of frames shown.
func (w *Window) Frames() int64 {
	return w.frames.Load()
}

// Close stops the server and restores the terminal. It is safe to call more
// than once.
func (w *Window) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)

		var errs error
		if w.term != nil {
			errs = multierr.Append(errs, w.term.Restore())
		}
		if w.srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()
			if err := w.srv.Shutdown(shutdownCtx); err != nil {
				// Streaming clients never go idle.
				if err := w.srv.Close(); err != nil {
					errs = multierr.Append(errs, errors.Wrap(err, "failed to close display server"))
				}
			}
		}
		w.closeErr = errs
	})
	return w.closeErr
}
