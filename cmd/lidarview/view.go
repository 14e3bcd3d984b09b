package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/banshee-data/lidarview/internal/config"
	"github.com/banshee-data/lidarview/internal/display"
	"github.com/banshee-data/lidarview/internal/monitoring"
	"github.com/banshee-data/lidarview/internal/viewer"
)

// viewFlags are the flags of view that override the config file.
type viewFlags struct {
	port        string
	listen      string
	windowSize  int
	scale       float64
	maxAttempts int
	probe       bool
}

// apply copies the flags that were set on the command line into cfg.
func (f *viewFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = &f.listen
	}
	if flags.Changed("window-size") {
		cfg.WindowSize = &f.windowSize
	}
	if flags.Changed("scale") {
		cfg.Scale = &f.scale
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = &f.maxAttempts
	}
	if flags.Changed("probe") {
		cfg.Probe = &f.probe
	}
}

func NewViewCommand(a *app) *cobra.Command {
	f := &viewFlags{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the live point cloud (default)",
		Long: `Show the live point cloud.

The port is taken from --port, picked automatically when exactly one LiDAR is
attached, or chosen from a numbered list. Frames are streamed to the page at
--listen until ESC is pressed, the driver stops or the process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid flags")
			}
			return a.runView(cmd.Context(), cfg, f.port)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.port, "port", "p", "", "serial port of the LiDAR (skips discovery)")
	flags.StringVar(&f.listen, "listen", display.DefaultListen, "address of the viewer page")
	flags.IntVar(&f.windowSize, "window-size", 800, "canvas edge in pixels")
	flags.Float64Var(&f.scale, "scale", 50, "pixels per metre")
	flags.IntVar(&f.maxAttempts, "max-attempts", 0, "rejected port choices before giving up (0 = keep asking)")
	flags.BoolVar(&f.probe, "probe", false, "only offer ports that can be opened")
	return cmd
}

func (a *app) runView(parent context.Context, cfg *config.Config, port string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(a.out, "Initializing LiDAR...")

	d, rt, err := a.openDriver(false)
	if err != nil {
		return err
	}
	// An interrupt also stops the driver runtime, as the SDK's own signal
	// handler would.
	go func() {
		<-ctx.Done()
		rt.Shutdown()
	}()

	port, err = resolvePort(ctx, d, portRequest{
		Port:        port,
		Probe:       cfg.GetProbe() && a.driver != driverSim,
		BaudRate:    cfg.GetBaudRate(),
		MaxAttempts: cfg.GetMaxAttempts(),
	}, a.in, a.out)
	if err != nil {
		return err
	}

	opts, err := cfg.DeviceOptions(port)
	if err != nil {
		return err
	}

	// Raw mode turns off output post-processing, so every writer that can
	// reach the terminal translates newlines itself.
	terminal, _ := a.in.(*os.File)
	out := a.out
	if terminal != nil && term.IsTerminal(int(terminal.Fd())) {
		out = display.RawModeWriter(out)
		logrus.StandardLogger().SetOutput(display.RawModeWriter(a.err))
	} else {
		terminal = nil
	}

	session := viewer.NewSession(d, rt, opts, func(ctx context.Context, id uuid.UUID) (display.Surface, error) {
		w, err := display.Open(ctx, windowName, display.Config{
			Listen:      cfg.GetListen(),
			Size:        cfg.GetWindowSize(),
			Quality:     cfg.GetJPEGQuality(),
			Session:     id.String(),
			Terminal:    terminal,
			OnInterrupt: stop,
		})
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Viewer at %s\n", w.URL())
		return w, nil
	})
	session.Settings = cfg.ViewSettings()
	session.Out = out

	reason, err := session.Run(ctx)
	return viewResult(reason, err)
}

// viewResult turns a session outcome into the command error. Only fatal
// exits fail the command; cleanup problems after a normal exit are logged.
func viewResult(reason viewer.ExitReason, err error) error {
	if reason == viewer.ExitFatal {
		return err
	}
	if err != nil {
		monitoring.Logger.WithError(err).WithField("reason", reason.String()).Warn("LiDAR cleanup reported errors")
	}
	return nil
}
