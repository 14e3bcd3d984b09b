package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/banshee-data/lidarview/internal/monitoring"
	"github.com/banshee-data/lidarview/internal/snapshot"
)

func NewSnapshotCommand(a *app) *cobra.Command {
	var (
		out      string
		format   string
		port     string
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "snapshot --out FILE",
		Short: "Capture one frame to a PNG plot, HTML chart or JPEG",
		Long: `Capture one frame and write it to FILE.

png is a scatter plot in metres, html an interactive chart coloured by
intensity, and jpeg the canvas exactly as the viewer draws it. Without
--format the extension of FILE decides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := snapshot.ParseFormat(format, out)
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, rt, err := a.openDriver(false)
			if err != nil {
				return err
			}
			defer rt.Shutdown()

			port, err := resolvePort(ctx, d, portRequest{
				Port:        port,
				MaxAttempts: cfg.GetMaxAttempts(),
			}, a.in, a.out)
			if err != nil {
				return err
			}
			opts, err := cfg.DeviceOptions(port)
			if err != nil {
				return err
			}

			frame, err := snapshot.Capture(ctx, d, opts, attempts, cfg.GetRetryDelay())
			if err != nil {
				return err
			}
			if err := snapshot.Write(out, f, frame, cfg.ViewSettings().Renderer); err != nil {
				return errors.Wrap(err, "failed to write snapshot")
			}

			monitoring.Logger.WithField("points", frame.ValidCount()).Debug("Snapshot written")
			fmt.Fprintf(a.out, "Wrote %d points to %s\n", frame.ValidCount(), out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "", "output file")
	flags.StringVarP(&format, "format", "f", "", "png, html or jpeg (default from the file extension)")
	flags.StringVarP(&port, "port", "p", "", "serial port of the LiDAR (skips discovery)")
	flags.IntVar(&attempts, "attempts", 40, "fetches to try before giving up")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
