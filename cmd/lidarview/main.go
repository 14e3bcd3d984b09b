// Command lidarview shows the live point cloud of a YDLidar Tmini class
// sensor in the browser and the terminal.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/lidarview/internal/config"
	"github.com/banshee-data/lidarview/internal/monitoring"
)

const windowName = "LiDAR Point Cloud"

// app carries the global flags and the process streams shared by every
// subcommand.
type app struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	logLevel   string
	configPath string
	driver     string
	seed       uint64
}

func main() {
	cmd := NewCommand(&app{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewCommand builds the root command. Without a subcommand it runs view.
func NewCommand(a *app) *cobra.Command {
	view := NewViewCommand(a)

	cmd := &cobra.Command{
		Use:   "lidarview",
		Short: "lidarview shows the live point cloud of a YDLidar Tmini sensor",
		Long: `lidarview shows the live point cloud of a YDLidar Tmini Pro/Plus sensor.

The scan is rendered top-down with the sensor at the centre and streamed to a
local web page. Press ESC in the terminal or on the page to exit.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return monitoring.Setup(a.logLevel, a.err)
		},
		RunE: view.RunE,
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.err)

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&a.logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&a.configPath, "config", "", "config file path (default "+config.DefaultConfigPath+" when present)")
	globalFlags.StringVar(&a.driver, "driver", driverSDK, "LiDAR driver: sdk or sim")
	globalFlags.Uint64Var(&a.seed, "sim-seed", 1, "noise seed for the sim driver")

	// The root command accepts the view flags too.
	cmd.Flags().AddFlagSet(view.Flags())

	cmd.AddCommand(
		view,
		NewPortsCommand(a),
		NewSnapshotCommand(a),
		NewVersionCommand(),
	)
	return cmd
}
