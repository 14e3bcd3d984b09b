package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/banshee-data/lidarview/internal/serialport"
)

func NewPortsCommand(a *app) *cobra.Command {
	var (
		all   bool
		probe bool
	)
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List candidate LiDAR ports",
		Long: `List candidate LiDAR ports.

By default only ports behind a known LiDAR USB bridge are shown. --all lists
every serial port; --probe test-opens each one at the configured baud rate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			d, _, err := a.openDriver(all)
			if err != nil {
				return err
			}

			ports, err := d.ListPorts(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "failed to list LiDAR ports")
			}
			if len(ports) == 0 {
				fmt.Fprintln(a.out, "No LiDAR ports detected.")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			if probe {
				fmt.Fprintln(tw, "INDEX\tPATH\tID\tDESCRIPTION\tPROBE")
			} else {
				fmt.Fprintln(tw, "INDEX\tPATH\tID\tDESCRIPTION")
			}
			for i, p := range ports {
				if !probe {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, p.Path, p.ID, p.Description)
					continue
				}
				status := "ok"
				if err := serialport.Probe(nil, p.Path, serialport.PortOptions{BaudRate: cfg.GetBaudRate()}); err != nil {
					status = err.Error()
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, p.Path, p.ID, p.Description, status)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every serial port, not only known LiDAR bridges")
	cmd.Flags().BoolVar(&probe, "probe", false, "test-open each port")
	return cmd
}
