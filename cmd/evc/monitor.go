package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/evconsole/internal/formatter"
	"github.com/boshu2/evconsole/internal/overview"
)

var monitorInterval int

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "System monitor snapshot",
	Long: `Fetch the composite system monitor snapshot (readiness, recovery
state, host info, telemetry, entropy risk) and render derived cards.

With --interval the snapshot is re-fetched continuously until
interrupted; a poll failure is reported and polling continues.

Examples:
  evc monitor
  evc monitor --interval 10`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&monitorInterval, "interval", 0, "Polling interval in seconds (0 polls once)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newClient(cfg)

	interval := monitorInterval
	if !cmd.Flags().Changed("interval") {
		interval = cfg.Monitor.IntervalSeconds
	}

	show := func(ctx context.Context) error {
		view, err := overview.LoadMonitor(ctx, c)
		if err != nil {
			return err
		}
		return renderOutput(cfg, view.Raw, func() error {
			return formatter.Cards(os.Stdout, view.Cards)
		})
	}

	if err := show(cmd.Context()); err != nil {
		if interval <= 0 {
			return fmt.Errorf("load monitor: %w", err)
		}
		fmt.Fprintf(os.Stderr, "monitor: %v\n", err)
	}
	if interval <= 0 {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	poller := &overview.Poller{}
	defer poller.Stop()
	poller.SetInterval(time.Duration(interval)*time.Second, func() {
		fmt.Println()
		if err := show(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "monitor: %v\n", err)
		}
	})

	<-ctx.Done()
	return nil
}
