package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/boshu2/evconsole/internal/formatter"
	"github.com/boshu2/evconsole/internal/overview"
	"github.com/boshu2/evconsole/internal/timeline"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Composed system overview",
	Long: `Fetch health, readiness, telemetry, gate summary, migration state,
restore drill, gate portal and the composed overview status in parallel,
then render derived cards and the evidence timeline.

Examples:
  evc overview
  evc overview -o json`,
	RunE: runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newClient(cfg)

	snap, err := overview.LoadOverview(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("load overview: %w", err)
	}

	agg := timeline.NewAggregator()
	agg.SetContext(snap.Context)
	view := agg.Render()

	structured := map[string]any{
		"cards":        snap.Cards,
		"status_cards": snap.StatusCards,
		"portal_cards": snap.PortalCards,
		"timeline":     view,
	}
	return renderOutput(cfg, structured, func() error {
		return printOverview(snap, view)
	})
}

func printOverview(snap *overview.Snapshot, view timeline.View) error {
	fmt.Println("Overview")
	fmt.Println("========")
	if err := formatter.Cards(os.Stdout, snap.Cards); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Status")
	fmt.Println("======")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, card := range snap.StatusCards {
		//nolint:errcheck // tabwriter output to stdout
		fmt.Fprintf(w, "%s\t%s\t%s\n", card.Label, card.Value, formatter.Badge(card.Status))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Portals")
	fmt.Println("=======")
	pw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, card := range snap.PortalCards {
		//nolint:errcheck // tabwriter output to stdout
		fmt.Fprintf(pw, "%s\t%s\tlast updated %s\n", card.Title, formatter.Badge(card.Status), card.Updated)
	}
	if err := pw.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Evidence timeline")
	fmt.Println("=================")
	return printTimelineView(view)
}
