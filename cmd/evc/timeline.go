package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/boshu2/evconsole/internal/formatter"
	"github.com/boshu2/evconsole/internal/status"
	"github.com/boshu2/evconsole/internal/timeline"
)

func statusOf(raw string) status.Level { return status.Classify(raw).Level }

var (
	timelineStatus   string
	timelineArea     string
	timelineWindow   string
	timelineCollapse bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Filterable evidence timeline",
	Long: `Show the merged evidence timeline across release, rollback,
restore and evolution areas, grouped per area with derived group status.

Entries with missing or malformed timestamps always pass the window
filter; evidence is never silently hidden.

Examples:
  evc timeline
  evc timeline --status bad --window 24h
  evc timeline --area evolution -o json`,
	RunE: runTimeline,
}

func init() {
	timelineCmd.Flags().StringVar(&timelineStatus, "status", "all", "Status filter (all, good, warn, bad, unknown)")
	timelineCmd.Flags().StringVar(&timelineArea, "area", "all", "Area filter (all, release, rollback, restore, evolution)")
	timelineCmd.Flags().StringVar(&timelineWindow, "window", "all", "Time window (all, 24h, 7d)")
	timelineCmd.Flags().BoolVar(&timelineCollapse, "collapse", false, "Collapse all groups to their headers")
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newClient(cfg)

	status, err := c.OverviewStatusSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch overview status: %w", err)
	}

	agg := timeline.NewAggregator()
	agg.SetContext(timeline.Context{Sections: status.Sections})
	agg.SetFilter(timeline.Filter{Status: timelineStatus, Area: timelineArea, Window: timelineWindow})
	if timelineCollapse {
		agg.CollapseAll()
	}
	view := agg.Render()

	return renderOutput(cfg, view, func() error {
		return printTimelineView(view)
	})
}

// printTimelineView renders summary cards and grouped entries.
func printTimelineView(view timeline.View) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, card := range view.Summary {
		//nolint:errcheck // tabwriter output to stdout
		fmt.Fprintf(w, "%s\t%s\t%s\n", card.Label, card.Value, card.Hint)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	if view.Empty() {
		fmt.Println("No timeline entries match the current filters.")
		return nil
	}

	for _, group := range view.Groups {
		fmt.Printf("%s %s  (%d entries, last updated %s)\n",
			strings.ToUpper(group.Area), formatter.Badge(group.Status), len(group.Entries), group.LastUpdated)
		if group.Collapsed {
			continue
		}
		ew := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, e := range group.Entries {
			updated := e.Timestamp()
			if updated == "" {
				updated = "—"
			}
			//nolint:errcheck // tabwriter output to stdout
			fmt.Fprintf(ew, "  %s\t%s\t%v\t%s\n",
				formatter.Badge(statusOf(e.Status)), e.Label, e.Value, updated)
		}
		if err := ew.Flush(); err != nil {
			return err
		}
	}
	return nil
}
