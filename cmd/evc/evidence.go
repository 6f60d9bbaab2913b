package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/boshu2/evconsole/internal/formatter"
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Evidence artifact index",
	Long: `Fetch the evolution evidence index together with the portal bundle
that links into it.`,
	Args: cobra.NoArgs,
	RunE: runEvidence,
}

func init() {
	rootCmd.AddCommand(evidenceCmd)
}

func runEvidence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newClient(cfg)

	var index, portal map[string]any
	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() (err error) { index, err = c.EvidenceIndex(gctx); return })
	g.Go(func() (err error) { portal, err = c.EvolutionPortal(gctx); return })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load evidence: %w", err)
	}

	return renderOutput(cfg, map[string]any{"index": index, "portal": portal}, func() error {
		fmt.Println("Evidence index:")
		fmt.Println(formatter.JSON(index))
		fmt.Println("\nPortal:")
		fmt.Println(formatter.JSON(portal))
		return nil
	})
}
