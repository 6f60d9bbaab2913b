package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/formatter"
)

var proposalFilter api.ProposalFilter

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "List and inspect evolution proposals",
	Long: `List evolution proposals, optionally filtered, or inspect one
proposal's composite detail (review summary, guard checks, baseline
comparison, artifact previews).

Examples:
  evc proposals
  evc proposals --status guard_passed --risk medium
  evc proposals show prop_0042`,
	RunE: runProposalsList,
}

func init() {
	proposalsCmd.Flags().StringVar(&proposalFilter.Status, "status", "", "Filter by proposal status")
	proposalsCmd.Flags().StringVar(&proposalFilter.RiskLevel, "risk", "", "Filter by risk level")
	proposalsCmd.Flags().StringVar(&proposalFilter.Subject, "subject", "", "Filter by source subject")
	proposalsCmd.AddCommand(proposalShowCmd)
	rootCmd.AddCommand(proposalsCmd)
}

func runProposalsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newClient(cfg)

	list, err := c.Proposals(cmd.Context(), proposalFilter)
	if err != nil {
		return fmt.Errorf("list proposals: %w", err)
	}
	return renderOutput(cfg, list, func() error {
		if len(list.Items) == 0 {
			fmt.Println("No proposals")
			return nil
		}
		t := formatter.NewTable(os.Stdout, "ID", "STATUS", "RISK", "SUBJECT", "TITLE")
		t.SetMaxWidth(4, 60)
		for _, p := range list.Items {
			t.AddRow(p.ProposalID, p.Status, p.Risk.RiskLevel, p.SourceSubject, p.Title)
		}
		return t.Render()
	})
}

var proposalShowCmd = &cobra.Command{
	Use:   "show <proposal-id>",
	Short: "Composite detail for one proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := newClient(cfg)

		session := newSession(cfg, c)
		if err := session.Select(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("load proposal %s: %w", args[0], err)
		}
		return nil
	},
}
