package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/evconsole/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review [proposal-id]",
	Short: "Interactive proposal review session",
	Long: `Start an interactive review session. With a proposal id argument
the session selects it immediately; otherwise start with "select".

Commands inside the session:
  select <id>         Select a proposal and load its detail
  refresh             Reload the selected proposal's detail
  approve [reason]    Approve the selected proposal
  reject [reason]     Reject the selected proposal
  apply [reason]      Apply the selected proposal
  rollback [reason]   Roll back the selected proposal
  artifacts           Render the artifacts server-side and reload
  preview <key>       Preview one artifact key from the manifest
  export [section]    Export the review (artifacts|baseline|guard|all)
  actions             Show the recent-actions list
  help                Show this command list
  quit                Leave the session`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	session := newSession(cfg, newClient(cfg))
	ctx := cmd.Context()

	if len(args) == 1 {
		if err := session.Select(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "select %s: %v\n", args[0], err)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		prompt := "evc"
		if id := session.SelectedID(); id != "" {
			prompt = "evc(" + id + ")"
		}
		fmt.Printf("%s> ", prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Println(cmd.Long)
			continue
		}

		if err := session.Dispatch(ctx, review.ParseCommand(line)); err != nil {
			// No-selection errors already printed their surface hint.
			if errors.Is(err, review.ErrNoSelection) {
				continue
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}
