package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/formatter"
	"github.com/boshu2/evconsole/internal/overview"
)

var renderLimit int

var evolutionCmd = &cobra.Command{
	Use:   "evolution",
	Short: "Evolution pipeline status, bundles and links",
	Long: `Inspect the evolution subsystem: pipeline cards, raw status and
summary payloads, portal/nav/final bundles and server-side bundle
renders.

Examples:
  evc evolution
  evc evolution summary -o json
  evc evolution links
  evc evolution render dashboard --limit 25`,
	RunE: runEvolution,
}

func init() {
	for _, sub := range []struct {
		use, short string
		fetch      func(*api.Client, context.Context) (map[string]any, error)
	}{
		{"status", "Latest inspection status", (*api.Client).EvolutionStatus},
		{"summary", "Pipeline summary", (*api.Client).EvolutionSummary},
		{"portal", "Portal index bundle", (*api.Client).EvolutionPortal},
		{"nav", "Navigation bundle", (*api.Client).EvolutionNav},
		{"final", "Final bundle routes", (*api.Client).EvolutionFinal},
	} {
		fetch := sub.fetch
		evolutionCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				data, err := fetch(newClient(cfg), cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch evolution %s: %w", cmd.Use, err)
				}
				return renderOutput(cfg, data, func() error {
					fmt.Println(formatter.JSON(data))
					return nil
				})
			},
		})
	}

	evolutionCmd.AddCommand(evolutionLinksCmd)
	evolutionRenderCmd.Flags().IntVar(&renderLimit, "limit", 50, "Max entries included in the rendered bundle")
	evolutionCmd.AddCommand(evolutionRenderCmd)
	rootCmd.AddCommand(evolutionCmd)
}

func runEvolution(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newClient(cfg)

	view, err := overview.LoadEvolution(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("load evolution: %w", err)
	}
	return renderOutput(cfg, map[string]any{
		"cards":   view.Cards,
		"summary": view.Summary,
		"status":  view.Status,
	}, func() error {
		if err := formatter.Cards(os.Stdout, view.Cards); err != nil {
			return err
		}
		fmt.Println("\nSummary:")
		fmt.Println(formatter.JSON(view.Summary))
		fmt.Println("\nLatest inspection:")
		fmt.Println(formatter.JSON(view.Status))
		return nil
	})
}

var evolutionLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "Portal, nav and final link digest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		links, err := overview.LoadEvolutionLinks(cmd.Context(), newClient(cfg))
		if err != nil {
			return fmt.Errorf("load evolution links: %w", err)
		}
		return renderOutput(cfg, links, func() error {
			fmt.Println("Links:")
			fmt.Println(formatter.JSON(links.Links))
			fmt.Println("\nBundles:")
			fmt.Println(formatter.JSON(links.Bundles))
			return nil
		})
	},
}

var evolutionRenderCmd = &cobra.Command{
	Use:       "render <kind>",
	Short:     "Server-side bundle re-render",
	Long:      "Request a server-side re-render of one evolution bundle.\nKinds: " + strings.Join(api.BundleKinds, ", ") + ".",
	Args:      cobra.ExactArgs(1),
	ValidArgs: api.BundleKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := newClient(cfg).RenderBundle(cmd.Context(), args[0], renderLimit)
		if err != nil {
			return fmt.Errorf("render bundle: %w", err)
		}
		return renderOutput(cfg, data, func() error {
			fmt.Println(formatter.JSON(data))
			return nil
		})
	},
}
