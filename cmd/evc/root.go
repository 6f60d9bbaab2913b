package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/artifacts"
	"github.com/boshu2/evconsole/internal/config"
	"github.com/boshu2/evconsole/internal/review"
)

const version = "0.3.0"

var (
	// Global flags
	baseURL string
	verbose bool
	output  string
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "evc",
	Short: "Evolution review console",
	Long: `evc is the operator console for the ops/evolution API server.

It aggregates release, rollback, restore and evolution evidence into
derived, filterable views, and drives the proposal review workflow
(select, inspect, approve/reject/apply/rollback, export).

Core Commands:
  overview     Composed system overview with the evidence timeline
  timeline     Filterable evidence timeline
  monitor      System monitor snapshot, optionally polling
  proposals    List and inspect evolution proposals
  review       Interactive proposal review session
  evolution    Evolution pipeline status, bundles and links`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		syncConfigFlagToEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API server base URL (default: http://localhost:8000)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (json, table, yaml)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.evconsole/config.yaml)")
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(cfgFile)
	if path == "" {
		return
	}
	_ = os.Setenv("EVC_CONFIG", path)
}

// loadConfig resolves configuration with flag overrides applied. An
// explicitly named config file that fails to load is an error, not a
// silent fall-through to defaults.
func loadConfig() (*config.Config, error) {
	overrides := &config.Config{
		BaseURL: baseURL,
		Output:  output,
		Verbose: verbose,
	}
	return config.Load(overrides)
}

// newClient builds the API client for the resolved configuration.
func newClient(cfg *config.Config) *api.Client {
	VerbosePrintf("Using API server %s (timeout %ds)\n", cfg.BaseURL, cfg.TimeoutSeconds)
	return api.New(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

// newSession builds a review session printing to stdout, with the
// configured actor, actions limit and manifest thresholds applied.
func newSession(cfg *config.Config, c *api.Client) *review.Session {
	return review.NewSession(c, &review.ConsoleScreen{W: os.Stdout},
		review.WithDefaultActor(cfg.Review.Actor),
		review.WithActionsLimit(cfg.Review.ActionsLimit),
		review.WithThresholds(artifacts.Thresholds{
			Minimal: cfg.Artifacts.MinimalThreshold,
			Rich:    cfg.Artifacts.RichThreshold,
		}))
}

// VerbosePrintf prints only when verbose mode is enabled.
func VerbosePrintf(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format, args...)
	}
}

// renderOutput writes v in the configured format, calling table for the
// default human-readable rendering.
func renderOutput(cfg *config.Config, v any, table func() error) error {
	switch cfg.Output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		return enc.Encode(v)
	default:
		return table()
	}
}
