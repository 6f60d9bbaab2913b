package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show console version information",
	Long: `Display the console version and runtime details. Include this output
when reporting a console/API-server mismatch.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("evc version %s\n", version)
		fmt.Printf("  Go version: %s\n", runtime.Version())
		fmt.Printf("  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
