package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "tarotd",
	Short: "Tarot reading HTTP backend",
	Long:  "tarotd serves the tarot web app API: card draws, interpretations, and reading history.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tarotd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tarotd version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
