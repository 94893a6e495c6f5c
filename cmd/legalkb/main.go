package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "legalkb",
		Short:         "legalkb - article lookup and lexical search over Costa Rican legal codes",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "legalkb.yaml", "Path to YAML config file (defaults are used if it does not exist)")
	rootCmd.PersistentFlags().StringVarP(&app.dataDir, "data-dir", "d", "", "Override the record source directory")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log load progress to stderr")

	// Add subcommands
	rootCmd.AddCommand(articleCmd(app))
	rootCmd.AddCommand(searchCmd(app))
	rootCmd.AddCommand(topicCmd(app))
	rootCmd.AddCommand(codesCmd(app))
	rootCmd.AddCommand(statsCmd(app))
	rootCmd.AddCommand(reportCmd(app))
	rootCmd.AddCommand(askCmd(app))
	rootCmd.AddCommand(importCmd(app))
	rootCmd.AddCommand(extractCmd(app))
	rootCmd.AddCommand(serveCmd(app))

	return rootCmd
}
