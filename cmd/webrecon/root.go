package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for webrecon.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webrecon",
		Short: "Web reconnaissance: crawl, brute force and fuzz HTTP targets",
		Long: `webrecon is a web reconnaissance tool for sites you are authorized to test.

It runs three kinds of jobs:
  crawl       follow links from a start URL and map the site
  bruteforce  request wordlist entries under a base URL to find hidden paths
  fuzz        inject payloads into request parameters and compare responses

Results stream to the terminal while a job runs. Send SIGUSR1 to pause or
resume, and interrupt once to stop gracefully (twice to abort).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewBruteForceCmd())
	cmd.AddCommand(NewFuzzCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
