// Package main provides the entry point for the ContactFinder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ContactFinder.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contactfinder",
		Short: "Contact information crawler for member directory sites",
		Long: `ContactFinder discovers member sites from a directory page and extracts
contact information (email addresses and phone numbers) from each site.

It fetches every site's home page, follows a bounded number of likely
contact pages (matched by keywords such as "kontakt" or "about"), decodes
common email obfuscations like "info at example dot com", and writes the
collected contacts to a CSV file.

Crawling is strictly sequential with a politeness delay between requests.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
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
