package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
)

//go:embed templates/webrecon.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a webrecon profile file",
		Long: `Init writes a commented .webrecon profile file to the current directory.

Profiles hold per-host settings that every command applies when it scans
that host: cookies, headers, user agent, proxy and crawl scope.

Examples:
  # Create .webrecon in the current directory
  webrecon init

  # Create the profile file at a specific path
  webrecon init -o ~/.config/webrecon/config.yaml

  # Overwrite an existing file
  webrecon init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Output file path for the profile file")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("profile file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/webrecon.yaml")
	if err != nil {
		return fmt.Errorf("failed to read profile template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created profile file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure per-host settings such as:")
	fmt.Fprintln(out, "  - Authentication cookies and headers")
	fmt.Fprintln(out, "  - Proxy and user agent")
	fmt.Fprintln(out, "  - Crawl depth, delay and URL patterns")
	return nil
}
