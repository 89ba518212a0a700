package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/model"
	"github.com/nao1215/webrecon/internal/wordlist"
)

// NewBruteForceCmd creates the bruteforce command.
func NewBruteForceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bruteforce [url...]",
		Aliases: []string{"brute", "dir"},
		Short:   "Find hidden paths by requesting wordlist entries",
		Long: `Bruteforce requests <url>/<word> for every word of the wordlist and keeps
the responses that pass the status and length filters.

Without --wordlist the built-in list of common paths is used. By default
only 200 responses are kept.

Examples:
  # Use the built-in wordlist
  webrecon bruteforce https://example.com

  # Custom wordlist below /api, keep 200 and 301
  webrecon bruteforce -w words.txt --top-dir api -s 200,301 https://example.com

  # Try only the first 500 words and drop empty pages
  webrecon bruteforce --limit 500 --min-length 1 https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runBruteForceCmd,
	}

	addCommonFlags(cmd)
	addRequestFlags(cmd)
	addFilterFlags(cmd, "200")

	f := cmd.Flags()
	f.StringP("wordlist", "w", "", "Wordlist file (default: built-in common paths)")
	f.String("top-dir", "", "Directory inserted between the URL and each word")
	f.Int("limit", 0, "Maximum number of words tried per target (0 = all)")

	return cmd
}

func runBruteForceCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	build, err := bruteForceBuilder(cmd, cfg)
	if err != nil {
		return err
	}
	return runJobs(cmd, cfg, build)
}

// bruteForceBuilder loads the wordlist once and returns a builder sharing
// it between targets.
func bruteForceBuilder(cmd *cobra.Command, cfg *config.Config) (jobBuilder, error) {
	f := cmd.Flags()

	path, err := f.GetString("wordlist")
	if err != nil {
		return nil, err
	}
	words := wordlist.Default()
	if path != "" {
		if words, err = wordlist.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load wordlist: %w", err)
		}
	}

	topDir, err := f.GetString("top-dir")
	if err != nil {
		return nil, err
	}
	limit, err := f.GetInt("limit")
	if err != nil {
		return nil, err
	}
	filter, err := filterFlags(cmd)
	if err != nil {
		return nil, err
	}
	headers, cookie, err := requestFlags(cmd)
	if err != nil {
		return nil, err
	}

	return func(target string, p config.Profile) (model.JobConfig, error) {
		req := resolveRequest(cfg, p, headers, cookie)
		return model.BruteForceConfig{
			Target:       target,
			Wordlist:     words,
			TopDir:       topDir,
			AllowStatus:  filter.allow,
			DenyStatus:   filter.deny,
			MinLength:    filter.minLength,
			AttemptLimit: limit,
			UserAgent:    req.UserAgent,
			Proxy:        req.Proxy,
			Headers:      req.Headers,
			Cookies:      req.Cookies,
			Timeout:      cfg.Timeout,
		}, nil
	}, nil
}

// statusFilter holds the parsed retention filter flags.
type statusFilter struct {
	allow     []int
	deny      []int
	minLength int
}

func filterFlags(cmd *cobra.Command) (statusFilter, error) {
	var sf statusFilter
	f := cmd.Flags()

	raw, err := f.GetString("status")
	if err != nil {
		return sf, err
	}
	if sf.allow, err = parseStatusList(raw); err != nil {
		return sf, fmt.Errorf("--status: %w", err)
	}
	if raw, err = f.GetString("hide-status"); err != nil {
		return sf, err
	}
	if sf.deny, err = parseStatusList(raw); err != nil {
		return sf, fmt.Errorf("--hide-status: %w", err)
	}
	if sf.minLength, err = f.GetInt("min-length"); err != nil {
		return sf, err
	}
	if sf.minLength < 0 {
		return sf, errors.New("--min-length must not be negative")
	}
	return sf, nil
}
