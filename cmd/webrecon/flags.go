package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/wordlist"
)

// addCommonFlags registers the flags shared by crawl, bruteforce and fuzz.
func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each request")
	f.Float64P("rate", "r", 0, "Maximum requests per second across all jobs (0 = unlimited)")
	f.IntP("batch", "b", config.DefaultBatchSize, "Number of targets scanned concurrently")
	f.StringP("list", "l", "", "Read additional targets from a file (one URL per line)")

	f.StringP("user-agent", "A", "", "User-Agent header (default: profile value or "+config.DefaultUserAgent+")")
	f.StringP("proxy", "x", "", "Proxy URL (http, https or socks5)")
	f.Bool("tor", false, "Start an embedded Tor daemon and route requests through it")
	f.Duration("tor-timeout", config.DefaultTorStartupTimeout, "Timeout for the embedded Tor bootstrap")
	f.BoolP("insecure", "k", false, "Skip TLS certificate verification")
	f.Bool("no-redirect", false, "Do not follow redirects")
	f.Int64("max-body", config.DefaultMaxBodySize, "Maximum response body bytes read per request")

	f.StringP("config", "c", "", "Profile file path (default: .webrecon in current or home directory)")

	f.BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	f.BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	f.StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")

	f.Bool("no-inspect", false, "Do not look for secrets, exposed tooling and banners in responses")
	f.String("min-severity", config.DefaultMinSeverity, "Lowest finding severity reported (info, low, medium, high, critical)")

	f.Bool("no-save", false, "Do not store finished jobs in the database")
	f.String("db-dir", config.XDGDataDir(), "Directory holding the job database")
	f.BoolP("quiet", "q", false, "Do not stream rows or show a progress bar")
	f.Bool("no-color", false, "Disable colored output")
}

// addFilterFlags registers the retention filter flags of bruteforce and fuzz.
func addFilterFlags(cmd *cobra.Command, defaultStatus string) {
	f := cmd.Flags()
	f.StringP("status", "s", "", "Comma separated status codes to keep (default: "+defaultStatus+")")
	f.String("hide-status", "", "Comma separated status codes to drop")
	f.Int("min-length", 0, "Minimum response body length to keep")
}

// addRequestFlags registers the header and cookie flags.
func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayP("header", "H", nil, "Extra request header as 'Name: value' (repeatable)")
	f.String("cookie", "", "Cookie header as 'a=1; b=2'")
}

// buildConfig creates a Config from the shared flags, the positional
// targets and the profile file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	f := cmd.Flags()

	var err error
	if cfg.Timeout, err = f.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = f.GetFloat64("rate"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = f.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = f.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = f.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = f.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.InsecureTLS, err = f.GetBool("insecure"); err != nil {
		return nil, err
	}
	noRedirect, err := f.GetBool("no-redirect")
	if err != nil {
		return nil, err
	}
	cfg.FollowRedirects = !noRedirect
	if cfg.MaxBodySize, err = f.GetInt64("max-body"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = f.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = f.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = f.GetString("output"); err != nil {
		return nil, err
	}
	noInspect, err := f.GetBool("no-inspect")
	if err != nil {
		return nil, err
	}
	cfg.Inspect = !noInspect
	if cfg.MinSeverity, err = f.GetString("min-severity"); err != nil {
		return nil, err
	}
	noSave, err := f.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	if cfg.DBDir, err = f.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.Quiet, err = f.GetBool("quiet"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = f.GetBool("no-color"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Empty means the profile or DefaultUserAgent decides per target.
	if cfg.UserAgent, err = f.GetString("user-agent"); err != nil {
		return nil, err
	}

	cfg.Targets = append(cfg.Targets, args...)
	listFile, err := f.GetString("list")
	if err != nil {
		return nil, err
	}
	if listFile != "" {
		targets, err := wordlist.Load(listFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read target list: %w", err)
		}
		cfg.Targets = append(cfg.Targets, targets...)
	}

	if cfg.ConfigFilePath, err = f.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Profiles, err = loadProfiles(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// loadProfiles loads the profile file. A missing file is an error only
// when its path was given explicitly.
func loadProfiles(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return &config.File{Targets: map[string]config.Profile{}}, nil
	}
	profiles, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile file %s: %w", path, err)
	}
	return profiles, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// parseStatusList parses "200,301, 403" into status codes.
func parseStatusList(raw string) ([]int, error) {
	var codes []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil || code < 100 || code > 599 {
			return nil, fmt.Errorf("invalid status code %q", part)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// parseHeaders parses "Name: value" pairs into a map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (expected 'Name: value')", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
