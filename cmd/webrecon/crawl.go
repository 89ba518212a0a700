package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/model"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Follow links from a start URL and map the site",
		Long: `Crawl fetches the start URL, extracts every link, script, image and form
target from the page and follows them breadth first up to --depth levels.

Each visited URL is printed with its status, title and text statistics.
The final report includes a site map built from the parent of each page.

Examples:
  # Crawl two levels deep
  webrecon crawl https://example.com

  # Stay on the start host and skip logout links
  webrecon crawl --same-host --exclude /logout,/signout https://example.com

  # Crawl several sites, three at a time, and write a Markdown report
  webrecon crawl -b 3 -m -o report.md https://a.example https://b.example`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	addCommonFlags(cmd)
	addRequestFlags(cmd)

	f := cmd.Flags()
	f.IntP("depth", "d", config.DefaultCrawlDepth, "Number of link levels followed below the start URL")
	f.IntP("limit", "p", config.DefaultPageLimit, "Maximum number of URLs visited per target")
	f.Duration("delay", 0, "Pause after each request")
	f.StringSlice("exclude", nil, "Comma separated URL substrings that are never followed")
	f.Bool("same-host", false, "Only follow links on the start URL's host")
	f.StringSlice("ignore", nil, "Glob patterns of URL paths to skip")
	f.StringSlice("follow", nil, "Only follow URL paths matching these glob patterns")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	build, err := crawlBuilder(cmd, cfg)
	if err != nil {
		return err
	}
	return runJobs(cmd, cfg, build)
}

// crawlBuilder reads the crawl flags and returns a builder that merges
// them with each target's profile. Flags the user set win over profiles.
func crawlBuilder(cmd *cobra.Command, cfg *config.Config) (jobBuilder, error) {
	f := cmd.Flags()

	depth, err := f.GetInt("depth")
	if err != nil {
		return nil, err
	}
	limit, err := f.GetInt("limit")
	if err != nil {
		return nil, err
	}
	delay, err := f.GetDuration("delay")
	if err != nil {
		return nil, err
	}
	exclude, err := f.GetStringSlice("exclude")
	if err != nil {
		return nil, err
	}
	sameHost, err := f.GetBool("same-host")
	if err != nil {
		return nil, err
	}
	ignore, err := f.GetStringSlice("ignore")
	if err != nil {
		return nil, err
	}
	follow, err := f.GetStringSlice("follow")
	if err != nil {
		return nil, err
	}
	headers, cookie, err := requestFlags(cmd)
	if err != nil {
		return nil, err
	}

	depthSet := f.Changed("depth")
	delaySet := f.Changed("delay")

	return func(target string, p config.Profile) (model.JobConfig, error) {
		req := resolveRequest(cfg, p, headers, cookie)
		c := model.CrawlConfig{
			StartURL:       target,
			Depth:          depth,
			PageLimit:      limit,
			Delay:          delay,
			UserAgent:      req.UserAgent,
			Proxy:          req.Proxy,
			Headers:        req.Headers,
			Cookies:        req.Cookies,
			Excluded:       append(trimAll(p.Exclude), trimAll(exclude)...),
			SameHostOnly:   sameHost,
			IgnorePatterns: ignore,
			FollowPatterns: follow,
			Timeout:        cfg.Timeout,
		}
		if !depthSet && p.Depth > 0 {
			c.Depth = p.Depth
		}
		if !delaySet && p.Delay > 0 {
			c.Delay = p.Delay
		}
		if len(c.IgnorePatterns) == 0 {
			c.IgnorePatterns = p.IgnorePatterns
		}
		if len(c.FollowPatterns) == 0 {
			c.FollowPatterns = p.FollowPatterns
		}
		return c, nil
	}, nil
}

// requestFlags reads --header and --cookie.
func requestFlags(cmd *cobra.Command) (map[string]string, string, error) {
	rawHeaders, err := cmd.Flags().GetStringArray("header")
	if err != nil {
		return nil, "", err
	}
	headers, err := parseHeaders(rawHeaders)
	if err != nil {
		return nil, "", err
	}
	cookie, err := cmd.Flags().GetString("cookie")
	if err != nil {
		return nil, "", err
	}
	return headers, cookie, nil
}

// trimAll trims entries and drops empty ones.
func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
