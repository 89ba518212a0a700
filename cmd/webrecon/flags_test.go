package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/webrecon/internal/config"
)

func TestParseStatusList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []int
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "200", want: []int{200}},
		{name: "spaces and blanks", raw: " 200, ,301 ,403", want: []int{200, 301, 403}},
		{name: "not a number", raw: "200,abc", wantErr: true},
		{name: "out of range", raw: "99", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseStatusList(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if !tt.wantErr && !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	got, err := parseHeaders([]string{"X-Api-Key: secret", "Accept:text/plain", "X-Empty:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["X-Api-Key"] != "secret" || got["Accept"] != "text/plain" {
		t.Errorf("unexpected headers %v", got)
	}
	if v, ok := got["X-Empty"]; !ok || v != "" {
		t.Errorf("expected empty header value, got %q (present %v)", v, ok)
	}

	if _, err := parseHeaders([]string{"no colon"}); err == nil {
		t.Error("expected error for header without colon")
	}
	if h, err := parseHeaders(nil); h != nil || err != nil {
		t.Errorf("expected nil result for no headers, got %v %v", h, err)
	}
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	got, err := parseFields([]string{"action=login", "token=a=b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["action"] != "login" || got["token"] != "a=b" {
		t.Errorf("unexpected fields %v", got)
	}
	if _, err := parseFields([]string{"=x"}); err == nil {
		t.Error("expected error for field without a name")
	}
}

func TestResolveRequest(t *testing.T) {
	t.Parallel()

	profile := config.Profile{
		Cookie:    "session=profile; theme=dark",
		Headers:   map[string]string{"Authorization": "Bearer p", "Accept-Language": "en"},
		UserAgent: "profile-agent",
		Proxy:     "http://profile-proxy:8080",
	}

	t.Run("flags override profile entries", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.UserAgent = "flag-agent"
		got := resolveRequest(cfg, profile, map[string]string{"Authorization": "Bearer f"}, "session=flag")

		if got.UserAgent != "flag-agent" {
			t.Errorf("expected flag user agent, got %q", got.UserAgent)
		}
		if got.Proxy != "http://profile-proxy:8080" {
			t.Errorf("expected profile proxy, got %q", got.Proxy)
		}
		if got.Headers["Authorization"] != "Bearer f" || got.Headers["Accept-Language"] != "en" {
			t.Errorf("unexpected headers %v", got.Headers)
		}
		if got.Cookies["session"] != "flag" || got.Cookies["theme"] != "dark" {
			t.Errorf("unexpected cookies %v", got.Cookies)
		}
		if profile.Headers["Authorization"] != "Bearer p" {
			t.Error("profile headers were mutated")
		}
	})

	t.Run("empty profile and flags", func(t *testing.T) {
		t.Parallel()

		got := resolveRequest(config.NewConfig(), config.Profile{}, nil, "")
		if got.Headers != nil || got.Cookies != nil || got.Proxy != "" {
			t.Errorf("expected empty settings, got %+v", got)
		}
	})
}

// TestBuildConfig tests turning flags into a Config.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	emptyProfile := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "profile.yaml")
		if err := os.WriteFile(path, []byte("defaults: {}\n"), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	build := func(t *testing.T, args ...string) (*config.Config, error) {
		t.Helper()
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("parse flags: %v", err)
		}
		return buildConfig(cmd, cmd.Flags().Args())
	}

	t.Run("reads flags and target list", func(t *testing.T) {
		t.Parallel()

		list := filepath.Join(t.TempDir(), "targets.txt")
		if err := os.WriteFile(list, []byte("# staging\nhttp://b.example/\n\nhttp://c.example/\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cfg, err := build(t,
			"--config", emptyProfile(t),
			"--list", list,
			"--batch", "3",
			"--rate", "2.5",
			"--no-save",
			"--no-redirect",
			"-A", "custom",
			"http://a.example/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"http://a.example/", "http://b.example/", "http://c.example/"}
		if !slices.Equal(cfg.Targets, want) {
			t.Errorf("got targets %v, want %v", cfg.Targets, want)
		}
		if cfg.BatchSize != 3 || cfg.RateLimit != 2.5 {
			t.Errorf("unexpected batch/rate %d/%v", cfg.BatchSize, cfg.RateLimit)
		}
		if cfg.SaveToDB || cfg.FollowRedirects {
			t.Error("expected --no-save and --no-redirect to apply")
		}
		if cfg.UserAgent != "custom" {
			t.Errorf("unexpected user agent %q", cfg.UserAgent)
		}
		if cfg.Profiles == nil {
			t.Error("expected profiles to be loaded")
		}
	})

	t.Run("missing explicit profile file", func(t *testing.T) {
		t.Parallel()

		_, err := build(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "http://a.example/")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			args []string
			want error
		}{
			{name: "no target", args: nil, want: config.ErrNoTarget},
			{name: "bad scheme", args: []string{"ftp://a.example/"}, want: config.ErrInvalidTarget},
			{name: "both formats", args: []string{"--json", "--markdown", "http://a.example/"}, want: config.ErrConflictingReportFormats},
			{name: "zero batch", args: []string{"--batch", "0", "http://a.example/"}, want: config.ErrInvalidBatchSize},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				args := append([]string{"--config", emptyProfile(t)}, tt.args...)
				if _, err := build(t, args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}
