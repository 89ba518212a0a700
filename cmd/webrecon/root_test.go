package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "webrecon" {
			t.Errorf("expected use 'webrecon', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{
			"crawl":      false,
			"bruteforce": false,
			"fuzz":       false,
			"history":    false,
			"compare":    false,
			"init":       false,
			"version":    false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestScanCommandFlags tests that every scan command carries the shared flags.
func TestScanCommandFlags(t *testing.T) {
	t.Parallel()

	shared := []string{
		"timeout", "rate", "batch", "list", "user-agent", "proxy", "insecure",
		"config", "json", "markdown", "output", "no-save", "db-dir", "quiet",
		"no-color", "header", "cookie", "tor", "tor-timeout", "no-inspect", "min-severity",
	}

	cmds := map[string]func() []string{
		"crawl":      func() []string { return []string{"depth", "limit", "delay", "exclude", "same-host"} },
		"bruteforce": func() []string { return []string{"wordlist", "top-dir", "status", "hide-status", "min-length", "limit"} },
		"fuzz":       func() []string { return []string{"method", "param", "payload", "payload-file", "body", "json-body", "status"} },
	}

	root := NewRootCmd()
	for name, extra := range cmds {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sub, _, err := root.Find([]string{name})
			if err != nil {
				t.Fatalf("find %s: %v", name, err)
			}
			for _, flag := range append(shared, extra()...) {
				if sub.Flags().Lookup(flag) == nil {
					t.Errorf("%s: expected --%s flag", name, flag)
				}
			}
		})
	}
}
