package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/model"
	"github.com/nao1215/webrecon/internal/wordlist"
)

// NewFuzzCmd creates the fuzz command.
func NewFuzzCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzz [url...]",
		Short: "Inject payloads into request parameters",
		Long: `Fuzz sends one request per payload and parameter pair. GET, HEAD and
DELETE requests carry the parameter in the query string; other methods send
it in a form or JSON body together with the --body fields.

Responses with identical bodies are grouped in the report, which makes the
payloads that change the server's behavior stand out.

Examples:
  # Fuzz the q parameter with the built-in payloads
  webrecon fuzz --param q https://example.com/search

  # POST a JSON body with a fixed field and two fuzzed ones
  webrecon fuzz -X POST --json-body --body action=login \
    --param user --param password --payload-file payloads.txt https://example.com/api

  # Keep only 500 responses longer than 100 bytes
  webrecon fuzz --param id -s 500 --min-length 100 https://example.com/item`,
		Args: cobra.ArbitraryArgs,
		RunE: runFuzzCmd,
	}

	addCommonFlags(cmd)
	addRequestFlags(cmd)
	addFilterFlags(cmd, "200,403,500")

	f := cmd.Flags()
	f.StringP("method", "X", http.MethodGet, "HTTP method")
	f.StringSliceP("param", "P", nil, "Parameter names to inject payloads into (required)")
	f.StringArray("payload", nil, "Payload value (repeatable)")
	f.String("payload-file", "", "File with one payload per line (default: built-in payloads)")
	f.StringArray("body", nil, "Extra body or query field as 'name=value' (repeatable)")
	f.Bool("json-body", false, "Send the body as JSON instead of a form")

	return cmd
}

func runFuzzCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	build, err := fuzzBuilder(cmd, cfg)
	if err != nil {
		return err
	}
	return runJobs(cmd, cfg, build)
}

// fuzzBuilder resolves the payloads once and returns a builder sharing
// them between targets.
func fuzzBuilder(cmd *cobra.Command, cfg *config.Config) (jobBuilder, error) {
	f := cmd.Flags()

	method, err := f.GetString("method")
	if err != nil {
		return nil, err
	}
	params, err := f.GetStringSlice("param")
	if err != nil {
		return nil, err
	}
	params = trimAll(params)
	if len(params) == 0 {
		return nil, fmt.Errorf("--param: %w", model.ErrNoParameters)
	}

	payloads, err := f.GetStringArray("payload")
	if err != nil {
		return nil, err
	}
	payloadFile, err := f.GetString("payload-file")
	if err != nil {
		return nil, err
	}
	switch {
	case len(payloads) > 0:
	case payloadFile != "":
		if payloads, err = wordlist.LoadPayloads(payloadFile); err != nil {
			return nil, fmt.Errorf("failed to load payloads: %w", err)
		}
	default:
		payloads = wordlist.DefaultPayloads()
	}

	rawBody, err := f.GetStringArray("body")
	if err != nil {
		return nil, err
	}
	body, err := parseFields(rawBody)
	if err != nil {
		return nil, err
	}
	jsonBody, err := f.GetBool("json-body")
	if err != nil {
		return nil, err
	}
	encoding := model.BodyForm
	if jsonBody {
		encoding = model.BodyJSON
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
		return model.FuzzConfig{
			Target:       target,
			Method:       method,
			Parameters:   params,
			Payloads:     payloads,
			BodyTemplate: body,
			BodyEncoding: encoding,
			AllowStatus:  filter.allow,
			DenyStatus:   filter.deny,
			MinLength:    filter.minLength,
			UserAgent:    req.UserAgent,
			Proxy:        req.Proxy,
			Headers:      req.Headers,
			Cookies:      req.Cookies,
			Timeout:      cfg.Timeout,
		}, nil
	}, nil
}

// parseFields parses "name=value" pairs.
func parseFields(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	fields := make(map[string]string, len(raw))
	for _, field := range raw {
		name, value, ok := strings.Cut(field, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid body field %q (expected 'name=value')", field)
		}
		fields[strings.TrimSpace(name)] = value
	}
	return fields, nil
}
