package engine

import (
	"context"
	"fmt"
	"maps"
	"net/http"

	"github.com/nao1215/webrecon/internal/model"
)

type fuzzStrategy struct {
	cfg model.FuzzConfig
}

// newFuzzStrategy applies defaults and reads the payload file when no
// payloads were given inline.
func newFuzzStrategy(cfg model.FuzzConfig, load func(string) ([]string, error)) (*fuzzStrategy, error) {
	cfg = cfg.WithDefaults()
	if len(cfg.Payloads) == 0 {
		payloads, err := load(cfg.PayloadFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
		}
		if len(payloads) == 0 {
			return nil, model.ErrNoPayloads
		}
		cfg.Payloads = payloads
	}
	return &fuzzStrategy{cfg: cfg}, nil
}

func (s *fuzzStrategy) total() int { return len(s.cfg.Payloads) * len(s.cfg.Parameters) }

func (s *fuzzStrategy) classifier() Classifier {
	return ClassifierFor(s.cfg)
}

// run sends one request per payload and parameter pair, payloads in the
// outer loop.
func (s *fuzzStrategy) run(ctx context.Context, c *Controller) error {
	for _, payload := range s.cfg.Payloads {
		for _, param := range s.cfg.Parameters {
			if err := c.checkpoint(ctx); err != nil {
				return err
			}

			row := model.Row{
				URL:       s.cfg.Target,
				Payload:   model.StringPtr(payload),
				Parameter: param,
			}
			resp, err := c.send(ctx, s.request(param, payload))
			if err != nil {
				failRow(&row, err)
			} else {
				row.URL = resp.URL
				fillResponse(&row, resp)
				row.Error = resp.Status != http.StatusOK
			}
			c.emit(row, payload)
		}
	}
	return nil
}

// request copies the body template and injects payload into param.
func (s *fuzzStrategy) request(param, payload string) *model.HTTPRequest {
	body := maps.Clone(s.cfg.BodyTemplate)
	if body == nil {
		body = make(map[string]string, 1)
	}
	body[param] = payload

	req := baseRequest(s.cfg.Method, s.cfg.Target, s.cfg.UserAgent, s.cfg.Proxy, s.cfg.Headers, s.cfg.Cookies)
	req.Timeout = s.cfg.Timeout
	if s.cfg.UsesQuery() {
		req.Query = body
	} else {
		req.Form = body
		req.Encoding = s.cfg.BodyEncoding
	}
	return req
}
