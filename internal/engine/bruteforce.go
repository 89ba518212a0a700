package engine

import (
	"context"
	"net/http"

	"github.com/nao1215/webrecon/internal/model"
)

type bruteForceStrategy struct {
	cfg model.BruteForceConfig
}

func newBruteForceStrategy(cfg model.BruteForceConfig) *bruteForceStrategy {
	return &bruteForceStrategy{cfg: cfg.WithDefaults()}
}

func (s *bruteForceStrategy) total() int { return s.cfg.Attempts() }

func (s *bruteForceStrategy) classifier() Classifier {
	return ClassifierFor(s.cfg)
}

// run requests every word once, in order, up to the attempt limit.
func (s *bruteForceStrategy) run(ctx context.Context, c *Controller) error {
	attempts := s.cfg.Attempts()
	for _, word := range s.cfg.Wordlist[:attempts] {
		if err := c.checkpoint(ctx); err != nil {
			return err
		}

		target := s.cfg.CandidateURL(word)
		req := baseRequest(http.MethodGet, target, s.cfg.UserAgent, s.cfg.Proxy, s.cfg.Headers, s.cfg.Cookies)
		req.Timeout = s.cfg.Timeout

		row := model.Row{URL: target, Payload: model.StringPtr(word)}
		resp, err := c.send(ctx, req)
		if err != nil {
			failRow(&row, err)
		} else {
			fillResponse(&row, resp)
			row.Error = isBruteForceError(resp.Status)
		}
		c.emit(row, word)
	}
	return nil
}

// isBruteForceError treats everything but 200 and 403 as a miss. A 403
// still proves the path exists.
func isBruteForceError(status int) bool {
	return status != http.StatusOK && status != http.StatusForbidden
}
