package engine

import (
	"context"
	"maps"

	"github.com/nao1215/webrecon/internal/model"
)

// strategy generates the requests of one job. run must call
// Controller.checkpoint before every request and return its error
// unchanged, and must emit exactly one row per request.
type strategy interface {
	// total is the expected number of rows, or model.UnknownTotal.
	total() int

	classifier() Classifier

	run(ctx context.Context, c *Controller) error
}

// baseRequest builds the request fields shared by every strategy.
func baseRequest(method, target, userAgent, proxy string, headers, cookies map[string]string) *model.HTTPRequest {
	h := maps.Clone(headers)
	if userAgent != "" {
		if h == nil {
			h = make(map[string]string, 1)
		}
		h["User-Agent"] = userAgent
	}
	return &model.HTTPRequest{
		Method:  method,
		URL:     target,
		Headers: h,
		Cookies: maps.Clone(cookies),
		Proxy:   proxy,
	}
}

// fillResponse copies the response fields common to brute force and fuzz rows.
func fillResponse(row *model.Row, resp *model.HTTPResponse) {
	row.Status = resp.Status
	row.Length = resp.Length
	row.ComputeHash(resp.Body)
	row.SetSnippet(resp.Body)
}

// failRow marks a row as a transport failure.
func failRow(row *model.Row, err error) {
	row.Status = 0
	row.Length = 0
	row.Error = true
	row.ErrorMessage = err.Error()
}
