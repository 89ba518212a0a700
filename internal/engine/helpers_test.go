package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/webrecon/internal/model"
)

// fakeTransport records requests and answers them with handler.
type fakeTransport struct {
	mu       sync.Mutex
	handler  func(req *model.HTTPRequest) (*model.HTTPResponse, error)
	requests []*model.HTTPRequest
}

func (f *fakeTransport) Send(_ context.Context, req *model.HTTPRequest) (*model.HTTPResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	h := f.handler
	f.mu.Unlock()
	return h(req)
}

func (f *fakeTransport) Requests() []*model.HTTPRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.HTTPRequest(nil), f.requests...)
}

func (f *fakeTransport) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// statusTransport answers every request with status and body.
func statusTransport(status int, body string) *fakeTransport {
	return &fakeTransport{handler: func(req *model.HTTPRequest) (*model.HTTPResponse, error) {
		return &model.HTTPResponse{URL: req.URL, Status: status, Body: body, Length: len(body)}, nil
	}}
}

// page is one entry of a fake web site.
type page struct {
	status int
	body   string
	err    error
}

// siteTransport serves pages by exact URL and answers 404 otherwise.
func siteTransport(pages map[string]page) *fakeTransport {
	return &fakeTransport{handler: func(req *model.HTTPRequest) (*model.HTTPResponse, error) {
		p, ok := pages[req.URL]
		if !ok {
			return &model.HTTPResponse{URL: req.URL, Status: 404, Body: "not found", Length: 9}, nil
		}
		if p.err != nil {
			return nil, p.err
		}
		status := p.status
		if status == 0 {
			status = 200
		}
		return &model.HTTPResponse{URL: req.URL, Status: status, Body: p.body, Length: len(p.body)}, nil
	}}
}

// htmlPage builds a page titled title that links to every href.
func htmlPage(title string, hrefs ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><head>")
	if title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>", title)
	}
	sb.WriteString("</head><body>")
	for _, h := range hrefs {
		fmt.Fprintf(&sb, `<a href="%s">link</a>`, h)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

var errConnRefused = errors.New("connection refused")

// waitFor polls cond until it holds or two seconds pass.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func mustController(t *testing.T, tr Transport, opts ...Option) *Controller {
	t.Helper()
	c, err := NewController(tr, opts...)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	return c
}

func urls(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.URL
	}
	return out
}

func payloads(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.PayloadOrEmpty()
	}
	return out
}
