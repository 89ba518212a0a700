package engine

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/webrecon/internal/model"
)

func crawlConfig(depth int) model.CrawlConfig {
	return model.CrawlConfig{StartURL: "http://x/", Depth: depth, PageLimit: 100}
}

func runCrawl(t *testing.T, tr Transport, cfg model.CrawlConfig) []model.Row {
	t.Helper()
	c := mustController(t, tr)
	if err := c.Configure(cfg); err != nil {
		t.Fatalf("failed to configure: %v", err)
	}
	rows, err := c.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != model.StateCompleted {
		t.Fatalf("expected completed, got %s", c.State())
	}
	return rows
}

func TestCrawlStrategy(t *testing.T) {
	t.Parallel()

	t.Run("example scenario", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/":       {body: htmlPage("Home", "/a", "/b", "/account/logout")},
			"http://x/a":      {body: htmlPage("A")},
			"http://x/b":      {body: htmlPage("B")},
			"http://x/logout": {body: htmlPage("Bye")},
		})
		cfg := crawlConfig(1)
		cfg.Excluded = []string{"logout"}
		rows := runCrawl(t, site, cfg)

		want := []string{"http://x/", "http://x/a", "http://x/b"}
		if !slices.Equal(urls(rows), want) {
			t.Fatalf("expected %v, got %v", want, urls(rows))
		}
		for _, r := range rows[1:] {
			if r.DepthRemaining == nil || *r.DepthRemaining != 0 {
				t.Errorf("expected depth 0 for %s, got %v", r.URL, r.DepthRemaining)
			}
			if r.ParentOrEmpty() != "http://x/" {
				t.Errorf("expected parent http://x/ for %s, got %q", r.URL, r.ParentOrEmpty())
			}
		}
		if rows[0].ParentURL != nil || *rows[0].DepthRemaining != 1 {
			t.Errorf("unexpected root row %+v", rows[0])
		}
		for _, r := range rows {
			if strings.Contains(r.URL, "logout") {
				t.Errorf("excluded url %s was fetched", r.URL)
			}
		}
	})

	t.Run("depth zero fetches only the start page", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{"http://x/": {body: htmlPage("Home", "/a")}})
		rows := runCrawl(t, site, crawlConfig(0))
		if len(rows) != 1 || site.Count() != 1 {
			t.Errorf("expected a single fetch, got %d rows and %d requests", len(rows), site.Count())
		}
	})

	t.Run("depth first pre-order", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/":   {body: htmlPage("Home", "/a", "/b")},
			"http://x/a":  {body: htmlPage("A", "/a1", "/a2")},
			"http://x/a1": {body: htmlPage("A1", "/deep")},
			"http://x/a2": {body: htmlPage("A2")},
			"http://x/b":  {body: htmlPage("B", "/b1")},
			"http://x/b1": {body: htmlPage("B1")},
		})
		rows := runCrawl(t, site, crawlConfig(2))

		want := []string{"http://x/", "http://x/a", "http://x/a1", "http://x/a2", "http://x/b", "http://x/b1"}
		if !slices.Equal(urls(rows), want) {
			t.Errorf("expected %v, got %v", want, urls(rows))
		}
		for _, r := range rows {
			depth := *r.DepthRemaining
			if depth < 0 {
				t.Errorf("fetched %s with negative depth", r.URL)
			}
			if r.ParentURL != nil {
				parent := rows[slices.Index(urls(rows), *r.ParentURL)]
				if *parent.DepthRemaining != depth+1 {
					t.Errorf("%s: depth %d under parent depth %d", r.URL, depth, *parent.DepthRemaining)
				}
			}
		}
	})

	t.Run("every url is fetched once", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/":  {body: htmlPage("Home", "/a", "/b")},
			"http://x/a": {body: htmlPage("A", "/", "/b")},
			"http://x/b": {body: htmlPage("B", "/a", "/")},
		})
		rows := runCrawl(t, site, crawlConfig(5))

		if len(rows) != 3 || site.Count() != 3 {
			t.Errorf("expected 3 unique fetches, got %d rows and %d requests", len(rows), site.Count())
		}
		seen := make(map[string]bool)
		for _, r := range rows {
			if seen[r.URL] {
				t.Errorf("url %s emitted twice", r.URL)
			}
			seen[r.URL] = true
		}
		// /b is first reached from /a, not from the start page.
		if rows[2].URL != "http://x/b" || rows[2].ParentOrEmpty() != "http://x/a" {
			t.Errorf("unexpected third row %+v", rows[2])
		}
	})

	t.Run("page limit", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/": {body: htmlPage("Home", "/a", "/b", "/c")},
		})
		cfg := crawlConfig(1)
		cfg.PageLimit = 2
		rows := runCrawl(t, site, cfg)
		if len(rows) != 2 || site.Count() != 2 {
			t.Errorf("expected 2 fetches, got %d rows and %d requests", len(rows), site.Count())
		}
	})

	t.Run("failed fetch emits error row and does not recurse", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/":  {body: htmlPage("Home", "/a", "/b")},
			"http://x/a": {err: errConnRefused},
			"http://x/b": {body: htmlPage("B")},
		})
		rows := runCrawl(t, site, crawlConfig(2))
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %v", urls(rows))
		}
		failed := rows[1]
		if !failed.Error || failed.Status != 0 || failed.Title != "" || failed.WordCount != 0 || failed.LinksFound != 0 {
			t.Errorf("unexpected failure row %+v", failed)
		}
		if rows[2].Error {
			t.Errorf("unexpected error on %s", rows[2].URL)
		}
	})

	t.Run("row metadata", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/": {body: `<html><body><p>alpha beta</p><a href="/x">gamma</a></body></html>`},
		})
		rows := runCrawl(t, site, crawlConfig(0))
		r := rows[0]
		if r.Title != "Untitled" {
			t.Errorf("expected Untitled, got %q", r.Title)
		}
		if r.WordCount != 2 || r.LinksFound != 1 || r.Status != 200 {
			t.Errorf("unexpected metadata %+v", r)
		}
		if r.Payload != nil {
			t.Errorf("crawl rows carry no payload, got %q", *r.Payload)
		}
	})

	t.Run("relative urls resolve against the current page", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/dir/":     {body: htmlPage("Dir", "page")},
			"http://x/dir/page": {body: htmlPage("Page", "sub/leaf")},
		})
		cfg := crawlConfig(3)
		cfg.StartURL = "http://x/dir/"
		rows := runCrawl(t, site, cfg)
		want := []string{"http://x/dir/", "http://x/dir/page", "http://x/dir/sub/leaf"}
		if !slices.Equal(urls(rows), want) {
			t.Errorf("expected %v, got %v", want, urls(rows))
		}
	})

	t.Run("scope options", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{
			"http://x/": {body: htmlPage("Home", "http://other.example/", "javascript:void(0)", "/doc.pdf", "/blog/post", "/shop")},
		})
		cfg := crawlConfig(1)
		cfg.SameHostOnly = true
		cfg.IgnorePatterns = []string{"*.pdf"}
		cfg.FollowPatterns = []string{"/blog/*"}
		rows := runCrawl(t, site, cfg)
		want := []string{"http://x/", "http://x/blog/post"}
		if !slices.Equal(urls(rows), want) {
			t.Errorf("expected %v, got %v", want, urls(rows))
		}
	})

	t.Run("request carries user agent and proxy", func(t *testing.T) {
		t.Parallel()

		site := siteTransport(map[string]page{"http://x/": {body: htmlPage("Home")}})
		cfg := crawlConfig(0)
		cfg.UserAgent = "crawler/1"
		cfg.Proxy = "http://127.0.0.1:8080"
		runCrawl(t, site, cfg)
		req := site.Requests()[0]
		if req.Headers["User-Agent"] != "crawler/1" || req.Proxy != "http://127.0.0.1:8080" || req.Method != "GET" {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("stop cuts the delay short", func(t *testing.T) {
		t.Parallel()

		fetched := make(chan struct{}, 10)
		site := siteTransport(map[string]page{
			"http://x/":  {body: htmlPage("Home", "/a")},
			"http://x/a": {body: htmlPage("A")},
		})
		inner := site.handler
		site.handler = func(req *model.HTTPRequest) (*model.HTTPResponse, error) {
			fetched <- struct{}{}
			return inner(req)
		}

		c := mustController(t, site)
		cfg := crawlConfig(1)
		cfg.Delay = time.Minute
		if err := c.Configure(cfg); err != nil {
			t.Fatal(err)
		}

		done := make(chan []model.Row)
		go func() {
			rows, _ := c.Start(context.Background())
			done <- rows
		}()

		<-fetched
		c.Stop()

		select {
		case rows := <-done:
			if len(rows) != 1 {
				t.Errorf("expected the fetched page to be emitted, got %d rows", len(rows))
			}
		case <-time.After(5 * time.Second):
			t.Fatal("stop did not interrupt the delay")
		}
		if c.State() != model.StateStopped {
			t.Errorf("expected stopped, got %s", c.State())
		}
	})

	t.Run("progress total is unknown", func(t *testing.T) {
		t.Parallel()

		var got []model.Progress
		site := siteTransport(map[string]page{"http://x/": {body: htmlPage("Home")}})
		c := mustController(t, site, WithProgressHandler(func(p model.Progress) { got = append(got, p) }))
		if err := c.Configure(crawlConfig(0)); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Total != model.UnknownTotal || got[0].Current != "http://x/" {
			t.Errorf("unexpected progress %+v", got)
		}
	})
}
