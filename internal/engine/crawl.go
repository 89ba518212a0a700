package engine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nao1215/webrecon/internal/crawler"
	"github.com/nao1215/webrecon/internal/model"
)

// untitled is the title of pages without a <title>.
const untitled = "Untitled"

// crawlItem is one pending visit on the crawl worklist.
type crawlItem struct {
	url            string
	depthRemaining int
	parent         *string
}

type crawlStrategy struct {
	cfg       model.CrawlConfig
	extractor Extractor
	paths     crawler.PathFilter
}

func newCrawlStrategy(cfg model.CrawlConfig, extractor Extractor) *crawlStrategy {
	return &crawlStrategy{
		cfg:       cfg,
		extractor: extractor,
		paths:     crawler.PathFilter{Ignore: cfg.IgnorePatterns, Follow: cfg.FollowPatterns},
	}
}

func (s *crawlStrategy) total() int { return model.UnknownTotal }

// classifier retains every crawl row.
func (s *crawlStrategy) classifier() Classifier { return Classifier{} }

// run visits pages depth first. The worklist is a stack whose children are
// pushed in reverse so pages are fetched in the same pre-order a recursive
// traversal would produce. Every pop is a checkpoint, which covers both the
// request and the descent into a discovered URL.
func (s *crawlStrategy) run(ctx context.Context, c *Controller) error {
	visited := make(map[string]struct{})
	stack := []crawlItem{{url: s.cfg.StartURL, depthRemaining: s.cfg.Depth}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := c.checkpoint(ctx); err != nil {
			return err
		}

		if _, seen := visited[item.url]; seen {
			continue
		}
		if item.depthRemaining < 0 || len(visited) >= s.cfg.PageLimit {
			continue
		}
		visited[item.url] = struct{}{}

		children, err := s.visit(ctx, c, item)
		if err != nil {
			return err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

// visit fetches one page, emits its row and returns the pages to descend into.
func (s *crawlStrategy) visit(ctx context.Context, c *Controller, item crawlItem) ([]crawlItem, error) {
	req := baseRequest(http.MethodGet, item.url, s.cfg.UserAgent, s.cfg.Proxy, s.cfg.Headers, s.cfg.Cookies)
	req.Timeout = s.cfg.Timeout

	resp, err := c.send(ctx, req)
	c.sleep(ctx, s.cfg.Delay)

	row := model.Row{
		URL:            item.url,
		ParentURL:      item.parent,
		DepthRemaining: model.IntPtr(item.depthRemaining),
	}
	if err != nil {
		failRow(&row, err)
		c.emit(row, item.url)
		return nil, nil
	}

	summary, err := s.extractor.Extract(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", item.url, err)
	}

	row.Title = summary.Title
	if row.Title == "" {
		row.Title = untitled
	}
	row.Status = resp.Status
	row.WordCount = summary.WordCount
	row.CharCount = summary.CharCount
	row.LinksFound = summary.LinkCount
	row.Length = resp.Length
	row.ComputeHash(resp.Body)
	c.emit(row, item.url)

	return s.children(item, summary.URLs), nil
}

// children resolves the extracted URLs of a page against the page URL and
// drops excluded ones.
func (s *crawlStrategy) children(parent crawlItem, raw []string) []crawlItem {
	parentURL := parent.url
	out := make([]crawlItem, 0, len(raw))
	for _, link := range raw {
		if s.cfg.IsExcluded(link) {
			continue
		}
		resolved, err := crawler.Resolve(parentURL, link)
		if err != nil || !crawler.IsFetchable(resolved) {
			continue
		}
		if s.cfg.IsExcluded(resolved) || !s.paths.Allows(resolved) {
			continue
		}
		if s.cfg.SameHostOnly && !crawler.SameHost(s.cfg.StartURL, resolved) {
			continue
		}
		out = append(out, crawlItem{
			url:            resolved,
			depthRemaining: parent.depthRemaining - 1,
			parent:         &parentURL,
		})
	}
	return out
}
