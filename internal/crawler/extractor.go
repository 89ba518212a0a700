package crawler

import (
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/nao1215/webrecon/internal/model"
)

// urlAttributes maps element names to the attribute holding an outbound URL.
var urlAttributes = map[string]string{
	"a":      "href",
	"link":   "href",
	"script": "src",
	"img":    "src",
	"form":   "action",
}

// Extractor pulls page metadata and outbound URLs out of HTML.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses markup and summarizes it. URLs are returned raw, without
// resolution against the page URL, so that exclusion rules can match the
// text as written in the document.
func (e *Extractor) Extract(markup string) (model.PageSummary, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return model.PageSummary{}, err
	}

	var (
		summary model.PageSummary
		text    strings.Builder
		seen    = make(map[string]struct{})
		titled  bool
	)

	var walk func(n *html.Node, skipText bool)
	walk = func(n *html.Node, skipText bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "title":
				if !titled {
					titled = true
					summary.Title = strings.TrimSpace(nodeText(n))
				}
			case "a":
				summary.LinkCount++
			case "script", "style":
				skipText = true
			}
			if raw, ok := outboundURL(n); ok {
				seen[raw] = struct{}{}
			}
		case html.TextNode:
			if !skipText {
				text.WriteString(n.Data)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, skipText)
		}
	}
	walk(doc, false)

	content := text.String()
	summary.WordCount = len(strings.Fields(content))
	summary.CharCount = utf8.RuneCountInString(content)

	summary.URLs = make([]string, 0, len(seen))
	for raw := range seen {
		summary.URLs = append(summary.URLs, raw)
	}
	sort.Strings(summary.URLs)

	return summary, nil
}

// outboundURL returns the URL-bearing attribute of n, skipping mail links
// and same-page fragments on anchors.
func outboundURL(n *html.Node) (string, bool) {
	key, ok := urlAttributes[n.Data]
	if !ok {
		return "", false
	}
	val, ok := getAttr(n, key)
	if !ok || val == "" {
		return "", false
	}
	if n.Data == "a" && (strings.HasPrefix(val, "mailto:") || strings.HasPrefix(val, "#")) {
		return "", false
	}
	return val, true
}

// nodeText concatenates the text nodes below n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// Resolve joins a raw extracted URL with the URL of the page it was found on.
func Resolve(base, raw string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// SameHost reports whether link points at the same host as base.
func SameHost(base, link string) bool {
	b, err := url.Parse(base)
	if err != nil {
		return false
	}
	l, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(b.Host, l.Host)
}

// IsFetchable reports whether a resolved URL uses a scheme the transport can request.
func IsFetchable(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
