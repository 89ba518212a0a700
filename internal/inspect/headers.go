package inspect

import (
	"regexp"

	"github.com/nao1215/webrecon/internal/model"
)

// versioned matches a product token carrying a version, e.g. nginx/1.24.0.
var versioned = regexp.MustCompile(`[A-Za-z][\w.\-]*/\d+(?:\.\d+)+`)

// headerRule describes one banner header.
type headerRule struct {
	header       string
	typ          string
	title        string
	needsVersion bool
}

var headerRules = []headerRule{
	{header: "Server", typ: "server_version", title: "Server version disclosed", needsVersion: true},
	{header: "X-Powered-By", typ: "x_powered_by", title: "X-Powered-By header"},
	{header: "X-Aspnet-Version", typ: "aspnet_version", title: "ASP.NET version disclosed"},
	{header: "X-Aspnetmvc-Version", typ: "aspnet_version", title: "ASP.NET MVC version disclosed"},
	{header: "X-Generator", typ: "generator", title: "Generator header"},
	{header: "Via", typ: "via_header", title: "Proxy chain disclosed"},
}

// HeaderDetector reports response headers that disclose software versions
// or infrastructure.
type HeaderDetector struct{}

// NewHeaderDetector creates a HeaderDetector.
func NewHeaderDetector() *HeaderDetector {
	return &HeaderDetector{}
}

// Name implements Detector.
func (d *HeaderDetector) Name() string { return "headers" }

// Detect implements Detector.
func (d *HeaderDetector) Detect(resp *model.HTTPResponse) []model.Finding {
	var out []model.Finding
	for _, r := range headerRules {
		value := resp.Headers[r.header]
		if value == "" {
			continue
		}
		if r.needsVersion && !versioned.MatchString(value) {
			continue
		}
		out = append(out, model.Finding{
			Type:     r.typ,
			Title:    r.title,
			Severity: model.SeverityLow,
			Value:    value,
		})
	}
	return out
}
