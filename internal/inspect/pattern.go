package inspect

import (
	"regexp"
	"strings"

	"github.com/nao1215/webrecon/internal/model"
)

// rule is one regular expression and the finding it produces. When group
// is set the value is that capture group instead of the whole match.
type rule struct {
	typ      string
	title    string
	severity model.Severity
	re       *regexp.Regexp
	group    int
	redact   bool
}

// patternDetector reports the first match of each rule in the body.
type patternDetector struct {
	name  string
	rules []rule
}

func (d *patternDetector) Name() string { return d.name }

func (d *patternDetector) Detect(resp *model.HTTPResponse) []model.Finding {
	var out []model.Finding
	for _, r := range d.rules {
		m := r.re.FindStringSubmatch(resp.Body)
		if m == nil || r.group >= len(m) {
			continue
		}
		value := strings.TrimSpace(m[r.group])
		if r.redact {
			value = redact(value)
		}
		out = append(out, model.Finding{
			Type:     r.typ,
			Title:    r.title,
			Severity: r.severity,
			Value:    value,
		})
	}
	return out
}

// redact keeps enough of a secret to recognise it. PEM blocks are reduced
// to their header line.
func redact(value string) string {
	if strings.HasPrefix(value, "-----BEGIN") {
		first, _, _ := strings.Cut(value, "\n")
		return first
	}
	const keep = 8
	if len(value) <= keep {
		return strings.Repeat("*", len(value))
	}
	return value[:keep] + "...[REDACTED]"
}
