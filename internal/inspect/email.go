package inspect

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/nao1215/webrecon/internal/model"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// freeMailDomains identify less than an address on a personal or company
// domain, so they are reported with a lower severity.
var freeMailDomains = []string{
	"aol.com", "gmail.com", "hotmail.com", "icloud.com", "mail.com",
	"outlook.com", "proton.me", "protonmail.com", "tutanota.com",
	"yahoo.com", "yandex.com",
}

// Asset names such as logo@2x.png look like addresses.
var assetExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"}

// EmailDetector reports every distinct address in a body.
type EmailDetector struct {
	limit int
}

// NewEmailDetector creates a detector reporting at most 50 addresses per
// response.
func NewEmailDetector() *EmailDetector {
	return &EmailDetector{limit: 50}
}

// Name implements Detector.
func (d *EmailDetector) Name() string { return "email" }

// Detect implements Detector.
func (d *EmailDetector) Detect(resp *model.HTTPResponse) []model.Finding {
	var out []model.Finding
	seen := make(map[string]struct{})
	for _, match := range emailPattern.FindAllString(resp.Body, -1) {
		addr := strings.ToLower(strings.Trim(match, "."))
		if _, dup := seen[addr]; dup {
			continue
		}
		if slices.Contains(assetExtensions, path.Ext(addr)) {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, model.Finding{
			Type:     "email_address",
			Title:    "Email address",
			Severity: emailSeverity(addr),
			Value:    addr,
		})
		if len(out) == d.limit {
			break
		}
	}
	return out
}

func emailSeverity(addr string) model.Severity {
	_, domain, _ := strings.Cut(addr, "@")
	if slices.Contains(freeMailDomains, domain) {
		return model.SeverityLow
	}
	return model.SeverityMedium
}
