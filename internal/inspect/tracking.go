package inspect

import (
	"regexp"

	"github.com/nao1215/webrecon/internal/model"
)

// NewTrackingDetector detects analytics and advertising identifiers. The
// same ID on two sites ties them to one operator.
func NewTrackingDetector() Detector {
	return &patternDetector{
		name: "tracking",
		rules: []rule{
			{
				typ:      "google_analytics_ua",
				title:    "Google Analytics (Universal) ID",
				severity: model.SeverityInfo,
				re:       regexp.MustCompile(`\bUA-\d{4,10}-\d{1,4}\b`),
			},
			{
				typ:      "google_analytics_ga4",
				title:    "Google Analytics 4 ID",
				severity: model.SeverityInfo,
				re:       regexp.MustCompile(`['"=](G-[A-Z0-9]{8,12})\b`),
				group:    1,
			},
			{
				typ:      "google_tag_manager",
				title:    "Google Tag Manager container",
				severity: model.SeverityInfo,
				re:       regexp.MustCompile(`\bGTM-[A-Z0-9]{6,8}\b`),
			},
			{
				typ:      "google_adsense",
				title:    "Google AdSense publisher ID",
				severity: model.SeverityInfo,
				re:       regexp.MustCompile(`\bca-pub-\d{16}\b`),
			},
			{
				typ:      "meta_pixel",
				title:    "Meta Pixel ID",
				severity: model.SeverityInfo,
				re:       regexp.MustCompile(`fbq\s*\(\s*['"]init['"]\s*,\s*['"](\d{15,16})['"]`),
				group:    1,
			},
			{
				typ:      "yandex_metrica",
				title:    "Yandex Metrica counter",
				severity: model.SeverityInfo,
				re:       regexp.MustCompile(`\bym\s*\(\s*(\d{8,9})`),
				group:    1,
			},
		},
	}
}
