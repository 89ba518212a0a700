package inspect

import (
	"regexp"

	"github.com/nao1215/webrecon/internal/model"
)

// NewExposureDetector detects API documentation, debug pages and other
// content that should not be public.
func NewExposureDetector() Detector {
	return &patternDetector{
		name: "exposure",
		rules: []rule{
			{
				typ:      "swagger_ui",
				title:    "Swagger UI exposed",
				severity: model.SeverityHigh,
				re:       regexp.MustCompile(`(?i)swagger-ui(?:-bundle)?\.(?:js|css)|id="swagger-ui"`),
			},
			{
				typ:      "openapi_spec",
				title:    "OpenAPI specification exposed",
				severity: model.SeverityHigh,
				re:       regexp.MustCompile(`"openapi"\s*:\s*"[23]\.\d+\.\d+"|"swagger"\s*:\s*"2\.0"`),
			},
			{
				typ:      "graphql_introspection",
				title:    "GraphQL introspection enabled",
				severity: model.SeverityHigh,
				re:       regexp.MustCompile(`"__schema"\s*:|IntrospectionQuery`),
			},
			{
				typ:      "flask_debugger",
				title:    "Werkzeug debugger exposed",
				severity: model.SeverityCritical,
				re:       regexp.MustCompile(`(?i)werkzeug debugger|The debugger caught an exception`),
			},
			{
				typ:      "django_debug",
				title:    "Django debug page",
				severity: model.SeverityHigh,
				re:       regexp.MustCompile(`You're seeing this error because you have <code>DEBUG = True</code>|django-debug-toolbar`),
			},
			{
				typ:      "laravel_debug",
				title:    "Laravel debug page",
				severity: model.SeverityHigh,
				re:       regexp.MustCompile(`(?i)ignition-error|Whoops! There was an error`),
			},
			{
				typ:      "phpinfo",
				title:    "phpinfo() output exposed",
				severity: model.SeverityHigh,
				re:       regexp.MustCompile(`<title>PHP \d+\.\d+[^<]*phpinfo\(\)</title>|<title>phpinfo\(\)</title>`),
			},
			{
				typ:      "directory_listing",
				title:    "Directory listing enabled",
				severity: model.SeverityMedium,
				re:       regexp.MustCompile(`<title>Index of (/[^<]*)</title>`),
				group:    1,
			},
			{
				typ:      "apache_server_status",
				title:    "Apache server-status exposed",
				severity: model.SeverityHigh,
				re:       regexp.MustCompile(`<h1>Apache Server Status for`),
			},
			{
				typ:      "env_file",
				title:    "Environment file contents exposed",
				severity: model.SeverityCritical,
				re:       regexp.MustCompile(`(?m)^(?:APP_KEY|DB_PASSWORD|SECRET_KEY|AWS_SECRET_ACCESS_KEY)=\S+`),
				redact:   true,
			},
		},
	}
}
