package model

import "time"

// BodyEncoding selects how HTTPRequest.Form is sent.
type BodyEncoding string

const (
	// BodyForm sends application/x-www-form-urlencoded.
	BodyForm BodyEncoding = "form"
	// BodyJSON sends an application/json object of string values.
	BodyJSON BodyEncoding = "json"
)

// HTTPRequest is a transport-neutral description of one request.
type HTTPRequest struct {
	Method string
	URL    string

	// Headers are set verbatim on the request.
	Headers map[string]string

	// Cookies are sent as a Cookie header.
	Cookies map[string]string

	// Query is merged into the URL query string.
	Query map[string]string

	// Form is sent as the request body using Encoding.
	Form     map[string]string
	Encoding BodyEncoding

	// Proxy is an optional proxy URL (http, https or socks5).
	Proxy string

	// Timeout overrides the transport's default per-request timeout.
	Timeout time.Duration
}

// HTTPResponse is what a transport returns for any HTTP status.
type HTTPResponse struct {
	// URL is the final request URL, including any query string.
	URL string

	Status int

	// ContentType is the response Content-Type header.
	ContentType string

	// Headers holds the first value of each response header, keyed by
	// canonical header name.
	Headers map[string]string

	// Body is the decoded response body.
	Body string

	// Length is the number of raw body bytes read.
	Length int
}

// PageSummary is the content extracted from one HTML page.
type PageSummary struct {
	// Title is the trimmed document title, empty when absent.
	Title string

	// WordCount counts whitespace separated tokens of the text content.
	WordCount int

	// CharCount counts characters of the text content.
	CharCount int

	// LinkCount counts <a> elements.
	LinkCount int

	// URLs are raw, unresolved outbound URLs, deduplicated and sorted.
	URLs []string
}
