package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// MaxSnippetLength is the number of leading characters of a response body
// kept in Row.Snippet.
const MaxSnippetLength = 200

// Row is one request outcome produced by a strategy.
// Crawl rows carry page metadata, brute force and fuzz rows carry the
// payload and response length. Fields that do not apply to a strategy stay
// at their zero value, and the pointer fields serialize as null.
type Row struct {
	// ID is assigned sequentially from 1 in emission order.
	ID int `json:"id"`

	// URL is the URL that was requested (the final URL for fuzz rows).
	URL string `json:"url"`

	// ParentURL is the page the crawl discovered this URL on. Nil for roots
	// and for non-crawl rows.
	ParentURL *string `json:"parentUrl"`

	// Payload is the wordlist entry or fuzz payload. Nil for crawl rows.
	Payload *string `json:"payload"`

	// Parameter is the fuzzed parameter name. Empty for other strategies.
	Parameter string `json:"parameter,omitempty"`

	// Title is the page title of a crawled page.
	Title string `json:"title,omitempty"`

	// Status is the HTTP status code, or 0 when the request failed.
	Status int `json:"status"`

	WordCount  int `json:"wordCount,omitempty"`
	CharCount  int `json:"charCount,omitempty"`
	LinksFound int `json:"linksFound,omitempty"`

	// Length is the response body length in bytes.
	Length int `json:"length"`

	// DepthRemaining is the crawl depth budget left when the page was fetched.
	DepthRemaining *int `json:"depthRemaining,omitempty"`

	// Hash is a SHA3-256 fingerprint of the response body.
	Hash string `json:"hash,omitempty"`

	// Snippet holds the first MaxSnippetLength characters of the body.
	Snippet string `json:"snippet,omitempty"`

	// Error marks a transport failure or a status the strategy treats as an error.
	Error bool `json:"error"`

	// ErrorMessage is the transport failure text, if any.
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ParentOrEmpty returns the parent URL or "" when there is none.
func (r Row) ParentOrEmpty() string {
	if r.ParentURL == nil {
		return ""
	}
	return *r.ParentURL
}

// PayloadOrEmpty returns the payload or "" when there is none.
func (r Row) PayloadOrEmpty() string {
	if r.Payload == nil {
		return ""
	}
	return *r.Payload
}

// ComputeHash sets Hash to the hex SHA3-256 digest of body.
// An empty body leaves Hash empty.
func (r *Row) ComputeHash(body string) {
	if body == "" {
		r.Hash = ""
		return
	}
	sum := sha3.Sum256([]byte(body))
	r.Hash = hex.EncodeToString(sum[:])
}

// SetSnippet stores the first MaxSnippetLength characters of body.
func (r *Row) SetSnippet(body string) {
	runes := []rune(body)
	if len(runes) > MaxSnippetLength {
		runes = runes[:MaxSnippetLength]
	}
	r.Snippet = string(runes)
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to a copy of n.
func IntPtr(n int) *int {
	return &n
}
