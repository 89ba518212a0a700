// Package transport sends HTTP requests on behalf of the scanning engine.
//
// Client turns a model.HTTPRequest into a net/http request, routes it
// through an optional http, https or socks5 proxy, applies a per-request
// timeout and an optional rate limit, and returns the decoded body for any
// HTTP status. Only failures to obtain a response are reported as errors.
package transport
