package transport

import "errors"

// Transport errors.
var (
	// ErrInvalidProxy is returned when a proxy URL cannot be parsed or has no host.
	ErrInvalidProxy = errors.New("invalid proxy url")

	// ErrUnsupportedProxy is returned for proxy schemes other than http, https,
	// socks5 and socks5h.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme: expected http, https, socks5 or socks5h")

	// ErrProxyCannotConnect is returned when the proxy does not accept TCP connections.
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")

	// ErrProxyTimeout is returned when the proxy does not answer in time.
	ErrProxyTimeout = errors.New("timeout connecting to proxy")

	// ErrProxyNotSOCKS5 is returned when a socks5 proxy does not complete the
	// SOCKS5 greeting without authentication.
	ErrProxyNotSOCKS5 = errors.New("proxy did not answer the SOCKS5 greeting")

	// ErrInvalidRequest is returned when a request has no URL or an invalid one.
	ErrInvalidRequest = errors.New("invalid request")
)
