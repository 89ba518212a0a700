// Package tor routes scans through the Tor network.
//
// Daemon starts a private Tor process with tornago and exposes its SOCKS5
// listener as a proxy URL the transport understands. The onion helpers
// recognize .onion targets and verify v3 address checksums so typos are
// rejected before a slow Tor circuit is built.
package tor
