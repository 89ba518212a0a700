// Package inspect looks for sensitive content in HTTP responses while a
// job runs. Every response a job receives, whatever the strategy, is
// passed to an Inspector which runs a set of detectors over its headers
// and body:
//
//   - secrets: private keys and credentials (values are redacted)
//   - exposure: API documentation, debug pages and directory listings
//   - email: contact addresses
//   - tracking: analytics and advertising IDs
//   - headers: server and framework version banners
//
// Findings are attached to the job report, stored with it and rendered by
// every report format.
package inspect
