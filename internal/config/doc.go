// Package config provides the shared scan options and the per-host profile
// file for webrecon.
//
// Config is built from CLI flags with NewConfig defaults and checked with
// Validate. The optional .webrecon YAML file holds default and per-host
// profiles (headers, cookies, proxy, crawl scope) that commands merge into
// each job configuration.
package config
