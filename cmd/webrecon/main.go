// Package main provides the entry point for the webrecon CLI.
//
// webrecon crawls web sites, enumerates hidden paths with a wordlist and
// fuzzes request parameters, streaming results to the terminal and storing
// finished jobs in a local database.
//
// Usage:
//
//	webrecon crawl https://example.com
//	webrecon bruteforce --wordlist words.txt https://example.com
//	webrecon fuzz --param q https://example.com/search
//	webrecon history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
