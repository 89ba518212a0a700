// Package crawler extracts crawlable content from HTML pages.
//
// The Extractor walks the DOM built by golang.org/x/net/html and reports the
// page title, text statistics, the number of anchors and every outbound URL
// found in a[href], link[href], script[src], img[src] and form[action].
// URLs are returned as written in the page; Resolve joins them with the page
// URL once exclusion rules have been applied.
package crawler
