// Package report renders finished jobs.
//
// Writers implement the Writer interface and can be combined with
// MultiWriter:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter and FullJSONWriter: JSON for tool integration
//   - MarkdownWriter: Markdown with a status chart and a crawl site map
//
// WriteSummaryTable prints one line per job, and LivePrinter streams rows
// with a progress bar while a job runs.
package report
