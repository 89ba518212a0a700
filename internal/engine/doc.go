// Package engine runs scanning jobs.
//
// A Controller wraps one strategy (crawl, brute force or fuzz) with a
// lifecycle state machine:
//
//	Idle -> Configured -> Running <-> Paused
//	Running|Paused -> Stopped | Completed | Error
//
// Pause, Resume and Stop only record a request. The running strategy
// observes it at checkpoints, which sit before every request and, for
// crawls, before every descent into a discovered URL. An in-flight request
// always finishes and its row is emitted before the job stops.
//
// Every processed request produces exactly one row. Rows are numbered from
// 1 in dispatch order, passed to the row handler and then reported to the
// progress handler. A Classifier decides which rows are retained in the
// filtered result set; filtering never hides rows from the live feed.
package engine
