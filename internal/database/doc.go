// Package database stores finished webrecon jobs in SQLite.
//
// JobDB keeps one row per job in the jobs table (kind, target, terminal
// state, metrics) and every emitted result row in the rows table, flagged
// with whether it passed the job's filter. The history command reads it back
// to list, show and delete earlier scans. The driver is modernc.org/sqlite,
// which needs no cgo.
package database
