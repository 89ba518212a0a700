// Package pipeline runs webrecon jobs as a sequence of steps.
//
// A typical job pipeline is ScanStep (drive an engine.Controller), SaveStep
// (store the report in the job database) and ReportStep (render it). The
// BatchProcessor builds a fresh pipeline per target and runs them with
// bounded concurrency using errgroup.
package pipeline
