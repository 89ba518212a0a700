package engine

import (
	"context"

	"github.com/nao1215/webrecon/internal/model"
)

// Transport performs one HTTP request. HTTP error statuses must be returned
// as responses; an error means no response was obtained.
type Transport interface {
	Send(ctx context.Context, req *model.HTTPRequest) (*model.HTTPResponse, error)
}

// Extractor summarizes an HTML page for the crawl strategy.
type Extractor interface {
	Extract(markup string) (model.PageSummary, error)
}

// Inspector looks for findings in a response. Implementations must be safe
// for concurrent use.
type Inspector interface {
	Inspect(resp *model.HTTPResponse) []model.Finding
}

// FindingHandler receives each finding the first time it is observed.
type FindingHandler func(model.Finding)

// RowHandler receives every emitted row. It runs on the scanning goroutine,
// so a slow handler slows the job.
type RowHandler func(model.Row)

// ProgressHandler receives a progress update after every row.
type ProgressHandler func(model.Progress)
