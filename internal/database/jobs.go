package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/webrecon/internal/model"
)

// JobSummary is the metadata of a stored job without its rows.
type JobSummary struct {
	ID         string
	Kind       model.StrategyKind
	Target     string
	State      model.JobState
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
	Metrics    model.Metrics
}

// SaveJobReport stores a report with its rows and findings. Saving an existing ID
// replaces the previous job.
func (j *JobDB) SaveJobReport(ctx context.Context, r *model.JobReport) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM rows WHERE job_id = ?`, r.ID); err != nil {
		return fmt.Errorf("failed to clear rows: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM findings WHERE job_id = ?`, r.ID); err != nil {
		return fmt.Errorf("failed to clear findings: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT OR REPLACE INTO jobs
		(id, kind, target, state, error, started_at, finished_at,
		 running_time_ns, processed, filtered, requests_per_second)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Kind), r.Target, string(r.State), r.Error,
		formatTime(r.StartedAt), formatTime(r.FinishedAt),
		int64(r.Metrics.RunningTime), r.Metrics.ProcessedRequests,
		r.Metrics.FilteredRequests, r.Metrics.RequestsPerSecond,
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO rows
		(job_id, id, url, parent_url, payload, parameter, title, status,
		 word_count, char_count, links_found, length, depth_remaining,
		 hash, snippet, is_error, error_message, retained)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	retained := make(map[int]bool, len(r.Retained))
	for _, row := range r.Retained {
		retained[row.ID] = true
	}

	for _, row := range r.Rows {
		_, err = stmt.ExecContext(ctx,
			r.ID, row.ID, row.URL, nullString(row.ParentURL), nullString(row.Payload),
			row.Parameter, row.Title, row.Status,
			row.WordCount, row.CharCount, row.LinksFound, row.Length, nullInt(row.DepthRemaining),
			row.Hash, row.Snippet, row.Error, row.ErrorMessage, retained[row.ID],
		)
		if err != nil {
			return fmt.Errorf("failed to save row %d: %w", row.ID, err)
		}
	}

	if err = saveFindings(ctx, tx, r.ID, r.Findings); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit job: %w", err)
	}
	return nil
}

// GetJobReport loads a job with its rows and findings.
// It returns ErrJobNotFound when the ID is unknown.
func (j *JobDB) GetJobReport(ctx context.Context, id string) (*model.JobReport, error) {
	summary, err := j.getSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	r := model.NewJobReport(summary.ID, summary.Kind, summary.Target)
	r.State = summary.State
	r.Error = summary.Error
	r.StartedAt = summary.StartedAt
	r.FinishedAt = summary.FinishedAt
	r.Metrics = summary.Metrics

	rows, err := j.db.QueryContext(ctx, `
	SELECT id, url, parent_url, payload, parameter, title, status,
	       word_count, char_count, links_found, length, depth_remaining,
	       hash, snippet, is_error, error_message, retained
	FROM rows WHERE job_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row      model.Row
			parent   sql.NullString
			payload  sql.NullString
			param    sql.NullString
			title    sql.NullString
			depth    sql.NullInt64
			hash     sql.NullString
			snippet  sql.NullString
			errMsg   sql.NullString
			retained bool
		)
		if err := rows.Scan(&row.ID, &row.URL, &parent, &payload, &param, &title, &row.Status,
			&row.WordCount, &row.CharCount, &row.LinksFound, &row.Length, &depth,
			&hash, &snippet, &row.Error, &errMsg, &retained); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if parent.Valid {
			row.ParentURL = model.StringPtr(parent.String)
		}
		if payload.Valid {
			row.Payload = model.StringPtr(payload.String)
		}
		if depth.Valid {
			row.DepthRemaining = model.IntPtr(int(depth.Int64))
		}
		row.Parameter = param.String
		row.Title = title.String
		row.Hash = hash.String
		row.Snippet = snippet.String
		row.ErrorMessage = errMsg.String

		r.Rows = append(r.Rows, row)
		if retained {
			r.Retained = append(r.Retained, row)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	findings, err := j.Findings(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Findings = append(r.Findings, findings...)
	return r, nil
}

// ListJobs returns stored jobs, newest first. An empty kind lists every job.
func (j *JobDB) ListJobs(ctx context.Context, kind model.StrategyKind) ([]JobSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM jobs`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY started_at DESC, id`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var out []JobSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}
	return out, nil
}

// PreviousJob returns the most recent job that ran the same kind against
// the same target before the job with the given ID. It returns
// ErrJobNotFound when either job does not exist.
func (j *JobDB) PreviousJob(ctx context.Context, id string) (JobSummary, error) {
	current, err := j.getSummary(ctx, id)
	if err != nil {
		return JobSummary{}, err
	}
	row := j.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM jobs
	WHERE kind = ? AND target = ? AND id != ? AND started_at < ?
	ORDER BY started_at DESC LIMIT 1`,
		string(current.Kind), current.Target, current.ID, formatTime(current.StartedAt))
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return JobSummary{}, ErrJobNotFound
	}
	return s, err
}

// DeleteJob removes a job with its rows and findings.
// It returns ErrJobNotFound when the ID is unknown.
func (j *JobDB) DeleteJob(ctx context.Context, id string) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rows WHERE job_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM findings WHERE job_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete findings: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return tx.Commit()
}

// CountByStatus returns how many rows of a job have each status code.
func (j *JobDB) CountByStatus(ctx context.Context, id string) (map[int]int, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM rows WHERE job_id = ? GROUP BY status`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var status, n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

const summaryColumns = `id, kind, target, state, error, started_at, finished_at,
	running_time_ns, processed, filtered, requests_per_second`

type rowScanner interface {
	Scan(dest ...any) error
}

func (j *JobDB) getSummary(ctx context.Context, id string) (JobSummary, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM jobs WHERE id = ?`, id)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return JobSummary{}, ErrJobNotFound
	}
	return s, err
}

func scanSummary(sc rowScanner) (JobSummary, error) {
	var (
		s                 JobSummary
		kind, state       string
		errMsg            sql.NullString
		started, finished sql.NullString
		runningNS         int64
	)
	err := sc.Scan(&s.ID, &kind, &s.Target, &state, &errMsg, &started, &finished,
		&runningNS, &s.Metrics.ProcessedRequests, &s.Metrics.FilteredRequests,
		&s.Metrics.RequestsPerSecond)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan job: %w", err)
	}
	s.Kind = model.StrategyKind(kind)
	s.State = model.JobState(state)
	s.Error = errMsg.String
	s.StartedAt = parseTimestamp(started.String)
	s.FinishedAt = parseTimestamp(finished.String)
	s.Metrics.RunningTime = time.Duration(runningNS)
	return s, nil
}

// timestampLayout has a fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp accepts the formats SQLite may hand back.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
