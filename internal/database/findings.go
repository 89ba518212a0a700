package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nao1215/webrecon/internal/model"
)

func saveFindings(ctx context.Context, tx *sql.Tx, jobID string, findings []model.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO findings (job_id, seq, type, title, severity, value, url)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare finding insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range findings {
		if _, err := stmt.ExecContext(ctx, jobID, i, f.Type, f.Title, f.Severity.String(), f.Value, f.URL); err != nil {
			return fmt.Errorf("failed to save finding %s: %w", f.Type, err)
		}
	}
	return nil
}

// Findings returns the stored findings of a job in the order they were
// saved. An unknown job has no findings.
func (j *JobDB) Findings(ctx context.Context, jobID string) ([]model.Finding, error) {
	rows, err := j.db.QueryContext(ctx, `
	SELECT type, title, severity, value, url
	FROM findings WHERE job_id = ? ORDER BY seq`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var out []model.Finding
	for rows.Next() {
		var (
			f        model.Finding
			severity string
			value    sql.NullString
		)
		if err := rows.Scan(&f.Type, &f.Title, &severity, &value, &f.URL); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		if f.Severity, err = model.ParseSeverity(severity); err != nil {
			return nil, err
		}
		f.Value = value.String
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read findings: %w", err)
	}
	return out, nil
}

// CountFindingsBySeverity tallies the findings of every stored job whose
// kind matches. An empty kind counts all jobs.
func (j *JobDB) CountFindingsBySeverity(ctx context.Context, kind model.StrategyKind) (map[model.Severity]int, error) {
	query := `SELECT f.severity, COUNT(*) FROM findings f JOIN jobs j ON j.id = f.job_id`
	var args []any
	if kind != "" {
		query += ` WHERE j.kind = ?`
		args = append(args, string(kind))
	}
	query += ` GROUP BY f.severity`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count findings: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Severity]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan finding count: %w", err)
		}
		s, err := model.ParseSeverity(name)
		if err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}
