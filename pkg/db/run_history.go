package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RunStatus marks the outcome of a conversion run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one conversion run.
type RunRecord struct {
	ID             int64
	ProcessingName string
	InputSource    string
	OutputFile     sql.NullString
	OutputFormat   sql.NullString
	InputRecords   int
	OutputRecords  int
	DroppedRows    int
	WarningCount   int
	ErrorCount     int
	Status         RunStatus
	CompletedAt    time.Time
}

// RunHistory manages conversion run records.
type RunHistory struct {
	conn *Connection
}

// NewRunHistory creates a RunHistory backed by the given connection.
func NewRunHistory(conn *Connection) *RunHistory {
	return &RunHistory{conn: conn}
}

// Record inserts a run record.
func (h *RunHistory) Record(record RunRecord) error {
	query := `
		INSERT INTO run_history (
			processing_name, input_source, output_file, output_format,
			input_records, output_records, dropped_rows,
			warning_count, error_count, status
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := h.conn.Exec(query,
		record.ProcessingName,
		record.InputSource,
		record.OutputFile,
		record.OutputFormat,
		record.InputRecords,
		record.OutputRecords,
		record.DroppedRows,
		record.WarningCount,
		record.ErrorCount,
		string(record.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// Recent returns the latest runs, newest first.
func (h *RunHistory) Recent(limit int) ([]RunRecord, error) {
	query := `
		SELECT id, processing_name, input_source, output_file, output_format,
		       input_records, output_records, dropped_rows,
		       warning_count, error_count, status, completed_at
		FROM run_history
		ORDER BY completed_at DESC, id DESC
		LIMIT ?
	`

	rows, err := h.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var status string

		if err := rows.Scan(
			&record.ID,
			&record.ProcessingName,
			&record.InputSource,
			&record.OutputFile,
			&record.OutputFormat,
			&record.InputRecords,
			&record.OutputRecords,
			&record.DroppedRows,
			&record.WarningCount,
			&record.ErrorCount,
			&status,
			&record.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}

		record.Status = RunStatus(status)
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats summarizes the run history.
type Stats struct {
	TotalRuns     int
	CompletedRuns int
	FailedRuns    int
	TotalRecords  int
	TotalDropped  int
	LastRun       sql.NullString
}

// GetStats computes aggregate statistics over all recorded runs.
func (h *RunHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM run_history`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get run count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM run_history WHERE status = 'completed'`).Scan(&stats.CompletedRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM run_history WHERE status = 'failed'`).Scan(&stats.FailedRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COALESCE(SUM(output_records), 0), COALESCE(SUM(dropped_rows), 0) FROM run_history`).
		Scan(&stats.TotalRecords, &stats.TotalDropped)
	if err != nil {
		return nil, fmt.Errorf("failed to get record totals: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(completed_at) FROM run_history`).Scan(&stats.LastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last run time: %w", err)
	}

	return &stats, nil
}
