package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Run history table
-- One record per conversion run, successful or not
CREATE TABLE IF NOT EXISTS run_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    processing_name TEXT NOT NULL,     -- processing_name from the rules document
    input_source TEXT NOT NULL,        -- input file path or source label
    output_file TEXT,                  -- output file path, NULL for dry runs
    output_format TEXT,                -- 'csv' or 'excel'
    input_records INTEGER NOT NULL,
    output_records INTEGER NOT NULL,
    dropped_rows INTEGER NOT NULL,
    warning_count INTEGER NOT NULL,
    error_count INTEGER NOT NULL,
    status TEXT NOT NULL,              -- 'completed' or 'failed'
    completed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_run_history_name
    ON run_history(processing_name);

CREATE INDEX IF NOT EXISTS idx_run_history_completed
    ON run_history(completed_at);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
