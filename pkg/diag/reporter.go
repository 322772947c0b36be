// Package diag provides a diagnostics reporter that accumulates warnings and
// errors produced during a conversion run. Findings are collected in order
// and mirrored to slog, so callers can inspect them after a run instead of
// scraping log output.
package diag

import (
	"fmt"
	"log/slog"
)

// Level classifies a finding.
type Level string

const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Finding is a single recorded warning or error.
type Finding struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"` // input line number, 1-based, 0 if not applicable
	Row     int    `json:"row,omitempty"`  // input row number, 1-based, 0 if not applicable
}

// Reporter collects findings for one conversion run. The zero value is not
// usable; construct with NewReporter. Reporter is not safe for concurrent
// use; conversion is single-threaded.
type Reporter struct {
	logger   *slog.Logger
	findings []Finding
}

// NewReporter creates a reporter backed by the given logger.
// A nil logger falls back to slog.Default().
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// Warnf records a warning.
func (r *Reporter) Warnf(format string, args ...any) {
	r.add(Finding{Level: LevelWarning, Message: fmt.Sprintf(format, args...)})
}

// Errorf records an error finding. Recording an error does not abort
// anything by itself; fatality is the caller's decision.
func (r *Reporter) Errorf(format string, args ...any) {
	r.add(Finding{Level: LevelError, Message: fmt.Sprintf(format, args...)})
}

// LineWarnf records a warning tied to an input line number.
func (r *Reporter) LineWarnf(line int, format string, args ...any) {
	r.add(Finding{Level: LevelWarning, Message: fmt.Sprintf(format, args...), Line: line})
}

// LineErrorf records an error tied to an input line number.
func (r *Reporter) LineErrorf(line int, format string, args ...any) {
	r.add(Finding{Level: LevelError, Message: fmt.Sprintf(format, args...), Line: line})
}

// RowErrorf records an error tied to a 1-based input row number.
func (r *Reporter) RowErrorf(row int, format string, args ...any) {
	r.add(Finding{Level: LevelError, Message: fmt.Sprintf(format, args...), Row: row})
}

func (r *Reporter) add(f Finding) {
	r.findings = append(r.findings, f)

	attrs := []any{}
	if f.Line > 0 {
		attrs = append(attrs, "line", f.Line)
	} else if f.Row > 0 {
		attrs = append(attrs, "row", f.Row)
	}
	switch f.Level {
	case LevelError:
		r.logger.Error(f.Message, attrs...)
	default:
		r.logger.Warn(f.Message, attrs...)
	}
}

// Findings returns all recorded findings in order.
func (r *Reporter) Findings() []Finding {
	return r.findings
}

// Warnings returns only the warning-level findings.
func (r *Reporter) Warnings() []Finding {
	return r.filter(LevelWarning)
}

// Errors returns only the error-level findings.
func (r *Reporter) Errors() []Finding {
	return r.filter(LevelError)
}

func (r *Reporter) filter(level Level) []Finding {
	var out []Finding
	for _, f := range r.findings {
		if f.Level == level {
			out = append(out, f)
		}
	}
	return out
}

// Counts returns the number of warnings and errors recorded.
func (r *Reporter) Counts() (warnings, errors int) {
	for _, f := range r.findings {
		if f.Level == LevelError {
			errors++
		} else {
			warnings++
		}
	}
	return
}
