package diag

import (
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReporterCollectsFindingsInOrder(t *testing.T) {
	r := NewReporter(quietLogger())
	r.Warnf("invalid currency values found: %s", "XXX")
	r.Errorf("missing required fields: %s", "CONTRACT_REF_NO")
	r.LineWarnf(3, "line %d is shorter than expected", 3)
	r.RowErrorf(7, "error transforming row %d", 7)

	findings := r.Findings()
	if len(findings) != 4 {
		t.Fatalf("got %d findings, want 4", len(findings))
	}

	want := []Finding{
		{Level: LevelWarning, Message: "invalid currency values found: XXX"},
		{Level: LevelError, Message: "missing required fields: CONTRACT_REF_NO"},
		{Level: LevelWarning, Message: "line 3 is shorter than expected", Line: 3},
		{Level: LevelError, Message: "error transforming row 7", Row: 7},
	}
	for i, f := range findings {
		if f != want[i] {
			t.Errorf("finding %d = %+v, want %+v", i, f, want[i])
		}
	}
}

// A failure on the first row must keep its row context; row numbers are
// 1-based so the first row never collides with the zero value.
func TestReporterFirstRowKeepsContext(t *testing.T) {
	r := NewReporter(quietLogger())
	r.RowErrorf(1, "error transforming row %d: %v", 1, "bad value")

	findings := r.Findings()
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Row != 1 {
		t.Errorf("Row = %d, want 1", findings[0].Row)
	}
}

func TestReporterFilters(t *testing.T) {
	r := NewReporter(quietLogger())
	r.Warnf("w1")
	r.Errorf("e1")
	r.Warnf("w2")

	if got := len(r.Warnings()); got != 2 {
		t.Errorf("Warnings() = %d findings, want 2", got)
	}
	if got := len(r.Errors()); got != 1 {
		t.Errorf("Errors() = %d findings, want 1", got)
	}
	warnings, errors := r.Counts()
	if warnings != 2 || errors != 1 {
		t.Errorf("Counts() = (%d, %d), want (2, 1)", warnings, errors)
	}
}

func TestReporterNilLogger(t *testing.T) {
	r := NewReporter(nil)
	r.Warnf("works")
	if len(r.Findings()) != 1 {
		t.Error("finding not recorded with default logger")
	}
}
