package logbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "journey.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("step-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"step-2", "step-3", "step-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestAppendFormatsLevelAndTimestamp(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "journey.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.clock = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	book.Warn("  rejected input: %s  ", "burst time must be >= 1")
	lines, _ := book.Tail(1)
	want := "2024-03-01T12:00:00Z WARN  rejected input: burst time must be >= 1"
	if len(lines) != 1 || lines[0] != want {
		t.Fatalf("got %q, want %q", lines, want)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if lines, total := book.Tail(3); lines != nil || total != 0 {
		t.Fatalf("expected empty tail from nil logbook")
	}
}

func TestTailOrderAcrossRingSizes(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "journey.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 6; i++ {
		book.Info("entry-%d", i)
	}
	tests := []struct {
		max  int
		want []string
	}{
		{max: 3, want: []string{"entry-3", "entry-4", "entry-5"}},
		{max: 4, want: []string{"entry-2", "entry-3", "entry-4", "entry-5"}},
		{max: 10, want: []string{"entry-0", "entry-1", "entry-2", "entry-3", "entry-4", "entry-5"}},
	}
	for _, tt := range tests {
		lines, total := book.Tail(tt.max)
		if total != 6 || len(lines) != len(tt.want) {
			t.Fatalf("Tail(%d) = %d lines, total %d", tt.max, len(lines), total)
		}
		for i, want := range tt.want {
			if !strings.HasSuffix(lines[i], want) {
				t.Fatalf("Tail(%d)[%d] = %q, want suffix %s", tt.max, i, lines[i], want)
			}
		}
	}
}
