package sink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCSVSinkExportBeforeFirstWrite(t *testing.T) {
	s := NewCSVSink(filepath.Join(t.TempDir(), "dados.csv"))
	var buf bytes.Buffer
	if err := s.ExportCSV(context.Background(), &buf); err != ErrNoRecords {
		t.Fatalf("err = %v, want ErrNoRecords", err)
	}
}

func TestCSVSinkAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados.csv")
	s := NewCSVSink(path)
	ctx := context.Background()

	rec := Record{
		Timestamp:  time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC),
		UserID:     12345,
		Username:   "maria_a",
		BettorName: "Maria",
		Numbers:    []int{1, 6, 12, 23, 30, 34, 41, 45, 52, 60},
	}
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	rec.BettorName = "João"
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3 (header + 2 records): %q", len(lines), lines)
	}
	if lines[0] != "timestamp,user_id,username,bettor_name,numbers" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2025-03-14T15:09:26Z") {
		t.Fatalf("record missing UTC timestamp: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"01, 06, 12, 23, 30, 34, 41, 45, 52, 60"`) {
		t.Fatalf("record missing formatted dezenas: %q", lines[1])
	}
}

func TestCSVSinkExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados.csv")
	s := NewCSVSink(path)
	ctx := context.Background()

	rec := Record{
		Timestamp: time.Now(),
		UserID:    9,
		Username:  "ana",
		Numbers:   []int{2, 4, 8, 16, 32, 33, 34, 35, 36, 60},
	}
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf.String() != string(raw) {
		t.Fatal("export differs from file contents")
	}
}
