package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/m3rciful/dezbot/core/bet"
	"github.com/m3rciful/dezbot/core/logger"
)

// CSVSink appends wagers to a local CSV file. The file is created with a
// header row on the first append, so a missing file means no record was
// ever written.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

// NewCSVSink returns a sink writing to path. The file is not created until
// the first wager arrives.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Append durably writes one record, creating the file and header first when
// needed. The write is fsynced before reporting success.
func (s *CSVSink) Append(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	writeHeader := false
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		writeHeader = true
	} else if err != nil {
		return fmt.Errorf("csv sink: stat %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("csv sink: open %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("csv sink: write header: %w", err)
		}
	}
	row := []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		strconv.FormatInt(r.UserID, 10),
		r.Username,
		r.BettorName,
		bet.Format(r.Numbers),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("csv sink: write record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv sink: flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("csv sink: sync: %w", err)
	}

	logger.Info(ctx, "sink", "record appended",
		slog.String("event", "sink.append"),
		slog.String("driver", "csv"),
		slog.Int64("user_id", r.UserID),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// ExportCSV streams the stored file as-is.
func (s *CSVSink) ExportCSV(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return ErrNoRecords
	}
	if err != nil {
		return fmt.Errorf("csv sink: open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("csv sink: export: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per append.
func (s *CSVSink) Close() error {
	return nil
}
