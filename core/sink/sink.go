// Package sink appends accepted wagers to durable, append-only storage.
package sink

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNoRecords reports that no wager has ever been written.
var ErrNoRecords = errors.New("sink: no records")

// Record is one accepted wager. Once appended it is never updated.
type Record struct {
	Timestamp  time.Time
	UserID     int64
	Username   string
	BettorName string
	Numbers    []int
}

// Sink is the append-only store for accepted wagers.
//
// Append either durably writes the whole record or fails without a partial
// write; callers surface failures to the user instead of dropping the wager.
// ExportCSV streams every stored record as UTF-8 CSV with a header row and
// returns ErrNoRecords when nothing was ever appended.
type Sink interface {
	Append(ctx context.Context, r Record) error
	ExportCSV(ctx context.Context, w io.Writer) error
	Close() error
}

var csvHeader = []string{"timestamp", "user_id", "username", "bettor_name", "numbers"}
