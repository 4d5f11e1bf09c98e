package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/dezbot/core/bet"
	"github.com/m3rciful/dezbot/core/logger"
)

// PostgresSink appends wagers to the bets table. Each dezena lands in its
// own column (d1..d10, ascending) so the table stays queryable; the CSV
// export renders the same canonical formatted string the CSV sink stores.
type PostgresSink struct {
	db *sqlx.DB
}

// NewPostgresSink wraps an already-connected, migrated database handle.
func NewPostgresSink(db *sqlx.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

const insertBet = `
INSERT INTO bets (created_at, user_id, username, bettor_name,
                  d1, d2, d3, d4, d5, d6, d7, d8, d9, d10)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// Append inserts one record inside a single statement; postgres guarantees
// the row is written entirely or not at all.
func (s *PostgresSink) Append(ctx context.Context, r Record) error {
	if len(r.Numbers) != bet.Count {
		return fmt.Errorf("postgres sink: expected %d dezenas, got %d", bet.Count, len(r.Numbers))
	}

	start := time.Now()
	args := make([]interface{}, 0, 14)
	args = append(args, r.Timestamp.UTC(), r.UserID, r.Username, r.BettorName)
	for _, n := range r.Numbers {
		args = append(args, n)
	}

	if _, err := s.db.ExecContext(ctx, insertBet, args...); err != nil {
		return fmt.Errorf("postgres sink: insert: %w", err)
	}

	logger.Info(ctx, "sink", "record appended",
		slog.String("event", "sink.append"),
		slog.String("driver", "postgres"),
		slog.Int64("user_id", r.UserID),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

type betRow struct {
	CreatedAt  time.Time `db:"created_at"`
	UserID     int64     `db:"user_id"`
	Username   string    `db:"username"`
	BettorName string    `db:"bettor_name"`
	D1         int       `db:"d1"`
	D2         int       `db:"d2"`
	D3         int       `db:"d3"`
	D4         int       `db:"d4"`
	D5         int       `db:"d5"`
	D6         int       `db:"d6"`
	D7         int       `db:"d7"`
	D8         int       `db:"d8"`
	D9         int       `db:"d9"`
	D10        int       `db:"d10"`
}

func (r betRow) numbers() []int {
	return []int{r.D1, r.D2, r.D3, r.D4, r.D5, r.D6, r.D7, r.D8, r.D9, r.D10}
}

const selectBets = `
SELECT created_at, user_id, username, bettor_name,
       d1, d2, d3, d4, d5, d6, d7, d8, d9, d10
FROM bets
ORDER BY id`

// ExportCSV renders all stored bets as CSV with the canonical header.
func (s *PostgresSink) ExportCSV(ctx context.Context, w io.Writer) error {
	var rows []betRow
	if err := s.db.SelectContext(ctx, &rows, selectBets); err != nil {
		return fmt.Errorf("postgres sink: select: %w", err)
	}
	if len(rows) == 0 {
		return ErrNoRecords
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("postgres sink: write header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.CreatedAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(row.UserID, 10),
			row.Username,
			row.BettorName,
			bet.Format(row.numbers()),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("postgres sink: write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("postgres sink: flush: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}
