package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres writes entries to the table_events table.
type Postgres struct {
	db *sql.DB
}

// Open connects to the database at url.
func Open(ctx context.Context, url string) (*Postgres, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &Postgres{db: db}, nil
}

// ApplySchema creates the journal table if it does not exist.
func (p *Postgres) ApplySchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			var pe *pq.Error
			if errors.As(err, &pe) && pe.Code.Name() == "duplicate_table" {
				continue
			}
			return fmt.Errorf("database error: %w", err)
		}
	}
	return nil
}

// Record inserts e.
func (p *Postgres) Record(ctx context.Context, e Entry) error {
	names := e.CardNames
	if names == nil {
		names = []string{}
	}
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO table_events (event, conn_id, card_names, detail, recorded_at) VALUES ($1, $2, $3, $4, $5)",
		e.Event, e.ConnID, pq.Array(names), e.Detail, e.At)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// Count returns how many entries have been recorded for event.
func (p *Postgres) Count(ctx context.Context, event string) (int, error) {
	var n int
	row := p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM table_events WHERE event=$1", event)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
