package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEventNotFound = errors.New("event not found")

// EventRepo reads event reference data owned by the event service.
type EventRepo struct {
	pool *pgxpool.Pool
}

type EventRecord struct {
	ID        int64
	Title     string
	Category  string
	EventDate time.Time
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Exists(ctx context.Context, eventID int64) (bool, error) {
	if eventID <= 0 {
		return false, fmt.Errorf("invalid event id")
	}
	if r.pool == nil {
		return false, nil
	}

	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM events WHERE id = $1`, eventID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check event exists: %w", err)
	}

	return true, nil
}

func (r *EventRepo) GetSummaries(ctx context.Context, eventIDs []int64) (map[int64]EventRecord, error) {
	out := make(map[int64]EventRecord, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	if r.pool == nil {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, title, category, event_date
FROM events
WHERE id = ANY($1)
`, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list event summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec EventRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Category, &rec.EventDate); err != nil {
			return nil, fmt.Errorf("scan event summary: %w", err)
		}
		out[rec.ID] = rec
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event summaries: %w", rows.Err())
	}

	return out, nil
}
