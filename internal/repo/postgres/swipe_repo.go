package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

type SwipeRecord struct {
	ID        int64
	EventID   int64
	SwiperID  int64
	TargetID  int64
	Liked     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Upsert records a directed swipe. An existing swipe for the same
// (event, swiper, target) gets its liked flag replaced; inserted reports
// whether a new row was created. The unique constraint on the triple keeps
// concurrent first swipes from producing duplicates.
func (r *SwipeRepo) Upsert(ctx context.Context, tx pgx.Tx, eventID, swiperID, targetID int64, liked bool, now time.Time) (SwipeRecord, bool, error) {
	if eventID <= 0 || swiperID <= 0 || targetID <= 0 || swiperID == targetID {
		return SwipeRecord{}, false, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
UPDATE swipes
SET liked = $4, updated_at = $5
WHERE event_id = $1 AND swiper_id = $2 AND target_id = $3
RETURNING id, event_id, swiper_id, target_id, liked, created_at, updated_at
`, eventID, swiperID, targetID, liked, now.UTC()).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.SwiperID,
		&rec.TargetID,
		&rec.Liked,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err == nil {
		return rec, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return SwipeRecord{}, false, fmt.Errorf("update swipe: %w", err)
	}

	err = tx.QueryRow(ctx, `
INSERT INTO swipes (event_id, swiper_id, target_id, liked, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (event_id, swiper_id, target_id)
	DO UPDATE SET liked = EXCLUDED.liked, updated_at = EXCLUDED.updated_at
RETURNING id, event_id, swiper_id, target_id, liked, created_at, updated_at
`, eventID, swiperID, targetID, liked, now.UTC()).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.SwiperID,
		&rec.TargetID,
		&rec.Liked,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return SwipeRecord{}, false, fmt.Errorf("insert swipe: %w", err)
	}

	return rec, true, nil
}

// HasReciprocalLike reports whether target has already liked swiper for the
// same event. Runs inside the swipe transaction so the mutual check and the
// buddy insert observe a consistent snapshot.
func (r *SwipeRepo) HasReciprocalLike(ctx context.Context, tx pgx.Tx, eventID, swiperID, targetID int64) (bool, error) {
	if eventID <= 0 || swiperID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid reciprocal lookup payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE event_id = $1 AND swiper_id = $2 AND target_id = $3 AND liked
LIMIT 1
`, eventID, targetID, swiperID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}

// ListTargetIDsForUser returns every user the given user has swiped on,
// regardless of outcome.
func (r *SwipeRepo) ListTargetIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT target_id
FROM swipes
WHERE swiper_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list swiped targets: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swiped target: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swiped targets: %w", rows.Err())
	}

	return ids, nil
}
