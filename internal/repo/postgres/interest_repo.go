package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateInterest = errors.New("interest already exists")

type InterestRepo struct {
	pool *pgxpool.Pool
}

// SharedInterestRow is one (candidate, event) pair produced by the shared
// interest lookup; the recommender groups these per candidate.
type SharedInterestRow struct {
	UserID     int64
	Name       string
	AvatarURL  string
	Bio        string
	Fields     []string
	EventID    int64
	EventTitle string
	Category   string
	EventDate  time.Time
}

func NewInterestRepo(pool *pgxpool.Pool) *InterestRepo {
	return &InterestRepo{pool: pool}
}

func (r *InterestRepo) Create(ctx context.Context, userID, eventID int64, now time.Time) error {
	if userID <= 0 || eventID <= 0 {
		return fmt.Errorf("invalid interest payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := r.pool.Exec(ctx, `
INSERT INTO interests (user_id, event_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, event_id) DO NOTHING
`, userID, eventID, now.UTC())
	if err != nil {
		return fmt.Errorf("create interest: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrDuplicateInterest
	}

	return nil
}

func (r *InterestRepo) Delete(ctx context.Context, userID, eventID int64) (bool, error) {
	if userID <= 0 || eventID <= 0 {
		return false, fmt.Errorf("invalid interest payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM interests
WHERE user_id = $1 AND event_id = $2
`, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("delete interest: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *InterestRepo) ListEventIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT event_id
FROM interests
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list interest event ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan interest event id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate interest event ids: %w", rows.Err())
	}

	return ids, nil
}

func (r *InterestRepo) ListEventsForUser(ctx context.Context, userID int64) ([]EventRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []EventRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT e.id, e.title, e.category, e.event_date
FROM interests i
JOIN events e ON e.id = i.event_id
WHERE i.user_id = $1
ORDER BY i.created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list interest events: %w", err)
	}
	defer rows.Close()

	items := make([]EventRecord, 0, 16)
	for rows.Next() {
		var rec EventRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Category, &rec.EventDate); err != nil {
			return nil, fmt.Errorf("scan interest event: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate interest events: %w", rows.Err())
	}

	return items, nil
}

// ListShared returns every interest in the given events held by somebody
// other than the viewer and outside the excluded set, joined with the
// candidate's profile and the event summary.
func (r *InterestRepo) ListShared(ctx context.Context, viewerID int64, eventIDs, excludeUserIDs []int64) ([]SharedInterestRow, error) {
	if viewerID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if len(eventIDs) == 0 {
		return []SharedInterestRow{}, nil
	}
	if r.pool == nil {
		return []SharedInterestRow{}, nil
	}
	if excludeUserIDs == nil {
		excludeUserIDs = []int64{}
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	i.user_id,
	u.name,
	COALESCE(u.avatar_url, ''),
	COALESCE(u.bio, ''),
	COALESCE(u.fields, '{}'),
	e.id,
	e.title,
	e.category,
	e.event_date
FROM interests i
JOIN users u ON u.id = i.user_id
JOIN events e ON e.id = i.event_id
WHERE
	i.event_id = ANY($1)
	AND i.user_id <> $2
	AND NOT (i.user_id = ANY($3))
ORDER BY i.user_id, e.event_date
`, eventIDs, viewerID, excludeUserIDs)
	if err != nil {
		return nil, fmt.Errorf("list shared interests: %w", err)
	}
	defer rows.Close()

	items := make([]SharedInterestRow, 0, 32)
	for rows.Next() {
		var row SharedInterestRow
		if err := rows.Scan(
			&row.UserID,
			&row.Name,
			&row.AvatarURL,
			&row.Bio,
			&row.Fields,
			&row.EventID,
			&row.EventTitle,
			&row.Category,
			&row.EventDate,
		); err != nil {
			return nil, fmt.Errorf("scan shared interest: %w", err)
		}
		items = append(items, row)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate shared interests: %w", rows.Err())
	}

	return items, nil
}
