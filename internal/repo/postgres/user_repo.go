package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepo reads profile reference data owned by the account service. This
// backend never writes the users table.
type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID        int64
	Name      string
	Email     string
	AvatarURL string
	Bio       string
	Fields    []string
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, name, email, COALESCE(avatar_url, ''), COALESCE(bio, ''), COALESCE(fields, '{}')
FROM users
WHERE id = $1
`, userID).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.AvatarURL, &rec.Bio, &rec.Fields)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user: %w", err)
	}

	return rec, nil
}

// GetSummaries resolves profile summaries for a set of user ids. Missing ids
// are simply absent from the result map.
func (r *UserRepo) GetSummaries(ctx context.Context, userIDs []int64) (map[int64]UserRecord, error) {
	out := make(map[int64]UserRecord, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	if r.pool == nil {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, email, COALESCE(avatar_url, ''), COALESCE(bio, ''), COALESCE(fields, '{}')
FROM users
WHERE id = ANY($1)
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list user summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec UserRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.AvatarURL, &rec.Bio, &rec.Fields); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		out[rec.ID] = rec
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate user summaries: %w", rows.Err())
	}

	return out, nil
}
