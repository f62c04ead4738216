package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBuddyNotFound      = errors.New("buddy not found")
	ErrPairAlreadyMatched = errors.New("accepted buddy already exists for this pair")
)

const (
	BuddyStatusPending  = "pending"
	BuddyStatusAccepted = "accepted"
	BuddyStatusDeclined = "declined"

	BuddyOriginSwipe   = "swipe"
	BuddyOriginRequest = "request"
)

const uniqueViolationCode = "23505"

type BuddyRepo struct {
	pool *pgxpool.Pool
}

type BuddyRecord struct {
	ID          int64
	EventID     int64
	UserAID     int64
	UserBID     int64
	RequesterID int64
	AccepterID  int64
	Status      string
	Origin      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Participants returns both members of the pairing.
func (b BuddyRecord) Participants() (int64, int64) {
	return b.UserAID, b.UserBID
}

// HasParticipant reports whether the user belongs to the pairing.
func (b BuddyRecord) HasParticipant(userID int64) bool {
	return userID == b.UserAID || userID == b.UserBID
}

// OtherParticipant returns the member that is not the given user.
func (b BuddyRecord) OtherParticipant(userID int64) int64 {
	if userID == b.UserAID {
		return b.UserBID
	}
	return b.UserAID
}

func NewBuddyRepo(pool *pgxpool.Pool) *BuddyRepo {
	return &BuddyRepo{pool: pool}
}

func sortPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// LockPair serializes writers for one (event, unordered pair) inside the
// current transaction. Both swipe directions hash to the same advisory lock
// key, so the second writer blocks until the first commits and then observes
// its committed like. Released automatically at transaction end.
func (r *BuddyRepo) LockPair(ctx context.Context, tx pgx.Tx, eventID, userOne, userTwo int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	userA, userB := sortPair(userOne, userTwo)
	key := fmt.Sprintf("buddies:%d:%d:%d", eventID, userA, userB)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("lock buddy pair: %w", err)
	}
	return nil
}

// CreateOrGetAccepted is the single dedup authority for the mutual-swipe
// path: insert-if-absent against the partial unique index on accepted
// pairings, falling back to the surviving row when another writer got there
// first. created reports whether this call inserted the row.
func (r *BuddyRepo) CreateOrGetAccepted(ctx context.Context, tx pgx.Tx, eventID, requesterID, accepterID int64, now time.Time) (BuddyRecord, bool, error) {
	if eventID <= 0 || requesterID <= 0 || accepterID <= 0 || requesterID == accepterID {
		return BuddyRecord{}, false, fmt.Errorf("invalid buddy payload")
	}
	if tx == nil {
		return BuddyRecord{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	userA, userB := sortPair(requesterID, accepterID)

	var rec BuddyRecord
	err := tx.QueryRow(ctx, `
INSERT INTO buddies (
	event_id,
	user_a_id,
	user_b_id,
	requester_id,
	accepter_id,
	status,
	origin,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, 'accepted', 'swipe', $6, $6)
ON CONFLICT (event_id, user_a_id, user_b_id) WHERE status = 'accepted' DO NOTHING
RETURNING id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
`, eventID, userA, userB, requesterID, accepterID, now.UTC()).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.RequesterID,
		&rec.AccepterID,
		&rec.Status,
		&rec.Origin,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return BuddyRecord{}, false, fmt.Errorf("create accepted buddy: %w", err)
	}

	err = tx.QueryRow(ctx, `
SELECT id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
FROM buddies
WHERE event_id = $1 AND user_a_id = $2 AND user_b_id = $3 AND status = 'accepted'
`, eventID, userA, userB).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.RequesterID,
		&rec.AccepterID,
		&rec.Status,
		&rec.Origin,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return BuddyRecord{}, false, fmt.Errorf("get existing accepted buddy: %w", err)
	}

	return rec, false, nil
}

func (r *BuddyRepo) CreateRequest(ctx context.Context, eventID, requesterID, accepterID int64, now time.Time) (BuddyRecord, error) {
	if eventID <= 0 || requesterID <= 0 || accepterID <= 0 || requesterID == accepterID {
		return BuddyRecord{}, fmt.Errorf("invalid buddy request payload")
	}
	if r.pool == nil {
		return BuddyRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	userA, userB := sortPair(requesterID, accepterID)

	var rec BuddyRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO buddies (
	event_id,
	user_a_id,
	user_b_id,
	requester_id,
	accepter_id,
	status,
	origin,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, 'pending', 'request', $6, $6)
RETURNING id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
`, eventID, userA, userB, requesterID, accepterID, now.UTC()).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.RequesterID,
		&rec.AccepterID,
		&rec.Status,
		&rec.Origin,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return BuddyRecord{}, fmt.Errorf("create buddy request: %w", err)
	}

	return rec, nil
}

func (r *BuddyRepo) GetByID(ctx context.Context, buddyID int64) (BuddyRecord, error) {
	if buddyID <= 0 {
		return BuddyRecord{}, fmt.Errorf("invalid buddy id")
	}
	if r.pool == nil {
		return BuddyRecord{}, ErrBuddyNotFound
	}

	var rec BuddyRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
FROM buddies
WHERE id = $1
`, buddyID).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.RequesterID,
		&rec.AccepterID,
		&rec.Status,
		&rec.Origin,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BuddyRecord{}, ErrBuddyNotFound
		}
		return BuddyRecord{}, fmt.Errorf("get buddy: %w", err)
	}

	return rec, nil
}

// UpdateStatus transitions a request. Accepting runs into the partial unique
// index when an accepted pairing already exists for the pair, which surfaces
// as ErrPairAlreadyMatched.
func (r *BuddyRepo) UpdateStatus(ctx context.Context, buddyID int64, status string, now time.Time) (BuddyRecord, error) {
	if buddyID <= 0 {
		return BuddyRecord{}, fmt.Errorf("invalid buddy id")
	}
	if status != BuddyStatusAccepted && status != BuddyStatusDeclined {
		return BuddyRecord{}, fmt.Errorf("invalid buddy status %q", status)
	}
	if r.pool == nil {
		return BuddyRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec BuddyRecord
	err := r.pool.QueryRow(ctx, `
UPDATE buddies
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
`, buddyID, status, now.UTC()).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.RequesterID,
		&rec.AccepterID,
		&rec.Status,
		&rec.Origin,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BuddyRecord{}, ErrBuddyNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return BuddyRecord{}, ErrPairAlreadyMatched
		}
		return BuddyRecord{}, fmt.Errorf("update buddy status: %w", err)
	}

	return rec, nil
}

// ListForUser returns every pairing the user belongs to, newest first.
func (r *BuddyRepo) ListForUser(ctx context.Context, userID int64) ([]BuddyRecord, error) {
	return r.list(ctx, `
SELECT id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
FROM buddies
WHERE user_a_id = $1 OR user_b_id = $1
ORDER BY created_at DESC, id DESC
`, userID)
}

// ListAcceptedForUser returns the user's confirmed pairings, newest first.
func (r *BuddyRepo) ListAcceptedForUser(ctx context.Context, userID int64) ([]BuddyRecord, error) {
	return r.list(ctx, `
SELECT id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
FROM buddies
WHERE (user_a_id = $1 OR user_b_id = $1) AND status = 'accepted'
ORDER BY created_at DESC, id DESC
`, userID)
}

// ListAcceptedForEvent returns the confirmed pairings for one event.
func (r *BuddyRepo) ListAcceptedForEvent(ctx context.Context, eventID int64) ([]BuddyRecord, error) {
	return r.list(ctx, `
SELECT id, event_id, user_a_id, user_b_id, requester_id, accepter_id, status, origin, created_at, updated_at
FROM buddies
WHERE event_id = $1 AND status = 'accepted'
ORDER BY created_at DESC, id DESC
`, eventID)
}

func (r *BuddyRepo) list(ctx context.Context, query string, arg int64) ([]BuddyRecord, error) {
	if arg <= 0 {
		return nil, fmt.Errorf("invalid list argument")
	}
	if r.pool == nil {
		return []BuddyRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list buddies: %w", err)
	}
	defer rows.Close()

	items := make([]BuddyRecord, 0, 16)
	for rows.Next() {
		var rec BuddyRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.EventID,
			&rec.UserAID,
			&rec.UserBID,
			&rec.RequesterID,
			&rec.AccepterID,
			&rec.Status,
			&rec.Origin,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan buddy: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate buddies: %w", rows.Err())
	}

	return items, nil
}
