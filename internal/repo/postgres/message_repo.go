package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

type MessageRecord struct {
	ID        int64
	BuddyID   int64
	SenderID  int64
	Body      string
	Read      bool
	CreatedAt time.Time
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, buddyID, senderID int64, body string, now time.Time) (MessageRecord, error) {
	if buddyID <= 0 || senderID <= 0 || body == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec MessageRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (buddy_id, sender_id, body, read, created_at)
VALUES ($1, $2, $3, FALSE, $4)
RETURNING id, buddy_id, sender_id, body, read, created_at
`, buddyID, senderID, body, now.UTC()).Scan(
		&rec.ID,
		&rec.BuddyID,
		&rec.SenderID,
		&rec.Body,
		&rec.Read,
		&rec.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("create message: %w", err)
	}

	return rec, nil
}

// ListForBuddy returns the newest messages of the conversation, capped at
// limit, reordered oldest first for the client. Selecting the tail keeps a
// just-sent message visible once history outgrows the cap.
func (r *MessageRepo) ListForBuddy(ctx context.Context, buddyID int64, limit int) ([]MessageRecord, error) {
	if buddyID <= 0 {
		return nil, fmt.Errorf("invalid buddy id")
	}
	limit = normalizeHistoryLimit(limit)
	if r.pool == nil {
		return []MessageRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, buddy_id, sender_id, body, read, created_at
FROM messages
WHERE buddy_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, buddyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, 32)
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.BuddyID,
			&rec.SenderID,
			&rec.Body,
			&rec.Read,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	reverseMessages(items)
	return items, nil
}

func normalizeHistoryLimit(limit int) int {
	if limit <= 0 {
		return 200
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func reverseMessages(items []MessageRecord) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// MarkRead flags the counterpart's messages as read up to now.
func (r *MessageRepo) MarkRead(ctx context.Context, buddyID, readerID int64) (int64, error) {
	if buddyID <= 0 || readerID <= 0 {
		return 0, fmt.Errorf("invalid mark read payload")
	}
	if r.pool == nil {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE messages
SET read = TRUE
WHERE buddy_id = $1 AND sender_id <> $2 AND read = FALSE
`, buddyID, readerID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return tag.RowsAffected(), nil
}
