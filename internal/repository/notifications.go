package repository

import (
	"context"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
)

func (r *Repository) InsertNotification(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{n.UserID, n.Type, n.Title, n.Message}
	dst := []any{&n.ID, &n.IsRead, &n.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListNotificationsByUserID(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	query := `
		SELECT id, type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{
			UserID: userID,
		}
		dst := []any{&n.ID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
