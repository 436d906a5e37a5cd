package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type NotificationRepository interface {
	// List returns one page of the user's notifications, newest first, and
	// the total number matching.
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]model.Notification, int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	Create(ctx context.Context, n *model.Notification) error
	CreateMany(ctx context.Context, ns []model.Notification) (int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) error
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}

var errNotificationNotFound = notFound("Notification not found")

const notificationColumns = `id, user_id, title, message, type, metadata, is_read, created_at`

type pgNotificationRepository struct {
	db *sql.DB
}

func NewPgNotificationRepository(db *sql.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

func scanNotification(row rowScanner) (model.Notification, error) {
	var (
		n    model.Notification
		meta []byte
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &meta, &n.IsRead, &n.CreatedAt); err != nil {
		return n, err
	}
	if len(meta) > 0 {
		n.Metadata = &model.NotificationMetadata{}
		if err := json.Unmarshal(meta, n.Metadata); err != nil {
			return n, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return n, nil
}

func encodeMetadata(meta *model.NotificationMetadata) (any, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func (r *pgNotificationRepository) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]model.Notification, int, error) {
	where := `user_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE `+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgNotificationRepository.List: count: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	items, err := queryList(ctx, r.db, "pgNotificationRepository.List", scanNotification, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *pgNotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.CountUnread: %w", err)
	}
	return count, nil
}

const insertNotification = `INSERT INTO notifications (user_id, title, message, type, metadata)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, is_read, created_at`

func (r *pgNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	meta, err := encodeMetadata(n.Metadata)
	if err != nil {
		return err
	}
	err = r.db.QueryRowContext(ctx, insertNotification, n.UserID, n.Title, n.Message, n.Type, meta).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if common.IsPgCode(err, common.PgForeignKeyViolation) {
			return errUserNotFound
		}
		return fmt.Errorf("pgNotificationRepository.Create: %w", err)
	}
	return nil
}

// CreateMany inserts every notification or none of them.
func (r *pgNotificationRepository) CreateMany(ctx context.Context, ns []model.Notification) (int, error) {
	if len(ns) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.CreateMany: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertNotification)
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.CreateMany: prepare: %w", err)
	}
	defer stmt.Close()

	for i := range ns {
		meta, err := encodeMetadata(ns[i].Metadata)
		if err != nil {
			return 0, err
		}
		err = stmt.QueryRowContext(ctx, ns[i].UserID, ns[i].Title, ns[i].Message, ns[i].Type, meta).
			Scan(&ns[i].ID, &ns[i].IsRead, &ns[i].CreatedAt)
		if err != nil {
			if common.IsPgCode(err, common.PgForeignKeyViolation) {
				return 0, notFound(fmt.Sprintf("User %d not found", ns[i].UserID))
			}
			return 0, fmt.Errorf("pgNotificationRepository.CreateMany: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.CreateMany: commit: %w", err)
	}
	return len(ns), nil
}

func (r *pgNotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.MarkRead: %w", err)
	}
	return expectAffected(res, errNotificationNotFound)
}

func (r *pgNotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.MarkAllRead: %w", err)
	}
	return res.RowsAffected()
}

func (r *pgNotificationRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.Delete: %w", err)
	}
	return expectAffected(res, errNotificationNotFound)
}

func (r *pgNotificationRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.DeleteAll: %w", err)
	}
	return res.RowsAffected()
}
