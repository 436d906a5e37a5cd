package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type FriendshipRepository interface {
	ListAccepted(ctx context.Context, userID int64) ([]model.Friendship, error)
	ListIncomingPending(ctx context.Context, userID int64) ([]model.Friendship, error)
	ListOutgoingPending(ctx context.Context, userID int64) ([]model.Friendship, error)
	ListBlocked(ctx context.Context, userID int64) ([]model.Friendship, error)
	FindByID(ctx context.Context, id int64) (*model.Friendship, error)
	// Create opens a pending request from userID to friendID. A pair that
	// already exists in either direction is a conflict.
	Create(ctx context.Context, userID, friendID int64) (*model.Friendship, error)
	// UpdateStatus and Delete only match friendships userID takes part in.
	UpdateStatus(ctx context.Context, id, userID int64, status model.FriendshipStatus) (*model.Friendship, error)
	Delete(ctx context.Context, id, userID int64) error
}

var errFriendshipNotFound = notFound("Friendship not found")

var friendshipSelect = `SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at, f.updated_at,
	       u.id, u.username, u.profile_image,
	       fr.id, fr.username, fr.profile_image
	FROM friendships f
	JOIN users u ON u.id = f.user_id AND ` + notDeleted("u") + `
	JOIN users fr ON fr.id = f.friend_id AND ` + notDeleted("fr")

type pgFriendshipRepository struct {
	db *sql.DB
}

func NewPgFriendshipRepository(db *sql.DB) FriendshipRepository {
	return &pgFriendshipRepository{db: db}
}

func scanFriendship(row rowScanner) (model.Friendship, error) {
	var f model.Friendship
	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt, &f.UpdatedAt,
		&f.User.ID, &f.User.Username, &f.User.ProfileImage,
		&f.Friend.ID, &f.Friend.Username, &f.Friend.ProfileImage)
	return f, err
}

func (r *pgFriendshipRepository) list(ctx context.Context, op, where string, args ...any) ([]model.Friendship, error) {
	return queryList(ctx, r.db, "pgFriendshipRepository."+op, scanFriendship,
		friendshipSelect+` WHERE `+where+` ORDER BY f.created_at DESC`, args...)
}

func (r *pgFriendshipRepository) ListAccepted(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return r.list(ctx, "ListAccepted", `(f.user_id = $1 OR f.friend_id = $1) AND f.status = $2`,
		userID, model.FriendshipAccepted)
}

func (r *pgFriendshipRepository) ListIncomingPending(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return r.list(ctx, "ListIncomingPending", `f.friend_id = $1 AND f.status = $2`, userID, model.FriendshipPending)
}

func (r *pgFriendshipRepository) ListOutgoingPending(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return r.list(ctx, "ListOutgoingPending", `f.user_id = $1 AND f.status = $2`, userID, model.FriendshipPending)
}

func (r *pgFriendshipRepository) ListBlocked(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return r.list(ctx, "ListBlocked", `f.user_id = $1 AND f.status = $2`, userID, model.FriendshipBlocked)
}

func (r *pgFriendshipRepository) FindByID(ctx context.Context, id int64) (*model.Friendship, error) {
	f, err := scanFriendship(r.db.QueryRowContext(ctx, friendshipSelect+` WHERE f.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, errFriendshipNotFound
		}
		return nil, fmt.Errorf("pgFriendshipRepository.FindByID: %w", err)
	}
	return &f, nil
}

func (r *pgFriendshipRepository) Create(ctx context.Context, userID, friendID int64) (*model.Friendship, error) {
	query := `INSERT INTO friendships (user_id, friend_id, status)
	          SELECT $1, $2, $3
	          WHERE NOT EXISTS (SELECT 1 FROM friendships WHERE user_id = $2 AND friend_id = $1)
	          RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, friendID, model.FriendshipPending).Scan(&id)
	if err != nil {
		switch {
		case noRows(err), common.IsPgCode(err, common.PgUniqueViolation):
			return nil, conflict("Friendship already exists")
		case common.IsPgCode(err, common.PgForeignKeyViolation):
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("pgFriendshipRepository.Create: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *pgFriendshipRepository) UpdateStatus(ctx context.Context, id, userID int64, status model.FriendshipStatus) (*model.Friendship, error) {
	query := `UPDATE friendships SET status = $3, updated_at = NOW()
	          WHERE id = $1 AND (user_id = $2 OR friend_id = $2)`
	res, err := r.db.ExecContext(ctx, query, id, userID, status)
	if err != nil {
		return nil, fmt.Errorf("pgFriendshipRepository.UpdateStatus: %w", err)
	}
	if err := expectAffected(res, errFriendshipNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *pgFriendshipRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM friendships WHERE id = $1 AND (user_id = $2 OR friend_id = $2)`, id, userID)
	if err != nil {
		return fmt.Errorf("pgFriendshipRepository.Delete: %w", err)
	}
	return expectAffected(res, errFriendshipNotFound)
}
