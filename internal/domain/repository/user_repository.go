package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	SetEmailVerifyToken(ctx context.Context, id int64, token string, expires time.Time) error
	ConsumeEmailVerifyToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*model.User, error)
}

const userColumns = `id, username, email, password_hash, name, is_admin, profile_image,
	email_verified, email_verify_token, email_verify_expires, reset_token, reset_token_expires,
	created_at, updated_at, deleted_at`

var errUserNotFound = notFound("User not found")

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.IsAdmin, &u.ProfileImage,
		&u.EmailVerified, &u.EmailVerifyToken, &u.EmailVerifyExpires, &u.ResetToken, &u.ResetTokenExpires,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	return u, err
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, name, is_admin, profile_image)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Name, user.IsAdmin, user.ProfileImage,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if common.IsPgCode(err, common.PgUniqueViolation) {
			return conflict("Username or email already exists")
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) findOne(ctx context.Context, op, column string, arg any) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1 AND ` + notDeleted("")
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return &user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "FindByID", "id", id)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "FindByUsername", "username", username)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "FindByEmail", "email", email)
}

func (r *pgUserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + notDeleted("") + ` ORDER BY id`
	return queryList(ctx, r.db, "pgUserRepository.List", scanUser, query)
}

func (r *pgUserRepository) Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	query := `UPDATE users SET
	              username = COALESCE($2, username),
	              email = COALESCE($3, email),
	              name = COALESCE($4, name),
	              is_admin = COALESCE($5, is_admin),
	              updated_at = NOW()
	          WHERE id = $1 AND ` + notDeleted("") + `
	          RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, upd.Username, upd.Email, upd.Name, upd.IsAdmin))
	if err != nil {
		if noRows(err) {
			return nil, errUserNotFound
		}
		if common.IsPgCode(err, common.PgUniqueViolation) {
			return nil, conflict("Username or email already exists")
		}
		return nil, fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	return &user, nil
}

// SoftDelete marks the user deleted. A user that is already deleted reports
// not found and keeps its original deletion time.
func (r *pgUserRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SoftDelete: %w", err)
	}
	return expectAffected(res, errUserNotFound)
}

func (r *pgUserRepository) SetEmailVerifyToken(ctx context.Context, id int64, token string, expires time.Time) error {
	query := `UPDATE users SET email_verify_token = $2, email_verify_expires = $3, updated_at = NOW()
	          WHERE id = $1 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, query, id, token, expires)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetEmailVerifyToken: %w", err)
	}
	return expectAffected(res, errUserNotFound)
}

// ConsumeEmailVerifyToken marks the owner of an unexpired token verified and
// clears the token pair in the same statement.
func (r *pgUserRepository) ConsumeEmailVerifyToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	query := `UPDATE users SET email_verified = TRUE, email_verify_token = NULL, email_verify_expires = NULL, updated_at = NOW()
	          WHERE email_verify_token = $1 AND email_verify_expires > $2 AND ` + notDeleted("") + `
	          RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, token, now))
	if err != nil {
		if noRows(err) {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("pgUserRepository.ConsumeEmailVerifyToken: %w", err)
	}
	return &user, nil
}

func (r *pgUserRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	query := `UPDATE users SET reset_token = $2, reset_token_expires = $3, updated_at = NOW()
	          WHERE id = $1 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, query, id, token, expires)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetResetToken: %w", err)
	}
	return expectAffected(res, errUserNotFound)
}

// ConsumeResetToken replaces the password hash of the owner of an unexpired
// reset token and clears the token pair in the same statement.
func (r *pgUserRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*model.User, error) {
	query := `UPDATE users SET password_hash = $3, reset_token = NULL, reset_token_expires = NULL, updated_at = NOW()
	          WHERE reset_token = $1 AND reset_token_expires > $2 AND ` + notDeleted("") + `
	          RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, token, now, passwordHash))
	if err != nil {
		if noRows(err) {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("pgUserRepository.ConsumeResetToken: %w", err)
	}
	return &user, nil
}
