package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), "email")
}

func (r *UserRepository) scanOne(row *sql.Row, by string) (model.User, error) {
	var (
		user      model.User
		id        string
		createdAt string
	)
	if err := row.Scan(&id, &user.Email, &user.PasswordHash, &user.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", by, err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, fmt.Errorf("invalid stored user id %q: %w", id, err)
	}
	user.ID = parsedID

	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(), user.Email, user.PasswordHash, user.Name, formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
