package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"canteen/internal/model"
	"canteen/internal/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, login, name, phone, role, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Login, u.Name, u.Phone, u.Role, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, login, name, phone, role, password_hash, created_at FROM users WHERE login = $1`, login,
	).Scan(&u.ID, &u.Login, &u.Name, &u.Phone, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, repository.ErrNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Add(ctx context.Context, f model.Feedback) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (id, user_id, user_name, rating, body, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.UserID, f.User, f.Rating, f.Text, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, user_name, rating, body, created_at FROM feedback ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var out []model.Feedback
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.User, &f.Rating, &f.Text, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}
