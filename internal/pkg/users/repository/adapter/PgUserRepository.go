package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (users.User, error) {
	if r == nil || r.pool == nil {
		return users.User{}, errors.New("PgUserRepository: nil pool")
	}
	var u users.User
	err := r.pool.QueryRow(ctx,
		"SELECT id, username, created_at FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return users.User{}, users.ErrUserNotFound
	}
	if err != nil {
		return users.User{}, err
	}
	return u, nil
}
