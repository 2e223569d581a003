package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"giveflow/internal/domain"
	"giveflow/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, sqlinline.QGetUser, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.DisplayName, &u.Email, &u.TotalDonated, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// IncrementTotalDonated bumps a creator's aggregate donated total.
func (r *UserRepositoryPG) IncrementTotalDonated(ctx context.Context, id string, amount float64) error {
	_, err := r.pool.Exec(ctx, sqlinline.QIncrementTotalDonated, id, amount)
	return err
}
