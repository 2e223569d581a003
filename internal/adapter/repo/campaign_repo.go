package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"giveflow/internal/domain"
	"giveflow/internal/sqlinline"
)

// CampaignRepositoryPG implements domain.CampaignRepository using PostgreSQL.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new campaign repo.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// All returns the full campaign catalog, newest first.
func (r *CampaignRepositoryPG) All(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QListCampaigns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches a campaign by UUID.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, sqlinline.QGetCampaign, id))
}

// IncrementRaised bumps the campaign's raised total in a single UPDATE,
// so concurrent donations never lose each other's increments, and
// returns the updated row.
func (r *CampaignRepositoryPG) IncrementRaised(ctx context.Context, id string, amount float64) (*domain.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, sqlinline.QIncrementRaised, id, amount))
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var creatorID *string
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Goal, &c.Raised, &c.Chains, &creatorID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if creatorID != nil {
		c.CreatorID = *creatorID
	}
	return &c, nil
}
