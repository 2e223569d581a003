package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"giveflow/internal/domain"
	"giveflow/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Create inserts a new donation record.
func (r *DonationRepositoryPG) Create(ctx context.Context, donation *domain.Donation) error {
	_, err := r.pool.Exec(ctx, sqlinline.QInsertDonation,
		donation.ID,
		donation.CampaignID,
		donation.DonorName,
		donation.Amount,
		donation.Chain,
		donation.Country,
		donation.CreatedAt,
	)
	return err
}

// ListRecent returns recent donations limited by the input value.
func (r *DonationRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QListRecentDonations, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var donation domain.Donation
		if err := rows.Scan(&donation.ID, &donation.CampaignID, &donation.DonorName, &donation.Amount, &donation.Chain, &donation.Country, &donation.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, donation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
