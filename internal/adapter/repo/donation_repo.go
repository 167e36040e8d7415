package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository backed by PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new DonationRepositoryPG.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Record appends the donation and increments the campaign's raised amount as
// one transaction. The increment happens inside the UPDATE statement, so
// concurrent donations against the same campaign serialize on the row and the
// running total stays exact. If the campaign row is gone by the time the
// UPDATE runs, the whole transaction rolls back and no donation survives.
func (r *DonationRepositoryPG) Record(ctx context.Context, d *domain.Donation) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
INSERT INTO donations (id, amount, donor_id, campaign_id, donor_country)
VALUES ($1, $2, $3, $4, $5)
RETURNING donated_at;
`, d.ID, d.Amount, d.DonorID, d.CampaignID, d.DonorCountry)
	if err := row.Scan(&d.DonatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE campaigns SET raised_amount = raised_amount + $2, updated_at = NOW()
WHERE id = $1;
`, d.CampaignID, d.Amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

// ListByDonor returns the donor's donations, newest first, with campaign
// summaries attached. Ties on donated_at break by id to keep the order stable.
func (r *DonationRepositoryPG) ListByDonor(ctx context.Context, donorID string) ([]domain.DonorDonation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT d.id, d.amount, d.donor_id, d.campaign_id, d.donor_country, d.donated_at,
       c.title, c.image_url, c.status
FROM donations d
JOIN campaigns c ON c.id = d.campaign_id
WHERE d.donor_id = $1
ORDER BY d.donated_at DESC, d.id DESC;
`, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.DonorDonation
	for rows.Next() {
		var dd domain.DonorDonation
		if err := rows.Scan(&dd.ID, &dd.Amount, &dd.DonorID, &dd.CampaignID, &dd.DonorCountry, &dd.DonatedAt,
			&dd.CampaignTitle, &dd.CampaignImageURL, &dd.CampaignStatus); err != nil {
			return nil, err
		}
		items = append(items, dd)
	}
	return items, rows.Err()
}

// ListByCampaign returns the campaign's donations, newest first, with donor
// display names attached.
func (r *DonationRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.CampaignDonation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT d.id, d.amount, d.donor_id, d.campaign_id, d.donor_country, d.donated_at, u.name
FROM donations d
JOIN users u ON u.id = d.donor_id
WHERE d.campaign_id = $1
ORDER BY d.donated_at DESC, d.id DESC;
`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CampaignDonation
	for rows.Next() {
		var cd domain.CampaignDonation
		if err := rows.Scan(&cd.ID, &cd.Amount, &cd.DonorID, &cd.CampaignID, &cd.DonorCountry, &cd.DonatedAt, &cd.DonorName); err != nil {
			return nil, err
		}
		items = append(items, cd)
	}
	return items, rows.Err()
}

// CountryBreakdown aggregates the campaign's donations by donor country.
// Donations without a resolved country group under the empty code.
func (r *DonationRepositoryPG) CountryBreakdown(ctx context.Context, campaignID string) ([]domain.CountrySupporters, error) {
	rows, err := r.pool.Query(ctx, `
SELECT donor_country, COUNT(*), COALESCE(SUM(amount), 0)
FROM donations
WHERE campaign_id = $1
GROUP BY donor_country
ORDER BY COUNT(*) DESC, donor_country ASC;
`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CountrySupporters
	for rows.Next() {
		var cs domain.CountrySupporters
		if err := rows.Scan(&cs.Country, &cs.Donations, &cs.Amount); err != nil {
			return nil, err
		}
		items = append(items, cs)
	}
	return items, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
