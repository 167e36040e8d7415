package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const campaignColumns = `id, title, description, goal_amount, raised_amount, deadline, image_url, status, created_by_id, created_at, updated_at`

// CampaignRepositoryPG implements domain.CampaignRepository backed by PostgreSQL.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new CampaignRepositoryPG.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// Create inserts a new campaign row.
func (r *CampaignRepositoryPG) Create(ctx context.Context, c *domain.Campaign) error {
	row := r.pool.QueryRow(ctx, `
INSERT INTO campaigns (id, title, description, goal_amount, raised_amount, deadline, image_url, status, created_by_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at;
`, c.ID, c.Title, c.Description, c.GoalAmount, c.RaisedAmount, c.Deadline, c.ImageURL, c.Status, c.CreatedByID)
	return row.Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a campaign by UUID.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	return scanCampaign(row)
}

// List returns campaigns matching the filter, newest first.
func (r *CampaignRepositoryPG) List(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CreatedByID != "" {
		args = append(args, filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_id = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Update persists the owner-editable fields. raised_amount is intentionally
// not in the column list; only the donation ledger writes it.
func (r *CampaignRepositoryPG) Update(ctx context.Context, c *domain.Campaign) error {
	row := r.pool.QueryRow(ctx, `
UPDATE campaigns
SET title = $2, description = $3, goal_amount = $4, deadline = $5, image_url = $6, status = $7, updated_at = NOW()
WHERE id = $1
RETURNING raised_amount, updated_at;
`, c.ID, c.Title, c.Description, c.GoalAmount, c.Deadline, c.ImageURL, c.Status)

	if err := row.Scan(&c.RaisedAmount, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes a campaign together with its donations in one transaction.
// The schema also carries ON DELETE CASCADE; deleting donations explicitly
// keeps the policy visible at the call site.
func (r *CampaignRepositoryPG) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM donations WHERE campaign_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.GoalAmount, &c.RaisedAmount, &c.Deadline, &c.ImageURL, &c.Status, &c.CreatedByID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
