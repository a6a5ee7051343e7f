package repositories

import (
	"context"
	"database/sql"

	"supportdesk/internal/entities"
	"supportdesk/pkg/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BundleRepositoryInterface interface {
	Insert(ctx context.Context, bundle *entities.Bundle) (int64, error)
	SumBySource(ctx context.Context, companyID int64, month, source string) (int, error)
	HasCarry(ctx context.Context, companyID int64, month string) (bool, error)
	ListByCompany(ctx context.Context, companyID int64) ([]entities.Bundle, error)
	HasOverride(ctx context.Context, companyID int64, month string) (bool, error)
	InsertOverride(ctx context.Context, companyID int64, month string) error
}

type bundleRepository struct{ storage *pgxpool.Pool }

func NewBundleRepository(storage *pgxpool.Pool) BundleRepositoryInterface {
	return &bundleRepository{storage: storage}
}

func (r *bundleRepository) Insert(ctx context.Context, bundle *entities.Bundle) (int64, error) {
	query := `
		INSERT INTO bundles (company_id, month, additional_tickets, source, added_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.storage.QueryRow(ctx, query,
		bundle.CompanyID, bundle.Month, bundle.AdditionalTickets, bundle.Source, bundle.AddedBy,
	).Scan(&bundle.ID, &bundle.CreatedAt)
	if err != nil {
		return 0, err
	}
	return bundle.ID, nil
}

func (r *bundleRepository) SumBySource(ctx context.Context, companyID int64, month, source string) (int, error) {
	query := `
		SELECT COALESCE(SUM(additional_tickets), 0) FROM bundles
		WHERE company_id = $1 AND month = $2 AND source = $3`
	var sum int
	if err := r.storage.QueryRow(ctx, query, companyID, month, source).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *bundleRepository) HasCarry(ctx context.Context, companyID int64, month string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM bundles WHERE company_id = $1 AND month = $2 AND source = $3)"
	var exists bool
	if err := r.storage.QueryRow(ctx, query, companyID, month, constants.BundleSourceCarry).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *bundleRepository) ListByCompany(ctx context.Context, companyID int64) ([]entities.Bundle, error) {
	query := `
		SELECT id, company_id, month, additional_tickets, source, added_by, created_at
		FROM bundles WHERE company_id = $1 ORDER BY month DESC, created_at DESC`
	rows, err := r.storage.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bundles := make([]entities.Bundle, 0)
	for rows.Next() {
		var b entities.Bundle
		var addedBy sql.NullString
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.Month, &b.AdditionalTickets, &b.Source, &addedBy, &b.CreatedAt); err != nil {
			return nil, err
		}
		if addedBy.Valid {
			b.AddedBy = &addedBy.String
		}
		bundles = append(bundles, b)
	}
	return bundles, rows.Err()
}

func (r *bundleRepository) HasOverride(ctx context.Context, companyID int64, month string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM quota_overrides WHERE company_id = $1 AND month = $2)"
	var exists bool
	if err := r.storage.QueryRow(ctx, query, companyID, month).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *bundleRepository) InsertOverride(ctx context.Context, companyID int64, month string) error {
	query := `
		INSERT INTO quota_overrides (company_id, month)
		VALUES ($1, $2)
		ON CONFLICT (company_id, month) DO NOTHING`
	_, err := r.storage.Exec(ctx, query, companyID, month)
	return err
}
