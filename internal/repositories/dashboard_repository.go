package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/pkg/constants"
)

type DashboardRepositoryInterface interface {
	GetStatusCounts(ctx context.Context) (map[string]int64, error)
	GetCountByPriority(ctx context.Context) ([]dto.CountByLabelDTO, error)
	GetCountByType(ctx context.Context) ([]dto.CountByLabelDTO, error)
	GetCountByCompany(ctx context.Context) ([]dto.CountByLabelDTO, error)
	GetClosedPerMonth(ctx context.Context) ([]dto.CountByLabelDTO, error)
	GetEngineerStats(ctx context.Context) ([]dto.EngineerStatDTO, error)
	GetAvgResolutionMinutes(ctx context.Context) (float64, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func (r *DashboardRepository) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	query, args, err := sq.Select("status", "COUNT(*)").
		From("tickets").
		GroupBy("status").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *DashboardRepository) GetCountByPriority(ctx context.Context) ([]dto.CountByLabelDTO, error) {
	b := sq.Select("priority as label", "COUNT(*) as count").
		From("tickets").
		GroupBy("priority").
		OrderBy("count DESC")
	return r.countByLabel(ctx, b)
}

func (r *DashboardRepository) GetCountByType(ctx context.Context) ([]dto.CountByLabelDTO, error) {
	b := sq.Select("type as label", "COUNT(*) as count").
		From("tickets").
		GroupBy("type")
	return r.countByLabel(ctx, b)
}

func (r *DashboardRepository) GetCountByCompany(ctx context.Context) ([]dto.CountByLabelDTO, error) {
	b := sq.Select("COALESCE(co.name, 'No company') as label", "COUNT(*) as count").
		From("tickets t").
		LeftJoin("companies co ON co.id = t.company_id").
		GroupBy("co.name").
		OrderBy("count DESC")
	return r.countByLabel(ctx, b)
}

func (r *DashboardRepository) GetClosedPerMonth(ctx context.Context) ([]dto.CountByLabelDTO, error) {
	b := sq.Select("TO_CHAR(closed_at, 'YYYY-MM') as label", "COUNT(*) as count").
		From("tickets").
		Where(sq.Eq{"status": constants.StatusClosed}).
		Where(sq.NotEq{"closed_at": nil}).
		GroupBy("TO_CHAR(closed_at, 'YYYY-MM')").
		OrderBy("label")
	return r.countByLabel(ctx, b)
}

func (r *DashboardRepository) GetEngineerStats(ctx context.Context) ([]dto.EngineerStatDTO, error) {
	query, args, err := sq.Select(
		"u.name",
		"COUNT(*) FILTER (WHERE t.status = 'Ongoing') as ongoing",
		"COUNT(*) FILTER (WHERE t.status = 'Closed') as closed",
	).
		From("tickets t").
		Join("users u ON u.id = t.engineer_id").
		GroupBy("u.name").
		OrderBy("u.name").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dto.EngineerStatDTO, 0)
	for rows.Next() {
		var stat dto.EngineerStatDTO
		if err := rows.Scan(&stat.Name, &stat.Ongoing, &stat.Closed); err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

func (r *DashboardRepository) GetAvgResolutionMinutes(ctx context.Context) (float64, error) {
	query, args, err := sq.Select("COALESCE(AVG(duration), 0)").
		From("tickets").
		Where(sq.Eq{"status": constants.StatusClosed}).
		Where(sq.NotEq{"duration": nil}).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var avg float64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *DashboardRepository) countByLabel(ctx context.Context, b sq.SelectBuilder) ([]dto.CountByLabelDTO, error) {
	query, args, err := b.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dto.CountByLabelDTO, 0)
	for rows.Next() {
		var item dto.CountByLabelDTO
		if err := rows.Scan(&item.Label, &item.Count); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
