package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
)

type ReportRepositoryInterface interface {
	ListForExport(ctx context.Context, filter dto.ReportFilterDTO) ([]entities.Ticket, error)
}

type reportRepository struct{ storage *pgxpool.Pool }

func NewReportRepository(storage *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{storage: storage}
}

func (r *reportRepository) ListForExport(ctx context.Context, filter dto.ReportFilterDTO) ([]entities.Ticket, error) {
	b := sq.Select(
		"t.id", "t.subject", "t.type", "t.priority", "t.status",
		"cu.name", "cu.email", "COALESCE(co.name, '')",
		"COALESCE(en.name, '')", "t.created_at", "t.closed_at", "t.duration",
	).
		From("tickets t").
		Join("users cu ON cu.id = t.customer_id").
		LeftJoin("companies co ON co.id = t.company_id").
		LeftJoin("users en ON en.id = t.engineer_id").
		OrderBy("t.created_at DESC")

	if filter.Status != "" {
		b = b.Where(sq.Eq{"t.status": filter.Status})
	}
	if filter.Priority != "" {
		b = b.Where(sq.Eq{"t.priority": filter.Priority})
	}
	if filter.Company != "" {
		b = b.Where("LOWER(co.name) = LOWER(?)", filter.Company)
	}
	if filter.From != "" {
		if from, err := time.Parse("2006-01-02", filter.From); err == nil {
			b = b.Where(sq.GtOrEq{"t.created_at": from})
		}
	}
	if filter.To != "" {
		if to, err := time.Parse("2006-01-02", filter.To); err == nil {
			b = b.Where(sq.Lt{"t.created_at": to.AddDate(0, 0, 1)})
		}
	}

	query, args, err := b.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]entities.Ticket, 0)
	for rows.Next() {
		var t entities.Ticket
		var companyName, engineerName string
		var closedAt *time.Time
		var duration *int
		var createdAt time.Time
		if err := rows.Scan(&t.ID, &t.Subject, &t.Type, &t.Priority, &t.Status,
			&t.RequesterName, &t.RequesterEmail, &companyName,
			&engineerName, &createdAt, &closedAt, &duration); err != nil {
			return nil, err
		}
		t.CreatedAt = &createdAt
		t.ClosedAt = closedAt
		t.Duration = duration
		if companyName != "" {
			t.RequesterCompany = &companyName
		}
		if engineerName != "" {
			t.EngineerName = &engineerName
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
