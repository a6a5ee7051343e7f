package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"supportdesk/internal/entities"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ticketTable  = "tickets"
	ticketFields = `t.id, t.subject, t.type, t.description, t.priority, t.status,
		t.customer_id, t.company_id, t.engineer_id, t.documents,
		t.assigned_at, t.closed_at, t.rectification_date, t.work_done_comment, t.duration,
		t.created_at, t.updated_at,
		cu.name, cu.email, cu.mobile, co.name, en.name, en.mobile`
	ticketJoins = `JOIN users cu ON cu.id = t.customer_id
		LEFT JOIN companies co ON co.id = t.company_id
		LEFT JOIN users en ON en.id = t.engineer_id`
)

type TicketRepositoryInterface interface {
	Create(ctx context.Context, ticket *entities.Ticket) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Ticket, error)
	Assign(ctx context.Context, ticketID, engineerID int64) error
	Reassign(ctx context.Context, ticketID, engineerID int64) error
	Close(ctx context.Context, ticketID int64, rectificationDate time.Time, workDone string, durationMinutes int) error
	ListByStatus(ctx context.Context, status string) ([]entities.Ticket, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]entities.Ticket, error)
	ListByCompany(ctx context.Context, companyID int64) ([]entities.Ticket, error)
	ListByEngineer(ctx context.Context, engineerID int64) ([]entities.Ticket, error)
	ListClosed(ctx context.Context) ([]entities.Ticket, error)
	CountByStatusForEngineer(ctx context.Context, engineerID int64) (map[string]int64, error)
	CountByStatusForCompany(ctx context.Context, companyID int64) (map[string]int64, error)
	CountServiceRequests(ctx context.Context, companyID int64, from, to time.Time) (int, error)
}

type ticketRepository struct{ storage *pgxpool.Pool }

func NewTicketRepository(storage *pgxpool.Pool) TicketRepositoryInterface {
	return &ticketRepository{storage: storage}
}

type dbTicket struct {
	ID                int64
	Subject           string
	Type              string
	Description       string
	Priority          string
	Status            string
	CustomerID        int64
	CompanyID         sql.NullInt64
	EngineerID        sql.NullInt64
	Documents         sql.NullString
	AssignedAt        sql.NullTime
	ClosedAt          sql.NullTime
	RectificationDate sql.NullTime
	WorkDoneComment   sql.NullString
	Duration          sql.NullInt64
	CreatedAt         time.Time
	UpdatedAt         sql.NullTime
	RequesterName     string
	RequesterEmail    string
	RequesterContact  string
	RequesterCompany  sql.NullString
	EngineerName      sql.NullString
	EngineerContact   sql.NullString
}

func (db *dbTicket) toEntity() *entities.Ticket {
	t := &entities.Ticket{
		ID:               db.ID,
		Subject:          db.Subject,
		Type:             db.Type,
		Description:      db.Description,
		Priority:         db.Priority,
		Status:           db.Status,
		CustomerID:       db.CustomerID,
		RequesterName:    db.RequesterName,
		RequesterEmail:   db.RequesterEmail,
		RequesterContact: db.RequesterContact,
	}
	if db.CompanyID.Valid {
		t.CompanyID = &db.CompanyID.Int64
	}
	if db.EngineerID.Valid {
		t.EngineerID = &db.EngineerID.Int64
	}
	if db.Documents.Valid {
		t.Documents = &db.Documents.String
	}
	if db.AssignedAt.Valid {
		v := db.AssignedAt.Time
		t.AssignedAt = &v
	}
	if db.ClosedAt.Valid {
		v := db.ClosedAt.Time
		t.ClosedAt = &v
	}
	if db.RectificationDate.Valid {
		v := db.RectificationDate.Time
		t.RectificationDate = &v
	}
	if db.WorkDoneComment.Valid {
		t.WorkDoneComment = &db.WorkDoneComment.String
	}
	if db.Duration.Valid {
		v := int(db.Duration.Int64)
		t.Duration = &v
	}
	if db.RequesterCompany.Valid {
		t.RequesterCompany = &db.RequesterCompany.String
	}
	if db.EngineerName.Valid {
		t.EngineerName = &db.EngineerName.String
	}
	if db.EngineerContact.Valid {
		t.EngineerContact = &db.EngineerContact.String
	}
	createdAt := db.CreatedAt
	t.CreatedAt = &createdAt
	if db.UpdatedAt.Valid {
		v := db.UpdatedAt.Time
		t.UpdatedAt = &v
	}
	return t
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var db dbTicket
	err := row.Scan(&db.ID, &db.Subject, &db.Type, &db.Description, &db.Priority, &db.Status,
		&db.CustomerID, &db.CompanyID, &db.EngineerID, &db.Documents,
		&db.AssignedAt, &db.ClosedAt, &db.RectificationDate, &db.WorkDoneComment, &db.Duration,
		&db.CreatedAt, &db.UpdatedAt,
		&db.RequesterName, &db.RequesterEmail, &db.RequesterContact, &db.RequesterCompany,
		&db.EngineerName, &db.EngineerContact)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return db.toEntity(), nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entities.Ticket) (int64, error) {
	query := `
		INSERT INTO tickets (subject, type, description, priority, status, customer_id, company_id, documents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := r.storage.QueryRow(ctx, query,
		ticket.Subject, ticket.Type, ticket.Description, ticket.Priority, ticket.Status,
		ticket.CustomerID, ticket.CompanyID, ticket.Documents,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t %s WHERE t.id = $1", ticketFields, ticketTable, ticketJoins)
	return scanTicket(r.storage.QueryRow(ctx, query, id))
}

func (r *ticketRepository) Assign(ctx context.Context, ticketID, engineerID int64) error {
	query := `
		UPDATE tickets
		SET engineer_id = $1, status = $2, assigned_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND status = $4`
	tag, err := r.storage.Exec(ctx, query, engineerID, constants.StatusOngoing, ticketID, constants.StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) Reassign(ctx context.Context, ticketID, engineerID int64) error {
	query := `
		UPDATE tickets
		SET engineer_id = $1, assigned_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3`
	tag, err := r.storage.Exec(ctx, query, engineerID, ticketID, constants.StatusOngoing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) Close(ctx context.Context, ticketID int64, rectificationDate time.Time, workDone string, durationMinutes int) error {
	query := `
		UPDATE tickets
		SET status = $1, closed_at = NOW(), rectification_date = $2, work_done_comment = $3, duration = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6`
	tag, err := r.storage.Exec(ctx, query,
		constants.StatusClosed, rectificationDate, workDone, durationMinutes, ticketID, constants.StatusOngoing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) ListByStatus(ctx context.Context, status string) ([]entities.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t %s WHERE t.status = $1 ORDER BY t.created_at DESC", ticketFields, ticketTable, ticketJoins)
	return r.list(ctx, query, status)
}

func (r *ticketRepository) ListByCustomer(ctx context.Context, customerID int64) ([]entities.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t %s WHERE t.customer_id = $1 ORDER BY t.created_at DESC", ticketFields, ticketTable, ticketJoins)
	return r.list(ctx, query, customerID)
}

func (r *ticketRepository) ListByCompany(ctx context.Context, companyID int64) ([]entities.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t %s WHERE t.company_id = $1 ORDER BY t.created_at DESC", ticketFields, ticketTable, ticketJoins)
	return r.list(ctx, query, companyID)
}

func (r *ticketRepository) ListByEngineer(ctx context.Context, engineerID int64) ([]entities.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t %s WHERE t.engineer_id = $1 AND t.status = $2 ORDER BY t.created_at DESC", ticketFields, ticketTable, ticketJoins)
	return r.list(ctx, query, engineerID, constants.StatusOngoing)
}

func (r *ticketRepository) ListClosed(ctx context.Context) ([]entities.Ticket, error) {
	return r.ListByStatus(ctx, constants.StatusClosed)
}

func (r *ticketRepository) CountByStatusForEngineer(ctx context.Context, engineerID int64) (map[string]int64, error) {
	query := `
		SELECT status, COUNT(*) FROM tickets
		WHERE engineer_id = $1 OR (engineer_id IS NULL AND status = $2)
		GROUP BY status`
	return r.countByStatus(ctx, query, engineerID, constants.StatusPending)
}

func (r *ticketRepository) CountByStatusForCompany(ctx context.Context, companyID int64) (map[string]int64, error) {
	query := "SELECT status, COUNT(*) FROM tickets WHERE company_id = $1 GROUP BY status"
	return r.countByStatus(ctx, query, companyID)
}

func (r *ticketRepository) CountServiceRequests(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM tickets
		WHERE company_id = $1 AND type = $2 AND created_at >= $3 AND created_at < $4`
	var count int
	err := r.storage.QueryRow(ctx, query, companyID, constants.TicketTypeServiceRequest, from, to).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) countByStatus(ctx context.Context, query string, args ...interface{}) (map[string]int64, error) {
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

func (r *ticketRepository) list(ctx context.Context, query string, args ...interface{}) ([]entities.Ticket, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]entities.Ticket, 0)
	for rows.Next() {
		var db dbTicket
		if err := rows.Scan(&db.ID, &db.Subject, &db.Type, &db.Description, &db.Priority, &db.Status,
			&db.CustomerID, &db.CompanyID, &db.EngineerID, &db.Documents,
			&db.AssignedAt, &db.ClosedAt, &db.RectificationDate, &db.WorkDoneComment, &db.Duration,
			&db.CreatedAt, &db.UpdatedAt,
			&db.RequesterName, &db.RequesterEmail, &db.RequesterContact, &db.RequesterCompany,
			&db.EngineerName, &db.EngineerContact); err != nil {
			return nil, err
		}
		tickets = append(tickets, *db.toEntity())
	}
	return tickets, rows.Err()
}
