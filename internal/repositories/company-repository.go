package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"supportdesk/internal/entities"
	apperrors "supportdesk/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	companyTable  = "companies"
	companyFields = "co.id, co.name, co.support_type_id, co.location, co.contact_person, co.contact_mobile, co.account_manager_id, co.created_at, co.updated_at, st.name, st.ticket_limit, am.name"
	companyJoins  = "JOIN support_types st ON st.id = co.support_type_id LEFT JOIN users am ON am.id = co.account_manager_id"
)

type CompanyRepositoryInterface interface {
	Create(ctx context.Context, company *entities.Company) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Company, error)
	FindByName(ctx context.Context, name string) (*entities.Company, error)
	List(ctx context.Context) ([]entities.Company, error)
	ListByAccountManager(ctx context.Context, managerID int64) ([]entities.Company, error)
	FindSupportTypeByName(ctx context.Context, name string) (*entities.SupportType, error)
	ListSupportTypes(ctx context.Context) ([]entities.SupportType, error)
}

type companyRepository struct{ storage *pgxpool.Pool }

func NewCompanyRepository(storage *pgxpool.Pool) CompanyRepositoryInterface {
	return &companyRepository{storage: storage}
}

type dbCompany struct {
	ID               int64
	Name             string
	SupportTypeID    int64
	Location         sql.NullString
	ContactPerson    sql.NullString
	ContactMobile    sql.NullString
	AccountManagerID sql.NullInt64
	CreatedAt        time.Time
	UpdatedAt        sql.NullTime
	SupportTypeName  string
	TicketLimit      int
	ManagerName      sql.NullString
}

func (db *dbCompany) toEntity() *entities.Company {
	c := &entities.Company{
		ID:              db.ID,
		Name:            db.Name,
		SupportTypeID:   db.SupportTypeID,
		SupportTypeName: db.SupportTypeName,
		TicketLimit:     db.TicketLimit,
	}
	if db.Location.Valid {
		c.Location = &db.Location.String
	}
	if db.ContactPerson.Valid {
		c.ContactPerson = &db.ContactPerson.String
	}
	if db.ContactMobile.Valid {
		c.ContactMobile = &db.ContactMobile.String
	}
	if db.AccountManagerID.Valid {
		c.AccountManagerID = &db.AccountManagerID.Int64
	}
	if db.ManagerName.Valid {
		c.AccountManagerName = &db.ManagerName.String
	}
	createdAt := db.CreatedAt
	c.CreatedAt = &createdAt
	if db.UpdatedAt.Valid {
		updatedAt := db.UpdatedAt.Time
		c.UpdatedAt = &updatedAt
	}
	return c
}

func scanCompany(row pgx.Row) (*entities.Company, error) {
	var db dbCompany
	err := row.Scan(&db.ID, &db.Name, &db.SupportTypeID, &db.Location, &db.ContactPerson,
		&db.ContactMobile, &db.AccountManagerID, &db.CreatedAt, &db.UpdatedAt,
		&db.SupportTypeName, &db.TicketLimit, &db.ManagerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return db.toEntity(), nil
}

func (r *companyRepository) Create(ctx context.Context, company *entities.Company) (int64, error) {
	query := `
		INSERT INTO companies (name, support_type_id, location, contact_person, contact_mobile, account_manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var id int64
	err := r.storage.QueryRow(ctx, query,
		company.Name, company.SupportTypeID, company.Location,
		company.ContactPerson, company.ContactMobile, company.AccountManagerID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *companyRepository) FindByID(ctx context.Context, id int64) (*entities.Company, error) {
	query := fmt.Sprintf("SELECT %s FROM %s co %s WHERE co.id = $1", companyFields, companyTable, companyJoins)
	return scanCompany(r.storage.QueryRow(ctx, query, id))
}

func (r *companyRepository) FindByName(ctx context.Context, name string) (*entities.Company, error) {
	query := fmt.Sprintf("SELECT %s FROM %s co %s WHERE LOWER(co.name) = LOWER($1)", companyFields, companyTable, companyJoins)
	return scanCompany(r.storage.QueryRow(ctx, query, name))
}

func (r *companyRepository) List(ctx context.Context) ([]entities.Company, error) {
	query := fmt.Sprintf("SELECT %s FROM %s co %s ORDER BY co.name", companyFields, companyTable, companyJoins)
	return r.list(ctx, query)
}

func (r *companyRepository) ListByAccountManager(ctx context.Context, managerID int64) ([]entities.Company, error) {
	query := fmt.Sprintf("SELECT %s FROM %s co %s WHERE co.account_manager_id = $1 ORDER BY co.name", companyFields, companyTable, companyJoins)
	return r.list(ctx, query, managerID)
}

func (r *companyRepository) FindSupportTypeByName(ctx context.Context, name string) (*entities.SupportType, error) {
	var st entities.SupportType
	err := r.storage.QueryRow(ctx, "SELECT id, name, ticket_limit FROM support_types WHERE name = $1", name).
		Scan(&st.ID, &st.Name, &st.TicketLimit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *companyRepository) ListSupportTypes(ctx context.Context) ([]entities.SupportType, error) {
	rows, err := r.storage.Query(ctx, "SELECT id, name, ticket_limit FROM support_types ORDER BY ticket_limit")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.SupportType, 0)
	for rows.Next() {
		var st entities.SupportType
		if err := rows.Scan(&st.ID, &st.Name, &st.TicketLimit); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *companyRepository) list(ctx context.Context, query string, args ...interface{}) ([]entities.Company, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]entities.Company, 0)
	for rows.Next() {
		var db dbCompany
		if err := rows.Scan(&db.ID, &db.Name, &db.SupportTypeID, &db.Location, &db.ContactPerson,
			&db.ContactMobile, &db.AccountManagerID, &db.CreatedAt, &db.UpdatedAt,
			&db.SupportTypeName, &db.TicketLimit, &db.ManagerName); err != nil {
			return nil, err
		}
		companies = append(companies, *db.toEntity())
	}
	return companies, rows.Err()
}
