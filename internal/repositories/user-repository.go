package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userTable  = "users"
	userFields = "u.id, u.name, u.email, u.mobile, u.role, u.password, u.designation, u.company_id, u.profile_image, u.created_at, u.updated_at, c.name"
	userJoin   = "LEFT JOIN companies c ON c.id = u.company_id"
)

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByEmailAndRole(ctx context.Context, email string, role constants.Role) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) (int64, error)
	UpdateProfile(ctx context.Context, id int64, payload dto.UpdateProfileDTO) error
	UpdateProfileImage(ctx context.Context, id int64, path string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	List(ctx context.Context) ([]entities.User, error)
	ListByRole(ctx context.Context, role constants.Role) ([]entities.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]entities.User, error)
	ListCustomersByAccountManager(ctx context.Context, managerID int64) ([]entities.User, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct{ storage *pgxpool.Pool }

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

type dbUser struct {
	ID           int64
	Name         string
	Email        string
	Mobile       string
	Role         string
	Password     string
	Designation  sql.NullString
	CompanyID    sql.NullInt64
	ProfileImage sql.NullString
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
	CompanyName  sql.NullString
}

func (db *dbUser) toEntity() *entities.User {
	u := &entities.User{
		ID:       db.ID,
		Name:     db.Name,
		Email:    db.Email,
		Mobile:   db.Mobile,
		Role:     constants.Role(db.Role),
		Password: db.Password,
	}
	if db.Designation.Valid {
		u.Designation = &db.Designation.String
	}
	if db.CompanyID.Valid {
		u.CompanyID = &db.CompanyID.Int64
	}
	if db.ProfileImage.Valid {
		u.ProfileImage = &db.ProfileImage.String
	}
	if db.CompanyName.Valid {
		u.CompanyName = &db.CompanyName.String
	}
	createdAt := db.CreatedAt
	u.CreatedAt = &createdAt
	if db.UpdatedAt.Valid {
		updatedAt := db.UpdatedAt.Time
		u.UpdatedAt = &updatedAt
	}
	return u
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var db dbUser
	err := row.Scan(&db.ID, &db.Name, &db.Email, &db.Mobile, &db.Role, &db.Password,
		&db.Designation, &db.CompanyID, &db.ProfileImage, &db.CreatedAt, &db.UpdatedAt, &db.CompanyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return db.toEntity(), nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u %s WHERE u.id = $1", userFields, userTable, userJoin)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u %s WHERE u.email = $1", userFields, userTable, userJoin)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *userRepository) FindByEmailAndRole(ctx context.Context, email string, role constants.Role) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u %s WHERE u.email = $1 AND u.role = $2", userFields, userTable, userJoin)
	return scanUser(r.storage.QueryRow(ctx, query, email, string(role)))
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) (int64, error) {
	query := `
		INSERT INTO users (name, email, mobile, role, password, designation, company_id, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := r.storage.QueryRow(ctx, query,
		user.Name, user.Email, user.Mobile, string(user.Role), user.Password,
		user.Designation, user.CompanyID, user.ProfileImage,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, payload dto.UpdateProfileDTO) error {
	setClauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if payload.Name != nil {
		args = append(args, *payload.Name)
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", len(args)))
	}
	if payload.Mobile != nil {
		args = append(args, *payload.Mobile)
		setClauses = append(setClauses, fmt.Sprintf("mobile = $%d", len(args)))
	}
	if payload.Designation.Valid {
		args = append(args, payload.Designation.String)
		setClauses = append(setClauses, fmt.Sprintf("designation = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args))

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateProfileImage(ctx context.Context, id int64, path string) error {
	tag, err := r.storage.Exec(ctx, "UPDATE users SET profile_image = $1, updated_at = NOW() WHERE id = $2", path, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.storage.Exec(ctx, "UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2", passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u %s ORDER BY u.role, u.name", userFields, userTable, userJoin)
	return r.list(ctx, query)
}

func (r *userRepository) ListByRole(ctx context.Context, role constants.Role) ([]entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u %s WHERE u.role = $1 ORDER BY u.name", userFields, userTable, userJoin)
	return r.list(ctx, query, string(role))
}

func (r *userRepository) ListByCompany(ctx context.Context, companyID int64) ([]entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u %s WHERE u.company_id = $1 ORDER BY u.name", userFields, userTable, userJoin)
	return r.list(ctx, query, companyID)
}

func (r *userRepository) ListCustomersByAccountManager(ctx context.Context, managerID int64) ([]entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s u
		JOIN companies c ON c.id = u.company_id
		WHERE u.role = 'customer' AND c.account_manager_id = $1
		ORDER BY c.name, u.name`, "u.id, u.name, u.email, u.mobile, u.role, u.password, u.designation, u.company_id, u.profile_image, u.created_at, u.updated_at, c.name", userTable)
	return r.list(ctx, query, managerID)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) list(ctx context.Context, query string, args ...interface{}) ([]entities.User, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		var db dbUser
		if err := rows.Scan(&db.ID, &db.Name, &db.Email, &db.Mobile, &db.Role, &db.Password,
			&db.Designation, &db.CompanyID, &db.ProfileImage, &db.CreatedAt, &db.UpdatedAt, &db.CompanyName); err != nil {
			return nil, err
		}
		users = append(users, *db.toEntity())
	}
	return users, rows.Err()
}
