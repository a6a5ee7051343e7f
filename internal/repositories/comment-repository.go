package repositories

import (
	"context"
	"database/sql"
	"errors"

	"supportdesk/internal/entities"
	apperrors "supportdesk/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepositoryInterface interface {
	Create(ctx context.Context, comment *entities.Comment) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Comment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]entities.Comment, error)
	// ParticipantIDs returns the distinct users involved in a ticket
	// thread: the reporter, the assigned engineer and every commenter.
	ParticipantIDs(ctx context.Context, ticketID int64) ([]int64, error)
}

type commentRepository struct{ storage *pgxpool.Pool }

func NewCommentRepository(storage *pgxpool.Pool) CommentRepositoryInterface {
	return &commentRepository{storage: storage}
}

const commentSelect = `
	SELECT cm.id, cm.ticket_id, cm.author_id, cm.author_role, cm.content,
		cm.attachment_path, cm.attachment_type, cm.created_at, u.name
	FROM comments cm
	JOIN users u ON u.id = cm.author_id`

func (r *commentRepository) Create(ctx context.Context, comment *entities.Comment) (int64, error) {
	query := `
		INSERT INTO comments (ticket_id, author_id, author_role, content, attachment_path, attachment_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.storage.QueryRow(ctx, query,
		comment.TicketID, comment.AuthorID, comment.AuthorRole, comment.Content,
		comment.AttachmentPath, comment.AttachmentType,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return 0, err
	}
	return comment.ID, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*entities.Comment, error) {
	var db dbComment
	err := r.storage.QueryRow(ctx, commentSelect+" WHERE cm.id = $1", id).
		Scan(&db.ID, &db.TicketID, &db.AuthorID, &db.AuthorRole, &db.Content,
			&db.AttachmentPath, &db.AttachmentType, &db.CreatedAt, &db.AuthorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return db.toEntity(), nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]entities.Comment, error) {
	rows, err := r.storage.Query(ctx, commentSelect+" WHERE cm.ticket_id = $1 ORDER BY cm.created_at", ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]entities.Comment, 0)
	for rows.Next() {
		var db dbComment
		if err := rows.Scan(&db.ID, &db.TicketID, &db.AuthorID, &db.AuthorRole, &db.Content,
			&db.AttachmentPath, &db.AttachmentType, &db.CreatedAt, &db.AuthorName); err != nil {
			return nil, err
		}
		comments = append(comments, *db.toEntity())
	}
	return comments, rows.Err()
}

func (r *commentRepository) ParticipantIDs(ctx context.Context, ticketID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT uid FROM (
			SELECT customer_id AS uid FROM tickets WHERE id = $1
			UNION
			SELECT engineer_id FROM tickets WHERE id = $1 AND engineer_id IS NOT NULL
			UNION
			SELECT author_id FROM comments WHERE ticket_id = $1
		) participants`
	rows, err := r.storage.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type dbComment struct {
	ID             int64
	TicketID       int64
	AuthorID       int64
	AuthorRole     string
	Content        string
	AttachmentPath sql.NullString
	AttachmentType sql.NullString
	CreatedAt      sql.NullTime
	AuthorName     string
}

func (db *dbComment) toEntity() *entities.Comment {
	c := &entities.Comment{
		ID:         db.ID,
		TicketID:   db.TicketID,
		AuthorID:   db.AuthorID,
		AuthorRole: db.AuthorRole,
		Content:    db.Content,
		AuthorName: db.AuthorName,
	}
	if db.AttachmentPath.Valid {
		c.AttachmentPath = &db.AttachmentPath.String
	}
	if db.AttachmentType.Valid {
		c.AttachmentType = &db.AttachmentType.String
	}
	if db.CreatedAt.Valid {
		c.CreatedAt = db.CreatedAt.Time
	}
	return c
}
