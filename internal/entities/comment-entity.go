package entities

import "time"

type Comment struct {
	ID         int64  `json:"id" db:"id"`
	TicketID   int64  `json:"ticket_id" db:"ticket_id"`
	AuthorID   int64  `json:"author_id" db:"author_id"`
	AuthorRole string `json:"author_role" db:"author_role"`
	Content    string `json:"content" db:"content"`

	AttachmentPath *string `json:"attachment_path,omitempty" db:"attachment_path"`
	AttachmentType *string `json:"attachment_type,omitempty" db:"attachment_type"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined from users.
	AuthorName string `json:"author_name" db:"-"`
}
