package dto

// CreateCommentDTO is bound from the multipart comment form. Content
// may be empty when a file part is attached.
type CreateCommentDTO struct {
	Content string `json:"content" form:"content" validate:"omitempty,max=5000"`
}

type CommentResponseDTO struct {
	ID             int64   `json:"id"`
	TicketID       string  `json:"ticket_id"`
	AuthorName     string  `json:"author_name"`
	AuthorRole     string  `json:"author_role"`
	Content        string  `json:"content"`
	AttachmentPath *string `json:"attachment_path,omitempty"`
	AttachmentType *string `json:"attachment_type,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
