package websocket

import "time"

// Message types pushed to the portal frontends.
const (
	TypeCommentAdded  = "comment_added"
	TypeTicketStatus  = "ticket_status"
	TypeTicketCreated = "ticket_created"
)

// Envelope wraps every outbound message so clients can route by type.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// CommentPayload notifies thread participants about a new comment.
type CommentPayload struct {
	TicketID       string  `json:"ticket_id"`
	CommentID      int64   `json:"comment_id"`
	AuthorName     string  `json:"author_name"`
	AuthorRole     string  `json:"author_role"`
	Content        string  `json:"content"`
	AttachmentPath *string `json:"attachment_path,omitempty"`
	AttachmentType *string `json:"attachment_type,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// StatusPayload notifies the reporter when a ticket changes state.
type StatusPayload struct {
	TicketID     string  `json:"ticket_id"`
	Status       string  `json:"status"`
	EngineerName *string `json:"engineer_name,omitempty"`
}
