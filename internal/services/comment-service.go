package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/events"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/eventbus"
	"supportdesk/pkg/service"
	"supportdesk/pkg/utils"
)

// CommentAttachment describes an already stored upload accompanying a
// comment.
type CommentAttachment struct {
	Path     string
	MimeType string
}

type CommentServiceInterface interface {
	AddComment(ctx context.Context, session *service.Session, ticketID int64, payload dto.CreateCommentDTO, attachment *CommentAttachment) (*dto.CommentResponseDTO, error)
	ListByTicket(ctx context.Context, session *service.Session, ticketID int64) ([]dto.CommentResponseDTO, error)
}

type commentService struct {
	commentRepo repositories.CommentRepositoryInterface
	ticketRepo  repositories.TicketRepositoryInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewCommentService(
	commentRepo repositories.CommentRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) CommentServiceInterface {
	return &commentService{
		commentRepo: commentRepo,
		ticketRepo:  ticketRepo,
		bus:         bus,
		logger:      logger,
	}
}

func (s *commentService) AddComment(ctx context.Context, session *service.Session, ticketID int64, payload dto.CreateCommentDTO, attachment *CommentAttachment) (*dto.CommentResponseDTO, error) {
	content := strings.TrimSpace(payload.Content)
	if content == "" && attachment == nil {
		return nil, apperrors.BadRequest("comment needs text or an attachment")
	}

	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == constants.StatusClosed {
		return nil, apperrors.Conflict("cannot comment on a closed ticket")
	}
	if err := s.authorizeThreadAccess(session, ticket); err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		TicketID:   ticketID,
		AuthorID:   session.UserID,
		AuthorRole: session.Role.String(),
		Content:    content,
		AuthorName: session.Name,
	}
	if attachment != nil {
		kind := utils.AttachmentKind(attachment.MimeType)
		comment.AttachmentPath = &attachment.Path
		comment.AttachmentType = &kind
	}

	if _, err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	participants, err := s.commentRepo.ParticipantIDs(ctx, ticketID)
	if err != nil {
		s.logger.Warn("failed to resolve thread participants", zap.Int64("ticketID", ticketID), zap.Error(err))
		participants = nil
	}

	s.bus.Publish(ctx, events.CommentAddedEvent{
		Comment:        comment,
		Ticket:         ticket,
		ParticipantIDs: participants,
	})

	return toCommentDTO(comment), nil
}

func (s *commentService) ListByTicket(ctx context.Context, session *service.Session, ticketID int64) ([]dto.CommentResponseDTO, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeThreadAccess(session, ticket); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponseDTO, 0, len(comments))
	for i := range comments {
		out = append(out, *toCommentDTO(&comments[i]))
	}
	return out, nil
}

// authorizeThreadAccess limits customer access to their own company's
// tickets. Staff roles see every thread.
func (s *commentService) authorizeThreadAccess(session *service.Session, ticket *entities.Ticket) error {
	if session.Role == constants.RoleCustomer && !customerCanView(session, ticket) {
		return apperrors.NewHttpError(403, "access denied", apperrors.ErrForbidden, nil)
	}
	return nil
}

func toCommentDTO(c *entities.Comment) *dto.CommentResponseDTO {
	return &dto.CommentResponseDTO{
		ID:             c.ID,
		TicketID:       utils.FormatTicketID(c.TicketID),
		AuthorName:     c.AuthorName,
		AuthorRole:     c.AuthorRole,
		Content:        c.Content,
		AttachmentPath: c.AttachmentPath,
		AttachmentType: c.AttachmentType,
		CreatedAt:      c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
