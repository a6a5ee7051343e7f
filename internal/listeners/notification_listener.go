package listeners

import (
	"context"

	"go.uber.org/zap"

	"supportdesk/internal/events"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/eventbus"
	"supportdesk/pkg/mailer"
	"supportdesk/pkg/utils"
	"supportdesk/pkg/websocket"
)

// NotificationListener fans ticket lifecycle events out to email and
// active websocket connections.
type NotificationListener struct {
	mail     mailer.Mailer
	hub      *websocket.Hub
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewNotificationListener(
	mail mailer.Mailer,
	hub *websocket.Hub,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		mail:     mail,
		hub:      hub,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("ticket.created", l.handleTicketCreated)
	bus.Subscribe("ticket.assigned", l.handleTicketAssigned)
	bus.Subscribe("ticket.closed", l.handleTicketClosed)
	bus.Subscribe("ticket.comment.added", l.handleCommentAdded)
	bus.Subscribe("quota.bundle.purchased", l.handleBundlePurchased)
}

func (l *NotificationListener) handleTicketCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.TicketCreatedEvent)
	if !ok {
		return nil
	}

	ticketID := utils.FormatTicketID(e.Ticket.ID)
	if err := l.mail.SendTicketCreated(e.Customer.Email, ticketID, e.Ticket.Subject); err != nil {
		l.logger.Warn("failed to send ticket created email", zap.String("ticket", ticketID), zap.Error(err))
	}

	return l.hub.SendToUser(e.Customer.ID, websocket.TypeTicketCreated, websocket.StatusPayload{
		TicketID: ticketID,
		Status:   e.Ticket.Status,
	})
}

func (l *NotificationListener) handleTicketAssigned(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.TicketAssignedEvent)
	if !ok {
		return nil
	}

	ticketID := utils.FormatTicketID(e.Ticket.ID)
	if err := l.mail.SendTicketAssigned(e.Ticket.RequesterEmail, ticketID, e.Engineer.Name); err != nil {
		l.logger.Warn("failed to send ticket assigned email", zap.String("ticket", ticketID), zap.Error(err))
	}
	if err := l.mail.SendTicketAssigned(e.Engineer.Email, ticketID, e.Engineer.Name); err != nil {
		l.logger.Warn("failed to notify engineer about assignment", zap.String("ticket", ticketID), zap.Error(err))
	}

	engineerName := e.Engineer.Name
	return l.hub.SendToUser(e.Ticket.CustomerID, websocket.TypeTicketStatus, websocket.StatusPayload{
		TicketID:     ticketID,
		Status:       e.Ticket.Status,
		EngineerName: &engineerName,
	})
}

func (l *NotificationListener) handleTicketClosed(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.TicketClosedEvent)
	if !ok {
		return nil
	}

	ticketID := utils.FormatTicketID(e.Ticket.ID)
	if err := l.mail.SendTicketClosed(e.Ticket.RequesterEmail, ticketID); err != nil {
		l.logger.Warn("failed to send ticket closed email", zap.String("ticket", ticketID), zap.Error(err))
	}

	return l.hub.SendToUser(e.Ticket.CustomerID, websocket.TypeTicketStatus, websocket.StatusPayload{
		TicketID: ticketID,
		Status:   e.Ticket.Status,
	})
}

func (l *NotificationListener) handleCommentAdded(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.CommentAddedEvent)
	if !ok {
		return nil
	}

	ticketID := utils.FormatTicketID(e.Ticket.ID)
	payload := websocket.CommentPayload{
		TicketID:       ticketID,
		CommentID:      e.Comment.ID,
		AuthorName:     e.Comment.AuthorName,
		AuthorRole:     e.Comment.AuthorRole,
		Content:        e.Comment.Content,
		AttachmentPath: e.Comment.AttachmentPath,
		AttachmentType: e.Comment.AttachmentType,
		CreatedAt:      e.Comment.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	for _, userID := range e.ParticipantIDs {
		if userID == e.Comment.AuthorID {
			continue
		}
		_ = l.hub.SendToUser(userID, websocket.TypeCommentAdded, payload)

		user, err := l.userRepo.FindByID(ctx, userID)
		if err != nil {
			l.logger.Warn("failed to load comment recipient", zap.Int64("userID", userID), zap.Error(err))
			continue
		}
		if err := l.mail.SendCommentAdded(user.Email, ticketID, e.Comment.AuthorName); err != nil {
			l.logger.Warn("failed to send comment email", zap.String("ticket", ticketID), zap.Error(err))
		}
	}
	return nil
}

func (l *NotificationListener) handleBundlePurchased(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.BundlePurchasedEvent)
	if !ok {
		return nil
	}

	// The account manager tracks their companies' quota purchases.
	if e.Company != nil && e.Company.AccountManagerID != nil {
		manager, err := l.userRepo.FindByID(ctx, *e.Company.AccountManagerID)
		if err != nil {
			l.logger.Warn("failed to load account manager", zap.String("company", e.Company.Name), zap.Error(err))
		} else if err := l.mail.SendBundlePurchased(manager.Email, e.Bundle.AdditionalTickets, e.Bundle.Month); err != nil {
			l.logger.Warn("failed to send bundle email to account manager", zap.String("company", e.Company.Name), zap.Error(err))
		}
	}

	if e.Purchaser != nil {
		if err := l.mail.SendBundlePurchased(e.Purchaser.Email, e.Bundle.AdditionalTickets, e.Bundle.Month); err != nil {
			l.logger.Warn("failed to send bundle email", zap.String("company", e.Company.Name), zap.Error(err))
		}
	}
	return nil
}
