package events

import "supportdesk/internal/entities"

type TicketCreatedEvent struct {
	Ticket   *entities.Ticket
	Customer *entities.User
}

func (e TicketCreatedEvent) Name() string { return "ticket.created" }

type TicketAssignedEvent struct {
	Ticket   *entities.Ticket
	Engineer *entities.User
}

func (e TicketAssignedEvent) Name() string { return "ticket.assigned" }

type TicketClosedEvent struct {
	Ticket *entities.Ticket
}

func (e TicketClosedEvent) Name() string { return "ticket.closed" }

type CommentAddedEvent struct {
	Comment        *entities.Comment
	Ticket         *entities.Ticket
	ParticipantIDs []int64
}

func (e CommentAddedEvent) Name() string { return "ticket.comment.added" }

type BundlePurchasedEvent struct {
	Bundle    *entities.Bundle
	Company   *entities.Company
	Purchaser *entities.User
}

func (e BundlePurchasedEvent) Name() string { return "quota.bundle.purchased" }
