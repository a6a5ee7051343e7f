package services

import (
	"context"
	"strings"
	"time"

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

type TicketServiceInterface interface {
	CreateServiceRequest(ctx context.Context, customerID int64, payload dto.CreateTicketDTO, documents []string) (*dto.TicketResponseDTO, error)
	CreateFaultyTicket(ctx context.Context, customerID int64, payload dto.CreateTicketDTO, documents []string) (*dto.TicketResponseDTO, error)
	Assign(ctx context.Context, ticketID int64, engineerID int64) (*dto.TicketResponseDTO, error)
	Reassign(ctx context.Context, ticketID int64, engineerID int64) (*dto.TicketResponseDTO, error)
	Close(ctx context.Context, ticketID int64, engineerID int64, payload dto.CloseTicketDTO) (*dto.TicketResponseDTO, error)
	GetByID(ctx context.Context, ticketID int64, session *service.Session) (*dto.TicketResponseDTO, error)
	ListPending(ctx context.Context) ([]dto.TicketResponseDTO, error)
	ListAssigned(ctx context.Context, engineerID int64) ([]dto.TicketResponseDTO, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]dto.TicketResponseDTO, error)
	ListForCompanies(ctx context.Context, companyIDs []int64) ([]dto.TicketResponseDTO, error)
	ListHistory(ctx context.Context) ([]dto.TicketResponseDTO, error)
	Summary(ctx context.Context, engineerID int64) (*dto.TicketSummaryDTO, error)
}

type ticketService struct {
	ticketRepo   repositories.TicketRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	companyRepo  repositories.CompanyRepositoryInterface
	quotaService QuotaServiceInterface
	bus          *eventbus.Bus
	logger       *zap.Logger
}

func NewTicketService(
	ticketRepo repositories.TicketRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	quotaService QuotaServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) TicketServiceInterface {
	return &ticketService{
		ticketRepo:   ticketRepo,
		userRepo:     userRepo,
		companyRepo:  companyRepo,
		quotaService: quotaService,
		bus:          bus,
		logger:       logger,
	}
}

func (s *ticketService) CreateServiceRequest(ctx context.Context, customerID int64, payload dto.CreateTicketDTO, documents []string) (*dto.TicketResponseDTO, error) {
	customer, err := s.userRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID == nil {
		return nil, apperrors.BadRequest("customer is not linked to a company")
	}
	company, err := s.companyRepo.FindByID(ctx, *customer.CompanyID)
	if err != nil {
		return nil, err
	}

	override := strings.EqualFold(payload.Override, "true")
	if err := s.quotaService.Authorize(ctx, company, override); err != nil {
		return nil, err
	}

	return s.create(ctx, customer, company, constants.TicketTypeServiceRequest, payload, documents)
}

func (s *ticketService) CreateFaultyTicket(ctx context.Context, customerID int64, payload dto.CreateTicketDTO, documents []string) (*dto.TicketResponseDTO, error) {
	customer, err := s.userRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	var company *entities.Company
	if customer.CompanyID != nil {
		company, err = s.companyRepo.FindByID(ctx, *customer.CompanyID)
		if err != nil {
			return nil, err
		}
	}

	// Faulty tickets never count against the service request quota.
	return s.create(ctx, customer, company, constants.TicketTypeFaultyTicket, payload, documents)
}

func (s *ticketService) create(ctx context.Context, customer *entities.User, company *entities.Company, ticketType string, payload dto.CreateTicketDTO, documents []string) (*dto.TicketResponseDTO, error) {
	ticket := &entities.Ticket{
		Subject:     payload.Subject,
		Type:        ticketType,
		Description: payload.Description,
		Priority:    payload.Priority,
		Status:      constants.StatusPending,
		CustomerID:  customer.ID,
	}
	if company != nil {
		ticket.CompanyID = &company.ID
	}
	if len(documents) > 0 {
		joined := strings.Join(documents, ",")
		ticket.Documents = &joined
	}

	id, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	created, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.TicketCreatedEvent{Ticket: created, Customer: customer})
	s.logger.Info("ticket created",
		zap.String("ticket", utils.FormatTicketID(id)),
		zap.String("type", ticketType),
		zap.Int64("customerID", customer.ID))

	return toTicketDTO(created), nil
}

func (s *ticketService) Assign(ctx context.Context, ticketID int64, engineerID int64) (*dto.TicketResponseDTO, error) {
	engineer, err := s.userRepo.FindByID(ctx, engineerID)
	if err != nil {
		return nil, err
	}
	if engineer.Role != constants.RoleEngineer {
		return nil, apperrors.BadRequest("assignee is not an engineer")
	}

	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != constants.StatusPending {
		return nil, apperrors.Conflict("only pending tickets can be assigned")
	}

	if err := s.ticketRepo.Assign(ctx, ticketID, engineerID); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.TicketAssignedEvent{Ticket: updated, Engineer: engineer})
	return toTicketDTO(updated), nil
}

func (s *ticketService) Reassign(ctx context.Context, ticketID int64, engineerID int64) (*dto.TicketResponseDTO, error) {
	engineer, err := s.userRepo.FindByID(ctx, engineerID)
	if err != nil {
		return nil, err
	}
	if engineer.Role != constants.RoleEngineer {
		return nil, apperrors.BadRequest("assignee is not an engineer")
	}

	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != constants.StatusOngoing {
		return nil, apperrors.Conflict("only ongoing tickets can be reassigned")
	}

	if err := s.ticketRepo.Reassign(ctx, ticketID, engineerID); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.TicketAssignedEvent{Ticket: updated, Engineer: engineer})
	return toTicketDTO(updated), nil
}

func (s *ticketService) Close(ctx context.Context, ticketID int64, engineerID int64, payload dto.CloseTicketDTO) (*dto.TicketResponseDTO, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != constants.StatusOngoing {
		return nil, apperrors.Conflict("only ongoing tickets can be closed")
	}
	if ticket.EngineerID == nil || *ticket.EngineerID != engineerID {
		return nil, apperrors.NewHttpError(403, "ticket is assigned to another engineer", apperrors.ErrForbidden, nil)
	}

	rectified, err := time.Parse("2006-01-02", payload.RectificationDate)
	if err != nil {
		rectified, err = time.Parse(time.RFC3339, payload.RectificationDate)
		if err != nil {
			return nil, apperrors.BadRequest("rectification_date must be YYYY-MM-DD")
		}
	}

	duration := 0
	if ticket.CreatedAt != nil {
		duration = int(time.Since(*ticket.CreatedAt).Minutes())
	}

	if err := s.ticketRepo.Close(ctx, ticketID, rectified, payload.WorkDoneComment, duration); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.TicketClosedEvent{Ticket: updated})
	s.logger.Info("ticket closed",
		zap.String("ticket", utils.FormatTicketID(ticketID)),
		zap.Int("durationMinutes", duration))
	return toTicketDTO(updated), nil
}

func (s *ticketService) GetByID(ctx context.Context, ticketID int64, session *service.Session) (*dto.TicketResponseDTO, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if session.Role == constants.RoleCustomer && !customerCanView(session, ticket) {
		return nil, apperrors.NewHttpError(403, "access denied", apperrors.ErrForbidden, nil)
	}
	return toTicketDTO(ticket), nil
}

// customerCanView scopes customer reads to their company, so colleagues
// share ticket visibility. Tickets without a company fall back to the
// reporter.
func customerCanView(session *service.Session, ticket *entities.Ticket) bool {
	if ticket.CompanyID != nil && session.CompanyID != 0 {
		return *ticket.CompanyID == session.CompanyID
	}
	return ticket.CustomerID == session.UserID
}

func (s *ticketService) ListPending(ctx context.Context) ([]dto.TicketResponseDTO, error) {
	tickets, err := s.ticketRepo.ListByStatus(ctx, constants.StatusPending)
	if err != nil {
		return nil, err
	}
	return toTicketDTOs(tickets), nil
}

func (s *ticketService) ListAssigned(ctx context.Context, engineerID int64) ([]dto.TicketResponseDTO, error) {
	tickets, err := s.ticketRepo.ListByEngineer(ctx, engineerID)
	if err != nil {
		return nil, err
	}
	return toTicketDTOs(tickets), nil
}

func (s *ticketService) ListByCustomer(ctx context.Context, customerID int64) ([]dto.TicketResponseDTO, error) {
	tickets, err := s.ticketRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toTicketDTOs(tickets), nil
}

func (s *ticketService) ListForCompanies(ctx context.Context, companyIDs []int64) ([]dto.TicketResponseDTO, error) {
	out := make([]dto.TicketResponseDTO, 0)
	for _, companyID := range companyIDs {
		tickets, err := s.ticketRepo.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		out = append(out, toTicketDTOs(tickets)...)
	}
	return out, nil
}

func (s *ticketService) ListHistory(ctx context.Context) ([]dto.TicketResponseDTO, error) {
	tickets, err := s.ticketRepo.ListClosed(ctx)
	if err != nil {
		return nil, err
	}
	return toTicketDTOs(tickets), nil
}

func (s *ticketService) Summary(ctx context.Context, engineerID int64) (*dto.TicketSummaryDTO, error) {
	counts, err := s.ticketRepo.CountByStatusForEngineer(ctx, engineerID)
	if err != nil {
		return nil, err
	}
	summary := &dto.TicketSummaryDTO{
		Pending: counts[constants.StatusPending],
		Ongoing: counts[constants.StatusOngoing],
		Closed:  counts[constants.StatusClosed],
	}
	summary.Total = summary.Pending + summary.Ongoing + summary.Closed
	return summary, nil
}

func toTicketDTO(t *entities.Ticket) *dto.TicketResponseDTO {
	out := &dto.TicketResponseDTO{
		ID:               utils.FormatTicketID(t.ID),
		Subject:          t.Subject,
		Type:             t.Type,
		Description:      t.Description,
		Priority:         t.Priority,
		Status:           t.Status,
		RequesterName:    t.RequesterName,
		RequesterCompany: t.RequesterCompany,
		RequesterEmail:   t.RequesterEmail,
		RequesterContact: t.RequesterContact,
		EngineerName:     t.EngineerName,
		EngineerContact:  t.EngineerContact,
		Documents:        []string{},
		Duration:         t.Duration,
		WorkDoneComment:  t.WorkDoneComment,
	}
	if t.Documents != nil && *t.Documents != "" {
		out.Documents = strings.Split(*t.Documents, ",")
	}
	if t.CreatedAt != nil {
		out.CreatedAt = t.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if t.AssignedAt != nil {
		v := t.AssignedAt.Format("2006-01-02 15:04:05")
		out.AssignedAt = &v
	}
	if t.ClosedAt != nil {
		v := t.ClosedAt.Format("2006-01-02 15:04:05")
		out.ClosedAt = &v
	}
	if t.RectificationDate != nil {
		v := t.RectificationDate.Format("2006-01-02")
		out.RectificationDate = &v
	}
	return out
}

func toTicketDTOs(tickets []entities.Ticket) []dto.TicketResponseDTO {
	out := make([]dto.TicketResponseDTO, 0, len(tickets))
	for i := range tickets {
		out = append(out, *toTicketDTO(&tickets[i]))
	}
	return out
}
