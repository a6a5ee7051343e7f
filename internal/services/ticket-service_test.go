package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/eventbus"
	"supportdesk/pkg/service"
)

type allowAllQuota struct{ authorized int }

func (q *allowAllQuota) Status(ctx context.Context, company *entities.Company) (*dto.QuotaStatusDTO, error) {
	return &dto.QuotaStatusDTO{}, nil
}

func (q *allowAllQuota) Authorize(ctx context.Context, company *entities.Company, override bool) error {
	q.authorized++
	return nil
}

type denyAllQuota struct{}

func (denyAllQuota) Status(ctx context.Context, company *entities.Company) (*dto.QuotaStatusDTO, error) {
	return &dto.QuotaStatusDTO{}, nil
}

func (denyAllQuota) Authorize(ctx context.Context, company *entities.Company, override bool) error {
	return apperrors.Conflict("Monthly service request quota reached")
}

func newTicketFixture(t *testing.T, quota QuotaServiceInterface) (TicketServiceInterface, *fakeTicketRepo, *fakeUserRepo) {
	t.Helper()
	companyID := int64(1)
	customer := &entities.User{ID: 10, Name: "Jo Customer", Email: "jo@acme.example", Role: constants.RoleCustomer, CompanyID: &companyID}
	engineer := &entities.User{ID: 20, Name: "Sam Engineer", Email: "sam@support.example", Role: constants.RoleEngineer}
	admin := &entities.User{ID: 30, Name: "Max Admin", Email: "max@support.example", Role: constants.RoleAdmin}

	ticketRepo := newFakeTicketRepo()
	userRepo := newFakeUserRepo(customer, engineer, admin)
	companyRepo := newFakeCompanyRepo(&entities.Company{ID: companyID, Name: "Acme", TicketLimit: 5})
	svc := NewTicketService(ticketRepo, userRepo, companyRepo, quota, eventbus.New(zap.NewNop()), zap.NewNop())
	return svc, ticketRepo, userRepo
}

func TestCreateServiceRequest_ChecksQuota(t *testing.T) {
	quota := &allowAllQuota{}
	svc, ticketRepo, _ := newTicketFixture(t, quota)

	resp, err := svc.CreateServiceRequest(context.Background(), 10, dto.CreateTicketDTO{
		Subject:     "Printer offline",
		Description: "Office printer not reachable",
		Priority:    constants.PriorityHigh,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, quota.authorized)
	assert.Equal(t, "000001", resp.ID)
	assert.Equal(t, constants.StatusPending, resp.Status)
	assert.Equal(t, constants.TicketTypeServiceRequest, resp.Type)
	require.Len(t, ticketRepo.createdTickets, 1)
}

func TestCreateServiceRequest_QuotaDenied(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, denyAllQuota{})

	_, err := svc.CreateServiceRequest(context.Background(), 10, dto.CreateTicketDTO{
		Subject:     "Printer offline",
		Description: "Office printer not reachable",
		Priority:    constants.PriorityLow,
	}, nil)
	require.Error(t, err)
	assert.Empty(t, ticketRepo.createdTickets)
}

func TestCreateFaultyTicket_SkipsQuota(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, denyAllQuota{})

	resp, err := svc.CreateFaultyTicket(context.Background(), 10, dto.CreateTicketDTO{
		Subject:     "Broken router",
		Description: "Router keeps rebooting",
		Priority:    constants.PriorityCritical,
	}, []string{"uploads/documents/a.pdf", "uploads/documents/b.pdf"})
	require.NoError(t, err)

	assert.Equal(t, constants.TicketTypeFaultyTicket, resp.Type)
	assert.Equal(t, []string{"uploads/documents/a.pdf", "uploads/documents/b.pdf"}, resp.Documents)
	require.Len(t, ticketRepo.createdTickets, 1)
}

func TestAssign_PendingOnly(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, &allowAllQuota{})
	now := time.Now()
	pending := &entities.Ticket{ID: 1, Status: constants.StatusPending, CustomerID: 10}
	pending.CreatedAt = &now
	ticketRepo.put(pending)

	resp, err := svc.Assign(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusOngoing, resp.Status)

	// A second assign must be refused, the ticket is no longer pending.
	_, err = svc.Assign(context.Background(), 1, 20)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestAssign_RejectsNonEngineer(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, &allowAllQuota{})
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusPending, CustomerID: 10})

	_, err := svc.Assign(context.Background(), 1, 30)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
}

func TestReassign_OngoingOnly(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, &allowAllQuota{})
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusPending, CustomerID: 10})

	_, err := svc.Reassign(context.Background(), 1, 20)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestClose_OnlyAssignedEngineer(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, &allowAllQuota{})
	engineerID := int64(20)
	created := time.Now().Add(-90 * time.Minute)
	ongoing := &entities.Ticket{
		ID:         1,
		Status:     constants.StatusOngoing,
		CustomerID: 10,
		EngineerID: &engineerID,
	}
	ongoing.CreatedAt = &created
	ticketRepo.put(ongoing)

	payload := dto.CloseTicketDTO{RectificationDate: "2026-09-15", WorkDoneComment: "Replaced cable"}

	_, err := svc.Close(context.Background(), 1, 99, payload)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)

	resp, err := svc.Close(context.Background(), 1, engineerID, payload)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusClosed, resp.Status)
	require.NotNil(t, resp.Duration)
	assert.GreaterOrEqual(t, *resp.Duration, 90)
}

func TestClose_InvalidRectificationDate(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, &allowAllQuota{})
	engineerID := int64(20)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusOngoing, CustomerID: 10, EngineerID: &engineerID})

	_, err := svc.Close(context.Background(), 1, engineerID, dto.CloseTicketDTO{
		RectificationDate: "15/09/2026",
		WorkDoneComment:   "done",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
}

func TestGetByID_CompanyScope(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, &allowAllQuota{})
	companyID := int64(1)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusPending, CustomerID: 10, CompanyID: &companyID})

	reporter := &service.Session{UserID: 10, Role: constants.RoleCustomer, CompanyID: companyID}
	_, err := svc.GetByID(context.Background(), 1, reporter)
	assert.NoError(t, err)

	// A colleague from the same company shares visibility of the ticket.
	colleague := &service.Session{UserID: 11, Role: constants.RoleCustomer, CompanyID: companyID}
	_, err = svc.GetByID(context.Background(), 1, colleague)
	assert.NoError(t, err)

	outsider := &service.Session{UserID: 40, Role: constants.RoleCustomer, CompanyID: 2}
	_, err = svc.GetByID(context.Background(), 1, outsider)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)

	staff := &service.Session{UserID: 20, Role: constants.RoleEngineer}
	_, err = svc.GetByID(context.Background(), 1, staff)
	assert.NoError(t, err)
}

func TestSummary_TotalsStatuses(t *testing.T) {
	svc, ticketRepo, _ := newTicketFixture(t, &allowAllQuota{})
	ticketRepo.statusCounts = map[string]int64{
		constants.StatusPending: 2,
		constants.StatusOngoing: 3,
		constants.StatusClosed:  5,
	}

	summary, err := svc.Summary(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Pending)
	assert.Equal(t, int64(3), summary.Ongoing)
	assert.Equal(t, int64(5), summary.Closed)
	assert.Equal(t, int64(10), summary.Total)
}
