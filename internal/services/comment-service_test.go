package services

import (
	"context"
	"testing"

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

func newCommentFixture(t *testing.T) (CommentServiceInterface, *fakeCommentRepo, *fakeTicketRepo) {
	t.Helper()
	commentRepo := &fakeCommentRepo{}
	ticketRepo := newFakeTicketRepo()
	svc := NewCommentService(commentRepo, ticketRepo, eventbus.New(zap.NewNop()), zap.NewNop())
	return svc, commentRepo, ticketRepo
}

func customerSession(userID int64) *service.Session {
	return &service.Session{UserID: userID, Role: constants.RoleCustomer, Name: "Jo Customer"}
}

func TestAddComment_RequiresContentOrAttachment(t *testing.T) {
	svc, _, ticketRepo := newCommentFixture(t)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusOngoing, CustomerID: 10})

	_, err := svc.AddComment(context.Background(), customerSession(10), 1, dto.CreateCommentDTO{Content: "   "}, nil)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
}

func TestAddComment_AttachmentOnlyIsEnough(t *testing.T) {
	svc, commentRepo, ticketRepo := newCommentFixture(t)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusOngoing, CustomerID: 10})

	resp, err := svc.AddComment(context.Background(), customerSession(10), 1, dto.CreateCommentDTO{}, &CommentAttachment{
		Path:     "uploads/attachments/shot.png",
		MimeType: "image/png",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.AttachmentPath)
	assert.Equal(t, "uploads/attachments/shot.png", *resp.AttachmentPath)
	require.NotNil(t, resp.AttachmentType)
	assert.Equal(t, constants.AttachmentTypeImage, *resp.AttachmentType)
	require.Len(t, commentRepo.comments, 1)
}

func TestAddComment_ClosedTicketRefused(t *testing.T) {
	svc, _, ticketRepo := newCommentFixture(t)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusClosed, CustomerID: 10})

	_, err := svc.AddComment(context.Background(), customerSession(10), 1, dto.CreateCommentDTO{Content: "still broken"}, nil)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestAddComment_SameCompanyColleagueAllowed(t *testing.T) {
	svc, commentRepo, ticketRepo := newCommentFixture(t)
	companyID := int64(1)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusOngoing, CustomerID: 10, CompanyID: &companyID})

	colleague := &service.Session{UserID: 11, Role: constants.RoleCustomer, Name: "Pat Colleague", CompanyID: companyID}
	_, err := svc.AddComment(context.Background(), colleague, 1, dto.CreateCommentDTO{Content: "any update?"}, nil)
	require.NoError(t, err)
	require.Len(t, commentRepo.comments, 1)

	outsider := &service.Session{UserID: 40, Role: constants.RoleCustomer, CompanyID: 2}
	_, err = svc.AddComment(context.Background(), outsider, 1, dto.CreateCommentDTO{Content: "hello"}, nil)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)
}

func TestAddComment_ForeignCustomerRefused(t *testing.T) {
	svc, _, ticketRepo := newCommentFixture(t)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusOngoing, CustomerID: 10})

	_, err := svc.AddComment(context.Background(), customerSession(11), 1, dto.CreateCommentDTO{Content: "hello"}, nil)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)
}

func TestListByTicket_CustomerSeesOwnThreadOnly(t *testing.T) {
	svc, commentRepo, ticketRepo := newCommentFixture(t)
	ticketRepo.put(&entities.Ticket{ID: 1, Status: constants.StatusOngoing, CustomerID: 10})
	commentRepo.comments = append(commentRepo.comments, &entities.Comment{
		ID: 1, TicketID: 1, AuthorID: 10, AuthorRole: "customer", Content: "first",
	})

	comments, err := svc.ListByTicket(context.Background(), customerSession(10), 1)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, "000001", comments[0].TicketID)

	_, err = svc.ListByTicket(context.Background(), customerSession(11), 1)
	require.Error(t, err)

	staff := &service.Session{UserID: 20, Role: constants.RoleEngineer}
	comments, err = svc.ListByTicket(context.Background(), staff, 1)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
