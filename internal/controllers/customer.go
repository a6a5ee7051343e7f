package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/repositories"
	"supportdesk/internal/services"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/utils"
)

// CustomerController serves the customer portal views that go beyond
// the shared ticket endpoints: quota standing and bundle purchases.
type CustomerController struct {
	ticketService services.TicketServiceInterface
	quotaService  services.QuotaServiceInterface
	bundleService services.BundleServiceInterface
	userRepo      repositories.UserRepositoryInterface
	companyRepo   repositories.CompanyRepositoryInterface
	logger        *zap.Logger
}

func NewCustomerController(
	ticketService services.TicketServiceInterface,
	quotaService services.QuotaServiceInterface,
	bundleService services.BundleServiceInterface,
	userRepo repositories.UserRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	logger *zap.Logger,
) *CustomerController {
	return &CustomerController{
		ticketService: ticketService,
		quotaService:  quotaService,
		bundleService: bundleService,
		userRepo:      userRepo,
		companyRepo:   companyRepo,
		logger:        logger,
	}
}

func (c *CustomerController) ListTickets(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tickets, err := c.ticketService.ListByCustomer(ctx.Request().Context(), session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tickets, "Successfully", http.StatusOK)
}

// TicketCounts reports the monthly service request standing, including
// carried-over bundle tickets.
func (c *CustomerController) TicketCounts(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	company, err := c.companyOf(ctx, session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	status, err := c.quotaService.Status(ctx.Request().Context(), company)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, status, "Successfully", http.StatusOK)
}

func (c *CustomerController) PurchaseBundle(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.PurchaseBundleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	bundle, err := c.bundleService.Purchase(ctx.Request().Context(), session.UserID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, bundle, "bundle added", http.StatusCreated)
}

func (c *CustomerController) companyOf(ctx echo.Context, userID int64) (*entities.Company, error) {
	user, err := c.userRepo.FindByID(ctx.Request().Context(), userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return nil, apperrors.BadRequest("customer is not linked to a company")
	}
	return c.companyRepo.FindByID(ctx.Request().Context(), *user.CompanyID)
}
