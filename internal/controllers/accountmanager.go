package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"supportdesk/internal/services"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/utils"
)

// AccountManagerController serves the read-only portfolio views for
// account managers: their companies, those companies' customers and
// tickets.
type AccountManagerController struct {
	companyService services.CompanyServiceInterface
	userService    services.UserServiceInterface
	ticketService  services.TicketServiceInterface
	logger         *zap.Logger
}

func NewAccountManagerController(
	companyService services.CompanyServiceInterface,
	userService services.UserServiceInterface,
	ticketService services.TicketServiceInterface,
	logger *zap.Logger,
) *AccountManagerController {
	return &AccountManagerController{
		companyService: companyService,
		userService:    userService,
		ticketService:  ticketService,
		logger:         logger,
	}
}

func (c *AccountManagerController) ListCompanies(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	companies, err := c.companyService.ListByAccountManager(ctx.Request().Context(), session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, companies, "Successfully", http.StatusOK)
}

func (c *AccountManagerController) ListCustomers(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	customers, err := c.userService.ListCustomersByAccountManager(ctx.Request().Context(), session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, customers, "Successfully", http.StatusOK)
}

// ListTickets returns every ticket raised by companies in the caller's
// portfolio.
func (c *AccountManagerController) ListTickets(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	companies, err := c.companyService.ListByAccountManager(ctx.Request().Context(), session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ids := make([]int64, 0, len(companies))
	for _, company := range companies {
		ids = append(ids, company.ID)
	}

	all, err := c.ticketService.ListForCompanies(ctx.Request().Context(), ids)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, all, "Successfully", http.StatusOK)
}

func (c *AccountManagerController) CompanyDetails(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	companyName := ctx.Param("companyName")
	if companyName == "" {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("company name is required"), c.logger)
	}

	details, err := c.companyService.Details(ctx.Request().Context(), session.UserID, companyName)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, details, "Successfully", http.StatusOK)
}
