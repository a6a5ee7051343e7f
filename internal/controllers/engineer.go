package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"supportdesk/internal/services"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/utils"
)

// EngineerController serves the directory lookups engineers use when
// raising a ticket on a customer's behalf.
type EngineerController struct {
	companyService services.CompanyServiceInterface
	userService    services.UserServiceInterface
	logger         *zap.Logger
}

func NewEngineerController(
	companyService services.CompanyServiceInterface,
	userService services.UserServiceInterface,
	logger *zap.Logger,
) *EngineerController {
	return &EngineerController{
		companyService: companyService,
		userService:    userService,
		logger:         logger,
	}
}

func (c *EngineerController) ListCompanies(ctx echo.Context) error {
	companies, err := c.companyService.List(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, companies, "Successfully", http.StatusOK)
}

func (c *EngineerController) ListCompanyCustomers(ctx echo.Context) error {
	companyID, err := strconv.ParseInt(ctx.Param("companyId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid company id"), c.logger)
	}

	customers, err := c.userService.ListByCompany(ctx.Request().Context(), companyID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, customers, "Successfully", http.StatusOK)
}
