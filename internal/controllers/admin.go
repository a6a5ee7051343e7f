package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/services"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/utils"
)

// AdminController groups the admin-only operations: company onboarding,
// bundle grants, user management, the dashboard and report exports.
type AdminController struct {
	companyService   services.CompanyServiceInterface
	bundleService    services.BundleServiceInterface
	userService      services.UserServiceInterface
	dashboardService services.DashboardServiceInterface
	reportService    services.ReportServiceInterface
	logger           *zap.Logger
}

func NewAdminController(
	companyService services.CompanyServiceInterface,
	bundleService services.BundleServiceInterface,
	userService services.UserServiceInterface,
	dashboardService services.DashboardServiceInterface,
	reportService services.ReportServiceInterface,
	logger *zap.Logger,
) *AdminController {
	return &AdminController{
		companyService:   companyService,
		bundleService:    bundleService,
		userService:      userService,
		dashboardService: dashboardService,
		reportService:    reportService,
		logger:           logger,
	}
}

func (c *AdminController) RegisterCompany(ctx echo.Context) error {
	var payload dto.RegisterCompanyDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	company, err := c.companyService.Register(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, company, "company registered", http.StatusCreated)
}

func (c *AdminController) ListCompanies(ctx echo.Context) error {
	companies, err := c.companyService.List(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, companies, "Successfully", http.StatusOK)
}

func (c *AdminController) AddBundle(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AddBundleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	bundle, err := c.bundleService.Add(ctx.Request().Context(), session.Name, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, bundle, "bundle added", http.StatusCreated)
}

func (c *AdminController) ListBundles(ctx echo.Context) error {
	companyID, err := strconv.ParseInt(ctx.Param("companyId"), 10, 64)
	if err != nil || companyID <= 0 {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid company id"), c.logger)
	}

	bundles, err := c.bundleService.ListByCompany(ctx.Request().Context(), companyID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, bundles, "Successfully", http.StatusOK)
}

func (c *AdminController) CreateUser(ctx echo.Context) error {
	var payload dto.CreateUserDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.userService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "user created", http.StatusCreated)
}

// ListUsers returns every account; the optional role query parameter
// narrows the list to one portal role.
func (c *AdminController) ListUsers(ctx echo.Context) error {
	if ctx.QueryParam("role") == "" {
		users, err := c.userService.List(ctx.Request().Context())
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, users, "Successfully", http.StatusOK)
	}

	role := constants.Role(ctx.QueryParam("role"))
	switch role {
	case constants.RoleCustomer, constants.RoleEngineer, constants.RoleAdmin, constants.RoleAccountManager:
	default:
		return utils.ErrorResponse(ctx, apperrors.BadRequest("role query parameter must be one of customer, engineer, admin, accountmanager"), c.logger)
	}

	users, err := c.userService.ListByRole(ctx.Request().Context(), role)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, users, "Successfully", http.StatusOK)
}

func (c *AdminController) DeleteUser(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid user id"), c.logger)
	}

	if err := c.userService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "user deleted", http.StatusOK)
}

func (c *AdminController) TicketsSummary(ctx echo.Context) error {
	summary, err := c.dashboardService.Summary(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "Successfully", http.StatusOK)
}

// ExportTickets streams the filtered ticket report as an xlsx download.
func (c *AdminController) ExportTickets(ctx echo.Context) error {
	var filter dto.ReportFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid report filters"), c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("tickets_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)

	return c.reportService.WriteXLSX(ctx.Request().Context(), filter, ctx.Response().Writer)
}
