package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/services"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/filestorage"
	"supportdesk/pkg/utils"
)

type TicketController struct {
	ticketService services.TicketServiceInterface
	fileStorage   filestorage.FileStorageInterface
	logger        *zap.Logger
}

func NewTicketController(
	ticketService services.TicketServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *TicketController {
	return &TicketController{
		ticketService: ticketService,
		fileStorage:   fileStorage,
		logger:        logger,
	}
}

// CreateServiceRequest handles the customer multipart form. Quota
// enforcement happens in the service layer.
func (c *TicketController) CreateServiceRequest(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	documents, err := c.saveDocuments(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.ticketService.CreateServiceRequest(ctx.Request().Context(), session.UserID, payload, documents)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "service request created", http.StatusCreated)
}

func (c *TicketController) CreateFaultyTicket(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	documents, err := c.saveDocuments(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.ticketService.CreateFaultyTicket(ctx.Request().Context(), session.UserID, payload, documents)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "faulty ticket created", http.StatusCreated)
}

// CreateOnBehalf lets an engineer raise a ticket for a customer.
func (c *TicketController) CreateOnBehalf(ticketType string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var payload dto.EngineerCreateTicketDTO
		if err := ctx.Bind(&payload); err != nil {
			return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
		}
		if err := ctx.Validate(&payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		documents, err := c.saveDocuments(ctx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		create := dto.CreateTicketDTO{
			Subject:     payload.Subject,
			Description: payload.Description,
			Priority:    payload.Priority,
			Override:    payload.Override,
		}

		var ticket *dto.TicketResponseDTO
		if ticketType == constants.TicketTypeServiceRequest {
			ticket, err = c.ticketService.CreateServiceRequest(ctx.Request().Context(), payload.CustomerID, create, documents)
		} else {
			ticket, err = c.ticketService.CreateFaultyTicket(ctx.Request().Context(), payload.CustomerID, create, documents)
		}
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, ticket, "ticket created", http.StatusCreated)
	}
}

func (c *TicketController) ListPending(ctx echo.Context) error {
	tickets, err := c.ticketService.ListPending(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tickets, "Successfully", http.StatusOK)
}

func (c *TicketController) Assign(ctx echo.Context) error {
	ticketID, err := parseTicketID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.ticketService.Assign(ctx.Request().Context(), ticketID, payload.EngineerID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "ticket assigned", http.StatusOK)
}

func (c *TicketController) Reassign(ctx echo.Context) error {
	ticketID, err := parseTicketID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.ticketService.Reassign(ctx.Request().Context(), ticketID, payload.EngineerID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "ticket reassigned", http.StatusOK)
}

func (c *TicketController) Close(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ticketID, err := parseTicketID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CloseTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.ticketService.Close(ctx.Request().Context(), ticketID, session.UserID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "ticket closed", http.StatusOK)
}

func (c *TicketController) ListAssigned(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tickets, err := c.ticketService.ListAssigned(ctx.Request().Context(), session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tickets, "Successfully", http.StatusOK)
}

func (c *TicketController) Summary(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	summary, err := c.ticketService.Summary(ctx.Request().Context(), session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "Successfully", http.StatusOK)
}

func (c *TicketController) ListHistory(ctx echo.Context) error {
	tickets, err := c.ticketService.ListHistory(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tickets, "Successfully", http.StatusOK)
}

func (c *TicketController) GetByID(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ticketID, err := parseTicketID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.ticketService.GetByID(ctx.Request().Context(), ticketID, session)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "Successfully", http.StatusOK)
}

func (c *TicketController) saveDocuments(ctx echo.Context) ([]string, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		// Plain JSON requests carry no attachments.
		return nil, nil
	}

	var files []*multipart.FileHeader
	for _, field := range []string{"documents", "files"} {
		files = append(files, form.File[field]...)
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, err
		}
		path, err := c.fileStorage.Save(src, fh.Filename, constants.UploadContextTicketDocument.String())
		src.Close()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func parseTicketID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest("invalid ticket id")
	}
	return id, nil
}
