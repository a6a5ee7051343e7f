package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/services"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/filestorage"
	"supportdesk/pkg/utils"
)

type CommentController struct {
	commentService services.CommentServiceInterface
	fileStorage    filestorage.FileStorageInterface
	logger         *zap.Logger
}

func NewCommentController(
	commentService services.CommentServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *CommentController {
	return &CommentController{
		commentService: commentService,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

// AddComment accepts a multipart form with an optional text part and an
// optional single attachment.
func (c *CommentController) AddComment(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ticketID, err := parseTicketID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateCommentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var attachment *services.CommentAttachment
	if fileHeader, err := ctx.FormFile("attachment"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		path, err := c.fileStorage.Save(src, fileHeader.Filename, constants.UploadContextCommentAttachment.String())
		src.Close()
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		attachment = &services.CommentAttachment{
			Path:     path,
			MimeType: fileHeader.Header.Get("Content-Type"),
		}
	}

	comment, err := c.commentService.AddComment(ctx.Request().Context(), session, ticketID, payload, attachment)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, comment, "comment added", http.StatusCreated)
}

func (c *CommentController) ListComments(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ticketID, err := parseTicketID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	comments, err := c.commentService.ListByTicket(ctx.Request().Context(), session, ticketID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, comments, "Successfully", http.StatusOK)
}
