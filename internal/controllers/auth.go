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

type AuthController struct {
	authService services.AuthServiceInterface
	userService services.UserServiceInterface
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	userService services.UserServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		userService: userService,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// Login returns a handler bound to one portal role. Admin logins answer
// with an OTP challenge instead of a token.
func (c *AuthController) Login(role constants.Role) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var payload dto.LoginDTO
		if err := ctx.Bind(&payload); err != nil {
			return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
		}
		if err := ctx.Validate(&payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		result, err := c.authService.Login(ctx.Request().Context(), role, payload)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		if result.OTPRequired {
			return utils.SuccessResponse(ctx, nil, "OTP sent to your email", http.StatusOK)
		}
		return utils.SuccessResponse(ctx, result.Response, "login successful", http.StatusOK)
	}
}

func (c *AuthController) VerifyOTP(ctx echo.Context) error {
	var payload dto.VerifyOTPDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	resp, err := c.authService.VerifyOTP(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, resp, "login successful", http.StatusOK)
}

func (c *AuthController) ForgotPassword(role constants.Role) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var payload dto.ForgotPasswordDTO
		if err := ctx.Bind(&payload); err != nil {
			return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
		}
		if err := ctx.Validate(&payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		if err := c.authService.ForgotPassword(ctx.Request().Context(), role, payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, nil, "if the account exists, a reset code has been sent", http.StatusOK)
	}
}

func (c *AuthController) VerifyResetOTP(ctx echo.Context) error {
	var payload dto.VerifyResetOTPDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	token, err := c.authService.VerifyResetOTP(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"reset_token": token}, "code verified", http.StatusOK)
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	var payload dto.ResetPasswordDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.authService.ResetPassword(ctx.Request().Context(), payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "password updated", http.StatusOK)
}

func (c *AuthController) ChangePassword(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ChangePasswordDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.authService.ChangePassword(ctx.Request().Context(), session.UserID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "password updated", http.StatusOK)
}

func (c *AuthController) Profile(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.userService.GetByID(ctx.Request().Context(), session.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "Successfully", http.StatusOK)
}

func (c *AuthController) UpdateProfile(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateProfileDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.userService.UpdateProfile(ctx.Request().Context(), session.UserID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "profile updated", http.StatusOK)
}

func (c *AuthController) UploadProfileImage(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileHeader, err := ctx.FormFile("profile_image")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.BadRequest("profile_image file is required"), c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	path, err := c.fileStorage.Save(src, fileHeader.Filename, constants.UploadContextProfilePhoto.String())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.userService.UpdateProfileImage(ctx.Request().Context(), session.UserID, path); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"profile_image": path}, "profile image updated", http.StatusOK)
}
