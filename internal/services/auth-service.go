package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/config"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/mailer"
	"supportdesk/pkg/service"
	"supportdesk/pkg/utils"
)

// LoginResult distinguishes a completed login from the admin OTP
// handshake, where the token is issued only after code verification.
type LoginResult struct {
	OTPRequired bool
	Response    *dto.LoginResponseDTO
}

type AuthServiceInterface interface {
	Login(ctx context.Context, role constants.Role, payload dto.LoginDTO) (*LoginResult, error)
	VerifyOTP(ctx context.Context, payload dto.VerifyOTPDTO) (*dto.LoginResponseDTO, error)
	ForgotPassword(ctx context.Context, role constants.Role, payload dto.ForgotPasswordDTO) error
	VerifyResetOTP(ctx context.Context, payload dto.VerifyResetOTPDTO) (string, error)
	ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error
	ChangePassword(ctx context.Context, userID int64, payload dto.ChangePasswordDTO) error
}

type authService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	mail       mailer.Mailer
	authCfg    config.AuthConfig
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	mail mailer.Mailer,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &authService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		mail:       mail,
		authCfg:    authCfg,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, role constants.Role, payload dto.LoginDTO) (*LoginResult, error) {
	if err := s.checkLockout(ctx, role, payload.Email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmailAndRole(ctx, payload.Email, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, s.recordFailure(ctx, role, payload.Email)
		}
		return nil, err
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		return nil, s.recordFailure(ctx, role, payload.Email)
	}

	s.clearFailures(ctx, role, payload.Email)

	if role == constants.RoleAdmin && user.Email != s.authCfg.MaintainerEmail {
		if err := s.sendLoginOTP(ctx, user); err != nil {
			return nil, err
		}
		return &LoginResult{OTPRequired: true}, nil
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Response: resp}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, payload dto.VerifyOTPDTO) (*dto.LoginResponseDTO, error) {
	key := fmt.Sprintf(constants.CacheKeyOTP, constants.OTPPurposeAdminLogin, payload.Email)
	stored, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.Unauthorized("OTP expired or not requested")
		}
		return nil, err
	}
	if stored != payload.OTP {
		return nil, apperrors.Unauthorized("invalid OTP")
	}
	_ = s.cacheRepo.Del(ctx, key)

	user, err := s.userRepo.FindByEmailAndRole(ctx, payload.Email, constants.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *authService) ForgotPassword(ctx context.Context, role constants.Role, payload dto.ForgotPasswordDTO) error {
	user, err := s.userRepo.FindByEmailAndRole(ctx, payload.Email, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Do not reveal whether the account exists.
			return nil
		}
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	key := fmt.Sprintf(constants.CacheKeyOTP, constants.OTPPurposePasswordReset, user.Email)
	if err := s.cacheRepo.Set(ctx, key, code, s.authCfg.OTPTTL); err != nil {
		return err
	}
	return s.mail.SendPasswordReset(user.Email, code)
}

func (s *authService) VerifyResetOTP(ctx context.Context, payload dto.VerifyResetOTPDTO) (string, error) {
	key := fmt.Sprintf(constants.CacheKeyOTP, constants.OTPPurposePasswordReset, payload.Email)
	stored, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.Unauthorized("OTP expired or not requested")
		}
		return "", err
	}
	if stored != payload.OTP {
		return "", apperrors.Unauthorized("invalid OTP")
	}
	_ = s.cacheRepo.Del(ctx, key)

	token := uuid.NewString()
	tokenKey := fmt.Sprintf(constants.CacheKeyResetToken, token)
	if err := s.cacheRepo.Set(ctx, tokenKey, payload.Email, s.authCfg.ResetTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

func (s *authService) ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error {
	tokenKey := fmt.Sprintf(constants.CacheKeyResetToken, payload.Token)
	email, err := s.cacheRepo.Get(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.Unauthorized("reset token expired or invalid")
		}
		return err
	}
	if email != payload.Email {
		return apperrors.Unauthorized("reset token expired or invalid")
	}

	if err := utils.CheckPasswordComplexity(payload.NewPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	_ = s.cacheRepo.Del(ctx, tokenKey)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, payload dto.ChangePasswordDTO) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(user.Password, payload.CurrentPassword); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}
	if err := utils.CheckPasswordComplexity(payload.NewPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hash)
}

func (s *authService) checkLockout(ctx context.Context, role constants.Role, email string) error {
	key := fmt.Sprintf(constants.CacheKeyLockout, role, email)
	if _, err := s.cacheRepo.Get(ctx, key); err == nil {
		ttl, ttlErr := s.cacheRepo.TTL(ctx, key)
		details := map[string]interface{}{}
		if ttlErr == nil && ttl > 0 {
			details["retry_after_seconds"] = int(ttl.Seconds())
		}
		return apperrors.NewHttpError(http.StatusForbidden,
			"Account temporarily locked due to repeated failed logins", nil, details)
	} else if !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (s *authService) recordFailure(ctx context.Context, role constants.Role, email string) error {
	key := fmt.Sprintf(constants.CacheKeyLoginAttempts, role, email)
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		return err
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, key, s.authCfg.AttemptWindow)
	}

	if attempts >= int64(s.authCfg.MaxLoginAttempts) {
		lockKey := fmt.Sprintf(constants.CacheKeyLockout, role, email)
		if err := s.cacheRepo.Set(ctx, lockKey, "locked", s.authCfg.LockoutDuration); err != nil {
			return err
		}
		_ = s.cacheRepo.Del(ctx, key)
		s.logger.Warn("account locked after repeated failures",
			zap.String("role", role.String()), zap.String("email", email))
		return apperrors.NewHttpError(http.StatusForbidden,
			"Account temporarily locked due to repeated failed logins", nil,
			map[string]interface{}{"retry_after_seconds": int(s.authCfg.LockoutDuration.Seconds())})
	}

	attemptsLeft := s.authCfg.MaxLoginAttempts - int(attempts)
	return apperrors.NewHttpError(http.StatusUnauthorized,
		"invalid email or password", apperrors.ErrInvalidCredentials,
		map[string]interface{}{"attempts_left": attemptsLeft})
}

func (s *authService) clearFailures(ctx context.Context, role constants.Role, email string) {
	key := fmt.Sprintf(constants.CacheKeyLoginAttempts, role, email)
	_ = s.cacheRepo.Del(ctx, key)
}

func (s *authService) sendLoginOTP(ctx context.Context, user *entities.User) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}
	key := fmt.Sprintf(constants.CacheKeyOTP, constants.OTPPurposeAdminLogin, user.Email)
	if err := s.cacheRepo.Set(ctx, key, code, s.authCfg.OTPTTL); err != nil {
		return err
	}
	return s.mail.SendOTP(user.Email, code)
}

func (s *authService) issueToken(user *entities.User) (*dto.LoginResponseDTO, error) {
	sess := service.Session{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
		Mobile: user.Mobile,
	}
	if user.CompanyID != nil {
		sess.CompanyID = *user.CompanyID
	}
	if user.CompanyName != nil {
		sess.Company = *user.CompanyName
	}
	if user.Designation != nil {
		sess.Designation = *user.Designation
	}

	token, err := s.jwtService.GenerateToken(sess)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponseDTO{
		Token:        token,
		Name:         user.Name,
		Email:        user.Email,
		Mobile:       user.Mobile,
		Role:         user.Role.String(),
		Company:      user.CompanyName,
		Designation:  user.Designation,
		ProfileImage: user.ProfileImage,
	}, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
