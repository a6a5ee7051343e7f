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
	"supportdesk/pkg/config"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/service"
	"supportdesk/pkg/utils"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		MaxLoginAttempts: 3,
		AttemptWindow:    15 * time.Minute,
		LockoutDuration:  5 * time.Minute,
		OTPTTL:           5 * time.Minute,
		ResetTokenTTL:    5 * time.Minute,
		MaintainerEmail:  "root@support.example",
	}
}

func newAuthFixture(t *testing.T) (AuthServiceInterface, *fakeUserRepo, *fakeCacheRepo, *fakeMailer) {
	t.Helper()
	hash, err := utils.HashPassword("Correct#Horse1")
	require.NoError(t, err)

	customer := &entities.User{ID: 10, Name: "Jo Customer", Email: "jo@acme.example", Mobile: "0771234567", Role: constants.RoleCustomer, Password: hash}
	admin := &entities.User{ID: 30, Name: "Max Admin", Email: "max@support.example", Mobile: "0777654321", Role: constants.RoleAdmin, Password: hash}
	maintainer := &entities.User{ID: 31, Name: "Root", Email: "root@support.example", Mobile: "0770000000", Role: constants.RoleAdmin, Password: hash}

	userRepo := newFakeUserRepo(customer, admin, maintainer)
	cacheRepo := newFakeCacheRepo()
	mail := &fakeMailer{}
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	svc := NewAuthService(userRepo, cacheRepo, jwtSvc, mail, testAuthConfig(), zap.NewNop())
	return svc, userRepo, cacheRepo, mail
}

func TestLogin_Success(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	result, err := svc.Login(context.Background(), constants.RoleCustomer, dto.LoginDTO{
		Email:    "jo@acme.example",
		Password: "Correct#Horse1",
	})
	require.NoError(t, err)

	assert.False(t, result.OTPRequired)
	require.NotNil(t, result.Response)
	assert.NotEmpty(t, result.Response.Token)
	assert.Equal(t, "customer", result.Response.Role)
}

func TestLogin_WrongRoleRejected(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), constants.RoleEngineer, dto.LoginDTO{
		Email:    "jo@acme.example",
		Password: "Correct#Horse1",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 401, httpErr.Code)
}

func TestLogin_LockoutAfterThreeFailures(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	payload := dto.LoginDTO{Email: "jo@acme.example", Password: "wrong"}

	_, err := svc.Login(context.Background(), constants.RoleCustomer, payload)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 401, httpErr.Code)
	assert.Equal(t, 2, httpErr.Details["attempts_left"])

	_, err = svc.Login(context.Background(), constants.RoleCustomer, payload)
	httpErr, ok = err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 1, httpErr.Details["attempts_left"])

	_, err = svc.Login(context.Background(), constants.RoleCustomer, payload)
	httpErr, ok = err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)
	assert.Equal(t, 300, httpErr.Details["retry_after_seconds"])

	// Even the correct password is refused while the lock holds.
	_, err = svc.Login(context.Background(), constants.RoleCustomer, dto.LoginDTO{
		Email:    "jo@acme.example",
		Password: "Correct#Horse1",
	})
	httpErr, ok = err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)
	assert.Equal(t, 300, httpErr.Details["retry_after_seconds"])
}

func TestLogin_SuccessClearsFailureCounter(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	bad := dto.LoginDTO{Email: "jo@acme.example", Password: "wrong"}
	good := dto.LoginDTO{Email: "jo@acme.example", Password: "Correct#Horse1"}

	_, _ = svc.Login(context.Background(), constants.RoleCustomer, bad)
	_, _ = svc.Login(context.Background(), constants.RoleCustomer, bad)

	_, err := svc.Login(context.Background(), constants.RoleCustomer, good)
	require.NoError(t, err)

	// The window restarts from three after a successful login.
	_, err = svc.Login(context.Background(), constants.RoleCustomer, bad)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 2, httpErr.Details["attempts_left"])
}

func TestAdminLogin_RequiresOTP(t *testing.T) {
	svc, _, _, mail := newAuthFixture(t)

	result, err := svc.Login(context.Background(), constants.RoleAdmin, dto.LoginDTO{
		Email:    "max@support.example",
		Password: "Correct#Horse1",
	})
	require.NoError(t, err)
	assert.True(t, result.OTPRequired)
	assert.Nil(t, result.Response)

	code := mail.otpFor("max@support.example")
	require.Len(t, code, 6)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, err = svc.VerifyOTP(context.Background(), dto.VerifyOTPDTO{Email: "max@support.example", OTP: wrong})
	require.Error(t, err)

	resp, err := svc.VerifyOTP(context.Background(), dto.VerifyOTPDTO{Email: "max@support.example", OTP: code})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// The code is single use.
	_, err = svc.VerifyOTP(context.Background(), dto.VerifyOTPDTO{Email: "max@support.example", OTP: code})
	require.Error(t, err)
}

func TestAdminLogin_MaintainerBypassesOTP(t *testing.T) {
	svc, _, _, mail := newAuthFixture(t)

	result, err := svc.Login(context.Background(), constants.RoleAdmin, dto.LoginDTO{
		Email:    "root@support.example",
		Password: "Correct#Horse1",
	})
	require.NoError(t, err)
	assert.False(t, result.OTPRequired)
	require.NotNil(t, result.Response)
	assert.Empty(t, mail.calls)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, userRepo, _, mail := newAuthFixture(t)

	err := svc.ForgotPassword(context.Background(), constants.RoleCustomer, dto.ForgotPasswordDTO{Email: "jo@acme.example"})
	require.NoError(t, err)

	code := mail.otpFor("jo@acme.example")
	require.Len(t, code, 6)

	token, err := svc.VerifyResetOTP(context.Background(), dto.VerifyResetOTPDTO{Email: "jo@acme.example", OTP: code})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{
		Email:       "jo@acme.example",
		Token:       token,
		NewPassword: "weakpass",
	})
	require.Error(t, err, "password without upper case, digit and symbol must be refused")

	err = svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{
		Email:       "jo@acme.example",
		Token:       token,
		NewPassword: "New#Secret99",
	})
	require.NoError(t, err)

	user, err := userRepo.FindByEmail(context.Background(), "jo@acme.example")
	require.NoError(t, err)
	assert.NoError(t, utils.ComparePasswords(user.Password, "New#Secret99"))
}

func TestForgotPassword_UnknownAccountStaysSilent(t *testing.T) {
	svc, _, _, mail := newAuthFixture(t)

	err := svc.ForgotPassword(context.Background(), constants.RoleCustomer, dto.ForgotPasswordDTO{Email: "ghost@acme.example"})
	assert.NoError(t, err)
	assert.Empty(t, mail.calls)
}

func TestResetPassword_BadTokenRejected(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{
		Email:       "jo@acme.example",
		Token:       "not-a-token",
		NewPassword: "New#Secret99",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 401, httpErr.Code)
}

func TestChangePassword_VerifiesCurrent(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), 10, dto.ChangePasswordDTO{
		CurrentPassword: "wrong",
		NewPassword:     "New#Secret99",
	})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), 10, dto.ChangePasswordDTO{
		CurrentPassword: "Correct#Horse1",
		NewPassword:     "New#Secret99",
	})
	require.NoError(t, err)

	user, err := userRepo.FindByID(context.Background(), 10)
	require.NoError(t, err)
	assert.NoError(t, utils.ComparePasswords(user.Password, "New#Secret99"))
}
