package utils

import (
	"context"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"supportdesk/pkg/contextkeys"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/service"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(bytes), nil
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

// CheckPasswordComplexity enforces the password policy: minimum 8 characters
// with at least one upper, one lower, one digit and one symbol.
func CheckPasswordComplexity(password string) error {
	if len(password) < 8 {
		return apperrors.BadRequest("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return apperrors.BadRequest("password must contain upper and lower case letters, a digit and a symbol")
	}
	return nil
}

// GetSessionFromCtx returns the authenticated session placed into the request
// context by the auth middleware.
func GetSessionFromCtx(ctx context.Context) (*service.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(*service.Session)
	if !ok || session == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
