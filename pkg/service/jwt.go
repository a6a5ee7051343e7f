package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
)

// Session is the authenticated identity travelling through the request
// context. The display fields (name, company, ...) are also embedded in the
// token so the frontend can decode them for rendering; authorization
// decisions are always made server-side from the validated claims.
type Session struct {
	UserID      int64
	Role        constants.Role
	Name        string
	Email       string
	Mobile      string
	CompanyID   int64
	Company     string
	Designation string
}

type Claims struct {
	UserID      int64  `json:"id"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile,omitempty"`
	CompanyID   int64  `json:"company_id,omitempty"`
	Company     string `json:"company,omitempty"`
	Designation string `json:"designation,omitempty"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(session Session) (string, error)
	ValidateToken(tokenString string) (*Session, error)
}

type jwtService struct {
	secretKey      string
	accessTokenTTL time.Duration
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) JWTService {
	return &jwtService{
		secretKey:      secretKey,
		accessTokenTTL: accessTokenTTL,
	}
}

func (s *jwtService) GenerateToken(session Session) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      session.UserID,
		Role:        session.Role.String(),
		Name:        session.Name,
		Email:       session.Email,
		Mobile:      session.Mobile,
		CompanyID:   session.CompanyID,
		Company:     session.Company,
		Designation: session.Designation,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *jwtService) ValidateToken(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(time.Now().Add(time.Minute)) {
		return nil, apperrors.ErrTokenNotYetValid
	}

	return &Session{
		UserID:      claims.UserID,
		Role:        constants.Role(claims.Role),
		Name:        claims.Name,
		Email:       claims.Email,
		Mobile:      claims.Mobile,
		CompanyID:   claims.CompanyID,
		Company:     claims.Company,
		Designation: claims.Designation,
	}, nil
}
