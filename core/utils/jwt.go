package utils

import (
	stderrors "errors"
	"time"

	"deadline-tracker/core/config"
	"deadline-tracker/core/errors"

	"github.com/golang-jwt/jwt/v5"
)

type TokenData struct {
	TeacherID string
	ExpiresAt time.Time
}

type authClaims struct {
	TeacherID string `json:"teacher_id"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 access token for the given teacher.
func GenerateToken(teacherID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		TeacherID: teacherID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   teacherID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWT.Secret))
}

func ValidateAndParseToken(tokenString string) (*TokenData, *errors.AppError) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Unexpected signing method", nil)
		}
		return []byte(config.Get().JWT.Secret), nil
	})

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "Token has expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid token", err)
	}

	if !token.Valid || claims.TeacherID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid token claims", nil)
	}

	data := &TokenData{TeacherID: claims.TeacherID}
	if claims.ExpiresAt != nil {
		data.ExpiresAt = claims.ExpiresAt.Time
	}
	return data, nil
}
