package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"agromart/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	tokenIssuer     = "agromart-api"
)

var ErrSecretNotConfigured = errors.New("JWT_SECRET not configured")

func signingSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrSecretNotConfigured
	}
	return []byte(secret), nil
}

func signToken(claims *models.UserClaims, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	signed := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		Permissions:  claims.Permissions,
		TokenVersion: claims.TokenVersion,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, signed).SignedString(secret)
}

// GenerateTokens issues the access/refresh token pair for the given claims.
// TokenVersion is embedded in both so a logout invalidates everything issued
// before it.
func GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	secret, err := signingSecret()
	if err != nil {
		return "", "", err
	}

	accessToken, err = signToken(claims, accessTokenTTL, secret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = signToken(claims, refreshTokenTTL, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ParseToken validates a token string and returns its claims. Only HMAC
// signatures are accepted.
func ParseToken(tokenStr string) (*jwt.Token, *models.UserClaims, error) {
	secret, err := signingSecret()
	if err != nil {
		return nil, nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}

	return token, claims, nil
}
