package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medsup-innovation/medsup-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAccessToken issues a signed JWT for the provided payload using the configured TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}

	issuedAt := jwt.NewNumericDate(now)
	expiry := jwt.NewNumericDate(now.Add(cfg.Expiration()))

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := AccessTokenClaims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  issuedAt,
			ExpiresAt: expiry,
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates the JWT string and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
