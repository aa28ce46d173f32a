package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenCookie is the cookie name under which the access token is set on login.
const AccessTokenCookie = "accessToken"

// RefreshTokenCookie is the cookie name under which the refresh token is set on login.
const RefreshTokenCookie = "refreshToken"

// Claims holds the parsed token claims.
type Claims struct {
	UserID uuid.UUID // ID of the authenticated user
}

// JWT issues and validates access and refresh tokens.
// The two token kinds are signed with independent secrets and expirations.
type JWT struct {
	AccessSecret  string        // Secret key for signing access tokens
	RefreshSecret string        // Secret key for signing refresh tokens
	AccessExp     time.Duration // Access token expiration duration
	RefreshExp    time.Duration // Refresh token expiration duration
}

// Option configures a JWT instance.
type Option func(*JWT)

// WithAccessSecret sets the access token signing secret.
func WithAccessSecret(secret string) Option {
	return func(j *JWT) { j.AccessSecret = secret }
}

// WithRefreshSecret sets the refresh token signing secret.
func WithRefreshSecret(secret string) Option {
	return func(j *JWT) { j.RefreshSecret = secret }
}

// WithAccessExpiration sets the access token lifetime.
func WithAccessExpiration(exp time.Duration) Option {
	return func(j *JWT) { j.AccessExp = exp }
}

// WithRefreshExpiration sets the refresh token lifetime.
func WithRefreshExpiration(exp time.Duration) Option {
	return func(j *JWT) { j.RefreshExp = exp }
}

// New creates a new JWT instance.
func New(opts ...Option) *JWT {
	j := &JWT{
		AccessExp:  15 * time.Minute,
		RefreshExp: 10 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// GenerateAccess creates a short-lived access token for the given user.
func (j *JWT) GenerateAccess(ctx context.Context, userID uuid.UUID) (string, error) {
	return j.generate(j.AccessSecret, j.AccessExp, userID)
}

// GenerateRefresh creates a long-lived refresh token for the given user.
func (j *JWT) GenerateRefresh(ctx context.Context, userID uuid.UUID) (string, error) {
	return j.generate(j.RefreshSecret, j.RefreshExp, userID)
}

func (j *JWT) generate(secret string, exp time.Duration, userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(exp).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GetAccessClaims parses an access token string and returns its claims if valid.
func (j *JWT) GetAccessClaims(ctx context.Context, tokenString string) (*Claims, error) {
	return j.parse(j.AccessSecret, tokenString)
}

// GetRefreshClaims parses a refresh token string and returns its claims if valid.
func (j *JWT) GetRefreshClaims(ctx context.Context, tokenString string) (*Claims, error) {
	return j.parse(j.RefreshSecret, tokenString)
}

func (j *JWT) parse(secret string, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if userIDStr, ok := claims["user_id"].(string); ok {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return nil, errors.New("invalid user_id format")
			}
			return &Claims{UserID: userID}, nil
		}
		return nil, errors.New("user_id not found in token")
	}
	return nil, errors.New("invalid token")
}

// GetTokenFromRequest extracts the access token from the Authorization header,
// falling back to the accessToken cookie set on login.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}

	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", errors.New("authorization header missing")
	}
	return cookie.Value, nil
}
