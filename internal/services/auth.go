package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/jwt"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrMissingRequiredField = errors.New("full name, email, username and password are required")
	ErrUserAlreadyExists    = errors.New("username or email already exists")
	ErrAvatarRequired       = errors.New("avatar is required")
	ErrAvatarUploadFailed   = errors.New("avatar upload failed")
	ErrMissingIdentifier    = errors.New("either username or email is required")
	ErrUserDoesNotExist     = errors.New("user does not exist")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrWrongPassword        = errors.New("old password is incorrect")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, fullName, avatarURL, coverImageURL, passwordHash string) (uuid.UUID, error)
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, refreshToken *string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// TokenPairGenerator defines an interface for issuing and parsing token pairs.
type TokenPairGenerator interface {
	GenerateAccess(ctx context.Context, userID uuid.UUID) (string, error)
	GenerateRefresh(ctx context.Context, userID uuid.UUID) (string, error)
	GetRefreshClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// MediaUploader transfers a locally staged file to the media host.
// A nil result signals upload failure; no error is ever returned.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) *models.MediaAsset
}

// TokenPair carries a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, login, logout, token rotation and
// password changes.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    TokenPairGenerator
	media  MediaUploader
	events EventPublisher
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenPairGenerator, media MediaUploader, events EventPublisher) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
		media:  media,
		events: events,
	}
}

// Register creates a new user. The avatar at avatarLocalPath is required and
// must upload successfully; the cover image is optional and its upload
// failure is tolerated. The username is stored lowercase.
func (svc *AuthService) Register(ctx context.Context, fullName, email, username, password, avatarLocalPath, coverLocalPath string) (*models.UserDB, error) {
	if fullName == "" || email == "" || username == "" || password == "" {
		return nil, ErrMissingRequiredField
	}
	if avatarLocalPath == "" {
		return nil, ErrAvatarRequired
	}

	username = strings.ToLower(username)

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("user already exists", "username", username, "email", email)
		return nil, ErrUserAlreadyExists
	}

	avatar := svc.media.Upload(ctx, avatarLocalPath)
	if avatar == nil {
		logger.Log.Errorw("avatar upload failed", "username", username)
		return nil, ErrAvatarUploadFailed
	}

	coverURL := ""
	if coverLocalPath != "" {
		if cover := svc.media.Upload(ctx, coverLocalPath); cover != nil {
			coverURL = cover.URL
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	userID, err := svc.writer.Save(ctx, username, email, fullName, avatar.URL, coverURL, string(hashedPassword))
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("registered user not found")
	}

	publishEvent(ctx, svc.events, models.Event{
		EventID:   uuid.NewString(),
		Kind:      models.EventUserRegistered,
		Timestamp: time.Now().Unix(),
		UserID:    userID.String(),
	})

	return user, nil
}

// issueTokenPair generates an access/refresh pair for the user and persists
// the refresh token on the user record, superseding any previous one.
func (svc *AuthService) issueTokenPair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := svc.jwt.GenerateAccess(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "err", err)
		return nil, err
	}

	refreshToken, err := svc.jwt.GenerateRefresh(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "err", err)
		return nil, err
	}

	if err := svc.writer.UpdateRefreshToken(ctx, userID, &refreshToken); err != nil {
		logger.Log.Errorw("failed to persist refresh token", "err", err)
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login authenticates a user by username or email and issues a token pair.
func (svc *AuthService) Login(ctx context.Context, username, email, password string) (*models.UserDB, *TokenPair, error) {
	if username == "" && email == "" {
		return nil, nil, ErrMissingIdentifier
	}

	var usernameFilter, emailFilter *string
	if username != "" {
		lowered := strings.ToLower(username)
		usernameFilter = &lowered
	}
	if email != "" {
		emailFilter = &email
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, usernameFilter, emailFilter)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, nil, err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "username", username, "email", email)
		return nil, nil, ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "username", user.Username)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := svc.issueTokenPair(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a presented refresh token. The token must verify
// cryptographically, resolve to an existing user, and match the stored copy
// byte-for-byte; a superseded token is rejected even while its signature is
// still valid.
func (svc *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := svc.jwt.GetRefreshClaims(ctx, presented)
	if err != nil {
		logger.Log.Errorw("refresh token verification failed", "err", err)
		return nil, ErrInvalidRefreshToken
	}

	user, err := svc.reader.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logger.Log.Errorw("refresh token user not found", "user_id", claims.UserID)
		return nil, ErrInvalidRefreshToken
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		logger.Log.Errorw("refresh token does not match stored token", "user_id", claims.UserID)
		return nil, ErrInvalidRefreshToken
	}

	return svc.issueTokenPair(ctx, user.UserID)
}

// Logout clears the stored refresh token, revoking any outstanding one.
func (svc *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := svc.writer.UpdateRefreshToken(ctx, userID, nil); err != nil {
		logger.Log.Errorw("failed to clear refresh token", "user_id", userID, "err", err)
		return err
	}
	return nil
}

// ChangePassword replaces the user's password after verifying the old one.
func (svc *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingRequiredField
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	return svc.writer.UpdatePassword(ctx, userID, string(hashed))
}

// GetCurrentUser returns the authenticated user's record.
func (svc *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user, nil
}
