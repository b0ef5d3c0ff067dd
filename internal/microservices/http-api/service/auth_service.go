package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"litreview/internal/config"
	"litreview/internal/logging"
	"litreview/internal/middleware/auth"
	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrEmailInUse         = errors.New("email already in use")
)

// Claims is the payload of an access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, form dto.SignupForm) (*models.User, error)
	Login(ctx context.Context, form dto.LoginForm) (accessToken, refreshToken string, user *models.User, err error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (newAccessToken string, claims *Claims, err error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	Logout(ctx context.Context, claims *Claims, refreshToken string) error
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	denylist         repository.TokenDenylist
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

// NewAuthService wires the auth service; denylist may be nil when redis is disabled.
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	denylist repository.TokenDenylist,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		denylist:         denylist,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,  // 15 minutes
		refreshTokenTTL:  cfg.RefreshTokenTTL, // 7 days
	}
}

// Register validates the signup form and creates the user.
// It does not log the new user in.
func (s *authService) Register(ctx context.Context, form dto.SignupForm) (*models.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)

	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	// Check if user exists
	taken, err := s.userRepo.UsernameExists(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameInUse
	}

	// Check if email exists
	taken, err = s.userRepo.EmailExists(ctx, form.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailInUse
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(form.Password1)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login: authenticates a user and returns access and refresh tokens upon successful login.
func (s *authService) Login(ctx context.Context, form dto.LoginForm) (string, string, *models.User, error) {
	if err := validation.Validate(form); err != nil {
		return "", "", nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, form.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, err
		}
		// unknown user still pays for a bcrypt compare
		auth.BurnCompare(form.Password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, form.Password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, err
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	return accessToken, refreshToken, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

// RefreshAccessToken issues a new access token for a live refresh token.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (string, *Claims, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidToken
		}
		return "", nil, err
	}

	if refreshToken.Revoked {
		return "", nil, ErrInvalidToken
	}

	// Check expiration
	if time.Now().After(refreshToken.ExpiresAt) {
		if err := s.refreshTokenRepo.Delete(ctx, refreshToken.ID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to delete expired refresh token")
		}
		return "", nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidToken
		}
		return "", nil, err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	claims, err := s.parse(accessToken)
	if err != nil {
		return "", nil, err
	}
	return accessToken, claims, nil
}

// ValidateToken parses an access token and rejects it if it was logged out.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if s.denylist != nil {
		denied, err := s.denylist.IsDenied(ctx, claims.ID)
		if err != nil {
			// fail open when redis is unreachable
			logging.Ctx(ctx).Warn().Err(err).Msg("token denylist lookup failed")
		} else if denied {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

func (s *authService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Logout denies the access token for the rest of its lifetime and revokes
// the refresh token. Either may be absent.
func (s *authService) Logout(ctx context.Context, claims *Claims, refreshTokenString string) error {
	var denyErr error
	if claims != nil && s.denylist != nil && claims.ExpiresAt != nil {
		if err := s.denylist.Deny(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			// the refresh token is still revoked below
			denyErr = fmt.Errorf("deny access token: %w", err)
		}
	}

	if refreshTokenString == "" {
		return denyErr
	}
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return denyErr
		}
		return errors.Join(denyErr, err)
	}
	return errors.Join(denyErr, s.refreshTokenRepo.Revoke(ctx, refreshToken.ID))
}

// UsernameAvailable reports whether nobody holds username, ignoring case.
// A blank username is never available.
func (s *authService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}
	taken, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// EmailAvailable reports whether nobody holds email, ignoring case.
// A blank email is never available.
func (s *authService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	taken, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return false, err
	}
	return !taken, nil
}
