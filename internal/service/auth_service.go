package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	"github.com/yu47362/sc2002InternshipApplication/internal/session"
	"github.com/yu47362/sc2002InternshipApplication/pkg/config"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

type authActorStore interface {
	FindActor(id string) (models.Actor, error)
	UpdatePasswordHash(id, hash string) error
}

// credentialPersister mirrors password rotations to durable storage.
type credentialPersister interface {
	UpdatePassword(ctx context.Context, role models.Role, id, passwordHash string) error
}

type sessionRegistry interface {
	Create(actor models.Actor) *session.Session
	Touch(actorID string) bool
	Remove(actorID string) bool
}

// AuthService authenticates actors against the seeded records and issues
// JWT access tokens. A successful login also opens a registry session.
type AuthService struct {
	actors    authActorStore
	persister credentialPersister
	sessions  sessionRegistry
	jwtCfg    config.JWTConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs AuthService. persister may be nil when the
// database is not configured.
func NewAuthService(actors authActorStore, persister credentialPersister, sessions sessionRegistry, jwtCfg config.JWTConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		actors:    actors,
		persister: persister,
		sessions:  sessions,
		jwtCfg:    jwtCfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Login verifies the credentials, issues a token and opens a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	actor, err := s.actors.FindActor(req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid user id or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash()), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid user id or password")
	}
	if actor.Role == models.RoleRepresentative && !actor.Representative.Approved {
		return nil, appErrors.Clone(appErrors.ErrRepresentativeHold, "representative account awaits staff approval")
	}

	issuedAt := s.now()
	token, err := s.issueToken(actor, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	s.sessions.Create(actor)
	s.logger.Info("actor logged in",
		zap.String("user_id", actor.ID()), zap.String("role", string(actor.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtCfg.Expiration.Seconds()),
		IssuedAt:    issuedAt,
		User:        models.UserInfo{ID: actor.ID(), Name: actor.Name(), Role: actor.Role},
	}, nil
}

// ValidateToken parses and verifies an access token, then refreshes the
// actor's session. A token without a live session is rejected: sessions
// idle past the timeout are swept even if the token itself has not expired.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if !s.sessions.Touch(claims.UserID) {
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "session expired, log in again")
	}
	return claims, nil
}

// ChangePassword rotates the actor's password after verifying the current
// one. The in-memory record is authoritative; the database write is
// best-effort.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}
	actor, err := s.actors.FindActor(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash()), []byte(req.CurrentPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.actors.UpdatePasswordHash(userID, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store password")
	}
	if s.persister != nil {
		if err := s.persister.UpdatePassword(ctx, actor.Role, userID, string(hash)); err != nil {
			s.logger.Warn("failed to persist password rotation",
				zap.String("user_id", userID), zap.Error(err))
		}
	}
	s.logger.Info("password rotated", zap.String("user_id", userID))
	return nil
}

// Logout closes the actor's session. Logging out without a session is not
// an error.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.sessions.Remove(userID) {
		s.logger.Info("actor logged out", zap.String("user_id", userID))
	}
}

func (s *AuthService) issueToken(actor models.Actor, issuedAt time.Time) (string, error) {
	claims := models.JWTClaims{
		UserID: actor.ID(),
		Name:   actor.Name(),
		Role:   actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Subject:   actor.ID(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.jwtCfg.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}
