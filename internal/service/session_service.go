package service

import (
	"strings"
	"time"

	"github.com/spec-kit/workload-service/internal/auth"
	"github.com/spec-kit/workload-service/internal/config"
	"github.com/spec-kit/workload-service/internal/domain"
	apperrors "github.com/spec-kit/workload-service/pkg/util"
)

// SessionService is the login boundary: it authenticates the two seeded demo
// accounts and issues tokens carrying (role, identity). The entity modules
// never touch session state themselves.
type SessionService struct {
	tokens   *auth.TokenManager
	accounts []account
}

type account struct {
	email        string
	passwordHash string
	role         domain.Role
}

// NewSessionService hashes the configured demo credentials at startup.
func NewSessionService(cfg config.Config) (*SessionService, error) {
	adminHash, err := auth.HashPassword(cfg.Auth.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	staffHash, err := auth.HashPassword(cfg.Auth.StaffPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &SessionService{
		tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		accounts: []account{
			{email: cfg.Auth.AdminEmail, passwordHash: adminHash, role: domain.RoleAdministrator},
			{email: cfg.Auth.StaffEmail, passwordHash: staffHash, role: domain.RoleStaff},
		},
	}, nil
}

// Login authenticates and returns an actor-bearing token.
func (s *SessionService) Login(email, password string) (auth.Actor, string, time.Time, error) {
	for _, acct := range s.accounts {
		if !strings.EqualFold(acct.email, email) {
			continue
		}
		if err := auth.ComparePassword(acct.passwordHash, password); err != nil {
			break
		}
		actor := auth.Actor{Role: acct.role, Identity: acct.email}
		token, exp, err := s.tokens.GenerateToken(actor)
		if err != nil {
			return auth.Actor{}, "", time.Time{}, apperrors.NewInternalError(err)
		}
		return actor, token, exp, nil
	}
	return auth.Actor{}, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
}

// TokenManager exposes the manager for middleware construction.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokens
}
