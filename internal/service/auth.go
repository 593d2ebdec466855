package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
)

// AuthService configures the Clerk SDK. Without a secret key the
// processing routes are served unauthenticated.
type AuthService struct {
	enabled bool
}

func NewAuthService(cfg config.AuthConfig, logger *zerolog.Logger) *AuthService {
	if !cfg.Enabled() {
		logger.Warn().Msg("clerk secret key not set, processing routes are unauthenticated")
		return &AuthService{}
	}

	clerk.SetKey(cfg.SecretKey)
	return &AuthService{enabled: true}
}

func (a *AuthService) Enabled() bool {
	return a.enabled
}
