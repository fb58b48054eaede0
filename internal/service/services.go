package service

import (
	"github.com/dkotelnikov/go-password-safe/internal/config"
	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/store"
)

type Services struct {
	AuthService  AuthService
	VaultService VaultService
}

func NewServices(storages store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	hashChain := crypto.NewHashChainService()

	authService, err := NewAuthService(
		storages.AccountRepository,
		storages.ChallengeRepository,
		storages.SessionRepository,
		hashChain,
		cfg.App,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:  authService,
		VaultService: NewVaultService(storages.VaultRepository, logger),
	}, nil
}
