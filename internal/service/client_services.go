package service

import (
	"github.com/dkotelnikov/go-password-safe/internal/adapter"
	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
)

type ClientServices struct {
	AuthService  ClientAuthService
	VaultService ClientVaultService
}

func NewClientServices(serverAdapter adapter.ServerAdapter, logger *logger.Logger) *ClientServices {
	hashChain := crypto.NewHashChainService()
	keyChain := crypto.NewKeyChainService(hashChain)

	vaultSvc := NewClientVaultService(serverAdapter, keyChain, logger)

	return &ClientServices{
		AuthService:  NewClientAuthService(serverAdapter, hashChain, keyChain, vaultSvc, logger),
		VaultService: vaultSvc,
	}
}
