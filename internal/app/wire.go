//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/vaultctl/internal/adapters"
	"github.com/trebuchet-org/vaultctl/internal/config"
	"github.com/trebuchet-org/vaultctl/internal/logging"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Deposit building blocks
		usecase.NewTokenPreparation,
		usecase.NewCallAssembler,
		usecase.NewDepositStrategies,

		// Use cases
		usecase.NewListActivity,
		usecase.NewSubmitDeposit,
		usecase.NewCancelDeposit,
		usecase.NewPrepareAccount,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
