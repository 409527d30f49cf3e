package app

import (
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Prompter usecase.Prompter
	Progress usecase.ProgressSink

	// Use cases
	ListActivity   *usecase.ListActivity
	SubmitDeposit  *usecase.SubmitDeposit
	CancelDeposit  *usecase.CancelDeposit
	PrepareAccount *usecase.PrepareAccount
	ListNetworks   *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	prompter usecase.Prompter,
	progress usecase.ProgressSink,
	listActivity *usecase.ListActivity,
	submitDeposit *usecase.SubmitDeposit,
	cancelDeposit *usecase.CancelDeposit,
	prepareAccount *usecase.PrepareAccount,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:         cfg,
		Prompter:       prompter,
		Progress:       progress,
		ListActivity:   listActivity,
		SubmitDeposit:  submitDeposit,
		CancelDeposit:  cancelDeposit,
		PrepareAccount: prepareAccount,
		ListNetworks:   listNetworks,
	}, nil
}
