package cli

import (
	"github.com/joinflow/joinflow/internal/onboarding/application"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// App holds the CLI application dependencies.
type App struct {
	// Service bundles the step orchestration handlers.
	Service *application.Service

	// Repositories for candidate and template management commands.
	Candidates domain.CandidateRepository
	Templates  domain.StepTemplateRepository
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
