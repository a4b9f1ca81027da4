package cli

import (
	"github.com/felixgeelhaar/tascade/internal/recommendation/application"
)

// App holds the CLI application dependencies.
type App struct {
	// Service is the recommendation facade behind every command.
	Service *application.Service

	// Current user (configured per environment)
	CurrentUserID string
}

// NewApp creates a new CLI application backed by the given service.
func NewApp(service *application.Service) *App {
	return &App{
		Service:       service,
		CurrentUserID: "default",
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id string) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// UserID returns the user the current invocation acts for: the --user
// flag when given, otherwise the configured user.
func UserID() string {
	if userFlag != "" {
		return userFlag
	}
	if app != nil && app.CurrentUserID != "" {
		return app.CurrentUserID
	}
	return "default"
}
