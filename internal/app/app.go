// Package app wires configuration, the model client, the architect service,
// the workspace and the TUI together and runs the program.
package app

import (
	"context"
	"fmt"

	"pulse/internal/architect"
	"pulse/internal/client"
	"pulse/internal/config"
	"pulse/internal/logging"
	"pulse/internal/ui"
	"pulse/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
)

// App is the main application orchestrator.
type App struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc

	client    client.Client
	service   *architect.Service
	workspace *workspace.Orchestrator
	tui       *ui.Model
	program   *tea.Program

	signalCleanup func()
}

// New creates a new App instance.
func New(cfg *config.Config, initialPrompt string) (*App, error) {
	return NewBuilder(cfg).WithInitialPrompt(initialPrompt).Build()
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	defer a.shutdown()

	configureLogging(a.config)
	logging.Info("pulse starting",
		"version", a.config.Version,
		"provider", a.config.API.GetProvider(),
		"model", a.client.Model())

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(a.ctx),
		tea.WithoutSignalHandler(),
	}
	if a.config.UI.MouseEnabled() {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	a.program = tea.NewProgram(a.tui, opts...)

	a.signalCleanup = a.setupSignalHandler()

	err := SafeExecute("tui", func() error {
		_, runErr := a.program.Run()
		return runErr
	})
	if err != nil && a.ctx.Err() == nil {
		return NewAppError(ErrCodeUI, "terminal UI failed", err)
	}
	return nil
}

// Workspace returns the orchestrator driving the session.
func (a *App) Workspace() *workspace.Orchestrator {
	return a.workspace
}

// Service returns the architect service.
func (a *App) Service() *architect.Service {
	return a.service
}

// shutdown releases resources. It is safe to call more than once.
func (a *App) shutdown() {
	if a.signalCleanup != nil {
		a.signalCleanup()
		a.signalCleanup = nil
	}
	a.cancel()

	if err := a.client.Close(); err != nil {
		logging.Warn("failed to close client", "error", err)
	}
	if limited, ok := a.client.(client.Limited); ok {
		stats := limited.RateLimitStats()
		logging.Info("rate limiter",
			"enabled", stats.Enabled,
			"requests", stats.TotalRequests,
			"throttled", stats.BlockedRequests)
	}
	logging.Info("pulse stopped", "revision", a.workspace.Snapshot().Revision)
	logging.Close()
}

// configureLogging enables file logging under the config directory when a
// level is set. Failures leave logging disabled; the TUI must stay clean.
func configureLogging(cfg *config.Config) {
	if cfg.Logging.Level == "" {
		logging.DisableLogging()
		return
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		logging.DisableLogging()
		return
	}
	if err := logging.EnableFileLogging(dir, logging.ParseLevel(cfg.Logging.Level)); err != nil {
		logging.DisableLogging()
	}
}

// Describe returns a one-line summary of the active backend for the CLI.
func Describe(cfg *config.Config) string {
	model := cfg.Model.Name
	if info, ok := client.GetModelInfo(model); ok {
		model = fmt.Sprintf("%s (%s)", info.Name, info.ID)
	}
	return fmt.Sprintf("provider=%s model=%s", cfg.API.GetProvider(), model)
}
