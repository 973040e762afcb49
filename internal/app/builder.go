package app

import (
	"context"
	"fmt"
	"time"

	"pulse/internal/architect"
	"pulse/internal/client"
	"pulse/internal/config"
	"pulse/internal/export"
	"pulse/internal/logging"
	"pulse/internal/ui"
	"pulse/internal/workspace"
)

// Builder constructs App instances step by step.
type Builder struct {
	cfg    *config.Config
	ctx    context.Context
	cancel context.CancelFunc

	initialPrompt string
	newClient     func(context.Context, *config.Config) (client.Client, error)

	client    client.Client
	service   *architect.Service
	workspace *workspace.Orchestrator
	tuiModel  *ui.Model
}

// NewBuilder creates a new Builder for cfg.
func NewBuilder(cfg *config.Config) *Builder {
	ctx, cancel := context.WithCancel(context.Background())

	return &Builder{
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		newClient: client.New,
	}
}

// WithInitialPrompt submits prompt as soon as the UI starts.
func (b *Builder) WithInitialPrompt(prompt string) *Builder {
	b.initialPrompt = prompt
	return b
}

// WithClient uses c instead of building a client from the configuration.
func (b *Builder) WithClient(c client.Client) *Builder {
	b.newClient = func(context.Context, *config.Config) (client.Client, error) {
		return c, nil
	}
	return b
}

// Build constructs the App instance. It stops at the first failing step.
func (b *Builder) Build() (*App, error) {
	if err := b.initClient(); err != nil {
		return nil, b.fail(err)
	}
	if err := b.validateOllamaModel(); err != nil {
		return nil, b.fail(err)
	}
	b.initServices()
	b.initUI()

	return b.assembleApp(), nil
}

// initClient creates the provider client selected by the configuration.
func (b *Builder) initClient() error {
	c, err := b.newClient(b.ctx, b.cfg)
	if err != nil {
		return NewAppError(ErrCodeClient, "failed to create client", err)
	}
	b.client = c

	logging.Debug("client created",
		"provider", b.cfg.API.GetProvider(),
		"model", c.Model())
	return nil
}

// validateOllamaModel fails early when the configured local model is not
// installed. An unreachable server is not an error here; the first request
// reports it.
func (b *Builder) validateOllamaModel() error {
	ollama, ok := b.client.(*client.OllamaClient)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(b.ctx, 10*time.Second)
	defer cancel()

	available, err := ollama.IsModelAvailable(ctx)
	if err != nil {
		logging.Debug("ollama healthcheck failed, skipping model validation", "error", err)
		return nil
	}
	if available {
		return nil
	}

	name := ollama.Model()
	return NewAppError(ErrCodeConfig,
		fmt.Sprintf("model '%s' is not installed", name),
		fmt.Errorf("run: ollama pull %s", name))
}

// initServices creates the architect service and the orchestrator.
func (b *Builder) initServices() {
	b.service = architect.NewService(b.client,
		architect.WithThinkingBudget(b.cfg.Model.ThinkingBudget))
	b.workspace = workspace.New(b.service)
}

// initUI creates the TUI model.
func (b *Builder) initUI() {
	b.tuiModel = ui.NewModel(b.ctx, b.workspace, ui.Options{
		ModelID:        b.client.Model(),
		HighlightStyle: b.cfg.UI.HighlightStyle,
		MarkdownStyle:  b.cfg.UI.MarkdownStyle,
		ShowWelcome:    b.cfg.UI.ShowWelcome,
		ListenDelay:    config.DefaultListenDuration,
		InitialPrompt:  b.initialPrompt,
		Exporter:       export.New(b.cfg.Export.Dir),
	})
}

// assembleApp creates the final App from built components.
func (b *Builder) assembleApp() *App {
	return &App{
		config:    b.cfg,
		ctx:       b.ctx,
		cancel:    b.cancel,
		client:    b.client,
		service:   b.service,
		workspace: b.workspace,
		tui:       b.tuiModel,
	}
}

// fail releases the build context and the client, and returns err.
func (b *Builder) fail(err error) error {
	b.cancel()
	if b.client != nil {
		if closeErr := b.client.Close(); closeErr != nil {
			logging.Debug("client close failed", "error", closeErr)
		}
	}
	return err
}
