package cmd

import (
	"context"
	"errors"
	"fmt"

	credentialsfile "github.com/bnema/diva/internal/adapters/credentials/file"
	"github.com/bnema/diva/internal/adapters/render/console"
	tomlrepo "github.com/bnema/diva/internal/adapters/repo/toml"
	"github.com/bnema/diva/internal/application"
	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/observability"
	"github.com/spf13/cobra"
)

func runAssistant(cmd *cobra.Command, app *app) error {
	cfg, err := resolveConfig(app.viper)
	if err != nil {
		return err
	}
	if err := observability.Configure(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
		return err
	}
	logger := observability.WithFields("device_model_id", cfg.DeviceModelID)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	credStore := credentialsfile.NewStore(cfg.CredentialsPath)
	creds, err := credStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	tokens := credentialsfile.TokenSource(ctx, creds)

	commands, err := loadCommandTable(ctx, cfg.CommandsPath)
	if err != nil {
		return err
	}

	session, err := app.newEngine(cfg.EngineURL).Open(ctx, tokens, cfg.DeviceModelID)
	if err != nil {
		return fmt.Errorf("open assistant session: %w", err)
	}
	defer func() { _ = session.Close() }()
	logger.Info("assistant session opened", "device_id", session.DeviceID())

	renderer := console.NewRenderer(cmd.OutOrStdout(), console.IsTerminal(cmd.OutOrStdout()))

	registrar := application.NewRegistrar(app.newRegistry(tokens, cfg.RegistryURL), cfg.LookupPolicy)
	device := domain.NewDevice(session.DeviceID(), cfg.DeviceModelID)
	result, err := registrar.Register(ctx, cfg.ProjectID, device)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	renderer.Registration(cfg.ProjectID, device.ID, result)

	tracker := application.NewTracker(renderer)
	dispatcher := application.NewDispatcher(session, commands, tracker, renderer, application.DispatcherOptions{
		RepeatPhrase: cfg.RepeatPhrase,
	})
	runner := application.NewRunner(tracker, dispatcher, application.RunnerOptions{
		RepeatPrefix: cfg.RepeatPrefix,
	})

	err = runner.Run(ctx, session, cmd.InOrStdin())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadCommandTable(ctx context.Context, path string) (domain.CommandTable, error) {
	repo, err := tomlrepo.NewCommandRepository(path, domain.DefaultCommands)
	if err != nil {
		return domain.CommandTable{}, fmt.Errorf("wire command repository: %w", err)
	}
	table, err := repo.Load(ctx)
	if err != nil {
		return domain.CommandTable{}, fmt.Errorf("load command table: %w", err)
	}
	return table, nil
}
