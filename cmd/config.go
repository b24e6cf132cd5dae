package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/diva/internal/adapters/engine"
	"github.com/bnema/diva/internal/adapters/registry"
	"github.com/bnema/diva/internal/application"
	"github.com/bnema/diva/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "DIVA"
	dotEnvFile = ".env"

	keyConfig        = "config"
	keyCredentials   = "credentials"
	keyDeviceModelID = "device_model_id"
	keyProjectID     = "project_id"
	keyEngineURL     = "engine_url"
	keyRegistryURL   = "registry_url"
	keyLookupPolicy  = "lookup_policy"
	keyCommands      = "commands"
	keyRepeatPrefix  = "repeat_prefix"
	keyRepeatPhrase  = "repeat_phrase"
	keyLogLevel      = "log_level"
)

type config struct {
	CredentialsPath string
	DeviceModelID   string
	ProjectID       string
	EngineURL       string
	RegistryURL     string
	LookupPolicy    domain.LookupPolicy
	CommandsPath    string
	RepeatPrefix    string
	RepeatPhrase    string
	LogLevel        string
}

func defaultCredentialsPath(homeDir string) string {
	return filepath.Join(homeDir, ".config", "google-oauthlib-tool", "credentials.json")
}

func defaultConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", "diva")
}

func bindConfigFlags(root *cobra.Command, app *app) {
	persistent := root.PersistentFlags()
	persistent.String(keyConfig, filepath.Join(defaultConfigDir(app.homeDir), "config.toml"), "Path to the diva config file")
	persistent.String(keyCommands, filepath.Join(defaultConfigDir(app.homeDir), "commands.toml"), "Path to the command table file")
	persistent.String(keyLogLevel, "warn", "Log level (debug|info|warn|error)")

	flags := root.Flags()
	flags.String(keyCredentials, defaultCredentialsPath(app.homeDir), "Path to store and read OAuth2 credentials")
	flags.String(keyDeviceModelID, "", "The device model ID registered with Google (required)")
	flags.String(keyProjectID, "", "The project ID used to register device instances (empty disables registration)")
	flags.String(keyEngineURL, engine.DefaultURL, "WebSocket URL of the assistant engine")
	flags.String(keyRegistryURL, registry.DefaultBaseURL, "Base URL of the device registry API")
	flags.String(keyLookupPolicy, string(domain.LookupAssumeRegistered), "How non-404 registry lookups are treated (assume-registered|strict)")
	flags.String(keyRepeatPrefix, application.DefaultRepeatPrefix, "Input prefix that asks the assistant to repeat the rest of the line")
	flags.String(keyRepeatPhrase, domain.DefaultRepeatPhrase, "Phrase sent before repeated text")

	_ = app.viper.BindPFlags(persistent)
	_ = app.viper.BindPFlags(flags)
}

// loadConfigSources merges .env, DIVA_* environment variables and the config
// file beneath the command-line flags.
func loadConfigSources(v *viper.Viper) error {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := v.GetString(keyConfig)
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	return nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func resolveConfig(v *viper.Viper) (config, error) {
	policy, err := domain.ParseLookupPolicy(v.GetString(keyLookupPolicy))
	if err != nil {
		return config{}, err
	}

	cfg := config{
		CredentialsPath: v.GetString(keyCredentials),
		DeviceModelID:   strings.TrimSpace(v.GetString(keyDeviceModelID)),
		ProjectID:       strings.TrimSpace(v.GetString(keyProjectID)),
		EngineURL:       v.GetString(keyEngineURL),
		RegistryURL:     v.GetString(keyRegistryURL),
		LookupPolicy:    policy,
		CommandsPath:    v.GetString(keyCommands),
		RepeatPrefix:    v.GetString(keyRepeatPrefix),
		RepeatPhrase:    v.GetString(keyRepeatPhrase),
		LogLevel:        v.GetString(keyLogLevel),
	}
	if cfg.DeviceModelID == "" {
		return config{}, fmt.Errorf("required flag(s) %q not set", keyDeviceModelID)
	}
	if cfg.CredentialsPath == "" {
		return config{}, errors.New("credentials path is empty")
	}

	return cfg, nil
}
