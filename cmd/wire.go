package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/diva/internal/adapters/engine"
	"github.com/bnema/diva/internal/adapters/registry"
	"github.com/bnema/diva/internal/ports"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

type app struct {
	homeDir     string
	viper       *viper.Viper
	newEngine   func(url string) ports.Engine
	newRegistry func(tokens oauth2.TokenSource, baseURL string) ports.DeviceRegistry
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	return &app{
		homeDir: homeDir,
		viper:   viper.New(),
		newEngine: func(url string) ports.Engine {
			return engine.Engine{URL: url}
		},
		newRegistry: func(tokens oauth2.TokenSource, baseURL string) ports.DeviceRegistry {
			return registry.Client{
				BaseURL:    baseURL,
				HTTPClient: registry.NewAuthorizedHTTPClient(tokens),
			}
		},
	}, nil
}
