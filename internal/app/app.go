// Package app wires configuration, logging, credentials and the API client
// for the command-line tools.
package app

import (
	"fmt"
	"os"

	"eventdesk/internal/api"
	"eventdesk/internal/auth"
	"eventdesk/internal/config"
	"eventdesk/internal/logger"
)

// Env is everything a command needs to talk to the backend.
type Env struct {
	Config *config.Config
	Logger *logger.Logger
	Tokens *auth.FileStore
	Client *api.HTTPClient
}

// Setup loads the config at path (defaults when it does not exist) and
// builds the logger, token store and API client from it. Logs go to stderr.
func Setup(path string) (*Env, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	log := logger.NewLoggerTo(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Debug("configuration loaded", "path", path, "config", cfg.String())

	tokenPath, err := cfg.Auth.GetTokenFile()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token file: %w", err)
	}

	tokens := auth.NewFileStore(tokenPath)

	return &Env{
		Config: cfg,
		Logger: log,
		Tokens: tokens,
		Client: api.NewHTTPClientFromConfig(cfg, Credentials(cfg, tokens), log),
	}, nil
}

// Credentials returns the token source used on every call: the configured
// environment variable first, then the token file, with expired JWTs
// rejected before anything is sent.
func Credentials(cfg *config.Config, tokens *auth.FileStore) auth.CredentialProvider {
	return auth.ExpiryChecked{
		Provider: auth.Chain{
			auth.Env(cfg.Auth.TokenEnv),
			tokens,
		},
	}
}
