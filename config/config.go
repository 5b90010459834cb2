/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads sweagent's settings from the environment and an
// optional .env file into a single Config that is passed to every
// collaborator.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chainguard.dev/sweagent/agents/metaagent"
	"chainguard.dev/sweagent/reconcilers/githubreconciler"
	"chainguard.dev/sweagent/reconcilers/githubreconciler/clonemanager"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/oauth2"
)

// DefaultDotEnv is the file Load reads when no path is given.
const DefaultDotEnv = ".env"

// Config is the process configuration.
type Config struct {
	// LLM credentials. Only the provider selected by Model needs a key.
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GCPProject      string `env:"GOOGLE_CLOUD_PROJECT"`
	GCPRegion       string `env:"GOOGLE_CLOUD_LOCATION,default=us-east5"`
	Model           string `env:"AGENT_MODEL,default=gpt-4-turbo"`

	// GitHub authenticates with a token, or as a GitHub App installation
	// when all three App settings are present.
	GitHubToken          string `env:"GITHUB_TOKEN"`
	GitHubAppID          int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `env:"GITHUB_APP_INSTALLATION_ID"`
	// GitHubAppPrivateKey is a PEM key, or the path of a file holding one.
	GitHubAppPrivateKey string `env:"GITHUB_APP_PRIVATE_KEY"`
	// GitHubAPIURL and GitHubGraphQLURL point at GitHub Enterprise Server.
	GitHubAPIURL     string `env:"GITHUB_API_URL"`
	GitHubGraphQLURL string `env:"GITHUB_GRAPHQL_URL"`

	TimeoutSeconds      int    `env:"TIMEOUT_SECONDS,default=300"`
	MaxAutoReplies      int    `env:"MAX_AUTO_REPLIES,default=10"`
	BaseBranch          string `env:"BASE_BRANCH,default=master"`
	CommitName          string `env:"COMMIT_NAME,default=sweagent"`
	CommitEmail         string `env:"COMMIT_EMAIL,default=sweagent@users.noreply.github.com"`
	BranchPrefix        string `env:"BRANCH_PREFIX,default=sweagent/"`
	TerminationSentinel string `env:"TERMINATION_SENTINEL,default=TERMINATE"`

	// WorkspaceDir holds the local clones. Defaults to a directory under the
	// user cache dir.
	WorkspaceDir string `env:"WORKSPACE_DIR"`
	// MetricsAddr serves Prometheus metrics when set, e.g. ":2112".
	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

// Load reads the .env file at path (DefaultDotEnv when empty) and the process
// environment, with the environment taking precedence. A missing .env file
// is not an error unless path was given explicitly.
func Load(ctx context.Context, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultDotEnv
	}
	dotenv, err := godotenv.Read(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		dotenv = map[string]string{}
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return process(ctx, envconfig.MultiLookuper(envconfig.OsLookuper(), envconfig.MapLookuper(dotenv)))
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if cfg.WorkspaceDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.WorkspaceDir = filepath.Join(dir, "sweagent", "clones")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that do not depend on the selected operation.
func (c *Config) Validate() error {
	var errs []error
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("TIMEOUT_SECONDS must be positive, got %d", c.TimeoutSeconds))
	}
	if c.MaxAutoReplies < 0 {
		errs = append(errs, fmt.Errorf("MAX_AUTO_REPLIES cannot be negative, got %d", c.MaxAutoReplies))
	}
	if _, err := metaagent.ProviderFor(c.Model); err != nil {
		errs = append(errs, fmt.Errorf("AGENT_MODEL: %w", err))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	app := c.GitHubAppID != 0 || c.GitHubInstallationID != 0 || c.GitHubAppPrivateKey != ""
	switch {
	case app && (c.GitHubAppID == 0 || c.GitHubInstallationID == 0 || c.GitHubAppPrivateKey == ""):
		errs = append(errs, errors.New("GITHUB_APP_ID, GITHUB_APP_INSTALLATION_ID and GITHUB_APP_PRIVATE_KEY must be set together"))
	case !app && c.GitHubToken == "":
		errs = append(errs, errors.New("GITHUB_TOKEN or a GitHub App installation is required"))
	}
	if (c.GitHubAPIURL == "") != (c.GitHubGraphQLURL == "") {
		errs = append(errs, errors.New("GITHUB_API_URL and GITHUB_GRAPHQL_URL must be set together"))
	}
	return errors.Join(errs...)
}

// Timeout is the request and command execution timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Agent returns the model configuration.
func (c *Config) Agent() metaagent.Config {
	return metaagent.Config{
		Model:           c.Model,
		AnthropicAPIKey: c.AnthropicAPIKey,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		GeminiAPIKey:    c.GeminiAPIKey,
		GCPProject:      c.GCPProject,
		GCPRegion:       c.GCPRegion,
		Timeout:         c.Timeout(),
	}
}

// TokenSource returns the GitHub credentials, preferring the GitHub App.
func (c *Config) TokenSource() (oauth2.TokenSource, error) {
	if c.GitHubAppID == 0 {
		return githubreconciler.NewStaticTokenSource(c.GitHubToken)
	}
	key := []byte(c.GitHubAppPrivateKey)
	if !strings.Contains(c.GitHubAppPrivateKey, "PRIVATE KEY") {
		b, err := os.ReadFile(c.GitHubAppPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("reading GITHUB_APP_PRIVATE_KEY: %w", err)
		}
		key = b
	}
	return githubreconciler.NewAppTokenSource(c.GitHubAppID, c.GitHubInstallationID, key)
}

// GitHubOptions returns the client options implied by the configuration.
func (c *Config) GitHubOptions() []githubreconciler.Option {
	if c.GitHubAPIURL == "" {
		return nil
	}
	return []githubreconciler.Option{githubreconciler.WithBaseURL(c.GitHubAPIURL, c.GitHubGraphQLURL)}
}

// GitHubWebURL returns the host repositories are cloned from: the scheme and
// host of GITHUB_API_URL, or github.com when it is unset.
func (c *Config) GitHubWebURL() string {
	if c.GitHubAPIURL == "" {
		return clonemanager.DefaultBaseURL
	}
	u, err := url.Parse(c.GitHubAPIURL)
	if err != nil || u.Host == "" {
		return clonemanager.DefaultBaseURL
	}
	return u.Scheme + "://" + u.Host
}
