// Package secrets resolves credentials for the portal API. Development
// reads plain environment variables; staging and production read Azure
// Key Vault, with env vars acting as explicit overrides.
package secrets

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource selects where secrets are resolved from.
type SecretSource string

const (
	// SourceEnvironment reads secrets from environment variables only
	SourceEnvironment SecretSource = "environment"
	// SourceVault reads secrets from Azure Key Vault
	SourceVault SecretSource = "vault"
	// SourceAuto picks vault for staging/production, environment otherwise
	SourceAuto SecretSource = "auto"
)

// ProviderConfig configures a Provider.
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Provider resolves named secrets from the configured source.
type Provider struct {
	source SecretSource
	vault  *VaultClient
	logger *zap.Logger
}

// NewProvider builds a provider for the given source. A vault-backed
// provider fails fast when the vault client cannot be constructed, so
// misconfigured deployments do not limp along on empty credentials.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := resolveSource(cfg.Source, cfg.Environment)
	logger.Info("secrets provider initialized",
		zap.String("source", string(source)),
		zap.String("environment", cfg.Environment),
	)

	p := &Provider{source: source, logger: logger}
	if source != SourceVault {
		return p, nil
	}

	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name required for vault secret source")
	}
	vault, err := NewVaultClient(&VaultConfig{
		VaultName:    cfg.VaultName,
		CacheEnabled: cfg.CacheEnabled,
		CacheTTL:     cfg.CacheTTL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize vault client: %w", err)
	}
	p.vault = vault
	return p, nil
}

func resolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// GetSecret resolves a secret by name. For the vault source the name is
// the Key Vault secret name; for the environment source it is the
// variable name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("environment variable '%s' not set", name)
		}
		return value, nil
	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretOrEnv resolves a secret, letting an explicitly set
// environment variable win over the configured source. Deployments use
// this to override single vault values without touching the vault.
func (p *Provider) GetSecretOrEnv(ctx context.Context, name, envName string) (string, error) {
	if value := os.Getenv(envName); value != "" {
		p.logger.Debug("using environment override for secret",
			zap.String("env_name", envName),
		)
		return value, nil
	}
	return p.GetSecret(ctx, name)
}

// Source returns the resolved secret source.
func (p *Provider) Source() SecretSource {
	return p.source
}

// IsVaultEnabled reports whether secrets come from Azure Key Vault.
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
