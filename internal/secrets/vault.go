package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

type cacheEntry struct {
	value   string
	staleAt time.Time
}

// VaultClient reads secrets from Azure Key Vault, optionally caching
// values for a TTL so repeated lookups do not hit the vault.
type VaultClient struct {
	client   *azsecrets.Client
	logger   *zap.Logger
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewVaultClient creates a Key Vault client authenticated through
// DefaultAzureCredential, which covers environment variables, Managed
// Identity, and Azure CLI credentials for local development.
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	v := &VaultClient{
		client:   client,
		logger:   logger,
		cacheTTL: ttl,
	}
	if cfg.CacheEnabled {
		v.cache = make(map[string]cacheEntry)
	}

	logger.Info("key vault client initialized",
		zap.String("vault", cfg.VaultName),
		zap.Bool("cache", cfg.CacheEnabled),
	)
	return v, nil
}

func (v *VaultClient) cachedValue(name string) (string, bool) {
	if v.cache == nil {
		return "", false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	entry, ok := v.cache[name]
	if !ok || time.Now().After(entry.staleAt) {
		return "", false
	}
	return entry.value, true
}

// GetSecret retrieves a secret from Azure Key Vault
func (v *VaultClient) GetSecret(ctx context.Context, secretName string) (string, error) {
	if value, ok := v.cachedValue(secretName); ok {
		return value, nil
	}

	resp, err := v.client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get secret '%s': %w", secretName, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", secretName)
	}
	value := *resp.Value

	if v.cache != nil {
		v.mu.Lock()
		v.cache[secretName] = cacheEntry{value: value, staleAt: time.Now().Add(v.cacheTTL)}
		v.mu.Unlock()
	}

	return value, nil
}

// ClearCache drops all cached secret values
func (v *VaultClient) ClearCache() {
	if v.cache == nil {
		return
	}
	v.mu.Lock()
	v.cache = make(map[string]cacheEntry)
	v.mu.Unlock()
}
