package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
)

const (
	ConfigKey       = "icon-bridge-config-v1"
	legacyConfigKey = "planet-icon-config-v1"
)

// ConfigStore persists the AppConfig as one JSON value in a Store.
type ConfigStore struct {
	store Store
}

func NewConfigStore(store Store) *ConfigStore {
	return &ConfigStore{store: store}
}

// Load returns the normalized stored config, the defaults when nothing is
// stored. A config saved under the previous key is migrated on first load.
func (c *ConfigStore) Load(ctx context.Context) (domain.AppConfig, error) {
	data, found, err := c.store.Get(ctx, ConfigKey)
	if err != nil {
		logger.LogError("LOAD_CONFIG", ConfigKey, err)
		return domain.AppConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	if !found {
		data, found, err = c.store.Get(ctx, legacyConfigKey)
		if err != nil {
			return domain.AppConfig{}, fmt.Errorf("failed to load config: %w", err)
		}
		if found {
			logger.Log("Migrating config from %s to %s", legacyConfigKey, ConfigKey)
		}
	}

	if !found {
		return DefaultConfig(), nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.LogError("UNMARSHAL_CONFIG", ConfigKey, err)
		return DefaultConfig(), nil
	}

	cfg := NormalizeConfig(raw)
	EnsureSelectedProvider(&cfg)
	return cfg, nil
}

func (c *ConfigStore) Save(ctx context.Context, cfg domain.AppConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := c.store.Set(ctx, ConfigKey, data); err != nil {
		logger.LogError("SAVE_CONFIG", ConfigKey, err)
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
