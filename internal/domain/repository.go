package domain

import "context"

// ConfigRepository persists the application configuration.
type ConfigRepository interface {
	Load(ctx context.Context) (AppConfig, error)
	Save(ctx context.Context, cfg AppConfig) error
}
