package domain

import "context"

// IconSource is implemented once per provider.
type IconSource interface {
	Kind() ProviderKind
	FetchIndex(ctx context.Context, cfg ProviderConfig) (*IconIndex, error)
	FetchFileText(ctx context.Context, cfg ProviderConfig, descriptor IconDescriptor) (string, error)
}
