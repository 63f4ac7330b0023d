package domain

import "context"

// Repository is the raw per-tenant partition under the service. List and Get
// degrade locally: a stored value that fails to parse reads as absent. Errors
// are reserved for transport failures of the underlying key-value layer.
type Repository interface {
	IsSeeded(ctx context.Context, tenantID string) (bool, error)
	MarkSeeded(ctx context.Context, tenantID string) error

	ListCustomers(ctx context.Context, tenantID string) ([]Customer, error)
	SaveCustomers(ctx context.Context, tenantID string, customers []Customer) error

	ListWallets(ctx context.Context, tenantID string) ([]Wallet, error)
	SaveWallets(ctx context.Context, tenantID string, wallets []Wallet) error

	ListImmediatePushes(ctx context.Context, tenantID string) ([]ImmediatePush, error)
	SaveImmediatePushes(ctx context.Context, tenantID string, pushes []ImmediatePush) error

	ListScheduledPushes(ctx context.Context, tenantID string) ([]ScheduledPush, error)
	SaveScheduledPushes(ctx context.Context, tenantID string, pushes []ScheduledPush) error

	GetGeofence(ctx context.Context, tenantID string) (*GeofenceConfig, error)
	SaveGeofence(ctx context.Context, tenantID string, cfg GeofenceConfig) error
}
