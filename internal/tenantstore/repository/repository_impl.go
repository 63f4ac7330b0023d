package repository

import (
	"context"
	"encoding/json"

	"github.com/empresia/walletadmin/internal/kv"
	"github.com/empresia/walletadmin/internal/tenantstore/domain"
	"go.uber.org/zap"
)

// Namespace prefixes every key this repository touches.
const Namespace = "wallet-admin"

const (
	suffixSeeded    = "seeded"
	suffixCustomers = "clientes"
	suffixWallets   = "wallets"
	suffixImmediate = "push:inmediatos"
	suffixScheduled = "push:programados"
	suffixGeofence  = "geofence"
)

// Key builds the storage key for a tenant partition entry.
func Key(tenantID, suffix string) string {
	return Namespace + ":" + tenantID + ":" + suffix
}

type repo struct {
	kv  kv.Store
	log *zap.Logger
}

func Provide(store kv.Store, log *zap.Logger) domain.Repository {
	return &repo{
		kv:  store,
		log: log.Named("tenantstore.repo"),
	}
}

// readList decodes a stored collection. Unparseable payloads read as empty:
// a corrupted value must never make the partition unreadable.
func readList[T any](ctx context.Context, r *repo, tenantID, suffix string) ([]T, error) {
	raw, ok, err := r.kv.Get(ctx, Key(tenantID, suffix))
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		r.log.Warn("discarding unparseable collection",
			zap.String("tenant_id", tenantID),
			zap.String("key_suffix", suffix),
			zap.Error(err),
		)
		return nil, nil
	}
	return out, nil
}

func writeList[T any](ctx context.Context, r *repo, tenantID, suffix string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, Key(tenantID, suffix), string(raw))
}

func (r *repo) IsSeeded(ctx context.Context, tenantID string) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, Key(tenantID, suffixSeeded))
	if err != nil {
		return false, err
	}
	return ok && raw != "", nil
}

func (r *repo) MarkSeeded(ctx context.Context, tenantID string) error {
	return r.kv.Set(ctx, Key(tenantID, suffixSeeded), "true")
}

func (r *repo) ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	return readList[domain.Customer](ctx, r, tenantID, suffixCustomers)
}

func (r *repo) SaveCustomers(ctx context.Context, tenantID string, customers []domain.Customer) error {
	return writeList(ctx, r, tenantID, suffixCustomers, customers)
}

func (r *repo) ListWallets(ctx context.Context, tenantID string) ([]domain.Wallet, error) {
	return readList[domain.Wallet](ctx, r, tenantID, suffixWallets)
}

func (r *repo) SaveWallets(ctx context.Context, tenantID string, wallets []domain.Wallet) error {
	return writeList(ctx, r, tenantID, suffixWallets, wallets)
}

func (r *repo) ListImmediatePushes(ctx context.Context, tenantID string) ([]domain.ImmediatePush, error) {
	return readList[domain.ImmediatePush](ctx, r, tenantID, suffixImmediate)
}

func (r *repo) SaveImmediatePushes(ctx context.Context, tenantID string, pushes []domain.ImmediatePush) error {
	return writeList(ctx, r, tenantID, suffixImmediate, pushes)
}

func (r *repo) ListScheduledPushes(ctx context.Context, tenantID string) ([]domain.ScheduledPush, error) {
	return readList[domain.ScheduledPush](ctx, r, tenantID, suffixScheduled)
}

func (r *repo) SaveScheduledPushes(ctx context.Context, tenantID string, pushes []domain.ScheduledPush) error {
	return writeList(ctx, r, tenantID, suffixScheduled, pushes)
}

func (r *repo) GetGeofence(ctx context.Context, tenantID string) (*domain.GeofenceConfig, error) {
	raw, ok, err := r.kv.Get(ctx, Key(tenantID, suffixGeofence))
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var cfg domain.GeofenceConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		r.log.Warn("discarding unparseable geofence",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) SaveGeofence(ctx context.Context, tenantID string, cfg domain.GeofenceConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, Key(tenantID, suffixGeofence), string(raw))
}
