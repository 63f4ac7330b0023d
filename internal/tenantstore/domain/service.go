package domain

import (
	"context"
	"errors"
	"time"
)

// MaxPushMessageLen bounds push message length, matching the composer limit.
const MaxPushMessageLen = 200

// TrendDays is the fixed window of the usage trend.
const TrendDays = 14

type AddCustomerRequest struct {
	Name      string
	BirthDate string
	Phone     string
	Email     string
}

type ListCustomersRequest struct {
	// Query matches case-insensitively against name, email and phone.
	Query       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type BulkAddResult struct {
	Added int `json:"added"`
}

// TrendPoint is one calendar day of the usage trend. Day is labelled M/D.
type TrendPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DashboardSummary backs the landing page metric cards.
type DashboardSummary struct {
	TotalCustomers int          `json:"total_customers"`
	ActiveLast7d   int          `json:"active_last_7d"`
	ActiveLast30d  int          `json:"active_last_30d"`
	Trend          []TrendPoint `json:"trend"`
}

type AddImmediatePushRequest struct {
	Message  string
	Audience Audience
}

type AddScheduledPushRequest struct {
	Message     string
	Audience    Audience
	ScheduledAt time.Time
}

type AddWalletRequest struct {
	Name   string
	Active bool
}

// Service is the tenant-scoped store facade. Every method resolves the
// tenant from the context; calls without one fail with ErrNoTenant.
//
// Reads degrade: missing or unparseable stored data yields the empty
// collection (or absent geofence), never an error. Writes surface failures
// so callers can distinguish a saved record from a dropped one.
type Service interface {
	// SeedIfEmpty populates demo data for a first-seen tenant. Idempotent:
	// the per-tenant seeded marker is written only after every seed write
	// lands, so a partial failure reseeds on retry instead of sticking
	// half-seeded.
	SeedIfEmpty(ctx context.Context) error

	ListCustomers(ctx context.Context, req ListCustomersRequest) ([]Customer, error)
	AddCustomer(ctx context.Context, req AddCustomerRequest) (Customer, error)
	// BulkAddCustomers prepends all rows ahead of existing records,
	// preserving input order among the new rows.
	BulkAddCustomers(ctx context.Context, reqs []AddCustomerRequest) (BulkAddResult, error)

	// UsageTrend always returns exactly TrendDays points, oldest first,
	// zero-filled for days without activity.
	UsageTrend(ctx context.Context) ([]TrendPoint, error)
	DashboardSummary(ctx context.Context) (DashboardSummary, error)

	ListImmediatePushes(ctx context.Context) ([]ImmediatePush, error)
	AddImmediatePush(ctx context.Context, req AddImmediatePushRequest) (ImmediatePush, error)

	ListScheduledPushes(ctx context.Context) ([]ScheduledPush, error)
	AddScheduledPush(ctx context.Context, req AddScheduledPushRequest) (ScheduledPush, error)
	UpdateScheduledPush(ctx context.Context, id string, patch ScheduledPushPatch) (ScheduledPush, error)

	ListWallets(ctx context.Context) ([]Wallet, error)
	AddWallet(ctx context.Context, req AddWalletRequest) (Wallet, error)
	UpdateWallet(ctx context.Context, id string, patch WalletPatch) (Wallet, error)

	Geofence(ctx context.Context) (*GeofenceConfig, error)
	SaveGeofence(ctx context.Context, cfg GeofenceConfig) error
}

var (
	ErrNoTenant        = errors.New("no_tenant")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidAudience = errors.New("invalid_audience")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrMessageTooLong  = errors.New("message_too_long")
	ErrEmptyMessage    = errors.New("empty_message")
	ErrEmptyPatch      = errors.New("empty_patch")
	// ErrNotEditable rejects field edits on a push that already left the
	// pending state. Cancelling an already-cancelled push stays a no-op.
	ErrNotEditable = errors.New("not_editable")
)
