package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/empresia/walletadmin/internal/clock"
	"github.com/empresia/walletadmin/internal/config"
	"github.com/empresia/walletadmin/internal/id"
	"github.com/empresia/walletadmin/internal/locking"
	"github.com/empresia/walletadmin/internal/seed"
	"github.com/empresia/walletadmin/internal/telemetry"
	"github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/empresia/walletadmin/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultWalletImage = "/nueva-wallet-vista-previa.png"

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *id.Generator
	Locks   locking.TenantLocker
	Repo    domain.Repository
	SeedCfg *config.SeedConfigHolder
	Metrics *telemetry.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	genID   *id.Generator
	locks   locking.TenantLocker
	repo    domain.Repository
	seedCfg *config.SeedConfigHolder
	metrics *telemetry.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("tenantstore.service"),
		clock:   p.Clock,
		genID:   p.GenID,
		locks:   p.Locks,
		repo:    p.Repo,
		seedCfg: p.SeedCfg,
		metrics: p.Metrics,
	}
}

func (s *Service) tenant(ctx context.Context) (string, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return "", domain.ErrNoTenant
	}
	return tenantID, nil
}

func (s *Service) recordWrite(op string) {
	if s.metrics != nil {
		s.metrics.StoreWrite(op)
	}
}

// degradeRead maps a transport failure on the read path to the empty default.
// The store contract is that reads never fail; the incident is only logged.
func degradeRead[T any](s *Service, tenantID, collection string, items []T, err error) []T {
	if err != nil {
		s.log.Warn("read degraded to empty collection",
			zap.String("tenant_id", tenantID),
			zap.String("collection", collection),
			zap.Error(err),
		)
		return nil
	}
	return items
}

func (s *Service) SeedIfEmpty(ctx context.Context) error {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return err
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return err
	}
	defer release()

	seeded, err := s.repo.IsSeeded(ctx, tenantID)
	if err != nil {
		return err
	}
	if seeded {
		return nil
	}

	profile := s.seedCfg.Get()
	now := s.clock.Now()

	// Each seeding call gets its own source: the per-tenant lock does not
	// serialize seeding across tenants, so sharing one would race.
	rnd := rand.New(rand.NewSource(now.UnixNano()))

	customers := seed.Customers(now, tenantID, profile.CustomerCount, rnd, s.genID.New)
	wallets := seed.Wallets(now, profile.Wallets, s.genID.New)
	geofence := seed.Geofence(profile.Geofence)

	if err := s.repo.SaveCustomers(ctx, tenantID, customers); err != nil {
		return err
	}
	if err := s.repo.SaveWallets(ctx, tenantID, wallets); err != nil {
		return err
	}
	if err := s.repo.SaveImmediatePushes(ctx, tenantID, nil); err != nil {
		return err
	}
	if err := s.repo.SaveScheduledPushes(ctx, tenantID, nil); err != nil {
		return err
	}
	if err := s.repo.SaveGeofence(ctx, tenantID, geofence); err != nil {
		return err
	}

	// The marker lands last: a failure above leaves the flag unset so a
	// retry reseeds instead of sticking half-seeded.
	if err := s.repo.MarkSeeded(ctx, tenantID); err != nil {
		return err
	}

	s.recordWrite("seed")
	s.log.Info("seeded tenant",
		zap.String("tenant_id", tenantID),
		zap.Int("customers", len(customers)),
		zap.Int("wallets", len(wallets)),
	)
	return nil
}

func (s *Service) ListCustomers(ctx context.Context, req domain.ListCustomersRequest) ([]domain.Customer, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListCustomers(ctx, tenantID)
	customers := degradeRead(s, tenantID, "clientes", items, err)

	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query == "" && req.CreatedFrom == nil && req.CreatedTo == nil {
		return customers, nil
	}

	filtered := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		if req.CreatedFrom != nil && c.CreatedAt.Before(*req.CreatedFrom) {
			continue
		}
		if req.CreatedTo != nil && c.CreatedAt.After(*req.CreatedTo) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}

func matchesQuery(c domain.Customer, query string) bool {
	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Email), query) ||
		strings.Contains(strings.ToLower(c.Phone), query)
}

func (s *Service) AddCustomer(ctx context.Context, req domain.AddCustomerRequest) (domain.Customer, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.Customer{}, err
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	defer release()

	existing, err := s.repo.ListCustomers(ctx, tenantID)
	existing = degradeRead(s, tenantID, "clientes", existing, err)

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        s.genID.New(now),
		Name:      strings.TrimSpace(req.Name),
		BirthDate: strings.TrimSpace(req.BirthDate),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
	}

	next := append([]domain.Customer{customer}, existing...)
	if err := s.repo.SaveCustomers(ctx, tenantID, next); err != nil {
		return domain.Customer{}, err
	}

	s.recordWrite("add_customer")
	return customer, nil
}

func (s *Service) BulkAddCustomers(ctx context.Context, reqs []domain.AddCustomerRequest) (domain.BulkAddResult, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.BulkAddResult{}, err
	}
	if len(reqs) == 0 {
		return domain.BulkAddResult{}, nil
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return domain.BulkAddResult{}, err
	}
	defer release()

	existing, err := s.repo.ListCustomers(ctx, tenantID)
	existing = degradeRead(s, tenantID, "clientes", existing, err)

	now := s.clock.Now()
	added := make([]domain.Customer, 0, len(reqs))
	for _, req := range reqs {
		added = append(added, domain.Customer{
			ID:        s.genID.New(now),
			Name:      strings.TrimSpace(req.Name),
			BirthDate: strings.TrimSpace(req.BirthDate),
			Phone:     strings.TrimSpace(req.Phone),
			Email:     strings.TrimSpace(req.Email),
			CreatedAt: now,
		})
	}

	// All new rows land ahead of prior data, keeping their input order.
	next := append(added, existing...)
	if err := s.repo.SaveCustomers(ctx, tenantID, next); err != nil {
		return domain.BulkAddResult{}, err
	}

	s.recordWrite("bulk_add_customers")
	return domain.BulkAddResult{Added: len(added)}, nil
}

func (s *Service) UsageTrend(ctx context.Context) ([]domain.TrendPoint, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListCustomers(ctx, tenantID)
	customers := degradeRead(s, tenantID, "clientes", items, err)

	return buildTrend(s.clock.Now(), customers), nil
}

// buildTrend buckets customer last-use by local calendar day over the most
// recent TrendDays days, oldest first, zero-filled.
func buildTrend(now time.Time, customers []domain.Customer) []domain.TrendPoint {
	type dayKey struct {
		year  int
		month time.Month
		day   int
	}

	counts := make(map[dayKey]int, domain.TrendDays)
	days := make([]dayKey, 0, domain.TrendDays)
	for i := domain.TrendDays - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		key := dayKey{d.Year(), d.Month(), d.Day()}
		days = append(days, key)
		counts[key] = 0
	}

	for _, c := range customers {
		if c.LastUsedAt == nil {
			continue
		}
		used := *c.LastUsedAt
		key := dayKey{used.Year(), used.Month(), used.Day()}
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	trend := make([]domain.TrendPoint, 0, domain.TrendDays)
	for _, key := range days {
		trend = append(trend, domain.TrendPoint{
			Day:   fmt.Sprintf("%d/%d", int(key.month), key.day),
			Count: counts[key],
		})
	}
	return trend
}

func (s *Service) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	items, err := s.repo.ListCustomers(ctx, tenantID)
	customers := degradeRead(s, tenantID, "clientes", items, err)

	now := s.clock.Now()
	summary := domain.DashboardSummary{
		TotalCustomers: len(customers),
		Trend:          buildTrend(now, customers),
	}
	for _, c := range customers {
		if c.LastUsedAt == nil {
			continue
		}
		age := now.Sub(*c.LastUsedAt)
		if age <= 7*24*time.Hour {
			summary.ActiveLast7d++
		}
		if age <= 30*24*time.Hour {
			summary.ActiveLast30d++
		}
	}
	return summary, nil
}

func (s *Service) ListImmediatePushes(ctx context.Context) ([]domain.ImmediatePush, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListImmediatePushes(ctx, tenantID)
	return degradeRead(s, tenantID, "push:inmediatos", items, err), nil
}

func (s *Service) AddImmediatePush(ctx context.Context, req domain.AddImmediatePushRequest) (domain.ImmediatePush, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.ImmediatePush{}, err
	}
	if err := validateMessage(req.Message); err != nil {
		return domain.ImmediatePush{}, err
	}
	if !req.Audience.Valid() {
		return domain.ImmediatePush{}, domain.ErrInvalidAudience
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return domain.ImmediatePush{}, err
	}
	defer release()

	existing, err := s.repo.ListImmediatePushes(ctx, tenantID)
	existing = degradeRead(s, tenantID, "push:inmediatos", existing, err)

	now := s.clock.Now()
	push := domain.ImmediatePush{
		ID:       s.genID.New(now),
		Message:  strings.TrimSpace(req.Message),
		Audience: req.Audience,
		SentAt:   now,
	}

	next := append([]domain.ImmediatePush{push}, existing...)
	if err := s.repo.SaveImmediatePushes(ctx, tenantID, next); err != nil {
		return domain.ImmediatePush{}, err
	}

	s.recordWrite("add_immediate_push")
	return push, nil
}

func (s *Service) ListScheduledPushes(ctx context.Context) ([]domain.ScheduledPush, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListScheduledPushes(ctx, tenantID)
	return degradeRead(s, tenantID, "push:programados", items, err), nil
}

func (s *Service) AddScheduledPush(ctx context.Context, req domain.AddScheduledPushRequest) (domain.ScheduledPush, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.ScheduledPush{}, err
	}
	if err := validateMessage(req.Message); err != nil {
		return domain.ScheduledPush{}, err
	}
	if !req.Audience.Valid() {
		return domain.ScheduledPush{}, domain.ErrInvalidAudience
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return domain.ScheduledPush{}, err
	}
	defer release()

	existing, err := s.repo.ListScheduledPushes(ctx, tenantID)
	existing = degradeRead(s, tenantID, "push:programados", existing, err)

	now := s.clock.Now()
	push := domain.ScheduledPush{
		ID:          s.genID.New(now),
		Message:     strings.TrimSpace(req.Message),
		Audience:    req.Audience,
		ScheduledAt: req.ScheduledAt,
		Status:      domain.StatusPending,
		CreatedAt:   now,
	}

	next := append([]domain.ScheduledPush{push}, existing...)
	if err := s.repo.SaveScheduledPushes(ctx, tenantID, next); err != nil {
		return domain.ScheduledPush{}, err
	}

	s.recordWrite("add_scheduled_push")
	return push, nil
}

func (s *Service) UpdateScheduledPush(ctx context.Context, pushID string, patch domain.ScheduledPushPatch) (domain.ScheduledPush, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.ScheduledPush{}, err
	}
	if patch.Empty() {
		return domain.ScheduledPush{}, domain.ErrEmptyPatch
	}
	if patch.Message != nil {
		if err := validateMessage(*patch.Message); err != nil {
			return domain.ScheduledPush{}, err
		}
	}
	if patch.Audience != nil && !patch.Audience.Valid() {
		return domain.ScheduledPush{}, domain.ErrInvalidAudience
	}
	// Cancellation is the only status transition a caller may request.
	if patch.Status != nil && *patch.Status != domain.StatusCancelled {
		return domain.ScheduledPush{}, domain.ErrInvalidStatus
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return domain.ScheduledPush{}, err
	}
	defer release()

	pushes, err := s.repo.ListScheduledPushes(ctx, tenantID)
	pushes = degradeRead(s, tenantID, "push:programados", pushes, err)

	idx := -1
	for i := range pushes {
		if pushes[i].ID == pushID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ScheduledPush{}, domain.ErrNotFound
	}

	current := pushes[idx]
	if current.Status != domain.StatusPending {
		// Re-cancelling stays an idempotent no-op; everything else is
		// locked once the push left the pending state.
		if current.Status == domain.StatusCancelled && onlyCancel(patch) {
			return current, nil
		}
		return domain.ScheduledPush{}, domain.ErrNotEditable
	}

	if patch.Message != nil {
		current.Message = strings.TrimSpace(*patch.Message)
	}
	if patch.Audience != nil {
		current.Audience = *patch.Audience
	}
	if patch.ScheduledAt != nil {
		current.ScheduledAt = *patch.ScheduledAt
	}
	if patch.Status != nil {
		current.Status = *patch.Status
	}

	pushes[idx] = current
	if err := s.repo.SaveScheduledPushes(ctx, tenantID, pushes); err != nil {
		return domain.ScheduledPush{}, err
	}

	s.recordWrite("update_scheduled_push")
	return current, nil
}

func onlyCancel(patch domain.ScheduledPushPatch) bool {
	return patch.Status != nil &&
		*patch.Status == domain.StatusCancelled &&
		patch.Message == nil &&
		patch.Audience == nil &&
		patch.ScheduledAt == nil
}

func (s *Service) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListWallets(ctx, tenantID)
	return degradeRead(s, tenantID, "wallets", items, err), nil
}

func (s *Service) AddWallet(ctx context.Context, req domain.AddWalletRequest) (domain.Wallet, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.Wallet{}, err
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return domain.Wallet{}, err
	}
	defer release()

	existing, err := s.repo.ListWallets(ctx, tenantID)
	existing = degradeRead(s, tenantID, "wallets", existing, err)

	now := s.clock.Now()
	wallet := domain.Wallet{
		ID:        s.genID.New(now),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		Active:    req.Active,
		ImageRef:  defaultWalletImage,
	}

	next := append([]domain.Wallet{wallet}, existing...)
	if err := s.repo.SaveWallets(ctx, tenantID, next); err != nil {
		return domain.Wallet{}, err
	}

	s.recordWrite("add_wallet")
	return wallet, nil
}

func (s *Service) UpdateWallet(ctx context.Context, walletID string, patch domain.WalletPatch) (domain.Wallet, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return domain.Wallet{}, err
	}
	if patch.Empty() {
		return domain.Wallet{}, domain.ErrEmptyPatch
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return domain.Wallet{}, err
	}
	defer release()

	wallets, err := s.repo.ListWallets(ctx, tenantID)
	wallets = degradeRead(s, tenantID, "wallets", wallets, err)

	idx := -1
	for i := range wallets {
		if wallets[i].ID == walletID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Wallet{}, domain.ErrNotFound
	}

	current := wallets[idx]
	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Active != nil {
		current.Active = *patch.Active
	}
	if patch.ImageRef != nil {
		current.ImageRef = strings.TrimSpace(*patch.ImageRef)
	}

	wallets[idx] = current
	if err := s.repo.SaveWallets(ctx, tenantID, wallets); err != nil {
		return domain.Wallet{}, err
	}

	s.recordWrite("update_wallet")
	return current, nil
}

func (s *Service) Geofence(ctx context.Context) (*domain.GeofenceConfig, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := s.repo.GetGeofence(ctx, tenantID)
	if err != nil {
		s.log.Warn("read degraded to absent geofence",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, nil
	}
	return cfg, nil
}

func (s *Service) SaveGeofence(ctx context.Context, cfg domain.GeofenceConfig) error {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return err
	}

	release, err := s.locks.Acquire(ctx, tenantID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.repo.SaveGeofence(ctx, tenantID, cfg); err != nil {
		return err
	}

	s.recordWrite("save_geofence")
	return nil
}

func validateMessage(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return domain.ErrEmptyMessage
	}
	if len([]rune(trimmed)) > domain.MaxPushMessageLen {
		return domain.ErrMessageTooLong
	}
	return nil
}
