package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/empresia/walletadmin/internal/clock"
	"github.com/empresia/walletadmin/internal/config"
	"github.com/empresia/walletadmin/internal/id"
	"github.com/empresia/walletadmin/internal/kv"
	"github.com/empresia/walletadmin/internal/locking"
	"github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/empresia/walletadmin/internal/tenantstore/repository"
	"github.com/empresia/walletadmin/internal/tenantstore/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	holder, err := config.NewSeedConfigHolder()
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{
		Log:     zap.NewNop(),
		Clock:   fake,
		GenID:   id.NewGenerator(),
		Locks:   locking.NewMemoryLocker(),
		Repo:    repository.Provide(kv.NewMemory(), zap.NewNop()),
		SeedCfg: holder,
	})

	cfg := config.Config{
		Environment:    "test",
		SessionTTLDays: 7,
		SeedOnFirstUse: true,
	}

	engine := NewEngine(cfg, zap.NewNop(), nil)
	srv := NewServer(Params{
		Cfg:    cfg,
		Log:    zap.NewNop(),
		Engine: engine,
		Store:  svc,
	})
	srv.RegisterRoutes()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, tenant string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenant != "" {
		req.AddCookie(&http.Cookie{Name: tenantCookie, Value: tenant})
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestLoginSetsSessionAndTenantCookies(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/auth/login", "", gin.H{
		"email":   "ana@acme.com",
		"company": "Acme S.A.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData[map[string]string](t, w)
	assert.Equal(t, "acme-s-a", data["tenant_id"])

	cookies := w.Result().Cookies()
	var names []string
	for _, cookie := range cookies {
		names = append(names, cookie.Name)
		if cookie.Name == tenantCookie {
			assert.Equal(t, "acme-s-a", cookie.Value)
		}
		if cookie.Name == sessionCookie {
			assert.NotEmpty(t, cookie.Value)
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.Contains(t, names, sessionCookie)
	assert.Contains(t, names, tenantCookie)
}

func TestLoginRequiresEmailAndCompany(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/auth/login", "", gin.H{"company": "Acme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/auth/login", "", gin.H{"email": "ana@acme.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutExpiresCookies(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		assert.Less(t, cookie.MaxAge, 0)
	}
}

func TestRequestsWithoutTenantAreUnauthorized(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/customers", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "unauthorized", envelope.Error.Type)
}

func TestTenantHeaderFallback(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set(tenantHeader, "acme")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFirstRequestSeedsTenant(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/customers", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)

	customers := decodeData[[]domain.Customer](t, w)
	assert.Len(t, customers, 24)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/wallets", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	wallets := decodeData[[]domain.Wallet](t, w)
	assert.Len(t, wallets, 2)
}

func TestCreateCustomerAppearsFirst(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/customers", "acme", gin.H{
		"name":  "Nueva Clienta",
		"email": "nueva@acme.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeData[domain.Customer](t, w)
	assert.NotEmpty(t, created.ID)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/customers", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := decodeData[[]domain.Customer](t, w)
	require.Len(t, customers, 25)
	assert.Equal(t, created.ID, customers[0].ID)
}

func TestCreateCustomerValidation(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/customers", "acme", gin.H{
		"email": "sin-nombre@acme.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/customers", "acme", gin.H{
		"name": "Sin Email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCustomersQueryFilter(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/customers?q=cliente1%40acme", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)

	customers := decodeData[[]domain.Customer](t, w)
	require.NotEmpty(t, customers)
	for _, c := range customers {
		assert.Contains(t, strings.ToLower(c.Email), "cliente1@acme")
	}
}

func TestImportCustomersCSV(t *testing.T) {
	engine := newTestEngine(t)

	csv := strings.Join([]string{
		"Nombre,Telefono,Correo",
		"Ana,+54 11 5555-1000,ana@acme.com",
		"Bruno,+54 11 5555-2000,bruno@acme.com",
		",sin-nombre,sin@acme.com",
	}, "\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "clientes.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, csv)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: tenantCookie, Value: "acme"})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeData[map[string]int](t, w)
	assert.Equal(t, 2, result["added"])
	assert.Equal(t, 1, result["skipped"])

	w2 := doJSON(t, engine, http.MethodGet, "/api/v1/customers", "acme", nil)
	customers := decodeData[[]domain.Customer](t, w2)
	require.Len(t, customers, 26)
	assert.Equal(t, "Ana", customers[0].Name)
	assert.Equal(t, "Bruno", customers[1].Name)
}

func TestExportCustomersCSV(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/customers/export", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "clientes_acme.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 25)
	assert.Equal(t, "id,nombre,fechaNacimiento,celular,email,creadoEl,ultimoUso", lines[0])
}

func TestDashboardSummary(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/dashboard", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)

	summary := decodeData[domain.DashboardSummary](t, w)
	assert.Equal(t, 24, summary.TotalCustomers)
	assert.Len(t, summary.Trend, 14)
}

func TestImmediatePushValidation(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/push/immediate", "acme", gin.H{
		"message":  "Hola",
		"audience": "everyone",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/push/immediate", "acme", gin.H{
		"message":  strings.Repeat("a", 201),
		"audience": "all",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/push/immediate", "acme", gin.H{
		"message":  "Hola",
		"audience": "all",
	})
	require.Equal(t, http.StatusOK, w.Code)
	push := decodeData[domain.ImmediatePush](t, w)
	assert.Equal(t, domain.AudienceAll, push.Audience)
}

func TestScheduledPushLifecycle(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/push/scheduled", "acme", gin.H{
		"message":      "Promo del viernes",
		"audience":     "inactive_7d",
		"scheduled_at": "2026-03-20T18:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeData[domain.ScheduledPush](t, w)
	assert.Equal(t, domain.StatusPending, created.Status)

	path := fmt.Sprintf("/api/v1/push/scheduled/%s", created.ID)

	w = doJSON(t, engine, http.MethodPatch, path, "acme", gin.H{
		"message": "Promo del sábado",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeData[domain.ScheduledPush](t, w)
	assert.Equal(t, "Promo del sábado", updated.Message)

	w = doJSON(t, engine, http.MethodPatch, path, "acme", gin.H{
		"status": "cancelled",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cancelled := decodeData[domain.ScheduledPush](t, w)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	// Cancelling again is a no-op, editing fields afterwards is not.
	w = doJSON(t, engine, http.MethodPatch, path, "acme", gin.H{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPatch, path, "acme", gin.H{
		"message": "tarde",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestScheduledPushUnknownIDIsNotFound(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPatch, "/api/v1/push/scheduled/no-such-id", "acme", gin.H{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeofenceSeededThenReplaced(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/geofence", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	seeded := decodeData[*domain.GeofenceConfig](t, w)
	require.NotNil(t, seeded)
	assert.Equal(t, 500, seeded.RadiusMeters)

	w = doJSON(t, engine, http.MethodPut, "/api/v1/geofence", "acme", gin.H{
		"message":       "Pasá por la sucursal",
		"address":       "Av. Corrientes 1234",
		"latitude":      -34.6037,
		"longitude":     -58.3816,
		"radius_meters": 250,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/geofence", "acme", nil)
	replaced := decodeData[*domain.GeofenceConfig](t, w)
	require.NotNil(t, replaced)
	assert.Equal(t, 250, replaced.RadiusMeters)
	assert.Equal(t, "Pasá por la sucursal", replaced.Message)
}

func TestGeofenceRejectsNonPositiveRadius(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPut, "/api/v1/geofence", "acme", gin.H{
		"message":       "x",
		"radius_meters": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateWalletTogglesActive(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/wallets", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	wallets := decodeData[[]domain.Wallet](t, w)
	require.NotEmpty(t, wallets)

	target := wallets[0]
	w = doJSON(t, engine, http.MethodPatch, "/api/v1/wallets/"+target.ID, "acme", gin.H{
		"active": !target.Active,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeData[domain.Wallet](t, w)
	assert.Equal(t, !target.Active, updated.Active)
	assert.Equal(t, target.Name, updated.Name)
}

func TestTenantsDoNotShareData(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/customers", "acme", gin.H{
		"name":  "Solo Acme",
		"email": "solo@acme.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/customers", "beta", nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := decodeData[[]domain.Customer](t, w)
	for _, c := range customers {
		assert.NotEqual(t, "solo@acme.com", c.Email)
	}
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeShutdowner struct {
	calls chan struct{}
}

func (f *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	f.calls <- struct{}{}
	return nil
}

func TestRunRequestsShutdownWhenListenFails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lc := fxtest.NewLifecycle(t)
	sd := &fakeShutdowner{calls: make(chan struct{}, 1)}

	// An unparseable address makes ListenAndServe fail immediately. The
	// failure must request an fx shutdown so OnStop hooks still run, rather
	// than killing the process outright.
	run(lc, sd, config.Config{HTTPAddr: "not a listen address"}, zap.NewNop(), gin.New())
	lc.RequireStart()

	select {
	case <-sd.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("listen failure did not request shutdown")
	}

	lc.RequireStop()
}
