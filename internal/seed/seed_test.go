package seed

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/empresia/walletadmin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIDFunc() IDFunc {
	n := 0
	return func(t time.Time) string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func TestCustomersDescendingCreationDates(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	rnd := rand.New(rand.NewSource(1))

	customers := Customers(now, "acme", 24, rnd, testIDFunc())
	require.Len(t, customers, 24)

	for i, c := range customers {
		assert.Equal(t, now.AddDate(0, 0, -i), c.CreatedAt)
		assert.Equal(t, fmt.Sprintf("Cliente %d", i+1), c.Name)
		assert.Equal(t, fmt.Sprintf("cliente%d@acme.com", i+1), c.Email)
		assert.Equal(t, "1990-01-01", c.BirthDate)
		assert.NotEmpty(t, c.ID)
	}
}

func TestCustomersLastUsedWithinThirtyDays(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	rnd := rand.New(rand.NewSource(7))

	customers := Customers(now, "acme", 100, rnd, testIDFunc())

	withUse := 0
	for _, c := range customers {
		if c.LastUsedAt == nil {
			continue
		}
		withUse++
		age := now.Sub(*c.LastUsedAt)
		assert.GreaterOrEqual(t, age, time.Duration(0))
		assert.Less(t, age, 30*24*time.Hour)
	}

	// Roughly half the records carry usage; at 100 samples this holds for
	// any seed without being flaky.
	assert.Greater(t, withUse, 20)
	assert.Less(t, withUse, 80)
}

func TestWalletsFollowProfile(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	profile := config.DefaultSeedConfig()

	wallets := Wallets(now, profile.Wallets, testIDFunc())
	require.Len(t, wallets, 2)
	assert.Equal(t, "Wallet Principal", wallets[0].Name)
	assert.True(t, wallets[0].Active)
	assert.Equal(t, "Wallet Promociones", wallets[1].Name)
	assert.False(t, wallets[1].Active)
	assert.NotEqual(t, wallets[0].ID, wallets[1].ID)
}

func TestGeofenceDefaults(t *testing.T) {
	cfg := Geofence(config.DefaultSeedConfig().Geofence)
	assert.NotEmpty(t, cfg.Message)
	assert.InDelta(t, -34.6037, cfg.Latitude, 0.0001)
	assert.InDelta(t, -58.3816, cfg.Longitude, 0.0001)
	assert.Equal(t, 500, cfg.RadiusMeters)
}
