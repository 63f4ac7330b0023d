// Package seed generates the demo records written once per tenant so an empty
// tenant appears populated. Generation is pure: callers supply the clock, the
// randomness source and the identifier factory.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/empresia/walletadmin/internal/config"
	"github.com/empresia/walletadmin/internal/tenantstore/domain"
)

// IDFunc mints a record identifier stamped with the given time.
type IDFunc func(t time.Time) string

const day = 24 * time.Hour

// Customers returns count synthetic customers with creation timestamps
// descending one day apart. Roughly half carry a last-used timestamp within
// the past 30 days; the rest have never used their card.
func Customers(now time.Time, tenantID string, count int, rnd *rand.Rand, newID IDFunc) []domain.Customer {
	customers := make([]domain.Customer, 0, count)
	for i := 0; i < count; i++ {
		created := now.Add(-time.Duration(i) * day)
		c := domain.Customer{
			ID:        newID(created),
			Name:      fmt.Sprintf("Cliente %d", i+1),
			BirthDate: "1990-01-01",
			Phone:     fmt.Sprintf("+54 11 5555-%d", 1000+i),
			Email:     fmt.Sprintf("cliente%d@%s.com", i+1, tenantID),
			CreatedAt: created,
		}
		if rnd.Float64() > 0.5 {
			used := now.Add(-time.Duration(rnd.Intn(30)) * day)
			c.LastUsedAt = &used
		}
		customers = append(customers, c)
	}
	return customers
}

// Wallets instantiates the configured wallet profile.
func Wallets(now time.Time, profile []config.SeedWallet, newID IDFunc) []domain.Wallet {
	wallets := make([]domain.Wallet, 0, len(profile))
	for _, w := range profile {
		wallets = append(wallets, domain.Wallet{
			ID:        newID(now),
			Name:      w.Name,
			CreatedAt: now,
			Active:    w.Active,
			ImageRef:  w.ImageRef,
		})
	}
	return wallets
}

// Geofence returns the default proximity configuration for a new tenant.
func Geofence(profile config.SeedGeofence) domain.GeofenceConfig {
	return domain.GeofenceConfig{
		Message:      profile.Message,
		Address:      profile.Address,
		Latitude:     profile.Latitude,
		Longitude:    profile.Longitude,
		RadiusMeters: profile.RadiusMeters,
	}
}
