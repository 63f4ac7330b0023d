package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SeedConfig describes the demo data written for a first-seen tenant.
type SeedConfig struct {
	CustomerCount int          `mapstructure:"customerCount"`
	Wallets       []SeedWallet `mapstructure:"wallets"`
	Geofence      SeedGeofence `mapstructure:"geofence"`
}

type SeedWallet struct {
	Name     string `mapstructure:"name"`
	Active   bool   `mapstructure:"active"`
	ImageRef string `mapstructure:"imageRef"`
}

type SeedGeofence struct {
	Message      string  `mapstructure:"message"`
	Address      string  `mapstructure:"address"`
	Latitude     float64 `mapstructure:"latitude"`
	Longitude    float64 `mapstructure:"longitude"`
	RadiusMeters int     `mapstructure:"radiusMeters"`
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		CustomerCount: 24,
		Wallets: []SeedWallet{
			{Name: "Wallet Principal", Active: true, ImageRef: "/digital-card-wallet-preview.png"},
			{Name: "Wallet Promociones", Active: false, ImageRef: "/digital-wallet-promo-card.png"},
		},
		Geofence: SeedGeofence{
			Message:      "¡Estás cerca! Ven y recibe un beneficio.",
			Address:      "",
			Latitude:     -34.6037,
			Longitude:    -58.3816,
			RadiusMeters: 500,
		},
	}
}

// SeedConfigHolder exposes the current seed profile, reloaded on file change.
type SeedConfigHolder struct {
	current atomic.Value // holds SeedConfig
}

func NewSeedConfigHolder() (*SeedConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("seed")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/walletadmin")
	v.AddConfigPath(".")

	v.SetEnvPrefix("WALLETADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &SeedConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No profile on disk: run with the built-in demo profile.
		holder.current.Store(DefaultSeedConfig())
		return holder, nil
	}

	var cfg SeedConfig
	if err := v.UnmarshalKey("seed", &cfg); err != nil {
		return nil, err
	}
	if err := validateSeedConfig(cfg); err != nil {
		return nil, err
	}

	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SeedConfig
		if err := v.UnmarshalKey("seed", &updated); err != nil {
			log.Printf("[seed-config] reload failed: %v", err)
			return
		}
		if err := validateSeedConfig(updated); err != nil {
			log.Printf("[seed-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[seed-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SeedConfigHolder) Get() SeedConfig {
	return h.current.Load().(SeedConfig)
}

func validateSeedConfig(cfg SeedConfig) error {
	if cfg.CustomerCount <= 0 {
		return errors.New("seed.customerCount must be positive")
	}
	if len(cfg.Wallets) == 0 {
		return errors.New("seed.wallets cannot be empty")
	}
	if cfg.Geofence.RadiusMeters <= 0 {
		return errors.New("seed.geofence.radiusMeters must be positive")
	}
	return nil
}
