package kv

import (
	"context"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type entry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (entry) TableName() string {
	return "kv_entries"
}

// SQLite is a Store backed by a single-table embedded database. It is the
// durable local backend, the server-side analog of per-browser storage.
type SQLite struct {
	db *gorm.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var e entry
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Exec(
		`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		now,
	).Error
}
