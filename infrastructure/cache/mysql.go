package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytcurator/domain/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// cacheRecord is the gorm model of a MySQL cache row
type cacheRecord struct {
	Namespace string     `gorm:"primaryKey;size:64"`
	CacheKey  string     `gorm:"column:cache_key;primaryKey;size:191"`
	Data      string     `gorm:"type:longtext;not null"`
	StoredAt  time.Time  `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
}

func (cacheRecord) TableName() string { return "cache_entries" }

// MySQLBackend stores entries through gorm in a cache_entries table
type MySQLBackend struct{ db *gorm.DB }

// OpenMySQL opens a gorm connection for the given DSN
func OpenMySQL(host, port, user, password, name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", user, password, host, port, name)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func NewMySQLBackend(db *gorm.DB) *MySQLBackend {
	return &MySQLBackend{db: db}
}

// Migrate creates or updates the cache_entries table
func (m *MySQLBackend) Migrate(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(&cacheRecord{})
}

func (m *MySQLBackend) Find(ctx context.Context, namespace, key string) (*model.CacheEntry, error) {
	var rec cacheRecord
	err := m.db.WithContext(ctx).Where("namespace = ? AND cache_key = ?", namespace, key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.CacheEntry{
		Key:       rec.CacheKey,
		Data:      []byte(rec.Data),
		Timestamp: rec.StoredAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (m *MySQLBackend) Upsert(ctx context.Context, namespace string, entry *model.CacheEntry) error {
	rec := cacheRecord{
		Namespace: namespace,
		CacheKey:  entry.Key,
		Data:      string(entry.Data),
		StoredAt:  entry.Timestamp,
		ExpiresAt: entry.ExpiresAt,
	}
	return m.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (m *MySQLBackend) Remove(ctx context.Context, namespace, key string) error {
	return m.db.WithContext(ctx).Where("namespace = ? AND cache_key = ?", namespace, key).Delete(&cacheRecord{}).Error
}

func (m *MySQLBackend) RemoveAll(ctx context.Context, namespace string) error {
	return m.db.WithContext(ctx).Where("namespace = ?", namespace).Delete(&cacheRecord{}).Error
}

func (m *MySQLBackend) Namespaces(ctx context.Context) ([]string, error) {
	out := make([]string, 0)
	err := m.db.WithContext(ctx).Model(&cacheRecord{}).Distinct("namespace").Pluck("namespace", &out).Error
	return out, err
}

func (m *MySQLBackend) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *MySQLBackend) Close(context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
