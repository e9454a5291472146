package kvstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is the persisted row of SQLStore
type Entry struct {
	Namespace string `gorm:"primaryKey;size:32"`
	Key       string `gorm:"primaryKey;size:128"`
	Value     string
	UpdatedAt time.Time
}

// TableName pins the table name
func (Entry) TableName() string { return "kv_entries" }

// SQLStore persists entries in a SQLite database through gorm
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLStore opens (or creates) a SQLite database at path; empty path uses a shared in-memory database
func OpenSQLStore(path string) (*SQLStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(namespace, key string) (string, error) {
	var e Entry
	err := s.db.Where("namespace = ? AND key = ?", namespace, key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return e.Value, nil
}

func (s *SQLStore) Set(namespace, key, value string) error {
	e := Entry{Namespace: namespace, Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLStore) Delete(namespace, key string) error {
	err := s.db.Where("namespace = ? AND key = ?", namespace, key).Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
