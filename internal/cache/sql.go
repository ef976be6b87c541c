package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/database"
	"storefront/internal/models"
)

// SQLStore persists entries in the cache_entries table through gorm. It lets a
// single gateway keep its cache across restarts without running Redis.
type SQLStore struct {
	db  *database.Database
	now func() time.Time
}

func NewSQLStore(db *database.Database) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	var entry models.CacheEntry
	err := s.db.DB.WithContext(ctx).Where("cache_key = ?", key.String()).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}
	if entry.Expired(s.now().UTC()) {
		s.db.DB.WithContext(ctx).Where("cache_key = ?", entry.Key).Delete(&models.CacheEntry{})
		return nil, false, nil
	}
	return entry.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	entry := models.CacheEntry{Key: key.String(), Value: value}
	if ttl > 0 {
		expires := s.now().UTC().Add(ttl)
		entry.ExpiresAt = &expires
	}
	err := s.db.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (s *SQLStore) DeletePrefix(ctx context.Context, prefix Key) (int, error) {
	tx := s.db.DB.WithContext(ctx)
	if len(prefix) == 0 {
		tx = tx.Where("1 = 1")
	} else {
		// Serialized keys are ASCII, so substr counts bytes on every driver.
		p := prefix.String()
		tx = tx.Where("cache_key = ? OR substr(cache_key, 1, ?) = ?", p, len(p)+1, p+"/")
	}
	res := tx.Delete(&models.CacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("cache delete error: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Purge removes expired rows. The worker calls it on a timer.
func (s *SQLStore) Purge(ctx context.Context) (int, error) {
	res := s.db.DB.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.CacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("cache purge error: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
