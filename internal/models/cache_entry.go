package models

import "time"

// CacheEntry backs the SQL cache store. Key is the serialized cache key.
type CacheEntry struct {
	Key       string     `json:"key" gorm:"column:cache_key;primaryKey;size:512"`
	Value     []byte     `json:"value" gorm:"not null"`
	ExpiresAt *time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}

// Expired reports whether the entry is stale at now. A nil ExpiresAt never
// expires.
func (e CacheEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}
