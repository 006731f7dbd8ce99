package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"bl-extractor/internal/database"
)

// Manager keeps parse responses in memory in front of the SQLite parse cache
type Manager struct {
	store    *database.ParseCacheStore
	memory   *gocache.Cache
	disabled bool
	ttl      time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a new cache manager
func NewManager(store *database.ParseCacheStore, disabled bool, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		store:    store,
		memory:   gocache.New(ttl, cleanupInterval(ttl)),
		disabled: disabled,
		ttl:      ttl,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	if !disabled {
		if err := m.loadFromDatabase(); err != nil {
			logger.Warn("Failed to load parse cache from database", "error", err)
		}
		go m.cleanupLoop()
	}

	return m
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < time.Minute {
		return ttl
	}
	return time.Minute
}

// Get returns the cached response for a text hash, nil on a miss
func (m *Manager) Get(hash string) ([]byte, error) {
	if m.disabled {
		return nil, nil
	}

	if value, ok := m.memory.Get(hash); ok {
		return value.([]byte), nil
	}

	data, err := m.store.Get(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get from database cache: %w", err)
	}

	if data != nil {
		m.memory.Set(hash, data, m.ttl)
	}

	return data, nil
}

// Set stores a response in both tiers
func (m *Manager) Set(hash string, data []byte) error {
	if m.disabled {
		return nil
	}

	if err := m.store.Set(hash, data, m.ttl); err != nil {
		return fmt.Errorf("failed to store in database cache: %w", err)
	}
	m.memory.Set(hash, data, m.ttl)

	return nil
}

// Delete removes a response from both tiers
func (m *Manager) Delete(hash string) error {
	if m.disabled {
		return nil
	}

	m.memory.Delete(hash)

	if err := m.store.Delete(hash); err != nil {
		return fmt.Errorf("failed to delete from database cache: %w", err)
	}

	return nil
}

// IsEnabled returns true if caching is enabled
func (m *Manager) IsEnabled() bool {
	return !m.disabled
}

// GetTTL returns the cache TTL duration
func (m *Manager) GetTTL() time.Duration {
	return m.ttl
}

// loadFromDatabase warms the memory tier with every unexpired entry
func (m *Manager) loadFromDatabase() error {
	entries, err := m.store.LoadAll()
	if err != nil {
		return err
	}

	if loaded := m.warm(entries, time.Now()); loaded > 0 {
		m.logger.Info("Loaded parse cache entries from database", "count", loaded)
	}

	return nil
}

// warm copies entries into memory with their remaining lifetime. Entries
// already past expiry are skipped, since go-cache keeps non-positive
// durations forever.
func (m *Manager) warm(entries []database.ParseCacheEntry, now time.Time) int {
	loaded := 0
	for _, e := range entries {
		remaining := e.ExpiresAt.Sub(now)
		if remaining <= 0 {
			continue
		}
		m.memory.Set(e.TextHash, e.ResponseData, remaining)
		loaded++
	}
	return loaded
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval(m.ttl))
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup drops expired rows from the database; go-cache janitors its own tier
func (m *Manager) cleanup() {
	removed, err := m.store.DeleteExpired()
	if err != nil {
		m.logger.Warn("Failed to clean up expired parse cache entries", "error", err)
		return
	}
	if removed > 0 {
		m.logger.Debug("Cleaned up expired parse cache entries", "count", removed)
	}
}

// GetStats returns cache statistics
func (m *Manager) GetStats() (CacheStats, error) {
	stats := CacheStats{
		Disabled: m.disabled,
		TTL:      m.ttl,
	}

	if m.disabled {
		return stats, nil
	}

	stats.MemoryTotal = m.memory.ItemCount()

	dbTotal, dbExpired, err := m.store.GetStats()
	if err != nil {
		return stats, fmt.Errorf("failed to get database stats: %w", err)
	}

	stats.DatabaseTotal = dbTotal
	stats.DatabaseExpired = dbExpired

	return stats, nil
}

// Close stops the cleanup goroutine
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	Disabled        bool          `json:"disabled"`
	TTL             time.Duration `json:"ttl"`
	MemoryTotal     int           `json:"memory_total"`
	DatabaseTotal   int           `json:"database_total"`
	DatabaseExpired int           `json:"database_expired"`
}
