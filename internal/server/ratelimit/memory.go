package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory представляет rate limiter на основе токен-бакета (token bucket)
type Memory struct {
	buckets  map[string]*bucket
	now      func() time.Time
	cleanupC chan struct{}
	stopOnce sync.Once
	rate     int
	window   time.Duration
	mu       sync.RWMutex
}

// bucket представляет bucket для конкретного IP/ключа
type bucket struct {
	lastRefill time.Time
	tokens     int
	mu         sync.Mutex
}

// MemoryOption configures a Memory limiter.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory создает новый in-memory rate limiter
// rate - максимальное количество запросов в окне window
func NewMemory(rate int, window time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		window:   window,
		now:      time.Now,
		cleanupC: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	// Запускаем периодическую очистку старых buckets
	go m.cleanup()

	return m
}

// cleanup периодически удаляет неактивные buckets для экономии памяти
func (m *Memory) cleanup() {
	ticker := time.NewTicker(m.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupOldBuckets()
		case <-m.cleanupC:
			return
		}
	}
}

// cleanupOldBuckets удаляет buckets, которые не использовались дольше 2*window
func (m *Memory) cleanupOldBuckets() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, b := range m.buckets {
		b.mu.Lock()
		if now.Sub(b.lastRefill) > m.window*2 {
			delete(m.buckets, key)
		}
		b.mu.Unlock()
	}
}

// Stop останавливает cleanup goroutine. Повторный вызов безопасен.
func (m *Memory) Stop() {
	m.stopOnce.Do(func() {
		close(m.cleanupC)
	})
}

// Allow проверяет, разрешен ли запрос для данного ключа. Never fails.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	b, exists := m.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     m.rate,
			lastRefill: m.now(),
		}
		m.buckets[key] = b
	}
	m.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := m.now()
	if now.Sub(b.lastRefill) >= m.window {
		b.tokens = m.rate
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, nil
	}

	return false, nil
}

func (m *Memory) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets)
}
