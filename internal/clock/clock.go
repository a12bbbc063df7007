// Package clock абстрагирует источник текущего времени. Продакшен-код
// получает Real(), тесты используют Fixed() с управляемым временем.
package clock

import (
	"sync"
	"time"
)

// Clock отдаёт "сейчас" классификатору и пересчёту.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// Real возвращает системные часы в UTC.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock всегда возвращает заданный момент, пока его не сдвинут.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// Fixed создаёт часы, застывшие на now.
func Fixed(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance сдвигает часы вперёд на d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set переставляет часы на t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}
