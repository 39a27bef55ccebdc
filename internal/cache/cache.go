package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type item struct {
	value      any
	expiration int64
}

// Cache es un caché en memoria con TTL, seguro para uso concurrente
type Cache struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	// gen avanza con cada invalidación
	gen uint64
}

// New crea un caché con el TTL por defecto dado
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		items: make(map[string]item),
		ttl:   defaultTTL,
		now:   time.Now,
	}
}

// StartJanitor limpia items expirados cada interval hasta que ctx se cancele
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.deleteExpired()
			}
		}
	}()
}

// Set guarda un valor en caché
func (c *Cache) Set(key string, value any, ttl ...time.Duration) {
	duration := c.ttl
	if len(ttl) > 0 {
		duration = ttl[0]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:      value,
		expiration: c.now().Add(duration).UnixNano(),
	}
}

// Generation devuelve el contador de invalidaciones. Se toma antes de leer
// del origen y se pasa a SetIfGeneration.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetIfGeneration guarda el valor solo si no hubo invalidaciones desde gen.
// Reporta si lo guardó.
func (c *Cache) SetIfGeneration(key string, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.items[key] = item{
		value:      value,
		expiration: c.now().Add(c.ttl).UnixNano(),
	}
	return true
}

// Get obtiene un valor del caché
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || c.now().UnixNano() > it.expiration {
		return nil, false
	}
	return it.value, true
}

// Delete elimina un valor del caché
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	delete(c.items, key)
}

// DeleteByPrefix elimina todas las claves que empiecen con un prefijo
func (c *Cache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Len retorna el número de items, incluidos los expirados aún no limpiados
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}
