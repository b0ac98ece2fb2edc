// Package cache provides a small in-process TTL cache used to avoid a
// database round trip on every authenticated request.
package cache

import (
	"sync"
	"time"

	"contactsapi/internal/data"
)

type entry struct {
	user      *data.User
	expiresAt time.Time
}

// UserCache maps authentication token plaintexts to resolved users for a
// bounded time.
type UserCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
}

// NewUserCache creates a UserCache and starts a goroutine that reaps expired
// entries once a minute.
func NewUserCache(ttl time.Duration) *UserCache {
	c := &UserCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}

	go func() {
		for {
			time.Sleep(time.Minute)
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}()

	return c
}

// Get returns the cached user for a token, or nil if absent or expired.
func (c *UserCache) Get(token string) *data.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[token]
	if !found || time.Now().After(e.expiresAt) {
		delete(c.entries, token)
		return nil
	}
	return e.user
}

// Set stores a user under the given token for the cache TTL.
func (c *UserCache) Set(token string, user *data.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[token] = entry{
		user:      user,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Remove drops a token from the cache, used when tokens are revoked or the
// user record changes.
func (c *UserCache) Remove(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, token)
}

// RemoveUser drops every cached token that resolves to the given user ID.
func (c *UserCache) RemoveUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.user.ID == userID {
			delete(c.entries, key)
		}
	}
}
