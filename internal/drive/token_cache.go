package drive

import (
	"sync"

	"classfolio/internal/domain/models"
)

// TokenCache is a process-wide in-memory cache of drive credentials keyed
// by user id, in front of the durable token store. Entries have no TTL and
// no eviction; they live until a successful refresh deletes them, which
// forces the next read to repopulate from the store.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[string]models.DriveToken
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{
		tokens: make(map[string]models.DriveToken),
	}
}

// Get returns the cached credential for a user, if present.
func (c *TokenCache) Get(userID string) (models.DriveToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.tokens[userID]
	return token, ok
}

// Set stores a credential for a user.
func (c *TokenCache) Set(userID string, token models.DriveToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[userID] = token
}

// Delete removes a user's entry. Called after a successful refresh.
func (c *TokenCache) Delete(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, userID)
}

// Len reports the number of cached entries.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}
