// Package session holds the process-local binding from opaque session
// handles to authenticated identities. Sessions are ephemeral: they exist
// from login to logout and are never persisted.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
)

// Context implements interfaces.Sessions with a mutex-guarded map.
type Context struct {
	mu       sync.RWMutex
	sessions map[string]common.Identity
}

// NewContext creates an empty session context.
func NewContext() *Context {
	return &Context{
		sessions: make(map[string]common.Identity),
	}
}

// Start binds a new opaque handle to the authenticated identity.
func (c *Context) Start(accountID, displayName string) string {
	handle := uuid.New().String()

	c.mu.Lock()
	c.sessions[handle] = common.Identity{
		AccountID:   accountID,
		DisplayName: displayName,
	}
	c.mu.Unlock()

	return handle
}

// Current resolves a handle to its identity. Returns false for an unknown or
// ended handle — callers must treat that as Unauthorized, never proceed.
func (c *Context) Current(handle string) (*common.Identity, bool) {
	c.mu.RLock()
	id, ok := c.sessions[handle]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return &id, true
}

// End clears the binding. Ending an unknown handle is a no-op.
func (c *Context) End(handle string) {
	c.mu.Lock()
	delete(c.sessions, handle)
	c.mu.Unlock()
}

// Compile-time check
var _ interfaces.Sessions = (*Context)(nil)
