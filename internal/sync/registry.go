package sync

import (
	"context"
	"sync"
)

// Registry tracks one Core per signed-in credential. Browser tabs sharing a
// credential share the core; distinct users (or a re-issued credential) get
// their own, each with its own subscription and tab channel.
type Registry struct {
	mu      sync.Mutex
	cores   map[string]*Core // token -> core
	newCore func() *Core
}

// NewRegistry creates a registry that builds cores with factory.
func NewRegistry(factory func() *Core) *Registry {
	return &Registry{
		cores:   make(map[string]*Core),
		newCore: factory,
	}
}

// SignIn resolves token to a core, creating and signing one in if needed.
func (r *Registry) SignIn(ctx context.Context, token string) (*Core, error) {
	r.mu.Lock()
	if c, ok := r.cores[token]; ok {
		r.mu.Unlock()
		return c, nil
	}
	r.mu.Unlock()

	c := r.newCore()
	if err := c.SignIn(ctx, token); err != nil {
		c.Close()
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.cores[token]; ok {
		// Lost a sign-in race for the same credential; keep the winner.
		c.Close()
		return existing, nil
	}
	r.cores[token] = c
	return c, nil
}

// Get returns the core for a signed-in credential.
func (r *Registry) Get(token string) (*Core, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cores[token]
	return c, ok
}

// SignOut signs the credential's core out and forgets it. Unknown tokens
// are a no-op.
func (r *Registry) SignOut(ctx context.Context, token string) {
	r.mu.Lock()
	c, ok := r.cores[token]
	delete(r.cores, token)
	r.mu.Unlock()

	if ok {
		c.SignOut(ctx)
	}
}

// CloseAll releases every core's resources. Shutdown path.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	cores := make([]*Core, 0, len(r.cores))
	for _, c := range r.cores {
		cores = append(cores, c)
	}
	r.cores = make(map[string]*Core)
	r.mu.Unlock()

	for _, c := range cores {
		c.Close()
	}
}
