package plugins

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/errors"
	"github.com/nacara/nacara/internal/logging"
)

// Registry holds the known plugin factories by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Names must be unique.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("plugin registration requires a name and a factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Names returns the registered names in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Resolve instantiates the named plugins in the given order.
func (r *Registry) Resolve(names []string, cfg *config.Config, logger logging.Logger) (*Chain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := &Chain{logger: logger.WithComponent("plugins")}
	for _, name := range names {
		factory, ok := r.factories[name]
		if !ok {
			return nil, errors.ErrUnknownPlugin(name).WithContext("available", r.namesLocked())
		}

		plugin, err := factory(cfg, logger.WithComponent("plugin:"+name))
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, fmt.Sprintf("plugin %s: %v", name, err))
		}
		chain.plugins = append(chain.plugins, plugin)
	}

	return chain, nil
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
