package filters

import (
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
)

// Deps carries everything a built-in filter may need at construction.
type Deps struct {
	// Out is the rewritten-document sink (the Writer stage uses it).
	Out io.Writer
	// Logger receives debug traces; nil means the process default.
	Logger *log.Logger
}

// Factory constructs one filter instance. A chain never shares instances
// between documents running concurrently.
type Factory func(deps Deps) htmlparse.Filter

// Registry maps filter names to factories so chains can be assembled from
// configuration.
type Registry struct {
	mu           sync.RWMutex
	factories    map[string]Factory
	descriptions map[string]string
}

// NewRegistry creates an empty filter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories:    make(map[string]Factory),
		descriptions: make(map[string]string),
	}
}

// Register adds a factory under name, replacing any existing one.
func (r *Registry) Register(name, description string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	r.descriptions[name] = description
}

// Get retrieves a factory by name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Description returns the registered description for name.
func (r *Registry) Description(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.descriptions[name]
}

// Names returns all registered filter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.factories))
	for name := range r.factories {
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}

// DefaultRegistry is the global registry for built-in filters.
//
//nolint:gochecknoglobals // Global registry is intentional for filter registration
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("writer", "serialize the document to the output sink",
		func(deps Deps) htmlparse.Filter {
			return NewWriter(deps.Out)
		})
	DefaultRegistry.Register("collector", "record a textual trace of every event",
		func(_ Deps) htmlparse.Filter {
			return NewCollector()
		})
	DefaultRegistry.Register("debug", "log every event at debug level",
		func(deps Deps) htmlparse.Filter {
			return NewDebug(deps.Logger)
		})
}
