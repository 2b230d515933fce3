package views

import (
	"errors"
	"fmt"
	"slices"

	"github.com/prior-it/apollo-views/core"
)

// Registry maps logical view names to components that are linked into the binary.
//
// Components should be registered during start-up. Registering while views are being
// rendered is not safe.
type Registry struct {
	root       string
	extension  string
	components map[string]core.Component
}

// NewRegistry creates an empty registry for views that live in the root directory and use the
// specified file extension.
func NewRegistry(root string, extension string) *Registry {
	return &Registry{
		root:       root,
		extension:  extension,
		components: make(map[string]core.Component),
	}
}

// Register adds a component under the specified logical name, e.g. "index" or "blog/post".
// This will panic if the name is already taken or if component is nil.
func (registry *Registry) Register(name string, component core.Component) *Registry {
	if component == nil {
		panic(fmt.Sprintf("views: cannot register nil component for %q", name))
	}
	name = ViewName("", registry.extension, name)
	if _, exists := registry.components[name]; exists {
		panic(fmt.Sprintf("views: component %q is already registered", name))
	}
	registry.components[name] = component
	return registry
}

// Load implements [core.Loader].
func (registry *Registry) Load(filePath string) (core.Component, error) {
	name := ViewName(registry.root, registry.extension, filePath)
	component, ok := registry.components[name]
	if !ok {
		return nil, core.NewLoadError(
			filePath,
			fmt.Errorf("no component registered as %q: %w", name, core.ErrNotFound),
		)
	}
	return component, nil
}

// Names returns the sorted names of all registered components.
func (registry *Registry) Names() []string {
	names := make([]string, 0, len(registry.components))
	for name := range registry.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Chain is a loader that tries each of its loaders in order and returns the first component
// that could be loaded.
type Chain []core.Loader

func (chain Chain) Load(filePath string) (core.Component, error) {
	if len(chain) == 0 {
		return nil, core.NewLoadError(filePath, errors.New("no loaders configured"))
	}
	var errs []error
	for _, loader := range chain {
		component, err := loader.Load(filePath)
		if err == nil {
			return component, nil
		}
		errs = append(errs, err)
	}
	return nil, core.NewLoadError(filePath, errors.Join(errs...))
}
