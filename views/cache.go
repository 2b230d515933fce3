package views

import (
	"github.com/prior-it/apollo-views/core"
	"github.com/puzpuzpuz/xsync/v3"
)

// CachedLoader remembers the components returned by another loader, so every view path is
// only loaded once. Failed loads are not cached.
type CachedLoader struct {
	loader     core.Loader
	components *xsync.MapOf[string, core.Component]
}

func NewCachedLoader(loader core.Loader) *CachedLoader {
	return &CachedLoader{
		loader:     loader,
		components: xsync.NewMapOf[string, core.Component](),
	}
}

// Load implements [core.Loader].
// Concurrent loads of the same uncached path may all reach the wrapped loader, but they will
// all return the component that was stored first.
func (cache *CachedLoader) Load(filePath string) (core.Component, error) {
	if component, ok := cache.components.Load(filePath); ok {
		return component, nil
	}
	component, err := cache.loader.Load(filePath)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.components.LoadOrStore(filePath, component)
	return actual, nil
}

// Invalidate removes the component for filePath from the cache.
func (cache *CachedLoader) Invalidate(filePath string) {
	cache.components.Delete(filePath)
}

// Purge removes all components from the cache.
func (cache *CachedLoader) Purge() {
	cache.components.Clear()
}

// Len returns the number of cached components.
func (cache *CachedLoader) Len() int {
	return cache.components.Size()
}
