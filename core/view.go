package core

import "context"

// Options holds the data a view is rendered with.
// Keys are unique and their order is irrelevant, there is no fixed schema.
type Options map[string]any

// Get returns the value stored under key, or nil if there is none.
func (options Options) Get(key string) any {
	if options == nil {
		return nil
	}
	return options[key]
}

// Merge returns a new Options value that contains all entries of options, overwritten by the
// entries of other. Neither of the inputs is modified.
func (options Options) Merge(other Options) Options {
	merged := make(Options, len(options)+len(other))
	for key, value := range options {
		merged[key] = value
	}
	for key, value := range other {
		merged[key] = value
	}
	return merged
}

type CSS struct {
	Code string
}

// Rendered is the output of a single component render.
type Rendered struct {
	// HTML is the full document markup, usually containing the head placeholder.
	HTML string
	// Head contains the markup that belongs in the document head.
	Head string
	// CSS is the component style, nil if the component has none.
	CSS *CSS
}

// Component is a unit of UI logic that can be rendered to markup synchronously.
type Component interface {
	Render(ctx context.Context, options Options) (Rendered, error)
}

// ComponentFunc converts a function into a [Component].
type ComponentFunc func(ctx context.Context, options Options) (Rendered, error)

func (fn ComponentFunc) Render(ctx context.Context, options Options) (Rendered, error) {
	return fn(ctx, options)
}

// Loader resolves a view file path to the component that renders it.
type Loader interface {
	Load(path string) (Component, error)
}

// LoaderFunc converts a function into a [Loader].
type LoaderFunc func(path string) (Component, error)

func (fn LoaderFunc) Load(path string) (Component, error) {
	return fn(path)
}
