package core

import "errors"

var (
	ErrLoad     = errors.New("view component could not be loaded")
	ErrRender   = errors.New("view component could not be rendered")
	ErrStartup  = errors.New("server could not be started")
	ErrNotFound = errors.New("not found")
	ErrNoEngine = errors.New("no view engine registered for extension")
)

type RenderErrorKind uint8

const (
	KindLoad RenderErrorKind = iota
	KindRender
)

func (kind RenderErrorKind) String() string {
	switch kind {
	case KindLoad:
		return "load"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// RenderError is returned by view engines when a view could not be turned into markup.
// It matches [ErrLoad] or [ErrRender] through [errors.Is], depending on its kind.
type RenderError struct {
	Kind RenderErrorKind
	Path string
	Err  error
}

func NewLoadError(path string, err error) *RenderError {
	return &RenderError{Kind: KindLoad, Path: path, Err: err}
}

func NewRenderError(path string, err error) *RenderError {
	return &RenderError{Kind: KindRender, Path: path, Err: err}
}

func (e *RenderError) Error() string {
	sentinel := ErrRender
	if e.Kind == KindLoad {
		sentinel = ErrLoad
	}
	if e.Err == nil {
		return sentinel.Error() + " (" + e.Path + ")"
	}
	return sentinel.Error() + " (" + e.Path + "): " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	switch target {
	case ErrLoad:
		return e.Kind == KindLoad
	case ErrRender:
		return e.Kind == KindRender
	}
	return false
}
