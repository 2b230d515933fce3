package views

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/prior-it/apollo-views/core"
)

var (
	headBlock  = regexp.MustCompile(`(?s)<svelte:head>(.*?)</svelte:head>`)
	styleBlock = regexp.MustCompile(`(?s)<style(?:\s[^>]*)?>(.*?)</style>`)
	// Context keys pongo2 accepts as variable names
	identifier = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// FileLoader loads single-file components from a filesystem.
//
// A component file consists of an optional <svelte:head> block holding the head markup, an
// optional <style> block holding the component style, and the document markup. Both the
// markup and the head are pongo2 templates that receive the view options as their context,
// the style is used as-is. Templates can include other files from the same filesystem.
//
// Options whose key is not a valid variable name, e.g. "page-title", are only reachable
// through the "options" variable, which holds all view options.
type FileLoader struct {
	files     fs.FS
	root      string
	extension string
	set       *pongo2.TemplateSet
}

// NewFileLoader creates a loader for component files in files. The root is the views
// directory as it appears in the file paths that will be passed to Load, files itself should
// be rooted at that directory.
func NewFileLoader(files fs.FS, root string, extension string) *FileLoader {
	return &FileLoader{
		files:     files,
		root:      root,
		extension: extension,
		set:       pongo2.NewSet("views", pongo2.NewFSLoader(files)),
	}
}

// Load implements [core.Loader].
func (loader *FileLoader) Load(filePath string) (core.Component, error) {
	name := ViewName(loader.root, loader.extension, filePath) + Extension(loader.extension)
	if !fs.ValidPath(name) {
		return nil, core.NewLoadError(filePath, fmt.Errorf("invalid view path %q", name))
	}

	source, err := fs.ReadFile(loader.files, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.NewLoadError(filePath, fmt.Errorf("%q: %w", name, core.ErrNotFound))
	} else if err != nil {
		return nil, core.NewLoadError(filePath, fmt.Errorf("cannot read %q: %w", name, err))
	}

	component, err := loader.compile(string(source))
	if err != nil {
		return nil, core.NewLoadError(filePath, fmt.Errorf("cannot compile %q: %w", name, err))
	}
	return component, nil
}

func (loader *FileLoader) compile(source string) (*fileComponent, error) {
	markup, head, css := splitComponent(source)

	markupTemplate, err := loader.set.FromString(markup)
	if err != nil {
		return nil, fmt.Errorf("invalid markup: %w", err)
	}
	component := &fileComponent{
		markup: markupTemplate,
		css:    css,
	}
	if len(head) > 0 {
		component.head, err = loader.set.FromString(head)
		if err != nil {
			return nil, fmt.Errorf("invalid head: %w", err)
		}
	}
	return component, nil
}

// splitComponent separates a component file into its markup, head and style.
// Only the first head and style blocks are extracted.
func splitComponent(source string) (markup string, head string, css string) {
	if loc := headBlock.FindStringSubmatchIndex(source); loc != nil {
		head = strings.TrimSpace(source[loc[2]:loc[3]])
		source = source[:loc[0]] + source[loc[1]:]
	}
	if loc := styleBlock.FindStringSubmatchIndex(source); loc != nil {
		css = strings.TrimSpace(source[loc[2]:loc[3]])
		source = source[:loc[0]] + source[loc[1]:]
	}
	return strings.TrimSpace(source), head, css
}

type fileComponent struct {
	markup *pongo2.Template
	head   *pongo2.Template
	css    string
}

func (component *fileComponent) Render(_ context.Context, options core.Options) (core.Rendered, error) {
	data := templateContext(options)

	html, err := component.markup.Execute(data)
	if err != nil {
		return core.Rendered{}, fmt.Errorf("cannot execute markup: %w", err)
	}

	rendered := core.Rendered{HTML: html}
	if component.head != nil {
		rendered.Head, err = component.head.Execute(data)
		if err != nil {
			return core.Rendered{}, fmt.Errorf("cannot execute head: %w", err)
		}
	}
	if len(component.css) > 0 {
		rendered.CSS = &core.CSS{Code: component.css}
	}
	return rendered, nil
}

func templateContext(options core.Options) pongo2.Context {
	all := make(map[string]any, len(options))
	data := make(pongo2.Context, len(options)+1)
	for key, value := range options {
		all[key] = value
		if identifier.MatchString(key) {
			data[key] = value
		}
	}
	if _, ok := data["options"]; !ok {
		data["options"] = all
	}
	return data
}

// Files returns the names of all component files in files, without their extension.
func Files(files fs.FS, extension string) ([]string, error) {
	ext := Extension(extension)
	var names []string
	err := fs.WalkDir(files, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(name) == ext {
			names = append(names, strings.TrimSuffix(name, ext))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot list view files: %w", err)
	}
	return names, nil
}
