package views

import (
	"path"
	"path/filepath"
	"strings"
)

// Extension returns ext with exactly one leading dot, or the empty string if ext is empty.
func Extension(ext string) string {
	ext = strings.TrimLeft(strings.TrimSpace(ext), ".")
	if len(ext) == 0 {
		return ""
	}
	return "." + ext
}

// ViewName converts a view file path into its logical name, e.g. "views/blog/post.svelte" with
// root "views" and extension "svelte" becomes "blog/post".
func ViewName(root string, extension string, filePath string) string {
	name := path.Clean(filepath.ToSlash(filePath))
	if dir := path.Clean(filepath.ToSlash(root)); dir != "." && dir != "/" {
		name = strings.TrimPrefix(name, dir+"/")
	}
	name = strings.TrimLeft(name, "/")
	if ext := Extension(extension); len(ext) > 0 {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
