package views

import (
	"strings"

	"github.com/prior-it/apollo-views/core"
)

// HeadPlaceholder marks the position in a component's markup where its head content is spliced in.
const HeadPlaceholder = "%head%"

// InjectStyle appends the component style to the head as a <style> element.
// The head is returned unchanged if there is no style or if its code is empty.
func InjectStyle(head string, css *core.CSS) string {
	if css == nil || len(css.Code) == 0 {
		return head
	}
	return head + "<style>" + css.Code + "</style>"
}

// SpliceHead replaces the first occurrence of [HeadPlaceholder] in markup with head.
// Any further placeholders are left untouched. If markup does not contain a placeholder, the
// head is dropped and markup is returned as-is.
func SpliceHead(markup string, head string) string {
	return strings.Replace(markup, HeadPlaceholder, head, 1)
}
