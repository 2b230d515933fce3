package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/prior-it/apollo-views/core"
	"github.com/prior-it/apollo-views/server"
	"github.com/prior-it/apollo-views/views"
)

type post struct {
	Title   string
	Summary string
	Date    time.Time
}

var posts = map[string]post{
	"component-files": {
		Title:   "Component files",
		Summary: "Markup, head and style of a view live in one file.",
		Date:    time.Date(2024, time.November, 18, 0, 0, 0, 0, time.UTC),
	},
	"hello-world": {
		Title:   "Hello, world",
		Summary: "Views rendered on the server, head and style included.",
		Date:    time.Date(2024, time.November, 4, 0, 0, 0, 0, time.UTC),
	},
}

func Home(apollo *server.Apollo, _ State) (core.Options, error) {
	slugs := make([]string, 0, len(posts))
	for slug := range posts {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return core.Options{
		"title": "Home",
		"name":  apollo.Cfg.App.Name,
		"posts": slugs,
	}, nil
}

func Post(apollo *server.Apollo, _ State) (core.Options, error) {
	slug := apollo.GetPath("slug")
	p, ok := posts[slug]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", slug, core.ErrNotFound)
	}
	return core.Options{
		"title":   p.Title,
		"summary": p.Summary,
		"date":    p.Date.Format(time.DateOnly),
	}, nil
}

// About is linked into the binary rather than loaded from a component file.
func About() core.Component {
	return views.Templ(aboutDocument, aboutHead, ".about{max-width:40rem;margin:auto}")
}

func aboutDocument(options core.Options) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		lang, _ := options.Get("lang").(string)
		if len(lang) == 0 {
			lang = "en"
		}
		_, err := io.WriteString(w, strings.Join([]string{
			`<!doctype html><html lang="` + templ.EscapeString(lang) + `">`,
			`<head>` + views.HeadPlaceholder + `</head>`,
			`<body><main class="about"><h1>About</h1>`,
			`<p>This page is a statically linked component.</p></main></body></html>`,
		}, ""))
		return err
	})
}

func aboutHead(_ core.Options) templ.Component {
	return templ.Raw(`<title>About</title>`)
}
