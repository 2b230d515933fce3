/*
Package views turns view components into complete HTML documents.

A view is rendered in three steps: the [core.Loader] resolves the view's file path to a
[core.Component], the component renders its markup, head and (optional) style for the given
options, and the [Engine] appends the style to the head and splices the head into the
[HeadPlaceholder] inside the markup.

Components can be linked into the binary through a [Registry], or authored as single-file
components and loaded at runtime through a [FileLoader]:

	<svelte:head>
		<title>{{ title }}</title>
	</svelte:head>

	<html>
		<head>%head%</head>
		<body><h1>{{ title }}</h1></body>
	</html>

	<style>
		h1 { color: rebeccapurple; }
	</style>

Basic example:

	registry := views.NewRegistry("views", "svelte").
		Register("index", views.Templ(pages.Index, pages.IndexHead, ""))
	loader := views.NewCachedLoader(views.Chain{registry, views.NewFileLoader(viewsFS, "views", "svelte")})
	engine := views.New(loader)

	html, err := engine.Render(ctx, "views/index.svelte", core.Options{"title": "Home"})
*/
package views
