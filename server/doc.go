/*
Package server provides a HTTP server that renders views with pluggable view engines.
Handlers take an application-specific state object (used for dependency injection)
and a [Apollo] object which contains a lot of utility functions.

View engines are registered per file extension when the server is created, there is no
global engine registry:

	engine := views.New(views.NewCachedLoader(registry))
	s := server.New(state, cfg, server.Views{
		Dir:       "views",
		Extension: "svelte",
		Engines: map[string]views.RenderFunc{
			"svelte": engine.Render,
		},
	})

	s.AttachDefaultMiddleware()
	s.View("/", "index", nil).
		Get("/posts/{slug}", Post)

	if err := s.Start(ctx, nil); err != nil {
		log.Fatal(err)
	}

	func Post(apollo *server.Apollo, state *State) error {
		post, err := state.Posts.Get(apollo.Context(), apollo.GetPath("slug"))
		if err != nil {
			return err
		}
		return apollo.View("blog/post", core.Options{"post": post})
	}
*/
package server
