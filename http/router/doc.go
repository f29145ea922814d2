/*
Package router binds HTTP routes to handlers.

A [Route] pairs a path pattern and an HTTP method with a [Handler].
Routes are registered on a [Builder], which rejects malformed or duplicate routes,
and sealed into an immutable [Table]. [New] binds a Table onto a [Router]
backed by github.com/gorilla/mux. Registration order is preserved,
so the first Route matching a request handles it.

Requests to an authed Route pass through the configured auth.Authenticator
before anything else about the Route runs.
A [Dispatcher] then normalizes the request, calls the Handler
and renders what it returns:

	b := router.NewBuilder()
	err := b.Handle(router.Route{
		Path:   "/user/{id}",
		Method: http.MethodPut,
		Body:   router.Body[User](),
		Handler: func(r *req.Request) (resp.Result, error) {
			u, _ := req.BodyAs[User](r)
			u.ID = r.Params.Get("id")
			return resp.Value(u), nil
		},
	})

Requests matching no Route receive BadRequest with a 400.
*/
package router
