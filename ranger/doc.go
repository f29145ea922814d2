/*
Package ranger initializes and manages a trailhead host with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New].
Routes are registered with [*Ranger.Handle], [*Ranger.AuthedRoutes],
[*Ranger.UnauthedRoutes] and [*Ranger.Static].

[*Ranger.Guide] begins a trailhead host's web server and blocks until it stops.
By default, [*Ranger.Guide] listens on [DefaultHost]:[DefaultPort] (localhost:3000),
assuming either a reverse proxy proxies requests
or only a client application makes direct requests to the web server.

Upon calling [*Ranger.Guide], all routes configured up to that point are sealed;
registering more returns router.ErrSealed.
Stop that web server with [*Ranger.Shutdown],
by canceling the context.Context passed to [*Ranger.Guide],
or send a signal [*Ranger.Guide] listens for.

	rng, err := ranger.New(ranger.WithAuthenticator(authn))
	if err != nil {
		log.Fatal(err)
	}

	rng.UnauthedRoutes(router.Route{Path: "/", Method: http.MethodGet, Handler: hello})
	if err := rng.Guide(context.Background()); err != nil {
		log.Fatal(err)
	}

# Configuration

A developer configures a trailhead host through environment variables
and by passing [RangerOption] to [New].

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - CORS_ORIGINS: a comma-separated list of origins allowed to make cross-origin requests
  - ENVIRONMENT: the environment the application is running in; cf. [trailhead.Environment]
  - HOST: the host the application is running on; default: localhost
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - MAX_BODY_BYTES: the largest request body read, in bytes; default: 10485760
  - PORT: the port the application should listen on; default: :3000
  - SENTRY_DSN: the DSN error logs are forwarded to; cf. [logger.SentryLogger]
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idiling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - SHUTDOWN_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for draining the web server; default: 5s
*/
package ranger
