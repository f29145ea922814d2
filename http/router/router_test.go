package router_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/auth"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/logger"
	"pgregory.net/rapid"
)

func init() { color.NoColor = true }

type user struct {
	Id       string `json:",omitempty"`
	Email    string
	Password string
}

func newRouter(t *testing.T, routes []router.Route, opts ...router.Option) *router.Router {
	t.Helper()

	b := router.NewBuilder()
	require.Nil(t, b.Handle(routes...))

	l := logger.New(logger.WithOutput(new(bytes.Buffer)))
	rt, err := router.New(b.Seal(), append([]router.Option{router.WithLogger(l)}, opts...)...)
	require.Nil(t, err)

	return rt
}

func do(rt http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, r)
	return w
}

func TestNew(t *testing.T) {
	// Act
	rt, err := router.New(nil)

	// Assert
	require.Nil(t, rt)
	require.ErrorIs(t, err, trailhead.ErrBadConfig)
}

func TestRouterHelloWorld(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{{
		Path:    "/",
		Method:  http.MethodGet,
		Handler: func(*req.Request) (resp.Result, error) { return resp.Value("Hello world"), nil },
	}})

	// Act
	w := do(rt, http.MethodGet, "/", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Hello world", w.Body.String())
	require.Equal(t, resp.ContentTypeText, w.Header().Get("Content-Type"))
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouterEchoBody(t *testing.T) {
	// Arrange
	var observed user
	rt := newRouter(t, []router.Route{{
		Path:   "/user/{id}",
		Method: http.MethodPut,
		Body:   router.Body[user](),
		Handler: func(r *req.Request) (resp.Result, error) {
			u, ok := req.BodyAs[user](r)
			if !ok {
				return resp.Empty(), errors.New("no body")
			}

			observed = u
			u.Id = r.Params.Get("id")
			return resp.Value(u), nil
		},
	}})

	// Act
	w := do(rt, http.MethodPut, "/user/50", `{"Email":"foo@bar.com","Password":"password"}`)

	// Assert
	require.Equal(t, user{Email: "foo@bar.com", Password: "password"}, observed)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, resp.ContentTypeJSON, w.Header().Get("Content-Type"))
	require.Equal(t, `{"Id":"50","Email":"foo@bar.com","Password":"password"}`, w.Body.String())

	// Act
	w = do(rt, http.MethodPut, "/user/50", `{"Email":`)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"Error":"DeserializationError"`)
}

func TestRouterNullResult(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{{
		Path:   "/types/{type}",
		Method: http.MethodGet,
		Handler: func(r *req.Request) (resp.Result, error) {
			switch r.Params.Get("type") {
			case "null":
				return resp.Value(nil), nil
			case "int":
				return resp.Value(42), nil
			case "pair":
				return resp.WithStatus(map[string]bool{"ok": true}, http.StatusCreated), nil
			default:
				return resp.Empty(), nil
			}
		},
	}})

	// Act
	w := do(rt, http.MethodGet, "/types/null", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())

	// Act
	w = do(rt, http.MethodGet, "/types/int", "")

	// Assert
	require.Equal(t, "42", w.Body.String())
	require.Equal(t, resp.ContentTypeText, w.Header().Get("Content-Type"))

	// Act
	w = do(rt, http.MethodGet, "/types/pair", "")

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, `{"ok":true}`, w.Body.String())
}

func TestRouterUnmatched(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{
		{Path: "/", Method: http.MethodGet, Handler: ok},
		{Path: "/user/{id}", Method: http.MethodGet, Handler: ok},
	})

	for _, tc := range []struct {
		name   string
		method string
		target string
	}{
		{"unknown-path", http.MethodGet, "/nope"},
		{"wrong-method", http.MethodPost, "/"},
		{"wrong-method-with-params", http.MethodDelete, "/user/1"},
		{"too-deep", http.MethodGet, "/user/1/more"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			w := do(rt, tc.method, tc.target, "")

			// Assert
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, `{"Error":"BadRequest"}`, w.Body.String())
		})
	}
}

func TestRouterUnmatchedProperty(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{{Path: "/known", Method: http.MethodGet, Handler: ok}})

	rapid.Check(t, func(t *rapid.T) {
		seg := rapid.StringMatching(`[a-z0-9]{1,12}`).Filter(func(s string) bool { return s != "known" }).Draw(t, "seg")

		// Act
		w := do(rt, http.MethodGet, "/"+seg, "")

		// Assert
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, `{"Error":"BadRequest"}`, w.Body.String())
	})
}

func TestRouterDomainError(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{{
		Path:   "/missing",
		Method: http.MethodGet,
		Handler: func(*req.Request) (resp.Result, error) {
			return resp.Empty(), trailhead.NewDomainError(trailhead.NotFound, http.StatusNotFound, "")
		},
	}})

	// Act
	w := do(rt, http.MethodGet, "/missing", "")

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, `{"Error":"NotFound"}`, w.Body.String())
}

func TestRouterHandlerFailures(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{
		{
			Path:    "/error",
			Method:  http.MethodGet,
			Handler: func(*req.Request) (resp.Result, error) { return resp.Value("ignored"), errors.New("boom") },
		},
		{
			Path:    "/panic",
			Method:  http.MethodGet,
			Handler: func(*req.Request) (resp.Result, error) { panic("boom") },
		},
	})

	for _, target := range []string{"/error", "/panic"} {
		t.Run(target, func(t *testing.T) {
			// Act
			var w *httptest.ResponseRecorder
			require.NotPanics(t, func() { w = do(rt, http.MethodGet, target, "") })

			// Assert
			require.Equal(t, http.StatusInternalServerError, w.Code)
			require.Equal(t, `{"Error":"InternalError"}`, w.Body.String())
		})
	}
}

func TestRouterAuthBoundary(t *testing.T) {
	// Arrange
	var calls int
	handler := func(r *req.Request) (resp.Result, error) {
		calls++
		return resp.Value("secret"), nil
	}

	routes := func() []router.Route {
		return []router.Route{{Path: "/secret", Method: http.MethodGet, Handler: handler, Authed: true}}
	}

	// Act
	w := do(newRouter(t, routes()), http.MethodGet, "/secret", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "secret", w.Body.String())
	require.Equal(t, 1, calls)

	// Arrange
	deny := auth.AuthenticatorFunc(func(*http.Request) (*auth.Result, error) {
		return &auth.Result{Authentication: auth.AuthenticationSucceeded, Authorization: auth.DeniedExplicit}, nil
	})

	// Act
	w = do(newRouter(t, routes(), router.WithAuthenticator(deny)), http.MethodGet, "/secret", "")

	// Assert
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"Error":"NotAuthorized"}`, w.Body.String())
	require.Equal(t, 1, calls)

	// Arrange
	var subject string
	permit := auth.AuthenticatorFunc(func(*http.Request) (*auth.Result, error) {
		return &auth.Result{Authentication: auth.AuthenticationSucceeded, Authorization: auth.Permitted, Subject: "42"}, nil
	})
	rt := newRouter(t, []router.Route{
		{
			Path:   "/me",
			Method: http.MethodGet,
			Authed: true,
			Handler: func(r *req.Request) (resp.Result, error) {
				subject = r.Auth.Subject
				return resp.Empty(), nil
			},
		},
		{Path: "/open", Method: http.MethodGet, Handler: ok},
	}, router.WithAuthenticator(deny), router.WithAuthenticator(permit))

	// Act
	w = do(rt, http.MethodGet, "/me", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "42", subject)

	// Act
	w = do(newRouter(t, []router.Route{{Path: "/open", Method: http.MethodGet, Handler: ok}}, router.WithAuthenticator(deny)), http.MethodGet, "/open", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterPathParamsProperty(t *testing.T) {
	// Arrange
	var observed req.Params
	rt := newRouter(t, []router.Route{{
		Path:   "/user/{id}/item/{item}",
		Method: http.MethodGet,
		Handler: func(r *req.Request) (resp.Result, error) {
			observed = r.Params
			return resp.Empty(), nil
		},
	}})

	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[A-Za-z0-9_~-]{1,16}`).Draw(t, "id")
		item := rapid.StringMatching(`[A-Za-z0-9_~-]{1,16}`).Draw(t, "item")

		// Act
		w := do(rt, http.MethodGet, fmt.Sprintf("/user/%s/item/%s", id, item), "")

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, req.Params{{Key: "id", Value: id}, {Key: "item", Value: item}}, observed)
	})
}

func TestRouterFirstRegisteredWins(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{
		{Path: "/user/me", Method: http.MethodGet, Handler: func(*req.Request) (resp.Result, error) { return resp.Value("me"), nil }},
		{Path: "/user/{id}", Method: http.MethodGet, Handler: func(*req.Request) (resp.Result, error) { return resp.Value("id"), nil }},
	})

	// Act + Assert
	require.Equal(t, "me", do(rt, http.MethodGet, "/user/me", "").Body.String())
	require.Equal(t, "id", do(rt, http.MethodGet, "/user/7", "").Body.String())
}

func TestRouterPreflight(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{{Path: "/user/{id}", Method: http.MethodPut, Handler: ok}})
	r := httptest.NewRequest(http.MethodOptions, "/user/1", nil)
	r.Header.Set("Access-Control-Request-Headers", "X-Custom")
	w := httptest.NewRecorder()

	// Act
	rt.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "X-Custom", w.Header().Get("Access-Control-Allow-Headers"))

	// Arrange
	custom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	rt = newRouter(t, []router.Route{{Path: "/", Method: http.MethodGet, Handler: ok}}, router.WithPreflight(custom))

	// Act
	w = do(rt, http.MethodOptions, "/anything", "")

	// Assert
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouterStatic(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o600))

	b := router.NewBuilder()
	require.Nil(t, b.Static("/assets", http.Dir(dir)))
	rt, err := router.New(b.Seal(), router.WithLogger(logger.New(logger.WithOutput(new(bytes.Buffer)))))
	require.Nil(t, err)

	// Act
	w := do(rt, http.MethodGet, "/assets/app.css", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "body{}", w.Body.String())
	require.Equal(t, "max-age=2592000", w.Header().Get("Cache-Control"))

	// Act
	w = do(rt, http.MethodGet, "/assets/missing.css", "")

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterMiddlewareOrder(t *testing.T) {
	// Arrange
	var order []string
	var route string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				if name == "every" {
					route, _ = r.Context().Value(trailhead.RouteKey).(string)
				}
				h.ServeHTTP(w, r)
			})
		}
	}

	permit := auth.AuthenticatorFunc(func(*http.Request) (*auth.Result, error) {
		order = append(order, "auth")
		return &auth.Result{Authentication: auth.AuthenticationSucceeded, Authorization: auth.Permitted}, nil
	})

	rt := newRouter(t, []router.Route{{
		Path:        "/user/{id}",
		Method:      http.MethodGet,
		Authed:      true,
		Middlewares: []middleware.Adapter{mark("route")},
		Handler: func(*req.Request) (resp.Result, error) {
			order = append(order, "handler")
			return resp.Empty(), nil
		},
	}},
		router.WithAuthenticator(permit),
		router.WithPreRouting(mark("pre")),
		router.WithEveryRequest(mark("every")),
	)

	// Act
	do(rt, http.MethodGet, "/user/1", "")

	// Assert
	require.Equal(t, []string{"pre", "every", "auth", "route", "handler"}, order)
	require.Equal(t, "/user/{id}", route)
}

func TestRouterLogsRequests(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	builder := router.NewBuilder()
	require.Nil(t, builder.Handle(router.Route{Path: "/", Method: http.MethodGet, Handler: ok}))
	rt, err := router.New(builder.Seal(), router.WithLogger(logger.New(logger.WithOutput(b))))
	require.Nil(t, err)

	// Act
	do(rt, http.MethodGet, "/?password=hunter2", "")
	do(rt, http.MethodGet, "/nope", "")

	// Assert
	require.Contains(t, b.String(), "'GET /?password="+trailhead.LogMaskVal+" 200 ")
	require.Contains(t, b.String(), "'GET /nope 400 ")
	require.NotContains(t, b.String(), "hunter2")
}

func TestRouterCanceledRequest(t *testing.T) {
	// Arrange
	rt := newRouter(t, []router.Route{{
		Path:   "/file",
		Method: http.MethodGet,
		Handler: func(*req.Request) (resp.Result, error) {
			return resp.Value(strings.NewReader("contents")), nil
		},
	}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodGet, "/file", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	// Act
	rt.ServeHTTP(w, r)

	// Assert
	require.Empty(t, w.Body.String())
}
