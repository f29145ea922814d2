package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
)

// A user is what the demo echoes back.
type user struct {
	Id       string `json:",omitempty"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type page struct {
	Page  int `schema:"page" validate:"gte=1"`
	Limit int `schema:"limit" validate:"lte=100"`
}

func unauthedRoutes() []router.Route {
	return []router.Route{
		{Path: "/", Method: http.MethodGet, Handler: hello},
		{Path: "/user/{id}", Method: http.MethodPut, Body: router.Body[user](), Handler: echoUser},
		{Path: "/types/{type}", Method: http.MethodGet, Handler: types},
		{Path: "/users", Method: http.MethodGet, Handler: listUsers},
		{Path: "/signup", Method: http.MethodPost, Handler: signup},
		{Path: "/missing", Method: http.MethodGet, Handler: missing},
		{Path: "/ticks", Method: http.MethodGet, Handler: ticks},
	}
}

func authedRoutes() []router.Route {
	return []router.Route{
		{Path: "/me", Method: http.MethodGet, Handler: me},
	}
}

func hello(*req.Request) (resp.Result, error) { return resp.Value("Hello world"), nil }

func echoUser(r *req.Request) (resp.Result, error) {
	u, ok := req.BodyAs[user](r)
	if !ok {
		return resp.Empty(), trailhead.NewDomainError(trailhead.BadRequest, http.StatusBadRequest, "missing user")
	}

	u.Id = r.Params.Get("id")
	return resp.Value(u), nil
}

func types(r *req.Request) (resp.Result, error) {
	switch r.Params.Get("type") {
	case "null":
		return resp.Value(nil), nil
	case "nobody":
		var u *user
		return resp.Value(u), nil
	case "string":
		return resp.Value("string"), nil
	case "int":
		return resp.Value(42), nil
	case "bool":
		return resp.Value(true), nil
	case "bytes":
		return resp.Value([]byte{0xde, 0xad, 0xbe, 0xef}), nil
	case "created":
		return resp.WithStatus(map[string]string{"type": "created"}, http.StatusCreated), nil
	case "none":
		return resp.NoContent(), nil
	default:
		return resp.Value(map[string]string{"type": r.Params.Get("type")}), nil
	}
}

// signup declares no body type, binding the body itself.
func signup(r *req.Request) (resp.Result, error) {
	var u user
	if err := r.BindBody(&u); err != nil {
		return resp.Empty(), err
	}

	return resp.WithStatus(u, http.StatusCreated), nil
}

func listUsers(r *req.Request) (resp.Result, error) {
	p := page{Page: 1, Limit: 10}
	if err := r.BindQuery(&p); err != nil {
		return resp.Empty(), err
	}

	return resp.Value(map[string]int{"page": p.Page, "limit": p.Limit}), nil
}

func missing(*req.Request) (resp.Result, error) {
	return resp.Empty(), trailhead.NewDomainError(trailhead.NotFound, http.StatusNotFound, "")
}

func me(r *req.Request) (resp.Result, error) {
	subject := "anonymous"
	if r.Auth != nil && r.Auth.Subject != "" {
		subject = r.Auth.Subject
	}

	return resp.Value(map[string]string{"subject": subject}), nil
}

// ticks streams a count of server-sent events, defaulting to 3.
func ticks(r *req.Request) (resp.Result, error) {
	n, err := strconv.Atoi(r.Query.Get("n"))
	if err != nil || n <= 0 {
		n = 3
	}

	stream, err := r.ServerSentEvents()
	if err != nil {
		return resp.Empty(), err
	}

	for i := 1; i <= n; i++ {
		ev := resp.Event{ID: strconv.Itoa(i), Name: "tick", Data: fmt.Sprintf("tick %d", i)}
		if err := stream.Send(r.Context(), ev); err != nil {
			return resp.Empty(), err
		}

		if i < n {
			select {
			case <-r.Context().Done():
				return resp.Empty(), nil
			case <-time.After(10 * time.Millisecond):
			}
		}
	}

	return resp.Empty(), nil
}
