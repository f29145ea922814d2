package logger_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/logger"
)

func TestLogContextMarshalText(t *testing.T) {
	// Arrange
	lc := logger.LogContext{}

	// Act
	b, err := lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, []byte("{}"), b)

	// Arrange
	lc = logger.LogContext{Data: map[string]any{"test": "data"}}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, `{"data":{"test":"data"}}`, string(b))

	// Arrange
	lc = logger.LogContext{Error: errors.New("test"), Elapsed: time.Millisecond, Status: http.StatusTeapot}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, `{"elapsed":"1ms","error":"test","status":418}`, string(b))

	// Arrange
	expected := map[string]any{
		"request": map[string]any{
			"method": http.MethodGet,
			"url":    "https://example.com/user/1",
			"id":     "test-id",
			"route":  "/user/{id}",
			"header": map[string]any{
				"Authorization": []any{trailhead.LogMaskVal},
				"Accept":        []any{"application/json"},
			},
		},
	}

	r := httptest.NewRequest(http.MethodGet, "https://example.com/user/1", nil)
	r.Header.Set("Authorization", "Bearer hunter2")
	r.Header.Set("Accept", "application/json")
	ctx := context.WithValue(r.Context(), trailhead.RequestIDKey, "test-id")
	ctx = context.WithValue(ctx, trailhead.RouteKey, "/user/{id}")
	r = r.WithContext(ctx)
	lc = logger.LogContext{Request: r}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	m := make(map[string]any)
	require.Nil(t, json.Unmarshal(b, &m))
	require.Equal(t, expected, m)
	require.Equal(t, "Bearer hunter2", r.Header.Get("Authorization"))
}

func TestLogContextString(t *testing.T) {
	// Arrange
	lc := logger.LogContext{Data: map[string]any{"bad": make(chan int)}}

	// Act + Assert
	require.Equal(t, "", lc.String())

	// Arrange
	lc = logger.LogContext{Status: http.StatusOK}

	// Act + Assert
	require.Equal(t, `{"status":200}`, lc.String())
}
