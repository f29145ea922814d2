package middleware_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/logger"
)

func init() { color.NoColor = true }

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

type entry struct {
	level logger.LogLevel
	msg   string
	ctx   *logger.LogContext
}

// spyLogger records every entry logged through it.
type spyLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (l *spyLogger) log(ll logger.LogLevel, msg string, ctx *logger.LogContext) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{ll, msg, ctx})
}

func (l *spyLogger) Debug(msg string, ctx *logger.LogContext) { l.log(logger.LogLevelDebug, msg, ctx) }
func (l *spyLogger) Error(msg string, ctx *logger.LogContext) { l.log(logger.LogLevelError, msg, ctx) }
func (l *spyLogger) Fatal(msg string, ctx *logger.LogContext) { l.log(logger.LogLevelFatal, msg, ctx) }
func (l *spyLogger) Info(msg string, ctx *logger.LogContext)  { l.log(logger.LogLevelInfo, msg, ctx) }
func (l *spyLogger) Warn(msg string, ctx *logger.LogContext)  { l.log(logger.LogLevelWarn, msg, ctx) }
func (l *spyLogger) LogLevel() logger.LogLevel                { return logger.LogLevelDebug }

func newResponder() *resp.Responder {
	return resp.NewResponder(resp.WithLogger(logger.New(logger.WithOutput(new(bytes.Buffer)))))
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	// Act
	middleware.Chain(noopHandler(), mark("first"), nil, mark("second"), middleware.NoopAdapter).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, []string{"first", "second"}, order)
}

func TestNoopAdapter(t *testing.T) {
	// Arrange
	h := noopHandler()

	// Act
	actual := middleware.NoopAdapter(h)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", h), fmt.Sprintf("%p", actual))
}
