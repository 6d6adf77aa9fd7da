package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultSessionTimeout closes idle MCP sessions.
const DefaultSessionTimeout = 30 * time.Minute

// Options configures the HTTP router.
type Options struct {
	// Auth wraps the MCP endpoint only; /health and /metrics stay open.
	Auth func(http.Handler) http.Handler
	// Metrics is served on /metrics when non-nil.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewMCPHandler serves server over the streamable HTTP transport.
func NewMCPHandler(server *sdkmcp.Server, sessionTimeout time.Duration) http.Handler {
	if sessionTimeout <= 0 {
		sessionTimeout = DefaultSessionTimeout
	}
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: sessionTimeout},
	)
}

// NewServer creates an HTTP server router with middleware.
func NewServer(mcpHandler http.Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Use(RequestLogger(opts.Logger))

	r.Get("/health", handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
