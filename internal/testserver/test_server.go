package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
	"github.com/rpggio/cadence/internal/mcp"
	"github.com/rpggio/cadence/internal/sqlite"
	"github.com/rpggio/cadence/internal/transport"
)

// TestServer is a full HTTP stack over an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Keys     *sqlite.APIKeyRepository
	Token    string
	TenantID string

	Actions    *action.Service
	Signals    *signal.Service
	Activities *activity.Service
}

type options struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a TestServer.
type Option func(*options)

// WithClock pins the services' notion of now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the calendar zone; the default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func New(t *testing.T, token, tenantID string, opts ...Option) *TestServer {
	t.Helper()

	o := options{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activityRepo := sqlite.NewActivityRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	actionSvc := action.NewService(
		sqlite.NewActionRepository(db),
		sqlite.NewCompletionRepository(db),
		activityRepo,
		nil,
		action.WithClock(o.now),
		action.WithLocation(o.loc),
	)
	signalSvc := signal.NewService(sqlite.NewSignalRepository(db), activityRepo, nil,
		signal.WithClock(o.now),
		signal.WithLocation(o.loc),
	)
	activitySvc := activity.NewService(activityRepo, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Actions:  actionSvc,
			Signals:  signalSvc,
			Activity: activitySvc,
		},
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
		Location:      o.loc,
		Now:           o.now,
	})

	router := transport.NewServer(transport.NewMCPHandler(mcpServer, 0), transport.Options{
		Auth:    transport.AuthMiddleware(keys),
		Metrics: promhttp.Handler(),
	})
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:     server,
		DB:         db,
		Keys:       keys,
		Token:      token,
		TenantID:   tenantID,
		Actions:    actionSvc,
		Signals:    signalSvc,
		Activities: activitySvc,
	}

	require.NoError(t, ts.AddAPIKey(token, tenantID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, tenantID string) error {
	return ts.Keys.AddKey(context.Background(), tenantID, token, "test key")
}

// Connect opens an MCP client session authenticated with token.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: &bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}
