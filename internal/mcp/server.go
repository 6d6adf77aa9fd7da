package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
)

// ActionService defines action operations needed by MCP.
type ActionService interface {
	Create(ctx context.Context, tenantID string, req action.CreateRequest) (*action.Action, error)
	Get(ctx context.Context, tenantID, id string) (*action.Action, error)
	List(ctx context.Context, tenantID string, opts action.ListActionsOptions) ([]action.Action, error)
	Update(ctx context.Context, tenantID string, req action.UpdateRequest) (*action.Action, error)
	SetStatus(ctx context.Context, tenantID, id string, status action.Status) (*action.Action, error)
	State(ctx context.Context, tenantID, id string, date time.Time) (*action.ActionState, error)
	Today(ctx context.Context, tenantID string, date time.Time) ([]action.ActionState, error)
	Complete(ctx context.Context, tenantID, id string, at time.Time) (*action.Completion, error)
	Uncomplete(ctx context.Context, tenantID, id string, date time.Time) (string, error)
	Completions(ctx context.Context, tenantID, id string, limit int) ([]action.Completion, error)
}

// SignalService defines signal operations needed by MCP.
type SignalService interface {
	Create(ctx context.Context, tenantID string, req signal.CreateRequest) (*signal.Signal, error)
	List(ctx context.Context, tenantID string) ([]signal.Signal, error)
	RecordMeasurement(ctx context.Context, tenantID string, req signal.MeasureRequest) (*signal.Measurement, error)
	Measurements(ctx context.Context, tenantID, id string, limit int) ([]signal.Measurement, error)
	ShouldMeasure(ctx context.Context, tenantID, id string, date time.Time) (*signal.Status, error)
	DueToday(ctx context.Context, tenantID string, date time.Time) ([]signal.Status, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Actions  ActionService
	Signals  SignalService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	DefaultTenant string
	// Location defines the calendar that date arguments are read in.
	Location *time.Location
	// Now is the source of "today" for omitted dates; defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.DefaultTenant == "" {
		cfg.DefaultTenant = "default"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "cadence",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only, so auth never applies there.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultTenant))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	t := &tools{svc: cfg.Services, loc: cfg.Location, now: cfg.Now}
	t.register(server)

	return server
}
