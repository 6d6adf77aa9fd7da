package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func newStdioSession(t *testing.T, extraEnv ...string) *sdkmcp.ClientSession {
	t.Helper()

	binaryPath := "./bin/cadence"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/cadence"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Build cmd/server into bin/cadence first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"CADENCE_TRANSPORT=stdio",
		"CADENCE_DB_PATH=:memory:",
		"CADENCE_AUTH_ENABLED=false",
		"CADENCE_REMINDER_ENABLED=false",
		"CADENCE_TIMEZONE=UTC",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})
	return session
}

func TestStdioFunctional_CompleteAndUndo(t *testing.T) {
	s := newStdioSession(t)

	callTool(t, s, "create_action", map[string]any{"id": "floss", "name": "Floss", "frequency_type": "daily"})

	var state struct {
		State     string `json:"state"`
		PeriodKey string `json:"period_key"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, s, "get_action_state", map[string]any{"id": "floss"}), &state))
	require.Equal(t, "due", state.State)

	callTool(t, s, "complete_action", map[string]any{"id": "floss"})
	require.NoError(t, json.Unmarshal(callTool(t, s, "get_action_state", map[string]any{"id": "floss"}), &state))
	require.Equal(t, "completed", state.State)
	require.Equal(t, time.Now().UTC().Format("2006-01-02"), state.PeriodKey)

	callTool(t, s, "undo_completion", map[string]any{"id": "floss"})
	require.NoError(t, json.Unmarshal(callTool(t, s, "get_action_state", map[string]any{"id": "floss"}), &state))
	require.Equal(t, "due", state.State)
}

func TestStdioFunctional_OnceAction(t *testing.T) {
	s := newStdioSession(t)

	callTool(t, s, "create_action", map[string]any{"id": "passport", "name": "Renew passport", "frequency_type": "once"})
	callTool(t, s, "complete_action", map[string]any{"id": "passport"})

	var state struct {
		State     string `json:"state"`
		PeriodKey string `json:"period_key"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, s, "get_action_state", map[string]any{"id": "passport", "date": "2031-01-01"}), &state))
	require.Equal(t, "completed", state.State)
	require.Equal(t, "ONCE", state.PeriodKey)
}

func TestStdioFunctional_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "cadence.log")
	s := newStdioSession(t,
		"CADENCE_LOG_PATH="+logPath,
		"CADENCE_LOG_LEVEL=debug",
	)

	_ = callTool(t, s, "list_actions", nil)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `msg="mcp request"`) &&
			strings.Contains(text, `msg="mcp response"`) &&
			strings.Contains(text, "method=tools/call")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestStdioFunctional_DocResources(t *testing.T) {
	s := newStdioSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := s.ListResources(ctx, nil)
	require.NoError(t, err)

	uris := map[string]*sdkmcp.Resource{}
	for _, r := range list.Resources {
		uris[r.URI] = r
	}
	for _, uri := range []string{
		"cadence://docs/index",
		"cadence://docs/period-keys",
		"cadence://docs/due-states",
		"cadence://docs/signals",
	} {
		r, ok := uris[uri]
		require.True(t, ok, "missing expected doc resource: %s", uri)
		require.Equal(t, "text/markdown", r.MIMEType)
		require.Greater(t, r.Size, int64(0))
	}

	read, err := s.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "cadence://docs/due-states"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Contains(t, read.Contents[0].Text, "not_due")
}
