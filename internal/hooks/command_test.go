package hooks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/azent/internal/config"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell hooks are exercised with sh")
	}
}

func TestCommandHandler_PayloadOnStdin(t *testing.T) {
	requireShell(t)
	out := filepath.Join(t.TempDir(), "payload.json")

	h := CommandHandler(config.HookEntry{Command: "cat > " + out})
	err := h(context.Background(), Payload{Event: EventAgentLiked, Data: map[string]any{"agentId": "a1"}})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var p Payload
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, EventAgentLiked, p.Event)
	assert.Equal(t, "a1", p.Data["agentId"])
}

func TestCommandHandler_EventEnv(t *testing.T) {
	requireShell(t)
	out := filepath.Join(t.TempDir(), "event.txt")

	h := CommandHandler(config.HookEntry{Command: `printf %s "$AZENT_EVENT" > ` + out})
	require.NoError(t, h(context.Background(), Payload{Event: EventBlogPublished}))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, EventBlogPublished, string(raw))
}

func TestCommandHandler_Failure(t *testing.T) {
	requireShell(t)

	h := CommandHandler(config.HookEntry{Command: "echo broken >&2; exit 3"})
	err := h(context.Background(), Payload{Event: EventAgentLiked})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestCommandHandler_Timeout(t *testing.T) {
	requireShell(t)

	h := CommandHandler(config.HookEntry{Command: "sleep 5", Timeout: 50})
	err := h(context.Background(), Payload{Event: EventAgentLiked})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRegisterCommands(t *testing.T) {
	m := testManager()

	n := RegisterCommands(m, config.HooksConfig{
		AgentLiked:     []config.HookEntry{{Command: "true"}, {Command: "  "}},
		NewsletterSent: []config.HookEntry{{Command: "true"}},
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, 1, m.Count(EventAgentLiked))
	assert.Equal(t, 1, m.Count(EventNewsletterSent))
	assert.Equal(t, 0, m.Count(EventAgentsRefreshed))
}
