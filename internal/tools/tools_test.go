//go:build integration

package tools_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/respond"
	"github.com/mflister/lexicat/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestToolsOverTransport(t *testing.T) {
	logger := testLogger()

	impl := &mcp.Implementation{
		Name:    "test-lexicat",
		Version: "0.0.1-test",
	}
	server := mcp.NewServer(impl, nil)

	// Register tools against the fixture catalog
	demo, err := catalog.NewDemo()
	require.NoError(t, err, "demo catalog should load")
	deps := &tools.Dependencies{
		Catalog:  demo,
		Composer: respond.NewComposer(""),
		Logger:   logger,
	}
	tools.RegisterAll(server, deps)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Run server in background
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx, serverTransport)
	}()

	// Give server time to start
	time.Sleep(50 * time.Millisecond)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")
	defer session.Close()

	t.Run("tools/list returns the glossary tool set", func(t *testing.T) {
		result, err := session.ListTools(ctx, nil)
		require.NoError(t, err)
		require.Len(t, result.Tools, 5) // ping + define_term + find_assets + list_terms + search_terms

		toolNames := make([]string, len(result.Tools))
		for i, tool := range result.Tools {
			toolNames[i] = tool.Name
		}
		assert.Contains(t, toolNames, "ping")
		assert.Contains(t, toolNames, "define_term")
		assert.Contains(t, toolNames, "find_assets")
		assert.Contains(t, toolNames, "list_terms")
		assert.Contains(t, toolNames, "search_terms")
	})

	t.Run("ping returns pong", func(t *testing.T) {
		params := &mcp.CallToolParams{
			Name:      "ping",
			Arguments: map[string]any{},
		}
		result, err := session.CallTool(ctx, params)
		require.NoError(t, err)
		require.Len(t, result.Content, 1)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok, "content should be TextContent")
		assert.Equal(t, "pong", textContent.Text)
		assert.False(t, result.IsError)
	})

	t.Run("define_term returns the term card", func(t *testing.T) {
		params := &mcp.CallToolParams{
			Name:      "define_term",
			Arguments: map[string]any{"term": "CAC"},
		}
		result, err := session.CallTool(ctx, params)
		require.NoError(t, err)
		require.Len(t, result.Content, 1)
		assert.False(t, result.IsError)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(textContent.Text, "## 📋 **Customer Acquisition Cost (CAC)**"))
	})

	t.Run("define_term rejects empty term", func(t *testing.T) {
		params := &mcp.CallToolParams{
			Name:      "define_term",
			Arguments: map[string]any{"term": ""},
		}
		result, err := session.CallTool(ctx, params)
		require.NoError(t, err)
		assert.True(t, result.IsError, "empty term should return a tool error")

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, textContent.Text, "term cannot be empty")
	})

	t.Run("find_assets returns JSON", func(t *testing.T) {
		params := &mcp.CallToolParams{
			Name:      "find_assets",
			Arguments: map[string]any{"term": "Customer Acquisition Cost (CAC)"},
		}
		result, err := session.CallTool(ctx, params)
		require.NoError(t, err)
		assert.False(t, result.IsError)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, textContent.Text, `"count": 3`)
		assert.Contains(t, textContent.Text, "Customer Acquisition Cost Dashboard")
	})

	// Cleanup
	cancel()

	select {
	case err := <-serverErr:
		if err != nil {
			t.Logf("server stopped with: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server did not stop within timeout")
	}
}
