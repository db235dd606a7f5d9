package common

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, SetupLogger(slog.LevelInfo, "json"))
	_, isJSON := slog.Default().Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	require.NoError(t, SetupLogger(slog.LevelDebug, "console"))
	_, isText := slog.Default().Handler().(*slog.TextHandler)
	assert.True(t, isText)
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	// Unknown formats fall back to the text handler.
	require.NoError(t, SetupLogger(slog.LevelInfo, "bogus"))
	_, isText = slog.Default().Handler().(*slog.TextHandler)
	assert.True(t, isText)
}
