package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira_task_bot/internal/config"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntP("port", "p", 0, "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().Bool("sync", false, "")
	return cmd
}

func TestApplyFlags(t *testing.T) {
	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "8080", "--sync"}))

	cfg := &config.Config{Port: 3000, LogLevel: "info"}
	require.NoError(t, applyFlags(cmd, cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ProcessSync)
}

func TestApplyFlagsUnset(t *testing.T) {
	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg := &config.Config{Port: 3000, LogLevel: "warn", ProcessSync: true}
	require.NoError(t, applyFlags(cmd, cfg))

	assert.Equal(t, &config.Config{Port: 3000, LogLevel: "warn", ProcessSync: true}, cfg)
}
