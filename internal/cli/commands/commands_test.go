package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validata-io/validata/internal/dialogue"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "2026-08-01", "abc1234")
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Validata v1.2.3")
	assert.Contains(t, out, "2026-08-01")
	assert.Contains(t, out, "abc1234")
}

func TestConfigFromCommandFallback(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cfg := configFromCommand(cmd)
	require.NotNil(t, cfg)
	assert.Equal(t, "auto", cfg.Output)
	assert.Equal(t, "info", cfg.Level)
}

func TestHandleChatCommandQuit(t *testing.T) {
	var buf bytes.Buffer
	session := dialogue.NewSession()

	assert.True(t, handleChatCommand(&buf, session, ".quit"))
	assert.True(t, handleChatCommand(&buf, session, ".exit"))
	assert.False(t, handleChatCommand(&buf, session, ".help"))
	assert.Contains(t, buf.String(), "profile")
}

func TestHandleChatCommandFormat(t *testing.T) {
	var buf bytes.Buffer
	session := dialogue.NewSession()

	assert.False(t, handleChatCommand(&buf, session, ".format json"))
	assert.Contains(t, buf.String(), "output format set to json")

	// The new format shows up on the next executed step.
	session.Input("orders.csv")
	session.Input("profile")
	step := session.Input("")
	assert.Equal(t, dialogue.ActionRunProfile, step.Action)
	assert.Equal(t, "json", step.Options.Format)
}

func TestHandleChatCommandFormatRejectsUnknown(t *testing.T) {
	var buf bytes.Buffer
	session := dialogue.NewSession()

	assert.False(t, handleChatCommand(&buf, session, ".format csv"))
	assert.Contains(t, buf.String(), "unknown format csv")

	assert.False(t, handleChatCommand(&buf, session, ".format"))
	assert.Contains(t, buf.String(), "usage: .format")
}

func TestHandleChatCommandReset(t *testing.T) {
	var buf bytes.Buffer
	session := dialogue.NewSession()

	session.Input("orders.csv")
	require.Equal(t, dialogue.StateAwaitTask, session.State())

	assert.False(t, handleChatCommand(&buf, session, ".reset"))
	assert.Equal(t, dialogue.StateAwaitFile, session.State())
	assert.True(t, strings.Contains(buf.String(), "Starting over"))
}
