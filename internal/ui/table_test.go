package ui

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/studyfocus/internal/models"
)

func TestPrintTable(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	var buf bytes.Buffer

	err := PrintTable(&buf, [][]string{
		{"DATE", "DURATION"},
		{"Apr 07, 2025", "25m"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "Apr 07, 2025")
	assert.Contains(t, out, "25m")
}

func TestPresenceWithoutColor(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	assert.Equal(t, "studying", Presence(models.StatusStudying))
	assert.Equal(t, "offline", Presence(models.StatusOffline))
	assert.Equal(t, "stopwatch", Mode(models.ModeStopwatch))
}
