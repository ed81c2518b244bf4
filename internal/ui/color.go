// Package ui renders the non-interactive command output
package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/studyfocus/internal/models"
)

// DarkTheme selects the light variants of every colour.
var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Yellow(a any) string {
	if DarkTheme {
		return pterm.LightYellow(a)
	}

	return pterm.Yellow(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// Mode colours a session mode the way the timer faces do.
func Mode(m models.Mode) string {
	if m == models.ModeStopwatch {
		return Yellow(string(m))
	}

	return Green(string(m))
}

// Presence colours a status value.
func Presence(s models.Status) string {
	switch s {
	case models.StatusStudying:
		return Green(string(s))
	case models.StatusPaused:
		return Yellow(string(s))
	case models.StatusOnline:
		return Cyan(string(s))
	default:
		return string(s)
	}
}
