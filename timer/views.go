package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/studyfocus/internal/apperr"
	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/recorder"
)

type styles struct {
	base       lipgloss.Style
	main       lipgloss.Style
	secondary  lipgloss.Style
	hint       lipgloss.Style
	err        lipgloss.Style
	focus      lipgloss.Style
	shortBreak lipgloss.Style
	longBreak  lipgloss.Style
	stopwatch  lipgloss.Style
}

func newStyles(dark bool) styles {
	text := lipgloss.Color("#1F2937")
	muted := lipgloss.Color("#6B7280")

	if dark {
		text = lipgloss.Color("#F9FAFB")
		muted = lipgloss.Color("#9CA3AF")
	}

	label := func(bg string) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827")).
			Background(lipgloss.Color(bg)).
			Padding(0, 1).
			MarginRight(1)
	}

	return styles{
		base:       lipgloss.NewStyle().Padding(1, padding),
		main:       lipgloss.NewStyle().Bold(true).Foreground(text),
		secondary:  lipgloss.NewStyle().Foreground(text),
		hint:       lipgloss.NewStyle().Foreground(muted),
		err:        lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		focus:      label("#B0DB43"),
		shortBreak: label("#12EAEA"),
		longBreak:  label("#C492B1"),
		stopwatch:  label("#F4A261"),
	}
}

// formatClock renders secs as MM:SS, or H:MM:SS from one hour up.
func formatClock(secs int) string {
	h := secs / 3600
	m, s := timeutil.SecsToMinsAndSecs(float64(secs % 3600))

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%02d:%02d", m, s)
}

func savedSeconds(res recorder.Result) int {
	var total int

	for _, r := range res.Records {
		total += r.Duration
	}

	return total
}

func (m *Model) timeFormat() string {
	if m.cfg.Display.TwentyFourHour {
		return "15:04"
	}

	return "03:04 PM"
}

func (m *Model) phaseLabel() string {
	st := m.state

	switch st.Phase {
	case models.PhaseShortBreak:
		return m.style.shortBreak.Render(st.Phase.Label())
	case models.PhaseLongBreak:
		return m.style.longBreak.Render(st.Phase.Label())
	default:
		return m.style.focus.Render(st.Phase.Label())
	}
}

func (m *Model) timerView() string {
	var s strings.Builder

	st := m.state

	s.WriteString(m.phaseLabel())

	switch {
	case st.TimerRunning:
		s.WriteString(m.style.hint.Render("until " + st.TimerTarget.Format(m.timeFormat())))
	case st.AutoStartPending:
		s.WriteString(m.style.hint.Render("[Starting soon]"))
	case st.Remaining < st.PhaseSeconds:
		s.WriteString(m.style.secondary.Render("[Paused]"))
	default:
		s.WriteString(m.style.hint.Render("[Ready]"))
	}

	if st.Phase == models.PhaseFocus {
		s.WriteString(m.style.hint.Render(fmt.Sprintf(
			" (%d/%d)",
			st.CycleCount+1,
			m.cfg.Timer.LongBreakInterval,
		)))
	}

	var percent float64
	if st.PhaseSeconds > 0 {
		percent = 1 - float64(st.Remaining)/float64(st.PhaseSeconds)
	}

	s.WriteString("\n\n")
	s.WriteString(m.style.main.Render(formatClock(st.Remaining)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(percent))

	return s.String()
}

func (m *Model) stopwatchView() string {
	var s strings.Builder

	st := m.state

	s.WriteString(m.style.stopwatch.Render("Stopwatch"))

	if st.StopwatchRunning {
		s.WriteString(m.style.hint.Render("since " + st.StopwatchStart.Format(m.timeFormat())))
	} else if st.Elapsed > 0 {
		s.WriteString(m.style.secondary.Render("[Paused]"))
	}

	s.WriteString("\n\n")
	s.WriteString(m.style.main.Render(formatClock(st.Elapsed)))

	return s.String()
}

func (m *Model) taskView() string {
	if m.editing {
		return "\n\n" + m.taskInput.View()
	}

	if m.state.Task.Label == "" {
		return ""
	}

	return "\n\n" + m.style.secondary.Render(">>> "+m.state.Task.Label)
}

func (m *Model) statusView() string {
	if m.err != nil {
		return "\n\n" + m.style.err.Render(apperr.Message(m.err))
	}

	if m.notice != "" {
		return "\n\n" + m.style.hint.Render(m.notice)
	}

	return ""
}

func (m *Model) helpView() string {
	if m.editing {
		return "\n\n" + m.help.ShortHelpView([]key.Binding{
			defaultKeymap.enter,
			defaultKeymap.esc,
		})
	}

	if m.state.Mode == models.ModeStopwatch {
		return "\n\n" + m.help.ShortHelpView([]key.Binding{
			defaultKeymap.togglePlay,
			defaultKeymap.save,
			defaultKeymap.reset,
			defaultKeymap.task,
			defaultKeymap.switchMode,
			defaultKeymap.quit,
		})
	}

	return "\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.reset,
		defaultKeymap.focus,
		defaultKeymap.shortBreak,
		defaultKeymap.longBreak,
		defaultKeymap.task,
		defaultKeymap.switchMode,
		defaultKeymap.quit,
	})
}

func (m *Model) View() string {
	var face string

	if m.state.Mode == models.ModeStopwatch {
		face = m.stopwatchView()
	} else {
		face = m.timerView()
	}

	return m.style.base.Render(
		face + m.taskView() + m.statusView() + m.helpView(),
	)
}
