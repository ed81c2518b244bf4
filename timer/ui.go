package timer

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/studyfocus/internal/config"
	"github.com/ayoisaiah/studyfocus/internal/models"
)

const (
	padding  = 2
	maxWidth = 60
)

// EventMsg carries an engine Event into the bubbletea program.
type EventMsg Event

// actionDoneMsg reports the outcome of an engine call made from a key press.
type actionDoneMsg struct {
	err error
}

// Model is the terminal face of an Engine. It never mutates timer state
// itself; every key press is forwarded to the engine and the screen is
// redrawn from the events the engine sends back.
type Model struct {
	ctx       context.Context
	engine    *Engine
	cfg       *config.Config
	style     styles
	help      help.Model
	progress  progress.Model
	taskInput textinput.Model
	notice    string
	err       error
	state     State
	editing   bool
}

// NewModel returns the terminal face of engine. restored reports whether a
// running face was recovered from the snapshot.
func NewModel(
	ctx context.Context,
	engine *Engine,
	cfg *config.Config,
	restored bool,
) *Model {
	input := textinput.New()
	input.Placeholder = "What are you working on?"
	input.CharLimit = 120

	m := &Model{
		ctx:       ctx,
		engine:    engine,
		cfg:       cfg,
		style:     newStyles(cfg.Display.DarkTheme),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient()),
		taskInput: input,
		state:     engine.State(),
	}

	if restored {
		m.notice = "Resumed your previous session"
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if slog.Default().Enabled(m.ctx, slog.LevelDebug) {
		if _, ok := msg.(EventMsg); !ok {
			slog.Debug(spew.Sdump(msg))
		}
	}

	switch msg := msg.(type) {
	case EventMsg:
		return m.handleEvent(Event(msg))

	case actionDoneMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleTaskInput(msg)
		}

		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-padding*2-4, maxWidth)
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleEvent(ev Event) (tea.Model, tea.Cmd) {
	m.state = ev.State

	switch ev.Kind {
	case EventPhaseCompleted:
		m.err = nil
		m.notice = ev.Finished.Label() + " complete. Up next: " + ev.State.Phase.Label()
	case EventSessionSaved:
		m.err = nil
		m.notice = "Saved " + formatClock(savedSeconds(ev.Result)) + " of study time"
	case EventSaveFailed:
		m.err = ev.Err
	case EventRestored:
		m.notice = "Resumed your previous session"
	case EventTick, EventStateChanged:
	}

	return m, nil
}

func (m *Model) handleTaskInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.enter):
		m.editing = false
		m.taskInput.Blur()

		label := m.taskInput.Value()
		task := models.Task{Label: label}

		if label == m.state.Task.Label {
			task.ID = m.state.Task.ID
		}

		engine := m.engine

		return m, func() tea.Msg {
			engine.SetTask(task)
			return nil
		}

	case key.Matches(msg, defaultKeymap.esc):
		m.editing = false
		m.taskInput.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)

	return m, cmd
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx
	e := m.engine

	switch {
	case key.Matches(msg, defaultKeymap.quit):
		return m, tea.Quit

	case key.Matches(msg, defaultKeymap.switchMode):
		next := models.ModeStopwatch
		if m.state.Mode == models.ModeStopwatch {
			next = models.ModeTimer
		}

		return m, func() tea.Msg {
			e.SwitchMode(next)
			return nil
		}

	case key.Matches(msg, defaultKeymap.task):
		m.editing = true
		m.taskInput.SetValue(m.state.Task.Label)

		return m, m.taskInput.Focus()

	case key.Matches(msg, defaultKeymap.togglePlay):
		m.notice = ""

		if m.state.Mode == models.ModeStopwatch {
			if m.state.StopwatchRunning {
				return m, action(func() error { return e.PauseStopwatch(ctx) })
			}

			return m, action(func() error { return e.StartStopwatch(ctx) })
		}

		if m.state.TimerRunning {
			return m, action(func() error { return e.PauseTimer(ctx) })
		}

		return m, action(func() error { return e.StartTimer(ctx) })

	case key.Matches(msg, defaultKeymap.reset):
		if m.state.Mode == models.ModeStopwatch {
			return m, action(func() error {
				e.ResetStopwatch(ctx)
				return nil
			})
		}

		return m, action(func() error { return e.ResetTimer(ctx) })

	case key.Matches(msg, defaultKeymap.save):
		if m.state.Mode != models.ModeStopwatch {
			return m, nil
		}

		return m, action(func() error {
			_, err := e.SaveStopwatch(ctx)
			return err
		})
	}

	if m.state.Mode == models.ModeTimer {
		for _, b := range []struct {
			binding key.Binding
			phase   models.Phase
		}{
			{defaultKeymap.focus, models.PhaseFocus},
			{defaultKeymap.shortBreak, models.PhaseShortBreak},
			{defaultKeymap.longBreak, models.PhaseLongBreak},
		} {
			if key.Matches(msg, b.binding) {
				p := b.phase
				return m, action(func() error { return e.ChangePhase(ctx, p) })
			}
		}
	}

	return m, nil
}

// action runs fn off the update loop.
func action(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn()}
	}
}
