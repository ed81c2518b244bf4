package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/studyfocus/internal/clock"
	"github.com/ayoisaiah/studyfocus/internal/config"
	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/osutil"
	"github.com/ayoisaiah/studyfocus/internal/pathutil"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/internal/ui"
	"github.com/ayoisaiah/studyfocus/recorder"
	"github.com/ayoisaiah/studyfocus/remote"
	"github.com/ayoisaiah/studyfocus/report"
	"github.com/ayoisaiah/studyfocus/status"
	"github.com/ayoisaiah/studyfocus/store"
	"github.com/ayoisaiah/studyfocus/timer"
)

const (
	envNoColor           = "NO_COLOR"
	envStudyfocusNoColor = "STUDYFOCUS_NO_COLOR"

	// offlineTimeout bounds the final presence write on exit.
	offlineTimeout = 5 * time.Second
)

// logCloser is the log file opened by beforeAction.
var logCloser io.Closer

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// loadConfig builds the Config from the config file and the flags of ctx.
// The first-run prompt is only shown when prompt is set.
func loadConfig(ctx *cli.Context, prompt bool) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	var opts []config.Option

	if prompt {
		opts = append(opts, config.WithPromptConfig(path))
	}

	opts = append(opts,
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx),
	)

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	return cfg, nil
}

// openRemote opens the session and presence store.
func openRemote(cfg *config.Config) (*remote.Client, error) {
	return remote.Open(firstNonEmptyString(
		cfg.System.RemoteDB,
		pathutil.SessionsFilePath(),
	))
}

// defaultAction runs the interactive timer until the user quits or the
// process is interrupted.
func defaultAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, true)
	if err != nil {
		return err
	}

	snapshots, err := store.NewClient(pathutil.SnapshotFilePath())
	if err != nil {
		return err
	}

	defer snapshots.Close()

	sessions, err := openRemote(cfg)
	if err != nil {
		return err
	}

	defer sessions.Close()

	hook, err := timer.SessionCmd(cfg.System.SessionCmd)
	if err != nil {
		return err
	}

	c := clock.Real{}
	logger := slog.Default()

	pub := status.New(sessions, c, cfg.Account.UserID, cfg.Status.Heartbeat, logger)
	pub.Start(ctx.Context)

	defer func() {
		closeCtx, cancel := context.WithTimeout(
			context.WithoutCancel(ctx.Context),
			offlineTimeout,
		)
		defer cancel()

		pub.Close(closeCtx)
	}()

	engine := timer.NewEngine(timer.Deps{
		Config:    cfg,
		Clock:     c,
		Store:     snapshots,
		Recorder:  recorder.New(sessions, c, cfg.Account.UserID, recorder.WithLogger(logger)),
		Publisher: pub,
		Cue:       timer.NewNotifier(cfg, logger),
		Hook:      hook,
		Logger:    logger,
	})

	defer engine.Shutdown()

	restored, err := engine.Restore(ctx.Context)
	if err != nil {
		slog.WarnContext(ctx.Context, "snapshot could not be cleared",
			slog.Any("error", err),
		)
	}

	p := tea.NewProgram(
		timer.NewModel(ctx.Context, engine, cfg, restored),
		tea.WithContext(ctx.Context),
	)

	engine.OnEvent(func(ev timer.Event) {
		p.Send(timer.EventMsg(ev))
	})

	_, err = p.Run()

	engine.OnEvent(nil)

	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}

	return err
}

// logAction records a session that was not timed with studyfocus.
func logAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	sessions, err := openRemote(cfg)
	if err != nil {
		return err
	}

	defer sessions.Close()

	c := clock.Real{}
	now := c.Now()

	end, err := resolveEnd(ctx.String("end"), now)
	if err != nil {
		return err
	}

	rec := recorder.New(sessions, c, cfg.Account.UserID)

	res, err := rec.Save(ctx.Context, recorder.Request{
		ForcedEnd: &end,
		Task:      cfg.CLI.Task,
		Mode:      models.ModeTimer,
		Duration:  int(ctx.Duration("duration").Seconds()),
	})
	if err != nil {
		return err
	}

	report.SessionSaved(res)

	return nil
}

// resolveEnd parses the --end expression. An empty expression means now.
func resolveEnd(expr string, now time.Time) (time.Time, error) {
	if expr == "" {
		return now, nil
	}

	end, err := timeutil.FromStr(expr, now)
	if err != nil {
		return time.Time{}, errParseTime.Fmt(expr).Wrap(err)
	}

	if end.After(now) {
		return time.Time{}, errFutureEnd
	}

	return end, nil
}

// sessionsAction prints the sessions recorded within the requested window.
func sessionsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	if cfg.Account.UserID == "" {
		return recorder.ErrUnauthenticated
	}

	start, end, err := resolveRange(ctx.String("since"), ctx.String("period"), time.Now())
	if err != nil {
		return err
	}

	sessions, err := openRemote(cfg)
	if err != nil {
		return err
	}

	defer sessions.Close()

	rows, err := sessions.ListSessions(ctx.Context, cfg.Account.UserID, start, end)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printSessionsJSON(config.Stdout, rows)
	}

	return listSessions(config.Stdout, rows)
}

// statusAction prints the presence last published for the configured user.
func statusAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	if cfg.Account.UserID == "" {
		return recorder.ErrUnauthenticated
	}

	sessions, err := openRemote(cfg)
	if err != nil {
		return err
	}

	defer sessions.Close()

	u, err := sessions.Presence(ctx.Context, cfg.Account.UserID)
	if errors.Is(err, remote.ErrNotFound) {
		report.Info("no status has been published for %s yet", cfg.Account.UserID)
		return nil
	}

	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(config.Stdout, u)
	}

	return printPresence(config.Stdout, u, time.Now())
}

// privacyAction shows or changes whether the current task is shared.
func privacyAction(ctx *cli.Context) error {
	show, hide := ctx.Bool("show-task"), ctx.Bool("hide-task")
	if show && hide {
		return errPrivacyFlags
	}

	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	if cfg.Account.UserID == "" {
		return recorder.ErrUnauthenticated
	}

	sessions, err := openRemote(cfg)
	if err != nil {
		return err
	}

	defer sessions.Close()

	if show || hide {
		err = sessions.SetTaskVisibility(ctx.Context, cfg.Account.UserID, show)
		if err != nil {
			return err
		}
	}

	visible, err := sessions.TaskVisibility(ctx.Context, cfg.Account.UserID)
	if err != nil {
		return err
	}

	if visible {
		report.Info("your current task is visible to other users")
	} else {
		report.Info("your current task is hidden from other users")
	}

	return nil
}

// editConfigAction opens the config file in the user's default text
// editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	cli.AppHelpTemplate = helpText()

	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/studyfocus/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	if _, exists := os.LookupEnv(envStudyfocusNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	err := pathutil.Initialize()
	if err != nil {
		return err
	}

	logCloser, err = setupLogging(pathutil.LogFilePath(), ctx.Bool("debug"))

	return err
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting studyfocus")

	if logCloser != nil {
		return logCloser.Close()
	}

	return nil
}
