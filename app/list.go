package app

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/internal/ui"
	"github.com/ayoisaiah/studyfocus/report"
)

const (
	noSessionsMsg = "No sessions found for the specified time range"
	periodDefault = timeutil.Period7Days
	dateFormat    = "Jan 02, 2006 03:04 PM"
)

// sessionGroup is one logical save: the rows that share a group id.
type sessionGroup struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Task     *string   `json:"task"`
	TaskID   *string   `json:"task_id"`
	GroupID  string    `json:"group_id"`
	Mode     string    `json:"mode"`
	Duration int       `json:"duration"`
	Rows     int       `json:"rows"`
}

type dailyTotal struct {
	Day      string `json:"day"`
	Duration int    `json:"duration"`
}

// resolveRange returns the [start, end) window selected by --since or, if
// that is empty, by --period.
func resolveRange(since, period string, now time.Time) (start, end time.Time, err error) {
	end = timeutil.NextMidnight(now)

	if since != "" {
		start, err = timeutil.FromStr(since, now)
		if err != nil {
			return time.Time{}, time.Time{}, errParseTime.Fmt(since).Wrap(err)
		}

		return start, end, nil
	}

	p := timeutil.Period(firstNonEmptyString(period, string(periodDefault)))

	start, periodEnd, ok := timeutil.PeriodBounds(p, now)
	if !ok {
		return time.Time{}, time.Time{}, errUnknownPeriod.Fmt(period)
	}

	if p == timeutil.PeriodYesterday {
		end = periodEnd
	}

	return start, end, nil
}

// groupSessions merges rows that belong to the same save, keeping the order
// in which each group first appears.
func groupSessions(rows []models.SessionRecord) []sessionGroup {
	var groups []sessionGroup

	index := make(map[string]int)

	for _, r := range rows {
		i, ok := index[r.GroupID]
		if !ok || r.GroupID == "" {
			index[r.GroupID] = len(groups)
			groups = append(groups, sessionGroup{
				GroupID:  r.GroupID,
				Mode:     string(r.Mode),
				Task:     r.TaskLabel,
				TaskID:   r.TaskID,
				Start:    r.CreatedAt.Add(-timeutil.Seconds(r.Duration)),
				End:      r.CreatedAt,
				Rows:     1,
				Duration: r.Duration,
			})

			continue
		}

		g := &groups[i]
		g.Duration += r.Duration
		g.Rows++

		if end := rowEnd(r); end.After(g.End) {
			g.End = end
		}
	}

	return groups
}

// rowEnd is the instant a row's time ended. Rows clipped at midnight are
// dated a millisecond earlier so that they stay on their own day.
func rowEnd(r models.SessionRecord) time.Time {
	next := r.CreatedAt.Add(time.Millisecond)
	if next.Equal(timeutil.StartOfDay(next)) {
		return next
	}

	return r.CreatedAt
}

// dailyTotals sums the rows per calendar day. Rows never span midnight, so
// each row counts towards exactly one day.
func dailyTotals(rows []models.SessionRecord) []dailyTotal {
	var totals []dailyTotal

	for _, r := range rows {
		day := timeutil.DayFormat(r.CreatedAt)

		if n := len(totals); n > 0 && totals[n-1].Day == day {
			totals[n-1].Duration += r.Duration
			continue
		}

		totals = append(totals, dailyTotal{Day: day, Duration: r.Duration})
	}

	return totals
}

// formatDuration renders secs as "1h 05m" or "25m 10s".
func formatDuration(secs int) string {
	hrs, mins := timeutil.MinsToHoursAndMins(secs / 60)
	if hrs > 0 {
		return fmt.Sprintf("%dh %02dm", hrs, mins)
	}

	return fmt.Sprintf("%dm %02ds", mins, secs%60)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

func printSessionsJSON(w io.Writer, rows []models.SessionRecord) error {
	return printJSON(w, struct {
		Sessions    []sessionGroup `json:"sessions"`
		DailyTotals []dailyTotal   `json:"daily_totals"`
	}{
		Sessions:    groupSessions(rows),
		DailyTotals: dailyTotals(rows),
	})
}

// listSessions prints a table of logical sessions followed by the time
// studied on each day.
func listSessions(w io.Writer, rows []models.SessionRecord) error {
	if len(rows) == 0 {
		report.Info(noSessionsMsg)
		return nil
	}

	groups := groupSessions(rows)

	table := [][]string{
		{"#", "START", "END", "DURATION", "MODE", "TASK"},
	}

	for i, g := range groups {
		task := ""
		if g.Task != nil {
			task = *g.Task
		}

		table = append(table, []string{
			fmt.Sprintf("%d", i+1),
			g.Start.Format(dateFormat),
			g.End.Format(dateFormat),
			formatDuration(g.Duration),
			ui.Mode(models.Mode(g.Mode)),
			task,
		})
	}

	err := ui.PrintTable(w, table)
	if err != nil {
		return err
	}

	totals := [][]string{{"DAY", "TOTAL"}}

	var sum int

	for _, d := range dailyTotals(rows) {
		sum += d.Duration
		totals = append(totals, []string{d.Day, ui.Cyan(formatDuration(d.Duration))})
	}

	totals = append(totals, []string{ui.Highlight("ALL"), ui.Highlight(formatDuration(sum))})

	return ui.PrintTable(w, totals)
}

// printPresence prints the last published status of a user.
func printPresence(w io.Writer, u *models.StatusUpdate, now time.Time) error {
	task := "-"
	if u.CurrentTask != nil {
		task = *u.CurrentTask
	}

	started := "-"
	if u.StudyStartTime != nil {
		started = u.StudyStartTime.Format(dateFormat)
	}

	stopwatch := "-"
	if u.TotalStopwatchTime != nil {
		stopwatch = formatDuration(*u.TotalStopwatchTime)
	}

	return ui.PrintTable(w, [][]string{
		{"STATUS", "TASK", "STUDYING SINCE", "STOPWATCH", "LAST SEEN"},
		{
			ui.Presence(u.Status),
			task,
			started,
			stopwatch,
			formatDuration(int(now.Sub(u.LastActiveAt).Seconds())) + " ago",
		},
	})
}
