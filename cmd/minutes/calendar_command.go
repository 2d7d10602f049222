package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/calendar"
	"github.com/jwulff/minutes/internal/db"
	"github.com/spf13/cobra"
)

func newCalendarCommand(ctx *commandContext) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show one month of meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got %d", month)
			}

			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				events, err := client.CalendarEvents(cmd.Context())
				if err != nil {
					// An unreachable calendar renders as an empty month.
					log := ctx.logger()
					log.Warn().Err(err).Msg("load calendar events")
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: calendar unavailable: %v\n", err)
					events = nil
				}
				grid := calendar.Build(events, calendar.CursorAt(year, month-1))
				fmt.Fprint(cmd.OutOrStdout(), renderMonth(grid, now.Format("2006-01-02")))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current)")
	return cmd
}

// renderMonth draws the grid as a table, one row per week.
func renderMonth(g calendar.Grid, today string) string {
	var rows [][]string
	for _, week := range g.Weeks() {
		row := make([]string, len(week))
		for i, d := range week {
			row[i] = dayCell(d, today)
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  (%d meetings)\n", g.Cursor, g.EventCount())
	b.WriteString(renderTable(calendar.Weekdays[:], rows, nil))
	b.WriteString("\n")
	return b.String()
}

func dayCell(d *calendar.Day, today string) string {
	if d == nil {
		return ""
	}
	num := strconv.Itoa(d.Number)
	if d.Date == today {
		num = "[" + num + "]"
	}
	lines := []string{num}
	for _, e := range d.Visible() {
		lines = append(lines, calendar.Emoji(e)+" "+truncateRunes(e.Title, 14))
	}
	if label := d.OverflowLabel(); label != "" {
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
