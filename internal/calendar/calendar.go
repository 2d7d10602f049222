// Package calendar lays out a month of meetings as a Sunday-first grid.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwulff/minutes/internal/assistant"
)

const (
	// MaxEventsPerDay is how many events a day cell lists before "+N more".
	MaxEventsPerDay = 2

	// DefaultEmoji marks events that don't bring their own.
	DefaultEmoji = "📌"
)

// Weekdays are the column headings, Sunday first.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Cursor is the (year, month) being shown.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorAt builds a cursor from a zero-based month index. Out-of-range
// months roll over into neighbouring years.
func CursorAt(year, month int) Cursor {
	t := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// CursorFor returns the cursor containing t.
func CursorFor(t time.Time) Cursor {
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// MonthIndex is the zero-based month.
func (c Cursor) MonthIndex() int { return int(c.Month) - 1 }

func (c Cursor) first() time.Time {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
}

// PrevMonth moves back one month, rolling January over to December.
func (c Cursor) PrevMonth() Cursor { return CursorFor(c.first().AddDate(0, -1, 0)) }

// NextMonth moves forward one month, rolling December over to January.
func (c Cursor) NextMonth() Cursor { return CursorFor(c.first().AddDate(0, 1, 0)) }

// PrevYear moves back one year.
func (c Cursor) PrevYear() Cursor { return Cursor{Year: c.Year - 1, Month: c.Month} }

// NextYear moves forward one year.
func (c Cursor) NextYear() Cursor { return Cursor{Year: c.Year + 1, Month: c.Month} }

// DaysIn is the number of days in the month.
func (c Cursor) DaysIn() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday is the weekday of the 1st, Sunday = 0.
func (c Cursor) FirstWeekday() int { return int(c.first().Weekday()) }

// Date formats day d of the month as YYYY-MM-DD.
func (c Cursor) Date(d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, int(c.Month), d)
}

// String renders "July 2024".
func (c Cursor) String() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}

// Day is one day cell.
type Day struct {
	Number int
	Date   string
	Events []assistant.CalendarEvent
}

// Visible returns the events shown in the cell, in list order.
func (d Day) Visible() []assistant.CalendarEvent {
	if len(d.Events) <= MaxEventsPerDay {
		return d.Events
	}
	return d.Events[:MaxEventsPerDay]
}

// Overflow is the number of events hidden from the cell.
func (d Day) Overflow() int {
	if n := len(d.Events) - MaxEventsPerDay; n > 0 {
		return n
	}
	return 0
}

// OverflowLabel is "+N more", or "" when nothing is hidden.
func (d Day) OverflowLabel() string {
	if n := d.Overflow(); n > 0 {
		return fmt.Sprintf("+%d more", n)
	}
	return ""
}

// Emoji returns the event's emoji or DefaultEmoji.
func Emoji(e assistant.CalendarEvent) string {
	if e.Emoji != "" {
		return e.Emoji
	}
	return DefaultEmoji
}

// Grid is a month laid out for display.
type Grid struct {
	Cursor  Cursor
	Leading int
	Days    []Day
}

// Build groups events into the days of the cursor's month. An event belongs
// to a day when its trimmed date equals the day's YYYY-MM-DD form exactly;
// events with any other date, malformed ones included, are left out.
func Build(events []assistant.CalendarEvent, c Cursor) Grid {
	byDate := make(map[string][]assistant.CalendarEvent)
	for _, e := range events {
		d := strings.TrimSpace(e.Date)
		byDate[d] = append(byDate[d], e)
	}

	n := c.DaysIn()
	g := Grid{Cursor: c, Leading: c.FirstWeekday(), Days: make([]Day, n)}
	for i := range n {
		date := c.Date(i + 1)
		g.Days[i] = Day{Number: i + 1, Date: date, Events: byDate[date]}
	}
	return g
}

// Cells returns the grid row-major: nil for blank cells, padded with
// trailing blanks to whole weeks.
func (g Grid) Cells() []*Day {
	total := g.Leading + len(g.Days)
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}
	cells := make([]*Day, total)
	for i := range g.Days {
		cells[g.Leading+i] = &g.Days[i]
	}
	return cells
}

// Weeks splits Cells into rows of seven.
func (g Grid) Weeks() [][]*Day {
	cells := g.Cells()
	weeks := make([][]*Day, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// EventCount is the number of events placed in the month.
func (g Grid) EventCount() int {
	n := 0
	for _, d := range g.Days {
		n += len(d.Events)
	}
	return n
}
