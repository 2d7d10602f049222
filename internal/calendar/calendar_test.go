package calendar

import (
	"testing"
	"time"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(date, title string) assistant.CalendarEvent {
	return assistant.CalendarEvent{Date: date, Title: title}
}

func TestJuly2024Overflow(t *testing.T) {
	events := []assistant.CalendarEvent{
		ev("2024-07-01", "Sync"),
		ev("2024-07-01", "Planning"),
		ev("2024-07-01", "Review"),
	}
	g := Build(events, CursorAt(2024, 6))

	assert.Equal(t, 1, g.Leading, "July 1st 2024 is a Monday")
	require.Len(t, g.Days, 31)

	day := g.Days[0]
	assert.Equal(t, 1, day.Number)
	visible := day.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "Sync", visible[0].Title)
	assert.Equal(t, "Planning", visible[1].Title)
	assert.Equal(t, 1, day.Overflow())
	assert.Equal(t, "+1 more", day.OverflowLabel())
}

func TestNoOverflowAtTwo(t *testing.T) {
	g := Build([]assistant.CalendarEvent{ev("2024-07-02", "A"), ev("2024-07-02", "B")}, CursorAt(2024, 6))
	d := g.Days[1]
	assert.Len(t, d.Visible(), 2)
	assert.Zero(t, d.Overflow())
	assert.Empty(t, d.OverflowLabel())
}

func TestGridShapeForAllMonths(t *testing.T) {
	for year := 1899; year <= 2101; year++ {
		for month := 0; month < 12; month++ {
			c := CursorAt(year, month)
			g := Build(nil, c)

			first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
			wantDays := first.AddDate(0, 1, -1).Day()

			if len(g.Days) != wantDays {
				t.Fatalf("%s: days = %d, want %d", c, len(g.Days), wantDays)
			}
			if g.Leading != int(first.Weekday()) {
				t.Fatalf("%s: leading = %d, want %d", c, g.Leading, first.Weekday())
			}
			cells := g.Cells()
			if len(cells)%7 != 0 {
				t.Fatalf("%s: %d cells is not whole weeks", c, len(cells))
			}
			if len(cells)-g.Leading-len(g.Days) >= 7 {
				t.Fatalf("%s: a full week of trailing blanks", c)
			}
			for i := 0; i < g.Leading; i++ {
				if cells[i] != nil {
					t.Fatalf("%s: leading cell %d not blank", c, i)
				}
			}
			if cells[g.Leading].Number != 1 {
				t.Fatalf("%s: first day cell = %d", c, cells[g.Leading].Number)
			}
		}
	}
}

func TestLeapYears(t *testing.T) {
	cases := map[int]int{2024: 29, 2023: 28, 2000: 29, 1900: 28}
	for year, want := range cases {
		assert.Equal(t, want, CursorAt(year, 1).DaysIn(), "February %d", year)
	}
}

func TestEventsMatchExactDate(t *testing.T) {
	events := []assistant.CalendarEvent{
		ev("2024-07-04", "Independence"),
		ev(" 2024-07-04 ", "Padded"),
		ev("2024-7-4", "Unpadded"),
		ev("07/04/2024", "US format"),
		ev("2024-07-04T10:00", "With time"),
		ev("", "Empty"),
		ev("2024-08-04", "Next month"),
	}
	g := Build(events, CursorAt(2024, 6))

	day := g.Days[3]
	require.Len(t, day.Events, 2)
	assert.Equal(t, "Independence", day.Events[0].Title)
	assert.Equal(t, "Padded", day.Events[1].Title)
	assert.Equal(t, 2, g.EventCount(), "malformed and other-month events must not land anywhere")
}

func TestEachEventInAtMostOneCell(t *testing.T) {
	var events []assistant.CalendarEvent
	for d := 1; d <= 31; d++ {
		for k := 0; k < d%4; k++ {
			events = append(events, ev(CursorAt(2024, 0).Date(d), "e"))
		}
	}
	g := Build(events, CursorAt(2024, 0))
	assert.Equal(t, len(events), g.EventCount())
	for _, d := range g.Days {
		assert.Len(t, d.Events, d.Number%4)
		want := 0
		if d.Number%4 > MaxEventsPerDay {
			want = d.Number%4 - MaxEventsPerDay
		}
		assert.Equal(t, want, d.Overflow())
	}
}

func TestCursorNavigation(t *testing.T) {
	c := CursorAt(2024, 0)
	assert.Equal(t, Cursor{2023, time.December}, c.PrevMonth())
	assert.Equal(t, Cursor{2024, time.February}, c.NextMonth())

	dec := CursorAt(2024, 11)
	assert.Equal(t, Cursor{2025, time.January}, dec.NextMonth())
	assert.Equal(t, Cursor{2023, time.December}, dec.PrevYear())
	assert.Equal(t, Cursor{2025, time.December}, dec.NextYear())

	assert.Equal(t, Cursor{2025, time.January}, CursorAt(2024, 12))
	assert.Equal(t, Cursor{2023, time.December}, CursorAt(2024, -1))
	assert.Equal(t, 11, dec.MonthIndex())
}

func TestWeeksAndEmoji(t *testing.T) {
	g := Build(nil, CursorAt(2024, 6))
	weeks := g.Weeks()
	assert.Len(t, weeks, 5)
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}

	assert.Equal(t, DefaultEmoji, Emoji(ev("2024-07-01", "x")))
	assert.Equal(t, "🔄", Emoji(assistant.CalendarEvent{Emoji: "🔄"}))
	assert.Equal(t, "July 2024", CursorAt(2024, 6).String())
}
