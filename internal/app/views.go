package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/calendar"
	"github.com/jwulff/minutes/internal/summary"
	"github.com/jwulff/minutes/internal/transcribe"
	"github.com/jwulff/minutes/internal/ui"
	"github.com/jwulff/minutes/internal/visuals"
)

func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + tabs(1) + divider(1) + divider(1) + error(1) + footer(1) + padding
	reserved := 8
	return max(5, m.height-reserved)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderTabs())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderBody())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("MINUTES")

	var server string
	if m.serverURL != "" {
		server = ui.HeaderStyle.Render(" " + m.serverURL)
	}

	var busy string
	if m.busy() {
		busy = "  " + m.spinner.View()
	}
	return title + server + busy
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range viewNames {
		if View(i) == m.view {
			tabs = append(tabs, ui.TabActiveStyle.Render(name))
		} else {
			tabs = append(tabs, ui.TabStyle.Render(name))
		}
	}
	return strings.Join(tabs, "")
}

func (m Model) renderBody() string {
	height := m.bodyHeight()

	var lines []string
	switch m.view {
	case ViewUpload:
		lines = m.renderUpload()
	case ViewSummary:
		lines = m.renderSummary()
	case ViewSearch:
		lines = m.renderSearch()
	case ViewVisuals:
		lines = m.renderVisuals()
	case ViewCalendar:
		lines = m.renderCalendar()
	case ViewSettings:
		lines = m.renderSettings()
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderUpload() []string {
	var lines []string
	lines = append(lines, ui.PanelTitleActiveStyle.Render("UPLOAD"))
	lines = append(lines, "  "+m.pathInput.View())

	file := ui.DimStyle.Render("no file selected")
	if f, ok := m.orch.File(); ok {
		file = f.Name
	}
	lines = append(lines, fmt.Sprintf("  Selected: %s   Language: %s", file, m.lang.DisplayName()))
	lines = append(lines, "")

	switch m.orch.State() {
	case transcribe.Idle, transcribe.FileSelected:
		lines = append(lines, ui.DimStyle.Render("  Press Ctrl+T to transcribe"))
		return lines

	case transcribe.Submitting, transcribe.AwaitingResult:
		lines = append(lines, "  "+m.bar.ViewAs(m.orch.Progress()/100)+" "+ui.EstimateStyle.Render("estimated"))
		lines = append(lines, ui.StatusStyle.Render("  Transcribing..."))
		return lines

	case transcribe.Failed:
		lines = append(lines, "  "+m.bar.ViewAs(1))
		lines = append(lines, "  "+ui.ErrorTextStyle.Render(m.orch.Reason()))
		return lines
	}

	res := m.orch.Result()
	lines = append(lines, "  "+m.bar.ViewAs(1))
	lines = append(lines, "  "+ui.SuccessStyle.Render("Transcription complete")+
		ui.StatusStyle.Render(fmt.Sprintf("  %d words  %d speakers", res.WordCount, res.SpeakerCount)))
	lines = append(lines, ui.StatusStyle.Render("  Saved as: "+res.Filename))
	if res.TranslationError != "" {
		lines = append(lines, "  "+ui.ErrorTextStyle.Render("Translation failed: "+res.TranslationError))
	}
	lines = append(lines, ui.PanelTitleStyle.Render("TRANSCRIPT"))

	var display []string
	speakers := map[string]int{}
	textWidth := max(10, m.width-6)
	for _, e := range res.Transcript {
		idx, ok := speakers[e.Speaker]
		if !ok {
			idx = len(speakers)
			speakers[e.Speaker] = idx
		}
		display = append(display, ui.SpeakerStyle(idx).Render(e.Speaker))
		for _, wl := range wrapText(e.Text, textWidth) {
			display = append(display, "  "+wl)
		}
	}
	if len(display) == 0 {
		display = append(display, ui.DimStyle.Render("No speech detected"))
	}

	visible := max(1, m.bodyHeight()-len(lines))
	start := min(m.transcriptScroll, max(0, len(display)-visible))
	end := min(len(display), start+visible)
	for _, l := range display[start:end] {
		lines = append(lines, "  "+l)
	}
	return lines
}

func (m Model) renderSummary() []string {
	lines := []string{ui.PanelTitleActiveStyle.Render("SUMMARY")}

	if m.summaryLoading || m.summaryOut == nil {
		return append(lines, ui.DimStyle.Render("  Loading summary..."))
	}

	out := m.summaryOut
	if msg := out.Message(); msg != "" {
		if out.Status == summary.StatusMissingCorrelation {
			return append(lines, ui.DimStyle.Render("  "+msg))
		}
		return append(lines, "  "+ui.ErrorTextStyle.Render(msg))
	}

	width := max(10, m.width-4)
	for _, wl := range wrapText(out.Summary, width) {
		lines = append(lines, "  "+wl)
	}
	lines = append(lines, "")
	lines = append(lines, ui.PanelTitleStyle.Render("ACTION ITEMS"))
	if out.Status == summary.StatusPartial || len(out.ActionItems) == 0 {
		return append(lines, ui.DimStyle.Render("  No action items"))
	}
	for _, item := range out.ActionItems {
		wrapped := wrapText(item, width-4)
		lines = append(lines, "  • "+wrapped[0])
		for _, wl := range wrapped[1:] {
			lines = append(lines, "    "+wl)
		}
	}
	return lines
}

func (m Model) renderSearch() []string {
	lines := []string{ui.PanelTitleActiveStyle.Render("SEARCH"), "  " + m.searchInput.View(), ""}

	if m.searchView.Loading() {
		return append(lines, ui.DimStyle.Render("  Searching for: "+m.searchView.Query()))
	}
	res := m.searchView.Result()
	if res == nil {
		return append(lines, ui.DimStyle.Render("  Type a question and press Enter"))
	}

	lines = append(lines, ui.DimStyle.Render("  Q: "+res.Query))
	style := lipgloss.NewStyle()
	if res.Fallback {
		style = ui.ErrorTextStyle
	}
	for _, wl := range wrapText(res.Answer, max(10, m.width-4)) {
		lines = append(lines, "  "+style.Render(wl))
	}
	if len(res.Sources) > 0 {
		lines = append(lines, "")
		lines = append(lines, ui.PanelTitleStyle.Render("SOURCES"))
		for _, s := range res.Sources {
			lines = append(lines, "  "+truncateToWidth(s, max(10, m.width-4)))
		}
	}
	return lines
}

func (m Model) renderVisuals() []string {
	lines := []string{ui.PanelTitleActiveStyle.Render(fmt.Sprintf("VISUALS (%d)", m.gallery.Len()))}

	if err := m.gallery.Err(); err != nil {
		lines = append(lines, "  "+ui.ErrorTextStyle.Render(visualsError(err)))
	}
	if m.gallery.Loading() {
		lines = append(lines, ui.DimStyle.Render("  Generating visuals..."))
	}

	items := m.gallery.Items()
	if len(items) == 0 {
		if !m.gallery.Loading() {
			lines = append(lines, ui.DimStyle.Render("  "+visuals.MsgNone+". Press g to generate."))
		}
		return lines
	}

	width := max(10, m.width-4)
	for _, v := range items {
		lines = append(lines, "  "+ui.SelectedStyle.Render(v.Title))
		for _, wl := range wrapText(v.Description, width) {
			lines = append(lines, "  "+wl)
		}
		lines = append(lines, "  "+ui.DimStyle.Render(truncateToWidth(v.Image, width)))
	}
	return lines
}

func (m Model) renderCalendar() []string {
	lines := []string{ui.PanelTitleActiveStyle.Render(strings.ToUpper(m.cursor.String()))}
	if m.eventsLoading {
		lines[0] += ui.DimStyle.Render("  loading...")
	}

	cellW := max(8, (m.width-2)/7-1)
	sep := ui.DividerStyle.Render("│")

	var head []string
	for _, d := range calendar.Weekdays {
		head = append(head, padRight(ui.DimStyle.Render(d), cellW))
	}
	lines = append(lines, strings.Join(head, sep))

	grid := calendar.Build(m.events, m.cursor)
	for _, week := range grid.Weeks() {
		rows := make([][]string, calendar.MaxEventsPerDay+2)
		for _, day := range week {
			cell := m.renderDay(day, cellW)
			for i := range rows {
				rows[i] = append(rows[i], cell[i])
			}
		}
		for _, r := range rows {
			lines = append(lines, strings.Join(r, sep))
		}
		lines = append(lines, ui.DividerStyle.Render(strings.Repeat("─", min(m.width, (cellW+1)*7))))
	}
	return lines
}

// renderDay returns the fixed-height lines of one calendar cell.
func (m Model) renderDay(day *calendar.Day, width int) []string {
	cell := make([]string, calendar.MaxEventsPerDay+2)
	if day == nil {
		for i := range cell {
			cell[i] = strings.Repeat(" ", width)
		}
		return cell
	}

	num := ui.DayNumberStyle.Render(fmt.Sprintf("%2d", day.Number))
	if day.Date == m.today {
		num = ui.TodayStyle.Render(fmt.Sprintf("%2d", day.Number))
	}
	cell[0] = padRight(num, width)

	for i, e := range day.Visible() {
		cell[i+1] = padRight(truncateToWidth(calendar.Emoji(e)+" "+e.Title, width), width)
	}
	if label := day.OverflowLabel(); label != "" {
		cell[calendar.MaxEventsPerDay+1] = padRight(ui.OverflowStyle.Render(label), width)
	}
	for i := range cell {
		if cell[i] == "" {
			cell[i] = strings.Repeat(" ", width)
		}
	}
	return cell
}

func (m Model) renderSettings() []string {
	lines := []string{ui.PanelTitleActiveStyle.Render("SETTINGS")}
	lines = append(lines, fmt.Sprintf("  Transcription language: %s", ui.SelectedStyle.Render(m.langPref.DisplayName())))
	if m.session != "" {
		lines = append(lines, ui.StatusStyle.Render("  Session: "+m.session))
	}
	lines = append(lines, "")
	lines = append(lines, ui.PanelTitleStyle.Render(fmt.Sprintf("SECONDARY-LANGUAGE TRANSCRIPTS (%d)", len(m.files))))

	switch {
	case m.filesLoading:
		lines = append(lines, ui.DimStyle.Render("  Loading..."))
	case len(m.files) == 0:
		lines = append(lines, ui.DimStyle.Render("  None"))
	default:
		for _, f := range m.files {
			lines = append(lines, "  "+truncateToWidth(f, max(10, m.width-4)))
		}
	}

	if m.translating {
		lines = append(lines, "", ui.DimStyle.Render("  Translating..."))
	} else if m.settingsNote != "" {
		lines = append(lines, "", "  "+ui.SuccessStyle.Render(m.settingsNote))
	}
	return lines
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func footerKey(key, desc string) string {
	return ui.FooterKeyStyle.Render(key) + ui.FooterDescStyle.Render(" "+desc)
}

func (m Model) renderFooter() string {
	parts := []string{footerKey("Tab", "View")}

	switch m.view {
	case ViewUpload:
		parts = append(parts,
			footerKey("Enter", "Select"),
			footerKey("Ctrl+L", "Language"),
			footerKey("Ctrl+T", "Transcribe"),
			footerKey("↑↓", "Scroll"))
	case ViewSummary:
		parts = append(parts, footerKey("r", "Reload"))
	case ViewSearch:
		parts = append(parts, footerKey("Enter", "Ask"))
	case ViewVisuals:
		parts = append(parts, footerKey("g", "Generate"))
	case ViewCalendar:
		parts = append(parts,
			footerKey("←→", "Month"),
			footerKey("[ ]", "Year"),
			footerKey("t", "Today"))
	case ViewSettings:
		parts = append(parts,
			footerKey("l", "Language"),
			footerKey("t", "Translate"),
			footerKey("r", "Refresh"))
	}

	if m.hasInput() {
		parts = append(parts, footerKey("Ctrl+C", "Quit"))
	} else {
		parts = append(parts, footerKey("q", "Quit"))
	}
	return strings.Join(parts, "  ")
}

// visualsError picks the message shown for a failed generation round.
func visualsError(err error) string {
	if msg, ok := assistant.RemoteMessage(err); ok {
		return msg
	}
	return "Failed to generate visuals"
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:max(0, width-1)]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
