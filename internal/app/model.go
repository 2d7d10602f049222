package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/calendar"
	"github.com/jwulff/minutes/internal/db"
	"github.com/jwulff/minutes/internal/search"
	"github.com/jwulff/minutes/internal/summary"
	"github.com/jwulff/minutes/internal/transcribe"
	"github.com/jwulff/minutes/internal/ui"
	"github.com/jwulff/minutes/internal/visuals"
	"github.com/rs/zerolog"

	tea "github.com/charmbracelet/bubbletea"
)

// View identifies one screen of the TUI.
type View int

const (
	ViewUpload View = iota
	ViewSummary
	ViewSearch
	ViewVisuals
	ViewCalendar
	ViewSettings
)

var viewNames = [...]string{"Upload", "Summary", "Search", "Visuals", "Calendar", "Settings"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView maps a view name, case-insensitively, to a View.
func ParseView(s string) (View, error) {
	for i, n := range viewNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return View(i), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q (want one of %s)", s, strings.ToLower(strings.Join(viewNames[:], ", ")))
}

// Service is the remote API the TUI calls.
type Service interface {
	transcribe.Transcriber
	summary.Fetcher
	search.Searcher
	visuals.Generator
	CalendarEvents(ctx context.Context) ([]assistant.CalendarEvent, error)
	SecondaryFiles(ctx context.Context) ([]string, error)
	TranslateSecondary(ctx context.Context) (string, error)
}

// Deps wires the model to its collaborators.
type Deps struct {
	Service Service
	Store   db.SessionStore
	Log     zerolog.Logger

	// LockWriter takes the session writer lock. It is called before the
	// first submission and the lock is held until the TUI quits.
	LockWriter func() (unlock func(), err error)

	TickInterval time.Duration
	Random       func() float64
	Start        View
	Now          func() time.Time

	// Shown in the header.
	ServerURL string
	Session   string
}

// Model is the root bubbletea model for the minutes TUI.
type Model struct {
	svc        Service
	store      db.SessionStore
	log        zerolog.Logger
	lockWriter func() (func(), error)
	unlock     func()
	interval   time.Duration
	serverURL  string
	session    string
	initCmd    tea.Cmd

	// UI state
	view    View
	width   int
	height  int
	spinner spinner.Model

	// Upload
	orch             *transcribe.Orchestrator
	pathInput        textinput.Model
	lang             assistant.Language
	bar              progress.Model
	transcriptScroll int

	// Summary
	retriever      *summary.Retriever
	summarySeq     uint64
	summaryLoading bool
	summaryOut     *summary.Outcome

	// Search
	searchInput  textinput.Model
	searchClient *search.Client
	searchView   search.View

	// Visuals
	gallery visuals.Gallery

	// Calendar
	cursor        calendar.Cursor
	today         string
	events        []assistant.CalendarEvent
	eventsLoaded  bool
	eventsLoading bool

	// Settings
	langPref     assistant.Language
	files        []string
	filesLoading bool
	translating  bool
	settingsNote string

	// Errors
	errorMessage   string
	errorTransient bool
}

// New creates a Model showing d.Start.
func New(d Deps) Model {
	log := d.Log.With().Str("component", "tui").Logger()
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	interval := d.TickInterval
	if interval <= 0 {
		interval = transcribe.DefaultTickInterval
	}

	opts := []transcribe.Option{transcribe.WithLogger(d.Log)}
	if d.Random != nil {
		opts = append(opts, transcribe.WithRandom(d.Random))
	}

	path := textinput.New()
	path.Placeholder = "path to a meeting recording (.mp3, .wav, .m4a...)"
	path.Prompt = "File: "
	path.CharLimit = 1024

	query := textinput.New()
	query.Placeholder = "Ask anything about your meetings"
	query.Prompt = "? "
	query.CharLimit = 500

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.SpinnerStyle))

	t := now()
	m := Model{
		svc:          d.Service,
		store:        d.Store,
		log:          log,
		lockWriter:   d.LockWriter,
		interval:     interval,
		serverURL:    d.ServerURL,
		session:      d.Session,
		spinner:      sp,
		orch:         transcribe.New(d.Service, d.Store, opts...),
		pathInput:    path,
		bar:          progress.New(progress.WithDefaultGradient()),
		retriever:    summary.NewRetriever(d.Store, d.Service, d.Log),
		searchInput:  query,
		searchClient: search.NewClient(d.Service, d.Log),
		cursor:       calendar.CursorFor(t),
		today:        t.Format("2006-01-02"),
	}

	if v, ok, err := d.Store.Get(context.Background(), db.KeyLanguage); err != nil {
		log.Warn().Err(err).Msg("read language preference")
	} else if ok {
		if l, err := assistant.ParseLanguage(v); err == nil {
			m.langPref = l
		}
	}
	m.lang = m.langPref.OrAuto()

	m.initCmd = m.enter(d.Start)
	return m
}

// Init returns the commands for the initial view.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// enter switches to view v and starts whatever that view loads on entry.
func (m *Model) enter(v View) tea.Cmd {
	m.view = v
	m.pathInput.Blur()
	m.searchInput.Blur()

	ctx := context.Background()
	switch v {
	case ViewUpload:
		if err := m.orch.Enter(ctx); err != nil {
			m.setError(err, false)
		}
		return tea.Batch(m.pathInput.Focus(), textinput.Blink)

	case ViewSummary:
		m.summarySeq++
		m.summaryLoading = true
		m.summaryOut = nil
		return tea.Batch(loadSummaryCmd(m.retriever, m.summarySeq), m.spinner.Tick)

	case ViewSearch:
		return tea.Batch(m.searchInput.Focus(), textinput.Blink)

	case ViewCalendar:
		if !m.eventsLoaded && !m.eventsLoading {
			m.eventsLoading = true
			return tea.Batch(loadCalendarCmd(m.svc), m.spinner.Tick)
		}

	case ViewSettings:
		if !m.filesLoading {
			m.filesLoading = true
			return tea.Batch(secondaryFilesCmd(m.svc), m.spinner.Tick)
		}
	}
	return nil
}

// tickCmd schedules the next progress tick for a job generation.
func tickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TranscribeTickMsg{Generation: gen}
	})
}

// transcribeCmd performs the remote call for a ticket.
func transcribeCmd(orch *transcribe.Orchestrator, t transcribe.Ticket) tea.Cmd {
	return func() tea.Msg {
		return TranscribeDoneMsg{Outcome: orch.Call(context.Background(), t)}
	}
}

// loadSummaryCmd loads the summary for the session's transcript token.
func loadSummaryCmd(r *summary.Retriever, seq uint64) tea.Cmd {
	return func() tea.Msg {
		return SummaryLoadedMsg{Seq: seq, Outcome: r.Load(context.Background())}
	}
}

// askCmd runs one search query.
func askCmd(c *search.Client, seq uint64, query string) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Ask(context.Background(), query)
		if err != nil {
			res = search.Result{Query: query, Answer: search.FallbackAnswer, Sources: []string{}, Fallback: true, Err: err}
		}
		return SearchDoneMsg{Seq: seq, Result: res}
	}
}

// generateVisualsCmd triggers one visual generation round.
func generateVisualsCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.GenerateVisuals(context.Background())
		return VisualsDoneMsg{Items: items, Err: err}
	}
}

// loadCalendarCmd fetches the calendar events.
func loadCalendarCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		events, err := svc.CalendarEvents(context.Background())
		return CalendarLoadedMsg{Events: events, Err: err}
	}
}

// secondaryFilesCmd lists secondary-language transcripts.
func secondaryFilesCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		files, err := svc.SecondaryFiles(context.Background())
		return SecondaryFilesMsg{Files: files, Err: err}
	}
}

// translateCmd starts translation of every secondary-language transcript.
func translateCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		msg, err := svc.TranslateSecondary(context.Background())
		return TranslateDoneMsg{Message: msg, Err: err}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-24))
		m.pathInput.Width = max(20, msg.Width-10)
		m.searchInput.Width = max(20, msg.Width-6)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TranscribeTickMsg:
		if m.orch.Tick(msg.Generation) {
			return m, tickCmd(m.interval, msg.Generation)
		}
		return m, nil

	case TranscribeDoneMsg:
		applied, err := m.orch.Resolve(context.Background(), msg.Outcome)
		if !applied {
			return m, nil
		}
		m.transcriptScroll = 0
		if err != nil {
			return m, m.setError(err, true)
		}
		return m, nil

	case SummaryLoadedMsg:
		if msg.Seq != m.summarySeq {
			return m, nil
		}
		m.summaryLoading = false
		out := msg.Outcome
		m.summaryOut = &out
		return m, nil

	case SearchDoneMsg:
		m.searchView.Finish(msg.Seq, msg.Result)
		return m, nil

	case VisualsDoneMsg:
		m.gallery.Apply(msg.Items, msg.Err)
		return m, nil

	case CalendarLoadedMsg:
		m.eventsLoading = false
		m.eventsLoaded = true
		if msg.Err != nil {
			// An unreachable calendar is shown as an empty one.
			m.log.Warn().Err(msg.Err).Msg("load calendar events")
			m.events = nil
			return m, nil
		}
		m.events = msg.Events
		return m, nil

	case SecondaryFilesMsg:
		m.filesLoading = false
		if msg.Err != nil {
			m.files = nil
			return m, m.setError(msg.Err, true)
		}
		m.files = msg.Files
		return m, nil

	case TranslateDoneMsg:
		m.translating = false
		if msg.Err != nil {
			m.settingsNote = ""
			return m, m.setError(msg.Err, false)
		}
		m.settingsNote = msg.Message
		m.filesLoading = true
		return m, secondaryFilesCmd(m.svc)

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// updateInputs forwards a message to the focused text input.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewUpload:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case ViewSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// hasInput reports whether the current view routes typing to a text input.
func (m Model) hasInput() bool {
	return m.view == ViewUpload || m.view == ViewSearch
}

// busy reports whether anything shown is waiting on the service.
func (m Model) busy() bool {
	return m.orch.State() == transcribe.AwaitingResult ||
		m.summaryLoading ||
		m.searchView.Loading() ||
		m.gallery.Loading() ||
		m.eventsLoading ||
		m.filesLoading ||
		m.translating
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case KeyCtrlC:
		return m.quit()
	case KeyQuit, KeyQuitUpper:
		if !m.hasInput() {
			return m.quit()
		}
	case KeyTab:
		cmd := m.enter(View((int(m.view) + 1) % len(viewNames)))
		return m, cmd
	case KeyShiftTab:
		cmd := m.enter(View((int(m.view) + len(viewNames) - 1) % len(viewNames)))
		return m, cmd
	}

	switch m.view {
	case ViewUpload:
		return m.handleUploadKey(msg)
	case ViewSummary:
		if key == KeyReload {
			cmd := m.enter(ViewSummary)
			return m, cmd
		}
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewVisuals:
		if key == KeyGenerate && !m.gallery.Loading() {
			m.gallery.Begin()
			return m, tea.Batch(generateVisualsCmd(m.svc), m.spinner.Tick)
		}
	case ViewCalendar:
		return m.handleCalendarKey(key)
	case ViewSettings:
		return m.handleSettingsKey(key)
	}
	return m, nil
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		path = expandHome(path)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return m, m.setError(fmt.Errorf("not a file: %s", path), true)
		}
		if err := m.orch.Select(ctx, assistant.NewMediaFile(path)); err != nil {
			return m, m.setError(err, false)
		}
		m.transcriptScroll = 0
		m.clearError()
		return m, nil

	case KeyCycleLang:
		m.lang = m.lang.Next()
		return m, nil

	case KeyTranscribe:
		if m.unlock == nil && m.lockWriter != nil {
			unlock, err := m.lockWriter()
			if err != nil {
				return m, m.setError(err, true)
			}
			m.unlock = unlock
		}
		ticket, err := m.orch.Submit(ctx, m.lang)
		if err != nil {
			return m, m.setError(err, true)
		}
		m.clearError()
		m.transcriptScroll = 0
		return m, tea.Batch(
			transcribeCmd(m.orch, ticket),
			tickCmd(m.interval, ticket.Generation),
			m.spinner.Tick,
		)

	case KeyUp:
		if m.transcriptScroll > 0 {
			m.transcriptScroll--
		}
		return m, nil

	case KeyDown:
		m.transcriptScroll++
		return m, nil

	case KeyPgUp:
		m.transcriptScroll = max(0, m.transcriptScroll-m.bodyHeight())
		return m, nil

	case KeyPgDown:
		m.transcriptScroll += m.bodyHeight()
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyEnter {
		query := m.searchInput.Value()
		seq, err := m.searchView.Begin(query)
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(askCmd(m.searchClient, seq, m.searchView.Query()), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleCalendarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyLeft, KeyH:
		m.cursor = m.cursor.PrevMonth()
	case KeyRight, KeyL:
		m.cursor = m.cursor.NextMonth()
	case KeyPrevYear:
		m.cursor = m.cursor.PrevYear()
	case KeyNextYear:
		m.cursor = m.cursor.NextYear()
	case KeyToday:
		if t, err := time.Parse("2006-01-02", m.today); err == nil {
			m.cursor = calendar.CursorFor(t)
		}
	case KeyReload:
		if !m.eventsLoading {
			m.eventsLoading = true
			return m, tea.Batch(loadCalendarCmd(m.svc), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m Model) handleSettingsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyLanguagePref:
		next := m.langPref.Next()
		if err := m.store.Put(context.Background(), db.KeyLanguage, string(next)); err != nil {
			return m, m.setError(err, true)
		}
		m.langPref = next
		m.lang = next
		return m, nil

	case KeyReload:
		if !m.filesLoading {
			m.filesLoading = true
			return m, tea.Batch(secondaryFilesCmd(m.svc), m.spinner.Tick)
		}

	case KeyTranslate:
		if !m.translating {
			m.translating = true
			m.settingsNote = ""
			return m, tea.Batch(translateCmd(m.svc), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unlock != nil {
		m.unlock()
		m.unlock = nil
	}
	return m, tea.Quit
}

// setError shows err in the error bar. Service messages are shown verbatim.
func (m *Model) setError(err error, transient bool) tea.Cmd {
	if msg, ok := assistant.RemoteMessage(err); ok {
		m.errorMessage = msg
	} else {
		m.errorMessage = err.Error()
	}
	m.errorTransient = transient
	if transient {
		return clearTransientErrorCmd()
	}
	return nil
}

func (m *Model) clearError() {
	m.errorMessage = ""
	m.errorTransient = false
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
