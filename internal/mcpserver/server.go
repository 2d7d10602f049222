// Package mcpserver exposes meeting search, summaries, the calendar and the
// transcript listing as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/calendar"
	"github.com/jwulff/minutes/internal/db"
	"github.com/jwulff/minutes/internal/search"
	"github.com/jwulff/minutes/internal/summary"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Service is the subset of the assistant client the tools call.
type Service interface {
	search.Searcher
	summary.Fetcher
	CalendarEvents(ctx context.Context) ([]assistant.CalendarEvent, error)
	Transcripts(ctx context.Context) (*assistant.TranscriptListing, error)
}

type tools struct {
	svc   Service
	store db.SessionStore
	log   zerolog.Logger
}

// New builds the MCP server. store supplies the current transcript token
// for meeting_summary.
func New(svc Service, store db.SessionStore, version string, log zerolog.Logger) *server.MCPServer {
	t := &tools{svc: svc, store: store, log: log.With().Str("component", "mcp").Logger()}

	s := server.NewMCPServer("minutes", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("search_meetings",
		mcp.WithDescription("Ask a natural-language question across all meeting transcripts."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The question to ask")),
	), t.searchMeetings)

	s.AddTool(mcp.NewTool("meeting_summary",
		mcp.WithDescription("Summary and action items of a transcribed meeting. Defaults to the meeting most recently transcribed in this session."),
		mcp.WithString("filename", mcp.Description("Transcript filename; omit for the current session's transcript")),
	), t.meetingSummary)

	s.AddTool(mcp.NewTool("calendar_month",
		mcp.WithDescription("List the meetings in one month of the calendar."),
		mcp.WithNumber("year", mcp.Required(), mcp.Description("Four-digit year")),
		mcp.WithNumber("month", mcp.Required(), mcp.Description("Month number, 1-12")),
	), t.calendarMonth)

	s.AddTool(mcp.NewTool("list_transcripts",
		mcp.WithDescription("List stored transcripts with language and word counts."),
	), t.listTranscripts)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (t *tools) searchMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := search.NewClient(t.svc, t.log).Ask(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Fallback {
		return mcp.NewToolResultError(res.Answer), nil
	}

	var b strings.Builder
	b.WriteString(res.Answer)
	if len(res.Sources) > 0 {
		b.WriteString("\n\nSources:\n")
		for i, s := range res.Sources {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *tools) meetingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store db.SessionStore = t.store
	if name := strings.TrimSpace(req.GetString("filename", "")); name != "" {
		// An explicit filename is looked up without touching the session.
		mem := db.NewMemoryStore()
		mem.Put(ctx, db.KeyTranscriptToken, name)
		store = mem
	}

	out := summary.NewRetriever(store, t.svc, t.log).Load(ctx)
	switch out.Status {
	case summary.StatusMissingCorrelation, summary.StatusFailed:
		return mcp.NewToolResultError(out.Message()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %s:\n\n%s\n", out.Token, out.Summary)
	if len(out.ActionItems) > 0 {
		b.WriteString("\nAction items:\n")
		for _, item := range out.ActionItems {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	} else {
		b.WriteString("\nNo action items.\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *tools) calendarMonth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year := req.GetInt("year", 0)
	month := req.GetInt("month", 0)
	if year <= 0 || month < 1 || month > 12 {
		return mcp.NewToolResultError("year must be positive and month between 1 and 12"), nil
	}

	events, err := t.svc.CalendarEvents(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("calendar events")
		events = nil
	}
	g := calendar.Build(events, calendar.CursorAt(year, month-1))

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d meetings\n", g.Cursor, g.EventCount())
	for _, d := range g.Days {
		if len(d.Events) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", d.Date)
		for _, e := range d.Events {
			fmt.Fprintf(&b, "  %s %s\n", calendar.Emoji(e), e.Title)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *tools) listTranscripts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.svc.Transcripts(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(list.Transcripts) == 0 {
		return mcp.NewToolResultText("No transcripts stored."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d transcripts:\n", list.Total)
	for _, tr := range list.Transcripts {
		fmt.Fprintf(&b, "- %s (%s, %d words)\n", tr.Filename, tr.Language, tr.WordCount)
	}
	return mcp.NewToolResultText(b.String()), nil
}
