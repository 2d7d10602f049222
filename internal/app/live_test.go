package app

import (
	"fmt"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/rs/zerolog"
)

// TestLiveTUIFlow walks the read-only views against a running service.
// Skipped unless MINUTES_LIVE_URL is set.
func TestLiveTUIFlow(t *testing.T) {
	base := os.Getenv("MINUTES_LIVE_URL")
	if base == "" {
		t.Skip("MINUTES_LIVE_URL not set")
	}

	client := assistant.NewClient(assistant.Config{BaseURL: base})
	m := New(Deps{
		Service:   client,
		Store:     db.NewMemoryStore(),
		Log:       zerolog.Nop(),
		Start:     ViewCalendar,
		ServerURL: client.BaseURL(),
	})
	m, _ = apply(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = apply(m, loadCalendarCmd(client)())
	if m.eventsLoading {
		t.Fatal("calendar should have loaded")
	}
	fmt.Printf("Calendar: %d events\n", len(m.events))
	fmt.Println(m.View())

	m, _ = apply(m, key("tab"))
	if m.view != ViewSettings {
		t.Fatalf("view = %v, want Settings", m.view)
	}
	m, _ = apply(m, secondaryFilesCmd(client)())
	fmt.Printf("Secondary-language files: %v (error %q)\n", m.files, m.errorMessage)

	m, _ = apply(m, key("tab"))
	m, _ = apply(m, key("tab"))
	if m.view != ViewSummary {
		t.Fatalf("view = %v, want Summary", m.view)
	}
	m, _ = apply(m, loadSummaryCmd(m.retriever, m.summarySeq)())
	fmt.Println(m.View())
}
