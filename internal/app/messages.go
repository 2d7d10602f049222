package app

import (
	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/search"
	"github.com/jwulff/minutes/internal/summary"
	"github.com/jwulff/minutes/internal/transcribe"
)

// TranscribeTickMsg advances the progress estimate of one job generation.
type TranscribeTickMsg struct {
	Generation uint64
}

// TranscribeDoneMsg carries the outcome of a transcription call.
type TranscribeDoneMsg struct {
	Outcome transcribe.Outcome
}

// SummaryLoadedMsg carries the result of a summary load.
type SummaryLoadedMsg struct {
	Seq     uint64
	Outcome summary.Outcome
}

// SearchDoneMsg carries the answer to query Seq.
type SearchDoneMsg struct {
	Seq    uint64
	Result search.Result
}

// VisualsDoneMsg carries one round of generated visuals.
type VisualsDoneMsg struct {
	Items []assistant.VisualArtifact
	Err   error
}

// CalendarLoadedMsg carries the calendar event list.
type CalendarLoadedMsg struct {
	Events []assistant.CalendarEvent
	Err    error
}

// SecondaryFilesMsg carries the secondary-language transcript listing.
type SecondaryFilesMsg struct {
	Files []string
	Err   error
}

// TranslateDoneMsg carries the reply to a translation request.
type TranslateDoneMsg struct {
	Message string
	Err     error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
