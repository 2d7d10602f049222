// Package summary loads the summary and action items for the transcript the
// upload flow last produced in this session.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/rs/zerolog"
)

// Status is the outcome of a Load.
type Status int

const (
	// StatusMissingCorrelation means no transcript token is stored. Nothing
	// was requested.
	StatusMissingCorrelation Status = iota
	// StatusComplete means the summary and action items were returned.
	StatusComplete
	// StatusPartial means the summary was returned without usable action items.
	StatusPartial
	// StatusFailed means the request failed; Outcome.Err says why.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusMissingCorrelation:
		return "missing-correlation"
	case StatusComplete:
		return "complete"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Display messages for the non-success outcomes.
const (
	MsgNoFile     = "No file selected. Please upload and transcribe a meeting first."
	MsgLoadFailed = "Failed to load summary."
	MsgLoadError  = "Error loading summary."
)

// Fetcher performs the summary request.
type Fetcher interface {
	Summary(ctx context.Context, token string) (*assistant.SummaryResult, error)
}

// Outcome is the tagged result of a Load.
type Outcome struct {
	Status      Status
	Token       string
	Summary     string
	ActionItems []string
	Err         error
}

// Message returns the text to show in place of a summary, or "" when there
// is one.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusMissingCorrelation:
		return MsgNoFile
	case StatusFailed:
		if msg, ok := assistant.RemoteMessage(o.Err); ok {
			return msg
		}
		if assistant.IsKind(o.Err, assistant.KindRemote) {
			return MsgLoadFailed
		}
		return MsgLoadError
	}
	return ""
}

// Retriever reads the correlation token from the store and fetches the
// summary for it.
type Retriever struct {
	store  db.SessionStore
	client Fetcher
	log    zerolog.Logger
}

// NewRetriever creates a Retriever.
func NewRetriever(store db.SessionStore, client Fetcher, log zerolog.Logger) *Retriever {
	return &Retriever{
		store:  store,
		client: client,
		log:    log.With().Str("component", "summary").Logger(),
	}
}

// Load issues at most one request. It never returns an error: every failure
// is folded into Outcome.
func (r *Retriever) Load(ctx context.Context) Outcome {
	token, ok, err := r.store.Get(ctx, db.KeyTranscriptToken)
	if err != nil {
		r.log.Error().Err(err).Msg("read correlation token")
		return Outcome{Status: StatusFailed, Err: fmt.Errorf("read correlation token: %w", err)}
	}
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return Outcome{Status: StatusMissingCorrelation}
	}

	res, err := r.client.Summary(ctx, token)
	if err != nil {
		r.log.Warn().Err(err).Str("token", token).Msg("load summary")
		return Outcome{Status: StatusFailed, Token: token, Err: err}
	}

	out := Outcome{
		Status:      StatusComplete,
		Token:       token,
		Summary:     res.Summary,
		ActionItems: res.ActionItems,
	}
	if !res.HasActionItems {
		out.Status = StatusPartial
		out.ActionItems = []string{}
	}
	return out
}
