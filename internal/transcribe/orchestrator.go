// Package transcribe drives a transcription job: file selection, submission,
// an estimated progress signal while the call is outstanding, and resolution
// into a transcript or a typed failure. The correlation token of a successful
// job is written to the session store for the other views.
package transcribe

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/rs/zerolog"
)

// State is the orchestrator's lifecycle state.
type State int

const (
	Idle State = iota
	FileSelected
	Submitting
	AwaitingResult
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileSelected:
		return "file-selected"
	case Submitting:
		return "submitting"
	case AwaitingResult:
		return "awaiting-result"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s ends a job.
func (s State) Terminal() bool { return s == Succeeded || s == Failed }

var (
	// ErrNoFile is returned by Submit when no file has been selected.
	ErrNoFile = assistant.Rejected("transcribe", "no file selected")
	// ErrInFlight is returned by Submit while a job is outstanding.
	ErrInFlight = assistant.Rejected("transcribe", "a transcription is already in progress")
)

// Transcriber performs the remote transcription call.
type Transcriber interface {
	Transcribe(ctx context.Context, file assistant.MediaFile, lang assistant.Language) (*assistant.TranscriptionResult, error)
}

// Ticket identifies one submitted job.
type Ticket struct {
	Generation uint64
	File       assistant.MediaFile
	Language   assistant.Language
}

// Outcome is the resolution of a ticket's remote call.
type Outcome struct {
	Generation uint64
	Result     *assistant.TranscriptionResult
	Err        error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRandom injects the random source for progress increments.
func WithRandom(rnd func() float64) Option {
	return func(o *Orchestrator) { o.rnd = rnd }
}

// WithLogger attaches a logger for state transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l.With().Str("component", "transcribe").Logger() }
}

// Orchestrator is the transcription job state machine. It is not safe for
// concurrent use: drive it from one goroutine (the TUI update loop or Run).
// Only Call may run elsewhere, since it never touches orchestrator state.
type Orchestrator struct {
	client Transcriber
	store  db.SessionStore
	rnd    func() float64
	log    zerolog.Logger

	state    State
	gen      uint64
	file     *assistant.MediaFile
	lang     assistant.Language
	progress *Estimator
	final    float64
	result   *assistant.TranscriptionResult
	err      error
}

// New creates an orchestrator in the Idle state.
func New(client Transcriber, store db.SessionStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		store:  store,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.progress = NewEstimator(o.rnd)
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State { return o.state }

// Generation returns the current job generation.
func (o *Orchestrator) Generation() uint64 { return o.gen }

// File returns the selected file, if any.
func (o *Orchestrator) File() (assistant.MediaFile, bool) {
	if o.file == nil {
		return assistant.MediaFile{}, false
	}
	return *o.file, true
}

// Language returns the hint of the last submission.
func (o *Orchestrator) Language() assistant.Language { return o.lang }

// Progress returns the progress value in [0, 100]. Outside AwaitingResult it
// is 0 before submission and 100 after resolution.
func (o *Orchestrator) Progress() float64 {
	switch o.state {
	case AwaitingResult:
		return o.progress.Value()
	case Succeeded, Failed:
		return o.final
	default:
		return 0
	}
}

// Result returns the transcript of a successful job.
func (o *Orchestrator) Result() *assistant.TranscriptionResult {
	if o.state != Succeeded {
		return nil
	}
	return o.result
}

// Err returns the failure of a failed job.
func (o *Orchestrator) Err() error {
	if o.state != Failed {
		return nil
	}
	return o.err
}

// Reason is the human-readable failure message for a failed job.
func (o *Orchestrator) Reason() string {
	if o.state != Failed || o.err == nil {
		return ""
	}
	return FailureReason(o.err)
}

// FailureReason renders a transcription failure for display. Service
// messages are kept verbatim.
func FailureReason(err error) string {
	if msg, ok := assistant.RemoteMessage(err); ok {
		return "Transcription failed: " + msg
	}
	return "Error uploading file"
}

// Enter is called when the upload view is freshly entered. With no upload
// in this session the stale correlation token is cleared.
func (o *Orchestrator) Enter(ctx context.Context) error {
	if o.state != Idle {
		return nil
	}
	if err := o.store.Clear(ctx, db.KeyTranscriptToken); err != nil {
		return fmt.Errorf("clear correlation token: %w", err)
	}
	return nil
}

// Select records a newly chosen file. Any prior transcript, progress and
// correlation token are discarded and an in-flight job becomes stale.
func (o *Orchestrator) Select(ctx context.Context, file assistant.MediaFile) error {
	o.reset()
	o.file = &file
	o.transition(FileSelected)
	if err := o.store.Clear(ctx, db.KeyTranscriptToken); err != nil {
		return fmt.Errorf("clear correlation token: %w", err)
	}
	return nil
}

// Submit confirms the selected file for transcription. An empty lang uses
// the stored language preference, falling back to auto-detect. An
// unsupported explicit hint is rejected; an unsupported stored preference
// is treated as auto-detect. Submitting again after a terminal state re-runs
// the job for the same file.
func (o *Orchestrator) Submit(ctx context.Context, lang assistant.Language) (Ticket, error) {
	if o.file == nil {
		return Ticket{}, ErrNoFile
	}
	if lang != "" {
		parsed, err := assistant.ParseLanguage(string(lang))
		if err != nil {
			return Ticket{}, err
		}
		lang = parsed
	}
	switch o.state {
	case Submitting, AwaitingResult:
		return Ticket{}, ErrInFlight
	case Succeeded, Failed:
		file := *o.file
		if err := o.Select(ctx, file); err != nil {
			return Ticket{}, err
		}
	}

	if lang == "" {
		pref, ok, err := o.store.Get(ctx, db.KeyLanguage)
		if err != nil {
			o.log.Warn().Err(err).Msg("read language preference")
		}
		if ok {
			parsed, err := assistant.ParseLanguage(pref)
			if err != nil {
				o.log.Warn().Str("preference", pref).Msg("ignoring unsupported language preference")
			}
			lang = parsed
		}
	}
	o.lang = lang.OrAuto()

	o.transition(Submitting)
	t := Ticket{Generation: o.gen, File: *o.file, Language: o.lang}
	o.transition(AwaitingResult)
	return t, nil
}

// Call performs the remote request for a ticket. It does not touch
// orchestrator state and may run on another goroutine.
func (o *Orchestrator) Call(ctx context.Context, t Ticket) Outcome {
	res, err := o.client.Transcribe(ctx, t.File, t.Language)
	return Outcome{Generation: t.Generation, Result: res, Err: err}
}

// Tick advances the progress estimate for generation gen. It reports false
// once the job is no longer awaiting a result, so tick producers can stop.
func (o *Orchestrator) Tick(gen uint64) bool {
	if gen != o.gen || o.state != AwaitingResult {
		return false
	}
	o.progress.Next()
	return true
}

// Resolve applies a call outcome. Outcomes for a superseded generation are
// ignored and reported as not applied. The returned error is a failure to
// record the correlation token; the job itself has still succeeded.
func (o *Orchestrator) Resolve(ctx context.Context, out Outcome) (bool, error) {
	if out.Generation != o.gen || o.state != AwaitingResult {
		o.log.Debug().
			Uint64("generation", out.Generation).
			Uint64("current", o.gen).
			Msg("ignoring stale transcription outcome")
		return false, nil
	}

	o.final = 100
	if err := validate(out); err != nil {
		o.err = err
		o.result = nil
		o.transition(Failed)
		o.log.Warn().Err(err).Msg("transcription failed")
		return true, nil
	}

	o.result = out.Result
	o.err = nil
	o.transition(Succeeded)
	if err := o.store.Put(ctx, db.KeyTranscriptToken, out.Result.Filename); err != nil {
		return true, fmt.Errorf("write correlation token: %w", err)
	}
	o.log.Info().
		Str("token", out.Result.Filename).
		Int("entries", len(out.Result.Transcript)).
		Msg("transcription complete")
	return true, nil
}

// validate turns an outcome into a typed failure, or nil for a usable
// transcript.
func validate(out Outcome) error {
	if out.Err != nil {
		var ae *assistant.Error
		if errors.As(out.Err, &ae) {
			return out.Err
		}
		return &assistant.Error{Kind: assistant.KindTransport, Op: "transcribe", Err: out.Err}
	}
	r := out.Result
	switch {
	case r == nil:
		return &assistant.Error{Kind: assistant.KindTransport, Op: "transcribe", Message: "malformed response: empty result"}
	case r.Error != "":
		return &assistant.Error{Kind: assistant.KindRemote, Op: "transcribe", Message: r.Error}
	case r.Transcript == nil:
		return &assistant.Error{Kind: assistant.KindTransport, Op: "transcribe", Message: "malformed response: transcript missing"}
	case r.Filename == "":
		return &assistant.Error{Kind: assistant.KindTransport, Op: "transcribe", Message: "malformed response: filename missing"}
	}
	return nil
}

func (o *Orchestrator) reset() {
	o.gen++
	o.progress.Reset()
	o.final = 0
	o.result = nil
	o.err = nil
}

func (o *Orchestrator) transition(to State) {
	if o.state == to {
		return
	}
	o.log.Debug().
		Stringer("from", o.state).
		Stringer("to", to).
		Uint64("generation", o.gen).
		Msg("transition")
	o.state = to
}
