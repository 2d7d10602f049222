// Package search asks natural-language questions across all transcripts.
package search

import (
	"context"
	"strings"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/rs/zerolog"
)

// FallbackAnswer is shown in place of an answer when a query fails.
const FallbackAnswer = "Sorry, something went wrong. Please try again."

// ErrEmptyQuery is returned for a blank query. No request is made.
var ErrEmptyQuery = assistant.Rejected("search", "query is empty")

// Searcher performs the remote search request.
type Searcher interface {
	Search(ctx context.Context, query string) (*assistant.SearchResult, error)
}

// Result is an answer plus its sources in relevance order. Fallback is set
// when the query failed and Answer is FallbackAnswer.
type Result struct {
	Query    string
	Answer   string
	Sources  []string
	Fallback bool
	Err      error
}

// Client is the search query client. It holds no state between queries.
type Client struct {
	searcher Searcher
	log      zerolog.Logger
}

// NewClient creates a Client.
func NewClient(s Searcher, log zerolog.Logger) *Client {
	return &Client{searcher: s, log: log.With().Str("component", "search").Logger()}
}

// Ask runs one query. Failures are not returned; they yield the fallback
// answer with Err set for logging and exit codes. Only a blank query
// returns an error.
func (c *Client) Ask(ctx context.Context, query string) (Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{}, ErrEmptyQuery
	}

	res, err := c.searcher.Search(ctx, q)
	if err != nil {
		c.log.Warn().Err(err).Str("query", q).Msg("search failed")
		return Result{Query: q, Answer: FallbackAnswer, Sources: []string{}, Fallback: true, Err: err}, nil
	}
	sources := res.Sources
	if sources == nil {
		sources = []string{}
	}
	return Result{Query: q, Answer: res.Answer, Sources: sources}, nil
}

// View is the display state of the search pane: at most one query is
// meaningful at a time and a new one supersedes the last.
type View struct {
	seq     uint64
	loading bool
	query   string
	result  *Result
}

// Begin starts a query. Prior answer and sources are cleared before the
// request is issued. The returned sequence number must be passed to Finish.
// A blank query leaves the view untouched and returns ErrEmptyQuery.
func (v *View) Begin(query string) (uint64, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return 0, ErrEmptyQuery
	}
	v.seq++
	v.loading = true
	v.query = q
	v.result = nil
	return v.seq, nil
}

// Finish records the result of query seq. Results of superseded queries are
// dropped and reported as not applied.
func (v *View) Finish(seq uint64, r Result) bool {
	if seq != v.seq {
		return false
	}
	v.loading = false
	v.result = &r
	return true
}

// Loading reports whether a query is outstanding.
func (v *View) Loading() bool { return v.loading }

// Query returns the query being shown.
func (v *View) Query() string { return v.query }

// Result returns the current result, or nil while loading or before any query.
func (v *View) Result() *Result { return v.result }
