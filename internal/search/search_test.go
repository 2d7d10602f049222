package search

import (
	"context"
	"testing"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	res   *assistant.SearchResult
	err   error
	calls int
	got   string
}

func (f *fakeSearcher) Search(_ context.Context, q string) (*assistant.SearchResult, error) {
	f.calls++
	f.got = q
	return f.res, f.err
}

func TestAskBlankQueryIsNoop(t *testing.T) {
	s := &fakeSearcher{}
	c := NewClient(s, zerolog.Nop())

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := c.Ask(context.Background(), q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Zero(t, s.calls)
}

func TestAskTrimsAndReturnsSources(t *testing.T) {
	s := &fakeSearcher{res: &assistant.SearchResult{Answer: "Q3 approved.", Sources: []string{"meeting_2.json", "meeting_1.json"}}}
	c := NewClient(s, zerolog.Nop())

	res, err := c.Ask(context.Background(), "  budget?  ")
	require.NoError(t, err)
	assert.Equal(t, "budget?", s.got)
	assert.Equal(t, "Q3 approved.", res.Answer)
	assert.Equal(t, []string{"meeting_2.json", "meeting_1.json"}, res.Sources)
	assert.False(t, res.Fallback)
}

func TestAskFailureYieldsFallback(t *testing.T) {
	s := &fakeSearcher{err: &assistant.Error{Kind: assistant.KindTransport, Op: "search", Message: "connection refused"}}
	c := NewClient(s, zerolog.Nop())

	res, err := c.Ask(context.Background(), "budget?")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackAnswer, res.Answer)
	assert.Empty(t, res.Sources)
	assert.Error(t, res.Err)
}

func TestViewClearsBeforeRequest(t *testing.T) {
	var v View

	seq, err := v.Begin("first")
	require.NoError(t, err)
	v.Finish(seq, Result{Answer: "one", Sources: []string{"a"}})
	require.NotNil(t, v.Result())

	_, err = v.Begin("second")
	require.NoError(t, err)
	assert.Nil(t, v.Result(), "prior answer still shown for the new query")
	assert.True(t, v.Loading())
	assert.Equal(t, "second", v.Query())
}

func TestViewDropsSupersededResults(t *testing.T) {
	var v View

	first, _ := v.Begin("first")
	second, _ := v.Begin("second")

	assert.False(t, v.Finish(first, Result{Answer: "stale"}))
	assert.Nil(t, v.Result())

	assert.True(t, v.Finish(second, Result{Answer: "fresh"}))
	assert.Equal(t, "fresh", v.Result().Answer)
	assert.False(t, v.Loading())
}

func TestViewBlankQueryKeepsState(t *testing.T) {
	var v View
	seq, _ := v.Begin("first")
	v.Finish(seq, Result{Answer: "one"})

	_, err := v.Begin("  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, "one", v.Result().Answer)
}
