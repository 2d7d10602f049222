package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	res      *assistant.SummaryResult
	err      error
	gotToken string
	calls    int
}

func (f *fakeFetcher) Summary(_ context.Context, token string) (*assistant.SummaryResult, error) {
	f.calls++
	f.gotToken = token
	return f.res, f.err
}

func TestLoadWithoutToken(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewRetriever(db.NewMemoryStore(), fetcher, zerolog.Nop())

	out := r.Load(context.Background())
	assert.Equal(t, StatusMissingCorrelation, out.Status)
	assert.NoError(t, out.Err)
	assert.Equal(t, MsgNoFile, out.Message())
	assert.Zero(t, fetcher.calls)
}

func TestLoadComplete(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	store.Put(ctx, db.KeyTranscriptToken, "abc123")
	fetcher := &fakeFetcher{res: &assistant.SummaryResult{
		Summary: "Budget approved.", ActionItems: []string{"Email finance"}, HasActionItems: true,
	}}

	out := NewRetriever(store, fetcher, zerolog.Nop()).Load(ctx)
	assert.Equal(t, StatusComplete, out.Status)
	assert.Equal(t, "abc123", fetcher.gotToken)
	assert.Equal(t, "Budget approved.", out.Summary)
	assert.Equal(t, []string{"Email finance"}, out.ActionItems)
	assert.Empty(t, out.Message())
}

func TestLoadPartial(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	store.Put(ctx, db.KeyTranscriptToken, "abc123")
	fetcher := &fakeFetcher{res: &assistant.SummaryResult{Summary: "Budget approved."}}

	out := NewRetriever(store, fetcher, zerolog.Nop()).Load(ctx)
	assert.Equal(t, StatusPartial, out.Status)
	assert.Equal(t, "Budget approved.", out.Summary)
	assert.NotNil(t, out.ActionItems)
	assert.Empty(t, out.ActionItems)
}

func TestLoadFailed(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	store.Put(ctx, db.KeyTranscriptToken, "abc123")

	remote := &fakeFetcher{err: &assistant.Error{Kind: assistant.KindRemote, Message: "Transcript not found"}}
	out := NewRetriever(store, remote, zerolog.Nop()).Load(ctx)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, "Transcript not found", out.Message())

	transport := &fakeFetcher{err: &assistant.Error{Kind: assistant.KindTransport, Err: errors.New("refused")}}
	out = NewRetriever(store, transport, zerolog.Nop()).Load(ctx)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, MsgLoadError, out.Message())
}

func TestTokenVisibleToFreshRetriever(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	fetcher := &fakeFetcher{res: &assistant.SummaryResult{Summary: "ok", HasActionItems: true}}

	store.Put(ctx, db.KeyTranscriptToken, "abc123")
	out := NewRetriever(store, fetcher, zerolog.Nop()).Load(ctx)
	assert.Equal(t, StatusComplete, out.Status)

	store.Clear(ctx, db.KeyTranscriptToken)
	out = NewRetriever(store, fetcher, zerolog.Nop()).Load(ctx)
	assert.Equal(t, StatusMissingCorrelation, out.Status)
	assert.Equal(t, 1, fetcher.calls)
}
