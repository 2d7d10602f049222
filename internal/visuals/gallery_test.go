package visuals

import (
	"context"
	"errors"
	"testing"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	batches [][]assistant.VisualArtifact
	errs    []error
	call    int
}

func (f *fakeGenerator) GenerateVisuals(context.Context) ([]assistant.VisualArtifact, error) {
	i := f.call
	f.call++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	return f.batches[i], nil
}

func art(title string) assistant.VisualArtifact {
	return assistant.VisualArtifact{Title: title, Description: title + " description", Image: "http://img/" + title}
}

func TestGenerateAppends(t *testing.T) {
	gen := &fakeGenerator{batches: [][]assistant.VisualArtifact{
		{art("Executive Summary"), art("Stakeholder Summary")},
		{art("Executive Summary")},
	}}
	var g Gallery

	_, err := g.Generate(context.Background(), gen)
	require.NoError(t, err)
	added, err := g.Generate(context.Background(), gen)
	require.NoError(t, err)

	assert.Len(t, added, 1)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.Rounds())
	items := g.Items()
	assert.Equal(t, "Executive Summary", items[0].Title)
	assert.Equal(t, "Stakeholder Summary", items[1].Title)
	assert.Equal(t, "Executive Summary", items[2].Title, "duplicate titles are kept as distinct entries")
}

func TestFailureLeavesCollection(t *testing.T) {
	boom := errors.New("generation failed")
	gen := &fakeGenerator{
		batches: [][]assistant.VisualArtifact{{art("A")}, nil, {art("B")}},
		errs:    []error{nil, boom, nil},
	}
	var g Gallery

	g.Generate(context.Background(), gen)
	_, err := g.Generate(context.Background(), gen)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, g.Len())
	assert.ErrorIs(t, g.Err(), boom)

	g.Begin()
	assert.NoError(t, g.Err(), "Begin should clear the last error")
	assert.True(t, g.Loading())

	g.Apply([]assistant.VisualArtifact{art("B")}, nil)
	assert.Equal(t, 2, g.Len())
	assert.False(t, g.Loading())
}

func TestItemsIsACopy(t *testing.T) {
	var g Gallery
	g.Apply([]assistant.VisualArtifact{art("A")}, nil)

	items := g.Items()
	items[0].Title = "mutated"
	assert.Equal(t, "A", g.Items()[0].Title)
}
