// Package visuals accumulates generated visual summaries for a session.
package visuals

import (
	"context"

	"github.com/jwulff/minutes/internal/assistant"
)

// MsgNone is shown when nothing has been generated yet.
const MsgNone = "No visuals generated"

// Generator performs one remote generation call.
type Generator interface {
	GenerateVisuals(ctx context.Context) ([]assistant.VisualArtifact, error)
}

// Gallery is an append-only collection of visuals. Artifacts have no
// identity: repeated generations may add entries with identical titles.
type Gallery struct {
	items   []assistant.VisualArtifact
	rounds  int
	loading bool
	err     error
}

// Begin marks a generation as started and clears the last error.
func (g *Gallery) Begin() {
	g.loading = true
	g.err = nil
}

// Apply records the result of a generation. On success the items are
// appended; on failure the collection is left as is and err is kept.
func (g *Gallery) Apply(items []assistant.VisualArtifact, err error) {
	g.loading = false
	if err != nil {
		g.err = err
		return
	}
	g.items = append(g.items, items...)
	g.rounds++
}

// Generate runs Begin, one call and Apply. It returns the artifacts added.
func (g *Gallery) Generate(ctx context.Context, gen Generator) ([]assistant.VisualArtifact, error) {
	g.Begin()
	items, err := gen.GenerateVisuals(ctx)
	g.Apply(items, err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Items returns a copy of the collection in insertion order.
func (g *Gallery) Items() []assistant.VisualArtifact {
	out := make([]assistant.VisualArtifact, len(g.items))
	copy(out, g.items)
	return out
}

// Len is the number of artifacts collected.
func (g *Gallery) Len() int { return len(g.items) }

// Rounds is the number of successful generations.
func (g *Gallery) Rounds() int { return g.rounds }

// Loading reports whether a generation is outstanding.
func (g *Gallery) Loading() bool { return g.loading }

// Err is the error of the last generation, if it failed.
func (g *Gallery) Err() error { return g.err }
