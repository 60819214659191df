package variant

import (
	"fmt"

	"gostop-server/game"
	"gostop-server/scoring"
)

// Variant is a named rule set a table can be played under.
type Variant interface {
	ID() string
	Name() string
	Description() string
	MinPlayers() int
	MaxPlayers() int
	Rules() scoring.Rules
	Resolver() game.Resolver
}

// Registry holds all registered variants indexed by their ID.
type Registry struct {
	variants map[string]Variant
	order    []string // registration order for deterministic All()
}

// NewRegistry creates a new empty variant registry.
func NewRegistry() *Registry {
	return &Registry{
		variants: make(map[string]Variant),
	}
}

// Default returns a registry with the standard game and matgo. A positive
// threshold overrides each variant's go/stop threshold.
func Default(threshold int) *Registry {
	r := NewRegistry()
	r.Register(&Standard{Threshold: threshold})
	r.Register(&Matgo{Threshold: threshold})
	return r
}

// Register adds a variant, replacing any with the same ID.
func (r *Registry) Register(v Variant) {
	id := v.ID()
	if _, exists := r.variants[id]; !exists {
		r.order = append(r.order, id)
	}
	r.variants[id] = v
}

// Get returns the variant with the given ID.
func (r *Registry) Get(id string) (Variant, bool) {
	v, ok := r.variants[id]
	return v, ok
}

// All returns every variant in registration order.
func (r *Registry) All() []Variant {
	out := make([]Variant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.variants[id])
	}
	return out
}

// Options builds game options for a table of the given size.
func (r *Registry) Options(id string, players int, dealer game.Dealer) (game.Options, error) {
	v, ok := r.Get(id)
	if !ok {
		return game.Options{}, fmt.Errorf("unknown variant %q", id)
	}
	if players < v.MinPlayers() || players > v.MaxPlayers() {
		return game.Options{}, fmt.Errorf("variant %s is played by %d to %d players, not %d",
			id, v.MinPlayers(), v.MaxPlayers(), players)
	}
	return game.Options{Rules: v.Rules(), Resolver: v.Resolver(), Dealer: dealer}, nil
}
