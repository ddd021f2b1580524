// Package effects implements the effect compiler: it lowers a declarative
// battledata.Effect (read straight off a move definition) into an ordered
// sequence of events.Event, resolving every RNG draw at compile time. The
// compiler is the only place in the engine that turns move data into
// mutation intent — the applier downstream never reasons about moves,
// accuracy, or damage at all.
package effects

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/hooks"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
)

// Context is the compile-time context threaded through every effect in a
// move: the battle state, the two participants and their sides, the move
// itself, the shared RNG source, and the hook registry used for every
// ability value/check hook the damage and status pipelines consult.
type Context struct {
	State        *battle.State
	Attacker     *creature.Creature
	AttackerSide *battle.Player
	Target       *creature.Creature
	TargetSide   *battle.Player
	Move         battledata.Move
	RNG          rng.Source
	Hooks        *hooks.Registry
}

// hookCtxFor adapts a compiler Context into the narrower hooks.Context used by
// ability/status/field dispatch functions, oriented around the target as
// the hook owner (used for onTryHit / onAfterEvent / immunity checks).
func (c Context) hookCtxFor(owner, other *creature.Creature, ownerSide, otherSide *battle.Player) hooks.Context {
	return hooks.Context{
		State:     c.State,
		Self:      owner,
		SelfSide:  ownerSide,
		Other:     other,
		OtherSide: otherSide,
		Move:      &c.Move,
		RNG:       c.RNG,
	}
}

// Compiler is the stateless entry point; New returns a ready-to-use value.
type Compiler struct {
	Hooks *hooks.Registry
}

// New constructs a Compiler bound to a hook registry.
func New(h *hooks.Registry) *Compiler {
	return &Compiler{Hooks: h}
}
