// Package hooks implements the three parallel registries — abilities,
// statuses, field effects — and their dispatch across the fixed set of hook
// points described in the design. Per the design notes, each registry is a
// tagged-variant enum (a plain string identifier) dispatched through a
// switch statement; there is no dynamic registration, since every kind is
// statically known ahead of time.
package hooks

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
)

// Context is passed to every hook handler: the current state, the
// acting/owning creature, an optional opponent/target, the move in play (if
// any), and the shared RNG source for handlers that must draw randomness
// (e.g. a paralysis fail-to-move check).
type Context struct {
	State    *battle.State
	Self     *creature.Creature // the ability/status/field owner
	SelfSide *battle.Player
	Other    *creature.Creature // opponent or event target, when relevant
	OtherSide *battle.Player
	Move     *battledata.Move
	RNG      rng.Source
}

// Result is the subset of {events, preventAction, overrideAction} a
// lifecycle hook handler may return.
type Result struct {
	Events        []events.Event
	Prevent       bool
	Override      bool
	OverrideMoveID string
}

// Merge combines two results, concatenating events and OR-ing flags.
func (r Result) Merge(other Result) Result {
	r.Events = append(r.Events, other.Events...)
	r.Prevent = r.Prevent || other.Prevent
	if other.Override {
		r.Override = true
		r.OverrideMoveID = other.OverrideMoveID
	}
	return r
}

// Transform is returned by onEventTransform handlers (statuses, field
// effects): either cancel the event outright, or replace it with a
// different sequence. No code in the module produces or sorts Transform
// values; the turn resolver's protect cancellation goes through
// BlocksIncomingHit instead.
type Transform struct {
	Cancel   bool
	Replace  []events.Event
	Priority int
	Applies  bool // false = this handler had nothing to say about the event
}
