// Package events implements the event applier: the only function in this
// codebase permitted to mutate a battle.State. Every mutation flows through
// a typed Event from the closed vocabulary in this file; nothing else
// touches a Creature's HP, stages, or statuses, or a Field's effect lists.
package events

import "github.com/Mori-kamiyama/nikopoke/internal/creature"

// Kind is the closed set of event types the applier understands.
type Kind string

const (
	KindLog               Kind = "log"
	KindSwitch            Kind = "switch"
	KindDamage            Kind = "damage"
	KindApplyStatus       Kind = "apply_status"
	KindRemoveStatus      Kind = "remove_status"
	KindReplaceStatus     Kind = "replace_status"
	KindCureAllStatus     Kind = "cure_all_status"
	KindApplyFieldStatus  Kind = "apply_field_status"
	KindRemoveFieldStatus Kind = "remove_field_status"
	KindModifyStage       Kind = "modify_stage"
	KindClearStages       Kind = "clear_stages"
	KindResetStages       Kind = "reset_stages"
	KindSelfSwitch        Kind = "self_switch"
	KindForceSwitch       Kind = "force_switch"
	KindRandomMove        Kind = "random_move"
	KindApplyItem         Kind = "apply_item"
	KindRemoveItem        Kind = "remove_item"
	KindConsumeItem       Kind = "consume_item"

	// KindTriggerDelayedEffect is a sentinel materialized by delayed_effect/
	// over_time_effect's onTurnEnd/onTurnStart dispatch: the turn resolver
	// intercepts it before it reaches the applier and re-invokes the effect
	// compiler against the effect list and source/target ids carried in
	// Data. Seeing one at the applier is a no-op, same as random_move.
	KindTriggerDelayedEffect Kind = "trigger_delayed_effect"
)

// Meta carries the context hooks need to decide how to react to an event:
// who caused it, which move it came from, and a few flags.
type Meta struct {
	SourcePlayerID string
	MoveID         string
	Bounced        bool // set on reflected events, to prevent infinite loops
	ParentalBond   bool
	Cancellable    bool
}

// Event is the single tagged-variant mutation record consumed by Apply. Only
// the fields relevant to Kind are populated.
type Event struct {
	Kind Kind
	Meta Meta

	// switch
	PlayerID string
	Slot     int

	// damage (amount negative = heal)
	TargetID string
	Amount   int

	// apply_status / replace_status / remove_status / cure_all_status
	StatusID string
	Duration *int // nil = indefinite
	Stack    bool
	Data     map[string]interface{}
	From     string
	To       string

	// apply_field_status / remove_field_status
	FieldID string

	// modify_stage / clear_stages / reset_stages
	Stages         map[creature.StageKey]int
	Clamp          bool
	FailIfNoChange bool
	ShowEvent      bool

	// random_move
	Pool string

	// apply_item / remove_item / consume_item
	ItemID string

	// log
	Message string
}

// Log builds a log event.
func Log(message string) Event {
	return Event{Kind: KindLog, Message: message}
}
