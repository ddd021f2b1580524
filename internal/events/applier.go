package events

import (
	"fmt"
	"strings"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
)

// ImmunityCheckFunc implements the ability check-hook onCheckStatusImmunity.
// It is the only ability hook the applier itself invokes.
type ImmunityCheckFunc func(state *battle.State, target *creature.Creature, statusID string) bool

// StageModifyFunc implements the ability value-hook onModifyStage (Contrary,
// Simple). It is the second and last ability hook the applier invokes.
type StageModifyFunc func(state *battle.State, target *creature.Creature, stages map[creature.StageKey]int) map[creature.StageKey]int

// Applier is the sole mutator of battle.State. Its two hook dependencies are
// injected by the turn resolver, which wires them to the hooks registry —
// the applier package itself never imports the hooks package, keeping the
// dependency one-directional.
type Applier struct {
	ImmunityCheck ImmunityCheckFunc
	StageModify   StageModifyFunc
}

// NewApplier constructs an Applier with the two ability hooks it may invoke.
func NewApplier(immunityCheck ImmunityCheckFunc, stageModify StageModifyFunc) *Applier {
	return &Applier{ImmunityCheck: immunityCheck, StageModify: stageModify}
}

// Apply mutates state according to ev. It never consumes RNG and never
// calls any hook other than ImmunityCheck and StageModify.
func (a *Applier) Apply(state *battle.State, ev Event) {
	switch ev.Kind {
	case KindLog:
		state.LogLine(ev.Message)

	case KindSwitch:
		a.applySwitch(state, ev)

	case KindDamage:
		a.applyDamage(state, ev)

	case KindApplyStatus:
		a.applyStatus(state, ev)

	case KindRemoveStatus:
		a.removeStatus(state, ev)

	case KindReplaceStatus:
		a.replaceStatus(state, ev)

	case KindCureAllStatus:
		if c := findCreature(state, ev.TargetID); c != nil {
			c.Statuses = nil
		}

	case KindApplyFieldStatus:
		a.applyFieldStatus(state, ev)

	case KindRemoveFieldStatus:
		a.removeFieldStatus(state, ev)

	case KindModifyStage:
		a.modifyStage(state, ev)

	case KindClearStages, KindResetStages:
		if c := findCreature(state, ev.TargetID); c != nil {
			c.Stages = creature.NewEmptyStages()
		}

	case KindSelfSwitch, KindForceSwitch:
		a.pushPendingSwitch(state, ev.TargetID)

	case KindRandomMove:
		// random_move is a sentinel materialized by the turn resolver
		// before reaching the applier; seeing one here is a no-op.

	case KindTriggerDelayedEffect:
		// trigger_delayed_effect is likewise expanded by the turn resolver
		// before reaching the applier; seeing one here is a no-op.

	case KindApplyItem:
		a.applyItem(state, ev)

	case KindRemoveItem:
		if c := findCreature(state, ev.TargetID); c != nil {
			c.ItemID = ""
		}

	case KindConsumeItem:
		a.consumeItem(state, ev)
	}
}

// ApplyAll applies a sequence of events in order.
func (a *Applier) ApplyAll(state *battle.State, evs []Event) {
	for _, ev := range evs {
		a.Apply(state, ev)
	}
}

func findCreature(state *battle.State, id string) *creature.Creature {
	for _, p := range state.Players {
		if p == nil {
			continue
		}
		for _, c := range p.Team {
			if c.InstanceID == id {
				return c
			}
		}
	}
	return nil
}

func findOwner(state *battle.State, creatureID string) *battle.Player {
	for _, p := range state.Players {
		if p == nil {
			continue
		}
		for _, c := range p.Team {
			if c.InstanceID == creatureID {
				return p
			}
		}
	}
	return nil
}

func (a *Applier) applySwitch(state *battle.State, ev Event) {
	p := state.PlayerByID(ev.PlayerID)
	if p == nil || ev.Slot < 0 || ev.Slot >= len(p.Team) {
		return
	}
	outgoing := p.Active()
	if outgoing != nil {
		outgoing.ClearOnSwitchOut()
	}
	p.ActiveSlot = ev.Slot
	incoming := p.Active()
	name := ""
	if incoming != nil {
		name = incoming.Name
	}
	state.LogLine(fmt.Sprintf("%s sent out %s!", p.Name, name))
}

func (a *Applier) applyDamage(state *battle.State, ev Event) {
	c := findCreature(state, ev.TargetID)
	if c == nil {
		return
	}
	before := c.HP
	hp := c.HP - ev.Amount
	if hp > c.MaxHP {
		hp = c.MaxHP
	}
	if hp < 0 {
		hp = 0
	}
	c.HP = hp

	if ev.Amount >= 0 {
		state.LogLine(fmt.Sprintf("%s took damage! (%d -> %d)", c.Name, before, c.HP))
	} else {
		state.LogLine(fmt.Sprintf("%s restored HP! (%d -> %d)", c.Name, before, c.HP))
	}

	if c.HP == 0 && before > 0 {
		a.pushPendingSwitch(state, c.InstanceID)
		if owner := findOwner(state, c.InstanceID); owner != nil {
			owner.LastFaintedAbility = c.AbilityID
		}
		state.LogLine(fmt.Sprintf("%s fainted!", c.Name))
	}
}

func (a *Applier) pushPendingSwitch(state *battle.State, targetID string) {
	c := findCreature(state, targetID)
	if c == nil {
		return
	}
	if c.HasStatus("pending_switch") {
		return
	}
	c.Statuses = append(c.Statuses, creature.VolatileStatus{ID: "pending_switch"})
}

func (a *Applier) applyStatus(state *battle.State, ev Event) {
	c := findCreature(state, ev.TargetID)
	if c == nil {
		return
	}
	if a.ImmunityCheck != nil && a.ImmunityCheck(state, c, ev.StatusID) {
		state.LogLine(fmt.Sprintf("%s is immune to %s!", c.Name, ev.StatusID))
		return
	}
	if !ev.Stack && c.HasStatus(ev.StatusID) {
		state.LogLine(fmt.Sprintf("%s already has %s.", c.Name, ev.StatusID))
		return
	}
	var dur *int
	if ev.Duration != nil {
		v := *ev.Duration
		dur = &v
	}
	c.Statuses = append(c.Statuses, creature.VolatileStatus{
		ID:             ev.StatusID,
		RemainingTurns: dur,
		Data:           ev.Data,
		Primary:        isPrimaryStatus(ev.StatusID),
	})
	state.LogLine(fmt.Sprintf("%s is afflicted by %s!", c.Name, ev.StatusID))
}

func (a *Applier) removeStatus(state *battle.State, ev Event) {
	c := findCreature(state, ev.TargetID)
	if c == nil {
		return
	}
	kept := c.Statuses[:0]
	for _, s := range c.Statuses {
		if s.ID != ev.StatusID {
			kept = append(kept, s)
		}
	}
	c.Statuses = kept
}

func (a *Applier) replaceStatus(state *battle.State, ev Event) {
	c := findCreature(state, ev.TargetID)
	if c == nil {
		return
	}
	if !c.HasStatus(ev.From) {
		return
	}
	kept := c.Statuses[:0]
	for _, s := range c.Statuses {
		if s.ID != ev.From {
			kept = append(kept, s)
		}
	}
	c.Statuses = kept

	var dur *int
	if ev.Duration != nil {
		v := *ev.Duration
		dur = &v
	}
	c.Statuses = append(c.Statuses, creature.VolatileStatus{
		ID:             ev.To,
		RemainingTurns: dur,
		Data:           ev.Data,
		Primary:        isPrimaryStatus(ev.To),
	})
}

func (a *Applier) applyFieldStatus(state *battle.State, ev Event) {
	var dur *int
	if ev.Duration != nil {
		v := *ev.Duration
		dur = &v
	}
	newEffect := FieldEffectFromEvent(ev.FieldID, dur, ev.Data)

	if battle.IsWeather(ev.FieldID) {
		// A new weather evicts any prior weather (at most one active).
		filtered := state.Field.Global[:0]
		for _, e := range state.Field.Global {
			if !battle.IsWeather(e.ID) {
				filtered = append(filtered, e)
			}
		}
		state.Field.Global = append(filtered, newEffect)
		state.LogLine(fmt.Sprintf("The weather became %s!", ev.FieldID))
		return
	}

	if !ev.Stack {
		for i, e := range state.Field.Global {
			if e.ID == ev.FieldID {
				state.Field.Global[i] = newEffect
				return
			}
		}
	}
	state.Field.Global = append(state.Field.Global, newEffect)
}

// FieldEffectFromEvent builds a battle.FieldEffect from event fields.
func FieldEffectFromEvent(id string, duration *int, data map[string]interface{}) battle.FieldEffect {
	return battle.FieldEffect{ID: id, RemainingTurns: duration, Data: data}
}

func (a *Applier) removeFieldStatus(state *battle.State, ev Event) {
	kept := state.Field.Global[:0]
	for _, e := range state.Field.Global {
		if e.ID != ev.FieldID {
			kept = append(kept, e)
		}
	}
	state.Field.Global = kept
}

func (a *Applier) modifyStage(state *battle.State, ev Event) {
	c := findCreature(state, ev.TargetID)
	if c == nil {
		return
	}
	stages := ev.Stages
	if a.StageModify != nil {
		stages = a.StageModify(state, c, stages)
	}

	changed := false
	for key, delta := range stages {
		before := c.Stages[key]
		after := before + delta
		if ev.Clamp {
			after = creature.ClampStage(after)
		}
		if after != before {
			changed = true
		}
		c.Stages[key] = after
		if ev.ShowEvent && after != before {
			state.LogLine(fmt.Sprintf("%s's %s changed from %d to %d!", c.Name, key, before, after))
		}
	}
	if !changed && ev.FailIfNoChange {
		state.LogLine(fmt.Sprintf("%s's stats won't go any further!", c.Name))
	}
}

// applyItem sets both the scalar ItemID field and, per the item model's
// backward-compatible dual representation, normalizes away any stale
// "item"/"berry" volatile-status entry so the two forms never disagree.
func (a *Applier) applyItem(state *battle.State, ev Event) {
	c := findCreature(state, ev.TargetID)
	if c == nil {
		return
	}
	c.ItemID = ev.ItemID
	kept := c.Statuses[:0]
	for _, st := range c.Statuses {
		if st.ID != "item" && st.ID != "berry" {
			kept = append(kept, st)
		}
	}
	c.Statuses = kept
	state.LogLine(fmt.Sprintf("%s is holding %s.", c.Name, ev.ItemID))
}

// consumeItem zeros the held item and, if its id names a berry, attaches a
// permanent berry_consumed volatile (never cleared on switch-out: it is not
// flagged Primary, but nothing ever removes it, matching the "permanently"
// wording of the item model).
func (a *Applier) consumeItem(state *battle.State, ev Event) {
	c := findCreature(state, ev.TargetID)
	if c == nil {
		return
	}
	consumed := ev.ItemID
	if consumed == "" {
		consumed = c.ItemID
	}
	c.ItemID = ""
	state.LogLine(fmt.Sprintf("%s consumed its %s!", c.Name, consumed))
	if strings.Contains(consumed, "berry") {
		c.Statuses = append(c.Statuses, creature.VolatileStatus{ID: "berry_consumed"})
	}
}

// isPrimaryStatus reports whether id is one of the six primary statuses that
// persist across switch-out (design note (c): a flag on the ordinary
// Statuses entry, not a separate scalar field).
func isPrimaryStatus(id string) bool {
	switch id {
	case "burn", "poison", "toxic", "paralysis", "sleep", "freeze":
		return true
	default:
		return false
	}
}
