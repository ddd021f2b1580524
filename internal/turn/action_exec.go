package turn

import (
	"fmt"
	"sort"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/effects"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
	"github.com/Mori-kamiyama/nikopoke/internal/hooks"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
)

// executeAction dispatches one already-ordered action, per §4.3 step 4.
func (r *Resolver) executeAction(s *battle.State, a battle.NormalizedAction, source rng.Source) {
	switch a.Type {
	case battle.ActionSwitch:
		r.executeSwitch(s, a, source)
	case battle.ActionUseItem:
		r.executeUseItem(s, a)
	case battle.ActionMove:
		r.executeMove(s, a, source)
	case battle.ActionWait:
		// no-op: submitted only when no legal action exists.
	}
}

func (r *Resolver) executeSwitch(s *battle.State, a battle.NormalizedAction, source rng.Source) {
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return
	}
	active := p.Active()
	if active != nil && !active.IsFainted() {
		for _, other := range s.Players {
			if other == nil || other == p {
				continue
			}
			otherActive := other.Active()
			if otherActive == nil || otherActive.IsFainted() {
				continue
			}
			if r.Hooks.CheckTrap(otherActive.AbilityID, active.AbilityID) && !active.HasType("ghost") {
				s.LogLine(fmt.Sprintf("%s couldn't switch out!", active.Name))
				return
			}
		}
	}

	r.Applier.Apply(s, events.Event{Kind: events.KindSwitch, PlayerID: p.ID, Slot: a.Slot})

	incoming := p.Active()
	if incoming == nil {
		return
	}
	hooks.ResetOnceGuards(incoming)
	incoming.Scratch["turnsSinceSwitchIn"] = 0
	result := r.Hooks.SwitchIn(r.ctxFor(s, incoming, p, source))
	r.Applier.ApplyAll(s, result.Events)
}

func (r *Resolver) executeUseItem(s *battle.State, a battle.NormalizedAction) {
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return
	}
	active := p.Active()
	if active == nil || active.ItemID == "" {
		s.LogLine(fmt.Sprintf("%s has no item to use!", p.Name))
		return
	}
	if !r.Hooks.CheckItemUsable(active.AbilityID) {
		s.LogLine(fmt.Sprintf("%s's ability prevents item use!", active.Name))
		return
	}
	r.Applier.Apply(s, events.Event{Kind: events.KindConsumeItem, TargetID: active.InstanceID, ItemID: active.ItemID})
}

func (r *Resolver) executeMove(s *battle.State, a battle.NormalizedAction, source rng.Source) {
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return
	}
	attacker := p.Active()
	if attacker == nil || attacker.IsFainted() {
		return
	}

	ctx := r.ctxFor(s, attacker, p, source)

	moveID, prevented, msg := r.resolveBeforeAction(ctx, attacker, a.MoveID)
	if prevented {
		if msg != "" {
			s.LogLine(msg)
		}
		return
	}

	m, ok := r.Data.Moves.Get(moveID)
	if !ok {
		s.LogLine(fmt.Sprintf("%s has no move to use!", attacker.Name))
		return
	}

	if slot, ok := attacker.MoveSlotFor(moveID); ok && slot.PP != nil {
		if *slot.PP <= 0 {
			s.LogLine(fmt.Sprintf("%s has no PP left for %s!", attacker.Name, m.Name))
			return
		}
		*slot.PP--
	}

	attacker.LastMove = moveID
	if !hasProtectEffect(m) {
		attacker.ProtectSuccessCount = 0
	}
	hooks.OverwriteTypeForLibero(attacker.AbilityID, attacker, m.Type)

	target, targetSide := r.resolveTarget(s, p, a.TargetID)
	if target == nil {
		return
	}

	effCtx := effects.Context{
		State: s, Attacker: attacker, AttackerSide: p,
		Target: target, TargetSide: targetSide, Move: m, RNG: source, Hooks: r.Hooks,
	}
	raw := r.Compiler.CompileAll(effCtx, m.Effects)
	raw = r.expandRandomMoves(s, effCtx, source, raw)

	afterAbilities := r.runAbilityEventPipeline(s, source, raw, attacker, p)
	afterTransforms := r.applyTransforms(s, afterAbilities)
	r.Applier.ApplyAll(s, afterTransforms)
}

func hasProtectEffect(m battledata.Move) bool {
	for _, e := range m.Effects {
		if e.Kind == battledata.EffectProtect {
			return true
		}
	}
	return false
}

// resolveBeforeAction implements §4.3 step 4c: status-driven move-id
// overrides (encore, lock_move) resolve first, then taunt/disable_move
// legality is checked against the resolved move, then the per-status
// action-prevention checks (paralysis, sleep, freeze, flinch, confusion)
// run last, in status order.
func (r *Resolver) resolveBeforeAction(ctx hooks.Context, attacker *creature.Creature, moveID string) (string, bool, string) {
	resolved := moveID
	for _, st := range attacker.Statuses {
		switch st.ID {
		case hooks.StatusEncore:
			if locked, ok := st.Data["moveId"].(string); ok && locked != "" {
				resolved = locked
			}
		case hooks.StatusLockMove:
			if mode, _ := st.Data["mode"].(string); mode == "force_last_move" && attacker.LastMove != "" {
				resolved = attacker.LastMove
			} else if specific, ok := st.Data["moveId"].(string); ok && specific != "" {
				resolved = specific
			}
		}
	}

	m, _ := r.Data.Moves.Get(resolved)
	for _, st := range attacker.Statuses {
		if blocked, msg := hooks.BlocksMove(st.ID, st.Data, string(m.Category), resolved); blocked {
			return resolved, true, msg
		}
	}

	for i := range attacker.Statuses {
		st := &attacker.Statuses[i]
		prevented, evs := hooks.CheckBeforeAction(ctx, st.ID, ctx.RNG.Next())
		r.Applier.ApplyAll(ctx.State, evs)
		if prevented {
			return resolved, true, ""
		}
	}
	return resolved, false, ""
}

func (r *Resolver) resolveTarget(s *battle.State, attackerSide *battle.Player, targetID string) (*creature.Creature, *battle.Player) {
	if targetID != "" {
		if c, side := findCreatureAnywhere(s, targetID); c != nil {
			return c, side
		}
	}
	opponent := s.Opponent(attackerSide.ID)
	if opponent == nil {
		return nil, nil
	}
	return opponent.Active(), opponent
}

func findCreatureAnywhere(s *battle.State, id string) (*creature.Creature, *battle.Player) {
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		for _, c := range p.Team {
			if c.InstanceID == id {
				return c, p
			}
		}
	}
	return nil, nil
}

// expandRandomMoves materializes random_move sentinels inline, per §4.3
// step 4f: chooses a move id from the requested pool, verifies and consumes
// PP, logs, and recursively compiles the chosen move's effects.
func (r *Resolver) expandRandomMoves(s *battle.State, effCtx effects.Context, source rng.Source, evs []events.Event) []events.Event {
	var out []events.Event
	for _, ev := range evs {
		if ev.Kind != events.KindRandomMove {
			out = append(out, ev)
			continue
		}
		chosen := r.pickRandomMove(effCtx.Attacker, ev.Pool, source)
		if chosen == "" {
			out = append(out, events.Log(fmt.Sprintf("%s has no move to use!", effCtx.Attacker.Name)))
			continue
		}
		m2, ok := r.Data.Moves.Get(chosen)
		if !ok {
			continue
		}
		if slot, ok := effCtx.Attacker.MoveSlotFor(chosen); ok && slot.PP != nil {
			if *slot.PP <= 0 {
				continue
			}
			*slot.PP--
		}
		out = append(out, events.Log(fmt.Sprintf("%s used %s!", effCtx.Attacker.Name, m2.Name)))
		sub := effCtx
		sub.Move = m2
		out = append(out, r.Compiler.CompileAll(sub, m2.Effects)...)
	}
	return out
}

func (r *Resolver) pickRandomMove(c *creature.Creature, pool string, source rng.Source) string {
	var candidates []string
	switch pool {
	case "self_moves":
		for _, ms := range c.Moves {
			if ms.PP == nil || *ms.PP > 0 {
				candidates = append(candidates, ms.MoveID)
			}
		}
	case "physical", "special", "status":
		for id, mv := range r.Data.Moves {
			if string(mv.Category) == pool {
				candidates = append(candidates, id)
			}
		}
	default: // "all"
		for id := range r.Data.Moves {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	idx := int(source.Next() * float64(len(candidates)))
	if idx >= len(candidates) {
		idx = len(candidates) - 1
	}
	return candidates[idx]
}

// runAbilityEventPipeline implements §4.4's ability event-modifier pass:
// for each event, the named target's onTryHit interceptor may replace it;
// then every active's onAfterEvent reactor may append follow-up events.
func (r *Resolver) runAbilityEventPipeline(s *battle.State, source rng.Source, raw []events.Event, attacker *creature.Creature, attackerSide *battle.Player) []events.Event {
	var out []events.Event
	for _, ev := range raw {
		current := []events.Event{ev}
		if ev.TargetID != "" && !ev.Meta.Bounced {
			if target, targetSide := findCreatureAnywhere(s, ev.TargetID); target != nil {
				tctx := hooks.Context{State: s, Self: target, SelfSide: targetSide, Other: attacker, OtherSide: attackerSide, RNG: source}
				if mv, ok := r.Data.Moves.Get(ev.Meta.MoveID); ok {
					tctx.Move = &mv
				}
				if replacement, ok := r.Hooks.TryHit(tctx, ev); ok {
					current = replacement
				}
			}
		}
		out = append(out, current...)
		for _, ev2 := range current {
			for _, p := range s.Players {
				if p == nil {
					continue
				}
				active := p.Active()
				if active == nil {
					continue
				}
				actx := r.ctxFor(s, active, p, source)
				out = append(out, r.Hooks.AfterEvent(actx, ev2)...)
			}
		}
	}
	return out
}

// applyTransforms implements the status/field onEventTransform pass: an
// active protect status cancels an incoming cancellable damage/status/stage
// event originating elsewhere.
func (r *Resolver) applyTransforms(s *battle.State, evs []events.Event) []events.Event {
	var out []events.Event
	for _, ev := range evs {
		if ev.TargetID != "" {
			if target, _ := findCreatureAnywhere(s, ev.TargetID); target != nil {
				if r.Hooks.BlocksIncomingHit(target.HasStatus("protect"), ev) {
					out = append(out, events.Log(fmt.Sprintf("%s protected itself!", target.Name)))
					continue
				}
			}
		}
		out = append(out, ev)
	}
	return out
}
