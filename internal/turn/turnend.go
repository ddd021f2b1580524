package turn

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/effects"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
)

// runTurnEnd implements §4.3 step 5: per-status onTurnEnd residuals fire
// first (in status order, per active), then each active's ability onTurnEnd
// dispatch (Moody), then the field's weather/terrain residual.
func (r *Resolver) runTurnEnd(s *battle.State, source rng.Source) {
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		active := p.Active()
		if active == nil || active.IsFainted() {
			continue
		}
		ctx := r.ctxFor(s, active, p, source)
		for i := range active.Statuses {
			st := &active.Statuses[i]
			evs := r.Hooks.OnTurnEndStatus(ctx, st)
			r.Applier.ApplyAll(s, r.expandTriggeredEffects(s, source, evs))
			if IsBattleOver(s) {
				return
			}
		}
	}

	for _, p := range s.Players {
		if p == nil {
			continue
		}
		active := p.Active()
		if active == nil || active.IsFainted() {
			continue
		}
		ctx := r.ctxFor(s, active, p, source)
		evs := r.Hooks.OnTurnEndAbility(ctx)
		r.Applier.ApplyAll(s, evs)
		if IsBattleOver(s) {
			return
		}
	}

	weather, ok := s.Field.CurrentWeather()
	if ok {
		// OnFieldTurnEnd already covers every non-fainted active.
		r.Applier.ApplyAll(s, r.Hooks.OnFieldTurnEnd(s, weather))
	}
}

// tickDurations implements §4.3 step 6: every creature's timed statuses and
// the field's global timed effects decrement by one, dropping any that
// reach zero.
func (r *Resolver) tickDurations(s *battle.State) {
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		for _, c := range p.Team {
			tickCreatureStatuses(c)
		}
	}
	tickFieldEffects(&s.Field.Global)
	for k, list := range s.Field.Sides {
		tickFieldEffects(&list)
		s.Field.Sides[k] = list
	}
}

func tickCreatureStatuses(c *creature.Creature) {
	kept := c.Statuses[:0]
	for i := range c.Statuses {
		st := c.Statuses[i]
		if st.RemainingTurns == nil {
			kept = append(kept, st)
			continue
		}
		if st.Tick() {
			continue
		}
		kept = append(kept, st)
	}
	c.Statuses = kept
}

// expandTriggeredEffects materializes trigger_delayed_effect sentinels
// inline, mirroring expandRandomMoves: re-invokes the effect compiler
// against the effect list and source/target ids captured when the
// delay/over_time status was applied.
func (r *Resolver) expandTriggeredEffects(s *battle.State, source rng.Source, evs []events.Event) []events.Event {
	var out []events.Event
	for _, ev := range evs {
		if ev.Kind != events.KindTriggerDelayedEffect {
			out = append(out, ev)
			continue
		}
		out = append(out, r.fireDelayedEffect(s, source, ev)...)
	}
	return out
}

func (r *Resolver) fireDelayedEffect(s *battle.State, source rng.Source, ev events.Event) []events.Event {
	effs, _ := ev.Data["effects"].([]battledata.Effect)
	if len(effs) == 0 {
		return nil
	}
	target, targetSide := findCreatureAnywhere(s, ev.TargetID)
	if target == nil {
		return nil
	}
	attacker, attackerSide := target, targetSide
	if sourceID, _ := ev.Data["sourceId"].(string); sourceID != "" {
		if side := s.PlayerByID(sourceID); side != nil {
			if a := side.Active(); a != nil {
				attacker, attackerSide = a, side
			}
		}
	}
	moveID, _ := ev.Data["moveId"].(string)
	move, _ := r.Data.Moves.Get(moveID)
	effCtx := effects.Context{
		State: s, Attacker: attacker, AttackerSide: attackerSide,
		Target: target, TargetSide: targetSide, Move: move, RNG: source, Hooks: r.Hooks,
	}
	return r.Compiler.CompileAll(effCtx, effs)
}

func tickFieldEffects(effects *[]battle.FieldEffect) {
	kept := (*effects)[:0]
	for i := range *effects {
		e := (*effects)[i]
		if e.RemainingTurns == nil {
			kept = append(kept, e)
			continue
		}
		*e.RemainingTurns--
		if *e.RemainingTurns <= 0 {
			continue
		}
		kept = append(kept, e)
	}
	*effects = kept
}
