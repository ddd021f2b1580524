// Package turn implements the turn resolver: the single entry point that
// orchestrates one battle turn end to end — prestart hooks, action
// ordering, per-action execution through the effect compiler and hook
// pipeline, turn-end hooks, duration decrement, and history append. It is
// the one place that wires the otherwise-independent events, hooks, and
// effects packages together.
package turn

import (
	"fmt"
	"sort"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/battleerr"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/effects"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
	"github.com/Mori-kamiyama/nikopoke/internal/hooks"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
)

// Options controls one Step invocation.
type Options struct {
	RecordHistory bool
}

// Resolver bundles the static data registry with the applier/hooks/compiler
// trio it wires together. One Resolver is built per process and shared
// across every battle and every search-policy branch, since none of its
// fields carry per-battle state.
type Resolver struct {
	Data     *battledata.Registry
	Hooks    *hooks.Registry
	Compiler *effects.Compiler
	Applier  *events.Applier
}

// NewResolver constructs a Resolver bound to the given static data.
func NewResolver(data *battledata.Registry) *Resolver {
	h := hooks.New()
	return &Resolver{
		Data:     data,
		Hooks:    h,
		Compiler: effects.New(h),
		Applier:  h.AsEventsApplier(),
	}
}

type orderedAction struct {
	action   battle.NormalizedAction
	priority int
	speed    float64
	tiebreak float64
}

// Step resolves one turn. It deep-copies state so the input is never
// mutated; the returned state is the sole authoritative result.
func (r *Resolver) Step(state *battle.State, actions []battle.Action, source rng.Source, opts Options) (*battle.State, error) {
	s := state.Clone()
	rec := rng.NewRecordingSource(source)

	s.Turn++
	s.LogLine(fmt.Sprintf("--- Turn %d ---", s.Turn))
	logStart := len(s.Log)

	normalized, err := r.normalizeActions(s, actions)
	if err != nil {
		return nil, err
	}

	r.runGlobalPrestart(s, rec)

	ordered := r.orderActions(s, normalized, rec)

	for _, oa := range ordered {
		if IsBattleOver(s) {
			break
		}
		r.executeAction(s, oa.action, rec)
	}

	r.runTurnEnd(s, rec)
	r.tickDurations(s)

	if opts.RecordHistory {
		if s.History == nil {
			s.History = &battle.History{}
		}
		s.History.Append(battle.TurnRecord{
			Turn:    s.Turn,
			Actions: normalized,
			Log:     append([]string(nil), s.Log[logStart:]...),
			RNG:     append([]float64(nil), rec.Draws()...),
		})
	}

	return s, nil
}

func (r *Resolver) normalizeActions(s *battle.State, actions []battle.Action) ([]battle.NormalizedAction, error) {
	out := make([]battle.NormalizedAction, 0, len(actions))
	for _, a := range actions {
		p := s.PlayerByID(a.PlayerID)
		if p == nil {
			continue
		}
		switch a.Type {
		case battle.ActionSwitch:
			if a.Slot == nil || *a.Slot < 0 || *a.Slot >= len(p.Team) || *a.Slot == p.ActiveSlot || p.Team[*a.Slot].IsFainted() {
				return nil, battleerr.New(battleerr.KindInvalidSwitchTarget, "player %s: invalid switch target", a.PlayerID)
			}
		case battle.ActionMove:
			active := p.Active()
			if active == nil {
				return nil, battleerr.New(battleerr.KindMoveNotKnown, "player %s: no active creature", a.PlayerID)
			}
			slot, ok := active.MoveSlotFor(a.MoveID)
			if !ok {
				// lock_move and encore replace the submitted id in
				// resolveBeforeAction, so an unknown id is accepted then.
				if !active.HasStatus(hooks.StatusLockMove) && !active.HasStatus(hooks.StatusEncore) {
					return nil, battleerr.New(battleerr.KindMoveNotKnown, "player %s: does not know move %q", a.PlayerID, a.MoveID)
				}
			} else if slot.PP != nil && *slot.PP <= 0 {
				return nil, battleerr.New(battleerr.KindNoPP, "player %s: move %q has no PP left", a.PlayerID, a.MoveID)
			}
		}
		out = append(out, a.Normalize())
	}
	return out, nil
}

// runGlobalPrestart fires ability onTurnStart (bookkeeping: advances each
// active's turns-since-switch-in counter, which Slow Start reads) and the
// turn_start half of
// delay/over_time's status dispatch; every other status's onTurnStart point
// names no behavior in this engine beyond what onBeforeAction and onTurnEnd
// already cover.
func (r *Resolver) runGlobalPrestart(s *battle.State, source rng.Source) {
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		c := p.Active()
		if c == nil || c.IsFainted() {
			continue
		}
		r.incrementSwitchInCounter(c)

		ctx := r.ctxFor(s, c, p, source)
		for i := range c.Statuses {
			st := &c.Statuses[i]
			evs := r.Hooks.OnTurnStartStatus(ctx, st)
			r.Applier.ApplyAll(s, r.expandTriggeredEffects(s, source, evs))
			if IsBattleOver(s) {
				return
			}
		}
	}
}

func (r *Resolver) incrementSwitchInCounter(c *creature.Creature) {
	v, _ := c.Scratch["turnsSinceSwitchIn"].(int)
	c.Scratch["turnsSinceSwitchIn"] = v + 1
}

func (r *Resolver) ctxFor(s *battle.State, self *creature.Creature, selfSide *battle.Player, source rng.Source) hooks.Context {
	other := s.Opponent(selfSide.ID)
	var otherActive *creature.Creature
	if other != nil {
		otherActive = other.Active()
	}
	return hooks.Context{State: s, Self: self, SelfSide: selfSide, Other: otherActive, OtherSide: other, RNG: source}
}

// orderActions assigns each normalized action a priority/speed/tiebreak key
// and sorts descending, per §4.3 step 3.
func (r *Resolver) orderActions(s *battle.State, actions []battle.NormalizedAction, source rng.Source) []orderedAction {
	ordered := make([]orderedAction, 0, len(actions))
	for _, a := range actions {
		p := s.PlayerByID(a.PlayerID)
		oa := orderedAction{action: a, tiebreak: source.Next()}
		switch a.Type {
		case battle.ActionSwitch, battle.ActionUseItem:
			oa.priority = 10000
		case battle.ActionMove:
			m, _ := r.Data.Moves.Get(a.MoveID)
			base := m.Priority
			if p != nil && p.Active() != nil {
				base = r.Hooks.ModifyPriority(p.Active().AbilityID, string(m.Category), base)
			}
			oa.priority = base
			if p != nil && p.Active() != nil {
				oa.speed = effectiveSpeedForOrdering(r, s, p.Active())
			}
		case battle.ActionWait:
			oa.priority = -10000
		}
		ordered = append(ordered, oa)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority > ordered[j].priority
		}
		if ordered[i].speed != ordered[j].speed {
			return ordered[i].speed > ordered[j].speed
		}
		return ordered[i].tiebreak > ordered[j].tiebreak
	})
	return ordered
}

func effectiveSpeedForOrdering(r *Resolver, s *battle.State, c *creature.Creature) float64 {
	weather, _ := s.Field.CurrentWeather()
	stat := float64(c.Spe) * creature.StageMultiplier(c.Stages[creature.StageSpe])
	if c.HasStatus("paralysis") {
		stat *= 0.5
	}
	statused := false
	if _, ok := c.PrimaryStatus(); ok {
		statused = true
	}
	turnsSinceSwitchIn, _ := c.Scratch["turnsSinceSwitchIn"].(int)
	return r.Hooks.ModifySpeed(c.AbilityID, weather, statused, turnsSinceSwitchIn, stat)
}

// IsBattleOver implements the battle-over predicate of §4.6.
func IsBattleOver(s *battle.State) bool {
	for _, p := range s.Players {
		if p == nil || p.AliveCount() == 0 {
			return true
		}
	}
	return false
}

// GetWinner returns the surviving player's id, or "" if the battle is not
// over or both sides are wiped.
func GetWinner(s *battle.State) string {
	var alive []string
	for _, p := range s.Players {
		if p != nil && p.AliveCount() > 0 {
			alive = append(alive, p.ID)
		}
	}
	if len(alive) == 1 {
		return alive[0]
	}
	return ""
}
