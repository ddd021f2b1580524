package hooks

import (
	"fmt"

	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
)

// Status identifiers dispatched below. Primary statuses double as the
// spec's "primary status" vocabulary (design note (c): plain VolatileStatus
// entries flagged Primary).
const (
	StatusBurn             = "burn"
	StatusPoison           = "poison"
	StatusToxic            = "toxic"
	StatusParalysis        = "paralysis"
	StatusSleep            = "sleep"
	StatusFreeze           = "freeze"
	StatusConfusion        = "confusion"
	StatusFlinch           = "flinch"
	StatusProtect          = "protect"
	StatusLockMove         = "lock_move"
	StatusDisableMove      = "disable_move"
	StatusEncore           = "encore"
	StatusTaunt            = "taunt"
	StatusLeechSeed        = "leech_seed"
	StatusCurse            = "curse"
	StatusYawn             = "yawn"
	StatusDelayedEffect    = "delayed_effect"
	StatusOverTimeEffect   = "over_time_effect"
	StatusPendingSwitch    = "pending_switch"
	StatusChargingSolar    = "charging_solar_beam"
	StatusBerryConsumed    = "berry_consumed"
)

// CheckBeforeAction implements the onBeforeAction check hook for statuses that
// may prevent the holder from acting this turn: paralysis (25% fail),
// sleep (always fail), freeze (20% thaw, otherwise fail), flinch (always
// fail, one-turn), confusion (33% self-hit instead of acting). Taunt,
// disable_move, encore and lock_move are handled by BlocksMove, not here.
//
// It returns whether the action is prevented, plus the events to apply
// (logs, the confusion self-hit, the flinch/thaw status removal).
func CheckBeforeAction(ctx Context, statusID string, rngDraw float64) (bool, []events.Event) {
	if ctx.Self == nil {
		return false, nil
	}
	switch statusID {
	case StatusParalysis:
		if rngDraw < 0.25 {
			return true, []events.Event{events.Log(fmt.Sprintf("%s is paralyzed! It can't move!", ctx.Self.Name))}
		}
	case StatusFlinch:
		return true, []events.Event{
			events.Log(fmt.Sprintf("%s flinched and couldn't move!", ctx.Self.Name)),
			{Kind: events.KindRemoveStatus, TargetID: ctx.Self.InstanceID, StatusID: StatusFlinch},
		}
	case StatusSleep:
		return true, []events.Event{events.Log(fmt.Sprintf("%s is fast asleep.", ctx.Self.Name))}
	case StatusFreeze:
		if rngDraw < 0.2 {
			return false, []events.Event{
				events.Log(fmt.Sprintf("%s thawed out!", ctx.Self.Name)),
				{Kind: events.KindRemoveStatus, TargetID: ctx.Self.InstanceID, StatusID: StatusFreeze},
			}
		}
		return true, []events.Event{events.Log(fmt.Sprintf("%s is frozen solid!", ctx.Self.Name))}
	case StatusConfusion:
		if rngDraw < 1.0/3.0 {
			dmg := confusionSelfDamage(ctx.Self)
			return true, []events.Event{
				events.Log(fmt.Sprintf("%s is confused! It hurt itself in its confusion!", ctx.Self.Name)),
				{Kind: events.KindDamage, TargetID: ctx.Self.InstanceID, Amount: dmg},
			}
		}
	}
	return false, nil
}

// confusionSelfDamage is a fixed-power (40) typeless physical hit against
// self, using the holder's own attack and defense.
func confusionSelfDamage(c *creature.Creature) int {
	atkStat := float64(c.Atk) * creature.StageMultiplier(c.Stages[creature.StageAtk])
	defStat := float64(c.Def) * creature.StageMultiplier(c.Stages[creature.StageDef])
	base := ((2*float64(c.Level)/5+2)*40*atkStat/defStat)/50 + 2
	dmg := int(base)
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// BlocksMove implements taunt (blocks status-category moves) and disable_move
// / encore / lock_move (restrict which move id is legal); the turn
// resolver calls it in resolveBeforeAction, after move-id overrides.
func BlocksMove(statusID string, data map[string]interface{}, category string, moveID string) (bool, string) {
	switch statusID {
	case StatusTaunt:
		if category == "status" {
			return true, fmt.Sprintf("%s can't use status moves after the taunt!", moveID)
		}
	case StatusDisableMove:
		if disabledID, _ := data["moveId"].(string); disabledID == moveID {
			return true, fmt.Sprintf("%s is disabled!", moveID)
		}
	case StatusEncore:
		if lockedID, _ := data["moveId"].(string); lockedID != "" && lockedID != moveID {
			return true, fmt.Sprintf("%s must use the encored move!", moveID)
		}
	case StatusLockMove:
		if lockedID, _ := data["moveId"].(string); lockedID != "" && lockedID != moveID {
			return true, fmt.Sprintf("%s is locked into its move!", moveID)
		}
	}
	return false, ""
}

// OnTurnEnd implements the end-of-turn residual statuses: burn/poison chip
// damage, toxic's escalating counter, leech seed drain-and-heal, curse chip
// damage, over_time_effect/delayed_effect payload firing, yawn's
// one-turn-delayed sleep, berry_consumed is a marker with no residual
// action.
func OnTurnEnd(ctx Context, status *creature.VolatileStatus) []events.Event {
	if ctx.Self == nil {
		return nil
	}
	switch status.ID {
	case StatusBurn:
		return []events.Event{{Kind: events.KindDamage, TargetID: ctx.Self.InstanceID, Amount: maxInt(1, ctx.Self.MaxHP/16)}}
	case StatusPoison:
		return []events.Event{{Kind: events.KindDamage, TargetID: ctx.Self.InstanceID, Amount: maxInt(1, ctx.Self.MaxHP/8)}}
	case StatusToxic:
		stacks := 1
		if v, ok := status.Data["stacks"].(int); ok {
			stacks = v
		}
		dmg := maxInt(1, ctx.Self.MaxHP*stacks/16)
		status.Data = map[string]interface{}{"stacks": stacks + 1}
		return []events.Event{{Kind: events.KindDamage, TargetID: ctx.Self.InstanceID, Amount: dmg}}
	case StatusLeechSeed:
		if ctx.Other == nil {
			return nil
		}
		drain := maxInt(1, ctx.Self.MaxHP/8)
		return []events.Event{
			{Kind: events.KindDamage, TargetID: ctx.Self.InstanceID, Amount: drain},
			{Kind: events.KindDamage, TargetID: ctx.Other.InstanceID, Amount: -drain},
		}
	case StatusCurse:
		return []events.Event{{Kind: events.KindDamage, TargetID: ctx.Self.InstanceID, Amount: maxInt(1, ctx.Self.MaxHP/4)}}
	case StatusYawn:
		// The tick after turn end drops a status at zero, so the last turn
		// end the status sees is the one with a single turn remaining.
		if status.RemainingTurns != nil && *status.RemainingTurns <= 1 {
			return []events.Event{
				{Kind: events.KindRemoveStatus, TargetID: ctx.Self.InstanceID, StatusID: StatusYawn},
				{Kind: events.KindApplyStatus, TargetID: ctx.Self.InstanceID, StatusID: StatusSleep, Duration: intPtr(randomSleepTurns(ctx))},
			}
		}
	case StatusDelayedEffect:
		return fireDelayed(ctx, status, "turn_end")
	case StatusOverTimeEffect:
		return fireOverTime(ctx, status, "turn_end")
	}
	return nil
}

// OnTurnStart implements the turn_start half of delay/over_time's dispatch
// (§4.2): every other status's turn-start point is a no-op in this engine,
// so only these two kinds are handled here.
func OnTurnStart(ctx Context, status *creature.VolatileStatus) []events.Event {
	if ctx.Self == nil {
		return nil
	}
	switch status.ID {
	case StatusDelayedEffect:
		return fireDelayed(ctx, status, "turn_start")
	case StatusOverTimeEffect:
		return fireOverTime(ctx, status, "turn_start")
	}
	return nil
}

// fireDelayed implements delay: once state.turn reaches the triggerTurn
// captured when the status was applied, emits a trigger_delayed_effect
// sentinel carrying the captured effect list and source id, then removes
// itself — a one-shot.
func fireDelayed(ctx Context, status *creature.VolatileStatus, phase string) []events.Event {
	if !matchesTiming(status, phase) {
		return nil
	}
	triggerTurn, _ := status.Data["triggerTurn"].(int)
	if ctx.State == nil || ctx.State.Turn < triggerTurn {
		return nil
	}
	return append(triggerPayload(ctx, status), events.Event{Kind: events.KindRemoveStatus, TargetID: ctx.Self.InstanceID, StatusID: StatusDelayedEffect})
}

// fireOverTime implements over_time: fires the captured effect list every
// matching hook the status is active for; its own duration (set when
// applied) removes it via the turn resolver's ordinary duration tick, not
// this hook.
func fireOverTime(ctx Context, status *creature.VolatileStatus, phase string) []events.Event {
	if !matchesTiming(status, phase) {
		return nil
	}
	return triggerPayload(ctx, status)
}

func matchesTiming(status *creature.VolatileStatus, phase string) bool {
	timing, _ := status.Data["timing"].(string)
	if timing == "" {
		timing = "turn_end"
	}
	return timing == phase
}

func triggerPayload(ctx Context, status *creature.VolatileStatus) []events.Event {
	effs, _ := status.Data["effects"].([]battledata.Effect)
	if len(effs) == 0 {
		return nil
	}
	return []events.Event{{
		Kind:     events.KindTriggerDelayedEffect,
		TargetID: ctx.Self.InstanceID,
		Data:     map[string]interface{}{"effects": effs, "sourceId": status.Data["sourceId"], "moveId": status.Data["moveId"]},
	}}
}

func randomSleepTurns(ctx Context) int {
	if ctx.RNG == nil {
		return 2
	}
	return 1 + int(ctx.RNG.Next()*3)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func intPtr(v int) *int { return &v }

// ProtectSuccessChance implements protect's 0.5^n success probability, where
// n is the creature's consecutive successful-protect counter.
func ProtectSuccessChance(successCount int) float64 {
	chance := 1.0
	for i := 0; i < successCount; i++ {
		chance *= 0.5
	}
	return chance
}

// BlocksIncomingHit reports whether an active protect status should cancel
// an incoming damaging/status-affecting event aimed at its holder.
func BlocksIncomingHit(hasProtect bool, ev events.Event) bool {
	if !hasProtect {
		return false
	}
	switch ev.Kind {
	case events.KindDamage, events.KindApplyStatus, events.KindModifyStage:
		return ev.Meta.Cancellable
	}
	return false
}
