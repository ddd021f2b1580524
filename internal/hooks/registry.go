package hooks

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
)

// Registry is the single entry point the turn resolver holds onto: it wraps
// the ability/status/field dispatch functions in this package behind the two
// narrow function types the event applier depends on, plus the wider set of
// methods the turn resolver and effect compiler call directly. There is
// nothing to construct per-battle — every handler is a stateless function of
// its arguments — so New returns a zero-value Registry.
type Registry struct{}

// New constructs a Registry. It carries no state; every method is a pure
// function of the arguments passed in.
func New() *Registry {
	return &Registry{}
}

// CheckStatusImmunity implements events.ImmunityCheckFunc: true if target's
// ability grants immunity to statusID.
func (r *Registry) CheckStatusImmunity(state *battle.State, target *creature.Creature, statusID string) bool {
	if target == nil {
		return false
	}
	return CheckStatusImmunity(target.AbilityID, statusID)
}

// ModifyStage implements events.StageModifyFunc: applies Contrary/Simple
// rewriting of the requested stage deltas before they reach the applier's
// clamp step.
func (r *Registry) ModifyStage(state *battle.State, target *creature.Creature, stages map[creature.StageKey]int) map[creature.StageKey]int {
	if target == nil {
		return stages
	}
	return ModifyStageValue(target.AbilityID, stages)
}

// AsEventsApplier wires this registry's two hook methods into an
// events.Applier — the single call site where the otherwise-independent
// events and hooks packages meet.
func (r *Registry) AsEventsApplier() *events.Applier {
	return events.NewApplier(r.CheckStatusImmunity, r.ModifyStage)
}

// SwitchIn runs every switch-in hook (ability) for the incoming creature and
// returns the combined result. Called by the turn resolver immediately after
// an applied "switch" event.
func (r *Registry) SwitchIn(ctx Context) Result {
	if ctx.Self == nil {
		return Result{}
	}
	return SwitchIn(ctx.Self.AbilityID, ctx)
}

// TryHit runs the defending creature's ability onTryHit interceptor against
// an about-to-apply event. ok reports whether the ability had something to
// say (and therefore replaced the event list).
func (r *Registry) TryHit(ctx Context, ev events.Event) ([]events.Event, bool) {
	if ctx.Self == nil {
		return nil, false
	}
	return TryHit(ctx.Self.AbilityID, ctx, ev)
}

// AfterEvent runs the named creature's ability onAfterEvent reactor against
// an event that has just been emitted (not yet applied), returning any
// follow-up events.
func (r *Registry) AfterEvent(ctx Context, ev events.Event) []events.Event {
	if ctx.Self == nil {
		return nil
	}
	return AfterEvent(ctx.Self.AbilityID, ctx, ev)
}

// ModifyOffense/ModifyDefense/ModifyPower/DefensivePower/ModifyAccuracy/
// ModifyCritChance/ModifySpeed/ModifyPriority forward directly to the
// package-level ability functions; kept as Registry methods so the damage
// pipeline and turn resolver reach these value hooks through *Registry
// (a few other package-level functions, such as BlocksMove and
// CheckBeforeAction, are still called directly).

func (r *Registry) ModifyOffense(abilityID string, physical bool, atk int) int {
	return ModifyOffense(abilityID, physical, atk)
}

func (r *Registry) ModifyOffenseForSlowStart(abilityID string, turnsSinceSwitchIn, atk int) int {
	return ModifyOffenseForSlowStart(abilityID, turnsSinceSwitchIn, atk)
}

func (r *Registry) ModifyOffenseForStatus(abilityID string, physical, statused bool, atk int) int {
	return ModifyOffenseForStatus(abilityID, physical, statused, atk)
}

func (r *Registry) ModifyDefense(abilityID string, physical bool, def int) int {
	return ModifyDefense(abilityID, physical, def)
}

func (r *Registry) ModifyPower(abilityID, moveType string, basePower, power int, slicing bool) int {
	return ModifyPower(abilityID, moveType, basePower, power, slicing)
}

func (r *Registry) DefensivePower(abilityID, moveType string, power int) int {
	return DefensivePower(abilityID, moveType, power)
}

func (r *Registry) ModifyAccuracy(abilityID string, category battleCategory, accuracy float64) float64 {
	return ModifyAccuracy(abilityID, category, accuracy)
}

func (r *Registry) ModifyCritChance(abilityID string, targetPoisoned bool) int {
	return ModifyCritChance(abilityID, targetPoisoned)
}

func (r *Registry) ModifySpeed(abilityID, weather string, statused bool, turnsSinceSwitchIn int, speed float64) float64 {
	return ModifySpeed(abilityID, weather, statused, turnsSinceSwitchIn, speed)
}

func (r *Registry) ModifyPriority(abilityID, category string, priority int) int {
	return ModifyPriority(abilityID, category, priority)
}

func (r *Registry) CheckTrap(ownerAbility, targetAbility string) bool {
	return CheckTrap(ownerAbility, targetAbility)
}

func (r *Registry) CheckItemUsable(abilityID string) bool {
	return CheckItemUsable(abilityID)
}

func (r *Registry) CheckSkillLink(abilityID string) bool {
	return CheckSkillLink(abilityID)
}

func (r *Registry) UnawareActive(abilityID string) bool {
	return UnawareActive(abilityID)
}

// CheckBeforeAction/BlocksMove/OnTurnEnd forward status dispatch.

func (r *Registry) CheckBeforeAction(ctx Context, statusID string, rngDraw float64) (bool, []events.Event) {
	return CheckBeforeAction(ctx, statusID, rngDraw)
}

func (r *Registry) BlocksMove(statusID string, data map[string]interface{}, category, moveID string) (bool, string) {
	return BlocksMove(statusID, data, category, moveID)
}

func (r *Registry) OnTurnEndStatus(ctx Context, status *creature.VolatileStatus) []events.Event {
	return OnTurnEnd(ctx, status)
}

// OnTurnStartStatus forwards the turn_start half of delay/over_time's
// dispatch.
func (r *Registry) OnTurnStartStatus(ctx Context, status *creature.VolatileStatus) []events.Event {
	return OnTurnStart(ctx, status)
}

// OnTurnEndAbility forwards ability-level turn-end dispatch (Moody's
// per-turn stat randomization).
func (r *Registry) OnTurnEndAbility(ctx Context) []events.Event {
	if ctx.Self == nil {
		return nil
	}
	return OnTurnEndAbility(ctx.Self.AbilityID, ctx)
}

func (r *Registry) BlocksIncomingHit(hasProtect bool, ev events.Event) bool {
	return BlocksIncomingHit(hasProtect, ev)
}

func (r *Registry) ProtectSuccessChance(successCount int) float64 {
	return ProtectSuccessChance(successCount)
}

// WeatherDamageMultiplier/OnFieldTurnEnd forward field dispatch.

func (r *Registry) WeatherDamageMultiplier(weather, moveType string) float64 {
	return WeatherDamageMultiplier(weather, moveType)
}

func (r *Registry) OnFieldTurnEnd(state *battle.State, weather string) []events.Event {
	return OnFieldTurnEnd(state, weather)
}
