package effects

import (
	"math"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/hooks"
)

// critChance converts a crit stage into a probability, per the fixed table:
// 0.125 at stage 1, 0.5 at stage 2, 1.0 at stage >= 3. Merciless returns a
// large sentinel stage to force the guaranteed-crit bucket.
func critChance(stage int) float64 {
	switch {
	case stage <= 0:
		return 0
	case stage == 1:
		return 0.125
	case stage == 2:
		return 0.5
	default:
		return 1.0
	}
}

// effectiveOffense computes the attacker's offensive stat for category,
// passed through the ability value-hook, honoring crit (negative stages
// ignored) and Unaware (opponent ignores this side's stages entirely).
func effectiveOffense(c *Compiler, attacker *creature.Creature, physical, crit, opponentUnaware bool) int {
	var base int
	var stageKey creature.StageKey
	if physical {
		base, stageKey = attacker.Atk, creature.StageAtk
	} else {
		base, stageKey = attacker.SpA, creature.StageSpA
	}
	stage := attacker.Stages[stageKey]
	if opponentUnaware {
		stage = 0
	} else if crit && stage < 0 {
		stage = 0
	}
	stat := float64(base) * creature.StageMultiplier(stage)
	if physical && attacker.HasStatus("burn") {
		stat *= 0.5
	}
	turnsSinceSwitchIn := math.MaxInt32
	if v, ok := attacker.Scratch["turnsSinceSwitchIn"].(int); ok {
		turnsSinceSwitchIn = v
	}
	modified := c.Hooks.ModifyOffense(attacker.AbilityID, physical, int(stat))
	modified = c.Hooks.ModifyOffenseForSlowStart(attacker.AbilityID, turnsSinceSwitchIn, modified)
	return c.Hooks.ModifyOffenseForStatus(attacker.AbilityID, physical, hasAnyPrimary(attacker), modified)
}

// effectiveDefense computes the defender's defensive stat for category,
// passed through the ability value-hook, honoring crit (positive stages
// ignored) and an Unaware attacker (all of the defender's stages ignored).
func effectiveDefense(c *Compiler, defender *creature.Creature, physical, crit, attackerUnaware bool) int {
	var base int
	var stageKey creature.StageKey
	if physical {
		base, stageKey = defender.Def, creature.StageDef
	} else {
		base, stageKey = defender.SpD, creature.StageSpD
	}
	stage := defender.Stages[stageKey]
	if attackerUnaware {
		stage = 0
	} else if crit && stage > 0 {
		stage = 0
	}
	stat := float64(base) * creature.StageMultiplier(stage)
	return c.Hooks.ModifyDefense(defender.AbilityID, physical, int(stat))
}

// damageResult is the outcome of one resolved damage roll.
type damageResult struct {
	amount      int
	crit        bool
	effectiveness float64
}

// rollDamage computes one hit of damage per §4.2.1. It consumes exactly one
// RNG draw for the crit check (only when the crit chance is strictly between
// 0 and 1) and one for the damage roll;
// callers are responsible for the preceding accuracy draw.
func (c *Compiler) rollDamage(ctx Context, power int) damageResult {
	physical := ctx.Move.Category == battledata.CategoryPhysical
	unawareAttacker := c.Hooks.UnawareActive(ctx.Attacker.AbilityID)
	unawareDefender := c.Hooks.UnawareActive(ctx.Target.AbilityID)

	critStage := ctx.Move.CritRate + c.Hooks.ModifyCritChance(ctx.Attacker.AbilityID, hasAnyStatus(ctx.Target, "poison", "toxic"))
	chance := critChance(critStage)
	crit := false
	if chance > 0 {
		if chance >= 1.0 || ctx.RNG.Next() < chance {
			crit = true
		}
	}

	atk := effectiveOffense(c, ctx.Attacker, physical, crit, unawareDefender)
	def := effectiveDefense(c, ctx.Target, physical, crit, unawareAttacker)
	if def == 0 {
		def = 1
	}

	effectivePower := c.Hooks.ModifyPower(ctx.Attacker.AbilityID, ctx.Move.Type, power, power, ctx.Move.HasTag("slicing"))
	effectivePower = c.Hooks.DefensivePower(ctx.Target.AbilityID, ctx.Move.Type, effectivePower)

	weather := ""
	if w, ok := ctx.State.Field.CurrentWeather(); ok {
		weather = w
	}
	effectivePower = int(float64(effectivePower) * hooks.WeatherDamageMultiplier(weather, ctx.Move.Type))

	base := ((2*float64(ctx.Attacker.Level)/5+2)*float64(effectivePower)*float64(atk)/float64(def))/50 + 2

	roll := 0.85 + 0.15*ctx.RNG.Next()

	stab := 1.0
	if ctx.Attacker.HasType(ctx.Move.Type) {
		stab = 1.5
	}

	effectiveness := battledata.Effectiveness(ctx.Move.Type, ctx.Target.Types)

	critMult := 1.0
	if crit {
		critMult = 1.5
	}

	if effectiveness == 0 {
		return damageResult{amount: 0, crit: crit, effectiveness: 0}
	}

	final := int(math.Floor(base * roll * critMult * stab * effectiveness))
	if final < 1 {
		final = 1
	}
	return damageResult{amount: final, crit: crit, effectiveness: effectiveness}
}

func hasAnyStatus(c *creature.Creature, ids ...string) bool {
	for _, id := range ids {
		if c.HasStatus(id) {
			return true
		}
	}
	return false
}

// effectiveSpeed computes a creature's current-turn speed: base stat times
// stage multiplier, passed through the ability value-hook (Swift
// Swim/Chlorophyll/Quick Feet/Slow Start).
func effectiveSpeed(c *Compiler, state *battle.State, cr *creature.Creature) float64 {
	weather, _ := state.Field.CurrentWeather()
	stat := float64(cr.Spe) * creature.StageMultiplier(cr.Stages[creature.StageSpe])
	if cr.HasStatus("paralysis") {
		stat *= 0.5
	}
	statused := hasAnyPrimary(cr)
	turnsSinceSwitchIn := 0
	if v, ok := cr.Scratch["turnsSinceSwitchIn"].(int); ok {
		turnsSinceSwitchIn = v
	} else {
		turnsSinceSwitchIn = math.MaxInt32
	}
	return c.Hooks.ModifySpeed(cr.AbilityID, weather, statused, turnsSinceSwitchIn, stat)
}

func hasAnyPrimary(c *creature.Creature) bool {
	_, ok := c.PrimaryStatus()
	return ok
}
