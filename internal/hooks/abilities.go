package hooks

import (
	"fmt"

	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
)

// Ability identifiers. These are the tagged-variant values dispatched by
// every AbilityXxx function below — the "AbilityKind enum" from the design
// notes, represented as plain strings since identifiers already come from
// JSON move/species data.
const (
	AbilityPurePower       = "pure_power"
	AbilitySharpness       = "sharpness"
	AbilityTechnician      = "technician"
	AbilitySteelworker     = "steelworker"
	AbilityHustle          = "hustle"
	AbilityGuts            = "guts"
	AbilityFurCoat         = "fur_coat"
	AbilityThickFat        = "thick_fat"
	AbilitySwiftSwim       = "swift_swim"
	AbilityChlorophyll     = "chlorophyll"
	AbilityQuickFeet       = "quick_feet"
	AbilitySlowStart       = "slow_start"
	AbilityPrankster       = "prankster"
	AbilitySuperLuck       = "super_luck"
	AbilityMerciless       = "merciless"
	AbilityCompoundEyes    = "compound_eyes"
	AbilityContrary        = "contrary"
	AbilitySimple          = "simple"
	AbilityMagicBounce     = "magic_bounce"
	AbilityLightningRod    = "lightning_rod"
	AbilityStamina         = "stamina"
	AbilityCottonDown      = "cotton_down"
	AbilityBerserk         = "berserk"
	AbilityCompetitive     = "competitive"
	AbilityOpportunist     = "opportunist"
	AbilityIntimidate      = "intimidate"
	AbilityDownload        = "download"
	AbilityDrought         = "drought"
	AbilityReceiver        = "receiver"
	AbilityPowerOfAlchemy  = "power_of_alchemy"
	AbilityImmunity        = "immunity"
	AbilityInsomnia        = "insomnia"
	AbilityOwnTempo        = "own_tempo"
	AbilityClearBody       = "clear_body"
	AbilityLibero          = "libero"
	AbilityShadowTag       = "shadow_tag"
	AbilitySkillLink       = "skill_link"
	AbilityKlutz           = "klutz"
	AbilityUnnerve         = "unnerve"
	AbilityUnaware         = "unaware"
	AbilityParentalBond    = "parental_bond"
	AbilityMoody           = "moody"
)

// ModifyOffense implements the onModifyOffense ability value-hook applied to
// the attacker's offensive stat before the damage formula divides by
// defense.
func ModifyOffense(abilityID string, physical bool, atk int) int {
	switch abilityID {
	case AbilityPurePower:
		if physical {
			return atk * 2
		}
	}
	return atk
}

// ModifyOffenseForStatus implements Guts: physical offense ×1.5 while a
// primary status is present.
func ModifyOffenseForStatus(abilityID string, physical, statused bool, atk int) int {
	if abilityID == AbilityGuts && physical && statused {
		return atk * 3 / 2
	}
	return atk
}

// ModifyDefense implements the onModifyDefense ability value-hook applied to
// the defender's defensive stat.
func ModifyDefense(abilityID string, physical bool, def int) int {
	switch abilityID {
	case AbilityFurCoat:
		if physical {
			return def * 2
		}
	}
	return def
}

// ModifyPower implements the attacker-side onModifyPower ability value-hook.
func ModifyPower(abilityID string, moveType string, basePower, power int, hasSlicingTag bool) int {
	switch abilityID {
	case AbilitySharpness:
		if hasSlicingTag {
			return power * 3 / 2
		}
	case AbilityTechnician:
		if basePower <= 60 {
			return power * 3 / 2
		}
	case AbilitySteelworker:
		if moveType == "steel" {
			return power * 3 / 2
		}
	}
	return power
}

// DefensivePower implements the defender-side onDefensivePower ability
// value-hook (Thick Fat halves incoming fire/ice power).
func DefensivePower(abilityID string, moveType string, power int) int {
	switch abilityID {
	case AbilityThickFat:
		if moveType == "fire" || moveType == "ice" {
			return power / 2
		}
	}
	return power
}

// ModifyAccuracy implements the attacker-side onModifyAccuracy ability
// value-hook (Compound Eyes, Hustle's physical accuracy penalty).
func ModifyAccuracy(abilityID string, category battleCategory, accuracy float64) float64 {
	switch abilityID {
	case AbilityCompoundEyes:
		return accuracy * 1.3
	case AbilityHustle:
		if category == categoryPhysical {
			return accuracy * 0.8
		}
	}
	return accuracy
}

type battleCategory int

const (
	categoryOther battleCategory = iota
	categoryPhysical
	categorySpecial
)

// CategoryFromString converts a battledata category string to battleCategory.
func CategoryFromString(s string) battleCategory {
	switch s {
	case "physical":
		return categoryPhysical
	case "special":
		return categorySpecial
	default:
		return categoryOther
	}
}

// ModifyCritChance implements the attacker-side onModifyCritChance ability
// value-hook, returning a crit-STAGE delta (Super Luck +1; Merciless forces
// a guaranteed crit via a large sentinel stage when the target is poisoned).
func ModifyCritChance(abilityID string, targetPoisoned bool) int {
	switch abilityID {
	case AbilitySuperLuck:
		return 1
	case AbilityMerciless:
		if targetPoisoned {
			return 1 << 20 // sentinel: guarantees the >=3 "always crit" bucket
		}
	}
	return 0
}

// ModifySpeed implements the onModifySpeed ability value-hook (Swift
// Swim/Chlorophyll double speed in their weather; Quick Feet boosts a
// statused holder; Slow Start halves offense/speed for 5 turns after
// switch-in).
func ModifySpeed(abilityID string, weather string, statused bool, turnsSinceSwitchIn int, speed float64) float64 {
	switch abilityID {
	case AbilitySwiftSwim:
		if weather == "rain" {
			return speed * 2
		}
	case AbilityChlorophyll:
		if weather == "sun" {
			return speed * 2
		}
	case AbilityQuickFeet:
		if statused {
			return speed * 1.5
		}
	case AbilitySlowStart:
		if turnsSinceSwitchIn < 5 {
			return speed * 0.5
		}
	}
	return speed
}

// ModifyOffenseForSlowStart applies Slow Start's offense halving; kept
// separate from ModifyOffense because it additionally needs the
// turns-since-switch-in counter rather than just a category flag.
func ModifyOffenseForSlowStart(abilityID string, turnsSinceSwitchIn int, atk int) int {
	if abilityID == AbilitySlowStart && turnsSinceSwitchIn < 5 {
		return atk / 2
	}
	return atk
}

// ModifyPriority implements the onModifyPriority ability value-hook
// (Prankster: +1 priority on status moves).
func ModifyPriority(abilityID string, category string, priority int) int {
	if abilityID == AbilityPrankster && category == "status" {
		return priority + 1
	}
	return priority
}

// ModifyStageValue implements the onModifyStage ability value-hook used
// directly by the event applier (Contrary negates, Simple doubles).
func ModifyStageValue(abilityID string, stages map[creature.StageKey]int) map[creature.StageKey]int {
	switch abilityID {
	case AbilityContrary:
		out := make(map[creature.StageKey]int, len(stages))
		for k, v := range stages {
			out[k] = -v
		}
		return out
	case AbilitySimple:
		out := make(map[creature.StageKey]int, len(stages))
		for k, v := range stages {
			out[k] = v * 2
		}
		return out
	}
	return stages
}

// CheckSkillLink implements the onSkillLink check hook.
func CheckSkillLink(abilityID string) bool {
	return abilityID == AbilitySkillLink
}

// CheckItemUsable implements the onCheckItem check hook (Klutz prevents the
// holder from using any item; Unnerve is conventionally the opponent-side
// equivalent for berries, modeled here the same way per the design).
func CheckItemUsable(abilityID string) bool {
	switch abilityID {
	case AbilityKlutz, AbilityUnnerve:
		return false
	}
	return true
}

// CheckTrap implements the onTrap check hook (Shadow Tag traps any
// non-ghost opponent unless that opponent's ability is also Shadow Tag;
// ghost-type actives are exempt, checked by the caller).
func CheckTrap(ownerAbility, targetAbility string) bool {
	if ownerAbility != AbilityShadowTag {
		return false
	}
	return targetAbility != AbilityShadowTag
}

// CheckStatusImmunity implements the onCheckStatusImmunity check hook
// (Immunity blocks poison/toxic, Insomnia blocks sleep, Own Tempo blocks
// confusion).
func CheckStatusImmunity(abilityID, statusID string) bool {
	switch abilityID {
	case AbilityImmunity:
		return statusID == "poison" || statusID == "toxic"
	case AbilityInsomnia:
		return statusID == "sleep"
	case AbilityOwnTempo:
		return statusID == "confusion"
	}
	return false
}

// BlocksIntimidate reports whether an ability makes its holder immune to
// Intimidate's -1 attack (Own Tempo, the clear-body family).
func BlocksIntimidate(abilityID string) bool {
	return abilityID == AbilityOwnTempo || abilityID == AbilityClearBody
}

// UnawareActive reports whether the ability ignores the opposing side's
// stat stages during damage calculation.
func UnawareActive(abilityID string) bool {
	return abilityID == AbilityUnaware
}

// TryHit implements the ability-only onTryHit interceptor: given one event
// targeting this ability's owner, it may return a replacement event list
// (Lightning Rod absorbs electric damage and redirects it into a +1 SpA
// stage boost; Magic Bounce reflects a reflectable apply_status event back
// at its source).
func TryHit(abilityID string, ctx Context, ev events.Event) ([]events.Event, bool) {
	switch abilityID {
	case AbilityLightningRod:
		if ev.Kind == events.KindDamage && ctx.Move != nil && ctx.Move.Type == "electric" && !ev.Meta.Bounced {
			return []events.Event{
				events.Log(fmt.Sprintf("%s absorbed the attack with Lightning Rod!", ctx.Self.Name)),
				{
					Kind:     events.KindModifyStage,
					TargetID: ctx.Self.InstanceID,
					Stages:   map[creature.StageKey]int{creature.StageSpA: 1},
					Clamp:    true,
					ShowEvent: true,
				},
			}, true
		}
	case AbilityMagicBounce:
		if ev.Kind == events.KindApplyStatus && !ev.Meta.Bounced && ev.Meta.SourcePlayerID != "" && ctx.Other != nil {
			bounced := ev
			bounced.TargetID = ctx.Other.InstanceID
			bounced.Meta.Bounced = true
			return []events.Event{
				events.Log(fmt.Sprintf("%s bounced the effect back with Magic Bounce!", ctx.Self.Name)),
				bounced,
			}, true
		}
	}
	return nil, false
}

// AfterEvent implements the ability-only onAfterEvent reactor: given a
// just-emitted event that has not been applied yet, it may append extra
// events (Stamina: +1 def when
// damaged; Cotton Down: -1 spe to every other active when damaged; Berserk:
// +1 spa when HP crosses the 50% threshold; Competitive: +2 spa when an
// opponent's effect lowered this holder's stage; Opportunist: mirror a
// positive stage boost gained by the opponent).
func AfterEvent(abilityID string, ctx Context, ev events.Event) []events.Event {
	if ctx.Self == nil {
		return nil
	}
	switch abilityID {
	case AbilityStamina:
		if ev.Kind == events.KindDamage && ev.TargetID == ctx.Self.InstanceID && ev.Amount > 0 {
			return []events.Event{{
				Kind: events.KindModifyStage, TargetID: ctx.Self.InstanceID,
				Stages: map[creature.StageKey]int{creature.StageDef: 1}, Clamp: true, ShowEvent: true,
			}}
		}
	case AbilityCottonDown:
		if ev.Kind == events.KindDamage && ev.TargetID == ctx.Self.InstanceID && ev.Amount > 0 && ctx.State != nil {
			var out []events.Event
			for _, p := range ctx.State.Players {
				if p == nil {
					continue
				}
				for _, c := range p.Team {
					if c.InstanceID != ctx.Self.InstanceID && !c.IsFainted() && p.Active() == c {
						out = append(out, events.Event{
							Kind: events.KindModifyStage, TargetID: c.InstanceID,
							Stages: map[creature.StageKey]int{creature.StageSpe: -1}, Clamp: true, ShowEvent: true,
						})
					}
				}
			}
			return out
		}
	case AbilityBerserk:
		if ev.Kind == events.KindDamage && ev.TargetID == ctx.Self.InstanceID && ev.Amount > 0 {
			after := ctx.Self.HP - ev.Amount
			afterRatio := float64(after) / float64(ctx.Self.MaxHP)
			beforeRatio := float64(ctx.Self.HP) / float64(ctx.Self.MaxHP)
			if beforeRatio >= 0.5 && afterRatio < 0.5 {
				return []events.Event{{
					Kind: events.KindModifyStage, TargetID: ctx.Self.InstanceID,
					Stages: map[creature.StageKey]int{creature.StageSpA: 1}, Clamp: true, ShowEvent: true,
				}}
			}
		}
	case AbilityCompetitive:
		if ev.Kind == events.KindModifyStage && ev.TargetID == ctx.Self.InstanceID && ev.Meta.SourcePlayerID != "" && stagesSumNegative(ev.Stages) {
			return []events.Event{{
				Kind: events.KindModifyStage, TargetID: ctx.Self.InstanceID,
				Stages: map[creature.StageKey]int{creature.StageSpA: 2}, Clamp: true, ShowEvent: true,
			}}
		}
	case AbilityOpportunist:
		if ev.Kind == events.KindModifyStage && ev.TargetID != ctx.Self.InstanceID && stagesSumPositive(ev.Stages) && ctx.Other != nil && ev.TargetID == ctx.Other.InstanceID {
			return []events.Event{{
				Kind: events.KindModifyStage, TargetID: ctx.Self.InstanceID,
				Stages: copyStages(ev.Stages), Clamp: true, ShowEvent: true,
			}}
		}
	}
	return nil
}

func stagesSumNegative(m map[creature.StageKey]int) bool {
	total := 0
	for _, v := range m {
		total += v
	}
	return total < 0
}

func stagesSumPositive(m map[creature.StageKey]int) bool {
	total := 0
	for _, v := range m {
		total += v
	}
	return total > 0
}

func copyStages(m map[creature.StageKey]int) map[creature.StageKey]int {
	out := make(map[creature.StageKey]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SwitchIn implements onSwitchIn ability effects: Intimidate (-1 atk to all
// foes, once per stay), Download (+1 atk or spa based on the opponent's
// lower defensive stat, once), Drought (5 turns of sun, once), Receiver /
// Power of Alchemy (adopt an ally's last-fainted ability, if eligible).
func SwitchIn(abilityID string, ctx Context) Result {
	if ctx.Self == nil || ctx.Self.AbilityFlags["switch_in_triggered"] {
		if ctx.Self != nil && abilityNeedsOnceGuard(abilityID) {
			return Result{}
		}
	}
	switch abilityID {
	case AbilityIntimidate:
		return intimidateSwitchIn(ctx)
	case AbilityDownload:
		return downloadSwitchIn(ctx)
	case AbilityDrought:
		return droughtSwitchIn(ctx)
	case AbilityReceiver, AbilityPowerOfAlchemy:
		return receiverSwitchIn(ctx)
	}
	return Result{}
}

// OnTurnEndAbility implements the ability onTurnEnd phase (§4.3 step 5,
// after status onTurnEnd and before the field's residual): Moody raises one
// randomly-chosen stage by +2 and lowers a different randomly-chosen stage
// by -1, each selection an independent RNG draw. Slow Start's turn-1-5
// effect needs no turn-end action here; it is read directly off the
// turns-since-switch-in counter by ModifyOffenseForSlowStart/ModifySpeed.
func OnTurnEndAbility(abilityID string, ctx Context) []events.Event {
	if ctx.Self == nil {
		return nil
	}
	switch abilityID {
	case AbilityMoody:
		return moodyTurnEnd(ctx)
	}
	return nil
}

func moodyTurnEnd(ctx Context) []events.Event {
	if ctx.RNG == nil {
		return nil
	}
	keys := creature.AllStageKeys
	raiseIdx := int(ctx.RNG.Next() * float64(len(keys)))
	lowerIdx := int(ctx.RNG.Next() * float64(len(keys)))
	// A constant RNG source (e.g. minimax's fixed-0.5 search source) would
	// otherwise draw the same index twice; resolve the collision
	// deterministically instead of drawing again, keeping the draw count
	// fixed at exactly two regardless of the source.
	if lowerIdx == raiseIdx {
		lowerIdx = (lowerIdx + 1) % len(keys)
	}
	raise := keys[raiseIdx]
	lower := keys[lowerIdx]
	return []events.Event{
		{
			Kind: events.KindModifyStage, TargetID: ctx.Self.InstanceID,
			Stages: map[creature.StageKey]int{raise: 2}, Clamp: true, ShowEvent: true,
		},
		{
			Kind: events.KindModifyStage, TargetID: ctx.Self.InstanceID,
			Stages: map[creature.StageKey]int{lower: -1}, Clamp: true, ShowEvent: true,
		},
	}
}

func abilityNeedsOnceGuard(abilityID string) bool {
	switch abilityID {
	case AbilityIntimidate, AbilityDownload, AbilityDrought, AbilityReceiver, AbilityPowerOfAlchemy:
		return true
	}
	return false
}

func intimidateSwitchIn(ctx Context) Result {
	if ctx.Self.AbilityFlags["intimidate_used"] || ctx.State == nil {
		return Result{}
	}
	ctx.Self.AbilityFlags["intimidate_used"] = true
	var out []events.Event
	for _, p := range ctx.State.Players {
		if p == nil || p == ctx.SelfSide {
			continue
		}
		active := p.Active()
		if active == nil || active.IsFainted() {
			continue
		}
		if BlocksIntimidate(active.AbilityID) {
			out = append(out, events.Log(fmt.Sprintf("%s's ability blocks Intimidate!", active.Name)))
			continue
		}
		out = append(out, events.Event{
			Kind: events.KindModifyStage, TargetID: active.InstanceID,
			Stages: map[creature.StageKey]int{creature.StageAtk: -1}, Clamp: true, ShowEvent: true,
		})
	}
	return Result{Events: out}
}

func downloadSwitchIn(ctx Context) Result {
	if ctx.Self.AbilityFlags["download_used"] || ctx.Other == nil {
		return Result{}
	}
	ctx.Self.AbilityFlags["download_used"] = true
	key := creature.StageAtk
	if ctx.Other.SpD < ctx.Other.Def {
		key = creature.StageSpA
	}
	return Result{Events: []events.Event{{
		Kind: events.KindModifyStage, TargetID: ctx.Self.InstanceID,
		Stages: map[creature.StageKey]int{key: 1}, Clamp: true, ShowEvent: true,
	}}}
}

func droughtSwitchIn(ctx Context) Result {
	if ctx.Self.AbilityFlags["drought_used"] {
		return Result{}
	}
	ctx.Self.AbilityFlags["drought_used"] = true
	dur := 5
	return Result{Events: []events.Event{{
		Kind: events.KindApplyFieldStatus, FieldID: "sun", Duration: &dur,
	}}}
}

func receiverSwitchIn(ctx Context) Result {
	if ctx.Self.AbilityFlags["receiver_used"] || ctx.SelfSide == nil {
		return Result{}
	}
	ctx.Self.AbilityFlags["receiver_used"] = true
	if ctx.SelfSide.LastFaintedAbility == "" {
		return Result{}
	}
	ctx.Self.AbilityID = ctx.SelfSide.LastFaintedAbility
	return Result{Events: []events.Event{events.Log(fmt.Sprintf("%s copied %s's ability!", ctx.Self.Name, "an ally"))}}
}

// OverwriteTypeForLibero implements Libero: before the holder acts, its
// types are overwritten to exactly the move's type, once per switch-in, so
// STAB is then computed against the new type.
func OverwriteTypeForLibero(abilityID string, c *creature.Creature, moveType string) {
	if abilityID != AbilityLibero {
		return
	}
	if c.AbilityFlags["libero_used"] {
		return
	}
	c.AbilityFlags["libero_used"] = true
	c.Types = []string{moveType}
}

// ResetOnceGuards clears ability scratch flags that are scoped to "once per
// stay" (called by the turn resolver's switch event handling, immediately
// before onSwitchIn fires for the incoming creature).
func ResetOnceGuards(c *creature.Creature) {
	delete(c.AbilityFlags, "intimidate_used")
	delete(c.AbilityFlags, "download_used")
	delete(c.AbilityFlags, "drought_used")
	delete(c.AbilityFlags, "receiver_used")
	delete(c.AbilityFlags, "libero_used")
}
