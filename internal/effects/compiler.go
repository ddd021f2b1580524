package effects

import (
	"fmt"
	"math"

	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
	"github.com/Mori-kamiyama/nikopoke/internal/hooks"
)

// CompileAll lowers every effect of a move in order, concatenating the
// resulting event sequences.
func (c *Compiler) CompileAll(ctx Context, effs []battledata.Effect) []events.Event {
	var out []events.Event
	for _, eff := range effs {
		out = append(out, c.Compile(ctx, eff)...)
	}
	return out
}

// Compile lowers a single declarative Effect into an ordered Event
// sequence, resolving every RNG draw it needs along the way.
func (c *Compiler) Compile(ctx Context, eff battledata.Effect) []events.Event {
	switch eff.Kind {
	case battledata.EffectDamage:
		return c.compileDamage(ctx, eff)
	case battledata.EffectSpeedBasedDamage:
		return c.compileSpeedBasedDamage(ctx, eff)
	case battledata.EffectOHKO:
		return c.compileOHKO(ctx, eff)
	case battledata.EffectApplyStatus:
		return c.compileApplyStatus(ctx, eff)
	case battledata.EffectRemoveStatus:
		return []events.Event{{Kind: events.KindRemoveStatus, TargetID: c.targetID(ctx, eff), StatusID: eff.StatusID}}
	case battledata.EffectReplaceStatus:
		return []events.Event{{Kind: events.KindReplaceStatus, TargetID: c.targetID(ctx, eff), From: eff.From, To: eff.To, Duration: c.resolveDuration(ctx, eff.Duration), Data: eff.Data}}
	case battledata.EffectCureAllStatus:
		return []events.Event{{Kind: events.KindCureAllStatus, TargetID: c.targetID(ctx, eff)}}
	case battledata.EffectApplyFieldStatus:
		return []events.Event{{Kind: events.KindApplyFieldStatus, FieldID: eff.FieldID, Duration: c.resolveDuration(ctx, eff.Duration), Data: eff.Data, Stack: eff.Stack}}
	case battledata.EffectRemoveFieldStat:
		return []events.Event{{Kind: events.KindRemoveFieldStatus, FieldID: eff.FieldID}}
	case battledata.EffectModifyStage:
		return []events.Event{c.compileModifyStage(ctx, eff)}
	case battledata.EffectClearStages:
		return []events.Event{{Kind: events.KindClearStages, TargetID: c.targetID(ctx, eff)}}
	case battledata.EffectResetStages:
		return []events.Event{{Kind: events.KindResetStages, TargetID: c.targetID(ctx, eff)}}
	case battledata.EffectDisableMove:
		dur := 4
		return []events.Event{{
			Kind: events.KindApplyStatus, TargetID: ctx.Target.InstanceID, StatusID: "disable_move",
			Duration: &dur, Data: map[string]interface{}{"moveId": eff.MoveID},
		}}
	case battledata.EffectChance:
		return c.compileChance(ctx, eff)
	case battledata.EffectRepeat:
		return c.compileRepeat(ctx, eff)
	case battledata.EffectConditional:
		return c.compileConditional(ctx, eff)
	case battledata.EffectDamageRatio:
		return c.compileDamageRatio(ctx, eff)
	case battledata.EffectDelay:
		return c.compileDelay(ctx, eff, "delayed_effect")
	case battledata.EffectOverTime:
		return c.compileDelay(ctx, eff, "over_time_effect")
	case battledata.EffectApplyItem:
		return []events.Event{{Kind: events.KindApplyItem, TargetID: c.targetID(ctx, eff), ItemID: eff.ItemID}}
	case battledata.EffectRemoveItem:
		return []events.Event{{Kind: events.KindRemoveItem, TargetID: c.targetID(ctx, eff)}}
	case battledata.EffectConsumeItem:
		return []events.Event{{Kind: events.KindConsumeItem, TargetID: c.targetID(ctx, eff), ItemID: eff.ItemID}}
	case battledata.EffectProtect:
		return c.compileProtect(ctx)
	case battledata.EffectSelfSwitch:
		return []events.Event{{Kind: events.KindSelfSwitch, TargetID: ctx.Attacker.InstanceID}}
	case battledata.EffectForceSwitch:
		return []events.Event{{Kind: events.KindForceSwitch, TargetID: ctx.Target.InstanceID}}
	case battledata.EffectLog:
		return []events.Event{events.Log(eff.Message)}
	case battledata.EffectRandomMove:
		return []events.Event{{Kind: events.KindRandomMove, Pool: eff.Pool}}
	}
	return nil
}

// targetID resolves the nominal target of an effect: "self" names the
// attacker, anything else (including the empty default) names the move's
// target.
func (c *Compiler) targetID(ctx Context, eff battledata.Effect) string {
	if eff.Target == "self" {
		return ctx.Attacker.InstanceID
	}
	return ctx.Target.InstanceID
}

func (c *Compiler) resolveDuration(ctx Context, d *battledata.DurationSpec) *int {
	if d == nil {
		return nil
	}
	if !d.IsRange() {
		v := *d.Fixed
		return &v
	}
	v := d.Min + int(ctx.RNG.Next()*float64(d.Max-d.Min+1))
	if v > d.Max {
		v = d.Max
	}
	return &v
}

func (c *Compiler) compileDamage(ctx Context, eff battledata.Effect) []events.Event {
	power := 0
	if eff.Power != nil {
		power = *eff.Power
	}
	accuracy := 1.0
	if eff.Accuracy != nil {
		accuracy = *eff.Accuracy
	}
	return c.resolveAndEmitDamage(ctx, power, accuracy)
}

func (c *Compiler) resolveAndEmitDamage(ctx Context, power int, accuracy float64) []events.Event {
	category := hooks.CategoryFromString(string(ctx.Move.Category))
	effAccuracy := c.Hooks.ModifyAccuracy(ctx.Attacker.AbilityID, category, accuracy)

	if ctx.RNG.Next() >= effAccuracy {
		return []events.Event{events.Log(fmt.Sprintf("%s's attack missed!", ctx.Attacker.Name))}
	}

	out := []events.Event{events.Log(fmt.Sprintf("%s used %s!", ctx.Attacker.Name, ctx.Move.Name))}

	result := c.rollDamage(ctx, power)
	if result.effectiveness == 0 {
		return append(out, events.Log(fmt.Sprintf("It doesn't affect %s...", ctx.Target.Name)))
	}
	if result.crit {
		out = append(out, events.Log("A critical hit!"))
	}
	if result.effectiveness > 1 {
		out = append(out, events.Log("It's super effective!"))
	} else if result.effectiveness < 1 {
		out = append(out, events.Log("It's not very effective..."))
	}
	out = append(out, events.Event{
		Kind: events.KindDamage, TargetID: ctx.Target.InstanceID, Amount: result.amount,
		Meta: events.Meta{SourcePlayerID: ctx.AttackerSide.ID, MoveID: ctx.Move.ID, Cancellable: true},
	})

	if ctx.Attacker.AbilityID == "parental_bond" {
		bond := c.rollDamage(ctx, power/4)
		if bond.effectiveness > 0 {
			out = append(out, events.Event{
				Kind: events.KindDamage, TargetID: ctx.Target.InstanceID, Amount: bond.amount,
				Meta: events.Meta{SourcePlayerID: ctx.AttackerSide.ID, MoveID: ctx.Move.ID, ParentalBond: true, Cancellable: true},
			})
		}
	}
	return out
}

func (c *Compiler) compileSpeedBasedDamage(ctx Context, eff battledata.Effect) []events.Event {
	targetSpeed := effectiveSpeed(c, ctx.State, ctx.Target)
	attackerSpeed := effectiveSpeed(c, ctx.State, ctx.Attacker)
	ratio := math.MaxFloat64
	if targetSpeed > 0 {
		ratio = attackerSpeed / targetSpeed
	}
	power := 0
	if eff.BasePower != nil {
		power = *eff.BasePower
	}
	best := -1.0
	for _, t := range eff.Thresholds {
		if t.Ratio <= ratio && t.Ratio > best {
			best = t.Ratio
			power = t.Power
		}
	}
	accuracy := 1.0
	if eff.Accuracy != nil {
		accuracy = *eff.Accuracy
	}
	return c.resolveAndEmitDamage(ctx, power, accuracy)
}

func (c *Compiler) compileOHKO(ctx Context, eff battledata.Effect) []events.Event {
	if ctx.Attacker.Level < ctx.Target.Level {
		return []events.Event{events.Log(fmt.Sprintf("%s's attack missed!", ctx.Attacker.Name))}
	}
	if eff.RespectTypeImmunity {
		for _, it := range eff.ImmuneTypes {
			if ctx.Target.HasType(it) {
				return []events.Event{events.Log(fmt.Sprintf("It doesn't affect %s...", ctx.Target.Name))}
			}
		}
	}
	accuracy := 0.0
	if eff.BaseAccuracy != nil {
		accuracy = *eff.BaseAccuracy
	}
	if eff.RequiredType != "" && !ctx.Attacker.HasType(eff.RequiredType) && eff.NonMatchingTypeAccuracy != nil {
		accuracy = *eff.NonMatchingTypeAccuracy
	}
	accuracy += float64(ctx.Attacker.Level-ctx.Target.Level) / 100
	accuracy = clamp01(accuracy)

	if ctx.RNG.Next() >= accuracy {
		return []events.Event{events.Log(fmt.Sprintf("%s's attack missed!", ctx.Attacker.Name))}
	}
	return []events.Event{
		events.Log(fmt.Sprintf("%s used %s!", ctx.Attacker.Name, ctx.Move.Name)),
		events.Log("It's a one-hit KO!"),
		{Kind: events.KindDamage, TargetID: ctx.Target.InstanceID, Amount: ctx.Target.HP},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Compiler) compileApplyStatus(ctx Context, eff battledata.Effect) []events.Event {
	if eff.StatusID == "item" || eff.StatusID == "berry" {
		itemID, _ := eff.Data["itemId"].(string)
		return []events.Event{{Kind: events.KindApplyItem, TargetID: c.targetID(ctx, eff), ItemID: itemID}}
	}
	data := eff.Data
	if data != nil {
		if src, ok := data["sourceId"].(string); ok && src == "self" {
			cp := make(map[string]interface{}, len(data))
			for k, v := range data {
				cp[k] = v
			}
			cp["sourceId"] = ctx.AttackerSide.ID
			data = cp
		}
	}
	return []events.Event{{
		Kind: events.KindApplyStatus, TargetID: c.targetID(ctx, eff), StatusID: eff.StatusID,
		Duration: c.resolveDuration(ctx, eff.Duration), Stack: eff.Stack, Data: data,
	}}
}

func (c *Compiler) compileModifyStage(ctx Context, eff battledata.Effect) events.Event {
	stages := make(map[creature.StageKey]int, len(eff.Stages))
	for k, v := range eff.Stages {
		stages[creature.StageKey(k)] = v
	}
	return events.Event{
		Kind: events.KindModifyStage, TargetID: c.targetID(ctx, eff), Stages: stages,
		Clamp: eff.ClampEnabled(), FailIfNoChange: eff.FailIfNoChange, ShowEvent: eff.ShowEventEnabled(),
	}
}

func (c *Compiler) compileChance(ctx Context, eff battledata.Effect) []events.Event {
	if ctx.RNG.Next() <= eff.P {
		return c.CompileAll(ctx, eff.Then)
	}
	return c.CompileAll(ctx, eff.Else)
}

func (c *Compiler) compileRepeat(ctx Context, eff battledata.Effect) []events.Event {
	n := 1
	if eff.Times != nil {
		if !eff.Times.IsRange() {
			n = *eff.Times.Fixed
		} else if c.Hooks.CheckSkillLink(ctx.Attacker.AbilityID) {
			n = eff.Times.Max
		} else {
			n = eff.Times.Min + int(ctx.RNG.Next()*float64(eff.Times.Max-eff.Times.Min+1))
			if n > eff.Times.Max {
				n = eff.Times.Max
			}
		}
	}
	var out []events.Event
	if n > 1 {
		out = append(out, events.Log(fmt.Sprintf("Hit %d time(s)!", n)))
	}
	for i := 0; i < n; i++ {
		out = append(out, c.CompileAll(ctx, eff.Effects)...)
	}
	return out
}

func (c *Compiler) compileConditional(ctx Context, eff battledata.Effect) []events.Event {
	if eff.If != nil && c.evalCondition(ctx, *eff.If) {
		return c.CompileAll(ctx, eff.Then)
	}
	return c.CompileAll(ctx, eff.Else)
}

func (c *Compiler) evalCondition(ctx Context, cond battledata.Condition) bool {
	switch cond.Kind {
	case battledata.ConditionTargetHasStatus:
		return ctx.Target.HasStatus(cond.StatusID)
	case battledata.ConditionUserHasStatus:
		return ctx.Attacker.HasStatus(cond.StatusID)
	case battledata.ConditionTargetHasItem:
		return ctx.Target.ItemID != "" || ctx.Target.HasStatus("item") || ctx.Target.HasStatus("berry")
	case battledata.ConditionUserHasItem:
		return ctx.Attacker.ItemID != "" || ctx.Attacker.HasStatus("item") || ctx.Attacker.HasStatus("berry")
	case battledata.ConditionUserType:
		return ctx.Attacker.HasType(cond.TypeID)
	case battledata.ConditionTargetHPLT:
		return float64(ctx.Target.HP)/float64(ctx.Target.MaxHP) < cond.Ratio
	case battledata.ConditionFieldHasStatus:
		_, ok := ctx.State.Field.FindGlobal(cond.FieldID)
		return ok
	case battledata.ConditionWeatherSunny:
		w, ok := ctx.State.Field.CurrentWeather()
		return ok && w == "sun"
	case battledata.ConditionWeatherRaining:
		w, ok := ctx.State.Field.CurrentWeather()
		return ok && w == "rain"
	case battledata.ConditionWeatherHail:
		w, ok := ctx.State.Field.CurrentWeather()
		return ok && w == "hail"
	case battledata.ConditionWeatherSandstrm:
		w, ok := ctx.State.Field.CurrentWeather()
		return ok && w == "sandstorm"
	}
	return false
}

func (c *Compiler) compileDamageRatio(ctx Context, eff battledata.Effect) []events.Event {
	target := ctx.Target
	if eff.Target == "self" {
		target = ctx.Attacker
	}
	amount := int(math.Floor(float64(target.MaxHP) * eff.RatioMaxHp))
	if eff.RatioMaxHp >= 0 && amount < 1 {
		amount = 1
	}
	return []events.Event{{Kind: events.KindDamage, TargetID: target.InstanceID, Amount: amount}}
}

func (c *Compiler) compileDelay(ctx Context, eff battledata.Effect, statusID string) []events.Event {
	// delayed_effect removes itself when it fires, so it carries no duration
	// that could expire before the trigger turn; over_time_effect lives for
	// afterTurns turns and relies on the ordinary tick.
	var dur *int
	if statusID == "over_time_effect" {
		d := eff.AfterTurns
		dur = &d
	}
	target := ctx.Target
	if eff.Target == "self" {
		target = ctx.Attacker
	}
	data := map[string]interface{}{
		"triggerTurn": ctx.State.Turn + eff.AfterTurns,
		"timing":      eff.Timing,
		"sourceId":    ctx.AttackerSide.ID,
		"targetId":    target.InstanceID,
		"effects":     eff.Effects,
		"moveId":      ctx.Move.ID,
	}
	return []events.Event{{
		Kind: events.KindApplyStatus, TargetID: target.InstanceID, StatusID: statusID,
		Duration: dur, Data: data,
	}}
}

func (c *Compiler) compileProtect(ctx Context) []events.Event {
	chance := 1.0
	for i := 0; i < ctx.Attacker.ProtectSuccessCount; i++ {
		chance *= 0.5
	}
	if ctx.RNG.Next() >= chance {
		ctx.Attacker.ProtectSuccessCount = 0
		return []events.Event{events.Log(fmt.Sprintf("%s's protection failed!", ctx.Attacker.Name))}
	}
	ctx.Attacker.ProtectSuccessCount++
	dur := 1
	return []events.Event{
		events.Log(fmt.Sprintf("%s protected itself!", ctx.Attacker.Name)),
		{Kind: events.KindApplyStatus, TargetID: ctx.Attacker.InstanceID, StatusID: "protect", Duration: &dur,
			Data: map[string]interface{}{"sourceId": ctx.AttackerSide.ID}},
	}
}
