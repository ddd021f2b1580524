package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
	"github.com/Mori-kamiyama/nikopoke/internal/hooks"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
)

// TestDamageClampsToHPBounds covers quantified invariant 1: hp never leaves
// [0, maxHp] regardless of overkill damage or overheal.
func TestDamageClampsToHPBounds(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Ability: "pressure"}, 50)
	applier := hooks.New().AsEventsApplier()
	s := newTwoPlayerState(a, mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Ability: "pressure"}, 50))

	applier.Apply(s, events.Event{Kind: events.KindDamage, TargetID: a.InstanceID, Amount: 9999})
	assert.Equal(t, 0, a.HP)

	applier.Apply(s, events.Event{Kind: events.KindDamage, TargetID: a.InstanceID, Amount: -9999})
	assert.Equal(t, a.MaxHP, a.HP)
}

// TestBurnAndPoisonResidualDamageAmounts covers §4.4's residual-status
// damage fractions: burn deals 1/16 maxHp per turn end, poison deals 1/8 —
// twice as much as burn, not the same amount.
func TestBurnAndPoisonResidualDamageAmounts(t *testing.T) {
	reg := loadTestRegistry(t)
	burned := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Ability: "pressure"}, 160)
	poisoned := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Ability: "pressure"}, 160)
	s := newTwoPlayerState(burned, poisoned)

	burnEvents := hooks.OnTurnEnd(hooks.Context{State: s, Self: burned}, &creature.VolatileStatus{ID: hooks.StatusBurn})
	require.Len(t, burnEvents, 1)
	assert.Equal(t, 10, burnEvents[0].Amount, "160/16 = 10")

	poisonEvents := hooks.OnTurnEnd(hooks.Context{State: s, Self: poisoned}, &creature.VolatileStatus{ID: hooks.StatusPoison})
	require.Len(t, poisonEvents, 1)
	assert.Equal(t, 20, poisonEvents[0].Amount, "160/8 = 20, twice burn's fraction")
}

// TestStageModifyClampsToBounds covers quantified invariant 2: stage entries
// stay within [-6, +6] when Clamp is requested.
func TestStageModifyClampsToBounds(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Ability: "pressure"}, 100)
	applier := hooks.New().AsEventsApplier()
	s := newTwoPlayerState(a, mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Ability: "pressure"}, 100))

	applier.Apply(s, events.Event{
		Kind: events.KindModifyStage, TargetID: a.InstanceID,
		Stages: map[creature.StageKey]int{creature.StageAtk: 20}, Clamp: true,
	})
	assert.Equal(t, 6, a.Stages[creature.StageAtk])

	applier.Apply(s, events.Event{
		Kind: events.KindModifyStage, TargetID: a.InstanceID,
		Stages: map[creature.StageKey]int{creature.StageAtk: -40}, Clamp: true,
	})
	assert.Equal(t, -6, a.Stages[creature.StageAtk])
}

// TestWeatherEvictsPriorWeather covers quantified invariant 3: at most one
// weather entry is ever present in field.global.
func TestWeatherEvictsPriorWeather(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Ability: "pressure"}, 100)
	applier := hooks.New().AsEventsApplier()
	s := newTwoPlayerState(a, b)

	applier.Apply(s, events.Event{Kind: events.KindApplyFieldStatus, FieldID: "rain"})
	applier.Apply(s, events.Event{Kind: events.KindApplyFieldStatus, FieldID: "sun"})

	weatherCount := 0
	for _, e := range s.Field.Global {
		if battle.IsWeather(e.ID) {
			weatherCount++
		}
	}
	assert.Equal(t, 1, weatherCount)
	w, ok := s.Field.CurrentWeather()
	require.True(t, ok)
	assert.Equal(t, "sun", w)
}

// TestActiveSlotStaysValid covers quantified invariant 3's other half: the
// resolver never leaves activeSlot pointing outside the team.
func TestActiveSlotStaysValid(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)

	next, err := r.Step(state,
		[]battle.Action{
			{Type: battle.ActionMove, PlayerID: "p1", MoveID: "tackle"},
			{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
		},
		rng.NewReplaySource([]float64{0.1, 0.1}), Options{})
	require.NoError(t, err)

	for _, p := range next.Players {
		assert.True(t, p.ActiveSlot >= 0 && p.ActiveSlot < len(p.Team))
	}
}

// TestSwitchOutClearsVolatileState covers quantified invariant 4: a switch
// zeroes stages and scratch, and only primary statuses survive.
func TestSwitchOutClearsVolatileState(t *testing.T) {
	reg := loadTestRegistry(t)
	a1 := mustCreature(t, reg, "tatuta", "A1", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	a2 := mustCreature(t, reg, "morimitu", "A2", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)

	a1.Stages[creature.StageAtk] = 3
	a1.Statuses = append(a1.Statuses,
		creature.VolatileStatus{ID: "confusion"},
		creature.VolatileStatus{ID: "burn", Primary: true},
	)
	a1.Scratch["scouted"] = true

	p0 := &battle.Player{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a1, a2}}
	p1 := &battle.Player{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}}
	state := battle.NewState(p0, p1, false)

	r := NewResolver(reg)
	slot := 1
	next, err := r.Step(state,
		[]battle.Action{
			{Type: battle.ActionSwitch, PlayerID: "p1", Slot: &slot},
			{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
		},
		rng.NewReplaySource([]float64{0.1, 0.1, 0.5, 0.5}), Options{})
	require.NoError(t, err)

	outgoing := next.Players[0].Team[0]
	assert.Equal(t, 0, outgoing.Stages[creature.StageAtk])
	assert.Empty(t, outgoing.Scratch)
	assert.False(t, outgoing.HasStatus("confusion"))
	assert.True(t, outgoing.HasStatus("burn"))
}

// TestHistoryLengthMatchesTurnCount covers quantified invariant 5.
func TestHistoryLengthMatchesTurnCount(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 500)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 500)
	p0 := &battle.Player{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a}}
	p1 := &battle.Player{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}}
	state := battle.NewState(p0, p1, true)
	r := NewResolver(reg)

	for i := 0; i < 3; i++ {
		next, err := r.Step(state,
			[]battle.Action{
				{Type: battle.ActionMove, PlayerID: "p1", MoveID: "tackle"},
				{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
			},
			rng.NewReplaySource([]float64{0.1, 0.1, 0.5, 0.5, 0.5, 0.5}), Options{RecordHistory: true})
		require.NoError(t, err)
		state = next
		assert.Equal(t, state.Turn, len(state.History.Turns))
	}
}

// TestTypeImmunityDealsNoDamage covers the immunity half of boundary
// behavior 8: damage is exactly 0, with a special log, when the move has no
// effect on the target's type.
func TestTypeImmunityDealsNoDamage(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"poltergeist"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure", Item: "leftovers"}, 200)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)

	// ghost-type poltergeist is immune against the normal-type defender.
	next, err := r.Step(state,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "poltergeist"}},
		rng.NewReplaySource([]float64{0.1, 0.1, 0.5}), Options{})
	require.NoError(t, err)
	assert.Equal(t, 200, findActive(next, "p2").HP)
	assert.Contains(t, next.Log, "It doesn't affect B...")
}

// TestProtectSuccessHalvesAndResets covers boundary behavior 10: Protect's
// success chance halves on consecutive uses and a failure resets it.
func TestProtectSuccessHalvesAndResets(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"protect"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)

	// First use: chance is 1.0, any draw below 1.0 succeeds.
	turn1, err := r.Step(state,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "protect"}},
		rng.NewReplaySource([]float64{0.1, 0.99}), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, findActive(turn1, "p1").ProtectSuccessCount)

	// Second consecutive use: chance is 0.5; a draw of 0.9 must fail and
	// reset the counter to 0.
	turn2, err := r.Step(turn1,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "protect"}},
		rng.NewReplaySource([]float64{0.1, 0.9}), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, findActive(turn2, "p1").ProtectSuccessCount)
}

// TestMoodyRandomizesStagesAtTurnEnd covers §4.4's ability onTurnEnd phase:
// Moody raises one stage by +2 and lowers a different stage by -1 every
// turn end, even with no statuses or field effects in play.
func TestMoodyRandomizesStagesAtTurnEnd(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "moody"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)

	next, err := r.Step(state,
		[]battle.Action{
			{Type: battle.ActionMove, PlayerID: "p1", MoveID: "tackle"},
			{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
		},
		rng.NewReplaySource([]float64{0.1, 0.1, 0.5, 0.5, 0.5, 0.5}), Options{})
	require.NoError(t, err)

	aAfter := findActive(next, "p1")
	raised, lowered := 0, 0
	for _, k := range creature.AllStageKeys {
		switch aAfter.Stages[k] {
		case 2:
			raised++
		case -1:
			lowered++
		case 0:
		default:
			t.Fatalf("unexpected stage value %d for %s", aAfter.Stages[k], k)
		}
	}
	assert.Equal(t, 1, raised, "Moody must raise exactly one stage by 2")
	assert.Equal(t, 1, lowered, "Moody must lower exactly one (different) stage by 1")
}

// TestDelayedEffectFiresOnceAtCapturedTriggerTurn covers §4.2's delay
// effect: the captured nested effect list fires exactly once, the turn
// state.turn reaches the triggerTurn recorded when the status was applied,
// and the status removes itself afterward.
func TestDelayedEffectFiresOnceAtCapturedTriggerTurn(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 300)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle", "future_strike"}, Ability: "pressure"}, 300)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)
	source := rng.NewFixedSource(0.1)

	next, err := r.Step(state, []battle.Action{{Type: battle.ActionMove, PlayerID: "p2", MoveID: "future_strike"}}, source, Options{})
	require.NoError(t, err)
	hpAfterCast := findActive(next, "p1").HP
	require.Equal(t, 300, hpAfterCast, "future_strike deals no immediate damage")

	next, err = r.Step(next, nil, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, hpAfterCast, findActive(next, "p1").HP, "delay must not fire before its triggerTurn")

	next, err = r.Step(next, nil, source, Options{})
	require.NoError(t, err)
	a1 := findActive(next, "p1")
	assert.Less(t, a1.HP, hpAfterCast, "delay must fire once state.turn reaches triggerTurn")
	for _, st := range a1.Statuses {
		assert.NotEqual(t, hooks.StatusDelayedEffect, st.ID, "delayed_effect must remove itself after firing")
	}
}

// TestOverTimeEffectFiresEveryTurnUntilDurationExpires covers §4.2's
// over_time effect: the captured effect list fires every matching turn-end
// while the status is active, stopping only once its own duration expires.
func TestOverTimeEffectFiresEveryTurnUntilDurationExpires(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 200)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle", "spore_cloud"}, Ability: "pressure"}, 200)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)
	source := rng.NewFixedSource(0.1)

	next, err := r.Step(state, []battle.Action{{Type: battle.ActionMove, PlayerID: "p2", MoveID: "spore_cloud"}}, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, 175, findActive(next, "p1").HP, "over_time fires the same turn it is applied")

	next, err = r.Step(next, nil, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, 150, findActive(next, "p1").HP)

	next, err = r.Step(next, nil, source, Options{})
	require.NoError(t, err)
	a1 := findActive(next, "p1")
	assert.Equal(t, 125, a1.HP)
	for _, st := range a1.Statuses {
		assert.NotEqual(t, hooks.StatusOverTimeEffect, st.ID, "over_time_effect must remove itself once its duration expires")
	}

	next, err = r.Step(next, nil, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, 125, findActive(next, "p1").HP, "no further damage once the status has expired")
}

// TestLockMoveForcesLastMove covers boundary behavior 11's force_last_move
// mode: the resolved move id overrides to whatever was last recorded.
func TestLockMoveForcesLastMove(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle", "icicle_spear"}, Ability: "pressure"}, 100)
	a.LastMove = "icicle_spear"
	dur := 2
	a.Statuses = append(a.Statuses, creature.VolatileStatus{
		ID: hooks.StatusLockMove, RemainingTurns: &dur,
		Data: map[string]interface{}{"mode": "force_last_move"},
	})

	r := NewResolver(reg)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Ability: "pressure"}, 100)
	ctx := r.ctxFor(newTwoPlayerState(a, b), a, &battle.Player{ID: "p1"}, rng.NewFixedSource(0.9))

	resolved, prevented, _ := r.resolveBeforeAction(ctx, a, "tackle")
	assert.False(t, prevented)
	assert.Equal(t, "icicle_spear", resolved)
}

// TestDisableMoveBlocksMatchingMove covers boundary behavior 11's
// disable_move half: the disabled move id becomes illegal.
func TestDisableMoveBlocksMatchingMove(t *testing.T) {
	blocked, msg := hooks.BlocksMove(hooks.StatusDisableMove, map[string]interface{}{"moveId": "tackle"}, "physical", "tackle")
	assert.True(t, blocked)
	assert.NotEmpty(t, msg)

	blocked, _ = hooks.BlocksMove(hooks.StatusDisableMove, map[string]interface{}{"moveId": "tackle"}, "physical", "icicle_spear")
	assert.False(t, blocked)
}

// TestEncoreForcesPreviousMove covers boundary behavior 11's encore half:
// the move id resolves to whatever encore recorded, regardless of request.
func TestEncoreForcesPreviousMove(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle", "icicle_spear"}, Ability: "pressure"}, 100)
	dur := 3
	a.Statuses = append(a.Statuses, creature.VolatileStatus{
		ID: hooks.StatusEncore, RemainingTurns: &dur,
		Data: map[string]interface{}{"moveId": "icicle_spear"},
	})

	r := NewResolver(reg)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Ability: "pressure"}, 100)
	ctx := r.ctxFor(newTwoPlayerState(a, b), a, &battle.Player{ID: "p1"}, rng.NewFixedSource(0.9))

	resolved, prevented, _ := r.resolveBeforeAction(ctx, a, "tackle")
	assert.False(t, prevented)
	assert.Equal(t, "icicle_spear", resolved)
}
