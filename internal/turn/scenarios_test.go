package turn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
)

// TestIcicleSpearMultiHit covers normal (non-Skill-Link) multi-hit
// resolution: the hit count is drawn once, between min and max inclusive.
func TestIcicleSpearMultiHit(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"icicle_spear"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 500)
	state := newTwoPlayerState(a, b)

	r := NewResolver(reg)
	actions := []battle.Action{
		{Type: battle.ActionMove, PlayerID: "p1", MoveID: "icicle_spear"},
		{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
	}
	source := rng.NewReplaySource([]float64{0.1, 0.1, 0.9})

	next, err := r.Step(state, actions, source, Options{})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(next.Log, "\n"), "Hit 5 time(s)!")
}

// TestSkillLinkForcesMaxHits confirms Skill Link skips the hit-count draw
// entirely and always resolves to the move's maximum.
func TestSkillLinkForcesMaxHits(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"icicle_spear"}, Ability: "skill_link"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 500)
	state := newTwoPlayerState(a, b)

	r := NewResolver(reg)
	actions := []battle.Action{
		{Type: battle.ActionMove, PlayerID: "p1", MoveID: "icicle_spear"},
		{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
	}
	// 0.0 would normally resolve to the minimum hit count (2); Skill Link
	// must never consume this draw for the count itself.
	source := rng.NewReplaySource([]float64{0.1, 0.1, 0.0, 0.5})

	next, err := r.Step(state, actions, source, Options{})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(next.Log, "\n"), "Hit 5 time(s)!")
}

// TestSolarBeamTwoTurnCharge covers the charge-then-release move: turn one
// locks the user into the move and deals no damage, turn two fires
// regardless of what the player submits and clears the lock.
func TestSolarBeamTwoTurnCharge(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"solar_beam"}, Ability: "pressure"}, 200)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 500)
	state := newTwoPlayerState(a, b)

	r := NewResolver(reg)

	turn1Actions := []battle.Action{
		{Type: battle.ActionMove, PlayerID: "p1", MoveID: "solar_beam"},
		{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
	}
	turn1, err := r.Step(state, turn1Actions, rng.NewReplaySource([]float64{0.1, 0.1}), Options{})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(turn1.Log, "\n"), "absorbed light!")
	aAfterTurn1 := findActive(turn1, "p1")
	bAfterTurn1 := findActive(turn1, "p2")
	assert.True(t, aAfterTurn1.HasStatus("lock_move"))
	assert.Equal(t, 500, bAfterTurn1.HP, "charging turn must not damage the defender")

	// Turn two: the player submits tackle, but lock_move forces solar_beam.
	turn2Actions := []battle.Action{
		{Type: battle.ActionMove, PlayerID: "p1", MoveID: "tackle"},
		{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
	}
	turn2, err := r.Step(turn1, turn2Actions, rng.NewReplaySource([]float64{0.1, 0.1, 0.5, 0.9, 1.0}), Options{})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(turn2.Log, "\n"), "used Solar Beam!")
	bAfterTurn2 := findActive(turn2, "p2")
	assert.Less(t, bAfterTurn2.HP, 500)
	aAfterTurn2 := findActive(turn2, "p1")
	assert.False(t, aAfterTurn2.HasStatus("lock_move"))
}

// TestBelchRequiresBerryConsumed covers a move that fails until the user
// has consumed a held berry this battle.
func TestBelchRequiresBerryConsumed(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"belch"}, Ability: "pressure", Item: "sitrus_berry"}, 200)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 200)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)

	turn1, err := r.Step(state,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "belch"}},
		rng.NewReplaySource([]float64{0.1, 0.5}), Options{})
	require.NoError(t, err)
	assert.Equal(t, 200, findActive(turn1, "p2").HP, "belch must fail before a berry is consumed")

	turn2, err := r.Step(turn1,
		[]battle.Action{{Type: battle.ActionUseItem, PlayerID: "p1"}},
		rng.NewReplaySource([]float64{0.1}), Options{})
	require.NoError(t, err)
	aAfterUse := findActive(turn2, "p1")
	assert.True(t, aAfterUse.HasStatus("berry_consumed"))
	assert.Equal(t, "", aAfterUse.ItemID)

	turn3, err := r.Step(turn2,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "belch"}},
		rng.NewReplaySource([]float64{0.1, 0.1, 0.99, 0.5}), Options{})
	require.NoError(t, err)
	assert.Less(t, findActive(turn3, "p2").HP, 200)
}

// TestPoltergeistRequiresTargetItem covers a move that fails against an
// itemless target and succeeds once the target is holding something.
func TestPoltergeistRequiresTargetItem(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"poltergeist"}, Ability: "pressure"}, 200)
	b := mustCreature(t, reg, "kindletoad", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 200)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)

	turn1, err := r.Step(state,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "poltergeist"}},
		rng.NewReplaySource([]float64{0.1}), Options{})
	require.NoError(t, err)
	assert.Equal(t, 200, findActive(turn1, "p2").HP, "poltergeist must fail against an itemless target")
	assert.Contains(t, strings.Join(turn1.Log, "\n"), "failed")

	findActive(turn1, "p2").ItemID = "leftovers"

	turn2, err := r.Step(turn1,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "poltergeist"}},
		rng.NewReplaySource([]float64{0.1, 0.1, 0.99, 0.5}), Options{})
	require.NoError(t, err)
	assert.Less(t, findActive(turn2, "p2").HP, 200)
}

// TestKnockOffRemovesItem covers a damaging move that also strips the
// target's held item on a successful hit.
func TestKnockOffRemovesItem(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"knock_off"}, Ability: "pressure"}, 200)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure", Item: "leftovers"}, 200)
	state := newTwoPlayerState(a, b)
	r := NewResolver(reg)

	next, err := r.Step(state,
		[]battle.Action{{Type: battle.ActionMove, PlayerID: "p1", MoveID: "knock_off"}},
		rng.NewReplaySource([]float64{0.1, 0.1, 0.99, 0.5}), Options{})
	require.NoError(t, err)

	bAfter := findActive(next, "p2")
	assert.Less(t, bAfter.HP, 200)
	assert.Equal(t, "", bAfter.ItemID)
}
