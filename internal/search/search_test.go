package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
	"github.com/Mori-kamiyama/nikopoke/internal/turn"
)

func loadTestRegistry(t *testing.T) *battledata.Registry {
	t.Helper()
	reg, err := battledata.LoadAll("../../testdata", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("load test registry: %v", err)
	}
	return reg
}

func mustCreature(t *testing.T, reg *battledata.Registry, speciesID, name string, opts creature.CreateOptions, hp int) *creature.Creature {
	t.Helper()
	c, err := creature.Create(reg, speciesID, name, opts)
	if err != nil {
		t.Fatalf("create %s: %v", speciesID, err)
	}
	c.MaxHP = hp
	c.HP = hp
	return c
}

func twoPlayerState(a, b *creature.Creature) *battle.State {
	p0 := &battle.Player{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a}}
	p1 := &battle.Player{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}}
	return battle.NewState(p0, p1, false)
}

// TestLegalActionsListsMovesWithRemainingPP covers §4.7's action
// enumeration: known moves with PP remaining, no switches for a one-member
// team.
func TestLegalActionsListsMovesWithRemainingPP(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle", "ember"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	state := twoPlayerState(a, b)

	actions := LegalActions(state, "p1")
	require.Len(t, actions, 2)
	for _, act := range actions {
		assert.Equal(t, battle.ActionMove, act.Type)
	}
}

// TestLegalActionsForcesSwitchWhenFainted covers the mustSwitch branch: a
// fainted active slot yields only switch actions to remaining teammates.
func TestLegalActionsForcesSwitchWhenFainted(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	a.HP = 0
	reserve := mustCreature(t, reg, "kindletoad", "A2", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)

	p0 := &battle.Player{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a, reserve}}
	p1 := &battle.Player{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}}
	state := battle.NewState(p0, p1, false)

	actions := LegalActions(state, "p1")
	require.Len(t, actions, 1)
	assert.Equal(t, battle.ActionSwitch, actions[0].Type)
	require.NotNil(t, actions[0].Slot)
	assert.Equal(t, 1, *actions[0].Slot)
}

// TestEvaluateShortCircuitsOnWipe covers §4.7's evaluator: a decisive win
// scores strictly above any living-vs-living differential.
func TestEvaluateShortCircuitsOnWipe(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	b.HP = 0
	state := twoPlayerState(a, b)

	assert.Equal(t, 10000.0, Evaluate(state, "p1"))
	assert.Equal(t, -10000.0, Evaluate(state, "p2"))
}

// TestChooseHighestPowerBreaksTiesByListOrder covers the rollout policy's
// default chooser when two known moves share the highest base power.
func TestChooseHighestPowerBreaksTiesByListOrder(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle", "ember"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	state := twoPlayerState(a, b)

	chosen := ChooseHighestPower(state, "p1", reg)
	require.NotNil(t, chosen)
	// tackle and ember are both power 40; first-seen wins ties, so tackle
	// (listed first) is the expected pick.
	assert.Equal(t, "tackle", chosen.MoveID)
	assert.Equal(t, battle.ActionMove, chosen.Type)
}

// TestMinimaxPicksWinningLine covers §4.7's maximin policy: against a
// one-move opponent with no counterplay, minimax must pick the only move
// that damages the opponent.
func TestMinimaxPicksWinningLine(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	state := twoPlayerState(a, b)

	r := turn.NewResolver(reg)
	mm := NewMinimax(r)
	best := mm.BestMove(state, "p1", 1)
	require.NotNil(t, best)
	assert.Equal(t, "tackle", best.MoveID)
}

// TestMCTSReturnsLegalAction covers the Monte-Carlo rollout policy: with a
// fixed-seed MathRandSource it must return one of the legal actions without
// erroring or running past the turn cap.
func TestMCTSReturnsLegalAction(t *testing.T) {
	reg := loadTestRegistry(t)
	a := mustCreature(t, reg, "tatuta", "A", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	b := mustCreature(t, reg, "morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"}, 100)
	state := twoPlayerState(a, b)

	r := turn.NewResolver(reg)
	mc := NewMCTS(r, reg)
	var seed [32]byte
	seed[0] = 42
	source := rng.NewMathRandSource(seed)
	best := mc.BestMove(state, "p1", 4, source)
	require.NotNil(t, best)
	assert.Equal(t, "tackle", best.MoveID)
}
