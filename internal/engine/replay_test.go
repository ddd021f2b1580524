package engine

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

func loadTestData(t *testing.T) *battledata.Registry {
	t.Helper()
	reg, err := battledata.LoadAll("../../testdata", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("load test registry: %v", err)
	}
	return reg
}

func buildPair(t *testing.T, e *Engine) (*creature.Creature, *creature.Creature) {
	t.Helper()
	a, err := e.CreateCreature("tatuta", "A", creature.CreateOptions{Moves: []string{"icicle_spear", "tackle"}, Ability: "pressure"})
	require.NoError(t, err)
	b, err := e.CreateCreature("morimitu", "B", creature.CreateOptions{Moves: []string{"tackle"}, Ability: "pressure"})
	require.NoError(t, err)
	return a, b
}

// TestReplayIsBitIdentical covers determinism law 6: replaying a recorded
// battle reproduces the exact final state and log.
func TestReplayIsBitIdentical(t *testing.T) {
	reg := loadTestData(t)
	e := New(reg)

	a, b := buildPair(t, e)
	initial := CreateBattleState([2]PlayerSpec{
		{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a}},
		{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}},
	}, true)

	actionSets := [][]battle.Action{
		{
			{Type: battle.ActionMove, PlayerID: "p1", MoveID: "icicle_spear"},
			{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
		},
		{
			{Type: battle.ActionMove, PlayerID: "p1", MoveID: "tackle"},
			{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
		},
	}
	source := rng.NewSeededSource("replay-law-seed")

	state := initial
	for _, actions := range actionSets {
		next, err := e.StepBattle(state, actions, source, turn.Options{RecordHistory: true})
		require.NoError(t, err)
		state = next
	}

	replayed, err := e.ReplayBattle(initial, state.History)
	require.NoError(t, err)

	assert.Equal(t, state.Turn, replayed.Turn)
	assert.Equal(t, state.Log, replayed.Log)
	for i := range state.Players {
		assert.Equal(t, state.Players[i].Team[0].HP, replayed.Players[i].Team[0].HP)
		assert.Equal(t, state.Players[i].Team[0].Statuses, replayed.Players[i].Team[0].Statuses)
		assert.Equal(t, state.Players[i].Team[0].Stages, replayed.Players[i].Team[0].Stages)
	}
}

// TestStepIsDeterministicAcrossIndependentInputs covers determinism law 7:
// stepping two independently-constructed, deep-copied initial states with
// the same actions and the same RNG stream yields identical outputs.
func TestStepIsDeterministicAcrossIndependentInputs(t *testing.T) {
	reg := loadTestData(t)
	e := New(reg)

	buildState := func() *battle.State {
		a, b := buildPair(t, e)
		return CreateBattleState([2]PlayerSpec{
			{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a}},
			{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}},
		}, false)
	}

	actions := []battle.Action{
		{Type: battle.ActionMove, PlayerID: "p1", MoveID: "icicle_spear"},
		{Type: battle.ActionMove, PlayerID: "p2", MoveID: "tackle"},
	}

	stateA := buildState()
	stateB := buildState()

	resultA, err := e.StepBattle(stateA, actions, rng.NewReplaySource([]float64{0.1, 0.1, 0.9, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}), turn.Options{})
	require.NoError(t, err)
	resultB, err := e.StepBattle(stateB, actions, rng.NewReplaySource([]float64{0.1, 0.1, 0.9, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}), turn.Options{})
	require.NoError(t, err)

	assert.Equal(t, resultA.Log, resultB.Log)
	assert.Equal(t, resultA.Players[0].Team[0].HP, resultB.Players[0].Team[0].HP)
	assert.Equal(t, resultA.Players[1].Team[0].HP, resultB.Players[1].Team[0].HP)
}
