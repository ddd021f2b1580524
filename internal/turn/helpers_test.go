package turn

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
)

// loadTestRegistry loads the shared fixture data used by every scenario
// test in this package.
func loadTestRegistry(t *testing.T) *battledata.Registry {
	t.Helper()
	reg, err := battledata.LoadAll("../../testdata", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("load test registry: %v", err)
	}
	return reg
}

// mustCreature creates a creature via the normal factory path, then
// overrides HP/MaxHP to the scenario's literal values so test assertions
// can use round numbers instead of derived stat totals.
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

// newTwoPlayerState builds a battle.State with one active creature per side.
func newTwoPlayerState(a, b *creature.Creature) *battle.State {
	p0 := &battle.Player{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a}}
	p1 := &battle.Player{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}}
	return battle.NewState(p0, p1, false)
}

func findActive(s *battle.State, playerID string) *creature.Creature {
	p := s.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	return p.Active()
}
