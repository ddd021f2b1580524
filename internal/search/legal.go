// Package search implements the two decision policies layered on top of the
// turn resolver: maximin minimax over a fixed RNG source, and a Monte-Carlo
// rollout policy driven by a greedy heuristic. Neither policy reaches into
// the resolver's internals — both are pure consumers of Resolver.Step.
package search

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
)

// LegalActions enumerates every action playerID may submit in state, per
// §4.7: every known move with remaining PP, plus every switch to a
// non-active, non-fainted team slot. If the player's active slot is fainted
// or carries pending_switch, only switches are legal.
func LegalActions(state *battle.State, playerID string) []battle.Action {
	p := state.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	active := p.Active()

	mustSwitch := active == nil || active.IsFainted() || active.HasStatus("pending_switch")

	var actions []battle.Action
	if !mustSwitch {
		for _, ms := range active.Moves {
			if ms.PP != nil && *ms.PP <= 0 {
				continue
			}
			actions = append(actions, battle.Action{Type: battle.ActionMove, PlayerID: playerID, MoveID: ms.MoveID})
		}
	}

	for i, c := range p.Team {
		if i == p.ActiveSlot || c.IsFainted() {
			continue
		}
		slot := i
		actions = append(actions, battle.Action{Type: battle.ActionSwitch, PlayerID: playerID, Slot: &slot})
	}

	if len(actions) == 0 {
		actions = append(actions, battle.Action{Type: battle.ActionWait, PlayerID: playerID})
	}
	return actions
}
