package search

import (
	"math"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
	"github.com/Mori-kamiyama/nikopoke/internal/turn"
)

// turnCap bounds a rollout playout so a stalemate (e.g. both sides stalling
// on status moves) can't run forever.
const turnCap = 100

// ChooseHighestPower implements the rollout policy's default chooser: the
// highest base-power damaging move known with PP remaining, falling back to
// any legal move, then to a switch, per §6's choose_highest_power.
func ChooseHighestPower(state *battle.State, playerID string, data *battledata.Registry) *battle.Action {
	actions := LegalActions(state, playerID)
	if len(actions) == 0 {
		return nil
	}

	bestPower := -1
	var best *battle.Action
	for i := range actions {
		a := actions[i]
		if a.Type != battle.ActionMove {
			continue
		}
		m, ok := data.Moves.Get(a.MoveID)
		if !ok || m.Power == nil {
			continue
		}
		if *m.Power > bestPower {
			bestPower = *m.Power
			best = &actions[i]
		}
	}
	if best != nil {
		return best
	}
	return &actions[0]
}

// MCTS implements the Monte-Carlo rollout policy of §4.7: for each legal
// action, run simulations/|actions| playouts stepping that action against
// the opponent's greedy-highest-power response, then continue both sides
// under the same greedy heuristic with random RNG until termination or the
// turn cap. Average the terminal evaluator scores and return the argmax.
type MCTS struct {
	Resolver *turn.Resolver
	Data     *battledata.Registry
}

// NewMCTS binds an MCTS policy to the shared resolver and static data.
func NewMCTS(r *turn.Resolver, data *battledata.Registry) *MCTS {
	return &MCTS{Resolver: r, Data: data}
}

// BestMove returns the action with the highest mean playout score, or nil
// if playerID has no legal actions.
func (mc *MCTS) BestMove(state *battle.State, playerID string, simulations int, source rng.Source) *battle.Action {
	opponent := state.Opponent(playerID)
	if opponent == nil {
		return nil
	}
	actions := LegalActions(state, playerID)
	if len(actions) == 0 {
		return nil
	}

	perAction := simulations / len(actions)
	if perAction < 1 {
		perAction = 1
	}

	bestScore := math.Inf(-1)
	var best *battle.Action
	for i := range actions {
		a := actions[i]
		total := 0.0
		for n := 0; n < perAction; n++ {
			total += mc.playout(state, a, playerID, opponent.ID, source)
		}
		mean := total / float64(perAction)
		if mean > bestScore {
			bestScore = mean
			best = &actions[i]
		}
	}
	return best
}

func (mc *MCTS) playout(state *battle.State, first battle.Action, playerID, opponentID string, source rng.Source) float64 {
	theirs := ChooseHighestPower(state, opponentID, mc.Data)
	actions := []battle.Action{first}
	if theirs != nil {
		actions = append(actions, *theirs)
	}
	next, err := mc.Resolver.Step(state, actions, source, turn.Options{})
	if err != nil {
		return Evaluate(state, playerID)
	}

	for t := 0; t < turnCap && !turn.IsBattleOver(next); t++ {
		mine := ChooseHighestPower(next, playerID, mc.Data)
		theirs := ChooseHighestPower(next, opponentID, mc.Data)
		var step []battle.Action
		if mine != nil {
			step = append(step, *mine)
		}
		if theirs != nil {
			step = append(step, *theirs)
		}
		if len(step) == 0 {
			break
		}
		stepped, err := mc.Resolver.Step(next, step, source, turn.Options{})
		if err != nil {
			break
		}
		next = stepped
	}

	return Evaluate(next, playerID)
}
