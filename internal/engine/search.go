package engine

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
	"github.com/Mori-kamiyama/nikopoke/internal/search"
)

// ChooseHighestPower implements §6's choose_highest_power: the rollout
// policy's default chooser.
func (e *Engine) ChooseHighestPower(state *battle.State, playerID string) *battle.Action {
	return search.ChooseHighestPower(state, playerID, e.Data)
}

// GetBestMoveMinimax implements §6's get_best_move_minimax: maximin search
// to the given depth over a fixed RNG source.
func (e *Engine) GetBestMoveMinimax(state *battle.State, playerID string, depth int) *battle.Action {
	return search.NewMinimax(e.Resolver).BestMove(state, playerID, depth)
}

// GetBestMoveMCTS implements §6's get_best_move_mcts: Monte-Carlo rollout
// over the given simulation budget, using live (non-replayed) randomness.
func (e *Engine) GetBestMoveMCTS(state *battle.State, playerID string, simulations int) *battle.Action {
	source := rng.NewEntropyMathRandSource()
	return search.NewMCTS(e.Resolver, e.Data).BestMove(state, playerID, simulations, source)
}
