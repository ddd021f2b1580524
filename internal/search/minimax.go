package search

import (
	"math"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
	"github.com/Mori-kamiyama/nikopoke/internal/turn"
)

// Minimax implements the maximin policy of §4.7: a fixed RNG source pinned
// at 0.5 for every draw, enumerate both sides' legal actions, resolve each
// (mine, theirs) pair with one Step, recurse at depth-1, and score leaves
// with Evaluate. For each of my actions, take the worst (minimum) of the
// opponent's responses; return the action maximizing that worst case.
type Minimax struct {
	Resolver *turn.Resolver
}

// NewMinimax binds a Minimax policy to the shared resolver.
func NewMinimax(r *turn.Resolver) *Minimax {
	return &Minimax{Resolver: r}
}

// BestMove returns the action maximizing the worst-case evaluator score at
// depth, or nil if playerID has no legal actions.
func (m *Minimax) BestMove(state *battle.State, playerID string, depth int) *battle.Action {
	opponent := state.Opponent(playerID)
	if opponent == nil {
		return nil
	}
	myActions := LegalActions(state, playerID)
	if len(myActions) == 0 {
		return nil
	}

	bestScore := math.Inf(-1)
	var best *battle.Action
	for i := range myActions {
		mine := myActions[i]
		worst := m.worstResponse(state, mine, playerID, opponent.ID, depth)
		if worst > bestScore {
			bestScore = worst
			best = &myActions[i]
		}
	}
	return best
}

func (m *Minimax) worstResponse(state *battle.State, mine battle.Action, playerID, opponentID string, depth int) float64 {
	theirActions := LegalActions(state, opponentID)
	if len(theirActions) == 0 {
		theirActions = []battle.Action{{Type: battle.ActionWait, PlayerID: opponentID}}
	}

	worst := math.Inf(1)
	for _, theirs := range theirActions {
		source := rng.NewFixedSource(0.5)
		next, err := m.Resolver.Step(state, []battle.Action{mine, theirs}, source, turn.Options{})
		if err != nil {
			continue
		}
		var leafScore float64
		if turn.IsBattleOver(next) || depth <= 1 {
			leafScore = Evaluate(next, playerID)
		} else {
			leafScore = m.bestAtDepth(next, playerID, opponentID, depth-1)
		}
		if leafScore < worst {
			worst = leafScore
		}
	}
	return worst
}

func (m *Minimax) bestAtDepth(state *battle.State, playerID, opponentID string, depth int) float64 {
	myActions := LegalActions(state, playerID)
	if len(myActions) == 0 {
		return Evaluate(state, playerID)
	}
	best := math.Inf(-1)
	for _, mine := range myActions {
		worst := m.worstResponse(state, mine, playerID, opponentID, depth)
		if worst > best {
			best = worst
		}
	}
	return best
}
