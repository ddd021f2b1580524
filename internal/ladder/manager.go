// Package ladder runs round-robin battle series between named contestants,
// each backed by a team and a search-policy choice, and aggregates a
// win/loss/draw scoreboard. It is a pure consumer of the engine's public
// surface — it adds no new mutation surface to the core.
package ladder

import (
	"fmt"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/engine"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
	"github.com/Mori-kamiyama/nikopoke/internal/turn"
)

// PolicyKind selects which decision policy a contestant plays with.
type PolicyKind string

const (
	PolicyMinimax PolicyKind = "minimax"
	PolicyMCTS    PolicyKind = "mcts"
	PolicyGreedy  PolicyKind = "greedy"
)

// Contestant is one named entrant: a team plus a policy and its parameter.
type Contestant struct {
	Name    string
	Team    []*creature.Creature
	Policy  PolicyKind
	Depth   int // minimax
	SimsN   int // mcts simulations
}

// Options bounds a ladder run.
type Options struct {
	TurnCap int // per-battle turn cap; 0 = default of 200
}

// Result is one pairing's outcome.
type Result struct {
	PlayerA  string
	PlayerB  string
	WinnerID string
	Turns    int
}

// Scoreboard aggregates wins/losses/draws per contestant name across every
// pairing in a run.
type Scoreboard struct {
	Wins   map[string]int
	Losses map[string]int
	Draws  map[string]int
	Results []Result
}

func newScoreboard(names []string) *Scoreboard {
	sb := &Scoreboard{
		Wins:   map[string]int{},
		Losses: map[string]int{},
		Draws:  map[string]int{},
	}
	for _, n := range names {
		sb.Wins[n], sb.Losses[n], sb.Draws[n] = 0, 0, 0
	}
	return sb
}

// Run plays every unordered pairing of contestants exactly once, stepping
// each battle to completion by asking each side's configured policy for an
// action every turn.
func Run(e *engine.Engine, contestants []Contestant, opts Options) (*Scoreboard, error) {
	cap := opts.TurnCap
	if cap <= 0 {
		cap = 200
	}

	names := make([]string, len(contestants))
	for i, c := range contestants {
		names[i] = c.Name
	}
	sb := newScoreboard(names)

	for i := 0; i < len(contestants); i++ {
		for j := i + 1; j < len(contestants); j++ {
			res, err := playOne(e, contestants[i], contestants[j], cap)
			if err != nil {
				return nil, fmt.Errorf("ladder: %s vs %s: %w", contestants[i].Name, contestants[j].Name, err)
			}
			sb.Results = append(sb.Results, res)
			switch res.WinnerID {
			case contestants[i].Name:
				sb.Wins[contestants[i].Name]++
				sb.Losses[contestants[j].Name]++
			case contestants[j].Name:
				sb.Wins[contestants[j].Name]++
				sb.Losses[contestants[i].Name]++
			default:
				sb.Draws[contestants[i].Name]++
				sb.Draws[contestants[j].Name]++
			}
		}
	}
	return sb, nil
}

func playOne(e *engine.Engine, a, b Contestant, turnCap int) (Result, error) {
	state := engine.CreateBattleState([2]engine.PlayerSpec{
		{ID: a.Name, Name: a.Name, Team: a.Team},
		{ID: b.Name, Name: b.Name, Team: b.Team},
	}, false)

	source := rng.NewEntropyMathRandSource()

	for t := 0; t < turnCap && !engine.IsBattleOver(state); t++ {
		actionA := chooseAction(e, state, a)
		actionB := chooseAction(e, state, b)
		var actions []battle.Action
		if actionA != nil {
			actions = append(actions, *actionA)
		}
		if actionB != nil {
			actions = append(actions, *actionB)
		}
		if len(actions) == 0 {
			break
		}
		next, err := e.StepBattle(state, actions, source, turn.Options{})
		if err != nil {
			return Result{}, err
		}
		state = next
	}

	return Result{PlayerA: a.Name, PlayerB: b.Name, WinnerID: engine.GetWinner(state), Turns: state.Turn}, nil
}

func chooseAction(e *engine.Engine, state *battle.State, c Contestant) *battle.Action {
	switch c.Policy {
	case PolicyMinimax:
		return e.GetBestMoveMinimax(state, c.Name, max(1, c.Depth))
	case PolicyMCTS:
		return e.GetBestMoveMCTS(state, c.Name, max(1, c.SimsN))
	default:
		return e.ChooseHighestPower(state, c.Name)
	}
}
