package search

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
)

// Evaluate scores state from playerID's perspective, per §4.7's state
// evaluator: a decisive win/loss/mutual-wipe short-circuit, else the
// difference of each side's living-creature score.
func Evaluate(state *battle.State, playerID string) float64 {
	me := state.PlayerByID(playerID)
	opp := state.Opponent(playerID)
	if me == nil || opp == nil {
		return 0
	}

	meAlive := me.AliveCount() > 0
	oppAlive := opp.AliveCount() > 0

	switch {
	case meAlive && !oppAlive:
		return 10000
	case !meAlive && oppAlive:
		return -10000
	case !meAlive && !oppAlive:
		return -5000
	}

	return score(me) - score(opp)
}

// score sums, across a side's living creatures, 100*hp/maxHp + 50 for
// merely surviving + 10 times the net stage total (summed across all seven
// stages, so negative stages subtract) minus 20 per primary status carried.
func score(p *battle.Player) float64 {
	total := 0.0
	for _, c := range p.Team {
		if c.IsFainted() {
			continue
		}
		total += 100*float64(c.HP)/float64(c.MaxHP) + 50
		stageSum := 0
		for _, k := range creature.AllStageKeys {
			stageSum += c.Stages[k]
		}
		total += 10 * float64(stageSum)
		if countPrimaryStatuses(c) > 0 {
			total -= 20 * float64(countPrimaryStatuses(c))
		}
	}
	return total
}

func countPrimaryStatuses(c *creature.Creature) int {
	n := 0
	for _, st := range c.Statuses {
		if st.Primary {
			n++
		}
	}
	return n
}
