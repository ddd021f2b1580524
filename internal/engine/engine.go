// Package engine exposes the battle simulator's public surface: creature
// construction, battle-state construction, stepping, termination queries,
// and replay. It is a thin façade over internal/turn, internal/creature,
// and internal/search; callers still take a few types from those packages
// (creature.CreateOptions, turn.Options) and from internal/rng.
package engine

import (
	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/battleerr"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
	"github.com/Mori-kamiyama/nikopoke/internal/turn"
)

// Engine bundles the static data registry with the one resolver built atop
// it. Every battle-mutating operation is a method on Engine so callers
// never construct a Resolver themselves.
type Engine struct {
	Data     *battledata.Registry
	Resolver *turn.Resolver
}

// New constructs an Engine from a loaded static-data registry.
func New(data *battledata.Registry) *Engine {
	return &Engine{Data: data, Resolver: turn.NewResolver(data)}
}

// CreateCreature validates and derives a battle-ready Creature, per §6's
// create_creature.
func (e *Engine) CreateCreature(speciesID, name string, opts creature.CreateOptions) (*creature.Creature, error) {
	return creature.Create(e.Data, speciesID, name, opts)
}

// PlayerSpec is one side's roster for CreateBattleState.
type PlayerSpec struct {
	ID   string
	Name string
	Team []*creature.Creature
}

// CreateBattleState constructs the initial State for a two-player battle.
func CreateBattleState(players [2]PlayerSpec, recordHistory bool) *battle.State {
	p0 := &battle.Player{ID: players[0].ID, Name: players[0].Name, Team: players[0].Team}
	p1 := &battle.Player{ID: players[1].ID, Name: players[1].Name, Team: players[1].Team}
	return battle.NewState(p0, p1, recordHistory)
}

// StepBattle resolves one turn, per §6's step_battle.
func (e *Engine) StepBattle(state *battle.State, actions []battle.Action, source rng.Source, opts turn.Options) (*battle.State, error) {
	return e.Resolver.Step(state, actions, source, opts)
}

// IsBattleOver reports whether either side has no surviving creature.
func IsBattleOver(state *battle.State) bool {
	return turn.IsBattleOver(state)
}

// GetWinner returns the id of the sole surviving player, or "" if the
// battle is undecided or both sides are wiped.
func GetWinner(state *battle.State) string {
	return turn.GetWinner(state)
}

// ReplayBattle reconstructs the final state by re-stepping initial through
// every recorded turn, consuming each turn's recorded RNG draws in order.
// It fails with HistoryRngUnderflow if a turn's recorded stream runs dry
// before the step that produced it finishes drawing. Recorded actions are
// fed to Step as they are; an error Step returns for them is returned
// unchanged, and no separate action-mismatch check is made.
func (e *Engine) ReplayBattle(initial *battle.State, history *battle.History) (*battle.State, error) {
	s := initial
	for _, rec := range history.Turns {
		replay := rng.NewReplaySource(rec.RNG)
		actions := make([]battle.Action, 0, len(rec.Actions))
		for _, a := range rec.Actions {
			slot := a.Slot
			actions = append(actions, battle.Action{
				Type: a.Type, PlayerID: a.PlayerID, MoveID: a.MoveID, Slot: &slot, TargetID: a.TargetID,
			})
		}
		next, err := e.Resolver.Step(s, actions, replay, turn.Options{RecordHistory: true})
		if err != nil {
			return nil, err
		}
		if replay.Exhausted() {
			return nil, battleerr.New(battleerr.KindHistoryRngUnderflow, "turn %d: recorded RNG stream exhausted during replay", rec.Turn)
		}
		s = next
	}
	return s, nil
}
