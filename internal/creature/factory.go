package creature

import (
	"github.com/google/uuid"

	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/battleerr"
)

// BattleLevel is the fixed level every creature is constructed at.
const BattleLevel = 50

// ivValue is the fixed IV (individual value) used for every stat; callers
// cannot change it and the engine does not model IV variance.
const ivValue = 31

// maxEVPerStat and maxEVTotal enforce the classic 252-per-stat / 510-total
// effort value budget.
const (
	maxEVPerStat = 252
	maxEVTotal   = 510
)

// CreateOptions captures the caller-chosen parts of a creature: the move
// loadout, ability, optional held item, and optional EV spread.
type CreateOptions struct {
	Moves   []string
	Ability string
	Item    string
	EVs     battledata.Stats // zero value = no EVs
}

// Create validates the moves against the species' learnset and the EVs
// against the effort-value budget (the ability is not checked), then derives a battle-ready Creature at BattleLevel with IV=31 and the
// given (or zero) EV spread.
func Create(registry *battledata.Registry, speciesID, name string, opts CreateOptions) (*Creature, error) {
	species, ok := registry.Species.Get(speciesID)
	if !ok {
		return nil, battleerr.New(battleerr.KindUnknownSpecies, "unknown species %q", speciesID)
	}

	if err := validateMoves(registry, speciesID, opts.Moves); err != nil {
		return nil, err
	}
	if err := validateEVs(opts.EVs); err != nil {
		return nil, err
	}

	moves := make([]MoveSlot, 0, len(opts.Moves))
	for _, moveID := range opts.Moves {
		m, _ := registry.Moves.Get(moveID)
		var pp, maxPP *int
		if m.PP != nil {
			v := *m.PP
			pp, maxPP = &v, new(int)
			*maxPP = v
		}
		moves = append(moves, MoveSlot{MoveID: moveID, PP: pp, MaxPP: maxPP})
	}

	stats := deriveStats(species.BaseStats, opts.EVs)

	if name == "" {
		name = species.Name
	}

	c := &Creature{
		InstanceID:   uuid.NewString(),
		SpeciesID:    speciesID,
		Name:         name,
		Level:        BattleLevel,
		Types:        append([]string(nil), species.Types...),
		Moves:        moves,
		AbilityID:    opts.Ability,
		ItemID:       opts.Item,
		MaxHP:        stats.HP,
		Atk:          stats.Atk,
		Def:          stats.Def,
		SpA:          stats.SpA,
		SpD:          stats.SpD,
		Spe:          stats.Spe,
		HP:           stats.HP,
		Stages:       NewEmptyStages(),
		Statuses:     nil,
		AbilityFlags: map[string]bool{},
		Scratch:      map[string]interface{}{},
	}
	return c, nil
}

func validateMoves(registry *battledata.Registry, speciesID string, moveIDs []string) error {
	if len(moveIDs) > 4 {
		return battleerr.New(battleerr.KindUnknownMove, "at most 4 moves allowed, got %d", len(moveIDs))
	}
	seen := map[string]bool{}
	for _, id := range moveIDs {
		if seen[id] {
			return battleerr.New(battleerr.KindDuplicateMove, "duplicate move %q", id)
		}
		seen[id] = true

		if _, ok := registry.Moves.Get(id); !ok {
			return battleerr.New(battleerr.KindUnknownMove, "unknown move %q", id)
		}
		if !registry.Learnsets.CanLearn(speciesID, id) {
			return battleerr.New(battleerr.KindMoveNotLearnable, "species %q cannot learn move %q", speciesID, id)
		}
	}
	return nil
}

func validateEVs(evs battledata.Stats) error {
	total := evs.HP + evs.Atk + evs.Def + evs.SpA + evs.SpD + evs.Spe
	for _, v := range []int{evs.HP, evs.Atk, evs.Def, evs.SpA, evs.SpD, evs.Spe} {
		if v < 0 || v > maxEVPerStat {
			return battleerr.New(battleerr.KindInvalidEvBudget, "per-stat EV %d exceeds cap %d", v, maxEVPerStat)
		}
	}
	if total > maxEVTotal {
		return battleerr.New(battleerr.KindInvalidEvBudget, "total EV %d exceeds cap %d", total, maxEVTotal)
	}
	return nil
}

// deriveStats computes concrete stats at BattleLevel from base stats, fixed
// IV=31, and the given EV spread, using the standard formula:
//
//	HP  = floor((2*base + iv + floor(ev/4)) * level / 100) + level + 10
//	oth = floor((2*base + iv + floor(ev/4)) * level / 100) + 5
func deriveStats(base, evs battledata.Stats) battledata.Stats {
	return battledata.Stats{
		HP:  statFormula(base.HP, evs.HP) + BattleLevel + 10,
		Atk: statFormula(base.Atk, evs.Atk) + 5,
		Def: statFormula(base.Def, evs.Def) + 5,
		SpA: statFormula(base.SpA, evs.SpA) + 5,
		SpD: statFormula(base.SpD, evs.SpD) + 5,
		Spe: statFormula(base.Spe, evs.Spe) + 5,
	}
}

func statFormula(base, ev int) int {
	return (2*base + ivValue + ev/4) * BattleLevel / 100
}
