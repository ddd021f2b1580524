package battledata

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Registry bundles the three read-only JSON-backed registries (the type
// chart is the package-level TypeChart, not a field here). It is built
// once by LoadAll and shared freely
// across battles and goroutines thereafter.
type Registry struct {
	Species   SpeciesRegistry
	Moves     MoveRegistry
	Learnsets LearnsetRegistry
}

// LoadAll reads species.json, moves.json, and learnsets.json from dir and
// logs a summary count of each, failing fast on the first malformed file so
// that a bad data drop never silently produces an incomplete battle.
func LoadAll(dir string, logger *zap.Logger) (*Registry, error) {
	species, err := loadSpecies(dir + "/species.json")
	if err != nil {
		return nil, fmt.Errorf("battledata: load species: %w", err)
	}
	moves, err := loadMoves(dir + "/moves.json")
	if err != nil {
		return nil, fmt.Errorf("battledata: load moves: %w", err)
	}
	learnsets, err := loadLearnsets(dir + "/learnsets.json")
	if err != nil {
		return nil, fmt.Errorf("battledata: load learnsets: %w", err)
	}

	logger.Info("loaded static battle data",
		zap.Int("species", len(species)),
		zap.Int("moves", len(moves)),
		zap.Int("learnsets", len(learnsets)),
	)

	return &Registry{Species: species, Moves: moves, Learnsets: learnsets}, nil
}

func loadSpecies(path string) (SpeciesRegistry, error) {
	raw := map[string]rawSpecies{}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(SpeciesRegistry, len(raw))
	for id, r := range raw {
		norm, err := r.normalize()
		if err != nil {
			return nil, err
		}
		if norm.ID == "" {
			norm.ID = id
		}
		out[id] = norm
	}
	return out, nil
}

func loadMoves(path string) (MoveRegistry, error) {
	raw := map[string]Move{}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(MoveRegistry, len(raw))
	for id, m := range raw {
		if m.ID == "" {
			m.ID = id
		}
		out[id] = m
	}
	return out, nil
}

func loadLearnsets(path string) (LearnsetRegistry, error) {
	raw := LearnsetRegistry{}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
