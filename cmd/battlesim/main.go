package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/battledata"
	"github.com/Mori-kamiyama/nikopoke/internal/battlelog"
	"github.com/Mori-kamiyama/nikopoke/internal/config"
	"github.com/Mori-kamiyama/nikopoke/internal/creature"
	"github.com/Mori-kamiyama/nikopoke/internal/engine"
	"github.com/Mori-kamiyama/nikopoke/internal/ladder"
	"github.com/Mori-kamiyama/nikopoke/internal/rng"
	"github.com/Mori-kamiyama/nikopoke/internal/turn"
)

var (
	configPath = flag.String("config", "config/battlesim.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: battlesim [-config path] <battle|ladder>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting battlesim", zap.String("version", version), zap.String("config", *configPath))

	data, err := battledata.LoadAll(cfg.Data.Dir, logger)
	if err != nil {
		logger.Fatal("failed to load static battle data", zap.Error(err))
	}
	e := engine.New(data)

	ctx := context.Background()
	var store *battlelog.Store
	if cfg.Database.URL != "" {
		store, err = battlelog.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Warn("battlelog unavailable, continuing without persistence", zap.Error(err))
		} else {
			defer store.Close()
		}
	}

	switch args[0] {
	case "battle":
		runBattle(logger, e, store, cfg)
	case "ladder":
		runLadder(logger, e, store, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		os.Exit(1)
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func runBattle(logger *zap.Logger, e *engine.Engine, store *battlelog.Store, cfg *config.Config) {
	a, err := e.CreateCreature("tatuta", "", creature.CreateOptions{Moves: []string{"icicle_spear", "tackle"}, Ability: "pressure"})
	if err != nil {
		logger.Fatal("failed to create creature", zap.Error(err))
	}
	b, err := e.CreateCreature("morimitu", "", creature.CreateOptions{Moves: []string{"solar_beam", "tackle"}, Ability: "pressure"})
	if err != nil {
		logger.Fatal("failed to create creature", zap.Error(err))
	}

	state := engine.CreateBattleState([2]engine.PlayerSpec{
		{ID: "p1", Name: "Player 1", Team: []*creature.Creature{a}},
		{ID: "p2", Name: "Player 2", Team: []*creature.Creature{b}},
	}, true)
	initial := state.Clone()

	source := rng.NewEntropyMathRandSource()
	for t := 0; t < 200 && !engine.IsBattleOver(state); t++ {
		act1 := e.GetBestMoveMinimax(state, "p1", cfg.Search.MinimaxDepth)
		act2 := e.ChooseHighestPower(state, "p2")
		var actions []battle.Action
		if act1 != nil {
			actions = append(actions, *act1)
		}
		if act2 != nil {
			actions = append(actions, *act2)
		}
		next, err := e.StepBattle(state, actions, source, turn.Options{RecordHistory: true})
		if err != nil {
			logger.Error("step failed", zap.Error(err))
			break
		}
		state = next
	}

	for _, line := range state.Log {
		fmt.Println(line)
	}
	logger.Info("battle finished", zap.String("winner", engine.GetWinner(state)), zap.Int("turns", state.Turn))

	if store != nil {
		rec := battlelog.Record{BattleID: "cli-battle", InitialState: initial, Turns: state.History, WinnerID: engine.GetWinner(state)}
		if err := store.Store(context.Background(), rec); err != nil {
			logger.Error("failed to persist battle", zap.Error(err))
		}
	}
}

func runLadder(logger *zap.Logger, e *engine.Engine, store *battlelog.Store, cfg *config.Config) {
	a, err := e.CreateCreature("tatuta", "", creature.CreateOptions{Moves: []string{"icicle_spear", "tackle"}, Ability: "pressure"})
	if err != nil {
		logger.Fatal("failed to create creature", zap.Error(err))
	}
	b, err := e.CreateCreature("morimitu", "", creature.CreateOptions{Moves: []string{"solar_beam", "tackle"}, Ability: "pressure"})
	if err != nil {
		logger.Fatal("failed to create creature", zap.Error(err))
	}

	contestants := []ladder.Contestant{
		{Name: "minimax", Team: []*creature.Creature{a}, Policy: ladder.PolicyMinimax, Depth: cfg.Search.MinimaxDepth},
		{Name: "mcts", Team: []*creature.Creature{b}, Policy: ladder.PolicyMCTS, SimsN: cfg.Search.MCTSSimulations},
	}

	sb, err := ladder.Run(e, contestants, ladder.Options{})
	if err != nil {
		logger.Fatal("ladder run failed", zap.Error(err))
	}

	for _, c := range contestants {
		fmt.Printf("%-10s wins=%d losses=%d draws=%d\n", c.Name, sb.Wins[c.Name], sb.Losses[c.Name], sb.Draws[c.Name])
	}

	if store != nil {
		logger.Info("ladder complete", zap.Int("pairings", len(sb.Results)))
	}
}
