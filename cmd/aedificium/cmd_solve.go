package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/aedificium/archive"
	"github.com/katalvlaran/aedificium/config"
	"github.com/katalvlaran/aedificium/oracle"
	"github.com/katalvlaran/aedificium/solve"
)

var solveFlags struct {
	problem string
	local   bool
	engine  string
	seed    int64
	archive string
	out     string
	prints  int
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Explore a problem, reconstruct its map and submit the guess",
	Long: `Selects a problem on the oracle, sends magic-pattern plans, fingerprints the
rooms they visit, rebuilds the map and guesses it. With --local the oracle is
simulated in process.

A failed reconstruction or a rejected guess starts a new attempt with fresh
plans, up to the configured number of attempts.`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVar(&solveFlags.problem, "problem", "", "Problem name (default from config)")
	f.BoolVar(&solveFlags.local, "local", false, "Use the in-process simulated oracle")
	f.StringVar(&solveFlags.engine, "engine", "", "Engine override: auto, merge or exhaustive")
	f.Int64Var(&solveFlags.seed, "seed", 0, "Seed for plans and the local oracle (default from config)")
	f.StringVar(&solveFlags.archive, "archive", "", "SQLite archive path (default from config)")
	f.IntVar(&solveFlags.prints, "fingerprints", 0, "Fingerprint words per attempt, 0 turns the stage off (default from config)")
	f.StringVarP(&solveFlags.out, "output", "o", "", "Write the guessed map as JSON to this file")
}

func runSolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	applySolveFlags(cmd)
	opts, err := cfg.SolveOptions()
	if err != nil {
		return err
	}
	opts = append(opts, solve.WithLogger(logger))

	var o oracle.Oracle
	if solveFlags.local {
		o = oracle.NewLocal(cfg.Plans.Seed)
	} else {
		if cfg.Oracle.ID == "" {
			return fmt.Errorf("solve: oracle id missing (set oracle.id or %s)", config.EnvID)
		}
		o = oracle.NewClient(cfg.Oracle.URL, cfg.Oracle.ID, cfg.ClientOptions(logger)...)
	}

	store, err := openArchive(cmd, cfg.Archive.Path)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	out, err := solve.NewRunner(o, store, opts...).Run(ctx, cfg.Problem)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "problem=%s rooms=%d correct=%t attempts=%d queries=%d engine=%s\n",
		out.Problem, out.Rooms, out.Correct, out.Attempts, out.QueryCount, out.Engine)
	if out.RunID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "run=%s\n", out.RunID)
	}
	if solveFlags.out != "" {
		data, err := json.MarshalIndent(out.Graph, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(solveFlags.out, data, 0o644); err != nil {
			return fmt.Errorf("solve: write map: %w", err)
		}
	}

	return nil
}

// applySolveFlags lays explicitly set flags over the loaded configuration.
func applySolveFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("problem") {
		cfg.Problem = solveFlags.problem
	}
	if f.Changed("engine") {
		cfg.Engine = solveFlags.engine
	}
	if f.Changed("seed") {
		cfg.Plans.Seed = solveFlags.seed
	}
	if f.Changed("archive") {
		cfg.Archive.Path = solveFlags.archive
	}
	if f.Changed("fingerprints") {
		cfg.Plans.Fingerprints = solveFlags.prints
	}
}

// openArchive opens path, or returns nil when path is empty.
func openArchive(cmd *cobra.Command, path string) (*archive.Store, error) {
	if path == "" {
		return nil, nil
	}

	return archive.Open(cmd.Context(), path)
}
