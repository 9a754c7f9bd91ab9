package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/aedificium/archive"
	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/solve"
)

var replayFlags struct {
	archive string
	problem string
}

var replayCmd = &cobra.Command{
	Use:   "replay [run-id]",
	Short: "List archived runs, or reconstruct one offline",
	Long: `Without arguments, lists the archived runs (newest first). With a run id,
reconstructs the map from the archived observations using the configured
engine, without spending oracle queries, and compares it with the map that was
guessed at the time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayFlags.archive, "archive", "", "SQLite archive path (default from config)")
	f.StringVar(&replayFlags.problem, "problem", "", "Only list runs of this problem")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cmd.Flags().Changed("archive") {
		cfg.Archive.Path = replayFlags.archive
	}
	if cfg.Archive.Path == "" {
		return fmt.Errorf("replay: no archive (set --archive or archive.path)")
	}
	store, err := archive.Open(ctx, cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		return listRuns(cmd, store)
	}

	opts, err := cfg.SolveOptions()
	if err != nil {
		return err
	}
	run, res, err := solve.Replay(ctx, store, args[0], append(opts, solve.WithLogger(logger))...)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run=%s problem=%s rooms=%d engine=%s steps=%d\n",
		run.ID, run.Problem, run.Rooms, res.Engine, res.Steps)
	if run.Graph != nil {
		fmt.Fprintf(w, "matches guessed map: %t\n", graph.Bisimilar(run.Graph, res.Graph))
	}

	return nil
}

func listRuns(cmd *cobra.Command, store *archive.Store) error {
	runs, err := store.ListRuns(cmd.Context(), replayFlags.problem)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tROOMS\tTRACES\tQUERIES\tVERDICT\tCREATED")
	for _, r := range runs {
		verdict := "-"
		if r.Correct != nil {
			verdict = fmt.Sprint(*r.Correct)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.Problem, r.Rooms, r.Traces, r.QueryCount, verdict, r.CreatedAt.Format(time.RFC3339))
	}

	return w.Flush()
}
