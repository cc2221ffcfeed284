package commands

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spherical/textbook-extractor/cmd/textbook-extractor/ui"
	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/storage"
)

var (
	runsLimit int
	runsRunID string
)

const questionPreviewRunes = 60

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs, or the questions stored by one run",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "number of runs to show")
	runsCmd.Flags().StringVar(&runsRunID, "run", "", "show one run and the questions it stored for review")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	if !cfg.Storage.Enabled {
		ui.Warning("Run ledger is disabled (storage.enabled=false)")
		return nil
	}

	store, err := storage.Open(cmd.Context(), cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if runsRunID != "" {
		return showRun(cmd, store, runsRunID)
	}

	runs, err := store.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		ui.Info("No runs recorded yet")
		return nil
	}

	ui.Table([]string{"ID", "KIND", "STATUS", "STARTED", "PAGES", "CALLS", "OUTPUT"}, runRows(runs))
	return nil
}

func runRows(runs []*storage.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		calls := domain.Counters{VisionCalls: r.VisionCalls, GenerativeCalls: r.GenerativeCalls}.Total()
		output := r.OutputPath
		if r.Status == storage.RunStatusFailed {
			output = r.Error
		}
		rows = append(rows, []string{
			r.ID.String(),
			string(r.Kind),
			string(r.Status),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.Pages),
			strconv.Itoa(calls),
			output,
		})
	}
	return rows
}

func showRun(cmd *cobra.Command, store *storage.Store, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("invalid run id %q", rawID), err)
	}

	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	ui.Section("Run " + run.ID.String())
	ui.KeyValue("Kind", string(run.Kind))
	ui.KeyValue("Source", run.Source)
	ui.KeyValue("Status", string(run.Status))
	ui.KeyValue("Started", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		ui.KeyValue("Duration", ui.FormatDuration(run.FinishedAt.Sub(run.StartedAt)))
	}
	if run.OutputPath != "" {
		ui.KeyValue("Output", run.OutputPath)
	}
	if run.Error != "" {
		ui.KeyValue("Error", run.Error)
	}
	showUsage(domain.Counters{VisionCalls: run.VisionCalls, GenerativeCalls: run.GenerativeCalls})

	stored, err := store.QuestionsByRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		ui.Info("No questions stored for this run")
		return nil
	}

	ui.Section("Questions for review")
	ui.Table([]string{"NUMBER", "PAGE", "TYPE", "STATUS", "QUESTION"}, questionRows(stored))
	return nil
}

func questionRows(stored []*storage.StoredQuestion) [][]string {
	rows := make([][]string, 0, len(stored))
	for _, q := range stored {
		text := []rune(q.QuestionText)
		preview := q.QuestionText
		if len(text) > questionPreviewRunes {
			preview = string(text[:questionPreviewRunes]) + "…"
		}
		rows = append(rows, []string{q.Number, strconv.Itoa(q.PageNumber), q.QuestionType, q.Status, preview})
	}
	return rows
}
