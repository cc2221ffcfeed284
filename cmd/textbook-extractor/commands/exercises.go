package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/textbook-extractor/cmd/textbook-extractor/ui"
	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/questions"
	"github.com/spherical/textbook-extractor/internal/record"
	"github.com/spherical/textbook-extractor/internal/storage"
)

var exercisesPrefilter bool

var exercisesCmd = &cobra.Command{
	Use:   "exercises [json]",
	Short: "Extract exercise questions from a page-collection record",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExercises,
}

func init() {
	exercisesCmd.Flags().BoolVar(&exercisesPrefilter, "prefilter", false, "only send pages with an exercise section heading or numbered questions")
	rootCmd.AddCommand(exercisesCmd)
}

func runExercises(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path, err := inputPath(args, "Enter the path to the processed JSON file")
	if err != nil {
		return err
	}
	doc, err := record.LoadDocument(path)
	if err != nil {
		return err
	}

	gw, closeGateway, err := buildGateway(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer closeGateway()

	strict := cfg.Questions.ExercisePrefilter || exercisesPrefilter
	pipeline := questions.NewExercisePipeline(gw, questionsConfig(), strict, logger)
	runLedger := openLedger(ctx, cfg, storage.RunKindExercises, path, logger)

	ui.Section("Extracting Exercises")
	bar := ui.NewProgressBar(int64(len(doc.Pages)), "exercises")
	done := 0
	res, err := pipeline.Run(ctx, doc, func(int) {
		done++
		bar.Set(int64(done))
	})
	bar.Finish()
	if err != nil {
		var used domain.Counters
		if res != nil {
			used = res.Counters
		}
		runLedger.finish("", len(doc.Pages), used, err)
		return fmt.Errorf("exercise extraction failed: %w", err)
	}

	outPath, err := record.SaveExercises(cfg.Output.Dir, cfg.Document.Subject, res, time.Now())
	saveQuestions(ctx, runLedger, res.Records)
	runLedger.finish(outPath, len(doc.Pages), res.Counters, err)
	if err != nil {
		return err
	}

	showQuestionStats(res.Chapter, res.PagesProcessed, res.PagesSkipped, res.SkippedRecords, res.Duration, questions.Summarize(res.Records))
	showUsage(res.Counters)
	ui.Success("Saved %d questions to %s", len(res.Records), outPath)
	return nil
}
