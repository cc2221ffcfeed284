package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/textbook-extractor/cmd/textbook-extractor/ui"
	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/questions"
	"github.com/spherical/textbook-extractor/internal/record"
	"github.com/spherical/textbook-extractor/internal/storage"
)

var examplesCmd = &cobra.Command{
	Use:   "examples [json]",
	Short: "Extract worked examples from a page-collection record",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExamples,
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}

func runExamples(cmd *cobra.Command, args []string) error {
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

	pipeline := questions.NewExamplePipeline(gw, questionsConfig(), logger)
	runLedger := openLedger(ctx, cfg, storage.RunKindExamples, path, logger)

	ui.Section("Extracting Examples")
	bar := ui.NewProgressBar(int64(len(doc.Pages)), "examples")
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
		return fmt.Errorf("example extraction failed: %w", err)
	}

	outPath, err := record.SaveExamples(cfg.Output.Dir, res, time.Now())
	saveQuestions(ctx, runLedger, res.Records)
	runLedger.finish(outPath, len(doc.Pages), res.Counters, err)
	if err != nil {
		return err
	}

	showQuestionStats(res.Chapter, res.PagesProcessed, res.PagesSkipped, res.SkippedRecords, res.Duration, questions.Summarize(res.Records))
	showUsage(res.Counters)
	ui.Success("Saved %d examples to %s", len(res.Records), outPath)
	return nil
}

func questionsConfig() questions.Config {
	return questions.Config{
		MinTextLength:      cfg.Questions.MinTextLength,
		RelevanceThreshold: cfg.Questions.RelevanceThreshold,
	}
}

func showQuestionStats(chapter string, processed, skippedPages, skippedRecords int, took time.Duration, stats questions.Stats) {
	ui.Section("Statistics")
	ui.KeyValue("Chapter", chapter)
	ui.KeyValue("Records", strconv.Itoa(stats.Total))
	ui.KeyValue("Pages sent", fmt.Sprintf("%d (%s of %d)", processed, pct(processed, processed+skippedPages), processed+skippedPages))
	ui.KeyValue("Unique pages", strconv.Itoa(stats.UniquePages))
	if stats.ExerciseSets > 0 {
		ui.KeyValue("Exercise sets", strconv.Itoa(stats.ExerciseSets))
	}
	ui.KeyValue("Rejected records", strconv.Itoa(skippedRecords))
	ui.KeyValue("Mentioned visuals", strconv.Itoa(stats.MentionedVisuals))
	ui.KeyValue("Resolved visuals", strconv.Itoa(stats.ResolvedVisuals))
	ui.KeyValue("Detected visuals", strconv.Itoa(stats.DetectedVisuals))
	ui.KeyValue("Duration", ui.FormatDuration(took))
	ui.Breakdown("Question types", stats.QuestionTypes)
	ui.Breakdown("Difficulty", stats.Difficulties)
}
