package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/textbook-extractor/cmd/textbook-extractor/ui"
	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/orchestrator"
	"github.com/spherical/textbook-extractor/internal/pdf"
	"github.com/spherical/textbook-extractor/internal/record"
	"github.com/spherical/textbook-extractor/internal/storage"
)

var processChapter string

var processCmd = &cobra.Command{
	Use:   "process [pdf]",
	Short: "Run OCR and the page stages over a textbook PDF",
	Long: `Render every page of the PDF, extract text and visuals, describe the visuals,
summarize each page, analyze the chapter and assign topics. The result is
written as a page-collection JSON record.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processChapter, "chapter", "", "chapter name used for visual detection hints (overrides config)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pdfPath, err := inputPath(args, "Enter the path to the PDF file")
	if err != nil {
		return err
	}
	if err := pdf.NewValidator(logger).ValidatePDFPath(pdfPath); err != nil {
		return err
	}

	gw, closeGateway, err := buildGateway(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer closeGateway()

	chapter := cfg.Pipeline.Chapter
	if processChapter != "" {
		chapter = processChapter
	}

	ui.Section("Processing Textbook")
	ui.Info("PDF: %s", pdfPath)
	ui.Info("Chapter: %s", chapter)

	renderer := pdf.NewRenderer(cfg.Vision.DPI, logger)
	orch := orchestrator.New(renderer, gw, orchestrator.Options{
		Chapter: chapter,
		Board:   cfg.Document.Board,
		Class:   cfg.Document.Class,
		Subject: cfg.Document.Subject,
		Medium:  cfg.Document.Medium,
		Logger:  logger,
	})

	runLedger := openLedger(ctx, cfg, storage.RunKindProcess, pdfPath, logger)

	eventCh := make(chan domain.StreamEvent, 100)
	type outcome struct {
		doc      *domain.Document
		counters domain.Counters
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		doc, counters, err := orch.Process(ctx, pdfPath, eventCh)
		close(eventCh)
		done <- outcome{doc, counters, err}
	}()

	showProgress(eventCh)
	res := <-done

	if res.err != nil {
		runLedger.finish("", 0, res.counters, res.err)
		return fmt.Errorf("processing failed: %w", res.err)
	}

	outPath, err := record.SaveDocument(cfg.Output.Dir, cfg.Document.FilePrefix, res.doc, time.Now())
	runLedger.finish(outPath, len(res.doc.Pages), res.counters, err)
	if err != nil {
		return err
	}

	ui.Section("Summary")
	meta := res.doc.Metadata
	ui.KeyValue("Pages", strconv.Itoa(meta.TotalPages))
	ui.KeyValue("Images", strconv.Itoa(meta.TotalImages))
	ui.KeyValue("Characters", strconv.Itoa(meta.TotalCharacters))
	ui.KeyValue("Topics", strconv.Itoa(meta.TotalTopics))
	ui.KeyValue("Duration", ui.FormatDuration(time.Duration(meta.ProcessingTimeSeconds*float64(time.Second))))
	showUsage(res.counters)
	ui.Success("Saved %s", outPath)
	return nil
}

// showProgress renders one progress bar per stage until eventCh is closed.
func showProgress(eventCh <-chan domain.StreamEvent) {
	var (
		bar  *ui.ProgressBar
		spin *ui.Spinner
		done int
	)
	stopSpin := func() {
		if spin != nil {
			spin.Stop()
			spin = nil
		}
	}
	defer stopSpin()

	for event := range eventCh {
		switch event.Type {
		case domain.EventStart:
			spin = ui.NewSpinner("Rendering pages")
			spin.Start()
		case domain.EventStageStart:
			stopSpin()
			if bar != nil {
				bar.Finish()
			}
			done = 0
			bar = ui.NewProgressBar(int64(event.Total), event.Stage)
		case domain.EventPageComplete:
			if bar != nil {
				done++
				bar.Set(int64(done))
			}
		case domain.EventStageComplete:
			if bar != nil {
				bar.Finish()
				bar = nil
			}
			if c, ok := event.Payload.(domain.Counters); ok && ui.Verbose() {
				ui.Info("%s: %d vision, %d gemini calls", event.Stage, c.VisionCalls, c.GenerativeCalls)
			}
		case domain.EventError:
			stopSpin()
			if bar != nil {
				bar.Finish()
				bar = nil
			}
			ui.Error("%v", event.Payload)
		case domain.EventComplete:
			ui.Success("%v", event.Payload)
		}
	}
	if bar != nil {
		bar.Finish()
	}
}
