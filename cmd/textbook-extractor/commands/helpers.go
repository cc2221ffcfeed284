package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spherical/textbook-extractor/cmd/textbook-extractor/ui"
	"github.com/spherical/textbook-extractor/internal/cache"
	"github.com/spherical/textbook-extractor/internal/config"
	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/llm"
	"github.com/spherical/textbook-extractor/internal/observability"
	"github.com/spherical/textbook-extractor/internal/storage"
	"github.com/spherical/textbook-extractor/internal/vision"
)

// inputPath returns the positional argument or asks for it.
func inputPath(args []string, prompt string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	return ui.PromptRequired(prompt)
}

// buildGateway wires the collaborators named by withVision and the Gemini
// client behind one gate and cache. The returned closer releases the cache.
func buildGateway(ctx context.Context, c *config.Config, withVision bool, log *observability.Logger) (*gateway.Gateway, func(), error) {
	if withVision {
		if err := c.RequireVision(); err != nil {
			return nil, nil, err
		}
	}
	if err := c.RequireGemini(); err != nil {
		return nil, nil, err
	}

	var annotator domain.VisionAnnotator
	if withVision {
		annotator = vision.NewClient(vision.Config{
			APIKey:           c.Vision.APIKey,
			Endpoint:         c.Vision.Endpoint,
			LanguageHints:    c.Vision.LanguageHints,
			TextMaxResults:   c.Vision.TextMaxResults,
			ObjectMaxResults: c.Vision.ObjectMaxResults,
			Timeout:          c.Vision.Timeout,
			Retry: vision.RetryConfig{
				MaxRetries:     c.Retry.MaxRetries,
				InitialBackoff: c.Retry.InitialBackoff,
				MaxBackoff:     c.Retry.MaxBackoff,
			},
		}, log)
	}

	gen, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:      c.Gemini.APIKey,
		Model:       c.Gemini.Model,
		Temperature: c.Gemini.Temperature,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	cc, err := cache.New(cache.Config{
		Driver: c.Cache.Driver,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
	})
	if err != nil {
		return nil, nil, domain.ConfigError("cache unavailable", err)
	}

	closer := func() {
		if cc != nil {
			if err := cc.Close(); err != nil {
				log.Warn().Err(err).Msg("cache close failed")
			}
		}
	}

	gw := gateway.New(annotator, gen, gateway.Options{
		Gate:     gateway.NewGate(c.Rate.Interval, c.Rate.Burst),
		Cache:    cc,
		CacheTTL: c.Cache.TTL,
		Model:    c.Gemini.Model,
		Logger:   log,
	})
	return gw, closer, nil
}

// ledger records one command run. A disabled or unavailable store turns it
// into a no-op; the ledger never fails a run.
type ledger struct {
	store *storage.Store
	run   *storage.Run
	log   *observability.Logger
}

func openLedger(ctx context.Context, c *config.Config, kind storage.RunKind, source string, log *observability.Logger) *ledger {
	l := &ledger{log: log}
	if !c.Storage.Enabled {
		return l
	}

	store, err := storage.Open(ctx, c.Storage.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", c.Storage.Path).Msg("run ledger unavailable")
		return l
	}
	run, err := store.StartRun(ctx, kind, source)
	if err != nil {
		log.Warn().Err(err).Msg("could not record run start")
		_ = store.Close()
		return l
	}

	l.store = store
	l.run = run
	return l
}

// finish closes the run with the given outcome. It uses a fresh context so a
// cancelled command still records its failure.
func (l *ledger) finish(outputPath string, pages int, counters domain.Counters, runErr error) {
	if l.store == nil {
		return
	}
	defer l.store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.run.OutputPath = outputPath
	l.run.Pages = pages
	l.run.VisionCalls = counters.VisionCalls
	l.run.GenerativeCalls = counters.GenerativeCalls
	if err := l.store.FinishRun(ctx, l.run, runErr); err != nil {
		l.log.Warn().Err(err).Str("run_id", l.run.ID.String()).Msg("could not record run result")
	}
}

func saveQuestions[Q domain.Question](ctx context.Context, l *ledger, records []Q) {
	if l.store == nil || len(records) == 0 {
		return
	}
	if err := storage.SaveQuestions(ctx, l.store, l.run.ID, records); err != nil {
		l.log.Warn().Err(err).Int("records", len(records)).Msg("could not store questions for review")
	}
}

func showUsage(c domain.Counters) {
	ui.KeyValue("Vision API calls", strconv.Itoa(c.VisionCalls))
	ui.KeyValue("Gemini API calls", strconv.Itoa(c.GenerativeCalls))
	ui.KeyValue("Total API calls", strconv.Itoa(c.Total()))
}

func pct(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
}
