package stages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// TopicAssignment derives the chapter topic list from the chapter summary
// and assigns a subset of it to each page by 1-based index.
type TopicAssignment struct {
	base
}

func NewTopicAssignment(gw *gateway.Gateway, log *observability.Logger) *TopicAssignment {
	return &TopicAssignment{base: newBase(gw, log, NameTopicAssignment)}
}

func (s *TopicAssignment) Name() string { return NameTopicAssignment }

func (s *TopicAssignment) Run(ctx context.Context, doc *domain.Document, report domain.PageReporter) (domain.Counters, error) {
	var c domain.Counters

	if doc.ChapterInfo == nil {
		doc.ChapterInfo = &domain.ChapterInfo{}
	}
	topics := ExtractTopics(doc.ChapterInfo.ChapterSummary)
	doc.ChapterInfo.ExtractedTopics = topics
	s.log.Info().Int("topics", len(topics)).Msg("topics extracted")

	numbered := make([]string, len(topics))
	for i, t := range topics {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, t)
	}
	list := strings.Join(numbered, "\n")

	assigned := 0
	for i := range doc.Pages {
		select {
		case <-ctx.Done():
			return c, ctx.Err()
		default:
		}

		page := &doc.Pages[i]
		resp, err := s.gw.Generate(ctx, buildTopicPrompt(truncateRunes(page.Text, topicSampleRunes), list), &c)
		if err != nil {
			if aborted(ctx, err) {
				return c, err
			}
			s.log.Warn().Int("page", page.PageNumber).Err(err).Msg("topic assignment failed")
			page.AssignedTopics = []int{}
			report.Report(page.PageNumber)
			continue
		}

		now := time.Now()
		page.AssignedTopics = ParseTopicIndices(resp, len(topics))
		page.TopicsAssignedAt = &now
		assigned += len(page.AssignedTopics)
		report.Report(page.PageNumber)
	}

	s.log.Info().Int("assignments", assigned).Msg("topic assignment complete")
	return c, nil
}

const (
	topicSampleRunes = 2000
	minTopicRunes    = 5
)

// ExtractTopics returns the numbered or bulleted lines of summary with
// their markers stripped, keeping those longer than five characters. When
// none qualify DefaultTopics is returned.
func ExtractTopics(summary string) []string {
	var topics []string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !unicode.IsDigit(first) && !strings.HasPrefix(line, "- ") {
			continue
		}
		topic := strings.TrimSpace(strings.TrimLeft(line, "0123456789.- "))
		if utf8.RuneCountInString(topic) > minTopicRunes {
			topics = append(topics, topic)
		}
	}
	if len(topics) == 0 {
		return append([]string(nil), DefaultTopics...)
	}
	return topics
}

// ParseTopicIndices reads a comma-separated index list, keeping each value
// in 1..count once, in first-seen order. Malformed tokens are dropped.
func ParseTopicIndices(resp string, count int) []int {
	out := []int{}
	seen := make(map[int]bool)
	for _, part := range strings.Split(resp, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > count || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
