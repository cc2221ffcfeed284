// Package record reads page-collection records and writes the JSON
// artifacts produced by the pipelines.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/questions"
)

// TimestampLayout is the suffix format of artifact file names.
const TimestampLayout = "20060102_150405"

// ExtractorVersion is written into exercise artifacts.
const ExtractorVersion = "1.0"

// LoadDocument reads a page-collection record produced by the process
// command. Pages are required; a visual with an unknown detection method
// makes the record invalid.
func LoadDocument(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("read %s", path), err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.ParseError(fmt.Sprintf("decode %s", path), err)
	}

	if doc.Pages == nil {
		return nil, domain.ValidationError("record has no pages", nil)
	}

	for _, page := range doc.Pages {
		for i, img := range page.Images {
			if img.DetectionMethod == "" {
				continue
			}
			if _, ok := domain.ParseDetectionMethod(string(img.DetectionMethod)); !ok {
				return nil, domain.ValidationError(
					fmt.Sprintf("page %d visual %d: unknown detection method %q", page.PageNumber, i+1, img.DetectionMethod), nil)
			}
		}
	}

	return &doc, nil
}

// DocumentFileName is "<prefix>_<pdf name>_<timestamp>.json".
func DocumentFileName(prefix, sourcePDF string, at time.Time) string {
	base := strings.TrimSuffix(filepath.Base(sourcePDF), filepath.Ext(sourcePDF))
	return fmt.Sprintf("%s_%s_%s.json", prefix, base, at.Format(TimestampLayout))
}

// SaveDocument writes doc into dir and returns the file path.
func SaveDocument(dir, prefix string, doc *domain.Document, at time.Time) (string, error) {
	path := filepath.Join(dir, DocumentFileName(prefix, doc.Metadata.SourcePDF, at))
	return path, writeJSON(path, doc)
}

// ExamplesMetadata heads an examples artifact.
type ExamplesMetadata struct {
	ExtractionType string          `json:"extraction_type"`
	Chapter        string          `json:"chapter,omitempty"`
	TotalExamples  int             `json:"total_examples"`
	ExtractedAt    time.Time       `json:"extracted_at"`
	APICalls       int             `json:"api_calls"`
	SkippedRecords int             `json:"skipped_records"`
	Statistics     questions.Stats `json:"statistics"`
}

// ExamplesArtifact is the examples output file.
type ExamplesArtifact struct {
	Metadata ExamplesMetadata  `json:"metadata"`
	Examples []*domain.Example `json:"examples"`
}

// SaveExamples writes extracted_examples_<timestamp>.json into dir.
func SaveExamples(dir string, res *questions.Result[*domain.Example], at time.Time) (string, error) {
	artifact := ExamplesArtifact{
		Metadata: ExamplesMetadata{
			ExtractionType: "examples",
			Chapter:        res.Chapter,
			TotalExamples:  len(res.Records),
			ExtractedAt:    at,
			APICalls:       res.Counters.GenerativeCalls,
			SkippedRecords: res.SkippedRecords,
			Statistics:     questions.Summarize(res.Records),
		},
		Examples: res.Records,
	}
	path := filepath.Join(dir, fmt.Sprintf("extracted_examples_%s.json", at.Format(TimestampLayout)))
	return path, writeJSON(path, artifact)
}

// ExercisesMetadata heads an exercises artifact.
type ExercisesMetadata struct {
	ExtractionType   string          `json:"extraction_type"`
	Subject          string          `json:"subject"`
	Chapter          string          `json:"chapter,omitempty"`
	TotalQuestions   int             `json:"total_questions"`
	ExtractedAt      time.Time       `json:"extracted_at"`
	APICalls         int             `json:"api_calls"`
	ExtractorVersion string          `json:"extractor_version"`
	SkippedRecords   int             `json:"skipped_records"`
	Statistics       questions.Stats `json:"statistics"`
}

// ExercisesArtifact is the exercises output file.
type ExercisesArtifact struct {
	Metadata  ExercisesMetadata  `json:"metadata"`
	Exercises []*domain.Exercise `json:"exercises"`
}

// SaveExercises writes extracted_exercises_<timestamp>.json into dir.
func SaveExercises(dir, subject string, res *questions.Result[*domain.Exercise], at time.Time) (string, error) {
	artifact := ExercisesArtifact{
		Metadata: ExercisesMetadata{
			ExtractionType:   "exercises",
			Subject:          subject,
			Chapter:          res.Chapter,
			TotalQuestions:   len(res.Records),
			ExtractedAt:      at,
			APICalls:         res.Counters.GenerativeCalls,
			ExtractorVersion: ExtractorVersion,
			SkippedRecords:   res.SkippedRecords,
			Statistics:       questions.Summarize(res.Records),
		},
		Exercises: res.Records,
	}
	path := filepath.Join(dir, fmt.Sprintf("extracted_exercises_%s.json", at.Format(TimestampLayout)))
	return path, writeJSON(path, artifact)
}

// writeJSON writes v indented and without HTML escaping to a temporary
// file, then renames it into place.
func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.ConversionError("encode artifact", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.IOError("create output directory", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return domain.IOError(fmt.Sprintf("write %s", path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return domain.IOError(fmt.Sprintf("write %s", path), err)
	}
	return nil
}
