package domain

import (
	"time"
	"unicode/utf8"
)

// Fixed placeholders substituted when an AI-derived value is unavailable.
const (
	DescriptionUnavailable = "વર્ણન ઉપલબ્ધ નથી"
	SummaryUnavailable     = "સારાંશ ઉપલબ્ધ નથી"
	AnswerIncomplete       = "ઉકેલ પૂર્ણ કરવાની જરૂર છે"
)

// PageImage is one rendered PDF page on disk.
type PageImage struct {
	PageNumber int
	ImagePath  string // Path to temporary PNG file
	Width      int
	Height     int
}

// Document is the full record for one processed source file.
type Document struct {
	Metadata    DocumentMetadata `json:"metadata"`
	ChapterInfo *ChapterInfo     `json:"chapter_info,omitempty"`
	Pages       []Page           `json:"pages"`
}

// DocumentMetadata carries provenance and aggregate counts.
type DocumentMetadata struct {
	RunID                 string    `json:"run_id,omitempty"`
	SourcePDF             string    `json:"source_pdf"`
	Board                 string    `json:"board,omitempty"`
	Class                 int       `json:"class,omitempty"`
	Subject               string    `json:"subject,omitempty"`
	Medium                string    `json:"medium,omitempty"`
	ProcessedAt           time.Time `json:"processed_at"`
	TotalPages            int       `json:"total_pages"`
	TotalTopics           int       `json:"total_topics"`
	TotalImages           int       `json:"total_images"`
	TotalCharacters       int       `json:"total_characters"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
	APIUsage              APIUsage  `json:"api_usage"`
}

// APIUsage is the serialized form of Counters.
type APIUsage struct {
	VisionAPICalls int `json:"vision_api_calls"`
	GeminiAPICalls int `json:"gemini_api_calls"`
	TotalAPICalls  int `json:"total_api_calls"`
}

// ChapterInfo is derived once from all page summaries.
type ChapterInfo struct {
	ChapterSummary  string    `json:"chapter_summary"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
	ExtractedTopics []string  `json:"extracted_topics"`
}

// Page is created by the extraction stage and filled in by later stages.
type Page struct {
	PageNumber       int            `json:"page_number"`
	Text             string         `json:"text"`
	Images           []VisualObject `json:"images"`
	ExtractedAt      time.Time      `json:"extracted_at"`
	Error            string         `json:"error,omitempty"`
	Summary          string         `json:"page_summary,omitempty"`
	SummarizedAt     *time.Time     `json:"summarized_at,omitempty"`
	AssignedTopics   []int          `json:"assigned_topics,omitempty"`
	TopicsAssignedAt *time.Time     `json:"topics_assigned_at,omitempty"`
}

// Failed reports whether extraction left an error marker on the page.
func (p *Page) Failed() bool {
	return p.Error != ""
}

// HasValidSummary reports whether the page carries a real summary.
func (p *Page) HasValidSummary() bool {
	return p.Summary != "" && p.Summary != SummaryUnavailable
}

// Integrated reports whether reference ids were already assigned on the page.
func (p *Page) Integrated() bool {
	for _, img := range p.Images {
		if img.ReferenceID != "" {
			return true
		}
	}
	return false
}

// VisualObject is a detected non-text element on a page.
type VisualObject struct {
	ObjectType             string          `json:"object_type"`
	Confidence             float64         `json:"confidence"`
	DetectionMethod        DetectionMethod `json:"detection_method"`
	RawDetection           string          `json:"raw_detection,omitempty"`
	EducationalContext     string          `json:"educational_context,omitempty"`
	EducationalDescription string          `json:"educational_description,omitempty"`
	ReferenceID            string          `json:"reference_id,omitempty"`
}

// Descriptions returns the educational descriptions of the page visuals in
// detection order.
func (p *Page) Descriptions() []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img.EducationalDescription)
	}
	return out
}

// Totals recomputes the aggregate counters of the metadata block from pages.
func (d *Document) Totals() (images, characters int) {
	for i := range d.Pages {
		images += len(d.Pages[i].Images)
		characters += utf8.RuneCountInString(d.Pages[i].Text)
	}
	return images, characters
}

// VisionResult is the part of an annotate response the pipeline consumes.
type VisionResult struct {
	// Text is the description of the first text annotation.
	Text string
	// HasTextAnnotations is false when the text detection mode found nothing.
	HasTextAnnotations bool
	// DocumentText is the full-text annotation from document text detection.
	DocumentText string
	Objects      []LocalizedObject
}

// LocalizedObject is one object localization result.
type LocalizedObject struct {
	Name  string
	Score float64
}
