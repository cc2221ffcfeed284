package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Layouts accepted when reading timestamps back from a stored record. Records
// written by older tools carry ISO 8601 local times without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// flexTime decodes any of timestampLayouts. Values that are not a readable
// timestamp decode as unset.
type flexTime struct {
	t   time.Time
	set bool
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	*f = flexTime{}
	var s string
	if json.Unmarshal(b, &s) != nil || strings.TrimSpace(s) == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local); err == nil {
			f.t, f.set = t, true
			return nil
		}
	}
	return nil
}

func (f flexTime) ptr() *time.Time {
	if !f.set {
		return nil
	}
	t := f.t
	return &t
}

func (m *DocumentMetadata) UnmarshalJSON(b []byte) error {
	type plain DocumentMetadata
	aux := struct {
		*plain
		ProcessedAt flexTime `json:"processed_at"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.ProcessedAt = aux.ProcessedAt.t
	return nil
}

func (c *ChapterInfo) UnmarshalJSON(b []byte) error {
	type plain ChapterInfo
	aux := struct {
		*plain
		AnalyzedAt flexTime `json:"analyzed_at"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.AnalyzedAt = aux.AnalyzedAt.t
	return nil
}

func (p *Page) UnmarshalJSON(b []byte) error {
	type plain Page
	aux := struct {
		*plain
		ExtractedAt      flexTime `json:"extracted_at"`
		SummarizedAt     flexTime `json:"summarized_at"`
		TopicsAssignedAt flexTime `json:"topics_assigned_at"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ExtractedAt = aux.ExtractedAt.t
	p.SummarizedAt = aux.SummarizedAt.ptr()
	p.TopicsAssignedAt = aux.TopicsAssignedAt.ptr()
	return nil
}

// UnmarshalJSON also accepts object_type and raw_detection holding a whole
// detection object, as older records store generative detections. The
// object's description becomes the type and its compact JSON the raw
// detection.
func (v *VisualObject) UnmarshalJSON(b []byte) error {
	type plain VisualObject
	aux := struct {
		*plain
		ObjectType   json.RawMessage `json:"object_type"`
		RawDetection json.RawMessage `json:"raw_detection"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	v.ObjectType = objectTypeText(aux.ObjectType)
	v.RawDetection = rawDetectionText(aux.RawDetection)
	return nil
}

func rawDetectionText(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) != nil {
		return ""
	}
	return buf.String()
}

func objectTypeText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var det struct {
		Description string `json:"description"`
	}
	if json.Unmarshal(raw, &det) == nil {
		return det.Description
	}
	return ""
}
