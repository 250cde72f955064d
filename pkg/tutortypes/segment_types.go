// Package tutortypes defines display segment types for Coddify.
// This file contains the tagged Segment variant produced by the content
// segmenter from finalized model turn text.
package tutortypes

// LinkKind identifies the typed link placeholders the model may emit.
type LinkKind string

const (
	// LinkResource is a link to an external learning resource.
	LinkResource LinkKind = "resource"
	// LinkImage is a link to an illustrative image.
	LinkImage LinkKind = "image"
	// LinkLessonPlan is a link to a downloadable lesson plan.
	LinkLessonPlan LinkKind = "lesson_plan"
)

// Segment is one unit of display content: either plain text or a typed link.
// Exactly one of the two variants is populated; IsLink distinguishes them.
type Segment struct {
	Text string   `json:"text,omitempty"`
	Kind LinkKind `json:"kind,omitempty"`
	URL  string   `json:"url,omitempty"`
}

// TextSegment builds a plain text segment.
func TextSegment(text string) Segment {
	return Segment{Text: text}
}

// LinkSegment builds a typed link segment.
func LinkSegment(kind LinkKind, url string) Segment {
	return Segment{Kind: kind, URL: url}
}

// IsLink reports whether the segment is a typed link rather than plain text.
func (s Segment) IsLink() bool {
	return s.Kind != ""
}
