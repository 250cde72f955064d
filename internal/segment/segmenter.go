// Package segment converts raw model text into ordered display segments:
// plain text spans and typed link placeholders. Segmentation is total (it
// never fails), preserves the byte order of all spans, and is idempotent on
// already-clean text, so it can be reapplied to a growing prefix while the
// response is still streaming.
package segment

import (
	"regexp"
	"sort"
	"strings"

	"coddify/pkg/tutortypes"
)

// linkPattern matches the model's bracketed link annotations. The keyword is
// case-sensitive and the ": " separator is exact.
var linkPattern = regexp.MustCompile(`\[(Resource_URL|Image_URL|Lesson_Plan_URL): ([^\]]+)\]`)

// kindByKeyword maps annotation keywords to link kinds.
var kindByKeyword = map[string]tutortypes.LinkKind{
	"Resource_URL":    tutortypes.LinkResource,
	"Image_URL":       tutortypes.LinkImage,
	"Lesson_Plan_URL": tutortypes.LinkLessonPlan,
}

// imageLeadIn introduces image links so a bare URL never starts a line.
const imageLeadIn = "Here is a picture to help: "

// Segmenter turns raw model text into segments and applies locale-specific
// normalization pairs to the resulting text spans.
type Segmenter struct {
	pairs map[string]string
}

// NewSegmenter creates a segmenter with the given normalization pairs.
// Pairs may be nil; RegisterNormalization adds more later.
func NewSegmenter(pairs map[string]string) *Segmenter {
	s := &Segmenter{pairs: make(map[string]string)}
	for from, to := range pairs {
		s.pairs[from] = to
	}
	return s
}

// RegisterNormalization registers a locale normalization pair applied to
// every text segment after splitting.
func (s *Segmenter) RegisterNormalization(from, to string) {
	s.pairs[from] = to
}

// Segment converts raw model text into an ordered segment list.
func (s *Segmenter) Segment(raw string) []tutortypes.Segment {
	text := FormatChatText(raw)

	var segments []tutortypes.Segment
	appendText := func(t string) {
		if t == "" {
			return
		}
		segments = append(segments, tutortypes.TextSegment(s.normalize(t)))
	}

	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		appendText(text[last:m[0]])
		keyword := text[m[2]:m[3]]
		url := strings.TrimSpace(text[m[4]:m[5]])
		kind := kindByKeyword[keyword]
		if kind == tutortypes.LinkImage {
			segments = append(segments, tutortypes.TextSegment(imageLeadIn))
		}
		segments = append(segments, tutortypes.LinkSegment(kind, url))
		last = m[1]
	}
	appendText(text[last:])

	if segments == nil {
		// A fully stripped input still yields one (possibly empty) text span
		segments = []tutortypes.Segment{tutortypes.TextSegment("")}
	}
	return segments
}

// normalize applies the registered locale pairs to a text span. Pairs apply
// in sorted key order so overlapping pairs behave the same on every run.
func (s *Segmenter) normalize(text string) string {
	keys := make([]string, 0, len(s.pairs))
	for from := range s.pairs {
		keys = append(keys, from)
	}
	sort.Strings(keys)
	for _, from := range keys {
		text = strings.ReplaceAll(text, from, s.pairs[from])
	}
	return text
}

// FormatChatText strips markdown noise the tutor model tends to emit: code
// related lines (imports, exports, code fences), leading list markers, and
// bold markers. Link annotations pass through untouched.
func FormatChatText(input string) string {
	lines := strings.Split(input, "\n")
	formatted := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") ||
			strings.HasPrefix(trimmed, "export ") ||
			strings.HasPrefix(trimmed, "```") {
			continue
		}
		if strings.HasPrefix(line, "* ") {
			line = line[2:]
		}
		formatted = append(formatted, line)
	}

	text := strings.Join(formatted, "\n")
	return strings.ReplaceAll(text, "**", "")
}
