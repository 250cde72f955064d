package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coddify/pkg/tutortypes"
)

func TestFormatChatText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips bold markers",
			input:    "this is **important** stuff",
			expected: "this is important stuff",
		},
		{
			name:     "strips leading list markers",
			input:    "* first\n* second",
			expected: "first\nsecond",
		},
		{
			name:     "drops code related lines",
			input:    "keep me\nimport something\nexport default x\n```go\nalso keep",
			expected: "keep me\nalso keep",
		},
		{
			name:     "plain text unchanged",
			input:    "photosynthesis turns light into sugar",
			expected: "photosynthesis turns light into sugar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatChatText(tt.input))
		})
	}
}

func TestSegmenter_PlainText(t *testing.T) {
	s := NewSegmenter(nil)

	segments := s.Segment("**Bold** and * listed")

	require.Len(t, segments, 1)
	assert.False(t, segments[0].IsLink())
	assert.Equal(t, "Bold and listed", segments[0].Text)
}

func TestSegmenter_ResourceLink(t *testing.T) {
	s := NewSegmenter(nil)

	segments := s.Segment("A [Resource_URL: http://x] B")

	require.Len(t, segments, 3)
	assert.Equal(t, tutortypes.TextSegment("A "), segments[0])
	assert.Equal(t, tutortypes.LinkSegment(tutortypes.LinkResource, "http://x"), segments[1])
	assert.Equal(t, tutortypes.TextSegment(" B"), segments[2])
}

func TestSegmenter_ImageLinkLeadIn(t *testing.T) {
	s := NewSegmenter(nil)

	segments := s.Segment("[Image_URL: http://pic]")

	require.Len(t, segments, 2)
	assert.Equal(t, imageLeadIn, segments[0].Text)
	assert.Equal(t, tutortypes.LinkImage, segments[1].Kind)
	assert.Equal(t, "http://pic", segments[1].URL)
}

func TestSegmenter_LessonPlanLink(t *testing.T) {
	s := NewSegmenter(nil)

	segments := s.Segment("Plan: [Lesson_Plan_URL: http://plan]")

	require.Len(t, segments, 2)
	assert.Equal(t, tutortypes.LinkLessonPlan, segments[1].Kind)
}

func TestSegmenter_KeywordCaseSensitive(t *testing.T) {
	s := NewSegmenter(nil)

	// Lowercase keyword is not an annotation
	segments := s.Segment("[resource_url: http://x]")

	require.Len(t, segments, 1)
	assert.False(t, segments[0].IsLink())
}

func TestSegmenter_Idempotence(t *testing.T) {
	s := NewSegmenter(nil)
	clean := "Already clean text with no markers."

	first := s.Segment(clean)
	require.Len(t, first, 1)
	second := s.Segment(first[0].Text)

	assert.Equal(t, first, second)
}

func TestSegmenter_OverlappingPairsApplyInSortedOrder(t *testing.T) {
	s := NewSegmenter(map[string]string{
		"teacher/teacheress": "teacher",
		"teacher":            "tutor",
	})

	// "teacher" sorts before "teacher/teacheress" and rewrites its match
	// away, so the longer pair never fires. The point is that the outcome
	// is the same on every run, not which pair wins.
	for i := 0; i < 25; i++ {
		segments := s.Segment("ask your teacher/teacheress")
		require.Len(t, segments, 1)
		assert.Equal(t, "ask your tutor/tutoress", segments[0].Text)
	}
}

func TestSegmenter_Normalization(t *testing.T) {
	s := NewSegmenter(map[string]string{"teacher/teacheress": "teacher"})

	segments := s.Segment("Ask your teacher/teacheress for help")

	require.Len(t, segments, 1)
	assert.Equal(t, "Ask your teacher for help", segments[0].Text)
}

func TestSegmenter_RegisterNormalization(t *testing.T) {
	s := NewSegmenter(nil)
	s.RegisterNormalization("colour", "color")

	segments := s.Segment("The colour wheel")

	require.Len(t, segments, 1)
	assert.Equal(t, "The color wheel", segments[0].Text)
}

func TestSegmenter_NormalizationSkipsLinks(t *testing.T) {
	s := NewSegmenter(map[string]string{"x": "y"})

	segments := s.Segment("[Resource_URL: http://x]")

	require.Len(t, segments, 1)
	assert.Equal(t, "http://x", segments[0].URL)
}

func TestSegmenter_EmptyInput(t *testing.T) {
	s := NewSegmenter(nil)

	segments := s.Segment("")

	require.Len(t, segments, 1)
	assert.Equal(t, "", segments[0].Text)
}

func TestSegmenter_MultipleLinksPreserveOrder(t *testing.T) {
	s := NewSegmenter(nil)

	segments := s.Segment("see [Resource_URL: http://a] then [Resource_URL: http://b] done")

	require.Len(t, segments, 5)
	assert.Equal(t, "see ", segments[0].Text)
	assert.Equal(t, "http://a", segments[1].URL)
	assert.Equal(t, " then ", segments[2].Text)
	assert.Equal(t, "http://b", segments[3].URL)
	assert.Equal(t, " done", segments[4].Text)
}
