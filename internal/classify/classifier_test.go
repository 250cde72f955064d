package classify

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coddify/pkg/tutortypes"
)

var testPool = []string{
	"pick one", "pick two", "pick three", "pick four",
	"pick five", "pick six", "pick seven", "pick eight",
}

func newTestClassifier() *Classifier {
	return NewClassifier(testPool, "fixed apology", "burma", WithRand(rand.New(rand.NewSource(1))))
}

func TestClassifier_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected tutortypes.ErrorCategory
	}{
		{
			name:     "geo restriction",
			err:      errors.New("rpc error: User location is not supported for the API use"),
			expected: tutortypes.ErrorGeoRestriction,
		},
		{
			name:     "stream parse failure",
			err:      errors.New("failed to parse stream chunk 3"),
			expected: tutortypes.ErrorStreamParse,
		},
		{
			name:     "invalid credential",
			err:      errors.New("API key not valid. Please pass a valid API key."),
			expected: tutortypes.ErrorInvalidCredential,
		},
		{
			name:     "anything else",
			err:      errors.New("connection reset by peer"),
			expected: tutortypes.ErrorUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: tutortypes.ErrorUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := newTestClassifier().Classify(tt.err, "what is gravity")
			assert.Equal(t, tt.expected, classified.Category)
			assert.NotEmpty(t, classified.Message)
		})
	}
}

func TestClassifier_RuleOrderFirstMatchWins(t *testing.T) {
	// A message carrying both markers classifies as geo restriction
	err := errors.New("User location is not supported for the API use; also failed to parse stream")

	classified := newTestClassifier().Classify(err, "anything")

	assert.Equal(t, tutortypes.ErrorGeoRestriction, classified.Category)
}

func TestClassifier_GeoApologyKeyword(t *testing.T) {
	geoErr := errors.New("User location is not supported for the API use")

	tests := []struct {
		name  string
		input string
		fixed bool
	}{
		{name: "keyword lowercase", input: "tell me about burma", fixed: true},
		{name: "keyword mixed case", input: "what about BURMA rivers", fixed: true},
		{name: "no keyword", input: "tell me about rivers", fixed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := newTestClassifier().Classify(geoErr, tt.input)
			require.Equal(t, tutortypes.ErrorGeoRestriction, classified.Category)
			if tt.fixed {
				assert.Equal(t, "fixed apology", classified.Message)
			} else {
				assert.NotEqual(t, "fixed apology", classified.Message)
				assert.Contains(t, testPool, classified.Message)
			}
		})
	}
}

func TestClassifier_ClassifyAttachment(t *testing.T) {
	classified := newTestClassifier().ClassifyAttachment(errors.New("open: no such file"))

	assert.Equal(t, tutortypes.ErrorAttachment, classified.Category)
	assert.NotEmpty(t, classified.Message)
}

func TestClassifier_EmptyPoolFallsBack(t *testing.T) {
	c := NewClassifier(nil, "fixed apology", "burma")

	classified := c.Classify(errors.New("User location is not supported for the API use"), "rivers")

	assert.Equal(t, tutortypes.ErrorGeoRestriction, classified.Category)
	assert.NotEmpty(t, classified.Message)
}
