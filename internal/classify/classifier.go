// Package classify maps transport/service failures onto stable, user-facing
// message categories. Rules are matched in order against the failure's
// message text; the first match wins. No failure ever escapes as a Go error
// past the session controller, so the classifier's output is the terminal
// content of the in-flight model turn.
package classify

import (
	"math/rand"
	"strings"

	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

// Provider marker phrases the rules match on. These are rule logic, not
// configuration; the display strings they select are configuration.
const (
	geoRestrictionMarker = "User location is not supported for the API use"
	streamParseMarker    = "failed to parse stream"
	invalidKeyMarker     = "API key not valid"
)

// Fixed messages for the non-configurable categories.
const (
	streamParseMessage = "I lost the thread of my own answer. Could you ask that again?"
	invalidKeyMessage  = "My connection to the tutor brain is misconfigured. Please review the API key configuration."
	unknownMessage     = "Something went wrong while I was thinking. Please try again."
	attachmentMessage  = "I couldn't read that file. Please try attaching it again."
)

// Classifier holds the configured message pools. The random source is
// injectable so tests stay deterministic.
type Classifier struct {
	vpnSuggestions []string
	geoApology     string
	geoKeyword     string
	rng            *rand.Rand
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRand sets the random source used for pool picks.
func WithRand(rng *rand.Rand) Option {
	return func(c *Classifier) { c.rng = rng }
}

// NewClassifier creates a classifier with the configured geo-restriction
// apology, its trigger keyword, and the VPN suggestion pool.
func NewClassifier(vpnSuggestions []string, geoApology, geoKeyword string, opts ...Option) *Classifier {
	c := &Classifier{
		vpnSuggestions: vpnSuggestions,
		geoApology:     geoApology,
		geoKeyword:     strings.ToLower(geoKeyword),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify maps a failure raised during assembly or streaming to its
// category and localized display text. originalInput is the user input that
// triggered the request; it decides between the fixed geo apology and a
// random pool pick.
func (c *Classifier) Classify(err error, originalInput string) tutortypes.ClassifiedError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	switch {
	case strings.Contains(msg, geoRestrictionMarker):
		logger.Debug("Failure classified", "category", tutortypes.ErrorGeoRestriction)
		return tutortypes.ClassifiedError{
			Category: tutortypes.ErrorGeoRestriction,
			Message:  c.geoMessage(originalInput),
		}
	case strings.Contains(msg, streamParseMarker):
		logger.Debug("Failure classified", "category", tutortypes.ErrorStreamParse)
		return tutortypes.ClassifiedError{
			Category: tutortypes.ErrorStreamParse,
			Message:  streamParseMessage,
		}
	case strings.Contains(msg, invalidKeyMarker):
		logger.Debug("Failure classified", "category", tutortypes.ErrorInvalidCredential)
		return tutortypes.ClassifiedError{
			Category: tutortypes.ErrorInvalidCredential,
			Message:  invalidKeyMessage,
		}
	default:
		logger.Debug("Failure classified", "category", tutortypes.ErrorUnknown, "error", msg)
		return tutortypes.ClassifiedError{
			Category: tutortypes.ErrorUnknown,
			Message:  unknownMessage,
		}
	}
}

// ClassifyAttachment maps a file read/encode failure. Attachment failures
// are classified before any network attempt and abort the submission.
func (c *Classifier) ClassifyAttachment(err error) tutortypes.ClassifiedError {
	logger.Debug("Attachment failure classified", "error", err)
	return tutortypes.ClassifiedError{
		Category: tutortypes.ErrorAttachment,
		Message:  attachmentMessage,
	}
}

// geoMessage selects the fixed apology when the blocked input mentions the
// configured country keyword, otherwise a uniformly random pool pick.
func (c *Classifier) geoMessage(originalInput string) string {
	if c.geoKeyword != "" && strings.Contains(strings.ToLower(originalInput), c.geoKeyword) {
		return c.geoApology
	}
	if len(c.vpnSuggestions) == 0 {
		return unknownMessage
	}
	if c.rng != nil {
		return c.vpnSuggestions[c.rng.Intn(len(c.vpnSuggestions))]
	}
	return c.vpnSuggestions[rand.Intn(len(c.vpnSuggestions))]
}
