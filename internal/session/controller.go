// Package session implements the conversational session controller: the
// onboarding state machine, submission validation, follow-up detection,
// request assembly, streaming consumption, and failure recovery. No error
// raised during a submission escapes this package; every failure resolves
// into a readable model turn and a clean loading=false state.
package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"coddify/internal/animate"
	"coddify/internal/attach"
	"coddify/internal/classify"
	"coddify/internal/config"
	"coddify/internal/conversation"
	"coddify/internal/logger"
	"coddify/internal/segment"
	"coddify/pkg/tutortypes"
)

// Controller orchestrates one conversational session. It exclusively owns
// the conversation store; every mutation of the transcript flows through it.
type Controller struct {
	cfg        *config.Config
	client     tutortypes.GenerationClient
	store      *conversation.Store
	segmenter  *segment.Segmenter
	classifier *classify.Classifier
	encoder    *attach.Encoder

	streamAnim *animate.Animator
	greetAnim  *animate.Animator
	ticker     *animate.LoadingTicker
	onTick     func(suffix string)
	onReveal   func(prefix string)

	log *log.Logger

	mu      sync.Mutex
	phase   tutortypes.Phase
	session tutortypes.Session

	teardownOnce sync.Once
	teardown     context.Context
	cancel       context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithEncoder injects the attachment encoder (tests inject failing readers).
func WithEncoder(e *attach.Encoder) Option {
	return func(c *Controller) { c.encoder = e }
}

// WithClassifier injects the error classifier (tests pin the random source).
func WithClassifier(cl *classify.Classifier) Option {
	return func(c *Controller) { c.classifier = cl }
}

// WithTickCallback sets the sink for loading-indicator suffix updates.
func WithTickCallback(fn func(suffix string)) Option {
	return func(c *Controller) { c.onTick = fn }
}

// WithRevealCallback sets the sink for reveal progress: it receives every
// grown prefix of the in-flight model turn as characters are disclosed, and
// finally the settled content (which on failure replaces earlier prefixes).
func WithRevealCallback(fn func(prefix string)) Option {
	return func(c *Controller) { c.onReveal = fn }
}

// NewController creates a session controller in the unonboarded state.
func NewController(cfg *config.Config, client tutortypes.GenerationClient, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:        cfg,
		client:     client,
		store:      conversation.NewStore(),
		segmenter:  segment.NewSegmenter(cfg.Locale.NormalizationPairs),
		classifier: classify.NewClassifier(cfg.Tutor.VPNSuggestions, cfg.Tutor.GeoApology, cfg.Tutor.GeoApologyKeyword),
		encoder:    attach.NewEncoder(),
		streamAnim: animate.NewAnimator(cfg.Animate.StreamDelay),
		greetAnim:  animate.NewAnimator(cfg.Animate.GreetingDelay),
		ticker:     animate.NewLoadingTicker(cfg.Animate.TickerPeriod),
		log:        logger.NewStyledLogger("Session"),
		phase:      tutortypes.PhaseUnonboarded,
		teardown:   ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current state machine phase.
func (c *Controller) Phase() tutortypes.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Session returns a copy of the session flags.
func (c *Controller) Session() tutortypes.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Snapshot returns a read-only copy of the transcript.
func (c *Controller) Snapshot() []tutortypes.Turn {
	return c.store.Snapshot()
}

// SegmentContent converts finalized turn content into display segments.
func (c *Controller) SegmentContent(content string) []tutortypes.Segment {
	return c.segmenter.Segment(content)
}

// BeginOnboarding starts (or restarts) role and grade selection. Restarting
// clears the transcript and the session flags.
func (c *Controller) BeginOnboarding() {
	c.mu.Lock()
	defer c.mu.Unlock()
	logger.SessionTransition(string(c.phase), string(tutortypes.PhaseOnboarding))
	c.phase = tutortypes.PhaseOnboarding
	c.session = tutortypes.Session{}
	c.store.Reset()
}

// CompleteOnboarding validates the chosen role and grade. Students need a
// grade between 1 and 11; teachers need none. On success the session moves
// to idle and the greeting episode runs as a one-shot reveal into turn 0.
// On failure the session stays in onboarding and no turn is created.
func (c *Controller) CompleteOnboarding(ctx context.Context, roleInput, gradeInput string) error {
	c.mu.Lock()
	if c.phase != tutortypes.PhaseOnboarding && c.phase != tutortypes.PhaseUnonboarded {
		c.mu.Unlock()
		return &tutortypes.ValidationError{Field: "phase", Reason: "onboarding already completed"}
	}

	role, grade, err := validateOnboarding(roleInput, gradeInput)
	if err != nil {
		c.mu.Unlock()
		c.log.Debug("Onboarding rejected", "role", roleInput, "grade", gradeInput, "error", err)
		return err
	}

	c.session.Role = role
	c.session.Grade = grade
	logger.SessionTransition(string(c.phase), string(tutortypes.PhaseIdle), "role", role, "grade", grade)
	c.phase = tutortypes.PhaseIdle
	c.mu.Unlock()

	c.runGreeting(ctx)
	return nil
}

// validateOnboarding parses role and grade input into session values.
func validateOnboarding(roleInput, gradeInput string) (tutortypes.SessionRole, int, error) {
	switch strings.ToLower(strings.TrimSpace(roleInput)) {
	case "student":
		grade, err := strconv.Atoi(strings.TrimSpace(gradeInput))
		if err != nil {
			return tutortypes.SessionRoleUnset, tutortypes.GradeUnset,
				&tutortypes.ValidationError{Field: "grade", Reason: "must be a whole number"}
		}
		if grade < 1 || grade > 11 {
			return tutortypes.SessionRoleUnset, tutortypes.GradeUnset,
				&tutortypes.ValidationError{Field: "grade", Reason: "must be between 1 and 11"}
		}
		return tutortypes.SessionRoleStudent, grade, nil
	case "teacher":
		return tutortypes.SessionRoleTeacher, tutortypes.GradeUnset, nil
	default:
		return tutortypes.SessionRoleUnset, tutortypes.GradeUnset,
			&tutortypes.ValidationError{Field: "role", Reason: "choose student or teacher"}
	}
}

// runGreeting reveals the configured greeting into turn index 0 as a
// one-shot streaming episode.
func (c *Controller) runGreeting(ctx context.Context) {
	c.mu.Lock()
	c.session.Loading = true
	c.phase = tutortypes.PhaseStreaming
	c.mu.Unlock()

	c.store.Append(conversation.NewTurn(tutortypes.RoleModel, ""))

	revealCtx, done := c.revealContext(ctx)
	defer done()
	c.greetAnim.Reveal(revealCtx, c.cfg.Tutor.Greeting, func(prefix string) {
		c.store.UpdateLast(tutortypes.RoleModel, prefix)
		c.notifyReveal(prefix)
	})
	c.store.UpdateLast(tutortypes.RoleModel, c.cfg.Tutor.Greeting)
	c.notifyReveal(c.cfg.Tutor.Greeting)

	c.mu.Lock()
	c.session.Loading = false
	logger.SessionTransition(string(tutortypes.PhaseStreaming), string(tutortypes.PhaseIdle), "episode", "greeting")
	c.phase = tutortypes.PhaseIdle
	c.mu.Unlock()
}

// AttachFile encodes the selected file and stages it for the next
// submission. A read failure is classified immediately, before any network
// attempt, and leaves no pending attachment behind.
func (c *Controller) AttachFile(path string) (tutortypes.ClassifiedError, bool) {
	handle, err := c.encoder.Encode(path)
	if err != nil {
		c.mu.Lock()
		c.session.Loading = false
		c.session.PendingAttachment = nil
		c.mu.Unlock()
		return c.classifier.ClassifyAttachment(err), false
	}

	c.mu.Lock()
	c.session.PendingAttachment = handle
	c.mu.Unlock()
	return tutortypes.ClassifiedError{}, true
}

// Submit runs one full submission episode: append the user turn and the
// placeholder model turn, stream the response, reveal it character by
// character, and settle. Submission is ignored entirely when the trimmed
// input is empty, a response is already loading, or onboarding has not
// completed. Loading and the pending attachment are released on every exit
// path.
func (c *Controller) Submit(ctx context.Context, input string) {
	trimmed := strings.TrimSpace(input)

	c.mu.Lock()
	if trimmed == "" || c.session.Loading || c.session.Role == tutortypes.SessionRoleUnset {
		c.log.Debug("Submission ignored", "empty", trimmed == "", "loading", c.session.Loading, "role", c.session.Role)
		c.mu.Unlock()
		return
	}
	c.session.Loading = true
	logger.SessionTransition(string(c.phase), string(tutortypes.PhaseSubmitting), "input_length", len(trimmed))
	c.phase = tutortypes.PhaseSubmitting
	attachment := c.session.PendingAttachment
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.session.Loading = false
		c.session.PendingAttachment = nil
		logger.SessionTransition(string(c.phase), string(tutortypes.PhaseIdle))
		c.phase = tutortypes.PhaseIdle
		c.mu.Unlock()
		c.ticker.Stop()
	}()

	if c.onTick != nil {
		if err := c.ticker.Start(c.onTick); err != nil {
			c.log.Warn("Loading ticker not started", "error", err)
		}
	}

	// Substitute before appending would lose the literal phrase from the
	// transcript; substitution applies only to the upstream text.
	upstream := c.resolveFollowUp(trimmed)

	userTurn := conversation.NewTurn(tutortypes.RoleUser, trimmed)
	userTurn.Attachment = attachment
	c.store.Append(userTurn, conversation.NewTurn(tutortypes.RoleModel, tutortypes.PendingMarker))

	req := c.assembleRequest(upstream, attachment)

	c.mu.Lock()
	c.phase = tutortypes.PhaseStreaming
	c.mu.Unlock()

	chunks, err := c.client.StreamCompletion(ctx, req)
	if err != nil {
		c.failTurn(err, trimmed)
		return
	}

	revealCtx, done := c.revealContext(ctx)
	defer done()
	final, streamErr := c.streamAnim.RevealChunks(revealCtx,
		chunks,
		func() {
			// First content: the thinking indicator yields to the reveal
			c.ticker.Stop()
			c.store.UpdateLast(tutortypes.RoleModel, "")
		},
		func(prefix string) {
			c.store.UpdateLast(tutortypes.RoleModel, prefix)
			c.notifyReveal(prefix)
		},
	)
	if streamErr != nil {
		c.failTurn(streamErr, trimmed)
		return
	}

	c.store.UpdateLast(tutortypes.RoleModel, final)
	c.notifyReveal(final)
	c.log.Debug("Submission settled", "response_length", len(final))
}

// failTurn rewrites the in-flight model turn with the classified failure
// text. The failure never surfaces as an error to the caller.
func (c *Controller) failTurn(err error, originalInput string) {
	classified := c.classifier.Classify(err, originalInput)
	c.log.Error("Submission failed", "category", classified.Category, "error", err)
	c.store.UpdateLast(tutortypes.RoleModel, classified.Message)
	c.notifyReveal(classified.Message)
}

// notifyReveal forwards reveal progress to the configured callback.
func (c *Controller) notifyReveal(prefix string) {
	if c.onReveal != nil {
		c.onReveal(prefix)
	}
}

// resolveFollowUp replaces a recognized continuation phrase with the most
// recent prior user turn's content. With no prior user turn the literal
// input is sent unchanged.
func (c *Controller) resolveFollowUp(trimmed string) string {
	lowered := strings.ToLower(trimmed)
	matched := false
	for _, phrase := range c.cfg.Tutor.FollowUpPhrases {
		if lowered == strings.ToLower(phrase) {
			matched = true
			break
		}
	}
	if !matched {
		return trimmed
	}

	turns := c.store.Snapshot()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == tutortypes.RoleUser {
			c.log.Debug("Follow-up substituted", "phrase", trimmed, "resent_length", len(turns[i].Content))
			return turns[i].Content
		}
	}
	return trimmed
}

// assembleRequest builds the upstream message list: every turn except the
// greeting as a text-only history entry, then one final user entry carrying
// the (possibly substituted) text plus the staged attachment.
func (c *Controller) assembleRequest(upstream string, attachment *tutortypes.AttachmentHandle) *tutortypes.GenerationRequest {
	turns := c.store.Snapshot()

	// Drop the greeting at index 0 and the just-appended user/placeholder
	// pair at the tail; what remains is the prior history.
	start := 0
	if len(turns) > 0 && turns[0].Role == tutortypes.RoleModel {
		start = 1
	}
	end := len(turns) - 2
	if end < start {
		end = start
	}

	messages := make([]tutortypes.Message, 0, end-start+1)
	for _, turn := range turns[start:end] {
		messages = append(messages, tutortypes.Message{
			Role:  turn.Role,
			Parts: []tutortypes.MessagePart{{Text: turn.Content}},
		})
	}

	final := tutortypes.Message{
		Role:  tutortypes.RoleUser,
		Parts: []tutortypes.MessagePart{{Text: upstream}},
	}
	if attachment != nil {
		final.Parts = append(final.Parts, tutortypes.MessagePart{InlineData: attachment})
	}
	messages = append(messages, final)

	return &tutortypes.GenerationRequest{
		Model:             c.cfg.Provider.Model,
		SystemInstruction: c.systemInstruction(),
		Messages:          messages,
	}
}

// systemInstruction appends the learner profile to the configured persona
// when grade context is enabled.
func (c *Controller) systemInstruction() string {
	c.mu.Lock()
	role := c.session.Role
	grade := c.session.Grade
	c.mu.Unlock()

	instruction := c.cfg.Tutor.SystemInstruction
	if !c.cfg.Tutor.SendGradeContext {
		return instruction
	}
	switch role {
	case tutortypes.SessionRoleStudent:
		return instruction + fmt.Sprintf("\n\nThe learner is a student in grade %d.", grade)
	case tutortypes.SessionRoleTeacher:
		return instruction + "\n\nThe learner is a teacher preparing lessons."
	default:
		return instruction
	}
}

// revealContext ties a reveal to both the caller's context and controller
// teardown, so a discarded controller stops mutating its store. The returned
// done func must be called when the reveal settles.
func (c *Controller) revealContext(ctx context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-c.teardown.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged, cancel
}

// Close tears the controller down, stopping pending animator timers.
func (c *Controller) Close() {
	c.teardownOnce.Do(func() {
		c.cancel()
		c.ticker.Stop()
	})
}
