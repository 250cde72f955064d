package config

// DefaultSystemInstruction is the tutor persona sent with every request.
// The learner profile line is appended by the session controller when a
// student has onboarded and send_grade_context is enabled.
const DefaultSystemInstruction = "You are a friendly and patient school tutor. " +
	"Explain concepts simply, encourage curiosity, and adapt your language to the learner. " +
	"When you mention an external learning resource, emit it as [Resource_URL: <url>]. " +
	"When an illustration would help, emit [Image_URL: <url>]. " +
	"When a teacher asks for a lesson plan, emit [Lesson_Plan_URL: <url>]."

// DefaultGreeting is revealed character by character as turn zero once
// onboarding completes.
const DefaultGreeting = "Hi! I'm your AI tutor. Ask me anything about your studies!"

// DefaultFollowUpPhrases are the continuation requests that resend the most
// recent substantive question instead of the literal phrase. Matching is
// case-insensitive on trimmed input.
var DefaultFollowUpPhrases = []string{
	"tell me more",
	"i want to continue",
	"continue",
	"go on",
	"more please",
}

// DefaultGeoApology is the fixed apology used when the blocked request's own
// input mentions the configured country keyword.
const DefaultGeoApology = "I'm so sorry, but I can't talk about Burma from here. " +
	"The service is not available in this region yet."

// DefaultVPNSuggestions is the pool of whimsical messages shown when the
// provider rejects the caller's region. One is picked at random per failure.
var DefaultVPNSuggestions = []string{
	"Oops, the AI seems to be on vacation in your region. A VPN might bring it back early!",
	"The tutor got stopped at the border. Try a VPN passport!",
	"Your region and my servers are not on speaking terms. A VPN could mediate.",
	"Geography says no, but a VPN usually says yes.",
	"The knowledge is willing, but the region is weak. VPN to the rescue?",
	"I'd love to answer, but my signal can't cross this border without a VPN visa.",
	"This corner of the map is shy. A VPN makes it brave.",
	"My servers can't find your country on their map. A VPN draws it back in.",
	"Lessons are temporarily lost in transit. A VPN is the fastest courier.",
}

// DefaultNormalizationPairs maps dual-gender honorific pairings to their
// single-gender short form within text segments. Other locales register
// their own pairs via configuration.
var DefaultNormalizationPairs = map[string]string{
	"teacher/teacheress": "teacher",
}
