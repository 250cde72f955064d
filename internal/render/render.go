// Package render is the thin display boundary: it turns segment lists and
// transcript turns into styled terminal output. The core never depends on
// it; it only reads snapshots.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

var (
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	modelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
	pendingStyle = lipgloss.NewStyle().Faint(true)
)

// labelByKind prefixes typed links so they stay distinguishable in a plain
// terminal transcript.
var labelByKind = map[tutortypes.LinkKind]string{
	tutortypes.LinkResource:   "resource",
	tutortypes.LinkImage:      "image",
	tutortypes.LinkLessonPlan: "lesson plan",
}

// Renderer renders segments and turns for the terminal.
type Renderer struct {
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer with auto-detected terminal styling.
func NewRenderer() (*Renderer, error) {
	markdown, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{markdown: markdown}, nil
}

// Segments renders a segment list: text spans through the markdown renderer,
// links styled with their kind label.
func (r *Renderer) Segments(segments []tutortypes.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.IsLink() {
			b.WriteString(linkStyle.Render(fmt.Sprintf("[%s] %s", labelByKind[seg.Kind], seg.URL)))
			continue
		}
		rendered, err := r.markdown.Render(seg.Text)
		if err != nil {
			logger.Debug("Markdown render fell back to plain text", "error", err)
			rendered = seg.Text
		}
		b.WriteString(strings.TrimRight(rendered, "\n"))
	}
	return b.String()
}

// Turn renders one transcript turn with its role label. Pending placeholder
// turns render as a faint typing indicator.
func (r *Renderer) Turn(turn tutortypes.Turn, segments []tutortypes.Segment) string {
	if turn.Role == tutortypes.RoleUser {
		return userStyle.Render("you> ") + turn.Content
	}
	if turn.Content == tutortypes.PendingMarker {
		return modelStyle.Render("tutor> ") + pendingStyle.Render(tutortypes.PendingMarker)
	}
	return modelStyle.Render("tutor> ") + r.Segments(segments)
}
