package overlay

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kastheco/dotsmith/ui"
)

// TextInputOverlay is a single-line input overlay used for secret collection
// and the project-path prompt.
type TextInputOverlay struct {
	input     textinput.Model
	Title     string
	Hint      string
	Submitted bool
	Canceled  bool
	width     int
}

// NewTextInputOverlay creates an input overlay. Masked inputs echo '•' and
// are used when collecting secret values.
func NewTextInputOverlay(title, placeholder, initialValue string, masked bool) *TextInputOverlay {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(initialValue)
	ti.Focus()
	ti.Prompt = "> "
	ti.CharLimit = 0
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return &TextInputOverlay{
		input: ti,
		Title: title,
	}
}

// SetWidth sets the overlay width.
func (t *TextInputOverlay) SetWidth(width int) {
	t.width = width
	inner := width - 8
	if inner > 10 {
		t.input.Width = inner
	}
}

// HandleKeyPress processes a key press and updates the state accordingly.
// Returns true if the overlay should be closed.
func (t *TextInputOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		t.Canceled = true
		return true
	case tea.KeyEnter:
		t.Submitted = true
		return true
	default:
		t.input, _ = t.input.Update(msg)
		return false
	}
}

// Value returns the current value of the text input.
func (t *TextInputOverlay) Value() string {
	return t.input.Value()
}

// IsSubmitted returns whether the form was submitted.
func (t *TextInputOverlay) IsSubmitted() bool {
	return t.Submitted
}

// Render renders the overlay box.
func (t *TextInputOverlay) Render(styles *ui.Styles) string {
	w := t.width
	if w < 40 {
		w = 40
	}

	content := styles.OverlayTitle.Render(t.Title) + "\n"
	content += t.input.View()
	if t.Hint != "" {
		content += "\n\n" + styles.Help.Render(t.Hint)
	}
	content += "\n" + styles.Help.Render("enter submit · esc cancel")

	return styles.OverlayBorder.Width(w - 4).Render(content)
}

// Place centers the overlay within the given bounds.
func Place(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
