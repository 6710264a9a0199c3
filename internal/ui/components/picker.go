package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gauntlet/internal/ui/theme"
)

// Picker is a single-answer option selector. Unlike a menu it has a
// prompt line and reports the chosen option back to the screen rather
// than firing an action itself.
type Picker struct {
	Prompt      string
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
}

// NewPicker creates a new picker.
func NewPicker(prompt string, options []string) Picker {
	return Picker{
		Prompt:      prompt,
		Options:     options,
		ChosenIndex: -1,
	}
}

// Init returns nil.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if p.Submitted {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "enter":
		p.Submitted = true
		p.ChosenIndex = p.Selected
	}

	return p, nil
}

// View renders the picker.
func (p Picker) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Prompt) + "\n\n"

	for i, opt := range p.Options {
		prefix := "  "
		if i == p.Selected && !p.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s", prefix, opt)

		switch {
		case p.Submitted && i == p.ChosenIndex:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		case p.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == p.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}

// Choice returns the chosen option, or "" before submission.
func (p Picker) Choice() string {
	if !p.Submitted || p.ChosenIndex < 0 || p.ChosenIndex >= len(p.Options) {
		return ""
	}
	return p.Options[p.ChosenIndex]
}
