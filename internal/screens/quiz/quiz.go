package quiz

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gauntlet/internal/router"
	"github.com/abhisek/gauntlet/internal/screen"
	"github.com/abhisek/gauntlet/internal/screens/run"
	"github.com/abhisek/gauntlet/internal/ui/components"
	"github.com/abhisek/gauntlet/internal/ui/layout"
	"github.com/abhisek/gauntlet/internal/ui/theme"
)

// QuizScreen walks the learner through the tool list, one yes/no
// question per tool. Answers land in the shared skill set that the
// adaptive branch resolver consults later; when the last question is
// answered the run screen takes over.
type QuizScreen struct {
	deps  run.Deps
	tools []string
	index int

	picker components.Picker
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz over the scenario's tool list.
func New(deps run.Deps, tools []string) *QuizScreen {
	q := &QuizScreen{deps: deps, tools: tools}
	q.picker = q.question()
	return q
}

func (q *QuizScreen) question() components.Picker {
	return components.NewPicker(
		fmt.Sprintf("Do you know how to use %s?", q.tools[q.index]),
		[]string{"yes", "no"},
	)
}

func (q *QuizScreen) Init() tea.Cmd {
	return nil
}

func (q *QuizScreen) Title() string {
	return "Skill Check"
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	q.picker, cmd = q.picker.Update(msg)
	if !q.picker.Submitted {
		return q, cmd
	}

	if q.picker.Choice() == "yes" {
		q.deps.Skills.Add(q.tools[q.index])
	}

	q.index++
	if q.index < len(q.tools) {
		q.picker = q.question()
		return q, nil
	}

	return q, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: run.New(q.deps)}
	}
}

func (q *QuizScreen) View(width, height int) string {
	shown := min(q.index+1, len(q.tools))
	progress := theme.Hint.Render(fmt.Sprintf("question %d of %d", shown, len(q.tools)))
	body := progress + "\n\n" + q.picker.View()

	card := theme.Card.Width(min(width-4, 60)).Render(body)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
