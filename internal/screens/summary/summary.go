package summary

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gauntlet/internal/game"
	"github.com/abhisek/gauntlet/internal/router"
	"github.com/abhisek/gauntlet/internal/screen"
	"github.com/abhisek/gauntlet/internal/ui/layout"
	"github.com/abhisek/gauntlet/internal/ui/theme"
)

// SummaryScreen shows the final report of a run: per-level load and
// solving times, hints taken, and wrong flag submissions.
type SummaryScreen struct {
	report     game.Summary
	hintsTaken map[string][]string
	totalHints int
	wrongFlags map[int][]string
	aborted    bool
}

var _ screen.Screen = (*SummaryScreen)(nil)

// New creates a summary screen from a snapshot of the run taken at the
// moment it ended.
func New(report game.Summary, hintsTaken map[string][]string, totalHints int, wrongFlags map[int][]string, aborted bool) *SummaryScreen {
	return &SummaryScreen{
		report:     report,
		hintsTaken: hintsTaken,
		totalHints: totalHints,
		wrongFlags: wrongFlags,
		aborted:    aborted,
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) Title() string {
	if s.aborted {
		return "Run Aborted"
	}
	return "Run Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to menu"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	headline := "Run complete"
	headlineStyle := theme.Correct
	if s.aborted {
		headline = "Run aborted"
		headlineStyle = theme.Incorrect
	}
	b.WriteString(headlineStyle.Render(headline) + "\n\n")

	b.WriteString(theme.Hint.Render("run "+s.report.RunID) + "\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf(
		"Reached level %d of %d in %s.",
		s.report.Level, s.report.TotalLevels, layout.FormatClock(s.report.Elapsed))) + "\n\n")

	b.WriteString(theme.Selected.Render("Levels") + "\n")
	for i, name := range s.report.LevelLog {
		line := "  " + name
		if i < len(s.report.LoadTimes) {
			line += "   load " + layout.FormatClock(s.report.LoadTimes[i])
		}
		if i < len(s.report.SolvingTimes) {
			line += "   solve " + layout.FormatClock(s.report.SolvingTimes[i])
		}
		b.WriteString(theme.Body.Render(line) + "\n")
	}

	b.WriteString("\n" + theme.Selected.Render(fmt.Sprintf("Hints taken: %d", s.totalHints)) + "\n")
	for _, name := range sortedKeys(s.hintsTaken) {
		b.WriteString(theme.Body.Render("  "+name+": "+strings.Join(s.hintsTaken[name], ", ")) + "\n")
	}

	if len(s.wrongFlags) > 0 {
		b.WriteString("\n" + theme.Selected.Render("Wrong flag submissions") + "\n")
		levels := make([]int, 0, len(s.wrongFlags))
		for l := range s.wrongFlags {
			levels = append(levels, l)
		}
		sort.Ints(levels)
		for _, l := range levels {
			b.WriteString(theme.Body.Render(fmt.Sprintf("  level %d: %d", l, len(s.wrongFlags[l]))) + "\n")
		}
	}

	card := theme.Card.Width(min(width-4, 70)).Render(b.String())
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
