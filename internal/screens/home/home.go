package home

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gauntlet/internal/game"
	"github.com/abhisek/gauntlet/internal/router"
	"github.com/abhisek/gauntlet/internal/screen"
	quizscreen "github.com/abhisek/gauntlet/internal/screens/quiz"
	"github.com/abhisek/gauntlet/internal/screens/run"
	"github.com/abhisek/gauntlet/internal/snapshot"
	"github.com/abhisek/gauntlet/internal/ui/components"
	"github.com/abhisek/gauntlet/internal/ui/theme"
)

// HomeScreen is the entry menu: start a run, resume a saved one, exit.
type HomeScreen struct {
	menu        components.Menu
	totalLevels int
	toolCount   int
	status      string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. The tool list decides whether a run
// starts with the skill quiz; the snapshot path decides whether resume
// is offered.
func New(deps run.Deps, tools []string, totalLevels int) *HomeScreen {
	h := &HomeScreen{
		totalLevels: totalLevels,
		toolCount:   len(tools),
	}

	startAction := func() tea.Cmd {
		return func() tea.Msg {
			if len(tools) > 0 {
				return router.PushScreenMsg{Screen: quizscreen.New(deps, tools)}
			}
			return router.PushScreenMsg{Screen: run.New(deps)}
		}
	}

	resumeAction := func() tea.Cmd {
		return func() tea.Msg {
			snap, err := snapshot.Load(deps.SnapshotPath)
			if err != nil {
				h.status = "Could not load the saved run: " + err.Error()
				return nil
			}
			deps.Engine.Resume(snap.Resumed())
			deps.Ledger.Restore(snap.HintsTaken)
			deps.Checker.Restore(snap.WrongFlags)
			if deps.Engine.State() != game.InProgress {
				h.status = "The saved run is not resumable."
				return nil
			}
			return router.PushScreenMsg{Screen: run.New(deps)}
		}
	}

	items := []components.MenuItem{
		{Label: "START RUN", Action: startAction},
		{
			Label:    "RESUME RUN",
			Action:   resumeAction,
			Disabled: !snapshotExists(deps.SnapshotPath),
		},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	h.menu = components.NewMenu(items)
	return h
}

func snapshotExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	banner := theme.Title.Render("G A U N T L E T") + "\n" +
		theme.Subtitle.Render(fmt.Sprintf("%d levels · %d tools in the quiz", h.totalLevels, h.toolCount))

	body := banner + "\n\n" + h.menu.View()
	if h.status != "" {
		body += "\n" + theme.Incorrect.Render(h.status)
	}

	card := theme.Card.Width(min(width-4, 60)).Render(body)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
