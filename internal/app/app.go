package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gauntlet/internal/config"
	"github.com/abhisek/gauntlet/internal/flags"
	"github.com/abhisek/gauntlet/internal/game"
	"github.com/abhisek/gauntlet/internal/hints"
	"github.com/abhisek/gauntlet/internal/provision"
	"github.com/abhisek/gauntlet/internal/quiz"
	"github.com/abhisek/gauntlet/internal/router"
	"github.com/abhisek/gauntlet/internal/screen"
	"github.com/abhisek/gauntlet/internal/screens/home"
	"github.com/abhisek/gauntlet/internal/screens/run"
	"github.com/abhisek/gauntlet/internal/store"
	"github.com/abhisek/gauntlet/internal/ui/layout"
)

// Options wires the application together: the loaded scenario, the
// machine provisioner, and the optional persistence collaborators.
type Options struct {
	Bundle       *config.Bundle
	Provisioner  provision.Provisioner
	Events       store.EventRepo
	SnapshotPath string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel builds the run collaborators and the home screen.
func newAppModel(opts Options) AppModel {
	deps := run.Deps{
		Engine:       game.New(opts.Bundle.Graph, opts.Provisioner),
		Ledger:       hints.NewLedger(opts.Bundle.Hints),
		Checker:      flags.NewChecker(opts.Bundle.Flags),
		Routes:       opts.Bundle.Requirements,
		Skills:       quiz.NewSkillSet(),
		Events:       opts.Events,
		SnapshotPath: opts.SnapshotPath,
	}
	homeScreen := home.New(deps, opts.Bundle.Tools, opts.Bundle.Graph.MaxLevel())
	return AppModel{
		router: router.New(homeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Screens with their own esc handling (cancel a sub-mode)
			// get the key; otherwise esc pops back.
			if m.router.Depth() > 1 {
				if _, owns := m.router.Active().(escOwner); !owns {
					return m, func() tea.Msg { return router.PopScreenMsg{} }
				}
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// escOwner marks screens that consume esc themselves.
type escOwner interface {
	OwnsEsc() bool
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	levelName := ""
	var elapsed time.Duration
	if cp, ok := active.(screen.ClockProvider); ok {
		levelName, elapsed = cp.Clock()
	}

	header := layout.RenderHeader(title, levelName, elapsed, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
