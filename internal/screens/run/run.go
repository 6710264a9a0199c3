package run

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gauntlet/internal/branch"
	"github.com/abhisek/gauntlet/internal/flags"
	"github.com/abhisek/gauntlet/internal/game"
	"github.com/abhisek/gauntlet/internal/hints"
	"github.com/abhisek/gauntlet/internal/levelgraph"
	"github.com/abhisek/gauntlet/internal/quiz"
	"github.com/abhisek/gauntlet/internal/router"
	"github.com/abhisek/gauntlet/internal/screen"
	"github.com/abhisek/gauntlet/internal/screens/summary"
	"github.com/abhisek/gauntlet/internal/snapshot"
	"github.com/abhisek/gauntlet/internal/store"
	"github.com/abhisek/gauntlet/internal/ui/components"
	"github.com/abhisek/gauntlet/internal/ui/layout"
	"github.com/abhisek/gauntlet/internal/ui/theme"
)

// Deps are the run collaborators, built once by the app and threaded
// through the home and quiz screens. Events may be nil when the event
// store could not be opened; SnapshotPath may be empty to disable
// snapshotting.
type Deps struct {
	Engine       *game.Engine
	Ledger       *hints.Ledger
	Checker      *flags.Checker
	Routes       branch.Table
	Skills       *quiz.SkillSet
	Events       store.EventRepo
	SnapshotPath string
}

const adaptiveChoice = "adaptive (decide for me)"

type mode int

const (
	modeMenu mode = iota
	modeLoading
	modeFlag
	modeHints
	modeBranch
	modeAbort
)

type tickMsg time.Time

type startedMsg struct{ err error }

type advancedMsg struct{ err error }

type abortedMsg struct{ err error }

// RunScreen drives one run: provisioning, flag entry, hints, branch
// selection on forks, finishing, aborting.
type RunScreen struct {
	deps Deps

	mode    mode
	input   components.TextInput
	picker  components.Picker
	status  string
	statErr bool

	loadingText string

	// Header clock values, frozen while a provisioning command owns
	// the engine.
	clockName    string
	clockElapsed time.Duration
}

var _ screen.Screen = (*RunScreen)(nil)
var _ screen.KeyHintProvider = (*RunScreen)(nil)
var _ screen.ClockProvider = (*RunScreen)(nil)

// New creates the run screen. If the engine is not started yet, Init
// kicks off initial provisioning; a resumed engine goes straight to the
// action menu.
func New(deps Deps) *RunScreen {
	return &RunScreen{deps: deps}
}

func (r *RunScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if r.deps.Engine.State() == game.NotStarted {
		r.enterLoading("Provisioning the initial machines. This can take a few minutes.")
		cmds = append(cmds, r.startCmd())
	} else {
		r.refreshClock()
		r.status = "Run resumed."
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (r *RunScreen) Title() string {
	return "Run"
}

// OwnsEsc keeps esc inside the run screen: it cancels sub-modes and does
// nothing at the action menu, so a run is left only via done or abort.
func (r *RunScreen) OwnsEsc() bool { return true }

// Clock feeds the header. Values are cached so the view never touches
// the engine while a provisioning command is mutating it.
func (r *RunScreen) Clock() (string, time.Duration) {
	return r.clockName, r.clockElapsed
}

func (r *RunScreen) refreshClock() {
	e := r.deps.Engine
	if e.State() != game.InProgress {
		r.clockName, r.clockElapsed = "", 0
		return
	}
	r.clockName = levelgraph.LevelName(e.Level(), e.Branch())
	r.clockElapsed = e.LevelElapsed()
}

func (r *RunScreen) enterLoading(text string) {
	r.mode = modeLoading
	r.loadingText = text
	r.status = ""
	r.statErr = false
}

func (r *RunScreen) setStatus(text string, isErr bool) {
	r.status = text
	r.statErr = isErr
}

func (r *RunScreen) KeyHints() []layout.KeyHint {
	switch r.mode {
	case modeLoading:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case modeFlag:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeHints, modeBranch, modeAbort:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Cancel"},
		}
	default:
		return []layout.KeyHint{
			{Key: "F", Description: "Flag"},
			{Key: "H", Description: "Hint"},
			{Key: "N", Description: "Next level"},
			{Key: "D", Description: "Done"},
			{Key: "A", Description: "Abort"},
		}
	}
}

func (r *RunScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if r.mode != modeLoading {
			r.refreshClock()
		}
		return r, tick()

	case startedMsg:
		r.mode = modeMenu
		if msg.err != nil {
			r.setStatus("Provisioning failed: "+msg.err.Error()+". Abort and check your Vagrant setup.", true)
			return r, nil
		}
		r.refreshClock()
		r.saveSnapshot()
		r.setStatus("Machines are up. Good luck.", false)
		return r, nil

	case advancedMsg:
		r.mode = modeMenu
		if msg.err != nil {
			r.setStatus("Could not move on: "+msg.err.Error(), true)
			return r, nil
		}
		r.refreshClock()
		r.saveSnapshot()
		e := r.deps.Engine
		r.setStatus(fmt.Sprintf("Welcome to %s.", levelgraph.LevelName(e.Level(), e.Branch())), false)
		return r, nil

	case abortedMsg:
		r.deps.Ledger.Restart()
		if msg.err != nil {
			// The engine is reset regardless; the learner cleans up by hand.
			r.setStatus("Teardown failed: "+msg.err.Error(), true)
		}
		r.removeSnapshot()
		return r, nil

	case tea.KeyMsg:
		return r.handleKey(msg)
	}

	if r.mode == modeFlag {
		var cmd tea.Cmd
		r.input, cmd = r.input.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *RunScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch r.mode {
	case modeLoading:
		return r, nil
	case modeFlag:
		return r.handleFlagKey(msg)
	case modeHints:
		return r.handleHintKey(msg)
	case modeBranch:
		return r.handleBranchKey(msg)
	case modeAbort:
		return r.handleAbortKey(msg)
	}
	return r.handleMenuKey(msg)
}

func (r *RunScreen) handleMenuKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	e := r.deps.Engine
	switch msg.String() {
	case "f":
		r.mode = modeFlag
		r.input = components.NewTextInput("flag for level "+fmt.Sprint(e.Level()), 80)
		return r, r.input.Init()

	case "h":
		names := r.deps.Ledger.ListHints(e.Level(), e.Branch())
		if len(names) == 0 {
			r.setStatus("No hints for this level.", false)
			return r, nil
		}
		r.mode = modeHints
		r.picker = components.NewPicker("Take a hint:", names)
		return r, nil

	case "n":
		return r.startAdvance()

	case "d":
		if !e.Finish() {
			r.setStatus("You are not on the final level yet.", true)
			return r, nil
		}
		r.appendGameEvent(store.KindFinish, levelgraph.LevelName(e.Level(), e.Branch()), 0, lastOf(e.SolvingTimes()))
		r.removeSnapshot()
		return r, r.showSummary(false)

	case "a":
		r.mode = modeAbort
		r.picker = components.NewPicker("Abort the run and destroy all machines?", []string{"no", "yes"})
		return r, nil
	}
	return r, nil
}

func (r *RunScreen) handleFlagKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		r.mode = modeMenu
		return r, nil
	case "enter":
		e := r.deps.Engine
		submitted := strings.TrimSpace(r.input.Value())
		if submitted == "" {
			return r, nil
		}
		ok := r.deps.Checker.Check(e.Level(), submitted)
		if r.deps.Events != nil {
			_ = r.deps.Events.AppendFlagEvent(context.Background(), store.FlagEvent{
				RunID:     e.RunID(),
				Level:     e.Level(),
				Submitted: submitted,
				Correct:   ok,
			})
		}
		r.mode = modeMenu
		if ok {
			r.setStatus("Flag accepted. Move on when you are ready.", false)
		} else {
			r.setStatus("Wrong flag.", true)
		}
		return r, nil
	}
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

func (r *RunScreen) handleHintKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		r.mode = modeMenu
		return r, nil
	}
	var cmd tea.Cmd
	r.picker, cmd = r.picker.Update(msg)
	if !r.picker.Submitted {
		return r, cmd
	}

	e := r.deps.Engine
	name := r.picker.Choice()
	text, err := r.deps.Ledger.TakeHint(e.Level(), e.Branch(), name)
	r.mode = modeMenu
	if err != nil {
		r.setStatus(err.Error(), true)
		return r, nil
	}
	if r.deps.Events != nil {
		_ = r.deps.Events.AppendHintEvent(context.Background(), store.HintEvent{
			RunID:     e.RunID(),
			LevelName: levelgraph.LevelName(e.Level(), e.Branch()),
			HintName:  name,
		})
	}
	r.setStatus(name+": "+text, false)
	return r, nil
}

// startAdvance decides how to move to the next level: straight through
// on a linear level, via the branch picker on a fork.
func (r *RunScreen) startAdvance() (screen.Screen, tea.Cmd) {
	e := r.deps.Engine
	if !e.NextExists() {
		r.setStatus("This is the last level. Press D when you are done.", false)
		return r, nil
	}
	if !e.NextForked() {
		return r.advance("")
	}

	options := append(e.NextBranchNames(), adaptiveChoice)
	r.mode = modeBranch
	r.picker = components.NewPicker(
		fmt.Sprintf("Level %d forks. Choose your path:", e.Level()+1), options)
	return r, nil
}

func (r *RunScreen) handleBranchKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		r.mode = modeMenu
		return r, nil
	}
	var cmd tea.Cmd
	r.picker, cmd = r.picker.Update(msg)
	if !r.picker.Submitted {
		return r, cmd
	}

	token := r.picker.Choice()
	if token == adaptiveChoice {
		e := r.deps.Engine
		resolved, err := branch.Resolve(r.deps.Routes[e.Level()+1], e.LevelElapsed(), r.deps.Skills.Known())
		if err != nil {
			r.mode = modeMenu
			r.setStatus("Adaptive routing failed: "+err.Error()+". Pick a branch yourself.", true)
			return r, nil
		}
		token = resolved
	}
	return r.advance(token)
}

func (r *RunScreen) handleAbortKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		r.mode = modeMenu
		return r, nil
	}
	var cmd tea.Cmd
	r.picker, cmd = r.picker.Update(msg)
	if !r.picker.Submitted {
		return r, cmd
	}
	if r.picker.Choice() != "yes" {
		r.mode = modeMenu
		return r, nil
	}

	// Capture the report before Abort wipes the engine.
	report := r.deps.Engine.Summary()
	taken := r.deps.Ledger.TakenAll()
	total := r.deps.Ledger.TotalTaken()
	wrong := r.deps.Checker.AllWrongGuesses()
	r.appendGameEvent(store.KindAbort, "", 0, 0)

	r.enterLoading("Destroying machines.")
	abortCmd := func() tea.Msg {
		return abortedMsg{err: r.deps.Engine.Abort(context.Background())}
	}
	show := func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: summary.New(report, taken, total, wrong, true),
		}
	}
	return r, tea.Sequence(abortCmd, show)
}

func (r *RunScreen) advance(token string) (screen.Screen, tea.Cmd) {
	e := r.deps.Engine
	r.enterLoading(fmt.Sprintf("Provisioning level %d. This can take a few minutes.", e.Level()+1))
	return r, func() tea.Msg {
		err := e.Advance(context.Background(), token)
		if err == nil {
			r.appendGameEvent(store.KindAdvance,
				levelgraph.LevelName(e.Level(), e.Branch()),
				lastOf(e.LoadTimes()), lastOf(e.SolvingTimes()))
		}
		return advancedMsg{err: err}
	}
}

func (r *RunScreen) startCmd() tea.Cmd {
	e := r.deps.Engine
	return func() tea.Msg {
		_, err := e.Start(context.Background())
		if err == nil {
			r.appendGameEvent(store.KindStart, levelgraph.LevelName(1, ""), lastOf(e.LoadTimes()), 0)
		}
		return startedMsg{err: err}
	}
}

func (r *RunScreen) showSummary(aborted bool) tea.Cmd {
	report := r.deps.Engine.Summary()
	taken := r.deps.Ledger.TakenAll()
	total := r.deps.Ledger.TotalTaken()
	wrong := r.deps.Checker.AllWrongGuesses()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: summary.New(report, taken, total, wrong, aborted),
		}
	}
}

func (r *RunScreen) appendGameEvent(kind, levelName string, load, solve time.Duration) {
	if r.deps.Events == nil {
		return
	}
	_ = r.deps.Events.AppendGameEvent(context.Background(), store.GameEvent{
		RunID:     r.deps.Engine.RunID(),
		Kind:      kind,
		LevelName: levelName,
		LoadTime:  load,
		SolveTime: solve,
	})
}

func (r *RunScreen) saveSnapshot() {
	if r.deps.SnapshotPath == "" {
		return
	}
	snap := snapshot.Capture(r.deps.Engine, r.deps.Ledger, r.deps.Checker)
	_ = snapshot.Save(r.deps.SnapshotPath, snap)
}

// removeSnapshot drops the saved-run file once the run has ended; a
// finished or aborted run is not resumable.
func (r *RunScreen) removeSnapshot() {
	if r.deps.SnapshotPath == "" {
		return
	}
	_ = os.Remove(r.deps.SnapshotPath)
}

func lastOf(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	return ds[len(ds)-1]
}

func (r *RunScreen) View(width, height int) string {
	var body string
	switch r.mode {
	case modeLoading:
		body = theme.Hint.Render(r.loadingText)
	case modeFlag:
		body = theme.Body.Render("Submit the flag you found:") + "\n\n" + r.input.View()
	case modeHints, modeBranch, modeAbort:
		body = r.picker.View()
	default:
		body = r.statusView()
	}

	card := theme.Card.Width(min(width-4, 70)).Render(body)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

func (r *RunScreen) statusView() string {
	e := r.deps.Engine
	var b strings.Builder

	report := e.Summary()
	b.WriteString(theme.Selected.Render(fmt.Sprintf(
		"Level %d of %d", report.Level, report.TotalLevels)) + "\n")
	b.WriteString(theme.Hint.Render("total time "+layout.FormatClock(report.Elapsed)) + "\n\n")

	taken := r.deps.Ledger.TakenHints(e.Level(), e.Branch())
	if len(taken) > 0 {
		b.WriteString(theme.Body.Render("Hints taken here: "+strings.Join(taken, ", ")) + "\n\n")
	}

	if r.status != "" {
		style := theme.Body
		if r.statErr {
			style = theme.Incorrect
		}
		b.WriteString(style.Render(r.status) + "\n")
	}
	return b.String()
}
