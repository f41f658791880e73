// Package tui is the terminal front end: a bubbletea program that edits a
// process set and replays its SJF timeline.
//
// The flow follows The Elm Architecture: key presses and player ticks arrive
// as messages, Update changes the App, View renders it.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/config"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/logbook"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/timeline"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/workload"
)

// screen is which view has the keyboard.
type screen int

const (
	screenPlayer screen = iota
	screenEditor
)

const (
	stepBuffer   = 16
	logTailLines = 5
)

// stepMsg carries a player transition into the bubbletea loop. run tells
// steps of a replaced player apart from the current one.
type stepMsg struct {
	run  int
	step timeline.Step
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger routes diagnostic output to l.
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLogbook records playback transitions in lb and shows its tail.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithWorkload starts the app on w instead of the configured default.
func WithWorkload(w workload.Workload) AppOption {
	return func(a *App) {
		a.initial = &w
	}
}

// WithInterval overrides the configured auto-advance period.
func WithInterval(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithAfterFunc swaps the player's timer factory.
func WithAfterFunc(fn timeline.AfterFunc) AppOption {
	return func(a *App) {
		a.after = fn
	}
}

// App is the root bubbletea model.
type App struct {
	config  *config.Config
	logger  *slog.Logger
	logbook *logbook.Logbook
	// logTail caches the footer; it is refreshed whenever the app journals.
	logTail  []string
	logTotal int

	workloads []workload.Workload
	current   int
	initial   *workload.Workload

	interval time.Duration
	after    timeline.AfterFunc

	processes []sjf.Process
	timeline  timeline.Timeline
	player    *timeline.Player
	run       int
	steps     chan stepMsg
	colors    palette
	labels    map[string]string

	screen screen
	editor *processEditor
	keys   keyMap
	help   help.Model
	err    error

	width  int
	height int
}

// NewApp loads the workloads available under cfg and prepares a player for
// the default one.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tui: config is required")
	}
	a := &App{
		config:   cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		interval: cfg.PlaybackInterval(),
		steps:    make(chan stepMsg, stepBuffer),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if err := a.loadWorkloads(); err != nil {
		return nil, err
	}
	w := a.workloads[a.current]
	a.editor = newProcessEditor(w.Processes)
	if err := a.load(w.Processes); err != nil {
		return nil, fmt.Errorf("tui: workload %s: %w", w.ID, err)
	}
	a.logInfo("Loaded workload %s (%d processes)", w.ID, len(w.Processes))
	return a, nil
}

func (a *App) loadWorkloads() error {
	files, err := workload.LoadDir(a.config.WorkloadsDir())
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	if a.initial != nil {
		w := a.initial.Normalized()
		a.workloads = append(a.workloads, w)
		seen[strings.ToLower(w.ID)] = true
	}
	builtin := workload.Builtin()
	if !seen[builtin.ID] {
		a.workloads = append(a.workloads, builtin)
		seen[builtin.ID] = true
	}
	for _, f := range files {
		id := strings.ToLower(f.Workload.ID)
		if seen[id] {
			continue
		}
		seen[id] = true
		a.workloads = append(a.workloads, f.Workload)
	}
	if a.initial == nil {
		want := a.config.DefaultWorkload()
		for i, w := range a.workloads {
			if strings.EqualFold(w.ID, want) {
				a.current = i
			}
		}
	}
	return nil
}

// load schedules processes and swaps in a fresh player. On failure the
// previous timeline and player stay in place.
func (a *App) load(processes []sjf.Process) error {
	tl, err := timeline.Compute(processes)
	if err != nil {
		return err
	}
	a.run++
	run := a.run
	ch := a.steps
	player, err := timeline.NewPlayer(tl,
		timeline.WithInterval(a.interval),
		timeline.WithAfterFunc(a.after),
		timeline.WithLogger(a.logger),
		timeline.WithObserver(func(step timeline.Step) {
			select {
			case ch <- stepMsg{run: run, step: step}:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}
	if a.player != nil {
		a.player.Close()
	}
	a.processes = tl.Processes
	a.timeline = tl
	a.player = player
	a.colors = newPalette(tl.Processes)
	a.labels = make(map[string]string, len(tl.Processes))
	for _, p := range tl.Processes {
		a.labels[p.ID] = p.Label()
	}
	a.logger.Debug("timeline ready", "processes", len(tl.Processes), "steps", len(tl.Steps), "makespan", tl.Schedule.Metrics.Makespan)
	return nil
}

func waitForStep(ch <-chan stepMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (a *App) logInfo(format string, args ...any) {
	a.logbook.Info(format, args...)
	a.refreshLogTail()
}

func (a *App) logWarn(format string, args ...any) {
	a.logbook.Warn(format, args...)
	a.refreshLogTail()
}

func (a *App) refreshLogTail() {
	a.logTail, a.logTotal = a.logbook.Tail(logTailLines)
}

// Init starts listening for player transitions.
func (a *App) Init() tea.Cmd {
	return waitForStep(a.steps)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case stepMsg:
		if msg.run == a.run {
			a.logInfo("%s", msg.step.Title)
			if msg.step.Kind == timeline.StepTerminal {
				m := a.timeline.Schedule.Metrics
				a.logInfo("Average waiting %s, average turnaround %s", formatAverage(m.AverageWaiting), formatAverage(m.AverageTurnaround))
			}
		}
		return a, waitForStep(a.steps)

	case applyEditsMsg:
		return a, a.applyEdits(msg.processes)

	case discardEditsMsg:
		a.err = nil
		a.screen = screenPlayer
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.screen == screenEditor {
			return a, a.editor.Update(msg)
		}
		return a.handlePlayerKey(msg)
	}
	return a, nil
}

func (a *App) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Play):
		a.player.Toggle()
		a.logger.Debug("toggle playback", "state", a.player.State().String())
	case key.Matches(msg, a.keys.Next):
		a.player.Next()
	case key.Matches(msg, a.keys.Prev):
		if idx := a.player.Index(); idx > 0 {
			_ = a.player.Seek(idx - 1)
		}
	case key.Matches(msg, a.keys.Reset):
		a.player.Reset()
		a.logInfo("Reset to the start")
	case key.Matches(msg, a.keys.End):
		_ = a.player.Seek(a.player.Len() - 1)
	case key.Matches(msg, a.keys.Edit):
		a.player.Pause()
		a.editor.load(a.processes)
		a.screen = screenEditor
	case key.Matches(msg, a.keys.Workload):
		a.cycleWorkload()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	if a.player != nil {
		a.player.Close()
	}
	return a, tea.Quit
}

func (a *App) applyEdits(processes []sjf.Process) tea.Cmd {
	if err := a.load(processes); err != nil {
		a.err = err
		a.editor.err = err
		a.logWarn("Edit rejected: %v", err)
		return nil
	}
	a.err = nil
	a.screen = screenPlayer
	a.logInfo("Rescheduled %d processes", len(processes))
	return nil
}

func (a *App) cycleWorkload() {
	if len(a.workloads) < 2 {
		return
	}
	next := (a.current + 1) % len(a.workloads)
	w := a.workloads[next]
	if err := a.load(w.Processes); err != nil {
		a.err = err
		a.logWarn("Workload %s rejected: %v", w.ID, err)
		return
	}
	a.current = next
	a.err = nil
	a.logInfo("Switched to workload %s", w.ID)
	if err := a.config.SetDefaultWorkload(w.ID); err != nil {
		a.logger.Warn("persist default workload", "workload", w.ID, "error", err)
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	if a.screen == screenEditor {
		content = a.editor.View()
	} else {
		content = a.renderPlayer(width)
	}
	sections := []string{a.renderHeader(), content}
	if footer := a.renderLogPanel(width); footer != "" {
		sections = append(sections, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderHeader() string {
	w := a.workloads[a.current]
	name := w.Name
	if name == "" {
		name = w.ID
	}
	status := fmt.Sprintf("%s · %s · every %s", name, a.player.State(), a.player.Interval())
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("SJF Visualizer"), "  ", detailStyle.Render(status))
}

func (a *App) renderPlayer(width int) string {
	step := a.player.Current()
	var b strings.Builder
	b.WriteString(stepHeading(step, a.player.Len()))
	b.WriteString("\n")
	b.WriteString(step.Description)
	b.WriteString("\n\n")
	b.WriteString(renderGantt(a.timeline, step, a.colors, a.labels, width))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", headingStyle.Render("Running:"), renderRunning(step, a.colors))
	fmt.Fprintf(&b, "%s %s\n", headingStyle.Render("Ready queue:"), renderQueue(step.ReadyQueue, a.colors, ""))
	if len(step.Arrivals) > 0 {
		fmt.Fprintf(&b, "%s %s\n", headingStyle.Render("Arrived:"), renderQueue(step.Arrivals, a.colors, ""))
	}
	if len(step.Candidates) > 1 && step.Running != nil {
		fmt.Fprintf(&b, "%s %s\n", headingStyle.Render("Compared:"), renderQueue(step.Candidates, a.colors, step.Running.ID))
	}
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(renderResults(a.timeline, step)))
	if a.err != nil {
		b.WriteString("\n")
		b.WriteString(editorErrorStyle.Render(a.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) renderLogPanel(width int) string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logTail, a.logTotal
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := headingStyle.Render(fmt.Sprintf("LOG · %s (%d entries)", fileName, total))
	body := detailStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Width(max(20, width-4)).Render(head + "\n" + body)
}
