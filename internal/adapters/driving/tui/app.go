package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/promptbreeder/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/promptbreeder/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/promptbreeder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

// Layout constants.
const (
	minListWidth = 30
	chromeLines  = 6
)

// App is the rating screen for one run, following the Elm architecture.
// The left pane ranks the current generation; the right pane shows the
// selected genome.
type App struct {
	ports  *Ports
	ctx    context.Context
	runID  string
	styles *styles.Styles
	keys   *keymap.KeyMap
	detail viewport.Model

	report   *driving.GenerationReport
	selected int

	// status is the last outcome shown in the status line.
	status string
	err    error

	// busy is set while an evolve or oracle call is in flight.
	busy     bool
	showHelp bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI for a run.
func NewApp(ports *Ports, runID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if runID == "" {
		return nil, fmt.Errorf("creating app: %w", ErrMissingRunID)
	}

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		runID:  runID,
		styles: styles.DefaultStyles(),
		keys:   keymap.DefaultKeyMap(),
		detail: viewport.New(0, 0),
	}, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("promptbreeder"),
		a.load(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.GenerationLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.setReport(msg.Report)
		return a, nil

	case messages.GenomeRated:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.status = fmt.Sprintf("Rated %s %.0f", shortID(msg.Record.GenomeID), msg.Record.Rating)
		return a, a.load()

	case messages.OracleFinished:
		a.busy = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.status = fmt.Sprintf("Oracle recorded %d ratings", len(msg.Records))
		return a, a.load()

	case messages.Evolved:
		a.busy = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.selected = 0
		a.status = fmt.Sprintf("Bred generation %d", msg.Result.Run.Generation)
		if msg.Result.Parent.Rated > 0 {
			a.status += fmt.Sprintf(" (parent best %.2f, mean %.2f)", msg.Result.Parent.Best, msg.Result.Parent.Mean)
		}
		return a, a.load()
	}

	var cmd tea.Cmd
	a.detail, cmd = a.detail.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = !a.showHelp
		a.resize()

	case key.Matches(msg, a.keys.Up):
		a.moveSelection(-1)

	case key.Matches(msg, a.keys.Down):
		a.moveSelection(1)

	case key.Matches(msg, a.keys.Rate):
		rating, err := strconv.Atoi(msg.String())
		if err != nil {
			return nil
		}
		return a.rate(float64(rating))

	case key.Matches(msg, a.keys.Evolve):
		if a.busy {
			return nil
		}
		a.busy = true
		a.status = "Evolving..."
		return a.evolve()

	case key.Matches(msg, a.keys.Oracle):
		if a.busy {
			return nil
		}
		a.busy = true
		a.status = "Running oracle..."
		return a.evaluate()

	case key.Matches(msg, a.keys.Refresh):
		return a.load()
	}
	return nil
}

func (a *App) load() tea.Cmd {
	ctx, breeder, runID := a.ctx, a.ports.Breeder, a.runID
	return func() tea.Msg {
		report, err := breeder.Rankings(ctx, runID, driving.CurrentGeneration)
		return messages.GenerationLoaded{Report: report, Err: err}
	}
}

func (a *App) rate(rating float64) tea.Cmd {
	genome, ok := a.Selected()
	if !ok {
		return nil
	}
	ctx, breeder, id := a.ctx, a.ports.Breeder, genome.ID
	return func() tea.Msg {
		record, err := breeder.Rate(ctx, driving.RateRequest{GenomeID: id, Rating: rating})
		return messages.GenomeRated{Record: record, Err: err}
	}
}

func (a *App) evolve() tea.Cmd {
	ctx, breeder, runID := a.ctx, a.ports.Breeder, a.runID
	return func() tea.Msg {
		result, err := breeder.Evolve(ctx, runID)
		return messages.Evolved{Result: result, Err: err}
	}
}

func (a *App) evaluate() tea.Cmd {
	ctx, breeder, runID := a.ctx, a.ports.Breeder, a.runID
	return func() tea.Msg {
		records, err := breeder.Evaluate(ctx, runID)
		return messages.OracleFinished{Records: records, Err: err}
	}
}

// setReport replaces the ranking, keeping the selection on the same genome.
func (a *App) setReport(report *driving.GenerationReport) {
	var selectedID string
	if g, ok := a.Selected(); ok {
		selectedID = g.ID
	}

	a.report = report
	a.selected = 0
	for i, r := range report.Ranked {
		if r.Genome.ID == selectedID {
			a.selected = i
			break
		}
	}
	a.refreshDetail()
}

func (a *App) moveSelection(delta int) {
	if a.report == nil || len(a.report.Ranked) == 0 {
		return
	}
	a.selected = max(0, min(len(a.report.Ranked)-1, a.selected+delta))
	a.refreshDetail()
}

func (a *App) refreshDetail() {
	r, ok := a.selectedRanked()
	if !ok {
		a.detail.SetContent("")
		return
	}

	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Genome") + "\n")
	fmt.Fprintf(&b, "ID:       %s\n", r.Genome.ID)
	fmt.Fprintf(&b, "Source:   %s\n", r.Genome.Source())
	if r.Genome.ParentID != "" {
		fmt.Fprintf(&b, "Parent:   %s\n", r.Genome.ParentID)
	}
	fmt.Fprintf(&b, "Lines:    %d\n", r.Genome.ComplexityScore())
	if r.Ratings > 0 {
		fmt.Fprintf(&b, "Fitness:  %.2f from %d ratings\n", r.MeanFitness, r.Ratings)
	} else {
		b.WriteString("Fitness:  unrated\n")
	}
	b.WriteString("\n" + a.styles.Subtitle.Render("Prompt") + "\n")
	b.WriteString(r.Genome.Content)

	a.detail.SetContent(b.String())
	a.detail.GotoTop()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{a.viewHeader()}
	if a.report == nil {
		sections = append(sections, a.styles.Muted.Render("Loading generation..."))
	} else {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			a.styles.Pane.Render(a.viewList()),
			a.styles.Pane.Render(a.detail.View()),
		))
	}
	sections = append(sections, a.viewStatus(), a.viewHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) viewHeader() string {
	if a.report == nil {
		return a.styles.Title.Render("promptbreeder")
	}
	stats := a.report.Stats
	header := a.styles.Title.Render(fmt.Sprintf("%s  generation %d", a.report.Run.DisplayName(), a.report.Generation))
	summary := fmt.Sprintf("rated %d/%d", stats.Rated, stats.Size)
	if stats.Rated > 0 {
		summary += fmt.Sprintf("  best %.2f  mean %.2f  worst %.2f", stats.Best, stats.Mean, stats.Worst)
	}
	return header + "  " + a.styles.Muted.Render(summary)
}

func (a *App) viewList() string {
	width := a.listWidth()
	rows := make([]string, 0, len(a.report.Ranked))
	for i, r := range a.report.Ranked {
		rating := "  -  "
		if r.Ratings > 0 {
			rating = a.styles.Rating.Render(fmt.Sprintf("%5.2f", r.MeanFitness))
		}
		line := fmt.Sprintf("%2d. %s %s", i+1, rating, truncate(flatten(r.Genome.Content), width-10))
		if i == a.selected {
			line = a.styles.Selected.Render(line)
		}
		rows = append(rows, line)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(rows, "\n"))
}

func (a *App) viewStatus() string {
	if a.err != nil {
		return a.styles.Error.Render("Error: " + a.err.Error())
	}
	return a.styles.StatusBar.Render(a.status)
}

func (a *App) viewHelp() string {
	bindings := a.keys.ShortHelp()
	if a.showHelp {
		bindings = nil
		for _, group := range a.keys.FullHelp() {
			bindings = append(bindings, group...)
		}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return a.styles.Help.Render(strings.Join(parts, " • "))
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.resize()
}

func (a *App) resize() {
	a.detail.Width = max(10, a.width-a.listWidth()-8)
	a.detail.Height = max(3, a.height-chromeLines)
	a.refreshDetail()
}

func (a *App) listWidth() int {
	return max(minListWidth, a.width*2/5)
}

// Selected returns the selected genome.
func (a *App) Selected() (domain.Genome, bool) {
	r, ok := a.selectedRanked()
	return r.Genome, ok
}

func (a *App) selectedRanked() (domain.RankedGenome, bool) {
	if a.report == nil || a.selected >= len(a.report.Ranked) {
		return domain.RankedGenome{}, false
	}
	return a.report.Ranked[a.selected], true
}

// Report returns the displayed generation.
func (a *App) Report() *driving.GenerationReport {
	return a.report
}

// SelectedIndex returns the selected row.
func (a *App) SelectedIndex() int {
	return a.selected
}

// Status returns the status line text.
func (a *App) Status() string {
	return a.status
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Busy reports whether an evolve or oracle call is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width < 4 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
