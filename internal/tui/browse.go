// Package tui implements the interactive deal browser: a sortable table over
// the active result set with keyboard-driven filter toggles.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dealstack/dealstack/internal/cli"
	"github.com/dealstack/dealstack/internal/dataset"
	"github.com/dealstack/dealstack/internal/filter"
	"github.com/dealstack/dealstack/internal/magichour"
	"github.com/dealstack/dealstack/internal/model"
)

// Config carries everything the browser needs to recompute its result set.
type Config struct {
	Store     *dataset.Store
	Spec      model.FilterSpec
	MagicHour magichour.Config
	Today     time.Time
}

// Model holds the browser state.
type Model struct {
	table   table.Model
	config  Config
	results []model.Deal
	width   int
	height  int
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor)

	magicOnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.SuccessColor)
)

// New creates a browser over the given store and initial filter state.
func New(cfg Config) Model {
	m := Model{config: cfg}
	m.table = table.New(
		table.WithColumns(browseColumns()),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(cli.PrimaryColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#1A1A1A")).Background(cli.PrimaryColor)
	m.table.SetStyles(styles)

	m.recompute()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-6, 5))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "m":
			m.config.Spec.ToggleMagicHour()
			m.recompute()
		case "a":
			m.config.Spec.Clear()
			m.recompute()
		case "h":
			m.config.Spec.MagicHour = false
			m.config.Spec.SetPointsBucket(model.PointsHigh)
			m.recompute()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	title := headerStyle.Render(cli.DealIcon + " dealstack")
	if m.config.Spec.MagicHour {
		title += "  " + magicOnStyle.Render(cli.MagicIcon+" magic hour")
	}

	status := statusStyle.Render(fmt.Sprintf(
		"%d deals · m magic hour · h high points · a all · q quit",
		len(m.results)))

	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View(), status)
}

// recompute rebuilds the visible rows from the current filter state. The
// store itself is never touched; only this projection changes.
func (m *Model) recompute() {
	m.results = filter.Results(m.config.Store, m.config.Spec, m.config.Today, m.config.MagicHour)

	rows := make([]table.Row, len(m.results))
	for i := range m.results {
		d := &m.results[i]
		rows[i] = table.Row{
			d.Retailer,
			d.Province,
			d.Brand,
			d.Name,
			cli.FormatPrice(d),
			d.SaveText,
			cli.FormatPoints(d.LoyaltyPoints),
			d.ExpiryLabel,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Run launches the browser and blocks until the user quits.
func Run(cfg Config) error {
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen()).Run()
	return err
}

func browseColumns() []table.Column {
	return []table.Column{
		{Title: "Retailer", Width: 20},
		{Title: "Prov", Width: 5},
		{Title: "Brand", Width: 14},
		{Title: "Name", Width: 34},
		{Title: "Price", Width: 8},
		{Title: "Save", Width: 10},
		{Title: "Points", Width: 8},
		{Title: "Expiry", Width: 12},
	}
}
