// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/stats"
	"github.com/verte-zerg/podium/internal/tui"
)

const (
	tabOverview = iota
	tabActivity
	tabRecent
	tabAchievements
	tabTeams
)

const (
	settingsWindow = iota
	settingsRecent
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	unlockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	source stats.Source
	cfg    model.StatsConfig
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location

	report stats.Report
	errMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	recentTable table.Model

	width  int
	height int

	settingsMode bool
	settings     *tui.Form
}

// NewModel constructs a stats UI model.
func NewModel(src stats.Source, cfg model.StatsConfig, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		source: src,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
		tabs:   []string{"Overview", "Activity", "Recent", "Achievements", "Teams"},
	}
	m.recentTable = buildRecentTable(nil, time.Time{}, 80, 10)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabRecent {
			m.recentTable.Focus()
		} else {
			m.recentTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "w":
			m.cycleWindow()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		case "/":
			return m.startSettings()
		case "g", "home":
			if m.activeTab == tabRecent {
				m.recentTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRecent {
				m.recentTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabRecent {
				var cmd tea.Cmd
				m.recentTable, cmd = m.recentTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.settingsMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.recentTable.SetWidth(m.width)
	m.recentTable.SetHeight(max(1, vpHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRecent {
		m.recentTable.Focus()
	} else {
		m.recentTable.Blur()
	}
}

func (m *Model) cycleWindow() {
	current, err := stats.ParseWindow(m.cfg.Window)
	if err != nil {
		current = stats.Window7d
	}
	next := stats.Windows[0]
	for i, w := range stats.Windows {
		if w == current {
			next = stats.Windows[(i+1)%len(stats.Windows)]
		}
	}
	m.cfg.Window = next.Label
	// The window only changes the analytics view, so no refetch is needed.
	m.report = m.report.Reanalyze(next, m.loc)
	m.renderTabContents()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.source, m.cfg, m.now(), m.loc)
	if err != nil {
		m.logger.Error("failed to build stats report", zap.Error(err))
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabActivity].SetContent(renderActivity(m.report.Analytics, width))
	m.viewports[tabAchievements].SetContent(renderAchievements(m.report.Achievements))
	m.viewports[tabTeams].SetContent(renderTeams(m.report))
	m.recentTable = buildRecentTable(m.report.Recent, m.report.GeneratedAt, width, bodyHeight)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	settings := padLines(m.renderSettingsSummary(), m.width)
	return tabs + "\n" + settings
}

func (m *Model) renderSettingsSummary() string {
	window := m.cfg.Window
	if window == "" {
		window = stats.Window7d.Label
	}
	recent := m.cfg.Recent
	if recent <= 0 {
		recent = stats.DefaultRecentLimit
	}
	summary := fmt.Sprintf("Settings: user=%s  window=%s  recent=%d", m.cfg.UserID, window, recent)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.settingsMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: w  Reload: r  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.settingsMode {
		return fitLines("Settings (enter to apply, esc to cancel)\n"+m.settings.View(), m.width, height)
	}
	if m.activeTab == tabRecent {
		if m.errMsg == "" && len(m.report.Recent) == 0 {
			return fitLines("No recent activity.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.recentTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settings = tui.NewForm(
		tui.Field{Label: "Window", Placeholder: "7d, 30d, or 90d", Validate: func(s string) error {
			_, err := stats.ParseWindow(s)
			return err
		}},
		tui.Field{Label: "Recent", Placeholder: strconv.Itoa(stats.DefaultRecentLimit), Validate: tui.ValidateCount},
	)
	m.settings.SetValue(settingsWindow, m.cfg.Window)
	if m.cfg.Recent > 0 {
		m.settings.SetValue(settingsRecent, strconv.Itoa(m.cfg.Recent))
	}
	return m, m.settings.Focus()
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.settingsMode = false
		return m, nil
	}
	submitted, cmd := m.settings.Update(msg)
	if !submitted {
		return m, cmd
	}
	window, _ := stats.ParseWindow(m.settings.Value(settingsWindow))
	recent, _ := tui.ParseCount(m.settings.Value(settingsRecent))
	m.cfg.Window = window.Label
	m.cfg.Recent = recent
	m.settingsMode = false
	m.refreshReport()
	m.updateLayout()
	return m, nil
}

func renderOverview(r stats.Report, width int) string {
	if r.Summary.TotalSessions == 0 {
		return "No sessions found. Run `podium` to record a practice session."
	}
	s := r.Summary
	cards := []string{
		metricCard("Sessions", strconv.Itoa(s.TotalSessions)),
		metricCard("Avg Score", fmt.Sprintf("%.1f/10", s.AvgPracticeScore)),
		metricCard("Practice Time", fmt.Sprintf("%dm", s.PracticeMinutes)),
		metricCard("Debates Won", fmt.Sprintf("%d/%d", s.DebatesWon, s.TotalDebates)),
		metricCard("Win Rate", fmt.Sprintf("%.0f%%", s.WinRate)),
		metricCard("Streak", fmt.Sprintf("%d days", r.Streak)),
	}
	var block string
	if width < 80 {
		block = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		block = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	var buf bytes.Buffer
	if err := stats.RenderSkills(&buf, r.Analytics.Skills, width, true); err != nil {
		return fmt.Sprintf("Failed to render skills: %v", err)
	}
	if err := stats.RenderWeakSkills(&buf, r.WeakSkills, r.ScoreTrend); err != nil {
		return fmt.Sprintf("Failed to render focus areas: %v", err)
	}
	if err := stats.RenderTopTopics(&buf, r.TopTopics); err != nil {
		return fmt.Sprintf("Failed to render topics: %v", err)
	}
	return strings.TrimRight(block+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderActivity(a stats.Analytics, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderAnalytics(&buf, a, width, true); err != nil {
		return fmt.Sprintf("Failed to render activity: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderAchievements(list []stats.Achievement) string {
	lines := []string{fmt.Sprintf("%d of %d unlocked", stats.UnlockedCount(list), len(list)), ""}
	for _, a := range list {
		mark := "[ ]"
		detail := fmt.Sprintf("%.0f%%", a.Progress)
		if a.Unlocked {
			mark = unlockedStyle.Render("[x]")
			detail = "unlocked"
			if a.UnlockedAt != nil {
				detail += " " + a.UnlockedAt.Format(time.DateOnly)
			}
		}
		lines = append(lines,
			fmt.Sprintf("%s %s  %s", mark, cardValueStyle.Render(a.Title), headerStyle.Render(detail)),
			"    "+a.Description,
		)
	}
	return strings.Join(lines, "\n")
}

func renderTeams(r stats.Report) string {
	var buf bytes.Buffer
	if err := stats.RenderTeams(&buf, r.Teams, r.UserID); err != nil {
		return fmt.Sprintf("Failed to render teams: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildRecentTable(recent []stats.Activity, now time.Time, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Kind", Width: 8},
		{Title: "Title", Width: max(10, width-8-6-8-10-10)},
		{Title: "Score", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "When", Width: 10},
	}
	rows := make([]table.Row, 0, len(recent))
	for _, a := range recent {
		rows = append(rows, table.Row{
			string(a.Kind),
			a.Title,
			fmt.Sprintf("%.1f", a.Score),
			stats.FormatDuration(a.DurationSeconds),
			stats.FormatAgo(a.CreatedAt, now),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(recentTableStyles())
	return t
}

func recentTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
