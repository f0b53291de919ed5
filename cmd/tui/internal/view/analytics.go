package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/analytics"
	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

var granularities = []analytics.Granularity{
	analytics.GranularityMonthly,
	analytics.GranularityWeekly,
	analytics.GranularityDaily,
}

type AnalyticsModel struct {
	CommonModel
	txService  *transaction.Service
	refService *reference.Service
	userID     uuid.UUID

	granularityIdx int
	timeframe      Timeframe

	report  analytics.Report
	loading bool
	err     error
}

func NewAnalyticsModel(txSvc *transaction.Service, refSvc *reference.Service, userID uuid.UUID) AnalyticsModel {
	return AnalyticsModel{
		txService:  txSvc,
		refService: refSvc,
		userID:     userID,
		loading:    true,
	}
}

func (m AnalyticsModel) Title() string { return "Analytics" }

func (m AnalyticsModel) ShortHelp() string {
	return "Esc: back | g: granularity | d: date range | r: refresh"
}

func (m AnalyticsModel) Init() tea.Cmd {
	return m.loadReportCmd()
}

func (m AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.report = msg.report
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "g":
			m.granularityIdx = (m.granularityIdx + 1) % len(granularities)
			m.loading = true
			return m, m.loadReportCmd()
		case "d":
			m.timeframe = (m.timeframe + 1) % timeframeCount
			m.loading = true
			return m, m.loadReportCmd()
		case "r":
			m.loading = true
			return m, m.loadReportCmd()
		}
	}

	return m, nil
}

func (m AnalyticsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Building report...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"[g] Granularity: %s | [d] Date: %s",
		activeStyle(string(granularities[m.granularityIdx])),
		activeStyle(m.timeframe.String()),
	)

	var b strings.Builder

	b.WriteString(sectionStyle.Render("Expenses by Category"))
	b.WriteString("\n")

	if len(m.report.CategoryTotals) == 0 {
		b.WriteString("  no expenses\n")
	}

	for _, ct := range m.report.CategoryTotals {
		b.WriteString(fmt.Sprintf("  %-30s %12s\n", ct.Name, ct.Total.StringFixed(2)))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Income / Expense over Time"))
	b.WriteString("\n")

	for _, bucket := range m.report.TimeSeries {
		b.WriteString(fmt.Sprintf("  %-10s  income %12s  expense %12s  net %12s\n",
			bucket.Label,
			bucket.Income.StringFixed(2),
			bucket.Expense.StringFixed(2),
			bucket.Net.StringFixed(2),
		))
	}

	if len(m.report.PropertyProfit) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Property Profit"))
		b.WriteString("\n")

		for _, p := range m.report.PropertyProfit {
			b.WriteString(fmt.Sprintf("  %-30s %12s\n", p.Name, p.Profit.StringFixed(2)))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		b.String(),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

var sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

// Messages

type reportMsg struct {
	report analytics.Report
	err    error
}

func (m AnalyticsModel) loadReportCmd() tea.Cmd {
	granularity := granularities[m.granularityIdx]
	timeframe := m.timeframe

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		filter := transaction.ListFilter{UserID: m.userID}

		if timeframe != TimeframeAll {
			start, end := TimeframeToDateRange(timeframe)
			filter.StartDate = &start
			filter.EndDate = &end
		}

		txs, err := m.txService.List(ctx, filter)
		if err != nil {
			return reportMsg{err: err}
		}

		categories, err := m.refService.ListCategories(ctx)
		if err != nil {
			return reportMsg{err: err}
		}

		properties, err := m.refService.ListProperties(ctx, m.userID)
		if err != nil {
			return reportMsg{err: err}
		}

		report := analytics.BuildReport(txs, analytics.Reference{
			Categories: reference.CategoryMap(categories),
			Properties: reference.PropertyMap(properties),
		}, granularity)

		return reportMsg{report: report}
	}
}
