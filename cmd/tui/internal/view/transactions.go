package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/dedupe"
	"github.com/homeledger/homeledger/internal/transaction"
)

type transactionsState int

const (
	transactionsStateBrowse transactionsState = iota
	transactionsStateEdit
)

type TransactionsModel struct {
	CommonModel
	txService     *transaction.Service
	dedupeService *dedupe.Service
	userID        uuid.UUID

	state transactionsState
	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	// Filter cycling
	sourceFilterIdx int
	timeframe       Timeframe

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formDesc string
}

func NewTransactionsModel(txSvc *transaction.Service, dedupeSvc *dedupe.Service, userID uuid.UUID) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Source", Width: 11},
		{Title: "Amount", Width: 12},
		{Title: "Description", Width: 45},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{
		txService:     txSvc,
		dedupeService: dedupeSvc,
		userID:        userID,
		table:         t,
		filter:        transaction.ListFilter{UserID: userID},
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == transactionsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | x: delete | c: remove duplicates | s: source filter | d: date filter | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case txSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}
		m.state = transactionsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadTxsCmd()

	case txDeleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = "Deleted."
		}
		return m, m.loadTxsCmd()

	case cleanupMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error removing duplicates: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Removed %d duplicates.", msg.removed)
		}
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case transactionsStateBrowse:
		return m.updateBrowse(msg)
	case transactionsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			return m, m.deleteCmd()
		case "c":
			m.status = "Removing duplicates..."
			return m, m.cleanupCmd()
		case "s":
			m.sourceFilterIdx = (m.sourceFilterIdx + 1) % 4
			m.applyFilter()
			return m, m.loadTxsCmd()
		case "d":
			m.timeframe = (m.timeframe + 1) % timeframeCount
			m.applyFilter()
			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m TransactionsModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	m.formDesc = m.txs[idx].Description

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = transactionsStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m TransactionsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = transactionsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	sourceLabels := []string{"All", "Manual", "Recurring", "CSV Import"}

	header := fmt.Sprintf(
		"Filter: [s] Source: %s | [d] Date: %s",
		activeStyle(sourceLabels[m.sourceFilterIdx]),
		activeStyle(m.timeframe.String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == transactionsStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Transaction\n\n%s", m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *TransactionsModel) applyFilter() {
	switch m.sourceFilterIdx {
	case 1:
		m.filter.Source = new(transaction.SourceManual)
	case 2:
		m.filter.Source = new(transaction.SourceRecurring)
	case 3:
		m.filter.Source = new(transaction.SourceCSVImport)
	default:
		m.filter.Source = nil
	}

	if m.timeframe == TimeframeAll {
		m.filter.StartDate = nil
		m.filter.EndDate = nil

		return
	}

	start, end := TimeframeToDateRange(m.timeframe)
	m.filter.StartDate = &start
	m.filter.EndDate = &end
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			string(tx.Source),
			FormatAmount(tx.Amount, tx.Type),
			tx.Description,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, m.filter)
		return loadTxsMsg{txs: txs, err: err}
	}
}

type txSaveMsg struct {
	err error
}

func (m TransactionsModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID
	desc := m.formDesc

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Update(ctx, id, transaction.UpdateParams{Description: &desc})
		return txSaveMsg{err: err}
	}
}

type txDeleteMsg struct {
	err error
}

func (m TransactionsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return txDeleteMsg{err: m.txService.Delete(ctx, id)}
	}
}

type cleanupMsg struct {
	removed int64
	err     error
}

func (m TransactionsModel) cleanupCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		removed, err := m.dedupeService.RemoveDuplicates(ctx, m.userID)
		return cleanupMsg{removed: removed, err: err}
	}
}
