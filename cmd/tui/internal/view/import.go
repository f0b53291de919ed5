package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/importer"
	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateLoading
	importStateReview
	importStateResult
)

type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service
	refService    *reference.Service
	userID        uuid.UUID

	state      importState
	filePicker filepicker.Model

	candidates    []transaction.ImportCandidate
	candidateList list.Model
	selected      map[int]bool

	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service, refSvc *reference.Service, userID uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		refService:    refSvc,
		userID:        userID,
		filePicker:    fp,
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateReview {
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateReview {
			return m.updateReview(msg)
		}

	case previewMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.candidates) == 0 {
			m.state = importStateResult
			m.status = "No importable rows found."

			return m, nil
		}

		m.candidates = msg.candidates
		m.selected = make(map[int]bool)

		// Duplicates start unticked; everything else is in by default.
		for i, c := range m.candidates {
			m.selected[i] = !c.IsDuplicate
		}

		m.state = importStateReview

		items := make([]list.Item, len(m.candidates))
		for i, c := range m.candidates {
			items[i] = candidateItem{candidate: c, index: i}
		}

		delegate := candidateDelegate{selected: &m.selected}
		m.candidateList = list.New(items, delegate, 80, 20)
		m.candidateList.Title = "Review Import"
		m.candidateList.SetShowStatusBar(false)
		m.candidateList.SetFilteringEnabled(false)
		m.candidateList.SetShowHelp(false)

		return m, nil

	case importDoneMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateLoading
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""

		return m, nil
	case importStateReview:
		m.state = importStateFilePick
		m.candidates = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.candidateList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.candidates {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.candidates {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.candidateList, cmd = m.candidateList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV export to import:\n\n%s", m.filePicker.View()),
		)
	case importStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		return lipgloss.NewStyle().Padding(1).Render(m.candidateList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type previewMsg struct {
	candidates []transaction.ImportCandidate
	err        error
}

type importDoneMsg struct {
	count int
	err   error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		existing, err := m.txService.List(ctx, transaction.ListFilter{UserID: m.userID})
		if err != nil {
			return previewMsg{err: err}
		}

		candidates, err := m.importService.Preview(f, existing)
		if err != nil {
			return previewMsg{err: err}
		}

		return previewMsg{candidates: candidates}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	candidates := m.candidates
	selected := m.selected

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		category, err := m.refService.DefaultCategory(ctx)
		if err != nil {
			return importDoneMsg{err: err}
		}

		var params []transaction.CreateParams

		for i, c := range candidates {
			if !selected[i] {
				continue
			}

			params = append(params, transaction.CreateParams{
				UserID:      m.userID,
				Amount:      c.Amount,
				Type:        c.Type,
				Source:      transaction.SourceCSVImport,
				Description: c.Description,
				Date:        c.Date,
				CategoryID:  category.ID,
			})
		}

		txs, err := m.txService.CreateBatch(ctx, params)
		if err != nil {
			return importDoneMsg{err: err}
		}

		return importDoneMsg{count: len(txs)}
	}
}

// Candidate list item

type candidateItem struct {
	candidate transaction.ImportCandidate
	index     int
}

func (i candidateItem) Title() string       { return "" }
func (i candidateItem) Description() string { return "" }
func (i candidateItem) FilterValue() string { return "" }

// Candidate list delegate

type candidateDelegate struct {
	selected *map[int]bool
}

func (d candidateDelegate) Height() int                             { return 2 }
func (d candidateDelegate) Spacing() int                            { return 0 }
func (d candidateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(candidateItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	c := item.candidate

	line := fmt.Sprintf("%s%s %s  %10s  %s",
		cursor, checkbox,
		FormatDate(c.Date),
		FormatAmount(c.Amount, c.Type),
		c.Description,
	)

	if c.IsDuplicate {
		line += lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render("  (duplicate)")
	}

	fmt.Fprintf(w, "%s\n\n", line)
}
