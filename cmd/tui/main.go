package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/homeledger/homeledger/cmd/tui/internal/view"
	authStore "github.com/homeledger/homeledger/internal/auth/store"
	"github.com/homeledger/homeledger/internal/config"
	"github.com/homeledger/homeledger/internal/database"
	"github.com/homeledger/homeledger/internal/dedupe"
	"github.com/homeledger/homeledger/internal/importer"
	"github.com/homeledger/homeledger/internal/reference"
	refStore "github.com/homeledger/homeledger/internal/reference/store"
	"github.com/homeledger/homeledger/internal/transaction"
	txStore "github.com/homeledger/homeledger/internal/transaction/store"
)

type model struct {
	txService     *transaction.Service
	dedupeService *dedupe.Service
	importService *importer.Service
	refService    *reference.Service
	userID        uuid.UUID

	currentView View

	transactionsView view.TransactionsModel
	importView       view.ImportModel
	analyticsView    view.AnalyticsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewTransactions View = 1
	ViewImport       View = 2
	ViewAnalytics    View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// A single interactive session needs far fewer connections than the API.
	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpen:     2,
		MaxIdle:     1,
		MaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// The TUI runs against one account, picked by TUI_USER_EMAIL.
	email := os.Getenv("TUI_USER_EMAIL")
	if email == "" {
		slog.Error("TUI_USER_EMAIL is not set")
		os.Exit(1)
	}

	user, err := authStore.New(db).GetUserByEmail(context.Background(), email)
	if err != nil {
		slog.Error("failed to look up user", "email", email, "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db))
	dedupeSvc := dedupe.NewService(txStore.New(db))
	impSvc := importer.NewService()
	refSvc := reference.NewService(refStore.New(db))

	return model{
		txService:        txSvc,
		dedupeService:    dedupeSvc,
		importService:    impSvc,
		refService:       refSvc,
		userID:           user.ID,
		currentView:      ViewMenu,
		transactionsView: view.NewTransactionsModel(txSvc, dedupeSvc, user.ID),
		importView:       view.NewImportModel(txSvc, impSvc, refSvc, user.ID),
		analyticsView:    view.NewAnalyticsModel(txSvc, refSvc, user.ID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService, m.dedupeService, m.userID)

				return m, m.transactionsView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.txService, m.importService, m.refService, m.userID)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewAnalytics
				m.analyticsView = view.NewAnalyticsModel(m.txService, m.refService, m.userID)

				return m, m.analyticsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewAnalytics:
		var newModel tea.Model
		newModel, cmd = m.analyticsView.Update(msg)
		m.analyticsView = newModel.(view.AnalyticsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"HomeLedger TUI\n\n" +
				"1. Transactions\n" +
				"2. Import CSV\n" +
				"3. Analytics\n\n" +
				"q. Quit",
		)
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewAnalytics:
		return m.analyticsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
