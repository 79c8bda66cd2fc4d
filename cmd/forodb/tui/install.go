package tui

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	_ "github.com/go-sql-driver/mysql"

	"github.com/forodb/forodb/pkg/ddl"
)

// InstallMode represents the current mode of the install UI
type InstallMode int

const (
	ModeList InstallMode = iota
	ModeConfirm
	ModeExecuting
	ModeComplete
	ModeError
)

// InstallModel is the main Bubbletea model for interactive installs
type InstallModel struct {
	mode         InstallMode
	list         list.Model
	confirmation ConfirmationDialog
	progress     ProgressView
	logs         LogView
	err          error
	width        int
	height       int
	dsn          string
	opts         ddl.Options
	db           *sql.DB
	installer    *ddl.Installer
	stmts        []ddl.Statement
	installed    map[string]bool
	pending      []int
}

// NewInstallModel creates a new install UI model
func NewInstallModel(dsn string, opts ddl.Options) InstallModel {
	items := []list.Item{}
	delegate := TableItemDelegate{}

	l := list.New(items, delegate, 0, 0)
	l.Title = "Forum Schema Tables"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return InstallModel{
		mode: ModeList,
		list: l,
		logs: NewLogView(10),
		dsn:  dsn,
		opts: opts,
	}
}

// Init initializes the model
func (m InstallModel) Init() tea.Cmd {
	return tea.Batch(
		loadSchemaCmd(m.dsn, m.opts),
		tea.EnterAltScreen,
	)
}

// Messages
type schemaLoadedMsg struct {
	db        *sql.DB
	installer *ddl.Installer
	stmts     []ddl.Statement
	installed map[string]bool
}

type tableCreatedMsg struct {
	table string
	err   error
}

type errorMsg struct {
	err error
}

// Commands
func loadSchemaCmd(dsn string, opts ddl.Options) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return errorMsg{err: fmt.Errorf("failed to open database: %w", err)}
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return errorMsg{err: fmt.Errorf("failed to connect to database: %w", err)}
		}

		if opts.ServerVersion == "" {
			opts.ServerVersion, err = ddl.DetectServerVersion(ctx, db)
			if err != nil {
				db.Close()
				return errorMsg{err: err}
			}
		}

		installer := ddl.NewInstaller(db, opts)
		stmts, err := installer.Generator().CreateStatements()
		if err != nil {
			db.Close()
			return errorMsg{err: err}
		}

		installed, err := installer.InstalledTables(ctx)
		if err != nil {
			db.Close()
			return errorMsg{err: err}
		}

		return schemaLoadedMsg{
			db:        db,
			installer: installer,
			stmts:     stmts,
			installed: installed,
		}
	}
}

func createTableCmd(installer *ddl.Installer, stmt ddl.Statement) tea.Cmd {
	return func() tea.Msg {
		err := installer.EnsureTable(context.Background(), stmt)
		return tableCreatedMsg{table: stmt.Table, err: err}
	}
}

// engineOf extracts the ENGINE clause of a rendered statement.
func engineOf(sql string) string {
	idx := strings.LastIndex(sql, "ENGINE=")
	if idx < 0 {
		return ""
	}
	rest := sql[idx+len("ENGINE="):]
	if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		return rest[:sp]
	}
	return rest
}

func (m *InstallModel) refreshItems() {
	items := make([]list.Item, len(m.stmts))
	for i, stmt := range m.stmts {
		status := "pending"
		if m.installed[stmt.Table] {
			status = "installed"
		}
		items[i] = TableItem{
			Name:   stmt.Table,
			Engine: engineOf(stmt.SQL),
			Status: status,
		}
	}
	m.list.SetItems(items)
}

// Update handles messages
func (m InstallModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case schemaLoadedMsg:
		m.db = msg.db
		m.installer = msg.installer
		m.stmts = msg.stmts
		m.installed = msg.installed

		m.pending = nil
		for i, stmt := range m.stmts {
			if !m.installed[stmt.Table] {
				m.pending = append(m.pending, i)
			}
		}
		m.refreshItems()
		return m, nil

	case tableCreatedMsg:
		if msg.err != nil {
			m.mode = ModeError
			m.err = msg.err
			m.logs.AddLog(dangerStyle.Render("Failed: " + msg.table + " - " + msg.err.Error()))
			return m, nil
		}

		m.installed[msg.table] = true
		m.logs.AddLog(successStyle.Render("✓ Created: " + msg.table))
		m.progress.Current++
		m.refreshItems()

		if m.progress.Current >= m.progress.Total {
			m.mode = ModeComplete
			return m, nil
		}

		next := m.stmts[m.pending[m.progress.Current]]
		m.progress.Message = "Creating: " + next.Table
		return m, createTableCmd(m.installer, next)

	case errorMsg:
		m.mode = ModeError
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeList:
			switch msg.String() {
			case "ctrl+c", "q":
				if m.db != nil {
					m.db.Close()
				}
				return m, tea.Quit

			case "enter", " ":
				if len(m.pending) == 0 {
					return m, nil
				}

				m.confirmation = NewConfirmationDialog(
					"Confirm Install",
					fmt.Sprintf("Create %d missing tables?", len(m.pending)),
				)
				m.confirmation.OnConfirm = func() tea.Cmd {
					m.mode = ModeExecuting
					first := m.stmts[m.pending[0]]
					m.progress = ProgressView{
						Current: 0,
						Total:   len(m.pending),
						Message: "Creating: " + first.Table,
					}
					return createTableCmd(m.installer, first)
				}
				m.confirmation.OnCancel = func() tea.Cmd {
					m.mode = ModeList
					return nil
				}
				m.mode = ModeConfirm
				return m, nil
			}

		case ModeConfirm:
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				m.mode = ModeList
				return m, nil
			default:
				return m, m.confirmation.Update(msg)
			}

		case ModeComplete, ModeError:
			switch msg.String() {
			case "ctrl+c", "q", "enter":
				if m.db != nil {
					m.db.Close()
				}
				return m, tea.Quit
			}
		}
	}

	// Update list
	if m.mode == ModeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI
func (m InstallModel) View() string {
	switch m.mode {
	case ModeList:
		help := helpStyle.Render(
			FormatKey("enter", "install missing") + " • " + FormatKey("q", "quit"),
		)
		summary := mutedStyle.Render(fmt.Sprintf("%d tables, %d missing", len(m.stmts), len(m.pending)))
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), summary, help)

	case ModeConfirm:
		return m.confirmation.View()

	case ModeExecuting:
		return lipgloss.JoinVertical(lipgloss.Left, m.progress.View(), m.logs.View())

	case ModeComplete:
		done := successStyle.Render(fmt.Sprintf("✓ Schema installed, %d tables created", m.progress.Total))
		help := helpStyle.Render(FormatKey("enter/q", "quit"))
		return lipgloss.JoinVertical(lipgloss.Left, done, m.logs.View(), help)

	case ModeError:
		errBox := errorStyle.Render("Install failed:\n" + m.err.Error())
		help := helpStyle.Render(FormatKey("enter/q", "quit"))
		return lipgloss.JoinVertical(lipgloss.Left, errBox, m.logs.View(), help)
	}
	return ""
}

// RunInstallUI launches the interactive install
func RunInstallUI(dsn string, opts ddl.Options) error {
	p := tea.NewProgram(NewInstallModel(dsn, opts))
	_, err := p.Run()
	return err
}
