package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/otis/internal/export"
	"github.com/sadopc/otis/internal/query"
	"github.com/sadopc/otis/internal/session"
	"github.com/sadopc/otis/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	session *session.Session
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login          loginModel
	dashboard      dashboardModel
	installations  installationsModel
	budget         budgetModel
	interactions   interactionsModel
	feedback       feedbackModel
	clientFeedback clientFeedbackModel

	help    help.Model
	status  string
	isError bool
}

func NewApp(s *store.Store, sess *session.Session) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		store:          s,
		session:        sess,
		activeView:     viewLogin,
		login:          newLoginModel(sess),
		dashboard:      newDashboardModel(s),
		installations:  newInstallationsModel(s),
		budget:         newBudgetModel(s),
		interactions:   newInteractionsModel(s),
		feedback:       newFeedbackModel(s),
		clientFeedback: newClientFeedbackModel(s),
		help:           h,
	}
	if sess.LoggedIn() {
		a.activeView = viewFor(session.Landing(sess.Role()))
	}
	switch a.activeView {
	case viewLogin:
		a.login, _ = a.login.reset()
	case viewClientFeedback:
		a.clientFeedback, _ = a.clientFeedback.reset(sess.Email())
	}
	return a
}

func (a App) Init() tea.Cmd {
	switch a.activeView {
	case viewLogin:
		return a.login.form.Init()
	case viewClientFeedback:
		return a.clientFeedback.form.Init()
	}
	return a.refreshCurrentView()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.installations.setSize(a.width, contentHeight)
		a.budget.setSize(a.width, contentHeight)
		a.interactions.setSize(a.width, contentHeight)
		a.feedback.setSize(a.width, contentHeight)
		a.clientFeedback.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a, func() tea.Msg { return logoutMsg{} }
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.navigate(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.navigate(viewInstallations)
		case key.Matches(msg, keys.Tab3):
			return a.navigate(viewBudget)
		case key.Matches(msg, keys.Tab4):
			return a.navigate(viewInteractions)
		case key.Matches(msg, keys.Tab5):
			return a.navigate(viewFeedback)
		case key.Matches(msg, keys.Tab6):
			return a.navigate(viewClientFeedback)
		case key.Matches(msg, keys.Tab):
			return a.navigate((a.activeView + 1) % viewState(len(viewNames)))
		}

	case loggedInMsg:
		a.setStatus("Signed in as "+a.session.Email(), false)
		return a.navigate(viewFor(a.session.Resolve(msg.screen)))

	case logoutMsg:
		return a.logout()

	case autoLogoutMsg:
		sub := a.clientFeedback.submitted
		if a.activeView != viewClientFeedback || sub == nil || sub.ID != msg.id {
			return a, nil
		}
		return a.logout()

	case SessionChangedMsg:
		if !msg.LoggedIn && a.activeView != viewLogin {
			a.setStatus("Signed out in another window", false)
			return a.toLogin()
		}
		if msg.LoggedIn && a.activeView == viewLogin {
			return a.navigate(viewFor(session.Landing(a.session.Role())))
		}
		return a, nil

	case StorageChangedMsg:
		if a.activeView == viewLogin || a.isFormActive() {
			return a, nil
		}
		return a, a.refreshCurrentView()

	case installationCreatedMsg:
		a.setStatus("Created installation "+msg.installation.ID, false)
		return a, a.installations.refresh()

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.isError = isError
}

// navigate switches to v when the session allows it and loads its data.
func (a App) navigate(v viewState) (tea.Model, tea.Cmd) {
	screen := a.session.Resolve(viewScreens[v])
	if screen == session.ScreenLogin {
		return a.toLogin()
	}
	a.activeView = v
	if v == viewClientFeedback {
		var cmd tea.Cmd
		a.clientFeedback, cmd = a.clientFeedback.reset(a.session.Email())
		return a, cmd
	}
	return a, a.refreshCurrentView()
}

func (a App) logout() (tea.Model, tea.Cmd) {
	if err := a.session.Logout(); err != nil {
		a.setStatus(fmt.Sprintf("Sign out: %v", err), true)
		return a, nil
	}
	a.setStatus("Signed out", false)
	return a.toLogin()
}

func (a App) toLogin() (tea.Model, tea.Cmd) {
	a.activeView = viewLogin
	a.exportPicking = false
	a.clientFeedback.submitted = nil
	var cmd tea.Cmd
	a.login, cmd = a.login.reset()
	return a, cmd
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewLogin:
		a.login, cmd = a.login.update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewInstallations:
		a.installations, cmd = a.installations.update(msg)
	case viewBudget:
		a.budget, cmd = a.budget.update(msg)
	case viewInteractions:
		a.interactions, cmd = a.interactions.update(msg)
	case viewFeedback:
		a.feedback, cmd = a.feedback.update(msg)
	case viewClientFeedback:
		a.clientFeedback, cmd = a.clientFeedback.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewLogin:
		return true
	case viewInstallations:
		return a.installations.formActive
	case viewBudget:
		return a.budget.formActive
	case viewInteractions:
		return a.interactions.formActive
	case viewFeedback:
		return a.feedback.formActive
	case viewClientFeedback:
		return a.clientFeedback.formActive()
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewInstallations:
		return a.installations.refresh()
	case viewBudget:
		return a.budget.refresh()
	case viewInteractions:
		return a.interactions.refresh()
	case viewFeedback:
		return a.feedback.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewLogin:
		content = a.login.view()
	case viewDashboard:
		content = a.dashboard.view()
	case viewInstallations:
		content = a.installations.view()
	case viewBudget:
		content = a.budget.view()
	case viewInteractions:
		content = a.interactions.view()
	case viewFeedback:
		content = a.feedback.view()
	case viewClientFeedback:
		content = a.clientFeedback.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := brandStyle.Render("OTIS Manager")

	var tabRow string
	if a.activeView != viewLogin {
		var tabs []string
		for i, name := range viewNames {
			if viewState(i) == a.activeView {
				tabs = append(tabs, activeTabStyle.Render(name))
			} else {
				tabs = append(tabs, inactiveTabStyle.Render(name))
			}
		}
		tabRow = lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	}

	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := mutedStyle.Render(" ctrl+c: quit")
	if a.activeView != viewLogin {
		left = footerStyle.Render(a.help.View(keys))
	}

	right := ""
	if a.session.LoggedIn() {
		right = highlightStyle.Render(fmt.Sprintf(" %s (%s)", a.session.Email(), a.session.Role().Label()))
	}
	if a.status != "" {
		style := mutedStyle
		if a.isError {
			style = errorStyle
		}
		right += style.Render(" " + a.status)
	}

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Installations")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	if summary := a.installations.filterSummary(); summary != "" {
		rows = append(rows, mutedStyle.Render(summary))
	}
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the installations matching the current filter.
func (a App) doExport(format int) tea.Cmd {
	criteria := a.installations.criteria
	return func() tea.Msg {
		list, err := a.store.ListInstallations()
		if err != nil {
			return errStatus("Export error", err)
		}
		list = query.FilterInstallations(list, criteria)

		home, _ := os.UserHomeDir()
		dateStr := timeNow().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("otis-export-%s.csv", dateStr))
			if err := export.ToCSV(list, path); err != nil {
				return errStatus("CSV error", err)
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("otis-export-%s.json", dateStr))
			if err := export.ToJSON(list, path); err != nil {
				return errStatus("JSON error", err)
			}
		}

		return exportDoneMsg{path: path}
	}
}
