package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/otis/internal/session"
)

type loginModel struct {
	session *session.Session
	width   int
	height  int

	form *huh.Form
	err  string

	// Form field pointers (survive value copies)
	email    *string
	password *string
	role     *string
}

func newLoginModel(s *session.Session) loginModel {
	email, password, role := "", "", string(session.RoleEmployee)
	return loginModel{
		session:  s,
		email:    &email,
		password: &password,
		role:     &role,
	}
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// reset clears the fields and builds a fresh form.
func (l loginModel) reset() (loginModel, tea.Cmd) {
	*l.email = ""
	*l.password = ""
	*l.role = string(session.RoleEmployee)
	l.err = ""
	return l.buildForm()
}

func (l loginModel) buildForm() (loginModel, tea.Cmd) {
	roleOptions := make([]huh.Option[string], len(session.Roles))
	for i, r := range session.Roles {
		roleOptions[i] = huh.NewOption(r.Label(), string(r))
	}

	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(l.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(l.password),
			huh.NewSelect[string]().Title("I am").Options(roleOptions...).Value(l.role),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return l, l.form.Init()
}

// submit logs in with the current field values.
func (l loginModel) submit() (session.Screen, error) {
	return l.session.Login(*l.email, *l.password, session.Role(*l.role))
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if l.form == nil {
		return l.buildForm()
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		screen, err := l.submit()
		if err != nil {
			if errors.Is(err, session.ErrMissingCredentials) {
				l.err = "Enter your email and password."
			} else {
				l.err = err.Error()
			}
			*l.password = ""
			return l.buildForm()
		}
		l.err = ""
		return l, func() tea.Msg { return loggedInMsg{screen: screen} }
	}

	return l, cmd
}

func (l loginModel) view() string {
	w := min(l.width-4, 60)

	rows := []string{
		brandStyle.Render("OTIS Manager"),
		subtitleStyle.Render("Sign in to your account"),
		"",
	}
	if l.form != nil {
		rows = append(rows, l.form.View())
	}
	if l.err != "" {
		rows = append(rows, "", errorStyle.Render(l.err))
	}

	panel := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(l.width, max(l.height, lipgloss.Height(panel)), lipgloss.Center, lipgloss.Center, panel)
}
