package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/otis/internal/query"
	"github.com/sadopc/otis/internal/store"
)

type feedbackModel struct {
	store  *store.Store
	width  int
	height int

	all      []store.Feedback
	filtered []store.Feedback
	search   string
	cursor   int
	viewing  bool

	formActive bool
	form       *huh.Form
	fSearch    *string
}

func newFeedbackModel(s *store.Store) feedbackModel {
	search := ""
	return feedbackModel{store: s, fSearch: &search}
}

func (m *feedbackModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type feedbackDataMsg struct {
	feedback []store.Feedback
}

func (m feedbackModel) refresh() tea.Cmd {
	return func() tea.Msg {
		list, err := m.store.ListFeedback()
		if err != nil {
			return errStatus("Load feedback", err)
		}
		return feedbackDataMsg{feedback: list}
	}
}

func (m *feedbackModel) apply(list []store.Feedback) {
	m.all = list
	m.filtered = query.FilterFeedback(list, query.Criteria{Search: m.search})
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	if len(m.filtered) == 0 {
		m.viewing = false
	}
}

func (m feedbackModel) averageRating() float64 {
	return query.Average(m.filtered, func(f store.Feedback) float64 { return float64(f.Rating) })
}

func (m feedbackModel) update(msg tea.Msg) (feedbackModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case feedbackDataMsg:
		m.apply(msg.feedback)
		return m, nil

	case tea.KeyMsg:
		if m.viewing {
			if key.Matches(msg, keys.Back) {
				m.viewing = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			m.viewing = len(m.filtered) > 0
		case key.Matches(msg, keys.Filter):
			return m.showSearchForm()
		case key.Matches(msg, keys.ClearFilter):
			m.search = ""
			m.apply(m.all)
		}
	}
	return m, nil
}

func (m feedbackModel) showSearchForm() (feedbackModel, tea.Cmd) {
	*m.fSearch = m.search
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search client or comment").Value(m.fSearch),
		),
	).WithShowHelp(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m feedbackModel) updateForm(msg tea.Msg) (feedbackModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.search = *m.fSearch
		m.cursor = 0
		m.apply(m.all)
		return m, nil
	}

	return m, cmd
}

func (m feedbackModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Search Feedback"), "", m.form.View()),
		)
	}
	if m.viewing {
		return m.renderDetail(w)
	}

	avg := m.averageRating()
	header := fmt.Sprintf("%s  %s %s",
		titleStyle.Render(fmt.Sprintf("Client Feedback (%d)", len(m.filtered))),
		warningStyle.Render(stars(int(avg+0.5))),
		highlightStyle.Render(fmt.Sprintf("%.1f average", avg)),
	)
	rows := []string{header}
	if m.search != "" {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("Matching %q", m.search)))
	}
	rows = append(rows, "")

	if len(m.filtered) == 0 {
		rows = append(rows, mutedStyle.Render("No feedback found."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %-10s %-7s %-10s %s", "Client", "Date", "Rating", "Status", "Comment")))
	commentWidth := max(w-62, 10)
	for i, f := range m.filtered {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s %-10s ", cursor, truncate(f.ClientName, 24), f.Date.String()))+
			warningStyle.Render(stars(f.Rating))+
			style.Render(fmt.Sprintf("  %-10s %s", f.Status.Label(), truncate(f.Comment, commentWidth))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: details  /: search  c: clear"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m feedbackModel) renderDetail(w int) string {
	f := m.filtered[m.cursor]
	label := lipgloss.NewStyle().Width(14).Foreground(colorMuted)

	response := mutedStyle.Render("No response yet")
	if f.Response != nil {
		response = *f.Response
	}
	fields := []struct{ k, v string }{
		{"Client", fmt.Sprintf("%s (%s)", f.ClientName, f.ClientID)},
		{"Country", f.Country},
		{"Project", orDash(f.ProjectName)},
		{"Date", f.Date.String()},
		{"Rating", warningStyle.Render(stars(f.Rating))},
		{"Status", f.Status.Label()},
		{"Responsible", f.Responsible},
	}
	rows := []string{titleStyle.Render("Feedback"), ""}
	for _, fd := range fields {
		rows = append(rows, label.Render(fd.k)+" "+fd.v)
	}
	rows = append(rows, "", f.Comment, "", label.Render("Response")+" "+response)
	rows = append(rows, "", mutedStyle.Render("  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
