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

type interactionsModel struct {
	store  *store.Store
	width  int
	height int

	all      []store.Interaction
	filtered []store.Interaction
	criteria query.Criteria
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "create", "edit", "delete", "filter"
	editingID  int

	// Form field pointers (survive value copies)
	fClient      *string
	fDescription *string
	fDate        *string
	fStatus      *string
	fType        *string
	fSearch      *string
	fConfirm     *bool
}

func newInteractionsModel(s *store.Store) interactionsModel {
	var client, desc, date, status, typ, search string
	var confirm bool
	return interactionsModel{
		store:        s,
		fClient:      &client,
		fDescription: &desc,
		fDate:        &date,
		fStatus:      &status,
		fType:        &typ,
		fSearch:      &search,
		fConfirm:     &confirm,
	}
}

func (m *interactionsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type interactionsDataMsg struct {
	interactions []store.Interaction
}

func (m interactionsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		list, err := m.store.ListInteractions()
		if err != nil {
			return errStatus("Load interactions", err)
		}
		return interactionsDataMsg{interactions: list}
	}
}

func (m *interactionsModel) apply(list []store.Interaction) {
	m.all = list
	m.filtered = query.FilterInteractions(list, m.criteria)
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m interactionsModel) selected() (store.Interaction, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return store.Interaction{}, false
	}
	return m.filtered[m.cursor], true
}

func (m interactionsModel) update(msg tea.Msg) (interactionsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case interactionsDataMsg:
		m.apply(msg.interactions)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showEditForm(store.Interaction{
				Date:   store.DateOf(timeNow()),
				Status: store.InteractionPending,
				Type:   store.InteractionMeeting,
			}, "create")
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if it, ok := m.selected(); ok {
				return m.showEditForm(it, "edit")
			}
		case key.Matches(msg, keys.Delete):
			if it, ok := m.selected(); ok {
				return m.showDeleteForm(it)
			}
		case key.Matches(msg, keys.Filter):
			return m.showFilterForm()
		case key.Matches(msg, keys.ClearFilter):
			m.criteria = query.Criteria{}
			m.apply(m.all)
		}
	}
	return m, nil
}

func (m interactionsModel) showEditForm(it store.Interaction, formType string) (interactionsModel, tea.Cmd) {
	*m.fClient = it.ClientName
	*m.fDescription = it.Description
	*m.fDate = it.Date.String()
	*m.fStatus = string(it.Status)
	*m.fType = string(it.Type)
	m.formType = formType
	m.editingID = it.ID

	statusOptions := make([]huh.Option[string], len(store.InteractionStatuses))
	for i, s := range store.InteractionStatuses {
		statusOptions[i] = huh.NewOption(s.Label(), string(s))
	}
	typeOptions := make([]huh.Option[string], len(store.InteractionTypes))
	for i, t := range store.InteractionTypes {
		typeOptions[i] = huh.NewOption(t.Label(), string(t))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Client").Value(m.fClient).Validate(required("client")),
			huh.NewText().Title("Description").Value(m.fDescription),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(m.fDate).Validate(validDate),
			huh.NewSelect[string]().Title("Status").Options(statusOptions...).Value(m.fStatus),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(m.fType),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m interactionsModel) showDeleteForm(it store.Interaction) (interactionsModel, tea.Cmd) {
	*m.fConfirm = false
	m.formType = "delete"
	m.editingID = it.ID
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete interaction with %s?", it.ClientName)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.fConfirm),
		),
	)

	m.formActive = true
	return m, m.form.Init()
}

func (m interactionsModel) showFilterForm() (interactionsModel, tea.Cmd) {
	*m.fSearch = m.criteria.Search
	*m.fStatus = m.criteria.Status
	m.formType = "filter"

	statusOptions := []huh.Option[string]{anyOption("All statuses")}
	for _, s := range store.InteractionStatuses {
		statusOptions = append(statusOptions, huh.NewOption(s.Label(), string(s)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search client or description").Value(m.fSearch),
			huh.NewSelect[string]().Title("Status").Options(statusOptions...).Value(m.fStatus),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m interactionsModel) formInteraction() (store.Interaction, error) {
	date, err := store.ParseDate(strings.TrimSpace(*m.fDate))
	if err != nil {
		return store.Interaction{}, err
	}
	return store.Interaction{
		ClientName:  strings.TrimSpace(*m.fClient),
		Description: strings.TrimSpace(*m.fDescription),
		Date:        date,
		Status:      store.InteractionStatus(*m.fStatus),
		Type:        store.InteractionType(*m.fType),
	}, nil
}

func (m interactionsModel) updateForm(msg tea.Msg) (interactionsModel, tea.Cmd) {
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
		return m.submit()
	}

	return m, cmd
}

// submit applies the completed form to the store.
func (m interactionsModel) submit() (interactionsModel, tea.Cmd) {
	switch m.formType {
	case "filter":
		m.criteria = query.Criteria{Search: *m.fSearch, Status: *m.fStatus}
		m.apply(m.all)
		m.cursor = 0
		return m, nil
	case "delete":
		if !*m.fConfirm {
			return m, nil
		}
		if err := m.store.DeleteInteraction(m.editingID); err != nil {
			return m, func() tea.Msg { return errStatus("Delete interaction", err) }
		}
		return m, tea.Batch(m.refresh(), func() tea.Msg { return statusMsg{text: "Interaction deleted"} })
	}

	it, err := m.formInteraction()
	if err != nil {
		return m, func() tea.Msg { return errStatus("Save interaction", err) }
	}
	if m.formType == "edit" {
		_, err = m.store.UpdateInteraction(m.editingID, it)
	} else {
		_, err = m.store.CreateInteraction(it)
	}
	if err != nil {
		return m, func() tea.Msg { return errStatus("Save interaction", err) }
	}
	return m, tea.Batch(m.refresh(), func() tea.Msg { return statusMsg{text: "Interaction saved"} })
}

func (m interactionsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := "New Interaction"
		switch m.formType {
		case "edit":
			title = "Edit Interaction"
		case "delete":
			title = "Delete Interaction"
		case "filter":
			title = "Filter Interactions"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render(fmt.Sprintf("Client Interactions (%d)", len(m.filtered)))
	if len(m.filtered) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No interactions. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title, ""}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-20s %-12s %-13s %-12s %s", "ID", "Client", "Date", "Type", "Status", "Description")))
	descWidth := max(w-72, 10)
	for i, it := range m.filtered {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-4d %-20s %-12s %-13s %-12s %s",
			cursor, it.ID, truncate(it.ClientName, 20), it.Date.String(),
			it.Type.Label(), it.Status.Label(), truncate(it.Description, descWidth))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  /: filter  c: clear"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
