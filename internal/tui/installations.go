package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/otis/internal/query"
	"github.com/sadopc/otis/internal/store"
)

type installationsMode int

const (
	installationsList installationsMode = iota
	installationsDetail
	installationsNotFound
)

type installationsModel struct {
	store  *store.Store
	width  int
	height int

	all       []store.Installation
	filtered  []store.Installation
	countries []string
	criteria  query.Criteria
	cursor    int

	mode      installationsMode
	detail    *store.Installation
	missingID string

	formActive bool
	form       *huh.Form
	formType   string // "filter", "create", "goto"

	// Form field pointers (survive value copies)
	fSearch      *string
	fCountry     *string
	fStatus      *string
	fType        *string
	fID          *string
	fClient      *string
	fCity        *string
	fDeadline    *string
	fCost        *string
	fResponsible *string
	fDescription *string
}

func newInstallationsModel(s *store.Store) installationsModel {
	var search, country, status, typ, id, client, city, deadline, cost, resp, desc string
	return installationsModel{
		store:        s,
		fSearch:      &search,
		fCountry:     &country,
		fStatus:      &status,
		fType:        &typ,
		fID:          &id,
		fClient:      &client,
		fCity:        &city,
		fDeadline:    &deadline,
		fCost:        &cost,
		fResponsible: &resp,
		fDescription: &desc,
	}
}

func (m *installationsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type installationsDataMsg struct {
	installations []store.Installation
}

type installationDetailMsg struct {
	id           string
	installation *store.Installation
	err          error
}

type installationCreatedMsg struct {
	installation *store.Installation
}

func (m installationsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		list, err := m.store.ListInstallations()
		if err != nil {
			return errStatus("Load installations", err)
		}
		return installationsDataMsg{installations: list}
	}
}

func (m installationsModel) open(id string) tea.Cmd {
	return func() tea.Msg {
		inst, err := m.store.GetInstallation(id)
		return installationDetailMsg{id: id, installation: inst, err: err}
	}
}

func (m *installationsModel) apply(list []store.Installation) {
	m.all = list
	m.countries = query.Distinct(list, func(i store.Installation) string { return i.Country })
	m.filtered = query.FilterInstallations(list, m.criteria)
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m installationsModel) update(msg tea.Msg) (installationsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case installationsDataMsg:
		m.apply(msg.installations)
		if m.mode == installationsDetail && m.detail != nil {
			return m, m.open(m.detail.ID)
		}
		return m, nil

	case installationDetailMsg:
		if errors.Is(msg.err, store.ErrNotFound) {
			m.mode = installationsNotFound
			m.missingID = msg.id
			m.detail = nil
			return m, nil
		}
		if msg.err != nil {
			return m, func() tea.Msg { return errStatus("Load installation", msg.err) }
		}
		m.mode = installationsDetail
		m.detail = msg.installation
		return m, nil

	case tea.KeyMsg:
		if m.mode != installationsList {
			if key.Matches(msg, keys.Back) {
				m.mode = installationsList
				m.detail = nil
				m.missingID = ""
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m installationsModel) updateList(msg tea.KeyMsg) (installationsModel, tea.Cmd) {
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
		if len(m.filtered) > 0 {
			return m, m.open(m.filtered[m.cursor].ID)
		}
	case key.Matches(msg, keys.Filter):
		return m.showFilterForm()
	case key.Matches(msg, keys.ClearFilter):
		m.criteria = query.Criteria{}
		m.apply(m.all)
	case key.Matches(msg, keys.Goto):
		return m.showGotoForm()
	case key.Matches(msg, keys.New):
		return m.showCreateForm()
	}
	return m, nil
}

func anyOption(label string) huh.Option[string] {
	return huh.NewOption(label, "")
}

func (m installationsModel) showFilterForm() (installationsModel, tea.Cmd) {
	*m.fSearch = m.criteria.Search
	*m.fCountry = m.criteria.Country
	*m.fStatus = m.criteria.Status
	*m.fType = m.criteria.ElevatorType
	m.formType = "filter"

	countryOptions := []huh.Option[string]{anyOption("All countries")}
	for _, c := range m.countries {
		countryOptions = append(countryOptions, huh.NewOption(c, c))
	}
	statusOptions := []huh.Option[string]{anyOption("All statuses")}
	for _, s := range store.InstallationStatuses {
		statusOptions = append(statusOptions, huh.NewOption(s.Label(), string(s)))
	}
	typeOptions := []huh.Option[string]{anyOption("All types")}
	for _, t := range store.ElevatorTypes {
		typeOptions = append(typeOptions, huh.NewOption(t.Label(), string(t)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search client or ID").Value(m.fSearch),
			huh.NewSelect[string]().Title("Country").Options(countryOptions...).Value(m.fCountry),
			huh.NewSelect[string]().Title("Status").Options(statusOptions...).Value(m.fStatus),
			huh.NewSelect[string]().Title("Elevator type").Options(typeOptions...).Value(m.fType),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m installationsModel) showGotoForm() (installationsModel, tea.Cmd) {
	*m.fID = ""
	m.formType = "goto"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Installation ID").Placeholder("INST-001").Value(m.fID),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m installationsModel) showCreateForm() (installationsModel, tea.Cmd) {
	for _, p := range []*string{m.fClient, m.fCity, m.fDeadline, m.fCost, m.fResponsible, m.fDescription} {
		*p = ""
	}
	*m.fCountry = ""
	*m.fType = string(store.ElevatorPersonal)
	m.formType = "create"

	typeOptions := make([]huh.Option[string], len(store.ElevatorTypes))
	for i, t := range store.ElevatorTypes {
		typeOptions[i] = huh.NewOption(t.Label(), string(t))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Client").Value(m.fClient).Validate(required("client")),
			huh.NewInput().Title("Country").Value(m.fCountry).Validate(required("country")),
			huh.NewInput().Title("City").Value(m.fCity),
			huh.NewSelect[string]().Title("Elevator type").Options(typeOptions...).Value(m.fType),
		).Title("Installation"),
		huh.NewGroup(
			huh.NewInput().Title("Deadline (YYYY-MM-DD)").Value(m.fDeadline).Validate(validDate),
			huh.NewInput().Title("Cost").Value(m.fCost),
			huh.NewInput().Title("Responsible").Value(m.fResponsible),
			huh.NewText().Title("Description").Value(m.fDescription),
		).Title("Planning"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validDate(s string) error {
	_, err := store.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// parseCost reads a cost, treating anything unparsable or negative as 0.
func parseCost(s string) float64 {
	s = strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func (m installationsModel) buildInstallation() (store.Installation, error) {
	deadline, err := store.ParseDate(strings.TrimSpace(*m.fDeadline))
	if err != nil {
		return store.Installation{}, err
	}
	return store.Installation{
		Client:       strings.TrimSpace(*m.fClient),
		Country:      strings.TrimSpace(*m.fCountry),
		City:         strings.TrimSpace(*m.fCity),
		ElevatorType: store.ElevatorType(*m.fType),
		Deadline:     deadline,
		Cost:         parseCost(*m.fCost),
		Responsible:  strings.TrimSpace(*m.fResponsible),
		Description:  strings.TrimSpace(*m.fDescription),
	}, nil
}

func (m installationsModel) updateForm(msg tea.Msg) (installationsModel, tea.Cmd) {
	// Check for escape to cancel form
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
		switch m.formType {
		case "filter":
			m.criteria = query.Criteria{
				Search:       *m.fSearch,
				Country:      *m.fCountry,
				Status:       *m.fStatus,
				ElevatorType: *m.fType,
			}
			m.apply(m.all)
			m.cursor = 0
			return m, nil
		case "goto":
			id := strings.ToUpper(strings.TrimSpace(*m.fID))
			return m, m.open(id)
		case "create":
			inst, err := m.buildInstallation()
			if err != nil {
				return m, func() tea.Msg { return errStatus("Create installation", err) }
			}
			return m, func() tea.Msg {
				created, err := m.store.CreateInstallation(inst)
				if err != nil {
					return errStatus("Create installation", err)
				}
				return installationCreatedMsg{installation: created}
			}
		}
	}

	return m, cmd
}

func (m installationsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := "Filter Installations"
		switch m.formType {
		case "create":
			title = "New Installation"
		case "goto":
			title = "Open Installation"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	switch m.mode {
	case installationsDetail:
		return m.renderDetail(w)
	case installationsNotFound:
		return m.renderNotFound(w)
	}
	return m.renderList(w)
}

func (m installationsModel) filterSummary() string {
	var parts []string
	if m.criteria.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", m.criteria.Search))
	}
	if m.criteria.Country != "" {
		parts = append(parts, m.criteria.Country)
	}
	if m.criteria.Status != "" {
		parts = append(parts, store.InstallationStatus(m.criteria.Status).Label())
	}
	if m.criteria.ElevatorType != "" {
		parts = append(parts, store.ElevatorType(m.criteria.ElevatorType).Label())
	}
	return strings.Join(parts, ", ")
}

func (m installationsModel) renderList(w int) string {
	title := titleStyle.Render(fmt.Sprintf("Installations (%d of %d)", len(m.filtered), len(m.all)))

	rows := []string{title}
	if f := m.filterSummary(); f != "" {
		rows = append(rows, mutedStyle.Render("Filtered by "+f))
	}
	rows = append(rows, "")

	if len(m.filtered) == 0 {
		rows = append(rows, mutedStyle.Render("No installations match. Press / to change the filter or n to add one."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	header := mutedStyle.Render(fmt.Sprintf("  %-10s %-26s %-12s %-12s %-11s %-10s %12s", "ID", "Client", "Country", "Status", "Type", "Deadline", "Cost"))
	rows = append(rows, header)

	for i, inst := range m.filtered {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := installationStatusStyle(inst.Status).Render(fmt.Sprintf("%-12s", inst.Status.Label()))
		row := style.Render(fmt.Sprintf("%s%-10s %-26s %-12s ", cursor, inst.ID, truncate(inst.Client, 26), truncate(inst.Country, 12))) +
			status +
			style.Render(fmt.Sprintf(" %-11s %-10s %12s", inst.ElevatorType.Label(), inst.Deadline.String(), formatCost(inst.Cost)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: details  /: filter  c: clear  g: go to id  n: new  x: export"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m installationsModel) renderDetail(w int) string {
	inst := m.detail
	label := lipgloss.NewStyle().Width(16).Foreground(colorMuted)

	completed := "-"
	if inst.CompletionDate != nil {
		completed = inst.CompletionDate.String()
	}
	fields := []struct{ k, v string }{
		{"Client", inst.Client},
		{"Location", strings.Trim(inst.City+", "+inst.Country, ", ")},
		{"Status", installationStatusStyle(inst.Status).Render(inst.Status.Label())},
		{"Elevator type", inst.ElevatorType.Label()},
		{"Responsible", inst.Responsible},
		{"Start", inst.StartDate.String()},
		{"Deadline", inst.Deadline.String()},
		{"Completed", completed},
		{"Cost", formatCost(inst.Cost)},
		{"Progress", fmt.Sprintf("%s %d%%", progressBar(inst.Progress, 30), inst.Progress)},
	}

	rows := []string{titleStyle.Render(inst.ID), ""}
	for _, f := range fields {
		rows = append(rows, label.Render(f.k)+" "+f.v)
	}
	if inst.Description != "" {
		rows = append(rows, "", inst.Description)
	}
	rows = append(rows, "", mutedStyle.Render("  esc: back to list"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m installationsModel) renderNotFound(w int) string {
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("Installation not found"),
		"",
		fmt.Sprintf("No installation with ID %q exists.", m.missingID),
		"",
		mutedStyle.Render("  esc: back to list"),
	))
}
