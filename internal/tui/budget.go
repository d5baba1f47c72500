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
	"github.com/sadopc/otis/internal/budget"
	"github.com/sadopc/otis/internal/store"
)

type budgetModel struct {
	store  *store.Store
	width  int
	height int

	estimator *budget.Estimator
	request   budget.Request
	estimate  *budget.Estimate

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	elevatorType *string
	country      *string
	quantity     *string
	floors       *string
	complexity   *string
}

func newBudgetModel(s *store.Store) budgetModel {
	typ, country := "", ""
	qty, floors := strconv.Itoa(budget.MinQuantity), strconv.Itoa(budget.BaselineFloors)
	cx := string(budget.ComplexityStandard)
	return budgetModel{
		store:        s,
		estimator:    budget.NewEstimator(nil),
		elevatorType: &typ,
		country:      &country,
		quantity:     &qty,
		floors:       &floors,
		complexity:   &cx,
	}
}

func (b *budgetModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

type budgetDataMsg struct {
	installations []store.Installation
}

func (b budgetModel) refresh() tea.Cmd {
	return func() tea.Msg {
		list, err := b.store.ListInstallations()
		if err != nil {
			return errStatus("Load installations", err)
		}
		return budgetDataMsg{installations: list}
	}
}

func (b budgetModel) update(msg tea.Msg) (budgetModel, tea.Cmd) {
	if b.formActive && b.form != nil {
		return b.updateForm(msg)
	}

	switch msg := msg.(type) {
	case budgetDataMsg:
		b.estimator = budget.NewEstimator(msg.installations)
		return b.recalculate()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit), key.Matches(msg, keys.New):
			return b.showForm()
		}
	}
	return b, nil
}

func (b budgetModel) showForm() (budgetModel, tea.Cmd) {
	types, countries := b.estimator.Options()

	typeOptions := []huh.Option[string]{huh.NewOption("Select a type", "")}
	for _, t := range types {
		typeOptions = append(typeOptions, huh.NewOption(t.Label(), string(t)))
	}
	countryOptions := []huh.Option[string]{huh.NewOption("Select a country", "")}
	for _, c := range countries {
		countryOptions = append(countryOptions, huh.NewOption(c, c))
	}
	complexityOptions := make([]huh.Option[string], len(budget.Complexities))
	for i, c := range budget.Complexities {
		complexityOptions[i] = huh.NewOption(c.Label(), string(c))
	}

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Elevator type").Options(typeOptions...).Value(b.elevatorType),
			huh.NewSelect[string]().Title("Country").Options(countryOptions...).Value(b.country),
			huh.NewInput().Title(fmt.Sprintf("Quantity (%d-%d)", budget.MinQuantity, budget.MaxQuantity)).Value(b.quantity),
			huh.NewInput().Title(fmt.Sprintf("Floors (%d-%d)", budget.MinFloors, budget.MaxFloors)).Value(b.floors),
			huh.NewSelect[string]().Title("Complexity").Options(complexityOptions...).Value(b.complexity),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b budgetModel) updateForm(msg tea.Msg) (budgetModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			b.formActive = false
			b.form = nil
			return b, nil
		}
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	if b.form.State == huh.StateCompleted {
		b.formActive = false
		return b.recalculate()
	}

	return b, cmd
}

// recalculate coerces the form values and prices them. The coerced values
// are written back so the form shows what was priced.
func (b budgetModel) recalculate() (budgetModel, tea.Cmd) {
	b.request = budget.ParseRequest(*b.elevatorType, *b.country, *b.quantity, *b.floors, *b.complexity)
	*b.quantity = strconv.Itoa(b.request.Quantity)
	*b.floors = strconv.Itoa(b.request.Floors)
	*b.complexity = string(b.request.Complexity)

	est, err := b.estimator.Estimate(b.request)
	if errors.Is(err, budget.ErrIncomplete) {
		b.estimate = nil
		return b, nil
	}
	if err != nil {
		return b, func() tea.Msg { return errStatus("Estimate", err) }
	}
	b.estimate = est
	return b, nil
}

func (b budgetModel) view() string {
	w := b.width - 4

	if b.formActive && b.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Budget Simulation"), "", b.form.View()),
		)
	}

	params := mutedStyle.Render(fmt.Sprintf("%s · %s · %d elevator(s) · %d floors · %s complexity",
		orDash(b.request.ElevatorType.Label()), orDash(b.request.Country),
		b.request.Quantity, b.request.Floors, b.request.Complexity.Label()))

	rows := []string{titleStyle.Render("Budget Simulation"), params, ""}
	if b.estimate == nil {
		rows = append(rows, mutedStyle.Render("Choose an elevator type and a country to see an estimate."))
	} else {
		rows = append(rows, b.renderEstimate(w))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: edit parameters"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (b budgetModel) renderEstimate(w int) string {
	est := b.estimate
	money := func(v int64) string { return formatCost(float64(v)) }
	line := mutedStyle.Render("  " + strings.Repeat("─", max(min(w-6, 72), 10)))

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-36s %5s %14s %14s", "Item", "Qty", "Unit", "Total")),
		line,
	}
	for _, it := range est.Items {
		rows = append(rows, fmt.Sprintf("  %-36s %5d %14s %14s",
			truncate(it.Description, 36), it.Quantity, signedMoney(it.UnitCost), signedMoney(it.Total)))
	}
	rows = append(rows,
		line,
		fmt.Sprintf("  %-56s %14s", "Subtotal (85%)", money(est.Subtotal)),
		fmt.Sprintf("  %-56s %14s", "Additional costs (15%)", money(est.AdditionalCosts)),
		highlightStyle.Render(fmt.Sprintf("  %-56s %14s", "Total", money(est.Total))),
	)
	return strings.Join(rows, "\n")
}

func signedMoney(v int64) string {
	if v < 0 {
		return "-" + formatCost(float64(-v))
	}
	return formatCost(float64(v))
}
