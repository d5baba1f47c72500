package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/otis/internal/query"
	"github.com/sadopc/otis/internal/store"
)

const upcomingCount = 3

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	kpis      query.KPIs
	byCountry []query.Count
	byStatus  []query.Count
	upcoming  []store.Installation

	chart barchart.Model
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.buildChart()
}

type dashboardDataMsg struct {
	installations []store.Installation
	feedback      []store.Feedback
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		installations, err := d.store.ListInstallations()
		if err != nil {
			return errStatus("Load installations", err)
		}
		feedback, err := d.store.ListFeedback()
		if err != nil {
			return errStatus("Load feedback", err)
		}
		return dashboardDataMsg{installations: installations, feedback: feedback}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(dashboardDataMsg); ok {
		d.apply(msg)
	}
	return d, nil
}

func (d *dashboardModel) apply(msg dashboardDataMsg) {
	d.kpis = query.Summarize(msg.installations, msg.feedback)
	d.byCountry = query.Tally(msg.installations, func(i store.Installation) string { return i.Country })
	d.byStatus = query.Tally(msg.installations, func(i store.Installation) string { return string(i.Status) })
	d.upcoming = query.UpcomingDeadlines(msg.installations, upcomingCount)
	d.buildChart()
}

func (d *dashboardModel) buildChart() {
	chartWidth := max(d.width-8, 20)
	chartHeight := 10
	if d.height > 40 {
		chartHeight = 14
	}

	d.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(d.byCountry))
	for i, c := range d.byCountry {
		color := colorPrimary
		if i%2 == 1 {
			color = colorSecondary
		}
		bars = append(bars, barchart.BarData{
			Label: truncate(c.Key, 10),
			Values: []barchart.BarValue{{
				Name:  c.Key,
				Value: float64(c.Count),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderKPIs(contentWidth),
		d.renderChartPanel(contentWidth),
		d.renderUpcomingPanel(contentWidth),
	)
}

func (d dashboardModel) renderKPIs(w int) string {
	cards := []struct{ label, value string }{
		{"Installations", fmt.Sprintf("%d", d.kpis.TotalInstallations)},
		{"In progress", fmt.Sprintf("%d", d.kpis.InProgress)},
		{"On time", formatPercent(d.kpis.OnTimeRate)},
		{"Average cost", formatCost(d.kpis.AverageCost)},
		{"Satisfaction", fmt.Sprintf("%.1f / 5", d.kpis.Satisfaction)},
	}
	cardWidth := max(w/len(cards)-2, 14)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = cardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, kpiLabelStyle.Render(c.label), kpiValueStyle.Render(c.value)),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (d dashboardModel) renderChartPanel(w int) string {
	title := titleStyle.Render("Installations by country")
	if len(d.byCountry) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No installations yet"),
		))
	}

	var tally []string
	for _, c := range d.byStatus {
		s := store.InstallationStatus(c.Key)
		tally = append(tally, installationStatusStyle(s).Render(fmt.Sprintf("● %s %d", s.Label(), c.Count)))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", d.chart.View(), "", strings.Join(tally, "   "),
	))
}

func (d dashboardModel) renderUpcomingPanel(w int) string {
	title := titleStyle.Render("Upcoming deadlines")
	if len(d.upcoming) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing in progress"),
		))
	}

	now := timeNow()
	rows := []string{title}
	for _, inst := range d.upcoming {
		days := query.DaysLeft(inst.Deadline, now)
		dateStyle, leftStyle := highlightStyle, normalItemStyle
		if query.Urgent(days) {
			dateStyle, leftStyle = warningStyle, errorStyle
		}
		rows = append(rows, fmt.Sprintf("  %s  %-10s %-28s %s %3d%%  %s",
			dateStyle.Render(inst.Deadline.String()),
			inst.ID,
			truncate(inst.Client, 28),
			progressBar(inst.Progress, 20),
			inst.Progress,
			leftStyle.Render(deadlineLabel(days)),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
