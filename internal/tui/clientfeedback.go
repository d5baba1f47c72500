package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/otis/internal/store"
)

// autoLogoutDelay is how long the thank-you screen stays up before the
// client is logged out.
const autoLogoutDelay = 5 * time.Second

// clientFeedbackModel is the landing screen of client users: a single
// rating form.
type clientFeedbackModel struct {
	store  *store.Store
	width  int
	height int

	form      *huh.Form
	submitted *store.Feedback
	email     string

	fName    *string
	fProject *string
	fRating  *string
	fComment *string
}

func newClientFeedbackModel(s *store.Store) clientFeedbackModel {
	name, project, rating, comment := "", "", "5", ""
	return clientFeedbackModel{
		store:    s,
		fName:    &name,
		fProject: &project,
		fRating:  &rating,
		fComment: &comment,
	}
}

func (m *clientFeedbackModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m clientFeedbackModel) formActive() bool {
	return m.form != nil && m.submitted == nil
}

// nameFromEmail is the local part of an email address.
func nameFromEmail(email string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return name
}

// reset builds a fresh form, pre-filling the name from the signed in
// user's email.
func (m clientFeedbackModel) reset(email string) (clientFeedbackModel, tea.Cmd) {
	m.email = email
	*m.fName = nameFromEmail(email)
	*m.fProject = ""
	*m.fRating = "5"
	*m.fComment = ""
	m.submitted = nil

	ratingOptions := make([]huh.Option[string], 0, 5)
	for r := 5; r >= 1; r-- {
		ratingOptions = append(ratingOptions, huh.NewOption(stars(r), strconv.Itoa(r)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Your name or company").Value(m.fName).Validate(required("name")),
			huh.NewInput().Title("Project (optional)").Value(m.fProject),
			huh.NewSelect[string]().Title("How would you rate our service?").Options(ratingOptions...).Value(m.fRating),
			huh.NewText().Title("Comment").Value(m.fComment),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return m, m.form.Init()
}

type feedbackSubmittedMsg struct {
	feedback *store.Feedback
}

func (m clientFeedbackModel) submit() tea.Cmd {
	rating, err := strconv.Atoi(*m.fRating)
	if err != nil {
		rating = 5
	}
	sub := store.FeedbackSubmission{
		ClientName:  *m.fName,
		ProjectName: *m.fProject,
		Rating:      rating,
		Comment:     *m.fComment,
	}
	return func() tea.Msg {
		fb, err := m.store.SubmitFeedback(sub)
		if err != nil {
			return errStatus("Send feedback", err)
		}
		return feedbackSubmittedMsg{feedback: fb}
	}
}

func (m clientFeedbackModel) update(msg tea.Msg) (clientFeedbackModel, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackSubmittedMsg:
		m.submitted = msg.feedback
		id := msg.feedback.ID
		return m, tea.Tick(autoLogoutDelay, func(time.Time) tea.Msg { return autoLogoutMsg{id: id} })
	case tea.KeyMsg:
		if m.submitted != nil {
			if key.Matches(msg, keys.Enter) {
				return m, func() tea.Msg { return logoutMsg{} }
			}
			return m, nil
		}
	}

	if m.form == nil {
		return m.reset(m.email)
	}
	if m.submitted != nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	return m, cmd
}

func (m clientFeedbackModel) view() string {
	w := min(m.width-4, 70)

	var content string
	if m.submitted != nil {
		content = lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Render("Thank you for your feedback!"),
			"",
			"We received your rating "+warningStyle.Render(stars(m.submitted.Rating))+".",
			mutedStyle.Render("You will be signed out in a few seconds. Press enter to leave now."),
		)
	} else {
		content = titleStyle.Render("Rate your installation")
		if m.form != nil {
			content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.form.View())
		}
	}

	panel := activePanelStyle.Width(w).Render(content)
	return lipgloss.Place(m.width, max(m.height, lipgloss.Height(panel)), lipgloss.Center, lipgloss.Top, panel)
}
