package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/otis/internal/export"
	"github.com/sadopc/otis/internal/session"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewInstallations
	viewBudget
	viewInteractions
	viewFeedback
	viewClientFeedback
	viewLogin
)

// viewNames are the tab titles, indexed by viewState.
var viewNames = []string{"Dashboard", "Installations", "Budget", "Interactions", "Feedback", "Rate Us"}

var viewScreens = map[viewState]session.Screen{
	viewDashboard:      session.ScreenDashboard,
	viewInstallations:  session.ScreenInstallations,
	viewBudget:         session.ScreenBudget,
	viewInteractions:   session.ScreenInteractions,
	viewFeedback:       session.ScreenFeedback,
	viewClientFeedback: session.ScreenClientFeedback,
	viewLogin:          session.ScreenLogin,
}

func viewFor(screen session.Screen) viewState {
	if screen == session.ScreenInstallationDetail {
		return viewInstallations
	}
	for v, s := range viewScreens {
		if s == screen {
			return v
		}
	}
	return viewDashboard
}

// --- Messages ---

// SessionChangedMsg reports that another tab logged in or out.
type SessionChangedMsg struct {
	LoggedIn bool
}

// StorageChangedMsg reports that another tab rewrote a durable key.
type StorageChangedMsg struct {
	Key string
}

type loggedInMsg struct {
	screen session.Screen
}

type logoutMsg struct{}

// autoLogoutMsg fires after a client submission. It only logs out while
// that same submission is still on screen.
type autoLogoutMsg struct {
	id int64
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func errStatus(prefix string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

// --- Helpers ---

// timeNow is replaced in tests.
var timeNow = time.Now

func formatCost(cost float64) string {
	return export.FormatCost(cost)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// deadlineLabel renders the days left before a deadline.
func deadlineLabel(days int) string {
	switch {
	case days <= 0:
		return "Overdue"
	case days == 1:
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func stars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
