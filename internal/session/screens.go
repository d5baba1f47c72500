package session

// Screen names a destination of the navigation surface.
type Screen string

const (
	ScreenLogin              Screen = "login"
	ScreenDashboard          Screen = "dashboard"
	ScreenInstallations      Screen = "installations"
	ScreenInstallationDetail Screen = "installation_detail"
	ScreenBudget             Screen = "budget"
	ScreenInteractions       Screen = "interactions"
	ScreenFeedback           Screen = "feedback"
	ScreenClientFeedback     Screen = "client_feedback"
)

var publicScreens = map[Screen]bool{
	ScreenLogin: true,
}

// Landing is the first screen shown after login.
func Landing(role Role) Screen {
	if role == RoleClient {
		return ScreenClientFeedback
	}
	return ScreenDashboard
}

// Allowed gates navigation: public screens are always reachable, every
// other screen requires a logged-in user.
func (s *Session) Allowed(screen Screen) bool {
	return publicScreens[screen] || s.LoggedIn()
}

// Resolve returns screen when allowed, or the login screen otherwise.
func (s *Session) Resolve(screen Screen) Screen {
	if s.Allowed(screen) {
		return screen
	}
	return ScreenLogin
}
