package client

// Well-known routes the guard reasons about.
const (
	RouteHome       = "/"
	RouteLogin      = "/login"
	RouteOnboarding = "/onboarding"
)

// SessionState is the guard's view of the session.
type SessionState int

const (
	// SessionPending means the session lookup has not resolved yet.
	SessionPending SessionState = iota
	// SessionAnonymous means there is no session.
	SessionAnonymous
	// SessionNeedsUsername means the user is authenticated but has not
	// claimed a username yet.
	SessionNeedsUsername
	// SessionReady means the user is authenticated with a username.
	SessionReady
)

// Decision is what the guard tells the UI to do for a route.
type Decision int

const (
	// Allow renders the route.
	Allow Decision = iota
	// Block renders a loading indicator instead of any route content.
	Block
	// RedirectLogin sends the user to the login route.
	RedirectLogin
	// RedirectHome sends the user to the home route.
	RedirectHome
	// RedirectOnboarding sends the user to the onboarding route.
	RedirectOnboarding
)

// Decide gates a route on session state. Pure function; the caller
// re-evaluates it on every route change and every session change. While the
// session is pending nothing renders, so protected content never flashes
// before the redirect decision is known.
func Decide(state SessionState, route string) Decision {
	if state == SessionPending {
		return Block
	}

	onboarding := route == RouteOnboarding
	switch state {
	case SessionNeedsUsername:
		if !onboarding {
			return RedirectOnboarding
		}
	case SessionReady:
		if onboarding {
			return RedirectHome
		}
	case SessionAnonymous:
		if onboarding {
			return RedirectLogin
		}
	}
	return Allow
}
