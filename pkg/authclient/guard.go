package authclient

// SignInPath is where unauthenticated navigation is sent.
const SignInPath = "/login"

// RouteRules declares a view's access requirements.
type RouteRules struct {
	RequireAuth  bool
	AllowedRoles []Role // nil means any authenticated role
}

// GuardState is the slice of the session read model the guard consumes.
type GuardState struct {
	Loading       bool
	Authenticated bool
	Role          Role
}

// DecisionAction is what the caller should do with the navigation.
type DecisionAction int

const (
	// ActionWait renders a neutral loading state. Never redirect while
	// hydration is in flight, or users get bounced to login on every
	// reload.
	ActionWait DecisionAction = iota
	// ActionRender admits the navigation.
	ActionRender
	// ActionRedirect sends the user to Decision.Location.
	ActionRedirect
)

// Decision is the outcome of evaluating a navigation.
type Decision struct {
	Action   DecisionAction
	Location string
	// ReturnTo carries the attempted destination through a login
	// redirect so it can be restored after authentication.
	ReturnTo string
}

// roleHomes maps every role to its canonical landing view. The mapping
// is total: a recognized role never falls through to an error page.
var roleHomes = map[Role]string{
	RoleClient: "/dashboard",
	RoleNurse:  "/nurse",
	RoleAdmin:  "/admin",
}

// RoleHome returns the landing view for a role. Unrecognized roles land
// on the sign-in view.
func RoleHome(role Role) string {
	if home, ok := roleHomes[role]; ok {
		return home
	}
	return SignInPath
}

// Evaluate decides a navigation from its four inputs alone. Pure: no
// I/O, no side effects.
func Evaluate(rules RouteRules, state GuardState, attemptedPath string) Decision {
	if state.Loading {
		return Decision{Action: ActionWait}
	}

	if rules.RequireAuth && !state.Authenticated {
		return Decision{
			Action:   ActionRedirect,
			Location: SignInPath,
			ReturnTo: attemptedPath,
		}
	}

	if len(rules.AllowedRoles) > 0 && !roleAllowed(rules.AllowedRoles, state.Role) {
		return Decision{
			Action:   ActionRedirect,
			Location: RoleHome(state.Role),
		}
	}

	return Decision{Action: ActionRender}
}

func roleAllowed(allowed []Role, role Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
