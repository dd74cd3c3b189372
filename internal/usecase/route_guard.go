package usecase

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	RouteHome               = "/"
	RouteLogin              = "/login"
	RouteRegister           = "/register"
	RouteForgotPassword     = "/forgot-password"
	RouteDashboard          = "/dashboard"
	RouteStudentDashboard   = "/student-dashboard"
	RouteTutorDashboard     = "/tutor-dashboard"
	RouteTutorVerification  = "/tutor-verification"
	RouteTutorRequestStatus = "/tutor-request-status"
	RouteAdmin              = "/admin"
)

type DecisionAction string

const (
	ActionRender   DecisionAction = "render"
	ActionRedirect DecisionAction = "redirect"
	ActionLoading  DecisionAction = "loading"
)

// Decision is what the client does with a route: render Page, redirect to
// Target, or keep showing a loading state.
type Decision struct {
	Action DecisionAction `json:"action"`
	Target string         `json:"target,omitempty"`
	Page   string         `json:"page,omitempty"`
}

func Render(page string) Decision     { return Decision{Action: ActionRender, Page: page} }
func Redirect(target string) Decision { return Decision{Action: ActionRedirect, Target: target} }
func Loading() Decision               { return Decision{Action: ActionLoading} }

// GuardState is one of GuardLoading, GuardNoSession, GuardGuest, GuardResolved.
type GuardState interface {
	isGuardState()
}

type GuardLoading struct{}
type GuardNoSession struct{}
type GuardGuest struct{}
type GuardResolved struct {
	Role RoleState
}

func (GuardLoading) isGuardState()   {}
func (GuardNoSession) isGuardState() {}
func (GuardGuest) isGuardState()     {}
func (GuardResolved) isGuardState()  {}

// GuardStateFor maps a session and an optional resolved role to a guard
// state. A signed-in user without a resolved role is still loading.
func GuardStateFor(session Session, role RoleState) GuardState {
	switch {
	case session.Loading:
		return GuardLoading{}
	case session.User == nil:
		return GuardNoSession{}
	case session.User.Anonymous:
		return GuardGuest{}
	case role == nil:
		return GuardLoading{}
	default:
		return GuardResolved{Role: role}
	}
}

var pages = map[string]string{
	RouteHome:               "home",
	RouteLogin:              "login",
	RouteRegister:           "register",
	RouteForgotPassword:     "forgot-password",
	RouteDashboard:          "dashboard",
	RouteStudentDashboard:   "student-dashboard",
	RouteTutorDashboard:     "tutor-dashboard",
	RouteTutorVerification:  "tutor-verification",
	RouteTutorRequestStatus: "tutor-request-status",
	RouteAdmin:              "admin",
}

func isAuthPage(path string) bool {
	return path == RouteLogin || path == RouteRegister || path == RouteForgotPassword
}

func isAdminPath(path string) bool {
	return path == RouteAdmin || strings.HasPrefix(path, RouteAdmin+"/")
}

func isKnown(path string) bool {
	_, ok := pages[path]
	return ok || isAdminPath(path)
}

func pageName(path string) string {
	if isAdminPath(path) {
		return "admin" + strings.ReplaceAll(strings.TrimPrefix(path, RouteAdmin), "/", ":")
	}
	return pages[path]
}

// Destination is the landing route for a resolved role.
func Destination(role RoleState) string {
	switch r := role.(type) {
	case AdminRole:
		return RouteAdmin
	case StudentRole:
		return RouteStudentDashboard
	case TutorUnverified:
		return RouteTutorVerification
	case TutorVerified:
		return RouteTutorDashboard
	case PendingRequest:
		return RouteTutorRequestStatus + "?dni=" + url.QueryEscape(r.DNI)
	case Unassigned:
		return RouteDashboard
	default:
		panic(fmt.Sprintf("unhandled role state %T", role))
	}
}

// Decide is the route guard. route is the requested path with an optional
// query string.
func Decide(route string, state GuardState) Decision {
	path := route
	if i := strings.IndexByte(route, '?'); i >= 0 {
		path = route[:i]
	}
	if path == "" {
		path = RouteHome
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	if !isKnown(path) {
		return Render("not-found")
	}

	switch s := state.(type) {
	case GuardLoading:
		return Loading()

	case GuardNoSession:
		if path == RouteHome || isAuthPage(path) {
			return Render(pageName(path))
		}
		return Redirect(RouteLogin + "?redirect=" + url.QueryEscape(route))

	case GuardGuest:
		if path == RouteHome {
			return Render("guest-dashboard")
		}
		if isAuthPage(path) {
			return Render(pageName(path))
		}
		return Redirect(RouteHome)

	case GuardResolved:
		return decideResolved(path, s.Role)

	default:
		panic(fmt.Sprintf("unhandled guard state %T", state))
	}
}

func decideResolved(path string, role RoleState) Decision {
	if path == RouteHome || isAuthPage(path) {
		return Redirect(RouteDashboard)
	}

	destination := Destination(role)

	if _, unassigned := role.(Unassigned); unassigned {
		if path == RouteDashboard {
			return Render("role-chooser")
		}
		return Redirect(RouteDashboard)
	}

	if path == RouteDashboard {
		return Redirect(destination)
	}

	if _, admin := role.(AdminRole); admin && isAdminPath(path) {
		return Render(pageName(path))
	}

	destinationPath := destination
	if i := strings.IndexByte(destination, '?'); i >= 0 {
		destinationPath = destination[:i]
	}
	if path == destinationPath {
		return Render(pageName(path))
	}

	return Redirect(destination)
}
