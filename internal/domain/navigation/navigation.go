package navigation

import (
	"strings"

	"bookeasy/internal/domain/identity"
)

// View is a named screen of the client application.
type View string

const (
	ViewLogin            View = "login"
	ViewBrowse           View = "browse"
	ViewListingDetail    View = "listing_detail"
	ViewMyBookings       View = "my_bookings"
	ViewProviderBookings View = "provider_bookings"
	ViewBusiness         View = "business"
	ViewAdmin            View = "admin"
	ViewUnknown          View = "unknown"
)

type route struct {
	pattern string
	view    View
}

var routes = []route{
	{"/", ViewLogin},
	{"/services", ViewBrowse},
	{"/service/:id", ViewListingDetail},
	{"/my-bookings", ViewMyBookings},
	{"/provider/bookings", ViewProviderBookings},
	{"/business", ViewBusiness},
	{"/admin", ViewAdmin},
}

// Paths of the views a role may land on.
var paths = map[View]string{
	ViewLogin:            "/",
	ViewBrowse:           "/services",
	ViewMyBookings:       "/my-bookings",
	ViewProviderBookings: "/provider/bookings",
	ViewBusiness:         "/business",
	ViewAdmin:            "/admin",
}

// access lists which roles may open each gated view.
var access = map[View][]identity.Role{
	ViewBrowse:           {identity.RoleCustomer},
	ViewListingDetail:    {identity.RoleCustomer},
	ViewMyBookings:       {identity.RoleCustomer},
	ViewProviderBookings: {identity.RoleProvider},
	ViewBusiness:         {identity.RoleProvider},
	ViewAdmin:            {identity.RoleAdministrator},
}

// Outcome is either Allowed, or a redirect to Target.
type Outcome struct {
	Allowed bool   `json:"allowed"`
	Target  View   `json:"target,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Resolve maps a URL path to its view. Segments starting with ':' match any
// non-empty segment; anything unmatched is ViewUnknown.
func Resolve(path string) View {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}
	for _, r := range routes {
		if match(r.pattern, path) {
			return r.view
		}
	}
	return ViewUnknown
}

func match(pattern, path string) bool {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

// Home is the landing view of a role.
func Home(role identity.Role) View {
	switch role {
	case identity.RoleAdministrator:
		return ViewAdmin
	case identity.RoleProvider:
		return ViewBusiness
	default:
		return ViewBrowse
	}
}

func HomePath(role identity.Role) string {
	return paths[Home(role)]
}

// Decide is total over (authenticated, role, view). Following a redirect
// always lands on an allowed view.
func Decide(authenticated bool, role identity.Role, view View) Outcome {
	if !authenticated {
		if view == ViewLogin {
			return Outcome{Allowed: true}
		}
		return redirect(ViewLogin)
	}

	allowed, gated := access[view]
	if !gated {
		// login and unknown paths send a signed-in user home
		return redirect(Home(role))
	}
	for _, r := range allowed {
		if r == role {
			return Outcome{Allowed: true}
		}
	}
	return redirect(Home(role))
}

func redirect(v View) Outcome {
	return Outcome{Target: v, Path: paths[v]}
}
