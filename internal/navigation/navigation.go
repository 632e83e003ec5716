package navigation

import "mekong-backend/internal/pkg/constants"

// Page identifies a client page. The set is open: farmers may navigate to any
// page string, so no closed enum is enforced here.
type Page string

const (
	PageDashboard         Page = "dashboard"
	PageFeed              Page = "feed"
	PageInvest            Page = "invest"
	PageForecast          Page = "forecast"
	PageNotifications     Page = "notifications"
	PageProfile           Page = "profile"
	PageSettings          Page = "settings"
	PageCreateProject     Page = "create-project"
	PageEditProject       Page = "edit-project"
	PageProducts          Page = "products"
	PageBusinessDashboard Page = "business-dashboard"
)

// businessPages is the single source of truth for what a business account may
// reach. Both Navigate and EnsureAllowed consult it, so the two can never
// diverge.
var businessPages = map[Page]struct{}{
	PageInvest:            {},
	PageProfile:           {},
	PageSettings:          {},
	PageCreateProject:     {},
	PageEditProject:       {},
	PageProducts:          {},
	PageBusinessDashboard: {},
}

// IsAllowed reports whether a role may reach a page. Every role except
// business has the full page set.
func IsAllowed(role string, page Page) bool {
	if role != constants.Business {
		return true
	}
	_, ok := businessPages[page]
	return ok
}

// AllowedPages returns the pages a role may reach, or nil when the role is
// unrestricted (open page set).
func AllowedPages(role string) []Page {
	if role != constants.Business {
		return nil
	}
	out := make([]Page, 0, len(businessPages))
	for p := range businessPages {
		out = append(out, p)
	}
	return out
}

// Navigator is the page state machine: one current page, transitions via
// Navigate, re-checked whenever the role changes. Not safe for concurrent use;
// each session owns its own Navigator.
type Navigator struct {
	role    string
	current Page
}

// NewNavigator starts at the dashboard page.
func NewNavigator(role string) *Navigator {
	n := &Navigator{role: role, current: PageDashboard}
	n.EnsureAllowed()
	return n
}

// Current returns the current page.
func (n *Navigator) Current() Page {
	return n.current
}

// Role returns the current role.
func (n *Navigator) Role() string {
	return n.role
}

// Navigate moves to page. A disallowed transition is a silent no-op: the
// current page is unchanged and no error is surfaced.
func (n *Navigator) Navigate(page Page) bool {
	if !IsAllowed(n.role, page) {
		return false
	}
	n.current = page
	return true
}

// SetRole changes the role and re-checks the current page, redirecting if the
// new role may not stay where it is (e.g. a business login landing mid-session
// on a farmer page).
func (n *Navigator) SetRole(role string) {
	n.role = role
	n.EnsureAllowed()
}

// EnsureAllowed force-redirects a business account off a disallowed page to
// the business dashboard. Returns true when a redirect happened.
func (n *Navigator) EnsureAllowed() bool {
	if IsAllowed(n.role, n.current) {
		return false
	}
	n.current = PageBusinessDashboard
	return true
}
