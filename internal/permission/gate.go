package permission

// WidgetDescriptor describes one dashboard display unit.
type WidgetDescriptor struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	DataSource string `json:"data_source"` // API path the widget reads from
	Permission Code   `json:"-"`
}

// NavigationItem describes one sidebar entry.
type NavigationItem struct {
	Key           string `json:"key"`
	Label         string `json:"label"`
	Path          string `json:"path"`
	Permission    Code   `json:"-"`
	AlwaysVisible bool   `json:"-"`
}

// widgetTable is the fixed, ordered dashboard layout. WidgetsFor filters it
// preserving this declaration order.
var widgetTable = []WidgetDescriptor{
	{Key: "projects_overview", Name: "Projects Overview", DataSource: "/api/projects", Permission: ViewProjects},
	{Key: "expense_summary", Name: "Expense Summary", DataSource: "/api/projects/summary/expenses", Permission: ViewExpenses},
	{Key: "income_summary", Name: "Income Summary", DataSource: "/api/projects/summary/income", Permission: ViewIncome},
	{Key: "upcoming_events", Name: "Upcoming Events", DataSource: "/api/events", Permission: ViewCalendar},
	{Key: "team_activity", Name: "Team Activity", DataSource: "/api/audit", Permission: ViewTeam},
	{Key: "recent_documents", Name: "Recent Documents", DataSource: "/api/documents", Permission: ViewDocuments},
}

// sidebarTable is the fixed, ordered navigation. "Profile" is always
// visible regardless of permissions.
var sidebarTable = []NavigationItem{
	{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Permission: ViewProjects},
	{Key: "projects", Label: "Projects", Path: "/projects", Permission: ViewProjects},
	{Key: "expenses", Label: "Expenses", Path: "/expenses", Permission: ViewExpenses},
	{Key: "income", Label: "Income", Path: "/income", Permission: ViewIncome},
	{Key: "materials", Label: "Materials", Path: "/materials", Permission: ViewMaterials},
	{Key: "calendar", Label: "Calendar", Path: "/calendar", Permission: ViewCalendar},
	{Key: "documents", Label: "Documents", Path: "/documents", Permission: ViewDocuments},
	{Key: "team", Label: "Team", Path: "/team", Permission: ViewTeam},
	{Key: "roles", Label: "Roles", Path: "/admin/roles", Permission: ManageRoles},
	{Key: "users", Label: "Users", Path: "/admin/users", Permission: ManageUsers},
	{Key: "audit", Label: "Activity", Path: "/admin/audit", Permission: ViewAudit},
	{Key: "billing", Label: "Billing", Path: "/admin/billing", Permission: ManageBilling},
	{Key: "profile", Label: "Profile", Path: "/profile", AlwaysVisible: true},
}

// WidgetsFor returns the dashboard widgets visible to a permission set,
// preserving table order. An empty result is the "no dashboard access"
// empty state, not an error.
func WidgetsFor(perms Set) []WidgetDescriptor {
	out := make([]WidgetDescriptor, 0, len(widgetTable))
	for _, w := range widgetTable {
		if perms.Has(w.Permission) {
			out = append(out, w)
		}
	}
	return out
}

// SidebarFor returns the navigation entries visible to a permission set,
// preserving table order. Always-visible entries are included for any set.
func SidebarFor(perms Set) []NavigationItem {
	out := make([]NavigationItem, 0, len(sidebarTable))
	for _, n := range sidebarTable {
		if n.AlwaysVisible || perms.Has(n.Permission) {
			out = append(out, n)
		}
	}
	return out
}
