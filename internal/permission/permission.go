// Package permission holds the closed permission vocabulary and the pure
// rules mapping a permission set to the UI surface (dashboard widgets and
// sidebar navigation) a role may see.
package permission

// Code is an atomic capability gating a view or action.
type Code string

const (
	ViewProjects    Code = "view_projects"
	ManageProjects  Code = "manage_projects"
	ViewExpenses    Code = "view_expenses"
	AddExpense      Code = "add_expense"
	ViewIncome      Code = "view_income"
	AddIncome       Code = "add_income"
	ViewMaterials   Code = "view_materials"
	ManageMaterials Code = "manage_materials"
	ViewCalendar    Code = "view_calendar"
	ManageCalendar  Code = "manage_calendar"
	ViewDocuments   Code = "view_documents"
	ManageDocuments Code = "manage_documents"
	ViewTeam        Code = "view_team"
	ManageTeam      Code = "manage_team"
	ShareProjects   Code = "share_projects"
	ManageRoles     Code = "manage_roles"
	ManageUsers     Code = "manage_users"
	ViewAudit       Code = "view_audit"
	ManageBilling   Code = "manage_billing"
)

// Definition carries the display metadata seeded into the permissions table.
type Definition struct {
	Code  Code
	Name  string
	Group string
}

// Vocabulary is the complete, closed permission set. Role creation rejects
// any code not listed here.
var Vocabulary = []Definition{
	{ViewProjects, "View projects and phases", "projects"},
	{ManageProjects, "Create and edit projects and phases", "projects"},
	{ViewExpenses, "View expense ledger", "finance"},
	{AddExpense, "Record expenses", "finance"},
	{ViewIncome, "View income ledger", "finance"},
	{AddIncome, "Record income", "finance"},
	{ViewMaterials, "View materials", "materials"},
	{ManageMaterials, "Manage materials", "materials"},
	{ViewCalendar, "View calendar", "calendar"},
	{ManageCalendar, "Create and edit events", "calendar"},
	{ViewDocuments, "View documents", "documents"},
	{ManageDocuments, "Upload and delete documents", "documents"},
	{ViewTeam, "View team members", "team"},
	{ManageTeam, "Manage team members", "team"},
	{ShareProjects, "Create and revoke share links", "sharing"},
	{ManageRoles, "Manage roles and permissions", "admin"},
	{ManageUsers, "Manage user accounts", "admin"},
	{ViewAudit, "View activity history", "admin"},
	{ManageBilling, "Manage subscription and billing", "admin"},
}

var vocabularyIndex = func() map[Code]Definition {
	m := make(map[Code]Definition, len(Vocabulary))
	for _, d := range Vocabulary {
		m[d.Code] = d
	}
	return m
}()

// Valid reports whether code belongs to the closed vocabulary.
func Valid(code string) bool {
	_, ok := vocabularyIndex[Code(code)]
	return ok
}

// Set is an unordered collection of permission codes. Unknown codes are
// carried but never match anything, so a malformed set degrades to
// "show nothing" rather than erroring.
type Set map[Code]struct{}

// NewSet builds a Set from raw code strings.
func NewSet(codes []string) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[Code(c)] = struct{}{}
	}
	return s
}

// Has reports whether the set contains code.
func (s Set) Has(code Code) bool {
	_, ok := s[code]
	return ok
}

// HasCapability is the membership test used to gate individual actions
// (add/edit/delete buttons). Pure and stateless per call.
func HasCapability(perms Set, action string) bool {
	return perms.Has(Code(action))
}
