package permission

import "testing"

func keys(widgets []WidgetDescriptor) []string {
	out := make([]string, len(widgets))
	for i, w := range widgets {
		out[i] = w.Key
	}
	return out
}

func TestWidgetsFor_Empty(t *testing.T) {
	widgets := WidgetsFor(NewSet(nil))
	if len(widgets) != 0 {
		t.Fatalf("empty permission set got widgets: %v", keys(widgets))
	}
}

func TestWidgetsFor_SinglePermission(t *testing.T) {
	widgets := WidgetsFor(NewSet([]string{string(ViewExpenses)}))
	if len(widgets) != 1 || widgets[0].Key != "expense_summary" {
		t.Fatalf("view_expenses got %v", keys(widgets))
	}
}

func TestWidgetsFor_AllViewPermissions(t *testing.T) {
	perms := NewSet([]string{
		string(ViewProjects), string(ViewExpenses), string(ViewIncome),
		string(ViewCalendar), string(ViewTeam), string(ViewDocuments),
	})

	widgets := WidgetsFor(perms)
	want := []string{
		"projects_overview", "expense_summary", "income_summary",
		"upcoming_events", "team_activity", "recent_documents",
	}

	if len(widgets) != len(want) {
		t.Fatalf("expected %d widgets, got %v", len(want), keys(widgets))
	}
	for i, w := range widgets {
		if w.Key != want[i] {
			t.Errorf("position %d: got %q, want %q", i, w.Key, want[i])
		}
	}
}

func TestWidgetsFor_IgnoresManagePermissions(t *testing.T) {
	// Manage permissions do not unlock view widgets
	widgets := WidgetsFor(NewSet([]string{
		string(ManageProjects), string(AddExpense), string(ManageRoles),
	}))
	if len(widgets) != 0 {
		t.Fatalf("manage-only set got widgets: %v", keys(widgets))
	}
}

func TestSidebarFor_EmptyShowsProfileOnly(t *testing.T) {
	items := SidebarFor(NewSet(nil))
	if len(items) != 1 || items[0].Key != "profile" {
		t.Fatalf("empty set sidebar = %+v", items)
	}
}

func TestSidebarFor_PreservesOrder(t *testing.T) {
	items := SidebarFor(NewSet([]string{
		string(ViewDocuments), string(ViewProjects), string(ManageBilling),
	}))

	want := []string{"dashboard", "projects", "documents", "billing", "profile"}
	if len(items) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), items)
	}
	for i, item := range items {
		if item.Key != want[i] {
			t.Errorf("position %d: got %q, want %q", i, item.Key, want[i])
		}
	}
}

func TestUnknownCodesUnlockNothing(t *testing.T) {
	set := NewSet([]string{"made_up_code", "projects.view"})
	if got := WidgetsFor(set); len(got) != 0 {
		t.Errorf("unknown codes unlocked widgets: %v", keys(got))
	}
	if got := SidebarFor(set); len(got) != 1 || got[0].Key != "profile" {
		t.Errorf("unknown codes unlocked sidebar entries: %+v", got)
	}
}

func TestHasCapability(t *testing.T) {
	set := NewSet([]string{string(AddExpense)})
	if !HasCapability(set, string(AddExpense)) {
		t.Error("add_expense capability missing")
	}
	if HasCapability(set, string(AddIncome)) {
		t.Error("add_income capability granted without permission")
	}
}

func TestValid(t *testing.T) {
	if !Valid(string(ShareProjects)) {
		t.Error("share_projects should be valid")
	}
	if Valid("projects.share") {
		t.Error("foreign code accepted")
	}
}
