package access

import (
	"strings"
	"testing"
)

func TestBuildFilterHierarchy(t *testing.T) {
	tests := []struct {
		role      Role
		wantRoles []Role
	}{
		{RoleExecutive, []Role{RoleExecutive, RoleManager, RoleEmployee, RoleContract}},
		{RoleManager, []Role{RoleManager, RoleEmployee, RoleContract}},
		{RoleEmployee, []Role{RoleEmployee, RoleContract}},
		{RoleContract, []Role{RoleContract}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := BuildFilter(tt.role)
			if len(got.Roles) != len(tt.wantRoles) {
				t.Fatalf("got %d roles, want %d", len(got.Roles), len(tt.wantRoles))
			}
			for i, want := range tt.wantRoles {
				if got.Roles[i] != want {
					t.Errorf("role %d = %s, want %s", i, got.Roles[i], want)
				}
			}
		})
	}
}

func TestBuildFilterUnknownRoleFailsClosed(t *testing.T) {
	got := BuildFilter(Role("Intern"))
	if len(got.Roles) != 1 || got.Roles[0] != RoleContract {
		t.Errorf("unknown role should see Contract documents only, got %v", got.Roles)
	}

	empty := BuildFilter(Role(""))
	if len(empty.Roles) != 1 || empty.Roles[0] != RoleContract {
		t.Errorf("empty role should see Contract documents only, got %v", empty.Roles)
	}
}

// Each role's visible set must contain every lower role's visible set.
func TestFilterSupersetProperty(t *testing.T) {
	order := []Role{RoleContract, RoleEmployee, RoleManager, RoleExecutive}
	docRoles := order

	for i := 1; i < len(order); i++ {
		higher := BuildFilter(order[i])
		lower := BuildFilter(order[i-1])
		for _, doc := range docRoles {
			if lower.Allows(doc) && !higher.Allows(doc) {
				t.Errorf("%s sees %s documents but %s does not", order[i-1], doc, order[i])
			}
		}
	}
}

func TestWithScopeDoesNotMutate(t *testing.T) {
	base := BuildFilter(RoleManager)
	scoped := base.WithScope("user-1", "thread-1", "faq")

	if base.UserID != "" || base.ThreadID != "" || base.ChatType != "" {
		t.Error("WithScope must return a copy, not mutate the receiver")
	}
	if scoped.UserID != "user-1" || scoped.ThreadID != "thread-1" || scoped.ChatType != "faq" {
		t.Errorf("scoped filter missing fields: %+v", scoped)
	}
}

func TestRender(t *testing.T) {
	filter := BuildFilter(RoleEmployee).WithScope("u-9", "t-3", "faq")
	expr := filter.Render()

	if !strings.HasPrefix(expr, "(auth_employee eq 'true' or auth_contract eq 'true')") {
		t.Errorf("role clause wrong or unparenthesized: %s", expr)
	}
	for _, want := range []string{"user eq 'u-9'", "chatThreadId eq 't-3'", "chatType eq 'faq'"} {
		if !strings.Contains(expr, want) {
			t.Errorf("rendered filter missing %q: %s", want, expr)
		}
	}
	if strings.Contains(expr, "auth_executive") || strings.Contains(expr, "auth_manager") {
		t.Errorf("employee filter must not include higher roles: %s", expr)
	}
}
