package access

import (
	"fmt"
	"strings"
)

// Role is the caller's permission level. Roles form a total order over
// document visibility: Executive ⊇ Manager ⊇ Employee ⊇ Contract.
type Role string

const (
	RoleExecutive Role = "Executive"
	RoleManager   Role = "Manager"
	RoleEmployee  Role = "Employee"
	RoleContract  Role = "Contract"
)

// visibilityOrder lists roles from widest to narrowest access.
var visibilityOrder = []Role{RoleExecutive, RoleManager, RoleEmployee, RoleContract}

// Filter is the retrieval-time access predicate. Roles holds every role
// whose documents the caller may see; the session-scoping fields restrict
// results to the caller's own thread. Each search backend renders the
// filter in its own query language.
type Filter struct {
	Roles    []Role
	UserID   string
	ThreadID string
	ChatType string
}

// BuildFilter maps a role to its visibility predicate: the caller sees
// documents visible to their role or any role below it. Unrecognized roles
// get the most restrictive predicate (fail closed).
func BuildFilter(role Role) Filter {
	for i, r := range visibilityOrder {
		if r == role {
			return Filter{Roles: append([]Role(nil), visibilityOrder[i:]...)}
		}
	}
	return Filter{Roles: []Role{RoleContract}}
}

// WithScope returns a copy of the filter ANDed with session-scoping
// predicates. Filter application is always-on: the orchestrator never
// searches with a session-only filter.
func (f Filter) WithScope(userID, threadID, chatType string) Filter {
	f.UserID = userID
	f.ThreadID = threadID
	f.ChatType = chatType
	return f
}

// Allows reports whether a document restricted to docRole is visible
// through this filter.
func (f Filter) Allows(docRole Role) bool {
	for _, r := range f.Roles {
		if r == docRole {
			return true
		}
	}
	return false
}

// Render produces the OData-style filter expression the remote search
// service consumes.
func (f Filter) Render() string {
	clauses := make([]string, 0, len(f.Roles))
	for _, r := range f.Roles {
		clauses = append(clauses, fmt.Sprintf("auth_%s eq 'true'", strings.ToLower(string(r))))
	}
	expr := "(" + strings.Join(clauses, " or ") + ")"

	if f.UserID != "" {
		expr += fmt.Sprintf(" and user eq '%s'", f.UserID)
	}
	if f.ThreadID != "" {
		expr += fmt.Sprintf(" and chatThreadId eq '%s'", f.ThreadID)
	}
	if f.ChatType != "" {
		expr += fmt.Sprintf(" and chatType eq '%s'", f.ChatType)
	}
	return expr
}
