package specification

import (
	"fmt"
	"strings"

	"faq-chat-be/pkg/retrieval/access"

	"gorm.io/gorm"
)

// VisibleThrough renders an access filter as SQL conditions over the
// document visibility columns. The role clauses are OR-joined, then ANDed
// with the chat-type scope, matching the remote index's filter semantics.
// UserID and ThreadID are not rendered: document_embeddings holds
// organization-wide passages with no per-user or per-thread columns, so role
// and chat type are the only predicates this table can honor. The remote
// path's Filter.Render applies all four.
type VisibleThrough struct {
	Filter access.Filter
}

func (s VisibleThrough) Apply(db *gorm.DB) *gorm.DB {
	clauses := make([]string, 0, len(s.Filter.Roles))
	for _, r := range s.Filter.Roles {
		clauses = append(clauses, fmt.Sprintf("auth_%s = true", strings.ToLower(string(r))))
	}
	if len(clauses) > 0 {
		db = db.Where("(" + strings.Join(clauses, " OR ") + ")")
	}
	if s.Filter.ChatType != "" {
		db = db.Where("chat_type = ?", s.Filter.ChatType)
	}
	return db
}
