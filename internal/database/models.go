package database

import (
	"storekeeper/internal/domain"
)

// RegisteredModel pairs a table-owning model with the inline foreign key
// clauses its table needs on dialects that cannot add constraints after
// creation (SQLite).
type RegisteredModel struct {
	Model       interface{}
	ForeignKeys []string
}

// RegisteredModels returns the models owning a table, in creation order.
// Referenced tables come before the tables referencing them.
func RegisteredModels() []RegisteredModel {
	return []RegisteredModel{
		{Model: (*domain.Category)(nil)},
		{
			Model:       (*domain.Product)(nil),
			ForeignKeys: []string{`("category_id") REFERENCES "categories" ("id")`},
		},
		{Model: (*domain.Solution)(nil)},
	}
}
