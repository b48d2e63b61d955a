package domain

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// Product is a catalog item belonging to a category. The category foreign
// key is enforced by the datastore, not here; Validate only checks that a
// category id was supplied at all.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	CategoryID  int64   `bun:"category_id,notnull" json:"category_id"`
	Name        string  `bun:"name,notnull" json:"name"`
	Description string  `bun:"description" json:"description"`
	Price       float64 `bun:"price,notnull" json:"price"`

	// Populated on joined reads only, never written back.
	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

// Validate checks the product for required fields.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.CategoryID == 0 {
		return fmt.Errorf("product category_id is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price cannot be negative")
	}
	return nil
}
