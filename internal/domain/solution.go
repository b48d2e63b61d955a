package domain

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// Solution is a proposed resolution for a bug. The bug registry lives in an
// external system, so bug_id is a plain column without a local foreign key
// target.
type Solution struct {
	bun.BaseModel `bun:"table:solutions,alias:s"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	BugID       int64  `bun:"bug_id,notnull" json:"bug_id"`
	Title       string `bun:"title,notnull" json:"title"`
	Description string `bun:"description" json:"description"`
}

// Validate checks the solution for required fields.
func (s *Solution) Validate() error {
	if s.BugID == 0 {
		return fmt.Errorf("solution bug_id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("solution title is required")
	}
	return nil
}
