package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

var ErrNotFound = errors.New("category not found")

// Category groups transactions of one type. BudgetLimit, when set, is a
// monthly spending ceiling and is only tracked for expense categories.
type Category struct {
	ID          string
	Name        string
	Type        transaction.Type
	BudgetLimit *decimal.Decimal
	CreatedAt   time.Time
}

// HasBudget reports whether a positive budget limit is set.
func (c Category) HasBudget() bool {
	return c.BudgetLimit != nil && c.BudgetLimit.IsPositive()
}

type record struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        transaction.Type `json:"type"`
	BudgetLimit *json.Number     `json:"budgetLimit,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (c Category) MarshalJSON() ([]byte, error) {
	r := record{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		CreatedAt: c.CreatedAt,
	}

	if c.BudgetLimit != nil {
		r.BudgetLimit = new(json.Number(c.BudgetLimit.String()))
	}

	return json.Marshal(r)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	if !r.Type.Valid() {
		return fmt.Errorf("category %s: unknown type %q", r.ID, r.Type)
	}

	*c = Category{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
	}

	if r.BudgetLimit != nil {
		limit, err := decimal.NewFromString(r.BudgetLimit.String())
		if err != nil {
			return fmt.Errorf("category %s: budget limit: %w", r.ID, err)
		}

		c.BudgetLimit = &limit
	}

	return nil
}
