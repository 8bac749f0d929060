package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a financial transaction.
type Transaction struct {
	ID          string
	Amount      decimal.Decimal
	Type        Type
	Category    string
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// record is the persisted layout. Amount is written as a JSON number.
type record struct {
	ID          string      `json:"id"`
	Amount      json.Number `json:"amount"`
	Type        Type        `json:"type"`
	Category    string      `json:"category"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		ID:          t.ID,
		Amount:      json.Number(t.Amount.String()),
		Type:        t.Type,
		Category:    t.Category,
		Date:        t.Date,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return fmt.Errorf("transaction %s: amount: %w", r.ID, err)
	}

	if !r.Type.Valid() {
		return fmt.Errorf("transaction %s: unknown type %q", r.ID, r.Type)
	}

	*t = Transaction{
		ID:          r.ID,
		Amount:      amount,
		Type:        r.Type,
		Category:    r.Category,
		Date:        r.Date,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}

	return nil
}
