package matching

import (
	"time"

	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

// Rule files transactions of Type whose description contains Pattern
// under Category.
type Rule struct {
	ID        string           `json:"id"`
	Pattern   string           `json:"pattern"`
	Category  string           `json:"category"`
	Type      transaction.Type `json:"type"`
	CreatedAt time.Time        `json:"createdAt"`
}
