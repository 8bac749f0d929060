package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

var ErrUnknownBank = errors.New("unknown bank")

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Parser turns one bank export into transaction drafts without categories.
type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
