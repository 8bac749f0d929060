package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/budget/internal/importer/cgd"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type Service struct {
	parsers map[Bank]Parser
}

func NewService() *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankCGD: cgd.NewParser(),
		},
	}
}

func (s *Service) Banks() []Bank {
	return []Bank{BankCGD}
}

func (s *Service) Parse(bank Bank, r io.Reader) ([]transaction.CreateParams, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s export: %w", bank, err)
	}

	return rows, nil
}
