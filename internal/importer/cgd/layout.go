package cgd

// layout names the columns of one CGD export. Signed holds a single signed
// amount column; when empty, Debit and Credit are read instead.
type layout struct {
	Name        string
	Date        string
	Description string
	Signed      string
	Debit       string
	Credit      string
}

func (l layout) required() []string {
	if l.Signed != "" {
		return []string{l.Date, l.Description, l.Signed}
	}

	return []string{l.Date, l.Description, l.Debit, l.Credit}
}

func (l layout) matches(cols columns) bool {
	for _, name := range l.required() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// Most specific first.
var layouts = []layout{
	{Name: "cartão", Date: "Data", Description: "Descrição", Debit: "Débito", Credit: "Crédito"},
	{Name: "extrato", Date: "Data mov.", Description: "Descrição", Signed: "Movimento"},
	{Name: "conta", Date: "Data mov.", Description: "Descrição", Signed: "Montante"},
}
